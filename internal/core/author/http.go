package author

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/biblioteca/internal/platform/constants"
	requestutil "github.com/taibuivan/biblioteca/internal/platform/request"
	"github.com/taibuivan/biblioteca/internal/platform/respond"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listAuthors)
	router.Get("/{term}", handler.searchAuthors)
}

func (handler *Handler) listAuthors(writer http.ResponseWriter, request *http.Request) {
	filter, err := ParseFilter(request.URL.Query())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	authors, status, err := handler.service.ListAuthors(request.Context(), filter)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	writer.Header().Set(constants.HeaderCacheStatus, string(status))
	respond.Paginated(writer, authors, filter.Page)
}

func (handler *Handler) searchAuthors(writer http.ResponseWriter, request *http.Request) {
	authors, status, err := handler.service.SearchAuthors(request.Context(), requestutil.Param(request, ParamTerm))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	writer.Header().Set(constants.HeaderCacheStatus, string(status))
	respond.List(writer, authors)
}
