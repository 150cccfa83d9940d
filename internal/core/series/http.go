package series

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
	router.Get("/", handler.searchSeries)
}

func (handler *Handler) searchSeries(writer http.ResponseWriter, request *http.Request) {
	term, err := requestutil.RequiredQuery(request, ParamSearch)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	series, status, err := handler.service.SearchSeries(request.Context(), term)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	writer.Header().Set(constants.HeaderCacheStatus, string(status))
	respond.List(writer, series)
}
