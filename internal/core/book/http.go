package book

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
	router.Get("/", handler.listBooks)
	router.Get("/{term}", handler.searchBooks)
}

func (handler *Handler) listBooks(writer http.ResponseWriter, request *http.Request) {
	filter, err := ParseFilter(request.URL.Query())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	books, status, err := handler.service.ListBooks(request.Context(), filter)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	writer.Header().Set(constants.HeaderCacheStatus, string(status))
	respond.Paginated(writer, books, filter.Page)
}

func (handler *Handler) searchBooks(writer http.ResponseWriter, request *http.Request) {
	books, status, err := handler.service.SearchBooks(request.Context(), requestutil.Param(request, ParamTerm))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	writer.Header().Set(constants.HeaderCacheStatus, string(status))
	respond.List(writer, books)
}
