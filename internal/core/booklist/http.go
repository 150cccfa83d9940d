package booklist

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/biblioteca/internal/platform/constants"
	requestutil "github.com/taibuivan/biblioteca/internal/platform/request"
	"github.com/taibuivan/biblioteca/internal/platform/respond"
	"github.com/taibuivan/biblioteca/internal/platform/validate"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listLists)
	router.Get("/{id}", handler.getList)
}

func (handler *Handler) listLists(writer http.ResponseWriter, request *http.Request) {
	filter, err := ParseFilter(request.URL.Query())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	lists, status, err := handler.service.ListLists(request.Context(), filter)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	writer.Header().Set(constants.HeaderCacheStatus, string(status))
	respond.Paginated(writer, lists, filter.Page)
}

func (handler *Handler) getList(writer http.ResponseWriter, request *http.Request) {
	raw, err := requestutil.RequiredParam(request, ParamID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		respond.Error(writer, request, validate.Invalid(ParamID, "Must be an integer"))
		return
	}

	list, status, err := handler.service.GetList(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	writer.Header().Set(constants.HeaderCacheStatus, string(status))
	respond.OK(writer, list)
}
