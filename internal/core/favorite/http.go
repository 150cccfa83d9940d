package favorite

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/biblioteca/internal/platform/request"
	"github.com/taibuivan/biblioteca/internal/platform/respond"
	"github.com/taibuivan/biblioteca/internal/platform/validate"
)

// ParamType is the path parameter naming the favorite kind.
const ParamType = "type"

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listAll)
	router.Post("/", handler.save)
	router.Patch("/", handler.update)
	router.Get("/{type}", handler.listByType)
	router.Delete("/{type}", handler.delete)
}

func (handler *Handler) save(writer http.ResponseWriter, request *http.Request) {
	var input SaveInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.Save(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if result.Duplicate {
		respond.OK(writer, result)
		return
	}
	respond.Created(writer, result)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	var input UpdateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.Update(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, result)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	rawType := requestutil.Param(request, ParamType)
	rawID := request.URL.Query().Get(DeleteIDParam(rawType))

	result, err := handler.service.Delete(request.Context(), rawType, rawID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, result)
}

func (handler *Handler) listAll(writer http.ResponseWriter, request *http.Request) {
	favorites, err := handler.service.All(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.List(writer, favorites)
}

func (handler *Handler) listByType(writer http.ResponseWriter, request *http.Request) {
	rawType := requestutil.Param(request, ParamType)
	kind, ok := ParseKind(rawType)
	if !ok {
		respond.Error(writer, request, validate.Invalid(ParamType, "Unknown favorite type"))
		return
	}

	ctx := request.Context()
	switch kind {
	case KindAuthor:
		items, err := handler.service.Authors(ctx)
		finish(writer, request, items, err)
	case KindBook:
		items, err := handler.service.Books(ctx)
		finish(writer, request, items, err)
	case KindList:
		items, err := handler.service.Lists(ctx)
		finish(writer, request, items, err)
	case KindSeries:
		items, err := handler.service.Series(ctx)
		finish(writer, request, items, err)
	}
}

func finish[T any](writer http.ResponseWriter, request *http.Request, items []T, err error) {
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.List(writer, items)
}
