package category

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nfalco/parley/internal/platform/middleware"
	requestutil "github.com/nfalco/parley/internal/platform/request"
	"github.com/nfalco/parley/internal/platform/respond"
	"github.com/nfalco/parley/internal/platform/sec"
	"github.com/nfalco/parley/internal/platform/validate"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listCategories)

	// Structural changes are reserved for administrators
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(sec.RoleAdmin))
		r.Post("/", handler.createCategory)
		r.Delete("/{id}", handler.deleteCategory)
	})
}

type createCategoryRequest struct {
	Name string `json:"name"`
	Ord  *int   `json:"order,omitempty"`
}

func (handler *Handler) createCategory(writer http.ResponseWriter, request *http.Request) {
	var input createCategoryRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required("name", input.Name).MaxLen("name", input.Name, MaxNameLength)
	if input.Ord != nil {
		validator.Custom("order", *input.Ord < 1, "Must be a positive position")
	}
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.service.CreateCategory(request.Context(), CreateInput{Name: input.Name, Ord: input.Ord})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

func (handler *Handler) listCategories(writer http.ResponseWriter, request *http.Request) {
	categories, err := handler.service.ListCategories(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, categories)
}

func (handler *Handler) deleteCategory(writer http.ResponseWriter, request *http.Request) {
	id := chi.URLParam(request, "id")

	if err := handler.service.DeleteCategory(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
