package board

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
	router.Get("/", handler.listBoards)
	router.Get("/{id}", handler.getBoard)

	// Structural changes are reserved for administrators
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(sec.RoleAdmin))
		r.Post("/", handler.createBoard)
		r.Patch("/{id}", handler.updateBoard)
	})
}

type createBoardRequest struct {
	CategoryID  string `json:"category_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type updateBoardRequest struct {
	CategoryID  *string `json:"category_id,omitempty"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (handler *Handler) createBoard(writer http.ResponseWriter, request *http.Request) {
	var input createBoardRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required("category_id", input.CategoryID).
		UUID("category_id", input.CategoryID).
		Required("name", input.Name).
		MaxLen("name", input.Name, MaxNameLength).
		MaxLen("description", input.Description, MaxDescriptionLength)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.service.CreateBoard(request.Context(), CreateInput{
		CategoryID:  input.CategoryID,
		Name:        input.Name,
		Description: input.Description,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

func (handler *Handler) listBoards(writer http.ResponseWriter, request *http.Request) {
	boards, err := handler.service.ListBoards(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, boards)
}

func (handler *Handler) getBoard(writer http.ResponseWriter, request *http.Request) {
	id := chi.URLParam(request, "id")

	found, err := handler.service.GetBoard(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, found)
}

func (handler *Handler) updateBoard(writer http.ResponseWriter, request *http.Request) {
	id := chi.URLParam(request, "id")

	var input updateBoardRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	if input.Name != nil {
		validator.Required("name", *input.Name).MaxLen("name", *input.Name, MaxNameLength)
	}
	if input.Description != nil {
		validator.MaxLen("description", *input.Description, MaxDescriptionLength)
	}
	if input.CategoryID != nil {
		validator.UUID("category_id", *input.CategoryID)
	}
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.service.UpdateBoard(request.Context(), id, UpdateInput{
		Name:        input.Name,
		Description: input.Description,
		CategoryID:  input.CategoryID,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}
