package post

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nfalco/parley/internal/platform/middleware"
	"github.com/nfalco/parley/internal/platform/respond"
	"github.com/nfalco/parley/internal/platform/sec"
	"github.com/nfalco/parley/internal/platform/validate"
	"github.com/nfalco/parley/pkg/pagination"

	requestutil "github.com/nfalco/parley/internal/platform/request"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listPosts)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/", handler.createPost)
		r.Patch("/{id}", handler.editPost)
		r.Delete("/{id}", handler.deletePost)
	})
}

type createPostRequest struct {
	ThreadID string `json:"thread_id"`
	Content  string `json:"content"`
}

type editPostRequest struct {
	Content string `json:"content"`
}

func (handler *Handler) createPost(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createPostRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required("thread_id", input.ThreadID).
		UUID("thread_id", input.ThreadID).
		Required("content", input.Content).
		MaxLen("content", input.Content, MaxContentLength)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.service.CreatePost(request.Context(), CreateInput{
		ThreadID: input.ThreadID,
		AuthorID: claims.UserID(),
		Content:  input.Content,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

func (handler *Handler) listPosts(writer http.ResponseWriter, request *http.Request) {
	threadID := request.URL.Query().Get("thread_id")

	validator := &validate.Validator{}
	validator.Required("thread_id", threadID).UUID("thread_id", threadID)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	posts, total, err := handler.service.ListPosts(request.Context(), threadID, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, posts, pagination.NewMeta(params.Page, params.Limit, total))
}

func (handler *Handler) editPost(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input editPostRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required("content", input.Content).MaxLen("content", input.Content, MaxContentLength)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.service.EditContent(request.Context(),
		requestutil.Param(request, "id"), claims.UserID(), sec.ParseRole(claims.Role), input.Content)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}

func (handler *Handler) deletePost(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	err = handler.service.DeletePost(request.Context(),
		requestutil.Param(request, "id"), claims.UserID(), sec.ParseRole(claims.Role))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
