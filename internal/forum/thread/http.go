package thread

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
	router.Get("/", handler.listThreads)
	router.Get("/{id}", handler.getThread)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/", handler.createThread)
		r.Patch("/{id}", handler.editThread)
		r.Delete("/{id}", handler.deleteThread)
	})

	// Pin and lock are moderation tools
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(sec.RoleModerator))
		r.Post("/{id}/pin", handler.setPinned(true))
		r.Post("/{id}/unpin", handler.setPinned(false))
		r.Post("/{id}/lock", handler.setLocked(true))
		r.Post("/{id}/unlock", handler.setLocked(false))
	})
}

type createThreadRequest struct {
	ForumID string `json:"forum_id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type editThreadRequest struct {
	Title string `json:"title"`
}

func (handler *Handler) createThread(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createThreadRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required("forum_id", input.ForumID).
		UUID("forum_id", input.ForumID).
		Required("title", input.Title).
		MaxLen("title", input.Title, MaxTitleLength).
		Required("content", input.Content).
		MaxLen("content", input.Content, MaxContentLength)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.service.CreateThread(request.Context(), CreateInput{
		BoardID:  input.ForumID,
		AuthorID: claims.UserID(),
		Title:    input.Title,
		Content:  input.Content,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

func (handler *Handler) listThreads(writer http.ResponseWriter, request *http.Request) {
	forumID := request.URL.Query().Get("forum_id")

	validator := &validate.Validator{}
	validator.Required("forum_id", forumID).UUID("forum_id", forumID)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	threads, total, err := handler.service.ListThreads(request.Context(), forumID, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, threads, pagination.NewMeta(params.Page, params.Limit, total))
}

func (handler *Handler) getThread(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")

	found, err := handler.service.GetThread(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, found)
}

func (handler *Handler) editThread(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input editThreadRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required("title", input.Title).MaxLen("title", input.Title, MaxTitleLength)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.service.EditTitle(request.Context(),
		requestutil.Param(request, "id"), claims.UserID(), sec.ParseRole(claims.Role), input.Title)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}

func (handler *Handler) deleteThread(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	err = handler.service.DeleteThread(request.Context(),
		requestutil.Param(request, "id"), claims.UserID(), sec.ParseRole(claims.Role))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

func (handler *Handler) setPinned(pinned bool) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		id := requestutil.Param(request, "id")
		if err := handler.service.SetPinned(request.Context(), id, pinned); err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.NoContent(writer)
	}
}

func (handler *Handler) setLocked(locked bool) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		id := requestutil.Param(request, "id")
		if err := handler.service.SetLocked(request.Context(), id, locked); err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.NoContent(writer)
	}
}
