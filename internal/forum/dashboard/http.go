package dashboard

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nfalco/parley/internal/platform/middleware"
	"github.com/nfalco/parley/internal/platform/respond"
	"github.com/nfalco/parley/internal/platform/sec"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(sec.RoleModerator))
		r.Get("/", handler.getStats)
	})
}

func (handler *Handler) getStats(writer http.ResponseWriter, request *http.Request) {
	stats, err := handler.service.GetStats(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, stats)
}
