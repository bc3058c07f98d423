package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// HealthRoutes registers the probes on router. They run without a session.
func (h *Handler) HealthRoutes(router chi.Router) {
	router.Get("/healthz", h.healthHandler)
	router.Get("/readyz", h.readyHandler)
}

// GET: /healthz
func (h *Handler) healthHandler(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

// GET: /readyz
func (h *Handler) readyHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Client(r).Health(r.Context()); err != nil {
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, map[string]string{"status": "unavailable", "error": err.Error()})
		return
	}

	render.JSON(w, r, map[string]string{"status": "ok"})
}
