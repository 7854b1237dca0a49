package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all universe routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/universes", func(r chi.Router) {
		r.Get("/", h.HandleGetUniverses)
		r.Get("/{name}", h.HandleGetUniverse)
	})
}
