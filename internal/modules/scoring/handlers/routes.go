package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all scoring routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/scoring", func(r chi.Router) {
		r.Post("/portfolio", h.HandleScorePortfolio)
		r.Get("/securities/{ticker}", h.HandleGetSecurityMetrics)
		r.Get("/benchmarks", h.HandleGetBenchmarks)
		r.Get("/profiles", h.HandleGetProfiles)
	})
}
