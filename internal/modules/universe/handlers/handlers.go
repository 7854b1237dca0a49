// Package handlers provides HTTP handlers for the universe API.
package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/factorlens/internal/modules/universe"
)

// Handler handles universe HTTP requests
type Handler struct {
	registry *universe.Registry
	log      zerolog.Logger
}

// NewHandler creates a new universe handler
func NewHandler(registry *universe.Registry, log zerolog.Logger) *Handler {
	return &Handler{
		registry: registry,
		log:      log.With().Str("handler", "universe").Logger(),
	}
}

// HandleGetUniverses handles GET /api/universes
func (h *Handler) HandleGetUniverses(w http.ResponseWriter, r *http.Request) {
	h.writeData(w, http.StatusOK, h.registry.Groups())
}

// HandleGetUniverse handles GET /api/universes/{name}
func (h *Handler) HandleGetUniverse(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid universe name")
		return
	}

	tickers, ok := h.registry.Tickers(name)
	if !ok {
		h.writeError(w, http.StatusNotFound, "Unknown universe: "+name)
		return
	}

	h.writeData(w, http.StatusOK, universe.Group{Name: name, Tickers: tickers})
}

func (h *Handler) writeData(w http.ResponseWriter, status int, data interface{}) {
	h.writeJSON(w, status, map[string]interface{}{
		"data": data,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
