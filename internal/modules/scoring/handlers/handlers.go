// Package handlers provides HTTP handlers for the scoring API.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/factorlens/internal/domain"
	"github.com/aristath/factorlens/internal/modules/scoring"
)

// Scorer is the part of scoring.Service the handlers use
type Scorer interface {
	ScorePortfolio(ctx context.Context, tickers []string, profile scoring.RiskProfile) (*scoring.PortfolioScore, error)
	AssetMetrics(ctx context.Context, ticker string) (*scoring.AssetMetrics, error)
	Benchmarks() *scoring.Benchmarks
}

// Handler handles scoring HTTP requests
type Handler struct {
	scorer         Scorer
	universes      domain.UniverseProvider
	defaultProfile scoring.RiskProfile
	log            zerolog.Logger
}

// NewHandler creates a new scoring handler
func NewHandler(
	scorer Scorer,
	universes domain.UniverseProvider,
	defaultProfile scoring.RiskProfile,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		scorer:         scorer,
		universes:      universes,
		defaultProfile: defaultProfile,
		log:            log.With().Str("handler", "scoring").Logger(),
	}
}

// PortfolioRequest represents a request to score a portfolio.
// Universe is used when Tickers is empty; Profile falls back to the
// configured default.
type PortfolioRequest struct {
	Tickers  []string `json:"tickers"`
	Universe string   `json:"universe,omitempty"`
	Profile  string   `json:"profile,omitempty"`
}

// HandleScorePortfolio handles POST /api/scoring/portfolio
func (h *Handler) HandleScorePortfolio(w http.ResponseWriter, r *http.Request) {
	var req PortfolioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode request body")
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	tickers := req.Tickers
	if len(tickers) == 0 && req.Universe != "" {
		groupTickers, ok := h.universes.Tickers(req.Universe)
		if !ok {
			h.writeError(w, http.StatusNotFound, "Unknown universe: "+req.Universe)
			return
		}
		tickers = groupTickers
	}

	profile := h.defaultProfile
	if req.Profile != "" {
		profile = scoring.ParseRiskProfile(req.Profile)
	}

	result, err := h.scorer.ScorePortfolio(r.Context(), tickers, profile)
	if err != nil {
		h.writeScoringError(w, err)
		return
	}

	h.writeData(w, http.StatusOK, result)
}

// HandleGetSecurityMetrics handles GET /api/scoring/securities/{ticker}
func (h *Handler) HandleGetSecurityMetrics(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")

	metrics, err := h.scorer.AssetMetrics(r.Context(), ticker)
	if err != nil {
		h.writeScoringError(w, err)
		return
	}

	h.writeData(w, http.StatusOK, metrics)
}

// HandleGetBenchmarks handles GET /api/scoring/benchmarks
func (h *Handler) HandleGetBenchmarks(w http.ResponseWriter, r *http.Request) {
	h.writeData(w, http.StatusOK, h.scorer.Benchmarks())
}

// HandleGetProfiles handles GET /api/scoring/profiles
func (h *Handler) HandleGetProfiles(w http.ResponseWriter, r *http.Request) {
	h.writeData(w, http.StatusOK, map[string]interface{}{
		"profiles": h.scorer.Benchmarks().RiskProfiles(),
		"default":  h.defaultProfile,
		"factors":  scoring.Factors(),
	})
}

// writeScoringError maps scoring errors to status codes
func (h *Handler) writeScoringError(w http.ResponseWriter, err error) {
	var profileErr *scoring.UnknownProfileError
	var noDataErr *scoring.NoUsableDataError
	switch {
	case errors.As(err, &profileErr):
		h.writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":    err.Error(),
			"profiles": profileErr.Valid,
		})
	case errors.As(err, &noDataErr):
		h.writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":   err.Error(),
			"skipped": noDataErr.Skipped,
		})
	case errors.Is(err, scoring.ErrNoTickers):
		h.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, scoring.ErrNoUsableData):
		h.writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		h.writeError(w, http.StatusGatewayTimeout, "Timed out retrieving price data")
	case errors.Is(err, context.Canceled):
		h.log.Debug().Err(err).Msg("Request cancelled")
	default:
		h.log.Error().Err(err).Msg("Scoring failed")
		h.writeError(w, http.StatusBadGateway, "Failed to retrieve price data")
	}
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
