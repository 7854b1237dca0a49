package universe

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/factorlens/internal/domain"
	"github.com/aristath/factorlens/pkg/formulas"
)

// DefaultPriceTTL is how long a synced price history is served without
// asking the upstream again
const DefaultPriceTTL = 24 * time.Hour

// ErrNoPriceData is returned when neither the upstream nor the cache has
// prices for a ticker
var ErrNoPriceData = errors.New("no price data")

// PriceFetcher downloads daily price history from an upstream provider
type PriceFetcher interface {
	GetDailyPrices(ctx context.Context, ticker string) ([]domain.DailyPrice, error)
}

// PriceSource serves adjusted close series from the history cache,
// refreshing from the upstream when the cached copy is stale.
type PriceSource struct {
	history   *HistoryDB
	fetcher   PriceFetcher
	validator *PriceValidator
	ttl       time.Duration
	now       func() time.Time
	log       zerolog.Logger
}

// NewPriceSource creates a cache-first price source
func NewPriceSource(history *HistoryDB, fetcher PriceFetcher, ttl time.Duration, log zerolog.Logger) *PriceSource {
	if ttl <= 0 {
		ttl = DefaultPriceTTL
	}
	return &PriceSource{
		history:   history,
		fetcher:   fetcher,
		validator: NewPriceValidator(log),
		ttl:       ttl,
		now:       time.Now,
		log:       log.With().Str("component", "price_source").Logger(),
	}
}

// GetPriceSeries implements domain.PriceSource
func (s *PriceSource) GetPriceSeries(ctx context.Context, ticker string) (formulas.PriceSeries, error) {
	info, err := s.history.GetSyncInfo(ctx, ticker)
	if err != nil {
		return nil, err
	}

	if info != nil && s.now().Sub(info.SyncedAt) < s.ttl {
		prices, err := s.history.GetDailyPrices(ctx, ticker)
		if err != nil {
			return nil, err
		}
		if len(prices) > 0 {
			return domain.ToPriceSeries(prices)
		}
	}

	prices, err := s.Refresh(ctx, ticker)
	if err == nil {
		return domain.ToPriceSeries(prices)
	}
	if ctx.Err() != nil {
		return nil, err
	}

	stale, staleErr := s.history.GetDailyPrices(ctx, ticker)
	if staleErr != nil || len(stale) == 0 {
		return nil, err
	}

	s.log.Warn().
		Err(err).
		Str("ticker", ticker).
		Int("points", len(stale)).
		Msg("Upstream fetch failed, using stale price history")

	return domain.ToPriceSeries(stale)
}

// Refresh downloads a ticker's history, repairs glitches and stores it
func (s *PriceSource) Refresh(ctx context.Context, ticker string) ([]domain.DailyPrice, error) {
	prices, err := s.fetcher.GetDailyPrices(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch prices for %s: %w", ticker, err)
	}
	if len(prices) == 0 {
		return nil, fmt.Errorf("%s: %w", ticker, ErrNoPriceData)
	}

	cleaned, interpolated := s.validator.ValidateAndInterpolate(prices)
	if len(cleaned) == 0 {
		return nil, fmt.Errorf("%s: %w", ticker, ErrNoPriceData)
	}
	if len(interpolated) > 0 {
		s.log.Info().
			Str("ticker", ticker).
			Int("interpolated", len(interpolated)).
			Msg("Repaired abnormal prices")
	}

	if err := s.history.SyncHistoricalPrices(ctx, ticker, cleaned, s.now().UTC()); err != nil {
		return nil, err
	}

	return cleaned, nil
}
