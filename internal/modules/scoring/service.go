package scoring

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/aristath/factorlens/internal/domain"
)

// Service retrieves price histories and scores them through the Facade
type Service struct {
	facade   *Facade
	prices   domain.PriceSource
	metadata domain.MetadataSource
	workers  int
	log      zerolog.Logger
}

// NewService creates a scoring service. metadata may be nil, in which case
// company names and sectors are left blank.
func NewService(facade *Facade, prices domain.PriceSource, metadata domain.MetadataSource, workers int, log zerolog.Logger) *Service {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Service{
		facade:   facade,
		prices:   prices,
		metadata: metadata,
		workers:  workers,
		log:      log.With().Str("service", "scoring").Logger(),
	}
}

// Benchmarks returns the active calibration
func (s *Service) Benchmarks() *Benchmarks {
	return s.facade.Benchmarks()
}

// ScorePortfolio fetches every ticker and scores the portfolio.
//
// The profile is checked before any network call. Tickers whose history
// cannot be retrieved are skipped and reported alongside the result.
func (s *Service) ScorePortfolio(ctx context.Context, tickers []string, profile RiskProfile) (*PortfolioScore, error) {
	if err := s.facade.Benchmarks().CheckProfile(profile); err != nil {
		return nil, err
	}

	tickers = domain.NormalizeTickers(tickers)
	if len(tickers) == 0 {
		return nil, ErrNoTickers
	}

	inputs, fetchSkipped, err := s.fetchAll(ctx, tickers)
	if err != nil {
		return nil, err
	}

	if len(inputs) == 0 {
		return nil, &NoUsableDataError{Requested: len(tickers), Skipped: fetchSkipped}
	}

	result, err := s.facade.Score(inputs, profile)
	if err != nil {
		// Report retrieval skips alongside the ones the facade made
		var noData *NoUsableDataError
		if errors.As(err, &noData) {
			return nil, &NoUsableDataError{
				Requested: len(tickers),
				Skipped:   append(fetchSkipped, noData.Skipped...),
			}
		}
		return nil, err
	}
	result.Skipped = append(fetchSkipped, result.Skipped...)

	return result, nil
}

// AssetMetrics fetches one ticker and returns its metric record
func (s *Service) AssetMetrics(ctx context.Context, ticker string) (*AssetMetrics, error) {
	ticker = domain.NormalizeTicker(ticker)
	if ticker == "" {
		return nil, ErrNoTickers
	}

	input, err := s.fetch(ctx, ticker)
	if err != nil {
		return nil, err
	}
	metrics, err := s.facade.DeriveMetrics(input)
	if err != nil {
		return nil, err
	}
	return &metrics, nil
}

// fetchAll retrieves every ticker concurrently. Per-ticker failures become
// skip entries; only context cancellation aborts the batch.
func (s *Service) fetchAll(ctx context.Context, tickers []string) ([]AssetInput, []SkippedTicker, error) {
	inputs := make([]AssetInput, len(tickers))
	failures := make([]error, len(tickers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, ticker := range tickers {
		i, ticker := i, ticker
		g.Go(func() error {
			input, err := s.fetch(gctx, ticker)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				failures[i] = err
				return nil
			}
			inputs[i] = input
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("scoring cancelled: %w", err)
	}

	usable := make([]AssetInput, 0, len(tickers))
	skipped := make([]SkippedTicker, 0)
	for i, ticker := range tickers {
		if failures[i] != nil {
			s.log.Warn().Err(failures[i]).Str("ticker", ticker).Msg("Skipping ticker, no price data")
			skipped = append(skipped, SkippedTicker{Ticker: ticker, Reason: failures[i].Error()})
			continue
		}
		usable = append(usable, inputs[i])
	}

	return usable, skipped, nil
}

func (s *Service) fetch(ctx context.Context, ticker string) (AssetInput, error) {
	series, err := s.prices.GetPriceSeries(ctx, ticker)
	if err != nil {
		return AssetInput{}, err
	}

	input := AssetInput{Ticker: ticker, Series: series}
	if s.metadata == nil {
		return input, nil
	}

	meta, err := s.metadata.GetMetadata(ctx, ticker)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return AssetInput{}, err
		}
		s.log.Debug().Err(err).Str("ticker", ticker).Msg("No company metadata")
		return input, nil
	}
	if meta != nil {
		input.Company = meta.Name
		input.Sector = meta.Sector
	}

	return input, nil
}
