package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/factorlens/internal/domain"
	"github.com/aristath/factorlens/internal/utils"
)

// PriceRefresher re-downloads and stores a ticker's price history
type PriceRefresher interface {
	Refresh(ctx context.Context, ticker string) ([]domain.DailyPrice, error)
}

// TickerLister lists the tickers to keep warm
type TickerLister interface {
	AllTickers() []string
}

// RefreshPricesJob refreshes the cached history of every universe ticker
// so that scoring requests are served from the database.
type RefreshPricesJob struct {
	refresher PriceRefresher
	tickers   TickerLister
	timeout   time.Duration
	log       zerolog.Logger
}

// NewRefreshPricesJob creates a new price refresh job
func NewRefreshPricesJob(refresher PriceRefresher, tickers TickerLister, timeout time.Duration, log zerolog.Logger) *RefreshPricesJob {
	return &RefreshPricesJob{
		refresher: refresher,
		tickers:   tickers,
		timeout:   timeout,
		log:       log.With().Str("job", "refresh_prices").Logger(),
	}
}

// Name returns the job name
func (j *RefreshPricesJob) Name() string {
	return "refresh_prices"
}

// Run refreshes every ticker. A failing ticker does not stop the others;
// the job fails only when no ticker could be refreshed.
func (j *RefreshPricesJob) Run() error {
	defer utils.OperationTimer("refresh_prices", 10*time.Minute, j.log)()

	ctx := context.Background()
	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	tickers := j.tickers.AllTickers()
	refreshed, failed := 0, 0
	for _, ticker := range tickers {
		if ctx.Err() != nil {
			return fmt.Errorf("price refresh interrupted after %d tickers: %w", refreshed+failed, ctx.Err())
		}

		prices, err := j.refresher.Refresh(ctx, ticker)
		if err != nil {
			j.log.Warn().Err(err).Str("ticker", ticker).Msg("Failed to refresh prices")
			failed++
			continue
		}

		j.log.Debug().Str("ticker", ticker).Int("points", len(prices)).Msg("Refreshed prices")
		refreshed++
	}

	j.log.Info().
		Int("refreshed", refreshed).
		Int("failed", failed).
		Msg("Price refresh completed")

	if refreshed == 0 && failed > 0 {
		return fmt.Errorf("failed to refresh any of %d tickers", failed)
	}
	return nil
}
