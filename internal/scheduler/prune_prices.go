package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// PricePruner deletes cached prices older than a cutoff
type PricePruner interface {
	DeletePricesBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// PrunePricesJob keeps the price cache bounded to the retention window
type PrunePricesJob struct {
	pruner    PricePruner
	retention time.Duration
	now       func() time.Time
	log       zerolog.Logger
}

// NewPrunePricesJob creates a new price pruning job
func NewPrunePricesJob(pruner PricePruner, retention time.Duration, log zerolog.Logger) *PrunePricesJob {
	return &PrunePricesJob{
		pruner:    pruner,
		retention: retention,
		now:       time.Now,
		log:       log.With().Str("job", "prune_prices").Logger(),
	}
}

// Name returns the job name
func (j *PrunePricesJob) Name() string {
	return "prune_prices"
}

// Run deletes prices older than the retention window
func (j *PrunePricesJob) Run() error {
	cutoff := j.now().Add(-j.retention)

	deleted, err := j.pruner.DeletePricesBefore(context.Background(), cutoff)
	if err != nil {
		j.log.Error().Err(err).Msg("Failed to prune price history")
		return err
	}

	j.log.Debug().Int64("deleted", deleted).Msg("Price history pruned")
	return nil
}
