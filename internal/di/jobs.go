package di

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/factorlens/internal/config"
	"github.com/aristath/factorlens/internal/scheduler"
)

// RegisterJobs creates the background jobs and schedules them
func RegisterJobs(container *Container, cfg *config.Config, sched *scheduler.Scheduler, log zerolog.Logger) (*JobInstances, error) {
	jobs := &JobInstances{
		RefreshPrices:       scheduler.NewRefreshPricesJob(container.PriceSource, container.Universes, cfg.RequestTimeout*10, log),
		PrunePrices:         scheduler.NewPrunePricesJob(container.History, cfg.PriceRetention, log),
		CheckWALCheckpoints: scheduler.NewCheckWALCheckpointsJob(log, container.Databases()...),
		ExpireCache:         scheduler.NewExpireCacheJob(container.ClientDataRepo, log),
	}

	schedules := []struct {
		schedule string
		job      scheduler.Job
	}{
		{cfg.PriceRefreshSchedule, jobs.RefreshPrices},
		{"0 0 3 * * SUN", jobs.PrunePrices},
		{"0 0 * * * *", jobs.CheckWALCheckpoints},
		{"0 15 4 * * *", jobs.ExpireCache},
	}

	for _, s := range schedules {
		if err := sched.AddJob(s.schedule, s.job); err != nil {
			return nil, fmt.Errorf("failed to schedule %s: %w", s.job.Name(), err)
		}
	}

	return jobs, nil
}
