package scheduler

import (
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/factorlens/internal/utils"
)

// CacheExpirer removes entries whose TTL has passed, returning the count
// removed per table
type CacheExpirer interface {
	DeleteAllExpired() (map[string]int64, error)
}

// ExpireCacheJob keeps cache.db from accumulating metadata nobody will
// serve again. Stale entries are only useful as an upstream fallback until
// they expire.
type ExpireCacheJob struct {
	cache CacheExpirer
	log   zerolog.Logger
}

// NewExpireCacheJob creates a new cache expiry job
func NewExpireCacheJob(cache CacheExpirer, log zerolog.Logger) *ExpireCacheJob {
	return &ExpireCacheJob{
		cache: cache,
		log:   log.With().Str("job", "expire_cache").Logger(),
	}
}

// Name returns the job name
func (j *ExpireCacheJob) Name() string {
	return "expire_cache"
}

// Run deletes expired entries from every cache table
func (j *ExpireCacheJob) Run() error {
	defer utils.OperationTimer("expire_cache", time.Minute, j.log)()

	deleted, err := j.cache.DeleteAllExpired()
	if err != nil {
		return fmt.Errorf("failed to expire cache entries: %w", err)
	}

	tables := make([]string, 0, len(deleted))
	for table := range deleted {
		tables = append(tables, table)
	}
	sort.Strings(tables)

	var total int64
	for _, table := range tables {
		total += deleted[table]
		j.log.Debug().Str("table", table).Int64("deleted", deleted[table]).Msg("Expired cache entries")
	}

	j.log.Info().
		Int("tables", len(tables)).
		Int64("deleted", total).
		Msg("Cache expiry completed")

	return nil
}
