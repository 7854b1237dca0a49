// Package di provides dependency injection wiring and initialization.
package di

import (
	"github.com/aristath/factorlens/internal/clientdata"
	"github.com/aristath/factorlens/internal/clients/yahoo"
	"github.com/aristath/factorlens/internal/database"
	"github.com/aristath/factorlens/internal/modules/scoring"
	scoringhandlers "github.com/aristath/factorlens/internal/modules/scoring/handlers"
	"github.com/aristath/factorlens/internal/modules/universe"
	universehandlers "github.com/aristath/factorlens/internal/modules/universe/handlers"
	"github.com/aristath/factorlens/internal/scheduler"
)

// Container holds all application dependencies
type Container struct {
	// Databases
	HistoryDB *database.DB
	CacheDB   *database.DB

	// Repositories
	History        *universe.HistoryDB
	ClientDataRepo *clientdata.Repository

	// Clients
	YahooClient *yahoo.Client

	// Services
	Universes      *universe.Registry
	PriceSource    *universe.PriceSource
	MetadataSource *clientdata.MetadataSource
	Benchmarks     *scoring.Benchmarks
	ScoringFacade  *scoring.Facade
	ScoringService *scoring.Service
	DefaultProfile scoring.RiskProfile

	// Handlers
	ScoringHandler  *scoringhandlers.Handler
	UniverseHandler *universehandlers.Handler
}

// Databases returns every open database
func (c *Container) Databases() []*database.DB {
	dbs := make([]*database.DB, 0, 2)
	for _, db := range []*database.DB{c.HistoryDB, c.CacheDB} {
		if db != nil {
			dbs = append(dbs, db)
		}
	}
	return dbs
}

// Close closes every open database
func (c *Container) Close() {
	for _, db := range c.Databases() {
		db.Close()
	}
}

// JobInstances holds the background jobs
type JobInstances struct {
	RefreshPrices       *scheduler.RefreshPricesJob
	PrunePrices         *scheduler.PrunePricesJob
	CheckWALCheckpoints *scheduler.CheckWALCheckpointsJob
	ExpireCache         *scheduler.ExpireCacheJob
}

// All returns the jobs as a list for manual triggering
func (j *JobInstances) All() []scheduler.Job {
	return []scheduler.Job{
		j.RefreshPrices,
		j.PrunePrices,
		j.CheckWALCheckpoints,
		j.ExpireCache,
	}
}
