package di

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/factorlens/internal/clientdata"
	"github.com/aristath/factorlens/internal/clients/yahoo"
	"github.com/aristath/factorlens/internal/config"
	"github.com/aristath/factorlens/internal/modules/scoring"
	scoringhandlers "github.com/aristath/factorlens/internal/modules/scoring/handlers"
	"github.com/aristath/factorlens/internal/modules/universe"
	universehandlers "github.com/aristath/factorlens/internal/modules/universe/handlers"
)

// InitializeServices creates repositories, clients, services and handlers
func InitializeServices(container *Container, cfg *config.Config, log zerolog.Logger) error {
	benchmarks, err := scoring.LoadBenchmarks(cfg.BenchmarksFile)
	if err != nil {
		return fmt.Errorf("failed to load benchmarks: %w", err)
	}
	container.Benchmarks = benchmarks

	container.DefaultProfile = scoring.ParseRiskProfile(cfg.DefaultRiskProfile)
	if err := benchmarks.CheckProfile(container.DefaultProfile); err != nil {
		return fmt.Errorf("DEFAULT_RISK_PROFILE: %w", err)
	}

	// Repositories
	container.History = universe.NewHistoryDB(container.HistoryDB.Conn(), log)
	container.ClientDataRepo = clientdata.NewRepository(container.CacheDB.Conn())

	// Clients
	container.YahooClient = yahoo.NewClient(log, yahoo.WithRateLimit(cfg.YahooRequestsPerSec))

	// Sources
	container.Universes = universe.NewRegistry(universe.DefaultGroups())
	container.PriceSource = universe.NewPriceSource(container.History, container.YahooClient, cfg.PriceCacheTTL, log)
	container.MetadataSource = clientdata.NewMetadataSource(container.ClientDataRepo, container.YahooClient, cfg.MetadataCacheTTL, log)

	// Scoring
	container.ScoringFacade = scoring.NewFacade(benchmarks, cfg.ScoringWorkers, log)
	container.ScoringService = scoring.NewService(
		container.ScoringFacade,
		container.PriceSource,
		container.MetadataSource,
		cfg.ScoringWorkers,
		log,
	)

	// Handlers
	container.ScoringHandler = scoringhandlers.NewHandler(
		container.ScoringService,
		container.Universes,
		container.DefaultProfile,
		log,
	)
	container.UniverseHandler = universehandlers.NewHandler(container.Universes, log)

	log.Info().
		Str("default_profile", string(container.DefaultProfile)).
		Int("workers", cfg.ScoringWorkers).
		Msg("Services initialized")

	return nil
}
