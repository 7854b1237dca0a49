// Package main is the entry point for the factorlens scoring service.
//
// Startup sequence:
// 1. Load configuration from the environment (.env supported)
// 2. Initialize logging
// 3. Wire databases, clients, services and jobs via the DI container
// 4. Start the scheduler and the HTTP server
// 5. Wait for a shutdown signal and stop gracefully
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aristath/factorlens/internal/config"
	"github.com/aristath/factorlens/internal/di"
	"github.com/aristath/factorlens/internal/scheduler"
	"github.com/aristath/factorlens/internal/server"
	"github.com/aristath/factorlens/pkg/logger"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{
			Level:  "info",
			Pretty: true,
		})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	log.Info().Str("version", version).Msg("Starting factorlens")

	sched := scheduler.New(log)

	container, jobs, err := di.Wire(cfg, sched, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}
	defer container.Close()

	srv := server.New(server.Config{
		Log:       log,
		Version:   version,
		DataDir:   cfg.DataDir,
		Databases: container.Databases(),
		Modules: []server.RouteRegistrar{
			container.ScoringHandler,
			container.UniverseHandler,
		},
		Jobs:           jobs.All(),
		Scheduler:      sched,
		CORSOrigins:    cfg.CORSAllowedOrigins,
		Port:           cfg.Port,
		RequestTimeout: cfg.RequestTimeout,
		DevMode:        cfg.DevMode,
	})

	sched.Start()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started")

	// Warm the price cache in the background so the first requests are fast
	go func() {
		if err := sched.RunNow(jobs.RefreshPrices); err != nil {
			log.Warn().Err(err).Msg("Initial price refresh failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	sched.Stop()

	log.Info().Msg("Server stopped")
}
