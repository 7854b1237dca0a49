// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/aristath/factorlens/internal/utils"
)

// MinPriceRetention is the shortest price retention that still covers the
// ten year look-back of the longest CAGR window. Rolling windows are taken
// inside that same history.
const MinPriceRetention = 10 * 365 * 24 * time.Hour

// Config holds application configuration
type Config struct {
	DataDir              string // Base directory for the SQLite caches (always absolute)
	LogLevel             string
	DefaultRiskProfile   string
	BenchmarksFile       string // Optional YAML overrides of the built-in benchmarks
	PriceRefreshSchedule string // Six-field cron expression
	CORSAllowedOrigins   []string
	Port                 int
	ScoringWorkers       int
	YahooRequestsPerSec  float64
	PriceCacheTTL        time.Duration
	MetadataCacheTTL     time.Duration
	PriceRetention       time.Duration
	RequestTimeout       time.Duration
	DevMode              bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("FACTORLENS_DATA_DIR", "./data")

	// Always resolve to absolute path
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}

	cfg := &Config{
		DataDir:              absDataDir,
		Port:                 getEnvAsInt("GO_PORT", 8001),
		DevMode:              getEnvAsBool("DEV_MODE", false),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		DefaultRiskProfile:   getEnv("DEFAULT_RISK_PROFILE", "growth"),
		BenchmarksFile:       getEnv("BENCHMARKS_FILE", ""),
		ScoringWorkers:       getEnvAsInt("SCORING_WORKERS", 4),
		PriceRefreshSchedule: getEnv("PRICE_REFRESH_SCHEDULE", "0 30 22 * * MON-FRI"),
		PriceCacheTTL:        time.Duration(getEnvAsInt("PRICE_CACHE_TTL_HOURS", 24)) * time.Hour,
		MetadataCacheTTL:     time.Duration(getEnvAsInt("METADATA_CACHE_TTL_DAYS", 30)) * 24 * time.Hour,
		PriceRetention:       time.Duration(getEnvAsInt("PRICE_RETENTION_YEARS", 11)) * 365 * 24 * time.Hour,
		RequestTimeout:       time.Duration(getEnvAsInt("REQUEST_TIMEOUT_SECONDS", 60)) * time.Second,
		YahooRequestsPerSec:  getEnvAsFloat("YAHOO_REQUESTS_PER_SECOND", 2),
		CORSAllowedOrigins:   utils.ParseCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Ensure directory exists
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.ScoringWorkers <= 0 {
		return fmt.Errorf("SCORING_WORKERS must be positive, got %d", c.ScoringWorkers)
	}
	if c.YahooRequestsPerSec <= 0 {
		return fmt.Errorf("YAHOO_REQUESTS_PER_SECOND must be positive, got %g", c.YahooRequestsPerSec)
	}
	if c.PriceCacheTTL <= 0 {
		return fmt.Errorf("PRICE_CACHE_TTL_HOURS must be positive")
	}
	if c.MetadataCacheTTL <= 0 {
		return fmt.Errorf("METADATA_CACHE_TTL_DAYS must be positive")
	}
	if c.PriceRetention < MinPriceRetention {
		return fmt.Errorf("PRICE_RETENTION_YEARS must be at least 10, got %.1f", c.PriceRetention.Hours()/(365*24))
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT_SECONDS must be positive")
	}
	if c.BenchmarksFile != "" {
		if _, err := os.Stat(c.BenchmarksFile); err != nil {
			return fmt.Errorf("benchmarks file: %w", err)
		}
	}

	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(c.PriceRefreshSchedule); err != nil {
		return fmt.Errorf("invalid PRICE_REFRESH_SCHEDULE %q: %w", c.PriceRefreshSchedule, err)
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
