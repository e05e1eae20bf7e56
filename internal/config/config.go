// Package config provides centralized configuration loaded from environment
// variables. Shared by both cmd/simulator and cmd/simctl.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/albapepper/scoracle-sim/internal/engine"
	"github.com/albapepper/scoracle-sim/internal/season"
)

// --------------------------------------------------------------------------
// Archive table names, matching the archive schema
// --------------------------------------------------------------------------

const (
	ArchiveSeasonsTable = "archived_seasons"
	ArchiveMatchesTable = "archived_matches"
	ArchiveEventsTable  = "archived_events"
)

// --------------------------------------------------------------------------
// Config struct, populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production
	LogLevel    slog.Level

	// CORS
	CORSAllowOrigins []string

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Cache
	CacheEnabled bool

	// League data
	DataDir string   // empty uses the embedded data set
	Leagues []string // empty runs every loaded league

	// Simulation pacing
	SimWorkers        int
	TickInterval      time.Duration
	RealMatchDuration time.Duration
	Countdown         time.Duration
	FixtureGap        time.Duration
	SeasonGap         time.Duration

	// Archive (optional)
	DatabaseURL          string
	DBPoolMinConns       int
	DBPoolMaxConns       int
	DBPoolMaxLife        time.Duration
	ArchiveRetentionDays int

	// Kafka sink (optional)
	KafkaBrokers     []string
	KafkaEventsTopic string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8000)),
		Environment: envOr("ENVIRONMENT", "development"),
		LogLevel:    envLevel("LOG_LEVEL", slog.LevelInfo),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:4321",
			"http://localhost:5173",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		CacheEnabled: envBool("CACHE_ENABLED", true),

		DataDir: envOr("DATA_DIR", ""),
		Leagues: envList("LEAGUES", nil),

		SimWorkers:        envInt("SIM_WORKERS", 4),
		TickInterval:      time.Duration(envInt("TICK_INTERVAL_MS", 250)) * time.Millisecond,
		RealMatchDuration: time.Duration(envInt("REAL_MATCH_DURATION_MS", 150_000)) * time.Millisecond,
		Countdown:         time.Duration(envInt("COUNTDOWN_SECONDS", 30)) * time.Second,
		FixtureGap:        time.Duration(envInt("FIXTURE_GAP_SECONDS", 10)) * time.Second,
		SeasonGap:         time.Duration(envInt("SEASON_GAP_SECONDS", 60)) * time.Second,

		DatabaseURL:          envOr("DATABASE_URL", ""),
		DBPoolMinConns:       envInt("DB_POOL_MIN_CONNS", 1),
		DBPoolMaxConns:       envInt("DB_POOL_MAX_CONNS", 5),
		DBPoolMaxLife:        time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,
		ArchiveRetentionDays: envInt("ARCHIVE_RETENTION_DAYS", 90),

		KafkaBrokers:     envList("KAFKA_BROKERS", nil),
		KafkaEventsTopic: envOr("KAFKA_EVENTS_TOPIC", "league-sim.events"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.TickInterval <= 0 {
		errs = append(errs, fmt.Errorf("TICK_INTERVAL_MS must be positive"))
	}
	if c.RealMatchDuration <= 0 {
		errs = append(errs, fmt.Errorf("REAL_MATCH_DURATION_MS must be positive"))
	}
	if c.TickInterval > 0 && c.RealMatchDuration > 0 && c.TickInterval >= c.RealMatchDuration {
		errs = append(errs, fmt.Errorf("TICK_INTERVAL_MS (%s) must be shorter than REAL_MATCH_DURATION_MS (%s)",
			c.TickInterval, c.RealMatchDuration))
	}
	if c.Countdown < 0 || c.FixtureGap < 0 || c.SeasonGap < 0 {
		errs = append(errs, fmt.Errorf("COUNTDOWN_SECONDS, FIXTURE_GAP_SECONDS and SEASON_GAP_SECONDS must not be negative"))
	}
	if c.SimWorkers < 1 {
		errs = append(errs, fmt.Errorf("SIM_WORKERS must be at least 1"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Timing derives the match engine's clock settings.
func (c *Config) Timing() engine.Timing {
	return engine.Timing{RealMatchDuration: c.RealMatchDuration, TickInterval: c.TickInterval}
}

// Season derives the orchestrator pacing.
func (c *Config) Season() season.Config {
	return season.Config{
		Countdown:   c.Countdown,
		FixtureGap:  c.FixtureGap,
		SeasonGap:   c.SeasonGap,
		Timing:      c.Timing(),
		FirstSeason: 1,
	}
}

// ArchiveEnabled reports whether completed seasons are written to Postgres.
func (c *Config) ArchiveEnabled() bool { return c.DatabaseURL != "" }

// KafkaEnabled reports whether hub messages are forwarded to Kafka.
func (c *Config) KafkaEnabled() bool { return len(c.KafkaBrokers) > 0 }

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envLevel(key string, fallback slog.Level) slog.Level {
	if v := os.Getenv(key); v != "" {
		var l slog.Level
		if err := l.UnmarshalText([]byte(v)); err == nil {
			return l
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
