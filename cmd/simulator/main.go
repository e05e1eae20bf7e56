// Command simulator runs every configured league's season loop and serves
// the live API and WebSocket stream.
//
// Usage:
//
//	scoracle-sim
//	API_PORT=8080 LEAGUES=premier-league scoracle-sim

// @title Scoracle League Simulator API
// @version 1.0
// @description Simulated football leagues: live matches, standings, schedules, statistics and predictions.
// @host localhost:8000
// @BasePath /
// @schemes http https
// @contact.name Scoracle
// @license.name MIT
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/albapepper/scoracle-sim/internal/api"
	"github.com/albapepper/scoracle-sim/internal/api/handler"
	"github.com/albapepper/scoracle-sim/internal/archive"
	"github.com/albapepper/scoracle-sim/internal/cache"
	"github.com/albapepper/scoracle-sim/internal/config"
	"github.com/albapepper/scoracle-sim/internal/db"
	"github.com/albapepper/scoracle-sim/internal/eventbus"
	"github.com/albapepper/scoracle-sim/internal/leaguedata"
	"github.com/albapepper/scoracle-sim/internal/maintenance"
	"github.com/albapepper/scoracle-sim/internal/notifications"
	"github.com/albapepper/scoracle-sim/internal/scheduler"
	"github.com/albapepper/scoracle-sim/internal/season"
	"github.com/albapepper/scoracle-sim/internal/standings"

	_ "github.com/albapepper/scoracle-sim/docs" // swagger docs
)

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// League data
	leagues, err := leaguedata.Load(cfg.DataDir, logger)
	if err != nil {
		logger.Error("Failed to load league data", "error", err)
		os.Exit(1)
	}
	leagues, err = leaguedata.Filter(leagues, cfg.Leagues)
	if err != nil {
		logger.Error("Failed to select leagues", "error", err)
		os.Exit(1)
	}

	appCache := cache.New(cfg.CacheEnabled)
	logger.Info("Cache initialized", "enabled", cfg.CacheEnabled)

	hub := notifications.NewHub(logger)
	hub.Subscribe(maintenance.InvalidateSchedules(appCache, logger))

	// Archive (optional)
	var (
		pool   *db.Pool
		store  *archive.Store
		worker *archive.Worker
	)
	if cfg.ArchiveEnabled() {
		logger.Info("Connecting to archive database...")
		pool, err = db.New(ctx, cfg)
		if err != nil {
			logger.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		logger.Info("Database connected",
			"min_conns", cfg.DBPoolMinConns,
			"max_conns", cfg.DBPoolMaxConns)

		store = archive.NewStore(pool, logger)
		worker = archive.NewWorker(store, 16, logger)
		go worker.Run(ctx)
	} else {
		logger.Info("Season archive disabled (no DATABASE_URL)")
	}

	// Kafka sink (optional)
	var sinkDone chan struct{}
	if cfg.KafkaEnabled() {
		w := eventbus.NewWriter(cfg.KafkaBrokers, cfg.KafkaEventsTopic)
		sink := eventbus.NewSink(w, logger)
		hub.Subscribe(sink.Handle)
		sinkDone = make(chan struct{})
		go func() {
			sink.Run(ctx)
			close(sinkDone)
		}()
		logger.Info("Kafka sink started", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaEventsTopic)
	} else {
		logger.Info("Kafka sink disabled (no KAFKA_BROKERS)")
	}

	// Season loops
	sched := scheduler.NewPool(cfg.SimWorkers, logger)
	table := standings.NewEngine()
	registry := season.NewRegistry()
	for _, l := range leagues {
		var opts []season.Option
		if worker != nil {
			opts = append(opts, season.WithArchive(worker.Enqueue))
		}
		o := season.New(l, cfg.Season(), sched, table, hub, logger, opts...)
		if err := registry.Register(o); err != nil {
			logger.Error("Failed to register league", "league_id", l.ID, "error", err)
			os.Exit(1)
		}
	}
	if err := registry.StartAll(); err != nil {
		logger.Error("Failed to start season loops", "error", err)
		os.Exit(1)
	}
	logger.Info("Season loops started",
		"leagues", len(leagues),
		"workers", cfg.SimWorkers,
		"match_duration", cfg.RealMatchDuration,
		"tick", cfg.TickInterval)

	// Maintenance tickers (archive purge, heartbeat, cache stats)
	deps := maintenance.Deps{Registry: registry, Cache: appCache}
	if store != nil {
		deps.Archive = store
	}
	go maintenance.Start(ctx, deps, maintenance.DefaultConfig(cfg.ArchiveRetentionDays), logger)

	// HTTP
	handlerDeps := handler.Deps{
		Registry: registry,
		Cache:    appCache,
		Hub:      hub,
		Logger:   logger,
	}
	if pool != nil {
		handlerDeps.DB = pool
	}
	router := api.NewRouter(handlerDeps, cfg)

	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:        addr,
		Handler:     router,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		logger.Info("Starting Scoracle League Simulator",
			"addr", addr,
			"environment", cfg.Environment,
			"docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.APIPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	registry.StopAll()
	sched.Stop()
	if sinkDone != nil {
		select {
		case <-sinkDone:
		case <-shutdownCtx.Done():
			logger.Warn("Kafka sink did not drain before shutdown deadline")
		}
	}
	logger.Info("Simulator stopped")
}
