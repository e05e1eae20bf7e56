// Package maintenance runs periodic background tasks as Go tickers:
// archive retention, a simulation heartbeat log and cache statistics.
package maintenance

import (
	"context"
	"log/slog"
	"time"

	"github.com/albapepper/scoracle-sim/internal/cache"
	"github.com/albapepper/scoracle-sim/internal/season"
)

// Config controls maintenance task intervals. Zero duration disables a task.
type Config struct {
	PurgeInterval      time.Duration // Archive retention sweep
	HeartbeatInterval  time.Duration // Per-league status log line
	CacheStatsInterval time.Duration
	Retention          time.Duration // Archived seasons older than this are purged
}

// DefaultConfig returns sensible production defaults.
func DefaultConfig(retentionDays int) Config {
	return Config{
		PurgeInterval:      6 * time.Hour,
		HeartbeatInterval:  1 * time.Minute,
		CacheStatsInterval: 15 * time.Minute,
		Retention:          time.Duration(retentionDays) * 24 * time.Hour,
	}
}

// Purger is the retention side of the archive store.
type Purger interface {
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Deps are the components the tasks inspect. Archive may be nil when no
// database is configured.
type Deps struct {
	Archive  Purger
	Registry *season.Registry
	Cache    *cache.Cache
}

// Start launches all configured maintenance tickers. Blocks until ctx is
// cancelled. Intended to be called with `go`.
func Start(ctx context.Context, deps Deps, cfg Config, logger *slog.Logger) {
	logger = logger.With("component", "maintenance")
	logger.Info("Maintenance tickers started",
		"purge", cfg.PurgeInterval,
		"heartbeat", cfg.HeartbeatInterval,
		"cache_stats", cfg.CacheStatsInterval,
		"retention", cfg.Retention)

	tickers := make([]*time.Ticker, 0, 3)
	defer func() {
		for _, t := range tickers {
			t.Stop()
		}
	}()

	if cfg.PurgeInterval > 0 && cfg.Retention > 0 && deps.Archive != nil {
		t := time.NewTicker(cfg.PurgeInterval)
		tickers = append(tickers, t)
		go runLoop(ctx, t.C, func() { purgeArchive(ctx, deps.Archive, cfg.Retention, time.Now(), logger) })
	}

	if cfg.HeartbeatInterval > 0 && deps.Registry != nil {
		t := time.NewTicker(cfg.HeartbeatInterval)
		tickers = append(tickers, t)
		go runLoop(ctx, t.C, func() { heartbeat(deps.Registry, logger) })
	}

	if cfg.CacheStatsInterval > 0 && deps.Cache != nil {
		t := time.NewTicker(cfg.CacheStatsInterval)
		tickers = append(tickers, t)
		go runLoop(ctx, t.C, func() { logCacheStats(deps.Cache, logger) })
	}

	<-ctx.Done()
	logger.Info("Maintenance tickers stopped")
}

func runLoop(ctx context.Context, ch <-chan time.Time, fn func()) {
	for {
		select {
		case <-ch:
			fn()
		case <-ctx.Done():
			return
		}
	}
}

// --------------------------------------------------------------------------
// Task implementations
// --------------------------------------------------------------------------

// purgeArchive removes archived seasons completed more than retention ago.
func purgeArchive(ctx context.Context, p Purger, retention time.Duration, now time.Time, logger *slog.Logger) int64 {
	n, err := p.PurgeOlderThan(ctx, now.Add(-retention))
	if err != nil {
		logger.Warn("Purge: failed to remove old seasons", "error", err)
		return 0
	}
	if n > 0 {
		logger.Info("Purge: removed old seasons", "count", n)
	}
	return n
}

// heartbeat logs one line per league so a stalled loop is visible in logs.
func heartbeat(r *season.Registry, logger *slog.Logger) {
	for _, o := range r.All() {
		st := o.Status()
		logger.Info("Simulation heartbeat",
			"league_id", st.LeagueID,
			"state", st.State,
			"season", st.Season,
			"matchweek", st.CurrentMatchweek,
			"total_matchweeks", st.TotalMatchweeks,
			"live_matches", st.LiveMatches)
	}
}

func logCacheStats(c *cache.Cache, logger *slog.Logger) {
	st := c.Stats()
	logger.Info("Cache stats",
		"enabled", st.Enabled,
		"active_keys", st.ActiveKeys,
		"expired_keys", st.ExpiredKeys,
		"hits", st.Hits,
		"misses", st.Misses)
}
