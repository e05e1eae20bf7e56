package archive

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/albapepper/scoracle-sim/internal/season"
)

// Saver is the write side of Store.
type Saver interface {
	SaveSeason(ctx context.Context, rec season.SeasonRecord) error
}

// Worker hands completed seasons to a Saver on its own goroutine so the
// season loop never waits on the database.
type Worker struct {
	saver   Saver
	queue   chan season.SeasonRecord
	timeout time.Duration
	logger  *slog.Logger

	saved   atomic.Int64
	failed  atomic.Int64
	dropped atomic.Int64
}

// NewWorker creates a worker with room for depth pending seasons.
func NewWorker(saver Saver, depth int, logger *slog.Logger) *Worker {
	if depth < 1 {
		depth = 1
	}
	return &Worker{
		saver:   saver,
		queue:   make(chan season.SeasonRecord, depth),
		timeout: 30 * time.Second,
		logger:  logger.With("component", "archive_worker"),
	}
}

// Enqueue is the orchestrator's archive hook. It never blocks; a record
// that does not fit is dropped and counted.
func (w *Worker) Enqueue(rec season.SeasonRecord) {
	select {
	case w.queue <- rec:
	default:
		w.dropped.Add(1)
		w.logger.Warn("Archive queue full, season dropped",
			"league_id", rec.LeagueID,
			"season", rec.Season)
	}
}

// Run saves queued seasons until ctx is cancelled. Intended to be called
// with `go`.
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("Archive worker started", "queue_depth", cap(w.queue))
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Archive worker stopped",
				"saved", w.saved.Load(),
				"failed", w.failed.Load(),
				"dropped", w.dropped.Load())
			return
		case rec := <-w.queue:
			w.save(ctx, rec)
		}
	}
}

func (w *Worker) save(ctx context.Context, rec season.SeasonRecord) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()
	if err := w.saver.SaveSeason(ctx, rec); err != nil {
		w.failed.Add(1)
		w.logger.Error("Failed to archive season",
			"league_id", rec.LeagueID,
			"season", rec.Season,
			"error", err)
		return
	}
	w.saved.Add(1)
}

// Counts reports saved, failed and dropped seasons.
func (w *Worker) Counts() (saved, failed, dropped int64) {
	return w.saved.Load(), w.failed.Load(), w.dropped.Load()
}
