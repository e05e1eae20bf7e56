package maintenance

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/albapepper/scoracle-sim/internal/cache"
	"github.com/albapepper/scoracle-sim/internal/model"
	"github.com/albapepper/scoracle-sim/internal/notifications"
)

type fakePurger struct {
	cutoff time.Time
	n      int64
	err    error
}

func (f *fakePurger) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	f.cutoff = cutoff
	return f.n, f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPurgeArchiveCutoff(t *testing.T) {
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	p := &fakePurger{n: 4}
	if n := purgeArchive(context.Background(), p, 7*24*time.Hour, now, discardLogger()); n != 4 {
		t.Fatalf("expected 4 purged, got %d", n)
	}
	if want := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC); !p.cutoff.Equal(want) {
		t.Fatalf("unexpected cutoff %s", p.cutoff)
	}

	p.err = errors.New("boom")
	if n := purgeArchive(context.Background(), p, time.Hour, now, discardLogger()); n != 0 {
		t.Fatalf("failed purge should report 0, got %d", n)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig(90)
	if cfg.Retention != 90*24*time.Hour || cfg.HeartbeatInterval != time.Minute {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestStartStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		Start(ctx, Deps{Cache: cache.New(false)}, DefaultConfig(1), discardLogger())
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Start did not return after cancel")
	}
}

func TestInvalidateSchedules(t *testing.T) {
	c := cache.New(true)
	c.Set(cache.ScheduleKey("pl", 1), []byte("x"), time.Hour)
	c.Set(cache.ScheduleKey("ll", 1), []byte("y"), time.Hour)
	h := InvalidateSchedules(c, discardLogger())

	h(notifications.Message{Kind: notifications.KindSeasonState, LeagueID: "pl",
		Season: &notifications.SeasonStatus{State: model.SeasonRunningFixture}})
	if c.Stats().TotalKeys != 2 {
		t.Fatalf("schedules dropped mid-season")
	}

	h(notifications.Message{Kind: notifications.KindSeasonState, LeagueID: "pl",
		Season: &notifications.SeasonStatus{State: model.SeasonWaitingNextSeason}})
	if _, _, ok := c.Get(cache.ScheduleKey("pl", 1)); ok {
		t.Fatalf("schedule not invalidated")
	}
	if _, _, ok := c.Get(cache.ScheduleKey("ll", 1)); !ok {
		t.Fatalf("other league's schedule dropped")
	}
}
