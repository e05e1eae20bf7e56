package scheduler

import (
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestManualOrdering(t *testing.T) {
	m := NewManual(discardLogger())
	var got []string
	m.After("c", 3*time.Second, func() { got = append(got, "c") })
	m.After("a", time.Second, func() { got = append(got, "a") })
	m.After("b", time.Second, func() { got = append(got, "b") })
	m.Every("tick", 2*time.Second, func() { got = append(got, "tick") })

	m.Advance(4 * time.Second)

	want := []string{"a", "b", "tick", "c", "tick"}
	if len(got) != len(want) {
		t.Fatalf("unexpected runs: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected runs: %v", got)
		}
	}
	if m.Now() != 4*time.Second {
		t.Fatalf("unexpected clock: %v", m.Now())
	}
}

func TestManualCancel(t *testing.T) {
	m := NewManual(discardLogger())
	var runs int
	var task Task
	task = m.Every("tick", time.Second, func() {
		runs++
		if runs == 3 {
			task.Cancel()
			task.Cancel()
		}
	})
	once := m.After("once", 500*time.Millisecond, func() { t.Fatalf("cancelled one-shot ran") })
	once.Cancel()

	m.Advance(10 * time.Second)
	if runs != 3 {
		t.Fatalf("expected 3 runs, got %d", runs)
	}
	if !task.Cancelled() || !once.Cancelled() {
		t.Fatalf("tasks not marked cancelled")
	}
	if m.Step() {
		t.Fatalf("expected empty queue")
	}
}

func TestManualTaskSchedulesTask(t *testing.T) {
	m := NewManual(discardLogger())
	var order []time.Duration
	m.After("first", time.Second, func() {
		order = append(order, m.Now())
		m.After("second", time.Second, func() { order = append(order, m.Now()) })
	})
	ok := m.RunUntil(func() bool { return len(order) == 2 }, time.Minute)
	if !ok || order[0] != time.Second || order[1] != 2*time.Second {
		t.Fatalf("unexpected order: %v (ok=%v)", order, ok)
	}
}

func TestManualRecoversPanics(t *testing.T) {
	m := NewManual(discardLogger())
	var runs int
	m.Every("boom", time.Second, func() {
		runs++
		panic("boom")
	})
	m.Advance(3 * time.Second)
	if runs != 3 {
		t.Fatalf("expected repeating task to keep its schedule, got %d runs", runs)
	}
}

func TestPoolAfterAndCancel(t *testing.T) {
	p := NewPool(2, discardLogger())
	defer p.Stop()

	done := make(chan struct{})
	p.After("fire", 10*time.Millisecond, func() { close(done) })

	var cancelledRan atomic.Bool
	c := p.After("never", 50*time.Millisecond, func() { cancelledRan.Store(true) })
	c.Cancel()
	c.Cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("one-shot task did not run")
	}
	time.Sleep(100 * time.Millisecond)
	if cancelledRan.Load() {
		t.Fatalf("cancelled task ran")
	}
}

func TestPoolEveryNoOverlap(t *testing.T) {
	p := NewPool(4, discardLogger())
	defer p.Stop()

	var inFlight, maxInFlight, runs atomic.Int32
	task := p.Every("slow", 2*time.Millisecond, func() {
		n := inFlight.Add(1)
		for {
			m := maxInFlight.Load()
			if n <= m || maxInFlight.CompareAndSwap(m, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		inFlight.Add(-1)
		runs.Add(1)
	})
	time.Sleep(150 * time.Millisecond)
	task.Cancel()

	if maxInFlight.Load() != 1 {
		t.Fatalf("repeating task overlapped itself: %d concurrent runs", maxInFlight.Load())
	}
	if runs.Load() == 0 {
		t.Fatalf("repeating task never ran")
	}
}

func TestPoolRecoversPanics(t *testing.T) {
	p := NewPool(1, discardLogger())
	defer p.Stop()

	var mu sync.Mutex
	runs := 0
	task := p.Every("boom", 5*time.Millisecond, func() {
		mu.Lock()
		runs++
		mu.Unlock()
		panic("boom")
	})
	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		n := runs
		mu.Unlock()
		if n >= 3 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("panicking task stopped after %d runs", n)
		}
		time.Sleep(5 * time.Millisecond)
	}
	task.Cancel()
}

func TestPoolStop(t *testing.T) {
	p := NewPool(2, discardLogger())
	p.Every("tick", time.Millisecond, func() {})
	p.After("later", time.Hour, func() {})
	p.Stop()
	p.Stop()
	if p.Active() != 0 {
		t.Fatalf("expected no active tasks, got %d", p.Active())
	}
	if task := p.After("late", time.Millisecond, func() {}); !task.Cancelled() {
		t.Fatalf("task scheduled after stop should be cancelled")
	}
}
