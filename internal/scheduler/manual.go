package scheduler

import (
	"container/heap"
	"log/slog"
	"sync"
	"time"
)

// Manual is a Scheduler driven by a virtual clock. Nothing runs until the
// owner calls Step, Advance or RunUntil; tasks then run synchronously on
// the caller's goroutine in due-time order (ties in scheduling order).
type Manual struct {
	logger *slog.Logger

	mu    sync.Mutex
	now   time.Duration
	seq   uint64
	queue entryHeap
}

func NewManual(logger *slog.Logger) *Manual {
	return &Manual{logger: logger.With("component", "scheduler")}
}

// Now is the virtual time elapsed since creation.
func (m *Manual) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Pending counts queued runs, including ones for cancelled tasks that
// have not been discarded yet.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queue.Len()
}

func (m *Manual) Every(name string, interval time.Duration, fn func()) Task {
	if interval <= 0 {
		interval = time.Nanosecond
	}
	t := &manualTask{name: name, interval: interval, fn: fn}
	m.schedule(t, interval)
	return t
}

func (m *Manual) After(name string, delay time.Duration, fn func()) Task {
	t := &manualTask{name: name, fn: fn}
	m.schedule(t, delay)
	return t
}

func (m *Manual) schedule(t *manualTask, delay time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pushLocked(t, m.now+delay)
}

func (m *Manual) pushLocked(t *manualTask, at time.Duration) {
	m.seq++
	heap.Push(&m.queue, entry{at: at, seq: m.seq, task: t})
}

// Step runs the next due task, moving the clock to its due time. It
// reports false when nothing is queued.
func (m *Manual) Step() bool {
	return m.stepUntil(-1)
}

// Advance runs everything due within d and leaves the clock at now+d.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	for m.stepUntil(target) {
	}

	m.mu.Lock()
	if m.now < target {
		m.now = target
	}
	m.mu.Unlock()
}

// RunUntil steps until done reports true, the queue empties or the clock
// passes limit. It reports whether done was satisfied.
func (m *Manual) RunUntil(done func() bool, limit time.Duration) bool {
	for !done() {
		m.mu.Lock()
		stop := m.queue.Len() == 0 || m.queue[0].at > limit
		m.mu.Unlock()
		if stop || !m.Step() {
			return done()
		}
	}
	return true
}

// stepUntil pops and runs one entry due at or before target (any entry
// when target is negative).
func (m *Manual) stepUntil(target time.Duration) bool {
	m.mu.Lock()
	var task *manualTask
	for task == nil {
		if m.queue.Len() == 0 {
			m.mu.Unlock()
			return false
		}
		next := m.queue[0]
		if target >= 0 && next.at > target {
			m.mu.Unlock()
			return false
		}
		heap.Pop(&m.queue)
		if next.task.Cancelled() {
			continue
		}
		m.now = next.at
		if next.task.interval > 0 {
			m.pushLocked(next.task, next.at+next.task.interval)
		}
		task = next.task
	}
	m.mu.Unlock()

	safeRun(m.logger, task.name, task.fn)
	return true
}

type manualTask struct {
	name     string
	interval time.Duration
	fn       func()

	once      sync.Once
	mu        sync.Mutex
	cancelled bool
}

func (t *manualTask) Cancel() {
	t.once.Do(func() {
		t.mu.Lock()
		t.cancelled = true
		t.mu.Unlock()
	})
}

func (t *manualTask) Cancelled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancelled
}

type entry struct {
	at   time.Duration
	seq  uint64
	task *manualTask
}

type entryHeap []entry

func (h entryHeap) Len() int { return len(h) }
func (h entryHeap) Less(i, j int) bool {
	if h[i].at != h[j].at {
		return h[i].at < h[j].at
	}
	return h[i].seq < h[j].seq
}
func (h entryHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *entryHeap) Push(x any)   { *h = append(*h, x.(entry)) }
func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}
