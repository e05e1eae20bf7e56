package scheduler

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

type job struct {
	task *poolTask
	done func()
}

// Pool runs scheduled tasks on a fixed number of worker goroutines.
type Pool struct {
	jobs   chan job
	stop   chan struct{}
	wg     sync.WaitGroup
	logger *slog.Logger

	mu      sync.Mutex
	tasks   map[*poolTask]struct{}
	stopped bool
}

// NewPool starts workers goroutines (at least one).
func NewPool(workers int, logger *slog.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	p := &Pool{
		jobs:   make(chan job, workers*4),
		stop:   make(chan struct{}),
		logger: logger.With("component", "scheduler"),
		tasks:  make(map[*poolTask]struct{}),
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	p.logger.Info("Scheduler started", "workers", workers)
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case j := <-p.jobs:
			if !j.task.Cancelled() {
				safeRun(p.logger, j.task.name, j.task.fn)
			}
			if j.done != nil {
				j.done()
			}
		case <-p.stop:
			return
		}
	}
}

// Every schedules fn on a ticker.
func (p *Pool) Every(name string, interval time.Duration, fn func()) Task {
	t := p.newTask(name, fn)
	if t.Cancelled() {
		return t
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if !t.running.CompareAndSwap(false, true) {
					p.logger.Debug("Skipping overlapping run", "task", name)
					continue
				}
				p.submit(job{task: t, done: func() { t.running.Store(false) }})
			case <-t.stop:
				return
			}
		}
	}()
	return t
}

// After schedules fn once.
func (p *Pool) After(name string, delay time.Duration, fn func()) Task {
	t := p.newTask(name, fn)
	if t.Cancelled() {
		return t
	}
	timer := time.AfterFunc(delay, func() {
		p.submit(job{task: t, done: func() { p.forget(t) }})
	})
	t.mu.Lock()
	t.timer = timer
	t.mu.Unlock()
	return t
}

// Stop cancels every task and waits for in-flight runs to return.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	tasks := make([]*poolTask, 0, len(p.tasks))
	for t := range p.tasks {
		tasks = append(tasks, t)
	}
	p.mu.Unlock()

	for _, t := range tasks {
		t.Cancel()
	}
	close(p.stop)
	p.wg.Wait()
	p.logger.Info("Scheduler stopped")
}

// Active returns the number of live tasks.
func (p *Pool) Active() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.tasks)
}

func (p *Pool) newTask(name string, fn func()) *poolTask {
	t := &poolTask{name: name, fn: fn, pool: p, stop: make(chan struct{})}
	p.mu.Lock()
	stopped := p.stopped
	if !stopped {
		p.tasks[t] = struct{}{}
	}
	p.mu.Unlock()
	if stopped {
		t.Cancel()
	}
	return t
}

func (p *Pool) submit(j job) {
	select {
	case p.jobs <- j:
	case <-p.stop:
	case <-j.task.stop:
		if j.done != nil {
			j.done()
		}
	}
}

func (p *Pool) forget(t *poolTask) {
	p.mu.Lock()
	delete(p.tasks, t)
	p.mu.Unlock()
}

type poolTask struct {
	name string
	fn   func()
	pool *Pool

	once      sync.Once
	stop      chan struct{}
	cancelled atomic.Bool
	running   atomic.Bool

	mu    sync.Mutex
	timer *time.Timer
}

func (t *poolTask) Cancel() {
	t.once.Do(func() {
		t.cancelled.Store(true)
		close(t.stop)
		t.mu.Lock()
		if t.timer != nil {
			t.timer.Stop()
		}
		t.mu.Unlock()
		t.pool.forget(t)
	})
}

func (t *poolTask) Cancelled() bool { return t.cancelled.Load() }
