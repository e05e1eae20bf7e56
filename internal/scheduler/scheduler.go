// Package scheduler runs repeating and one-shot tasks for every league on
// a shared pool of workers.
//
// Pool is the real-time implementation. Manual runs the same tasks against
// a virtual clock, for tests and offline fast-forwarding.
package scheduler

import (
	"log/slog"
	"runtime/debug"
	"time"
)

// Scheduler is what the season orchestrators schedule their work on.
type Scheduler interface {
	// Every runs fn each interval until the task is cancelled. A run that
	// is still in flight when the next one is due causes that one to be
	// skipped.
	Every(name string, interval time.Duration, fn func()) Task
	// After runs fn once after delay unless cancelled first.
	After(name string, delay time.Duration, fn func()) Task
}

// Task is a cancellation handle. Cancel may be called any number of times
// from any goroutine; only the first call has an effect.
type Task interface {
	Cancel()
	Cancelled() bool
}

// safeRun calls fn and turns a panic into an error log so one bad task
// cannot take down a worker.
func safeRun(logger *slog.Logger, name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Scheduled task panicked",
				"task", name,
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()
	fn()
}
