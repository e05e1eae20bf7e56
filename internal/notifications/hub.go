package notifications

import (
	"log/slog"
	"sync"
)

// Handler receives published messages. It runs on the publisher's
// goroutine and must not block for long.
type Handler func(Message)

type subscription struct {
	id uint64
	fn Handler
}

// Hub fans messages out to subscribers in subscription order.
type Hub struct {
	logger *slog.Logger

	mu   sync.RWMutex
	next uint64
	subs []subscription
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{logger: logger.With("component", "hub")}
}

// Subscribe registers h and returns a function that removes it. The
// returned function is safe to call more than once.
func (h *Hub) Subscribe(fn Handler) (unsubscribe func()) {
	h.mu.Lock()
	h.next++
	id := h.next
	h.subs = append(h.subs, subscription{id: id, fn: fn})
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			for i, s := range h.subs {
				if s.id == id {
					h.subs = append(h.subs[:i:i], h.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Publish delivers msg to every current subscriber before returning. A
// panicking subscriber is logged and skipped.
func (h *Hub) Publish(msg Message) {
	stamp(&msg)

	h.mu.RLock()
	subs := h.subs
	h.mu.RUnlock()

	for _, s := range subs {
		h.deliver(s, msg)
	}
}

func (h *Hub) deliver(s subscription, msg Message) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("Subscriber panicked", "subscriber", s.id, "kind", msg.Kind, "panic", r)
		}
	}()
	s.fn(msg)
}

// Subscribers returns the current subscriber count.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// ForLeague wraps fn so it only sees messages for leagueID. An empty
// leagueID passes everything through.
func ForLeague(leagueID string, fn Handler) Handler {
	if leagueID == "" {
		return fn
	}
	return func(m Message) {
		if m.LeagueID == leagueID {
			fn(m)
		}
	}
}

// SignificantOnly wraps fn so it only sees Significant messages.
func SignificantOnly(fn Handler) Handler {
	return func(m Message) {
		if m.Significant() {
			fn(m)
		}
	}
}
