// Package eventbus forwards simulation messages to Kafka for downstream
// consumers. The hub side never blocks: messages go through a bounded
// buffer and are dropped, and counted, when Kafka falls behind.
package eventbus

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/albapepper/scoracle-sim/internal/notifications"
)

const (
	defaultBuffer = 4096
	maxBatch      = 100
	flushInterval = 200 * time.Millisecond
)

// MessageWriter is the subset of *kafka.Writer the sink needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NewWriter builds a synchronous writer for topic on brokers. Messages
// with the same key (league id) land on the same partition.
func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
		Async:        false,
	}
}

// Sink buffers hub messages and writes them to Kafka in batches.
type Sink struct {
	w      MessageWriter
	buf    chan notifications.Message
	filter func(notifications.Message) bool
	logger *slog.Logger

	written atomic.Int64
	dropped atomic.Int64
	failed  atomic.Int64
}

// Option customizes a Sink.
type Option func(*Sink)

// WithBuffer sets the number of messages held while Kafka is slow.
func WithBuffer(n int) Option {
	return func(s *Sink) {
		if n > 0 {
			s.buf = make(chan notifications.Message, n)
		}
	}
}

// WithFilter forwards only messages keep accepts.
func WithFilter(keep func(notifications.Message) bool) Option {
	return func(s *Sink) { s.filter = keep }
}

func NewSink(w MessageWriter, logger *slog.Logger, opts ...Option) *Sink {
	s := &Sink{
		w:      w,
		buf:    make(chan notifications.Message, defaultBuffer),
		logger: logger.With("component", "kafka_sink"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handle is the hub subscriber. It never blocks.
func (s *Sink) Handle(m notifications.Message) {
	if s.filter != nil && !s.filter(m) {
		return
	}
	select {
	case s.buf <- m:
	default:
		if s.dropped.Add(1)%1000 == 1 {
			s.logger.Warn("Kafka buffer full, dropping messages", "dropped_total", s.dropped.Load())
		}
	}
}

// Run drains the buffer until ctx is cancelled, then flushes what is left
// and closes the writer. Intended to be called with `go`.
func (s *Sink) Run(ctx context.Context) {
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	batch := make([]kafka.Message, 0, maxBatch)
	flush := func(ctx context.Context) {
		if len(batch) == 0 {
			return
		}
		if err := s.w.WriteMessages(ctx, batch...); err != nil {
			s.failed.Add(int64(len(batch)))
			s.logger.Error("Failed to write to Kafka", "messages", len(batch), "error", err)
		} else {
			s.written.Add(int64(len(batch)))
		}
		batch = batch[:0]
	}

	s.logger.Info("Kafka sink started", "buffer", cap(s.buf))
	for {
		select {
		case <-ctx.Done():
			for drained := false; !drained; {
				select {
				case m := <-s.buf:
					if km, ok := s.encode(m); ok {
						batch = append(batch, km)
					}
				default:
					drained = true
				}
			}
			shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			flush(shutdown)
			cancel()
			if err := s.w.Close(); err != nil {
				s.logger.Warn("Failed to close Kafka writer", "error", err)
			}
			s.logger.Info("Kafka sink stopped",
				"written", s.written.Load(),
				"dropped", s.dropped.Load(),
				"failed", s.failed.Load())
			return
		case m := <-s.buf:
			if km, ok := s.encode(m); ok {
				batch = append(batch, km)
			}
			if len(batch) >= maxBatch {
				flush(ctx)
			}
		case <-ticker.C:
			flush(ctx)
		}
	}
}

func (s *Sink) encode(m notifications.Message) (kafka.Message, bool) {
	value, err := json.Marshal(m)
	if err != nil {
		s.logger.Error("Failed to encode message", "kind", m.Kind, "error", err)
		return kafka.Message{}, false
	}
	return kafka.Message{
		Key:   []byte(m.LeagueID),
		Value: value,
		Time:  m.At,
		Headers: []kafka.Header{
			{Key: "kind", Value: []byte(m.Kind)},
		},
	}, true
}

// Counts reports written, dropped and failed messages.
func (s *Sink) Counts() (written, dropped, failed int64) {
	return s.written.Load(), s.dropped.Load(), s.failed.Load()
}
