// Package notify delivers fire-and-forget notifications to users.
package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"shift-tracker/internal/clock"
	"shift-tracker/internal/domain"
	"shift-tracker/internal/repository/sqlite"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Sink accepts a notification for one recipient. Callers never retry.
type Sink interface {
	Emit(ctx context.Context, n domain.Notification) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, n domain.Notification) error

// Emit calls f.
func (f SinkFunc) Emit(ctx context.Context, n domain.Notification) error {
	return f(ctx, n)
}

// NotificationStore is the subset of the repository StoreSink writes to.
type NotificationStore interface {
	CreateNotification(ctx context.Context, n *sqlite.Notification) error
}

// StoreSink persists notifications into the in-app inbox.
type StoreSink struct {
	store  NotificationStore
	clock  clock.Clock
	mapper *domain.NotificationMapper
}

// NewStoreSink creates a sink writing to store.
func NewStoreSink(store NotificationStore, clk clock.Clock) *StoreSink {
	return &StoreSink{store: store, clock: clk, mapper: &domain.NotificationMapper{}}
}

// Emit assigns an id and creation time when missing and stores n.
func (s *StoreSink) Emit(ctx context.Context, n domain.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.clock.Now()
	}
	row := s.mapper.ToDatabase(n)
	return s.store.CreateNotification(ctx, &row)
}

// LogSink writes each notification as a structured log line.
type LogSink struct {
	log zerolog.Logger
}

// NewLogSink creates a sink logging through log.
func NewLogSink(log zerolog.Logger) *LogSink {
	return &LogSink{log: log.With().Str("component", "notify").Logger()}
}

// Emit logs n at a level matching its severity.
func (s *LogSink) Emit(_ context.Context, n domain.Notification) error {
	var ev *zerolog.Event
	switch n.Severity {
	case domain.SeverityCritical:
		ev = s.log.Error()
	case domain.SeverityWarning:
		ev = s.log.Warn()
	default:
		ev = s.log.Info()
	}
	ev.Int64("recipient_id", n.RecipientID).
		Str("severity", string(n.Severity)).
		Str("link", n.Link).
		Str("body", n.Body).
		Msg(n.Title)
	return nil
}

// MultiSink emits to every sink and joins their errors.
type MultiSink []Sink

// Emit delivers n to all sinks even when one fails.
func (m MultiSink) Emit(ctx context.Context, n domain.Notification) error {
	var errs []error
	for _, s := range m {
		if err := s.Emit(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Recorder keeps emitted notifications in memory.
type Recorder struct {
	mu   sync.Mutex
	sent []domain.Notification
}

// Emit records n.
func (r *Recorder) Emit(_ context.Context, n domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	r.sent = append(r.sent, n)
	return nil
}

// Sent returns a copy of everything recorded so far.
func (r *Recorder) Sent() []domain.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Notification, len(r.sent))
	copy(out, r.sent)
	return out
}

// For returns the notifications addressed to recipientID.
func (r *Recorder) For(recipientID int64) []domain.Notification {
	var out []domain.Notification
	for _, n := range r.Sent() {
		if n.RecipientID == recipientID {
			out = append(out, n)
		}
	}
	return out
}
