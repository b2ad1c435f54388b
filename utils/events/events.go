package events

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/joy095/fixitnow/logger"
)

// Routing keys.
const (
	BookingCreated   = "booking.created"
	BookingConfirmed = "booking.confirmed"
	BookingStarted   = "booking.started"
	BookingCompleted = "booking.completed"
	BookingCancelled = "booking.cancelled"

	ReviewSubmitted = "review.submitted"
	ReviewUpdated   = "review.updated"
	ReviewDeleted   = "review.deleted"
)

// Event is a committed domain change.
type Event struct {
	Key        string         `json:"event"`
	OccurredAt time.Time      `json:"occurredAt"`
	Payload    map[string]any `json:"payload"`
}

func New(key string, at time.Time, payload map[string]any) Event {
	return Event{Key: key, OccurredAt: at, Payload: payload}
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Multi fans an event out to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, e Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogPublisher writes events to the info log. Used when no broker is configured.
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, e Event) error {
	logger.InfoLogger.WithField("event", e.Key).WithField("payload", e.Payload).Info("Domain event")
	return nil
}

// Emit publishes e and logs a failure instead of returning it. The mutation
// behind the event has already committed.
func Emit(ctx context.Context, p Publisher, e Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, e); err != nil {
		logger.ErrorLogger.Errorf("Failed to publish %s: %v", e.Key, err)
	}
}

// Recorder keeps published events in memory for tests.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Keys lists the routing keys recorded so far.
func (r *Recorder) Keys() []string {
	events := r.Events()
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.Key
	}
	return out
}
