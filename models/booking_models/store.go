package booking_models

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrBookingNotFound = errors.New("booking not found")
	// ErrStatusChanged means the booking left the expected status before the
	// write landed; another request won the race.
	ErrStatusChanged = errors.New("booking status changed concurrently")
	// ErrActiveBookingExists means the customer already holds an active
	// booking on the service.
	ErrActiveBookingExists = errors.New("customer already has an active booking for this service")
	// ErrSlotTaken means another active booking holds the same service at
	// the same date.
	ErrSlotTaken = errors.New("time slot is already booked")
)

// Order selects the sort order of a listing.
type Order int

const (
	OrderCreatedDesc Order = iota
	OrderBookingDateAsc
)

// Filter narrows a listing. Zero values mean "any".
type Filter struct {
	CustomerID uuid.UUID
	ProviderID uuid.UUID
	ServiceID  uuid.UUID
	Statuses   []Status
	// DateFrom keeps bookings with BookingDate >= DateFrom.
	DateFrom *time.Time
	Order    Order
}

func (f Filter) matches(b *Booking) bool {
	if f.CustomerID != uuid.Nil && b.CustomerID != f.CustomerID {
		return false
	}
	if f.ProviderID != uuid.Nil && b.ProviderID != f.ProviderID {
		return false
	}
	if f.ServiceID != uuid.Nil && b.ServiceID != f.ServiceID {
		return false
	}
	if f.DateFrom != nil && b.BookingDate.Before(*f.DateFrom) {
		return false
	}
	if len(f.Statuses) > 0 {
		for _, s := range f.Statuses {
			if b.Status == s {
				return true
			}
		}
		return false
	}
	return true
}

// Store persists bookings. Implementations must make CompareAndSetStatus
// atomic: of two concurrent calls expecting the same status, exactly one
// succeeds and the other gets ErrStatusChanged.
type Store interface {
	// Create inserts a PENDING booking, rejecting a second active booking by
	// the same customer on the service and an exact slot collision.
	Create(ctx context.Context, b *Booking) error
	Get(ctx context.Context, id uuid.UUID) (*Booking, error)
	List(ctx context.Context, f Filter) ([]Booking, error)
	CompareAndSetStatus(ctx context.Context, id uuid.UUID, from, to Status, at time.Time) (*Booking, error)
	// UpdateDetails applies u only while the booking is still in status.
	UpdateDetails(ctx context.Context, id uuid.UUID, status Status, u DetailsUpdate, at time.Time) (*Booking, error)
}
