package booking_models

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps bookings in process memory. It backs tests and local
// runs without Postgres; one mutex serialises every write.
type MemoryStore struct {
	mu       sync.RWMutex
	bookings map[uuid.UUID]*Booking
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{bookings: make(map[uuid.UUID]*Booking)}
}

func (m *MemoryStore) Create(_ context.Context, b *Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.bookings {
		if existing.ServiceID != b.ServiceID || !existing.Status.IsActive() {
			continue
		}
		if existing.CustomerID == b.CustomerID {
			return ErrActiveBookingExists
		}
		if existing.BookingDate.Equal(b.BookingDate) {
			return ErrSlotTaken
		}
	}

	cp := *b
	m.bookings[b.ID] = &cp
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id uuid.UUID) (*Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, ok := m.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *MemoryStore) List(_ context.Context, f Filter) ([]Booking, error) {
	m.mu.RLock()
	out := make([]Booking, 0)
	for _, b := range m.bookings {
		if f.matches(b) {
			out = append(out, *b)
		}
	}
	m.mu.RUnlock()

	switch f.Order {
	case OrderBookingDateAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].BookingDate.Before(out[j].BookingDate) })
	default:
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].CreatedAt.Equal(out[j].CreatedAt) {
				return out[i].ID.String() > out[j].ID.String()
			}
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	}
	return out, nil
}

func (m *MemoryStore) CompareAndSetStatus(_ context.Context, id uuid.UUID, from, to Status, at time.Time) (*Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	if b.Status != from {
		return nil, ErrStatusChanged
	}
	b.Status = to
	b.UpdatedAt = at
	cp := *b
	return &cp, nil
}

func (m *MemoryStore) UpdateDetails(_ context.Context, id uuid.UUID, status Status, u DetailsUpdate, at time.Time) (*Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	if b.Status != status {
		return nil, ErrStatusChanged
	}
	if u.BookingDate != nil {
		for _, other := range m.bookings {
			if other.ID != b.ID && other.ServiceID == b.ServiceID && other.Status.IsActive() && other.BookingDate.Equal(*u.BookingDate) {
				return nil, ErrSlotTaken
			}
		}
	}
	u.apply(b)
	b.UpdatedAt = at
	cp := *b
	return &cp, nil
}
