package review_models

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

type MemoryStore struct {
	mu      sync.RWMutex
	reviews map[uuid.UUID]*Review
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{reviews: make(map[uuid.UUID]*Review)}
}

func (m *MemoryStore) Create(_ context.Context, r *Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.BookingID != nil {
		for _, existing := range m.reviews {
			if existing.BookingID != nil && *existing.BookingID == *r.BookingID && existing.CustomerID == r.CustomerID {
				return ErrDuplicateReview
			}
		}
	}
	cp := *r
	m.reviews[r.ID] = &cp
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id uuid.UUID) (*Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.reviews[id]
	if !ok {
		return nil, ErrReviewNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *MemoryStore) List(_ context.Context, f Filter) ([]Review, error) {
	m.mu.RLock()
	out := make([]Review, 0)
	for _, r := range m.reviews {
		if f.matches(r) {
			out = append(out, *r)
		}
	}
	m.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryStore) Update(_ context.Context, r *Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.reviews[r.ID]
	if !ok {
		return ErrReviewNotFound
	}
	existing.Rating = r.Rating
	existing.Comment = r.Comment
	existing.UpdatedAt = r.UpdatedAt
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reviews[id]; !ok {
		return ErrReviewNotFound
	}
	delete(m.reviews, id)
	return nil
}
