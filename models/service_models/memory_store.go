package service_models

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/joy095/fixitnow/models/shared_models"
)

// MemoryStore is an in-process catalog for tests and local runs.
type MemoryStore struct {
	mu       sync.RWMutex
	services map[uuid.UUID]*Service
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{services: make(map[uuid.UUID]*Service)}
}

func (m *MemoryStore) Create(_ context.Context, s *Service) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.services[s.ID] = &cp
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id uuid.UUID) (*Service, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.services[id]
	if !ok {
		return nil, ErrServiceNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *MemoryStore) List(_ context.Context, f Filter) ([]Service, error) {
	m.mu.RLock()
	out := make([]Service, 0, len(m.services))
	for _, s := range m.services {
		if f.matches(s) {
			out = append(out, *s)
		}
	}
	m.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryStore) UpdatePrice(_ context.Context, id uuid.UUID, price shared_models.Money, at time.Time) (*Service, error) {
	return m.mutate(id, at, func(s *Service) { s.Price = price })
}

func (m *MemoryStore) SetAvailability(_ context.Context, id uuid.UUID, a Availability, at time.Time) (*Service, error) {
	return m.mutate(id, at, func(s *Service) { s.AvailabilityStatus = a })
}

func (m *MemoryStore) mutate(id uuid.UUID, at time.Time, fn func(*Service)) (*Service, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.services[id]
	if !ok {
		return nil, ErrServiceNotFound
	}
	fn(s)
	s.UpdatedAt = at
	cp := *s
	return &cp, nil
}
