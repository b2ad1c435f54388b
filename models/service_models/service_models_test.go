package service_models

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreFilters(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	provider := uuid.New()
	now := time.Now()

	plumbing, err := NewService(provider, "Pipe repair", "", "Plumbing", "Western", 500000, now)
	require.NoError(t, err)
	electrical, err := NewService(uuid.New(), "Wiring", "", "Electrical", "Central", 300000, now.Add(time.Minute))
	require.NoError(t, err)
	require.NoError(t, store.Create(ctx, plumbing))
	require.NoError(t, store.Create(ctx, electrical))

	got, err := store.List(ctx, Filter{Category: "plumbing"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, plumbing.ID, got[0].ID)

	got, err = store.List(ctx, Filter{ExcludeIDs: []uuid.UUID{plumbing.ID}})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, electrical.ID, got[0].ID)

	_, err = store.SetAvailability(ctx, electrical.ID, Unavailable, now)
	require.NoError(t, err)
	got, err = store.List(ctx, Filter{AvailableOnly: true})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, plumbing.ID, got[0].ID)
}

func TestMemoryStoreUpdatePrice(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	s, err := NewService(uuid.New(), "Cleaning", "", "Home", "Southern", 100000, time.Now())
	require.NoError(t, err)
	require.NoError(t, store.Create(ctx, s))

	updated, err := store.UpdatePrice(ctx, s.ID, 120000, time.Now())
	require.NoError(t, err)
	assert.EqualValues(t, 120000, updated.Price)

	_, err = store.UpdatePrice(ctx, uuid.New(), 1, time.Now())
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestParseAvailability(t *testing.T) {
	a, err := ParseAvailability("unavailable")
	require.NoError(t, err)
	assert.Equal(t, Unavailable, a)

	_, err = ParseAvailability("maybe")
	assert.Error(t, err)
}

func TestServiceJSON(t *testing.T) {
	s, err := NewService(uuid.New(), "Painting", "", "Home", "Western", 250050, time.Now())
	require.NoError(t, err)
	raw, err := json.Marshal(s)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Equal(t, "2500.50", m["price"])
	assert.Equal(t, "Rs.2500.50", m["priceDisplay"])
	assert.Equal(t, "AVAILABLE", m["availabilityStatus"])
}
