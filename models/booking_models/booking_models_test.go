package booking_models

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/joy095/fixitnow/models/user_models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitionTable(t *testing.T) {
	want := map[Status]map[Action]Status{
		StatusPending:    {ActionConfirm: StatusConfirmed, ActionCancel: StatusCancelled},
		StatusConfirmed:  {ActionStart: StatusInProgress, ActionCancel: StatusCancelled},
		StatusInProgress: {ActionComplete: StatusCompleted},
		StatusCompleted:  {},
		StatusCancelled:  {},
	}
	actions := []Action{ActionConfirm, ActionStart, ActionComplete, ActionCancel}

	for _, from := range AllStatuses {
		for _, a := range actions {
			to, ok := Next(from, a)
			expected, allowed := want[from][a]
			assert.Equal(t, allowed, ok, "%s --%s-->", from, a)
			if allowed {
				assert.Equal(t, expected, to, "%s --%s-->", from, a)
			}
		}
	}
}

func TestTerminalStatesHaveNoExits(t *testing.T) {
	for _, s := range []Status{StatusCompleted, StatusCancelled} {
		assert.True(t, s.IsTerminal())
		assert.False(t, s.IsActive())
		for _, a := range []Action{ActionConfirm, ActionStart, ActionComplete, ActionCancel} {
			_, ok := Next(s, a)
			assert.False(t, ok)
		}
	}
}

func TestActionActor(t *testing.T) {
	assert.Equal(t, user_models.RoleCustomer, ActionCancel.Actor())
	assert.Equal(t, user_models.RoleProvider, ActionConfirm.Actor())
	assert.Equal(t, user_models.RoleProvider, ActionStart.Actor())
	assert.Equal(t, user_models.RoleProvider, ActionComplete.Actor())
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("in_progress")
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, s)

	_, err = ParseStatus("DONE")
	assert.Error(t, err)
}

func newTestBooking(t *testing.T, serviceID, customerID uuid.UUID, date time.Time) *Booking {
	t.Helper()
	b, err := NewBooking(serviceID, customerID, uuid.New(), "Plumbing", date, 500000, time.Now())
	require.NoError(t, err)
	b.CustomerAddress = "12 Lake Road"
	b.CustomerPhone = "0771234567"
	return b
}

func TestMemoryStoreCompareAndSetIsExclusive(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	b := newTestBooking(t, uuid.New(), uuid.New(), time.Now().Add(24*time.Hour))
	require.NoError(t, store.Create(ctx, b))

	const workers = 16
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		wins    int
		changed int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.CompareAndSetStatus(ctx, b.ID, StatusPending, StatusConfirmed, time.Now())
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				wins++
			} else if assert.ErrorIs(t, err, ErrStatusChanged) {
				changed++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	assert.Equal(t, workers-1, changed)

	_, err := store.CompareAndSetStatus(ctx, uuid.New(), StatusPending, StatusConfirmed, time.Now())
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestMemoryStoreCreateConflicts(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	serviceID, customerID := uuid.New(), uuid.New()
	date := time.Now().Add(48 * time.Hour).Truncate(time.Second)

	first := newTestBooking(t, serviceID, customerID, date)
	require.NoError(t, store.Create(ctx, first))

	again := newTestBooking(t, serviceID, customerID, date.Add(time.Hour))
	assert.ErrorIs(t, store.Create(ctx, again), ErrActiveBookingExists)

	sameSlot := newTestBooking(t, serviceID, uuid.New(), date)
	assert.ErrorIs(t, store.Create(ctx, sameSlot), ErrSlotTaken)

	otherTime := newTestBooking(t, serviceID, uuid.New(), date.Add(2*time.Hour))
	assert.NoError(t, store.Create(ctx, otherTime))

	_, err := store.CompareAndSetStatus(ctx, first.ID, StatusPending, StatusCancelled, time.Now())
	require.NoError(t, err)
	rebook := newTestBooking(t, serviceID, customerID, date)
	assert.NoError(t, store.Create(ctx, rebook))
}

func TestMemoryStoreListFilterAndOrder(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	customerID := uuid.New()
	base := time.Now().Add(72 * time.Hour)

	late := newTestBooking(t, uuid.New(), customerID, base.Add(5*time.Hour))
	early := newTestBooking(t, uuid.New(), customerID, base)
	other := newTestBooking(t, uuid.New(), uuid.New(), base)
	for _, b := range []*Booking{late, early, other} {
		require.NoError(t, store.Create(ctx, b))
	}

	got, err := store.List(ctx, Filter{CustomerID: customerID, Order: OrderBookingDateAsc})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, early.ID, got[0].ID)
	assert.Equal(t, late.ID, got[1].ID)

	got, err = store.List(ctx, Filter{Statuses: []Status{StatusCompleted}})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestBookingJSONShape(t *testing.T) {
	b := newTestBooking(t, uuid.New(), uuid.New(), time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC))
	raw, err := json.Marshal(b)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Equal(t, "2026-10-18T10:00:00", m["bookingDate"])
	assert.Equal(t, "5000.00", m["totalAmount"])
	assert.Equal(t, "Rs.5000.00", m["totalAmountDisplay"])
	assert.Equal(t, "PENDING", m["status"])
}
