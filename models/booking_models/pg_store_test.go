package booking_models_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joy095/fixitnow/config/db"
	"github.com/joy095/fixitnow/models/booking_models"
	"github.com/joy095/fixitnow/models/service_models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These run against a real Postgres when TEST_DATABASE_URL is set. Every row
// they create hangs off a fresh service id, so a shared database is fine.
func pgPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := db.Connect(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.Migrate(ctx, pool))
	return pool
}

func pgService(t *testing.T, pool *pgxpool.Pool) *service_models.Service {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	s, err := service_models.NewService(uuid.New(), "Pipe repair", "Leaks", "Plumbing", "Western", 500000, now)
	require.NoError(t, err)
	require.NoError(t, service_models.NewPgStore(pool).Create(context.Background(), s))
	return s
}

func pgBooking(t *testing.T, s *service_models.Service, customerID uuid.UUID, date time.Time) *booking_models.Booking {
	t.Helper()
	b, err := booking_models.NewBooking(s.ID, customerID, s.ProviderID, s.Title, date, s.Price, time.Now().UTC().Truncate(time.Microsecond))
	require.NoError(t, err)
	b.CustomerAddress = "12 Lake Road"
	b.CustomerPhone = "0771234567"
	return b
}

func TestPgStoreCompareAndSetStatusSingleWinner(t *testing.T) {
	pool := pgPool(t)
	ctx := context.Background()
	store := booking_models.NewPgStore(pool)
	svc := pgService(t, pool)

	b := pgBooking(t, svc, uuid.New(), time.Now().Add(48*time.Hour).UTC().Truncate(time.Second))
	require.NoError(t, store.Create(ctx, b))

	const racers = 8
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
		lost int
	)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.CompareAndSetStatus(ctx, b.ID, booking_models.StatusPending, booking_models.StatusConfirmed, time.Now())
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case assert.ErrorIs(t, err, booking_models.ErrStatusChanged):
				lost++
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
	assert.Equal(t, racers-1, lost)

	got, err := store.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, booking_models.StatusConfirmed, got.Status)

	_, err = store.CompareAndSetStatus(ctx, uuid.New(), booking_models.StatusPending, booking_models.StatusConfirmed, time.Now())
	assert.ErrorIs(t, err, booking_models.ErrBookingNotFound)
}

func TestPgStoreCreateSerialisesSlotConflicts(t *testing.T) {
	pool := pgPool(t)
	ctx := context.Background()
	store := booking_models.NewPgStore(pool)
	svc := pgService(t, pool)
	slot := time.Now().Add(72 * time.Hour).UTC().Truncate(time.Second)

	const racers = 6
	bookings := make([]*booking_models.Booking, racers)
	for i := range bookings {
		bookings[i] = pgBooking(t, svc, uuid.New(), slot)
	}
	errs := make([]error, racers)
	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = store.Create(ctx, bookings[i])
		}(i)
	}
	wg.Wait()

	created := 0
	for _, err := range errs {
		if err == nil {
			created++
			continue
		}
		assert.ErrorIs(t, err, booking_models.ErrSlotTaken)
	}
	assert.Equal(t, 1, created)

	active, err := store.List(ctx, booking_models.Filter{ServiceID: svc.ID, Statuses: booking_models.ActiveStatuses})
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestPgStoreCreateRejectsSecondActiveBookingForCustomer(t *testing.T) {
	pool := pgPool(t)
	ctx := context.Background()
	store := booking_models.NewPgStore(pool)
	svc := pgService(t, pool)
	customer := uuid.New()
	day := time.Now().Add(96 * time.Hour).UTC().Truncate(time.Second)

	first := pgBooking(t, svc, customer, day)
	require.NoError(t, store.Create(ctx, first))
	assert.ErrorIs(t, store.Create(ctx, pgBooking(t, svc, customer, day.Add(2*time.Hour))), booking_models.ErrActiveBookingExists)

	_, err := store.CompareAndSetStatus(ctx, first.ID, booking_models.StatusPending, booking_models.StatusCancelled, time.Now())
	require.NoError(t, err)
	assert.NoError(t, store.Create(ctx, pgBooking(t, svc, customer, day.Add(2*time.Hour))))
}
