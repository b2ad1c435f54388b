package review_service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/joy095/fixitnow/badwords"
	"github.com/joy095/fixitnow/models/booking_models"
	"github.com/joy095/fixitnow/models/review_models"
	"github.com/joy095/fixitnow/models/user_models"
	"github.com/joy095/fixitnow/utils/apperrors"
	"github.com/joy095/fixitnow/utils/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

type fixture struct {
	svc      *ReviewService
	reviews  *review_models.MemoryStore
	bookings *booking_models.MemoryStore
	events   *events.Recorder
	customer user_models.Principal
	provider user_models.Principal
	admin    user_models.Principal
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{
		reviews:  review_models.NewMemoryStore(),
		bookings: booking_models.NewMemoryStore(),
		events:   &events.Recorder{},
		customer: user_models.Principal{UserID: uuid.New(), Role: user_models.RoleCustomer},
		provider: user_models.Principal{UserID: uuid.New(), Role: user_models.RoleProvider},
		admin:    user_models.Principal{UserID: uuid.New(), Role: user_models.RoleAdmin},
	}
	opts = append([]Option{WithClock(func() time.Time { return now })}, opts...)
	f.svc = NewReviewService(f.reviews, f.bookings, f.events, opts...)
	return f
}

func (f *fixture) booking(t *testing.T, status booking_models.Status) *booking_models.Booking {
	t.Helper()
	b, err := booking_models.NewBooking(uuid.New(), f.customer.UserID, f.provider.UserID, "Roof fix", now.Add(-48*time.Hour), 300000, now.Add(-72*time.Hour))
	require.NoError(t, err)
	b.Status = status
	require.NoError(t, f.bookings.Create(context.Background(), b))
	return b
}

func assertCode(t *testing.T, err error, code apperrors.Code) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, code, apperrors.From(err).Code, err.Error())
}

func TestSubmitForCompletedBookingThenDuplicate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b := f.booking(t, booking_models.StatusCompleted)

	r, err := f.svc.Submit(ctx, f.customer, SubmitInput{ProviderID: f.provider.UserID, BookingID: &b.ID, Rating: 5, Comment: "Spotless work"})
	require.NoError(t, err)
	assert.Equal(t, 5, r.Rating)
	assert.Equal(t, b.ID, *r.BookingID)

	_, err = f.svc.Submit(ctx, f.customer, SubmitInput{ProviderID: f.provider.UserID, BookingID: &b.ID, Rating: 4, Comment: "Again"})
	assertCode(t, err, apperrors.CodeNotEligible)

	assert.Equal(t, []string{events.ReviewSubmitted}, f.events.Keys())
}

func TestRatingBounds(t *testing.T) {
	ctx := context.Background()
	for _, tc := range []struct {
		rating int
		ok     bool
	}{
		{0, false},
		{1, true},
		{5, true},
		{6, false},
	} {
		f := newFixture(t)
		b := f.booking(t, booking_models.StatusCompleted)
		_, err := f.svc.Submit(ctx, f.customer, SubmitInput{ProviderID: f.provider.UserID, BookingID: &b.ID, Rating: tc.rating, Comment: "ok"})
		if tc.ok {
			assert.NoError(t, err, "rating %d", tc.rating)
		} else {
			assertCode(t, err, apperrors.CodeValidation)
		}
	}
}

func TestModeratedComments(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, WithModerator(badwords.New("scam")))
	b := f.booking(t, booking_models.StatusCompleted)

	_, err := f.svc.Submit(ctx, f.customer, SubmitInput{ProviderID: f.provider.UserID, BookingID: &b.ID, Rating: 1, Comment: "Total scam"})
	assertCode(t, err, apperrors.CodeValidation)
	assert.Equal(t, "comment", apperrors.From(err).Details[0].Field)

	r, err := f.svc.Submit(ctx, f.customer, SubmitInput{ProviderID: f.provider.UserID, BookingID: &b.ID, Rating: 2, Comment: "Late and messy"})
	require.NoError(t, err)

	flagged := "Scam artists"
	_, err = f.svc.Update(ctx, f.customer, r.ID, UpdateInput{Comment: &flagged})
	assertCode(t, err, apperrors.CodeValidation)
	assert.Equal(t, []string{events.ReviewSubmitted}, f.events.Keys())
}

func TestSubmitEligibility(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	pending := f.booking(t, booking_models.StatusConfirmed)
	_, err := f.svc.Submit(ctx, f.customer, SubmitInput{ProviderID: f.provider.UserID, BookingID: &pending.ID, Rating: 4, Comment: "Early"})
	assertCode(t, err, apperrors.CodeNotEligible)

	_, err = f.svc.Submit(ctx, f.customer, SubmitInput{ProviderID: f.provider.UserID, Rating: 4, Comment: "No booking"})
	assertCode(t, err, apperrors.CodeNotEligible)

	done := f.booking(t, booking_models.StatusCompleted)
	wrongProvider := uuid.New()
	_, err = f.svc.Submit(ctx, f.customer, SubmitInput{ProviderID: wrongProvider, BookingID: &done.ID, Rating: 4, Comment: "Mismatch"})
	assertCode(t, err, apperrors.CodeNotEligible)

	missing := uuid.New()
	_, err = f.svc.Submit(ctx, f.customer, SubmitInput{ProviderID: f.provider.UserID, BookingID: &missing, Rating: 4, Comment: "Ghost"})
	assertCode(t, err, apperrors.CodeNotFound)

	_, err = f.svc.Submit(ctx, f.customer, SubmitInput{ProviderID: f.provider.UserID, Rating: 4, Comment: "General"})
	assert.NoError(t, err)

	_, err = f.svc.Submit(ctx, f.provider, SubmitInput{ProviderID: f.provider.UserID, Rating: 4, Comment: "Self"})
	assertCode(t, err, apperrors.CodeForbidden)
}

func TestRelaxedEligibility(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, WithRequireCompletedBooking(false))

	_, err := f.svc.Submit(ctx, f.customer, SubmitInput{ProviderID: f.provider.UserID, Rating: 3, Comment: "Unlinked"})
	assert.NoError(t, err)

	pending := f.booking(t, booking_models.StatusPending)
	_, err = f.svc.Submit(ctx, f.customer, SubmitInput{ProviderID: f.provider.UserID, BookingID: &pending.ID, Rating: 3, Comment: "Pending"})
	assert.NoError(t, err)
}

func TestUpdateAndDeleteOwnership(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b := f.booking(t, booking_models.StatusCompleted)
	r, err := f.svc.Submit(ctx, f.customer, SubmitInput{ProviderID: f.provider.UserID, BookingID: &b.ID, Rating: 3, Comment: "Fine"})
	require.NoError(t, err)

	other := user_models.Principal{UserID: uuid.New(), Role: user_models.RoleCustomer}
	rating := 4
	_, err = f.svc.Update(ctx, other, r.ID, UpdateInput{Rating: &rating})
	assertCode(t, err, apperrors.CodeForbidden)

	zero := 0
	_, err = f.svc.Update(ctx, other, r.ID, UpdateInput{Rating: &zero})
	assertCode(t, err, apperrors.CodeForbidden)
	_, err = f.svc.Update(ctx, f.customer, r.ID, UpdateInput{Rating: &zero})
	assertCode(t, err, apperrors.CodeValidation)

	updated, err := f.svc.Update(ctx, f.customer, r.ID, UpdateInput{Rating: &rating})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Rating)
	assert.Equal(t, "Fine", updated.Comment)

	assertCode(t, f.svc.Delete(ctx, other, r.ID), apperrors.CodeForbidden)
	assertCode(t, f.svc.Delete(ctx, f.provider, r.ID), apperrors.CodeForbidden)
	require.NoError(t, f.svc.Delete(ctx, f.customer, r.ID))
	assertCode(t, f.svc.Delete(ctx, f.customer, r.ID), apperrors.CodeNotFound)
}

func TestAdminCanDeleteAnyReview(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b := f.booking(t, booking_models.StatusCompleted)
	r, err := f.svc.Submit(ctx, f.customer, SubmitInput{ProviderID: f.provider.UserID, BookingID: &b.ID, Rating: 1, Comment: "Spam"})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, f.admin, r.ID))
	assert.Equal(t, []string{events.ReviewSubmitted, events.ReviewDeleted}, f.events.Keys())
}

type mapCache struct {
	mu   sync.Mutex
	data map[uuid.UUID]review_models.Summary
	hits int
}

func (c *mapCache) Get(_ context.Context, id uuid.UUID) (review_models.Summary, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.data[id]
	if ok {
		c.hits++
	}
	return s, ok
}

func (c *mapCache) Set(_ context.Context, s review_models.Summary) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[s.ProviderID] = s
}

func (c *mapCache) Invalidate(_ context.Context, id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, id)
}

func TestAggregateUsesAndInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	cache := &mapCache{data: map[uuid.UUID]review_models.Summary{}}
	f := newFixture(t, WithCache(cache))

	for _, rating := range []int{5, 4} {
		b := f.booking(t, booking_models.StatusCompleted)
		_, err := f.svc.Submit(ctx, f.customer, SubmitInput{ProviderID: f.provider.UserID, BookingID: &b.ID, Rating: rating, Comment: "ok"})
		require.NoError(t, err)
	}

	s, err := f.svc.Aggregate(ctx, f.provider.UserID)
	require.NoError(t, err)
	assert.Equal(t, 4.5, s.AverageRating)
	assert.Equal(t, 2, s.TotalReviews)
	assert.Equal(t, 2, s.PositiveReviews)

	_, err = f.svc.Aggregate(ctx, f.provider.UserID)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits)

	b := f.booking(t, booking_models.StatusCompleted)
	_, err = f.svc.Submit(ctx, f.customer, SubmitInput{ProviderID: f.provider.UserID, BookingID: &b.ID, Rating: 2, Comment: "meh"})
	require.NoError(t, err)

	s, err = f.svc.Aggregate(ctx, f.provider.UserID)
	require.NoError(t, err)
	assert.Equal(t, 3.7, s.AverageRating)
	assert.Equal(t, 3, s.TotalReviews)
	assert.Equal(t, 2, s.PositiveReviews)
}

func TestListAllRequiresAdmin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.ListAll(ctx, f.customer)
	assertCode(t, err, apperrors.CodeForbidden)

	all, err := f.svc.ListAll(ctx, f.admin)
	require.NoError(t, err)
	assert.Empty(t, all)
}
