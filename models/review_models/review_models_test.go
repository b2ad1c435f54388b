package review_models

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reviewsWith(ratings ...int) []Review {
	out := make([]Review, len(ratings))
	for i, r := range ratings {
		out[i] = Review{Rating: r}
	}
	return out
}

func TestSummarize(t *testing.T) {
	provider := uuid.New()

	empty := Summarize(provider, nil)
	assert.Equal(t, 0, empty.TotalReviews)
	assert.Equal(t, 0.0, empty.AverageRating)

	s := Summarize(provider, reviewsWith(5, 4, 4))
	assert.Equal(t, 4.3, s.AverageRating)
	assert.Equal(t, 3, s.TotalReviews)
	assert.Equal(t, 3, s.PositiveReviews)

	s = Summarize(provider, reviewsWith(1, 2, 4, 4))
	assert.Equal(t, 2.8, s.AverageRating)
	assert.Equal(t, 2, s.PositiveReviews)

	// 4.25 rounds half up
	s = Summarize(provider, reviewsWith(5, 5, 4, 3))
	assert.Equal(t, 4.3, s.AverageRating)
}

func TestMemoryStoreDuplicatePerBooking(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	customer, provider, booking := uuid.New(), uuid.New(), uuid.New()

	first, err := NewReview(customer, provider, &booking, 5, "Great", time.Now())
	require.NoError(t, err)
	require.NoError(t, store.Create(ctx, first))

	second, err := NewReview(customer, provider, &booking, 4, "Again", time.Now())
	require.NoError(t, err)
	assert.ErrorIs(t, store.Create(ctx, second), ErrDuplicateReview)

	unlinked, err := NewReview(customer, provider, nil, 4, "General", time.Now())
	require.NoError(t, err)
	assert.NoError(t, store.Create(ctx, unlinked))

	got, err := store.List(ctx, Filter{ProviderID: provider})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestMemoryStoreUpdateDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	r, err := NewReview(uuid.New(), uuid.New(), nil, 3, "Okay", time.Now())
	require.NoError(t, err)
	require.NoError(t, store.Create(ctx, r))

	r.Rating = 4
	r.Comment = "Better"
	require.NoError(t, store.Update(ctx, r))
	got, err := store.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Rating)

	require.NoError(t, store.Delete(ctx, r.ID))
	assert.ErrorIs(t, store.Delete(ctx, r.ID), ErrReviewNotFound)
	_, err = store.Get(ctx, r.ID)
	assert.ErrorIs(t, err, ErrReviewNotFound)
}
