package review_models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/joy095/fixitnow/models/shared_models"
)

const (
	MinRating        = 1
	MaxRating        = 5
	PositiveRating   = 4
	MaxCommentLength = 1000
)

var (
	ErrReviewNotFound = errors.New("review not found")
	// ErrDuplicateReview means the customer already reviewed the booking.
	ErrDuplicateReview = errors.New("booking already reviewed by this customer")
)

// Review is a customer's rating of a provider, optionally tied to a booking.
type Review struct {
	ID         uuid.UUID  `json:"reviewId"`
	CustomerID uuid.UUID  `json:"customerId"`
	ProviderID uuid.UUID  `json:"providerId"`
	BookingID  *uuid.UUID `json:"bookingId,omitempty"`
	Rating     int        `json:"rating"`
	Comment    string     `json:"comment"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

func NewReview(customerID, providerID uuid.UUID, bookingID *uuid.UUID, rating int, comment string, now time.Time) (*Review, error) {
	id, err := shared_models.GenerateUUIDv7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate UUID for review: %w", err)
	}
	return &Review{
		ID:         id,
		CustomerID: customerID,
		ProviderID: providerID,
		BookingID:  bookingID,
		Rating:     rating,
		Comment:    comment,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// Summary is the rating aggregate of one provider.
type Summary struct {
	ProviderID      uuid.UUID `json:"providerId"`
	AverageRating   float64   `json:"averageRating"`
	TotalReviews    int       `json:"totalReviews"`
	PositiveReviews int       `json:"positiveReviews"`
}

// Summarize averages the ratings to one decimal place and counts those at or
// above PositiveRating.
func Summarize(providerID uuid.UUID, reviews []Review) Summary {
	s := Summary{ProviderID: providerID, TotalReviews: len(reviews)}
	if len(reviews) == 0 {
		return s
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
		if r.Rating >= PositiveRating {
			s.PositiveReviews++
		}
	}
	// integer half-up rounding of sum/n to tenths
	tenths := (sum*20 + len(reviews)) / (2 * len(reviews))
	s.AverageRating = float64(tenths) / 10
	return s
}

// Filter narrows a listing. Zero values match everything.
type Filter struct {
	CustomerID uuid.UUID
	ProviderID uuid.UUID
}

func (f Filter) matches(r *Review) bool {
	if f.CustomerID != uuid.Nil && r.CustomerID != f.CustomerID {
		return false
	}
	if f.ProviderID != uuid.Nil && r.ProviderID != f.ProviderID {
		return false
	}
	return true
}

type Store interface {
	// Create returns ErrDuplicateReview when the customer already reviewed
	// the same booking.
	Create(ctx context.Context, r *Review) error
	Get(ctx context.Context, id uuid.UUID) (*Review, error)
	// List returns newest first.
	List(ctx context.Context, f Filter) ([]Review, error)
	Update(ctx context.Context, r *Review) error
	Delete(ctx context.Context, id uuid.UUID) error
}
