package review_service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/joy095/fixitnow/logger"
	"github.com/joy095/fixitnow/models/booking_models"
	"github.com/joy095/fixitnow/models/review_models"
	"github.com/joy095/fixitnow/models/user_models"
	"github.com/joy095/fixitnow/utils/apperrors"
	"github.com/joy095/fixitnow/utils/events"
	"github.com/joy095/fixitnow/utils/validation"
)

type ReviewService struct {
	reviews         review_models.Store
	bookings        booking_models.Store
	publisher       events.Publisher
	cache           SummaryCache
	moderator       Moderator
	now             func() time.Time
	requireComplete bool
}

// Moderator flags comments that must not be published.
type Moderator interface {
	Contains(text string) bool
}

type Option func(*ReviewService)

func WithClock(now func() time.Time) Option {
	return func(s *ReviewService) { s.now = now }
}

func WithCache(c SummaryCache) Option {
	return func(s *ReviewService) { s.cache = c }
}

// WithRequireCompletedBooking toggles the eligibility rule. When on (the
// default) a review needs a COMPLETED booking between the pair.
func WithRequireCompletedBooking(on bool) Option {
	return func(s *ReviewService) { s.requireComplete = on }
}

// WithModerator rejects comments the moderator flags.
func WithModerator(m Moderator) Option {
	return func(s *ReviewService) { s.moderator = m }
}

func NewReviewService(reviews review_models.Store, bookings booking_models.Store, publisher events.Publisher, opts ...Option) *ReviewService {
	s := &ReviewService{
		reviews:         reviews,
		bookings:        bookings,
		publisher:       publisher,
		cache:           NoCache{},
		now:             time.Now,
		requireComplete: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type SubmitInput struct {
	ProviderID uuid.UUID  `json:"providerId" validate:"required"`
	BookingID  *uuid.UUID `json:"bookingId"`
	Rating     int        `json:"rating" validate:"min=1,max=5"`
	Comment    string     `json:"comment" validate:"notblank,max=1000"`
}

type UpdateInput struct {
	Rating  *int    `json:"rating" validate:"omitnil,min=1,max=5"`
	Comment *string `json:"comment" validate:"omitnil,notblank,max=1000"`
}

func (s *ReviewService) Submit(ctx context.Context, p user_models.Principal, in SubmitInput) (*review_models.Review, error) {
	if !p.Is(user_models.RoleCustomer) {
		return nil, apperrors.Forbidden("only customers can submit reviews")
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if err := s.moderate(in.Comment); err != nil {
		return nil, err
	}
	if err := s.checkEligible(ctx, p.UserID, in.ProviderID, in.BookingID); err != nil {
		return nil, err
	}

	r, err := review_models.NewReview(p.UserID, in.ProviderID, in.BookingID, in.Rating, in.Comment, s.now())
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if err := s.reviews.Create(ctx, r); err != nil {
		if errors.Is(err, review_models.ErrDuplicateReview) {
			return nil, apperrors.NotEligible("you have already reviewed this booking")
		}
		return nil, apperrors.Internal(err)
	}

	logger.InfoLogger.Infof("Review %s submitted by %s for provider %s", r.ID, p, r.ProviderID)
	s.cache.Invalidate(ctx, r.ProviderID)
	s.emit(ctx, events.ReviewSubmitted, r)
	return r, nil
}

func (s *ReviewService) moderate(comment string) error {
	if s.moderator != nil && s.moderator.Contains(comment) {
		return apperrors.Field("comment", "contains language that is not allowed")
	}
	return nil
}

// checkEligible applies the booking linkage rules. A named booking must
// belong to the pair; with the strict rule it must also be COMPLETED, and
// an unlinked review needs at least one COMPLETED booking with the provider.
func (s *ReviewService) checkEligible(ctx context.Context, customerID, providerID uuid.UUID, bookingID *uuid.UUID) error {
	if bookingID != nil {
		b, err := s.bookings.Get(ctx, *bookingID)
		if err != nil {
			if errors.Is(err, booking_models.ErrBookingNotFound) {
				return apperrors.NotFound("booking")
			}
			return apperrors.Internal(err)
		}
		if b.CustomerID != customerID || b.ProviderID != providerID {
			return apperrors.NotEligible("booking does not belong to this customer and provider")
		}
		if s.requireComplete && b.Status != booking_models.StatusCompleted {
			return apperrors.NotEligible("only completed bookings can be reviewed")
		}
		return nil
	}

	if !s.requireComplete {
		return nil
	}
	completed, err := s.bookings.List(ctx, booking_models.Filter{
		CustomerID: customerID,
		ProviderID: providerID,
		Statuses:   []booking_models.Status{booking_models.StatusCompleted},
	})
	if err != nil {
		return apperrors.Internal(err)
	}
	if len(completed) == 0 {
		return apperrors.NotEligible("you can only review providers after a completed booking")
	}
	return nil
}

func (s *ReviewService) Update(ctx context.Context, p user_models.Principal, id uuid.UUID, in UpdateInput) (*review_models.Review, error) {
	if !p.Is(user_models.RoleCustomer) {
		return nil, apperrors.Forbidden("only customers can edit reviews")
	}
	r, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.CustomerID != p.UserID {
		return nil, apperrors.Forbidden("you can only edit your own reviews")
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if in.Comment != nil {
		if err := s.moderate(*in.Comment); err != nil {
			return nil, err
		}
	}

	if in.Rating != nil {
		r.Rating = *in.Rating
	}
	if in.Comment != nil {
		r.Comment = *in.Comment
	}
	r.UpdatedAt = s.now()
	if err := s.reviews.Update(ctx, r); err != nil {
		if errors.Is(err, review_models.ErrReviewNotFound) {
			return nil, apperrors.NotFound("review")
		}
		return nil, apperrors.Internal(err)
	}

	s.cache.Invalidate(ctx, r.ProviderID)
	s.emit(ctx, events.ReviewUpdated, r)
	return r, nil
}

// Delete removes a review. Admins may delete any review.
func (s *ReviewService) Delete(ctx context.Context, p user_models.Principal, id uuid.UUID) error {
	if !p.Is(user_models.RoleCustomer) && !p.Is(user_models.RoleAdmin) {
		return apperrors.Forbidden("only the author or an admin can delete reviews")
	}
	r, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if p.Is(user_models.RoleCustomer) && r.CustomerID != p.UserID {
		return apperrors.Forbidden("you can only delete your own reviews")
	}
	if err := s.reviews.Delete(ctx, id); err != nil {
		if errors.Is(err, review_models.ErrReviewNotFound) {
			return apperrors.NotFound("review")
		}
		return apperrors.Internal(err)
	}

	logger.InfoLogger.Infof("Review %s deleted by %s", id, p)
	s.cache.Invalidate(ctx, r.ProviderID)
	s.emit(ctx, events.ReviewDeleted, r)
	return nil
}

func (s *ReviewService) ListByProvider(ctx context.Context, providerID uuid.UUID) ([]review_models.Review, error) {
	return s.list(ctx, review_models.Filter{ProviderID: providerID})
}

func (s *ReviewService) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]review_models.Review, error) {
	return s.list(ctx, review_models.Filter{CustomerID: customerID})
}

func (s *ReviewService) ListAll(ctx context.Context, p user_models.Principal) ([]review_models.Review, error) {
	if !p.Is(user_models.RoleAdmin) {
		return nil, apperrors.Forbidden("admin access required")
	}
	return s.list(ctx, review_models.Filter{})
}

// Aggregate returns the provider's rating summary, from cache when possible.
func (s *ReviewService) Aggregate(ctx context.Context, providerID uuid.UUID) (review_models.Summary, error) {
	if cached, ok := s.cache.Get(ctx, providerID); ok {
		return cached, nil
	}
	reviews, err := s.list(ctx, review_models.Filter{ProviderID: providerID})
	if err != nil {
		return review_models.Summary{}, err
	}
	summary := review_models.Summarize(providerID, reviews)
	s.cache.Set(ctx, summary)
	return summary, nil
}

func (s *ReviewService) list(ctx context.Context, f review_models.Filter) ([]review_models.Review, error) {
	out, err := s.reviews.List(ctx, f)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return out, nil
}

func (s *ReviewService) load(ctx context.Context, id uuid.UUID) (*review_models.Review, error) {
	r, err := s.reviews.Get(ctx, id)
	if err != nil {
		if errors.Is(err, review_models.ErrReviewNotFound) {
			return nil, apperrors.NotFound("review")
		}
		return nil, apperrors.Internal(err)
	}
	return r, nil
}

func (s *ReviewService) emit(ctx context.Context, key string, r *review_models.Review) {
	payload := map[string]any{
		"reviewId":   r.ID.String(),
		"customerId": r.CustomerID.String(),
		"providerId": r.ProviderID.String(),
		"rating":     r.Rating,
	}
	if r.BookingID != nil {
		payload["bookingId"] = r.BookingID.String()
	}
	events.Emit(ctx, s.publisher, events.New(key, s.now(), payload))
}
