package booking_service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/joy095/fixitnow/logger"
	"github.com/joy095/fixitnow/models/booking_models"
	"github.com/joy095/fixitnow/models/service_models"
	"github.com/joy095/fixitnow/models/shared_models"
	"github.com/joy095/fixitnow/models/user_models"
	"github.com/joy095/fixitnow/utils/apperrors"
	"github.com/joy095/fixitnow/utils/events"
	"github.com/joy095/fixitnow/utils/validation"
)

const DefaultGrace = 30 * time.Minute

// BookingService owns the booking lifecycle. Every call takes the caller's
// principal and authorizes before touching state.
type BookingService struct {
	bookings  booking_models.Store
	services  service_models.Store
	publisher events.Publisher
	now       func() time.Time
	grace     time.Duration
}

type Option func(*BookingService)

func WithClock(now func() time.Time) Option {
	return func(s *BookingService) { s.now = now }
}

// WithGrace sets the minimum lead time for a new booking date.
func WithGrace(d time.Duration) Option {
	return func(s *BookingService) { s.grace = d }
}

func NewBookingService(bookings booking_models.Store, services service_models.Store, publisher events.Publisher, opts ...Option) *BookingService {
	s := &BookingService{
		bookings:  bookings,
		services:  services,
		publisher: publisher,
		now:       time.Now,
		grace:     DefaultGrace,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateInput is a customer's booking request.
type CreateInput struct {
	ServiceID       uuid.UUID `json:"serviceId" validate:"required"`
	BookingDate     time.Time `json:"bookingDate" validate:"required"`
	CustomerAddress string    `json:"customerAddress" validate:"notblank,max=200"`
	CustomerPhone   string    `json:"customerPhone" validate:"notblank,max=20,phone"`
	SpecialRequests string    `json:"specialRequests" validate:"max=500"`
}

// DetailsInput edits a PENDING booking. Nil fields stay unchanged.
type DetailsInput struct {
	BookingDate     *time.Time `json:"bookingDate"`
	CustomerAddress *string    `json:"customerAddress" validate:"omitnil,notblank,max=200"`
	CustomerPhone   *string    `json:"customerPhone" validate:"omitnil,notblank,max=20,phone"`
	SpecialRequests *string    `json:"specialRequests" validate:"omitnil,max=500"`
}

// ProviderStats summarises one provider's bookings.
type ProviderStats struct {
	TotalBookings      int                 `json:"totalBookings"`
	PendingBookings    int                 `json:"pendingBookings"`
	ConfirmedBookings  int                 `json:"confirmedBookings"`
	InProgressBookings int                 `json:"inProgressBookings"`
	CompletedBookings  int                 `json:"completedBookings"`
	CancelledBookings  int                 `json:"cancelledBookings"`
	TotalRevenue       shared_models.Money `json:"totalRevenue"`
	PendingRevenue     shared_models.Money `json:"pendingRevenue"`
}

func (s *BookingService) checkDate(field string, date time.Time) error {
	if date.Before(s.now().Add(s.grace)) {
		return apperrors.Field(field, fmt.Sprintf("must be at least %d minutes in the future", int(s.grace.Minutes())))
	}
	return nil
}

// Create books a service for the calling customer. The provider and price are
// read from the service now and never change afterwards.
func (s *BookingService) Create(ctx context.Context, p user_models.Principal, in CreateInput) (*booking_models.Booking, error) {
	if !p.Is(user_models.RoleCustomer) {
		return nil, apperrors.Forbidden("only customers can create bookings")
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if err := s.checkDate("bookingDate", in.BookingDate); err != nil {
		return nil, err
	}

	svc, err := s.services.Get(ctx, in.ServiceID)
	if err != nil {
		if errors.Is(err, service_models.ErrServiceNotFound) {
			return nil, apperrors.NotFound("service")
		}
		return nil, apperrors.Internal(err)
	}
	if !svc.IsAvailable() {
		return nil, apperrors.Field("serviceId", "service is not available for booking")
	}

	b, err := booking_models.NewBooking(svc.ID, p.UserID, svc.ProviderID, svc.Title, in.BookingDate, svc.Price, s.now())
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	b.CustomerAddress = in.CustomerAddress
	b.CustomerPhone = in.CustomerPhone
	b.SpecialRequests = in.SpecialRequests

	if err := s.bookings.Create(ctx, b); err != nil {
		switch {
		case errors.Is(err, booking_models.ErrActiveBookingExists):
			return nil, apperrors.Conflict("you already have an active booking for this service")
		case errors.Is(err, booking_models.ErrSlotTaken):
			return nil, apperrors.Conflict("this time slot is already booked")
		}
		return nil, apperrors.Internal(err)
	}

	logger.InfoLogger.Infof("Booking %s created by %s for service %s", b.ID, p, svc.ID)
	s.emit(ctx, events.BookingCreated, b)
	return b, nil
}

// Get returns a booking visible to its customer, its provider, or an admin.
func (s *BookingService) Get(ctx context.Context, p user_models.Principal, id uuid.UUID) (*booking_models.Booking, error) {
	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.Is(user_models.RoleAdmin) && !b.Involves(p.UserID) {
		return nil, apperrors.Forbidden("you do not have access to this booking")
	}
	return b, nil
}

// UpdateDetails lets the owning customer edit a booking that is still PENDING.
func (s *BookingService) UpdateDetails(ctx context.Context, p user_models.Principal, id uuid.UUID, in DetailsInput) (*booking_models.Booking, error) {
	if !p.Is(user_models.RoleCustomer) {
		return nil, apperrors.Forbidden("only customers can edit bookings")
	}
	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.CustomerID != p.UserID {
		return nil, apperrors.Forbidden("you can only edit your own bookings")
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if b.Status != booking_models.StatusPending {
		return nil, apperrors.InvalidTransition(fmt.Sprintf("cannot edit a booking that is %s", b.Status))
	}
	if in.BookingDate != nil {
		if err := s.checkDate("bookingDate", *in.BookingDate); err != nil {
			return nil, err
		}
	}

	updated, err := s.bookings.UpdateDetails(ctx, id, booking_models.StatusPending, booking_models.DetailsUpdate{
		BookingDate:     in.BookingDate,
		CustomerAddress: in.CustomerAddress,
		CustomerPhone:   in.CustomerPhone,
		SpecialRequests: in.SpecialRequests,
	}, s.now())
	if err != nil {
		switch {
		case errors.Is(err, booking_models.ErrBookingNotFound):
			return nil, apperrors.NotFound("booking")
		case errors.Is(err, booking_models.ErrStatusChanged):
			return nil, apperrors.InvalidTransition("booking is no longer pending")
		case errors.Is(err, booking_models.ErrSlotTaken):
			return nil, apperrors.Conflict("this time slot is already booked")
		}
		return nil, apperrors.Internal(err)
	}
	logger.InfoLogger.Infof("Booking %s details updated by %s", id, p)
	return updated, nil
}

func (s *BookingService) Cancel(ctx context.Context, p user_models.Principal, id uuid.UUID) (*booking_models.Booking, error) {
	return s.transition(ctx, p, id, booking_models.ActionCancel)
}

func (s *BookingService) Confirm(ctx context.Context, p user_models.Principal, id uuid.UUID) (*booking_models.Booking, error) {
	return s.transition(ctx, p, id, booking_models.ActionConfirm)
}

func (s *BookingService) Start(ctx context.Context, p user_models.Principal, id uuid.UUID) (*booking_models.Booking, error) {
	return s.transition(ctx, p, id, booking_models.ActionStart)
}

func (s *BookingService) Complete(ctx context.Context, p user_models.Principal, id uuid.UUID) (*booking_models.Booking, error) {
	return s.transition(ctx, p, id, booking_models.ActionComplete)
}

var transitionEvents = map[booking_models.Action]string{
	booking_models.ActionConfirm:  events.BookingConfirmed,
	booking_models.ActionStart:    events.BookingStarted,
	booking_models.ActionComplete: events.BookingCompleted,
	booking_models.ActionCancel:   events.BookingCancelled,
}

// transition checks role, then ownership, then the state machine, and
// finally writes with a compare-and-set on the status it read.
func (s *BookingService) transition(ctx context.Context, p user_models.Principal, id uuid.UUID, action booking_models.Action) (*booking_models.Booking, error) {
	actor := action.Actor()
	if !p.Is(actor) {
		logger.WarnLogger.Warnf("%s attempted to %s booking %s", p, action, id)
		return nil, apperrors.Forbidden(fmt.Sprintf("only the %s can %s a booking", roleNoun(actor), action))
	}

	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.OwnerFor(actor) != p.UserID {
		logger.WarnLogger.Warnf("%s attempted to %s booking %s they do not own", p, action, id)
		return nil, apperrors.Forbidden(fmt.Sprintf("you can only %s your own bookings", action))
	}

	to, ok := booking_models.Next(b.Status, action)
	if !ok {
		logger.WarnLogger.Warnf("Rejected %s on booking %s in status %s", action, id, b.Status)
		return nil, apperrors.InvalidTransition(fmt.Sprintf("cannot %s a booking that is %s", action, b.Status))
	}

	updated, err := s.bookings.CompareAndSetStatus(ctx, id, b.Status, to, s.now())
	if err != nil {
		switch {
		case errors.Is(err, booking_models.ErrStatusChanged):
			logger.WarnLogger.Warnf("Lost race to %s booking %s", action, id)
			return nil, apperrors.InvalidTransition(fmt.Sprintf("cannot %s: booking status has changed", action))
		case errors.Is(err, booking_models.ErrBookingNotFound):
			return nil, apperrors.NotFound("booking")
		}
		return nil, apperrors.Internal(err)
	}

	logger.InfoLogger.Infof("Booking %s moved %s -> %s by %s", id, b.Status, to, p)
	s.emit(ctx, transitionEvents[action], updated)
	return updated, nil
}

func roleNoun(r user_models.Role) string {
	if r == user_models.RoleCustomer {
		return "customer"
	}
	return "provider"
}

func (s *BookingService) ListByCustomer(ctx context.Context, p user_models.Principal) ([]booking_models.Booking, error) {
	if !p.Is(user_models.RoleCustomer) {
		return nil, apperrors.Forbidden("customer access required")
	}
	return s.list(ctx, booking_models.Filter{CustomerID: p.UserID})
}

func (s *BookingService) ListByProvider(ctx context.Context, p user_models.Principal) ([]booking_models.Booking, error) {
	if !p.Is(user_models.RoleProvider) {
		return nil, apperrors.Forbidden("provider access required")
	}
	return s.list(ctx, booking_models.Filter{ProviderID: p.UserID})
}

// ListByStatus returns the caller's bookings in one status. Admins see all.
func (s *BookingService) ListByStatus(ctx context.Context, p user_models.Principal, status booking_models.Status) ([]booking_models.Booking, error) {
	f, err := scope(p)
	if err != nil {
		return nil, err
	}
	f.Statuses = []booking_models.Status{status}
	return s.list(ctx, f)
}

// ListUpcoming returns the caller's active bookings from now on, soonest first.
func (s *BookingService) ListUpcoming(ctx context.Context, p user_models.Principal) ([]booking_models.Booking, error) {
	f, err := scope(p)
	if err != nil {
		return nil, err
	}
	now := s.now()
	f.Statuses = booking_models.ActiveStatuses
	f.DateFrom = &now
	f.Order = booking_models.OrderBookingDateAsc
	return s.list(ctx, f)
}

// ListAll is the unscoped admin view.
func (s *BookingService) ListAll(ctx context.Context, p user_models.Principal) ([]booking_models.Booking, error) {
	if !p.Is(user_models.RoleAdmin) {
		return nil, apperrors.Forbidden("admin access required")
	}
	return s.list(ctx, booking_models.Filter{})
}

func (s *BookingService) ProviderStats(ctx context.Context, p user_models.Principal) (*ProviderStats, error) {
	if !p.Is(user_models.RoleProvider) {
		return nil, apperrors.Forbidden("provider access required")
	}
	bookings, err := s.list(ctx, booking_models.Filter{ProviderID: p.UserID})
	if err != nil {
		return nil, err
	}

	stats := &ProviderStats{TotalBookings: len(bookings)}
	for _, b := range bookings {
		switch b.Status {
		case booking_models.StatusPending:
			stats.PendingBookings++
		case booking_models.StatusConfirmed:
			stats.ConfirmedBookings++
			stats.PendingRevenue += b.TotalAmount
		case booking_models.StatusInProgress:
			stats.InProgressBookings++
		case booking_models.StatusCompleted:
			stats.CompletedBookings++
			stats.TotalRevenue += b.TotalAmount
		case booking_models.StatusCancelled:
			stats.CancelledBookings++
		}
	}
	return stats, nil
}

func scope(p user_models.Principal) (booking_models.Filter, error) {
	switch p.Role {
	case user_models.RoleCustomer:
		return booking_models.Filter{CustomerID: p.UserID}, nil
	case user_models.RoleProvider:
		return booking_models.Filter{ProviderID: p.UserID}, nil
	case user_models.RoleAdmin:
		return booking_models.Filter{}, nil
	}
	return booking_models.Filter{}, apperrors.Forbidden("unknown role")
}

func (s *BookingService) list(ctx context.Context, f booking_models.Filter) ([]booking_models.Booking, error) {
	out, err := s.bookings.List(ctx, f)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return out, nil
}

func (s *BookingService) load(ctx context.Context, id uuid.UUID) (*booking_models.Booking, error) {
	b, err := s.bookings.Get(ctx, id)
	if err != nil {
		if errors.Is(err, booking_models.ErrBookingNotFound) {
			return nil, apperrors.NotFound("booking")
		}
		return nil, apperrors.Internal(err)
	}
	return b, nil
}

func (s *BookingService) emit(ctx context.Context, key string, b *booking_models.Booking) {
	events.Emit(ctx, s.publisher, events.New(key, s.now(), map[string]any{
		"bookingId":   b.ID.String(),
		"serviceId":   b.ServiceID.String(),
		"customerId":  b.CustomerID.String(),
		"providerId":  b.ProviderID.String(),
		"status":      string(b.Status),
		"bookingDate": shared_models.FormatLocal(b.BookingDate),
		"totalAmount": b.TotalAmount.String(),
	}))
}
