package booking_models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joy095/fixitnow/models/shared_models"
	"github.com/joy095/fixitnow/models/user_models"
)

// Status is the lifecycle state of a booking.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusConfirmed  Status = "CONFIRMED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
)

// AllStatuses lists every status in lifecycle order.
var AllStatuses = []Status{StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled}

// ActiveStatuses are the statuses of a booking that still holds the service.
var ActiveStatuses = []Status{StatusPending, StatusConfirmed, StatusInProgress}

// ParseStatus accepts a status name in any case.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range AllStatuses {
		if st == known {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown booking status %q", s)
}

func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed || s == StatusInProgress
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Action is a request to move a booking to its next status.
type Action string

const (
	ActionConfirm  Action = "confirm"
	ActionStart    Action = "start"
	ActionComplete Action = "complete"
	ActionCancel   Action = "cancel"
)

type edge struct {
	from   Status
	action Action
}

// transitions is the complete lifecycle. Anything not listed is invalid.
var transitions = map[edge]Status{
	{StatusPending, ActionConfirm}:     StatusConfirmed,
	{StatusPending, ActionCancel}:      StatusCancelled,
	{StatusConfirmed, ActionCancel}:    StatusCancelled,
	{StatusConfirmed, ActionStart}:     StatusInProgress,
	{StatusInProgress, ActionComplete}: StatusCompleted,
}

// Next returns the status reached by applying action in from.
func Next(from Status, action Action) (Status, bool) {
	to, ok := transitions[edge{from, action}]
	return to, ok
}

// Actor is the role allowed to perform the action. Cancel belongs to the
// customer; the provider drives everything else.
func (a Action) Actor() user_models.Role {
	if a == ActionCancel {
		return user_models.RoleCustomer
	}
	return user_models.RoleProvider
}

// Booking is a customer's reservation of a provider's service.
type Booking struct {
	ID              uuid.UUID
	ServiceID       uuid.UUID
	CustomerID      uuid.UUID
	ProviderID      uuid.UUID
	ServiceTitle    string
	Status          Status
	BookingDate     time.Time
	CustomerAddress string
	CustomerPhone   string
	SpecialRequests string
	TotalAmount     shared_models.Money
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OwnerFor returns the user that owns the booking for the given role.
func (b *Booking) OwnerFor(role user_models.Role) uuid.UUID {
	if role == user_models.RoleCustomer {
		return b.CustomerID
	}
	return b.ProviderID
}

// Involves reports whether the user is the booking's customer or provider.
func (b *Booking) Involves(userID uuid.UUID) bool {
	return b.CustomerID == userID || b.ProviderID == userID
}

type bookingJSON struct {
	ID                 uuid.UUID           `json:"bookingId"`
	ServiceID          uuid.UUID           `json:"serviceId"`
	ServiceTitle       string              `json:"serviceTitle"`
	CustomerID         uuid.UUID           `json:"customerId"`
	ProviderID         uuid.UUID           `json:"providerId"`
	Status             Status              `json:"status"`
	BookingDate        string              `json:"bookingDate"`
	CustomerAddress    string              `json:"customerAddress"`
	CustomerPhone      string              `json:"customerPhone"`
	SpecialRequests    string              `json:"specialRequests,omitempty"`
	TotalAmount        shared_models.Money `json:"totalAmount"`
	TotalAmountDisplay string              `json:"totalAmountDisplay"`
	CreatedAt          time.Time           `json:"createdAt"`
	UpdatedAt          time.Time           `json:"updatedAt"`
}

// MarshalJSON renders the booking date as a local timestamp and the amount
// as a decimal string.
func (b Booking) MarshalJSON() ([]byte, error) {
	return json.Marshal(bookingJSON{
		ID:                 b.ID,
		ServiceID:          b.ServiceID,
		ServiceTitle:       b.ServiceTitle,
		CustomerID:         b.CustomerID,
		ProviderID:         b.ProviderID,
		Status:             b.Status,
		BookingDate:        shared_models.FormatLocal(b.BookingDate),
		CustomerAddress:    b.CustomerAddress,
		CustomerPhone:      b.CustomerPhone,
		SpecialRequests:    b.SpecialRequests,
		TotalAmount:        b.TotalAmount,
		TotalAmountDisplay: b.TotalAmount.Display(),
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	})
}

// NewBooking builds a PENDING booking with a fresh id.
func NewBooking(serviceID, customerID, providerID uuid.UUID, title string, date time.Time, amount shared_models.Money, now time.Time) (*Booking, error) {
	id, err := shared_models.GenerateUUIDv7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate UUID for booking: %w", err)
	}
	return &Booking{
		ID:           id,
		ServiceID:    serviceID,
		CustomerID:   customerID,
		ProviderID:   providerID,
		ServiceTitle: title,
		Status:       StatusPending,
		BookingDate:  date,
		TotalAmount:  amount,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// DetailsUpdate carries the customer-editable fields. Nil means unchanged.
type DetailsUpdate struct {
	BookingDate     *time.Time
	CustomerAddress *string
	CustomerPhone   *string
	SpecialRequests *string
}

func (u DetailsUpdate) apply(b *Booking) {
	if u.BookingDate != nil {
		b.BookingDate = *u.BookingDate
	}
	if u.CustomerAddress != nil {
		b.CustomerAddress = *u.CustomerAddress
	}
	if u.CustomerPhone != nil {
		b.CustomerPhone = *u.CustomerPhone
	}
	if u.SpecialRequests != nil {
		b.SpecialRequests = *u.SpecialRequests
	}
}
