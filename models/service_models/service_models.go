// models/service_models
package service_models

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joy095/fixitnow/models/shared_models"
)

// Availability is whether a listing accepts new bookings.
type Availability string

const (
	Available   Availability = "AVAILABLE"
	Unavailable Availability = "UNAVAILABLE"
)

func ParseAvailability(s string) (Availability, error) {
	a := Availability(strings.ToUpper(strings.TrimSpace(s)))
	if a == Available || a == Unavailable {
		return a, nil
	}
	return "", fmt.Errorf("unknown availability %q", s)
}

var ErrServiceNotFound = errors.New("service not found")

// Service is a provider's listing in the catalog.
type Service struct {
	ID                 uuid.UUID
	ProviderID         uuid.UUID
	Title              string
	Description        string
	Category           string
	Province           string
	Price              shared_models.Money
	AvailabilityStatus Availability
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (s *Service) IsAvailable() bool {
	return s.AvailabilityStatus == Available
}

type serviceJSON struct {
	ID                 uuid.UUID           `json:"serviceId"`
	ProviderID         uuid.UUID           `json:"providerId"`
	Title              string              `json:"title"`
	Description        string              `json:"description,omitempty"`
	Category           string              `json:"category"`
	Province           string              `json:"province"`
	Price              shared_models.Money `json:"price"`
	PriceDisplay       string              `json:"priceDisplay"`
	AvailabilityStatus Availability        `json:"availabilityStatus"`
	CreatedAt          time.Time           `json:"createdAt"`
	UpdatedAt          time.Time           `json:"updatedAt"`
}

func (s Service) MarshalJSON() ([]byte, error) {
	return json.Marshal(serviceJSON{
		ID:                 s.ID,
		ProviderID:         s.ProviderID,
		Title:              s.Title,
		Description:        s.Description,
		Category:           s.Category,
		Province:           s.Province,
		Price:              s.Price,
		PriceDisplay:       s.Price.Display(),
		AvailabilityStatus: s.AvailabilityStatus,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	})
}

// NewService creates an AVAILABLE listing with a generated ID and timestamps.
func NewService(providerID uuid.UUID, title, description, category, province string, price shared_models.Money, now time.Time) (*Service, error) {
	id, err := shared_models.GenerateUUIDv7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate UUID for service: %w", err)
	}
	return &Service{
		ID:                 id,
		ProviderID:         providerID,
		Title:              title,
		Description:        description,
		Category:           category,
		Province:           province,
		Price:              price,
		AvailabilityStatus: Available,
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}

// Filter narrows a catalog listing. Empty fields match everything.
type Filter struct {
	Category      string
	Province      string
	ProviderID    uuid.UUID
	AvailableOnly bool
	ExcludeIDs    []uuid.UUID
}

func (f Filter) matches(s *Service) bool {
	if f.Category != "" && !strings.EqualFold(s.Category, f.Category) {
		return false
	}
	if f.Province != "" && !strings.EqualFold(s.Province, f.Province) {
		return false
	}
	if f.ProviderID != uuid.Nil && s.ProviderID != f.ProviderID {
		return false
	}
	if f.AvailableOnly && !s.IsAvailable() {
		return false
	}
	for _, id := range f.ExcludeIDs {
		if s.ID == id {
			return false
		}
	}
	return true
}

type Store interface {
	Create(ctx context.Context, s *Service) error
	Get(ctx context.Context, id uuid.UUID) (*Service, error)
	List(ctx context.Context, f Filter) ([]Service, error)
	UpdatePrice(ctx context.Context, id uuid.UUID, price shared_models.Money, at time.Time) (*Service, error)
	SetAvailability(ctx context.Context, id uuid.UUID, a Availability, at time.Time) (*Service, error)
}
