package catalog_service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/joy095/fixitnow/logger"
	"github.com/joy095/fixitnow/models/booking_models"
	"github.com/joy095/fixitnow/models/service_models"
	"github.com/joy095/fixitnow/models/shared_models"
	"github.com/joy095/fixitnow/models/user_models"
	"github.com/joy095/fixitnow/utils/apperrors"
	"github.com/joy095/fixitnow/utils/validation"
)

// CatalogService is the thin listing layer the booking flow reads from.
type CatalogService struct {
	services service_models.Store
	bookings booking_models.Store
	now      func() time.Time
}

func NewCatalogService(services service_models.Store, bookings booking_models.Store, now func() time.Time) *CatalogService {
	if now == nil {
		now = time.Now
	}
	return &CatalogService{services: services, bookings: bookings, now: now}
}

type ListInput struct {
	Category   string
	Province   string
	ProviderID uuid.UUID
	// ExcludeActiveForCustomer hides services the calling customer already
	// holds an active booking on.
	ExcludeActiveForCustomer bool
}

type CreateInput struct {
	Title       string              `json:"title" validate:"notblank,max=200"`
	Description string              `json:"description" validate:"max=2000"`
	Category    string              `json:"category" validate:"notblank,max=100"`
	Province    string              `json:"province" validate:"notblank,max=100"`
	Price       shared_models.Money `json:"price" validate:"gt=0"`
}

// List returns listings. Customers only ever see AVAILABLE services.
func (s *CatalogService) List(ctx context.Context, p user_models.Principal, in ListInput) ([]service_models.Service, error) {
	f := service_models.Filter{
		Category:      in.Category,
		Province:      in.Province,
		ProviderID:    in.ProviderID,
		AvailableOnly: p.Is(user_models.RoleCustomer),
	}
	if in.ExcludeActiveForCustomer && p.Is(user_models.RoleCustomer) {
		active, err := s.bookings.List(ctx, booking_models.Filter{
			CustomerID: p.UserID,
			Statuses:   booking_models.ActiveStatuses,
		})
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		for _, b := range active {
			f.ExcludeIDs = append(f.ExcludeIDs, b.ServiceID)
		}
	}
	out, err := s.services.List(ctx, f)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return out, nil
}

func (s *CatalogService) Get(ctx context.Context, id uuid.UUID) (*service_models.Service, error) {
	svc, err := s.services.Get(ctx, id)
	if err != nil {
		if errors.Is(err, service_models.ErrServiceNotFound) {
			return nil, apperrors.NotFound("service")
		}
		return nil, apperrors.Internal(err)
	}
	return svc, nil
}

func (s *CatalogService) Create(ctx context.Context, p user_models.Principal, in CreateInput) (*service_models.Service, error) {
	if !p.Is(user_models.RoleProvider) {
		return nil, apperrors.Forbidden("only providers can list services")
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	svc, err := service_models.NewService(p.UserID, in.Title, in.Description, in.Category, in.Province, in.Price, s.now())
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if err := s.services.Create(ctx, svc); err != nil {
		return nil, apperrors.Internal(err)
	}
	logger.InfoLogger.Infof("Service %s listed by %s", svc.ID, p)
	return svc, nil
}

// UpdatePrice changes the listing price. Existing bookings keep the amount
// they were created with.
func (s *CatalogService) UpdatePrice(ctx context.Context, p user_models.Principal, id uuid.UUID, price shared_models.Money) (*service_models.Service, error) {
	if price <= 0 {
		return nil, apperrors.Field("price", "must be greater than 0")
	}
	if _, err := s.owned(ctx, p, id); err != nil {
		return nil, err
	}
	svc, err := s.services.UpdatePrice(ctx, id, price, s.now())
	if err != nil {
		return nil, s.storeErr(err)
	}
	logger.InfoLogger.Infof("Service %s price set to %s by %s", id, price, p)
	return svc, nil
}

func (s *CatalogService) SetAvailability(ctx context.Context, p user_models.Principal, id uuid.UUID, a service_models.Availability) (*service_models.Service, error) {
	if _, err := s.owned(ctx, p, id); err != nil {
		return nil, err
	}
	svc, err := s.services.SetAvailability(ctx, id, a, s.now())
	if err != nil {
		return nil, s.storeErr(err)
	}
	logger.InfoLogger.Infof("Service %s marked %s by %s", id, a, p)
	return svc, nil
}

func (s *CatalogService) owned(ctx context.Context, p user_models.Principal, id uuid.UUID) (*service_models.Service, error) {
	if !p.Is(user_models.RoleProvider) {
		return nil, apperrors.Forbidden("only providers can manage services")
	}
	svc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if svc.ProviderID != p.UserID {
		return nil, apperrors.Forbidden("you can only manage your own services")
	}
	return svc, nil
}

func (s *CatalogService) storeErr(err error) error {
	if errors.Is(err, service_models.ErrServiceNotFound) {
		return apperrors.NotFound("service")
	}
	return apperrors.Internal(err)
}
