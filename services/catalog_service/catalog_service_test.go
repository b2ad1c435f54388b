package catalog_service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/joy095/fixitnow/models/booking_models"
	"github.com/joy095/fixitnow/models/service_models"
	"github.com/joy095/fixitnow/models/user_models"
	"github.com/joy095/fixitnow/utils/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)

func newCatalog() (*CatalogService, *booking_models.MemoryStore) {
	bookings := booking_models.NewMemoryStore()
	return NewCatalogService(service_models.NewMemoryStore(), bookings, func() time.Time { return now }), bookings
}

func TestCreateAndOwnership(t *testing.T) {
	ctx := context.Background()
	c, _ := newCatalog()
	provider := user_models.Principal{UserID: uuid.New(), Role: user_models.RoleProvider}
	other := user_models.Principal{UserID: uuid.New(), Role: user_models.RoleProvider}
	customer := user_models.Principal{UserID: uuid.New(), Role: user_models.RoleCustomer}

	_, err := c.Create(ctx, customer, CreateInput{Title: "x", Category: "y", Province: "z", Price: 100})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = c.Create(ctx, provider, CreateInput{Title: "", Category: "Home", Province: "Western", Price: 0})
	require.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Len(t, apperrors.From(err).Details, 2)

	svc, err := c.Create(ctx, provider, CreateInput{Title: "AC service", Category: "Appliance", Province: "Western", Price: 450000})
	require.NoError(t, err)
	assert.Equal(t, service_models.Available, svc.AvailabilityStatus)

	_, err = c.UpdatePrice(ctx, other, svc.ID, 1000)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	updated, err := c.UpdatePrice(ctx, provider, svc.ID, 500000)
	require.NoError(t, err)
	assert.EqualValues(t, 500000, updated.Price)

	_, err = c.UpdatePrice(ctx, provider, svc.ID, -1)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = c.SetAvailability(ctx, provider, uuid.New(), service_models.Unavailable)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestListHidesUnavailableAndActiveForCustomer(t *testing.T) {
	ctx := context.Background()
	c, bookings := newCatalog()
	provider := user_models.Principal{UserID: uuid.New(), Role: user_models.RoleProvider}
	customer := user_models.Principal{UserID: uuid.New(), Role: user_models.RoleCustomer}

	booked, err := c.Create(ctx, provider, CreateInput{Title: "Booked", Category: "Home", Province: "Western", Price: 1000})
	require.NoError(t, err)
	free, err := c.Create(ctx, provider, CreateInput{Title: "Free", Category: "Home", Province: "Western", Price: 1000})
	require.NoError(t, err)
	off, err := c.Create(ctx, provider, CreateInput{Title: "Off", Category: "Home", Province: "Western", Price: 1000})
	require.NoError(t, err)
	_, err = c.SetAvailability(ctx, provider, off.ID, service_models.Unavailable)
	require.NoError(t, err)

	b, err := booking_models.NewBooking(booked.ID, customer.UserID, provider.UserID, booked.Title, now.Add(time.Hour), 1000, now)
	require.NoError(t, err)
	require.NoError(t, bookings.Create(ctx, b))

	all, err := c.List(ctx, provider, ListInput{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	visible, err := c.List(ctx, customer, ListInput{})
	require.NoError(t, err)
	assert.Len(t, visible, 2)

	bookable, err := c.List(ctx, customer, ListInput{ExcludeActiveForCustomer: true})
	require.NoError(t, err)
	require.Len(t, bookable, 1)
	assert.Equal(t, free.ID, bookable[0].ID)
}
