package booking_controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joy095/fixitnow/controllers"
	"github.com/joy095/fixitnow/logger"
	"github.com/joy095/fixitnow/models/booking_models"
	"github.com/joy095/fixitnow/models/user_models"
	"github.com/joy095/fixitnow/services/booking_service"
	"github.com/joy095/fixitnow/utils"
	"github.com/joy095/fixitnow/utils/apperrors"
)

// BookingController exposes the booking lifecycle over HTTP.
type BookingController struct {
	bookings *booking_service.BookingService
}

func NewBookingController(bookings *booking_service.BookingService) *BookingController {
	return &BookingController{bookings: bookings}
}

type CreateBookingRequest struct {
	ServiceID       string `json:"serviceId"`
	BookingDate     string `json:"bookingDate"`
	CustomerAddress string `json:"customerAddress"`
	CustomerPhone   string `json:"customerPhone"`
	SpecialRequests string `json:"specialRequests"`
}

type UpdateBookingRequest struct {
	BookingDate     *string `json:"bookingDate"`
	CustomerAddress *string `json:"customerAddress"`
	CustomerPhone   *string `json:"customerPhone"`
	SpecialRequests *string `json:"specialRequests"`
}

func (bc *BookingController) Create(c *gin.Context) {
	logger.InfoLogger.Info("CreateBooking controller called")

	p, err := utils.GetPrincipal(c)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	var req CreateBookingRequest
	if err := controllers.BindJSON(c, &req); err != nil {
		apperrors.Respond(c, err)
		return
	}
	serviceID, err := controllers.ParseUUIDField("serviceId", req.ServiceID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	date, err := controllers.ParseDateField("bookingDate", req.BookingDate)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	b, err := bc.bookings.Create(c.Request.Context(), p, booking_service.CreateInput{
		ServiceID:       serviceID,
		BookingDate:     date,
		CustomerAddress: req.CustomerAddress,
		CustomerPhone:   req.CustomerPhone,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	utils.Respond(c, http.StatusCreated, "Booking created", b)
}

func (bc *BookingController) Get(c *gin.Context) {
	p, id, ok := principalAndID(c)
	if !ok {
		return
	}
	b, err := bc.bookings.Get(c.Request.Context(), p, id)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	utils.Respond(c, http.StatusOK, "", b)
}

func (bc *BookingController) UpdateDetails(c *gin.Context) {
	logger.InfoLogger.Info("UpdateBooking controller called")

	p, id, ok := principalAndID(c)
	if !ok {
		return
	}

	var req UpdateBookingRequest
	if err := controllers.BindJSON(c, &req); err != nil {
		apperrors.Respond(c, err)
		return
	}
	in := booking_service.DetailsInput{
		CustomerAddress: req.CustomerAddress,
		CustomerPhone:   req.CustomerPhone,
		SpecialRequests: req.SpecialRequests,
	}
	if req.BookingDate != nil {
		date, err := controllers.ParseDateField("bookingDate", *req.BookingDate)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		in.BookingDate = &date
	}

	b, err := bc.bookings.UpdateDetails(c.Request.Context(), p, id, in)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	utils.Respond(c, http.StatusOK, "Booking updated", b)
}

func (bc *BookingController) Cancel(c *gin.Context) {
	bc.transition(c, "Booking cancelled", bc.bookings.Cancel)
}

func (bc *BookingController) Confirm(c *gin.Context) {
	bc.transition(c, "Booking confirmed", bc.bookings.Confirm)
}

func (bc *BookingController) Start(c *gin.Context) {
	bc.transition(c, "Booking started", bc.bookings.Start)
}

func (bc *BookingController) Complete(c *gin.Context) {
	bc.transition(c, "Booking completed", bc.bookings.Complete)
}

func (bc *BookingController) transition(c *gin.Context, message string, apply func(ctx context.Context, p user_models.Principal, id uuid.UUID) (*booking_models.Booking, error)) {
	p, id, ok := principalAndID(c)
	if !ok {
		return
	}
	b, err := apply(c.Request.Context(), p, id)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	utils.Respond(c, http.StatusOK, message, b)
}

func (bc *BookingController) ListForCustomer(c *gin.Context) {
	bc.list(c, bc.bookings.ListByCustomer)
}

func (bc *BookingController) ListForProvider(c *gin.Context) {
	bc.list(c, bc.bookings.ListByProvider)
}

func (bc *BookingController) ListUpcoming(c *gin.Context) {
	bc.list(c, bc.bookings.ListUpcoming)
}

func (bc *BookingController) ListAll(c *gin.Context) {
	bc.list(c, bc.bookings.ListAll)
}

func (bc *BookingController) ListByStatus(c *gin.Context) {
	status, err := booking_models.ParseStatus(c.Param("status"))
	if err != nil {
		apperrors.Respond(c, apperrors.Field("status", err.Error()))
		return
	}
	bc.list(c, func(ctx context.Context, p user_models.Principal) ([]booking_models.Booking, error) {
		return bc.bookings.ListByStatus(ctx, p, status)
	})
}

func (bc *BookingController) list(c *gin.Context, fetch func(ctx context.Context, p user_models.Principal) ([]booking_models.Booking, error)) {
	p, err := utils.GetPrincipal(c)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	list, err := fetch(c.Request.Context(), p)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	if list == nil {
		list = []booking_models.Booking{}
	}
	utils.Respond(c, http.StatusOK, "", list)
}

func (bc *BookingController) ProviderStats(c *gin.Context) {
	p, err := utils.GetPrincipal(c)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	stats, err := bc.bookings.ProviderStats(c.Request.Context(), p)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	utils.Respond(c, http.StatusOK, "", stats)
}

func principalAndID(c *gin.Context) (user_models.Principal, uuid.UUID, bool) {
	p, err := utils.GetPrincipal(c)
	if err != nil {
		apperrors.Respond(c, err)
		return p, uuid.Nil, false
	}
	id, err := controllers.ParamID(c, "id")
	if err != nil {
		apperrors.Respond(c, err)
		return p, uuid.Nil, false
	}
	return p, id, true
}
