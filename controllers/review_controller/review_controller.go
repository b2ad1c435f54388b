package review_controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joy095/fixitnow/controllers"
	"github.com/joy095/fixitnow/logger"
	"github.com/joy095/fixitnow/models/review_models"
	"github.com/joy095/fixitnow/services/review_service"
	"github.com/joy095/fixitnow/utils"
	"github.com/joy095/fixitnow/utils/apperrors"
)

type ReviewController struct {
	reviews *review_service.ReviewService
}

func NewReviewController(reviews *review_service.ReviewService) *ReviewController {
	return &ReviewController{reviews: reviews}
}

type SubmitReviewRequest struct {
	ProviderID string  `json:"providerId"`
	BookingID  *string `json:"bookingId"`
	Rating     int     `json:"rating"`
	Comment    string  `json:"comment"`
}

type UpdateReviewRequest struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

func (rc *ReviewController) Submit(c *gin.Context) {
	logger.InfoLogger.Info("SubmitReview controller called")

	p, err := utils.GetPrincipal(c)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	var req SubmitReviewRequest
	if err := controllers.BindJSON(c, &req); err != nil {
		apperrors.Respond(c, err)
		return
	}
	providerID, err := controllers.ParseUUIDField("providerId", req.ProviderID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	in := review_service.SubmitInput{
		ProviderID: providerID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}
	if req.BookingID != nil && *req.BookingID != "" {
		bookingID, err := controllers.ParseUUIDField("bookingId", *req.BookingID)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		in.BookingID = &bookingID
	}

	r, err := rc.reviews.Submit(c.Request.Context(), p, in)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	utils.Respond(c, http.StatusCreated, "Review submitted", r)
}

func (rc *ReviewController) Update(c *gin.Context) {
	p, err := utils.GetPrincipal(c)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	id, err := controllers.ParamID(c, "id")
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	var req UpdateReviewRequest
	if err := controllers.BindJSON(c, &req); err != nil {
		apperrors.Respond(c, err)
		return
	}

	r, err := rc.reviews.Update(c.Request.Context(), p, id, review_service.UpdateInput{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	utils.Respond(c, http.StatusOK, "Review updated", r)
}

func (rc *ReviewController) Delete(c *gin.Context) {
	p, err := utils.GetPrincipal(c)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	id, err := controllers.ParamID(c, "id")
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	if err := rc.reviews.Delete(c.Request.Context(), p, id); err != nil {
		apperrors.Respond(c, err)
		return
	}
	utils.Respond(c, http.StatusOK, "Review deleted", gin.H{"reviewId": id})
}

func (rc *ReviewController) ListForProvider(c *gin.Context) {
	id, err := controllers.ParamID(c, "id")
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	rc.respondList(c, func() ([]review_models.Review, error) {
		return rc.reviews.ListByProvider(c.Request.Context(), id)
	})
}

func (rc *ReviewController) ListForCustomer(c *gin.Context) {
	id, err := controllers.ParamID(c, "id")
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	rc.respondList(c, func() ([]review_models.Review, error) {
		return rc.reviews.ListByCustomer(c.Request.Context(), id)
	})
}

func (rc *ReviewController) ListAll(c *gin.Context) {
	p, err := utils.GetPrincipal(c)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	rc.respondList(c, func() ([]review_models.Review, error) {
		return rc.reviews.ListAll(c.Request.Context(), p)
	})
}

func (rc *ReviewController) respondList(c *gin.Context, fetch func() ([]review_models.Review, error)) {
	list, err := fetch()
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	if list == nil {
		list = []review_models.Review{}
	}
	utils.Respond(c, http.StatusOK, "", list)
}

// Summary returns the provider's rating aggregate.
func (rc *ReviewController) Summary(c *gin.Context) {
	id, err := controllers.ParamID(c, "id")
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	summary, err := rc.reviews.Aggregate(c.Request.Context(), id)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	utils.Respond(c, http.StatusOK, "", summary)
}
