package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/joy095/fixitnow/controllers/review_controller"
	middleware "github.com/joy095/fixitnow/middlewares"
	"github.com/joy095/fixitnow/middlewares/auth"
	"github.com/joy095/fixitnow/models/user_models"
)

func RegisterReviewRoutes(api *gin.RouterGroup, d Dependencies) {
	reviewController := review_controller.NewReviewController(d.Reviews)

	reviews := api.Group("/reviews")
	{
		reviews.POST("",
			auth.RequireRole(user_models.RoleCustomer),
			middleware.NewRateLimiter(d.RateLimit, "submit-review", d.Redis),
			reviewController.Submit)
		reviews.PUT("/:id",
			auth.RequireRole(user_models.RoleCustomer),
			middleware.NewRateLimiter(d.RateLimit, "update-review", d.Redis),
			reviewController.Update)
		// Admins may also remove a review.
		reviews.DELETE("/:id",
			auth.RequireRole(user_models.RoleCustomer, user_models.RoleAdmin),
			middleware.NewRateLimiter(d.RateLimit, "delete-review", d.Redis),
			reviewController.Delete)

		reviews.GET("", auth.RequireRole(user_models.RoleAdmin), reviewController.ListAll)
		reviews.GET("/provider/:id", reviewController.ListForProvider)
		reviews.GET("/provider/:id/summary", reviewController.Summary)
		reviews.GET("/customer/:id", reviewController.ListForCustomer)
	}
}
