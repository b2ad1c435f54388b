package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/joy095/fixitnow/controllers/booking_controller"
	middleware "github.com/joy095/fixitnow/middlewares"
	"github.com/joy095/fixitnow/middlewares/auth"
	"github.com/joy095/fixitnow/models/user_models"
)

// RegisterBookingRoutes registers all booking-related routes
func RegisterBookingRoutes(api *gin.RouterGroup, d Dependencies) {
	bookingController := booking_controller.NewBookingController(d.Bookings)

	bookings := api.Group("/bookings")
	{
		bookings.POST("",
			auth.RequireRole(user_models.RoleCustomer),
			middleware.NewRateLimiter(d.RateLimit, "create-booking", d.Redis),
			bookingController.Create)

		bookings.GET("", auth.RequireRole(user_models.RoleAdmin), bookingController.ListAll)
		bookings.GET("/:id", bookingController.Get)

		bookings.PUT("/:id",
			auth.RequireRole(user_models.RoleCustomer),
			middleware.NewRateLimiter(d.RateLimit, "update-booking", d.Redis),
			bookingController.UpdateDetails)

		bookings.PUT("/:id/cancel",
			auth.RequireRole(user_models.RoleCustomer),
			middleware.NewRateLimiter(d.RateLimit, "cancel-booking", d.Redis),
			bookingController.Cancel)

		// Provider transitions
		bookings.PATCH("/:id/confirm",
			auth.RequireRole(user_models.RoleProvider),
			middleware.NewRateLimiter(d.RateLimit, "confirm-booking", d.Redis),
			bookingController.Confirm)
		bookings.PATCH("/:id/start",
			auth.RequireRole(user_models.RoleProvider),
			middleware.NewRateLimiter(d.RateLimit, "start-booking", d.Redis),
			bookingController.Start)
		bookings.PATCH("/:id/complete",
			auth.RequireRole(user_models.RoleProvider),
			middleware.NewRateLimiter(d.RateLimit, "complete-booking", d.Redis),
			bookingController.Complete)
	}

	customer := bookings.Group("/customer")
	customer.Use(auth.RequireRole(user_models.RoleCustomer))
	{
		customer.GET("", bookingController.ListForCustomer)
		customer.GET("/upcoming", bookingController.ListUpcoming)
		customer.GET("/status/:status", bookingController.ListByStatus)
	}

	provider := bookings.Group("/provider")
	provider.Use(auth.RequireRole(user_models.RoleProvider))
	{
		provider.GET("", bookingController.ListForProvider)
		provider.GET("/upcoming", bookingController.ListUpcoming)
		provider.GET("/status/:status", bookingController.ListByStatus)
		provider.GET("/stats", bookingController.ProviderStats)
	}
}
