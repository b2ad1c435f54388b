package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/joy095/fixitnow/controllers/services_controller"
	middleware "github.com/joy095/fixitnow/middlewares"
	"github.com/joy095/fixitnow/middlewares/auth"
	"github.com/joy095/fixitnow/models/user_models"
)

func RegisterServicesRoutes(api *gin.RouterGroup, d Dependencies) {
	serviceController := services_controller.NewServiceController(d.Catalog)

	services := api.Group("/services")
	{
		services.GET("", serviceController.List)
		services.GET("/:id", serviceController.Get)

		services.POST("",
			auth.RequireRole(user_models.RoleProvider),
			middleware.NewRateLimiter(d.RateLimit, "create-service", d.Redis),
			serviceController.Create)
		services.PUT("/:id/price",
			auth.RequireRole(user_models.RoleProvider),
			middleware.NewRateLimiter(d.RateLimit, "update-service-price", d.Redis),
			serviceController.UpdatePrice)
		services.PATCH("/:id/availability",
			auth.RequireRole(user_models.RoleProvider),
			middleware.NewRateLimiter(d.RateLimit, "update-service-availability", d.Redis),
			serviceController.SetAvailability)
	}
}
