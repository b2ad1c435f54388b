package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/joy095/fixitnow/controllers/report_controller"
	"github.com/joy095/fixitnow/middlewares/auth"
	"github.com/joy095/fixitnow/models/user_models"
)

func RegisterReportRoutes(api *gin.RouterGroup, d Dependencies) {
	reportController := report_controller.NewReportController(d.Reports)

	admin := api.Group("/admin/reports")
	admin.Use(auth.RequireRole(user_models.RoleAdmin))
	{
		admin.GET("/revenue", reportController.Revenue)
		admin.GET("/status-distribution", reportController.StatusDistribution)
		admin.GET("/top-services", reportController.TopServices)
		admin.GET("/top-providers", reportController.TopProviders)
		admin.GET("/top-customers", reportController.TopCustomers)
	}
}
