package report_controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joy095/fixitnow/models/user_models"
	"github.com/joy095/fixitnow/services/report_service"
	"github.com/joy095/fixitnow/utils"
	"github.com/joy095/fixitnow/utils/apperrors"
)

// ReportController serves the admin dashboards.
type ReportController struct {
	reports *report_service.ReportService
}

func NewReportController(reports *report_service.ReportService) *ReportController {
	return &ReportController{reports: reports}
}

func (rc *ReportController) Revenue(c *gin.Context) {
	serve(c, rc.reports.Revenue)
}

func (rc *ReportController) StatusDistribution(c *gin.Context) {
	serve(c, rc.reports.StatusDistribution)
}

func (rc *ReportController) TopServices(c *gin.Context) {
	serve(c, rc.reports.TopServices)
}

func (rc *ReportController) TopProviders(c *gin.Context) {
	serve(c, rc.reports.TopProviders)
}

func (rc *ReportController) TopCustomers(c *gin.Context) {
	serve(c, rc.reports.TopCustomers)
}

func serve[T any](c *gin.Context, report func(context.Context, user_models.Principal) ([]T, error)) {
	p, err := utils.GetPrincipal(c)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	rows, err := report(c.Request.Context(), p)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	if rows == nil {
		rows = []T{}
	}
	utils.Respond(c, http.StatusOK, "", rows)
}
