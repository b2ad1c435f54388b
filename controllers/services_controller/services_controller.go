package services_controller

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joy095/fixitnow/controllers"
	"github.com/joy095/fixitnow/logger"
	"github.com/joy095/fixitnow/models/service_models"
	"github.com/joy095/fixitnow/models/shared_models"
	"github.com/joy095/fixitnow/services/catalog_service"
	"github.com/joy095/fixitnow/utils"
	"github.com/joy095/fixitnow/utils/apperrors"
)

type ServiceController struct {
	catalog *catalog_service.CatalogService
}

// NewServiceController creates and returns a new instance of ServiceController
func NewServiceController(catalog *catalog_service.CatalogService) *ServiceController {
	return &ServiceController{catalog: catalog}
}

type ListServicesQuery struct {
	Category                 string `form:"category"`
	Province                 string `form:"province"`
	ProviderID               string `form:"providerId"`
	ExcludeActiveForCustomer bool   `form:"excludeActiveForCustomer"`
}

type UpdatePriceRequest struct {
	Price *shared_models.Money `json:"price"`
}

type SetAvailabilityRequest struct {
	AvailabilityStatus string `json:"availabilityStatus"`
}

func (sc *ServiceController) List(c *gin.Context) {
	p, err := utils.GetPrincipal(c)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	var q ListServicesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		apperrors.Respond(c, apperrors.Field("query", err.Error()))
		return
	}
	in := catalog_service.ListInput{
		Category:                 q.Category,
		Province:                 q.Province,
		ExcludeActiveForCustomer: q.ExcludeActiveForCustomer,
	}
	if strings.TrimSpace(q.ProviderID) != "" {
		id, err := uuid.Parse(strings.TrimSpace(q.ProviderID))
		if err != nil {
			apperrors.Respond(c, apperrors.Field("providerId", "must be a valid UUID"))
			return
		}
		in.ProviderID = id
	}

	list, err := sc.catalog.List(c.Request.Context(), p, in)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	if list == nil {
		list = []service_models.Service{}
	}
	utils.Respond(c, http.StatusOK, "", list)
}

func (sc *ServiceController) Get(c *gin.Context) {
	id, err := controllers.ParamID(c, "id")
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	svc, err := sc.catalog.Get(c.Request.Context(), id)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	utils.Respond(c, http.StatusOK, "", svc)
}

func (sc *ServiceController) Create(c *gin.Context) {
	logger.InfoLogger.Info("CreateService controller called")

	p, err := utils.GetPrincipal(c)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	var in catalog_service.CreateInput
	if err := controllers.BindJSON(c, &in); err != nil {
		apperrors.Respond(c, err)
		return
	}
	svc, err := sc.catalog.Create(c.Request.Context(), p, in)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	utils.Respond(c, http.StatusCreated, "Service created", svc)
}

func (sc *ServiceController) UpdatePrice(c *gin.Context) {
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
	var req UpdatePriceRequest
	if err := controllers.BindJSON(c, &req); err != nil {
		apperrors.Respond(c, err)
		return
	}
	if req.Price == nil {
		apperrors.Respond(c, apperrors.Field("price", "is required"))
		return
	}
	svc, err := sc.catalog.UpdatePrice(c.Request.Context(), p, id, *req.Price)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	utils.Respond(c, http.StatusOK, "Price updated", svc)
}

func (sc *ServiceController) SetAvailability(c *gin.Context) {
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
	var req SetAvailabilityRequest
	if err := controllers.BindJSON(c, &req); err != nil {
		apperrors.Respond(c, err)
		return
	}
	a, err := service_models.ParseAvailability(req.AvailabilityStatus)
	if err != nil {
		apperrors.Respond(c, apperrors.Field("availabilityStatus", "must be AVAILABLE or UNAVAILABLE"))
		return
	}
	svc, err := sc.catalog.SetAvailability(c.Request.Context(), p, id, a)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	utils.Respond(c, http.StatusOK, "Availability updated", svc)
}
