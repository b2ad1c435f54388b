package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joy095/fixitnow/middlewares/auth"
	"github.com/joy095/fixitnow/middlewares/cors"
	logger_middleware "github.com/joy095/fixitnow/middlewares/logger"
	"github.com/joy095/fixitnow/services/booking_service"
	"github.com/joy095/fixitnow/services/catalog_service"
	"github.com/joy095/fixitnow/services/report_service"
	"github.com/joy095/fixitnow/services/review_service"
	"github.com/redis/go-redis/v9"
)

// Dependencies is everything the HTTP layer needs to serve requests.
type Dependencies struct {
	JWTSecret   []byte
	CORSOrigins []string
	// RateLimit is applied per caller on every mutating route, e.g. "60-1m".
	RateLimit string
	// Redis backs the rate limiter when set; nil falls back to in-process limits.
	Redis *redis.Client

	Bookings *booking_service.BookingService
	Reviews  *review_service.ReviewService
	Reports  *report_service.ReportService
	Catalog  *catalog_service.CatalogService
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(d Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger_middleware.GinLogger())
	if len(d.CORSOrigins) > 0 {
		r.Use(cors.CorsMiddleware(d.CORSOrigins))
	}

	RegisterHealthRoutes(r)

	api := r.Group("/api")
	api.Use(auth.AuthMiddleware(d.JWTSecret))

	RegisterBookingRoutes(api, d)
	RegisterReviewRoutes(api, d)
	RegisterServicesRoutes(api, d)
	RegisterReportRoutes(api, d)

	return r
}

func RegisterHealthRoutes(r *gin.Engine) {
	health := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "service": "fixitnow"})
	}
	r.GET("/health", health)
	r.HEAD("/health", health)
}
