package middleware

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joy095/fixitnow/logger"
	"github.com/joy095/fixitnow/utils"
	"github.com/joy095/fixitnow/utils/apperrors"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	ginmiddleware "github.com/ulule/limiter/v3/drivers/middleware/gin"
	memorystore "github.com/ulule/limiter/v3/drivers/store/memory"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"
)

// Example:
// r.POST("/api/bookings", middleware.NewRateLimiter("10-1m", "createBooking", rdb), handler)

// rateKey identifies the caller: the authenticated user when there is one,
// otherwise the client IP.
func rateKey(c *gin.Context) string {
	if p, err := utils.GetPrincipal(c); err == nil {
		return "user:" + p.UserID.String()
	}
	return "ip:" + c.ClientIP()
}

// createStore picks a Redis store when a client is available so limits hold
// across instances, and an in-process store otherwise.
func createStore(routeID string, period time.Duration, rdb *redis.Client) (limiter.Store, error) {
	opts := limiter.StoreOptions{
		Prefix:          fmt.Sprintf("rate_limiter:%s", routeID),
		MaxRetry:        3,
		CleanUpInterval: period,
	}
	if rdb == nil {
		return memorystore.NewStoreWithOptions(opts), nil
	}
	store, err := redisstore.NewStoreWithOptions(rdb, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create redis store for route %s: %w", routeID, err)
	}
	return store, nil
}

// ParseCustomRate allows formats like "10-2m", "30-20m", "5-1h", "20-10s", etc.
func ParseCustomRate(rateStr string) (limiter.Rate, error) {
	parts := strings.Split(rateStr, "-")
	if len(parts) != 2 {
		return limiter.Rate{}, fmt.Errorf("invalid rate format: %s", rateStr)
	}

	limit, err := strconv.Atoi(parts[0])
	if err != nil || limit <= 0 {
		return limiter.Rate{}, fmt.Errorf("invalid limit: %s", parts[0])
	}

	unitStr := parts[1]
	if unitStr == "" {
		return limiter.Rate{}, fmt.Errorf("unsupported period: %s", unitStr)
	}
	var unit time.Duration
	switch unitStr[len(unitStr)-1] {
	case 's':
		unit = time.Second
	case 'm':
		unit = time.Minute
	case 'h':
		unit = time.Hour
	default:
		return limiter.Rate{}, fmt.Errorf("unsupported period: %s", unitStr)
	}
	n, err := strconv.Atoi(unitStr[:len(unitStr)-1])
	if err != nil || n <= 0 {
		return limiter.Rate{}, fmt.Errorf("invalid duration: %s", unitStr)
	}

	return limiter.Rate{
		Period: time.Duration(n) * unit,
		Limit:  int64(limit),
	}, nil
}

// NewRateLimiter limits a route per caller. A bad rate string or store
// failure disables limiting for the route rather than failing requests.
func NewRateLimiter(rateStr, routeID string, rdb *redis.Client) gin.HandlerFunc {
	rate, err := ParseCustomRate(rateStr)
	if err != nil {
		logger.ErrorLogger.Errorf("Error parsing rate for route %s: %v", routeID, err)
		return func(c *gin.Context) {
			c.Next()
		}
	}

	store, err := createStore(routeID, rate.Period, rdb)
	if err != nil {
		logger.ErrorLogger.Errorf("Error creating rate limit store for route %s: %v", routeID, err)
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return ginmiddleware.NewMiddleware(limiter.New(store, rate),
		ginmiddleware.WithKeyGetter(rateKey),
		ginmiddleware.WithLimitReachedHandler(func(c *gin.Context) {
			logger.WarnLogger.Warnf("Rate limit reached on %s for %s", routeID, rateKey(c))
			apperrors.Respond(c, apperrors.ErrRateLimited)
		}),
		ginmiddleware.WithErrorHandler(func(c *gin.Context, err error) {
			logger.ErrorLogger.Errorf("Rate limiter failed on %s: %v", routeID, err)
			c.Next()
		}),
	)
}
