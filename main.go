package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joy095/fixitnow/badwords"
	"github.com/joy095/fixitnow/clients"
	"github.com/joy095/fixitnow/config"
	"github.com/joy095/fixitnow/config/db"
	redis_config "github.com/joy095/fixitnow/config/redis"
	"github.com/joy095/fixitnow/logger"
	"github.com/joy095/fixitnow/models/booking_models"
	"github.com/joy095/fixitnow/models/review_models"
	"github.com/joy095/fixitnow/models/service_models"
	"github.com/joy095/fixitnow/models/shared_models"
	"github.com/joy095/fixitnow/routes"
	"github.com/joy095/fixitnow/services/booking_service"
	"github.com/joy095/fixitnow/services/catalog_service"
	"github.com/joy095/fixitnow/services/report_service"
	"github.com/joy095/fixitnow/services/review_service"
	"github.com/joy095/fixitnow/utils/events"
	"github.com/joy095/fixitnow/utils/mail"
	"github.com/redis/go-redis/v9"
)

const summaryCacheTTL = 5 * time.Minute

func init() {
	logger.InitLoggers()
	config.LoadEnv()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.ErrorLogger.Fatalf("Invalid configuration: %v", err)
	}
	if cfg.DatabaseURL == "" {
		logger.ErrorLogger.Fatal("DATABASE_URL is required")
	}

	loc, err := cfg.Location()
	if err != nil {
		logger.ErrorLogger.Fatalf("Invalid configuration: %v", err)
	}
	shared_models.Location = loc
	shared_models.CurrencyPrefix = cfg.CurrencyPrefix

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		cancel()
		logger.ErrorLogger.Fatalf("Database unavailable: %v", err)
	}
	defer db.Close()
	if err := db.Migrate(ctx, pool); err != nil {
		cancel()
		logger.ErrorLogger.Fatalf("Schema migration failed: %v", err)
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = redis_config.Connect(ctx, cfg.RedisURL)
		if err != nil {
			logger.WarnLogger.Warnf("Redis unavailable, using in-process rate limits and no summary cache: %v", err)
			rdb = nil
		} else {
			defer redis_config.CloseRedis()
		}
	}
	cancel()

	publisher := events.Multi{events.LogPublisher{}}
	if cfg.AMQPURL != "" {
		amqpPublisher, err := clients.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			logger.WarnLogger.Warnf("AMQP unavailable, events will only be logged: %v", err)
		} else {
			defer amqpPublisher.Close()
			publisher = append(publisher, amqpPublisher)
		}
	}
	if cfg.MailEnabled() {
		dialer := mail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)
		publisher = append(publisher, mail.NewNotifier(dialer, cfg.FromEmail, cfg.NotifyEmail))
		logger.InfoLogger.Infof("Mail notifications enabled for %s", cfg.NotifyEmail)
	}

	bookings := booking_models.NewPgStore(pool)
	services := service_models.NewPgStore(pool)
	reviews := review_models.NewPgStore(pool)

	reviewOpts := []review_service.Option{
		review_service.WithRequireCompletedBooking(cfg.ReviewRequireCompletedBooking),
	}
	if cfg.BadWordsFile != "" {
		filter := badwords.New()
		if err := filter.LoadFile(cfg.BadWordsFile); err != nil {
			logger.ErrorLogger.Fatalf("Bad words list: %v", err)
		}
		reviewOpts = append(reviewOpts, review_service.WithModerator(filter))
	}
	if rdb != nil {
		reviewOpts = append(reviewOpts, review_service.WithCache(review_service.NewRedisSummaryCache(rdb, summaryCacheTTL)))
	}

	router := routes.NewRouter(routes.Dependencies{
		JWTSecret:   []byte(cfg.JWTSecret),
		CORSOrigins: cfg.AllowedOrigins(),
		RateLimit:   cfg.RateLimit,
		Redis:       rdb,
		Bookings:    booking_service.NewBookingService(bookings, services, publisher, booking_service.WithGrace(cfg.BookingGrace())),
		Reviews:     review_service.NewReviewService(reviews, bookings, publisher, reviewOpts...),
		Reports:     report_service.NewReportService(bookings, reviews, time.Now),
		Catalog:     catalog_service.NewCatalogService(services, bookings, time.Now),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.InfoLogger.Infof("FixItNow API listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorLogger.Fatalf("Server failed to listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.InfoLogger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorLogger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.InfoLogger.Info("Server exited gracefully.")
}
