package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/joy095/fixitnow/logger"
	"github.com/kelseyhightower/envconfig"
)

// Config holds every setting the server reads from the environment.
type Config struct {
	Port        string `envconfig:"PORT" default:"8081"`
	DatabaseURL string `envconfig:"DATABASE_URL"`
	RedisURL    string `envconfig:"REDIS_URL"`

	AMQPURL      string `envconfig:"AMQP_URL"`
	AMQPExchange string `envconfig:"AMQP_EXCHANGE" default:"fixitnow.events"`

	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`

	BookingGraceMinutes           int    `envconfig:"BOOKING_GRACE_MINUTES" default:"30"`
	Timezone                      string `envconfig:"TIMEZONE" default:"UTC"`
	CurrencyPrefix                string `envconfig:"CURRENCY_PREFIX" default:"Rs."`
	ReviewRequireCompletedBooking bool   `envconfig:"REVIEW_REQUIRE_COMPLETED_BOOKING" default:"true"`
	// BadWordsFile lists words rejected in review comments, one per line.
	BadWordsFile string `envconfig:"BAD_WORDS_FILE"`

	RateLimit   string `envconfig:"RATE_LIMIT" default:"60-1m"`
	CORSOrigins string `envconfig:"CORS_ORIGINS" default:"http://localhost:3000"`

	SMTPHost     string `envconfig:"SMTP_HOST"`
	SMTPPort     int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUser     string `envconfig:"SMTP_USER"`
	SMTPPassword string `envconfig:"SMTP_PASSWORD"`
	FromEmail    string `envconfig:"FROM_EMAIL"`
	NotifyEmail  string `envconfig:"NOTIFY_EMAIL"`
}

// LoadEnv loads a .env file into the process environment if one exists.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			logger.WarnLogger.Warnf("Could not load .env file: %v", err)
		}
		return
	}
	logger.InfoLogger.Info("Loaded environment from .env")
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if c.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET must not be empty")
	}
	if c.BookingGraceMinutes < 0 {
		return Config{}, fmt.Errorf("BOOKING_GRACE_MINUTES must not be negative")
	}
	return c, nil
}

// Location resolves the zone used to interpret offset-less timestamps.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// BookingGrace is the minimum lead time between now and a new booking date.
func (c Config) BookingGrace() time.Duration {
	return time.Duration(c.BookingGraceMinutes) * time.Minute
}

// AllowedOrigins splits CORS_ORIGINS on commas.
func (c Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// MailEnabled reports whether enough SMTP settings exist to send notifications.
func (c Config) MailEnabled() bool {
	return c.SMTPHost != "" && c.FromEmail != "" && c.NotifyEmail != ""
}
