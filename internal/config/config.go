package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds everything the server reads from the environment. godotenv is
// loaded by main before this runs.
type Config struct {
	DatabaseURL         string
	Port                string
	JWTSecret           string
	StripeSecretKey     string
	StripeWebhookSecret string
	Currency            string

	// CheckInGrace is how early a renter may check in before start_time.
	CheckInGrace time.Duration
	// NoShowGrace is how long past end_time a booking may stay without a
	// check-in/out before the sweep marks it no_show.
	NoShowGrace time.Duration
	// PendingTTL is how long a pending booking lives before the sweep
	// cancels it.
	PendingTTL time.Duration
	// SweepSpec is the cron schedule for the no-show sweep.
	SweepSpec string
}

func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		Port:                getEnv("PORT", "8080"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		Currency:            getEnv("CURRENCY", "usd"),
		CheckInGrace:        getDurationMinutes("CHECKIN_GRACE_MINUTES", 15),
		NoShowGrace:         getDurationMinutes("NO_SHOW_GRACE_MINUTES", 30),
		PendingTTL:          getDurationMinutes("PENDING_TTL_MINUTES", 60),
		SweepSpec:           getEnv("SWEEP_CRON", "@every 5m"),
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL not set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET not set")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDurationMinutes(key string, fallback int) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return time.Duration(n) * time.Minute
		}
	}
	return time.Duration(fallback) * time.Minute
}
