package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Dispatch failure policies. "isolated" runs every subscriber and aggregates
// errors; "failfast" aborts an invocation at the first subscriber error.
const (
	PolicyIsolated = "isolated"
	PolicyFailFast = "failfast"
)

// Config holds all configuration for the integration layer.
type Config struct {
	LogFormat      string        `validate:"oneof=text json"`
	LogLevel       string        `validate:"oneof=debug info warn error"`
	DispatchPolicy string        `validate:"oneof=isolated failfast"`
	StatusDebounce time.Duration `validate:"min=0"`
}

// New loads configuration from environment variables, falling back to a
// .env file when present.
func New() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		LogFormat:      envOr("LOG_FORMAT", "text"),
		LogLevel:       envOr("LOG_LEVEL", "info"),
		DispatchPolicy: envOr("RELAY_DISPATCH_POLICY", PolicyIsolated),
		StatusDebounce: 5 * time.Second,
	}

	if raw := os.Getenv("RELAY_STATUS_DEBOUNCE"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid RELAY_STATUS_DEBOUNCE: %w", err)
		}
		cfg.StatusDebounce = d
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
