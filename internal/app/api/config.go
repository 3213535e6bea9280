package api

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"

	redisidempotency "github.com/Apurer/rescue-adoption-api/internal/domains/adoptions/adapters/redis"
)

// Config carries environment-driven settings shared by the API and the worker.
type Config struct {
	Port              string
	PostgresDSN       string
	RedisURL          string
	IdempotencyTTL    time.Duration
	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool
	ActorJWTSecret    string
	Location          *time.Location
}

// LoadConfig reads a local .env file when present, then environment variables, applies
// defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return configFromEnv()
}

func configFromEnv() (Config, error) {
	cfg := Config{
		Port:              envDefault("PORT", "8080"),
		PostgresDSN:       strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		RedisURL:          strings.TrimSpace(os.Getenv("REDIS_URL")),
		IdempotencyTTL:    redisidempotency.DefaultTTL,
		TemporalAddress:   envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace: envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:  isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		ActorJWTSecret:    strings.TrimSpace(os.Getenv("ACTOR_JWT_SECRET")),
		Location:          time.UTC,
	}
	if port, err := strconv.Atoi(cfg.Port); err != nil || port <= 0 || port > 65535 {
		return Config{}, fmt.Errorf("PORT must be a valid TCP port, got %q", cfg.Port)
	}
	if raw := strings.TrimSpace(os.Getenv("IDEMPOTENCY_TTL_HOURS")); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil || hours <= 0 {
			return Config{}, fmt.Errorf("IDEMPOTENCY_TTL_HOURS must be a positive integer")
		}
		cfg.IdempotencyTTL = time.Duration(hours) * time.Hour
	}
	if raw := strings.TrimSpace(os.Getenv("SHELTER_TIMEZONE")); raw != "" {
		loc, err := time.LoadLocation(raw)
		if err != nil {
			return Config{}, fmt.Errorf("SHELTER_TIMEZONE: %w", err)
		}
		cfg.Location = loc
	}
	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
