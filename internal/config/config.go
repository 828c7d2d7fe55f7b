package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds the application configuration.
type Config struct {
	ServerPort         int
	DatabasePath       string
	JWTSecret          []byte
	TokenTTL           time.Duration
	BcryptCost         int
	EventRetentionDays int
	EventPruneSchedule string // standard cron expression
	AppEnv             string
}

// Load loads configuration from a .env file (if present) and environment
// variables, falling back to development defaults. The JWT secret has no
// default: tokens signed under an accidental fallback secret would be
// forgeable.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Debug().Err(err).Msg("No .env file found, using environment variables only")
	}

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		return nil, err
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, errors.New("JWT_SECRET must be set")
	}

	ttlMinutes, err := strconv.Atoi(getEnv("TOKEN_TTL_MINUTES", "30"))
	if err != nil {
		return nil, err
	}

	bcryptCost, err := strconv.Atoi(getEnv("BCRYPT_COST", "10"))
	if err != nil {
		return nil, err
	}

	retentionDays, err := strconv.Atoi(getEnv("EVENT_RETENTION_DAYS", "30"))
	if err != nil {
		return nil, err
	}

	return &Config{
		ServerPort:         port,
		DatabasePath:       getEnv("DATABASE_PATH", "./taskdeck.db"),
		JWTSecret:          []byte(secret),
		TokenTTL:           time.Duration(ttlMinutes) * time.Minute,
		BcryptCost:         bcryptCost,
		EventRetentionDays: retentionDays,
		EventPruneSchedule: getEnv("EVENT_PRUNE_SCHEDULE", "0 4 * * *"),
		AppEnv:             getEnv("APP_ENV", "development"),
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
