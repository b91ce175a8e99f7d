package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Config holds all configuration for the application.
type Config struct {
	// Port is the HTTP server port.
	Port int

	// DatabasePath is the SQLite database file (":memory:" for ephemeral).
	DatabasePath string

	// SessionSecret signs session tokens. Required.
	SessionSecret string

	// SessionTTL is the validity window of minted session tokens.
	SessionTTL time.Duration

	// BcryptCost is the password hashing work factor.
	BcryptCost int

	// RedisAddr enables the home-feed cache when non-empty.
	RedisAddr string

	// RedisPassword authenticates the Redis connection.
	RedisPassword string

	// NATSURL enables event publishing when non-empty.
	NATSURL string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	port := 8080
	if p := os.Getenv("PORT"); p != "" {
		var err error
		port, err = strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT: %w", err)
		}
	}

	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("SESSION_SECRET is required")
	}

	ttl := 24 * time.Hour
	if h := os.Getenv("SESSION_TTL_HOURS"); h != "" {
		hours, err := strconv.Atoi(h)
		if err != nil || hours < 1 {
			return nil, fmt.Errorf("invalid SESSION_TTL_HOURS: %q", h)
		}
		ttl = time.Duration(hours) * time.Hour
	}

	cost := bcrypt.DefaultCost
	if c := os.Getenv("BCRYPT_COST"); c != "" {
		parsed, err := strconv.Atoi(c)
		if err != nil {
			return nil, fmt.Errorf("invalid BCRYPT_COST: %w", err)
		}
		cost = parsed
	}

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = "medium.db"
	}

	return &Config{
		Port:          port,
		DatabasePath:  dbPath,
		SessionSecret: secret,
		SessionTTL:    ttl,
		BcryptCost:    cost,
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		NATSURL:       os.Getenv("NATS_URL"),
	}, nil
}
