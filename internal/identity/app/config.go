package app

import (
	"os"
	"strconv"
	"time"

	"github.com/paperloop/paperloop/internal/identity/domain"
)

type Config struct {
	SiteURL        string // Base URL used in emailed links (default: http://localhost:8080)
	SigningKeyFile string // Optional: PEM private key for token signing; empty generates an ephemeral key
	DatabaseFile   string // Optional: path to SQLite database file (default: ./identity.db)
	PepperFile     string // Optional: path to pepper file for password hashing (default: ./pepper)

	// TokenTTLs has no defaults: every action's lifetime must be configured
	// or startup fails.
	TokenTTLs map[domain.TokenAction]time.Duration

	DenylistBackend string        // Token denylist backend (memory, redis) (default: memory)
	RedisURL        string        // Required when DenylistBackend is redis
	SweepInterval   time.Duration // Memory denylist sweep interval (default: 10m)

	SMTPAddr string // Optional: host:port of an SMTP relay; empty logs mail instead
	SMTPFrom string // Sender address for outbound mail

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	return Config{
		SiteURL:        getEnvOrDefault("IDENTITY_SITE_URL", "http://localhost:8080"),
		SigningKeyFile: os.Getenv("IDENTITY_SIGNING_KEY_FILE"),
		DatabaseFile:   getEnvOrDefault("IDENTITY_DATABASE_FILE", "identity.db"),
		PepperFile:     getEnvOrDefault("IDENTITY_PEPPER_FILE", "pepper"),

		TokenTTLs: map[domain.TokenAction]time.Duration{
			domain.ActionLogin:    getEnvDuration("TOKEN_TTL_LOGIN"),
			domain.ActionActivate: getEnvDuration("TOKEN_TTL_ACTIVATE"),
			domain.ActionPassword: getEnvDuration("TOKEN_TTL_PASSWORD"),
		},

		DenylistBackend: getEnvOrDefault("DENYLIST_BACKEND", "memory"),
		RedisURL:        os.Getenv("REDIS_URL"),
		SweepInterval:   getEnvDurationOrDefault("DENYLIST_SWEEP_INTERVAL", 10*time.Minute),

		SMTPAddr: os.Getenv("SMTP_ADDR"),
		SMTPFrom: getEnvOrDefault("SMTP_FROM", "no-reply@localhost"),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

// getEnvDuration parses a duration with no fallback; unset or unparseable
// values come back zero and fail validation downstream.
func getEnvDuration(key string) time.Duration {
	duration, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return 0
	}
	return duration
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
