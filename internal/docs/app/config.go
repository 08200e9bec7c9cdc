package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	VerifyKeyFile string // Required: public key PEM matching the identity service signing key
	DatabaseFile  string // Optional: path to SQLite database file (default: ./docs.db)

	BlobBackend string // Blob storage backend (fs, s3) (default: fs)
	UploadDir   string // Root directory for the fs backend (default: ./uploads)

	S3Region       string // s3 backend: bucket region
	S3Bucket       string // s3 backend: bucket name
	S3AccessKey    string // s3 backend: access key id
	S3SecretKey    string // s3 backend: secret access key
	S3BaseEndpoint string // s3 backend: custom endpoint for MinIO-style stores

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8001)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	return Config{
		VerifyKeyFile: os.Getenv("DOCS_VERIFY_KEY_FILE"),
		DatabaseFile:  getEnvOrDefault("DOCS_DATABASE_FILE", "docs.db"),

		BlobBackend: getEnvOrDefault("BLOB_BACKEND", "fs"),
		UploadDir:   getEnvOrDefault("UPLOAD_DIR", "uploads"),

		S3Region:       os.Getenv("S3_REGION"),
		S3Bucket:       os.Getenv("S3_BUCKET"),
		S3AccessKey:    os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:    os.Getenv("S3_SECRET_KEY"),
		S3BaseEndpoint: os.Getenv("S3_BASE_ENDPOINT"),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8001),
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
