package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	TokenSecret string        // Required: HS256 secret for session tokens
	Issuer      string        // Optional: issuer claim for tokens (default: wellfora)
	SessionTTL  time.Duration // Optional: session token lifetime (default: 168h)

	DatabaseFile  string // Optional: path to SQLite database file (default: ./wellfora.db)
	UploadDir     string // Optional: directory uploaded images land in (default: ./uploads)
	PublicBaseURL string // Optional: external base URL image links are built from

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	CookieSecure        bool          // Mark the session cookie Secure (default: false for dev)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	cfg := Config{
		TokenSecret:         os.Getenv("WELLFORA_TOKEN_SECRET"),
		Issuer:              getEnvOrDefault("WELLFORA_ISSUER", "wellfora"),
		SessionTTL:          getEnvDurationOrDefault("WELLFORA_SESSION_TTL", 7*24*time.Hour),
		DatabaseFile:        getEnvOrDefault("WELLFORA_DATABASE_FILE", "wellfora.db"),
		UploadDir:           getEnvOrDefault("WELLFORA_UPLOAD_DIR", "uploads"),
		PublicBaseURL:       getEnvOrDefault("WELLFORA_PUBLIC_BASE_URL", "http://localhost:8080"),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		CookieSecure:        getEnvBoolOrDefault("WELLFORA_COOKIE_SECURE", false),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	return cfg
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

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if boolValue, err := strconv.ParseBool(value); err == nil {
		return boolValue
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

	// Integer values are taken as minutes.
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
