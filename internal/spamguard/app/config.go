package app

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/spamguard/pkg/httpx"
	"github.com/joho/godotenv"
)

type Config struct {
	Issuer         string   // Optional: issuer claim for session tokens (default: spamguard)
	JWTSecret      string   // Optional: HS256 secret, generated per process when unset
	EncryptionKey  string   // Optional: key for the registration carrier, generated per process when unset
	BootstrapToken string   // Optional: token required to perform bootstrap
	AllowedOrigins []string // Optional: CORS allow list (default: http://localhost:3000)
	TrustProxy     bool     // Optional: take the client address from X-Forwarded-For / X-Real-IP

	DatabaseFile string // Optional: path to SQLite database file (default: ./spamguard.db)
	PepperFile   string // Optional: path to file containing pepper for password hashing (default: ./pepper)

	EmailUser     string // Optional: SMTP username, auth is skipped when empty
	EmailPassword string
	EmailFrom     string // Optional: sender address (default: EmailUser)
	EmailServer   string // SMTP host (default: smtp.gmail.com)
	EmailPort     int    // SMTP port (default: 587)
	EmailTLS      bool   // Require STARTTLS (default: true when EmailUser is set)

	ModelURL       string        // Base URL of the classification model
	ModelTimeout   time.Duration // Model request timeout (default: 5s)
	DetectorConfig string        // Optional: TOML rules file, watched for changes

	SentryDSN string // Optional: enables error reporting

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 5000)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
	PredictionRetention  time.Duration // How long prediction logs are kept (default: 90 days)

	DefaultLimit  httpx.RateLimitConfig
	ClassifyLimit httpx.RateLimitConfig
}

// LoadConfig reads the configuration from the environment. A .env file in
// the working directory is loaded first; variables already set win.
func LoadConfig() Config {
	if err := godotenv.Load(); err == nil {
		slog.Debug("loaded .env file")
	}

	cfg := Config{
		Issuer:         getEnvOrDefault("JWT_ISSUER", "spamguard"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		EncryptionKey:  os.Getenv("ENCRYPTION_KEY"),
		BootstrapToken: os.Getenv("BOOTSTRAP_TOKEN"),
		AllowedOrigins: getEnvListOrDefault("ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		TrustProxy:     getEnvBoolOrDefault("TRUST_PROXY_HEADERS", false),

		DatabaseFile: getEnvOrDefault("SPAMGUARD_DATABASE_FILE", "spamguard.db"),
		PepperFile:   getEnvOrDefault("SPAMGUARD_PEPPER_FILE", "pepper"),

		EmailUser:     os.Getenv("EMAIL_USER"),
		EmailPassword: os.Getenv("EMAIL_PASSWORD"),
		EmailFrom:     os.Getenv("EMAIL_FROM"),
		EmailServer:   getEnvOrDefault("EMAIL_SERVER", "smtp.gmail.com"),
		EmailPort:     getEnvIntOrDefault("EMAIL_PORT", 587),

		ModelURL:       getEnvOrDefault("MODEL_URL", "http://localhost:8501"),
		ModelTimeout:   getEnvDurationOrDefault("MODEL_TIMEOUT", 5*time.Second),
		DetectorConfig: os.Getenv("DETECTOR_CONFIG"),

		SentryDSN: os.Getenv("SENTRY_DSN"),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 5000),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
		PredictionRetention:  getEnvDurationOrDefault("PREDICTION_RETENTION", 90*24*time.Hour),

		DefaultLimit:  httpx.ParseRateLimitFromEnv("DEFAULT", httpx.DefaultLimit),
		ClassifyLimit: httpx.ParseRateLimitFromEnv("CLASSIFY", httpx.ClassifyLimit),
	}

	// STARTTLS is only optional for unauthenticated relays
	cfg.EmailTLS = getEnvBoolOrDefault("EMAIL_REQUIRE_TLS", cfg.EmailUser != "")

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

	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}

	return defaultValue
}

// getEnvListOrDefault splits a comma separated variable, dropping blanks.
func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Plain integers are seconds
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
