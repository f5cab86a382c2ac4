package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the civic report service
type Config struct {
	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Server configuration
	Port           string
	TrustedProxies []string

	// Admin authentication
	JWTSecret     string
	AdminUsername string
	AdminPassword string

	// ML classifier
	MLBaseURL string
	MLAPIKey  string
	MLTimeout time.Duration

	// RabbitMQ (optional)
	AMQPURL      string
	AMQPExchange string

	// Object storage (optional, S3-compatible)
	S3Endpoint  string
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3UseSSL    bool

	// Rate limiting for report submissions
	RateLimit  int
	RateWindow time.Duration

	// Environment
	Env string
}

// Load loads configuration from environment variables
func Load() *Config {
	cfg := &Config{
		// Database defaults
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "server"),
		DBPassword: getEnv("DB_PASSWORD", "secret"),
		DBName:     getEnv("DB_NAME", "civicreport"),

		// Server defaults
		Port: getEnv("PORT", "5000"),

		// Admin auth
		JWTSecret:     getEnv("ADMIN_JWT_SECRET", ""),
		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),

		// ML classifier defaults (empty base URL means classifier disabled)
		MLBaseURL: getEnv("ML_API_URL", ""),
		MLAPIKey:  getEnv("ML_API_KEY", ""),
		MLTimeout: getDurationEnv("ML_API_TIMEOUT_MS", 7000*time.Millisecond),

		// RabbitMQ defaults
		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "civicreport.reports"),

		// Object storage defaults
		S3Endpoint:  getEnv("S3_ENDPOINT", "s3.amazonaws.com"),
		S3Region:    getEnv("S3_REGION", "us-east-1"),
		S3Bucket:    getEnv("S3_BUCKET", ""),
		S3AccessKey: getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey: getEnv("S3_SECRET_KEY", ""),
		S3UseSSL:    getBoolEnv("S3_USE_SSL", true),

		// Rate limiting defaults
		RateLimit:  getIntEnv("RATE_LIMIT", 30),
		RateWindow: getDurationEnv("RATE_WINDOW_MS", time.Minute),

		// Environment defaults
		Env: getEnv("APP_ENV", "development"),
	}

	// Handle trusted proxies
	trustedProxies := os.Getenv("TRUSTED_PROXIES")
	if trustedProxies != "" {
		cfg.TrustedProxies = strings.Split(trustedProxies, ",")
		for i, proxy := range cfg.TrustedProxies {
			cfg.TrustedProxies[i] = strings.TrimSpace(proxy)
		}
	}

	return cfg
}

// IsProduction reports whether the service runs with production error reporting
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnv gets an integer environment variable or returns a default value
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getBoolEnv gets a boolean environment variable or returns a default value
func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getDurationEnv reads a millisecond count or returns a default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if ms, err := strconv.Atoi(value); err == nil && ms > 0 {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return defaultValue
}
