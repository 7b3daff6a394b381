package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Supported values for AUTH_MODE.
const (
	AuthModeJWT        = "jwt"
	AuthModeAuthorizer = "authorizer"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port   string
	AppEnv string

	// Database configuration
	DBType            string // mysql, postgres, sqlite, sqlserver, etc.
	DBHost            string
	DBPort            string
	DBDatabase        string
	DBUser            string
	DBPassword        string
	DBConnectionLimit int

	// Authentication configuration
	AuthMode      string // jwt or authorizer
	JWTSecret     string
	AuthzURL      string
	AuthzClientID string

	// Product API (OpenFoodFacts-compatible) configuration
	FoodAPIBaseURL         string
	FoodAPIStagingBaseURL  string
	FoodAPIUseStaging      bool
	FoodAPIStagingUser     string
	FoodAPIStagingPassword string
	FoodAPIUserAgent       string
	FoodAPITimeoutSeconds  int

	// Redis product cache (disabled when RedisAddr is empty)
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	CacheTTLMinutes int

	// Lookup retry worker
	RetryEnabled         bool
	RetryIntervalMinutes int
	RetryMaxAttempts     int
	RetryBatchSize       int
}

// Load loads configuration from the environment, reading an optional
// .env file first.
func Load() (*Config, error) {
	// .env is a convenience for local runs; absence is not an error
	_ = godotenv.Load()

	cfg := &Config{
		Port:   getEnv("PORT", "3000"),
		AppEnv: getEnv("APP_ENV", "production"),

		DBType:            getEnv("DB_TYPE", "mysql"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "3306"),
		DBDatabase:        getEnv("DB_DATABASE", ""),
		DBUser:            getEnv("DB_USER", ""),
		DBPassword:        getEnv("DB_PASSWORD", ""),
		DBConnectionLimit: getEnvAsInt("DB_CONNECTION_LIMIT", 5),

		AuthMode:      getEnv("AUTH_MODE", "jwt"),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		AuthzURL:      getEnv("AUTHZ_URL", ""),
		AuthzClientID: getEnv("AUTHZ_CLIENT_ID", ""),

		FoodAPIBaseURL:         getEnv("FOOD_API_BASE_URL", "https://world.openfoodfacts.org"),
		FoodAPIStagingBaseURL:  getEnv("FOOD_API_STAGING_BASE_URL", "https://world.openfoodfacts.net"),
		FoodAPIUseStaging:      getEnvAsBool("FOOD_API_USE_STAGING", false),
		FoodAPIStagingUser:     getEnv("FOOD_API_STAGING_USER", "off"),
		FoodAPIStagingPassword: getEnv("FOOD_API_STAGING_PASSWORD", "off"),
		FoodAPIUserAgent:       getEnv("FOOD_API_USER_AGENT", "Pantrio/1.0 (support@pantrio.app)"),
		FoodAPITimeoutSeconds:  getEnvAsInt("FOOD_API_TIMEOUT_SECONDS", 10),

		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         getEnvAsInt("REDIS_DB", 0),
		CacheTTLMinutes: getEnvAsInt("CACHE_TTL_MINUTES", 60),

		RetryEnabled:         getEnvAsBool("RETRY_ENABLED", false),
		RetryIntervalMinutes: getEnvAsInt("RETRY_INTERVAL_MINUTES", 60),
		RetryMaxAttempts:     getEnvAsInt("RETRY_MAX_ATTEMPTS", 5),
		RetryBatchSize:       getEnvAsInt("RETRY_BATCH_SIZE", 20),
	}

	// Validate required fields
	if cfg.DBDatabase == "" {
		return nil, fmt.Errorf("DB_DATABASE is required")
	}
	if cfg.DBType != "sqlite" && cfg.DBUser == "" {
		return nil, fmt.Errorf("DB_USER is required")
	}
	switch cfg.AuthMode {
	case AuthModeJWT:
		if cfg.JWTSecret == "" {
			return nil, fmt.Errorf("JWT_SECRET is required when AUTH_MODE=jwt")
		}
	case AuthModeAuthorizer:
		if cfg.AuthzURL == "" {
			return nil, fmt.Errorf("AUTHZ_URL is required when AUTH_MODE=authorizer")
		}
		if cfg.AuthzClientID == "" {
			return nil, fmt.Errorf("AUTHZ_CLIENT_ID is required when AUTH_MODE=authorizer")
		}
	default:
		return nil, fmt.Errorf("unsupported auth mode: %s", cfg.AuthMode)
	}
	if cfg.RetryMaxAttempts < 1 {
		return nil, fmt.Errorf("RETRY_MAX_ATTEMPTS must be at least 1")
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsBool gets an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
