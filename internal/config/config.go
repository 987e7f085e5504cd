package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Server ServerConfig

	// Database configuration
	Database DatabaseConfig

	// JWT configuration
	JWT JWTConfig

	// CORS configuration
	CORS CORSConfig

	// Schedule synthesis configuration
	Schedule ScheduleConfig

	// Audit trail configuration
	Audit AuditConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port        string
	Environment string // development, staging, production
	LogLevel    string // debug, info, warn, error
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	URL                string
	Driver             string // "postgres" (lib/pq) or "pgx"
	MaxConnections     int
	MaxIdleConnections int
	ConnMaxLifetime    time.Duration
}

// JWTConfig holds JWT-related configuration
type JWTConfig struct {
	Secret            string
	Issuer            string
	AccessTokenExpiry time.Duration
}

// CORSConfig holds CORS-related configuration
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

// ScheduleConfig controls placeholder schedule synthesis for unpriced routes
type ScheduleConfig struct {
	CruiseSpeedKmh   int
	CostPerHour      int
	Seed             uint64 // 0 = different schedules on every run
	BackfillCron     string // robfig/cron spec with seconds
	IndexRefreshCron string
}

// AuditConfig holds audit trail retention settings
type AuditConfig struct {
	Retention   time.Duration
	CleanupCron string // empty disables cleanup
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			Environment: getEnv("ENVIRONMENT", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			URL:                getEnv("DATABASE_URL", ""),
			Driver:             getEnv("DATABASE_DRIVER", "postgres"),
			MaxConnections:     getEnvAsInt("DATABASE_MAX_CONNECTIONS", 10),
			MaxIdleConnections: getEnvAsInt("DATABASE_MAX_IDLE_CONNECTIONS", 5),
			ConnMaxLifetime:    time.Duration(getEnvAsInt("DATABASE_CONN_MAX_LIFETIME", 300)) * time.Second,
		},
		JWT: JWTConfig{
			Secret:            getEnv("JWT_SECRET", ""),
			Issuer:            getEnv("JWT_ISSUER", "flight-planner"),
			AccessTokenExpiry: time.Duration(getEnvAsInt("JWT_ACCESS_TOKEN_EXPIRY", 3600)) * time.Second,
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			AllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Content-Type", "Authorization"}),
		},
		Schedule: ScheduleConfig{
			CruiseSpeedKmh:   getEnvAsInt("SCHEDULE_CRUISE_SPEED_KMH", 800),
			CostPerHour:      getEnvAsInt("SCHEDULE_COST_PER_HOUR", 120),
			Seed:             getEnvAsUint64("SCHEDULE_SEED", 0),
			BackfillCron:     getEnv("SCHEDULE_BACKFILL_CRON", "0 0 2 * * *"),
			IndexRefreshCron: getEnv("AIRPORT_INDEX_REFRESH_CRON", "0 30 * * * *"),
		},
		Audit: AuditConfig{
			Retention:   time.Duration(getEnvAsInt("AUDIT_RETENTION_DAYS", 90)) * 24 * time.Hour,
			CleanupCron: getEnv("AUDIT_CLEANUP_CRON", "0 15 3 * * *"),
		},
	}

	// Validate required configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Database.Driver != "postgres" && c.Database.Driver != "pgx" {
		return fmt.Errorf("invalid database driver: %s (must be 'postgres' or 'pgx')", c.Database.Driver)
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if c.Schedule.CruiseSpeedKmh <= 0 {
		return fmt.Errorf("SCHEDULE_CRUISE_SPEED_KMH must be positive")
	}

	if c.Schedule.CostPerHour < 0 {
		return fmt.Errorf("SCHEDULE_COST_PER_HOUR cannot be negative")
	}

	if c.Audit.Retention <= 0 {
		return fmt.Errorf("AUDIT_RETENTION_DAYS must be positive")
	}

	return nil
}

// Helper functions to get environment variables

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid integer value for %s, using default: %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsUint64(key string, defaultValue uint64) uint64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseUint(valueStr, 10, 64)
	if err != nil {
		log.Printf("Invalid unsigned value for %s, using default: %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var result []string
	for _, v := range strings.Split(valueStr, ",") {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
