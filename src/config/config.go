package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/username/equityflow/src/security/validation"
)

// AppConfig holds all configuration for the application.
// The values are loaded from environment variables.
type AppConfig struct {
	// Core settings
	Port         string
	DatabasePath string
	LogLevel     string

	// Upload and rate limit settings
	MaxUploadSizeBytes int64
	RateLimitInterval  time.Duration
	RateLimitBurst     int
	AllowedOrigins     []string

	// Aggregate cache
	CacheExpiration      time.Duration
	CacheCleanupInterval time.Duration

	// Scheduled script backups. An empty schedule disables them.
	BackupDir      string
	BackupSchedule string

	// Currency used when displaying cash balances (ISO 4217 code).
	Currency string
}

// Cfg is the instance loaded by LoadConfig, kept for the server entrypoint.
// Library code receives the *AppConfig explicitly.
var Cfg *AppConfig

// LoadConfig loads configuration from environment variables or a .env file.
func LoadConfig() *AppConfig {
	// 1. Try loading from the current directory
	errEnv := godotenv.Load()

	// 2. If not found, try the parent directory (common when running from cmd/)
	if errEnv != nil {
		errEnv = godotenv.Load("../.env")
	}

	if errEnv != nil {
		if os.IsNotExist(errEnv) {
			log.Println("Info: No .env file found in current or parent directory. Relying on OS environment variables.")
		} else {
			log.Printf("Warning: Error loading .env file: %v. Relying on OS environment variables.", errEnv)
		}
	} else {
		log.Println(".env file loaded successfully.")
	}

	Cfg = FromEnv()

	log.Printf("Configuration loaded: Port=%s, LogLevel=%s, DBPath=%s, Currency=%s, BackupSchedule=%q",
		Cfg.Port, Cfg.LogLevel, Cfg.DatabasePath, Cfg.Currency, Cfg.BackupSchedule)
	return Cfg
}

// FromEnv builds an AppConfig from the process environment without touching .env files.
func FromEnv() *AppConfig {
	maxUploadSizeBytesStr := getEnv("MAX_UPLOAD_SIZE_BYTES", "10485760") // 10MB default
	maxUploadSizeBytes, err := strconv.ParseInt(maxUploadSizeBytesStr, 10, 64)
	if err != nil || maxUploadSizeBytes <= 0 {
		log.Printf("WARNING: Invalid MAX_UPLOAD_SIZE_BYTES format '%s'. Using default 10MB.", maxUploadSizeBytesStr)
		maxUploadSizeBytes = 10 * 1024 * 1024
	}

	return &AppConfig{
		Port:         getEnv("PORT", "8080"),
		DatabasePath: getEnv("DATABASE_PATH", "./equityflow.db"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),

		MaxUploadSizeBytes: maxUploadSizeBytes,
		RateLimitInterval:  getEnvAsDuration("RATE_LIMIT_INTERVAL", 100*time.Millisecond),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 30),
		AllowedOrigins:     getEnvAsList("ALLOWED_ORIGINS", "http://localhost:3000"),

		CacheExpiration:      getEnvAsDuration("CACHE_EXPIRATION", 15*time.Minute),
		CacheCleanupInterval: getEnvAsDuration("CACHE_CLEANUP_INTERVAL", 30*time.Minute),

		BackupDir:      getEnv("BACKUP_DIR", "./backups"),
		BackupSchedule: getEnv("BACKUP_SCHEDULE", ""),

		Currency: getEnvAsCurrency("CURRENCY", defaultCurrency),
	}
}

const defaultCurrency = "INR"

// getEnvAsCurrency retrieves an ISO 4217 currency code or returns the fallback.
func getEnvAsCurrency(key, fallback string) string {
	code := strings.ToUpper(strings.TrimSpace(getEnv(key, fallback)))
	if err := validation.ValidateCurrencyCode(code); err != nil {
		log.Printf("WARNING: Invalid %s '%s' (%v). Using default: %s", key, code, err, fallback)
		return fallback
	}
	return code
}

// getEnv retrieves an environment variable or returns a fallback value.
// A variable set to the empty string counts as unset.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

// getEnvAsInt retrieves an environment variable as an integer or returns a fallback.
func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid integer value for %s ('%s'), using default: %d", key, valueStr, fallback)
	return fallback
}

// getEnvAsDuration retrieves an environment variable as a time.Duration or returns a fallback.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid duration value for %s ('%s'), using default: %s", key, valueStr, fallback.String())
	return fallback
}

// getEnvAsList retrieves a comma-separated environment variable as a trimmed list.
func getEnvAsList(key, fallback string) []string {
	valuesStr := getEnv(key, fallback)
	if valuesStr == "" {
		return []string{}
	}
	values := strings.Split(valuesStr, ",")
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
