package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment
// variables. It is the single source of truth for runtime parameters.
type Config struct {
	Port           string
	Env            string
	JWTSecret      string
	AllowedOrigins []string

	DB      DatabaseConfig
	Redis   RedisConfig
	SES     SESConfig
	Monitor MonitorConfig
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// RedisConfig contains Redis connection parameters.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// SESConfig contains AWS SES parameters for outbound alert email.
// When Sender is empty, email dispatch is disabled and alerts are only
// logged.
type SESConfig struct {
	Region string
	Sender string
}

// MonitorConfig controls the daily snapshot sweep.
type MonitorConfig struct {
	Timezone      string
	SweepInterval time.Duration
	SweepLockTTL  time.Duration
}

// Load reads configuration from environment variables. If a .env file
// exists in the working directory, it is loaded first. It returns a
// populated Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// Load .env if present; ignore error if file is missing so production
	// environments relying solely on real environment variables keep working.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")
	cfg.JWTSecret = getEnv("JWT_SECRET", "")
	cfg.AllowedOrigins = splitEnv("ALLOWED_ORIGINS", "localhost:3000,127.0.0.1:3000")

	// Database
	cfg.DB = DatabaseConfig{
		Host:     getEnv("DB_HOST", ""),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", ""),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", ""),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Redis
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", "redis"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	// SES
	cfg.SES = SESConfig{
		Region: getEnv("SES_REGION", "eu-north-1"),
		Sender: getEnv("SES_SENDER", ""),
	}

	// Monitoring sweep
	cfg.Monitor.Timezone = getEnv("MONITOR_TIMEZONE", "Africa/Johannesburg")
	var err error
	if cfg.Monitor.SweepInterval, err = parseDurationEnv("MONITOR_SWEEP_INTERVAL", "10m"); err != nil {
		return nil, fmt.Errorf("invalid MONITOR_SWEEP_INTERVAL: %w", err)
	}
	if cfg.Monitor.SweepLockTTL, err = parseDurationEnv("MONITOR_SWEEP_LOCK_TTL", "48h"); err != nil {
		return nil, fmt.Errorf("invalid MONITOR_SWEEP_LOCK_TTL: %w", err)
	}

	// Basic validation for DB parameters.
	if cfg.DB.Host == "" || cfg.DB.User == "" || cfg.DB.Name == "" {
		return nil, errors.New("database configuration incomplete: ensure DB_HOST, DB_USER, and DB_NAME are set")
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must be set for authentication")
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer
// or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// splitEnv reads a comma-separated environment variable into a slice.
func splitEnv(key, def string) []string {
	raw := getEnv(key, def)
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseDurationEnv reads an environment variable and parses it as a
// time.Duration. If the variable is empty, it falls back to the default.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}
