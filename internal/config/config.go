package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string
	RedisURL    string
	LogLevel    string
	LogFormat   string

	// CacheTTL is the uniform TTL applied to reaction membership sets and
	// their empty-verified sentinels.
	CacheTTL time.Duration

	// DispatcherBuffer is the event channel capacity of the side-effect
	// dispatcher. Events beyond this are dropped (best-effort delivery).
	DispatcherBuffer int
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg := &Config{
		AppEnv:      getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", ""),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.RedisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}

	ttl, err := getEnvDuration("REACTION_CACHE_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("REACTION_CACHE_TTL must be positive")
	}
	cfg.CacheTTL = ttl

	buffer, err := getEnvInt("DISPATCHER_BUFFER", 1024)
	if err != nil {
		return nil, err
	}
	if buffer < 1 {
		return nil, fmt.Errorf("DISPATCHER_BUFFER must be at least 1")
	}
	cfg.DispatcherBuffer = buffer

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration (e.g. \"24h\"): %w", key, err)
	}
	return d, nil
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}
