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

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port string
	Env  string

	ShopAPI ShopAPIConfig
	Storage StorageConfig
	Redis   RedisConfig
	Console ConsoleConfig
}

// ShopAPIConfig describes the remote shop backend the console talks to.
type ShopAPIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// StorageConfig selects where the persisted console state (token, theme,
// shop profile) lives.
type StorageConfig struct {
	Driver string // "redis" or "memory"
	Prefix string
}

// RedisConfig contains Redis connection parameters.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// ConsoleConfig contains UI behaviour knobs.
type ConsoleConfig struct {
	ToastDuration     time.Duration
	LowStockHighlight int
	AllowedOrigins    []string
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// Load .env if present; ignore error if file is missing so that production
	// environments relying solely on real environment variables keep working.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")

	// Shop backend
	cfg.ShopAPI.BaseURL = strings.TrimRight(getEnv("SHOP_API_BASE_URL", ""), "/")

	// Storage
	cfg.Storage = StorageConfig{
		Driver: strings.ToLower(getEnv("STORAGE_DRIVER", "redis")),
		Prefix: getEnv("STORAGE_PREFIX", "om_console"),
	}

	// Redis
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", "redis"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	cfg.Console = ConsoleConfig{
		LowStockHighlight: getEnvInt("LOW_STOCK_HIGHLIGHT", 5),
		AllowedOrigins:    splitList(getEnv("ALLOWED_ORIGINS", "localhost:5173,127.0.0.1:5173")),
	}

	// Durations
	var err error
	if cfg.ShopAPI.Timeout, err = parseDurationEnv("SHOP_API_TIMEOUT", "30s"); err != nil {
		return nil, fmt.Errorf("invalid SHOP_API_TIMEOUT: %w", err)
	}
	if cfg.Console.ToastDuration, err = parseDurationEnv("TOAST_DURATION", "3s"); err != nil {
		return nil, fmt.Errorf("invalid TOAST_DURATION: %w", err)
	}

	if cfg.ShopAPI.BaseURL == "" {
		return nil, errors.New("SHOP_API_BASE_URL must be set to the shop backend address")
	}
	if cfg.Storage.Driver != "redis" && cfg.Storage.Driver != "memory" {
		return nil, fmt.Errorf("STORAGE_DRIVER must be 'redis' or 'memory', got %q", cfg.Storage.Driver)
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

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
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

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
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

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
