package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the runtime configuration for the analyzer services.
type Config struct {
	Port             int
	UploadDir        string
	ModelPath        string
	MaxContentLength int64
	AllowedExts      []string
	LogFile          string
	SentryDSN        string
}

const defaultMaxContentLength = 16 << 20 // 16 MiB

// Load reads configuration from a .env file (if present) and the
// environment, falling back to defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:             getEnvInt("PORT", 8080),
		UploadDir:        getEnv("UPLOAD_FOLDER", "uploads"),
		ModelPath:        getEnv("MODEL_PATH", "models/model_fixed.json"),
		MaxContentLength: getEnvInt64("MAX_CONTENT_LENGTH", defaultMaxContentLength),
		AllowedExts:      []string{"png", "jpg", "jpeg", "gif", "webp"},
		LogFile:          getEnv("LOG_FILE", ""),
		SentryDSN:        getEnv("SENTRY_DSN", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for nonsensical values.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: PORT must be between 1 and 65535, got %d", c.Port)
	}
	if c.MaxContentLength <= 0 {
		return fmt.Errorf("config: MAX_CONTENT_LENGTH must be positive, got %d", c.MaxContentLength)
	}
	if c.UploadDir == "" {
		return fmt.Errorf("config: UPLOAD_FOLDER cannot be empty")
	}
	return nil
}

// ExtAllowed reports whether the given filename extension (without dot)
// is in the allow-list.
func (c *Config) ExtAllowed(ext string) bool {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, allowed := range c.AllowedExts {
		if ext == allowed {
			return true
		}
	}
	return false
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intVal, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intVal
}

func getEnvInt64(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intVal, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return defaultValue
	}
	return intVal
}
