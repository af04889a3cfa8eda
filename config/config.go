package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// JWT configuration
	JWTSecret string

	// Image storage configuration. Backend is "local" or "s3".
	StorageBackend string
	MediaRoot      string
	MediaURL       string
	S3Bucket       string

	// API behavior
	RecipesLimit uint
	PageSize     int
	PageSizeMax  int
}

// LoadConfig creates a new Config instance with values from environment
// variables or Docker secrets
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerPort: getValue("SERVER_PORT", "8000"),
		ServerHost: getValue("SERVER_HOST", "0.0.0.0"),

		DBHost:     getValue("DB_HOST", "localhost"),
		DBPort:     getValue("DB_PORT", "5432"),
		DBUser:     getValue("DB_USER", "foodgram"),
		DBPassword: getValue("DB_PASSWORD", ""),
		DBName:     getValue("DB_NAME", "foodgram"),
		DBSSLMode:  getValue("DB_SSL_MODE", "disable"),

		RedisHost:     getValue("REDIS_HOST", "localhost"),
		RedisPort:     getValue("REDIS_PORT", "6379"),
		RedisPassword: getValue("REDIS_PASSWORD", ""),
		RedisDB:       0,

		JWTSecret: getValue("JWT_SECRET", ""),

		StorageBackend: getValue("STORAGE_BACKEND", "local"),
		MediaRoot:      getValue("MEDIA_ROOT", "media"),
		MediaURL:       getValue("MEDIA_URL", "/media/"),
		S3Bucket:       getValue("S3_BUCKET_NAME", ""),

		RecipesLimit: uint(getIntValue("RECIPES_LIMIT", 3)),
		PageSize:     getIntValue("PAGE_SIZE", 6),
		PageSizeMax:  getIntValue("PAGE_SIZE_MAX", 100),
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// getValue resolves a configuration value: the environment variable wins,
// then the matching Docker secret file, then the default.
func getValue(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	if v := readSecret(strings.ToLower(name)); v != "" {
		return v
	}
	return fallback
}

func getIntValue(name string, fallback int) int {
	v := getValue(name, "")
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
