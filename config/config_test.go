package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("SECRETS_DIR", t.TempDir())
	t.Setenv("ENV", "test")
	t.Setenv("CI", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.ServerPort)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "local", cfg.StorageBackend)
	assert.Equal(t, "/media/", cfg.MediaURL)
	assert.EqualValues(t, 3, cfg.RecipesLimit)
	assert.Equal(t, 6, cfg.PageSize)
	assert.Equal(t, 100, cfg.PageSizeMax)
	// outside production a missing JWT secret falls back to the dev value
	assert.Equal(t, "insecure-dev-secret", cfg.JWTSecret)
}

func TestEnvOverridesDefaults(t *testing.T) {
	t.Setenv("SECRETS_DIR", t.TempDir())
	t.Setenv("ENV", "test")
	t.Setenv("CI", "")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("RECIPES_LIMIT", "5")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.ServerPort)
	assert.EqualValues(t, 5, cfg.RecipesLimit)
}

func TestSecretFileFallback(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "db_password"), []byte("hunter2\n"), 0o600))
	t.Setenv("SECRETS_DIR", dir)
	t.Setenv("ENV", "test")
	t.Setenv("CI", "")
	t.Setenv("DB_PASSWORD", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "hunter2", cfg.DBPassword)
}

func TestValidateConfig(t *testing.T) {
	base := func() *Config {
		return &Config{
			JWTSecret:      "secret",
			StorageBackend: "local",
			MediaRoot:      "media",
			PageSize:       6,
			PageSizeMax:    100,
		}
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, ValidateConfig(base()))
	})

	t.Run("unknown storage backend", func(t *testing.T) {
		cfg := base()
		cfg.StorageBackend = "ftp"
		err := ValidateConfig(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown storage backend")
	})

	t.Run("s3 needs a bucket", func(t *testing.T) {
		cfg := base()
		cfg.StorageBackend = "s3"
		err := ValidateConfig(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "s3_bucket_name")
	})

	t.Run("inconsistent page bounds", func(t *testing.T) {
		cfg := base()
		cfg.PageSizeMax = 1
		err := ValidateConfig(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "page size bounds")
	})

	t.Run("production requires secrets", func(t *testing.T) {
		t.Setenv("ENV", "production")
		t.Setenv("CI", "")
		cfg := base()
		cfg.JWTSecret = ""
		err := ValidateConfig(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt_secret")
	})
}

func TestGetEnvironment(t *testing.T) {
	t.Setenv("CI", "")

	t.Setenv("ENV", "production")
	assert.Equal(t, Production, GetEnvironment())
	assert.True(t, IsProduction())

	t.Setenv("ENV", "test")
	t.Setenv("CI", "")
	assert.Equal(t, Test, GetEnvironment())
	assert.True(t, IsTest())

	t.Setenv("ENV", "")
	assert.Equal(t, Development, GetEnvironment())

	t.Setenv("CI", "true")
	assert.Equal(t, CI, GetEnvironment())
}
