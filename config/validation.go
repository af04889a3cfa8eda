package config

import (
	"fmt"
	"strings"
)

// ValidateConfig checks that the configuration is complete enough for the
// current environment. Development and test get permissive defaults;
// production must carry real secrets.
func ValidateConfig(cfg *Config) error {
	var errors []string

	if cfg.JWTSecret == "" {
		if IsProduction() {
			errors = append(errors, "jwt_secret is required in production")
		} else {
			cfg.JWTSecret = "insecure-dev-secret"
		}
	}

	if IsProduction() && cfg.DBPassword == "" {
		errors = append(errors, "db_password is required in production")
	}

	switch cfg.StorageBackend {
	case "local":
		if cfg.MediaRoot == "" {
			errors = append(errors, "media_root is required for local storage")
		}
	case "s3":
		if cfg.S3Bucket == "" {
			errors = append(errors, "s3_bucket_name is required for s3 storage")
		}
	default:
		errors = append(errors, fmt.Sprintf("unknown storage backend %q", cfg.StorageBackend))
	}

	if cfg.PageSize < 1 || cfg.PageSizeMax < cfg.PageSize {
		errors = append(errors, "page size bounds are inconsistent")
	}

	if len(errors) > 0 {
		return fmt.Errorf("%s", strings.Join(errors, "; "))
	}

	return nil
}
