package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	env := GetEnvironment()
	var errs []string

	switch cfg.Database.Driver {
	case "postgres":
		for field, value := range map[string]string{
			"db.host": cfg.Database.Host,
			"db.port": cfg.Database.Port,
			"db.user": cfg.Database.User,
			"db.name": cfg.Database.Name,
		} {
			if value == "" {
				errs = append(errs, ValidationError{field, "is required for the postgres driver"}.Error())
			}
		}
	case "sqlite":
		if cfg.Database.Path == "" {
			errs = append(errs, ValidationError{"db.path", "is required for the sqlite driver"}.Error())
		}
	default:
		errs = append(errs, ValidationError{"db.driver", fmt.Sprintf("unsupported driver %q", cfg.Database.Driver)}.Error())
	}

	if env == Production || env == CI {
		if cfg.Database.Driver != "postgres" {
			errs = append(errs, ValidationError{"db.driver", "must be postgres in " + string(env)}.Error())
		}
		if cfg.Database.Password == "" {
			if env == CI {
				errs = append(errs, "DB_PASSWORD environment variable is required in CI environment")
			} else {
				errs = append(errs, "db_password secret is required")
			}
		}
	}

	switch cfg.Storage.Backend {
	case "local":
		if cfg.Storage.Root == "" {
			errs = append(errs, ValidationError{"storage.root", "is required for the local backend"}.Error())
		}
	case "s3":
		if cfg.Storage.S3Bucket == "" {
			errs = append(errs, ValidationError{"storage.s3_bucket", "is required for the s3 backend"}.Error())
		}
	default:
		errs = append(errs, ValidationError{"storage.backend", fmt.Sprintf("unsupported backend %q", cfg.Storage.Backend)}.Error())
	}

	if cfg.Storage.MaxUploadBytes <= 0 {
		errs = append(errs, ValidationError{"storage.max_upload_bytes", "must be positive"}.Error())
	}
	if cfg.Auth.WriteRateLimit < 0 {
		errs = append(errs, ValidationError{"auth.write_rate_limit", "must not be negative"}.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}

	return nil
}
