package config

import (
	"errors"
	"fmt"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks if the configuration meets the requirements for its environment
func ValidateConfig(cfg *Config) error {
	var errs []ValidationError
	fail := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg})
	}

	if cfg.ServerPort == "" {
		fail("SERVER_PORT", "is required")
	}
	if cfg.JWTSecret == "" {
		fail("jwt_secret", "is required")
	}

	switch cfg.DBDriver {
	case DriverPostgres:
		if cfg.DBHost == "" {
			fail("DB_HOST", "is required for the postgres driver")
		}
		if cfg.DBName == "" {
			fail("DB_NAME", "is required for the postgres driver")
		}
		if cfg.DBUser == "" {
			fail("db_user", "is required for the postgres driver")
		}
		if cfg.DBPassword == "" && (cfg.Env == Production || cfg.Env == CI) {
			fail("db_password", "is required")
		}
	case DriverSQLite:
		if cfg.SQLitePath == "" {
			fail("SQLITE_PATH", "is required for the sqlite driver")
		}
	default:
		fail("DB_DRIVER", fmt.Sprintf("unsupported driver %q", cfg.DBDriver))
	}

	if cfg.Env == Production && !cfg.RedisEnabled() {
		fail("REDIS_HOST", "redis is required in production")
	}

	if cfg.Planner.RetryLimit < 1 {
		fail("PLANNER_RETRY_LIMIT", "must be at least 1")
	}
	if cfg.Planner.TolRatio <= 0 || cfg.Planner.TolRatio >= 1 {
		fail("PLANNER_TOL_RATIO", "must be between 0 and 1")
	}
	if cfg.PlanDraftTTL <= 0 {
		fail("PLAN_DRAFT_TTL", "must be positive")
	}
	if cfg.RateLimit.Requests < 1 {
		fail("RATE_LIMIT_REQUESTS", "must be at least 1")
	}
	if cfg.RateLimit.Window <= 0 {
		fail("RATE_LIMIT_WINDOW", "must be positive")
	}

	return joinValidation(errs)
}

func joinValidation(errs []ValidationError) error {
	if len(errs) == 0 {
		return nil
	}
	out := make([]error, len(errs))
	for i, e := range errs {
		out[i] = e
	}
	return errors.Join(out...)
}
