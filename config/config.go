package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Database drivers understood by database.New.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const defaultSecretsDir = "/run/secrets"

// PlannerConfig tunes the meal planner.
type PlannerConfig struct {
	RetryLimit int
	TolRatio   float64
	// Seed of 0 seeds from the clock.
	Seed int64
	// RulesPath overrides the built-in keyword rules when set.
	RulesPath string
}

// RateLimitConfig bounds plan generation per user.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// Config holds all configuration for the application
type Config struct {
	Env Environment

	// Server configuration
	ServerPort     string
	ServerHost     string
	AllowedOrigins []string

	// Database configuration
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret string

	// Pair snapshot storage
	S3Bucket  string
	S3PairKey string
	AWSRegion string

	Planner      PlannerConfig
	PlanDraftTTL time.Duration
	RateLimit    RateLimitConfig
}

// RedisEnabled reports whether a redis endpoint is configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

// S3Enabled reports whether pair snapshots can be read from or written to S3.
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != ""
}

// PostgresDSN builds the key/value connection string for the postgres driver.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	src, err := sourceFor(env)
	if err != nil {
		return nil, err
	}

	cfg, err := load(src)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s configuration: %w", env, err)
	}
	cfg.Env = env

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// source resolves plain settings from the environment and sensitive ones
// from Docker secrets. CI has no secrets mount, so everything comes from env.
type source struct {
	secretsDir  string
	secretFiles bool
	envFallback bool
}

func sourceFor(env Environment) (source, error) {
	dir := os.Getenv("SECRETS_DIR")
	if dir == "" {
		dir = defaultSecretsDir
	}
	switch env {
	case CI:
		return source{envFallback: true}, nil
	case Development, Test:
		return source{secretsDir: dir, secretFiles: true, envFallback: true}, nil
	case Production:
		return source{secretsDir: dir, secretFiles: true}, nil
	}
	return source{}, fmt.Errorf("unknown environment: %s", env)
}

func (s source) setting(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func (s source) secret(name string) string {
	if s.secretFiles {
		if v := readSecret(s.secretsDir, name); v != "" {
			return v
		}
	}
	if s.envFallback {
		return strings.TrimSpace(os.Getenv(strings.ToUpper(name)))
	}
	return ""
}

func load(src source) (*Config, error) {
	p := parser{src: src}
	cfg := &Config{
		ServerPort:     src.setting("SERVER_PORT", "8080"),
		ServerHost:     src.setting("SERVER_HOST", "0.0.0.0"),
		AllowedOrigins: splitList(src.setting("CORS_ALLOWED_ORIGINS", "http://localhost:5173")),

		DBDriver:   strings.ToLower(src.setting("DB_DRIVER", DriverPostgres)),
		DBHost:     src.setting("DB_HOST", "localhost"),
		DBPort:     src.setting("DB_PORT", "5432"),
		DBName:     src.setting("DB_NAME", "mealplan"),
		DBSSLMode:  src.setting("DB_SSL_MODE", "disable"),
		SQLitePath: src.setting("SQLITE_PATH", "mealplan.db"),
		DBUser:     src.secret("db_user"),
		DBPassword: src.secret("db_password"),

		RedisHost:     src.setting("REDIS_HOST", ""),
		RedisPort:     src.setting("REDIS_PORT", "6379"),
		RedisDB:       p.intValue("REDIS_DB", 0),
		RedisPassword: src.secret("redis_password"),
		RedisURL:      src.secret("redis_url"),

		JWTSecret: src.secret("jwt_secret"),

		S3Bucket:  src.setting("S3_BUCKET_NAME", ""),
		S3PairKey: src.setting("S3_PAIR_SNAPSHOT_KEY", "pairings/latest.json"),
		AWSRegion: src.setting("AWS_REGION", "us-east-1"),

		Planner: PlannerConfig{
			RetryLimit: p.intValue("PLANNER_RETRY_LIMIT", 3),
			TolRatio:   p.floatValue("PLANNER_TOL_RATIO", 0.08),
			Seed:       int64(p.intValue("PLANNER_SEED", 0)),
			RulesPath:  src.setting("PLANNER_RULES_PATH", ""),
		},
		PlanDraftTTL: p.durationValue("PLAN_DRAFT_TTL", 24*time.Hour),
		RateLimit: RateLimitConfig{
			Requests: p.intValue("RATE_LIMIT_REQUESTS", 30),
			Window:   p.durationValue("RATE_LIMIT_WINDOW", time.Minute),
		},
	}
	if len(p.errs) > 0 {
		return nil, joinValidation(p.errs)
	}
	return cfg, nil
}

// parser collects malformed numeric settings instead of failing on the first.
type parser struct {
	src  source
	errs []ValidationError
}

func (p *parser) intValue(key string, def int) int {
	raw := p.src.setting(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.errs = append(p.errs, ValidationError{Field: key, Message: "must be an integer"})
		return def
	}
	return v
}

func (p *parser) floatValue(key string, def float64) float64 {
	raw := p.src.setting(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.errs = append(p.errs, ValidationError{Field: key, Message: "must be a number"})
		return def
	}
	return v
}

func (p *parser) durationValue(key string, def time.Duration) time.Duration {
	raw := p.src.setting(key, "")
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		p.errs = append(p.errs, ValidationError{Field: key, Message: "must be a duration such as 30s or 24h"})
		return def
	}
	return v
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(dir, name string) string {
	if data, err := os.ReadFile(filepath.Join(dir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
