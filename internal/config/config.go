package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// MinProductionSecretLength is the minimum JWT secret length accepted in production
const MinProductionSecretLength = 32

// DefaultConfigFile is the dotenv file loaded when CONFIG_FILE is unset
const DefaultConfigFile = "./config/config.env"

// Config holds all application configuration
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Revocation RevocationConfig
	RateLimit  RateLimitConfig
	Jobs       JobsConfig
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port           string        `env:"PORT" envDefault:"5000"`
	Env            string        `env:"SERVER_ENV"` // falls back to NODE_ENV, then development
	ReadTimeout    time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout   time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"15s"`
	AllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
}

// DatabaseConfig holds SurrealDB connection settings
type DatabaseConfig struct {
	Host      string `env:"DB_HOST" envDefault:"localhost"`
	Port      string `env:"DB_PORT" envDefault:"8000"`
	Namespace string `env:"DB_NAMESPACE" envDefault:"devcamper"`
	Database  string `env:"DB_DATABASE" envDefault:"main"`
	User      string `env:"DB_USER" envDefault:"root"`
	Password  string `env:"DB_PASSWORD" envDefault:"root"`
	Migrate   bool   `env:"DB_MIGRATE" envDefault:"true"`
	TLS       bool   `env:"DB_TLS" envDefault:"false"`
}

// JWTConfig holds JWT signing settings
type JWTConfig struct {
	Secret           string        `env:"JWT_SECRET"`
	Expiration       time.Duration `env:"JWT_EXPIRE" envDefault:"720h"`
	CookieExpireDays int           `env:"JWT_COOKIE_EXPIRE" envDefault:"30"`
	Issuer           string        `env:"JWT_ISSUER" envDefault:"devcamper"`
}

// RevocationConfig selects where logged-out token ids are kept
type RevocationConfig struct {
	RedisURL  string `env:"REDIS_URL"`
	CacheSize int    `env:"REVOCATION_CACHE_SIZE" envDefault:"10000"`
}

// RateLimitConfig holds the per-client token bucket settings
type RateLimitConfig struct {
	RPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"10"`
	Burst int     `env:"RATE_LIMIT_BURST" envDefault:"100"`
}

// JobsConfig holds background job schedules. An empty schedule disables
// the job.
type JobsConfig struct {
	ReconcileSchedule string `env:"AGGREGATE_RECONCILE_SCHEDULE" envDefault:"@hourly"`
}

// Load reads the optional dotenv file and then parses environment variables
// into a Config with defaults applied.
func Load() (*Config, error) {
	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		path = DefaultConfigFile
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if cfg.Server.Env == "" {
		cfg.Server.Env = os.Getenv("NODE_ENV")
	}
	if cfg.Server.Env == "" {
		cfg.Server.Env = DefaultEnv
	}
	return cfg, nil
}

// DefaultEnv is used when neither SERVER_ENV nor NODE_ENV is set
const DefaultEnv = "development"

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// UseRedisRevocation returns true if a Redis URL is configured
func (c *Config) UseRedisRevocation() bool {
	return c.Revocation.RedisURL != ""
}

// CookieMaxAge returns the auth cookie lifetime
func (c *Config) CookieMaxAge() time.Duration {
	return time.Duration(c.JWT.CookieExpireDays) * 24 * time.Hour
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Validate checks that all required configuration values are present and valid.
// It returns an error describing all validation failures, or nil if valid.
func (c *Config) Validate() error {
	var errs []error

	// Server validation
	if c.Server.Port == "" {
		errs = append(errs, errors.New("PORT is required"))
	}
	if c.Server.Env != "development" && c.Server.Env != "production" && c.Server.Env != "test" {
		errs = append(errs, fmt.Errorf("SERVER_ENV must be 'development', 'production', or 'test', got '%s'", c.Server.Env))
	}
	if len(c.Server.AllowedOrigins) == 0 {
		errs = append(errs, errors.New("CORS_ALLOWED_ORIGINS must have at least one origin"))
	}

	// Database validation
	if c.Database.Host == "" {
		errs = append(errs, errors.New("DB_HOST is required"))
	}
	if c.Database.Port == "" {
		errs = append(errs, errors.New("DB_PORT is required"))
	}
	if c.Database.Namespace == "" {
		errs = append(errs, errors.New("DB_NAMESPACE is required"))
	}
	if c.Database.Database == "" {
		errs = append(errs, errors.New("DB_DATABASE is required"))
	}

	// JWT validation
	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	} else if c.IsProduction() && len(c.JWT.Secret) < MinProductionSecretLength {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d bytes in production", MinProductionSecretLength))
	}
	if c.JWT.Expiration <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRE must be positive"))
	}
	if c.JWT.CookieExpireDays <= 0 {
		errs = append(errs, errors.New("JWT_COOKIE_EXPIRE must be positive"))
	}

	if !c.UseRedisRevocation() && c.Revocation.CacheSize <= 0 {
		errs = append(errs, errors.New("REVOCATION_CACHE_SIZE must be positive when REDIS_URL is unset"))
	}

	if c.RateLimit.RPS <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_RPS must be positive"))
	}
	if c.RateLimit.Burst <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_BURST must be positive"))
	}

	if c.Jobs.ReconcileSchedule != "" {
		if _, err := cron.ParseStandard(c.Jobs.ReconcileSchedule); err != nil {
			errs = append(errs, fmt.Errorf("AGGREGATE_RECONCILE_SCHEDULE is invalid: %w", err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
