package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for knova-engine.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (database password, token secret) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"5000"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// Database configuration (PostgreSQL)
	Database DatabaseConfig `yaml:"database"`

	// Authentication configuration
	Auth AuthConfig `yaml:"auth"`

	// Governance lifecycle configuration
	Governance GovernanceConfig `yaml:"governance"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"knova"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"knova_engine"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"25"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
	MigrationsPath string `yaml:"migrations_path" env:"PGMIGRATIONS_PATH" env-default:"migrations"`
}

// AuthConfig holds authentication-related configuration.
type AuthConfig struct {
	// TokenSecret signs issued HS256 tokens. Server fails to start if unset
	// outside local development.
	TokenSecret string `yaml:"-" env:"AUTH_TOKEN_SECRET"`

	// TokenTTLMinutes is the lifetime of issued tokens.
	TokenTTLMinutes int `yaml:"token_ttl_minutes" env:"AUTH_TOKEN_TTL_MINUTES" env-default:"120"`
}

// GovernanceConfig holds lifecycle timing configuration.
// ReviewDueDays and ExpiryDays are read once at process start.
type GovernanceConfig struct {
	// ReviewDueDays is how long after approval an asset stays published
	// before it is marked needs_review by the sweep.
	ReviewDueDays int `yaml:"review_due_days" env:"REVIEW_DUE_DAYS" env-default:"90"`

	// ExpiryDays is how long after approval an asset may live before the
	// sweep marks it expired.
	ExpiryDays int `yaml:"expiry_days" env:"EXPIRY_DAYS" env-default:"365"`

	// SweepSchedule is a cron expression for the daily lifecycle sweep.
	SweepSchedule string `yaml:"sweep_schedule" env:"GOVERNANCE_SWEEP_SCHEDULE" env-default:"0 2 * * *"`
}

// TokenTTL returns the configured token lifetime as a duration.
func (c *AuthConfig) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLMinutes) * time.Minute
}

// Load reads configuration from config.yaml with environment variable overrides.
// The version parameter is injected at build time and set on the returned Config.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
		return nil, fmt.Errorf("failed to read config.yaml: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Auth.TokenSecret == "" && c.Env != "local" {
		return fmt.Errorf("AUTH_TOKEN_SECRET must be set when ENVIRONMENT=%s", c.Env)
	}
	if c.Governance.ReviewDueDays <= 0 {
		return fmt.Errorf("review_due_days must be positive, got %d", c.Governance.ReviewDueDays)
	}
	if c.Governance.ExpiryDays <= 0 {
		return fmt.Errorf("expiry_days must be positive, got %d", c.Governance.ExpiryDays)
	}
	return nil
}

// ConnectionString returns a PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}
