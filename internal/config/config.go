// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Store drivers
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Logger   LoggerConfig
	Database DatabaseConfig
	Bank     BankConfig
	App      AppConfig
	Redis    RedisConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port               string        `envconfig:"PORT" default:"8080"`
	ReadTimeout        time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout       time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"15s"`
	IdleTimeout        time.Duration `envconfig:"SERVER_IDLE_TIMEOUT" default:"60s"`
	RateLimitPerMinute int           `envconfig:"RATE_LIMIT_PER_MINUTE" default:"120"`
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Driver          string        `envconfig:"STORE_DRIVER" default:"postgres"`
	Host            string        `envconfig:"DB_HOST" default:"localhost"`
	Port            string        `envconfig:"DB_PORT" default:"5432"`
	User            string        `envconfig:"DB_USER" default:"postgres"`
	Password        string        `envconfig:"DB_PASSWORD" default:"postgres"`
	DBName          string        `envconfig:"DB_NAME" default:"retailbank"`
	SSLMode         string        `envconfig:"DB_SSLMODE" default:"disable"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"5m"`
	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
}

// BankConfig holds the product catalog, tier limits and the external bank registry source
type BankConfig struct {
	Policies        string `envconfig:"POLICIES" default:"SAVINGS-REGULAR:5000,4.0;SAVINGS-GOLD:25000,4.25;SAVINGS-PREMIUM:100000,4.5;CURRENT-REGULAR:25000,2.5;CURRENT-GOLD:100000,2.25;CURRENT-PREMIUM:300000,2.75"`
	DailyLimits     string `envconfig:"DAILY_LIMITS" default:"REGULAR:100000;GOLD:200000;PREMIUM:300000"`
	ServiceBanks    string `envconfig:"SERVICE_BANKS" default:"ICIC:simulated;CITI:simulated;HDFC:accept"`
	MigratePolicies bool   `envconfig:"MIGRATE_POLICIES" default:"false"`
}

// AppConfig holds background processing and simulated external bank configuration
type AppConfig struct {
	ExternalTransferInterval time.Duration `envconfig:"EXTERNAL_TRANSFER_INTERVAL" default:"5m"`
	IdempotencyTTL           time.Duration `envconfig:"IDEMPOTENCY_TTL" default:"24h"`
	SimBankFailureRate       float64       `envconfig:"SIM_BANK_FAILURE_RATE" default:"0.05"`
	SimBankMinLatencyMS      int           `envconfig:"SIM_BANK_MIN_LATENCY_MS" default:"100"`
	SimBankMaxLatencyMS      int           `envconfig:"SIM_BANK_MAX_LATENCY_MS" default:"2000"`
}

// RedisConfig enables distributed account locking when Addr is set
type RedisConfig struct {
	Addr    string        `envconfig:"REDIS_ADDR"`
	LockTTL time.Duration `envconfig:"REDIS_LOCK_TTL" default:"30s"`
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`  // debug, info, warn, error
	Format string `envconfig:"LOG_FORMAT" default:"json"` // json, text
}

// Load loads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	var cfg Config

	sections := []any{&cfg.Server, &cfg.Logger, &cfg.Database, &cfg.Bank, &cfg.App, &cfg.Redis}
	for _, section := range sections {
		if err := envconfig.Process("", section); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks the loaded values for consistency
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port cannot be empty")
	}
	if c.Server.RateLimitPerMinute < 0 {
		return fmt.Errorf("rate limit cannot be negative")
	}

	switch c.Database.Driver {
	case StoreDriverPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("database host cannot be empty")
		}
		if c.Database.DBName == "" {
			return fmt.Errorf("database name cannot be empty")
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("invalid store driver: %s (must be postgres or memory)", c.Database.Driver)
	}

	if c.Bank.Policies == "" {
		return fmt.Errorf("policies cannot be empty")
	}

	if c.App.ExternalTransferInterval <= 0 {
		return fmt.Errorf("external transfer interval must be positive")
	}
	if c.App.SimBankFailureRate < 0 || c.App.SimBankFailureRate > 1 {
		return fmt.Errorf("failure rate must be between 0 and 1, got %f", c.App.SimBankFailureRate)
	}
	if c.App.SimBankMinLatencyMS < 0 {
		return fmt.Errorf("min latency cannot be negative")
	}
	if c.App.SimBankMaxLatencyMS < c.App.SimBankMinLatencyMS {
		return fmt.Errorf("max latency (%d) must be >= min latency (%d)", c.App.SimBankMaxLatencyMS, c.App.SimBankMinLatencyMS)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}
	if c.Logger.Format != LogFormatJSON && c.Logger.Format != LogFormatText {
		return fmt.Errorf("invalid log format: %s (must be json or text)", c.Logger.Format)
	}

	return nil
}

// DSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}
