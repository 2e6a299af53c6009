// Package config loads the module configuration from YAML files and FINALEX_* environment variables
package config

import (
	"github.com/Aidin1998/finalex-ids/internal/registry"
)

// Config represents the complete configuration
type Config struct {
	Environment string `mapstructure:"environment" yaml:"environment" validate:"required,oneof=development staging production"`

	Logging     LoggingConfig     `mapstructure:"logging" yaml:"logging"`
	Database    DatabaseConfig    `mapstructure:"database" yaml:"database"`
	Redis       RedisConfig       `mapstructure:"redis" yaml:"redis"`
	Identifiers IdentifiersConfig `mapstructure:"identifiers" yaml:"identifiers"`
	Registry    RegistryConfig    `mapstructure:"registry" yaml:"registry"`
	Tracing     TracingConfig     `mapstructure:"tracing" yaml:"tracing"`
	Metrics     MetricsConfig     `mapstructure:"metrics" yaml:"metrics"`
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" yaml:"format" validate:"oneof=json console"`
}

// DatabaseConfig holds the issued-id ledger connection settings
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver" yaml:"driver" validate:"required,oneof=postgres sqlite"`
	DSN             string `mapstructure:"dsn" yaml:"dsn" validate:"required"`
	MaxOpenConns    int    `mapstructure:"max_open_conns" yaml:"max_open_conns" validate:"min=0"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns" yaml:"max_idle_conns" validate:"min=0"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime" yaml:"conn_max_lifetime" validate:"min=0"` // seconds
}

// RedisConfig holds the optional ledger cache settings
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled" yaml:"enabled"`
	Address  string `mapstructure:"address" yaml:"address" validate:"required_if=Enabled true"`
	Password string `mapstructure:"password" yaml:"password"`
	DB       int    `mapstructure:"db" yaml:"db" validate:"min=0"`
	TTL      int    `mapstructure:"ttl" yaml:"ttl" validate:"min=1"` // seconds
}

// IdentifiersConfig controls identifier generation
type IdentifiersConfig struct {
	Prefix           string `mapstructure:"prefix" yaml:"prefix" validate:"max=16"`
	MaxIssueAttempts int    `mapstructure:"max_issue_attempts" yaml:"max_issue_attempts" validate:"min=1,max=100"`
}

// RegistryConfig controls the foreign handle registry
type RegistryConfig struct {
	MaxHandles int `mapstructure:"max_handles" yaml:"max_handles" validate:"min=0"`
}

// TracingConfig toggles the stdout span exporter
type TracingConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

// MetricsConfig controls how Prometheus collectors are exposed
type MetricsConfig struct {
	// Listen is the scrape address of the shared library, e.g. 127.0.0.1:9464
	Listen string `mapstructure:"listen" yaml:"listen"`
	// Textfile is written by the CLI on exit for the node exporter
	Textfile string `mapstructure:"textfile" yaml:"textfile"`
}

// RegistryOptions converts the registry section into registry.Config
func (c *Config) RegistryOptions() registry.Config {
	return registry.Config{MaxHandles: c.Registry.MaxHandles}
}
