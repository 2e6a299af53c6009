package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// EnvPrefix is the prefix of environment overrides, e.g. FINALEX_DATABASE_DSN
const EnvPrefix = "FINALEX"

// Loader reads configuration from files and the environment
type Loader struct {
	viper     *viper.Viper
	validator *validator.Validate
	logger    *zap.Logger
}

// NewLoader creates a new configuration loader
func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		viper:     viper.New(),
		validator: validator.New(),
		logger:    logger.Named("config"),
	}
}

// Load loads configuration from multiple sources with validation.
// Missing files are skipped; later files override earlier ones.
func (l *Loader) Load(configPaths ...string) (*Config, error) {
	l.setupViper()
	l.setDefaults()

	if err := l.loadConfigFiles(configPaths...); err != nil {
		return nil, fmt.Errorf("failed to load config files: %w", err)
	}

	var cfg Config
	if err := l.viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := l.validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	l.logger.Debug("Configuration loaded",
		zap.String("environment", cfg.Environment),
		zap.String("database_driver", cfg.Database.Driver),
		zap.Bool("redis_enabled", cfg.Redis.Enabled))

	return &cfg, nil
}

// LoadConfig is a shortcut for NewLoader(logger).Load(paths...)
func LoadConfig(logger *zap.Logger, configPaths ...string) (*Config, error) {
	return NewLoader(logger).Load(configPaths...)
}

// setupViper configures viper settings
func (l *Loader) setupViper() {
	l.viper.SetConfigType("yaml")
	l.viper.SetEnvPrefix(EnvPrefix)
	l.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.viper.AutomaticEnv()
}

// setDefaults registers every key so environment overrides reach Unmarshal
func (l *Loader) setDefaults() {
	l.viper.SetDefault("environment", "development")

	l.viper.SetDefault("logging.level", "info")
	l.viper.SetDefault("logging.format", "json")

	l.viper.SetDefault("database.driver", "sqlite")
	l.viper.SetDefault("database.dsn", "file:orderlistid.db")
	l.viper.SetDefault("database.max_open_conns", 10)
	l.viper.SetDefault("database.max_idle_conns", 2)
	l.viper.SetDefault("database.conn_max_lifetime", 3600)

	l.viper.SetDefault("redis.enabled", false)
	l.viper.SetDefault("redis.address", "localhost:6379")
	l.viper.SetDefault("redis.password", "")
	l.viper.SetDefault("redis.db", 0)
	l.viper.SetDefault("redis.ttl", 300)

	l.viper.SetDefault("identifiers.prefix", "OL")
	l.viper.SetDefault("identifiers.max_issue_attempts", 3)

	l.viper.SetDefault("registry.max_handles", 0)

	l.viper.SetDefault("tracing.enabled", false)

	l.viper.SetDefault("metrics.listen", "")
	l.viper.SetDefault("metrics.textfile", "")
}

// loadConfigFiles merges the YAML files that exist
func (l *Loader) loadConfigFiles(configPaths ...string) error {
	if len(configPaths) == 0 {
		configPaths = []string{
			"./config.yaml",
			"./configs/config.yaml",
			"/etc/finalex/orderlistid.yaml",
		}
	}

	var loadedFiles []string
	for _, path := range configPaths {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			l.logger.Debug("Config file not found, skipping", zap.String("path", path))
			continue
		}

		l.viper.SetConfigFile(path)
		if err := l.viper.MergeInConfig(); err != nil {
			return fmt.Errorf("failed to load config file %s: %w", path, err)
		}
		loadedFiles = append(loadedFiles, path)
	}

	if len(loadedFiles) == 0 {
		l.logger.Debug("No configuration files found, using defaults and environment variables")
	} else {
		l.logger.Info("Loaded configuration files", zap.Strings("files", loadedFiles))
	}
	return nil
}

// Validate checks cfg against the same rules Load applies. Use it after
// overriding loaded values, e.g. from command line flags.
func Validate(cfg *Config) error {
	return validate(validator.New(), cfg)
}

func (l *Loader) validateConfig(cfg *Config) error {
	return validate(l.validator, cfg)
}

func validate(v *validator.Validate, cfg *Config) error {
	if err := v.Struct(cfg); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if cfg.Environment == "production" && cfg.Database.Driver != "postgres" {
		return fmt.Errorf("production environment requires the postgres driver, got %q", cfg.Database.Driver)
	}
	return nil
}
