// Package config loads service configuration from defaults, an optional
// YAML file, a .env file and FINANCE_* environment variables, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. FINANCE_DATABASE_PATH.
const EnvPrefix = "FINANCE"

// Config is the full service configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	AMQP     AMQPConfig     `mapstructure:"amqp"`
	Sentry   SentryConfig   `mapstructure:"sentry"`
	Splits   SplitsConfig   `mapstructure:"splits"`
	Budgets  BudgetsConfig  `mapstructure:"budgets"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// AMQPConfig points at the broker that receives budget alerts and payment
// reminders. An empty URL disables publishing to a broker.
type AMQPConfig struct {
	URL      string `mapstructure:"url"`
	Exchange string `mapstructure:"exchange"`
	Queue    string `mapstructure:"queue"`
}

// SentryConfig enables error reporting when DSN is set.
type SentryConfig struct {
	DSN         string `mapstructure:"dsn"`
	Environment string `mapstructure:"environment"`
}

type SplitsConfig struct {
	// Tolerance is the largest accepted gap between the sum of the shares of
	// a percentage or custom split and its total.
	Tolerance float64 `mapstructure:"tolerance"`
}

type BudgetsConfig struct {
	// DefaultThreshold is the alert threshold used when a budget sets none.
	DefaultThreshold float64 `mapstructure:"default_threshold"`
	// Concurrency bounds how many budgets are evaluated in parallel.
	Concurrency int `mapstructure:"concurrency"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("database.path", "./data/finance.db")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", 24*time.Hour)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("amqp.url", "")
	v.SetDefault("amqp.exchange", "finance.events")
	v.SetDefault("amqp.queue", "finance.notifications")
	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "development")
	v.SetDefault("splits.tolerance", 0.05)
	v.SetDefault("budgets.default_threshold", 80.0)
	v.SetDefault("budgets.concurrency", 4)
}

// Load reads the configuration into a Config. configFile may be empty, in
// which case ./config.yaml is used when present.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	// Missing .env is fine
	_ = godotenv.Load()

	SetDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Database.Path == "" {
		errs = append(errs, errors.New("database.path is required"))
	}
	if len(c.Auth.JWTSecret) < 16 {
		errs = append(errs, errors.New("auth.jwt_secret must be at least 16 characters"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("auth.token_ttl must be positive"))
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("invalid logging.level: %q", c.Logging.Level))
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("invalid logging.format: %q", c.Logging.Format))
	}
	if c.AMQP.URL != "" && c.AMQP.Exchange == "" {
		errs = append(errs, errors.New("amqp.exchange is required when amqp.url is set"))
	}
	if c.Splits.Tolerance < 0.01 || c.Splits.Tolerance > 0.05 {
		errs = append(errs, fmt.Errorf("splits.tolerance must be between 0.01 and 0.05, got %v", c.Splits.Tolerance))
	}
	if c.Budgets.DefaultThreshold <= 0 || c.Budgets.DefaultThreshold > 100 {
		errs = append(errs, fmt.Errorf("budgets.default_threshold must be in (0, 100], got %v", c.Budgets.DefaultThreshold))
	}
	if c.Budgets.Concurrency < 1 {
		errs = append(errs, errors.New("budgets.concurrency must be at least 1"))
	}

	return errors.Join(errs...)
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
