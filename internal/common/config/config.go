// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Backend  BackendConfig  `mapstructure:"backend"`
	Identity IdentityConfig `mapstructure:"identity"`
	Payment  PaymentConfig  `mapstructure:"payment"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// --- Core App Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// BackendConfig points at the ScholarStream REST API.
type BackendConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Timeout int    `mapstructure:"timeout"` // milliseconds
}

// IdentityConfig holds settings for the external identity provider.
type IdentityConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Timeout int    `mapstructure:"timeout"` // milliseconds
}

// PaymentConfig holds settings for the card payment processor.
// Only the publishable key lives client-side; intent creation goes
// through the backend.
type PaymentConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	PublishableKey string `mapstructure:"publishable_key"`
	Timeout        int    `mapstructure:"timeout"` // milliseconds
}

type CacheConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Address   string `mapstructure:"address"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}

func validateConfig(cfg *Config) error {
	if cfg.Backend.BaseURL == "" {
		return fmt.Errorf("backend.base_url is required")
	}
	if cfg.Identity.BaseURL == "" {
		return fmt.Errorf("identity.base_url is required")
	}
	if cfg.Payment.PublishableKey == "" {
		return fmt.Errorf("payment.publishable_key is required")
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "scholarstream"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}
	if cfg.Backend.Timeout <= 0 {
		cfg.Backend.Timeout = 15000
	}
	if cfg.Identity.Timeout <= 0 {
		cfg.Identity.Timeout = 30000
	}
	if cfg.Payment.Timeout <= 0 {
		cfg.Payment.Timeout = 30000
	}
	if cfg.Payment.BaseURL == "" {
		cfg.Payment.BaseURL = "https://api.stripe.com"
	}
	if cfg.Cache.Redis.KeyPrefix == "" {
		cfg.Cache.Redis.KeyPrefix = "scholarstream"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
	if cfg.Metrics.Address == "" {
		cfg.Metrics.Address = ":9091"
	}
}
