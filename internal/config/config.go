// Package config provides configuration management for the dashboard.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Market        MarketConfig       `mapstructure:"market"`
	Display       DisplayConfig      `mapstructure:"display"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Logging       LoggingConfig      `mapstructure:"logging"`
}

// MarketConfig holds market endpoint configuration.
type MarketConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	Currency     string        `mapstructure:"currency"`
	PerPage      int           `mapstructure:"per_page"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	HTTPTimeout  time.Duration `mapstructure:"http_timeout"`
}

// DisplayConfig holds display-related configuration.
type DisplayConfig struct {
	DefaultVisible int  `mapstructure:"default_visible"`
	PageStep       int  `mapstructure:"page_step"`
	ColorEnabled   bool `mapstructure:"color_enabled"`
	SparklineWidth int  `mapstructure:"sparkline_width"`
}

// NotificationConfig holds notification configuration.
type NotificationConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Level   string        `mapstructure:"level"` // all, alerts_only, errors_only
	Webhook WebhookConfig `mapstructure:"webhook"`
}

// WebhookConfig holds webhook notification configuration.
type WebhookConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	File  bool   `mapstructure:"file"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/coinwatch"
	}
	return filepath.Join(home, ".config", "coinwatch")
}

// DefaultDBPath returns the default path of the local state database.
func DefaultDBPath(configDir string) string {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}
	return filepath.Join(configDir, "coinwatch.db")
}

// DirFromArgs extracts the --config flag value from raw command-line
// arguments. Configuration must be loaded before the command tree is built,
// so the flag is resolved by hand rather than through cobra.
func DirFromArgs(args []string) string {
	for i, arg := range args {
		if arg == "--config" && i+1 < len(args) {
			return args[i+1]
		}
		if strings.HasPrefix(arg, "--config=") {
			return strings.TrimPrefix(arg, "--config=")
		}
	}
	return ""
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	setDefaults(v)

	v.SetEnvPrefix("COINWATCH")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("loading config.toml: %w", err)
		}
		// First run: write the annotated template so the user has
		// something to edit.
		if werr := writeTemplateConfig(configDir); werr != nil {
			return nil, fmt.Errorf("creating config template: %w", werr)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("market.base_url", "https://api.coingecko.com/api/v3")
	v.SetDefault("market.currency", "usd")
	v.SetDefault("market.per_page", 250)
	v.SetDefault("market.poll_interval", time.Minute)
	v.SetDefault("market.http_timeout", 15*time.Second)

	v.SetDefault("display.default_visible", 2)
	v.SetDefault("display.page_step", 10)
	v.SetDefault("display.color_enabled", true)
	v.SetDefault("display.sparkline_width", 48)

	v.SetDefault("notifications.enabled", true)
	v.SetDefault("notifications.level", "all")
	v.SetDefault("notifications.webhook.enabled", false)
	v.SetDefault("notifications.webhook.url", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", true)
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Market.BaseURL == "" {
		return fmt.Errorf("market.base_url must not be empty")
	}
	if c.Market.PerPage <= 0 || c.Market.PerPage > 250 {
		return fmt.Errorf("market.per_page must be between 1 and 250, got %d", c.Market.PerPage)
	}
	if c.Market.PollInterval < 5*time.Second {
		return fmt.Errorf("market.poll_interval must be at least 5s, got %s", c.Market.PollInterval)
	}
	if c.Display.DefaultVisible < 1 {
		return fmt.Errorf("display.default_visible must be positive, got %d", c.Display.DefaultVisible)
	}
	if c.Display.PageStep < 1 {
		return fmt.Errorf("display.page_step must be positive, got %d", c.Display.PageStep)
	}
	switch c.Notifications.Level {
	case "", "all", "alerts_only", "errors_only":
	default:
		return fmt.Errorf("notifications.level must be one of all, alerts_only, errors_only")
	}
	return nil
}
