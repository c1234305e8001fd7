package config

import (
	"fmt"
	"net/url"

	"github.com/spf13/viper"
	"github.com/varoOP/toplists/internal/domain"
)

// SetDefaults registers the default value of every configuration key.
func SetDefaults() {
	d := domain.DefaultConfig()

	viper.SetDefault("host", d.Host)
	viper.SetDefault("port", d.Port)
	viper.SetDefault("csv_path", d.CSVPath)
	viper.SetDefault("page_size", d.PageSize)
	viper.SetDefault("live_url", d.LiveURL)
	viper.SetDefault("live_id_prefix", d.LiveIDPrefix)
	viper.SetDefault("live_ttl", d.LiveTTL)
	viper.SetDefault("live_timeout", d.LiveTimeout)
	viper.SetDefault("live_limit", d.LiveLimit)
	viper.SetDefault("addon_id", d.AddonID)
	viper.SetDefault("addon_version", d.AddonVersion)
	viper.SetDefault("discord_webhook_url", d.DiscordWebhookURL)
	viper.SetDefault("log_level", d.LogLevel)
}

// Load loads configuration from multiple sources:
// 1. Defaults
// 2. Config file (config.yaml, optional)
// 3. Environment variables (TOPLISTS_*, plus PORT)
// 4. Command line flags bound by the CLI
func Load() (*domain.Config, error) {
	SetDefaults()

	cfg := &domain.Config{
		Host:              viper.GetString("host"),
		Port:              viper.GetInt("port"),
		CSVPath:           viper.GetString("csv_path"),
		PageSize:          viper.GetInt("page_size"),
		LiveURL:           viper.GetString("live_url"),
		LiveIDPrefix:      viper.GetString("live_id_prefix"),
		LiveTTL:           viper.GetDuration("live_ttl"),
		LiveTimeout:       viper.GetDuration("live_timeout"),
		LiveLimit:         viper.GetInt("live_limit"),
		AddonID:           viper.GetString("addon_id"),
		AddonVersion:      viper.GetString("addon_version"),
		DiscordWebhookURL: viper.GetString("discord_webhook_url"),
		LogLevel:          viper.GetString("log_level"),
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *domain.Config) error {
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("invalid port: %d", cfg.Port)
	}
	if cfg.CSVPath == "" {
		return fmt.Errorf("csv_path is required (set via config.yaml, --csv or TOPLISTS_CSV_PATH)")
	}
	if cfg.PageSize <= 0 {
		return fmt.Errorf("page_size must be positive, got %d", cfg.PageSize)
	}
	if cfg.LiveLimit <= 0 {
		return fmt.Errorf("live_limit must be positive, got %d", cfg.LiveLimit)
	}
	if cfg.LiveTTL < 0 {
		return fmt.Errorf("live_ttl must not be negative, got %s", cfg.LiveTTL)
	}
	if cfg.LiveTimeout <= 0 {
		return fmt.Errorf("live_timeout must be positive, got %s", cfg.LiveTimeout)
	}
	if cfg.LiveIDPrefix == "" {
		return fmt.Errorf("live_id_prefix is required")
	}
	u, err := url.Parse(cfg.LiveURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid live_url: %q", cfg.LiveURL)
	}
	return nil
}
