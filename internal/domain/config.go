package domain

import "time"

type Config struct {
	Host              string        `yaml:"host" mapstructure:"host"`
	Port              int           `yaml:"port" mapstructure:"port"`
	CSVPath           string        `yaml:"csv_path" mapstructure:"csv_path"`
	PageSize          int           `yaml:"page_size" mapstructure:"page_size"`
	LiveURL           string        `yaml:"live_url" mapstructure:"live_url"`
	LiveIDPrefix      string        `yaml:"live_id_prefix" mapstructure:"live_id_prefix"`
	LiveTTL           time.Duration `yaml:"live_ttl" mapstructure:"live_ttl"`
	LiveTimeout       time.Duration `yaml:"live_timeout" mapstructure:"live_timeout"`
	LiveLimit         int           `yaml:"live_limit" mapstructure:"live_limit"`
	AddonID           string        `yaml:"addon_id" mapstructure:"addon_id"`
	AddonVersion      string        `yaml:"addon_version" mapstructure:"addon_version"`
	DiscordWebhookURL string        `yaml:"discord_webhook_url" mapstructure:"discord_webhook_url"`
	LogLevel          string        `yaml:"log_level" mapstructure:"log_level"`
}

// Catalog identities served by this addon.
const (
	FilmCatalogID     = "top250films"
	FilmCatalogName   = "TOP 250 FILMS (IMDB)"
	SeriesCatalogID   = "netflix-nl-top10"
	SeriesCatalogName = "NETFLIX NL TOP 10 SERIES"
	AddonName         = "Top Lists"
	AddonDescription  = "IMDb Top 250 films straight from CSV, plus the current Netflix NL top 10 series."
)

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() *Config {
	return &Config{
		Host:         "0.0.0.0",
		Port:         8000,
		CSVPath:      "imdb_top250.csv",
		PageSize:     50,
		LiveURL:      "https://www.netflix.com/tudum/top10/netherlands/tv",
		LiveIDPrefix: "netflix-nl",
		LiveTTL:      0,
		LiveTimeout:  15 * time.Second,
		LiveLimit:    10,
		AddonID:      "community.toplists",
		AddonVersion: "1.0.0",
		LogLevel:     "info",
	}
}
