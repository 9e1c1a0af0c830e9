package github

import (
	"strings"
	"time"

	"go-candidate-scout/pkg/logger"

	"github.com/caarlos0/env/v11"
)

// Config holds the directory API settings.
//
// The token is not required at startup: a missing token surfaces as a
// ConfigurationError on the first request instead.
type Config struct {
	Token       string        `env:"GITHUB_TOKEN"`
	BaseURL     string        `env:"GITHUB_API_BASE_URL" envDefault:"https://api.github.com"`
	HTTPTimeout time.Duration `env:"GITHUB_HTTP_TIMEOUT" envDefault:"15s"`
}

// LoadConfigFromEnv reads the directory settings from the environment.
func LoadConfigFromEnv() Config {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		logger.Log.Warn("Invalid GitHub directory settings, using defaults for the affected values", "error", err)
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.github.com"
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 15 * time.Second
	}
	return cfg
}
