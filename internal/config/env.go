package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvConfig holds settings read from the environment.
type EnvConfig struct {
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	APIKey       string `env:"API_KEY"`
	Model        string `env:"LOPHOC_MODEL"`
	DBPath       string `env:"LOPHOC_DB_PATH"`
	LogPath      string `env:"LOPHOC_LOG_PATH"`
}

// Credential returns the configured provider key, preferring GEMINI_API_KEY.
func (c EnvConfig) Credential() string {
	if c.GeminiAPIKey != "" {
		return c.GeminiAPIKey
	}
	return c.APIKey
}

// LoadEnv loads configuration from environment variables.
func LoadEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := env.Parse(&cfg); err != nil {
		return EnvConfig{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
