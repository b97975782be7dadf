package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"sentinel/pkg/errors"
)

type Config struct {
	App           AppConfig
	AI            AIConfig
	ErrorTracking ErrorTrackingConfig
}

type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"sentinel"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Debug    bool   `envconfig:"DEBUG" default:"false"`
}

type AIConfig struct {
	GeminiKey string `envconfig:"GEMINI_API_KEY"`
	OpenAIKey string `envconfig:"OPENAI_API_KEY"`

	// Model is the default Gemini model for all pipelines.
	Model string `envconfig:"GEMINI_MODEL" default:"gemini-3-flash-preview"`

	// ThinkingLevel controls reasoning depth: minimal, low, high.
	ThinkingLevel string `envconfig:"GEMINI_THINKING_LEVEL" default:"low"`
}

type ErrorTrackingConfig struct {
	Enabled     bool   `envconfig:"ERROR_TRACKING_ENABLED" default:"false"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"SENTRY_ENVIRONMENT" default:"production"`
}

// Load reads configuration from environment variables
// It first tries to load .env file (useful for local development)
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not exists)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process env config")
	}

	return &cfg, nil
}
