package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

// Config holds all operator-controlled settings. It is loaded once at startup
// and never mutated afterwards; no request parameter can override any field.
type Config struct {
	AppEnv      string `env:"APP_ENV" default:"development"`
	Port        string `env:"PORT" default:"8080"`
	DatabaseURL string `env:"DATABASE_URL"`
	RedisURL    string `env:"REDIS_URL"`

	// OpenAI settings are server-side only. An empty API key disables the
	// model engine entirely and every classification uses the keyword engine.
	OpenAIAPIKey      string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL     string        `env:"OPENAI_BASE_URL" default:"https://api.openai.com/v1"`
	OpenAIModel       string        `env:"OPENAI_MODEL" default:"gpt-4o-mini"`
	OpenAIMaxTokens   int           `env:"OPENAI_MAX_TOKENS" default:"200"`
	OpenAITemperature float64       `env:"OPENAI_TEMPERATURE" default:"0.3"`
	OpenAITimeout     time.Duration `env:"OPENAI_TIMEOUT" default:"5s"`
	OpenAIRetryOnce   bool          `env:"OPENAI_RETRY_ONCE" default:"true"`

	MaxTextLength int           `env:"SENTIMENT_MAX_TEXT_LENGTH" default:"10000"`
	CacheTTL      time.Duration `env:"SENTIMENT_CACHE_TTL" default:"15m"`

	RateLimitPerSecond float64 `env:"RATE_LIMIT_PER_SECOND" default:"5"`
	RateLimitBurst     int     `env:"RATE_LIMIT_BURST" default:"10"`

	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.OpenAIModel == "" {
		return fmt.Errorf("OPENAI_MODEL must not be empty")
	}
	if cfg.OpenAIMaxTokens <= 0 {
		return fmt.Errorf("OPENAI_MAX_TOKENS must be positive, got %d", cfg.OpenAIMaxTokens)
	}
	if cfg.OpenAITemperature < 0 || cfg.OpenAITemperature > 2 {
		return fmt.Errorf("OPENAI_TEMPERATURE must be between 0.0 and 2.0, got %g", cfg.OpenAITemperature)
	}
	if cfg.OpenAITimeout <= 0 {
		return fmt.Errorf("OPENAI_TIMEOUT must be positive")
	}
	if cfg.MaxTextLength <= 0 {
		return fmt.Errorf("SENTIMENT_MAX_TEXT_LENGTH must be positive, got %d", cfg.MaxTextLength)
	}
	if cfg.RateLimitPerSecond <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_SECOND must be positive")
	}
	if cfg.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be positive")
	}
	return nil
}
