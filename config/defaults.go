package config

import (
	"time"

	"github.com/sanjibani/cardiology-ai-agent/internal/server"
	"github.com/sanjibani/cardiology-ai-agent/llm"
)

// DefaultConfig returns a configuration suitable for local development.
func DefaultConfig() *Config {
	return &Config{
		Server: server.DefaultConfig(),
		LLM: llm.OpenAIConfig{
			BaseURL:     "https://api.openai.com",
			Model:       "gpt-4o-mini",
			Temperature: 0.2,
			MaxTokens:   1024,
			Timeout:     60 * time.Second,
		},
		Log: LogConfig{
			Level:        "info",
			Format:       "json",
			OutputPaths:  []string{"stdout"},
			EnableCaller: true,
		},
		Database: DatabaseConfig{
			Driver: "memory",
			Path:   "cardiology.db",
		},
		Redis: RedisConfig{
			Enabled:    false,
			Addr:       "localhost:6379",
			SessionTTL: 24 * time.Hour,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Addr:      ":9090",
			Namespace: "cardiology",
		},
		API: APIConfig{
			RequestsPerSecond: 10,
			Burst:             20,
			CORSOrigins:       []string{"*"},
		},
	}
}
