// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strings"
)

// Config holds all application configuration.
type Config struct {
	Port        string
	FrontendURL string
	// DBPath points at the SQLite database file. Empty means sessions
	// live in memory and are lost on restart.
	DBPath string
	Chat   ChatConfig
}

// ChatConfig controls the assistant provider. The assistant is
// disabled when APIKey is empty.
type ChatConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Enabled reports whether a provider is configured.
func (c ChatConfig) Enabled() bool {
	return c.APIKey != ""
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", ""),
		DBPath:      getEnv("DB_PATH", "./data/onboard.db"),
		Chat: ChatConfig{
			APIKey:  getEnv("OPENAI_API_KEY", ""),
			BaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:   getEnv("CHAT_MODEL", "gpt-5"),
		},
	}

	if getEnvBool("IN_MEMORY_STORE", false) {
		cfg.DBPath = ""
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.Chat.Enabled() {
		if c.Chat.BaseURL == "" {
			return fmt.Errorf("OPENAI_BASE_URL cannot be empty")
		}
		if c.Chat.Model == "" {
			return fmt.Errorf("CHAT_MODEL cannot be empty")
		}
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}
