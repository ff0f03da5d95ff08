package provider

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds configuration for creating a gateway client.
// Common fields apply to all gateways; use Options for gateway-specific
// settings.
type Config struct {
	// Provider is the name of the gateway to use. Required for the registry.
	Provider string `json:"provider" yaml:"provider"`

	// BaseURL is the address of the local model server.
	// Default depends on the gateway (http://localhost:11434 for ollama).
	BaseURL string `json:"base_url" yaml:"base_url"`

	// Model is the default model used when a request leaves Model empty.
	Model string `json:"model" yaml:"model"`

	// Temperature is the request-level sampling default, in [0, 2].
	// Per-model configuration still wins over this value.
	Temperature float64 `json:"temperature" yaml:"temperature"`

	// MaxTokens is the default response length limit. 0 means server default.
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`

	// Timeout is the maximum duration for a completion request.
	// 0 uses the gateway default.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// Options holds gateway-specific configuration.
	Options map[string]any `json:"options" yaml:"options"`
}

// DefaultConfig returns a Config with sensible defaults.
// Provider must still be set before use.
func DefaultConfig() Config {
	return Config{
		Timeout: 2 * time.Minute,
	}
}

// LoadFromEnv populates config fields from environment variables.
// Environment variables use the BRAINKIT_ prefix and take precedence over
// existing values.
//
// Supported variables:
//   - BRAINKIT_PROVIDER: Gateway name
//   - BRAINKIT_BASE_URL: Model server address
//   - BRAINKIT_MODEL: Default model name
//   - BRAINKIT_TEMPERATURE: Sampling temperature
//   - BRAINKIT_MAX_TOKENS: Response length limit
//   - BRAINKIT_TIMEOUT: Request timeout duration (e.g. "2m")
func (c *Config) LoadFromEnv() {
	if v := os.Getenv("BRAINKIT_PROVIDER"); v != "" {
		c.Provider = v
	}
	if v := os.Getenv("BRAINKIT_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("BRAINKIT_MODEL"); v != "" {
		c.Model = v
	}
	if v := os.Getenv("BRAINKIT_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Temperature = f
		}
	}
	if v := os.Getenv("BRAINKIT_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxTokens = n
		}
	}
	if v := os.Getenv("BRAINKIT_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Timeout = d
		}
	}
}

// FromEnv creates a Config from environment variables with defaults.
func FromEnv() Config {
	cfg := DefaultConfig()
	cfg.LoadFromEnv()
	return cfg
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Provider == "" {
		return fmt.Errorf("provider is required")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be in [0, 2], got %g", c.Temperature)
	}
	if c.MaxTokens < 0 {
		return fmt.Errorf("max_tokens must be >= 0, got %d", c.MaxTokens)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be >= 0, got %v", c.Timeout)
	}
	return nil
}

// WithModel returns a copy of the config with the specified default model.
func (c Config) WithModel(model string) Config {
	c.Model = model
	return c
}

// WithBaseURL returns a copy of the config with the specified server address.
func (c Config) WithBaseURL(url string) Config {
	c.BaseURL = url
	return c
}

// WithOption returns a copy of the config with the specified option set.
func (c Config) WithOption(key string, value any) Config {
	newOpts := make(map[string]any, len(c.Options)+1)
	for k, v := range c.Options {
		newOpts[k] = v
	}
	newOpts[key] = value
	c.Options = newOpts
	return c
}

// GetStringOption retrieves a string option, returning defaultVal if not set.
func (c Config) GetStringOption(key, defaultVal string) string {
	if v, ok := c.Options[key].(string); ok {
		return v
	}
	return defaultVal
}

// GetBoolOption retrieves a bool option, returning defaultVal if not set.
func (c Config) GetBoolOption(key string, defaultVal bool) bool {
	if v, ok := c.Options[key].(bool); ok {
		return v
	}
	return defaultVal
}
