// Package ollama implements the completion gateway for a local
// Ollama-compatible model server.
//
// The gateway owns the request/response lifecycle: it resolves the target
// model, applies per-model tuning from an external configuration table,
// rewrites requests for models without native tool support (instruction
// emulation), retries transient accelerator faults with GPU offload
// disabled, and returns a normalized provider.Envelope regardless of which
// path served the call.
//
// # Usage
//
//	client := ollama.NewClient(
//	    ollama.WithModel("llama3.2"),
//	    ollama.WithModels(table),
//	)
//	env, err := client.Complete(ctx, provider.Request{...})
package ollama

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/synaptic-labs/brainkit/modelcfg"
)

// DefaultBaseURL is the conventional local Ollama address.
const DefaultBaseURL = "http://localhost:11434"

// fallbackModel serves requests when neither the request nor the gateway
// configuration names a model.
const fallbackModel = "llama3.2"

// ModelConfig is the read-only per-model tuning lookup the gateway consults.
// *modelcfg.Table satisfies it.
type ModelConfig interface {
	Lookup(model string) (modelcfg.Overrides, bool)
}

// Config holds gateway configuration.
type Config struct {
	// BaseURL is the server address. Default: DefaultBaseURL.
	BaseURL string `json:"base_url" yaml:"base_url"`

	// Model is the default model used when a request leaves Model empty.
	Model string `json:"model" yaml:"model"`

	// Temperature is the request-level sampling default, in [0, 2].
	// Per-model overrides still win.
	Temperature float64 `json:"temperature" yaml:"temperature"`

	// MaxTokens is the default response length limit. 0 means server default.
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`

	// RequestTimeout bounds a single completion attempt.
	// Default: 2 minutes.
	RequestTimeout time.Duration `json:"request_timeout" yaml:"request_timeout"`

	// Models is the optional per-model override table.
	Models ModelConfig `json:"-" yaml:"-"`

	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client `json:"-" yaml:"-"`

	// Logger receives retry and stream diagnostics. Default: slog.Default().
	Logger *slog.Logger `json:"-" yaml:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL:        DefaultBaseURL,
		RequestTimeout: 2 * time.Minute,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be in [0, 2], got %g", c.Temperature)
	}
	if c.MaxTokens < 0 {
		return fmt.Errorf("max_tokens must be >= 0, got %d", c.MaxTokens)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout must be >= 0, got %v", c.RequestTimeout)
	}
	return nil
}

// WithDefaults returns a copy of the config with defaults applied for unset
// fields.
func (c Config) WithDefaults() Config {
	defaults := DefaultConfig()

	if c.BaseURL == "" {
		c.BaseURL = defaults.BaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.RequestTimeout == 0 {
		c.RequestTimeout = defaults.RequestTimeout
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{}
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets the server address.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.cfg.BaseURL = url }
}

// WithModel sets the default model name.
func WithModel(model string) Option {
	return func(c *Client) { c.cfg.Model = model }
}

// WithTemperature sets the request-level sampling default.
func WithTemperature(t float64) Option {
	return func(c *Client) { c.cfg.Temperature = t }
}

// WithMaxTokens sets the default response length limit.
func WithMaxTokens(n int) Option {
	return func(c *Client) { c.cfg.MaxTokens = n }
}

// WithRequestTimeout sets the per-attempt timeout.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *Client) { c.cfg.RequestTimeout = d }
}

// WithModels sets the per-model override table.
func WithModels(m ModelConfig) Option {
	return func(c *Client) { c.cfg.Models = m }
}

// WithHTTPClient sets the HTTP transport.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.cfg.HTTPClient = h }
}

// WithLogger sets the diagnostics logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.cfg.Logger = l }
}
