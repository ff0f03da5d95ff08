package ollama

import (
	"github.com/synaptic-labs/brainkit/provider"
)

func init() {
	provider.Register(providerName, func(cfg provider.Config) (provider.Client, error) {
		if err := cfg.Validate(); err != nil {
			return nil, provider.NewError(providerName, "configure", err, false)
		}

		opts := []Option{}
		if cfg.BaseURL != "" {
			opts = append(opts, WithBaseURL(cfg.BaseURL))
		}
		if cfg.Model != "" {
			opts = append(opts, WithModel(cfg.Model))
		}
		if cfg.Temperature != 0 {
			opts = append(opts, WithTemperature(cfg.Temperature))
		}
		if cfg.MaxTokens != 0 {
			opts = append(opts, WithMaxTokens(cfg.MaxTokens))
		}
		if cfg.Timeout != 0 {
			opts = append(opts, WithRequestTimeout(cfg.Timeout))
		}
		return NewClient(opts...), nil
	})
}
