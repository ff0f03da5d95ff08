// Package signal extracts activation signals from user queries by asking
// a language model which cores a query touches and how strongly.
package signal

import (
	"context"
	"log/slog"

	"github.com/synaptic-labs/brainkit/parser"
	"github.com/synaptic-labs/brainkit/prompt"
	"github.com/synaptic-labs/brainkit/provider"
	"github.com/synaptic-labs/brainkit/schema"
)

const (
	extractTemperature = 0.1
	extractMaxTokens   = 1024
)

// Activation names a core hit by a query and how strongly it fired.
type Activation struct {
	Core      string
	Intensity float64
	Keywords  []string
}

// Options carries optional extraction context.
type Options struct {
	// Context is recent conversational context, included in the prompt
	// when non-empty.
	Context string
	// Language hints the query language, included in the prompt when
	// non-empty.
	Language string
}

// Extractor drives activation extraction against a model client.
type Extractor struct {
	client   provider.Client
	schemas  *schema.Registry
	recovery *parser.Recovery
	logger   *slog.Logger
}

// ExtractorOption customizes an Extractor.
type ExtractorOption func(*Extractor)

// WithSchemas overrides the tool schema registry.
func WithSchemas(r *schema.Registry) ExtractorOption {
	return func(e *Extractor) { e.schemas = r }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) ExtractorOption {
	return func(e *Extractor) { e.logger = l }
}

// NewExtractor creates an Extractor backed by the given client.
func NewExtractor(client provider.Client, opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		client:  client,
		schemas: schema.Builtin(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	e.recovery = parser.NewRecovery(parser.ActivationFieldSets, parser.WithLogger(e.logger))
	return e
}

// Extract asks the model which cores the query activates.
//
// Transport and configuration failures propagate as errors. A response
// that cannot be salvaged into any activation does not: the query itself
// becomes a single full-strength activation, so downstream stages always
// have a signal to work with.
func (e *Extractor) Extract(ctx context.Context, query string, opts Options) ([]Activation, error) {
	toolSchema, err := e.schemas.Get(schema.ToolExtractActivation)
	if err != nil {
		return nil, err
	}

	system, user, err := prompt.ActivationExtraction(query, opts.Context, opts.Language)
	if err != nil {
		return nil, err
	}

	env, err := e.client.Complete(ctx, provider.Request{
		Messages: []provider.Message{
			{Role: provider.RoleSystem, Content: system},
			{Role: provider.RoleUser, Content: user},
		},
		Tools:       []provider.ToolSchema{toolSchema},
		Temperature: extractTemperature,
		MaxTokens:   extractMaxTokens,
	})
	if err != nil {
		return nil, err
	}

	recovered := e.recovery.RecoverAll(env, []string{schema.ToolExtractActivation})

	activations := make([]Activation, 0, len(recovered))
	for _, args := range recovered {
		a, ok := activationFromArgs(args)
		if !ok {
			e.logger.Warn("dropping malformed activation", slog.Any("args", args))
			continue
		}
		activations = append(activations, a)
	}

	if len(activations) == 0 {
		// Echo fallback: treat the query itself as the activated core.
		e.logger.Warn("no activations recovered, echoing query",
			slog.String("query", query))
		return []Activation{{Core: query, Intensity: 1.0}}, nil
	}
	return activations, nil
}

// activationFromArgs converts a recovered argument map. A missing or
// non-string core invalidates the entry; intensity is clamped to [0, 1].
func activationFromArgs(args map[string]any) (Activation, bool) {
	core, ok := args["core"].(string)
	if !ok || core == "" {
		return Activation{}, false
	}

	intensity, ok := asFloat(args["intensity"])
	if !ok {
		return Activation{}, false
	}
	switch {
	case intensity < 0:
		intensity = 0
	case intensity > 1:
		intensity = 1
	}

	a := Activation{Core: core, Intensity: intensity}
	if raw, ok := args["keywords"].([]any); ok {
		for _, k := range raw {
			if s, ok := k.(string); ok {
				a.Keywords = append(a.Keywords, s)
			}
		}
	}
	return a, true
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
