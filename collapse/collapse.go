// Package collapse decides how a cognitive pipeline should resolve a set
// of activated cores: deterministically at low sampling temperature, or
// stochastically at high temperature.
//
// The decision is model-assisted when the language model cooperates and
// falls back to a closed-form heuristic over the aggregate signal metrics
// when it does not. A caller always gets a usable Decision.
package collapse

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/synaptic-labs/brainkit/parser"
	"github.com/synaptic-labs/brainkit/prompt"
	"github.com/synaptic-labs/brainkit/provider"
	"github.com/synaptic-labs/brainkit/schema"
)

// Sampling temperatures and thresholds for the heuristic path.
const (
	deterministicTemperature = 0.3
	stochasticTemperature    = 1.2
	heuristicThreshold       = 0.5

	// Temperature used when asking the model to decide, and the default
	// assumed when a recovered decision omits one.
	decisionTemperature = 0.1
	decisionMaxTokens   = 512
)

// Metrics aggregates the signal state a decision is based on.
type Metrics struct {
	ActivatedCores        []string
	AvgEmotionalWeight    float64
	AvgContradictionScore float64
	OriginalText          string
}

// Decision is the resolved collapse strategy.
type Decision struct {
	Deterministic bool
	Temperature   float64
	Justification string
	UserIntent    string
}

// Decider asks a language model for a collapse strategy and falls back to
// the heuristic when the model's answer cannot be salvaged.
type Decider struct {
	client   provider.Client
	schemas  *schema.Registry
	recovery *parser.Recovery
	logger   *slog.Logger
}

// DeciderOption customizes a Decider.
type DeciderOption func(*Decider)

// WithSchemas overrides the tool schema registry.
func WithSchemas(r *schema.Registry) DeciderOption {
	return func(d *Decider) { d.schemas = r }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) DeciderOption {
	return func(d *Decider) { d.logger = l }
}

// NewDecider creates a Decider backed by the given client.
func NewDecider(client provider.Client, opts ...DeciderOption) *Decider {
	d := &Decider{
		client:  client,
		schemas: schema.Builtin(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	d.recovery = parser.NewRecovery(parser.CollapseFieldSets, parser.WithLogger(d.logger))
	return d
}

// Decide resolves a collapse strategy for the given metrics.
//
// The returned Decision is always usable. A non-nil error means the decider
// itself is misconfigured (missing tool schema); model and transport
// failures are absorbed into the heuristic fallback and logged, never
// surfaced, so a flaky local server cannot stall the pipeline.
func (d *Decider) Decide(ctx context.Context, m Metrics) (Decision, error) {
	toolSchema, err := d.schemas.Get(schema.ToolDecideCollapseStrategy)
	if err != nil {
		return d.Heuristic(m, "missing tool schema"), err
	}

	system, user, err := prompt.CollapseDecision(m.ActivatedCores, m.AvgEmotionalWeight, m.AvgContradictionScore, m.OriginalText)
	if err != nil {
		d.logger.Warn("collapse prompt render failed, using heuristic", slog.Any("error", err))
		return d.Heuristic(m, "prompt render failure"), nil
	}

	env, err := d.client.Complete(ctx, provider.Request{
		Messages: []provider.Message{
			{Role: provider.RoleSystem, Content: system},
			{Role: provider.RoleUser, Content: user},
		},
		Tools:       []provider.ToolSchema{toolSchema},
		Temperature: decisionTemperature,
		MaxTokens:   decisionMaxTokens,
	})
	if err != nil {
		d.logger.Warn("collapse decision request failed, using heuristic", slog.Any("error", err))
		return d.Heuristic(m, "model unavailable"), nil
	}

	args, ok := d.recovery.Recover(env, []string{schema.ToolDecideCollapseStrategy})
	if !ok {
		d.logger.Warn("collapse decision unrecoverable, using heuristic",
			slog.String("content", env.Content))
		return d.Heuristic(m, "unparseable model response"), nil
	}

	return decisionFromArgs(args), nil
}

// Heuristic computes the closed-form fallback decision. Low aggregate
// emotion and low contradiction mean the pipeline can resolve
// deterministically; anything hotter gets the stochastic treatment.
func (d *Decider) Heuristic(m Metrics, reason string) Decision {
	deterministic := m.AvgEmotionalWeight < heuristicThreshold &&
		m.AvgContradictionScore < heuristicThreshold

	temperature := stochasticTemperature
	if deterministic {
		temperature = deterministicTemperature
	}

	return Decision{
		Deterministic: deterministic,
		Temperature:   temperature,
		Justification: fmt.Sprintf(
			"heuristic fallback (%s): emotional weight %.3f, contradiction %.3f",
			reason, m.AvgEmotionalWeight, m.AvgContradictionScore),
	}
}

// decisionFromArgs converts a recovered argument map into a Decision.
// Missing or malformed optional fields take conservative defaults.
func decisionFromArgs(args map[string]any) Decision {
	dec := Decision{Temperature: decisionTemperature}

	if v, ok := args["deterministic"].(bool); ok {
		dec.Deterministic = v
	}
	if v, ok := asFloat(args["temperature"]); ok {
		dec.Temperature = clampTemperature(v)
	}
	if v, ok := args["justification"].(string); ok {
		dec.Justification = v
	}
	if v, ok := args["userIntent"].(string); ok {
		dec.UserIntent = v
	}
	return dec
}

func clampTemperature(t float64) float64 {
	switch {
	case t < 0:
		return 0
	case t > 2:
		return 2
	}
	return t
}

// asFloat accepts the numeric shapes JSON and YAML decoding produce.
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
