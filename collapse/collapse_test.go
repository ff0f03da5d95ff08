package collapse_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synaptic-labs/brainkit/collapse"
	"github.com/synaptic-labs/brainkit/provider"
	"github.com/synaptic-labs/brainkit/schema"
)

// fakeClient returns canned envelopes and records the requests it saw.
type fakeClient struct {
	envelope *provider.Envelope
	err      error
	requests []provider.Request
}

func (f *fakeClient) Complete(_ context.Context, req provider.Request) (*provider.Envelope, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return f.envelope, nil
}

func (f *fakeClient) Stream(context.Context, provider.Request) (<-chan provider.StreamChunk, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeClient) Provider() string { return "fake" }

func (f *fakeClient) Capabilities() provider.Capabilities {
	return provider.Capabilities{Tools: true}
}

func (f *fakeClient) Close() error { return nil }

func calmMetrics() collapse.Metrics {
	return collapse.Metrics{
		ActivatedCores:        []string{"memory"},
		AvgEmotionalWeight:    0.2,
		AvgContradictionScore: 0.1,
		OriginalText:          "what time is the meeting",
	}
}

// =============================================================================
// Model-Assisted Decisions
// =============================================================================

func TestDecide_FromToolCall(t *testing.T) {
	client := &fakeClient{envelope: &provider.Envelope{
		ToolCalls: []provider.ToolCall{{
			Name: schema.ToolDecideCollapseStrategy,
			Arguments: provider.ObjectArguments(map[string]any{
				"deterministic": true,
				"temperature":   0.25,
				"justification": "factual scheduling question",
				"userIntent":    "find out the meeting time",
			}),
		}},
	}}
	d := collapse.NewDecider(client)

	dec, err := d.Decide(context.Background(), calmMetrics())
	require.NoError(t, err)

	assert.True(t, dec.Deterministic)
	assert.Equal(t, 0.25, dec.Temperature)
	assert.Equal(t, "factual scheduling question", dec.Justification)
	assert.Equal(t, "find out the meeting time", dec.UserIntent)

	// The request binds the decision tool and asks at low temperature.
	require.Len(t, client.requests, 1)
	req := client.requests[0]
	require.Len(t, req.Tools, 1)
	assert.Equal(t, schema.ToolDecideCollapseStrategy, req.Tools[0].Name)
	assert.Equal(t, 0.1, req.Temperature)
}

func TestDecide_RecoversFromProse(t *testing.T) {
	client := &fakeClient{envelope: &provider.Envelope{
		Content: `<think>low tension</think>{"shouldCollapse": true, "reason": "calm factual query"}`,
	}}
	d := collapse.NewDecider(client)

	dec, err := d.Decide(context.Background(), calmMetrics())
	require.NoError(t, err)

	assert.True(t, dec.Deterministic)
	assert.Equal(t, "calm factual query", dec.Justification)
	// No temperature in the recovered object: conservative default applies.
	assert.Equal(t, 0.1, dec.Temperature)
}

func TestDecide_ClampsTemperature(t *testing.T) {
	client := &fakeClient{envelope: &provider.Envelope{
		ToolCalls: []provider.ToolCall{{
			Name: schema.ToolDecideCollapseStrategy,
			Arguments: provider.ObjectArguments(map[string]any{
				"deterministic": false,
				"temperature":   7.5,
				"justification": "chaos",
			}),
		}},
	}}
	d := collapse.NewDecider(client)

	dec, err := d.Decide(context.Background(), calmMetrics())
	require.NoError(t, err)
	assert.Equal(t, 2.0, dec.Temperature)
}

// =============================================================================
// Heuristic Fallback
// =============================================================================

func TestDecide_HeuristicOnTransportFailure(t *testing.T) {
	client := &fakeClient{err: errors.New("connection refused")}
	d := collapse.NewDecider(client)

	dec, err := d.Decide(context.Background(), calmMetrics())
	require.NoError(t, err)

	assert.True(t, dec.Deterministic)
	assert.Equal(t, 0.3, dec.Temperature)
	assert.Contains(t, dec.Justification, "0.200")
	assert.Contains(t, dec.Justification, "0.100")
}

func TestDecide_HeuristicOnUnparseableResponse(t *testing.T) {
	client := &fakeClient{envelope: &provider.Envelope{
		Content: "I would rather chat about this than call a function.",
	}}
	d := collapse.NewDecider(client)

	dec, err := d.Decide(context.Background(), collapse.Metrics{
		AvgEmotionalWeight:    0.8,
		AvgContradictionScore: 0.9,
	})
	require.NoError(t, err)

	assert.False(t, dec.Deterministic)
	assert.Equal(t, 1.2, dec.Temperature)
}

func TestDecide_MissingSchemaStillDecides(t *testing.T) {
	client := &fakeClient{}
	d := collapse.NewDecider(client, collapse.WithSchemas(schema.NewRegistry()))

	dec, err := d.Decide(context.Background(), calmMetrics())
	require.ErrorIs(t, err, schema.ErrNotFound)

	// Even a misconfigured decider hands back a usable decision.
	assert.True(t, dec.Deterministic)
	assert.Equal(t, 0.3, dec.Temperature)
	assert.Empty(t, client.requests)
}

func TestHeuristic_Thresholds(t *testing.T) {
	d := collapse.NewDecider(&fakeClient{})

	tests := []struct {
		name              string
		weight            float64
		contradiction     float64
		wantDeterministic bool
		wantTemperature   float64
	}{
		{"calm and consistent", 0.2, 0.1, true, 0.3},
		{"emotionally hot", 0.8, 0.1, false, 1.2},
		{"contradictory", 0.2, 0.9, false, 1.2},
		{"both hot", 0.8, 0.9, false, 1.2},
		{"at the boundary", 0.5, 0.5, false, 1.2},
		{"just under", 0.499, 0.499, true, 0.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec := d.Heuristic(collapse.Metrics{
				AvgEmotionalWeight:    tt.weight,
				AvgContradictionScore: tt.contradiction,
			}, "test")

			assert.Equal(t, tt.wantDeterministic, dec.Deterministic)
			assert.Equal(t, tt.wantTemperature, dec.Temperature)
			assert.NotEmpty(t, dec.Justification)
		})
	}
}
