package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/synaptic-labs/brainkit/parser"
	"github.com/synaptic-labs/brainkit/provider"
)

// providerName is the registry name of this gateway.
const providerName = "ollama"

// Client is the completion gateway for an Ollama-compatible server.
// Safe for concurrent use; each call is independent and stateless.
type Client struct {
	cfg Config
}

// NewClient creates a gateway client with functional options.
func NewClient(opts ...Option) *Client {
	c := &Client{cfg: DefaultConfig()}
	for _, opt := range opts {
		opt(c)
	}
	c.cfg = c.cfg.WithDefaults()
	return c
}

// NewClientWithConfig creates a gateway client from a Config.
func NewClientWithConfig(cfg Config) *Client {
	return &Client{cfg: cfg.WithDefaults()}
}

// Provider implements provider.Client.
func (c *Client) Provider() string { return providerName }

// Capabilities implements provider.Client.
func (c *Client) Capabilities() provider.Capabilities {
	return provider.Capabilities{
		Streaming:  true,
		Tools:      true,
		Embeddings: true,
	}
}

// Close implements provider.Client.
func (c *Client) Close() error {
	c.cfg.HTTPClient.CloseIdleConnections()
	return nil
}

// StatusError carries a non-2xx HTTP response.
type StatusError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Body)
}

// Complete implements provider.Client.
//
// The whole request is retried, with GPU offload disabled, when the failure
// matches a known transient accelerator-fault signature and the retry
// ceiling (2 retries, 3 attempts) has not been reached. Any other failure
// propagates immediately: a broken transport is the one condition the core
// does not absorb.
func (c *Client) Complete(ctx context.Context, req provider.Request) (*provider.Envelope, error) {
	state := retryState{}
	for {
		env, err := c.completeOnce(ctx, req, state)
		if err == nil {
			return env, nil
		}
		if !isAcceleratorFault(err) || state.exhausted() {
			return nil, err
		}

		c.cfg.Logger.Warn("accelerator fault, retrying without GPU offload",
			slog.Int("attempt", state.attempt+1),
			slog.Any("error", err))
		state = state.next()
	}
}

// completeOnce performs a single attempt.
func (c *Client) completeOnce(ctx context.Context, req provider.Request, state retryState) (*provider.Envelope, error) {
	wireReq, emulatedTools := c.buildChatRequest(req, state, false)

	var resp chatResponse
	if err := c.post(ctx, "/api/chat", wireReq, &resp); err != nil {
		return nil, provider.NewError(providerName, "complete", err, isAcceleratorFault(err))
	}
	if resp.Error != "" {
		err := fmt.Errorf("server error: %s", resp.Error)
		return nil, provider.NewError(providerName, "complete", err, isAcceleratorFault(err))
	}

	return c.buildEnvelope(&resp, emulatedTools), nil
}

// buildChatRequest constructs the wire payload for one attempt. The second
// return value lists the tool names being instruction-emulated; empty means
// the native path (or no tools at all).
func (c *Client) buildChatRequest(req provider.Request, state retryState, stream bool) (chatRequest, []string) {
	model := c.resolveModel(req.Model)
	options := c.buildOptions(model, req, state)
	messages := req.Messages
	var wireTools []wireTool
	var emulated []string

	switch {
	case len(req.Tools) == 0:
		// Plain completion.

	case c.supportsNativeTools(model):
		wireTools = toWireTools(req.Tools)
		// Second line of defense: some models ignore the attached schema and
		// answer in prose anyway.
		messages = appendSystemText(messages, toolUseReminder)

	default:
		// Instruction emulation handles a single function; extra tools are
		// dropped, matching the one-tool shape of both use cases.
		if len(req.Tools) > 1 {
			c.cfg.Logger.Warn("instruction emulation supports one tool; dropping extras",
				slog.String("model", model),
				slog.Int("tools", len(req.Tools)))
		}
		messages = injectSystemText(messages, buildToolInstruction(req.Tools[0]))
		emulated = []string{req.Tools[0].Name}
	}

	wireMessages := make([]chatMessage, len(messages))
	for i, m := range messages {
		wireMessages[i] = chatMessage{Role: string(m.Role), Content: m.Content}
	}

	return chatRequest{
		Model:    model,
		Messages: wireMessages,
		Stream:   stream,
		Tools:    wireTools,
		Options:  options,
	}, emulated
}

// resolveModel picks the target model: explicit request model, then the
// configured default, then the built-in fallback.
func (c *Client) resolveModel(requested string) string {
	if requested != "" {
		return requested
	}
	if c.cfg.Model != "" {
		return c.cfg.Model
	}
	return fallbackModel
}

// buildOptions merges request-level sampling defaults with per-model
// overrides (overrides win) and the retry state's GPU hint.
func (c *Client) buildOptions(model string, req provider.Request, state retryState) map[string]any {
	temperature := req.Temperature
	if temperature == 0 {
		temperature = c.cfg.Temperature
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.cfg.MaxTokens
	}

	var contextWindow int
	if c.cfg.Models != nil {
		if o, ok := c.cfg.Models.Lookup(model); ok {
			if o.Temperature != nil {
				temperature = *o.Temperature
			}
			if o.MaxTokens != nil {
				maxTokens = *o.MaxTokens
			}
			if o.ContextWindow != nil {
				contextWindow = *o.ContextWindow
			}
		}
	}

	options := map[string]any{
		"temperature": temperature,
	}
	if maxTokens > 0 {
		options["num_predict"] = maxTokens
	}
	if contextWindow > 0 {
		options["num_ctx"] = contextWindow
	}
	if state.forceCPU {
		// Hint understood by the server to disable GPU offload.
		options["num_gpu"] = 0
	}
	return options
}

// buildEnvelope normalizes a server response. Tool calls win over content:
// a tool-invoking turn carries no prose.
func (c *Client) buildEnvelope(resp *chatResponse, emulatedTools []string) *provider.Envelope {
	env := &provider.Envelope{
		Model: resp.Model,
		Usage: resp.usage(),
	}

	content := parser.StripThink(resp.Message.Content)

	if len(resp.Message.ToolCalls) > 0 {
		for _, w := range resp.Message.ToolCalls {
			env.ToolCalls = append(env.ToolCalls, toolCallFromWire(w))
		}
		return env
	}

	if len(emulatedTools) > 0 {
		for _, call := range parser.ExtractEmbeddedCalls(content, emulatedTools) {
			env.ToolCalls = append(env.ToolCalls, provider.ToolCall{
				Name:      call.Name,
				Arguments: provider.ObjectArguments(call.Arguments),
			})
		}
		if len(env.ToolCalls) > 0 {
			return env
		}
	}

	env.Content = content
	return env
}

// Embed implements provider.Embedder against the embeddings endpoint.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	model := c.resolveModel("")
	vectors := make([][]float64, 0, len(texts))

	for _, text := range texts {
		var resp embeddingsResponse
		err := c.post(ctx, "/api/embeddings", embeddingsRequest{Model: model, Prompt: text}, &resp)
		if err != nil {
			return nil, provider.NewError(providerName, "embed", err, false)
		}
		vectors = append(vectors, resp.Embedding)
	}
	return vectors, nil
}

// post sends a JSON request and decodes a JSON response. Non-2xx statuses
// become a StatusError carrying the body text.
func (c *Client) post(ctx context.Context, path string, body, result any) error {
	if c.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.RequestTimeout)
		defer cancel()
	}

	resp, err := c.send(ctx, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// send performs the HTTP POST and checks the status. The caller owns the
// returned body and the lifetime of ctx.
func (c *Client) send(ctx context.Context, path string, body any) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", provider.ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(raw))}
	}
	return resp, nil
}
