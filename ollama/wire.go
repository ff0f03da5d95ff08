package ollama

import (
	"encoding/json"

	"github.com/synaptic-labs/brainkit/provider"
)

// Wire types for the Ollama chat and embeddings endpoints.

// chatRequest is the /api/chat request body.
type chatRequest struct {
	Model    string         `json:"model"`
	Messages []chatMessage  `json:"messages"`
	Stream   bool           `json:"stream"`
	Tools    []wireTool     `json:"tools,omitempty"`
	Options  map[string]any `json:"options,omitempty"`
}

// chatMessage is a conversation turn on the wire.
type chatMessage struct {
	Role      string         `json:"role"`
	Content   string         `json:"content"`
	ToolCalls []wireToolCall `json:"tool_calls,omitempty"`
}

// wireTool wraps a function definition, OpenAI function-calling style.
type wireTool struct {
	Type     string       `json:"type"`
	Function wireFunction `json:"function"`
}

// wireFunction is the machine-readable function description.
type wireFunction struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  wireParameters `json:"parameters"`
}

// wireParameters is the JSON Schema of the function parameters.
type wireParameters struct {
	Type       string               `json:"type"`
	Properties map[string]wireParam `json:"properties,omitempty"`
	Required   []string             `json:"required,omitempty"`
}

// wireParam describes a single parameter.
type wireParam struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// wireToolCall is a tool invocation as the server returns it. Arguments is
// kept raw: runtimes differ on whether they deliver a decoded object or a
// string, and the parser normalizes both.
type wireToolCall struct {
	Function struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	} `json:"function"`
}

// chatResponse is one /api/chat response object. In streaming mode the
// server emits one of these per line, with done=true on the terminal one.
type chatResponse struct {
	Model           string      `json:"model"`
	Message         chatMessage `json:"message"`
	Done            bool        `json:"done"`
	DoneReason      string      `json:"done_reason,omitempty"`
	PromptEvalCount int         `json:"prompt_eval_count,omitempty"`
	EvalCount       int         `json:"eval_count,omitempty"`
	Error           string      `json:"error,omitempty"`
}

// usage converts the server's eval counters into a TokenUsage.
func (r *chatResponse) usage() provider.TokenUsage {
	return provider.TokenUsage{
		InputTokens:  r.PromptEvalCount,
		OutputTokens: r.EvalCount,
		TotalTokens:  r.PromptEvalCount + r.EvalCount,
	}
}

// embeddingsRequest is the /api/embeddings request body.
type embeddingsRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

// embeddingsResponse is the /api/embeddings response body.
type embeddingsResponse struct {
	Embedding []float64 `json:"embedding"`
}

// toWireTools converts tool schemas to the wire format.
func toWireTools(tools []provider.ToolSchema) []wireTool {
	out := make([]wireTool, 0, len(tools))
	for _, t := range tools {
		props := make(map[string]wireParam, len(t.Parameters))
		for name, p := range t.Parameters {
			props[name] = wireParam{Type: p.Type, Description: p.Description}
		}
		out = append(out, wireTool{
			Type: "function",
			Function: wireFunction{
				Name:        t.Name,
				Description: t.Description,
				Parameters: wireParameters{
					Type:       "object",
					Properties: props,
					Required:   t.Required,
				},
			},
		})
	}
	return out
}

// toolCallFromWire normalizes a wire tool call into the tagged-union shape.
// Object arguments stay objects; anything else travels as undecoded text.
func toolCallFromWire(w wireToolCall) provider.ToolCall {
	var obj map[string]any
	if err := json.Unmarshal(w.Function.Arguments, &obj); err == nil && obj != nil {
		return provider.ToolCall{Name: w.Function.Name, Arguments: provider.ObjectArguments(obj)}
	}

	// Either a JSON string holding encoded arguments, or malformed output;
	// both are handed to the parser as text.
	var s string
	if err := json.Unmarshal(w.Function.Arguments, &s); err != nil {
		s = string(w.Function.Arguments)
	}
	return provider.ToolCall{Name: w.Function.Name, Arguments: provider.TextArguments(s)}
}
