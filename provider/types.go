package provider

// Request configures a completion call against the local model server.
// A Request is immutable once built; the gateway never mutates it, even
// across retries.
type Request struct {
	// Model specifies which local model to use (e.g. "llama3.2", "qwen2.5:7b").
	// Empty means "use the gateway default".
	Model string `json:"model,omitempty"`

	// Messages is the ordered conversation to send to the model.
	Messages []Message `json:"messages"`

	// Tools lists tool schemas the model may invoke. When the resolved model
	// lacks native tool support, the gateway rewrites the request to emulate
	// the first tool through prompt instructions instead.
	Tools []ToolSchema `json:"tools,omitempty"`

	// Temperature controls sampling randomness, in [0, 2].
	// Per-model configuration overrides this value.
	Temperature float64 `json:"temperature,omitempty"`

	// MaxTokens limits the response length. 0 uses the server default.
	// Per-model configuration overrides this value.
	MaxTokens int `json:"max_tokens,omitempty"`

	// Stream requests incremental newline-delimited output.
	Stream bool `json:"stream,omitempty"`
}

// Message is a single conversation turn.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Role identifies the message sender.
type Role string

// Standard message roles.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolSchema describes a single callable function: its name, a free-text
// description, and a JSON-Schema-like parameter table. The same schema is
// used both for native tool attachment and for synthesizing the instruction
// block on models without native tool support.
type ToolSchema struct {
	// Name is the function name, unique within a request.
	Name string `json:"name"`

	// Description explains what the function does.
	Description string `json:"description"`

	// Parameters maps parameter names to their definitions.
	Parameters map[string]Param `json:"parameters"`

	// Required lists parameter names that must be provided.
	Required []string `json:"required,omitempty"`
}

// Param defines a single tool parameter.
type Param struct {
	// Type is the JSON Schema type: "string", "number", "integer",
	// "boolean", "array", or "object".
	Type string `json:"type"`

	// Description explains what the parameter is for.
	Description string `json:"description,omitempty"`
}

// IsRequired reports whether the named parameter is in the required list.
func (t ToolSchema) IsRequired(name string) bool {
	for _, r := range t.Required {
		if r == name {
			return true
		}
	}
	return false
}

// Envelope is the normalized result of a completion call.
//
// Convention: when ToolCalls is non-empty the turn is a tool invocation and
// Content is considered absent; the gateway drops any prose the server
// returned alongside tool calls.
type Envelope struct {
	// Content is the textual answer, already stripped of reasoning markup.
	// Empty when the model invoked tools instead.
	Content string `json:"content"`

	// ToolCalls contains the tool invocations requested by the model,
	// either native or recovered from emulated call syntax.
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`

	// Model is the model that actually served the request.
	Model string `json:"model,omitempty"`

	// Usage tracks token consumption when the server reports it.
	Usage TokenUsage `json:"usage"`
}

// HasToolCalls reports whether the envelope carries at least one tool call.
func (e *Envelope) HasToolCalls() bool {
	return len(e.ToolCalls) > 0
}

// ToolCall is a structured function invocation emitted by the model.
type ToolCall struct {
	// Name is the function the model asked to call.
	Name string `json:"name"`

	// Arguments carries the call arguments as the server delivered them:
	// either an already-decoded object or an undecoded string.
	Arguments RawArguments `json:"arguments"`
}

// RawArguments is a tagged union over the two shapes tool-call arguments
// arrive in. Local runtimes sometimes decode arguments into an object before
// handing them over, and sometimes pass the model's raw string through; both
// funnel into parser.ParseArguments for normalization.
type RawArguments struct {
	obj  map[string]any
	text string
	kind argKind
}

type argKind int

const (
	argNone argKind = iota
	argObject
	argText
)

// ObjectArguments wraps an already-decoded argument object.
func ObjectArguments(m map[string]any) RawArguments {
	return RawArguments{obj: m, kind: argObject}
}

// TextArguments wraps an undecoded argument string.
func TextArguments(s string) RawArguments {
	return RawArguments{text: s, kind: argText}
}

// Object returns the decoded argument object, if that is what the union holds.
func (r RawArguments) Object() (map[string]any, bool) {
	if r.kind != argObject {
		return nil, false
	}
	return r.obj, true
}

// Text returns the undecoded argument string, if that is what the union holds.
func (r RawArguments) Text() (string, bool) {
	if r.kind != argText {
		return "", false
	}
	return r.text, true
}

// IsZero reports whether the union holds neither shape.
func (r RawArguments) IsZero() bool {
	return r.kind == argNone
}

// TokenUsage tracks token consumption for a request.
type TokenUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// Add combines token usage from another TokenUsage.
func (u *TokenUsage) Add(other TokenUsage) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
	u.TotalTokens += other.TotalTokens
}

// StreamChunk is a piece of a streaming response.
type StreamChunk struct {
	// Content is the incremental text fragment in this chunk.
	Content string `json:"content,omitempty"`

	// Done indicates this is the final chunk.
	Done bool `json:"done"`

	// Usage is the token usage, only set on the final chunk when the
	// server reports it.
	Usage *TokenUsage `json:"usage,omitempty"`

	// Err is non-nil if streaming failed.
	Err error `json:"-"`
}
