package ollama

import (
	"fmt"
	"sort"
	"strings"

	"github.com/synaptic-labs/brainkit/provider"
)

// Instruction emulation: models without native tool support get a
// synthesized description of the single allowed function injected into the
// system message, and their free-text reply is scanned for call syntax.

// toolModelPrefixes lists model families known to support native tool
// invocation. The per-model configuration table can override this in either
// direction.
var toolModelPrefixes = []string{
	"llama3.1",
	"llama3.2",
	"llama3.3",
	"qwen2.5",
	"qwen3",
	"mistral-nemo",
	"mistral-small",
	"firefunction",
	"command-r",
}

// supportsNativeTools reports whether the resolved model can take a
// machine-readable tool schema. The override table wins when it has an
// opinion; otherwise the built-in prefix list decides.
func (c *Client) supportsNativeTools(model string) bool {
	if c.cfg.Models != nil {
		if o, ok := c.cfg.Models.Lookup(model); ok && o.NativeTools != nil {
			return *o.NativeTools
		}
	}
	for _, prefix := range toolModelPrefixes {
		if strings.HasPrefix(model, prefix) {
			return true
		}
	}
	return false
}

// toolUseReminder is appended to the system message when native tools are
// attached, as a second line of defense against models that answer in prose
// despite the offered schema.
const toolUseReminder = "You must respond by calling one of the provided tools. Do not answer with plain text."

// buildToolInstruction synthesizes the emulation block for a single tool.
func buildToolInstruction(t provider.ToolSchema) string {
	var b strings.Builder

	b.WriteString("You have access to exactly one function.\n\n")
	fmt.Fprintf(&b, "Function: %s\n", t.Name)
	if t.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", t.Description)
	}

	if len(t.Parameters) > 0 {
		b.WriteString("Parameters:\n")
		for _, name := range sortedParamNames(t.Parameters) {
			p := t.Parameters[name]
			req := "optional"
			if t.IsRequired(name) {
				req = "required"
			}
			fmt.Fprintf(&b, "- %s (%s, %s)", name, p.Type, req)
			if p.Description != "" {
				fmt.Fprintf(&b, ": %s", p.Description)
			}
			fmt.Fprintf(&b, " Example: %s\n", exampleFor(p.Type))
		}
	}

	b.WriteString("\nTo call the function, respond with a single line of the form:\n")
	fmt.Fprintf(&b, "%s(%s)\n", t.Name, exampleCall(t))
	b.WriteString("Do not wrap the call in code fences and do not add any other text.")

	return b.String()
}

// exampleFor returns a type-appropriate inline example value.
func exampleFor(typ string) string {
	switch typ {
	case "string":
		return `"example"`
	case "number":
		return "0.7"
	case "integer":
		return "3"
	case "boolean":
		return "true"
	case "array":
		return `["first", "second"]`
	case "object":
		return `{"key": "value"}`
	default:
		return `"value"`
	}
}

// exampleCall renders an example argument list covering every parameter.
func exampleCall(t provider.ToolSchema) string {
	names := sortedParamNames(t.Parameters)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, exampleFor(t.Parameters[name].Type)))
	}
	return strings.Join(parts, ", ")
}

// sortedParamNames keeps the synthesized instruction stable across calls.
func sortedParamNames(params map[string]provider.Param) []string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// injectSystemText prepends block to the leading system message, creating
// one when the conversation has none. The input slice is not mutated.
func injectSystemText(messages []provider.Message, block string) []provider.Message {
	out := make([]provider.Message, len(messages))
	copy(out, messages)

	for i, m := range out {
		if m.Role == provider.RoleSystem {
			out[i].Content = block + "\n\n" + m.Content
			return out
		}
	}
	return append([]provider.Message{{Role: provider.RoleSystem, Content: block}}, out...)
}

// appendSystemText appends block as a trailing line of the leading system
// message, creating one when the conversation has none.
func appendSystemText(messages []provider.Message, block string) []provider.Message {
	out := make([]provider.Message, len(messages))
	copy(out, messages)

	for i, m := range out {
		if m.Role == provider.RoleSystem {
			out[i].Content = m.Content + "\n\n" + block
			return out
		}
	}
	return append([]provider.Message{{Role: provider.RoleSystem, Content: block}}, out...)
}
