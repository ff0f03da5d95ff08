// Package schema is the registry of tool parameter schemas.
//
// Callers ask for schemas by logical tool name; a missing schema is a fatal
// configuration error, because the core cannot emulate or attach a tool it
// has no description for. Schemas are derived from plain Go structs via
// JSON-Schema reflection, so the wire description and the decoding target
// can never drift apart.
package schema

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/invopop/jsonschema"

	"github.com/synaptic-labs/brainkit/provider"
)

// ErrNotFound indicates the requested tool schema is not registered.
// This is a deployment mistake, not a recoverable condition.
var ErrNotFound = errors.New("tool schema not found")

// Registry maps logical tool names to their schemas.
// Safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	schemas map[string]provider.ToolSchema
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{schemas: make(map[string]provider.ToolSchema)}
}

// Register adds or replaces a schema under its own name.
func (r *Registry) Register(s provider.ToolSchema) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.schemas[s.Name] = s
}

// Get returns the schema for a logical tool name.
// Returns ErrNotFound when the name is unknown.
func (r *Registry) Get(name string) (provider.ToolSchema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.schemas[name]
	if !ok {
		return provider.ToolSchema{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return s, nil
}

// Names returns the registered tool names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.schemas))
	for name := range r.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FromStruct reflects a tool schema from a Go struct. Field names come from
// json tags, descriptions from jsonschema tags, and the required list from
// the absence of omitempty.
func FromStruct(name, description string, v any) (provider.ToolSchema, error) {
	r := &jsonschema.Reflector{
		DoNotReference: true,
		Anonymous:      true,
	}
	s := r.Reflect(v)
	if s.Properties == nil {
		return provider.ToolSchema{}, fmt.Errorf("reflect %s: %T has no properties", name, v)
	}

	params := make(map[string]provider.Param, s.Properties.Len())
	for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
		params[pair.Key] = provider.Param{
			Type:        pair.Value.Type,
			Description: pair.Value.Description,
		}
	}

	return provider.ToolSchema{
		Name:        name,
		Description: description,
		Parameters:  params,
		Required:    s.Required,
	}, nil
}

// MustFromStruct is FromStruct, panicking on error. Use for the built-in
// schemas whose shape is fixed at compile time.
func MustFromStruct(name, description string, v any) provider.ToolSchema {
	s, err := FromStruct(name, description, v)
	if err != nil {
		panic(fmt.Sprintf("schema.MustFromStruct(%q): %v", name, err))
	}
	return s
}
