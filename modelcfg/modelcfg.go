// Package modelcfg holds the read-only per-model tuning table.
//
// The gateway treats request-level sampling values as defaults only;
// model-specific overrides from this table win. The table is loaded from a
// TOML file of the form:
//
//	default_model = "llama3.2"
//
//	[models."llama3.2"]
//	temperature = 0.7
//	max_tokens = 2048
//	context_window = 8192
//	native_tools = true
//
//	[models."deepseek-r1"]
//	native_tools = false
//
// Lookups try the exact model name first, then the base name with the
// ":tag" suffix stripped, so "llama3.2:latest" finds the "llama3.2" entry.
package modelcfg

import (
	"fmt"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
)

// Overrides are the optional per-model tuning values. A nil field means
// "no override; use the caller default".
type Overrides struct {
	// Temperature overrides the request sampling temperature.
	Temperature *float64 `toml:"temperature"`

	// MaxTokens overrides the response length limit.
	MaxTokens *int `toml:"max_tokens"`

	// ContextWindow sets the model context window the server should use.
	ContextWindow *int `toml:"context_window"`

	// NativeTools overrides the built-in knowledge of whether the model
	// supports native tool invocation.
	NativeTools *bool `toml:"native_tools"`
}

// fileFormat is the TOML layout of a model configuration file.
type fileFormat struct {
	DefaultModel string               `toml:"default_model"`
	Models       map[string]Overrides `toml:"models"`
}

// Table is a concurrency-safe model configuration lookup. The core treats it
// as read-only; Reload and Watch are the only writers.
type Table struct {
	mu           sync.RWMutex
	path         string
	defaultModel string
	models       map[string]Overrides
}

// New creates a Table from an in-memory override map.
func New(models map[string]Overrides) *Table {
	if models == nil {
		models = make(map[string]Overrides)
	}
	return &Table{models: models}
}

// Load reads a Table from a TOML file. The path is remembered so Reload and
// Watch can refresh the table in place.
func Load(path string) (*Table, error) {
	t := &Table{path: path}
	if err := t.Reload(); err != nil {
		return nil, err
	}
	return t, nil
}

// Reload re-reads the backing file. On decode failure the previous contents
// are kept.
func (t *Table) Reload() error {
	if t.path == "" {
		return fmt.Errorf("model config has no backing file")
	}

	var f fileFormat
	if _, err := toml.DecodeFile(t.path, &f); err != nil {
		return fmt.Errorf("load model config %s: %w", t.path, err)
	}
	if f.Models == nil {
		f.Models = make(map[string]Overrides)
	}

	t.mu.Lock()
	t.defaultModel = f.DefaultModel
	t.models = f.Models
	t.mu.Unlock()
	return nil
}

// Lookup returns the overrides for a model name. Exact names win; otherwise
// the base name before a ":tag" suffix is tried.
func (t *Table) Lookup(model string) (Overrides, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if o, ok := t.models[model]; ok {
		return o, true
	}
	if base, _, found := strings.Cut(model, ":"); found {
		if o, ok := t.models[base]; ok {
			return o, true
		}
	}
	return Overrides{}, false
}

// DefaultModel returns the configured default model name, or "" when the
// file does not set one.
func (t *Table) DefaultModel() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.defaultModel
}

// Models returns the names of all configured models.
func (t *Table) Models() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	names := make([]string, 0, len(t.models))
	for name := range t.models {
		names = append(names, name)
	}
	return names
}
