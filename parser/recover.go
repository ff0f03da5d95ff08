package parser

import (
	"log/slog"

	"github.com/synaptic-labs/brainkit/provider"
)

// FieldSet declares one accepted shape for a recovered object: the field
// names that must be present, plus alias mappings that rename legacy field
// names to their current equivalents before the check.
type FieldSet struct {
	// Name labels the set for logging.
	Name string

	// Fields lists the canonical field names that must all be present.
	Fields []string

	// Aliases maps legacy field names to canonical ones. Alias keys found in
	// a candidate object are renamed before Fields is checked, so a legacy
	// object validates and comes out wearing current names.
	Aliases map[string]string
}

// Match validates a candidate object against the set. On success it returns
// a copy of the object with alias keys renamed to canonical ones.
func (fs FieldSet) Match(m map[string]any) (map[string]any, bool) {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if canon, ok := fs.Aliases[k]; ok {
			k = canon
		}
		out[k] = v
	}
	for _, f := range fs.Fields {
		if _, ok := out[f]; !ok {
			return nil, false
		}
	}
	return out, true
}

// CollapseFieldSets accepts the collapse-strategy decision object in its
// current shape and in the legacy shape older schema registries produced.
// Both are kept indefinitely; there is no deprecation trigger for the
// legacy names.
var CollapseFieldSets = []FieldSet{
	{
		Name:   "collapse",
		Fields: []string{"deterministic", "justification"},
	},
	{
		Name:   "collapse-legacy",
		Fields: []string{"deterministic", "justification"},
		Aliases: map[string]string{
			"shouldCollapse":  "deterministic",
			"should_collapse": "deterministic",
			"reason":          "justification",
		},
	},
}

// ActivationFieldSets accepts the activation-signal object in its current
// shape and under the older brain-area field names.
var ActivationFieldSets = []FieldSet{
	{
		Name:   "activation",
		Fields: []string{"core", "intensity"},
	},
	{
		Name:   "activation-legacy",
		Fields: []string{"core", "intensity"},
		Aliases: map[string]string{
			"area":       "core",
			"brain_area": "core",
			"brainArea":  "core",
			"strength":   "intensity",
		},
	},
}

// Recovery runs the ordered cascade of extraction attempts over a completion
// envelope. Construction is cheap; a Recovery is stateless and safe for
// concurrent use.
type Recovery struct {
	fieldSets []FieldSet
	logger    *slog.Logger
}

// RecoveryOption configures a Recovery.
type RecoveryOption func(*Recovery)

// WithLogger sets the logger used for skipped-candidate diagnostics.
func WithLogger(l *slog.Logger) RecoveryOption {
	return func(r *Recovery) { r.logger = l }
}

// NewRecovery creates a Recovery validating against the given field sets,
// checked in declaration order (current format before legacy).
func NewRecovery(fieldSets []FieldSet, opts ...RecoveryOption) *Recovery {
	r := &Recovery{
		fieldSets: fieldSets,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// attempt produces candidate objects from one extraction strategy.
// Candidates are unvalidated; Recover gates them through the field sets.
type attempt struct {
	name string
	run  func(env *provider.Envelope, toolNames []string) []map[string]any
}

// attempts is the cascade, in strict order. First validated candidate wins.
var attempts = []attempt{
	{"tool-calls", attemptToolCalls},
	{"embedded-call", attemptEmbedded},
	{"fenced-json", attemptFencedJSON},
	{"marker-object", nil}, // bound per-Recovery, needs the field sets
	{"bare-object", attemptBareObject},
	{"fenced-yaml", attemptFencedYAML},
}

// Recover extracts the first structured object from the envelope that
// validates against one of the field sets. Returns false when every attempt
// comes up empty; the caller must substitute its own deterministic default.
// Recover never invents domain values.
func (r *Recovery) Recover(env *provider.Envelope, toolNames []string) (map[string]any, bool) {
	for _, a := range attempts {
		run := a.run
		if run == nil {
			run = r.attemptMarkerObjects
		}
		for _, candidate := range run(env, toolNames) {
			if out, ok := r.validate(candidate); ok {
				return out, true
			}
			r.logger.Debug("recovery candidate failed field validation",
				slog.String("attempt", a.name))
		}
	}
	return nil, false
}

// RecoverAll extracts every validated object the envelope's tool calls
// carry, for callers that requested a batch. Tool calls that fail to parse
// or validate individually are dropped, not errors. When no tool call
// yields anything, the remaining cascade runs and contributes at most one
// object.
func (r *Recovery) RecoverAll(env *provider.Envelope, toolNames []string) []map[string]any {
	var results []map[string]any
	for _, candidate := range attemptToolCalls(env, toolNames) {
		if out, ok := r.validate(candidate); ok {
			results = append(results, out)
		}
	}
	if len(results) > 0 {
		return results
	}

	if out, ok := r.Recover(env, toolNames); ok {
		return []map[string]any{out}
	}
	return nil
}

// validate checks a candidate against the field sets in declaration order.
func (r *Recovery) validate(m map[string]any) (map[string]any, bool) {
	for _, fs := range r.fieldSets {
		if out, ok := fs.Match(m); ok {
			return out, true
		}
	}
	return nil, false
}

func attemptToolCalls(env *provider.Envelope, toolNames []string) []map[string]any {
	var candidates []map[string]any
	for _, tc := range env.ToolCalls {
		if len(toolNames) > 0 && !containsName(toolNames, tc.Name) {
			continue
		}
		args, err := ParseArguments(tc.Arguments)
		if err != nil || args == nil {
			// Hard decode failures and truncation both just skip this call;
			// recovery moves on to the next attempt.
			continue
		}
		candidates = append(candidates, args)
	}
	return candidates
}

func attemptEmbedded(env *provider.Envelope, toolNames []string) []map[string]any {
	if env.Content == "" {
		return nil
	}
	cleaned := StripThink(env.Content)
	calls := ExtractEmbeddedCalls(cleaned, toolNames)
	candidates := make([]map[string]any, 0, len(calls))
	for _, c := range calls {
		candidates = append(candidates, c.Arguments)
	}
	return candidates
}

func attemptFencedJSON(env *provider.Envelope, _ []string) []map[string]any {
	if env.Content == "" {
		return nil
	}
	return ExtractFencedJSON(StripThink(env.Content))
}

// attemptMarkerObjects scans for flat objects mentioning any field name the
// configured sets know about, canonical and legacy alike.
func (r *Recovery) attemptMarkerObjects(env *provider.Envelope, _ []string) []map[string]any {
	if env.Content == "" {
		return nil
	}
	cleaned := StripThink(env.Content)

	var candidates []map[string]any
	for _, marker := range r.markerFields() {
		candidates = append(candidates, ExtractObjectsWithField(cleaned, marker)...)
	}
	return candidates
}

// markerFields returns the deduplicated field names of all configured sets.
func (r *Recovery) markerFields() []string {
	seen := make(map[string]bool)
	var markers []string
	add := func(f string) {
		if !seen[f] {
			seen[f] = true
			markers = append(markers, f)
		}
	}
	for _, fs := range r.fieldSets {
		for _, f := range fs.Fields {
			add(f)
		}
		for alias := range fs.Aliases {
			add(alias)
		}
	}
	return markers
}

func attemptBareObject(env *provider.Envelope, _ []string) []map[string]any {
	if env.Content == "" {
		return nil
	}
	if m, ok := ExtractBareObject(StripThink(env.Content)); ok {
		return []map[string]any{m}
	}
	return nil
}

func attemptFencedYAML(env *provider.Envelope, _ []string) []map[string]any {
	if env.Content == "" {
		return nil
	}
	return ExtractFencedYAML(StripThink(env.Content))
}
