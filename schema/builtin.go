package schema

// Logical tool names the use cases ask for.
const (
	// ToolDecideCollapseStrategy requests a structured decision between
	// deterministic and probabilistic answer synthesis.
	ToolDecideCollapseStrategy = "decide_collapse_strategy"

	// ToolExtractActivation requests structured brain-core activation
	// signals extracted from free text.
	ToolExtractActivation = "extract_activation"
)

// collapseParams is the parameter shape of the collapse-strategy tool.
// Legacy responses using shouldCollapse/reason are mapped back to these
// names by the recovery pipeline.
type collapseParams struct {
	Deterministic bool    `json:"deterministic" jsonschema:"description=True when the final answer should be synthesized deterministically at low temperature"`
	Temperature   float64 `json:"temperature,omitempty" jsonschema:"description=Sampling temperature to use for synthesis; between 0 and 2"`
	Justification string  `json:"justification" jsonschema:"description=Short reason for the chosen strategy"`
	UserIntent    string  `json:"userIntent,omitempty" jsonschema:"description=One-line summary of what the user is trying to achieve"`
}

// activationParams is the parameter shape of the activation-extraction tool.
type activationParams struct {
	Core      string   `json:"core" jsonschema:"description=Name of the brain core this signal activates"`
	Intensity float64  `json:"intensity" jsonschema:"description=Activation intensity between 0 and 1"`
	Keywords  []string `json:"keywords,omitempty" jsonschema:"description=Salient keywords supporting the activation"`
}

// Builtin returns a registry pre-populated with the schemas the two use
// cases depend on.
func Builtin() *Registry {
	r := NewRegistry()
	r.Register(MustFromStruct(
		ToolDecideCollapseStrategy,
		"Decide whether the final answer should be synthesized deterministically (low temperature) or probabilistically (high temperature).",
		&collapseParams{},
	))
	r.Register(MustFromStruct(
		ToolExtractActivation,
		"Extract the brain-core activation signals present in the given text.",
		&activationParams{},
	))
	return r
}
