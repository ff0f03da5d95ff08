package parser

import (
	"reflect"
	"testing"
)

// =============================================================================
// StripThink Tests
// =============================================================================

func TestStripThink_RemovesSpan(t *testing.T) {
	in := "<think>let me reason about this</think>{\"core\": \"memory\"}"
	got := StripThink(in)

	if got != "{\"core\": \"memory\"}" {
		t.Errorf("StripThink() = %q", got)
	}
}

func TestStripThink_ThinkingVariant(t *testing.T) {
	in := "prefix <thinking>hmm\nmultiline</thinking> suffix"
	got := StripThink(in)

	if got != "prefix  suffix" {
		t.Errorf("StripThink() = %q", got)
	}
}

func TestStripThink_MultipleSpans(t *testing.T) {
	in := "<think>a</think>one<think>b</think>two"
	got := StripThink(in)

	if got != "onetwo" {
		t.Errorf("StripThink() = %q", got)
	}
}

func TestStripThink_UnterminatedLeftIntact(t *testing.T) {
	in := "<think>never closed, so nothing is removed"
	got := StripThink(in)

	if got != in {
		t.Errorf("StripThink() = %q, want input unchanged", got)
	}
}

func TestStripThink_NoTags(t *testing.T) {
	in := "plain answer"
	if got := StripThink(in); got != in {
		t.Errorf("StripThink() = %q", got)
	}
}

// =============================================================================
// StripThinkDeep Tests
// =============================================================================

func TestStripThinkDeep_CleansNestedStrings(t *testing.T) {
	in := map[string]any{
		"justification": "<think>internal</think>because it is calm",
		"deterministic": true,
		"nested": map[string]any{
			"note": "<thinking>x</thinking>kept",
		},
		"list": []any{"<think>y</think>a", 2.0},
	}

	got := StripThinkDeep(in).(map[string]any)

	if got["justification"] != "because it is calm" {
		t.Errorf("justification = %q", got["justification"])
	}
	if got["deterministic"] != true {
		t.Errorf("deterministic = %v", got["deterministic"])
	}
	nested := got["nested"].(map[string]any)
	if nested["note"] != "kept" {
		t.Errorf("nested note = %q", nested["note"])
	}
	if !reflect.DeepEqual(got["list"], []any{"a", 2.0}) {
		t.Errorf("list = %v", got["list"])
	}
}

func TestStripThinkDeep_LeavesOriginalUntouched(t *testing.T) {
	in := map[string]any{"k": "<think>a</think>v"}
	_ = StripThinkDeep(in)

	if in["k"] != "<think>a</think>v" {
		t.Error("input map was mutated")
	}
}

func TestStripThinkDeep_NonContainer(t *testing.T) {
	if got := StripThinkDeep(1.5); got != 1.5 {
		t.Errorf("StripThinkDeep(1.5) = %v", got)
	}
	if got := StripThinkDeep(nil); got != nil {
		t.Errorf("StripThinkDeep(nil) = %v", got)
	}
}
