package prompt

import (
	"errors"
	"strings"
	"testing"
)

// =============================================================================
// Rendering Tests
// =============================================================================

func TestRender_VariableSubstitution(t *testing.T) {
	e := NewEngine()

	got, err := e.Render("Hello {{name}}!", map[string]any{"name": "world"})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if got != "Hello world!" {
		t.Errorf("Render() = %q", got)
	}
}

func TestRender_Conditional(t *testing.T) {
	e := NewEngine()
	tmpl := "{{#if note}}Note: {{note}}{{/if}}done"

	got, err := e.Render(tmpl, map[string]any{"note": "careful"})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if got != "Note: carefuldone" {
		t.Errorf("Render() = %q", got)
	}

	got, err = e.Render(tmpl, map[string]any{"note": ""})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if got != "done" {
		t.Errorf("Render() with empty note = %q", got)
	}
}

func TestRender_Each(t *testing.T) {
	e := NewEngine()

	got, err := e.Render("{{#each items}}[{{.}}]{{/each}}", map[string]any{
		"items": []string{"a", "b"},
	})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if got != "[a][b]" {
		t.Errorf("Render() = %q", got)
	}
}

func TestRender_Helpers(t *testing.T) {
	e := NewEngine()

	got, err := e.Render(`{{join parts ", "}} | {{truncate long 8}}`, map[string]any{
		"parts": []string{"x", "y"},
		"long":  "abcdefghijk",
	})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if got != "x, y | abcde..." {
		t.Errorf("Render() = %q", got)
	}
}

func TestRender_EmptyTemplate(t *testing.T) {
	e := NewEngine()

	_, err := e.Render("", nil)
	if !errors.Is(err, ErrEmpty) {
		t.Errorf("Render() error = %v, want ErrEmpty", err)
	}
}

func TestRender_ParseFailure(t *testing.T) {
	e := NewEngine()

	_, err := e.Render("{{#if x}}unclosed", nil)
	if !errors.Is(err, ErrParse) {
		t.Errorf("Render() error = %v, want ErrParse", err)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in     string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly-10", 10, "exactly-10"},
		{"much longer than that", 10, "much lo..."},
		{"abc", 2, "ab"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.maxLen); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.maxLen, got, tt.want)
		}
	}
}

// =============================================================================
// Built-In Prompt Tests
// =============================================================================

func TestCollapseDecision(t *testing.T) {
	system, user, err := CollapseDecision(
		[]string{"memory", "emotion"}, 0.25, 0.6,
		"Why does this keep happening to me?")
	if err != nil {
		t.Fatalf("CollapseDecision() error = %v", err)
	}

	if !strings.Contains(system, "collapse-strategy") {
		t.Errorf("system prompt = %q", system)
	}
	for _, want := range []string{
		"memory, emotion",
		"0.250",
		"0.600",
		"Why does this keep happening to me?",
	} {
		if !strings.Contains(user, want) {
			t.Errorf("user prompt missing %q:\n%s", want, user)
		}
	}
}

func TestCollapseDecision_TruncatesLongText(t *testing.T) {
	long := strings.Repeat("x", 500)

	_, user, err := CollapseDecision(nil, 0, 0, long)
	if err != nil {
		t.Fatalf("CollapseDecision() error = %v", err)
	}
	if strings.Contains(user, long) {
		t.Error("original text was not truncated")
	}
	if !strings.Contains(user, strings.Repeat("x", 277)+"...") {
		t.Error("truncation marker missing")
	}
}

func TestActivationExtraction(t *testing.T) {
	system, user, err := ActivationExtraction("remember the meeting", "we talked about scheduling", "English")
	if err != nil {
		t.Fatalf("ActivationExtraction() error = %v", err)
	}

	if !strings.Contains(system, "The text is written in English.") {
		t.Errorf("system prompt = %q", system)
	}
	if !strings.Contains(user, "we talked about scheduling") {
		t.Errorf("user prompt missing context:\n%s", user)
	}
	if !strings.Contains(user, "remember the meeting") {
		t.Errorf("user prompt missing text:\n%s", user)
	}
}

func TestActivationExtraction_OptionalPartsOmitted(t *testing.T) {
	system, user, err := ActivationExtraction("just the text", "", "")
	if err != nil {
		t.Fatalf("ActivationExtraction() error = %v", err)
	}

	if strings.Contains(system, "written in") {
		t.Errorf("system prompt carries language sentence: %q", system)
	}
	if strings.Contains(user, "Conversation context") {
		t.Errorf("user prompt carries empty context block: %q", user)
	}
}
