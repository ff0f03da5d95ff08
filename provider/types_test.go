package provider

import "testing"

func TestRawArguments_Object(t *testing.T) {
	raw := ObjectArguments(map[string]any{"k": "v"})

	m, ok := raw.Object()
	if !ok {
		t.Fatal("Object() ok = false")
	}
	if m["k"] != "v" {
		t.Errorf("m = %v", m)
	}
	if _, ok := raw.Text(); ok {
		t.Error("Text() ok = true on object arguments")
	}
	if raw.IsZero() {
		t.Error("IsZero() = true on object arguments")
	}
}

func TestRawArguments_Text(t *testing.T) {
	raw := TextArguments(`{"k": "v"}`)

	s, ok := raw.Text()
	if !ok {
		t.Fatal("Text() ok = false")
	}
	if s != `{"k": "v"}` {
		t.Errorf("s = %q", s)
	}
	if _, ok := raw.Object(); ok {
		t.Error("Object() ok = true on text arguments")
	}
}

func TestRawArguments_Zero(t *testing.T) {
	var raw RawArguments

	if !raw.IsZero() {
		t.Error("IsZero() = false on zero value")
	}
	if _, ok := raw.Object(); ok {
		t.Error("Object() ok = true on zero value")
	}
	if _, ok := raw.Text(); ok {
		t.Error("Text() ok = true on zero value")
	}
}

func TestToolSchema_IsRequired(t *testing.T) {
	s := ToolSchema{
		Parameters: map[string]Param{
			"core":     {Type: "string"},
			"keywords": {Type: "array"},
		},
		Required: []string{"core"},
	}

	if !s.IsRequired("core") {
		t.Error("core should be required")
	}
	if s.IsRequired("keywords") {
		t.Error("keywords should be optional")
	}
}

func TestTokenUsage_Add(t *testing.T) {
	u := TokenUsage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}
	u.Add(TokenUsage{InputTokens: 3, OutputTokens: 2, TotalTokens: 5})

	if u.InputTokens != 13 || u.OutputTokens != 7 || u.TotalTokens != 20 {
		t.Errorf("Add() = %+v", u)
	}
}

func TestEnvelope_HasToolCalls(t *testing.T) {
	env := &Envelope{}
	if env.HasToolCalls() {
		t.Error("empty envelope reports tool calls")
	}

	env.ToolCalls = []ToolCall{{Name: "x"}}
	if !env.HasToolCalls() {
		t.Error("envelope with a call reports none")
	}
}
