// Package prompt produces the literal system/user prompt text for the two
// use cases. The core treats the rendered strings as opaque.
package prompt

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"text/template"
)

// Sentinel errors for prompt rendering.
var (
	// ErrEmpty is returned when the template string is empty.
	ErrEmpty = errors.New("template is empty")

	// ErrParse is returned when the template fails to parse.
	ErrParse = errors.New("template parse error")

	// ErrExecute is returned when template execution fails.
	ErrExecute = errors.New("template execution error")
)

// Engine renders prompt templates with variable substitution.
// Templates use Handlebars-like {{variable}} syntax, converted to Go
// template syntax before execution.
type Engine struct {
	funcs template.FuncMap
}

// NewEngine creates a new prompt engine with the default helper functions.
func NewEngine() *Engine {
	return &Engine{
		funcs: template.FuncMap{
			"truncate": truncate,
			"json":     toJSON,
			"join":     strings.Join,
			"trim":     strings.TrimSpace,
		},
	}
}

// Render executes the template with the given variables.
func (e *Engine) Render(templateStr string, variables map[string]any) (string, error) {
	if templateStr == "" {
		return "", ErrEmpty
	}

	tmpl, parseErr := template.New("prompt").Funcs(e.funcs).Parse(convertSyntax(templateStr))
	if parseErr != nil {
		return "", fmt.Errorf("%w: %w", ErrParse, parseErr)
	}

	var buf strings.Builder
	if execErr := tmpl.Execute(&buf, variables); execErr != nil {
		return "", fmt.Errorf("%w: %w", ErrExecute, execErr)
	}
	return buf.String(), nil
}

// helperNames lists the built-in helper function names.
var helperNames = map[string]bool{
	"truncate": true,
	"json":     true,
	"join":     true,
	"trim":     true,
}

var (
	eachPattern   = regexp.MustCompile(`\{\{#each\s+(\w+)\}\}`)
	ifPattern     = regexp.MustCompile(`\{\{#if\s+(\w+)\}\}`)
	closePattern  = regexp.MustCompile(`\{\{/(?:each|if)\}\}`)
	varPattern    = regexp.MustCompile(`\{\{(\w+)\}\}`)
	helperPattern = regexp.MustCompile(`\{\{(\w+)((?:\s+\S+)+)\}\}`)
)

// goTemplateKeywords should not be converted to variable references.
var goTemplateKeywords = map[string]bool{
	"else": true, "end": true, "if": true, "range": true, "with": true,
}

// convertSyntax converts Handlebars-like syntax to Go template syntax:
//
//	{{variable}}            -> {{.variable}}
//	{{#if x}}...{{/if}}     -> {{if .x}}...{{end}}
//	{{#each xs}}...{{/each}} -> {{range .xs}}...{{end}}
//	{{helper arg 10}}       -> {{helper .arg 10}}
func convertSyntax(input string) string {
	result := eachPattern.ReplaceAllString(input, "{{range .$1}}")
	result = ifPattern.ReplaceAllString(result, "{{if .$1}}")
	result = closePattern.ReplaceAllString(result, "{{end}}")

	result = helperPattern.ReplaceAllStringFunc(result, func(m string) string {
		parts := helperPattern.FindStringSubmatch(m)
		if !helperNames[parts[1]] {
			return m
		}
		args := strings.Fields(parts[2])
		for i, a := range args {
			if isIdentifier(a) && !goTemplateKeywords[a] {
				args[i] = "." + a
			}
		}
		return "{{" + parts[1] + " " + strings.Join(args, " ") + "}}"
	})

	result = varPattern.ReplaceAllStringFunc(result, func(m string) string {
		name := varPattern.FindStringSubmatch(m)[1]
		if goTemplateKeywords[name] || helperNames[name] {
			return m
		}
		return "{{." + name + "}}"
	})

	return result
}

var identifierRe = regexp.MustCompile(`^[A-Za-z_]\w*$`)

func isIdentifier(s string) bool {
	return identifierRe.MatchString(s)
}

// truncate cuts a string to the specified maximum length, appending "..."
// when something was dropped.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// toJSON converts a value to a compact JSON string, falling back to the
// default string representation on marshal failure.
func toJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
