package parser

import (
	"encoding/json"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// codeBlockRe matches fenced code blocks with an optional language tag.
	codeBlockRe = regexp.MustCompile("(?s)```(\\w*)\\n(.*?)```")

	// callRe matches function-call syntax like name(arg: value, ...).
	callRe = regexp.MustCompile(`([A-Za-z_][A-Za-z0-9_]*)\s*\(([^()]*)\)`)

	// argPairRe matches a single key: value pair inside a call. Values may
	// be quoted strings, numbers, booleans, null, flat arrays or flat objects.
	argPairRe = regexp.MustCompile(`([A-Za-z_][A-Za-z0-9_]*)\s*[:=]\s*("(?:[^"\\]|\\.)*"|-?\d+(?:\.\d+)?(?:[eE][-+]?\d+)?|true|false|null|\[[^\[\]]*\]|\{[^{}]*\})`)
)

// EmbeddedCall is a function invocation recovered from free text, as emitted
// by models running under instruction emulation.
type EmbeddedCall struct {
	Name      string
	Arguments map[string]any
}

// ExtractEmbeddedCalls scans text for inline call syntax and returns every
// call whose arguments parse. When names is non-empty, calls matching one of
// the expected names are preferred; if none match, all parsed calls are
// returned so field-set validation downstream can still gate them.
func ExtractEmbeddedCalls(text string, names []string) []EmbeddedCall {
	matches := callRe.FindAllStringSubmatch(text, -1)
	var all, named []EmbeddedCall

	for _, m := range matches {
		args, ok := parseCallArguments(m[2])
		if !ok {
			continue
		}
		call := EmbeddedCall{Name: m[1], Arguments: args}
		all = append(all, call)
		if containsName(names, m[1]) {
			named = append(named, call)
		}
	}

	if len(named) > 0 {
		return named
	}
	return all
}

// parseCallArguments decodes the body of a call into a map. Each value is
// decoded as JSON, which covers strings, numbers, booleans, null and flat
// composites. Returns false when no pair parses.
func parseCallArguments(body string) (map[string]any, bool) {
	pairs := argPairRe.FindAllStringSubmatch(body, -1)
	if len(pairs) == 0 {
		return nil, false
	}

	args := make(map[string]any, len(pairs))
	for _, p := range pairs {
		var v any
		if err := json.Unmarshal([]byte(p[2]), &v); err != nil {
			continue
		}
		args[p[1]] = v
	}
	if len(args) == 0 {
		return nil, false
	}
	return args, true
}

// ExtractFencedJSON parses every JSON object found in fenced code blocks
// tagged "json" or untagged. Blocks that fail to parse are skipped.
func ExtractFencedJSON(text string) []map[string]any {
	var objects []map[string]any
	for _, block := range codeBlockRe.FindAllStringSubmatch(text, -1) {
		if block[1] != "json" && block[1] != "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(block[2]), &m); err == nil {
			objects = append(objects, m)
		}
	}
	return objects
}

// ExtractFencedYAML parses every YAML mapping found in fenced code blocks
// tagged "yaml" or "yml". Blocks that fail to parse are skipped.
func ExtractFencedYAML(text string) []map[string]any {
	var objects []map[string]any
	for _, block := range codeBlockRe.FindAllStringSubmatch(text, -1) {
		if block[1] != "yaml" && block[1] != "yml" {
			continue
		}
		var m map[string]any
		if err := yaml.Unmarshal([]byte(block[2]), &m); err == nil {
			objects = append(objects, m)
		}
	}
	return objects
}

// ExtractObjectsWithField finds flat JSON objects in text that mention the
// given field name, in match order. Objects that fail to parse are skipped.
func ExtractObjectsWithField(text, field string) []map[string]any {
	re, err := regexp.Compile(`\{[^{}]*"` + regexp.QuoteMeta(field) + `"[^{}]*\}`)
	if err != nil {
		return nil
	}

	var objects []map[string]any
	for _, match := range re.FindAllString(text, -1) {
		var m map[string]any
		if err := json.Unmarshal([]byte(match), &m); err == nil {
			objects = append(objects, m)
		}
	}
	return objects
}

// ExtractBareObject parses the outermost brace-delimited span of the text as
// a JSON object.
func ExtractBareObject(text string) (map[string]any, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, false
	}

	var m map[string]any
	if err := json.Unmarshal([]byte(text[start:end+1]), &m); err != nil {
		return nil, false
	}
	return m, true
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
