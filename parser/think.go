package parser

import "regexp"

// thinkSpans match complete reasoning spans, content included. Unterminated
// opening tags never match and are left intact rather than causing failure.
var thinkSpans = []*regexp.Regexp{
	regexp.MustCompile(`(?s)<think>.*?</think>`),
	regexp.MustCompile(`(?s)<thinking>.*?</thinking>`),
}

// StripThink removes all reasoning spans from s, leaving surrounding text
// byte-for-byte intact. Models that expose chain-of-thought prepend these
// spans even inside fields meant to be pure JSON, so this runs as a
// mandatory pre-pass before any decoding.
func StripThink(s string) string {
	for _, re := range thinkSpans {
		s = re.ReplaceAllString(s, "")
	}
	return s
}

// StripThinkDeep applies StripThink to every string found in v, recursing
// through slices element-wise and through maps value-wise (keys are never
// touched). Numbers, booleans and nil pass through unchanged. The input is
// not mutated; containers are rebuilt.
func StripThinkDeep(v any) any {
	switch t := v.(type) {
	case string:
		return StripThink(t)
	case []any:
		out := make([]any, len(t))
		for i, elem := range t {
			out[i] = StripThinkDeep(elem)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = StripThinkDeep(val)
		}
		return out
	default:
		return v
	}
}
