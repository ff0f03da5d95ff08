package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/synaptic-labs/brainkit/provider"
)

// ErrInvalidArguments indicates tool-call arguments were neither an object
// nor a string.
var ErrInvalidArguments = errors.New("invalid arguments type")

// ParseArguments normalizes tool-call arguments into a single object shape.
//
// Already-decoded objects are cleaned recursively and returned as-is.
// Strings are cleaned, then JSON-decoded. A decode failure attributable to
// truncation (output cut off before the closing brace) returns (nil, nil) so
// the caller can fall back; any other decode failure is a hard error, as is
// an argument value of any other shape.
func ParseArguments(raw provider.RawArguments) (map[string]any, error) {
	if m, ok := raw.Object(); ok {
		cleaned, ok := StripThinkDeep(m).(map[string]any)
		if !ok {
			// StripThinkDeep preserves container types; this cannot happen.
			return nil, ErrInvalidArguments
		}
		return cleaned, nil
	}

	if s, ok := raw.Text(); ok {
		s = strings.TrimSpace(StripThink(s))
		var m map[string]any
		if err := json.Unmarshal([]byte(s), &m); err != nil {
			if isTruncated(err) {
				return nil, nil
			}
			return nil, fmt.Errorf("decode tool arguments: %w", err)
		}
		return m, nil
	}

	return nil, ErrInvalidArguments
}

// isTruncated reports whether a JSON decode failure belongs to the
// "unexpected end of input" class, meaning the model's output was cut off
// mid-object rather than structurally wrong.
func isTruncated(err error) bool {
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	var syn *json.SyntaxError
	if errors.As(err, &syn) {
		return strings.Contains(syn.Error(), "unexpected end of JSON input")
	}
	return false
}
