// Package extract turns raw LLM responses into conformant order records.
//
// The pipeline is parse -> validate -> repair: parsing recovers a JSON
// object from however the model chose to wrap it, validation checks the
// canonical schema, and repair normalizes whatever came back into the
// fixed seven-field shape instead of rejecting it.
package extract

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// fencedJSON matches a markdown code block containing a JSON object,
// with or without a language tag.
var fencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// ParseError indicates no well-formed JSON object could be recovered
// from a model response. Raw carries the response for diagnostics.
type ParseError struct {
	Raw string
}

func (e *ParseError) Error() string {
	raw := e.Raw
	if len(raw) > 200 {
		raw = raw[:200] + "..."
	}
	return fmt.Sprintf("could not extract valid JSON from response: %s", raw)
}

// ParseResponse recovers a JSON object from a raw model response.
// Ordered attempts, stopping at the first success:
//  1. parse the whole response directly
//  2. parse the contents of a fenced code block
//  3. parse the substring from the first '{' to the last '}'
//
// Returns *ParseError when every attempt fails. Pure function.
func ParseResponse(raw string) (map[string]any, error) {
	trimmed := strings.TrimSpace(raw)

	candidates := make([]string, 0, 3)
	if trimmed != "" {
		candidates = append(candidates, trimmed)
	}
	if m := fencedJSON.FindStringSubmatch(trimmed); m != nil {
		candidates = append(candidates, m[1])
	}
	if start, end := strings.Index(trimmed, "{"), strings.LastIndex(trimmed, "}"); start != -1 && end > start {
		candidates = append(candidates, trimmed[start:end+1])
	}

	for _, candidate := range candidates {
		var fields map[string]any
		if err := json.Unmarshal([]byte(candidate), &fields); err == nil {
			return fields, nil
		}
	}

	return nil, &ParseError{Raw: raw}
}
