// Package parse recovers structured data from raw model output. Replies are
// adversarial from the parser's point of view: surrounding prose, partial
// markdown fences, and format drift are expected, not exceptional.
package parse

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoRecord indicates no decodable JSON object could be found anywhere in
// the reply. Callers substitute their own fallback record and keep going.
var ErrNoRecord = errors.New("no decodable JSON object in response")

// Record decodes a JSON object from raw model output into out.
//
// It strips markdown fence lines when the reply opens with one, attempts a
// direct decode, and falls back to the substring between the first opening
// and last closing brace. It never panics; on failure it returns an error
// wrapping ErrNoRecord so callers can apply a fallback record.
func Record(raw string, out any) error {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "```") {
		text = stripFences(text)
	}

	if err := json.Unmarshal([]byte(text), out); err == nil {
		return nil
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end > start {
		if err := json.Unmarshal([]byte(text[start:end+1]), out); err == nil {
			return nil
		}
	}

	return fmt.Errorf("%w (%d bytes)", ErrNoRecord, len(raw))
}

// stripFences drops every line that is a pure fence marker (opening fence
// with any language tag, or closing fence) and rejoins the rest.
func stripFences(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}
