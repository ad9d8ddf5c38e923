package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// extractJSON pulls the JSON payload out of a model reply. Fenced code blocks
// win over bare objects; the input is returned unchanged when nothing matches.
func extractJSON(s string) string {
	for _, fence := range []string{"```json", "```"} {
		idx := strings.Index(s, fence)
		if idx == -1 {
			continue
		}
		body := strings.TrimLeft(s[idx+len(fence):], "\r\n")
		if end := strings.Index(body, "```"); end != -1 {
			return strings.TrimRight(body[:end], "\r\n")
		}
	}

	start := strings.IndexAny(s, "{[")
	if start == -1 {
		return s
	}
	depth := 0
	for j := start; j < len(s); j++ {
		switch s[j] {
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return s[start : j+1]
			}
		}
	}
	return s
}

// decodeJSON unmarshals the JSON found in a model reply into result.
func decodeJSON(content string, result any) error {
	if err := json.Unmarshal([]byte(extractJSON(content)), result); err != nil {
		return fmt.Errorf("parsing JSON response: %w", err)
	}
	return nil
}
