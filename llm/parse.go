package llm

import (
	"encoding/json"
	"strings"
)

// ParseOrDefault decodes a JSON-shaped oracle reply into T, returning the
// caller-supplied fallback when the reply is empty, malformed, or not JSON
// at all. The bool reports whether the reply actually parsed. Oracle output
// carries no structural guarantee, so every call site expecting JSON must
// route through here with its own default.
func ParseOrDefault[T any](raw string, fallback T) (T, bool) {
	candidate := extractJSON(raw)
	if candidate == "" {
		return fallback, false
	}

	var out T
	dec := json.NewDecoder(strings.NewReader(candidate))
	if err := dec.Decode(&out); err != nil {
		return fallback, false
	}
	return out, true
}

// extractJSON pulls the first JSON object out of a reply that may wrap it
// in prose or a markdown fence.
func extractJSON(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	// Strip a ```json ... ``` fence if present.
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.Index(s, "```"); i >= 0 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}
