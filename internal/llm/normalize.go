package llm

import (
	"encoding/json"
	"strings"
)

// Normalize parses backend output into a JSON object. Non-JSON text is
// wrapped under a "reply" key so callers never branch on shape.
func Normalize(raw string) map[string]any {
	text := StripFences(raw)

	var parsed map[string]any
	if err := json.Unmarshal([]byte(text), &parsed); err == nil && parsed != nil {
		return parsed
	}

	return map[string]any{"reply": text}
}

// StripFences removes a leading/trailing markdown code fence, either
// language-tagged (```json) or bare. Some backends wrap JSON output this
// way regardless of the requested format.
func StripFences(text string) string {
	trimmed := strings.TrimSpace(text)

	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	body := trimmed
	if idx := strings.Index(body, "\n"); idx >= 0 {
		body = body[idx+1:]
	} else {
		body = strings.TrimPrefix(body, "```json")
		body = strings.TrimPrefix(body, "```")
	}

	if idx := strings.LastIndex(body, "```"); idx >= 0 {
		body = body[:idx]
	}

	return strings.TrimSpace(body)
}
