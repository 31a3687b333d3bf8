package llm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeParsesJSONObject(t *testing.T) {
	result := Normalize(`{"reply": "hello", "confidence": 0.9}`)

	require.Equal(t, "hello", result["reply"])
	require.Equal(t, 0.9, result["confidence"])
}

func TestNormalizeWrapsPlainText(t *testing.T) {
	result := Normalize("just a plain sentence")

	require.Equal(t, map[string]any{"reply": "just a plain sentence"}, result)
}

func TestNormalizeWrapsNonObjectJSON(t *testing.T) {
	// Arrays and scalars are valid JSON but not objects.
	result := Normalize(`["a", "b"]`)

	require.Equal(t, map[string]any{"reply": `["a", "b"]`}, result)
}

func TestNormalizeStripsFences(t *testing.T) {
	raw := "```json\n{\"reply\": \"fenced\"}\n```"

	result := Normalize(raw)
	require.Equal(t, "fenced", result["reply"])
}

func TestStripFences(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"no fence", `{"a": 1}`, `{"a": 1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"single line fence", "```json{\"a\": 1}```", `{"a": 1}`},
		{"surrounding whitespace", "  \n```json\n{\"a\": 1}\n```\n  ", `{"a": 1}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, StripFences(tc.in))
		})
	}
}
