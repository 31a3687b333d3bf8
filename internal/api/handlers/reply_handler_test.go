package handlers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStringListAcceptsString(t *testing.T) {
	var s StringList
	require.NoError(t, json.Unmarshal([]byte(`"single message"`), &s))
	require.Equal(t, StringList{"single message"}, s)
}

func TestStringListAcceptsArray(t *testing.T) {
	var s StringList
	require.NoError(t, json.Unmarshal([]byte(`["one", "two"]`), &s))
	require.Equal(t, StringList{"one", "two"}, s)
}

func TestStringListRejectsOtherShapes(t *testing.T) {
	var s StringList
	require.Error(t, json.Unmarshal([]byte(`{"a": 1}`), &s))
	require.Error(t, json.Unmarshal([]byte(`42`), &s))
}
