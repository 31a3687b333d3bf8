package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFingerprint(t *testing.T) {
	a := Fingerprint([]byte("document content"))
	b := Fingerprint([]byte("document content"))
	c := Fingerprint([]byte("other content"))

	require.Len(t, a, 32)
	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
}
