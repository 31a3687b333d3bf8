package promptdiff

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/issa-compass/backend/internal/store/promptstore"
)

func TestBetweenInvalidVersions(t *testing.T) {
	store := promptstore.New("base")
	store.Set("second", nil)

	_, err := Between(store, 0)
	require.ErrorIs(t, err, ErrInvalidVersion)

	_, err = Between(store, -1)
	require.ErrorIs(t, err, ErrInvalidVersion)

	// One archived entry means valid slots are 1 and 2.
	_, err = Between(store, 3)
	require.ErrorIs(t, err, ErrInvalidVersion)
}

func TestBetweenFirstSlotIsEmptyDiff(t *testing.T) {
	store := promptstore.New("base prompt\n")
	store.Set("updated prompt\n", nil)

	result, err := Between(store, 1)
	require.NoError(t, err)
	require.Equal(t, "base prompt\n", result.OldPrompt)
	require.Equal(t, "base prompt\n", result.NewPrompt)
	require.Empty(t, result.Diff)
}

func TestBetweenRendersUnifiedDiff(t *testing.T) {
	store := promptstore.New("line one\nline two\n")
	store.Set("line one\nline two changed\n", nil)

	result, err := Between(store, 2)
	require.NoError(t, err)
	require.Equal(t, "line one\nline two\n", result.OldPrompt)
	require.Equal(t, "line one\nline two changed\n", result.NewPrompt)
	require.Contains(t, result.Diff, "--- old_prompt")
	require.Contains(t, result.Diff, "+++ new_prompt")
	require.Contains(t, result.Diff, "-line two")
	require.Contains(t, result.Diff, "+line two changed")
}

func TestLatest(t *testing.T) {
	store := promptstore.New("v1\n")
	store.Set("v2\n", nil)
	store.Set("v3\n", nil)

	result, err := Latest(store)
	require.NoError(t, err)
	require.Equal(t, 3, result.Version)
	require.Equal(t, "v2\n", result.OldPrompt)
	require.Equal(t, "v3\n", result.NewPrompt)
	require.Contains(t, result.Diff, "+v3")
}

func TestLatestWithNoHistory(t *testing.T) {
	store := promptstore.New("base\n")

	result, err := Latest(store)
	require.NoError(t, err)
	require.Equal(t, 1, result.Version)
	require.Empty(t, result.Diff)
}
