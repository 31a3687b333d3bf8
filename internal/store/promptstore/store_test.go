package promptstore

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewStartsAtVersionOne(t *testing.T) {
	store := New("base prompt")

	require.Equal(t, "base prompt", store.Current())
	require.Equal(t, 1, store.CurrentVersion())
	require.Empty(t, store.History())
}

func TestSetArchivesThenInstalls(t *testing.T) {
	store := New("v1 text")

	update := store.Set("v2 text", map[string]any{"reason": "test"})

	require.Equal(t, 2, update.Version)
	require.Equal(t, 1, update.PreviousVersion)
	require.Equal(t, "v1 text", update.OldPrompt)
	require.Equal(t, "v2 text", update.NewPrompt)

	require.Equal(t, "v2 text", store.Current())
	require.Equal(t, 2, store.CurrentVersion())

	history := store.History()
	require.Len(t, history, 1)
	require.Equal(t, 1, history[0].Version)
	require.Equal(t, "v1 text", history[0].Prompt)
	require.Equal(t, "test", history[0].Metadata["reason"])
}

func TestSetSequenceKeepsGapFreeVersions(t *testing.T) {
	store := New("v1")

	for i := 2; i <= 6; i++ {
		store.Set(fmt.Sprintf("v%d", i), nil)
	}

	require.Equal(t, 6, store.CurrentVersion())

	history := store.History()
	require.Len(t, history, 5)
	for i, entry := range history {
		require.Equal(t, i+1, entry.Version)
		require.Equal(t, fmt.Sprintf("v%d", i+1), entry.Prompt)
		require.NotNil(t, entry.Metadata)
	}
}

func TestConcurrentSetNeverDropsOrDuplicates(t *testing.T) {
	store := New("base")

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			store.Set(fmt.Sprintf("update-%d", n), nil)
		}(i)
	}
	wg.Wait()

	require.Equal(t, 3, store.CurrentVersion())

	history := store.History()
	require.Len(t, history, 2)

	seen := map[int]bool{}
	for _, entry := range history {
		require.False(t, seen[entry.Version], "duplicate version %d", entry.Version)
		seen[entry.Version] = true
	}
	require.True(t, seen[1])
	require.True(t, seen[2])
}

func TestHistoryReturnsCopy(t *testing.T) {
	store := New("v1")
	store.Set("v2", nil)

	history := store.History()
	history[0].Prompt = "tampered"

	require.Equal(t, "v1", store.History()[0].Prompt)
}
