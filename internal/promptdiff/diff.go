package promptdiff

import (
	"errors"
	"fmt"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/issa-compass/backend/internal/store/promptstore"
)

// ErrInvalidVersion marks a version request outside [1, history+1].
var ErrInvalidVersion = errors.New("invalid prompt version")

type Result struct {
	OldPrompt string `json:"old_prompt"`
	NewPrompt string `json:"new_prompt"`
	Diff      string `json:"diff"`
	Version   int    `json:"version"`
}

// Between renders the unified diff for one version slot. Slot v compares
// the text of version v-1 against version v; slot 1 compares the base
// prompt with itself (empty diff). Slots run from 1 to history length + 1,
// the last one being the current prompt.
func Between(store *promptstore.Store, version int) (*Result, error) {
	history := store.History()
	current := store.Current()
	maxSlot := len(history) + 1

	if version < 1 || version > maxSlot {
		return nil, fmt.Errorf("%w: %d (valid range 1-%d)", ErrInvalidVersion, version, maxSlot)
	}

	textOf := func(slot int) string {
		if slot <= len(history) {
			return history[slot-1].Prompt
		}
		return current
	}

	oldSlot := version - 1
	if oldSlot < 1 {
		oldSlot = 1
	}

	oldPrompt := textOf(oldSlot)
	newPrompt := textOf(version)

	diff, err := unified(oldPrompt, newPrompt)
	if err != nil {
		return nil, err
	}

	return &Result{
		OldPrompt: oldPrompt,
		NewPrompt: newPrompt,
		Diff:      diff,
		Version:   version,
	}, nil
}

// Latest diffs the most recent update: the last archived version against
// the current prompt. With no history the diff is empty.
func Latest(store *promptstore.Store) (*Result, error) {
	return Between(store, len(store.History())+1)
}

func unified(oldPrompt, newPrompt string) (string, error) {
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(oldPrompt),
		B:        difflib.SplitLines(newPrompt),
		FromFile: "old_prompt",
		ToFile:   "new_prompt",
		Context:  3,
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate diff: %w", err)
	}
	return text, nil
}
