package promptstore

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/issa-compass/backend/internal/store/models"
	"github.com/issa-compass/backend/pkg/logger"
)

// Store holds the current system prompt and the append-only history of
// superseded versions. Versions are a gap-free sequence starting at 1;
// the current text always carries the highest version number.
type Store struct {
	mu          sync.RWMutex
	current     string
	version     int
	lastUpdated time.Time
	history     []models.PromptVersion
}

func New(basePrompt string) *Store {
	return &Store{
		current:     basePrompt,
		version:     1,
		lastUpdated: time.Now(),
	}
}

// Current returns the text of the highest version.
func (s *Store) Current() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *Store) CurrentVersion() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Set archives the current text under its version number, then installs
// prompt as the new current text one version higher. The read-append-install
// sequence is a single critical section so concurrent updates can never
// drop a history entry or duplicate a version number.
func (s *Store) Set(prompt string, metadata map[string]any) models.PromptUpdate {
	s.mu.Lock()
	defer s.mu.Unlock()

	if metadata == nil {
		metadata = map[string]any{}
	}

	s.history = append(s.history, models.PromptVersion{
		Version:   s.version,
		Prompt:    s.current,
		Timestamp: s.lastUpdated,
		Metadata:  metadata,
	})

	oldVersion := s.version
	oldPrompt := s.current
	now := time.Now()

	s.current = prompt
	s.version++
	s.lastUpdated = now

	logger.Info("Prompt updated",
		zap.Int("old_version", oldVersion),
		zap.Int("new_version", s.version),
		zap.Int("prompt_length", len(prompt)),
	)

	return models.PromptUpdate{
		Version:         s.version,
		PreviousVersion: oldVersion,
		UpdatedAt:       now,
		OldPrompt:       oldPrompt,
		NewPrompt:       prompt,
	}
}

// History returns a copy of the archived versions, oldest first.
func (s *Store) History() []models.PromptVersion {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.PromptVersion, len(s.history))
	copy(out, s.history)
	return out
}
