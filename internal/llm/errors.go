package llm

import (
	"errors"
	"fmt"
)

// ErrProviderUnavailable marks a request for a backend that is not
// configured. Wrapped errors carry the provider name.
var ErrProviderUnavailable = errors.New("llm provider not available")

// CallError wraps any transport-level fault (auth, network, rate limit,
// timeout) from a backend call. The original cause is preserved for the
// boundary layer to render.
type CallError struct {
	Provider string
	Err      error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("llm call failed (provider %s): %v", e.Provider, e.Err)
}

func (e *CallError) Unwrap() error {
	return e.Err
}
