package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/issa-compass/backend/pkg/circuitbreaker"
	"github.com/issa-compass/backend/pkg/retry"
)

type fakeBackend struct {
	name     string
	response string
	err      error
	calls    int
}

func (f *fakeBackend) Name() string { return f.name }

func (f *fakeBackend) Complete(ctx context.Context, system, userMessage string) (string, error) {
	f.calls++
	return f.response, f.err
}

func newTestGateway(backends ...*fakeBackend) *Gateway {
	g := &Gateway{
		backends: map[string]Backend{},
		breakers: map[string]*circuitbreaker.CircuitBreaker{},
		timeout:  5 * time.Second,
		retryConfig: retry.Config{
			MaxAttempts:  2,
			InitialDelay: time.Millisecond,
		},
	}

	for i, b := range backends {
		if i == 0 {
			g.defaultProvider = b.name
		}
		g.backends[b.name] = b
		g.breakers[b.name] = circuitbreaker.New(b.name, circuitbreaker.Config{})
	}

	return g
}

func TestResolve(t *testing.T) {
	g := newTestGateway(&fakeBackend{name: ProviderOpenAI})

	require.Equal(t, ProviderOpenAI, g.Resolve(""))
	require.Equal(t, ProviderAnthropic, g.Resolve(ProviderAnthropic))
}

func TestCallNormalizesResponse(t *testing.T) {
	backend := &fakeBackend{name: ProviderOpenAI, response: `{"reply": "hi there"}`}
	g := newTestGateway(backend)

	result, err := g.Call(context.Background(), "system", "message", "")
	require.NoError(t, err)
	require.Equal(t, "hi there", result["reply"])
	require.Equal(t, 1, backend.calls)
}

func TestCallWrapsPlainTextResponse(t *testing.T) {
	backend := &fakeBackend{name: ProviderOpenAI, response: "plain text"}
	g := newTestGateway(backend)

	result, err := g.Call(context.Background(), "system", "message", "")
	require.NoError(t, err)
	require.Equal(t, "plain text", result["reply"])
}

func TestCallUnknownProvider(t *testing.T) {
	g := newTestGateway(&fakeBackend{name: ProviderOpenAI})

	_, err := g.Call(context.Background(), "system", "message", "nonexistent")
	require.ErrorIs(t, err, ErrProviderUnavailable)
	require.Contains(t, err.Error(), "nonexistent")
}

func TestCallWrapsBackendFailure(t *testing.T) {
	cause := errors.New("upstream 500")
	backend := &fakeBackend{name: ProviderOpenAI, err: cause}
	g := newTestGateway(backend)

	_, err := g.Call(context.Background(), "system", "message", "")
	require.Error(t, err)

	var callErr *CallError
	require.ErrorAs(t, err, &callErr)
	require.Equal(t, ProviderOpenAI, callErr.Provider)
	require.ErrorIs(t, err, cause)
}

func TestCallRetriesTransientFailures(t *testing.T) {
	backend := &fakeBackend{name: ProviderOpenAI, err: errors.New("flaky")}
	g := newTestGateway(backend)

	g.Call(context.Background(), "system", "message", "")
	require.Equal(t, 2, backend.calls)
}

func TestProvidersOrdered(t *testing.T) {
	g := newTestGateway(
		&fakeBackend{name: ProviderGoogle},
		&fakeBackend{name: ProviderOpenAI},
	)

	require.Equal(t, []string{ProviderOpenAI, ProviderGoogle}, g.Providers())
}
