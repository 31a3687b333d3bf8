package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/issa-compass/backend/pkg/circuitbreaker"
	"github.com/issa-compass/backend/pkg/config"
	"github.com/issa-compass/backend/pkg/logger"
	"github.com/issa-compass/backend/pkg/retry"
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGoogle    = "google"
)

// providerOrder fixes the fallback order when no default is usable.
var providerOrder = []string{ProviderOpenAI, ProviderAnthropic, ProviderGoogle}

// Backend is one hosted model. Complete returns the model's raw text.
type Backend interface {
	Name() string
	Complete(ctx context.Context, system, userMessage string) (string, error)
}

// Gateway normalizes calls across the configured backends: one contract,
// one timeout, one error taxonomy. Output is always a JSON object, with
// raw text wrapped under "reply" when the model ignored the format.
type Gateway struct {
	backends        map[string]Backend
	breakers        map[string]*circuitbreaker.CircuitBreaker
	defaultProvider string
	timeout         time.Duration
	retryConfig     retry.Config
}

// NewGateway builds one backend per configured API key and resolves the
// default provider once, at startup. At least one backend must be
// configured.
func NewGateway(ctx context.Context, cfg config.LLMConfig) (*Gateway, error) {
	backends := make(map[string]Backend)

	if cfg.OpenAI.APIKey != "" {
		backends[ProviderOpenAI] = newOpenAIBackend(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.Temperature, cfg.MaxTokens)
	}

	if cfg.Anthropic.APIKey != "" {
		backends[ProviderAnthropic] = newAnthropicBackend(cfg.Anthropic.APIKey, cfg.Anthropic.Model, cfg.MaxTokens)
	}

	if cfg.Google.APIKey != "" {
		b, err := newGoogleBackend(ctx, cfg.Google.APIKey, cfg.Google.Model, cfg.Temperature)
		if err != nil {
			return nil, err
		}
		backends[ProviderGoogle] = b
	}

	if len(backends) == 0 {
		return nil, errors.New("no llm providers configured")
	}

	defaultProvider := cfg.DefaultProvider
	if _, ok := backends[defaultProvider]; !ok {
		for _, name := range providerOrder {
			if _, ok := backends[name]; ok {
				logger.Warn("Default provider not configured, falling back",
					zap.String("requested", defaultProvider),
					zap.String("fallback", name),
				)
				defaultProvider = name
				break
			}
		}
	}

	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	breakers := make(map[string]*circuitbreaker.CircuitBreaker, len(backends))
	for name := range backends {
		breakers[name] = circuitbreaker.New(name, circuitbreaker.Config{
			MaxRequests:      5,
			Interval:         time.Minute,
			Timeout:          30 * time.Second,
			FailureThreshold: 5,
			SuccessThreshold: 2,
			Logger:           logger.GetLogger(),
		})
	}

	g := &Gateway{
		backends:        backends,
		breakers:        breakers,
		defaultProvider: defaultProvider,
		timeout:         timeout,
		retryConfig:     retry.DefaultConfig(),
	}

	logger.Info("LLM gateway initialized",
		zap.Strings("providers", g.Providers()),
		zap.String("default_provider", defaultProvider),
	)

	return g, nil
}

func (g *Gateway) DefaultProvider() string {
	return g.defaultProvider
}

// Resolve maps an optional explicit provider to the one that will serve
// the call.
func (g *Gateway) Resolve(provider string) string {
	if provider == "" {
		return g.defaultProvider
	}
	return provider
}

func (g *Gateway) Providers() []string {
	names := make([]string, 0, len(g.backends))
	for _, name := range providerOrder {
		if _, ok := g.backends[name]; ok {
			names = append(names, name)
		}
	}
	return names
}

// Call issues one completion against the resolved backend and normalizes
// the output to a JSON object. Transport faults of every kind, including
// timeouts, surface as a single *CallError; the Gateway itself retries
// transient failures but never falls back to another provider.
func (g *Gateway) Call(ctx context.Context, system, userMessage, provider string) (map[string]any, error) {
	name := g.Resolve(provider)

	backend, ok := g.backends[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProviderUnavailable, name)
	}

	callID := uuid.NewString()
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	logger.Debug("LLM call started",
		zap.String("call_id", callID),
		zap.String("provider", name),
		zap.Int("system_length", len(system)),
		zap.Int("message_length", len(userMessage)),
	)

	var raw string
	err := g.breakers[name].Execute(ctx, func() error {
		return retry.Do(ctx, g.retryConfig, func() error {
			var callErr error
			raw, callErr = backend.Complete(ctx, system, userMessage)
			return callErr
		})
	})

	if err != nil {
		logger.Warn("LLM call failed",
			zap.String("call_id", callID),
			zap.String("provider", name),
			zap.Error(err),
		)
		return nil, &CallError{Provider: name, Err: err}
	}

	logger.Debug("LLM call completed",
		zap.String("call_id", callID),
		zap.String("provider", name),
		zap.Int("response_length", len(raw)),
	)

	return Normalize(raw), nil
}
