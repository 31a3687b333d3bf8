package llm

import (
	"context"
	"errors"
	"fmt"

	genai "google.golang.org/genai"
)

type googleBackend struct {
	client      *genai.Client
	model       string
	temperature float32
}

func newGoogleBackend(ctx context.Context, apiKey, model string, temperature float32) (*googleBackend, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &googleBackend{
		client:      client,
		model:       model,
		temperature: temperature,
	}, nil
}

func (b *googleBackend) Name() string { return ProviderGoogle }

func (b *googleBackend) Complete(ctx context.Context, system, userMessage string) (string, error) {
	resp, err := b.client.Models.GenerateContent(ctx, b.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: userMessage}}}},
		&genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: system}}},
			ResponseMIMEType:  "application/json",
			Temperature:       genai.Ptr(b.temperature),
		},
	)

	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("model returned no candidates")
	}

	return resp.Candidates[0].Content.Parts[0].Text, nil
}
