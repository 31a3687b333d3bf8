package confidence

import (
	"context"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/issa-compass/backend/internal/store/models"
	"github.com/issa-compass/backend/pkg/logger"
)

// Caller is the slice of the LLM gateway the scorer needs.
type Caller interface {
	Call(ctx context.Context, system, userMessage, provider string) (map[string]any, error)
}

const analyzerSystemPrompt = "You are a confidence analyzer. Assess AI responses objectively."

const fallbackFlag = "confidence_fallback"

var vagueMarkers = []string{"maybe", "might", "not sure", "cannot determine", "unclear", "depends"}

type Scorer struct {
	gateway Caller
}

func NewScorer(gateway Caller) *Scorer {
	return &Scorer{gateway: gateway}
}

// Score asks the model to self-rate reply on a 0-1 scale. Any failure in
// the gateway path degrades to a local hedging-phrase heuristic; callers
// always receive a well-formed result.
func (s *Scorer) Score(ctx context.Context, reply string, provider string) models.ConfidenceResult {
	prompt := fmt.Sprintf(`Analyze this AI response and rate its confidence level.

AI Response:
%s

Consider:
1. Completeness of information
2. Specificity of details
3. Clarity and certainty of language
4. Whether it includes caveats or uncertainties

Return STRICT JSON only:
{
  "confidence": 0.85,
  "reasoning": "Clear answer with specific details",
  "flags": []
}
`, reply)

	result, err := s.gateway.Call(ctx, analyzerSystemPrompt, prompt, provider)
	if err != nil {
		logger.Debug("Confidence call failed, using heuristic",
			zap.String("provider", provider),
			zap.Error(err),
		)
		return fallback(reply, err)
	}

	score := 0.7
	if v, ok := asFloat(result["confidence"]); ok {
		score = v
	}

	reasoning := "Standard confidence"
	if v, ok := result["reasoning"].(string); ok {
		reasoning = v
	}

	flags := []string{}
	if raw, ok := result["flags"].([]any); ok {
		for _, f := range raw {
			if fs, ok := f.(string); ok {
				flags = append(flags, fs)
			}
		}
	}

	level, color := grade(score)

	return models.ConfidenceResult{
		Score:        round2(score),
		Level:        level,
		Color:        color,
		Reasoning:    reasoning,
		Flags:        flags,
		ShouldReview: score < 0.7,
	}
}

// fallback scans for hedging language: hedged replies score 0.65,
// unhedged 0.75. The result is always flagged so reviewers can tell the
// estimate came from the heuristic path.
func fallback(reply string, cause error) models.ConfidenceResult {
	text := strings.ToLower(reply)

	hedged := false
	for _, marker := range vagueMarkers {
		if strings.Contains(text, marker) {
			hedged = true
			break
		}
	}

	score := 0.75
	if hedged {
		score = 0.65
	}

	level, color := models.ConfidenceMedium, "yellow"
	if score < 0.7 {
		level, color = models.ConfidenceLow, "red"
	}

	return models.ConfidenceResult{
		Score:        round2(score),
		Level:        level,
		Color:        color,
		Reasoning:    "Heuristic estimate (LLM confidence failed)",
		Flags:        []string{fallbackFlag},
		ShouldReview: score < 0.7,
		Error:        cause.Error(),
	}
}

func grade(score float64) (models.ConfidenceLevel, string) {
	switch {
	case score >= 0.9:
		return models.ConfidenceHigh, "green"
	case score >= 0.7:
		return models.ConfidenceMedium, "yellow"
	default:
		return models.ConfidenceLow, "red"
	}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
