package assistant

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/issa-compass/backend/internal/metrics"
	"github.com/issa-compass/backend/pkg/logger"
)

type AutoImprovement struct {
	PredictedReply string
	ActualReply    string
	Analysis       string
	ChangesMade    string
	UpdatedPrompt  string
	OldPrompt      string
	NewPrompt      string
	Provider       string
}

type ManualImprovement struct {
	Explanation   string
	UpdatedPrompt string
	OldPrompt     string
	NewPrompt     string
	Provider      string
}

// ImproveAuto predicts a reply with the current prompt, asks the editor
// model to revise the prompt against the consultant's actual reply, and
// commits the revision. Malformed editor output degrades to a no-op
// update rather than a failure: Set is only ever called with a fully
// resolved prompt string.
func (s *Service) ImproveAuto(ctx context.Context, clientSequence []string, chatHistory []Message, consultantReply []string, provider string) (*AutoImprovement, error) {
	providerUsed := s.gateway.Resolve(provider)

	predicted, err := s.GenerateReply(ctx, ReplyRequest{
		ClientSequence:   clientSequence,
		ChatHistory:      chatHistory,
		Provider:         providerUsed,
		IncludeAnalytics: false,
	})
	if err != nil {
		return nil, err
	}

	currentPrompt := s.prompts.Current()
	consultantFormatted := FormatClientSequence(consultantReply)
	historyFormatted := FormatChatHistory(chatHistory)
	clientFormatted := FormatClientSequence(clientSequence)

	editorMessage := fmt.Sprintf(`EXISTING_PROMPT:
%s

CHAT HISTORY:
%s

CLIENT SEQUENCE:
%s

PREDICTED_AI_REPLY:
%s

ACTUAL_CONSULTANT_REPLY:
%s

Analyze and provide improved prompt. Return JSON with:
- updated_prompt
- analysis
- changes_made
`, currentPrompt, historyFormatted, clientFormatted, predicted.Reply, consultantFormatted)

	response, err := s.gateway.Call(ctx, s.editorPrompt, editorMessage, providerUsed)
	if err != nil {
		return nil, err
	}

	updatedPrompt := stringField(response, "updated_prompt", currentPrompt)
	analysis := stringField(response, "analysis", "No analysis")
	changesMade := stringField(response, "changes_made", "No changes")

	update := s.prompts.Set(updatedPrompt, map[string]any{
		"analysis": analysis,
		"changes":  changesMade,
		"provider": providerUsed,
	})

	metrics.ImprovementsTotal.WithLabelValues("auto").Inc()
	metrics.PromptVersion.Set(float64(update.Version))

	logger.Info("Prompt auto-improved",
		zap.Int("version", update.Version),
		zap.String("provider", providerUsed),
	)

	return &AutoImprovement{
		PredictedReply: predicted.Reply,
		ActualReply:    consultantFormatted,
		Analysis:       analysis,
		ChangesMade:    changesMade,
		UpdatedPrompt:  updatedPrompt,
		OldPrompt:      update.OldPrompt,
		NewPrompt:      update.NewPrompt,
		Provider:       providerUsed,
	}, nil
}

// ImproveManual rewrites the prompt from free-form operator instructions.
func (s *Service) ImproveManual(ctx context.Context, instructions, provider string) (*ManualImprovement, error) {
	providerUsed := s.gateway.Resolve(provider)
	currentPrompt := s.prompts.Current()

	userMessage := fmt.Sprintf(`CURRENT PROMPT:
%s

USER INSTRUCTIONS:
%s

Return STRICT JSON only:
{"explanation": "...", "updated_prompt": "..."}
`, currentPrompt, instructions)

	response, err := s.gateway.Call(ctx, manualEditorSystemPrompt, userMessage, providerUsed)
	if err != nil {
		return nil, err
	}

	updatedPrompt := stringField(response, "updated_prompt", currentPrompt)
	explanation := stringField(response, "explanation", "Updated")

	update := s.prompts.Set(updatedPrompt, map[string]any{
		"manual_instruction": instructions,
		"provider":           providerUsed,
	})

	metrics.ImprovementsTotal.WithLabelValues("manual").Inc()
	metrics.PromptVersion.Set(float64(update.Version))

	logger.Info("Prompt manually improved",
		zap.Int("version", update.Version),
		zap.String("provider", providerUsed),
	)

	return &ManualImprovement{
		Explanation:   explanation,
		UpdatedPrompt: updatedPrompt,
		OldPrompt:     update.OldPrompt,
		NewPrompt:     update.NewPrompt,
		Provider:      providerUsed,
	}, nil
}

const manualEditorSystemPrompt = "You are a prompt engineer. Update prompts based on instructions."

func stringField(m map[string]any, key, fallback string) string {
	if v, ok := m[key].(string); ok && v != "" {
		return v
	}
	return fallback
}
