package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/issa-compass/backend/internal/assistant"
	"github.com/issa-compass/backend/internal/training"
	"github.com/issa-compass/backend/pkg/logger"
)

type TrainingHandler struct {
	service      *assistant.Service
	corpusPath   string
	maxSequences int
}

func NewTrainingHandler(service *assistant.Service, corpusPath string, maxSequences int) *TrainingHandler {
	return &TrainingHandler{
		service:      service,
		corpusPath:   corpusPath,
		maxSequences: maxSequences,
	}
}

// RunTraining replays recorded conversations through the auto-improvement
// loop. A failed sequence is reported in its slot and the run continues.
func (h *TrainingHandler) RunTraining(c *fiber.Ctx) error {
	conversations, err := training.LoadConversations(h.corpusPath)
	if err != nil {
		logger.Error("Failed to load training corpus",
			zap.String("path", h.corpusPath),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load training corpus",
		})
	}

	sequences := training.ExtractSequences(conversations)

	toRun := sequences
	if h.maxSequences > 0 && len(toRun) > h.maxSequences {
		toRun = toRun[:h.maxSequences]
	}

	provider := c.Query("provider")

	results := make([]fiber.Map, 0, len(toRun))
	for i, seq := range toRun {
		improvement, err := h.service.ImproveAuto(c.Context(), seq.ClientSequence, seq.ChatHistory, seq.ConsultantReply, provider)
		if err != nil {
			logger.Error("Training sequence failed",
				zap.Int("sequence", i+1),
				zap.String("contact_id", seq.ContactID),
				zap.Error(err),
			)
			results = append(results, fiber.Map{
				"sequence":   i + 1,
				"contact_id": seq.ContactID,
				"scenario":   seq.Scenario,
				"error":      err.Error(),
			})
			continue
		}

		results = append(results, fiber.Map{
			"sequence":       i + 1,
			"contact_id":     seq.ContactID,
			"scenario":       seq.Scenario,
			"predictedReply": improvement.PredictedReply,
			"actualReply":    improvement.ActualReply,
			"analysis":       improvement.Analysis,
			"changesMade":    improvement.ChangesMade,
		})
	}

	return c.JSON(fiber.Map{
		"total_sequences": len(sequences),
		"sequences_run":   len(toRun),
		"results":         results,
	})
}
