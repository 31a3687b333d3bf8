package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/issa-compass/backend/internal/assistant"
	"github.com/issa-compass/backend/internal/promptdiff"
	"github.com/issa-compass/backend/internal/store/promptstore"
	"github.com/issa-compass/backend/pkg/logger"
)

type PromptHandler struct {
	service *assistant.Service
	prompts *promptstore.Store
}

func NewPromptHandler(service *assistant.Service, prompts *promptstore.Store) *PromptHandler {
	return &PromptHandler{
		service: service,
		prompts: prompts,
	}
}

func (h *PromptHandler) GetPrompt(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"prompt":  h.prompts.Current(),
		"version": h.prompts.CurrentVersion(),
	})
}

func (h *PromptHandler) ImproveAuto(c *fiber.Ctx) error {
	var req struct {
		ClientSequence  StringList          `json:"clientSequence"`
		ChatHistory     []assistant.Message `json:"chatHistory"`
		ConsultantReply StringList          `json:"consultantReply"`
		Provider        string              `json:"provider"`
	}

	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if len(req.ClientSequence) == 0 || len(req.ConsultantReply) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "clientSequence and consultantReply required",
		})
	}

	result, err := h.service.ImproveAuto(c.Context(), req.ClientSequence, req.ChatHistory, req.ConsultantReply, req.Provider)
	if err != nil {
		return gatewayError(c, err)
	}

	return c.JSON(fiber.Map{
		"predictedReply": result.PredictedReply,
		"actualReply":    result.ActualReply,
		"analysis":       result.Analysis,
		"changesMade":    result.ChangesMade,
		"updatedPrompt":  result.UpdatedPrompt,
		"oldPrompt":      result.OldPrompt,
		"newPrompt":      result.NewPrompt,
		"provider":       result.Provider,
	})
}

func (h *PromptHandler) ImproveManual(c *fiber.Ctx) error {
	var req struct {
		Instructions string `json:"instructions"`
		Provider     string `json:"provider"`
	}

	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Instructions == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "instructions required",
		})
	}

	result, err := h.service.ImproveManual(c.Context(), req.Instructions, req.Provider)
	if err != nil {
		return gatewayError(c, err)
	}

	return c.JSON(fiber.Map{
		"explanation":   result.Explanation,
		"updatedPrompt": result.UpdatedPrompt,
		"oldPrompt":     result.OldPrompt,
		"newPrompt":     result.NewPrompt,
		"provider":      result.Provider,
	})
}

func (h *PromptHandler) GetHistory(c *fiber.Ctx) error {
	history := h.prompts.History()

	recent := history
	if len(recent) > 10 {
		recent = recent[len(recent)-10:]
	}

	return c.JSON(fiber.Map{
		"current_version":     h.prompts.CurrentVersion(),
		"total_improvements":  len(history),
		"improvement_history": recent,
	})
}

func (h *PromptHandler) GetDiff(c *fiber.Ctx) error {
	var result *promptdiff.Result
	var err error

	if version := c.QueryInt("version", 0); version != 0 {
		result, err = promptdiff.Between(h.prompts, version)
	} else {
		result, err = promptdiff.Latest(h.prompts)
	}

	if err != nil {
		if errors.Is(err, promptdiff.ErrInvalidVersion) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		logger.Error("Failed to generate prompt diff", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate diff",
		})
	}

	return c.JSON(result)
}
