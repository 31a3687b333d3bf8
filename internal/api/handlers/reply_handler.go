package handlers

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/issa-compass/backend/internal/assistant"
	"github.com/issa-compass/backend/internal/llm"
	"github.com/issa-compass/backend/pkg/logger"
)

// StringList accepts either a JSON string or an array of strings, since
// clients send single-turn sequences both ways.
type StringList []string

func (s *StringList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*s = []string{single}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*s = many
	return nil
}

type ReplyHandler struct {
	service *assistant.Service
}

func NewReplyHandler(service *assistant.Service) *ReplyHandler {
	return &ReplyHandler{service: service}
}

func (h *ReplyHandler) GenerateReply(c *fiber.Ctx) error {
	var req struct {
		ClientSequence   StringList          `json:"clientSequence"`
		ChatHistory      []assistant.Message `json:"chatHistory"`
		Provider         string              `json:"provider"`
		IncludeAnalytics *bool               `json:"includeAnalytics"`
	}

	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if len(req.ClientSequence) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "clientSequence required",
		})
	}

	includeAnalytics := true
	if req.IncludeAnalytics != nil {
		includeAnalytics = *req.IncludeAnalytics
	}

	result, err := h.service.GenerateReply(c.Context(), assistant.ReplyRequest{
		ClientSequence:   req.ClientSequence,
		ChatHistory:      req.ChatHistory,
		Provider:         req.Provider,
		IncludeAnalytics: includeAnalytics,
	})
	if err != nil {
		return gatewayError(c, err)
	}

	return c.JSON(fiber.Map{
		"aiReply":      result.Reply,
		"responseTime": result.ResponseTime,
		"sentiment":    result.Sentiment,
		"confidence":   result.Confidence,
		"provider":     result.Provider,
	})
}

// gatewayError maps the gateway error taxonomy onto HTTP statuses:
// unknown provider is the caller's fault, a transport fault is upstream's.
func gatewayError(c *fiber.Ctx, err error) error {
	logger.Error("Reply generation failed", zap.Error(err))

	if errors.Is(err, llm.ErrProviderUnavailable) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	var callErr *llm.CallError
	if errors.As(err, &callErr) {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":    callErr.Error(),
			"provider": callErr.Provider,
		})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Failed to generate reply",
	})
}
