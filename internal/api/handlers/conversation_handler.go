package handlers

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/issa-compass/backend/internal/store/activitylog"
	"github.com/issa-compass/backend/pkg/logger"
)

type ConversationHandler struct {
	activity *activitylog.Log
}

func NewConversationHandler(activity *activitylog.Log) *ConversationHandler {
	return &ConversationHandler{activity: activity}
}

func (h *ConversationHandler) ListConversations(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)

	conversations := h.activity.Conversations(limit, offset)

	return c.JSON(fiber.Map{
		"conversations": conversations,
		"total":         h.activity.ConversationCount(),
		"limit":         limit,
		"offset":        offset,
	})
}

func (h *ConversationHandler) SearchConversations(c *fiber.Ctx) error {
	var req struct {
		Query string `json:"query"`
	}

	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	results := h.activity.SearchConversations(req.Query)

	return c.JSON(fiber.Map{
		"results": results,
		"count":   len(results),
		"query":   req.Query,
	})
}

func (h *ConversationHandler) ExportConversations(c *fiber.Ctx) error {
	conversations := h.activity.Conversations(1000, 0)

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	writer.Write([]string{"id", "timestamp", "client_message", "ai_reply", "sentiment", "confidence"})
	for _, conv := range conversations {
		writer.Write([]string{
			strconv.Itoa(conv.ID),
			conv.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
			conv.ClientMessage,
			conv.AIReply,
			string(conv.Sentiment.Sentiment),
			strconv.FormatFloat(conv.Confidence.Score, 'f', 2, 64),
		})
	}
	writer.Flush()

	if err := writer.Error(); err != nil {
		logger.Error("Failed to export conversations", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to export conversations",
		})
	}

	c.Set("Content-Type", "text/csv")
	c.Set("Content-Disposition", "attachment; filename=conversations.csv")
	return c.Send(buf.Bytes())
}
