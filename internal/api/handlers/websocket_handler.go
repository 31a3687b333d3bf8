package handlers

import (
	"context"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/issa-compass/backend/internal/assistant"
	"github.com/issa-compass/backend/pkg/logger"
)

type WebSocketHandler struct {
	service *assistant.Service
}

func NewWebSocketHandler(service *assistant.Service) *WebSocketHandler {
	return &WebSocketHandler{service: service}
}

// HandleConnection runs one chat session. History accumulates per
// connection only; nothing survives a reconnect.
func (h *WebSocketHandler) HandleConnection(c *websocket.Conn) {
	logger.Info("WebSocket connection established")

	defer func() {
		c.Close()
		logger.Info("WebSocket connection closed")
	}()

	var history []assistant.Message

	for {
		var msg struct {
			Type     string `json:"type"`
			Content  string `json:"content"`
			Provider string `json:"provider"`
		}

		err := c.ReadJSON(&msg)
		if err != nil {
			logger.Error("Failed to read WebSocket message", zap.Error(err))
			break
		}

		if msg.Type != "chat" || msg.Content == "" {
			continue
		}

		logger.Info("Processing WebSocket chat message", zap.String("provider", msg.Provider))

		result, err := h.streamReply(c, msg.Content, msg.Provider, history)
		if err != nil {
			logger.Error("Failed to stream reply", zap.Error(err))
			h.sendError(c, "Failed to generate reply")
			continue
		}

		history = append(history,
			assistant.Message{Role: "client", Message: msg.Content},
			assistant.Message{Role: "consultant", Message: result.Reply},
		)
	}
}

func (h *WebSocketHandler) streamReply(c *websocket.Conn, content, provider string, history []assistant.Message) (*assistant.ReplyResult, error) {
	ctx := context.Background()

	h.sendChunk(c, "status", "Generating reply...")

	result, err := h.service.GenerateReply(ctx, assistant.ReplyRequest{
		ClientSequence:   []string{content},
		ChatHistory:      history,
		Provider:         provider,
		IncludeAnalytics: true,
	})
	if err != nil {
		return nil, err
	}

	words := splitIntoWords(result.Reply)
	for i, word := range words {
		chunk := word
		if i < len(words)-1 {
			chunk += " "
		}

		if err := h.sendChunk(c, "chunk", chunk); err != nil {
			return nil, err
		}
	}

	if err := h.sendComplete(c, result); err != nil {
		return nil, err
	}

	return result, nil
}

func (h *WebSocketHandler) sendChunk(c *websocket.Conn, msgType, content string) error {
	msg := map[string]interface{}{
		"type":    msgType,
		"content": content,
	}

	return c.WriteJSON(msg)
}

func (h *WebSocketHandler) sendComplete(c *websocket.Conn, result *assistant.ReplyResult) error {
	msg := map[string]interface{}{
		"type":         "complete",
		"reply":        result.Reply,
		"responseTime": result.ResponseTime,
		"provider":     result.Provider,
		"sentiment":    result.Sentiment,
		"confidence":   result.Confidence,
	}

	return c.WriteJSON(msg)
}

func (h *WebSocketHandler) sendError(c *websocket.Conn, errorMsg string) {
	msg := map[string]interface{}{
		"type":  "error",
		"error": errorMsg,
	}

	c.WriteJSON(msg)
}

func splitIntoWords(text string) []string {
	words := []string{}
	currentWord := ""

	for _, char := range text {
		if char == ' ' || char == '\n' {
			if currentWord != "" {
				words = append(words, currentWord)
				currentWord = ""
			}
			if char == '\n' {
				words = append(words, "\n")
			}
		} else {
			currentWord += string(char)
		}
	}

	if currentWord != "" {
		words = append(words, currentWord)
	}

	return words
}
