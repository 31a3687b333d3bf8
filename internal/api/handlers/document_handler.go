package handlers

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/issa-compass/backend/internal/documents"
	"github.com/issa-compass/backend/internal/store/activitylog"
	"github.com/issa-compass/backend/internal/store/models"
	"github.com/issa-compass/backend/pkg/logger"
	"github.com/issa-compass/backend/pkg/utils"
)

type DocumentHandler struct {
	activity *activitylog.Log
}

func NewDocumentHandler(activity *activitylog.Log) *DocumentHandler {
	return &DocumentHandler{activity: activity}
}

func (h *DocumentHandler) UploadDocument(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "file is required",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error("Failed to open uploaded file", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read upload",
		})
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		logger.Error("Failed to read uploaded file", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read upload",
		})
	}

	fileType := fileHeader.Header.Get("Content-Type")
	analysis := documents.Analyze(content, fileHeader.Filename, fileType)

	doc := h.activity.RecordDocument(models.Document{
		Filename:    fileHeader.Filename,
		FileType:    fileType,
		Size:        len(content),
		Fingerprint: utils.Fingerprint(content),
		Analysis:    analysis,
	})

	logger.Info("Document analyzed",
		zap.Int("document_id", doc.ID),
		zap.String("filename", doc.Filename),
		zap.String("file_type", doc.FileType),
		zap.Int("size", doc.Size),
	)

	return c.JSON(fiber.Map{
		"success":     true,
		"document_id": doc.ID,
		"filename":    doc.Filename,
		"analysis":    analysis,
	})
}

func (h *DocumentHandler) ListDocuments(c *fiber.Ctx) error {
	docs := h.activity.Documents()

	return c.JSON(fiber.Map{
		"documents": docs,
		"count":     len(docs),
	})
}
