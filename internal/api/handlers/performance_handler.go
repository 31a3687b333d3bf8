package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/issa-compass/backend/internal/store/activitylog"
)

type PerformanceHandler struct {
	activity *activitylog.Log
}

func NewPerformanceHandler(activity *activitylog.Log) *PerformanceHandler {
	return &PerformanceHandler{activity: activity}
}

func (h *PerformanceHandler) GetPerformance(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 100)

	samples := h.activity.Performance(limit)

	recent := samples
	if len(recent) > 20 {
		recent = recent[len(recent)-20:]
	}

	return c.JSON(fiber.Map{
		"summary":           h.activity.PerformanceSummary(),
		"recent_metrics":    recent,
		"total_data_points": len(samples),
	})
}
