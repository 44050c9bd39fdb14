package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/neuroheart/hrv/internal/models"
)

// Analysis handles ranged HRV analysis requests
// GET /v1/hrv/analysis?user_id=xxx&range=7d
func (h *Handler) Analysis(c *fiber.Ctx) error {
	userID := c.Query("user_id")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "MISSING_USER_ID",
				Message: "user_id query parameter is required",
			},
		})
	}
	rangeStr := c.Query("range", "7d")

	result, err := h.analysisService.Analyze(c.Context(), userID, rangeStr)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(result)
}
