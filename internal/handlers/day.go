package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/neuroheart/hrv/internal/models"
)

// Day handles single-day HRV view requests
// GET /v1/hrv/day?user_id=xxx&date=2026-08-20
func (h *Handler) Day(c *fiber.Ctx) error {
	userID := c.Query("user_id")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "MISSING_USER_ID",
				Message: "user_id query parameter is required",
			},
		})
	}
	date := c.Query("date", time.Now().UTC().Format("2006-01-02"))

	result, err := h.dailyService.Day(c.Context(), userID, date)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(result)
}

// DayRange handles multi-day HRV view requests
// GET /v1/hrv/range?user_id=xxx&start_date=2026-08-01&end_date=2026-08-20
func (h *Handler) DayRange(c *fiber.Ctx) error {
	userID := c.Query("user_id")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "MISSING_USER_ID",
				Message: "user_id query parameter is required",
			},
		})
	}
	startDate := c.Query("start_date")
	endDate := c.Query("end_date")
	if startDate == "" || endDate == "" {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_DATE_RANGE",
				Message: "start_date and end_date query parameters are required",
			},
		})
	}

	result, err := h.dailyService.Range(c.Context(), userID, startDate, endDate)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(result)
}
