// Package handlers contains the HTTP handlers of the analysis API.
package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/neuroheart/hrv/internal/cache"
	"github.com/neuroheart/hrv/internal/config"
	"github.com/neuroheart/hrv/internal/logging"
	"github.com/neuroheart/hrv/internal/models"
	"github.com/neuroheart/hrv/internal/services"
	"github.com/neuroheart/hrv/internal/store"
)

// Handler contains all HTTP handlers
type Handler struct {
	logger *logging.Logger
	// Services
	analysisService *services.AnalysisService
	dailyService    *services.DailyService
}

// New creates a new handler instance
func New(logger *logging.Logger, st store.HeartbeatStore, c *cache.AnalysisCache, cfg config.AnalysisConfig) *Handler {
	return &Handler{
		logger:          logger,
		analysisService: services.NewAnalysisService(logger, st, c, cfg),
		dailyService:    services.NewDailyService(logger, st, cfg),
	}
}

// serviceStatus maps service error codes to HTTP status codes.
func serviceStatus(code string) int {
	switch code {
	case "INVALID_RANGE", "INVALID_USER_ID", "INVALID_DATE", "INVALID_DATE_RANGE", "MISSING_USER_ID":
		return fiber.StatusBadRequest
	case "NO_DATA":
		return fiber.StatusNotFound
	case "STORE_UNAVAILABLE":
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// serviceError renders a service layer error as the error envelope.
func serviceError(c *fiber.Ctx, err error) error {
	if svcErr, ok := err.(*services.ServiceError); ok {
		status := serviceStatus(svcErr.Code)
		if status >= fiber.StatusInternalServerError {
			logging.ErrorCtx(c.UserContext(), "Service error",
				"code", svcErr.Code,
				"path", c.Path(),
				"error", err)
		}
		return c.Status(status).JSON(models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    svcErr.Code,
				Message: svcErr.Message,
				Details: svcErr.Details,
			},
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "INTERNAL_ERROR",
			Message: err.Error(),
		},
	})
}
