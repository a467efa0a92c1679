// Package handler provides HTTP handlers for the API.
package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"game-recommendation-service/internal/app/service"
	"game-recommendation-service/internal/domain"
	"game-recommendation-service/internal/transport/httpserver/dto"
	"game-recommendation-service/internal/transport/httpserver/middleware"
	"game-recommendation-service/internal/validator"
)

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals(middleware.RequestIDKey).(string)
	return id
}

func validationFailed(c *fiber.Ctx, err error) error {
	var details validator.ValidationErrors
	if !errors.As(err, &details) {
		return badRequest(c, err.Error())
	}

	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error:   "validation failed",
		Code:    "VALIDATION_ERROR",
		Details: details,
	})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: msg,
		Code:  "INVALID_PARAMS",
	})
}

// serviceError maps a service error to a response. Unknown errors are
// logged and reported as 500 without their message.
func serviceError(c *fiber.Ctx, logger *zap.Logger, op string, err error) error {
	status, code := fiber.StatusInternalServerError, "INTERNAL_ERROR"
	msg := op + " failed"

	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		status, code, msg = fiber.StatusBadRequest, "VALIDATION_ERROR", err.Error()
	case errors.Is(err, service.ErrSyncInProgress):
		status, code, msg = fiber.StatusConflict, "SYNC_IN_PROGRESS", err.Error()
	case errors.Is(err, service.ErrNoCatalogs), errors.Is(err, service.ErrNoLibraryProvider):
		status, code, msg = fiber.StatusServiceUnavailable, "PROVIDER_DISABLED", err.Error()
	case errors.Is(err, service.ErrCatalogsUnavailable):
		status, code, msg = fiber.StatusBadGateway, "PROVIDERS_UNAVAILABLE", service.ErrCatalogsUnavailable.Error()
	}

	fields := []zap.Field{zap.String("op", op), zap.String("request_id", requestID(c)), zap.Error(err)}
	if status >= 500 {
		logger.Error("request failed", fields...)
	} else {
		logger.Debug("request rejected", fields...)
	}

	return c.Status(status).JSON(dto.ErrorResponse{Error: msg, Code: code})
}
