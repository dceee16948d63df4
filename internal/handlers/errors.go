package handlers

import (
	"errors"
	"matchos/internal/service"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrEmailTaken):
		return fiber.StatusConflict
	case errors.Is(err, service.ErrInvalidCredentials):
		return fiber.StatusUnauthorized
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrInvalidPrivacyLevel),
		errors.Is(err, service.ErrUnknownBundle),
		errors.Is(err, service.ErrInsufficientCredits):
		return fiber.StatusBadRequest
	case errors.Is(err, service.ErrMintUnavailable):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes {"error": ...}. Unexpected errors are logged and
// reported with a generic message.
func respondError(c fiber.Ctx, logger *zap.Logger, err error, fallback string) error {
	status := statusFor(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		logger.Error(fallback, zap.String("path", c.Path()), zap.Error(err))
		msg = fallback
	}
	return c.Status(status).JSON(fiber.Map{
		"error": msg,
	})
}

func badRequest(c fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": msg,
	})
}
