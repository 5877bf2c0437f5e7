package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/windassist/windpark-api/internal/application/dto"
	"github.com/windassist/windpark-api/internal/domain"
)

// respondError maps domain sentinel errors onto HTTP statuses. Wrapped
// errors keep their context in the message.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "STATE_CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicateArchive):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE_ARCHIVE", Message: err.Error()})
	case errors.Is(err, domain.ErrMissingConfiguration):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "MISSING_CONFIGURATION", Message: err.Error()})
	case errors.Is(err, domain.ErrIntegrityViolation):
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTEGRITY_VIOLATION", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
