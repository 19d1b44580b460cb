package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// Machine-readable error kinds returned alongside the human message
const (
	ErrValidation      = "VALIDATION_ERROR"
	ErrUnauthorized    = "UNAUTHORIZED"
	ErrForbidden       = "FORBIDDEN"
	ErrNotFound        = "NOT_FOUND"
	ErrConflict        = "CONFLICT"
	ErrExternalService = "EXTERNAL_SERVICE_ERROR"
)

func JsonResponse(c *fiber.Ctx, statusCode int, status bool, message string, data interface{}) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

// ErrorResponse returns a failure envelope carrying an error kind
func ErrorResponse(c *fiber.Ctx, statusCode int, kind, message string) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status":  false,
		"error":   kind,
		"message": message,
		"data":    nil,
	})
}

func ValidationErrorResponse(c *fiber.Ctx, errors map[string]string) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
		"status":  false,
		"error":   ErrValidation,
		"message": "Validation failed!",
		"data":    errors,
	})
}
