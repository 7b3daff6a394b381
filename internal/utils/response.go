package utils

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/pantrio/pantrio/internal/types"
)

// SuccessResponse sends a standard success response
func SuccessResponse(c *fiber.Ctx, data interface{}, status int) error {
	return c.Status(status).JSON(data)
}

// ErrorResponse sends a standard error response
func ErrorResponse(c *fiber.Ctx, message string, status int, errorType string) error {
	return c.Status(status).JSON(fiber.Map{
		"status":    status,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      errorType,
	})
}

// AppErrorResponse maps a service error onto the standard error envelope.
// Anything that is not an AppError is reported as an unexpected failure
// without leaking its message to the caller.
func AppErrorResponse(c *fiber.Ctx, err error) error {
	var appErr *types.AppError
	if errors.As(err, &appErr) {
		return ErrorResponse(c, appErr.Message, appErr.HTTPStatus(), string(appErr.Type))
	}
	return ErrorResponse(c, "internal server error", fiber.StatusInternalServerError, string(types.ErrorTypeUnexpected))
}

// NotFoundResponse sends a 404 not found response
func NotFoundResponse(c *fiber.Ctx, message string) error {
	return ErrorResponse(c, message, fiber.StatusNotFound, string(types.ErrorTypeNotFound))
}

// PaginatedResponse sends a listing page with its total count
func PaginatedResponse(c *fiber.Ctx, items interface{}, total int64, page, limit int) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"items": items,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// ErrorResponseStruct defines the schema for error responses
type ErrorResponseStruct struct {
	Status    int    `json:"status"`
	Message   string `json:"message"`
	Ok        bool   `json:"ok"`
	Timestamp string `json:"timestamp"`
	URL       string `json:"url"`
	Type      string `json:"type,omitempty"`
}

// PaginatedResponseStruct defines the schema for listing responses
type PaginatedResponseStruct struct {
	Items interface{} `json:"items"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}
