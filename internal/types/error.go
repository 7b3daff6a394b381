package types

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// ErrorType classifies an AppError for transport mapping and callers
// that branch on failure class.
type ErrorType string

const (
	ErrorTypeValidation             ErrorType = "validation"
	ErrorTypeNotFound               ErrorType = "not_found"
	ErrorTypeForbidden              ErrorType = "forbidden"
	ErrorTypeInsufficientPermission ErrorType = "insufficient_permission"
	ErrorTypeConflict               ErrorType = "conflict"
	ErrorTypeExternalService        ErrorType = "external_service"
	ErrorTypeParsing                ErrorType = "parsing"
	ErrorTypeDataIntegrity          ErrorType = "data_integrity"
	ErrorTypeUnexpected             ErrorType = "unexpected"
)

// AppError is the error currency of the service layer. Handlers map it to
// the HTTP error envelope; everything else inspects Type.
type AppError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s [type: %s]: %v", e.Message, e.Type, e.Err)
	}
	return fmt.Sprintf("%s [type: %s]", e.Message, e.Type)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the error type to a response status code.
func (e *AppError) HTTPStatus() int {
	switch e.Type {
	case ErrorTypeValidation:
		return fiber.StatusBadRequest
	case ErrorTypeNotFound:
		return fiber.StatusNotFound
	case ErrorTypeForbidden, ErrorTypeInsufficientPermission:
		return fiber.StatusForbidden
	case ErrorTypeConflict:
		return fiber.StatusConflict
	case ErrorTypeExternalService, ErrorTypeParsing:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{Type: ErrorTypeValidation, Message: message}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{Type: ErrorTypeNotFound, Message: message}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{Type: ErrorTypeForbidden, Message: message}
}

func NewInsufficientPermissionError(message string) *AppError {
	return &AppError{Type: ErrorTypeInsufficientPermission, Message: message}
}

func NewConflictError(message string) *AppError {
	return &AppError{Type: ErrorTypeConflict, Message: message}
}

func NewExternalServiceError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeExternalService, Message: message, Err: err}
}

func NewParsingError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeParsing, Message: message, Err: err}
}

func NewDataIntegrityError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeDataIntegrity, Message: message, Err: err}
}

func NewUnexpectedError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeUnexpected, Message: message, Err: err}
}

// IsErrorType reports whether err is an AppError of the given type.
func IsErrorType(err error, t ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == t
	}
	return false
}
