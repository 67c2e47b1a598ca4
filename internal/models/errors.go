package models

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes surfaced to callers. All failures are synchronous and terminal
// for the request; nothing here triggers an internal retry.
const (
	CodeNotFound       = "NOT_FOUND"
	CodeNotOwner       = "NOT_OWNER"
	CodeInvalidState   = "INVALID_STATE"
	CodeAlreadyLiked   = "ALREADY_LIKED"
	CodeNotLiked       = "NOT_LIKED"
	CodeContentTooLong = "CONTENT_TOO_LONG"
	CodeNotAMember     = "NOT_A_MEMBER"
	CodeValidation     = "VALIDATION_ERROR"
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeInternal       = "INTERNAL_ERROR"
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Predefined error constructors
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewNotOwnerError(message string) *AppError {
	return &AppError{Code: CodeNotOwner, Message: message}
}

func NewInvalidStateError(message string) *AppError {
	return &AppError{Code: CodeInvalidState, Message: message}
}

func NewAlreadyLikedError() *AppError {
	return &AppError{Code: CodeAlreadyLiked, Message: "Post is already liked by this user"}
}

func NewNotLikedError() *AppError {
	return &AppError{Code: CodeNotLiked, Message: "Post is not liked by this user"}
}

func NewContentTooLongError(limit int) *AppError {
	return &AppError{
		Code:    CodeContentTooLong,
		Message: fmt.Sprintf("Content too long (max %d characters)", limit),
	}
}

func NewNotAMemberError() *AppError {
	return &AppError{Code: CodeNotAMember, Message: "Author holds no role in the referenced organization"}
}

func NewValidationError(message string) *AppError {
	return &AppError{Code: CodeValidation, Message: message}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{Code: CodeUnauthorized, Message: message}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// statusByCode maps application error codes to HTTP statuses.
var statusByCode = map[string]int{
	CodeNotFound:       fiber.StatusNotFound,
	CodeNotOwner:       fiber.StatusForbidden,
	CodeInvalidState:   fiber.StatusConflict,
	CodeAlreadyLiked:   fiber.StatusConflict,
	CodeNotLiked:       fiber.StatusConflict,
	CodeContentTooLong: fiber.StatusBadRequest,
	CodeNotAMember:     fiber.StatusForbidden,
	CodeValidation:     fiber.StatusBadRequest,
	CodeUnauthorized:   fiber.StatusUnauthorized,
	CodeInternal:       fiber.StatusInternalServerError,
}

// RespondWithError creates a standardized error response with the given status.
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	if appErr, ok := err.(*AppError); ok {
		response = ErrorResponse{
			Error: appErr.Message,
			Code:  appErr.Code,
		}
		if appErr.Err != nil {
			response.Details = appErr.Err.Error()
		}
	} else {
		response = ErrorResponse{
			Error: err.Error(),
		}
	}

	return c.Status(status).JSON(response)
}

// RespondWithAppError derives the HTTP status from the error's code.
// Non-AppError values map to 500.
func RespondWithAppError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	if appErr, ok := err.(*AppError); ok {
		if s, known := statusByCode[appErr.Code]; known {
			status = s
		}
	}
	return RespondWithError(c, status, err)
}
