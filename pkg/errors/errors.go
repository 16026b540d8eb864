package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorType represents different types of errors in the system
type ErrorType string

const (
	// ErrorTypeNotFound indicates a resource was not found
	ErrorTypeNotFound ErrorType = "NOT_FOUND"

	// ErrorTypeValidation indicates a validation error
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeConflict indicates a conflict with existing state
	ErrorTypeConflict ErrorType = "CONFLICT"

	// ErrorTypeUnauthorized indicates missing or expired authentication
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"

	// ErrorTypeForbidden indicates the caller lacks permission
	ErrorTypeForbidden ErrorType = "FORBIDDEN"

	// ErrorTypeInternal indicates an internal error
	ErrorTypeInternal ErrorType = "INTERNAL"

	// ErrorTypeExternal indicates an error returned by the upstream backend
	ErrorTypeExternal ErrorType = "EXTERNAL"

	// ErrorTypeUnavailable indicates the upstream backend could not be reached
	ErrorTypeUnavailable ErrorType = "UNAVAILABLE"
)

// AppError represents an application error
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
	}
}

// NewConflictError creates a new conflict error
func NewConflictError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeConflict,
		Message: message,
	}
}

// NewUnauthorizedError creates a new unauthorized error
func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeUnauthorized,
		Message: message,
	}
}

// NewForbiddenError creates a new forbidden error
func NewForbiddenError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeForbidden,
		Message: message,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Err:     err,
	}
}

// NewExternalError creates a new upstream backend error
func NewExternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeExternal,
		Message: message,
		Err:     err,
	}
}

// NewUnavailableError creates a new transport failure error
func NewUnavailableError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeUnavailable,
		Message: message,
		Err:     err,
	}
}

// FromStatus maps an upstream HTTP status and message to an AppError.
// The message is kept for logging; user-facing text comes from UserMessage.
func FromStatus(status int, message string) *AppError {
	switch {
	case status == http.StatusUnauthorized:
		return NewUnauthorizedError("authentication required")
	case status == http.StatusForbidden:
		return NewForbiddenError("permission denied")
	case status == http.StatusNotFound:
		return NewNotFoundError("resource not found")
	case status == http.StatusConflict:
		return &AppError{Type: ErrorTypeConflict, Message: message}
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return &AppError{Type: ErrorTypeValidation, Message: message}
	case status >= 500:
		return NewExternalError("upstream error", fmt.Errorf("status %d: %s", status, message))
	default:
		return NewExternalError(fmt.Sprintf("unexpected status %d", status), nil)
	}
}

// IsType reports whether err is an AppError of the given type.
func IsType(err error, t ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == t
	}
	return false
}

// Type returns the AppError type for err, defaulting to INTERNAL.
func Type(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeInternal
}

// leakIndicators are fragments of backend/storage internals that must never
// reach a user. Any message containing one is replaced wholesale.
var leakIndicators = []string{
	"null value",
	"constraint",
	"sql",
	"database",
	"column",
	"relation",
	"duplicate key",
}

const genericMessage = "Something went wrong. Please try again."

// UserMessage returns a safe, user-facing message for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var appErr *AppError
	if !errors.As(err, &appErr) {
		return genericMessage
	}

	switch appErr.Type {
	case ErrorTypeUnauthorized:
		return "Please sign in to continue."
	case ErrorTypeForbidden:
		return "You do not have permission to perform this action."
	case ErrorTypeNotFound:
		return "Resource not found."
	case ErrorTypeUnavailable:
		return "Network error. Please check your connection and try again."
	case ErrorTypeExternal, ErrorTypeInternal:
		return "Server error. Please try again later."
	}

	message := appErr.Message
	if message == "" {
		if appErr.Type == ErrorTypeConflict {
			return "This action has already been completed."
		}
		return "Invalid data. Please check your input."
	}

	lower := strings.ToLower(message)
	for _, indicator := range leakIndicators {
		if strings.Contains(lower, indicator) {
			return genericMessage
		}
	}
	return message
}
