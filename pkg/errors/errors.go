// Package errors provides structured error handling for the application
// Typed failures let the surrounding application map planning outcomes
// to user-facing messages and status codes.
package errors

import (
	"fmt"
	"net/http"
)

// ErrorCode represents an error code
type ErrorCode string

// Error codes surfaced by the planning core
const (
	// Client errors (4xx)
	CodeBadRequest       ErrorCode = "BAD_REQUEST"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeForbidden        ErrorCode = "FORBIDDEN"
	CodeNotFound         ErrorCode = "NOT_FOUND"

	// Server errors (5xx)
	CodeInternal             ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError        ErrorCode = "DATABASE_ERROR"
	CodeExternalServiceError ErrorCode = "EXTERNAL_SERVICE_ERROR"

	// Planning errors
	CodePlanNotFound           ErrorCode = "PLAN_NOT_FOUND"
	CodeSlotNotFound           ErrorCode = "SLOT_NOT_FOUND"
	CodeInsufficientCandidates ErrorCode = "INSUFFICIENT_CANDIDATES"
	CodeNoSafeAlternative      ErrorCode = "NO_SAFE_ALTERNATIVE"
)

// AppError represents an application error with structured information
type AppError struct {
	Code     ErrorCode              `json:"code"`
	Message  string                 `json:"message"`
	Details  string                 `json:"details,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
	Cause    error                  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// StatusCode returns the appropriate HTTP status code
func (e *AppError) StatusCode() int {
	switch e.Code {
	case CodeBadRequest, CodeValidationFailed:
		return http.StatusBadRequest
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound, CodePlanNotFound, CodeSlotNotFound:
		return http.StatusNotFound
	case CodeInsufficientCandidates, CodeNoSafeAlternative:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// WithMetadata adds metadata to the error
func (e *AppError) WithMetadata(key string, value interface{}) *AppError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// WithCause adds a cause error
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message, details string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// Predefined error constructors

// NewValidationError creates a validation error
func NewValidationError(details string) *AppError {
	return NewAppError(CodeValidationFailed, "Validation failed", details)
}

// NewForbiddenError creates a forbidden error. The message is kept
// generic on purpose: ownership failures must not leak whether or what
// the caller tried to reach.
func NewForbiddenError() *AppError {
	return NewAppError(CodeForbidden, "Access forbidden", "")
}

// NewDatabaseError creates a database error
func NewDatabaseError(operation string, cause error) *AppError {
	return NewAppError(
		CodeDatabaseError,
		"Database operation failed",
		fmt.Sprintf("Failed to %s", operation),
	).WithCause(cause)
}

// NewExternalServiceError creates an external service error
func NewExternalServiceError(service string, cause error) *AppError {
	return NewAppError(
		CodeExternalServiceError,
		"External service error",
		fmt.Sprintf("Failed to communicate with %s", service),
	).WithCause(cause)
}

// NewPlanNotFoundError creates a plan not found error
func NewPlanNotFoundError(planID string) *AppError {
	return NewAppError(
		CodePlanNotFound,
		"Meal plan not found",
		fmt.Sprintf("Meal plan with ID %s does not exist", planID),
	).WithMetadata("plan_id", planID)
}

// NewSlotNotFoundError creates a slot not found error
func NewSlotNotFoundError(dayNumber int, mealType string) *AppError {
	return NewAppError(
		CodeSlotNotFound,
		"Plan slot not found",
		fmt.Sprintf("No item exists for day %d %s", dayNumber, mealType),
	).WithMetadata("day_number", dayNumber).WithMetadata("meal_type", mealType)
}

// NewInsufficientCandidatesError creates an insufficient candidates
// error, raised when zero safe recipes survive allergen filtering.
func NewInsufficientCandidatesError() *AppError {
	return NewAppError(
		CodeInsufficientCandidates,
		"Not enough recipes to generate a plan",
		"No allergen-safe recipes match the requested constraints; try relaxing diet type or prep time",
	)
}

// NewNoSafeAlternativeError creates a no safe alternative error for a
// swap that cannot find any replacement.
func NewNoSafeAlternativeError() *AppError {
	return NewAppError(
		CodeNoSafeAlternative,
		"No safe alternative available",
		"Every remaining recipe either conflicts with a registered allergen or is already in the plan",
	)
}

// Wrap wraps an error as an internal error if it's not already an AppError
func Wrap(err error, message string) *AppError {
	if err == nil {
		return nil
	}

	if appErr, ok := err.(*AppError); ok {
		return appErr
	}

	return NewAppError(CodeInternal, message, "").WithCause(err)
}

// Is checks if an error is of a specific error code
func Is(err error, code ErrorCode) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == code
	}
	return false
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return CodeInternal
}
