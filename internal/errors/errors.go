package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a categorized error code
type ErrorCode string

const (
	// Validation errors
	CodeValidation   ErrorCode = "VALIDATION_ERROR"
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// Catalog errors
	CodeCatalog            ErrorCode = "CATALOG_ERROR"
	CodeCatalogFailure     ErrorCode = "CATALOG_FAILURE" // explicit failure discriminant from the remote
	CodeCatalogUnavailable ErrorCode = "CATALOG_UNAVAILABLE"
	CodeCatalogTimeout     ErrorCode = "CATALOG_TIMEOUT"
	CodeRateLimited        ErrorCode = "RATE_LIMITED"
	CodeNotFound           ErrorCode = "NOT_FOUND"

	// Search errors
	CodeEmptyOutcome   ErrorCode = "EMPTY_OUTCOME"
	CodeClassification ErrorCode = "CLASSIFICATION_ERROR"

	// Session errors
	CodeSessionNotFound ErrorCode = "SESSION_NOT_FOUND"

	// Database errors
	CodeDatabase           ErrorCode = "DATABASE_ERROR"
	CodeDatabaseConnection ErrorCode = "DATABASE_CONNECTION_ERROR"

	// Config errors
	CodeConfig ErrorCode = "CONFIG_ERROR"

	// Internal errors
	CodeInternal ErrorCode = "INTERNAL_ERROR"
	CodeUnknown  ErrorCode = "UNKNOWN_ERROR"
)

// AppError represents a structured application error
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// CatalogError creates a catalog error carrying the offending term
func CatalogError(term, message string, err error) *AppError {
	return Wrap(err, CodeCatalog, message).WithContext("term", term)
}

// EmptyOutcomeError creates the user-facing error for a run that
// produced zero candidates; the message references the literal query
func EmptyOutcomeError(query string) *AppError {
	return New(CodeEmptyOutcome,
		fmt.Sprintf("No movies found for %q. Try a different search term.", query)).
		WithContext("query", query)
}

// SessionNotFoundError creates a session lookup error
func SessionNotFoundError(id string) *AppError {
	return New(CodeSessionNotFound, fmt.Sprintf("session not found: %s", id))
}

// NotFoundError creates a not found error
func NotFoundError(resource, identifier string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found: %s", resource, identifier))
}

// DatabaseError creates a database error
func DatabaseError(message string, err error) *AppError {
	return Wrap(err, CodeDatabase, message)
}

// ConfigError creates a configuration error
func ConfigError(message string, err error) *AppError {
	if err != nil {
		return Wrap(err, CodeConfig, message)
	}
	return New(CodeConfig, message)
}

// IsRetryable determines if an error is retryable
func IsRetryable(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case CodeCatalogTimeout, CodeCatalogUnavailable, CodeRateLimited,
			CodeDatabaseConnection:
			return true
		}
	}
	return false
}

// GetErrorCode extracts the error code from an error
func GetErrorCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}
