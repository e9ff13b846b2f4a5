// Package errors provides error code definitions shared across the Quill API.
package errors

import "fmt"

// ErrorCode is a stable machine-readable error identifier.
type ErrorCode string

const (
	// General errors
	ErrInternal   ErrorCode = "INTERNAL_ERROR"
	ErrInvalid    ErrorCode = "INVALID_INPUT"
	ErrNotFound   ErrorCode = "NOT_FOUND"
	ErrDuplicate  ErrorCode = "DUPLICATE"
	ErrValidation ErrorCode = "VALIDATION_ERROR"

	// Storage errors
	ErrStorage    ErrorCode = "STORAGE_ERROR"
	ErrMigration  ErrorCode = "MIGRATION_FAILED"
	ErrConstraint ErrorCode = "CONSTRAINT_VIOLATION"

	// Post errors
	ErrPostNotFound    ErrorCode = "POST_NOT_FOUND"
	ErrPostInvalid     ErrorCode = "POST_INVALID"
	ErrVersionNotFound ErrorCode = "VERSION_NOT_FOUND"

	// Taxonomy errors
	ErrTagNotFound      ErrorCode = "TAG_NOT_FOUND"
	ErrTagInvalid       ErrorCode = "TAG_INVALID"
	ErrCategoryNotFound ErrorCode = "CATEGORY_NOT_FOUND"

	// Page and portfolio errors
	ErrPageNotFound  ErrorCode = "PAGE_NOT_FOUND"
	ErrEntryNotFound ErrorCode = "ENTRY_NOT_FOUND"
)

// AppError carries an error code, a human-readable message and an optional cause.
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap wraps an existing error with an error code.
func Wrap(code ErrorCode, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// Is checks if an error carries a specific code.
func Is(err error, code ErrorCode) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == code
	}
	return false
}

// CodeOf returns the error code of err, or ErrInternal for plain errors.
func CodeOf(err error) ErrorCode {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return ErrInternal
}
