// Package errors provides error code definitions for the sheetsync core.
package errors

import "fmt"

// ErrorCode represents a unique error code surfaced to callers.
type ErrorCode string

const (
	// General errors
	ErrInternal   ErrorCode = "INTERNAL_ERROR"
	ErrInvalid    ErrorCode = "INVALID_INPUT"
	ErrValidation ErrorCode = "VALIDATION_ERROR"

	// Color errors
	ErrNormalization ErrorCode = "NORMALIZATION_ERROR"

	// Date errors
	ErrParse      ErrorCode = "PARSE_ERROR"
	ErrInvalidDay ErrorCode = "INVALID_DAY"
	ErrFutureDate ErrorCode = "FUTURE_DATE"

	// Session errors
	ErrNoActiveSession ErrorCode = "NO_ACTIVE_SESSION"

	// Boundary errors
	ErrConfig     ErrorCode = "CONFIG_ERROR"
	ErrDatabase   ErrorCode = "DATABASE_ERROR"
	ErrSheetFetch ErrorCode = "SHEET_FETCH_FAILED"
	ErrExport     ErrorCode = "EXPORT_FAILED"
)

// AppError represents an application error with code and message.
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
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new AppError with a formatted message.
func Newf(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an existing error with an error code.
func Wrap(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Is checks if an error is of a specific code.
func Is(err error, code ErrorCode) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == code
	}
	return false
}
