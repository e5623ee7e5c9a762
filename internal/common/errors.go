package common

import (
	"errors"
	"fmt"
)

// Error kinds. ErrFatal marks failures that abort the whole run (missing
// credential or parsing format, store connect failure, a failed or malformed
// completion mid-batch). ErrRecovered marks per-item failures that are
// recorded and continued past. Callers branch with errors.Is.
var (
	ErrFatal        = errors.New("fatal run error")
	ErrRecovered    = errors.New("recovered error")
	ErrInvalidInput = errors.New("invalid input")
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
	kind    error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches the error's kind so the classification survives wrapping.
func (e *AppError) Is(target error) bool {
	return target == e.kind
}

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewFatal builds an AppError that matches errors.Is(err, ErrFatal).
func NewFatal(code, message string, cause error) *AppError {
	return &AppError{Code: code, Message: message, Cause: cause, kind: ErrFatal}
}

// NewRecovered builds an AppError that matches errors.Is(err, ErrRecovered).
func NewRecovered(code, message string, cause error) *AppError {
	return &AppError{Code: code, Message: message, Cause: cause, kind: ErrRecovered}
}

// IsFatal reports whether err should abort the run.
func IsFatal(err error) bool {
	return errors.Is(err, ErrFatal)
}
