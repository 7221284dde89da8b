// Package errors provides the unified error type and factory functions for
// ClaimLens.  Every layer (domain, application, infrastructure, interfaces)
// uses AppError as the single carrier for structured error information,
// enabling consistent HTTP responses, logging, and metrics labels.
package errors

import (
	"errors"
	"fmt"
)

// ─────────────────────────────────────────────────────────────────────────────
// AppError — the canonical error type
// ─────────────────────────────────────────────────────────────────────────────

// AppError is the single structured error type used throughout ClaimLens.
// It satisfies the standard error interface and supports Go 1.13+ wrapping so
// that errors.Is / errors.As / errors.Unwrap work transparently across layers.
//
// Usage:
//
//	return errors.New(errors.ErrCodeClaimNotFound, "claim 7f3a… not found")
//	return errors.Wrap(repoErr, errors.ErrCodeDatabaseError, "load claim snapshot")
//	return errors.NewUnknownDocumentTypeError("ration_card").WithDetail("registry has 6 types")
type AppError struct {
	// Code uniquely identifies the failure category.
	Code ErrorCode

	// Message is the primary human-readable description, suitable for API
	// responses returned to callers.
	Message string

	// Detail carries supplementary context (IDs, parameters) that aids
	// debugging without leaking internals to end users.
	Detail string

	// Cause is the underlying error, enabling errors.Is / errors.As
	// traversal of the full chain.
	Cause error
}

// Error implements the standard error interface.
// Format: "[<code>] <message>: <detail>", with the detail segment omitted
// when Detail is empty.
func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Detail)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *AppError) Unwrap() error { return e.Cause }

// WithDetail returns a shallow copy of the receiver with Detail set.
// Safe to call on a nil pointer.
func (e *AppError) WithDetail(detail string) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Detail = detail
	return &clone
}

// WithCause returns a shallow copy of the receiver with Cause set.
func (e *AppError) WithCause(err error) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Cause = err
	return &clone
}

// ─────────────────────────────────────────────────────────────────────────────
// Factories
// ─────────────────────────────────────────────────────────────────────────────

// New constructs a fresh AppError with the given code and message.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Newf constructs a fresh AppError with a formatted message.
func Newf(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap constructs an AppError that wraps an existing error.  If err is nil,
// Wrap returns nil so it can be used inline on call results.  When err is
// already an *AppError and code is ErrCodeInternal, the original code is
// preserved so that cross-layer propagation does not lose the domain
// classification.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	if code == ErrCodeInternal {
		var ae *AppError
		if errors.As(err, &ae) {
			code = ae.Code
		}
	}
	return &AppError{Code: code, Message: message, Cause: err}
}

// ─────────────────────────────────────────────────────────────────────────────
// Chain inspection
// ─────────────────────────────────────────────────────────────────────────────

// IsCode reports whether any error in err's chain is an *AppError with the
// given code.
func IsCode(err error, code ErrorCode) bool {
	for err != nil {
		var ae *AppError
		if errors.As(err, &ae) && ae.Code == code {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// GetCode extracts the ErrorCode from the first *AppError in err's chain,
// or ErrCodeInternal when none is present.  Useful in middleware that emits
// a single code as a metric label.
func GetCode(err error) ErrorCode {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ErrCodeInternal
}

// IsNotFound reports whether err's chain carries any not-found code.
func IsNotFound(err error) bool {
	return IsCode(err, ErrCodeNotFound) ||
		IsCode(err, ErrCodeDocumentNotFound) ||
		IsCode(err, ErrCodeClaimNotFound)
}

// IsValidation reports whether err's chain carries a caller-input code.
func IsValidation(err error) bool {
	return IsCode(err, ErrCodeValidation) ||
		IsCode(err, ErrCodeBadRequest) ||
		IsCode(err, ErrCodeUnknownDocumentType) ||
		IsCode(err, ErrCodeUnsupportedFileKind) ||
		IsCode(err, ErrCodeDocumentTooLarge) ||
		IsCode(err, ErrCodeInvalidReview)
}

// IsConflict reports whether err's chain carries a conflict code.
func IsConflict(err error) bool { return IsCode(err, ErrCodeConflict) }

// IsTimeout reports whether err's chain carries a timeout code.
func IsTimeout(err error) bool { return IsCode(err, ErrCodeTimeout) }
