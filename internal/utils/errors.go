// Package utils provides logging and structured error handling shared by all
// itemscout components.
package utils

import (
	"errors"
	"fmt"
	"time"
)

// ErrorSeverity represents the severity level of an error.
type ErrorSeverity int

const (
	SeverityInfo ErrorSeverity = iota
	SeverityWarning
	SeverityError
	SeverityCritical
)

// String returns the string representation of an error severity.
func (s ErrorSeverity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// ErrorCode categorizes errors so callers can react to the failure class
// rather than to message text. The extraction codes mirror the engine's
// degradation points: a rejected input, a failed product-page fetch, a failed
// parse, and the benign "nothing matched" outcome.
type ErrorCode string

const (
	// Extraction pipeline
	ErrCodeImageRejected ErrorCode = "IMAGE_REJECTED"
	ErrCodeNoSourceURL   ErrorCode = "NO_SOURCE_URL"
	ErrCodeNoCandidate   ErrorCode = "NO_CANDIDATE"

	// Product page retrieval
	ErrCodeFetchFailed ErrorCode = "FETCH_FAILED"
	ErrCodeParseFailed ErrorCode = "PARSE_FAILED"
	ErrCodeRateLimited ErrorCode = "RATE_LIMITED"

	// Configuration
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
	ErrCodeMissingConfig ErrorCode = "MISSING_CONFIG"

	// Output
	ErrCodeOutputFailed  ErrorCode = "OUTPUT_FAILED"
	ErrCodeDatabaseError ErrorCode = "DATABASE_ERROR"

	// Generic
	ErrCodeInternal   ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"
)

// StructuredError carries a code, severity and optional context alongside the
// wrapped cause.
type StructuredError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Severity  ErrorSeverity          `json:"severity"`
	Context   map[string]interface{} `json:"context,omitempty"`
	Cause     error                  `json:"-"`
	Timestamp time.Time              `json:"timestamp"`
	Retryable bool                   `json:"retryable"`
}

// Error implements the error interface.
func (e *StructuredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the wrapped cause for errors.Is/As chains.
func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// WithContext attaches a key/value pair to the error and returns it.
func (e *StructuredError) WithContext(key string, value interface{}) *StructuredError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithRetryable marks whether the operation that produced the error may be
// retried.
func (e *StructuredError) WithRetryable(retryable bool) *StructuredError {
	e.Retryable = retryable
	return e
}

// NewError creates a structured error with the given code and message.
func NewError(code ErrorCode, message string) *StructuredError {
	return &StructuredError{
		Code:      code,
		Message:   message,
		Severity:  severityFor(code),
		Timestamp: time.Now(),
	}
}

// NewErrorf creates a structured error with a formatted message.
func NewErrorf(code ErrorCode, format string, args ...interface{}) *StructuredError {
	return NewError(code, fmt.Sprintf(format, args...))
}

// WrapError wraps an existing error with a code and message.
func WrapError(cause error, code ErrorCode, message string) *StructuredError {
	e := NewError(code, message)
	e.Cause = cause
	return e
}

// CodeOf returns the error code of err, or ErrCodeInternal when err carries
// no structured code.
func CodeOf(err error) ErrorCode {
	var se *StructuredError
	if errors.As(err, &se) {
		return se.Code
	}
	return ErrCodeInternal
}

// IsCode reports whether err carries the given error code.
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

// severityFor maps error codes to their default severity. Extraction-side
// failures are warnings because the pipeline degrades rather than aborts.
func severityFor(code ErrorCode) ErrorSeverity {
	switch code {
	case ErrCodeImageRejected, ErrCodeNoSourceURL, ErrCodeNoCandidate,
		ErrCodeFetchFailed, ErrCodeParseFailed, ErrCodeRateLimited:
		return SeverityWarning
	case ErrCodeInvalidConfig, ErrCodeMissingConfig:
		return SeverityCritical
	default:
		return SeverityError
	}
}
