// Package errors provides the unified error type and factory functions for
// the molscope service. Every layer (domain, application, infrastructure,
// interfaces) uses AppError as the single carrier for structured error
// information, enabling consistent HTTP responses, logging, and metrics.
package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// stackDepth is the maximum number of frames captured per error.
const stackDepth = 32

// captureStack returns a formatted call-stack string starting two frames
// above the caller (skipping captureStack itself and New/Wrap).
func captureStack(skip int) string {
	pcs := make([]uintptr, stackDepth)
	n := runtime.Callers(skip+2, pcs)
	if n == 0 {
		return ""
	}
	frames := runtime.CallersFrames(pcs[:n])
	var sb strings.Builder
	for {
		f, more := frames.Next()
		if !strings.Contains(f.File, "runtime/") {
			fmt.Fprintf(&sb, "\n\t%s:%d %s", f.File, f.Line, f.Function)
		}
		if !more {
			break
		}
	}
	return sb.String()
}

// AppError is the single structured error type used throughout molscope.
// It satisfies the standard error interface and supports errors.Is /
// errors.As / errors.Unwrap across all layers.
//
// Usage:
//
//	return errors.InvalidQuery("identifier must not be empty")
//	return errors.Wrap(err, errors.ErrCodeUpstreamUnavailable, "fetch failed").
//	           WithDetail("attempts=4")
type AppError struct {
	// Code is the typed error code identifying the failure category.
	Code ErrorCode

	// Message is the primary human-readable description, suitable for
	// inclusion in API responses.
	Message string

	// Detail carries supplementary context (query parameters, attempt
	// counts, URLs) that aids debugging without leaking internals.
	Detail string

	// Cause is the underlying error, enabling errors.Is / errors.As
	// traversal of the full chain.
	Cause error

	// Stack is the formatted call stack captured at creation. It is not
	// part of Error() output; structured logging middleware reads it
	// directly when needed.
	Stack string
}

// Error implements the standard error interface.
// Format: "[<code>] <message>: <detail>", detail omitted when empty.
func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Detail)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error.
func (e *AppError) Unwrap() error {
	return e.Cause
}

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

// WithCause returns a shallow copy of the receiver with Cause set to err.
func (e *AppError) WithCause(err error) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Cause = err
	return &clone
}

// New constructs a fresh AppError with the given code and message.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Stack:   captureStack(1),
	}
}

// Newf constructs a fresh AppError with a formatted message.
func Newf(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Stack:   captureStack(1),
	}
}

// Wrap constructs an AppError that wraps an existing error. If err is nil,
// Wrap returns nil so it can be used inline on a call result.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
		Stack:   captureStack(1),
	}
}

// IsCode reports whether any error in err's chain is an *AppError with the
// given code.
//
//	if errors.IsCode(err, errors.ErrCodeUpstreamRejected) { ... }
func IsCode(err error, code ErrorCode) bool {
	var ae *AppError
	for err != nil {
		if errors.As(err, &ae) && ae.Code == code {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// GetCode extracts the ErrorCode from the first *AppError in err's chain.
// A nil error yields CodeOK; a non-AppError chain yields ErrCodeInternal.
func GetCode(err error) ErrorCode {
	if err == nil {
		return CodeOK
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ErrCodeInternal
}

// IsTransient reports whether the error represents a condition the caller
// may reasonably retry (upstream unavailable or rate limited).
func IsTransient(err error) bool {
	return IsCode(err, ErrCodeUpstreamUnavailable) || IsCode(err, ErrCodeUpstreamRateLimited)
}

// InvalidQuery constructs an ErrCodeInvalidQuery AppError.
func InvalidQuery(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidQuery, Message: message, Stack: captureStack(1)}
}

// UpstreamRejected constructs an ErrCodeUpstreamRejected AppError.
func UpstreamRejected(message string) *AppError {
	return &AppError{Code: ErrCodeUpstreamRejected, Message: message, Stack: captureStack(1)}
}

// UpstreamUnavailable constructs an ErrCodeUpstreamUnavailable AppError.
func UpstreamUnavailable(message string) *AppError {
	return &AppError{Code: ErrCodeUpstreamUnavailable, Message: message, Stack: captureStack(1)}
}

// ExtractionFailed constructs an ErrCodeExtractionFailed AppError.
func ExtractionFailed(message string) *AppError {
	return &AppError{Code: ErrCodeExtractionFailed, Message: message, Stack: captureStack(1)}
}

// MalformedRecord constructs an ErrCodeMalformedRecord AppError.
func MalformedRecord(message string) *AppError {
	return &AppError{Code: ErrCodeMalformedRecord, Message: message, Stack: captureStack(1)}
}

// NotFound constructs an ErrCodeNotFound AppError.
func NotFound(message string) *AppError {
	return &AppError{Code: ErrCodeNotFound, Message: message, Stack: captureStack(1)}
}

// Internal constructs an ErrCodeInternal AppError. Use this for unexpected
// failures where no more specific code applies.
func Internal(message string) *AppError {
	return &AppError{Code: ErrCodeInternal, Message: message, Stack: captureStack(1)}
}
