package errors

import (
	"net/http"
	"strings"
)

// ErrorCode identifies a specific failure category.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes shared by every layer.
const (
	ErrCodeInternal        ErrorCode = "COMMON_001"
	ErrCodeBadRequest      ErrorCode = "COMMON_002"
	ErrCodeNotFound        ErrorCode = "COMMON_003"
	ErrCodeTooManyRequests ErrorCode = "COMMON_004"
	ErrCodeTimeout         ErrorCode = "COMMON_005"
	ErrCodeSerialization   ErrorCode = "COMMON_006"
	ErrCodeCacheError      ErrorCode = "COMMON_007"
	ErrCodeConfigInvalid   ErrorCode = "COMMON_008"
)

// Query module error codes.
const (
	// ErrCodeInvalidQuery marks a caller error in the search query itself:
	// empty identifier or an unrecognized search mode. Never retried.
	ErrCodeInvalidQuery ErrorCode = "QRY_001"
)

// Upstream portal error codes.
const (
	// ErrCodeUpstreamRejected is a definitive client-side rejection by the
	// portal (non-rate-limit 4xx). Surfaced to the caller without retry.
	ErrCodeUpstreamRejected ErrorCode = "SRC_001"

	// ErrCodeUpstreamUnavailable means the retry budget was exhausted on
	// transient failures. Recoverable: the caller may retry later.
	ErrCodeUpstreamUnavailable ErrorCode = "SRC_002"

	// ErrCodeUpstreamRateLimited marks a 429 from the portal. Treated as
	// transient by the fetcher; surfaced only when retries run out mid-wave.
	ErrCodeUpstreamRateLimited ErrorCode = "SRC_003"
)

// Extraction module error codes.
const (
	// ErrCodeExtractionFailed means every strategy in the chain reported
	// not-usable. The application layer degrades this to an empty result.
	ErrCodeExtractionFailed ErrorCode = "EXT_001"

	// ErrCodeMalformedRecord marks a single candidate record that failed
	// normalization. Logged for observability, never surfaced to callers.
	ErrCodeMalformedRecord ErrorCode = "EXT_002"
)

// CodeOK is the zero-value code returned by GetCode for a nil error.
const CodeOK = ErrorCode("OK")

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:        http.StatusInternalServerError,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeNotFound:        http.StatusNotFound,
	ErrCodeTooManyRequests: http.StatusTooManyRequests,
	ErrCodeTimeout:         http.StatusGatewayTimeout,
	ErrCodeSerialization:   http.StatusInternalServerError,
	ErrCodeCacheError:      http.StatusInternalServerError,
	ErrCodeConfigInvalid:   http.StatusInternalServerError,

	ErrCodeInvalidQuery: http.StatusBadRequest,

	ErrCodeUpstreamRejected:    http.StatusBadGateway,
	ErrCodeUpstreamUnavailable: http.StatusServiceUnavailable,
	ErrCodeUpstreamRateLimited: http.StatusTooManyRequests,

	ErrCodeExtractionFailed: http.StatusBadGateway,
	ErrCodeMalformedRecord:  http.StatusInternalServerError,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:        "internal server error",
	ErrCodeBadRequest:      "bad request",
	ErrCodeNotFound:        "resource not found",
	ErrCodeTooManyRequests: "too many requests",
	ErrCodeTimeout:         "request timeout",
	ErrCodeSerialization:   "serialization failed",
	ErrCodeCacheError:      "cache error",
	ErrCodeConfigInvalid:   "invalid configuration",

	ErrCodeInvalidQuery: "invalid search query",

	ErrCodeUpstreamRejected:    "upstream portal rejected the request",
	ErrCodeUpstreamUnavailable: "upstream portal unavailable",
	ErrCodeUpstreamRateLimited: "upstream portal rate limited",

	ErrCodeExtractionFailed: "extraction failed for all strategies",
	ErrCodeMalformedRecord:  "malformed patent record",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError reports whether the code maps to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError reports whether the code maps to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode ("QRY", "SRC", …).
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}
