// Package errors provides typed errors for docformat
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Category is the top-level class of an error
type Category int

const (
	// CategoryConfig indicates a configuration error
	CategoryConfig Category = iota + 1
	// CategoryFileOperation indicates a file read/write failure
	CategoryFileOperation
	// CategoryService indicates a failure of the external formatting service
	CategoryService
	// CategoryValidation indicates invalid input
	CategoryValidation
	// CategoryProcessing indicates a failure of a pipeline step
	CategoryProcessing
)

// Kind is the stable machine-readable subkind within a Category
type Kind string

const (
	KindInvalidConfig Kind = "invalid_config"

	KindNotFound         Kind = "not_found"
	KindPermissionDenied Kind = "permission_denied"
	KindReadFailed       Kind = "read_failed"
	KindWriteFailed      Kind = "write_failed"
	KindInvalidPath      Kind = "invalid_path"

	KindConnection      Kind = "connection"
	KindAuthentication  Kind = "authentication"
	KindRateLimit       Kind = "rate_limit"
	KindTimeout         Kind = "timeout"
	KindInvalidResponse Kind = "invalid_response"

	KindEmptyContent  Kind = "empty_content"
	KindOutOfRange    Kind = "out_of_range"
	KindMalformedPath Kind = "malformed_path"
	KindInvalidValue  Kind = "invalid_value"

	KindContextLoad Kind = "context_load"
	KindContextSave Kind = "context_save"
	KindStepFailed  Kind = "step_failed"
	KindCancelled   Kind = "cancelled"
)

// kindCodes maps each kind to its numeric code; the thousands digit is the category.
var kindCodes = map[Kind]int{
	KindInvalidConfig: 1001,

	KindNotFound:         2001,
	KindPermissionDenied: 2002,
	KindReadFailed:       2003,
	KindWriteFailed:      2004,
	KindInvalidPath:      2005,

	KindConnection:      3001,
	KindAuthentication:  3002,
	KindRateLimit:       3003,
	KindTimeout:         3004,
	KindInvalidResponse: 3005,

	KindEmptyContent:  4001,
	KindOutOfRange:    4002,
	KindMalformedPath: 4003,
	KindInvalidValue:  4004,

	KindContextLoad: 5001,
	KindContextSave: 5002,
	KindStepFailed:  5003,
	KindCancelled:   5004,
}

// Error is the base error type for all docformat errors
type Error struct {
	Category Category
	Kind     Kind
	Code     int
	Message  string
	Cause    error
	Details  map[string]any
}

// Error returns the error message
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Category, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Category, e.Message)
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error. The category is derived from the kind.
func New(kind Kind, message string, cause error) *Error {
	code := kindCodes[kind]
	return &Error{
		Category: Category(code / 1000),
		Kind:     kind,
		Code:     code,
		Message:  message,
		Cause:    cause,
		Details:  make(map[string]any),
	}
}

// WithDetail adds a structured detail field to the error
func (e *Error) WithDetail(key string, value any) *Error {
	e.Details[key] = value
	return e
}

// IsCategory checks if an error belongs to a category
func IsCategory(err error, c Category) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Category == c
	}
	return false
}

// IsKind checks if an error is of a specific kind
func IsKind(err error, k Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == k
	}
	return false
}

// IsRetryable returns true if the error is transient and retryable
func IsRetryable(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	switch e.Kind {
	case KindConnection, KindRateLimit, KindTimeout:
		return true
	default:
		return false
	}
}

// ExitCode maps an error to a process exit code. Typed errors exit with their
// category number, anything else with 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var e *Error
	if errors.As(err, &e) && e.Code > 0 {
		return e.Code / 1000
	}
	return 1
}

func (c Category) String() string {
	switch c {
	case CategoryConfig:
		return "CONFIG"
	case CategoryFileOperation:
		return "FILE"
	case CategoryService:
		return "SERVICE"
	case CategoryValidation:
		return "VALIDATION"
	case CategoryProcessing:
		return "PROCESSING"
	default:
		return "UNKNOWN"
	}
}

// Convenience constructors

// InvalidConfig reports a configuration problem
func InvalidConfig(message string, cause error) *Error {
	return New(KindInvalidConfig, message, cause)
}

// NotFound reports a missing file
func NotFound(path string) *Error {
	return New(KindNotFound, "file not found: "+path, nil).WithDetail("path", path)
}

// PermissionDenied reports a permission failure on path
func PermissionDenied(path string, cause error) *Error {
	return New(KindPermissionDenied, "permission denied: "+path, cause).WithDetail("path", path)
}

// ReadFailed reports a failed read of path
func ReadFailed(path string, cause error) *Error {
	return New(KindReadFailed, "failed to read "+path, cause).WithDetail("path", path)
}

// WriteFailed reports a failed write to path
func WriteFailed(path string, cause error) *Error {
	return New(KindWriteFailed, "failed to write to "+path, cause).WithDetail("path", path)
}

// InvalidPath reports a path that exists but cannot be used
func InvalidPath(path, reason string) *Error {
	return New(KindInvalidPath, fmt.Sprintf("invalid path %s: %s", path, reason), nil).WithDetail("path", path)
}

// EmptyContent reports a required input that is blank
func EmptyContent(what string) *Error {
	return New(KindEmptyContent, what+" cannot be empty", nil).WithDetail("field", what)
}

// OutOfRange reports a numeric value outside [min, max]
func OutOfRange(field string, value, min, max int) *Error {
	return New(KindOutOfRange, fmt.Sprintf("%s must be between %d and %d, got %d", field, min, max, value), nil).
		WithDetail("field", field).
		WithDetail("value", value)
}

// MalformedPath reports a path that fails syntactic validation
func MalformedPath(path, reason string) *Error {
	return New(KindMalformedPath, "malformed path: "+reason, nil).WithDetail("path", path)
}

// InvalidValue reports a generic validation failure
func InvalidValue(field, message string) *Error {
	return New(KindInvalidValue, message, nil).WithDetail("field", field)
}

// ConnectionFailed reports a network failure talking to provider
func ConnectionFailed(provider string, cause error) *Error {
	return New(KindConnection, "failed to connect to "+provider, cause).WithDetail("provider", provider)
}

// AuthenticationFailed reports rejected or missing credentials
func AuthenticationFailed(provider string, cause error) *Error {
	return New(KindAuthentication, "authentication failed for "+provider, cause).WithDetail("provider", provider)
}

// RateLimited reports a provider throttling response
func RateLimited(provider string, cause error) *Error {
	return New(KindRateLimit, "rate limit exceeded for "+provider, cause).WithDetail("provider", provider)
}

// TimedOut reports an attempt that exceeded its deadline
func TimedOut(provider string, cause error) *Error {
	return New(KindTimeout, "request to "+provider+" timed out", cause).WithDetail("provider", provider)
}

// InvalidResponse reports a reply that could not be used
func InvalidResponse(provider, reason string) *Error {
	return New(KindInvalidResponse, fmt.Sprintf("invalid response from %s: %s", provider, reason), nil).
		WithDetail("provider", provider)
}

// ContextLoadFailed reports a failure reading persisted context
func ContextLoadFailed(cause error) *Error {
	return New(KindContextLoad, "failed to load context", cause)
}

// ContextSaveFailed reports a failure persisting context
func ContextSaveFailed(cause error) *Error {
	return New(KindContextSave, "failed to save context", cause)
}

// StepFailed reports a failed pipeline step
func StepFailed(step string, cause error) *Error {
	return New(KindStepFailed, strings.ToLower(step)+" failed", cause).WithDetail("step", step)
}

// Cancelled reports work stopped because its caller cancelled it
func Cancelled(operation string, cause error) *Error {
	return New(KindCancelled, operation+" cancelled", cause)
}
