package errors

import (
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	Code       ErrorCode      `json:"code"`
	Message    string         `json:"message"`
	Retryable  bool           `json:"retryable"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Cause      error          `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with retryable derived from the code.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// --- Input ---

// InvalidInput creates an error for a request that cannot be processed as sent.
func InvalidInput(field, reason string) *AppError {
	e := New(ErrCodeInvalidInput, fmt.Sprintf("Invalid input: %s", reason), http.StatusBadRequest)
	if field != "" {
		e.WithDetail("field", field)
	}
	return e
}

// MissingField creates an error for a missing required field.
func MissingField(field string) *AppError {
	return New(ErrCodeMissingField, fmt.Sprintf("Missing required field: %s", field), http.StatusBadRequest).
		WithDetail("field", field)
}

// PayloadTooLarge creates an error for an upload above limit bytes.
func PayloadTooLarge(field string, limit int64) *AppError {
	return New(ErrCodePayloadTooLarge, fmt.Sprintf("%s exceeds the maximum size of %d bytes.", field, limit), http.StatusRequestEntityTooLarge).
		WithDetail("field", field).
		WithDetail("limit_bytes", limit)
}

// --- Upstream ---

// ExternalServiceError creates an error for a failed capability call.
func ExternalServiceError(service string, cause error) *AppError {
	return New(ErrCodeExternalService, fmt.Sprintf("The %s service encountered an error. Please try again.", service), http.StatusBadGateway).
		WithDetail("service", service).
		WithCause(cause)
}

// RateLimited creates an error for an exhausted request quota.
func RateLimited() *AppError {
	return New(ErrCodeRateLimited, "Too many requests. Please wait a moment and try again.", http.StatusTooManyRequests)
}

// Timeout creates an error for an operation that ran past its deadline.
func Timeout(operation string) *AppError {
	return New(ErrCodeTimeout, "The request took too long. Please try again.", http.StatusGatewayTimeout).
		WithDetail("operation", operation)
}

// ServiceUnavailable creates an error for a dependency that cannot serve requests.
func ServiceUnavailable(service string) *AppError {
	return New(ErrCodeServiceUnavailable, fmt.Sprintf("The %s is temporarily unavailable. Please try again.", service), http.StatusServiceUnavailable).
		WithDetail("service", service)
}

// NotConfigured creates a configuration error: a capability or secret is missing.
func NotConfigured(what string) *AppError {
	e := New(ErrCodeServiceUnavailable, fmt.Sprintf("%s is not configured.", what), http.StatusServiceUnavailable)
	e.Retryable = false
	return e.WithDetail("missing", what)
}

// --- Resources ---

// NotFound creates an error for a resource that does not exist.
func NotFound(resource, id string) *AppError {
	e := New(ErrCodeNotFound, fmt.Sprintf("The requested %s was not found.", resource), http.StatusNotFound).
		WithDetail("resource", resource)
	if id != "" {
		e.WithDetail("id", id)
	}
	return e
}

// Conflict creates an error for a state transition that is no longer allowed.
func Conflict(reason string) *AppError {
	return New(ErrCodeConflict, reason, http.StatusConflict)
}

// --- Auth ---

// Unauthorized creates an error for a missing or rejected credential.
func Unauthorized(reason string) *AppError {
	if reason == "" {
		reason = "Authentication required."
	}
	return New(ErrCodeUnauthorized, reason, http.StatusUnauthorized)
}

// Forbidden creates an error for an authenticated caller lacking access.
func Forbidden(reason string) *AppError {
	if reason == "" {
		reason = "You don't have permission to perform this action."
	}
	return New(ErrCodeForbidden, reason, http.StatusForbidden)
}

// TokenExpired creates an error for an expired token.
func TokenExpired() *AppError {
	return New(ErrCodeTokenExpired, "Your session has expired. Please log in again.", http.StatusUnauthorized)
}

// InvalidToken creates an error for a malformed or mis-signed token.
func InvalidToken() *AppError {
	return New(ErrCodeInvalidToken, "Invalid authentication token. Please log in again.", http.StatusUnauthorized)
}

// Internal creates an error for an unexpected failure.
func Internal(cause error) *AppError {
	return New(ErrCodeInternal, "An unexpected error occurred. Please try again or contact support.", http.StatusInternalServerError).
		WithCause(cause)
}
