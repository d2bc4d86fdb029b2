package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Input errors. Never retried.
const (
	ErrCodeInvalidInput    ErrorCode = "INVALID_INPUT"
	ErrCodePayloadTooLarge ErrorCode = "PAYLOAD_TOO_LARGE"
	ErrCodeMissingField    ErrorCode = "MISSING_FIELD"
)

// Upstream and availability errors.
const (
	// ErrCodeExternalService is a capability failure other than rate limiting.
	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE_ERROR"
	ErrCodeRateLimited     ErrorCode = "RATE_LIMITED"
	ErrCodeTimeout         ErrorCode = "TIMEOUT"
	// ErrCodeServiceUnavailable covers missing credentials and open circuits.
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
)

// Resource errors.
const (
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	ErrCodeConflict ErrorCode = "CONFLICT"
)

// Authentication and authorization errors.
const (
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"
	ErrCodeTokenExpired ErrorCode = "TOKEN_EXPIRED"
	ErrCodeInvalidToken ErrorCode = "INVALID_TOKEN"
)

const ErrCodeInternal ErrorCode = "INTERNAL_ERROR"

var retryableCodes = map[ErrorCode]bool{
	ErrCodeExternalService:    true,
	ErrCodeRateLimited:        true,
	ErrCodeTimeout:            true,
	ErrCodeServiceUnavailable: true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
