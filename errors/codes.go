package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Authentication errors
const (
	// ErrCodeInvalidCredentials covers both unknown usernames and wrong
	// passwords. The two are reported identically to clients.
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	// ErrCodeUnauthorized indicates the request carries no usable credentials.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	// ErrCodeUnsupportedToken indicates no provider can handle the presented token.
	ErrCodeUnsupportedToken ErrorCode = "UNSUPPORTED_TOKEN"
)

// Account status errors
const (
	ErrCodeAccountDisabled    ErrorCode = "ACCOUNT_DISABLED"
	ErrCodeAccountLocked      ErrorCode = "ACCOUNT_LOCKED"
	ErrCodeAccountExpired     ErrorCode = "ACCOUNT_EXPIRED"
	ErrCodeCredentialsExpired ErrorCode = "CREDENTIALS_EXPIRED"
	// ErrCodeForbidden indicates an authenticated caller lacks an authority.
	ErrCodeForbidden ErrorCode = "FORBIDDEN"
)

// Validation errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeAlreadyExists indicates the resource already exists.
	ErrCodeAlreadyExists ErrorCode = "ALREADY_EXISTS"
)

// Infrastructure errors
const (
	// ErrCodeAuthService indicates the authentication backend failed, as
	// opposed to the caller presenting bad credentials.
	ErrCodeAuthService ErrorCode = "AUTH_SERVICE_ERROR"
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeAuthService: true,
	ErrCodeInternal:    false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
