package auth

import (
	stderrors "errors"

	"github.com/kbukum/gatekit/errors"
)

// Kind classifies an authentication failure.
type Kind int

const (
	// KindUsernameNotFound: no account has the presented username.
	KindUsernameNotFound Kind = iota + 1
	// KindBadCredentials: the presented secret is empty or does not match.
	KindBadCredentials
	// KindAccountStatus: the account exists but is disabled, locked or expired.
	KindAccountStatus
	// KindServiceFailure: the backing store or a collaborator broke.
	KindServiceFailure
	// KindUnsupportedToken: the provider does not handle this token.
	KindUnsupportedToken
)

var kindNames = map[Kind]string{
	KindUsernameNotFound: "username_not_found",
	KindBadCredentials:   "bad_credentials",
	KindAccountStatus:    "account_status",
	KindServiceFailure:   "service_failure",
	KindUnsupportedToken: "unsupported_token",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Status narrows a KindAccountStatus failure.
type Status int

const (
	StatusNone Status = iota
	StatusDisabled
	StatusLocked
	StatusExpired
	StatusCredentialsExpired
)

var statusMessages = map[Status]string{
	StatusDisabled:           "account is disabled",
	StatusLocked:             "account is locked",
	StatusExpired:            "account has expired",
	StatusCredentialsExpired: "credentials have expired",
}

// Error is the single error type returned by providers.
//
// UsernameNotFound and BadCredentials errors never carry a cause or the
// username, so their text is safe to show to callers.
type Error struct {
	Kind   Kind
	Status Status
	msg    string
	cause  error
}

// Sentinels for errors.Is. Matching compares Kind only.
var (
	ErrUsernameNotFound = &Error{Kind: KindUsernameNotFound}
	ErrBadCredentials   = &Error{Kind: KindBadCredentials}
	ErrAccountStatus    = &Error{Kind: KindAccountStatus}
	ErrServiceFailure   = &Error{Kind: KindServiceFailure}
	ErrUnsupportedToken = &Error{Kind: KindUnsupportedToken}
)

func (e *Error) Error() string {
	switch e.Kind {
	case KindUsernameNotFound:
		return "auth: username could not be found"
	case KindBadCredentials:
		return "auth: bad credentials"
	case KindAccountStatus:
		if m, ok := statusMessages[e.Status]; ok {
			return "auth: " + m
		}
		return "auth: account status check failed"
	case KindUnsupportedToken:
		return "auth: unsupported token"
	}
	s := "auth: authentication service failure"
	if e.msg != "" {
		s += ": " + e.msg
	}
	if e.cause != nil {
		s += ": " + e.cause.Error()
	}
	return s
}

// Unwrap exposes the cause of service and status failures only.
func (e *Error) Unwrap() error {
	if e.Kind == KindServiceFailure || e.Kind == KindAccountStatus {
		return e.cause
	}
	return nil
}

// Is matches any *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// AppError converts e for an HTTP response. Unknown usernames and bad
// passwords produce the same response.
func (e *Error) AppError() *errors.AppError {
	switch e.Kind {
	case KindUsernameNotFound, KindBadCredentials:
		return errors.InvalidCredentials()
	case KindAccountStatus:
		switch e.Status {
		case StatusLocked:
			return errors.AccountLocked()
		case StatusExpired:
			return errors.AccountExpired()
		case StatusCredentialsExpired:
			return errors.CredentialsExpired()
		default:
			return errors.AccountDisabled()
		}
	case KindUnsupportedToken:
		return errors.UnsupportedToken("username_password")
	default:
		return errors.AuthService(e.cause)
	}
}

// BadCredentials returns a BadCredentials error.
func BadCredentials() *Error { return &Error{Kind: KindBadCredentials} }

// UsernameNotFound returns a UsernameNotFound error.
func UsernameNotFound() *Error { return &Error{Kind: KindUsernameNotFound} }

// AccountStatusError returns an AccountStatus error for status.
func AccountStatusError(status Status) *Error {
	return &Error{Kind: KindAccountStatus, Status: status}
}

// ServiceFailure wraps cause as a service failure.
func ServiceFailure(msg string, cause error) *Error {
	return &Error{Kind: KindServiceFailure, msg: msg, cause: cause}
}

// UnsupportedToken returns an UnsupportedToken error.
func UnsupportedToken() *Error { return &Error{Kind: KindUnsupportedToken} }

// KindOf returns the Kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsKind reports whether err is an authentication failure of kind k.
func IsKind(err error, k Kind) bool {
	return KindOf(err) == k
}

// Outcome labels err for metrics and logs: "success" for nil, the Kind
// name for auth failures, "error" otherwise.
func Outcome(err error) string {
	if err == nil {
		return "success"
	}
	if k := KindOf(err); k != 0 {
		return k.String()
	}
	return "error"
}
