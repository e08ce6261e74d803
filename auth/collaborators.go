package auth

import "context"

// UserProvider loads accounts by username.
//
// Implementations return an error matching ErrUsernameNotFound (errors.Is)
// when no account exists. Any other error is treated as a service failure.
type UserProvider interface {
	LoadUserByUsername(ctx context.Context, username string) (Account, error)
}

// UserProviderFunc adapts an ordinary function to the UserProvider interface.
type UserProviderFunc func(ctx context.Context, username string) (Account, error)

// LoadUserByUsername implements UserProvider.
func (f UserProviderFunc) LoadUserByUsername(ctx context.Context, username string) (Account, error) {
	return f(ctx, username)
}

// AccountChecker validates account state around credential verification.
// CheckPreAuth runs before the password is checked and CheckPostAuth after.
type AccountChecker interface {
	CheckPreAuth(account Account) error
	CheckPostAuth(account Account) error
}

// PasswordEncoder verifies a raw secret against an encoded one.
type PasswordEncoder interface {
	IsPasswordValid(encoded, raw, salt string) bool
}

// PasswordEncoderFunc adapts an ordinary function to the PasswordEncoder interface.
type PasswordEncoderFunc func(encoded, raw, salt string) bool

// IsPasswordValid implements PasswordEncoder.
func (f PasswordEncoderFunc) IsPasswordValid(encoded, raw, salt string) bool {
	return f(encoded, raw, salt)
}

// Recorder observes the outcome of every authentication attempt.
type Recorder interface {
	RecordAttempt(ctx context.Context, provider, outcome string, seconds float64)
}

type nopRecorder struct{}

func (nopRecorder) RecordAttempt(context.Context, string, string, float64) {}

// Recorders fans every attempt out to each non-nil recorder.
func Recorders(rs ...Recorder) Recorder {
	out := make(multiRecorder, 0, len(rs))
	for _, r := range rs {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

type multiRecorder []Recorder

func (m multiRecorder) RecordAttempt(ctx context.Context, provider, outcome string, seconds float64) {
	for _, r := range m {
		r.RecordAttempt(ctx, provider, outcome, seconds)
	}
}
