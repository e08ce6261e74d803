package auth

import "slices"

// Account is the capability every loaded principal must expose. User
// providers may return their own types as long as they satisfy it.
type Account interface {
	Username() string
	// Password returns the encoded password, never the raw secret.
	Password() string
	// Salt returns the salt used to encode Password, or "" when the
	// encoding carries its own salt.
	Salt() string
	Authorities() []string

	Enabled() bool
	Locked() bool
	Expired() bool
	CredentialsExpired() bool
}

// User is the default Account implementation. It is immutable once built.
type User struct {
	username           string
	password           string
	salt               string
	authorities        []string
	disabled           bool
	locked             bool
	expired            bool
	credentialsExpired bool
}

// UserOption configures a User.
type UserOption func(*User)

// WithSalt sets the salt the password was encoded with.
func WithSalt(salt string) UserOption {
	return func(u *User) { u.salt = salt }
}

// WithAuthorities sets the granted authorities.
func WithAuthorities(authorities ...string) UserOption {
	return func(u *User) { u.authorities = slices.Clone(authorities) }
}

// WithDisabled marks the account as disabled.
func WithDisabled(disabled bool) UserOption {
	return func(u *User) { u.disabled = disabled }
}

// WithLocked marks the account as locked.
func WithLocked(locked bool) UserOption {
	return func(u *User) { u.locked = locked }
}

// WithExpired marks the account as expired.
func WithExpired(expired bool) UserOption {
	return func(u *User) { u.expired = expired }
}

// WithCredentialsExpired marks the account password as expired.
func WithCredentialsExpired(expired bool) UserOption {
	return func(u *User) { u.credentialsExpired = expired }
}

// NewUser builds an enabled, unlocked, unexpired User.
func NewUser(username, encodedPassword string, opts ...UserOption) *User {
	u := &User{username: username, password: encodedPassword}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func (u *User) Username() string         { return u.username }
func (u *User) Password() string         { return u.password }
func (u *User) Salt() string             { return u.salt }
func (u *User) Authorities() []string    { return slices.Clone(u.authorities) }
func (u *User) Enabled() bool            { return !u.disabled }
func (u *User) Locked() bool             { return u.locked }
func (u *User) Expired() bool            { return u.expired }
func (u *User) CredentialsExpired() bool { return u.credentialsExpired }

// String never includes the password or salt.
func (u *User) String() string {
	return "User(" + u.username + ")"
}
