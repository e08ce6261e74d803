package auth

import (
	"fmt"
	"slices"
)

// Token is a username/password authentication attempt, or its result.
//
// An unauthenticated token carries the presented Username and Credentials.
// An authenticated token carries the resolved Account and its authorities,
// and its credentials have been cleared.
type Token struct {
	Username    string
	Credentials string
	// ProviderKey selects the provider: only a provider configured with the
	// same key supports the token.
	ProviderKey string

	account       Account
	authorities   []string
	authenticated bool
}

// NewUsernamePasswordToken builds an unauthenticated token.
func NewUsernamePasswordToken(username, credentials, providerKey string) *Token {
	return &Token{
		Username:    username,
		Credentials: credentials,
		ProviderKey: providerKey,
	}
}

func newAuthenticatedToken(account Account, providerKey string) *Token {
	return &Token{
		Username:      account.Username(),
		ProviderKey:   providerKey,
		account:       account,
		authorities:   account.Authorities(),
		authenticated: true,
	}
}

// Account returns the resolved account, or nil before authentication.
func (t *Token) Account() Account { return t.account }

// Authorities returns a copy of the granted authorities.
func (t *Token) Authorities() []string { return slices.Clone(t.authorities) }

// IsAuthenticated reports whether a provider produced this token.
func (t *Token) IsAuthenticated() bool { return t.authenticated }

// EraseCredentials clears the presented secret.
func (t *Token) EraseCredentials() { t.Credentials = "" }

// String omits credentials so tokens are safe to print.
func (t *Token) String() string {
	return fmt.Sprintf("Token(user=%q, authenticated=%t, authorities=%v)",
		t.Username, t.authenticated, t.authorities)
}
