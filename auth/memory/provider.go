// Package memory provides an in-memory auth.UserProvider for tests, demos
// and small static deployments.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/kbukum/gatekit/auth"
	"github.com/kbukum/gatekit/auth/password"
	"github.com/kbukum/gatekit/errors"
	"github.com/kbukum/gatekit/logger"
	"github.com/kbukum/gatekit/validation"
)

const saltBytes = 16

// Provider stores accounts keyed by case-folded username. It is safe for
// concurrent use.
type Provider struct {
	mu    sync.RWMutex
	users map[string]auth.Account
	log   *logger.Logger
}

// New creates an empty Provider.
func New() *Provider {
	return &Provider{
		users: make(map[string]auth.Account),
		log:   logger.Get(logger.ComponentAuthMemory),
	}
}

// NewFromConfig creates a Provider holding the accounts declared in cfg.
func NewFromConfig(cfg Config) (*Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := New()
	for _, u := range cfg.Users {
		account := auth.NewUser(u.Username, u.Password,
			auth.WithSalt(u.Salt),
			auth.WithAuthorities(u.Authorities...),
			auth.WithDisabled(u.Disabled),
			auth.WithLocked(u.Locked),
			auth.WithExpired(u.Expired),
			auth.WithCredentialsExpired(u.CredentialsExpired),
		)
		if err := p.CreateUser(account); err != nil {
			return nil, err
		}
	}
	p.log.Info("in-memory user provider ready", logger.Fields("users", len(cfg.Users)))
	return p, nil
}

// LoadUserByUsername implements auth.UserProvider. Lookup is
// case-insensitive.
func (p *Provider) LoadUserByUsername(ctx context.Context, username string) (auth.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	account, ok := p.users[normalize(username)]
	if !ok {
		return nil, auth.UsernameNotFound()
	}
	return account, nil
}

// CreateUser adds account. It fails if a user with the same (case-folded)
// username exists.
func (p *Provider) CreateUser(account auth.Account) error {
	if account == nil {
		return errors.InvalidInput("account", "account is nil")
	}
	if err := validation.New().
		Username("username", account.Username()).
		Salt("salt", account.Salt()).
		Err(); err != nil {
		return err
	}
	key := normalize(account.Username())

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.users[key]; exists {
		return errors.AlreadyExists("user").WithDetail("username", account.Username())
	}
	p.users[key] = account
	return nil
}

// UpdateUser replaces an existing account.
func (p *Provider) UpdateUser(account auth.Account) error {
	if account == nil {
		return errors.InvalidInput("account", "account is nil")
	}
	key := normalize(account.Username())

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.users[key]; !exists {
		return auth.UsernameNotFound()
	}
	p.users[key] = account
	return nil
}

// DeleteUser removes username. It reports whether an account was removed.
func (p *Provider) DeleteUser(username string) bool {
	key := normalize(username)
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.users[key]
	delete(p.users, key)
	return ok
}

// Len returns the number of accounts.
func (p *Provider) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.users)
}

// Register encodes raw with enc and creates the account. Digest encoders
// get a freshly generated salt; hashers embed their own.
func (p *Provider) Register(username, raw string, enc password.Encoder, authorities ...string) (*auth.User, error) {
	var salt string
	if _, ok := enc.(*password.DigestEncoder); ok {
		s, err := password.GenerateSalt(saltBytes)
		if err != nil {
			return nil, errors.Internal(err)
		}
		salt = s
	}

	encoded, err := enc.EncodePassword(raw, salt)
	if err != nil {
		return nil, errors.InvalidInput("password", err.Error())
	}

	user := auth.NewUser(username, encoded, auth.WithSalt(salt), auth.WithAuthorities(authorities...))
	if err := p.CreateUser(user); err != nil {
		return nil, err
	}
	p.log.Debug("user registered", logger.Fields(logger.FieldUsername, username))
	return user, nil
}

func normalize(username string) string {
	return strings.ToLower(username)
}
