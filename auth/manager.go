package auth

import (
	"context"
	"fmt"
	"sync"
)

// Manager is a thread-safe, ordered registry of named providers that
// authenticates a token against each provider supporting it.
//
// Usage:
//
//	m := auth.NewManager()
//	m.Register("main", daoProvider)
//	m.Register("admin", adminProvider)
//	token, err := m.Authenticate(ctx, auth.NewUsernamePasswordToken(u, p, "main"))
type Manager struct {
	mu        sync.RWMutex
	providers map[string]Provider
	order     []string
}

// NewManager creates a new empty Manager.
func NewManager() *Manager {
	return &Manager{
		providers: make(map[string]Provider),
	}
}

// Register adds a named provider. Re-registering a name replaces the
// provider but keeps its position.
func (m *Manager) Register(name string, p Provider) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.providers[name]; !ok {
		m.order = append(m.order, name)
	}
	m.providers[name] = p
}

// Get returns the provider registered under the given name.
func (m *Manager) Get(name string) (Provider, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.providers[name]
	return p, ok
}

// MustGet returns the provider registered under the given name.
// Panics if the name is not registered.
func (m *Manager) MustGet(name string) Provider {
	p, ok := m.Get(name)
	if !ok {
		panic(fmt.Sprintf("auth: provider %q not registered", name))
	}
	return p
}

// Names returns the registered provider names in registration order.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, len(m.order))
	copy(names, m.order)
	return names
}

// Supports reports whether any registered provider supports t.
func (m *Manager) Supports(t *Token) bool {
	for _, p := range m.snapshot() {
		if p.Supports(t) {
			return true
		}
	}
	return false
}

// Authenticate tries each supporting provider in registration order.
//
// The first success wins. Account status and service failures stop the
// chain. Unknown usernames and bad credentials let the next provider try;
// if none succeeds the last such failure is returned. With no supporting
// provider the result is an UnsupportedToken error.
func (m *Manager) Authenticate(ctx context.Context, t *Token) (*Token, error) {
	var lastErr error
	for _, p := range m.snapshot() {
		if !p.Supports(t) {
			continue
		}
		result, err := p.Authenticate(ctx, t)
		if err == nil {
			return result, nil
		}
		switch KindOf(err) {
		case KindUnsupportedToken:
			continue
		case KindUsernameNotFound, KindBadCredentials:
			lastErr = err
		default:
			return nil, err
		}
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, UnsupportedToken()
}

func (m *Manager) snapshot() []Provider {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Provider, 0, len(m.order))
	for _, name := range m.order {
		out = append(out, m.providers[name])
	}
	return out
}
