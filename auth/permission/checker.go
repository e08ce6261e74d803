// Package permission maps granted authorities to permissions.
//
// Authorities on an authenticated token are treated as subjects; a Checker
// decides which permissions each subject holds. Permission strings use the
// "resource:action" form with "*" wildcards (e.g. "user:*" matches
// "user:read").
//
// Usage:
//
//	checker := permission.NewMapChecker(map[string][]string{
//	    "ROLE_ADMIN": {"*:*"},
//	    "ROLE_USER":  {"profile:*", "article:read"},
//	})
//	permission.Granted(checker, token, "article:read") // true for ROLE_USER
package permission

import (
	"slices"
	"sync"
)

// Checker is the core authorization interface.
//
// subject is an authority such as "ROLE_USER"; permission is the required
// permission string (e.g., "article:write").
type Checker interface {
	HasPermission(subject string, permission string) bool
}

// CheckerFunc is an adapter to use ordinary functions as Checker.
type CheckerFunc func(subject string, permission string) bool

// HasPermission implements Checker.
func (f CheckerFunc) HasPermission(subject string, permission string) bool {
	return f(subject, permission)
}

// MapChecker is an in-memory Checker backed by a map of subject to
// permission patterns. It is safe for concurrent use.
type MapChecker struct {
	mu          sync.RWMutex
	permissions map[string][]string
}

// NewMapChecker creates a Checker from a map of subject to permission
// patterns. The map is copied.
func NewMapChecker(permissions map[string][]string) *MapChecker {
	c := &MapChecker{permissions: make(map[string][]string, len(permissions))}
	for subject, patterns := range permissions {
		c.permissions[subject] = slices.Clone(patterns)
	}
	return c
}

// HasPermission implements Checker.
func (c *MapChecker) HasPermission(subject string, required string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	patterns, ok := c.permissions[subject]
	if !ok {
		return false
	}
	return MatchAny(patterns, required)
}

// Grant adds permission patterns to subject.
func (c *MapChecker) Grant(subject string, patterns ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.permissions[subject] = append(c.permissions[subject], patterns...)
}

// Revoke removes every pattern held by subject.
func (c *MapChecker) Revoke(subject string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.permissions, subject)
}
