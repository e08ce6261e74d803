package permission

import (
	"context"
	"testing"

	"github.com/kbukum/gatekit/auth"
	"github.com/kbukum/gatekit/logger"
)

func TestMatchPattern(t *testing.T) {
	tests := []struct {
		pattern, required string
		want              bool
	}{
		{"*:*", "article:read", true},
		{"*", "anything", true},
		{"article:*", "article:write", true},
		{"*:read", "user:read", true},
		{"article:read", "article:read", true},
		{"article:read", "article:write", false},
		{"article:*", "user:read", false},
		{"ROLE_ADMIN", "ROLE_ADMIN", true},
		{"ROLE_ADMIN", "article:read", false},
		{"article", "article:read", false},
	}
	for _, tc := range tests {
		if got := MatchPattern(tc.pattern, tc.required); got != tc.want {
			t.Errorf("MatchPattern(%q, %q) = %v, want %v", tc.pattern, tc.required, got, tc.want)
		}
	}
}

func TestMapChecker(t *testing.T) {
	src := map[string][]string{
		"ROLE_ADMIN": {"*:*"},
		"ROLE_USER":  {"profile:*", "article:read"},
	}
	c := NewMapChecker(src)
	src["ROLE_USER"][0] = "*:*"

	if !c.HasPermission("ROLE_USER", "profile:write") {
		t.Error("ROLE_USER should have profile:write")
	}
	if c.HasPermission("ROLE_USER", "article:delete") {
		t.Error("ROLE_USER should not have article:delete")
	}
	if c.HasPermission("ROLE_GUEST", "article:read") {
		t.Error("unknown subject should have nothing")
	}

	c.Grant("ROLE_GUEST", "article:read")
	if !c.HasPermission("ROLE_GUEST", "article:read") {
		t.Error("Grant should add permissions")
	}
	c.Revoke("ROLE_GUEST")
	if c.HasPermission("ROLE_GUEST", "article:read") {
		t.Error("Revoke should remove permissions")
	}
}

func TestGranted(t *testing.T) {
	checker := NewMapChecker(map[string][]string{
		"ROLE_USER": {"article:read"},
	})
	tok := authenticate(t, "ROLE_USER")

	if !Granted(checker, tok, "ROLE_USER") {
		t.Error("authority itself should be granted")
	}
	if !Granted(checker, tok, "article:read") {
		t.Error("mapped permission should be granted")
	}
	if Granted(checker, tok, "article:write") {
		t.Error("unmapped permission should be denied")
	}
	if Granted(nil, tok, "article:read") {
		t.Error("nil checker only honours authorities")
	}
	if !GrantedAll(checker, tok, "ROLE_USER", "article:read") {
		t.Error("expected all granted")
	}
	if GrantedAll(checker, tok, "ROLE_USER", "article:write") {
		t.Error("expected not all granted")
	}

	unauth := auth.NewUsernamePasswordToken("alice", "pw", "")
	if Granted(checker, unauth, "ROLE_USER") || GrantedAll(checker, nil) {
		t.Error("unauthenticated tokens hold nothing")
	}
}

func authenticate(t *testing.T, authorities ...string) *auth.Token {
	t.Helper()
	users := auth.UserProviderFunc(func(context.Context, string) (auth.Account, error) {
		return auth.NewUser("alice", "pw", auth.WithAuthorities(authorities...)), nil
	})
	p := auth.NewDaoProvider(users, nil, nil, auth.WithLogger(logger.NewNop()))
	tok, err := p.Authenticate(context.Background(), auth.NewUsernamePasswordToken("alice", "pw", ""))
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	return tok
}
