package permission

import "github.com/kbukum/gatekit/auth"

// Granted reports whether the authenticated token t holds required.
//
// An authority grants required when it equals it (or matches it as a
// pattern) or when checker maps the authority to a matching permission.
// A nil checker limits the decision to the authorities themselves.
func Granted(checker Checker, t *auth.Token, required string) bool {
	if t == nil || !t.IsAuthenticated() {
		return false
	}
	for _, authority := range t.Authorities() {
		if MatchPattern(authority, required) {
			return true
		}
		if checker != nil && checker.HasPermission(authority, required) {
			return true
		}
	}
	return false
}

// GrantedAll reports whether t holds every permission in required.
func GrantedAll(checker Checker, t *auth.Token, required ...string) bool {
	for _, r := range required {
		if !Granted(checker, t, r) {
			return false
		}
	}
	return t != nil && t.IsAuthenticated()
}
