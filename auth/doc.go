// Package auth provides username/password authentication.
//
// A DaoProvider turns an unauthenticated Token into an authenticated one by
// delegating to three collaborators:
//
//   - UserProvider     loads the Account for the presented username
//   - AccountChecker   rejects disabled, locked or expired accounts
//   - PasswordEncoder  verifies the presented secret against the encoded one
//
// Failures are *Error values classified by Kind:
//
//	token, err := provider.Authenticate(ctx, auth.NewUsernamePasswordToken(user, pass, ""))
//	switch auth.KindOf(err) {
//	case auth.KindUsernameNotFound, auth.KindBadCredentials:
//	    // wrong username or password; show a generic message
//	case auth.KindAccountStatus:
//	    // account disabled, locked or expired
//	case auth.KindServiceFailure:
//	    // the backing store broke; err wraps the cause
//	}
//
// Subpackages:
//
//   - auth/password   password encoders (bcrypt, argon2id, salted digest, plaintext)
//   - auth/memory     in-memory UserProvider seeded from configuration
//   - auth/permission wildcard authority matching for authenticated tokens
package auth
