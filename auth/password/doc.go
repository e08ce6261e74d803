// Package password provides password hashing and verification.
//
// Hashers produce self-describing hashes with an embedded salt:
//   - BcryptHasher: industry-standard bcrypt hashing
//   - Argon2Hasher: modern argon2id hashing (recommended for new projects)
//
// Encoders verify a raw password against a stored encoding and an optional
// external salt, and are what the authentication provider consumes:
//   - HasherEncoder wraps a Hasher
//   - DigestEncoder verifies salted, iterated SHA-256/SHA-512 digests
//   - PlaintextEncoder compares directly (tests and fixtures only)
//
// Usage:
//
//	enc, err := password.NewEncoder(password.Config{Algorithm: password.AlgorithmBcrypt})
//	hash, err := enc.EncodePassword("my-password", "")
//	ok := enc.IsPasswordValid(hash, "my-password", "")
package password
