package password

import (
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"strings"
)

// Encoder encodes raw passwords and verifies them against encoded ones.
// It satisfies auth.PasswordEncoder.
type Encoder interface {
	EncodePassword(raw, salt string) (string, error)
	IsPasswordValid(encoded, raw, salt string) bool
}

// ErrInvalidSalt is returned when a salt contains braces.
var ErrInvalidSalt = errors.New("password: salt cannot contain { or }")

// mergePasswordAndSalt joins raw and salt as "raw{salt}".
func mergePasswordAndSalt(raw, salt string) (string, error) {
	if salt == "" {
		return raw, nil
	}
	if strings.ContainsAny(salt, "{}") {
		return "", ErrInvalidSalt
	}
	return raw + "{" + salt + "}", nil
}

// --- Hasher adapter ---

// HasherEncoder adapts a Hasher to Encoder. The salt argument is ignored
// because bcrypt and argon2id embed their own salt in the hash.
type HasherEncoder struct {
	hasher Hasher
}

// NewHasherEncoder wraps h.
func NewHasherEncoder(h Hasher) *HasherEncoder {
	return &HasherEncoder{hasher: h}
}

func (e *HasherEncoder) EncodePassword(raw, _ string) (string, error) {
	return e.hasher.Hash(raw)
}

func (e *HasherEncoder) IsPasswordValid(encoded, raw, _ string) bool {
	if encoded == "" {
		return false
	}
	return e.hasher.Verify(raw, encoded) == nil
}

// --- Plaintext ---

// PlaintextEncoder stores passwords as "raw{salt}". Only for tests and
// fixtures; comparisons are constant-time.
type PlaintextEncoder struct {
	IgnoreCase bool
}

func (e PlaintextEncoder) EncodePassword(raw, salt string) (string, error) {
	return mergePasswordAndSalt(raw, salt)
}

func (e PlaintextEncoder) IsPasswordValid(encoded, raw, salt string) bool {
	merged, err := mergePasswordAndSalt(raw, salt)
	if err != nil {
		return false
	}
	if e.IgnoreCase {
		encoded, merged = strings.ToLower(encoded), strings.ToLower(merged)
	}
	return subtle.ConstantTimeCompare([]byte(encoded), []byte(merged)) == 1
}

// --- Salted digest ---

// DigestEncoder hashes "raw{salt}" with SHA-256 or SHA-512, then re-hashes
// the digest concatenated with the merged input for Iterations-1 more
// rounds. The result is base64 encoded unless Hex is set.
type DigestEncoder struct {
	Algorithm  Algorithm
	Iterations int
	Hex        bool
}

func (e *DigestEncoder) EncodePassword(raw, salt string) (string, error) {
	newHash, err := e.hashFunc()
	if err != nil {
		return "", err
	}
	merged, err := mergePasswordAndSalt(raw, salt)
	if err != nil {
		return "", err
	}

	h := newHash()
	h.Write([]byte(merged))
	digest := h.Sum(nil)
	for i := 1; i < e.Iterations; i++ {
		h.Reset()
		h.Write(digest)
		h.Write([]byte(merged))
		digest = h.Sum(digest[:0])
	}

	if e.Hex {
		return hex.EncodeToString(digest), nil
	}
	return base64.StdEncoding.EncodeToString(digest), nil
}

func (e *DigestEncoder) IsPasswordValid(encoded, raw, salt string) bool {
	computed, err := e.EncodePassword(raw, salt)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(encoded), []byte(computed)) == 1
}

func (e *DigestEncoder) hashFunc() (func() hash.Hash, error) {
	switch e.Algorithm {
	case AlgorithmSHA256:
		return sha256.New, nil
	case AlgorithmSHA512:
		return sha512.New, nil
	default:
		return nil, fmt.Errorf("password: unsupported digest algorithm %q", e.Algorithm)
	}
}
