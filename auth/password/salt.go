package password

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
)

// GenerateSalt returns n cryptographically secure random bytes encoded as
// unpadded URL-safe base64, suitable as a digest salt.
func GenerateSalt(n int) (string, error) {
	b, err := generateRandomBytes(n)
	if err != nil {
		return "", fmt.Errorf("password: generate salt: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// generateRandomBytes returns cryptographically secure random bytes.
func generateRandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, err
	}
	return b, nil
}
