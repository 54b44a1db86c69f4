package session

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// GenerateID returns a cryptographically secure session id.
// 32 bytes = 256 bits of entropy.
func GenerateID() (string, error) {

	const size = 32

	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("session: failed to generate id: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(b), nil

}

// NewCSRFToken returns a fresh anti-forgery token. Tokens are only
// meaningful within the session that issued them.
func NewCSRFToken() (string, error) {

	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("session: failed to generate csrf token: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(b), nil

}
