package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// RandomSecret generates an unguessable URL-safe secret with the given
// number of random bytes. Used for the placeholder credential on
// provisioned accounts, which is never exposed to any caller.
func RandomSecret(bytes int) (string, error) {
	b := make([]byte, bytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random secret: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
