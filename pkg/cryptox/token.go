package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// TokenSize256 provides 256 bits of entropy (43 chars base64url).
const TokenSize256 = 32

// GenerateToken creates a cryptographically secure random token of size bytes,
// returned base64url-encoded without padding.
func GenerateToken(size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("token size must be positive, got %d", size)
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Fingerprint returns a keyed BLAKE2b-256 digest of token, base64url-encoded.
// The pepper is the MAC key, so a leaked database alone cannot be used to
// confirm guesses. The pepper must be at most 64 bytes.
func Fingerprint(pepper []byte, token string) (string, error) {
	h, err := blake2b.New256(pepper)
	if err != nil {
		return "", fmt.Errorf("cryptox: fingerprint key: %w", err)
	}
	_, _ = h.Write([]byte(token))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil)), nil
}
