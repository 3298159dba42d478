package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultOperatorTokenTTL is how long a minted operator token lives.
const DefaultOperatorTokenTTL = time.Hour

// Claims are the operator token claims.
type Claims struct {
	jwt.RegisteredClaims

	// Permission scopes, e.g. "agents:read", "agents:write".
	Scopes []string `json:"scopes,omitempty"`
}

// NewClaims builds operator claims valid from now for ttl.
func NewClaims(subject, issuer string, scopes []string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		Scopes: scopes,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// HasScope reports whether the token grants scope.
func (c *Claims) HasScope(scope string) bool {
	return slices.Contains(c.Scopes, scope)
}
