package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed  = errors.New("jwtx: malformed token")
	ErrUnknownKID = errors.New("jwtx: unknown kid")
	ErrInvalid    = errors.New("jwtx: invalid token")
)

// Verifier validates operator tokens against a KeySet.
type Verifier struct {
	Keys   *KeySet
	Issuer string

	// Leeway allows small clock skew when validating exp/nbf/iat.
	Leeway time.Duration

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// NewVerifier returns a verifier with a 30s leeway.
func NewVerifier(keys *KeySet, issuer string) *Verifier {
	return &Verifier{Keys: keys, Issuer: issuer, Leeway: 30 * time.Second}
}

// Verify checks signature, issuer and lifetime and returns the claims.
func (v *Verifier) Verify(tokenStr string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}),
		jwt.WithLeeway(v.Leeway),
		jwt.WithExpirationRequired(),
	}
	if v.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.Issuer))
	}
	if v.Now != nil {
		opts = append(opts, jwt.WithTimeFunc(v.Now))
	}

	token, err := jwt.NewParser(opts...).ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, fmt.Errorf("%w: missing kid", ErrMalformed)
		}
		pub, err := v.Keys.Get(kid)
		if err != nil {
			return nil, fmt.Errorf("%w %q", ErrUnknownKID, kid)
		}
		return pub, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalid
	}
	return claims, nil
}
