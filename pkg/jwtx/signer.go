package jwtx

import (
	"crypto/ed25519"
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// Signer signs operator tokens with an Ed25519 key.
type Signer struct {
	kid string
	key ed25519.PrivateKey
	pub ed25519.PublicKey
}

// NewSigner wraps key. An empty kid defaults to the key's thumbprint.
func NewSigner(kid string, key ed25519.PrivateKey) (*Signer, error) {
	if len(key) != ed25519.PrivateKeySize {
		return nil, errors.New("jwtx: invalid Ed25519 private key size")
	}
	pub := key.Public().(ed25519.PublicKey)
	if kid == "" {
		kid = Thumbprint(pub)
	}
	return &Signer{kid: kid, key: key, pub: pub}, nil
}

func (s *Signer) Alg() string { return jwt.SigningMethodEdDSA.Alg() }
func (s *Signer) KID() string { return s.kid }

// Sign turns claims into a compact JWT with the kid header set.
func (s *Signer) Sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	t.Header["kid"] = s.kid
	return t.SignedString(s.key)
}

// PublicJWK returns the JWK to publish so others can verify tokens.
func (s *Signer) PublicJWK() JWK {
	return NewEd25519JWK(s.kid, s.pub)
}
