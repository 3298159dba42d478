package jwtx

import (
	"crypto/ed25519"
	"errors"
	"sync"
)

var ErrNoKey = errors.New("jwtx: key not found")

// KeySet holds the public verification keys. Safe for concurrent use.
type KeySet struct {
	mu  sync.RWMutex
	jks JWKS
	pub map[string]ed25519.PublicKey
}

// NewKeySet returns an empty KeySet.
func NewKeySet() *KeySet {
	return &KeySet{pub: make(map[string]ed25519.PublicKey)}
}

// AddSigner registers a signer's public key.
func (k *KeySet) AddSigner(s *Signer) error {
	return k.AddJWK(s.PublicJWK())
}

// AddJWK adds a JWK to the KeySet.
func (k *KeySet) AddJWK(j JWK) error {
	key, err := j.PublicKey()
	if err != nil {
		return err
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	if _, ok := k.pub[j.Kid]; !ok {
		k.jks.Keys = append(k.jks.Keys, j)
	}
	k.pub[j.Kid] = key
	return nil
}

// Get returns the public key for kid.
func (k *KeySet) Get(kid string) (ed25519.PublicKey, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	if pk, ok := k.pub[kid]; ok {
		return pk, nil
	}
	return nil, ErrNoKey
}

// PublicJWKS returns a snapshot for serving at /.well-known/jwks.json.
func (k *KeySet) PublicJWKS() JWKS {
	k.mu.RLock()
	defer k.mu.RUnlock()
	keys := make([]JWK, len(k.jks.Keys))
	copy(keys, k.jks.Keys)
	return JWKS{Keys: keys}
}

// IsReady returns true if the KeySet has at least one key loaded.
func (k *KeySet) IsReady() bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return len(k.pub) > 0
}
