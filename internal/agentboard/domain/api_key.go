package domain

import "time"

// APIKeyStatus is derived from ExpiresAt at read time, never stored.
type APIKeyStatus string

const (
	APIKeyActive  APIKeyStatus = "active"
	APIKeyGrace   APIKeyStatus = "grace"
	APIKeyExpired APIKeyStatus = "expired"
)

// APIKey is an agent credential. The plaintext is only ever returned once, at
// mint time; the store keeps a keyed fingerprint and a short display prefix.
type APIKey struct {
	ID          string     // ULID
	AgentID     string     // Owning agent
	Prefix      string     // First characters of the plaintext, for display
	Fingerprint string     // Keyed hash used for lookup
	CreatedAt   time.Time  // When the key was minted
	ExpiresAt   *time.Time // nil = no expiry; set when superseded by a rotation
	LastUsedAt  *time.Time // Last successful authentication
}

// IsValid reports whether the key authenticates at now. A superseded key is
// valid strictly before its ExpiresAt.
func (k *APIKey) IsValid(now time.Time) bool {
	return k.ExpiresAt == nil || now.Before(*k.ExpiresAt)
}

// Status classifies the key for listings.
func (k *APIKey) Status(now time.Time) APIKeyStatus {
	switch {
	case k.ExpiresAt == nil:
		return APIKeyActive
	case now.Before(*k.ExpiresAt):
		return APIKeyGrace
	default:
		return APIKeyExpired
	}
}
