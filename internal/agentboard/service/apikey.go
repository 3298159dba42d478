package service

import (
	"fmt"
	"time"

	"github.com/aussiebroadwan/agentboard/internal/agentboard/domain"
	"github.com/aussiebroadwan/agentboard/pkg/cryptox"
	"github.com/aussiebroadwan/agentboard/pkg/idx"
)

// APIKeyPrefix marks a bearer token as an agent API key.
const APIKeyPrefix = "ab_"

// displayPrefixLen is how much of the plaintext is kept for listings.
const displayPrefixLen = len(APIKeyPrefix) + 8

// mintAPIKey generates a new key for agentID. The plaintext is returned to
// the caller once and never stored.
func mintAPIKey(pepper []byte, agentID string, now time.Time) (string, domain.APIKey, error) {
	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return "", domain.APIKey{}, err
	}
	plaintext := APIKeyPrefix + token

	fp, err := cryptox.Fingerprint(pepper, plaintext)
	if err != nil {
		return "", domain.APIKey{}, fmt.Errorf("fingerprint api key: %w", err)
	}

	return plaintext, domain.APIKey{
		ID:          idx.NewAt(now).String(),
		AgentID:     agentID,
		Prefix:      plaintext[:displayPrefixLen],
		Fingerprint: fp,
		CreatedAt:   now,
	}, nil
}
