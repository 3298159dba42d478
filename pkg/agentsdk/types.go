package agentsdk

import (
	"github.com/aussiebroadwan/agentboard/pkg/jwtx"
	"github.com/aussiebroadwan/agentboard/pkg/pagination"
)

// All timestamps on the wire are Unix epoch milliseconds.

// ============================================================================
// Agent Types
// ============================================================================

// Agent is a registered automated worker.
type Agent struct {
	ID          string `json:"id" example:"01JQ8Z6V6K3XG9N1W2C4T5R7YB"`
	Name        string `json:"name" example:"builder"`
	Description string `json:"description,omitempty" example:"Runs CI builds"`
	CreatedAt   int64  `json:"createdAt" example:"1767225600000"`
	UpdatedAt   int64  `json:"updatedAt" example:"1767225600000"`
}

// CreateAgentRequest registers a new agent.
type CreateAgentRequest struct {
	// Name is unique, 1-100 characters
	Name string `json:"name" example:"builder"`

	// Description is optional, at most 500 characters
	Description string `json:"description,omitempty" example:"Runs CI builds"`
}

// CreateAgentResponse carries the agent's first API key. It is not shown again.
type CreateAgentResponse struct {
	Agent  Agent  `json:"agent"`
	APIKey string `json:"apiKey" example:"ab_3q2-7wEvN5mZ0c1k9yXqTgq0q8hJb1m2YwFQd0aZb3c"`
}

// ============================================================================
// API Key Types
// ============================================================================

// APIKey describes a key without revealing it.
type APIKey struct {
	ID      string `json:"id"`
	AgentID string `json:"agentId"`

	// Prefix is the first characters of the key, for recognizing it
	Prefix string `json:"prefix" example:"ab_3q2-7wEv"`

	// Status is active, grace (superseded but still accepted) or expired
	Status string `json:"status" enums:"active,grace,expired"`

	CreatedAt  int64  `json:"createdAt"`
	ExpiresAt  *int64 `json:"expiresAt"`
	LastUsedAt *int64 `json:"lastUsedAt"`
}

// ============================================================================
// Rotation Types
// ============================================================================

// RotateKeyRequest is the body of POST /v1/agents/{agentId}/rotate-key. Both
// fields are optional.
type RotateKeyRequest struct {
	// Reason defaults to refresh
	Reason string `json:"reason,omitempty" enums:"scheduled,compromised,deployment,refresh" example:"deployment"`

	// GracePeriodSeconds is how long the old key keeps working, 0-300, default 0
	GracePeriodSeconds *int `json:"gracePeriodSeconds,omitempty" minimum:"0" maximum:"300" example:"60"`
}

// RotateKeyResponse is returned once; NewAPIKey cannot be retrieved later.
type RotateKeyResponse struct {
	NewAPIKey          string `json:"newApiKey"`
	RotatedAt          int64  `json:"rotatedAt" example:"1767225600000"`
	OldKeyExpiresAt    int64  `json:"oldKeyExpiresAt" example:"1767225660000"`
	GracePeriodSeconds int    `json:"gracePeriodSeconds" example:"60"`
	AgentID            string `json:"agentId"`
	Reason             string `json:"reason" example:"deployment"`
}

// KeyRotation is one entry of an agent's rotation history.
type KeyRotation struct {
	ID                 string `json:"id"`
	AgentID            string `json:"agentId"`
	NewKeyID           string `json:"newKeyId"`
	Reason             string `json:"reason"`
	GracePeriodSeconds int    `json:"gracePeriodSeconds"`
	RotatedAt          int64  `json:"rotatedAt"`
	OldKeyExpiresAt    int64  `json:"oldKeyExpiresAt"`
}

// Int returns a pointer to n, for optional request fields.
func Int(n int) *int { return &n }

// ============================================================================
// List Types
// ============================================================================

// ListOptions selects a page. Zero values mean server defaults.
type ListOptions struct {
	Limit  int
	Cursor string
}

type (
	AgentPage    = pagination.Page[Agent]
	APIKeyPage   = pagination.Page[APIKey]
	RotationPage = pagination.Page[KeyRotation]
)

// ============================================================================
// Health Check Types
// ============================================================================

// HealthResponse is returned by /livez and /readyz (readyz adds Checks).
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the status of critical dependencies.
type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}

// JWKSResponse lists the public keys operator tokens are verified with.
type JWKSResponse jwtx.JWKS
