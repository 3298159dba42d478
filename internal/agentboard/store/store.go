package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/agentboard/internal/agentboard/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite, postgres)
// implement this. Sub-repositories hang off the store so that a Tx-scoped
// store hands out Tx-scoped repos and nobody nests transactions by accident.
type Store interface {
	Agents() Agents
	APIKeys() APIKeys
	Rotations() Rotations

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Agents interface {
	// CreateAgent inserts a new agent (id is provided by app via ULID).
	CreateAgent(ctx context.Context, a domain.Agent) error

	// GetAgentByID returns an agent by id.
	GetAgentByID(ctx context.Context, id string) (domain.Agent, error)

	// ListAgents returns a page of agents ordered oldest first.
	ListAgents(ctx context.Context, offset, limit int) ([]domain.Agent, error)

	// CountAgents returns the total number of agents.
	CountAgents(ctx context.Context) (int, error)

	// LockAgent takes the per-agent write lock for the rest of the
	// transaction. Returns ErrNotFound when the agent does not exist.
	LockAgent(ctx context.Context, id string) error
}

type APIKeys interface {
	// CreateAPIKey stores a freshly minted key.
	CreateAPIKey(ctx context.Context, k domain.APIKey) error

	// GetValidAPIKeyByFingerprint returns the key with this fingerprint if it
	// still authenticates at now.
	GetValidAPIKeyByFingerprint(ctx context.Context, fingerprint string, now time.Time) (domain.APIKey, error)

	// ListAPIKeysByAgent returns a page of the agent's keys, newest first.
	ListAPIKeysByAgent(ctx context.Context, agentID string, offset, limit int) ([]domain.APIKey, error)

	// CountAPIKeysByAgent returns how many keys the agent has ever had.
	CountAPIKeysByAgent(ctx context.Context, agentID string) (int, error)

	// ExpireValidAPIKeys caps the expiry of every key of the agent that is
	// still valid at now to expiresAt. A key already due to expire sooner
	// keeps its expiry. Returns the number of keys touched.
	ExpireValidAPIKeys(ctx context.Context, agentID string, expiresAt, now time.Time) (int, error)

	// TouchAPIKey records a successful authentication.
	TouchAPIKey(ctx context.Context, id string, usedAt time.Time) error

	// DeleteAPIKeysExpiredBefore is housekeeping.
	DeleteAPIKeysExpiredBefore(ctx context.Context, before time.Time) (int, error)
}

type Rotations interface {
	// CreateRotation records a successful rotation.
	CreateRotation(ctx context.Context, r domain.KeyRotation) error

	// ListRotationTimesSince returns the agent's rotation times strictly
	// after since, oldest first.
	ListRotationTimesSince(ctx context.Context, agentID string, since time.Time) ([]time.Time, error)

	// ListRotationsByAgent returns a page of the agent's rotations, newest first.
	ListRotationsByAgent(ctx context.Context, agentID string, offset, limit int) ([]domain.KeyRotation, error)

	// CountRotationsByAgent returns the agent's total rotation count.
	CountRotationsByAgent(ctx context.Context, agentID string) (int, error)

	// DeleteRotationsBefore is housekeeping.
	DeleteRotationsBefore(ctx context.Context, before time.Time) (int, error)
}
