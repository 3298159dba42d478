package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/agentboard/internal/agentboard/store"
)

type txStore struct {
	tx *sql.Tx
}

func newTx(tx *sql.Tx) *txStore {
	return &txStore{tx: tx}
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Close() error { return nil } // nothing to close; caller will commit/rollback and outer DB stays open

// Ping is a no-op for transactions, the connection is already held.
func (t *txStore) Ping(ctx context.Context) error {
	return nil
}

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	// Nested tx not supported; could emulate with SAVEPOINT if needed
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

func (t *txStore) Agents() store.Agents       { return &agentsRepo{db: t.tx} }
func (t *txStore) APIKeys() store.APIKeys     { return &apiKeysRepo{db: t.tx} }
func (t *txStore) Rotations() store.Rotations { return &rotationsRepo{db: t.tx} }

func (t *txStore) ApplyMigrations() error { return nil } // no-op; migrations should be applied before starting a tx
