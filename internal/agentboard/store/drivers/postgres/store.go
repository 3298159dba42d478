// Package postgres is the PostgreSQL driver for store.Store, built on pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/agentboard/internal/agentboard/store"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// dbtx is satisfied by *pgxpool.Pool and pgx.Tx.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Store struct {
	pool *pgxpool.Pool
	dsn  string
}

// NewStore connects a pool and verifies it with a ping.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &Store{pool: pool, dsn: dsn}, nil
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &txStore{tx: tx, ctx: ctx}, nil
}

func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback() // no-op after commit
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) Agents() store.Agents       { return &agentsRepo{db: s.pool} }
func (s *Store) APIKeys() store.APIKeys     { return &apiKeysRepo{db: s.pool} }
func (s *Store) Rotations() store.Rotations { return &rotationsRepo{db: s.pool} }

type txStore struct {
	tx  pgx.Tx
	ctx context.Context
}

func (t *txStore) Commit() error   { return t.tx.Commit(t.ctx) }
func (t *txStore) Rollback() error { return t.tx.Rollback(context.WithoutCancel(t.ctx)) }

func (t *txStore) Close() error                   { return nil }
func (t *txStore) Ping(ctx context.Context) error { return nil }
func (t *txStore) ApplyMigrations() error         { return nil }

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	return nil, pgx.ErrTxClosed
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return pgx.ErrTxClosed
}

func (t *txStore) Agents() store.Agents       { return &agentsRepo{db: t.tx} }
func (t *txStore) APIKeys() store.APIKeys     { return &apiKeysRepo{db: t.tx} }
func (t *txStore) Rotations() store.Rotations { return &rotationsRepo{db: t.tx} }

func mapNotFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

func mapConstraint(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return store.ErrAlreadyExists
		case "23503":
			return store.ErrNotFound
		}
	}
	return err
}

// Postgres keeps microseconds; the API speaks milliseconds.
func ms(t time.Time) time.Time { return t.Truncate(time.Millisecond).UTC() }

func msPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := ms(*t)
	return &v
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
