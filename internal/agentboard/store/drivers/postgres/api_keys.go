package postgres

import (
	"context"
	"time"

	"github.com/aussiebroadwan/agentboard/internal/agentboard/domain"
	"github.com/aussiebroadwan/agentboard/internal/agentboard/store"
	"github.com/jackc/pgx/v5"
)

type apiKeysRepo struct {
	db dbtx
}

const apiKeyColumns = `id, agent_id, prefix, fingerprint, created_at, expires_at, last_used_at`

func scanAPIKey(row pgx.Row) (domain.APIKey, error) {
	var k domain.APIKey
	if err := row.Scan(&k.ID, &k.AgentID, &k.Prefix, &k.Fingerprint, &k.CreatedAt, &k.ExpiresAt, &k.LastUsedAt); err != nil {
		return domain.APIKey{}, err
	}
	k.CreatedAt = k.CreatedAt.UTC()
	k.ExpiresAt = utcPtr(k.ExpiresAt)
	k.LastUsedAt = utcPtr(k.LastUsedAt)
	return k, nil
}

func (r *apiKeysRepo) CreateAPIKey(ctx context.Context, k domain.APIKey) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO api_keys (`+apiKeyColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		k.ID, k.AgentID, k.Prefix, k.Fingerprint, ms(k.CreatedAt), msPtr(k.ExpiresAt), msPtr(k.LastUsedAt),
	)
	return mapConstraint(err)
}

func (r *apiKeysRepo) GetValidAPIKeyByFingerprint(ctx context.Context, fingerprint string, now time.Time) (domain.APIKey, error) {
	k, err := scanAPIKey(r.db.QueryRow(ctx,
		`SELECT `+apiKeyColumns+` FROM api_keys
		 WHERE fingerprint = $1 AND (expires_at IS NULL OR expires_at > $2)`,
		fingerprint, ms(now),
	))
	if err != nil {
		return domain.APIKey{}, mapNotFound(err)
	}
	return k, nil
}

func (r *apiKeysRepo) ListAPIKeysByAgent(ctx context.Context, agentID string, offset, limit int) ([]domain.APIKey, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+apiKeyColumns+` FROM api_keys WHERE agent_id = $1
		 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`,
		agentID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []domain.APIKey
	for rows.Next() {
		k, err := scanAPIKey(rows)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func (r *apiKeysRepo) CountAPIKeysByAgent(ctx context.Context, agentID string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM api_keys WHERE agent_id = $1`, agentID).Scan(&n)
	return n, err
}

func (r *apiKeysRepo) ExpireValidAPIKeys(ctx context.Context, agentID string, expiresAt, now time.Time) (int, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE api_keys SET expires_at = $1
		 WHERE agent_id = $2 AND (expires_at IS NULL OR expires_at > $3)`,
		ms(expiresAt), agentID, ms(laterOf(expiresAt, now)),
	)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (r *apiKeysRepo) TouchAPIKey(ctx context.Context, id string, usedAt time.Time) error {
	tag, err := r.db.Exec(ctx, `UPDATE api_keys SET last_used_at = $1 WHERE id = $2`, ms(usedAt), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *apiKeysRepo) DeleteAPIKeysExpiredBefore(ctx context.Context, before time.Time) (int, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM api_keys WHERE expires_at IS NOT NULL AND expires_at < $1`, ms(before))
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func laterOf(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}
