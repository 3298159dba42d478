package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/agentboard/internal/agentboard/domain"
	"github.com/aussiebroadwan/agentboard/internal/agentboard/store"
)

type apiKeysRepo struct {
	db dbtx
}

const apiKeyColumns = `id, agent_id, prefix, fingerprint, created_at, expires_at, last_used_at`

func scanAPIKey(row scanner) (domain.APIKey, error) {
	var (
		k                 domain.APIKey
		created           int64
		expires, lastUsed sql.NullInt64
	)
	if err := row.Scan(&k.ID, &k.AgentID, &k.Prefix, &k.Fingerprint, &created, &expires, &lastUsed); err != nil {
		return domain.APIKey{}, err
	}
	k.CreatedAt = fromMillis(created)
	k.ExpiresAt = mapNullTimePtr(expires)
	k.LastUsedAt = mapNullTimePtr(lastUsed)
	return k, nil
}

func (r *apiKeysRepo) CreateAPIKey(ctx context.Context, k domain.APIKey) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO api_keys (`+apiKeyColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		k.ID, k.AgentID, k.Prefix, k.Fingerprint, toMillis(k.CreatedAt),
		mapOptionalTime(k.ExpiresAt), mapOptionalTime(k.LastUsedAt),
	)
	return mapConstraint(err)
}

func (r *apiKeysRepo) GetValidAPIKeyByFingerprint(ctx context.Context, fingerprint string, now time.Time) (domain.APIKey, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+apiKeyColumns+` FROM api_keys
		 WHERE fingerprint = ? AND (expires_at IS NULL OR expires_at > ?)`,
		fingerprint, toMillis(now),
	)
	k, err := scanAPIKey(row)
	if err != nil {
		return domain.APIKey{}, mapNotFound(err)
	}
	return k, nil
}

func (r *apiKeysRepo) ListAPIKeysByAgent(ctx context.Context, agentID string, offset, limit int) ([]domain.APIKey, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+apiKeyColumns+` FROM api_keys WHERE agent_id = ?
		 ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
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
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM api_keys WHERE agent_id = ?`, agentID).Scan(&n)
	return n, err
}

func (r *apiKeysRepo) ExpireValidAPIKeys(ctx context.Context, agentID string, expiresAt, now time.Time) (int, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE api_keys SET expires_at = ?
		 WHERE agent_id = ? AND (expires_at IS NULL OR expires_at > ?)`,
		toMillis(expiresAt), agentID, toMillis(laterOf(expiresAt, now)),
	)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (r *apiKeysRepo) TouchAPIKey(ctx context.Context, id string, usedAt time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE api_keys SET last_used_at = ? WHERE id = ?`, toMillis(usedAt), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *apiKeysRepo) DeleteAPIKeysExpiredBefore(ctx context.Context, before time.Time) (int, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM api_keys WHERE expires_at IS NOT NULL AND expires_at < ?`,
		toMillis(before),
	)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func laterOf(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}
