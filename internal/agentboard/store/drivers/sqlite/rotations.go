package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/agentboard/internal/agentboard/domain"
)

type rotationsRepo struct {
	db dbtx
}

const rotationColumns = `id, agent_id, new_key_id, reason, grace_period_seconds, rotated_at, old_key_expires_at`

func scanRotation(row scanner) (domain.KeyRotation, error) {
	var (
		rot                domain.KeyRotation
		reason             string
		grace              int
		rotatedAt, expires int64
	)
	if err := row.Scan(&rot.ID, &rot.AgentID, &rot.NewKeyID, &reason, &grace, &rotatedAt, &expires); err != nil {
		return domain.KeyRotation{}, err
	}

	var err error
	if rot.Reason, err = domain.ParseRotationReason(reason); err != nil {
		return domain.KeyRotation{}, err
	}
	if rot.GracePeriod, err = domain.NewGracePeriod(grace); err != nil {
		return domain.KeyRotation{}, err
	}
	rot.RotatedAt = fromMillis(rotatedAt)
	rot.OldKeyExpiresAt = fromMillis(expires)
	return rot, nil
}

func (r *rotationsRepo) CreateRotation(ctx context.Context, rot domain.KeyRotation) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO key_rotations (`+rotationColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rot.ID, rot.AgentID, rot.NewKeyID, string(rot.Reason), rot.GracePeriod.Seconds(),
		toMillis(rot.RotatedAt), toMillis(rot.OldKeyExpiresAt),
	)
	return mapConstraint(err)
}

func (r *rotationsRepo) ListRotationTimesSince(ctx context.Context, agentID string, since time.Time) ([]time.Time, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT rotated_at FROM key_rotations
		 WHERE agent_id = ? AND rotated_at > ?
		 ORDER BY rotated_at ASC`,
		agentID, toMillis(since),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var times []time.Time
	for rows.Next() {
		var ms int64
		if err := rows.Scan(&ms); err != nil {
			return nil, err
		}
		times = append(times, fromMillis(ms))
	}
	return times, rows.Err()
}

func (r *rotationsRepo) ListRotationsByAgent(ctx context.Context, agentID string, offset, limit int) ([]domain.KeyRotation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+rotationColumns+` FROM key_rotations WHERE agent_id = ?
		 ORDER BY rotated_at DESC, id DESC LIMIT ? OFFSET ?`,
		agentID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.KeyRotation
	for rows.Next() {
		rot, err := scanRotation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rot)
	}
	return out, rows.Err()
}

func (r *rotationsRepo) CountRotationsByAgent(ctx context.Context, agentID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM key_rotations WHERE agent_id = ?`, agentID).Scan(&n)
	return n, err
}

func (r *rotationsRepo) DeleteRotationsBefore(ctx context.Context, before time.Time) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM key_rotations WHERE rotated_at < ?`, toMillis(before))
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}
