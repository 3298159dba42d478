package postgres

import (
	"context"
	"time"

	"github.com/aussiebroadwan/agentboard/internal/agentboard/domain"
	"github.com/jackc/pgx/v5"
)

type rotationsRepo struct {
	db dbtx
}

const rotationColumns = `id, agent_id, new_key_id, reason, grace_period_seconds, rotated_at, old_key_expires_at`

func scanRotation(row pgx.Row) (domain.KeyRotation, error) {
	var (
		rot    domain.KeyRotation
		reason string
		grace  int
	)
	if err := row.Scan(&rot.ID, &rot.AgentID, &rot.NewKeyID, &reason, &grace, &rot.RotatedAt, &rot.OldKeyExpiresAt); err != nil {
		return domain.KeyRotation{}, err
	}

	var err error
	if rot.Reason, err = domain.ParseRotationReason(reason); err != nil {
		return domain.KeyRotation{}, err
	}
	if rot.GracePeriod, err = domain.NewGracePeriod(grace); err != nil {
		return domain.KeyRotation{}, err
	}
	rot.RotatedAt = rot.RotatedAt.UTC()
	rot.OldKeyExpiresAt = rot.OldKeyExpiresAt.UTC()
	return rot, nil
}

func (r *rotationsRepo) CreateRotation(ctx context.Context, rot domain.KeyRotation) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO key_rotations (`+rotationColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rot.ID, rot.AgentID, rot.NewKeyID, string(rot.Reason), rot.GracePeriod.Seconds(),
		ms(rot.RotatedAt), ms(rot.OldKeyExpiresAt),
	)
	return mapConstraint(err)
}

func (r *rotationsRepo) ListRotationTimesSince(ctx context.Context, agentID string, since time.Time) ([]time.Time, error) {
	rows, err := r.db.Query(ctx,
		`SELECT rotated_at FROM key_rotations
		 WHERE agent_id = $1 AND rotated_at > $2
		 ORDER BY rotated_at ASC`,
		agentID, ms(since),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var times []time.Time
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		times = append(times, t.UTC())
	}
	return times, rows.Err()
}

func (r *rotationsRepo) ListRotationsByAgent(ctx context.Context, agentID string, offset, limit int) ([]domain.KeyRotation, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+rotationColumns+` FROM key_rotations WHERE agent_id = $1
		 ORDER BY rotated_at DESC, id DESC LIMIT $2 OFFSET $3`,
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
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM key_rotations WHERE agent_id = $1`, agentID).Scan(&n)
	return n, err
}

func (r *rotationsRepo) DeleteRotationsBefore(ctx context.Context, before time.Time) (int, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM key_rotations WHERE rotated_at < $1`, ms(before))
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
