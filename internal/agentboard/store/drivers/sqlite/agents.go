package sqlite

import (
	"context"

	"github.com/aussiebroadwan/agentboard/internal/agentboard/domain"
	"github.com/aussiebroadwan/agentboard/internal/agentboard/store"
)

type agentsRepo struct {
	db dbtx
}

const agentColumns = `id, name, description, created_at, updated_at`

func scanAgent(row scanner) (domain.Agent, error) {
	var (
		a                domain.Agent
		created, updated int64
	)
	if err := row.Scan(&a.ID, &a.Name, &a.Description, &created, &updated); err != nil {
		return domain.Agent{}, err
	}
	a.CreatedAt = fromMillis(created)
	a.UpdatedAt = fromMillis(updated)
	return a, nil
}

func (r *agentsRepo) CreateAgent(ctx context.Context, a domain.Agent) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO agents (`+agentColumns+`) VALUES (?, ?, ?, ?, ?)`,
		a.ID, a.Name, a.Description, toMillis(a.CreatedAt), toMillis(a.UpdatedAt),
	)
	return mapConstraint(err)
}

func (r *agentsRepo) GetAgentByID(ctx context.Context, id string) (domain.Agent, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+agentColumns+` FROM agents WHERE id = ?`, id)
	a, err := scanAgent(row)
	if err != nil {
		return domain.Agent{}, mapNotFound(err)
	}
	return a, nil
}

func (r *agentsRepo) ListAgents(ctx context.Context, offset, limit int) ([]domain.Agent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+agentColumns+` FROM agents ORDER BY created_at ASC, id ASC LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var agents []domain.Agent
	for rows.Next() {
		a, err := scanAgent(rows)
		if err != nil {
			return nil, err
		}
		agents = append(agents, a)
	}
	return agents, rows.Err()
}

func (r *agentsRepo) CountAgents(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM agents`).Scan(&n)
	return n, err
}

// LockAgent issues a no-op write against the agent row. As the first write of
// the transaction it takes SQLite's database write lock, so concurrent
// rotations queue behind busy_timeout instead of interleaving.
func (r *agentsRepo) LockAgent(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE agents SET updated_at = updated_at WHERE id = ?`, id)
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
