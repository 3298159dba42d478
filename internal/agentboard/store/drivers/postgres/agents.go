package postgres

import (
	"context"

	"github.com/aussiebroadwan/agentboard/internal/agentboard/domain"
	"github.com/jackc/pgx/v5"
)

type agentsRepo struct {
	db dbtx
}

const agentColumns = `id, name, description, created_at, updated_at`

func scanAgent(row pgx.Row) (domain.Agent, error) {
	var a domain.Agent
	if err := row.Scan(&a.ID, &a.Name, &a.Description, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return domain.Agent{}, err
	}
	a.CreatedAt = a.CreatedAt.UTC()
	a.UpdatedAt = a.UpdatedAt.UTC()
	return a, nil
}

func (r *agentsRepo) CreateAgent(ctx context.Context, a domain.Agent) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO agents (`+agentColumns+`) VALUES ($1, $2, $3, $4, $5)`,
		a.ID, a.Name, a.Description, ms(a.CreatedAt), ms(a.UpdatedAt),
	)
	return mapConstraint(err)
}

func (r *agentsRepo) GetAgentByID(ctx context.Context, id string) (domain.Agent, error) {
	a, err := scanAgent(r.db.QueryRow(ctx, `SELECT `+agentColumns+` FROM agents WHERE id = $1`, id))
	if err != nil {
		return domain.Agent{}, mapNotFound(err)
	}
	return a, nil
}

func (r *agentsRepo) ListAgents(ctx context.Context, offset, limit int) ([]domain.Agent, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+agentColumns+` FROM agents ORDER BY created_at ASC, id ASC LIMIT $1 OFFSET $2`,
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
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM agents`).Scan(&n)
	return n, err
}

// LockAgent holds the agent row lock until the transaction ends.
func (r *agentsRepo) LockAgent(ctx context.Context, id string) error {
	var locked string
	err := r.db.QueryRow(ctx, `SELECT id FROM agents WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
	return mapNotFound(err)
}
