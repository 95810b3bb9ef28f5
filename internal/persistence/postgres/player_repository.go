package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Jasemalbateni/academybase-sub000/internal/persistence"
)

// PlayerRepository implements persistence.PlayerRepository on pgx.
type PlayerRepository struct{ db *pgxpool.Pool }

func NewPlayerRepository(db *pgxpool.Pool) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) CreatePlayer(ctx context.Context, player persistence.Player) error {
	const q = `INSERT INTO players (id, tenant_id, name, branch_id, paused) VALUES ($1,$2,$3,$4,$5)`
	_, err := r.db.Exec(ctx, q, player.ID, player.TenantID, player.Name, player.BranchID, player.Paused)
	return mapError(err)
}

func (r *PlayerRepository) GetPlayer(ctx context.Context, tenantID, id uuid.UUID) (persistence.Player, error) {
	const q = `SELECT id, tenant_id, name, branch_id, paused, created_at, updated_at
	           FROM players WHERE tenant_id=$1 AND id=$2`
	var p persistence.Player
	err := r.db.QueryRow(ctx, q, tenantID, id).Scan(
		&p.ID,
		&p.TenantID,
		&p.Name,
		&p.BranchID,
		&p.Paused,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return persistence.Player{}, mapError(err)
	}
	return p, nil
}

func (r *PlayerRepository) ListPlayers(ctx context.Context, tenantID uuid.UUID) ([]persistence.Player, error) {
	const q = `SELECT id, tenant_id, name, branch_id, paused, created_at, updated_at
	           FROM players WHERE tenant_id=$1 ORDER BY created_at, id`
	rows, err := r.db.Query(ctx, q, tenantID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var out []persistence.Player
	for rows.Next() {
		var p persistence.Player
		if err := rows.Scan(
			&p.ID,
			&p.TenantID,
			&p.Name,
			&p.BranchID,
			&p.Paused,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, mapError(err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PlayerRepository) SetPlayerPaused(ctx context.Context, tenantID, id uuid.UUID, paused bool) error {
	const q = `UPDATE players SET paused=$3, updated_at=NOW() WHERE tenant_id=$1 AND id=$2`
	tag, err := r.db.Exec(ctx, q, tenantID, id, paused)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return persistence.ErrNotFound
	}
	return nil
}
