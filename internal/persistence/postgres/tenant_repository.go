package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Jasemalbateni/academybase-sub000/internal/persistence"
)

// TenantRepository implements persistence.TenantRepository on pgx.
type TenantRepository struct{ db *pgxpool.Pool }

func NewTenantRepository(db *pgxpool.Pool) *TenantRepository {
	return &TenantRepository{db: db}
}

func (r *TenantRepository) GetTenantBySlug(ctx context.Context, slug string) (persistence.Tenant, error) {
	const q = `SELECT id, slug, name, api_key_hash, created_at FROM tenants WHERE slug=$1`
	var t persistence.Tenant
	err := r.db.QueryRow(ctx, q, slug).Scan(
		&t.ID,
		&t.Slug,
		&t.Name,
		&t.APIKeyHash,
		&t.CreatedAt,
	)
	if err != nil {
		return persistence.Tenant{}, mapError(err)
	}
	return t, nil
}
