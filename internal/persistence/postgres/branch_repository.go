package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Jasemalbateni/academybase-sub000/internal/persistence"
)

// BranchRepository implements persistence.BranchRepository on pgx.
type BranchRepository struct{ db *pgxpool.Pool }

func NewBranchRepository(db *pgxpool.Pool) *BranchRepository {
	return &BranchRepository{db: db}
}

func (r *BranchRepository) CreateBranch(ctx context.Context, branch persistence.Branch) error {
	const q = `INSERT INTO branches (id, tenant_id, name, days, start_time, end_time, rent_type, monthly_rent)
	           VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
	_, err := r.db.Exec(ctx, q,
		branch.ID,
		branch.TenantID,
		branch.Name,
		branch.Days,
		branch.StartTime,
		branch.EndTime,
		branch.RentType,
		branch.MonthlyRent,
	)
	return mapError(err)
}

func (r *BranchRepository) UpdateBranch(ctx context.Context, branch persistence.Branch) error {
	const q = `UPDATE branches
	           SET name=$3, days=$4, start_time=$5, end_time=$6, rent_type=$7, monthly_rent=$8, updated_at=NOW()
	           WHERE tenant_id=$1 AND id=$2`
	tag, err := r.db.Exec(ctx, q,
		branch.TenantID,
		branch.ID,
		branch.Name,
		branch.Days,
		branch.StartTime,
		branch.EndTime,
		branch.RentType,
		branch.MonthlyRent,
	)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

func (r *BranchRepository) GetBranch(ctx context.Context, tenantID, id uuid.UUID) (persistence.Branch, error) {
	const q = `SELECT id, tenant_id, name, days, start_time, end_time, rent_type, monthly_rent, created_at, updated_at
	           FROM branches WHERE tenant_id=$1 AND id=$2`
	var b persistence.Branch
	err := r.db.QueryRow(ctx, q, tenantID, id).Scan(
		&b.ID,
		&b.TenantID,
		&b.Name,
		&b.Days,
		&b.StartTime,
		&b.EndTime,
		&b.RentType,
		&b.MonthlyRent,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return persistence.Branch{}, mapError(err)
	}
	return b, nil
}

func (r *BranchRepository) ListBranches(ctx context.Context, tenantID uuid.UUID) ([]persistence.Branch, error) {
	const q = `SELECT id, tenant_id, name, days, start_time, end_time, rent_type, monthly_rent, created_at, updated_at
	           FROM branches WHERE tenant_id=$1 ORDER BY created_at, id`
	rows, err := r.db.Query(ctx, q, tenantID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var out []persistence.Branch
	for rows.Next() {
		var b persistence.Branch
		if err := rows.Scan(
			&b.ID,
			&b.TenantID,
			&b.Name,
			&b.Days,
			&b.StartTime,
			&b.EndTime,
			&b.RentType,
			&b.MonthlyRent,
			&b.CreatedAt,
			&b.UpdatedAt,
		); err != nil {
			return nil, mapError(err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *BranchRepository) DeleteBranch(ctx context.Context, tenantID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM branches WHERE tenant_id=$1 AND id=$2`, tenantID, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return persistence.ErrNotFound
	}
	return nil
}
