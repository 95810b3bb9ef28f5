package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Jasemalbateni/academybase-sub000/internal/persistence"
)

// SubstituteRepository implements persistence.SubstituteRepository on pgx.
type SubstituteRepository struct{ db *pgxpool.Pool }

func NewSubstituteRepository(db *pgxpool.Pool) *SubstituteRepository {
	return &SubstituteRepository{db: db}
}

func (r *SubstituteRepository) UpsertSubstitute(ctx context.Context, record persistence.SubstituteRecord) error {
	const q = `INSERT INTO staff_substitutes (id, tenant_id, staff_id, for_staff_id, branch_id, date)
	           VALUES ($1,$2,$3,$4,$5,$6)
	           ON CONFLICT (tenant_id, staff_id, branch_id, date)
	           DO UPDATE SET for_staff_id=EXCLUDED.for_staff_id`
	_, err := r.db.Exec(ctx, q,
		record.ID,
		record.TenantID,
		record.StaffID,
		record.ForStaffID,
		record.BranchID,
		record.Date,
	)
	return mapError(err)
}

func (r *SubstituteRepository) DeleteSubstitute(ctx context.Context, tenantID, staffID, branchID uuid.UUID, date time.Time) error {
	const q = `DELETE FROM staff_substitutes WHERE tenant_id=$1 AND staff_id=$2 AND branch_id=$3 AND date=$4`
	tag, err := r.db.Exec(ctx, q, tenantID, staffID, branchID, date)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

func (r *SubstituteRepository) ListSubstitutesForDate(ctx context.Context, tenantID uuid.UUID, date time.Time) ([]persistence.SubstituteRecord, error) {
	const q = `SELECT id, tenant_id, staff_id, for_staff_id, branch_id, date, created_at
	           FROM staff_substitutes WHERE tenant_id=$1 AND date=$2 ORDER BY staff_id, branch_id`
	rows, err := r.db.Query(ctx, q, tenantID, date)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var out []persistence.SubstituteRecord
	for rows.Next() {
		var s persistence.SubstituteRecord
		if err := rows.Scan(
			&s.ID,
			&s.TenantID,
			&s.StaffID,
			&s.ForStaffID,
			&s.BranchID,
			&s.Date,
			&s.CreatedAt,
		); err != nil {
			return nil, mapError(err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
