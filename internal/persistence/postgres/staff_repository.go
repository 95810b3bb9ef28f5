package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Jasemalbateni/academybase-sub000/internal/persistence"
)

// StaffRepository implements persistence.StaffRepository on pgx. Explicit
// branch assignments live in the staff_branches join table.
type StaffRepository struct{ db *pgxpool.Pool }

func NewStaffRepository(db *pgxpool.Pool) *StaffRepository {
	return &StaffRepository{db: db}
}

func (r *StaffRepository) CreateStaff(ctx context.Context, staff persistence.Staff) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		const q = `INSERT INTO staff (id, tenant_id, name, monthly_salary, salary_type, all_branches, active)
		           VALUES ($1,$2,$3,$4,$5,$6,$7)`
		if _, err := tx.Exec(ctx, q,
			staff.ID,
			staff.TenantID,
			staff.Name,
			staff.MonthlySalary,
			staff.SalaryType,
			staff.AllBranches,
			staff.Active,
		); err != nil {
			return mapError(err)
		}
		return r.replaceAssignments(ctx, tx, staff)
	})
}

func (r *StaffRepository) UpdateStaff(ctx context.Context, staff persistence.Staff) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		const q = `UPDATE staff
		           SET name=$3, monthly_salary=$4, salary_type=$5, all_branches=$6, active=$7, updated_at=NOW()
		           WHERE tenant_id=$1 AND id=$2`
		tag, err := tx.Exec(ctx, q,
			staff.TenantID,
			staff.ID,
			staff.Name,
			staff.MonthlySalary,
			staff.SalaryType,
			staff.AllBranches,
			staff.Active,
		)
		if err != nil {
			return mapError(err)
		}
		if tag.RowsAffected() == 0 {
			return persistence.ErrNotFound
		}
		if _, err := tx.Exec(ctx, `DELETE FROM staff_branches WHERE staff_id=$1`, staff.ID); err != nil {
			return mapError(err)
		}
		return r.replaceAssignments(ctx, tx, staff)
	})
}

func (r *StaffRepository) replaceAssignments(ctx context.Context, tx pgx.Tx, staff persistence.Staff) error {
	for _, branchID := range staff.BranchIDs {
		const q = `INSERT INTO staff_branches (staff_id, branch_id) VALUES ($1,$2)
		           ON CONFLICT (staff_id, branch_id) DO NOTHING`
		if _, err := tx.Exec(ctx, q, staff.ID, branchID); err != nil {
			return mapError(err)
		}
	}
	return nil
}

func (r *StaffRepository) GetStaff(ctx context.Context, tenantID, id uuid.UUID) (persistence.Staff, error) {
	const q = `SELECT id, tenant_id, name, monthly_salary, salary_type, all_branches, active, created_at, updated_at
	           FROM staff WHERE tenant_id=$1 AND id=$2`
	var s persistence.Staff
	err := r.db.QueryRow(ctx, q, tenantID, id).Scan(
		&s.ID,
		&s.TenantID,
		&s.Name,
		&s.MonthlySalary,
		&s.SalaryType,
		&s.AllBranches,
		&s.Active,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return persistence.Staff{}, mapError(err)
	}
	if err := r.loadAssignments(ctx, map[uuid.UUID]*persistence.Staff{s.ID: &s}); err != nil {
		return persistence.Staff{}, err
	}
	return s, nil
}

func (r *StaffRepository) ListStaff(ctx context.Context, tenantID uuid.UUID) ([]persistence.Staff, error) {
	const q = `SELECT id, tenant_id, name, monthly_salary, salary_type, all_branches, active, created_at, updated_at
	           FROM staff WHERE tenant_id=$1 ORDER BY created_at, id`
	rows, err := r.db.Query(ctx, q, tenantID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var out []persistence.Staff
	byID := make(map[uuid.UUID]*persistence.Staff)
	for rows.Next() {
		var s persistence.Staff
		if err := rows.Scan(
			&s.ID,
			&s.TenantID,
			&s.Name,
			&s.MonthlySalary,
			&s.SalaryType,
			&s.AllBranches,
			&s.Active,
			&s.CreatedAt,
			&s.UpdatedAt,
		); err != nil {
			return nil, mapError(err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	for i := range out {
		byID[out[i].ID] = &out[i]
	}
	if err := r.loadAssignments(ctx, byID); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *StaffRepository) loadAssignments(ctx context.Context, staff map[uuid.UUID]*persistence.Staff) error {
	if len(staff) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(staff))
	for id := range staff {
		ids = append(ids, id)
	}
	const q = `SELECT staff_id, branch_id FROM staff_branches WHERE staff_id = ANY($1) ORDER BY branch_id`
	rows, err := r.db.Query(ctx, q, ids)
	if err != nil {
		return mapError(err)
	}
	defer rows.Close()

	for rows.Next() {
		var staffID, branchID uuid.UUID
		if err := rows.Scan(&staffID, &branchID); err != nil {
			return mapError(err)
		}
		if s, ok := staff[staffID]; ok {
			s.BranchIDs = append(s.BranchIDs, branchID)
		}
	}
	return rows.Err()
}
