package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Jasemalbateni/academybase-sub000/internal/persistence"
)

// AttendanceRepository implements persistence.AttendanceRepository on pgx.
type AttendanceRepository struct{ db *pgxpool.Pool }

func NewAttendanceRepository(db *pgxpool.Pool) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

func (r *AttendanceRepository) UpsertAttendance(ctx context.Context, record persistence.AttendanceRecord) error {
	const q = `INSERT INTO staff_attendance (id, tenant_id, staff_id, branch_id, date, status, deduction, note)
	           VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	           ON CONFLICT (tenant_id, staff_id, branch_id, date)
	           DO UPDATE SET status=EXCLUDED.status, deduction=EXCLUDED.deduction, note=EXCLUDED.note, updated_at=NOW()`
	_, err := r.db.Exec(ctx, q,
		record.ID,
		record.TenantID,
		record.StaffID,
		record.BranchID,
		record.Date,
		record.Status,
		record.Deduction,
		record.Note,
	)
	return mapError(err)
}

func (r *AttendanceRepository) DeleteAttendance(ctx context.Context, tenantID, staffID, branchID uuid.UUID, date time.Time) error {
	const q = `DELETE FROM staff_attendance WHERE tenant_id=$1 AND staff_id=$2 AND branch_id=$3 AND date=$4`
	tag, err := r.db.Exec(ctx, q, tenantID, staffID, branchID, date)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

func (r *AttendanceRepository) ListAttendanceForDate(ctx context.Context, tenantID uuid.UUID, date time.Time) ([]persistence.AttendanceRecord, error) {
	const q = `SELECT id, tenant_id, staff_id, branch_id, date, status, deduction, note, created_at, updated_at
	           FROM staff_attendance WHERE tenant_id=$1 AND date=$2 ORDER BY staff_id, branch_id`
	return r.scanList(ctx, q, tenantID, date)
}

func (r *AttendanceRepository) ListAttendanceForMonth(ctx context.Context, tenantID uuid.UUID, year int, month time.Month) ([]persistence.AttendanceRecord, error) {
	const q = `SELECT id, tenant_id, staff_id, branch_id, date, status, deduction, note, created_at, updated_at
	           FROM staff_attendance WHERE tenant_id=$1 AND date >= $2 AND date < $3
	           ORDER BY date, staff_id, branch_id`
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return r.scanList(ctx, q, tenantID, from, from.AddDate(0, 1, 0))
}

func (r *AttendanceRepository) scanList(ctx context.Context, q string, args ...any) ([]persistence.AttendanceRecord, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var out []persistence.AttendanceRecord
	for rows.Next() {
		var a persistence.AttendanceRecord
		if err := rows.Scan(
			&a.ID,
			&a.TenantID,
			&a.StaffID,
			&a.BranchID,
			&a.Date,
			&a.Status,
			&a.Deduction,
			&a.Note,
			&a.CreatedAt,
			&a.UpdatedAt,
		); err != nil {
			return nil, mapError(err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
