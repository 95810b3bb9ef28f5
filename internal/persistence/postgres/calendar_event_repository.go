package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Jasemalbateni/academybase-sub000/internal/persistence"
)

// CalendarEventRepository implements persistence.CalendarEventRepository on
// pgx. Upserts key on (tenant_id, branch_id, date) so repeated writes for the
// same session collapse to one row, and restore is a plain delete.
type CalendarEventRepository struct{ db *pgxpool.Pool }

func NewCalendarEventRepository(db *pgxpool.Pool) *CalendarEventRepository {
	return &CalendarEventRepository{db: db}
}

func (r *CalendarEventRepository) UpsertEvent(ctx context.Context, event persistence.CalendarEvent) error {
	const q = `INSERT INTO calendar_events (id, tenant_id, branch_id, date, kind, status, note)
	           VALUES ($1,$2,$3,$4,$5,$6,$7)
	           ON CONFLICT (tenant_id, branch_id, date)
	           DO UPDATE SET kind=EXCLUDED.kind, status=EXCLUDED.status, note=EXCLUDED.note, updated_at=NOW()`
	_, err := r.db.Exec(ctx, q,
		event.ID,
		event.TenantID,
		event.BranchID,
		event.Date,
		event.Kind,
		event.Status,
		event.Note,
	)
	return mapError(err)
}

func (r *CalendarEventRepository) DeleteEvent(ctx context.Context, tenantID, branchID uuid.UUID, date time.Time) error {
	const q = `DELETE FROM calendar_events WHERE tenant_id=$1 AND branch_id=$2 AND date=$3`
	tag, err := r.db.Exec(ctx, q, tenantID, branchID, date)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

func (r *CalendarEventRepository) ListEventsForMonth(ctx context.Context, tenantID uuid.UUID, year int, month time.Month) ([]persistence.CalendarEvent, error) {
	const q = `SELECT id, tenant_id, branch_id, date, kind, status, note, created_at, updated_at
	           FROM calendar_events
	           WHERE tenant_id=$1 AND date >= $2 AND date < $3
	           ORDER BY date, branch_id`
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	rows, err := r.db.Query(ctx, q, tenantID, from, from.AddDate(0, 1, 0))
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var out []persistence.CalendarEvent
	for rows.Next() {
		var e persistence.CalendarEvent
		if err := rows.Scan(
			&e.ID,
			&e.TenantID,
			&e.BranchID,
			&e.Date,
			&e.Kind,
			&e.Status,
			&e.Note,
			&e.CreatedAt,
			&e.UpdatedAt,
		); err != nil {
			return nil, mapError(err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
