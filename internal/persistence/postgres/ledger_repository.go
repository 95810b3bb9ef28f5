package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Jasemalbateni/academybase-sub000/internal/persistence"
)

// LedgerRepository implements persistence.LedgerRepository on pgx. Writes key
// on (tenant_id, auto_key): cancel/restore cycles rewrite one row.
type LedgerRepository struct{ db *pgxpool.Pool }

func NewLedgerRepository(db *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) UpsertByAutoKey(ctx context.Context, entry persistence.LedgerEntry) error {
	const q = `INSERT INTO ledger_entries (id, tenant_id, auto_key, branch_id, date, kind, amount, description)
	           VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	           ON CONFLICT (tenant_id, auto_key)
	           DO UPDATE SET kind=EXCLUDED.kind, amount=EXCLUDED.amount, description=EXCLUDED.description, updated_at=NOW()`
	_, err := r.db.Exec(ctx, q,
		entry.ID,
		entry.TenantID,
		entry.AutoKey,
		entry.BranchID,
		entry.Date,
		entry.Kind,
		entry.Amount,
		entry.Description,
	)
	return mapError(err)
}

func (r *LedgerRepository) DeleteByAutoKey(ctx context.Context, tenantID uuid.UUID, autoKey string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM ledger_entries WHERE tenant_id=$1 AND auto_key=$2`, tenantID, autoKey)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

func (r *LedgerRepository) ListForMonth(ctx context.Context, tenantID uuid.UUID, year int, month time.Month) ([]persistence.LedgerEntry, error) {
	const q = `SELECT id, tenant_id, auto_key, branch_id, date, kind, amount, description, created_at, updated_at
	           FROM ledger_entries WHERE tenant_id=$1 AND date >= $2 AND date < $3
	           ORDER BY date, auto_key`
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	rows, err := r.db.Query(ctx, q, tenantID, from, from.AddDate(0, 1, 0))
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var out []persistence.LedgerEntry
	for rows.Next() {
		var e persistence.LedgerEntry
		if err := rows.Scan(
			&e.ID,
			&e.TenantID,
			&e.AutoKey,
			&e.BranchID,
			&e.Date,
			&e.Kind,
			&e.Amount,
			&e.Description,
			&e.CreatedAt,
			&e.UpdatedAt,
		); err != nil {
			return nil, mapError(err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
