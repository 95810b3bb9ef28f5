package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Jasemalbateni/academybase-sub000/internal/persistence"
)

// SubscriptionRepository implements persistence.SubscriptionRepository on pgx.
type SubscriptionRepository struct{ db *pgxpool.Pool }

func NewSubscriptionRepository(db *pgxpool.Pool) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) CreateSubscription(ctx context.Context, sub persistence.Subscription) error {
	const q = `INSERT INTO subscriptions (id, tenant_id, player_id, branch_id, billing_mode, sessions, amount, start_date, end_date)
	           VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`
	_, err := r.db.Exec(ctx, q,
		sub.ID,
		sub.TenantID,
		sub.PlayerID,
		sub.BranchID,
		sub.BillingMode,
		sub.Sessions,
		sub.Amount,
		sub.StartDate,
		sub.EndDate,
	)
	return mapError(err)
}

func (r *SubscriptionRepository) GetSubscription(ctx context.Context, tenantID, id uuid.UUID) (persistence.Subscription, error) {
	const q = `SELECT id, tenant_id, player_id, branch_id, billing_mode, sessions, amount, start_date, end_date, created_at, updated_at
	           FROM subscriptions WHERE tenant_id=$1 AND id=$2`
	var s persistence.Subscription
	err := r.db.QueryRow(ctx, q, tenantID, id).Scan(
		&s.ID,
		&s.TenantID,
		&s.PlayerID,
		&s.BranchID,
		&s.BillingMode,
		&s.Sessions,
		&s.Amount,
		&s.StartDate,
		&s.EndDate,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return persistence.Subscription{}, mapError(err)
	}
	return s, nil
}

func (r *SubscriptionRepository) ListSubscriptionsForPlayer(ctx context.Context, tenantID, playerID uuid.UUID) ([]persistence.Subscription, error) {
	const q = `SELECT id, tenant_id, player_id, branch_id, billing_mode, sessions, amount, start_date, end_date, created_at, updated_at
	           FROM subscriptions WHERE tenant_id=$1 AND player_id=$2 ORDER BY start_date, id`
	rows, err := r.db.Query(ctx, q, tenantID, playerID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var out []persistence.Subscription
	for rows.Next() {
		var s persistence.Subscription
		if err := rows.Scan(
			&s.ID,
			&s.TenantID,
			&s.PlayerID,
			&s.BranchID,
			&s.BillingMode,
			&s.Sessions,
			&s.Amount,
			&s.StartDate,
			&s.EndDate,
			&s.CreatedAt,
			&s.UpdatedAt,
		); err != nil {
			return nil, mapError(err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SubscriptionRepository) UpdateSubscriptionEnd(ctx context.Context, tenantID, id uuid.UUID, end *time.Time) error {
	const q = `UPDATE subscriptions SET end_date=$3, updated_at=NOW() WHERE tenant_id=$1 AND id=$2`
	tag, err := r.db.Exec(ctx, q, tenantID, id, end)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return persistence.ErrNotFound
	}
	return nil
}
