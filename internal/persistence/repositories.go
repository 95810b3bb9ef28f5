package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TenantRepository resolves tenants during request authentication.
type TenantRepository interface {
	GetTenantBySlug(ctx context.Context, slug string) (Tenant, error)
}

// BranchRepository exposes branch configuration reads and writes.
type BranchRepository interface {
	CreateBranch(ctx context.Context, branch Branch) error
	UpdateBranch(ctx context.Context, branch Branch) error
	GetBranch(ctx context.Context, tenantID, id uuid.UUID) (Branch, error)
	ListBranches(ctx context.Context, tenantID uuid.UUID) ([]Branch, error)
	DeleteBranch(ctx context.Context, tenantID, id uuid.UUID) error
}

// StaffRepository exposes staff roster reads and writes.
type StaffRepository interface {
	CreateStaff(ctx context.Context, staff Staff) error
	UpdateStaff(ctx context.Context, staff Staff) error
	GetStaff(ctx context.Context, tenantID, id uuid.UUID) (Staff, error)
	ListStaff(ctx context.Context, tenantID uuid.UUID) ([]Staff, error)
}

// PlayerRepository exposes player reads plus the pause flag write.
type PlayerRepository interface {
	CreatePlayer(ctx context.Context, player Player) error
	GetPlayer(ctx context.Context, tenantID, id uuid.UUID) (Player, error)
	ListPlayers(ctx context.Context, tenantID uuid.UUID) ([]Player, error)
	SetPlayerPaused(ctx context.Context, tenantID, id uuid.UUID, paused bool) error
}

// SubscriptionRepository stores player subscriptions.
type SubscriptionRepository interface {
	CreateSubscription(ctx context.Context, sub Subscription) error
	GetSubscription(ctx context.Context, tenantID, id uuid.UUID) (Subscription, error)
	ListSubscriptionsForPlayer(ctx context.Context, tenantID, playerID uuid.UUID) ([]Subscription, error)
	UpdateSubscriptionEnd(ctx context.Context, tenantID, id uuid.UUID, end *time.Time) error
}

// CalendarEventRepository stores calendar exception records, idempotent by
// the (tenant, branch, date) natural key. Restoring a session is DeleteEvent;
// there is no stored "restored" state.
type CalendarEventRepository interface {
	UpsertEvent(ctx context.Context, event CalendarEvent) error
	DeleteEvent(ctx context.Context, tenantID, branchID uuid.UUID, date time.Time) error
	ListEventsForMonth(ctx context.Context, tenantID uuid.UUID, year int, month time.Month) ([]CalendarEvent, error)
}

// AttendanceRepository stores staff attendance rows, idempotent by the
// (tenant, staff, branch, date) natural key.
type AttendanceRepository interface {
	UpsertAttendance(ctx context.Context, record AttendanceRecord) error
	DeleteAttendance(ctx context.Context, tenantID, staffID, branchID uuid.UUID, date time.Time) error
	ListAttendanceForDate(ctx context.Context, tenantID uuid.UUID, date time.Time) ([]AttendanceRecord, error)
	ListAttendanceForMonth(ctx context.Context, tenantID uuid.UUID, year int, month time.Month) ([]AttendanceRecord, error)
}

// SubstituteRepository stores substitute coverage rows, idempotent by the
// (tenant, staff, branch, date) natural key.
type SubstituteRepository interface {
	UpsertSubstitute(ctx context.Context, record SubstituteRecord) error
	DeleteSubstitute(ctx context.Context, tenantID, staffID, branchID uuid.UUID, date time.Time) error
	ListSubstitutesForDate(ctx context.Context, tenantID uuid.UUID, date time.Time) ([]SubstituteRecord, error)
}

// LedgerRepository stores auto-generated finance entries keyed by their
// derived auto-key, so linked writes stay idempotent across cancel/restore
// cycles.
type LedgerRepository interface {
	UpsertByAutoKey(ctx context.Context, entry LedgerEntry) error
	DeleteByAutoKey(ctx context.Context, tenantID uuid.UUID, autoKey string) error
	ListForMonth(ctx context.Context, tenantID uuid.UUID, year int, month time.Month) ([]LedgerEntry, error)
}
