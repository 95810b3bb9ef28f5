package persistence

import (
	"time"

	"github.com/google/uuid"
)

// Tenant is one academy. Every other record carries its tenant ID, mirroring
// the row-level scoping of the hosted store.
type Tenant struct {
	ID         uuid.UUID
	Slug       string
	Name       string
	APIKeyHash string
	CreatedAt  time.Time
}

// Branch is a training location with its weekly schedule configuration. Days
// holds the configured weekday names as entered; the recurrence core resolves
// them into canonical indices.
type Branch struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	Name        string
	Days        []string
	StartTime   string
	EndTime     string
	RentType    string
	MonthlyRent float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Staff is a coach or employee. BranchIDs lists explicit branch assignments;
// AllBranches marks staff who cover every branch.
type Staff struct {
	ID            uuid.UUID
	TenantID      uuid.UUID
	Name          string
	MonthlySalary float64
	SalaryType    string
	BranchIDs     []uuid.UUID
	AllBranches   bool
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Player is an enrolled trainee. Paused is a boolean state on the player, not
// a timeline event.
type Player struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	Name      string
	BranchID  uuid.UUID
	Paused    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Subscription records a player's paid window. EndDate is nil while the end
// is unknown (e.g. session-count mode with no branch days configured yet).
type Subscription struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	PlayerID    uuid.UUID
	BranchID    uuid.UUID
	BillingMode string
	Sessions    int
	Amount      float64
	StartDate   time.Time
	EndDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CalendarEvent is an exception record for one (branch, date): cancellation,
// match, or special event. At most one row exists per natural key.
type CalendarEvent struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	BranchID  uuid.UUID
	Date      time.Time
	Kind      string
	Status    string
	Note      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AttendanceRecord is an exception record for one (staff, branch, date)
// carrying the tracked status and any salary deduction applied for it.
type AttendanceRecord struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	StaffID   uuid.UUID
	BranchID  uuid.UUID
	Date      time.Time
	Status    string
	Deduction float64
	Note      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SubstituteRecord marks a substitute coach covering (branch, date) for an
// absent staff member.
type SubstituteRecord struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	StaffID    uuid.UUID
	ForStaffID uuid.UUID
	BranchID   uuid.UUID
	Date       time.Time
	CreatedAt  time.Time
}

// LedgerEntry is an auto-generated finance row linked to a session-level
// state change. AutoKey is the derived idempotency key; repeated cancel and
// restore cycles upsert the same row instead of accumulating duplicates.
type LedgerEntry struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	AutoKey     string
	BranchID    uuid.UUID
	Date        time.Time
	Kind        string
	Amount      float64
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
