package application

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Jasemalbateni/academybase-sub000/internal/timeline"
)

// TenantContext is the resolved tenant an authenticated request acts for.
// Services take it as an explicit argument; nothing in this layer reads
// tenant identity from ambient state.
type TenantContext struct {
	TenantID uuid.UUID
	Slug     string
	Name     string
}

// AutoKey is the derived idempotency key for a ledger entry linked to one
// branch session. It stays a value type internally and serializes at the
// repository boundary.
type AutoKey struct {
	BranchID uuid.UUID
	Date     timeline.DateKey
}

// SessionFieldKey builds the auto-key for the field-rent credit of one
// session.
func SessionFieldKey(branchID uuid.UUID, date timeline.DateKey) AutoKey {
	return AutoKey{BranchID: branchID, Date: date}
}

// String renders the stored form: "session-field:{branchId}:{date}".
func (k AutoKey) String() string {
	return fmt.Sprintf("session-field:%s:%s", k.BranchID, k.Date)
}

// MonthTimeline is the merged, user-facing calendar for one month.
type MonthTimeline struct {
	Year         int
	Month        time.Month
	Entries      []timeline.Entry
	StatusCounts map[string]int
}

// SubstituteView identifies a substitute coach attached to a slot.
type SubstituteView struct {
	StaffID    uuid.UUID
	StaffName  string
	ForStaffID uuid.UUID
}

// AttendanceSlotView is one row of the daily attendance sheet: a generated
// slot merged with its recorded status, if any.
type AttendanceSlotView struct {
	Slot       timeline.Slot
	Status     string
	Deduction  float64
	Note       string
	Recorded   bool
	Substitute *SubstituteView
}

// StatusUnrecorded is the generated default for a slot no attendance row
// touches.
const StatusUnrecorded = "unrecorded"

// PayrollLine summarises one staff member's month: salary minus the
// deductions accumulated on their attendance rows.
type PayrollLine struct {
	StaffID       uuid.UUID
	StaffName     string
	MonthlySalary float64
	Deductions    float64
	NetSalary     float64
	AbsenceCount  int
}

// SubscriptionView is the service-level shape of a subscription. EndDate is
// nil while the end is unknown.
type SubscriptionView struct {
	ID          uuid.UUID
	PlayerID    uuid.UUID
	BranchID    uuid.UUID
	BillingMode string
	Sessions    int
	Amount      float64
	StartDate   time.Time
	EndDate     *time.Time
}

// SessionUsage estimates how much of a session-count subscription has been
// consumed as of today.
type SessionUsage struct {
	Total     int
	Consumed  int
	Remaining int
	Unknown   bool
}
