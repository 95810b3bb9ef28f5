package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/Jasemalbateni/academybase-sub000/internal/persistence"
)

var (
	tenantCounter       uint64
	branchCounter       uint64
	staffCounter        uint64
	playerCounter       uint64
	subscriptionCounter uint64
)

// A Tuesday morning early in the fixture month, so generated weekday sessions
// land on later dates of the same month.
var referenceTime = time.Date(2024, time.January, 2, 8, 45, 0, 0, time.UTC)

// ReferenceTime is the baseline instant shared by fixtures and the default
// Clock.
func ReferenceTime() time.Time {
	return referenceTime
}

func fixtureID(scope string, idx uint64) uuid.UUID {
	var prefix byte
	switch scope {
	case "tenant":
		prefix = 0xa1
	case "branch":
		prefix = 0xb2
	case "staff":
		prefix = 0xc3
	case "player":
		prefix = 0xd4
	case "subscription":
		prefix = 0xe5
	}
	return uuid.MustParse(fmt.Sprintf("%02x000000-0000-0000-0000-%012d", prefix, idx))
}

// ---------------------------- Tenant fixtures ----------------------------

// TenantOption configures the generated tenant fixture.
type TenantOption func(*persistence.Tenant)

// NewTenantFixture returns a deterministic tenant record with optional overrides.
func NewTenantFixture(opts ...TenantOption) persistence.Tenant {
	idx := atomic.AddUint64(&tenantCounter, 1)
	tenant := persistence.Tenant{
		ID:         fixtureID("tenant", idx),
		Slug:       fmt.Sprintf("academy-%03d", idx),
		Name:       fmt.Sprintf("Academy %03d", idx),
		APIKeyHash: fmt.Sprintf("hash-%03d", idx),
		CreatedAt:  referenceTime,
	}
	for _, opt := range opts {
		opt(&tenant)
	}
	return tenant
}

// WithTenantSlug overrides the generated slug.
func WithTenantSlug(slug string) TenantOption {
	return func(t *persistence.Tenant) { t.Slug = slug }
}

// WithTenantAPIKeyHash overrides the stored API key hash.
func WithTenantAPIKeyHash(hash string) TenantOption {
	return func(t *persistence.Tenant) { t.APIKeyHash = hash }
}

// ---------------------------- Branch fixtures ----------------------------

// BranchOption configures the generated branch fixture.
type BranchOption func(*persistence.Branch)

// NewBranchFixture returns a deterministic branch record with optional
// overrides. The default schedule is Monday and Wednesday evenings with
// monthly field rent.
func NewBranchFixture(tenantID uuid.UUID, opts ...BranchOption) persistence.Branch {
	idx := atomic.AddUint64(&branchCounter, 1)
	branch := persistence.Branch{
		ID:          fixtureID("branch", idx),
		TenantID:    tenantID,
		Name:        fmt.Sprintf("Branch %03d", idx),
		Days:        []string{"monday", "wednesday"},
		StartTime:   "17:00",
		EndTime:     "19:00",
		RentType:    "monthly",
		MonthlyRent: 900,
		CreatedAt:   referenceTime,
		UpdatedAt:   referenceTime,
	}
	for _, opt := range opts {
		opt(&branch)
	}
	return branch
}

// WithBranchDays overrides the configured weekday names.
func WithBranchDays(days ...string) BranchOption {
	return func(b *persistence.Branch) { b.Days = days }
}

// WithBranchRent overrides the rent configuration.
func WithBranchRent(rentType string, amount float64) BranchOption {
	return func(b *persistence.Branch) {
		b.RentType = rentType
		b.MonthlyRent = amount
	}
}

// WithBranchName overrides the generated name.
func WithBranchName(name string) BranchOption {
	return func(b *persistence.Branch) { b.Name = name }
}

// ---------------------------- Staff fixtures -----------------------------

// StaffOption configures the generated staff fixture.
type StaffOption func(*persistence.Staff)

// NewStaffFixture returns a deterministic active staff record with optional
// overrides.
func NewStaffFixture(tenantID uuid.UUID, opts ...StaffOption) persistence.Staff {
	idx := atomic.AddUint64(&staffCounter, 1)
	staff := persistence.Staff{
		ID:            fixtureID("staff", idx),
		TenantID:      tenantID,
		Name:          fmt.Sprintf("Coach %03d", idx),
		MonthlySalary: 1200,
		SalaryType:    "monthly",
		Active:        true,
		CreatedAt:     referenceTime,
		UpdatedAt:     referenceTime,
	}
	for _, opt := range opts {
		opt(&staff)
	}
	return staff
}

// WithStaffBranches assigns explicit branches.
func WithStaffBranches(ids ...uuid.UUID) StaffOption {
	return func(s *persistence.Staff) { s.BranchIDs = ids }
}

// WithStaffAllBranches marks the staff member as covering every branch.
func WithStaffAllBranches() StaffOption {
	return func(s *persistence.Staff) { s.AllBranches = true }
}

// WithStaffActive overrides the active flag.
func WithStaffActive(active bool) StaffOption {
	return func(s *persistence.Staff) { s.Active = active }
}

// WithStaffSalary overrides the salary configuration.
func WithStaffSalary(salaryType string, amount float64) StaffOption {
	return func(s *persistence.Staff) {
		s.SalaryType = salaryType
		s.MonthlySalary = amount
	}
}

// ---------------------------- Player fixtures ----------------------------

// PlayerOption configures the generated player fixture.
type PlayerOption func(*persistence.Player)

// NewPlayerFixture returns a deterministic player record with optional overrides.
func NewPlayerFixture(tenantID, branchID uuid.UUID, opts ...PlayerOption) persistence.Player {
	idx := atomic.AddUint64(&playerCounter, 1)
	player := persistence.Player{
		ID:        fixtureID("player", idx),
		TenantID:  tenantID,
		Name:      fmt.Sprintf("Player %03d", idx),
		BranchID:  branchID,
		CreatedAt: referenceTime,
		UpdatedAt: referenceTime,
	}
	for _, opt := range opts {
		opt(&player)
	}
	return player
}

// WithPlayerPaused overrides the pause flag.
func WithPlayerPaused(paused bool) PlayerOption {
	return func(p *persistence.Player) { p.Paused = paused }
}

// ------------------------- Subscription fixtures -------------------------

// SubscriptionOption configures the generated subscription fixture.
type SubscriptionOption func(*persistence.Subscription)

// NewSubscriptionFixture returns a deterministic calendar-period subscription
// starting at the reference date, with optional overrides.
func NewSubscriptionFixture(tenantID, playerID, branchID uuid.UUID, opts ...SubscriptionOption) persistence.Subscription {
	idx := atomic.AddUint64(&subscriptionCounter, 1)
	sub := persistence.Subscription{
		ID:          fixtureID("subscription", idx),
		TenantID:    tenantID,
		PlayerID:    playerID,
		BranchID:    branchID,
		BillingMode: "calendar-period",
		Amount:      300,
		StartDate:   time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		CreatedAt:   referenceTime,
		UpdatedAt:   referenceTime,
	}
	for _, opt := range opts {
		opt(&sub)
	}
	return sub
}

// WithSubscriptionMode overrides the billing mode and session count.
func WithSubscriptionMode(mode string, sessions int) SubscriptionOption {
	return func(s *persistence.Subscription) {
		s.BillingMode = mode
		s.Sessions = sessions
	}
}

// WithSubscriptionStart overrides the start date.
func WithSubscriptionStart(start time.Time) SubscriptionOption {
	return func(s *persistence.Subscription) { s.StartDate = start }
}

// WithSubscriptionEnd sets a stored end date.
func WithSubscriptionEnd(end time.Time) SubscriptionOption {
	return func(s *persistence.Subscription) { s.EndDate = &end }
}
