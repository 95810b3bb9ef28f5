package testfixtures

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Jasemalbateni/academybase-sub000/internal/persistence"
)

// MemoryStore is an in-memory implementation of every repository interface,
// used by service tests in place of the hosted database. Upserts replace rows
// in place, so list order stays insertion order and remains deterministic.
type MemoryStore struct {
	mu            sync.RWMutex
	tenants       []persistence.Tenant
	branches      []persistence.Branch
	staff         []persistence.Staff
	players       []persistence.Player
	subscriptions []persistence.Subscription
	events        []persistence.CalendarEvent
	attendance    []persistence.AttendanceRecord
	substitutes   []persistence.SubstituteRecord
	ledger        []persistence.LedgerEntry
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func inMonth(t time.Time, year int, month time.Month) bool {
	y, m, _ := t.Date()
	return y == year && m == month
}

// ------------------------------- tenants --------------------------------

// AddTenant seeds a tenant row.
func (s *MemoryStore) AddTenant(tenant persistence.Tenant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tenants = append(s.tenants, tenant)
}

func (s *MemoryStore) GetTenantBySlug(_ context.Context, slug string) (persistence.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, tenant := range s.tenants {
		if tenant.Slug == slug {
			return tenant, nil
		}
	}
	return persistence.Tenant{}, persistence.ErrNotFound
}

// ------------------------------- branches -------------------------------

func (s *MemoryStore) CreateBranch(_ context.Context, branch persistence.Branch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.branches {
		if existing.ID == branch.ID {
			return persistence.ErrDuplicate
		}
	}
	s.branches = append(s.branches, branch)
	return nil
}

func (s *MemoryStore) UpdateBranch(_ context.Context, branch persistence.Branch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.branches {
		if existing.TenantID == branch.TenantID && existing.ID == branch.ID {
			s.branches[i] = branch
			return nil
		}
	}
	return persistence.ErrNotFound
}

func (s *MemoryStore) GetBranch(_ context.Context, tenantID, id uuid.UUID) (persistence.Branch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, branch := range s.branches {
		if branch.TenantID == tenantID && branch.ID == id {
			return branch, nil
		}
	}
	return persistence.Branch{}, persistence.ErrNotFound
}

func (s *MemoryStore) ListBranches(_ context.Context, tenantID uuid.UUID) ([]persistence.Branch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []persistence.Branch
	for _, branch := range s.branches {
		if branch.TenantID == tenantID {
			out = append(out, branch)
		}
	}
	return out, nil
}

func (s *MemoryStore) DeleteBranch(_ context.Context, tenantID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, branch := range s.branches {
		if branch.TenantID == tenantID && branch.ID == id {
			s.branches = append(s.branches[:i], s.branches[i+1:]...)
			return nil
		}
	}
	return persistence.ErrNotFound
}

// -------------------------------- staff ---------------------------------

func (s *MemoryStore) CreateStaff(_ context.Context, staff persistence.Staff) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.staff {
		if existing.ID == staff.ID {
			return persistence.ErrDuplicate
		}
	}
	s.staff = append(s.staff, staff)
	return nil
}

func (s *MemoryStore) UpdateStaff(_ context.Context, staff persistence.Staff) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.staff {
		if existing.TenantID == staff.TenantID && existing.ID == staff.ID {
			s.staff[i] = staff
			return nil
		}
	}
	return persistence.ErrNotFound
}

func (s *MemoryStore) GetStaff(_ context.Context, tenantID, id uuid.UUID) (persistence.Staff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, staff := range s.staff {
		if staff.TenantID == tenantID && staff.ID == id {
			return staff, nil
		}
	}
	return persistence.Staff{}, persistence.ErrNotFound
}

func (s *MemoryStore) ListStaff(_ context.Context, tenantID uuid.UUID) ([]persistence.Staff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []persistence.Staff
	for _, staff := range s.staff {
		if staff.TenantID == tenantID {
			out = append(out, staff)
		}
	}
	return out, nil
}

// ------------------------------- players --------------------------------

func (s *MemoryStore) CreatePlayer(_ context.Context, player persistence.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.players {
		if existing.ID == player.ID {
			return persistence.ErrDuplicate
		}
	}
	s.players = append(s.players, player)
	return nil
}

func (s *MemoryStore) GetPlayer(_ context.Context, tenantID, id uuid.UUID) (persistence.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, player := range s.players {
		if player.TenantID == tenantID && player.ID == id {
			return player, nil
		}
	}
	return persistence.Player{}, persistence.ErrNotFound
}

func (s *MemoryStore) ListPlayers(_ context.Context, tenantID uuid.UUID) ([]persistence.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []persistence.Player
	for _, player := range s.players {
		if player.TenantID == tenantID {
			out = append(out, player)
		}
	}
	return out, nil
}

func (s *MemoryStore) SetPlayerPaused(_ context.Context, tenantID, id uuid.UUID, paused bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, player := range s.players {
		if player.TenantID == tenantID && player.ID == id {
			s.players[i].Paused = paused
			return nil
		}
	}
	return persistence.ErrNotFound
}

// ----------------------------- subscriptions ----------------------------

func (s *MemoryStore) CreateSubscription(_ context.Context, sub persistence.Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.subscriptions {
		if existing.ID == sub.ID {
			return persistence.ErrDuplicate
		}
	}
	s.subscriptions = append(s.subscriptions, sub)
	return nil
}

func (s *MemoryStore) GetSubscription(_ context.Context, tenantID, id uuid.UUID) (persistence.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sub := range s.subscriptions {
		if sub.TenantID == tenantID && sub.ID == id {
			return sub, nil
		}
	}
	return persistence.Subscription{}, persistence.ErrNotFound
}

func (s *MemoryStore) ListSubscriptionsForPlayer(_ context.Context, tenantID, playerID uuid.UUID) ([]persistence.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []persistence.Subscription
	for _, sub := range s.subscriptions {
		if sub.TenantID == tenantID && sub.PlayerID == playerID {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (s *MemoryStore) UpdateSubscriptionEnd(_ context.Context, tenantID, id uuid.UUID, end *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sub := range s.subscriptions {
		if sub.TenantID == tenantID && sub.ID == id {
			s.subscriptions[i].EndDate = end
			return nil
		}
	}
	return persistence.ErrNotFound
}

// ---------------------------- calendar events ---------------------------

func (s *MemoryStore) UpsertEvent(_ context.Context, event persistence.CalendarEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.events {
		if existing.TenantID == event.TenantID && existing.BranchID == event.BranchID && sameDay(existing.Date, event.Date) {
			s.events[i] = event
			return nil
		}
	}
	s.events = append(s.events, event)
	return nil
}

func (s *MemoryStore) DeleteEvent(_ context.Context, tenantID, branchID uuid.UUID, date time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, event := range s.events {
		if event.TenantID == tenantID && event.BranchID == branchID && sameDay(event.Date, date) {
			s.events = append(s.events[:i], s.events[i+1:]...)
			return nil
		}
	}
	return persistence.ErrNotFound
}

func (s *MemoryStore) ListEventsForMonth(_ context.Context, tenantID uuid.UUID, year int, month time.Month) ([]persistence.CalendarEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []persistence.CalendarEvent
	for _, event := range s.events {
		if event.TenantID == tenantID && inMonth(event.Date, year, month) {
			out = append(out, event)
		}
	}
	return out, nil
}

// ------------------------------ attendance ------------------------------

func (s *MemoryStore) UpsertAttendance(_ context.Context, record persistence.AttendanceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.attendance {
		if existing.TenantID == record.TenantID && existing.StaffID == record.StaffID && existing.BranchID == record.BranchID && sameDay(existing.Date, record.Date) {
			s.attendance[i] = record
			return nil
		}
	}
	s.attendance = append(s.attendance, record)
	return nil
}

func (s *MemoryStore) DeleteAttendance(_ context.Context, tenantID, staffID, branchID uuid.UUID, date time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, record := range s.attendance {
		if record.TenantID == tenantID && record.StaffID == staffID && record.BranchID == branchID && sameDay(record.Date, date) {
			s.attendance = append(s.attendance[:i], s.attendance[i+1:]...)
			return nil
		}
	}
	return persistence.ErrNotFound
}

func (s *MemoryStore) ListAttendanceForDate(_ context.Context, tenantID uuid.UUID, date time.Time) ([]persistence.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []persistence.AttendanceRecord
	for _, record := range s.attendance {
		if record.TenantID == tenantID && sameDay(record.Date, date) {
			out = append(out, record)
		}
	}
	return out, nil
}

func (s *MemoryStore) ListAttendanceForMonth(_ context.Context, tenantID uuid.UUID, year int, month time.Month) ([]persistence.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []persistence.AttendanceRecord
	for _, record := range s.attendance {
		if record.TenantID == tenantID && inMonth(record.Date, year, month) {
			out = append(out, record)
		}
	}
	return out, nil
}

// ------------------------------ substitutes -----------------------------

func (s *MemoryStore) UpsertSubstitute(_ context.Context, record persistence.SubstituteRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.substitutes {
		if existing.TenantID == record.TenantID && existing.StaffID == record.StaffID && existing.BranchID == record.BranchID && sameDay(existing.Date, record.Date) {
			s.substitutes[i] = record
			return nil
		}
	}
	s.substitutes = append(s.substitutes, record)
	return nil
}

func (s *MemoryStore) DeleteSubstitute(_ context.Context, tenantID, staffID, branchID uuid.UUID, date time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, record := range s.substitutes {
		if record.TenantID == tenantID && record.StaffID == staffID && record.BranchID == branchID && sameDay(record.Date, date) {
			s.substitutes = append(s.substitutes[:i], s.substitutes[i+1:]...)
			return nil
		}
	}
	return persistence.ErrNotFound
}

func (s *MemoryStore) ListSubstitutesForDate(_ context.Context, tenantID uuid.UUID, date time.Time) ([]persistence.SubstituteRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []persistence.SubstituteRecord
	for _, record := range s.substitutes {
		if record.TenantID == tenantID && sameDay(record.Date, date) {
			out = append(out, record)
		}
	}
	return out, nil
}

// -------------------------------- ledger --------------------------------

func (s *MemoryStore) UpsertByAutoKey(_ context.Context, entry persistence.LedgerEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.ledger {
		if existing.TenantID == entry.TenantID && existing.AutoKey == entry.AutoKey {
			s.ledger[i] = entry
			return nil
		}
	}
	s.ledger = append(s.ledger, entry)
	return nil
}

func (s *MemoryStore) DeleteByAutoKey(_ context.Context, tenantID uuid.UUID, autoKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, entry := range s.ledger {
		if entry.TenantID == tenantID && entry.AutoKey == autoKey {
			s.ledger = append(s.ledger[:i], s.ledger[i+1:]...)
			return nil
		}
	}
	return persistence.ErrNotFound
}

func (s *MemoryStore) ListForMonth(_ context.Context, tenantID uuid.UUID, year int, month time.Month) ([]persistence.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []persistence.LedgerEntry
	for _, entry := range s.ledger {
		if entry.TenantID == tenantID && inMonth(entry.Date, year, month) {
			out = append(out, entry)
		}
	}
	return out, nil
}
