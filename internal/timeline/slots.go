package timeline

import (
	"time"

	"github.com/google/uuid"

	"github.com/Jasemalbateni/academybase-sub000/internal/recurrence"
)

// StaffAssignment describes which branches a staff member covers. AllBranches
// marks coaches who float across every branch; BranchIDs lists explicit
// assignments. Both can be set at once.
type StaffAssignment struct {
	StaffID     uuid.UUID
	StaffName   string
	BranchIDs   []uuid.UUID
	AllBranches bool
	Active      bool
}

// covers reports whether the assignment puts the staff member at the branch.
func (a StaffAssignment) covers(branchID uuid.UUID) bool {
	if a.AllBranches {
		return true
	}
	for _, id := range a.BranchIDs {
		if id == branchID {
			return true
		}
	}
	return false
}

// SlotKey is the composite identity of an attendance slot. It stays a struct
// internally; persistence serializes it when storing attendance rows.
type SlotKey struct {
	StaffID  uuid.UUID
	BranchID uuid.UUID
}

// Slot is one expected attendance-tracking entry: a staff member at a branch
// on a training day. Like occurrences, slots are generated, never stored.
type Slot struct {
	Date       DateKey
	StaffID    uuid.UUID
	StaffName  string
	BranchID   uuid.UUID
	BranchName string
	StartTime  string
	EndTime    string
}

// Key returns the slot's composite identity.
func (s Slot) Key() SlotKey {
	return SlotKey{StaffID: s.StaffID, BranchID: s.BranchID}
}

// BuildSlots expands the roster against the branches active on date. A staff
// member reachable through both an explicit assignment and AllBranches still
// yields exactly one slot per branch; inactive staff yield none. Order is
// branch input order, then roster order.
func BuildSlots(date time.Time, branches []recurrence.Recurrence, roster []StaffAssignment) []Slot {
	day := NewDateKey(date)
	seen := make(map[SlotKey]struct{})
	slots := make([]Slot, 0)
	for _, branch := range branches {
		if !recurrence.OccursOn(day.Time(), branch.Days) {
			continue
		}
		for _, staff := range roster {
			if !staff.Active || !staff.covers(branch.BranchID) {
				continue
			}
			key := SlotKey{StaffID: staff.StaffID, BranchID: branch.BranchID}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			slots = append(slots, Slot{
				Date:       day,
				StaffID:    staff.StaffID,
				StaffName:  staff.StaffName,
				BranchID:   branch.BranchID,
				BranchName: branch.BranchName,
				StartTime:  branch.StartTime,
				EndTime:    branch.EndTime,
			})
		}
	}
	return slots
}
