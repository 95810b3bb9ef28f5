package timeline

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Jasemalbateni/academybase-sub000/internal/recurrence"
)

// StatusScheduled is the generated default for an occurrence no exception
// record touches.
const StatusScheduled = "scheduled"

// DateKey identifies a civil date independent of time zone and clock. It is
// the date half of every override key; it serializes to a string only at the
// persistence boundary.
type DateKey struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDateKey derives the key for the civil date of t.
func NewDateKey(t time.Time) DateKey {
	y, m, d := t.Date()
	return DateKey{Year: y, Month: m, Day: d}
}

// Time converts the key back to the canonical midnight-UTC date value.
func (k DateKey) Time() time.Time {
	return recurrence.Date(k.Year, k.Month, k.Day)
}

// String renders the boundary form, ISO calendar date.
func (k DateKey) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", k.Year, int(k.Month), k.Day)
}

// OverrideKey is the natural key an exception record overrides: one entity on
// one date. The persistence layer guarantees at most one stored row per key;
// this package resolves precedence when several record sources contribute to
// the same key.
type OverrideKey struct {
	EntityID uuid.UUID
	Date     DateKey
}

// OverrideKind classifies exception records. Declaration order is precedence
// order: when two records land on one key, the higher kind wins.
type OverrideKind int

const (
	KindNote OverrideKind = iota
	KindSpecialEvent
	KindMatch
	KindSubstitute
	KindAttendance
	KindCancellation
)

// String renders the stored label for the kind.
func (k OverrideKind) String() string {
	switch k {
	case KindNote:
		return "note"
	case KindSpecialEvent:
		return "special-event"
	case KindMatch:
		return "match"
	case KindSubstitute:
		return "substitute"
	case KindAttendance:
		return "attendance"
	case KindCancellation:
		return "cancellation"
	default:
		return "unknown"
	}
}

// KindFromString resolves a stored label back to its kind. Unknown labels
// report false and rank lowest.
func KindFromString(label string) (OverrideKind, bool) {
	switch label {
	case "note":
		return KindNote, true
	case "special-event":
		return KindSpecialEvent, true
	case "match":
		return KindMatch, true
	case "substitute":
		return KindSubstitute, true
	case "attendance":
		return KindAttendance, true
	case "cancellation":
		return KindCancellation, true
	default:
		return KindNote, false
	}
}

// Override is the in-memory view of one persisted exception record.
type Override struct {
	Kind         OverrideKind
	Status       string
	Note         string
	CostOverride *float64
	ActorID      uuid.UUID
}

// EffectiveStatus resolves the status the override imposes, falling back to
// the kind's default label when the record carries none.
func (o Override) EffectiveStatus() string {
	if o.Status != "" {
		return o.Status
	}
	switch o.Kind {
	case KindCancellation:
		return "cancelled"
	case KindMatch:
		return "match"
	case KindSpecialEvent:
		return "special-event"
	case KindSubstitute:
		return "substitute"
	default:
		return StatusScheduled
	}
}

// OverrideSet indexes overrides by natural key for single-pass merging.
type OverrideSet map[OverrideKey]Override

// Apply records an override under its key, keeping the existing entry when it
// outranks the new one. A cancellation therefore always survives a lesser
// annotation arriving for the same key.
func (s OverrideSet) Apply(key OverrideKey, o Override) {
	if existing, ok := s[key]; ok && existing.Kind >= o.Kind {
		return
	}
	s[key] = o
}

// Entry is one row of the merged, user-facing timeline. Override is nil when
// the generated default stands; restoring a session is the removal of its
// exception record, which reverts the entry to this nil state rather than
// introducing a separate "restored" status.
type Entry struct {
	Occurrence recurrence.Occurrence
	Status     string
	Override   *Override
}

// Overridden reports whether an exception record shaped this entry.
func (e Entry) Overridden() bool {
	return e.Override != nil
}

// Merge attaches at most one override to each generated occurrence. It is a
// pure function: inputs are never mutated and identical inputs always produce
// the identical timeline, so callers may re-merge freely after exception
// writes or deletes.
func Merge(occurrences []recurrence.Occurrence, overrides OverrideSet) []Entry {
	entries := make([]Entry, 0, len(occurrences))
	for _, occ := range occurrences {
		entry := Entry{Occurrence: occ, Status: StatusScheduled}
		key := OverrideKey{EntityID: occ.BranchID, Date: NewDateKey(occ.Date)}
		if o, ok := overrides[key]; ok {
			stored := o
			entry.Override = &stored
			entry.Status = o.EffectiveStatus()
		}
		entries = append(entries, entry)
	}
	return entries
}

// CountByStatus aggregates the merged timeline by effective status.
func CountByStatus(entries []Entry) map[string]int {
	counts := make(map[string]int)
	for _, entry := range entries {
		counts[entry.Status]++
	}
	return counts
}

// FilterByBranch narrows a merged timeline to one branch. Filtering always
// runs on merged entries so overridden occurrences stay visible.
func FilterByBranch(entries []Entry, branchID uuid.UUID) []Entry {
	filtered := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if entry.Occurrence.BranchID == branchID {
			filtered = append(filtered, entry)
		}
	}
	return filtered
}

// FilterByStatus narrows a merged timeline to entries with one effective
// status.
func FilterByStatus(entries []Entry, status string) []Entry {
	filtered := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if entry.Status == status {
			filtered = append(filtered, entry)
		}
	}
	return filtered
}
