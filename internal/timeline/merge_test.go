package timeline

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Jasemalbateni/academybase-sub000/internal/recurrence"
)

func sampleOccurrences(branchID uuid.UUID) []recurrence.Occurrence {
	rec := recurrence.Recurrence{
		BranchID:   branchID,
		BranchName: "main",
		Days:       recurrence.ParseWeekdays([]string{"sunday", "tuesday"}),
		StartTime:  "16:00",
		EndTime:    "18:00",
	}
	return recurrence.GenerateMonth(2024, time.January, []recurrence.Recurrence{rec})
}

func TestMerge(t *testing.T) {
	t.Parallel()

	branchID := uuid.New()
	occurrences := sampleOccurrences(branchID)

	t.Run("no overrides keeps the generated default", func(t *testing.T) {
		t.Parallel()
		entries := Merge(occurrences, OverrideSet{})
		if len(entries) != len(occurrences) {
			t.Fatalf("got %d entries, want %d", len(entries), len(occurrences))
		}
		for _, entry := range entries {
			if entry.Status != StatusScheduled || entry.Overridden() {
				t.Fatalf("entry %v not in default state: %+v", entry.Occurrence.Date, entry)
			}
		}
	})

	t.Run("matching override replaces the status", func(t *testing.T) {
		t.Parallel()
		target := occurrences[2]
		overrides := OverrideSet{}
		overrides.Apply(
			OverrideKey{EntityID: branchID, Date: NewDateKey(target.Date)},
			Override{Kind: KindCancellation, Note: "ground maintenance"},
		)

		entries := Merge(occurrences, overrides)
		for i, entry := range entries {
			if i == 2 {
				if entry.Status != "cancelled" || !entry.Overridden() {
					t.Fatalf("expected cancelled entry, got %+v", entry)
				}
				if entry.Override.Note != "ground maintenance" {
					t.Fatalf("note lost: %+v", entry.Override)
				}
				continue
			}
			if entry.Overridden() {
				t.Fatalf("entry %d unexpectedly overridden", i)
			}
		}
	})

	t.Run("restore reverts to an entry indistinguishable from untouched", func(t *testing.T) {
		t.Parallel()
		target := occurrences[0]
		key := OverrideKey{EntityID: branchID, Date: NewDateKey(target.Date)}

		overrides := OverrideSet{}
		credit := 100.0
		overrides.Apply(key, Override{Kind: KindCancellation, CostOverride: &credit})
		cancelled := Merge(occurrences, overrides)
		if cancelled[0].Status != "cancelled" {
			t.Fatalf("setup failed: %+v", cancelled[0])
		}

		delete(overrides, key)
		restored := Merge(occurrences, overrides)
		pristine := Merge(occurrences, OverrideSet{})

		if restored[0] != pristine[0] {
			t.Fatalf("restored entry %+v differs from pristine %+v", restored[0], pristine[0])
		}
	})

	t.Run("merge is idempotent and does not mutate inputs", func(t *testing.T) {
		t.Parallel()
		key := OverrideKey{EntityID: branchID, Date: NewDateKey(occurrences[1].Date)}
		overrides := OverrideSet{key: {Kind: KindMatch}}

		first := Merge(occurrences, overrides)
		second := Merge(occurrences, overrides)
		if len(first) != len(second) {
			t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
		}
		for i := range first {
			if first[i].Status != second[i].Status || first[i].Occurrence != second[i].Occurrence {
				t.Fatalf("entry %d differs between merges", i)
			}
		}
		if len(overrides) != 1 {
			t.Fatalf("override set mutated: %d entries", len(overrides))
		}
	})

	t.Run("override copies are detached from the set", func(t *testing.T) {
		t.Parallel()
		key := OverrideKey{EntityID: branchID, Date: NewDateKey(occurrences[1].Date)}
		overrides := OverrideSet{key: {Kind: KindNote, Status: "note", Note: "bring cones"}}

		entries := Merge(occurrences, overrides)
		entries[1].Override.Note = "changed"
		if overrides[key].Note != "bring cones" {
			t.Fatal("mutating a merged entry leaked into the override set")
		}
	})
}

func TestOverrideSetApply(t *testing.T) {
	t.Parallel()

	key := OverrideKey{EntityID: uuid.New(), Date: DateKey{Year: 2024, Month: time.January, Day: 7}}

	t.Run("cancellation wins over a note", func(t *testing.T) {
		t.Parallel()
		set := OverrideSet{}
		set.Apply(key, Override{Kind: KindCancellation})
		set.Apply(key, Override{Kind: KindNote, Note: "late start"})
		if set[key].Kind != KindCancellation {
			t.Fatalf("cancellation displaced by note: %+v", set[key])
		}
	})

	t.Run("higher kind replaces lower regardless of order", func(t *testing.T) {
		t.Parallel()
		set := OverrideSet{}
		set.Apply(key, Override{Kind: KindNote})
		set.Apply(key, Override{Kind: KindCancellation})
		if set[key].Kind != KindCancellation {
			t.Fatalf("note outranked cancellation: %+v", set[key])
		}
	})
}

func TestAggregates(t *testing.T) {
	t.Parallel()

	branchA := uuid.New()
	branchB := uuid.New()
	recs := []recurrence.Recurrence{
		{BranchID: branchA, BranchName: "a", Days: recurrence.ParseWeekdays([]string{"monday"})},
		{BranchID: branchB, BranchName: "b", Days: recurrence.ParseWeekdays([]string{"monday"})},
	}
	occurrences := recurrence.GenerateMonth(2024, time.January, recs)

	overrides := OverrideSet{}
	overrides.Apply(
		OverrideKey{EntityID: branchA, Date: DateKey{Year: 2024, Month: time.January, Day: 8}},
		Override{Kind: KindCancellation},
	)
	entries := Merge(occurrences, overrides)

	t.Run("count by status", func(t *testing.T) {
		t.Parallel()
		counts := CountByStatus(entries)
		// Five Mondays per branch, one cancelled.
		if counts[StatusScheduled] != 9 || counts["cancelled"] != 1 {
			t.Fatalf("got %v", counts)
		}
	})

	t.Run("filter by branch keeps overridden entries visible", func(t *testing.T) {
		t.Parallel()
		forA := FilterByBranch(entries, branchA)
		if len(forA) != 5 {
			t.Fatalf("got %d entries for branch a, want 5", len(forA))
		}
		cancelled := FilterByStatus(forA, "cancelled")
		if len(cancelled) != 1 || cancelled[0].Occurrence.Date.Day() != 8 {
			t.Fatalf("cancelled entry missing after branch filter: %v", cancelled)
		}
	})
}

func TestDateKey(t *testing.T) {
	t.Parallel()

	key := NewDateKey(time.Date(2024, time.March, 5, 17, 45, 0, 0, time.FixedZone("AST", 3*60*60)))
	if key != (DateKey{Year: 2024, Month: time.March, Day: 5}) {
		t.Fatalf("got %+v", key)
	}
	if key.String() != "2024-03-05" {
		t.Fatalf("got %q", key.String())
	}
	if !key.Time().Equal(recurrence.Date(2024, time.March, 5)) {
		t.Fatalf("round trip lost the date: %v", key.Time())
	}
}
