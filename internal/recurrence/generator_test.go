package recurrence

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func weekdaySetOf(days ...time.Weekday) WeekdaySet {
	set := make(WeekdaySet, len(days))
	for _, day := range days {
		set[day] = struct{}{}
	}
	return set
}

func TestDaysInMonth(t *testing.T) {
	t.Parallel()

	cases := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2024, time.January, 31},
		{2024, time.February, 29},
		{2023, time.February, 28},
		{2024, time.April, 30},
		{2024, time.December, 31},
		{2100, time.February, 28},
		{2000, time.February, 29},
	}

	for _, tc := range cases {
		if got := DaysInMonth(tc.year, tc.month); got != tc.want {
			t.Errorf("DaysInMonth(%d, %v) = %d, want %d", tc.year, tc.month, got, tc.want)
		}
	}
}

func TestOccursOn(t *testing.T) {
	t.Parallel()

	set := weekdaySetOf(time.Monday, time.Wednesday)

	if !OccursOn(Date(2024, time.January, 1), set) {
		t.Error("Mon Jan 1 2024 should occur")
	}
	if OccursOn(Date(2024, time.January, 2), set) {
		t.Error("Tue Jan 2 2024 should not occur")
	}
	if OccursOn(Date(2024, time.January, 1), WeekdaySet{}) {
		t.Error("empty set never occurs")
	}
}

func TestOccurrenceCount(t *testing.T) {
	t.Parallel()

	t.Run("full week equals days in month", func(t *testing.T) {
		t.Parallel()
		all := weekdaySetOf(time.Sunday, time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday)
		for _, month := range []time.Month{time.January, time.February, time.April} {
			if got, want := OccurrenceCount(2024, month, all), DaysInMonth(2024, month); got != want {
				t.Errorf("%v: got %d occurrences, want %d", month, got, want)
			}
		}
	})

	t.Run("empty set counts zero", func(t *testing.T) {
		t.Parallel()
		if got := OccurrenceCount(2024, time.January, WeekdaySet{}); got != 0 {
			t.Errorf("got %d, want 0", got)
		}
	})

	t.Run("single weekday", func(t *testing.T) {
		t.Parallel()
		// January 2024 has five Mondays: 1, 8, 15, 22, 29.
		if got := OccurrenceCount(2024, time.January, weekdaySetOf(time.Monday)); got != 5 {
			t.Errorf("got %d Mondays, want 5", got)
		}
		// February 2024 has four Mondays.
		if got := OccurrenceCount(2024, time.February, weekdaySetOf(time.Monday)); got != 4 {
			t.Errorf("got %d Mondays, want 4", got)
		}
	})
}

func TestGenerateMonth(t *testing.T) {
	t.Parallel()

	mainBranch := Recurrence{
		BranchID:   uuid.New(),
		BranchName: "main",
		Days:       weekdaySetOf(time.Sunday, time.Tuesday),
		StartTime:  "16:00",
		EndTime:    "18:00",
	}
	westBranch := Recurrence{
		BranchID:   uuid.New(),
		BranchName: "west",
		Days:       weekdaySetOf(time.Sunday),
		StartTime:  "17:00",
		EndTime:    "19:00",
	}

	t.Run("emits one occurrence per matching day and recurrence", func(t *testing.T) {
		t.Parallel()
		occurrences := GenerateMonth(2024, time.January, []Recurrence{mainBranch, westBranch})

		// January 2024: four Sundays (7, 14, 21, 28) and five Tuesdays
		// (2, 9, 16, 23, 30). main gets 9 occurrences, west gets 4.
		if len(occurrences) != 13 {
			t.Fatalf("got %d occurrences, want 13", len(occurrences))
		}

		counts := make(map[uuid.UUID]int)
		for _, occ := range occurrences {
			counts[occ.BranchID]++
		}
		if counts[mainBranch.BranchID] != 9 {
			t.Errorf("main branch got %d, want 9", counts[mainBranch.BranchID])
		}
		if counts[westBranch.BranchID] != 4 {
			t.Errorf("west branch got %d, want 4", counts[westBranch.BranchID])
		}
	})

	t.Run("ordered by date then input order", func(t *testing.T) {
		t.Parallel()
		occurrences := GenerateMonth(2024, time.January, []Recurrence{mainBranch, westBranch})
		for i := 1; i < len(occurrences); i++ {
			prev, cur := occurrences[i-1], occurrences[i]
			if cur.Date.Before(prev.Date) {
				t.Fatalf("dates out of order at %d: %v after %v", i, cur.Date, prev.Date)
			}
			if cur.Date.Equal(prev.Date) && prev.BranchID == westBranch.BranchID && cur.BranchID == mainBranch.BranchID {
				t.Fatalf("same-day occurrences not in input order at %d", i)
			}
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		t.Parallel()
		first := GenerateMonth(2024, time.February, []Recurrence{mainBranch, westBranch})
		second := GenerateMonth(2024, time.February, []Recurrence{mainBranch, westBranch})
		if len(first) != len(second) {
			t.Fatalf("runs differ in length: %d vs %d", len(first), len(second))
		}
		for i := range first {
			if first[i] != second[i] {
				t.Fatalf("runs differ at %d: %+v vs %+v", i, first[i], second[i])
			}
		}
	})

	t.Run("empty weekday set contributes nothing", func(t *testing.T) {
		t.Parallel()
		bare := Recurrence{BranchID: uuid.New(), BranchName: "new", Days: WeekdaySet{}}
		occurrences := GenerateMonth(2024, time.January, []Recurrence{bare})
		if len(occurrences) != 0 {
			t.Fatalf("got %d occurrences from an empty set, want 0", len(occurrences))
		}
	})

	t.Run("leap february covers day 29", func(t *testing.T) {
		t.Parallel()
		// Feb 29 2024 is a Thursday.
		thursdays := Recurrence{BranchID: uuid.New(), Days: weekdaySetOf(time.Thursday)}
		occurrences := GenerateMonth(2024, time.February, []Recurrence{thursdays})
		last := occurrences[len(occurrences)-1]
		if last.Date.Day() != 29 {
			t.Fatalf("last Thursday is day %d, want 29", last.Date.Day())
		}
	})
}
