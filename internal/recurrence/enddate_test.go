package recurrence

import (
	"testing"
	"time"
)

func TestPeriodEndDate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		start time.Time
		want  time.Time
	}{
		{
			name:  "mid-month start",
			start: Date(2024, time.January, 15),
			want:  Date(2024, time.February, 14),
		},
		{
			name:  "first of month start",
			start: Date(2024, time.March, 1),
			want:  Date(2024, time.March, 31),
		},
		{
			name:  "leap year clamp",
			start: Date(2024, time.January, 31),
			want:  Date(2024, time.February, 29),
		},
		{
			name:  "non-leap year clamp",
			start: Date(2023, time.January, 31),
			want:  Date(2023, time.February, 28),
		},
		{
			name:  "december wraps the year",
			start: Date(2024, time.December, 10),
			want:  Date(2025, time.January, 9),
		},
		{
			name:  "thirty-one into thirty day month",
			start: Date(2024, time.March, 31),
			want:  Date(2024, time.April, 30),
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := PeriodEndDate(tc.start); !got.Equal(tc.want) {
				t.Fatalf("PeriodEndDate(%v) = %v, want %v", tc.start, got, tc.want)
			}
		})
	}
}

func TestSessionEndDate(t *testing.T) {
	t.Parallel()

	monWed := weekdaySetOf(time.Monday, time.Wednesday)

	t.Run("fourth matching weekday from a monday start", func(t *testing.T) {
		t.Parallel()
		// Mon Jan 1, Wed Jan 3, Mon Jan 8, Wed Jan 10.
		got, ok := SessionEndDate(Date(2024, time.January, 1), monWed, 4)
		if !ok {
			t.Fatal("expected a reachable end date")
		}
		if want := Date(2024, time.January, 10); !got.Equal(want) {
			t.Fatalf("got %v, want %v", got, want)
		}
	})

	t.Run("start day counts when it matches", func(t *testing.T) {
		t.Parallel()
		got, ok := SessionEndDate(Date(2024, time.January, 1), monWed, 1)
		if !ok || !got.Equal(Date(2024, time.January, 1)) {
			t.Fatalf("got %v ok=%v, want Jan 1", got, ok)
		}
	})

	t.Run("empty set is unknown", func(t *testing.T) {
		t.Parallel()
		if _, ok := SessionEndDate(Date(2024, time.January, 1), WeekdaySet{}, 4); ok {
			t.Fatal("empty set must not resolve to a date")
		}
	})

	t.Run("non-positive count is unknown", func(t *testing.T) {
		t.Parallel()
		if _, ok := SessionEndDate(Date(2024, time.January, 1), monWed, 0); ok {
			t.Fatal("zero sessions must not resolve to a date")
		}
		if _, ok := SessionEndDate(Date(2024, time.January, 1), monWed, -3); ok {
			t.Fatal("negative sessions must not resolve to a date")
		}
	})

	t.Run("walk cap resolves to unknown", func(t *testing.T) {
		t.Parallel()
		// One weekday yields at most ~104 matches within the cap.
		if _, ok := SessionEndDate(Date(2024, time.January, 1), weekdaySetOf(time.Monday), 500); ok {
			t.Fatal("a target beyond the walk cap must report unknown")
		}
	})
}

func TestExtendEndDate(t *testing.T) {
	t.Parallel()

	monWed := weekdaySetOf(time.Monday, time.Wednesday)

	t.Run("period mode adds flat days", func(t *testing.T) {
		t.Parallel()
		got, ok := ExtendEndDate(Date(2024, time.February, 27), BillingCalendarPeriod, nil, 3)
		if !ok || !got.Equal(Date(2024, time.March, 1)) {
			t.Fatalf("got %v ok=%v, want Mar 1", got, ok)
		}
	})

	t.Run("session mode counts weekdays strictly after current end", func(t *testing.T) {
		t.Parallel()
		// Current end Mon Jan 8: next matches are Wed 10, Mon 15.
		got, ok := ExtendEndDate(Date(2024, time.January, 8), BillingSessionCount, monWed, 2)
		if !ok || !got.Equal(Date(2024, time.January, 15)) {
			t.Fatalf("got %v ok=%v, want Jan 15", got, ok)
		}
	})

	t.Run("session extensions compose", func(t *testing.T) {
		t.Parallel()
		end := Date(2024, time.January, 10)

		twoThenThree, ok := ExtendEndDate(end, BillingSessionCount, monWed, 2)
		if !ok {
			t.Fatal("first extension failed")
		}
		twoThenThree, ok = ExtendEndDate(twoThenThree, BillingSessionCount, monWed, 3)
		if !ok {
			t.Fatal("second extension failed")
		}

		five, ok := ExtendEndDate(end, BillingSessionCount, monWed, 5)
		if !ok {
			t.Fatal("single extension failed")
		}

		if !twoThenThree.Equal(five) {
			t.Fatalf("2+3 gives %v, 5 gives %v", twoThenThree, five)
		}
	})

	t.Run("non-positive units are unknown", func(t *testing.T) {
		t.Parallel()
		if _, ok := ExtendEndDate(Date(2024, time.January, 8), BillingCalendarPeriod, nil, 0); ok {
			t.Fatal("zero units must not resolve")
		}
	})

	t.Run("session mode with empty set is unknown", func(t *testing.T) {
		t.Parallel()
		if _, ok := ExtendEndDate(Date(2024, time.January, 8), BillingSessionCount, WeekdaySet{}, 2); ok {
			t.Fatal("empty set must not resolve")
		}
	})
}

func TestConsumedSessions(t *testing.T) {
	t.Parallel()

	monWed := weekdaySetOf(time.Monday, time.Wednesday)

	t.Run("counts inclusive of both ends", func(t *testing.T) {
		t.Parallel()
		// Jan 1 (Mon) through Jan 10 (Wed): 1, 3, 8, 10.
		got := ConsumedSessions(Date(2024, time.January, 1), Date(2024, time.January, 10), monWed)
		if got != 4 {
			t.Fatalf("got %d, want 4", got)
		}
	})

	t.Run("today before start counts zero", func(t *testing.T) {
		t.Parallel()
		got := ConsumedSessions(Date(2024, time.January, 10), Date(2024, time.January, 1), monWed)
		if got != 0 {
			t.Fatalf("got %d, want 0", got)
		}
	})

	t.Run("empty set counts zero", func(t *testing.T) {
		t.Parallel()
		got := ConsumedSessions(Date(2024, time.January, 1), Date(2024, time.June, 1), WeekdaySet{})
		if got != 0 {
			t.Fatalf("got %d, want 0", got)
		}
	})
}

func TestRemainingSessions(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		total    int
		consumed int
		want     int
	}{
		{"simple", 12, 4, 8},
		{"over-consumed clamps to zero", 12, 30, 0},
		{"negative consumed clamps to total", 12, -5, 12},
		{"zero total", 0, 3, 0},
		{"negative total", -4, 0, 0},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := RemainingSessions(tc.total, tc.consumed); got != tc.want {
				t.Fatalf("RemainingSessions(%d, %d) = %d, want %d", tc.total, tc.consumed, got, tc.want)
			}
		})
	}
}
