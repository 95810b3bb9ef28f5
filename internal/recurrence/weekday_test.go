package recurrence

import (
	"testing"
	"time"
)

func TestParseWeekdays(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		input []string
		want  []time.Weekday
	}{
		{
			name:  "arabic names",
			input: []string{"الأحد", "الثلاثاء", "الخميس"},
			want:  []time.Weekday{time.Sunday, time.Tuesday, time.Thursday},
		},
		{
			name:  "alternate arabic spellings",
			input: []string{"الاحد", "الاثنين", "الاربعاء"},
			want:  []time.Weekday{time.Sunday, time.Monday, time.Wednesday},
		},
		{
			name:  "english names with mixed case",
			input: []string{"Monday", "FRIDAY"},
			want:  []time.Weekday{time.Monday, time.Friday},
		},
		{
			name:  "unknown names are dropped",
			input: []string{"السبت", "يوم الراحة", "someday"},
			want:  []time.Weekday{time.Saturday},
		},
		{
			name:  "duplicates collapse",
			input: []string{"الجمعة", "الجمعة", "friday"},
			want:  []time.Weekday{time.Friday},
		},
		{
			name:  "empty input yields empty set",
			input: nil,
			want:  nil,
		},
		{
			name:  "only unknown names yields empty set",
			input: []string{"", "weekend", "؟؟"},
			want:  nil,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			set := ParseWeekdays(tc.input)
			if len(set) != len(tc.want) {
				t.Fatalf("got %d weekdays %v, want %d %v", len(set), set.Weekdays(), len(tc.want), tc.want)
			}
			for _, day := range tc.want {
				if !set.Contains(day) {
					t.Errorf("expected set to contain %v, got %v", day, set.Weekdays())
				}
			}
		})
	}
}

func TestParseWeekdaysOrderIndependent(t *testing.T) {
	t.Parallel()

	forward := ParseWeekdays([]string{"الأحد", "الثلاثاء", "الخميس"})
	backward := ParseWeekdays([]string{"الخميس", "الثلاثاء", "الأحد"})

	if len(forward) != len(backward) {
		t.Fatalf("order changed set size: %d vs %d", len(forward), len(backward))
	}
	for day := range forward {
		if !backward.Contains(day) {
			t.Errorf("set differs on %v", day)
		}
	}
}

func TestWeekdaysSorted(t *testing.T) {
	t.Parallel()

	set := ParseWeekdays([]string{"السبت", "الأحد", "الأربعاء"})
	days := set.Weekdays()
	want := []time.Weekday{time.Sunday, time.Wednesday, time.Saturday}
	if len(days) != len(want) {
		t.Fatalf("got %v, want %v", days, want)
	}
	for i := range want {
		if days[i] != want[i] {
			t.Fatalf("got %v, want %v", days, want)
		}
	}
}
