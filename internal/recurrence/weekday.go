package recurrence

import (
	"sort"
	"strings"
	"time"
)

// WeekdaySet holds the canonical weekday indices on which a branch or staff
// assignment recurs. An empty set means "no recurrence": every generator in
// this package yields zero occurrences for it rather than an error.
type WeekdaySet map[time.Weekday]struct{}

// weekdayNames maps configured weekday labels to canonical indices. Branch
// records store Arabic day names; English spellings are accepted as well so
// imported configurations keep working.
var weekdayNames = map[string]time.Weekday{
	"الأحد":     time.Sunday,
	"الاحد":     time.Sunday,
	"الإثنين":   time.Monday,
	"الاثنين":   time.Monday,
	"الثلاثاء":  time.Tuesday,
	"الأربعاء":  time.Wednesday,
	"الاربعاء":  time.Wednesday,
	"الخميس":    time.Thursday,
	"الجمعة":    time.Friday,
	"السبت":     time.Saturday,
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWeekdays resolves a list of configured day names into a WeekdaySet.
// Unrecognized names are dropped silently and duplicates collapse to one
// entry. The result depends only on the distinct recognized names, not on
// their order.
func ParseWeekdays(names []string) WeekdaySet {
	set := make(WeekdaySet, len(names))
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if day, ok := weekdayNames[key]; ok {
			set[day] = struct{}{}
		}
	}
	return set
}

// Contains reports whether the set includes the given weekday.
func (s WeekdaySet) Contains(day time.Weekday) bool {
	_, ok := s[day]
	return ok
}

// Weekdays returns the member weekdays in ascending index order.
func (s WeekdaySet) Weekdays() []time.Weekday {
	days := make([]time.Weekday, 0, len(s))
	for day := range s {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
	return days
}
