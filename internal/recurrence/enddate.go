package recurrence

import "time"

// BillingMode selects how a subscription's paid window is measured.
type BillingMode string

const (
	// BillingSessionCount bills a fixed number of training occurrences.
	BillingSessionCount BillingMode = "session-count"
	// BillingCalendarPeriod bills one calendar month regardless of sessions.
	BillingCalendarPeriod BillingMode = "calendar-period"
)

// maxWalkDays caps every day-by-day walk in this file. A target that is not
// reached within the cap resolves to "unknown".
const maxWalkDays = 730

// CivilDate normalizes an arbitrary instant to the canonical midnight-UTC
// civil date used by the generators.
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return Date(y, m, d)
}

// PeriodEndDate computes the calendar-period end date: one month after start,
// minus a day, with the day clamped into the shorter target month. A start of
// Jan 31 ends on Feb 28/29, never Mar 2.
func PeriodEndDate(start time.Time) time.Time {
	y, m, d := CivilDate(start).Date()
	day := d - 1
	if dim := DaysInMonth(y, m+1); day > dim {
		day = dim
	}
	// Day zero normalizes to the last day of the starting month, which is
	// exactly one month minus a day from a first-of-month start.
	return Date(y, m+1, day)
}

// SessionEndDate returns the date of the Nth matching weekday on or after
// start. An empty set, a non-positive count, or exhausting the walk cap all
// report ok=false.
func SessionEndDate(start time.Time, set WeekdaySet, sessions int) (time.Time, bool) {
	if sessions <= 0 || len(set) == 0 {
		return time.Time{}, false
	}
	day := CivilDate(start)
	counted := 0
	for i := 0; i < maxWalkDays; i++ {
		if OccursOn(day, set) {
			counted++
			if counted == sessions {
				return day, true
			}
		}
		day = day.AddDate(0, 0, 1)
	}
	return time.Time{}, false
}

// ExtendEndDate pushes an existing end date out by the given number of units.
// Period subscriptions extend by flat calendar days; session subscriptions
// extend to the Nth matching weekday strictly after the current end, so paid
// sessions stay aligned with actual training days.
func ExtendEndDate(current time.Time, mode BillingMode, set WeekdaySet, units int) (time.Time, bool) {
	if units <= 0 {
		return time.Time{}, false
	}
	switch mode {
	case BillingCalendarPeriod:
		return CivilDate(current).AddDate(0, 0, units), true
	case BillingSessionCount:
		return SessionEndDate(CivilDate(current).AddDate(0, 0, 1), set, units)
	default:
		return time.Time{}, false
	}
}

// ConsumedSessions counts matching weekdays from start through today,
// inclusive on both ends and bounded by the walk cap.
func ConsumedSessions(start, today time.Time, set WeekdaySet) int {
	if len(set) == 0 {
		return 0
	}
	day := CivilDate(start)
	end := CivilDate(today)
	count := 0
	for i := 0; i < maxWalkDays && !day.After(end); i++ {
		if OccursOn(day, set) {
			count++
		}
		day = day.AddDate(0, 0, 1)
	}
	return count
}

// RemainingSessions clamps total minus consumed into [0, total].
func RemainingSessions(total, consumed int) int {
	if total <= 0 {
		return 0
	}
	remaining := total - consumed
	if remaining < 0 {
		return 0
	}
	if remaining > total {
		return total
	}
	return remaining
}
