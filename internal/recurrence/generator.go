package recurrence

import (
	"time"

	"github.com/google/uuid"
)

// Recurrence describes one branch's weekly training configuration. StartTime
// and EndTime are opaque clock labels ("16:00"); the generator copies them
// through without validation.
type Recurrence struct {
	BranchID   uuid.UUID
	BranchName string
	Days       WeekdaySet
	StartTime  string
	EndTime    string
}

// Occurrence is one expected training session derived from a recurrence. It
// is never persisted: the same month and configuration always regenerate the
// identical list.
type Occurrence struct {
	Date       time.Time
	BranchID   uuid.UUID
	BranchName string
	StartTime  string
	EndTime    string
}

// DaysInMonth returns the number of calendar days in the given month. Day
// zero of the following month normalizes to the last day of this one, so
// leap years fall out of the date arithmetic.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Date builds the canonical civil-date value used throughout the core:
// midnight UTC on the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// OccursOn reports whether a session is expected on the given date, i.e.
// whether the date's weekday is a member of the set.
func OccursOn(date time.Time, set WeekdaySet) bool {
	return set.Contains(date.Weekday())
}

// OccurrenceCount counts the expected sessions in a month for one weekday
// set. An empty set counts zero.
func OccurrenceCount(year int, month time.Month, set WeekdaySet) int {
	if len(set) == 0 {
		return 0
	}
	count := 0
	for day := 1; day <= DaysInMonth(year, month); day++ {
		if OccursOn(Date(year, month, day), set) {
			count++
		}
	}
	return count
}

// GenerateMonth expands every recurrence over the calendar month, first day
// through last. The result is ordered date-ascending, then by recurrence
// input order, and is fully determined by its inputs.
func GenerateMonth(year int, month time.Month, recurrences []Recurrence) []Occurrence {
	occurrences := make([]Occurrence, 0)
	for day := 1; day <= DaysInMonth(year, month); day++ {
		date := Date(year, month, day)
		for _, rec := range recurrences {
			if !OccursOn(date, rec.Days) {
				continue
			}
			occurrences = append(occurrences, Occurrence{
				Date:       date,
				BranchID:   rec.BranchID,
				BranchName: rec.BranchName,
				StartTime:  rec.StartTime,
				EndTime:    rec.EndTime,
			})
		}
	}
	return occurrences
}
