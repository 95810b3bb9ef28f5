package recurrence

import (
	"math"
	"time"
)

// RateMode distinguishes how a configured amount relates to sessions.
type RateMode string

const (
	// RateMonthly means the amount is a monthly total to be divided evenly
	// across the month's occurrences.
	RateMonthly RateMode = "monthly"
	// RatePerSession means the amount is already a flat per-occurrence rate.
	RatePerSession RateMode = "per_session"
)

// PerOccurrenceCost computes the cost attributable to a single occurrence in
// the given month. The monthly share is rounded half away from zero to two
// decimals; this same rounding feeds cancellation credits and payroll
// deductions, so every caller goes through here rather than dividing on its
// own. Non-positive amounts and months with no occurrences resolve to zero.
func PerOccurrenceCost(amount float64, year int, month time.Month, set WeekdaySet, mode RateMode) float64 {
	if amount <= 0 {
		return 0
	}
	if mode == RatePerSession {
		return amount
	}
	count := OccurrenceCount(year, month, set)
	if count == 0 {
		return 0
	}
	return RoundToCents(amount / float64(count))
}

// RoundToCents rounds half away from zero at two decimal places.
func RoundToCents(x float64) float64 {
	return math.Round(x*100) / 100
}
