// Package growth implements the longitudinal growth engine: age arithmetic,
// interval velocities, peak-height-velocity estimation with filtering and
// capping, a minimal-data fallback, and series validation.
//
// Everything in this package is a pure function over caller-owned data. No
// I/O, no shared state; safe for concurrent use.
package growth

import "time"

// Calendar constants shared by all growth arithmetic.
const (
	// DaysPerYear converts day spans to fractional years.
	DaysPerYear = 365.25

	hoursPerDay = 24.0
)

// AgeAt returns the fractional age in years at a given date.
// Zero-value dates yield 0.0 rather than an error: date parsing happens at
// the transport boundary, and callers that never supplied a birth date get
// an absent age downstream instead of a failure.
func AgeAt(birth, at time.Time) float64 {
	if birth.IsZero() || at.IsZero() {
		return 0.0
	}
	return at.Sub(birth).Hours() / hoursPerDay / DaysPerYear
}

// DaysBetween returns the absolute day span between two dates, floored at
// 1.0 so downstream velocity divisions can never divide by zero.
func DaysBetween(a, b time.Time) float64 {
	days := b.Sub(a).Hours() / hoursPerDay
	if days < 0 {
		days = -days
	}
	if days < 1.0 {
		return 1.0
	}
	return days
}

// Midpoint returns the date halfway between two dates.
func Midpoint(earlier, later time.Time) time.Time {
	return earlier.Add(later.Sub(earlier) / 2)
}
