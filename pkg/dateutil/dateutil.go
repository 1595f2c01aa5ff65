// Package dateutil provides calendar arithmetic helpers shared by the
// planning engine.
package dateutil

import "time"

// AddMonths advances t by the given number of months, clamping the day of
// month to the last valid day of the resulting month. Unlike time.AddDate,
// Jan 31 + 1 month yields Feb 28 (or Feb 29 in a leap year), not Mar 3.
func AddMonths(t time.Time, months int) time.Time {
	year := t.Year()
	month := int(t.Month()) - 1 + months
	year += month / 12
	month = month % 12
	if month < 0 {
		month += 12
		year--
	}
	day := t.Day()
	if last := DaysInMonth(year, time.Month(month+1)); day > last {
		day = last
	}
	return time.Date(year, time.Month(month+1), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// DaysInMonth returns the number of days in the given month of the given year.
func DaysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this month.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthsBetween returns the number of whole months from a to b, floored at
// zero when b is not after a.
func MonthsBetween(a, b time.Time) int {
	if !b.After(a) {
		return 0
	}
	months := (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
	if b.Day() < a.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}
