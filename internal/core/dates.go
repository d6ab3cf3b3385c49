package core

import (
	"fmt"
	"time"
)

// MonthIndex maps a calendar month onto a single integer scale so window
// arithmetic is plain integer comparison: year*12 + (month-1).
func MonthIndex(year int, month time.Month) int {
	return year*12 + int(month) - 1
}

// LastDayOfMonth returns 28..31 for the given month, leap years included.
func LastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ClampDay pulls a target day-of-month back to the last valid day of short
// months (31 becomes 28 in a non-leap February).
func ClampDay(day, year int, month time.Month) int {
	if last := LastDayOfMonth(year, month); day > last {
		return last
	}
	return day
}

// MonthWindow returns the inclusive [first, last] day bounds of a month,
// both at midnight UTC.
func MonthWindow(year int, month time.Month) (start, end time.Time) {
	start = time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end = time.Date(year, month, LastDayOfMonth(year, month), 0, 0, 0, 0, time.UTC)
	return start, end
}

// Period renders a month as "YYYY-MM", the key used by the materialization
// uniqueness guard.
func Period(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}

// PeriodOf returns the period of a transaction date.
func PeriodOf(t time.Time) string {
	return Period(t.Year(), t.Month())
}

// AddMonthsClamped moves a date forward by n months keeping the original
// day-of-month where it exists and clamping where it does not. Unlike
// time.AddDate it never rolls over into the following month
// (Jan 31 + 1 month is Feb 28, not Mar 3).
func AddMonthsClamped(t time.Time, n int) time.Time {
	idx := MonthIndex(t.Year(), t.Month()) + n
	year := idx / 12
	month := time.Month(idx%12 + 1)
	day := ClampDay(t.Day(), year, month)
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
