package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// Date truncates t to a UTC calendar date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// LastDayOfMonth returns the number of days in the given month.
func LastDayOfMonth(year int, month time.Month) int {
	// Day 0 of the next month normalizes to the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// clampedDate returns day-of-month day in (year, month), clamped to the
// month's length.
func clampedDate(year int, month time.Month, day int) time.Time {
	first := Date(year, month, 1)
	last := LastDayOfMonth(first.Year(), first.Month())
	if day > last {
		day = last
	}
	return Date(first.Year(), first.Month(), day)
}

// NextRecurringDate returns the first date on or after base that falls on
// day, clamped down to the last day of shorter months.
func NextRecurringDate(base time.Time, day int) (time.Time, error) {
	if day < 1 || day > 31 {
		return time.Time{}, ErrInvalidDayOfMonth
	}
	if base.IsZero() {
		return time.Time{}, ErrInvalidDate
	}

	y, m, d := base.Date()
	baseDate := Date(y, m, d)

	candidate := clampedDate(y, m, day)
	if candidate.Before(baseDate) {
		candidate = clampedDate(y, m+1, day)
	}
	return candidate, nil
}

// AddPeriodDays advances base by multiplier weekly (7 day) or biweekly
// (15 day) periods.
func AddPeriodDays(base time.Time, cadence Cadence, multiplier int) (time.Time, error) {
	var days int
	switch cadence {
	case CadenceWeekly:
		days = 7
	case CadenceBiweekly:
		days = 15
	default:
		return time.Time{}, fmt.Errorf("%w: %q has no fixed day count", ErrInvalidCadence, cadence)
	}
	y, m, d := base.Date()
	return Date(y, m, d+days*multiplier), nil
}

// DueDate returns the due date of the i-th installment (1-based) counted from
// start. Monthly installments land on dayOfMonth, clamped to short months.
func DueDate(start time.Time, cadence Cadence, dayOfMonth, i int) (time.Time, error) {
	if start.IsZero() {
		return time.Time{}, ErrInvalidDate
	}
	switch cadence {
	case CadenceWeekly, CadenceBiweekly:
		return AddPeriodDays(start, cadence, i)
	case CadenceMonthly, CadenceIndefinite:
		first := Date(start.Year(), start.Month()+time.Month(i), 1)
		return NextRecurringDate(first, dayOfMonth)
	default:
		return time.Time{}, ErrInvalidCadence
	}
}
