// ABOUTME: Calendar date and year-month helpers for session keys.
// ABOUTME: Sessions are keyed by YYYY-MM-DD, calendar views by YYYY-MM.
package models

import (
	"fmt"
	"time"
)

const (
	DateLayout      = "2006-01-02"
	YearMonthLayout = "2006-01"
)

// ParseDate validates and parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return t, nil
}

// ParseYearMonth validates and parses a YYYY-MM year-month.
func ParseYearMonth(s string) (time.Time, error) {
	t, err := time.Parse(YearMonthLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q (want YYYY-MM)", s)
	}
	return t, nil
}

// FormatDate formats t as a session date in t's own location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Today returns today's session date in local time.
func Today() string {
	return FormatDate(time.Now())
}
