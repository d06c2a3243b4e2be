// Package biztime provides utilities for business timezone calculations.
// All storage and transport use UTC. The business timezone is only used for
// calculating date boundaries (start of day, month).
//
// Every function takes the location explicitly; nothing here reads ambient
// process state, so callers can pin both the clock and the zone in tests.
package biztime

import (
	"fmt"
	"time"
)

const (
	// DefaultTimezone is the default business timezone.
	DefaultTimezone = "America/Los_Angeles"

	// DateLayout is the wire format for calendar dates.
	DateLayout = "2006-01-02"
)

// LoadLocation resolves tz, falling back to DefaultTimezone when empty.
func LoadLocation(tz string) (*time.Location, error) {
	if tz == "" {
		tz = DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("failed to load business timezone %q: %w", tz, err)
	}
	return loc, nil
}

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// StartOfDay returns 00:00:00 of t's calendar date in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// StartOfMonth returns the first instant of t's calendar month in loc.
func StartOfMonth(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
}

// EndOfMonth returns the last instant (23:59:59.999999999) of t's calendar month in loc.
func EndOfMonth(t time.Time, loc *time.Location) time.Time {
	return StartOfMonth(t, loc).AddDate(0, 1, 0).Add(-time.Nanosecond)
}

// AddDays moves a start-of-day instant by n calendar days. Unlike
// t.Add(n*24h) this stays on midnight across DST changes.
func AddDays(t time.Time, n int, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day()+n, local.Hour(), local.Minute(), local.Second(), local.Nanosecond(), loc)
}

// ParseDate parses a date string (YYYY-MM-DD) as midnight in loc.
func ParseDate(dateStr string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, dateStr, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format %q: %w", dateStr, err)
	}
	return t, nil
}

// FormatDate formats t as YYYY-MM-DD in loc.
func FormatDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}
