package biztime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLoad(t *testing.T, tz string) *time.Location {
	t.Helper()
	loc, err := LoadLocation(tz)
	require.NoError(t, err)
	return loc
}

func TestMonthBoundaries(t *testing.T) {
	loc := mustLoad(t, "America/Los_Angeles")

	// 2026-03-01 05:00 UTC is still February 28th in Los Angeles.
	now := time.Date(2026, 3, 1, 5, 0, 0, 0, time.UTC)

	start := StartOfMonth(now, loc)
	end := EndOfMonth(now, loc)

	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, loc), start)
	assert.Equal(t, time.Date(2026, 2, 28, 23, 59, 59, 999999999, loc), end)
}

func TestAddDays_AcrossDST(t *testing.T) {
	loc := mustLoad(t, "America/Los_Angeles")

	// DST starts 2026-03-08 in the US.
	start := time.Date(2026, 3, 6, 0, 0, 0, 0, loc)
	got := AddDays(start, 7, loc)

	assert.Equal(t, time.Date(2026, 3, 13, 0, 0, 0, 0, loc), got)
	assert.NotEqual(t, start.Add(7*24*time.Hour), got)
}

func TestParseDate(t *testing.T) {
	loc := mustLoad(t, "UTC")

	got, err := ParseDate("2026-10-12", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 12, 0, 0, 0, 0, loc), got)
	assert.Equal(t, "2026-10-12", FormatDate(got, loc))

	_, err = ParseDate("12/10/2026", loc)
	assert.Error(t, err)
}

func TestLoadLocation_Default(t *testing.T) {
	loc := mustLoad(t, "")
	assert.Equal(t, DefaultTimezone, loc.String())

	_, err := LoadLocation("Not/AZone")
	assert.Error(t, err)
}
