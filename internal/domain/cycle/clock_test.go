package cycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func laClock(t *testing.T) (*Clock, *time.Location) {
	t.Helper()
	loc, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)
	c, err := NewClock(DefaultConfig(loc))
	require.NoError(t, err)
	return c, loc
}

func TestIsWithinRequestWindow(t *testing.T) {
	c, loc := laClock(t)

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"wednesday 23:58", time.Date(2026, 10, 14, 23, 58, 0, 0, loc), true},
		{"wednesday 23:59:00 exactly", time.Date(2026, 10, 14, 23, 59, 0, 0, loc), true},
		{"wednesday 23:59:01", time.Date(2026, 10, 14, 23, 59, 1, 0, loc), false},
		{"thursday 00:00", time.Date(2026, 10, 15, 0, 0, 0, 0, loc), false},
		{"saturday noon", time.Date(2026, 10, 17, 12, 0, 0, 0, loc), false},
		{"sunday 00:00", time.Date(2026, 10, 11, 0, 0, 0, 0, loc), true},
		{"monday afternoon", time.Date(2026, 10, 12, 15, 30, 0, 0, loc), true},
		// 2026-10-15 06:30 UTC is still Wednesday evening in Los Angeles.
		{"utc input converted to local", time.Date(2026, 10, 15, 6, 30, 0, 0, time.UTC), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.IsWithinRequestWindow(tt.now))
		})
	}
}

func TestIsWithinRequestWindow_Wraparound(t *testing.T) {
	c, err := NewClock(Config{
		Location: time.UTC,
		Window:   WindowConfig{StartDay: 5, EndDay: 1, EndHour: 12, EndMinute: 0},
	})
	require.NoError(t, err)

	// 2026-10-16 is a Friday.
	assert.True(t, c.IsWithinRequestWindow(time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)))
	assert.True(t, c.IsWithinRequestWindow(time.Date(2026, 10, 18, 8, 0, 0, 0, time.UTC)))
	assert.True(t, c.IsWithinRequestWindow(time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)))
	assert.False(t, c.IsWithinRequestWindow(time.Date(2026, 10, 19, 12, 0, 1, 0, time.UTC)))
	assert.False(t, c.IsWithinRequestWindow(time.Date(2026, 10, 21, 8, 0, 0, 0, time.UTC)))
}

func TestNewClock_RejectsBadConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"start day", Config{Window: WindowConfig{StartDay: 7, EndDay: 3}}},
		{"end day", Config{Window: WindowConfig{StartDay: 0, EndDay: -1}}},
		{"end hour", Config{Window: WindowConfig{EndDay: 3, EndHour: 24}}},
		{"cutoff minute", Config{Window: WindowConfig{EndDay: 3}, OrderCutoff: CutoffConfig{Day: 3, Minute: 60}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClock(tt.cfg)
			assert.Error(t, err)
		})
	}
}

func TestCurrentCalendarMonthRange(t *testing.T) {
	c, loc := laClock(t)

	start, end := c.CurrentCalendarMonthRange(time.Date(2026, 10, 14, 9, 0, 0, 0, loc))
	assert.True(t, start.Equal(time.Date(2026, 10, 1, 0, 0, 0, 0, loc)))
	assert.True(t, end.Equal(time.Date(2026, 10, 31, 23, 59, 59, 999999999, loc)))

	// Early UTC hours on the 1st still belong to the previous local month.
	start, _ = c.CurrentCalendarMonthRange(time.Date(2026, 11, 1, 3, 0, 0, 0, time.UTC))
	assert.True(t, start.Equal(time.Date(2026, 10, 1, 0, 0, 0, 0, loc)))
}

func TestWeekRange(t *testing.T) {
	c, loc := laClock(t)

	start, end := c.WeekRange(time.Date(2026, 10, 14, 17, 45, 0, 0, loc))
	assert.True(t, start.Equal(time.Date(2026, 10, 14, 0, 0, 0, 0, loc)))
	assert.True(t, end.Equal(time.Date(2026, 10, 21, 0, 0, 0, 0, loc)))

	// Window spanning the November DST change stays on local midnight.
	start, end = c.WeekRange(time.Date(2026, 10, 29, 0, 0, 0, 0, loc))
	assert.True(t, end.Equal(time.Date(2026, 11, 5, 0, 0, 0, 0, loc)))
	assert.Equal(t, 7*24*time.Hour+time.Hour, end.Sub(start))
}

func TestCurrentCycle(t *testing.T) {
	c, loc := laClock(t)

	t.Run("before cutoff", func(t *testing.T) {
		cyc := c.CurrentCycle(time.Date(2026, 10, 12, 10, 0, 0, 0, loc))
		assert.True(t, cyc.OrderCutoff.Equal(time.Date(2026, 10, 14, 23, 59, 0, 0, loc)))
		require.NotNil(t, cyc.HarvestDate)
		require.NotNil(t, cyc.DeliveryDate)
		assert.True(t, cyc.HarvestDate.Equal(time.Date(2026, 10, 16, 0, 0, 0, 0, loc)))
		assert.True(t, cyc.DeliveryDate.Equal(time.Date(2026, 10, 17, 0, 0, 0, 0, loc)))
		assert.Equal(t, "Friday", cyc.HarvestDay)
		assert.True(t, cyc.RequestWindowOpen)
	})

	t.Run("at cutoff instant", func(t *testing.T) {
		now := time.Date(2026, 10, 14, 23, 59, 0, 0, loc)
		assert.True(t, c.CurrentCycle(now).OrderCutoff.Equal(now))
	})

	t.Run("after cutoff rolls to next week", func(t *testing.T) {
		cyc := c.CurrentCycle(time.Date(2026, 10, 15, 0, 0, 0, 0, loc))
		assert.True(t, cyc.OrderCutoff.Equal(time.Date(2026, 10, 21, 23, 59, 0, 0, loc)))
		assert.False(t, cyc.RequestWindowOpen)
	})

	t.Run("free-form labels", func(t *testing.T) {
		cfg := DefaultConfig(loc)
		cfg.HarvestDay = "Harvest morning"
		clk, err := NewClock(cfg)
		require.NoError(t, err)
		cyc := clk.CurrentCycle(time.Date(2026, 10, 12, 10, 0, 0, 0, loc))
		assert.Nil(t, cyc.HarvestDate)
		assert.Equal(t, "Harvest morning", cyc.HarvestDay)
		require.NotNil(t, cyc.DeliveryDate)
		assert.True(t, cyc.DeliveryDate.Equal(time.Date(2026, 10, 17, 0, 0, 0, 0, loc)))
	})
}
