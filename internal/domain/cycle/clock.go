// Package cycle maps wall-clock time onto the weekly subscription cycle:
// order cutoff, harvest and delivery days, and the fresh-swap request window.
//
// A Clock holds only immutable configuration. Every method is a pure function
// of its arguments, so tests pin behavior by passing a fixed now.
package cycle

import (
	"fmt"
	"strings"
	"time"

	"harvestcycle/internal/shared/biztime"
)

// WindowConfig is the weekday range in which fresh-swap requests are accepted.
// Weekdays use 0=Sunday..6=Saturday. When StartDay > EndDay the window wraps
// past Saturday.
type WindowConfig struct {
	StartDay  int
	EndDay    int
	EndHour   int
	EndMinute int
}

// CutoffConfig is the weekly order cutoff.
type CutoffConfig struct {
	Day    int
	Hour   int
	Minute int
}

// Config is the calendar configuration injected into a Clock.
type Config struct {
	Location    *time.Location
	Window      WindowConfig
	OrderCutoff CutoffConfig
	// HarvestDay and DeliveryDay are presentation labels. When they name a
	// weekday, CurrentCycle also resolves the next matching date.
	HarvestDay  string
	DeliveryDay string
}

// DefaultConfig returns the Sunday through Wednesday 23:59 window with a
// Wednesday 23:59 order cutoff, Friday harvest and Saturday delivery.
func DefaultConfig(loc *time.Location) Config {
	return Config{
		Location:    loc,
		Window:      WindowConfig{StartDay: 0, EndDay: 3, EndHour: 23, EndMinute: 59},
		OrderCutoff: CutoffConfig{Day: 3, Hour: 23, Minute: 59},
		HarvestDay:  "Friday",
		DeliveryDay: "Saturday",
	}
}

// Clock answers calendar questions for one configuration.
type Clock struct {
	cfg Config
}

// NewClock validates cfg and returns a Clock. A nil Location means UTC.
func NewClock(cfg Config) (*Clock, error) {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if !validWeekday(cfg.Window.StartDay) || !validWeekday(cfg.Window.EndDay) {
		return nil, fmt.Errorf("window days must be within 0..6, got %d..%d", cfg.Window.StartDay, cfg.Window.EndDay)
	}
	if !validClock(cfg.Window.EndHour, cfg.Window.EndMinute) {
		return nil, fmt.Errorf("window end time %02d:%02d is out of range", cfg.Window.EndHour, cfg.Window.EndMinute)
	}
	if !validWeekday(cfg.OrderCutoff.Day) || !validClock(cfg.OrderCutoff.Hour, cfg.OrderCutoff.Minute) {
		return nil, fmt.Errorf("order cutoff is out of range")
	}
	return &Clock{cfg: cfg}, nil
}

// Location returns the reference timezone.
func (c *Clock) Location() *time.Location {
	return c.cfg.Location
}

// IsWithinRequestWindow reports whether now falls inside the request window.
// On the window's last day the instant must be at or before EndHour:EndMinute:00.
func (c *Clock) IsWithinRequestWindow(now time.Time) bool {
	local := now.In(c.cfg.Location)
	w := c.cfg.Window
	wd := int(local.Weekday())

	if !weekdayInRange(wd, w.StartDay, w.EndDay) {
		return false
	}
	if wd != w.EndDay {
		return true
	}
	cutoff := time.Date(local.Year(), local.Month(), local.Day(), w.EndHour, w.EndMinute, 0, 0, c.cfg.Location)
	return !local.After(cutoff)
}

// CurrentCalendarMonthRange returns the first and last instant of now's month.
func (c *Clock) CurrentCalendarMonthRange(now time.Time) (time.Time, time.Time) {
	return biztime.StartOfMonth(now, c.cfg.Location), biztime.EndOfMonth(now, c.cfg.Location)
}

// WeekRange normalizes d to the start of its calendar date and returns the
// 7-day window [start, start+7 days).
func (c *Clock) WeekRange(d time.Time) (time.Time, time.Time) {
	start := biztime.StartOfDay(d, c.cfg.Location)
	return start, biztime.AddDays(start, 7, c.cfg.Location)
}

// Cycle describes the weekly cycle that now belongs to.
type Cycle struct {
	Now               time.Time
	OrderCutoff       time.Time
	HarvestDay        string
	DeliveryDay       string
	HarvestDate       *time.Time
	DeliveryDate      *time.Time
	RequestWindowOpen bool
}

// CurrentCycle returns the next order cutoff at or after now, along with the
// harvest and delivery days that follow it.
func (c *Clock) CurrentCycle(now time.Time) Cycle {
	cutoff := c.nextOccurrence(now, c.cfg.OrderCutoff.Day, c.cfg.OrderCutoff.Hour, c.cfg.OrderCutoff.Minute)

	cyc := Cycle{
		Now:               now,
		OrderCutoff:       cutoff,
		HarvestDay:        c.cfg.HarvestDay,
		DeliveryDay:       c.cfg.DeliveryDay,
		RequestWindowOpen: c.IsWithinRequestWindow(now),
	}

	after := cutoff
	if wd, ok := parseWeekday(c.cfg.HarvestDay); ok {
		d := c.nextDate(after, wd)
		cyc.HarvestDate = &d
		after = d
	}
	if wd, ok := parseWeekday(c.cfg.DeliveryDay); ok {
		d := c.nextDate(after, wd)
		cyc.DeliveryDate = &d
	}
	return cyc
}

// nextOccurrence returns the first weekday/hour:minute instant not before now.
func (c *Clock) nextOccurrence(now time.Time, weekday, hour, minute int) time.Time {
	local := now.In(c.cfg.Location)
	ahead := (weekday - int(local.Weekday()) + 7) % 7
	candidate := time.Date(local.Year(), local.Month(), local.Day()+ahead, hour, minute, 0, 0, c.cfg.Location)
	if candidate.Before(local) {
		candidate = biztime.AddDays(candidate, 7, c.cfg.Location)
	}
	return candidate
}

// nextDate returns the start of the first day strictly after from's date that
// falls on weekday.
func (c *Clock) nextDate(from time.Time, weekday time.Weekday) time.Time {
	day := biztime.StartOfDay(from, c.cfg.Location)
	ahead := (int(weekday) - int(day.Weekday()) + 7) % 7
	if ahead == 0 {
		ahead = 7
	}
	return biztime.AddDays(day, ahead, c.cfg.Location)
}

func weekdayInRange(wd, start, end int) bool {
	if start <= end {
		return wd >= start && wd <= end
	}
	return wd >= start || wd <= end
}

func validWeekday(d int) bool {
	return d >= 0 && d <= 6
}

func validClock(h, m int) bool {
	return h >= 0 && h <= 23 && m >= 0 && m <= 59
}

func parseWeekday(label string) (time.Weekday, bool) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(strings.TrimSpace(label), d.String()) {
			return d, true
		}
	}
	return 0, false
}
