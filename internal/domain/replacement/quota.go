package replacement

import (
	"context"
	"fmt"
	"time"

	"harvestcycle/internal/domain/cycle"
	"harvestcycle/internal/shared/biztime"
)

// DefaultMonthlyCap is the number of requests a subscriber may file per calendar month.
const DefaultMonthlyCap = 2

// QuotaUsage is a subscriber's request count for the current calendar month.
type QuotaUsage struct {
	Used       int64
	Cap        int
	MonthStart time.Time
	MonthEnd   time.Time
}

// Remaining returns how many more requests fit under the cap.
func (u QuotaUsage) Remaining() int64 {
	if r := int64(u.Cap) - u.Used; r > 0 {
		return r
	}
	return 0
}

// QuotaTracker gates request creation on the monthly cap and on week uniqueness.
type QuotaTracker struct {
	clock      *cycle.Clock
	reader     QuotaReader
	monthlyCap int
}

// NewQuotaTracker creates a tracker. A non-positive cap falls back to DefaultMonthlyCap.
func NewQuotaTracker(clock *cycle.Clock, reader QuotaReader, monthlyCap int) *QuotaTracker {
	if monthlyCap <= 0 {
		monthlyCap = DefaultMonthlyCap
	}
	return &QuotaTracker{clock: clock, reader: reader, monthlyCap: monthlyCap}
}

func (q *QuotaTracker) MonthlyCap() int {
	return q.monthlyCap
}

// Usage returns subscriberID's request count for now's calendar month.
func (q *QuotaTracker) Usage(ctx context.Context, subscriberID string, now time.Time) (QuotaUsage, error) {
	start, end := q.clock.CurrentCalendarMonthRange(now)
	used, err := q.reader.CountCreatedBetween(ctx, subscriberID, start, end)
	if err != nil {
		return QuotaUsage{}, fmt.Errorf("failed to count monthly requests: %w", err)
	}
	return QuotaUsage{Used: used, Cap: q.monthlyCap, MonthStart: start, MonthEnd: end}, nil
}

// CheckEligibility returns nil when subscriberID may file a request for
// weekStart at now. It fails with *MonthlyLimitError when the month is used
// up, and with ErrDuplicateWeekRequest when an existing request's 7-day window
// overlaps the one starting at weekStart.
func (q *QuotaTracker) CheckEligibility(ctx context.Context, subscriberID string, weekStart, now time.Time) error {
	usage, err := q.Usage(ctx, subscriberID, now)
	if err != nil {
		return err
	}
	if usage.Used >= int64(q.monthlyCap) {
		return &MonthlyLimitError{Cap: q.monthlyCap, Used: usage.Used}
	}

	// Stored week starts are day-normalized, so any start in
	// [start-6d, start+7d) has a window sharing at least one day with ours.
	start, endExclusive := q.clock.WeekRange(weekStart)
	from := biztime.AddDays(start, -6, q.clock.Location())
	exists, err := q.reader.ExistsWeekStartBetween(ctx, subscriberID, from, endExclusive)
	if err != nil {
		return fmt.Errorf("failed to check week uniqueness: %w", err)
	}
	if exists {
		return ErrDuplicateWeekRequest
	}
	return nil
}
