package replacement

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound               = errors.New("replacement request not found")
	ErrMonthlyLimitExceeded   = errors.New("monthly replacement limit exceeded")
	ErrDuplicateWeekRequest   = errors.New("a replacement was already requested for this week")
	ErrInvalidTransition      = errors.New("invalid status transition")
	ErrInvalidStatus          = errors.New("invalid status")
	ErrAlreadyApplied         = errors.New("replacement already applied to a different order")
	ErrNotApproved            = errors.New("replacement must be approved before it is applied")
	ErrOutsideRequestWindow   = errors.New("replacement requests are closed for this cycle")
	ErrConcurrentModification = errors.New("replacement request was modified concurrently")
	ErrOrderIDRequired        = errors.New("order ID is required to apply a replacement")
)

// MonthlyLimitError carries the cap that was hit. It matches
// ErrMonthlyLimitExceeded under errors.Is.
type MonthlyLimitError struct {
	Cap  int
	Used int64
}

func (e *MonthlyLimitError) Error() string {
	return fmt.Sprintf("%s: %d of %d used", ErrMonthlyLimitExceeded, e.Used, e.Cap)
}

func (e *MonthlyLimitError) Unwrap() error {
	return ErrMonthlyLimitExceeded
}

func newInvalidTransitionError(from, to string) error {
	return fmt.Errorf("%w: from %s to %s", ErrInvalidTransition, from, to)
}
