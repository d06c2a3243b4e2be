// Package replacement holds the fresh-swap replacement request aggregate,
// its lifecycle rules and the quota checks that gate its creation.
package replacement

import (
	"fmt"
	"strings"
	"time"

	vo "harvestcycle/internal/domain/replacement/valueobjects"
	"harvestcycle/internal/shared/id"
)

const (
	maxReasonLength     = 1000
	maxAdminNotesLength = 2000
)

// ReplacementRequest is a subscriber's request to replace one week's delivery.
//
// appliedToOrderID is non-nil exactly when status is applied.
type ReplacementRequest struct {
	id               string
	subscriberID     string
	weekStart        time.Time
	requestType      vo.RequestType
	reason           string
	status           vo.RequestStatus
	appliedToOrderID *string
	adminNotes       string
	version          int
	createdAt        time.Time
	updatedAt        time.Time
}

// NewReplacementRequest creates a pending fresh-swap request. weekStart is
// expected to be normalized to the start of its calendar date.
func NewReplacementRequest(subscriberID string, weekStart time.Time, reason string, now time.Time) (*ReplacementRequest, error) {
	subscriberID = strings.TrimSpace(subscriberID)
	if subscriberID == "" {
		return nil, fmt.Errorf("subscriber ID is required")
	}
	if weekStart.IsZero() {
		return nil, fmt.Errorf("week start date is required")
	}
	if len(reason) > maxReasonLength {
		return nil, fmt.Errorf("reason exceeds maximum length of %d characters", maxReasonLength)
	}

	requestID, err := id.NewReplacementRequestID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate replacement request ID: %w", err)
	}

	now = now.UTC()
	return &ReplacementRequest{
		id:           requestID,
		subscriberID: subscriberID,
		weekStart:    weekStart,
		requestType:  vo.TypeFreshSwap,
		reason:       reason,
		status:       vo.StatusPending,
		version:      1,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// ReconstructReplacementRequest rebuilds a request from storage.
func ReconstructReplacementRequest(
	requestID string,
	subscriberID string,
	weekStart time.Time,
	requestType vo.RequestType,
	reason string,
	status vo.RequestStatus,
	appliedToOrderID *string,
	adminNotes string,
	version int,
	createdAt, updatedAt time.Time,
) (*ReplacementRequest, error) {
	if requestID == "" {
		return nil, fmt.Errorf("replacement request ID is required")
	}
	if subscriberID == "" {
		return nil, fmt.Errorf("subscriber ID is required")
	}
	if !requestType.IsValid() {
		return nil, fmt.Errorf("invalid request type %q", requestType)
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if (status == vo.StatusApplied) != (appliedToOrderID != nil) {
		return nil, fmt.Errorf("replacement request %s: applied order must be set exactly when status is applied", requestID)
	}

	return &ReplacementRequest{
		id:               requestID,
		subscriberID:     subscriberID,
		weekStart:        weekStart,
		requestType:      requestType,
		reason:           reason,
		status:           status,
		appliedToOrderID: appliedToOrderID,
		adminNotes:       adminNotes,
		version:          version,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}, nil
}

func (r *ReplacementRequest) ID() string {
	return r.id
}

func (r *ReplacementRequest) SubscriberID() string {
	return r.subscriberID
}

func (r *ReplacementRequest) WeekStart() time.Time {
	return r.weekStart
}

func (r *ReplacementRequest) Type() vo.RequestType {
	return r.requestType
}

func (r *ReplacementRequest) Reason() string {
	return r.reason
}

func (r *ReplacementRequest) Status() vo.RequestStatus {
	return r.status
}

func (r *ReplacementRequest) AdminNotes() string {
	return r.adminNotes
}

func (r *ReplacementRequest) Version() int {
	return r.version
}

func (r *ReplacementRequest) CreatedAt() time.Time {
	return r.createdAt
}

func (r *ReplacementRequest) UpdatedAt() time.Time {
	return r.updatedAt
}

// AppliedToOrderID returns a copy of the bound order ID, or nil.
func (r *ReplacementRequest) AppliedToOrderID() *string {
	if r.appliedToOrderID == nil {
		return nil
	}
	v := *r.appliedToOrderID
	return &v
}

// ChangeStatus moves the request to target. Moving to applied needs an order
// and goes through ApplyToOrder instead.
func (r *ReplacementRequest) ChangeStatus(target vo.RequestStatus, now time.Time) error {
	if !target.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, target)
	}
	if target == vo.StatusApplied {
		switch r.status {
		case vo.StatusPending:
			return ErrNotApproved
		case vo.StatusApproved:
			return ErrOrderIDRequired
		}
	}
	if !r.status.CanTransitionTo(target) {
		return newInvalidTransitionError(r.status.String(), target.String())
	}

	r.status = target
	r.updatedAt = now.UTC()
	return nil
}

// ApplyToOrder binds an approved request to orderID and marks it applied in
// one step. Re-applying to the same order is a no-op and reports false.
func (r *ReplacementRequest) ApplyToOrder(orderID string, now time.Time) (bool, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return false, ErrOrderIDRequired
	}

	if r.appliedToOrderID != nil {
		if *r.appliedToOrderID == orderID {
			return false, nil
		}
		return false, fmt.Errorf("%w: bound to %s", ErrAlreadyApplied, *r.appliedToOrderID)
	}
	if r.status != vo.StatusApproved {
		return false, fmt.Errorf("%w: current status is %s", ErrNotApproved, r.status)
	}

	r.status = vo.StatusApplied
	r.appliedToOrderID = &orderID
	r.updatedAt = now.UTC()
	return true, nil
}

// SetAdminNotes replaces the administrator notes.
func (r *ReplacementRequest) SetAdminNotes(notes string, now time.Time) error {
	if len(notes) > maxAdminNotesLength {
		return fmt.Errorf("admin notes exceed maximum length of %d characters", maxAdminNotesLength)
	}
	if notes == r.adminNotes {
		return nil
	}
	r.adminNotes = notes
	r.updatedAt = now.UTC()
	return nil
}

// SetVersion is called by the repository after a successful conditional write.
func (r *ReplacementRequest) SetVersion(version int) {
	r.version = version
}
