package replacement

import (
	"context"
	"time"

	vo "harvestcycle/internal/domain/replacement/valueobjects"
)

// QuotaReader is the read side the quota tracker needs. Implementations must
// read current storage state on every call.
type QuotaReader interface {
	// CountCreatedBetween counts requests by subscriberID with createdAt in [start, end].
	CountCreatedBetween(ctx context.Context, subscriberID string, start, end time.Time) (int64, error)
	// ExistsWeekStartBetween reports whether subscriberID has a request whose
	// weekStart lies in [from, to).
	ExistsWeekStartBetween(ctx context.Context, subscriberID string, from, to time.Time) (bool, error)
}

// Repository persists replacement requests.
type Repository interface {
	QuotaReader

	// LockSubscriber serializes request creation for subscriberID until the
	// surrounding transaction ends, across every process sharing the store.
	LockSubscriber(ctx context.Context, subscriberID string) error
	// Create inserts a new request. A request for the same subscriber and
	// week start that already exists yields ErrDuplicateWeekRequest.
	Create(ctx context.Context, request *ReplacementRequest) error
	// GetByID returns ErrNotFound for unknown IDs.
	GetByID(ctx context.Context, requestID string) (*ReplacementRequest, error)
	// Update writes request only if the stored version still equals
	// request.Version(); otherwise it returns ErrConcurrentModification.
	// On success the request carries the new version.
	Update(ctx context.Context, request *ReplacementRequest) error
	List(ctx context.Context, filter ListFilter) ([]*ReplacementRequest, error)
	// CountCreatedBetweenBySubscriber counts requests per subscriber with
	// createdAt in [start, end]. Subscribers without requests are absent.
	CountCreatedBetweenBySubscriber(ctx context.Context, subscriberIDs []string, start, end time.Time) (map[string]int64, error)
}

// ListFilter narrows List results. Results are ordered newest first.
type ListFilter struct {
	Status       *vo.RequestStatus
	SubscriberID *string
	Limit        int
}
