package replacement

import (
	"time"

	vo "harvestcycle/internal/domain/replacement/valueobjects"
	"harvestcycle/internal/domain/shared/events"
)

const (
	EventTypeCreated       = "replacement_request.created"
	EventTypeStatusChanged = "replacement_request.status_changed"
)

// RequestCreatedEvent is published after a request is persisted.
type RequestCreatedEvent struct {
	events.BaseEvent
	SubscriberID string
	WeekStart    time.Time
	Reason       string
}

func NewRequestCreatedEvent(r *ReplacementRequest) *RequestCreatedEvent {
	return &RequestCreatedEvent{
		BaseEvent:    events.NewBaseEvent(r.ID(), EventTypeCreated, r.CreatedAt()),
		SubscriberID: r.SubscriberID(),
		WeekStart:    r.WeekStart(),
		Reason:       r.Reason(),
	}
}

// RequestStatusChangedEvent is published after an administrative status change.
type RequestStatusChangedEvent struct {
	events.BaseEvent
	SubscriberID     string
	From             vo.RequestStatus
	To               vo.RequestStatus
	AppliedToOrderID *string
}

func NewRequestStatusChangedEvent(r *ReplacementRequest, from vo.RequestStatus) *RequestStatusChangedEvent {
	return &RequestStatusChangedEvent{
		BaseEvent:        events.NewBaseEvent(r.ID(), EventTypeStatusChanged, r.UpdatedAt()),
		SubscriberID:     r.SubscriberID(),
		From:             from,
		To:               r.Status(),
		AppliedToOrderID: r.AppliedToOrderID(),
	}
}
