package valueobjects

// RequestStatus is the lifecycle state of a replacement request.
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusApplied  RequestStatus = "applied"
	StatusRejected RequestStatus = "rejected"
)

var statusTransitions = map[RequestStatus][]RequestStatus{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {StatusApplied, StatusRejected},
	StatusApplied:  {},
	StatusRejected: {},
}

// ValidStatuses lists every accepted status value.
var ValidStatuses = map[RequestStatus]bool{
	StatusPending:  true,
	StatusApproved: true,
	StatusApplied:  true,
	StatusRejected: true,
}

func (s RequestStatus) String() string {
	return string(s)
}

func (s RequestStatus) IsValid() bool {
	return ValidStatuses[s]
}

// IsTerminal reports whether no transition leaves s.
func (s RequestStatus) IsTerminal() bool {
	return s == StatusApplied || s == StatusRejected
}

// CanTransitionTo reports whether s may move to target. Staying in the same
// state is not a transition.
func (s RequestStatus) CanTransitionTo(target RequestStatus) bool {
	allowed, exists := statusTransitions[s]
	if !exists {
		return false
	}

	for _, allowedStatus := range allowed {
		if allowedStatus == target {
			return true
		}
	}
	return false
}

// ParseRequestStatus converts raw input, reporting false for unknown values.
func ParseRequestStatus(raw string) (RequestStatus, bool) {
	s := RequestStatus(raw)
	return s, s.IsValid()
}
