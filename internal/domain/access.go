package domain

import "time"

// AccessTimeout is how long a requester waits for the owner before giving up.
// Expiry is observed by the requester only; the coordinator keeps no timer.
const AccessTimeout = 2 * time.Minute

const DefaultRejectReason = "Room owner declined your request."

type AccessState int

const (
	AccessRequested AccessState = iota
	AccessAutoApproved
	AccessPending
	AccessApproved
	AccessRejected
	AccessTimedOut
)

func (s AccessState) String() string {
	switch s {
	case AccessRequested:
		return "requested"
	case AccessAutoApproved:
		return "auto_approved"
	case AccessPending:
		return "pending"
	case AccessApproved:
		return "approved"
	case AccessRejected:
		return "rejected"
	case AccessTimedOut:
		return "timed_out"
	default:
		return "unknown"
	}
}

// AccessRequest is an outstanding ask to enter a non-empty room.
type AccessRequest struct {
	ConnID      ConnID    `json:"requesterId"`
	Name        string    `json:"username"`
	RequestedAt time.Time `json:"requestedAt"`
}

// Deadline is when the requester stops waiting.
func (r AccessRequest) Deadline() time.Time {
	return r.RequestedAt.Add(AccessTimeout)
}
