package domain

import "time"

// StatusHistory is an immutable audit trail entry for a status transition.
// A request's status always equals the ToStatus of its most recent entry.
type StatusHistory struct {
	ID         string
	RequestID  string
	FromStatus RequestStatus
	ToStatus   RequestStatus
	Note       *string
	ChangedBy  string
	CreatedAt  time.Time
}
