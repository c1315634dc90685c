package domain

import "time"

// Comment is an append-only entry in a request's discussion thread.
type Comment struct {
	ID        string
	RequestID string
	AuthorID  string
	Content   string
	CreatedAt time.Time
}
