package events

import (
	"time"

	"github.com/spec-kit/request-tracker/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventRequestCreated       EventType = "request_created"
	EventRequestStatusChanged EventType = "request_status_changed"
	EventRequestCommentAdded  EventType = "request_comment_added"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	RequestID string      `json:"request_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// RequestCreatedPayload payload.
type RequestCreatedPayload struct {
	RequestKey  string             `json:"request_key"`
	Department  string             `json:"department"`
	RequestType domain.RequestType `json:"request_type"`
	Attachments int                `json:"attachments"`
}

// RequestStatusChangedPayload payload.
type RequestStatusChangedPayload struct {
	FromStatus domain.RequestStatus `json:"from_status"`
	ToStatus   domain.RequestStatus `json:"to_status"`
	Note       string               `json:"note,omitempty"`
}

// RequestCommentAddedPayload payload.
type RequestCommentAddedPayload struct {
	CommentID      string `json:"comment_id"`
	AuthorID       string `json:"author_id"`
	ContentPreview string `json:"content_preview"`
}
