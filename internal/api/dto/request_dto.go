package dto

import (
	"time"

	"github.com/spec-kit/request-tracker/internal/domain"
)

// CreateRequestRequest payload.
type CreateRequestRequest struct {
	Department       string              `json:"department" validate:"required,max=100"`
	PainPoint        string              `json:"painPoint" validate:"required,min=10,max=2000"`
	CurrentWorkflow  string              `json:"currentWorkflow" validate:"required,max=2000"`
	ExpectedTechHelp string              `json:"expectedTechHelp" validate:"required,max=2000"`
	RequestType      domain.RequestType  `json:"requestType" validate:"required,oneof=CALCULATOR DATA_DASHBOARD FORM_DIGITIZATION PROCESS_AUTOMATION OTHER"`
	Attachments      []AttachmentPayload `json:"attachments" validate:"dive"`
}

// AttachmentPayload references a file already accepted by the upload endpoint.
type AttachmentPayload struct {
	FileName   string `json:"file_name" validate:"required"`
	MimeType   string `json:"mime_type" validate:"required"`
	SizeBytes  int64  `json:"size_bytes" validate:"required,gt=0"`
	StorageKey string `json:"storage_key" validate:"required"`
	URL        string `json:"url" validate:"required"`
}

// RequestSummary response for list views.
type RequestSummary struct {
	ID          string               `json:"id"`
	RequestKey  string               `json:"request_key"`
	UserID      string               `json:"userId"`
	Department  string               `json:"department"`
	PainPoint   string               `json:"painPoint"`
	RequestType domain.RequestType   `json:"requestType"`
	Status      domain.RequestStatus `json:"status"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// RequestDetailResponse provides the full request view.
type RequestDetailResponse struct {
	ID               string                  `json:"id"`
	RequestKey       string                  `json:"request_key"`
	UserID           string                  `json:"userId"`
	Department       string                  `json:"department"`
	PainPoint        string                  `json:"painPoint"`
	CurrentWorkflow  string                  `json:"currentWorkflow"`
	ExpectedTechHelp string                  `json:"expectedTechHelp"`
	RequestType      domain.RequestType      `json:"requestType"`
	Status           domain.RequestStatus    `json:"status"`
	CreatedAt        time.Time               `json:"created_at"`
	UpdatedAt        time.Time               `json:"updated_at"`
	Attachments      []AttachmentResponse    `json:"attachments"`
	History          []StatusHistoryResponse `json:"history"`
}

// AttachmentResponse metadata.
type AttachmentResponse struct {
	ID        string    `json:"id"`
	FileName  string    `json:"file_name"`
	MimeType  string    `json:"mime_type"`
	SizeBytes int64     `json:"size_bytes"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateCommentRequest payload.
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=4000"`
}

// CommentResponse represents a thread entry.
type CommentResponse struct {
	ID        string    `json:"id"`
	RequestID string    `json:"request_id"`
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// StatusHistoryResponse represents an audit trail entry.
type StatusHistoryResponse struct {
	ID         string               `json:"id"`
	FromStatus domain.RequestStatus `json:"fromStatus"`
	ToStatus   domain.RequestStatus `json:"toStatus"`
	Note       *string              `json:"note,omitempty"`
	ChangedBy  string               `json:"changed_by"`
	CreatedAt  time.Time            `json:"created_at"`
}

// UploadFileResult reports the outcome for one uploaded file.
type UploadFileResult struct {
	FileName   string `json:"file_name"`
	Accepted   bool   `json:"accepted"`
	Reason     string `json:"reason,omitempty"`
	MimeType   string `json:"mime_type,omitempty"`
	SizeBytes  int64  `json:"size_bytes"`
	StorageKey string `json:"storage_key,omitempty"`
	URL        string `json:"url,omitempty"`
}

// NewRequestSummary maps a domain request.
func NewRequestSummary(request *domain.Request) RequestSummary {
	return RequestSummary{
		ID:          request.ID,
		RequestKey:  request.RequestKey,
		UserID:      request.UserID,
		Department:  request.Department,
		PainPoint:   request.PainPoint,
		RequestType: request.RequestType,
		Status:      request.Status,
		CreatedAt:   request.CreatedAt,
		UpdatedAt:   request.UpdatedAt,
	}
}

// NewRequestDetailResponse maps a request with its attachments and history.
func NewRequestDetailResponse(request *domain.Request, attachments []domain.Attachment, history []domain.StatusHistory) RequestDetailResponse {
	attResponses := make([]AttachmentResponse, 0, len(attachments))
	for _, att := range attachments {
		attResponses = append(attResponses, NewAttachmentResponse(&att))
	}
	historyResponses := make([]StatusHistoryResponse, 0, len(history))
	for _, entry := range history {
		historyResponses = append(historyResponses, NewStatusHistoryResponse(&entry))
	}
	return RequestDetailResponse{
		ID:               request.ID,
		RequestKey:       request.RequestKey,
		UserID:           request.UserID,
		Department:       request.Department,
		PainPoint:        request.PainPoint,
		CurrentWorkflow:  request.CurrentWorkflow,
		ExpectedTechHelp: request.ExpectedTechHelp,
		RequestType:      request.RequestType,
		Status:           request.Status,
		CreatedAt:        request.CreatedAt,
		UpdatedAt:        request.UpdatedAt,
		Attachments:      attResponses,
		History:          historyResponses,
	}
}

// NewAttachmentResponse maps a domain attachment.
func NewAttachmentResponse(att *domain.Attachment) AttachmentResponse {
	return AttachmentResponse{
		ID:        att.ID,
		FileName:  att.FileName,
		MimeType:  att.MimeType,
		SizeBytes: att.SizeBytes,
		URL:       att.URL,
		CreatedAt: att.CreatedAt,
	}
}

// NewCommentResponse maps a domain comment.
func NewCommentResponse(comment *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:        comment.ID,
		RequestID: comment.RequestID,
		AuthorID:  comment.AuthorID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
	}
}

// NewStatusHistoryResponse maps a domain history entry.
func NewStatusHistoryResponse(entry *domain.StatusHistory) StatusHistoryResponse {
	return StatusHistoryResponse{
		ID:         entry.ID,
		FromStatus: entry.FromStatus,
		ToStatus:   entry.ToStatus,
		Note:       entry.Note,
		ChangedBy:  entry.ChangedBy,
		CreatedAt:  entry.CreatedAt,
	}
}
