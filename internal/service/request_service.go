package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/request-tracker/internal/domain"
	"github.com/spec-kit/request-tracker/internal/events"
	"github.com/spec-kit/request-tracker/internal/repository"
	apperrors "github.com/spec-kit/request-tracker/pkg/util"
)

// RequestService coordinates the request lifecycle: creation, listing,
// the comment thread and the admin status workflow.
type RequestService struct {
	requests    repository.RequestRepository
	comments    repository.CommentRepository
	attachments repository.AttachmentRepository
	history     repository.StatusHistoryRepository
	dispatcher  events.Dispatcher
}

// RequestDependencies bundles repositories for the request service.
type RequestDependencies struct {
	RequestRepo    repository.RequestRepository
	CommentRepo    repository.CommentRepository
	AttachmentRepo repository.AttachmentRepository
	HistoryRepo    repository.StatusHistoryRepository
	Dispatcher     events.Dispatcher
}

// RequestCreateInput describes a submission.
type RequestCreateInput struct {
	Department       string
	PainPoint        string
	CurrentWorkflow  string
	ExpectedTechHelp string
	RequestType      domain.RequestType
	Attachments      []AttachmentInput
}

// AttachmentInput carries metadata of an already-uploaded file.
type AttachmentInput struct {
	FileName   string
	MimeType   string
	SizeBytes  int64
	StorageKey string
	URL        string
}

// RequestListFilter describes listing parameters.
type RequestListFilter struct {
	Statuses   []domain.RequestStatus
	Department *string
	SearchTerm *string
	Limit      int
	Offset     int
}

// RequestDetail aggregates everything the detail endpoint renders.
type RequestDetail struct {
	Request     *domain.Request
	Attachments []domain.Attachment
	History     []domain.StatusHistory
}

// NewRequestService constructs the service.
func NewRequestService(deps RequestDependencies) *RequestService {
	return &RequestService{
		requests:    deps.RequestRepo,
		comments:    deps.CommentRepo,
		attachments: deps.AttachmentRepo,
		history:     deps.HistoryRepo,
		dispatcher:  deps.Dispatcher,
	}
}

// Create submits a new request for the caller. The request row and its
// attachment rows are written atomically.
func (s *RequestService) Create(ctx context.Context, owner *domain.User, input RequestCreateInput) (*domain.Request, []domain.Attachment, error) {
	request := &domain.Request{
		RequestKey:       generateRequestKey(),
		UserID:           owner.ID,
		Department:       strings.TrimSpace(input.Department),
		PainPoint:        strings.TrimSpace(input.PainPoint),
		CurrentWorkflow:  strings.TrimSpace(input.CurrentWorkflow),
		ExpectedTechHelp: strings.TrimSpace(input.ExpectedTechHelp),
		RequestType:      input.RequestType,
		Status:           domain.RequestStatusPendingReview,
	}

	attachments := make([]domain.Attachment, 0, len(input.Attachments))
	for _, att := range input.Attachments {
		attachments = append(attachments, domain.Attachment{
			FileName:   att.FileName,
			MimeType:   att.MimeType,
			SizeBytes:  att.SizeBytes,
			StorageKey: att.StorageKey,
			URL:        att.URL,
		})
	}

	if err := s.requests.Create(ctx, request, attachments); err != nil {
		return nil, nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventRequestCreated,
		RequestID: request.ID,
		Actor:     actorFor(owner),
		Payload: events.RequestCreatedPayload{
			RequestKey:  request.RequestKey,
			Department:  request.Department,
			RequestType: request.RequestType,
			Attachments: len(attachments),
		},
	})
	return request, attachments, nil
}

// ListForUser returns the caller's own requests.
func (s *RequestService) ListForUser(ctx context.Context, userID string, filter RequestListFilter) ([]domain.Request, error) {
	repoFilter := repository.RequestFilter{
		UserID:   &userID,
		Statuses: filter.Statuses,
		Limit:    filter.Limit,
		Offset:   filter.Offset,
	}
	return s.requests.ListWithFilter(ctx, repoFilter)
}

// ListForAdmin returns requests across all users with triage filters.
func (s *RequestService) ListForAdmin(ctx context.Context, filter RequestListFilter) ([]domain.Request, error) {
	repoFilter := repository.RequestFilter{
		Department: filter.Department,
		Statuses:   filter.Statuses,
		SearchTerm: filter.SearchTerm,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}
	return s.requests.ListWithFilter(ctx, repoFilter)
}

// GetDetail fetches a request with attachments and history, enforcing that
// only the owner or an admin may read it.
func (s *RequestService) GetDetail(ctx context.Context, caller *domain.User, requestID string) (*RequestDetail, error) {
	request, err := s.authorizedRequest(ctx, caller, requestID)
	if err != nil {
		return nil, err
	}

	attachments, err := s.attachments.ListByRequest(ctx, request.ID)
	if err != nil {
		return nil, err
	}
	history, err := s.history.ListByRequest(ctx, request.ID)
	if err != nil {
		return nil, err
	}
	return &RequestDetail{Request: request, Attachments: attachments, History: history}, nil
}

// AddComment appends to a request's thread. Owner or admin only.
func (s *RequestService) AddComment(ctx context.Context, caller *domain.User, requestID, content string) (*domain.Comment, error) {
	request, err := s.authorizedRequest(ctx, caller, requestID)
	if err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		RequestID: request.ID,
		AuthorID:  caller.ID,
		Content:   strings.TrimSpace(content),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventRequestCommentAdded,
		RequestID: request.ID,
		Actor:     actorFor(caller),
		Payload: events.RequestCommentAddedPayload{
			CommentID:      comment.ID,
			AuthorID:       comment.AuthorID,
			ContentPreview: stringPreview(comment.Content, 120),
		},
	})
	return comment, nil
}

// ListComments returns a request's thread newest-first. Owner or admin only.
func (s *RequestService) ListComments(ctx context.Context, caller *domain.User, requestID string, limit, offset int) ([]domain.Comment, error) {
	request, err := s.authorizedRequest(ctx, caller, requestID)
	if err != nil {
		return nil, err
	}
	return s.comments.ListByRequest(ctx, request.ID, limit, offset)
}

// UpdateStatus moves a request through the workflow. Admin only; the
// transition must be legal, and the status row plus one history entry are
// written in the same transaction.
func (s *RequestService) UpdateStatus(ctx context.Context, admin *domain.User, requestID string, toStatus domain.RequestStatus, note string) (*domain.Request, error) {
	if !admin.IsAdmin() {
		return nil, apperrors.NewForbidden("administrator role required")
	}
	if !domain.ValidRequestStatus(toStatus) {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": string(toStatus)})
	}

	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransition(request.Status, toStatus) {
		return nil, apperrors.NewValidationError("illegal status transition", map[string]any{
			"from": string(request.Status),
			"to":   string(toStatus),
		})
	}

	fromStatus := request.Status
	request.Status = toStatus

	entry := &domain.StatusHistory{
		RequestID:  request.ID,
		FromStatus: fromStatus,
		ToStatus:   toStatus,
		ChangedBy:  admin.ID,
	}
	if trimmed := strings.TrimSpace(note); trimmed != "" {
		entry.Note = &trimmed
	}

	if err := s.requests.UpdateStatus(ctx, request, entry); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventRequestStatusChanged,
		RequestID: request.ID,
		Actor:     actorFor(admin),
		Payload: events.RequestStatusChangedPayload{
			FromStatus: fromStatus,
			ToStatus:   toStatus,
			Note:       strings.TrimSpace(note),
		},
	})
	return request, nil
}

func (s *RequestService) authorizedRequest(ctx context.Context, caller *domain.User, requestID string) (*domain.Request, error) {
	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.UserID != caller.ID && !caller.IsAdmin() {
		return nil, apperrors.NewForbidden("access denied")
	}
	return request, nil
}

func (s *RequestService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func actorFor(user *domain.User) events.Actor {
	return events.Actor{UserID: user.ID, Role: user.Role}
}

func generateRequestKey() string {
	return "REQ-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
