package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/request-tracker/internal/domain"
	"github.com/spec-kit/request-tracker/internal/events"
	apperrors "github.com/spec-kit/request-tracker/pkg/util"
)

type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) byType(eventType events.EventType) []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	var result []events.Event
	for _, event := range d.events {
		if event.Type == eventType {
			result = append(result, event)
		}
	}
	return result
}

func newTestRequestService() (*RequestService, *fakeRequestRepo, *fakeCommentRepo, *recordingDispatcher) {
	requests := newFakeRequestRepo()
	comments := newFakeCommentRepo()
	dispatcher := &recordingDispatcher{}
	svc := NewRequestService(RequestDependencies{
		RequestRepo:    requests,
		CommentRepo:    comments,
		AttachmentRepo: &fakeAttachmentRepo{requests: requests},
		HistoryRepo:    &fakeHistoryRepo{requests: requests},
		Dispatcher:     dispatcher,
	})
	return svc, requests, comments, dispatcher
}

func testUser(id string) *domain.User {
	return &domain.User{ID: id, Username: "u-" + id, Role: domain.RoleUser, Status: domain.UserStatusActive}
}

func testAdmin(id string) *domain.User {
	return &domain.User{ID: id, Username: "a-" + id, Role: domain.RoleAdmin, Status: domain.UserStatusActive}
}

func createRequest(t *testing.T, svc *RequestService, owner *domain.User) *domain.Request {
	t.Helper()
	request, _, err := svc.Create(context.Background(), owner, RequestCreateInput{
		Department:       "ER",
		PainPoint:        "need dosing calc tool for ICU",
		CurrentWorkflow:  "manual calculation on paper",
		ExpectedTechHelp: "a web calculator",
		RequestType:      domain.RequestTypeCalculator,
	})
	require.NoError(t, err)
	return request
}

func TestRequestServiceCreate(t *testing.T) {
	svc, _, _, dispatcher := newTestRequestService()
	owner := testUser("1")

	request, attachments, err := svc.Create(context.Background(), owner, RequestCreateInput{
		Department:       "ER",
		PainPoint:        "  need dosing calc tool for ICU  ",
		CurrentWorkflow:  "manual calculation",
		ExpectedTechHelp: "a web calculator",
		RequestType:      domain.RequestTypeCalculator,
		Attachments: []AttachmentInput{
			{FileName: "workflow.pdf", MimeType: "application/pdf", SizeBytes: 1024, StorageKey: "abc.pdf", URL: "https://files/abc.pdf"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.RequestStatusPendingReview, request.Status)
	assert.Equal(t, owner.ID, request.UserID)
	assert.Equal(t, "need dosing calc tool for ICU", request.PainPoint)
	assert.True(t, strings.HasPrefix(request.RequestKey, "REQ-"))
	assert.Len(t, request.RequestKey, 12)

	require.Len(t, attachments, 1)
	assert.Equal(t, request.ID, attachments[0].RequestID)
	assert.NotEmpty(t, attachments[0].ID)

	published := dispatcher.byType(events.EventRequestCreated)
	require.Len(t, published, 1)
	assert.Equal(t, request.ID, published[0].RequestID)
	assert.Equal(t, owner.ID, published[0].Actor.UserID)
}

func TestRequestServiceRequestKeysUnique(t *testing.T) {
	svc, _, _, _ := newTestRequestService()
	owner := testUser("1")

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		request := createRequest(t, svc, owner)
		assert.False(t, seen[request.RequestKey], "duplicate key %s", request.RequestKey)
		seen[request.RequestKey] = true
	}
}

func TestRequestServiceGetDetailAuthorization(t *testing.T) {
	svc, _, _, _ := newTestRequestService()
	owner := testUser("1")
	stranger := testUser("2")
	admin := testAdmin("3")
	request := createRequest(t, svc, owner)

	detail, err := svc.GetDetail(context.Background(), owner, request.ID)
	require.NoError(t, err)
	assert.Equal(t, request.ID, detail.Request.ID)

	_, err = svc.GetDetail(context.Background(), stranger, request.ID)
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, 403, domainErr.HTTPStatus)

	_, err = svc.GetDetail(context.Background(), admin, request.ID)
	assert.NoError(t, err)
}

func TestRequestServiceGetDetailNotFound(t *testing.T) {
	svc, _, _, _ := newTestRequestService()

	_, err := svc.GetDetail(context.Background(), testUser("1"), "missing")
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, 404, domainErr.HTTPStatus)
}

func TestRequestServiceListForUserScopedToOwner(t *testing.T) {
	svc, _, _, _ := newTestRequestService()
	first := testUser("1")
	second := testUser("2")
	createRequest(t, svc, first)
	createRequest(t, svc, first)
	createRequest(t, svc, second)

	mine, err := svc.ListForUser(context.Background(), first.ID, RequestListFilter{})
	require.NoError(t, err)
	assert.Len(t, mine, 2)
	for _, request := range mine {
		assert.Equal(t, first.ID, request.UserID)
	}

	all, err := svc.ListForAdmin(context.Background(), RequestListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRequestServiceComments(t *testing.T) {
	svc, _, _, dispatcher := newTestRequestService()
	owner := testUser("1")
	stranger := testUser("2")
	request := createRequest(t, svc, owner)

	comment, err := svc.AddComment(context.Background(), owner, request.ID, "  any update on this?  ")
	require.NoError(t, err)
	assert.Equal(t, "any update on this?", comment.Content)
	assert.Equal(t, owner.ID, comment.AuthorID)

	_, err = svc.AddComment(context.Background(), stranger, request.ID, "let me in")
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, 403, domainErr.HTTPStatus)

	thread, err := svc.ListComments(context.Background(), owner, request.ID, 50, 0)
	require.NoError(t, err)
	require.Len(t, thread, 1)
	assert.Equal(t, comment.ID, thread[0].ID)

	assert.Len(t, dispatcher.byType(events.EventRequestCommentAdded), 1)
}

func TestRequestServiceUpdateStatus(t *testing.T) {
	svc, requests, _, dispatcher := newTestRequestService()
	owner := testUser("1")
	admin := testAdmin("2")
	request := createRequest(t, svc, owner)

	updated, err := svc.UpdateStatus(context.Background(), admin, request.ID, domain.RequestStatusUnderConsideration, "looks promising")
	require.NoError(t, err)
	assert.Equal(t, domain.RequestStatusUnderConsideration, updated.Status)

	history := requests.historyFor(request.ID)
	require.Len(t, history, 1)
	assert.Equal(t, domain.RequestStatusPendingReview, history[0].FromStatus)
	assert.Equal(t, domain.RequestStatusUnderConsideration, history[0].ToStatus)
	assert.Equal(t, admin.ID, history[0].ChangedBy)
	require.NotNil(t, history[0].Note)
	assert.Equal(t, "looks promising", *history[0].Note)

	// stored status always matches the latest history entry
	stored, err := requests.GetByID(context.Background(), request.ID)
	require.NoError(t, err)
	assert.Equal(t, history[len(history)-1].ToStatus, stored.Status)

	assert.Len(t, dispatcher.byType(events.EventRequestStatusChanged), 1)
}

func TestRequestServiceUpdateStatusBlankNoteOmitted(t *testing.T) {
	svc, requests, _, _ := newTestRequestService()
	admin := testAdmin("2")
	request := createRequest(t, svc, testUser("1"))

	_, err := svc.UpdateStatus(context.Background(), admin, request.ID, domain.RequestStatusUnderConsideration, "   ")
	require.NoError(t, err)

	history := requests.historyFor(request.ID)
	require.Len(t, history, 1)
	assert.Nil(t, history[0].Note)
}

func TestRequestServiceUpdateStatusRejections(t *testing.T) {
	svc, requests, _, _ := newTestRequestService()
	owner := testUser("1")
	admin := testAdmin("2")
	request := createRequest(t, svc, owner)

	tests := []struct {
		name       string
		caller     *domain.User
		toStatus   domain.RequestStatus
		wantStatus int
	}{
		{"non-admin caller", owner, domain.RequestStatusUnderConsideration, 403},
		{"unknown status", admin, domain.RequestStatus("ARCHIVED"), 400},
		{"illegal transition", admin, domain.RequestStatusCompleted, 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdateStatus(context.Background(), tt.caller, request.ID, tt.toStatus, "")
			require.Error(t, err)

			var domainErr *apperrors.DomainError
			require.True(t, errors.As(err, &domainErr))
			assert.Equal(t, tt.wantStatus, domainErr.HTTPStatus)
		})
	}

	// rejected updates must not leave history entries behind
	assert.Empty(t, requests.historyFor(request.ID))
}

func TestRequestServiceFullWorkflow(t *testing.T) {
	svc, requests, _, _ := newTestRequestService()
	admin := testAdmin("2")
	request := createRequest(t, svc, testUser("1"))

	steps := []domain.RequestStatus{
		domain.RequestStatusUnderConsideration,
		domain.RequestStatusInDevelopment,
		domain.RequestStatusInTesting,
		domain.RequestStatusCompleted,
	}
	for _, next := range steps {
		_, err := svc.UpdateStatus(context.Background(), admin, request.ID, next, "")
		require.NoError(t, err, "transition to %s", next)
	}

	history := requests.historyFor(request.ID)
	require.Len(t, history, len(steps))
	for i, entry := range history {
		assert.Equal(t, steps[i], entry.ToStatus)
	}

	_, err := svc.UpdateStatus(context.Background(), admin, request.ID, domain.RequestStatusBeyondCapacity, "")
	require.Error(t, err)
}
