package service

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/request-tracker/internal/domain"
	"github.com/spec-kit/request-tracker/internal/repository"
)

// fakeUserRepo is an in-memory repository.UserRepository.
type fakeUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	user.ID = "user-" + strconv.Itoa(r.seq)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	user.UpdatedAt = time.Now()
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

// fakeRequestRepo backs request, attachment and history lookups from the same
// maps, mirroring the transactional writes of the real repository.
type fakeRequestRepo struct {
	mu          sync.Mutex
	seq         int
	requests    map[string]*domain.Request
	attachments map[string][]domain.Attachment
	history     map[string][]domain.StatusHistory
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{
		requests:    make(map[string]*domain.Request),
		attachments: make(map[string][]domain.Attachment),
		history:     make(map[string][]domain.StatusHistory),
	}
}

func (r *fakeRequestRepo) Create(_ context.Context, request *domain.Request, attachments []domain.Attachment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	request.ID = "req-" + strconv.Itoa(r.seq)
	request.CreatedAt = time.Now()
	request.UpdatedAt = request.CreatedAt
	clone := *request
	r.requests[request.ID] = &clone

	for i := range attachments {
		attachments[i].ID = "att-" + strconv.Itoa(r.seq) + "-" + strconv.Itoa(i)
		attachments[i].RequestID = request.ID
		attachments[i].CreatedAt = request.CreatedAt
	}
	r.attachments[request.ID] = append([]domain.Attachment{}, attachments...)
	return nil
}

func (r *fakeRequestRepo) GetByID(_ context.Context, id string) (*domain.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	request, ok := r.requests[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *request
	return &clone, nil
}

func (r *fakeRequestRepo) ListWithFilter(_ context.Context, filter repository.RequestFilter) ([]domain.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Request
	for _, request := range r.requests {
		if filter.UserID != nil && request.UserID != *filter.UserID {
			continue
		}
		if filter.Department != nil && request.Department != *filter.Department {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, request.Status) {
			continue
		}
		result = append(result, *request)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *fakeRequestRepo) UpdateStatus(_ context.Context, request *domain.Request, entry *domain.StatusHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.requests[request.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.Status = request.Status
	stored.UpdatedAt = time.Now()

	entry.ID = "hist-" + strconv.Itoa(len(r.history[request.ID])+1)
	entry.CreatedAt = time.Now()
	r.history[request.ID] = append(r.history[request.ID], *entry)
	return nil
}

func (r *fakeRequestRepo) historyFor(requestID string) []domain.StatusHistory {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.StatusHistory{}, r.history[requestID]...)
}

func containsStatus(statuses []domain.RequestStatus, status domain.RequestStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

type fakeAttachmentRepo struct {
	requests *fakeRequestRepo
}

func (r *fakeAttachmentRepo) ListByRequest(_ context.Context, requestID string) ([]domain.Attachment, error) {
	r.requests.mu.Lock()
	defer r.requests.mu.Unlock()
	return append([]domain.Attachment{}, r.requests.attachments[requestID]...), nil
}

type fakeHistoryRepo struct {
	requests *fakeRequestRepo
}

func (r *fakeHistoryRepo) ListByRequest(_ context.Context, requestID string) ([]domain.StatusHistory, error) {
	return r.requests.historyFor(requestID), nil
}

type fakeCommentRepo struct {
	mu       sync.Mutex
	seq      int
	comments map[string][]domain.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[string][]domain.Comment)}
}

func (r *fakeCommentRepo) Create(_ context.Context, comment *domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	comment.ID = "comment-" + strconv.Itoa(r.seq)
	comment.CreatedAt = time.Now()
	r.comments[comment.RequestID] = append(r.comments[comment.RequestID], *comment)
	return nil
}

func (r *fakeCommentRepo) ListByRequest(_ context.Context, requestID string, limit, offset int) ([]domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	thread := append([]domain.Comment{}, r.comments[requestID]...)
	// newest first
	sort.Slice(thread, func(i, j int) bool {
		return thread[i].CreatedAt.After(thread[j].CreatedAt)
	})
	if offset >= len(thread) {
		return nil, nil
	}
	thread = thread[offset:]
	if limit > 0 && limit < len(thread) {
		thread = thread[:limit]
	}
	return thread, nil
}

type fakeStatsRepo struct {
	byStatus      map[domain.RequestStatus]int64
	requestsSince map[int]int64
	commentsSince map[int]int64
	users         int64
}

func (r *fakeStatsRepo) CountRequestsByStatus(_ context.Context) (map[domain.RequestStatus]int64, error) {
	return r.byStatus, nil
}

func (r *fakeStatsRepo) CountRequestsSince(_ context.Context, since time.Time) (int64, error) {
	return r.requestsSince[daysAgo(since)], nil
}

func (r *fakeStatsRepo) CountCommentsSince(_ context.Context, since time.Time) (int64, error) {
	return r.commentsSince[daysAgo(since)], nil
}

func (r *fakeStatsRepo) CountUsers(_ context.Context) (int64, error) {
	return r.users, nil
}

func daysAgo(since time.Time) int {
	return int(time.Since(since).Round(24*time.Hour) / (24 * time.Hour))
}
