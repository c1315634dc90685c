package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/request-tracker/internal/domain"
)

// RequestFilter captures listing parameters.
type RequestFilter struct {
	UserID     *string
	Department *string
	Statuses   []domain.RequestStatus
	SearchTerm *string
	Limit      int
	Offset     int
}

// RequestRepository encapsulates request persistence. Creation with
// attachments and status updates with history entries are atomic.
type RequestRepository interface {
	Create(ctx context.Context, request *domain.Request, attachments []domain.Attachment) error
	GetByID(ctx context.Context, id string) (*domain.Request, error)
	ListWithFilter(ctx context.Context, filter RequestFilter) ([]domain.Request, error)
	UpdateStatus(ctx context.Context, request *domain.Request, entry *domain.StatusHistory) error
}

type requestRepository struct {
	pool *pgxpool.Pool
}

// NewRequestRepository instantiates repository.
func NewRequestRepository(pool *pgxpool.Pool) RequestRepository {
	return &requestRepository{pool: pool}
}

func (r *requestRepository) Create(ctx context.Context, request *domain.Request, attachments []domain.Attachment) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const insertRequest = `
        INSERT INTO requests (request_key, user_id, department, pain_point, current_workflow, expected_tech_help, request_type, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`
	if err := tx.QueryRow(ctx, insertRequest,
		request.RequestKey,
		request.UserID,
		request.Department,
		request.PainPoint,
		request.CurrentWorkflow,
		request.ExpectedTechHelp,
		request.RequestType,
		request.Status,
	).Scan(&request.ID, &request.CreatedAt, &request.UpdatedAt); err != nil {
		return err
	}

	const insertAttachment = `
        INSERT INTO attachments (request_id, file_name, mime_type, size_bytes, storage_key, url)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at`
	for i := range attachments {
		attachments[i].RequestID = request.ID
		if err := tx.QueryRow(ctx, insertAttachment,
			attachments[i].RequestID,
			attachments[i].FileName,
			attachments[i].MimeType,
			attachments[i].SizeBytes,
			attachments[i].StorageKey,
			attachments[i].URL,
		).Scan(&attachments[i].ID, &attachments[i].CreatedAt); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *requestRepository) GetByID(ctx context.Context, id string) (*domain.Request, error) {
	const query = requestSelect + ` WHERE id=$1`
	var request domain.Request
	if err := r.pool.QueryRow(ctx, query, id).Scan(requestFields(&request)...); err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *requestRepository) ListWithFilter(ctx context.Context, filter RequestFilter) ([]domain.Request, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		clauses = append(clauses, fmt.Sprintf("user_id=$%d", len(args)))
	}
	if filter.Department != nil {
		args = append(args, *filter.Department)
		clauses = append(clauses, fmt.Sprintf("department=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(pain_point) LIKE %s OR LOWER(expected_tech_help) LIKE %s)", placeholder, placeholder))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		requestSelect, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRequests(rows)
}

// UpdateStatus writes the new status and its history entry in one transaction
// so the request row never disagrees with the latest audit entry.
func (r *requestRepository) UpdateStatus(ctx context.Context, request *domain.Request, entry *domain.StatusHistory) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const updateRequest = `UPDATE requests SET status=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := tx.Exec(ctx, updateRequest, request.Status, request.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	const insertHistory = `
        INSERT INTO status_history (request_id, from_status, to_status, note, changed_by)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	if err := tx.QueryRow(ctx, insertHistory,
		entry.RequestID,
		entry.FromStatus,
		entry.ToStatus,
		entry.Note,
		entry.ChangedBy,
	).Scan(&entry.ID, &entry.CreatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

const requestSelect = `
        SELECT id, request_key, user_id, department, pain_point, current_workflow, expected_tech_help,
               request_type, status, created_at, updated_at
        FROM requests`

func requestFields(request *domain.Request) []any {
	return []any{
		&request.ID,
		&request.RequestKey,
		&request.UserID,
		&request.Department,
		&request.PainPoint,
		&request.CurrentWorkflow,
		&request.ExpectedTechHelp,
		&request.RequestType,
		&request.Status,
		&request.CreatedAt,
		&request.UpdatedAt,
	}
}

func scanRequests(rows pgx.Rows) ([]domain.Request, error) {
	var result []domain.Request
	for rows.Next() {
		var request domain.Request
		if err := rows.Scan(requestFields(&request)...); err != nil {
			return nil, err
		}
		result = append(result, request)
	}
	return result, rows.Err()
}
