package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/request-tracker/internal/domain"
)

// StatsRepository computes aggregate counts for the admin dashboard.
type StatsRepository interface {
	CountRequestsByStatus(ctx context.Context) (map[domain.RequestStatus]int64, error)
	CountRequestsSince(ctx context.Context, since time.Time) (int64, error)
	CountCommentsSince(ctx context.Context, since time.Time) (int64, error)
	CountUsers(ctx context.Context) (int64, error)
}

type statsRepository struct {
	pool *pgxpool.Pool
}

// NewStatsRepository builds repository.
func NewStatsRepository(pool *pgxpool.Pool) StatsRepository {
	return &statsRepository{pool: pool}
}

func (r *statsRepository) CountRequestsByStatus(ctx context.Context) (map[domain.RequestStatus]int64, error) {
	const query = `SELECT status, COUNT(*) FROM requests GROUP BY status`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[domain.RequestStatus]int64)
	for rows.Next() {
		var status domain.RequestStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		result[status] = count
	}
	return result, rows.Err()
}

func (r *statsRepository) CountRequestsSince(ctx context.Context, since time.Time) (int64, error) {
	const query = `SELECT COUNT(*) FROM requests WHERE created_at >= $1`
	var count int64
	err := r.pool.QueryRow(ctx, query, since).Scan(&count)
	return count, err
}

func (r *statsRepository) CountCommentsSince(ctx context.Context, since time.Time) (int64, error) {
	const query = `SELECT COUNT(*) FROM comments WHERE created_at >= $1`
	var count int64
	err := r.pool.QueryRow(ctx, query, since).Scan(&count)
	return count, err
}

func (r *statsRepository) CountUsers(ctx context.Context) (int64, error) {
	const query = `SELECT COUNT(*) FROM users`
	var count int64
	err := r.pool.QueryRow(ctx, query).Scan(&count)
	return count, err
}
