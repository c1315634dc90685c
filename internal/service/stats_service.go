package service

import (
	"context"
	"time"

	"github.com/spec-kit/request-tracker/internal/domain"
	"github.com/spec-kit/request-tracker/internal/repository"
)

// StatsOverview aggregates the admin dashboard numbers.
type StatsOverview struct {
	RequestsByStatus   map[domain.RequestStatus]int64
	TotalRequests      int64
	RequestsLast7Days  int64
	RequestsLast30Days int64
	CommentsLast7Days  int64
	CommentsLast30Days int64
	TotalUsers         int64
}

// StatsService computes aggregate counts. Queries run directly against the
// database on every call; nothing is cached or precomputed.
type StatsService struct {
	stats repository.StatsRepository
}

// NewStatsService constructs the service.
func NewStatsService(stats repository.StatsRepository) *StatsService {
	return &StatsService{stats: stats}
}

// Overview gathers request counts by status plus 7/30-day activity windows.
func (s *StatsService) Overview(ctx context.Context) (*StatsOverview, error) {
	byStatus, err := s.stats.CountRequestsByStatus(ctx)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, count := range byStatus {
		total += count
	}

	now := time.Now()
	overview := &StatsOverview{
		RequestsByStatus: byStatus,
		TotalRequests:    total,
	}

	if overview.RequestsLast7Days, err = s.stats.CountRequestsSince(ctx, now.AddDate(0, 0, -7)); err != nil {
		return nil, err
	}
	if overview.RequestsLast30Days, err = s.stats.CountRequestsSince(ctx, now.AddDate(0, 0, -30)); err != nil {
		return nil, err
	}
	if overview.CommentsLast7Days, err = s.stats.CountCommentsSince(ctx, now.AddDate(0, 0, -7)); err != nil {
		return nil, err
	}
	if overview.CommentsLast30Days, err = s.stats.CountCommentsSince(ctx, now.AddDate(0, 0, -30)); err != nil {
		return nil, err
	}
	if overview.TotalUsers, err = s.stats.CountUsers(ctx); err != nil {
		return nil, err
	}

	return overview, nil
}
