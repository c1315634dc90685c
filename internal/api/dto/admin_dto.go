package dto

import "github.com/spec-kit/request-tracker/internal/domain"

// UpdateStatusRequest payload for the admin status endpoint.
type UpdateStatusRequest struct {
	Status domain.RequestStatus `json:"status" validate:"required"`
	Note   string               `json:"note" validate:"omitempty,max=2000"`
}

// StatsResponse aggregates the admin dashboard numbers.
type StatsResponse struct {
	RequestsByStatus   map[domain.RequestStatus]int64 `json:"requests_by_status"`
	TotalRequests      int64                          `json:"total_requests"`
	RequestsLast7Days  int64                          `json:"requests_last_7_days"`
	RequestsLast30Days int64                          `json:"requests_last_30_days"`
	CommentsLast7Days  int64                          `json:"comments_last_7_days"`
	CommentsLast30Days int64                          `json:"comments_last_30_days"`
	TotalUsers         int64                          `json:"total_users"`
}
