package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/request-tracker/internal/api/dto"
	"github.com/spec-kit/request-tracker/internal/auth"
	"github.com/spec-kit/request-tracker/internal/service"
	"github.com/spec-kit/request-tracker/internal/validate"
	apperrors "github.com/spec-kit/request-tracker/pkg/util"
)

// AdminHandler exposes triage endpoints for administrators. Role enforcement
// happens in the route group middleware.
type AdminHandler struct {
	requests *service.RequestService
	stats    *service.StatsService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(requestService *service.RequestService, statsService *service.StatsService) *AdminHandler {
	return &AdminHandler{requests: requestService, stats: statsService}
}

// UpdateStatus handles PATCH /api/admin/requests/:id/status.
func (h *AdminHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validate.Struct(req); err != nil {
		return err
	}

	request, err := h.requests.UpdateStatus(c.Context(), principal.User, c.Params("id"), req.Status, req.Note)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    dto.NewRequestSummary(request),
	})
}

// ListRequests handles GET /api/admin/requests.
func (h *AdminHandler) ListRequests(c *fiber.Ctx) error {
	requests, err := h.requests.ListForAdmin(c.Context(), parseListFilter(c))
	if err != nil {
		return err
	}
	items := make([]dto.RequestSummary, 0, len(requests))
	for i := range requests {
		items = append(items, dto.NewRequestSummary(&requests[i]))
	}
	return c.JSON(fiber.Map{"success": true, "data": items})
}

// Stats handles GET /api/admin/stats.
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	overview, err := h.stats.Overview(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data": dto.StatsResponse{
			RequestsByStatus:   overview.RequestsByStatus,
			TotalRequests:      overview.TotalRequests,
			RequestsLast7Days:  overview.RequestsLast7Days,
			RequestsLast30Days: overview.RequestsLast30Days,
			CommentsLast7Days:  overview.CommentsLast7Days,
			CommentsLast30Days: overview.CommentsLast30Days,
			TotalUsers:         overview.TotalUsers,
		},
	})
}
