package handler

import (
	"net/http"

	"github.com/jhservicos/orcamentos/orcamentos-backend/internal/domain"
	"github.com/jhservicos/orcamentos/orcamentos-backend/internal/middleware"
	"github.com/jhservicos/orcamentos/orcamentos-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// DashboardHandler handles dashboard-related HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// StatusSummaryResponse represents the budgets of one status
type StatusSummaryResponse struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
	Value  string `json:"value"`
}

// MonthlyTotalResponse represents one month of the chart
type MonthlyTotalResponse struct {
	Month    string `json:"month"`
	Count    int    `json:"count"`
	Value    string `json:"value"`
	Approved string `json:"approved"`
}

// DashboardSummaryResponse represents the dashboard summary API response
type DashboardSummaryResponse struct {
	TotalBudgets  int                     `json:"totalBudgets"`
	TotalValue    string                  `json:"totalValue"`
	ApprovalRate  string                  `json:"approvalRate"`
	ByStatus      []StatusSummaryResponse `json:"byStatus"`
	Monthly       []MonthlyTotalResponse  `json:"monthly"`
	RecentBudgets []BudgetResponse        `json:"recentBudgets"`
}

func toDashboardResponse(s *domain.DashboardSummary) DashboardSummaryResponse {
	resp := DashboardSummaryResponse{
		TotalBudgets:  s.TotalBudgets,
		TotalValue:    s.TotalValue.StringFixed(2),
		ApprovalRate:  s.ApprovalRate.StringFixed(1),
		ByStatus:      make([]StatusSummaryResponse, len(s.ByStatus)),
		Monthly:       make([]MonthlyTotalResponse, len(s.Monthly)),
		RecentBudgets: make([]BudgetResponse, len(s.RecentBudgets)),
	}
	for i, st := range s.ByStatus {
		resp.ByStatus[i] = StatusSummaryResponse{
			Status: string(st.Status),
			Count:  st.Count,
			Value:  st.Value.StringFixed(2),
		}
	}
	for i, m := range s.Monthly {
		resp.Monthly[i] = MonthlyTotalResponse{
			Month:    m.Month,
			Count:    m.Count,
			Value:    m.Value.StringFixed(2),
			Approved: m.Approved.StringFixed(2),
		}
	}
	for i, b := range s.RecentBudgets {
		resp.RecentBudgets[i] = toBudgetResponse(b)
	}
	return resp
}

// GetSummary godoc
// @Summary Dashboard summary
// @Description Counts and value per status plus totals for the last 6 months
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} DashboardSummaryResponse
// @Failure 401 {object} ProblemDetails
// @Router /dashboard/summary [get]
func (h *DashboardHandler) GetSummary(c echo.Context) error {
	userID := middleware.GetUserID(c)

	summary, err := h.dashboardService.GetSummary(c.Request().Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get dashboard summary")
		return NewInternalError(c, "Failed to get dashboard summary")
	}

	return c.JSON(http.StatusOK, toDashboardResponse(summary))
}
