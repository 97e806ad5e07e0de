package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhservicos/orcamentos/orcamentos-backend/internal/domain"
	"github.com/jhservicos/orcamentos/orcamentos-backend/internal/util"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// recentBudgetsLimit is how many budgets the dashboard lists
const recentBudgetsLimit = 5

// DashboardService aggregates a user's budgets for the dashboard
type DashboardService struct {
	budgetRepo domain.BudgetRepository
	now        func() time.Time
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(budgetRepo domain.BudgetRepository) *DashboardService {
	return &DashboardService{budgetRepo: budgetRepo, now: time.Now}
}

// GetSummary returns the dashboard summary for the current month
func (s *DashboardService) GetSummary(ctx context.Context, userID uuid.UUID) (*domain.DashboardSummary, error) {
	budgets, err := s.budgetRepo.ListByUser(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to load budgets for dashboard")
		return nil, err
	}
	return Summarize(budgets, s.now()), nil
}

// Summarize computes the dashboard figures from budgets sorted newest first
func Summarize(budgets []*domain.Budget, now time.Time) *domain.DashboardSummary {
	statuses := []domain.BudgetStatus{
		domain.BudgetStatusPending,
		domain.BudgetStatusApproved,
		domain.BudgetStatusRejected,
	}
	byStatus := make(map[domain.BudgetStatus]*domain.StatusSummary, len(statuses))
	for _, st := range statuses {
		byStatus[st] = &domain.StatusSummary{Status: st, Value: decimal.Zero}
	}

	months := util.LastMonths(now, domain.DashboardMonths)
	monthly := make(map[string]*domain.MonthlyTotal, len(months))
	for _, m := range months {
		monthly[m] = &domain.MonthlyTotal{Month: m, Value: decimal.Zero, Approved: decimal.Zero}
	}

	summary := &domain.DashboardSummary{
		TotalValue:   decimal.Zero,
		ApprovalRate: decimal.Zero,
	}

	for _, b := range budgets {
		summary.TotalBudgets++
		summary.TotalValue = summary.TotalValue.Add(b.TotalCost)

		if st, ok := byStatus[b.Status]; ok {
			st.Count++
			st.Value = st.Value.Add(b.TotalCost)
		}

		if mt, ok := monthly[util.MonthKey(b.CreatedAt.In(now.Location()))]; ok {
			mt.Count++
			mt.Value = mt.Value.Add(b.TotalCost)
			if b.Status == domain.BudgetStatusApproved {
				mt.Approved = mt.Approved.Add(b.TotalCost)
			}
		}
	}

	// Approval rate only counts decided budgets
	approved := byStatus[domain.BudgetStatusApproved].Count
	decided := approved + byStatus[domain.BudgetStatusRejected].Count
	if decided > 0 {
		summary.ApprovalRate = decimal.NewFromInt(int64(approved)).
			Div(decimal.NewFromInt(int64(decided))).
			Mul(decimal.NewFromInt(100)).
			Round(1)
	}

	summary.ByStatus = make([]domain.StatusSummary, 0, len(statuses))
	for _, st := range statuses {
		summary.ByStatus = append(summary.ByStatus, *byStatus[st])
	}

	summary.Monthly = make([]domain.MonthlyTotal, 0, len(months))
	for _, m := range months {
		summary.Monthly = append(summary.Monthly, *monthly[m])
	}

	limit := recentBudgetsLimit
	if len(budgets) < limit {
		limit = len(budgets)
	}
	summary.RecentBudgets = append(make([]*domain.Budget, 0, limit), budgets[:limit]...)

	return summary
}
