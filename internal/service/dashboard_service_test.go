package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jhservicos/orcamentos/orcamentos-backend/internal/domain"
	"github.com/jhservicos/orcamentos/orcamentos-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func budgetAt(id int32, status domain.BudgetStatus, total string, createdAt time.Time) *domain.Budget {
	return &domain.Budget{ID: id, Status: status, TotalCost: dec(total), CreatedAt: createdAt}
}

func TestSummarize_Empty(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	summary := Summarize(nil, now)

	assert.Equal(t, 0, summary.TotalBudgets)
	assert.True(t, summary.TotalValue.IsZero())
	assert.True(t, summary.ApprovalRate.IsZero())
	require.Len(t, summary.ByStatus, 3)
	require.Len(t, summary.Monthly, domain.DashboardMonths)
	assert.Equal(t, "2026-05", summary.Monthly[0].Month)
	assert.Equal(t, "2026-10", summary.Monthly[5].Month)
	assert.NotNil(t, summary.RecentBudgets)
	assert.Empty(t, summary.RecentBudgets)
}

func TestSummarize_CountsAndValues(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	budgets := []*domain.Budget{
		budgetAt(4, domain.BudgetStatusPending, "100", time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)),
		budgetAt(3, domain.BudgetStatusApproved, "300", time.Date(2026, 10, 2, 0, 0, 0, 0, time.UTC)),
		budgetAt(2, domain.BudgetStatusRejected, "50.50", time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC)),
		budgetAt(1, domain.BudgetStatusApproved, "200", time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)),
	}

	summary := Summarize(budgets, now)

	assert.Equal(t, 4, summary.TotalBudgets)
	assert.True(t, summary.TotalValue.Equal(dec("650.50")), "total value %s", summary.TotalValue)

	byStatus := map[domain.BudgetStatus]domain.StatusSummary{}
	for _, s := range summary.ByStatus {
		byStatus[s.Status] = s
	}
	assert.Equal(t, 1, byStatus[domain.BudgetStatusPending].Count)
	assert.Equal(t, 2, byStatus[domain.BudgetStatusApproved].Count)
	assert.Equal(t, 1, byStatus[domain.BudgetStatusRejected].Count)
	assert.True(t, byStatus[domain.BudgetStatusApproved].Value.Equal(dec("500")))

	// 2 approved out of 3 decided
	assert.True(t, summary.ApprovalRate.Equal(dec("66.7")), "approval rate %s", summary.ApprovalRate)

	october := summary.Monthly[5]
	assert.Equal(t, "2026-10", october.Month)
	assert.Equal(t, 2, october.Count)
	assert.True(t, october.Value.Equal(dec("400")))
	assert.True(t, october.Approved.Equal(dec("300")))

	september := summary.Monthly[4]
	assert.Equal(t, 1, september.Count)
	assert.True(t, september.Approved.IsZero())

	monthlyCount := 0
	for _, m := range summary.Monthly {
		monthlyCount += m.Count
	}
	assert.Equal(t, 3, monthlyCount, "budgets older than the window are left out of the chart")
}

func TestSummarize_RecentLimited(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	var budgets []*domain.Budget
	for i := int32(8); i >= 1; i-- {
		budgets = append(budgets, budgetAt(i, domain.BudgetStatusPending, "10", now.Add(-time.Duration(9-i)*time.Hour)))
	}

	summary := Summarize(budgets, now)

	require.Len(t, summary.RecentBudgets, recentBudgetsLimit)
	assert.Equal(t, int32(8), summary.RecentBudgets[0].ID)
	assert.Equal(t, int32(4), summary.RecentBudgets[4].ID)
}

func TestDashboardService_GetSummary(t *testing.T) {
	repo := testutil.NewMockBudgetRepository()
	userID := uuid.New()
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	repo.AddBudget(&domain.Budget{UserID: userID, Status: domain.BudgetStatusApproved, TotalCost: dec("120"), CreatedAt: now.Add(-time.Hour)})
	repo.AddBudget(&domain.Budget{UserID: uuid.New(), Status: domain.BudgetStatusApproved, TotalCost: dec("999"), CreatedAt: now})

	svc := NewDashboardService(repo)
	svc.now = func() time.Time { return now }

	summary, err := svc.GetSummary(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalBudgets)
	assert.True(t, summary.TotalValue.Equal(dec("120")))
	assert.True(t, summary.ApprovalRate.Equal(dec("100")))
}

func TestDashboardService_GetSummary_RepositoryError(t *testing.T) {
	repo := testutil.NewMockBudgetRepository()
	repo.ListFn = func(userID uuid.UUID) ([]*domain.Budget, error) {
		return nil, errors.New("connection refused")
	}

	_, err := NewDashboardService(repo).GetSummary(context.Background(), uuid.New())
	assert.Error(t, err)
}
