package domain

import "github.com/shopspring/decimal"

// DashboardMonths is how many calendar months the monthly chart covers
const DashboardMonths = 6

// StatusSummary aggregates budgets sharing a status
type StatusSummary struct {
	Status BudgetStatus    `json:"status"`
	Count  int             `json:"count"`
	Value  decimal.Decimal `json:"value"`
}

// MonthlyTotal aggregates budgets created in one calendar month (YYYY-MM)
type MonthlyTotal struct {
	Month    string          `json:"month"`
	Count    int             `json:"count"`
	Value    decimal.Decimal `json:"value"`
	Approved decimal.Decimal `json:"approved"`
}

// DashboardSummary contains the budget overview shown on the dashboard
type DashboardSummary struct {
	TotalBudgets  int             `json:"totalBudgets"`
	TotalValue    decimal.Decimal `json:"totalValue"`
	ApprovalRate  decimal.Decimal `json:"approvalRate"`
	ByStatus      []StatusSummary `json:"byStatus"`
	Monthly       []MonthlyTotal  `json:"monthly"`
	RecentBudgets []*Budget       `json:"recentBudgets"`
}
