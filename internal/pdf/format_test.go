package pdf

import (
	"testing"
	"time"

	"github.com/jhservicos/orcamentos/orcamentos-backend/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatBRL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "R$ 0,00"},
		{"5", "R$ 5,00"},
		{"300", "R$ 300,00"},
		{"1234.56", "R$ 1.234,56"},
		{"1234567.8", "R$ 1.234.567,80"},
		{"999.999", "R$ 1.000,00"},
		{"-12.5", "-R$ 12,50"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatBRL(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestFormatQuantity(t *testing.T) {
	assert.Equal(t, "2", formatQuantity(decimal.RequireFromString("2.00")))
	assert.Equal(t, "1,5", formatQuantity(decimal.RequireFromString("1.5")))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "05/03/2026", formatDate(time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)))
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "PENDENTE", statusLabel(domain.BudgetStatusPending))
	assert.Equal(t, "APROVADO", statusLabel(domain.BudgetStatusApproved))
	assert.Equal(t, "REJEITADO", statusLabel(domain.BudgetStatusRejected))
}
