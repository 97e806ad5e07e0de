package pdf

import (
	"strings"
	"time"

	"github.com/jhservicos/orcamentos/orcamentos-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// FormatBRL renders an amount the Brazilian way, e.g. "R$ 1.234,56"
func FormatBRL(d decimal.Decimal) string {
	rounded := d.Round(2)
	s := rounded.Abs().StringFixed(2)
	intPart, frac := s[:len(s)-3], s[len(s)-2:]

	var b strings.Builder
	if rounded.IsNegative() {
		b.WriteString("-")
	}
	b.WriteString("R$ ")
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(c)
	}
	b.WriteByte(',')
	b.WriteString(frac)
	return b.String()
}

// formatQuantity prints a quantity without trailing zeros and with a decimal comma
func formatQuantity(d decimal.Decimal) string {
	return strings.Replace(d.String(), ".", ",", 1)
}

func formatDate(t time.Time) string {
	return t.Format("02/01/2006")
}

func statusLabel(s domain.BudgetStatus) string {
	switch s {
	case domain.BudgetStatusApproved:
		return "APROVADO"
	case domain.BudgetStatusRejected:
		return "REJEITADO"
	default:
		return "PENDENTE"
	}
}

type rgb struct{ r, g, b int }

var (
	colorBrand    = rgb{30, 64, 175}
	colorZebra    = rgb{243, 244, 246}
	colorText     = rgb{31, 41, 55}
	colorMuted    = rgb{107, 114, 128}
	colorPending  = rgb{217, 119, 6}
	colorApproved = rgb{22, 163, 74}
	colorRejected = rgb{220, 38, 38}
)

func statusColor(s domain.BudgetStatus) rgb {
	switch s {
	case domain.BudgetStatusApproved:
		return colorApproved
	case domain.BudgetStatusRejected:
		return colorRejected
	default:
		return colorPending
	}
}
