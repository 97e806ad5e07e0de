package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrBudgetNotFound      = errors.New("budget not found")
	ErrInvalidBudgetStatus = errors.New("invalid budget status")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrBudgetNotEditable   = errors.New("budget can only be edited while pending")
	ErrPDFNotArchived      = errors.New("budget has no archived PDF")
)

// BudgetDateLayout is the wire and storage format of Budget.Date
const BudgetDateLayout = "2006-01-02"

// Amounts are stored as NUMERIC(14, 2). Quantities and prices carry at most two
// decimal places and line totals are rounded to cents before summing.
const (
	AmountPlaces = 2

	// amounts outside these bounds are rejected before any arithmetic
	minAmountExponent = -18
	maxAmountDigits   = 18
)

var (
	MaxQuantity   = decimal.NewFromInt(1_000_000)
	MaxUnitAmount = decimal.NewFromInt(1_000_000_000)
	MaxTotalCost  = decimal.RequireFromString("999999999999.99")
)

// BudgetStatus is the lifecycle state of a budget
type BudgetStatus string

const (
	BudgetStatusPending  BudgetStatus = "pending"
	BudgetStatusApproved BudgetStatus = "approved"
	BudgetStatusRejected BudgetStatus = "rejected"
)

// ParseBudgetStatus converts a raw status string, rejecting unknown values
func ParseBudgetStatus(s string) (BudgetStatus, error) {
	switch status := BudgetStatus(strings.ToLower(strings.TrimSpace(s))); status {
	case BudgetStatusPending, BudgetStatusApproved, BudgetStatusRejected:
		return status, nil
	default:
		return "", ErrInvalidBudgetStatus
	}
}

// IsTerminal reports whether no further status change is allowed
func (s BudgetStatus) IsTerminal() bool {
	return s == BudgetStatusApproved || s == BudgetStatusRejected
}

// CanTransition reports whether a budget may move from one status to another.
// Only pending budgets can be approved or rejected.
func CanTransition(from, to BudgetStatus) bool {
	if from != BudgetStatusPending {
		return false
	}
	return to == BudgetStatusApproved || to == BudgetStatusRejected
}

// LineItem is a named quantity x unit price entry of a budget
type LineItem struct {
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Total     decimal.Decimal `json:"total"`
}

// Budget is a quotation for a client, owned by a single user
type Budget struct {
	ID              int32           `json:"id"`
	UserID          uuid.UUID       `json:"userId"`
	ClientName      string          `json:"clientName"`
	ClientAddress   string          `json:"clientAddress"`
	ClientCity      string          `json:"clientCity"`
	ClientContact   string          `json:"clientContact"`
	WorkLocation    string          `json:"workLocation"`
	ServiceType     string          `json:"serviceType"`
	Date            time.Time       `json:"date"`
	Services        []LineItem      `json:"services"`
	Materials       []LineItem      `json:"materials"`
	LaborCost       decimal.Decimal `json:"laborCost"`
	TotalCost       decimal.Decimal `json:"totalCost"`
	Status          BudgetStatus    `json:"status"`
	StatusUpdatedAt *time.Time      `json:"statusUpdatedAt,omitempty"`
	PDFURL          *string         `json:"pdfUrl,omitempty"`
	PDFGeneratedAt  *time.Time      `json:"pdfGeneratedAt,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// FieldError describes a single invalid input field
type FieldError struct {
	Field   string
	Message string
}

// ValidationErrors collects field errors. It matches ErrInvalidInput with errors.Is.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, fe := range v {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// Is makes errors.Is(err, ErrInvalidInput) hold for ValidationErrors
func (v ValidationErrors) Is(target error) bool {
	return target == ErrInvalidInput
}

// Validate checks a single line item; prefix is used to build field paths
func (item LineItem) Validate(prefix string) ValidationErrors {
	var errs ValidationErrors
	if strings.TrimSpace(item.Name) == "" {
		errs = append(errs, FieldError{Field: prefix + ".name", Message: "Name is required"})
	} else if len(item.Name) > MaxTextFieldLength {
		errs = append(errs, FieldError{Field: prefix + ".name", Message: "Name must be 255 characters or less"})
	}
	if msg := checkAmount(item.Quantity, MaxQuantity); msg != "" {
		errs = append(errs, FieldError{Field: prefix + ".quantity", Message: "Quantity " + msg})
	}
	if msg := checkAmount(item.UnitPrice, MaxUnitAmount); msg != "" {
		errs = append(errs, FieldError{Field: prefix + ".unitPrice", Message: "Unit price " + msg})
	}
	return errs
}

// checkAmount returns what is wrong with d as a quantity or money value, or ""
func checkAmount(d, limit decimal.Decimal) string {
	if d.IsNegative() {
		return "must be zero or greater"
	}
	if d.IsZero() {
		return ""
	}
	// GreaterThan and Truncate rescale, so bound the exponent first
	if d.Exponent() < minAmountExponent {
		return fmt.Sprintf("must have at most %d decimal places", AmountPlaces)
	}
	if d.NumDigits()+int(d.Exponent()) > maxAmountDigits || d.GreaterThan(limit) {
		return "must be at most " + limit.String()
	}
	if !d.Equal(d.Truncate(AmountPlaces)) {
		return fmt.Sprintf("must have at most %d decimal places", AmountPlaces)
	}
	return ""
}

// Validate checks every client-supplied field of the budget
func (b *Budget) Validate() error {
	var errs ValidationErrors

	required := []struct {
		field string
		value string
	}{
		{"clientName", b.ClientName},
		{"clientAddress", b.ClientAddress},
		{"clientCity", b.ClientCity},
		{"clientContact", b.ClientContact},
		{"workLocation", b.WorkLocation},
		{"serviceType", b.ServiceType},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, FieldError{Field: r.field, Message: "This field is required"})
		} else if len(r.value) > MaxTextFieldLength {
			errs = append(errs, FieldError{Field: r.field, Message: "Must be 255 characters or less"})
		}
	}

	if b.Date.IsZero() {
		errs = append(errs, FieldError{Field: "date", Message: "Date is required"})
	}
	if msg := checkAmount(b.LaborCost, MaxUnitAmount); msg != "" {
		errs = append(errs, FieldError{Field: "laborCost", Message: "Labor cost " + msg})
	}
	for i, item := range b.Services {
		errs = append(errs, item.Validate(fmt.Sprintf("services[%d]", i))...)
	}
	for i, item := range b.Materials {
		errs = append(errs, item.Validate(fmt.Sprintf("materials[%d]", i))...)
	}

	if len(errs) > 0 {
		return errs
	}

	if _, _, total := CalculateTotals(b.Services, b.Materials, b.LaborCost); total.GreaterThan(MaxTotalCost) {
		return ValidationErrors{{Field: "totalCost", Message: "Total cost must be at most " + MaxTotalCost.String()}}
	}
	return nil
}

// CalculateTotals returns copies of services and materials with each total set
// to quantity x unit price rounded to cents, and the grand total including labor.
func CalculateTotals(services, materials []LineItem, laborCost decimal.Decimal) ([]LineItem, []LineItem, decimal.Decimal) {
	grand := laborCost

	withTotals := func(items []LineItem) []LineItem {
		out := make([]LineItem, len(items))
		for i, item := range items {
			item.Name = strings.TrimSpace(item.Name)
			item.Total = item.Quantity.Mul(item.UnitPrice).Round(AmountPlaces)
			grand = grand.Add(item.Total)
			out[i] = item
		}
		return out
	}

	s := withTotals(services)
	m := withTotals(materials)
	return s, m, grand
}

// Recalculate overwrites the line totals and TotalCost from the line items
func (b *Budget) Recalculate() {
	b.Services, b.Materials, b.TotalCost = CalculateTotals(b.Services, b.Materials, b.LaborCost)
}

// IsEditable reports whether a full edit is still allowed
func (b *Budget) IsEditable() bool {
	return b.Status == BudgetStatusPending
}

// BudgetRepository defines persistence for budgets. Every method is scoped to the owner;
// a budget owned by another user is reported as ErrBudgetNotFound.
type BudgetRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Budget, error)
	GetByID(ctx context.Context, userID uuid.UUID, id int32) (*Budget, error)
	Create(ctx context.Context, budget *Budget) (*Budget, error)
	Update(ctx context.Context, budget *Budget) (*Budget, error)
	UpdateStatus(ctx context.Context, userID uuid.UUID, id int32, status BudgetStatus) (*Budget, error)
	MarkPDFGenerated(ctx context.Context, userID uuid.UUID, id int32, pdfURL *string) (*Budget, error)
	Delete(ctx context.Context, userID uuid.UUID, id int32) error
}
