package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhservicos/orcamentos/orcamentos-backend/internal/domain"
)

// BudgetRepository implements domain.BudgetRepository using PostgreSQL
type BudgetRepository struct {
	pool *pgxpool.Pool
}

// NewBudgetRepository creates a new BudgetRepository
func NewBudgetRepository(pool *pgxpool.Pool) *BudgetRepository {
	return &BudgetRepository{pool: pool}
}

const budgetColumns = `id, user_id, client_name, client_address, client_city, client_contact,
	work_location, service_type, date, services, materials, labor_cost, total_cost,
	status, status_updated_at, pdf_url, pdf_generated_at, created_at, updated_at`

// ListByUser retrieves all budgets of a user, newest first
func (r *BudgetRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Budget, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+budgetColumns+` FROM budgets
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC`,
		pgUUID(userID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*domain.Budget, 0)
	for rows.Next() {
		budget, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, budget)
	}
	return result, rows.Err()
}

// GetByID retrieves a budget by ID for its owner
func (r *BudgetRepository) GetByID(ctx context.Context, userID uuid.UUID, id int32) (*domain.Budget, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+budgetColumns+` FROM budgets WHERE user_id = $1 AND id = $2`,
		pgUUID(userID), id)
	return scanBudgetRow(row)
}

// Create inserts a new pending budget
func (r *BudgetRepository) Create(ctx context.Context, budget *domain.Budget) (*domain.Budget, error) {
	params, err := budgetParamsFromDomain(budget)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(ctx,
		`INSERT INTO budgets (user_id, client_name, client_address, client_city, client_contact,
			work_location, service_type, date, services, materials, labor_cost, total_cost, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, 'pending')
		 RETURNING `+budgetColumns,
		pgUUID(budget.UserID),
		budget.ClientName,
		budget.ClientAddress,
		budget.ClientCity,
		budget.ClientContact,
		budget.WorkLocation,
		budget.ServiceType,
		params.date,
		params.services,
		params.materials,
		params.laborCost,
		params.totalCost,
	)
	return scanBudgetRow(row)
}

// Update replaces the editable fields of a budget. The row is only touched while the
// budget is still pending; otherwise ErrBudgetNotFound is returned and the caller
// decides between not-found and not-editable.
func (r *BudgetRepository) Update(ctx context.Context, budget *domain.Budget) (*domain.Budget, error) {
	params, err := budgetParamsFromDomain(budget)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(ctx,
		`UPDATE budgets SET
			client_name = $3, client_address = $4, client_city = $5, client_contact = $6,
			work_location = $7, service_type = $8, date = $9, services = $10, materials = $11,
			labor_cost = $12, total_cost = $13, updated_at = NOW()
		 WHERE user_id = $1 AND id = $2 AND status = 'pending'
		 RETURNING `+budgetColumns,
		pgUUID(budget.UserID),
		budget.ID,
		budget.ClientName,
		budget.ClientAddress,
		budget.ClientCity,
		budget.ClientContact,
		budget.WorkLocation,
		budget.ServiceType,
		params.date,
		params.services,
		params.materials,
		params.laborCost,
		params.totalCost,
	)
	return scanBudgetRow(row)
}

// UpdateStatus moves a pending budget to a new status and stamps status_updated_at.
// Budgets that are missing or no longer pending yield ErrBudgetNotFound.
func (r *BudgetRepository) UpdateStatus(ctx context.Context, userID uuid.UUID, id int32, status domain.BudgetStatus) (*domain.Budget, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE budgets SET status = $3, status_updated_at = NOW(), updated_at = NOW()
		 WHERE user_id = $1 AND id = $2 AND status = 'pending'
		 RETURNING `+budgetColumns,
		pgUUID(userID), id, string(status))
	return scanBudgetRow(row)
}

// MarkPDFGenerated records that a PDF was produced. pdfURL keeps the previous value when nil.
func (r *BudgetRepository) MarkPDFGenerated(ctx context.Context, userID uuid.UUID, id int32, pdfURL *string) (*domain.Budget, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE budgets SET pdf_url = COALESCE($3, pdf_url), pdf_generated_at = NOW()
		 WHERE user_id = $1 AND id = $2
		 RETURNING `+budgetColumns,
		pgUUID(userID), id, stringPtrToPgText(pdfURL))
	return scanBudgetRow(row)
}

// Delete removes a budget
func (r *BudgetRepository) Delete(ctx context.Context, userID uuid.UUID, id int32) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM budgets WHERE user_id = $1 AND id = $2`,
		pgUUID(userID), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBudgetNotFound
	}
	return nil
}

type budgetParams struct {
	date      pgtype.Date
	services  []byte
	materials []byte
	laborCost pgtype.Numeric
	totalCost pgtype.Numeric
}

func budgetParamsFromDomain(b *domain.Budget) (budgetParams, error) {
	var p budgetParams
	var err error

	p.date = pgDate(b.Date)
	if p.services, err = marshalLineItems(b.Services); err != nil {
		return p, fmt.Errorf("encode services: %w", err)
	}
	if p.materials, err = marshalLineItems(b.Materials); err != nil {
		return p, fmt.Errorf("encode materials: %w", err)
	}
	if p.laborCost, err = decimalToPgNumeric(b.LaborCost); err != nil {
		return p, err
	}
	if p.totalCost, err = decimalToPgNumeric(b.TotalCost); err != nil {
		return p, err
	}
	return p, nil
}

func marshalLineItems(items []domain.LineItem) ([]byte, error) {
	if items == nil {
		items = []domain.LineItem{}
	}
	return json.Marshal(items)
}

func unmarshalLineItems(raw []byte) ([]domain.LineItem, error) {
	items := make([]domain.LineItem, 0)
	if len(raw) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func scanBudgetRow(row pgx.Row) (*domain.Budget, error) {
	budget, err := scanBudget(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrBudgetNotFound
		}
		return nil, err
	}
	return budget, nil
}

func scanBudget(row pgx.Row) (*domain.Budget, error) {
	var (
		b               domain.Budget
		id              int32
		userID          pgtype.UUID
		date            pgtype.Date
		services        []byte
		materials       []byte
		laborCost       pgtype.Numeric
		totalCost       pgtype.Numeric
		status          string
		statusUpdatedAt pgtype.Timestamptz
		pdfURL          pgtype.Text
		pdfGeneratedAt  pgtype.Timestamptz
		createdAt       time.Time
		updatedAt       time.Time
	)

	err := row.Scan(
		&id, &userID, &b.ClientName, &b.ClientAddress, &b.ClientCity, &b.ClientContact,
		&b.WorkLocation, &b.ServiceType, &date, &services, &materials, &laborCost, &totalCost,
		&status, &statusUpdatedAt, &pdfURL, &pdfGeneratedAt, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.ID = id
	b.UserID = pgUUIDToUUID(userID)
	b.Date = date.Time
	if b.Services, err = unmarshalLineItems(services); err != nil {
		return nil, fmt.Errorf("decode services of budget %d: %w", id, err)
	}
	if b.Materials, err = unmarshalLineItems(materials); err != nil {
		return nil, fmt.Errorf("decode materials of budget %d: %w", id, err)
	}
	b.LaborCost = pgNumericToDecimal(laborCost)
	b.TotalCost = pgNumericToDecimal(totalCost)
	b.Status = domain.BudgetStatus(status)
	b.StatusUpdatedAt = pgTimestamptzToTimePtr(statusUpdatedAt)
	b.PDFURL = pgTextToStringPtr(pdfURL)
	b.PDFGeneratedAt = pgTimestamptzToTimePtr(pdfGeneratedAt)
	b.CreatedAt = createdAt
	b.UpdatedAt = updatedAt
	return &b, nil
}
