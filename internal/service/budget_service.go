package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhservicos/orcamentos/orcamentos-backend/internal/domain"
	"github.com/jhservicos/orcamentos/orcamentos-backend/internal/repository/storage"
	"github.com/jhservicos/orcamentos/orcamentos-backend/internal/websocket"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// BudgetInput holds the client-editable fields of a budget. Totals and status are
// never taken from the client.
type BudgetInput struct {
	ClientName    string
	ClientAddress string
	ClientCity    string
	ClientContact string
	WorkLocation  string
	ServiceType   string
	Date          time.Time
	Services      []domain.LineItem
	Materials     []domain.LineItem
	LaborCost     decimal.Decimal
}

func (in BudgetInput) toBudget(userID uuid.UUID) *domain.Budget {
	b := &domain.Budget{
		UserID:        userID,
		ClientName:    in.ClientName,
		ClientAddress: in.ClientAddress,
		ClientCity:    in.ClientCity,
		ClientContact: in.ClientContact,
		WorkLocation:  in.WorkLocation,
		ServiceType:   in.ServiceType,
		Date:          in.Date,
		Services:      in.Services,
		Materials:     in.Materials,
		LaborCost:     in.LaborCost,
		Status:        domain.BudgetStatusPending,
	}
	trimBudgetText(b)
	return b
}

// BudgetService handles budget business logic
type BudgetService struct {
	repo           domain.BudgetRepository
	documents      storage.DocumentStorage
	eventPublisher websocket.EventPublisher
}

// NewBudgetService creates a new BudgetService. documents may be nil when no archive is configured.
func NewBudgetService(repo domain.BudgetRepository, documents storage.DocumentStorage) *BudgetService {
	return &BudgetService{repo: repo, documents: documents}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *BudgetService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes a WebSocket event if a publisher is configured
func (s *BudgetService) publishEvent(userID uuid.UUID, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(userID, event)
	}
}

// List returns the user's budgets, newest first
func (s *BudgetService) List(ctx context.Context, userID uuid.UUID) ([]*domain.Budget, error) {
	budgets, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list budgets")
		return nil, err
	}
	return budgets, nil
}

// Get returns one budget of the user
func (s *BudgetService) Get(ctx context.Context, userID uuid.UUID, id int32) (*domain.Budget, error) {
	return s.repo.GetByID(ctx, userID, id)
}

// Create validates the input, recomputes all totals and stores a pending budget
func (s *BudgetService) Create(ctx context.Context, userID uuid.UUID, input BudgetInput) (*domain.Budget, error) {
	budget := input.toBudget(userID)
	if err := budget.Validate(); err != nil {
		return nil, err
	}
	budget.Recalculate()

	created, err := s.repo.Create(ctx, budget)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to create budget")
		return nil, err
	}

	log.Info().
		Str("user_id", userID.String()).
		Int32("budget_id", created.ID).
		Str("total_cost", created.TotalCost.StringFixed(2)).
		Msg("Budget created")

	s.publishEvent(userID, websocket.BudgetCreated(created))
	return created, nil
}

// Update replaces the editable fields of a pending budget and recomputes its totals
func (s *BudgetService) Update(ctx context.Context, userID uuid.UUID, id int32, input BudgetInput) (*domain.Budget, error) {
	budget := input.toBudget(userID)
	budget.ID = id
	if err := budget.Validate(); err != nil {
		return nil, err
	}
	budget.Recalculate()

	updated, err := s.repo.Update(ctx, budget)
	if err != nil {
		if errors.Is(err, domain.ErrBudgetNotFound) {
			return nil, s.explainMiss(ctx, userID, id, domain.ErrBudgetNotEditable)
		}
		log.Error().Err(err).Int32("budget_id", id).Msg("Failed to update budget")
		return nil, err
	}

	log.Info().Int32("budget_id", id).Msg("Budget updated")
	s.publishEvent(userID, websocket.BudgetUpdated(updated))
	return updated, nil
}

// UpdateStatus applies an approve/reject decision. The transition is checked in the
// database with a conditional update, so concurrent decisions cannot both succeed.
func (s *BudgetService) UpdateStatus(ctx context.Context, userID uuid.UUID, id int32, rawStatus string) (*domain.Budget, error) {
	target, err := domain.ParseBudgetStatus(rawStatus)
	if err != nil {
		return nil, err
	}

	// Only pending budgets can move, so a target unreachable from pending is never valid
	if !domain.CanTransition(domain.BudgetStatusPending, target) {
		if _, err := s.repo.GetByID(ctx, userID, id); err != nil {
			return nil, err
		}
		return nil, domain.ErrInvalidTransition
	}

	updated, err := s.repo.UpdateStatus(ctx, userID, id, target)
	if err != nil {
		if errors.Is(err, domain.ErrBudgetNotFound) {
			return nil, s.explainMiss(ctx, userID, id, domain.ErrInvalidTransition)
		}
		log.Error().Err(err).Int32("budget_id", id).Msg("Failed to update budget status")
		return nil, err
	}

	log.Info().
		Int32("budget_id", id).
		Str("status", string(updated.Status)).
		Msg("Budget status changed")

	s.publishEvent(userID, websocket.BudgetStatusChanged(updated))
	return updated, nil
}

// explainMiss distinguishes a conditional update that matched no row because the
// budget is missing from one that matched none because it is no longer pending
func (s *BudgetService) explainMiss(ctx context.Context, userID uuid.UUID, id int32, notPending error) error {
	current, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return err
	}
	log.Debug().
		Int32("budget_id", id).
		Str("status", string(current.Status)).
		Msg("Budget is no longer pending")
	return notPending
}

// Delete removes a budget and, best effort, its archived PDF
func (s *BudgetService) Delete(ctx context.Context, userID uuid.UUID, id int32) error {
	budget, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, userID, id); err != nil {
		if !errors.Is(err, domain.ErrBudgetNotFound) {
			log.Error().Err(err).Int32("budget_id", id).Msg("Failed to delete budget")
		}
		return err
	}

	if s.documents != nil && budget.PDFURL != nil {
		if err := s.documents.Delete(ctx, *budget.PDFURL); err != nil {
			log.Warn().Err(err).Int32("budget_id", id).Str("key", *budget.PDFURL).Msg("Failed to delete archived PDF")
		}
	}

	log.Info().Int32("budget_id", id).Msg("Budget deleted")
	s.publishEvent(userID, websocket.BudgetDeleted(map[string]interface{}{"id": id}))
	return nil
}

func trimBudgetText(b *domain.Budget) {
	for _, f := range []*string{
		&b.ClientName, &b.ClientAddress, &b.ClientCity,
		&b.ClientContact, &b.WorkLocation, &b.ServiceType,
	} {
		*f = strings.TrimSpace(*f)
	}
}
