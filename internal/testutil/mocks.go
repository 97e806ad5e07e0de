package testutil

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jhservicos/orcamentos/orcamentos-backend/internal/domain"
	"github.com/jhservicos/orcamentos/orcamentos-backend/internal/websocket"
)

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	ByID       map[uuid.UUID]*domain.User
	ByUsername map[string]*domain.User
	CreateFn   func(user *domain.User) (*domain.User, error)
	mu         sync.Mutex
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		ByID:       make(map[uuid.UUID]*domain.User),
		ByUsername: make(map[string]*domain.User),
	}
}

// GetByID retrieves a user by ID
func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.ByID[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetByUsername retrieves a user by username
func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.ByUsername[username]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// Create creates a new user, enforcing username uniqueness
func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if m.CreateFn != nil {
		return m.CreateFn(user)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, taken := m.ByUsername[user.Username]; taken {
		return nil, domain.ErrUsernameTaken
	}
	created := *user
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	m.ByID[created.ID] = &created
	m.ByUsername[created.Username] = &created
	return &created, nil
}

// AddUser adds a user to the mock repository (helper for tests)
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ByID[user.ID] = user
	m.ByUsername[user.Username] = user
}

// MockBudgetRepository is an in-memory domain.BudgetRepository that mirrors the
// owner scoping, the pending-only conditional updates and the NUMERIC(14, 2)
// money columns of the SQL implementation
type MockBudgetRepository struct {
	Budgets map[int32]*domain.Budget
	NextID  int32

	ListFn         func(userID uuid.UUID) ([]*domain.Budget, error)
	GetByIDFn      func(userID uuid.UUID, id int32) (*domain.Budget, error)
	CreateFn       func(budget *domain.Budget) (*domain.Budget, error)
	UpdateFn       func(budget *domain.Budget) (*domain.Budget, error)
	UpdateStatusFn func(userID uuid.UUID, id int32, status domain.BudgetStatus) (*domain.Budget, error)
	DeleteFn       func(userID uuid.UUID, id int32) error

	mu sync.Mutex
}

// NewMockBudgetRepository creates a new MockBudgetRepository
func NewMockBudgetRepository() *MockBudgetRepository {
	return &MockBudgetRepository{
		Budgets: make(map[int32]*domain.Budget),
		NextID:  1,
	}
}

func cloneBudget(b *domain.Budget) *domain.Budget {
	c := *b
	c.Services = append([]domain.LineItem{}, b.Services...)
	c.Materials = append([]domain.LineItem{}, b.Materials...)
	return &c
}

// storeMoney rounds the money columns the way NUMERIC(14, 2) does on insert
func storeMoney(b *domain.Budget) {
	b.LaborCost = b.LaborCost.Round(domain.AmountPlaces)
	b.TotalCost = b.TotalCost.Round(domain.AmountPlaces)
}

// ListByUser returns the user's budgets, newest first
func (m *MockBudgetRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Budget, error) {
	if m.ListFn != nil {
		return m.ListFn(userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]*domain.Budget, 0)
	for _, b := range m.Budgets {
		if b.UserID == userID {
			result = append(result, cloneBudget(b))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// GetByID retrieves a budget owned by userID
func (m *MockBudgetRepository) GetByID(ctx context.Context, userID uuid.UUID, id int32) (*domain.Budget, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(userID, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.Budgets[id]; ok && b.UserID == userID {
		return cloneBudget(b), nil
	}
	return nil, domain.ErrBudgetNotFound
}

// Create stores a new pending budget
func (m *MockBudgetRepository) Create(ctx context.Context, budget *domain.Budget) (*domain.Budget, error) {
	if m.CreateFn != nil {
		return m.CreateFn(budget)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	b := cloneBudget(budget)
	storeMoney(b)
	b.ID = m.NextID
	m.NextID++
	b.Status = domain.BudgetStatusPending
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	m.Budgets[b.ID] = b
	return cloneBudget(b), nil
}

// Update replaces the editable fields of a pending budget
func (m *MockBudgetRepository) Update(ctx context.Context, budget *domain.Budget) (*domain.Budget, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(budget)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.Budgets[budget.ID]
	if !ok || existing.UserID != budget.UserID || existing.Status != domain.BudgetStatusPending {
		return nil, domain.ErrBudgetNotFound
	}
	b := cloneBudget(budget)
	storeMoney(b)
	b.Status = existing.Status
	b.StatusUpdatedAt = existing.StatusUpdatedAt
	b.PDFURL = existing.PDFURL
	b.PDFGeneratedAt = existing.PDFGeneratedAt
	b.CreatedAt = existing.CreatedAt
	b.UpdatedAt = time.Now()
	m.Budgets[b.ID] = b
	return cloneBudget(b), nil
}

// UpdateStatus moves a pending budget to status
func (m *MockBudgetRepository) UpdateStatus(ctx context.Context, userID uuid.UUID, id int32, status domain.BudgetStatus) (*domain.Budget, error) {
	if m.UpdateStatusFn != nil {
		return m.UpdateStatusFn(userID, id, status)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.Budgets[id]
	if !ok || b.UserID != userID || b.Status != domain.BudgetStatusPending {
		return nil, domain.ErrBudgetNotFound
	}
	now := time.Now()
	b.Status = status
	b.StatusUpdatedAt = &now
	b.UpdatedAt = now
	return cloneBudget(b), nil
}

// MarkPDFGenerated stamps pdf_generated_at and optionally the archive key
func (m *MockBudgetRepository) MarkPDFGenerated(ctx context.Context, userID uuid.UUID, id int32, pdfURL *string) (*domain.Budget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.Budgets[id]
	if !ok || b.UserID != userID {
		return nil, domain.ErrBudgetNotFound
	}
	now := time.Now()
	b.PDFGeneratedAt = &now
	if pdfURL != nil {
		key := *pdfURL
		b.PDFURL = &key
	}
	return cloneBudget(b), nil
}

// Delete removes a budget owned by userID
func (m *MockBudgetRepository) Delete(ctx context.Context, userID uuid.UUID, id int32) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(userID, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.Budgets[id]
	if !ok || b.UserID != userID {
		return domain.ErrBudgetNotFound
	}
	delete(m.Budgets, id)
	return nil
}

// AddBudget adds a budget to the mock repository (helper for tests).
// A zero ID is assigned the next sequence value.
func (m *MockBudgetRepository) AddBudget(budget *domain.Budget) *domain.Budget {
	m.mu.Lock()
	defer m.mu.Unlock()
	if budget.ID == 0 {
		budget.ID = m.NextID
	}
	if budget.ID >= m.NextID {
		m.NextID = budget.ID + 1
	}
	if budget.Status == "" {
		budget.Status = domain.BudgetStatusPending
	}
	if budget.CreatedAt.IsZero() {
		budget.CreatedAt = time.Now()
	}
	m.Budgets[budget.ID] = cloneBudget(budget)
	return budget
}

// MockAPITokenRepository is a mock implementation of domain.APITokenRepository
type MockAPITokenRepository struct {
	Tokens    map[string]*domain.APIToken // keyed by hash
	CreateErr error
	mu        sync.Mutex
}

// NewMockAPITokenRepository creates a new MockAPITokenRepository
func NewMockAPITokenRepository() *MockAPITokenRepository {
	return &MockAPITokenRepository{
		Tokens: make(map[string]*domain.APIToken),
	}
}

// Create stores a token
func (m *MockAPITokenRepository) Create(ctx context.Context, token *domain.APIToken) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	token.ID = uuid.New()
	token.CreatedAt = time.Now()
	m.Tokens[token.TokenHash] = token
	return nil
}

// GetByUser lists active tokens of a user
func (m *MockAPITokenRepository) GetByUser(ctx context.Context, userID uuid.UUID) ([]*domain.APIToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*domain.APIToken, 0)
	for _, t := range m.Tokens {
		if t.UserID == userID && t.RevokedAt == nil {
			result = append(result, t)
		}
	}
	return result, nil
}

// GetByID retrieves a token of a user
func (m *MockAPITokenRepository) GetByID(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*domain.APIToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.Tokens {
		if t.ID == id && t.UserID == userID {
			return t, nil
		}
	}
	return nil, domain.ErrAPITokenNotFound
}

// GetByHash retrieves an active token by hash
func (m *MockAPITokenRepository) GetByHash(ctx context.Context, hash string) (*domain.APIToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.Tokens[hash]; ok && t.RevokedAt == nil {
		return t, nil
	}
	return nil, domain.ErrAPITokenNotFound
}

// Revoke marks a token revoked
func (m *MockAPITokenRepository) Revoke(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.Tokens {
		if t.ID == id && t.UserID == userID && t.RevokedAt == nil {
			now := time.Now()
			t.RevokedAt = &now
			return nil
		}
	}
	return domain.ErrAPITokenNotFound
}

// UpdateLastUsed stamps last_used_at
func (m *MockAPITokenRepository) UpdateLastUsed(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.Tokens {
		if t.ID == id {
			now := time.Now()
			t.LastUsedAt = &now
		}
	}
	return nil
}

// MockDocumentStorage is an in-memory storage.DocumentStorage
type MockDocumentStorage struct {
	Objects    map[string][]byte
	UploadErr  error
	PresignErr error
	Deleted    []string
	mu         sync.Mutex
}

// NewMockDocumentStorage creates a new MockDocumentStorage
func NewMockDocumentStorage() *MockDocumentStorage {
	return &MockDocumentStorage{Objects: make(map[string][]byte)}
}

// Upload stores data under key
func (m *MockDocumentStorage) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	if m.UploadErr != nil {
		return m.UploadErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Objects[key] = append([]byte(nil), data...)
	return nil
}

// Delete removes key
func (m *MockDocumentStorage) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Objects, key)
	m.Deleted = append(m.Deleted, key)
	return nil
}

// GeneratePresignedURL returns a fake signed URL for key
func (m *MockDocumentStorage) GeneratePresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if m.PresignErr != nil {
		return "", m.PresignErr
	}
	return fmt.Sprintf("https://storage.test/%s?expires=%d", strings.TrimPrefix(key, "/"), int(expiry.Seconds())), nil
}

// Keys returns the stored object keys
func (m *MockDocumentStorage) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.Objects))
	for k := range m.Objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MockEventPublisher records published websocket events
type MockEventPublisher struct {
	Events []PublishedEvent
	mu     sync.Mutex
}

// PublishedEvent is one recorded Publish call
type PublishedEvent struct {
	UserID uuid.UUID
	Event  websocket.Event
}

// Publish records the event
func (m *MockEventPublisher) Publish(userID uuid.UUID, event websocket.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, PublishedEvent{UserID: userID, Event: event})
}

// Types returns the recorded event types in order
func (m *MockEventPublisher) Types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, len(m.Events))
	for i, e := range m.Events {
		types[i] = e.Event.Type
	}
	return types
}
