package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jhservicos/orcamentos/orcamentos-backend/internal/domain"
	"github.com/jhservicos/orcamentos/orcamentos-backend/internal/pdf"
	"github.com/jhservicos/orcamentos/orcamentos-backend/internal/repository/storage"
	"github.com/jhservicos/orcamentos/orcamentos-backend/internal/websocket"
	"github.com/rs/zerolog/log"
)

// PDFRenderer turns a budget into a PDF document
type PDFRenderer interface {
	Render(budget *domain.Budget) ([]byte, error)
}

// ExportResult is a rendered budget document
type ExportResult struct {
	FileName string
	Content  []byte
	Budget   *domain.Budget
	Archived bool
}

// PDFLink is a temporary download link for an archived document
type PDFLink struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ExportService renders budgets as PDFs and archives them when storage is configured
type ExportService struct {
	budgets        domain.BudgetRepository
	renderer       PDFRenderer
	documents      storage.DocumentStorage
	urlExpiry      time.Duration
	eventPublisher websocket.EventPublisher
	now            func() time.Time
}

// NewExportService creates a new ExportService. documents may be nil.
func NewExportService(budgets domain.BudgetRepository, renderer PDFRenderer, documents storage.DocumentStorage, urlExpiry time.Duration) *ExportService {
	return &ExportService{
		budgets:   budgets,
		renderer:  renderer,
		documents: documents,
		urlExpiry: urlExpiry,
		now:       time.Now,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *ExportService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// ArchiveEnabled reports whether generated documents are kept in storage
func (s *ExportService) ArchiveEnabled() bool {
	return s != nil && s.documents != nil
}

// ExportPDF renders the budget, archives the document when possible and records
// the generation time. An archive failure does not prevent the download.
func (s *ExportService) ExportPDF(ctx context.Context, userID uuid.UUID, id int32) (*ExportResult, error) {
	budget, err := s.budgets.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	content, err := s.renderer.Render(budget)
	if err != nil {
		if !errors.Is(err, domain.ErrPDFValidation) {
			log.Error().Err(err).Int32("budget_id", id).Msg("Failed to render budget PDF")
		}
		return nil, err
	}

	var archiveKey *string
	if s.ArchiveEnabled() {
		key := storage.BudgetPDFKey(userID, id, s.now())
		if err := s.documents.Upload(ctx, key, content, storage.PDFContentType); err != nil {
			log.Error().Err(err).Int32("budget_id", id).Str("key", key).Msg("Failed to archive budget PDF")
		} else {
			archiveKey = &key
		}
	}

	marked, err := s.budgets.MarkPDFGenerated(ctx, userID, id, archiveKey)
	if err != nil {
		log.Error().Err(err).Int32("budget_id", id).Msg("Failed to record PDF generation")
		return nil, err
	}

	// The new archive replaces the previous one
	if archiveKey != nil && budget.PDFURL != nil && *budget.PDFURL != *archiveKey {
		if err := s.documents.Delete(ctx, *budget.PDFURL); err != nil {
			log.Warn().Err(err).Str("key", *budget.PDFURL).Msg("Failed to delete superseded PDF")
		}
	}

	log.Info().
		Int32("budget_id", id).
		Int("bytes", len(content)).
		Bool("archived", archiveKey != nil).
		Msg("Budget PDF generated")

	s.publishEvent(userID, websocket.BudgetPDFGenerated(map[string]interface{}{
		"id":             id,
		"pdfGeneratedAt": marked.PDFGeneratedAt,
		"archived":       archiveKey != nil,
	}))

	return &ExportResult{
		FileName: pdf.FileName(id),
		Content:  content,
		Budget:   marked,
		Archived: archiveKey != nil,
	}, nil
}

// PDFURL returns a presigned link to the last archived document of a budget
func (s *ExportService) PDFURL(ctx context.Context, userID uuid.UUID, id int32) (*PDFLink, error) {
	if !s.ArchiveEnabled() {
		return nil, domain.ErrStorageMissing
	}

	budget, err := s.budgets.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if budget.PDFURL == nil {
		return nil, domain.ErrPDFNotArchived
	}

	url, err := s.documents.GeneratePresignedURL(ctx, *budget.PDFURL, s.urlExpiry)
	if err != nil {
		log.Error().Err(err).Int32("budget_id", id).Msg("Failed to presign PDF URL")
		return nil, err
	}

	return &PDFLink{URL: url, ExpiresAt: s.now().Add(s.urlExpiry).UTC()}, nil
}

func (s *ExportService) publishEvent(userID uuid.UUID, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(userID, event)
	}
}
