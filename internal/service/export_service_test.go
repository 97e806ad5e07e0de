package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jhservicos/orcamentos/orcamentos-backend/internal/domain"
	"github.com/jhservicos/orcamentos/orcamentos-backend/internal/pdf"
	"github.com/jhservicos/orcamentos/orcamentos-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRenderer struct {
	content []byte
	err     error
	calls   int
}

func (r *stubRenderer) Render(b *domain.Budget) ([]byte, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return r.content, nil
}

func storedBudget(repo *testutil.MockBudgetRepository, userID uuid.UUID) *domain.Budget {
	b := sampleInput().toBudget(userID)
	b.Recalculate()
	return repo.AddBudget(b)
}

func TestExportService_ExportPDF_WithoutStorage(t *testing.T) {
	repo := testutil.NewMockBudgetRepository()
	userID := uuid.New()
	b := storedBudget(repo, userID)
	renderer := &stubRenderer{content: []byte("%PDF-1.3 stub")}

	svc := NewExportService(repo, renderer, nil, time.Hour)
	result, err := svc.ExportPDF(context.Background(), userID, b.ID)
	require.NoError(t, err)

	assert.Equal(t, pdf.FileName(b.ID), result.FileName)
	assert.Equal(t, renderer.content, result.Content)
	assert.False(t, result.Archived)
	assert.NotNil(t, result.Budget.PDFGeneratedAt)
	assert.Nil(t, result.Budget.PDFURL)
	assert.False(t, svc.ArchiveEnabled())
}

func TestExportService_ExportPDF_Archives(t *testing.T) {
	repo := testutil.NewMockBudgetRepository()
	docs := testutil.NewMockDocumentStorage()
	publisher := &testutil.MockEventPublisher{}
	userID := uuid.New()
	b := storedBudget(repo, userID)

	svc := NewExportService(repo, &stubRenderer{content: []byte("%PDF-1.3 stub")}, docs, time.Hour)
	svc.SetEventPublisher(publisher)
	svc.now = func() time.Time { return time.Unix(1760000000, 0) }

	result, err := svc.ExportPDF(context.Background(), userID, b.ID)
	require.NoError(t, err)
	assert.True(t, result.Archived)

	keys := docs.Keys()
	require.Len(t, keys, 1)
	assert.True(t, strings.HasPrefix(keys[0], "budgets/"+userID.String()+"/"))
	assert.True(t, strings.HasSuffix(keys[0], "_1760000000.pdf"))
	require.NotNil(t, result.Budget.PDFURL)
	assert.Equal(t, keys[0], *result.Budget.PDFURL)

	assert.Equal(t, []string{"budget.pdf_generated"}, publisher.Types())
}

func TestExportService_ExportPDF_ReplacesPreviousArchive(t *testing.T) {
	repo := testutil.NewMockBudgetRepository()
	docs := testutil.NewMockDocumentStorage()
	userID := uuid.New()
	b := storedBudget(repo, userID)

	svc := NewExportService(repo, &stubRenderer{content: []byte("%PDF-")}, docs, time.Hour)

	svc.now = func() time.Time { return time.Unix(1000, 0) }
	_, err := svc.ExportPDF(context.Background(), userID, b.ID)
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Unix(2000, 0) }
	second, err := svc.ExportPDF(context.Background(), userID, b.ID)
	require.NoError(t, err)

	keys := docs.Keys()
	require.Len(t, keys, 1)
	assert.Equal(t, *second.Budget.PDFURL, keys[0])
	assert.Len(t, docs.Deleted, 1)
}

func TestExportService_ExportPDF_UploadFailureStillDownloads(t *testing.T) {
	repo := testutil.NewMockBudgetRepository()
	docs := testutil.NewMockDocumentStorage()
	docs.UploadErr = errors.New("bucket unavailable")
	userID := uuid.New()
	b := storedBudget(repo, userID)

	svc := NewExportService(repo, &stubRenderer{content: []byte("%PDF-")}, docs, time.Hour)
	result, err := svc.ExportPDF(context.Background(), userID, b.ID)
	require.NoError(t, err)

	assert.False(t, result.Archived)
	assert.NotNil(t, result.Budget.PDFGeneratedAt)
	assert.Nil(t, result.Budget.PDFURL)
}

func TestExportService_ExportPDF_Errors(t *testing.T) {
	repo := testutil.NewMockBudgetRepository()
	userID := uuid.New()
	b := storedBudget(repo, userID)

	t.Run("other user", func(t *testing.T) {
		renderer := &stubRenderer{content: []byte("%PDF-")}
		svc := NewExportService(repo, renderer, nil, time.Hour)
		_, err := svc.ExportPDF(context.Background(), uuid.New(), b.ID)
		assert.ErrorIs(t, err, domain.ErrBudgetNotFound)
		assert.Equal(t, 0, renderer.calls)
	})

	t.Run("render validation", func(t *testing.T) {
		renderer := &stubRenderer{err: domain.ErrPDFValidation}
		svc := NewExportService(repo, renderer, nil, time.Hour)
		_, err := svc.ExportPDF(context.Background(), userID, b.ID)
		assert.ErrorIs(t, err, domain.ErrPDFValidation)

		current, getErr := repo.GetByID(context.Background(), userID, b.ID)
		require.NoError(t, getErr)
		assert.Nil(t, current.PDFGeneratedAt)
	})
}

func TestExportService_ExportPDF_RealRenderer(t *testing.T) {
	repo := testutil.NewMockBudgetRepository()
	userID := uuid.New()
	b := storedBudget(repo, userID)

	renderer, err := pdf.NewRenderer(pdf.Brand{Name: "JH Serviços"}, nil)
	require.NoError(t, err)

	result, err := NewExportService(repo, renderer, nil, time.Hour).ExportPDF(context.Background(), userID, b.ID)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(result.Content, []byte("%PDF-")))
}

func TestExportService_PDFURL(t *testing.T) {
	repo := testutil.NewMockBudgetRepository()
	docs := testutil.NewMockDocumentStorage()
	userID := uuid.New()
	b := storedBudget(repo, userID)
	renderer := &stubRenderer{content: []byte("%PDF-")}

	t.Run("storage not configured", func(t *testing.T) {
		_, err := NewExportService(repo, renderer, nil, time.Hour).PDFURL(context.Background(), userID, b.ID)
		assert.ErrorIs(t, err, domain.ErrStorageMissing)
	})

	svc := NewExportService(repo, renderer, docs, 15*time.Minute)
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	t.Run("not archived yet", func(t *testing.T) {
		_, err := svc.PDFURL(context.Background(), userID, b.ID)
		assert.ErrorIs(t, err, domain.ErrPDFNotArchived)
	})

	t.Run("other user", func(t *testing.T) {
		_, err := svc.PDFURL(context.Background(), uuid.New(), b.ID)
		assert.ErrorIs(t, err, domain.ErrBudgetNotFound)
	})

	t.Run("archived", func(t *testing.T) {
		_, err := svc.ExportPDF(context.Background(), userID, b.ID)
		require.NoError(t, err)

		link, err := svc.PDFURL(context.Background(), userID, b.ID)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(link.URL, "https://storage.test/budgets/"))
		assert.True(t, strings.HasSuffix(link.URL, "?expires=900"))
		assert.Equal(t, now.Add(15*time.Minute), link.ExpiresAt)
	})

	t.Run("presign failure", func(t *testing.T) {
		docs.PresignErr = errors.New("signer down")
		defer func() { docs.PresignErr = nil }()
		_, err := svc.PDFURL(context.Background(), userID, b.ID)
		assert.Error(t, err)
	})
}
