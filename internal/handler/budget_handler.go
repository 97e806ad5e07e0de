package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jhservicos/orcamentos/orcamentos-backend/internal/domain"
	"github.com/jhservicos/orcamentos/orcamentos-backend/internal/middleware"
	"github.com/jhservicos/orcamentos/orcamentos-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// BudgetHandler handles budget-related HTTP requests
type BudgetHandler struct {
	budgetService *service.BudgetService
	exportService *service.ExportService
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(budgetService *service.BudgetService, exportService *service.ExportService) *BudgetHandler {
	return &BudgetHandler{
		budgetService: budgetService,
		exportService: exportService,
	}
}

// LineItemRequest represents a line item in a budget request. A submitted total is
// accepted for client convenience and then recomputed.
type LineItemRequest struct {
	Name      string           `json:"name"`
	Quantity  decimal.Decimal  `json:"quantity"`
	UnitPrice decimal.Decimal  `json:"unitPrice"`
	Total     *decimal.Decimal `json:"total,omitempty"`
}

// BudgetRequest represents the create and update budget request body.
// totalCost and status are accepted but never trusted.
type BudgetRequest struct {
	ClientName    string            `json:"clientName"`
	ClientAddress string            `json:"clientAddress"`
	ClientCity    string            `json:"clientCity"`
	ClientContact string            `json:"clientContact"`
	WorkLocation  string            `json:"workLocation"`
	ServiceType   string            `json:"serviceType"`
	Date          string            `json:"date" example:"2026-10-19"`
	Services      []LineItemRequest `json:"services"`
	Materials     []LineItemRequest `json:"materials"`
	LaborCost     decimal.Decimal   `json:"laborCost"`
	TotalCost     *decimal.Decimal  `json:"totalCost,omitempty"`
	Status        *string           `json:"status,omitempty"`
}

// UpdateStatusRequest represents the status change request body
type UpdateStatusRequest struct {
	Status string `json:"status" enums:"approved,rejected"`
}

// LineItemResponse represents a line item in API responses. Quantity has at most
// two decimals and is printed without trailing zeros, as on the PDF.
type LineItemResponse struct {
	Name      string `json:"name"`
	Quantity  string `json:"quantity"`
	UnitPrice string `json:"unitPrice"`
	Total     string `json:"total"`
}

// BudgetResponse represents a budget in API responses. Money is a string with two decimals.
type BudgetResponse struct {
	ID              int32              `json:"id"`
	ClientName      string             `json:"clientName"`
	ClientAddress   string             `json:"clientAddress"`
	ClientCity      string             `json:"clientCity"`
	ClientContact   string             `json:"clientContact"`
	WorkLocation    string             `json:"workLocation"`
	ServiceType     string             `json:"serviceType"`
	Date            string             `json:"date"`
	Services        []LineItemResponse `json:"services"`
	Materials       []LineItemResponse `json:"materials"`
	LaborCost       string             `json:"laborCost"`
	TotalCost       string             `json:"totalCost"`
	Status          string             `json:"status"`
	StatusUpdatedAt *time.Time         `json:"statusUpdatedAt,omitempty"`
	PDFURL          *string            `json:"pdfUrl,omitempty"`
	PDFGeneratedAt  *time.Time         `json:"pdfGeneratedAt,omitempty"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
}

func (r *BudgetRequest) toInput() (service.BudgetInput, error) {
	input := service.BudgetInput{
		ClientName:    r.ClientName,
		ClientAddress: r.ClientAddress,
		ClientCity:    r.ClientCity,
		ClientContact: r.ClientContact,
		WorkLocation:  r.WorkLocation,
		ServiceType:   r.ServiceType,
		Services:      toLineItems(r.Services),
		Materials:     toLineItems(r.Materials),
		LaborCost:     r.LaborCost,
	}

	if date := strings.TrimSpace(r.Date); date != "" {
		parsed, err := time.Parse(domain.BudgetDateLayout, date)
		if err != nil {
			return input, domain.ValidationErrors{{Field: "date", Message: "Date must be in YYYY-MM-DD format"}}
		}
		input.Date = parsed
	}
	return input, nil
}

func toLineItems(items []LineItemRequest) []domain.LineItem {
	out := make([]domain.LineItem, len(items))
	for i, item := range items {
		out[i] = domain.LineItem{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}
	return out
}

func toLineItemResponses(items []domain.LineItem) []LineItemResponse {
	out := make([]LineItemResponse, len(items))
	for i, item := range items {
		out[i] = LineItemResponse{
			Name:      item.Name,
			Quantity:  item.Quantity.String(),
			UnitPrice: item.UnitPrice.StringFixed(2),
			Total:     item.Total.StringFixed(2),
		}
	}
	return out
}

func toBudgetResponse(b *domain.Budget) BudgetResponse {
	resp := BudgetResponse{
		ID:              b.ID,
		ClientName:      b.ClientName,
		ClientAddress:   b.ClientAddress,
		ClientCity:      b.ClientCity,
		ClientContact:   b.ClientContact,
		WorkLocation:    b.WorkLocation,
		ServiceType:     b.ServiceType,
		Date:            b.Date.Format(domain.BudgetDateLayout),
		Services:        toLineItemResponses(b.Services),
		Materials:       toLineItemResponses(b.Materials),
		LaborCost:       b.LaborCost.StringFixed(2),
		TotalCost:       b.TotalCost.StringFixed(2),
		Status:          string(b.Status),
		StatusUpdatedAt: b.StatusUpdatedAt,
		PDFGeneratedAt:  b.PDFGeneratedAt,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
	// The object key stays internal; clients get the endpoint that signs it
	if b.PDFURL != nil {
		link := fmt.Sprintf("/api/v1/budgets/%d/pdf/url", b.ID)
		resp.PDFURL = &link
	}
	return resp
}

// budgetError maps service errors to problem responses
func budgetError(c echo.Context, err error, action string) error {
	switch {
	case errors.Is(err, domain.ErrBudgetNotFound):
		return NewNotFoundError(c, "Budget not found")
	case errors.Is(err, domain.ErrInvalidTransition):
		return NewConflictError(c, "Only pending budgets can be approved or rejected")
	case errors.Is(err, domain.ErrBudgetNotEditable):
		return NewConflictError(c, "Only pending budgets can be edited")
	case errors.Is(err, domain.ErrInvalidBudgetStatus):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "status", Message: "Status must be approved or rejected"},
		})
	case errors.Is(err, domain.ErrPDFValidation):
		return NewValidationError(c, err.Error(), nil)
	case errors.Is(err, domain.ErrInvalidInput):
		return NewValidationError(c, "Validation failed", fieldErrors(err))
	case errors.Is(err, domain.ErrPDFNotArchived):
		return NewNotFoundError(c, "No archived PDF for this budget yet")
	case errors.Is(err, domain.ErrStorageMissing):
		return NewServiceUnavailableError(c, "PDF archive is not configured")
	}

	log.Error().Err(err).Str("path", c.Request().URL.Path).Msgf("Failed to %s", action)
	return NewInternalError(c, "Failed to "+action)
}

// ListBudgets godoc
// @Summary List budgets
// @Description Get the caller's budgets, newest first
// @Tags budgets
// @Produce json
// @Security BearerAuth
// @Success 200 {array} BudgetResponse
// @Failure 401 {object} ProblemDetails
// @Router /budgets [get]
func (h *BudgetHandler) ListBudgets(c echo.Context) error {
	budgets, err := h.budgetService.List(c.Request().Context(), middleware.GetUserID(c))
	if err != nil {
		return budgetError(c, err, "list budgets")
	}

	resp := make([]BudgetResponse, len(budgets))
	for i, b := range budgets {
		resp[i] = toBudgetResponse(b)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetBudget godoc
// @Summary Get a budget
// @Tags budgets
// @Produce json
// @Security BearerAuth
// @Param id path int true "Budget ID"
// @Success 200 {object} BudgetResponse
// @Failure 404 {object} ProblemDetails
// @Router /budgets/{id} [get]
func (h *BudgetHandler) GetBudget(c echo.Context) error {
	id, err := parseBudgetID(c)
	if err != nil {
		return NewNotFoundError(c, "Budget not found")
	}

	budget, err := h.budgetService.Get(c.Request().Context(), middleware.GetUserID(c), id)
	if err != nil {
		return budgetError(c, err, "get budget")
	}
	return c.JSON(http.StatusOK, toBudgetResponse(budget))
}

// CreateBudget godoc
// @Summary Create a budget
// @Description Totals are computed by the server and the status starts as pending
// @Tags budgets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body BudgetRequest true "Budget"
// @Success 201 {object} BudgetResponse
// @Failure 400 {object} ProblemDetails
// @Router /budgets [post]
func (h *BudgetHandler) CreateBudget(c echo.Context) error {
	var req BudgetRequest
	if err := bindStrict(c, &req); err != nil {
		return NewValidationError(c, "Invalid request body: "+err.Error(), nil)
	}

	input, err := req.toInput()
	if err != nil {
		return budgetError(c, err, "create budget")
	}

	budget, err := h.budgetService.Create(c.Request().Context(), middleware.GetUserID(c), input)
	if err != nil {
		return budgetError(c, err, "create budget")
	}
	return c.JSON(http.StatusCreated, toBudgetResponse(budget))
}

// UpdateBudget godoc
// @Summary Edit a budget
// @Description Replace the fields of a pending budget
// @Tags budgets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Budget ID"
// @Param request body BudgetRequest true "Budget"
// @Success 200 {object} BudgetResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Router /budgets/{id} [put]
func (h *BudgetHandler) UpdateBudget(c echo.Context) error {
	id, err := parseBudgetID(c)
	if err != nil {
		return NewNotFoundError(c, "Budget not found")
	}

	var req BudgetRequest
	if err := bindStrict(c, &req); err != nil {
		return NewValidationError(c, "Invalid request body: "+err.Error(), nil)
	}

	input, err := req.toInput()
	if err != nil {
		return budgetError(c, err, "update budget")
	}

	budget, err := h.budgetService.Update(c.Request().Context(), middleware.GetUserID(c), id, input)
	if err != nil {
		return budgetError(c, err, "update budget")
	}
	return c.JSON(http.StatusOK, toBudgetResponse(budget))
}

// UpdateBudgetStatus godoc
// @Summary Approve or reject a budget
// @Description Only pending budgets can change status
// @Tags budgets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Budget ID"
// @Param request body UpdateStatusRequest true "New status"
// @Success 200 {object} BudgetResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Router /budgets/{id}/status [put]
func (h *BudgetHandler) UpdateBudgetStatus(c echo.Context) error {
	id, err := parseBudgetID(c)
	if err != nil {
		return NewNotFoundError(c, "Budget not found")
	}

	var req UpdateStatusRequest
	if err := bindStrict(c, &req); err != nil {
		return NewValidationError(c, "Invalid request body: "+err.Error(), nil)
	}

	budget, err := h.budgetService.UpdateStatus(c.Request().Context(), middleware.GetUserID(c), id, req.Status)
	if err != nil {
		return budgetError(c, err, "update budget status")
	}
	return c.JSON(http.StatusOK, toBudgetResponse(budget))
}

// DeleteBudget godoc
// @Summary Delete a budget
// @Tags budgets
// @Security BearerAuth
// @Param id path int true "Budget ID"
// @Success 204
// @Failure 404 {object} ProblemDetails
// @Router /budgets/{id} [delete]
func (h *BudgetHandler) DeleteBudget(c echo.Context) error {
	id, err := parseBudgetID(c)
	if err != nil {
		return NewNotFoundError(c, "Budget not found")
	}

	if err := h.budgetService.Delete(c.Request().Context(), middleware.GetUserID(c), id); err != nil {
		return budgetError(c, err, "delete budget")
	}
	return c.NoContent(http.StatusNoContent)
}

// ExportPDF godoc
// @Summary Export a budget as PDF
// @Description Render the budget, archive it when storage is configured and download it
// @Tags budgets
// @Produce application/pdf
// @Security BearerAuth
// @Param id path int true "Budget ID"
// @Success 200 {file} binary
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /budgets/{id}/pdf [get]
func (h *BudgetHandler) ExportPDF(c echo.Context) error {
	id, err := parseBudgetID(c)
	if err != nil {
		return NewNotFoundError(c, "Budget not found")
	}

	result, err := h.exportService.ExportPDF(c.Request().Context(), middleware.GetUserID(c), id)
	if err != nil {
		return budgetError(c, err, "export budget PDF")
	}

	header := c.Response().Header()
	header.Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", result.FileName))
	header.Set(echo.HeaderContentLength, strconv.Itoa(len(result.Content)))
	header.Set("Cache-Control", "no-store")
	return c.Blob(http.StatusOK, "application/pdf", result.Content)
}

// GetPDFURL godoc
// @Summary Link to the archived PDF
// @Description Get a temporary download link for the last exported PDF
// @Tags budgets
// @Produce json
// @Security BearerAuth
// @Param id path int true "Budget ID"
// @Success 200 {object} service.PDFLink
// @Failure 404 {object} ProblemDetails
// @Failure 503 {object} ProblemDetails
// @Router /budgets/{id}/pdf/url [get]
func (h *BudgetHandler) GetPDFURL(c echo.Context) error {
	id, err := parseBudgetID(c)
	if err != nil {
		return NewNotFoundError(c, "Budget not found")
	}

	link, err := h.exportService.PDFURL(c.Request().Context(), middleware.GetUserID(c), id)
	if err != nil {
		return budgetError(c, err, "get PDF link")
	}
	return c.JSON(http.StatusOK, link)
}
