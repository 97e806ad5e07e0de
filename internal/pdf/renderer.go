// Package pdf renders budgets as printable A4 documents.
package pdf

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/go-pdf/fpdf"
	"github.com/jhservicos/orcamentos/orcamentos-backend/internal/domain"
)

const (
	pageMargin      = 15.0
	headerHeight    = 42.0
	logoHeight      = 26.0 // mm
	logoPixelHeight = 256
	rowHeight       = 7.0
	logoImageName   = "brand-logo"
)

// table column widths: Item, Qtd, Preço Un., Total
var columnWidths = [4]float64{90, 25, 32.5, 32.5}

// Brand is the business identity printed in the header and footer
type Brand struct {
	Name         string
	TaxID        string
	Address      string
	City         string
	Phone        string
	Email        string
	ValidityDays int
}

// Renderer turns budgets into PDF documents
type Renderer struct {
	brand Brand
	logo  []byte // PNG, already scaled
}

// NewRenderer creates a Renderer. logo may be nil; otherwise it must be a PNG or JPEG image.
func NewRenderer(brand Brand, logo []byte) (*Renderer, error) {
	if brand.ValidityDays <= 0 {
		brand.ValidityDays = 15
	}
	r := &Renderer{brand: brand}
	if len(logo) > 0 {
		scaled, err := prepareLogo(logo)
		if err != nil {
			return nil, err
		}
		r.logo = scaled
	}
	return r, nil
}

// LoadLogo reads the logo file at path. An empty path means no logo.
func LoadLogo(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read logo: %w", err)
	}
	return data, nil
}

// prepareLogo decodes the logo, scales it down to a fixed height and re-encodes it as PNG
func prepareLogo(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode logo: %w", err)
	}
	if img.Bounds().Dy() > logoPixelHeight {
		img = imaging.Resize(img, 0, logoPixelHeight, imaging.Lanczos)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode logo: %w", err)
	}
	return buf.Bytes(), nil
}

// Validate reports the fields a budget needs before it can be printed
func Validate(b *domain.Budget) error {
	if b == nil {
		return domain.ErrPDFValidation
	}
	var missing []string
	if b.ID <= 0 {
		missing = append(missing, "id")
	}
	if strings.TrimSpace(b.ClientName) == "" {
		missing = append(missing, "clientName")
	}
	if b.Date.IsZero() {
		missing = append(missing, "date")
	}
	if strings.TrimSpace(b.WorkLocation) == "" {
		missing = append(missing, "workLocation")
	}
	if strings.TrimSpace(b.ServiceType) == "" {
		missing = append(missing, "serviceType")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrPDFValidation, strings.Join(missing, ", "))
	}
	return nil
}

// Render produces the PDF bytes of a budget
func (r *Renderer) Render(b *domain.Budget) ([]byte, error) {
	doc, err := r.build(b)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// FileName is the download name of a budget document
func FileName(id int32) string {
	return "orcamento_" + strconv.FormatInt(int64(id), 10) + ".pdf"
}

func (r *Renderer) build(b *domain.Budget) (*fpdf.Fpdf, error) {
	if err := Validate(b); err != nil {
		return nil, err
	}

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetCatalogSort(true)
	stamp := documentTime(b)
	doc.SetCreationDate(stamp)
	doc.SetModificationDate(stamp)
	doc.SetMargins(pageMargin, pageMargin, pageMargin)
	doc.SetAutoPageBreak(true, 22)

	w := &writer{doc: doc, tr: doc.UnicodeTranslatorFromDescriptor("")}
	doc.SetTitle(w.tr(fmt.Sprintf("Orçamento #%d", b.ID)), false)
	doc.SetAuthor(w.tr(r.brand.Name), false)
	doc.SetFooterFunc(func() { r.footer(w) })

	doc.AddPage()
	r.header(w, b)
	r.clientPanel(w, b)
	r.itemTable(w, "Serviços", b.Services)
	r.itemTable(w, "Materiais", b.Materials)
	r.totals(w, b)

	if doc.Err() {
		return nil, fmt.Errorf("failed to render pdf: %w", doc.Error())
	}
	return doc, nil
}

func documentTime(b *domain.Budget) time.Time {
	switch {
	case !b.UpdatedAt.IsZero():
		return b.UpdatedAt
	case !b.CreatedAt.IsZero():
		return b.CreatedAt
	default:
		return b.Date
	}
}

// writer bundles the document with its cp1252 text translator
type writer struct {
	doc *fpdf.Fpdf
	tr  func(string) string
}

func (w *writer) fill(c rgb)  { w.doc.SetFillColor(c.r, c.g, c.b) }
func (w *writer) color(c rgb) { w.doc.SetTextColor(c.r, c.g, c.b) }

func (w *writer) cell(width, height float64, text, align string, fill bool) {
	w.doc.CellFormat(width, height, w.tr(text), "", 0, align, fill, 0, "")
}

// fit shortens text with an ellipsis until it fits width
func (w *writer) fit(text string, width float64) string {
	const ellipsis = "..."
	if w.doc.GetStringWidth(w.tr(text)) <= width {
		return text
	}
	runes := []rune(text)
	for len(runes) > 0 && w.doc.GetStringWidth(w.tr(string(runes)+ellipsis)) > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + ellipsis
}

func (r *Renderer) header(w *writer, b *domain.Budget) {
	doc := w.doc
	pageWidth, _ := doc.GetPageSize()

	w.fill(colorBrand)
	doc.Rect(0, 0, pageWidth, headerHeight, "F")

	textX := pageMargin
	if r.logo != nil {
		opts := fpdf.ImageOptions{ImageType: "PNG"}
		info := doc.RegisterImageOptionsReader(logoImageName, opts, bytes.NewReader(r.logo))
		if info != nil && info.Height() > 0 {
			logoWidth := logoHeight * info.Width() / info.Height()
			doc.ImageOptions(logoImageName, pageMargin, 8, logoWidth, logoHeight, false, opts, 0, "")
			textX += logoWidth + 4
		}
	}

	w.color(rgb{255, 255, 255})
	doc.SetXY(textX, 8)
	doc.SetFont("Helvetica", "B", 16)
	w.cell(100, 8, r.brand.Name, "L", false)

	doc.SetFont("Helvetica", "", 9)
	lines := []string{
		"CNPJ: " + r.brand.TaxID,
		r.brand.Address,
		r.brand.City,
		strings.Trim(r.brand.Phone+" | "+r.brand.Email, " |"),
	}
	y := 17.0
	for _, line := range lines {
		if strings.TrimSpace(line) == "" || line == "CNPJ: " {
			continue
		}
		doc.SetXY(textX, y)
		w.cell(100, 4.5, line, "L", false)
		y += 4.5
	}

	rightX := pageWidth - pageMargin - 60
	doc.SetXY(rightX, 8)
	doc.SetFont("Helvetica", "", 10)
	w.cell(60, 5, fmt.Sprintf("#%d", b.ID), "R", false)
	doc.SetXY(rightX, 14)
	doc.SetFont("Helvetica", "B", 16)
	w.cell(60, 8, "ORÇAMENTO", "R", false)

	label := statusLabel(b.Status)
	doc.SetFont("Helvetica", "B", 9)
	labelWidth := doc.GetStringWidth(label) + 8
	doc.SetXY(pageWidth-pageMargin-labelWidth, 25)
	w.fill(statusColor(b.Status))
	w.cell(labelWidth, 7, label, "C", true)

	doc.SetY(headerHeight + 8)
}

func (r *Renderer) clientPanel(w *writer, b *domain.Budget) {
	doc := w.doc
	w.color(colorText)
	doc.SetFont("Helvetica", "B", 11)
	w.cell(0, 7, "Dados do Cliente", "L", false)
	doc.Ln(8)

	pairs := [][2]string{
		{"Cliente", b.ClientName},
		{"Data", formatDate(b.Date)},
		{"Endereço", b.ClientAddress},
		{"Cidade", b.ClientCity},
		{"Contato", b.ClientContact},
		{"Local", b.WorkLocation},
		{"Tipo", b.ServiceType},
	}

	const labelWidth, valueWidth = 22.0, 68.0
	for i, p := range pairs {
		doc.SetFont("Helvetica", "B", 9)
		w.color(colorMuted)
		w.cell(labelWidth, 6, p[0]+":", "L", false)
		doc.SetFont("Helvetica", "", 9)
		w.color(colorText)
		w.cell(valueWidth, 6, w.fit(p[1], valueWidth), "L", false)
		if i%2 == 1 {
			doc.Ln(6)
		}
	}
	if len(pairs)%2 == 1 {
		doc.Ln(6)
	}
	doc.Ln(4)
}

func (r *Renderer) itemTable(w *writer, title string, items []domain.LineItem) {
	if len(items) == 0 {
		return
	}
	doc := w.doc

	w.color(colorText)
	doc.SetFont("Helvetica", "B", 11)
	w.cell(0, 7, title, "L", false)
	doc.Ln(8)

	headers := [4]string{"Item", "Qtd", "Preço Un.", "Total"}
	aligns := [4]string{"L", "R", "R", "R"}

	doc.SetFont("Helvetica", "B", 9)
	w.fill(colorBrand)
	w.color(rgb{255, 255, 255})
	for i, h := range headers {
		w.cell(columnWidths[i], rowHeight, h, aligns[i], true)
	}
	doc.Ln(rowHeight)

	doc.SetFont("Helvetica", "", 9)
	w.color(colorText)
	w.fill(colorZebra)
	for n, item := range items {
		values := [4]string{
			w.fit(item.Name, columnWidths[0]-2),
			formatQuantity(item.Quantity),
			FormatBRL(item.UnitPrice),
			FormatBRL(item.Total),
		}
		for i, v := range values {
			w.cell(columnWidths[i], rowHeight, v, aligns[i], n%2 == 1)
		}
		doc.Ln(rowHeight)
	}
	doc.Ln(4)
}

func (r *Renderer) totals(w *writer, b *domain.Budget) {
	doc := w.doc
	pageWidth, _ := doc.GetPageSize()
	const labelWidth, valueWidth = 40.0, 40.0
	x := pageWidth - pageMargin - labelWidth - valueWidth

	doc.SetX(x)
	doc.SetFont("Helvetica", "", 10)
	w.color(colorText)
	w.cell(labelWidth, rowHeight, "Mão de Obra", "L", false)
	w.cell(valueWidth, rowHeight, FormatBRL(b.LaborCost), "R", false)
	doc.Ln(rowHeight + 1)

	doc.SetX(x)
	doc.SetFont("Helvetica", "B", 12)
	w.fill(colorBrand)
	w.color(rgb{255, 255, 255})
	w.cell(labelWidth, rowHeight+2, "Total", "L", true)
	w.cell(valueWidth, rowHeight+2, FormatBRL(b.TotalCost), "R", true)
	doc.Ln(rowHeight + 2)
}

func (r *Renderer) footer(w *writer) {
	doc := w.doc
	doc.SetY(-15)
	doc.SetFont("Helvetica", "I", 8)
	w.color(colorMuted)
	note := fmt.Sprintf("Este orçamento é válido por %d dias a partir da data de emissão.", r.brand.ValidityDays)
	w.cell(0, 5, note, "C", false)
	doc.Ln(5)
	w.cell(0, 4, fmt.Sprintf("Página %d", doc.PageNo()), "C", false)
}
