package docs

import (
	"fmt"
	"io"
	"strings"

	"github.com/GabrielNunesIT/openapi-domaingen/internal/domain"
	"github.com/jung-kurt/gofpdf"
)

const (
	pdfPageWidth   = 190.0
	pdfMarginLeft  = 10.0
	pdfMarginTop   = 10.0
	pdfMarginRight = 10.0
	pdfLineHeight  = 5.0
)

var methodColors = map[string][3]int{
	"GET":     {97, 175, 254},  // Blue
	"POST":    {73, 204, 144},  // Green
	"PUT":     {252, 161, 48},  // Orange
	"DELETE":  {249, 62, 62},   // Red
	"PATCH":   {80, 227, 194},  // Teal
	"HEAD":    {144, 97, 249},  // Purple
	"OPTIONS": {128, 128, 128}, // Gray
}

// PDFRenderer renders the entity reference as a PDF with a linked table of contents.
type PDFRenderer struct {
	pdf      *gofpdf.Fpdf
	tocItems []tocItem
}

type tocItem struct {
	title  string
	linkID int
}

// NewPDFRenderer creates a new PDF renderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// FileName returns the artifact file name.
func (r *PDFRenderer) FileName() string {
	return "reference.pdf"
}

// Render writes the PDF document for group.
func (r *PDFRenderer) Render(group *domain.DomainGroup, output io.Writer) error {
	if group == nil {
		return domain.ErrNilGroup
	}

	r.pdf = gofpdf.New("P", "mm", "A4", "")
	r.pdf.SetMargins(pdfMarginLeft, pdfMarginTop, pdfMarginRight)
	r.pdf.SetDrawColor(180, 180, 180) // Light gray for all borders
	r.tocItems = nil

	for _, e := range group.Entities {
		r.tocItems = append(r.tocItems, tocItem{title: e.PascalName, linkID: r.pdf.AddLink()})
	}

	r.addTitlePage(group)
	r.addTableOfContents()

	for i, e := range group.Entities {
		r.pdf.AddPage()
		r.pdf.SetLink(r.tocItems[i].linkID, -1, -1)
		r.addEntity(e)
	}

	if err := r.pdf.Output(output); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}

	return nil
}

func (r *PDFRenderer) addTitlePage(group *domain.DomainGroup) {
	r.pdf.AddPage()

	r.pdf.SetFont("Arial", "B", 28)
	r.pdf.Ln(40)
	r.pdf.CellFormat(pdfPageWidth, 15, title(group), "", 1, "C", false, 0, "")
	r.pdf.Ln(5)

	r.pdf.SetFont("Arial", "", 14)
	r.pdf.SetTextColor(100, 100, 100)
	r.pdf.CellFormat(pdfPageWidth, 8, fmt.Sprintf("%d entities", len(group.Entities)), "", 1, "C", false, 0, "")
	r.pdf.SetTextColor(0, 0, 0)
	r.pdf.Ln(30)

	r.pdf.SetFont("Arial", "", 10)
	r.pdf.SetTextColor(128, 128, 128)
	r.pdf.CellFormat(pdfPageWidth, 6, "Generated by openapi-domaingen", "", 1, "C", false, 0, "")
	r.pdf.SetTextColor(0, 0, 0)
}

func (r *PDFRenderer) addTableOfContents() {
	r.pdf.AddPage()

	r.pdf.SetFont("Arial", "B", 20)
	r.pdf.CellFormat(pdfPageWidth, 10, "Table of Contents", "", 1, "", false, 0, "")
	r.pdf.Ln(8)

	r.pdf.SetFont("Arial", "", 11)
	for _, item := range r.tocItems {
		r.pdf.SetTextColor(0, 102, 204)
		r.pdf.CellFormat(pdfPageWidth, pdfLineHeight+1, item.title, "", 1, "", false, item.linkID, "")
	}
	r.pdf.SetTextColor(0, 0, 0)
}

func (r *PDFRenderer) addEntity(e *domain.Entity) {
	r.pdf.SetFont("Arial", "B", 18)
	r.pdf.CellFormat(pdfPageWidth, 10, e.PascalName, "", 1, "", false, 0, "")

	r.pdf.SetFont("Courier", "", 10)
	r.pdf.CellFormat(pdfPageWidth, 6, e.Path, "", 1, "", false, 0, "")

	r.pdf.SetFont("Arial", "", 9)
	r.pdf.SetTextColor(100, 100, 100)
	if len(e.Tags) > 0 {
		r.pdf.CellFormat(pdfPageWidth, 5, "Tags: "+strings.Join(e.Tags, ", "), "", 1, "", false, 0, "")
	}
	if e.Parent != nil {
		r.pdf.CellFormat(pdfPageWidth, 5, fmt.Sprintf("Nested under %s by %s", e.Parent.Path, e.Parent.Param), "", 1, "", false, 0, "")
	}
	r.pdf.SetTextColor(0, 0, 0)
	r.pdf.Ln(4)

	if len(e.Operations) > 0 {
		r.addSubHeader("Operations")
		for _, op := range e.Operations {
			r.addOperation(op)
		}
		r.pdf.Ln(3)
	}

	if len(e.Fields) > 0 {
		r.addSubHeader("Fields")
		r.addFieldTable(e.Fields)
		r.pdf.Ln(3)
	}

	r.addSubHeader("Inputs")
	r.pdf.SetFont("Arial", "", 9)
	r.pdf.MultiCell(pdfPageWidth, pdfLineHeight, "Create: "+fieldNames(e.CreateFields), "", "", false)
	r.pdf.MultiCell(pdfPageWidth, pdfLineHeight, "Update: "+fieldNames(e.UpdateFields), "", "", false)
	if len(e.QueryParams) > 0 {
		r.pdf.MultiCell(pdfPageWidth, pdfLineHeight, "List query: "+fieldNames(e.QueryParams), "", "", false)
	}
}

func (r *PDFRenderer) addSubHeader(text string) {
	r.checkPageBreak(20)
	r.pdf.SetFont("Arial", "B", 11)
	r.pdf.SetTextColor(60, 60, 60)
	r.pdf.CellFormat(pdfPageWidth, 7, text, "", 1, "", false, 0, "")
	r.pdf.SetTextColor(0, 0, 0)
}

func (r *PDFRenderer) addOperation(op domain.EntityOperation) {
	r.checkPageBreak(8)

	method := strings.ToUpper(op.Method)
	color, ok := methodColors[method]
	if !ok {
		color = [3]int{128, 128, 128}
	}

	r.pdf.SetFont("Arial", "B", 9)
	r.pdf.SetFillColor(color[0], color[1], color[2])
	r.pdf.SetTextColor(255, 255, 255)
	methodWidth := float64(len(method)*3) + 8
	r.pdf.CellFormat(methodWidth, 6, method, "", 0, "C", true, 0, "")

	r.pdf.SetTextColor(0, 0, 0)
	r.pdf.SetFont("Courier", "", 9)
	r.pdf.CellFormat(90, 6, " "+op.Path, "", 0, "", false, 0, "")
	r.pdf.SetFont("Arial", "", 9)
	r.pdf.CellFormat(pdfPageWidth-methodWidth-90, 6, fmt.Sprintf("%s (%s)", op.Name, op.Role), "", 1, "", false, 0, "")
	r.pdf.Ln(1)
}

func (r *PDFRenderer) addFieldTable(fields []domain.Field) {
	colWidths := []float64{45, 50, 20, 20, 55}
	headers := []string{"Name", "Type", "Required", "Nullable", "Constraints"}

	r.pdf.SetFont("Arial", "B", 9)
	r.pdf.SetFillColor(245, 245, 245)
	for i, header := range headers {
		r.pdf.CellFormat(colWidths[i], 6, header, "1", 0, "", true, 0, "")
	}
	r.pdf.Ln(-1)

	r.pdf.SetFont("Arial", "", 9)
	for _, f := range fields {
		r.addTableRow(colWidths, []string{f.Name, fieldType(f), yesNo(f.Required), yesNo(f.Nullable), constraints(f)})
	}
}

func (r *PDFRenderer) addTableRow(colWidths []float64, contents []string) {
	// Row height follows the cell that wraps the most.
	maxLines := 1
	for i, content := range contents {
		lines := r.pdf.SplitLines([]byte(content), colWidths[i])
		if len(lines) > maxLines {
			maxLines = len(lines)
		}
	}

	rowHeight := float64(maxLines) * pdfLineHeight
	r.checkPageBreak(rowHeight)

	startX := r.pdf.GetX()
	startY := r.pdf.GetY()

	for i, content := range contents {
		r.pdf.SetXY(startX, startY)
		r.pdf.MultiCell(colWidths[i], pdfLineHeight, content, "0", "L", false)
		r.pdf.Rect(startX, startY, colWidths[i], rowHeight, "D")
		startX += colWidths[i]
	}

	r.pdf.SetXY(pdfMarginLeft, startY+rowHeight)
}

func (r *PDFRenderer) checkPageBreak(height float64) {
	_, pageHeight := r.pdf.GetPageSize()
	_, _, _, bottomMargin := r.pdf.GetMargins()

	if r.pdf.GetY()+height > pageHeight-bottomMargin-10 {
		r.pdf.AddPage()
	}
}
