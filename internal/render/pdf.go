package render

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/sjperalta/feedesk-api/internal/receipt"
)

const (
	pageMargin   = 15.0
	contentWidth = 180.0
	lineHeight   = 6.0
	logoName     = "institution-logo"
	logoWidthMM  = 22.0
)

const (
	coreFontFamily    = "Arial"
	receiptFontFamily = "ReceiptSans"
)

// PDFRenderer draws the downloadable A4 receipt. Without a TrueType font it
// uses the gofpdf core fonts, which only cover cp1252: names in Indic
// scripts need a UTF-8 font (see WithFont).
type PDFRenderer struct {
	logo []byte
	font []byte
}

func NewPDFRenderer(logoPNG []byte) *PDFRenderer {
	return &PDFRenderer{logo: logoPNG}
}

// WithFont makes the renderer embed the given TrueType font for all text.
func (r *PDFRenderer) WithFont(ttf []byte) *PDFRenderer {
	r.font = ttf
	return r
}

// pdfWriter carries the document together with the active font family and
// the text translation it needs.
type pdfWriter struct {
	*gofpdf.Fpdf
	family string
	tr     func(string) string
}

func (w *pdfWriter) font(style string, size float64) {
	w.SetFont(w.family, style, size)
}

func (r *PDFRenderer) ContentType() string { return "application/pdf" }

func (r *PDFRenderer) Extension() string { return "pdf" }

func (r *PDFRenderer) Render(doc *receipt.Document) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.SetTitle(fmt.Sprintf("Fee Receipt %s", doc.Details.ReceiptNo), true)
	pdf.SetCreator(doc.Header.Name, true)
	pdf.AddPage()

	w := &pdfWriter{Fpdf: pdf, family: coreFontFamily}
	if len(r.font) > 0 {
		for _, style := range []string{"", "B", "I"} {
			pdf.AddUTF8FontFromBytes(receiptFontFamily, style, r.font)
		}
		w.family = receiptFontFamily
		w.tr = func(s string) string { return s }
	} else {
		// Core fonts are cp1252; translate names with accents instead of printing mojibake.
		w.tr = pdf.UnicodeTranslatorFromDescriptor("")
	}

	r.drawHeader(w, doc)
	drawDetails(w, doc)
	drawLineItems(w, doc)
	drawFooter(w, doc)
	drawSignatures(w, doc)

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to build receipt pdf: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write receipt pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *PDFRenderer) drawHeader(pdf *pdfWriter, doc *receipt.Document) {
	top := pdf.GetY()
	if len(r.logo) > 0 {
		opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
		pdf.RegisterImageOptionsReader(logoName, opts, bytes.NewReader(r.logo))
		pdf.ImageOptions(logoName, pageMargin, top, logoWidthMM, 0, false, opts, 0, "")
	}

	h := doc.Header
	pdf.font("B", 18)
	pdf.CellFormat(contentWidth, 9, pdf.tr(h.Name), "", 1, "C", false, 0, "")

	pdf.font("I", 10)
	if h.Tagline != "" {
		pdf.CellFormat(contentWidth, 5, pdf.tr(h.Tagline), "", 1, "C", false, 0, "")
	}

	pdf.font("", 9)
	if h.Address != "" {
		pdf.CellFormat(contentWidth, 5, pdf.tr(h.Address), "", 1, "C", false, 0, "")
	}
	if contact := contactLine(h); contact != "" {
		pdf.CellFormat(contentWidth, 5, pdf.tr(contact), "", 1, "C", false, 0, "")
	}

	if len(r.logo) > 0 && pdf.GetY() < top+logoWidthMM {
		pdf.SetY(top + logoWidthMM)
	}

	pdf.Ln(2)
	y := pdf.GetY()
	pdf.SetLineWidth(0.5)
	pdf.Line(pageMargin, y, pageMargin+contentWidth, y)
	pdf.SetLineWidth(0.2)
	pdf.Ln(3)

	pdf.font("B", 14)
	pdf.CellFormat(contentWidth, 8, doc.Title, "", 1, "C", false, 0, "")
	pdf.Ln(2)
}

func drawDetails(pdf *pdfWriter, doc *receipt.Document) {
	a := doc.Admission
	sectionTitle(pdf, "Admission Details")
	keyValueRow(pdf, "Registration No", a.RegistrationNo, "Student Name", a.StudentName)
	keyValueRow(pdf, "Father's Name", a.GuardianName, "Class", a.ClassName)
	keyValueRow(pdf, "Course", a.CourseName, "Batch", a.BatchName)
	pdf.Ln(3)

	d := doc.Details
	sectionTitle(pdf, "Receipt Details")
	keyValueRow(pdf, "Receipt No", d.ReceiptNo, "Payment Date", d.PaymentDate)
	keyValueRow(pdf, "Next Due Date", d.NextDueDate, "", "")
	pdf.Ln(4)
}

func drawLineItems(pdf *pdfWriter, doc *receipt.Document) {
	widths := []float64{20, 110, 50}

	pdf.font("B", 10)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(widths[0], 8, "S.No", "1", 0, "C", true, 0, "")
	pdf.CellFormat(widths[1], 8, "Particulars", "1", 0, "L", true, 0, "")
	pdf.CellFormat(widths[2], 8, "Amount (Rs.)", "1", 1, "R", true, 0, "")

	pdf.font("", 10)
	for i, item := range doc.ItemRows() {
		pdf.CellFormat(widths[0], 7, fmt.Sprintf("%d", i+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[1], 7, pdf.tr(item.Label), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 7, item.Display, "1", 1, "R", false, 0, "")
	}

	pdf.font("B", 10)
	pdf.SetFillColor(245, 245, 245)
	for _, item := range doc.SummaryRows() {
		pdf.CellFormat(widths[0]+widths[1], 7, pdf.tr(item.Label), "1", 0, "R", true, 0, "")
		pdf.CellFormat(widths[2], 7, item.Display, "1", 1, "R", true, 0, "")
	}
	pdf.Ln(4)
}

func drawFooter(pdf *pdfWriter, doc *receipt.Document) {
	f := doc.Footer
	pdf.font("B", 10)
	pdf.CellFormat(35, lineHeight, "Amount in Words:", "", 0, "L", false, 0, "")
	pdf.font("", 10)
	pdf.MultiCell(contentWidth-35, lineHeight, pdf.tr(f.AmountInWords), "", "L", false)

	for _, row := range f.Rows {
		pdf.font("B", 10)
		pdf.CellFormat(35, lineHeight, pdf.tr(row.Label)+":", "", 0, "L", false, 0, "")
		pdf.font("", 10)
		pdf.MultiCell(contentWidth-35, lineHeight, pdf.tr(row.Value), "", "L", false)
	}
}

func drawSignatures(pdf *pdfWriter, doc *receipt.Document) {
	if len(doc.Signatures) == 0 {
		return
	}
	pdf.Ln(22)

	slot := contentWidth / float64(len(doc.Signatures))
	y := pdf.GetY()
	for i := range doc.Signatures {
		x := pageMargin + float64(i)*slot
		pdf.Line(x+10, y, x+slot-10, y)
	}
	pdf.Ln(1)

	pdf.font("", 9)
	for i, label := range doc.Signatures {
		ln := 0
		if i == len(doc.Signatures)-1 {
			ln = 1
		}
		pdf.CellFormat(slot, 5, pdf.tr(label), "", ln, "C", false, 0, "")
	}
}

func sectionTitle(pdf *pdfWriter, title string) {
	pdf.font("B", 11)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(contentWidth, 7, title, "", 1, "L", true, 0, "")
	pdf.Ln(1)
}

// keyValueRow draws two label/value pairs side by side. An empty label
// leaves the right half blank.
func keyValueRow(pdf *pdfWriter, k1, v1, k2, v2 string) {
	half := contentWidth / 2
	pair := func(k, v string, ln int) {
		pdf.font("B", 10)
		pdf.CellFormat(35, lineHeight, pdf.tr(k)+":", "", 0, "L", false, 0, "")
		pdf.font("", 10)
		pdf.CellFormat(half-35, lineHeight, pdf.tr(v), "", ln, "L", false, 0, "")
	}

	pair(k1, v1, 0)
	if k2 == "" {
		pdf.Ln(lineHeight)
		return
	}
	pair(k2, v2, 1)
}

func contactLine(h receipt.Branding) string {
	line := ""
	for _, part := range []string{h.Phone, h.Email, h.Website} {
		if part == "" {
			continue
		}
		if line != "" {
			line += "  |  "
		}
		line += part
	}
	return line
}
