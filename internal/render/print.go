package render

import (
	"bytes"
	"fmt"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/sjperalta/feedesk-api/internal/receipt"
)

// PrintRenderer converts the HTML receipt to a print-ready PDF with
// wkhtmltopdf. The wkhtmltopdf binary must be on PATH (or WKHTMLTOPDF_PATH).
type PrintRenderer struct {
	html *HTMLRenderer
}

func NewPrintRenderer(html *HTMLRenderer) *PrintRenderer {
	return &PrintRenderer{html: html}
}

func (r *PrintRenderer) ContentType() string { return "application/pdf" }

func (r *PrintRenderer) Extension() string { return "pdf" }

func (r *PrintRenderer) Render(doc *receipt.Document) ([]byte, error) {
	page, err := r.html.Render(doc)
	if err != nil {
		return nil, err
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create pdf generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.PageSize.Set(wkhtmltopdf.PageSizeA4)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.Grayscale.Set(false)
	pdfg.Title.Set(fmt.Sprintf("Fee Receipt %s", doc.Details.ReceiptNo))

	pr := wkhtmltopdf.NewPageReader(bytes.NewReader(page))
	pr.EnableLocalFileAccess.Set(true)
	pdfg.AddPage(pr)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create pdf: %w", err)
	}
	return pdfg.Bytes(), nil
}
