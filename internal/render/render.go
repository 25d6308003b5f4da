package render

import (
	"fmt"
	"sort"

	"github.com/sjperalta/feedesk-api/internal/receipt"
)

// Output formats understood by the receipt endpoints.
const (
	FormatPDF      = "pdf"
	FormatHTML     = "html"
	FormatPrint    = "print"
	FormatPrintPDF = "print-pdf"
)

// Renderer turns a composed receipt into bytes for one output format.
type Renderer interface {
	Render(doc *receipt.Document) ([]byte, error)
	ContentType() string
	Extension() string
}

// Registry maps output formats to renderers.
type Registry struct {
	renderers map[string]Renderer
}

// NewRegistry builds the standard set of renderers sharing one logo.
// logoPNG and fontTTF may be nil; fontTTF only affects the gofpdf download.
func NewRegistry(logoPNG, fontTTF []byte) *Registry {
	html := NewHTMLRenderer(logoPNG, false)
	return &Registry{
		renderers: map[string]Renderer{
			FormatPDF:      NewPDFRenderer(logoPNG).WithFont(fontTTF),
			FormatHTML:     html,
			FormatPrint:    NewHTMLRenderer(logoPNG, true),
			FormatPrintPDF: NewPrintRenderer(html),
		},
	}
}

// Get returns the renderer for a format.
func (r *Registry) Get(format string) (Renderer, error) {
	renderer, ok := r.renderers[format]
	if !ok {
		return nil, fmt.Errorf("unsupported receipt format %q", format)
	}
	return renderer, nil
}

// Formats lists the registered formats in sorted order.
func (r *Registry) Formats() []string {
	formats := make([]string, 0, len(r.renderers))
	for f := range r.renderers {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return formats
}
