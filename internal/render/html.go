package render

import (
	"bytes"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"

	"github.com/sjperalta/feedesk-api/internal/receipt"
)

//go:embed templates/*.html
var templateFS embed.FS

var receiptTemplate = template.Must(
	template.New("receipt.html").
		Funcs(template.FuncMap{"inc": func(i int) int { return i + 1 }}).
		ParseFS(templateFS, "templates/receipt.html"),
)

// HTMLRenderer renders the on-screen receipt. With autoPrint set the page
// opens the browser print dialog when loaded.
type HTMLRenderer struct {
	logo      template.URL
	autoPrint bool
}

func NewHTMLRenderer(logoPNG []byte, autoPrint bool) *HTMLRenderer {
	r := &HTMLRenderer{autoPrint: autoPrint}
	if len(logoPNG) > 0 {
		r.logo = template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(logoPNG))
	}
	return r
}

func (r *HTMLRenderer) ContentType() string { return "text/html; charset=utf-8" }

func (r *HTMLRenderer) Extension() string { return "html" }

func (r *HTMLRenderer) Render(doc *receipt.Document) ([]byte, error) {
	data := struct {
		Doc       *receipt.Document
		Logo      template.URL
		Contact   string
		AutoPrint bool
	}{
		Doc:       doc,
		Logo:      r.logo,
		Contact:   contactLine(doc.Header),
		AutoPrint: r.autoPrint,
	}

	var buf bytes.Buffer
	if err := receiptTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute receipt template: %w", err)
	}
	return buf.Bytes(), nil
}
