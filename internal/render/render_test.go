package render

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/sjperalta/feedesk-api/internal/receipt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument(t *testing.T, transactionID string) *receipt.Document {
	t.Helper()

	amount := 2000.0
	record := receipt.PaymentRecord{
		StudentName:               "Rohit Verma",
		RegistrationNo:            "TB0925002",
		ClassName:                 "XI",
		CourseName:                "JEE Foundation",
		BatchName:                 "Morning A",
		TotalFee:                  12000,
		PaymentDate:               "2025-09-02T12:31:20.736Z",
		Amount:                    &amount,
		PendingAmountAfterPayment: 10000,
		PaymentMode:               "UPI",
		ReceiptNo:                 "TBREC85836",
	}
	if transactionID != "" {
		record.TransactionID = &transactionID
	}

	composer := receipt.NewComposer(receipt.Branding{
		Name:    "Tara Bharti Coaching Centre",
		Tagline: "Excellence in Education",
		Address: "12 MG Road, Jaipur",
		Phone:   "+91 98765 43210",
	}, receipt.DateFormatter{})

	doc, err := composer.Compose(record)
	require.NoError(t, err)
	return doc
}

func writeTestLogo(t *testing.T, w, h int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "logo.png")
	img := imaging.New(w, h, color.NRGBA{R: 200, G: 30, B: 30, A: 255})
	require.NoError(t, imaging.Save(img, path))
	return path
}

func TestPDFRenderer_Render(t *testing.T) {
	renderer := NewPDFRenderer(nil)
	data, err := renderer.Render(sampleDocument(t, "TXN1"))

	assert.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")), "output should be a PDF")
	assert.Equal(t, "application/pdf", renderer.ContentType())
	assert.Equal(t, "pdf", renderer.Extension())
}

func TestPDFRenderer_RenderWithLogo(t *testing.T) {
	logo, err := LoadLogo(writeTestLogo(t, 600, 300))
	require.NoError(t, err)

	data, err := NewPDFRenderer(logo).Render(sampleDocument(t, ""))
	assert.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestLoadLogo_FitsHeaderBox(t *testing.T) {
	logo, err := LoadLogo(writeTestLogo(t, 960, 480))
	require.NoError(t, err)

	img, format, err := image.Decode(bytes.NewReader(logo))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, LogoMaxWidth, img.Bounds().Dx())
	assert.Equal(t, LogoMaxWidth/2, img.Bounds().Dy())

	_, err = LoadLogo(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}

func TestHTMLRenderer_Render(t *testing.T) {
	data, err := NewHTMLRenderer(nil, false).Render(sampleDocument(t, ""))
	require.NoError(t, err)
	page := string(data)

	assert.Contains(t, page, "Tara Bharti Coaching Centre")
	assert.Contains(t, page, "TBREC85836")
	assert.Contains(t, page, "(Two Thousand Rupees Only)")
	assert.Contains(t, page, "02/09/2025")
	assert.Contains(t, page, "17/09/2025")
	assert.Contains(t, page, "12,000")
	assert.Contains(t, page, "10,000")
	assert.NotContains(t, page, "Transaction ID")
	assert.NotContains(t, page, "window.print")
	assert.Equal(t, 2, strings.Count(page, `<tr class="summary">`))
}

func TestHTMLRenderer_TransactionRowAndAutoPrint(t *testing.T) {
	logo, err := LoadLogo(writeTestLogo(t, 50, 50))
	require.NoError(t, err)

	data, err := NewHTMLRenderer(logo, true).Render(sampleDocument(t, "TXN1"))
	require.NoError(t, err)
	page := string(data)

	assert.Equal(t, 1, strings.Count(page, "TXN1"))
	assert.Contains(t, page, "Transaction ID")
	assert.Contains(t, page, "window.print")
	assert.Contains(t, page, "data:image/png;base64,")
}

func TestLoadFont(t *testing.T) {
	dir := t.TempDir()

	ttf := filepath.Join(dir, "receipt.ttf")
	require.NoError(t, os.WriteFile(ttf, append([]byte{0x00, 0x01, 0x00, 0x00}, make([]byte, 12)...), 0o644))
	data, err := LoadFont(ttf)
	require.NoError(t, err)
	assert.Len(t, data, 16)

	otf := filepath.Join(dir, "receipt.otf")
	require.NoError(t, os.WriteFile(otf, []byte("OTTO0000"), 0o644))
	_, err = LoadFont(otf)
	assert.ErrorContains(t, err, "not a TrueType file")

	_, err = LoadFont(filepath.Join(dir, "missing.ttf"))
	assert.Error(t, err)
}

func TestRegistry(t *testing.T) {
	registry := NewRegistry(nil, nil)
	assert.Equal(t, []string{FormatHTML, FormatPDF, FormatPrint, FormatPrintPDF}, registry.Formats())

	r, err := registry.Get(FormatHTML)
	assert.NoError(t, err)
	assert.Equal(t, "html", r.Extension())

	_, err = registry.Get("docx")
	assert.Error(t, err)
}

func TestPrintRenderer_Render(t *testing.T) {
	if _, err := exec.LookPath("wkhtmltopdf"); err != nil {
		t.Skip("wkhtmltopdf not installed")
	}

	data, err := NewPrintRenderer(NewHTMLRenderer(nil, false)).Render(sampleDocument(t, ""))
	assert.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}
