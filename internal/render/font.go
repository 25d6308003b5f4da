package render

import (
	"bytes"
	"fmt"
	"os"
)

// LoadFont reads a TrueType font for the PDF receipt. OpenType files with
// CFF outlines are rejected because gofpdf only embeds glyf outlines.
func LoadFont(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font %s: %w", path, err)
	}
	if len(data) < 4 || !(bytes.Equal(data[:4], []byte{0x00, 0x01, 0x00, 0x00}) || bytes.Equal(data[:4], []byte("true"))) {
		return nil, fmt.Errorf("font %s is not a TrueType file", path)
	}
	return data, nil
}
