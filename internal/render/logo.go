package render

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

// Logo box in pixels. The PDF header draws it at 22mm wide.
const (
	LogoMaxWidth  = 240
	LogoMaxHeight = 240
)

// LoadLogo reads the institution logo and scales it down to fit the header
// box, keeping its aspect ratio. The result is PNG encoded.
func LoadLogo(path string) ([]byte, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to open logo %s: %w", path, err)
	}

	fitted := imaging.Fit(img, LogoMaxWidth, LogoMaxHeight, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, fitted, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode logo: %w", err)
	}
	return buf.Bytes(), nil
}
