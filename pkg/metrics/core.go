package metrics

import (
	"fmt"
	"sync"

	"codeberg.org/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"

	"github.com/gardar/reflow/pkg/layout"
)

// CoreFonts measures text with fpdf's core font metrics.
type CoreFonts struct {
	mu     sync.Mutex
	pdf    *fpdf.Fpdf
	family string
}

// NewCoreFonts creates a provider for one of the core families
// (Helvetica, Times, Courier). An empty family selects Helvetica.
func NewCoreFonts(family string) (*CoreFonts, error) {
	if family == "" {
		family = "Helvetica"
	}
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetFont(family, "", 10)
	pdf.SetFont(family, "B", 10)
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("loading core font %q: %w", family, err)
	}
	return &CoreFonts{pdf: pdf, family: family}, nil
}

// Family returns the font family being measured.
func (c *CoreFonts) Family() string {
	return c.family
}

// Measure returns the width of text in points.
func (c *CoreFonts) Measure(text string, face layout.Face, size float64) float64 {
	style := ""
	if face == layout.Bold {
		style = "B"
	}
	encoded := EncodeWinAnsi(text)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.pdf.SetFont(c.family, style, size)
	return c.pdf.GetStringWidth(encoded)
}

// EncodeWinAnsi transcodes text to the Windows-1252 encoding used by the PDF
// core fonts. Characters outside the code page become '?'.
func EncodeWinAnsi(text string) string {
	out, err := charmap.Windows1252.NewEncoder().String(text)
	if err == nil {
		return out
	}
	enc := charmap.Windows1252
	buf := make([]byte, 0, len(text))
	for _, r := range text {
		if b, ok := enc.EncodeRune(r); ok {
			buf = append(buf, b)
		} else {
			buf = append(buf, '?')
		}
	}
	return string(buf)
}
