package assemble

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"

	"codeberg.org/go-pdf/fpdf"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/text/encoding/charmap"

	"github.com/gardar/reflow/pkg/layout"
	"github.com/gardar/reflow/pkg/metrics"
)

// ErrEncoding is returned when too much text cannot be written in the font
// encoding of the PDF core fonts.
var ErrEncoding = errors.New("character encoding issues")

// UnicodeFamily is the font family registered when PDF.Unicode is set.
const UnicodeFamily = "Go"

// DefaultAscentRatio is the Helvetica ascender as a fraction of the font size.
const DefaultAscentRatio = 0.718

// PDF assembles a page document. Pages keep the paginator's geometry and
// every word is drawn at its typeset position.
type PDF struct {
	Metrics     layout.Metrics // Must be the provider the pages were typeset with
	Family      string         // Core font family, Helvetica when empty
	AscentRatio float64        // Baseline offset below the line top, as a fraction of size
	Unicode     bool           // Embed the Go fonts and write UTF-8 instead of Windows-1252
	LayerName   string         // Optional content group holding provenance headers
	Geometry    layout.Geometry
	Debug       bool // Draw text in red and outline every placement
	Logger      *slog.Logger
}

// Assemble implements Assembler.
func (a PDF) Assemble(pages []layout.Page) ([]byte, error) {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCompression(true)

	family := a.Family
	if family == "" {
		family = "Helvetica"
	}
	if a.Unicode {
		family = UnicodeFamily
		pdf.AddUTF8FontFromBytes(family, "", goregular.TTF)
		pdf.AddUTF8FontFromBytes(family, "B", gobold.TTF)
	}

	d := &pdfDrawer{PDF: a, pdf: pdf, family: family}
	for _, page := range pages {
		if err := d.drawPage(page); err != nil {
			return nil, err
		}
	}

	if d.words > 0 && d.encodingErrors > 0 && d.encodingErrors > d.words/10 {
		return nil, rejected("PDF", fmt.Errorf("%w in %d of %d words", ErrEncoding, d.encodingErrors, d.words))
	}
	if d.encodingErrors > 0 {
		d.logger().Warn("characters replaced", "words", d.encodingErrors, "total", d.words)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, rejected("PDF", err)
	}
	return buf.Bytes(), nil
}

// pdfDrawer holds the state of one Assemble call.
type pdfDrawer struct {
	PDF
	pdf    *fpdf.Fpdf
	family string

	words          int
	encodingErrors int
}

func (d *pdfDrawer) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return d.Logger
}

func (d *pdfDrawer) drawPage(page layout.Page) error {
	d.pdf.AddPageFormat("P", fpdf.SizeType{Wd: page.Width, Ht: page.Height})
	m := layout.NewMapper(page.Height, 1)
	if d.Debug {
		d.pdf.SetTextColor(255, 0, 0)
		d.pdf.SetDrawColor(255, 0, 0)
	}

	if len(page.Markers) > 0 {
		layer := -1
		if d.LayerName != "" {
			layer = d.pdf.AddLayer(fmt.Sprintf("%s (Page %d)", d.LayerName, page.Index+1), true)
			d.pdf.BeginLayer(layer)
		}
		for _, mk := range page.Markers {
			words := []layout.Word{{Text: mk.Label, Bold: true}}
			_, top := m.ToTarget(0, mk.Y, mk.Height)
			d.drawWords(words, d.Geometry.Left, top, mk.Size)
		}
		if layer >= 0 {
			d.pdf.EndLayer()
		}
	}

	for _, pl := range page.Placements {
		lineTop := pl.Top()
		for _, l := range pl.Lines {
			_, top := m.ToTarget(0, lineTop-l.Height, l.Height)
			for _, f := range l.Fragments {
				d.drawWords(f.Words, d.Geometry.Left+f.X, top, l.Size)
			}
			lineTop -= l.Height
		}
		if d.Debug {
			x, y := m.ToTarget(d.Geometry.Left, pl.Y, pl.Height)
			d.pdf.Rect(x, y, d.Geometry.ContentWidth(), pl.Height, "D")
		}
	}

	if err := d.pdf.Error(); err != nil {
		return rejected("PDF", fmt.Errorf("page %d: %w", page.Index+1, err))
	}
	return nil
}

// drawWords draws a line of words one at a time, advancing by the measured
// width of each word and a regular space.
func (d *pdfDrawer) drawWords(words []layout.Word, x, top, size float64) {
	if size <= 0 {
		size = layout.DefaultFontSize
	}
	ascent := d.AscentRatio
	if ascent <= 0 {
		ascent = DefaultAscentRatio
	}
	y := top + size*ascent
	space := d.Metrics.Measure(" ", layout.Regular, size)
	for _, w := range words {
		style := ""
		if w.Bold {
			style = "B"
		}
		d.pdf.SetFont(d.family, style, size)
		d.pdf.Text(x, y, d.encode(w.Text))
		d.words++
		x += d.Metrics.Measure(w.Text, layout.FaceOf(w), size) + space
	}
}

// encode converts text to the encoding of the current font.
func (d *pdfDrawer) encode(text string) string {
	if d.Unicode {
		return text
	}
	out, err := charmap.Windows1252.NewEncoder().String(text)
	if err != nil {
		d.encodingErrors++
		return metrics.EncodeWinAnsi(text)
	}
	return out
}
