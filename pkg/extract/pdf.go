package extract

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/gardar/reflow/pkg/layout"
)

// Glyph merging thresholds, as multiples of the font size.
const (
	glyphJoinGap  = 0.3  // Wider gaps start a new run
	glyphSpaceGap = 0.15 // Wider gaps inside a run become a space
	baselineSlack = 0.01 // Points
)

// PDF is a PDF document opened for extraction.
type PDF struct {
	r *pdf.Reader
}

// OpenPDF parses the document structure of a PDF held in memory.
func OpenPDF(data []byte) (doc *PDF, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	return &PDF{r: r}, nil
}

// Pages returns the number of pages.
func (d *PDF) Pages() int {
	return d.r.NumPage()
}

// Page extracts the text layer of page i.
func (d *PDF) Page(i int) (pr PageRuns, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = pageError("PDF", i, fmt.Errorf("malformed content stream: %v", r))
		}
	}()
	page := d.r.Page(i + 1)
	if page.V.IsNull() {
		return PageRuns{}, pageError("PDF", i, fmt.Errorf("page object missing"))
	}

	w, h := mediaBox(page.V)
	runs, skipped := mergeGlyphs(page.Content().Text, i)
	return PageRuns{Index: i, Width: w, Height: h, Runs: runs, Skipped: skipped}, nil
}

// mediaBox reads the page size, following Parent links for inherited boxes.
func mediaBox(v pdf.Value) (float64, float64) {
	for depth := 0; depth < 32 && !v.IsNull(); depth++ {
		box := v.Key("MediaBox")
		if box.Kind() == pdf.Array && box.Len() == 4 {
			var c [4]float64
			for i := range c {
				c[i] = number(box.Index(i))
			}
			w, h := math.Abs(c[2]-c[0]), math.Abs(c[3]-c[1])
			if w > 0 && h > 0 {
				return w, h
			}
		}
		v = v.Key("Parent")
	}
	return DefaultPageWidth, DefaultPageHeight
}

func number(v pdf.Value) float64 {
	switch v.Kind() {
	case pdf.Integer:
		return float64(v.Int64())
	case pdf.Real:
		return v.Float64()
	}
	return 0
}

// glyphRun accumulates glyphs into one run.
type glyphRun struct {
	font    string
	size    float64
	x, y    float64
	end     float64
	content strings.Builder
}

func (g *glyphRun) accepts(t pdf.Text) bool {
	if g == nil || t.Font != g.font || t.FontSize != g.size || math.Abs(t.Y-g.y) > baselineSlack {
		return false
	}
	return math.Abs(t.X-g.end) <= glyphJoinGap*g.size
}

// mergeGlyphs joins horizontally contiguous glyphs sharing a baseline and
// font into runs. Glyphs with non-finite coordinates or a non-positive size
// are skipped and counted.
func mergeGlyphs(glyphs []pdf.Text, page int) ([]layout.TextRun, int) {
	var runs []layout.TextRun
	var cur *glyphRun
	skipped := 0

	flush := func() {
		if cur == nil {
			return
		}
		if r, ok := newRun(cur.content.String(), cur.x, cur.y, cur.size, boldFont(cur.font), page); ok {
			runs = append(runs, r)
		}
		cur = nil
	}

	for _, t := range glyphs {
		if !finite(t.X, t.Y, t.W, t.FontSize) || t.FontSize <= 0 {
			skipped++
			continue
		}
		if cur.accepts(t) {
			if t.X-cur.end > glyphSpaceGap*cur.size {
				cur.content.WriteByte(' ')
			}
			cur.content.WriteString(t.S)
			cur.end = t.X + t.W
			continue
		}
		flush()
		cur = &glyphRun{font: t.Font, size: t.FontSize, x: t.X, y: t.Y, end: t.X + t.W}
		cur.content.WriteString(t.S)
	}
	flush()
	return runs, skipped
}

// boldFont infers weight from a PostScript font name such as
// "ABCDEF+Roboto-SemiBold" or "Arial,Bold".
func boldFont(name string) bool {
	name = strings.ToLower(name)
	return strings.Contains(name, "bold") || strings.Contains(name, "black") || strings.Contains(name, "heavy")
}
