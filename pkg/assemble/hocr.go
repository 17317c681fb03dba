package assemble

import (
	"fmt"
	"strings"

	"github.com/gardar/reflow/pkg/hocr"
	"github.com/gardar/reflow/pkg/layout"
)

// RowPage is the clustered rows of one source page.
type RowPage struct {
	Label         string // Provenance header, none when empty
	Width, Height float64
	Rows          []layout.Row
}

// HOCR writes clustered rows back out as hOCR, one ocr_line per row and one
// ocrx_word per text run. Coordinates are points at 72 dpi, so the result
// reads back with the same geometry. A labelled page opens with a header
// area holding one bold line at the top left corner.
type HOCR struct {
	Metrics    layout.Metrics
	Title      string
	HeaderSize float64 // Font size of the header line, DefaultFontSize when zero
}

// AssembleRows renders the rows of every source page.
func (a HOCR) AssembleRows(pages []RowPage) ([]byte, error) {
	doc := hocr.HOCR{
		Title:    a.Title,
		Language: "en",
		Metadata: map[string]string{
			"ocr-system":       "reflow",
			"ocr-capabilities": "ocr_page ocr_carea ocr_par ocr_line ocrx_word",
		},
	}
	for i, p := range pages {
		doc.Pages = append(doc.Pages, a.page(i, p))
	}

	out, err := hocr.GenerateHOCRDocument(&doc)
	if err != nil {
		return nil, rejected("hOCR", err)
	}
	return []byte(out), nil
}

func (a HOCR) page(index int, p RowPage) hocr.Page {
	n := index + 1
	m := layout.NewMapper(p.Height, 1)
	bounds := hocr.NewBoundingBox(0, 0, p.Width, p.Height)

	par := hocr.Paragraph{ID: fmt.Sprintf("par_%d_1", n), BBox: bounds}
	for r, row := range p.Rows {
		line := hocr.Line{ID: fmt.Sprintf("line_%d_%d", n, r+1)}
		for w, run := range row.Runs {
			face := layout.Regular
			if run.Bold {
				face = layout.Bold
			}
			x, y := m.ToTarget(run.X, run.Y, run.FontSize)
			width := a.Metrics.Measure(run.Content, face, run.FontSize)
			word := hocr.Word{
				ID:         fmt.Sprintf("word_%d_%d_%d", n, r+1, w+1),
				Text:       run.Content,
				BBox:       hocr.NewBoundingBox(x, y, x+width, y+run.FontSize),
				Confidence: 100,
				FontSize:   run.FontSize,
				Bold:       run.Bold,
			}
			line.Words = append(line.Words, word)
			line.BBox = union(line.BBox, word.BBox, w == 0)
			line.XSize = max(line.XSize, run.FontSize)
		}
		par.Lines = append(par.Lines, line)
	}

	var areas []hocr.Area
	if p.Label != "" {
		areas = append(areas, a.header(n, p.Label))
	}
	areas = append(areas, hocr.Area{
		ID:         fmt.Sprintf("block_%d_1", n),
		BBox:       bounds,
		Paragraphs: []hocr.Paragraph{par},
	})

	return hocr.Page{
		ID:         fmt.Sprintf("page_%d", n),
		PageNumber: index,
		ScanRes:    layout.PointsPerInch,
		BBox:       bounds,
		Areas:      areas,
	}
}

// header lays the label out word by word from the top left corner.
func (a HOCR) header(n int, label string) hocr.Area {
	size := a.HeaderSize
	if size <= 0 {
		size = layout.DefaultFontSize
	}
	space := a.Metrics.Measure(" ", layout.Bold, size)

	line := hocr.Line{ID: fmt.Sprintf("line_%d_0", n), XSize: size}
	x := 0.0
	for w, text := range strings.Fields(label) {
		width := a.Metrics.Measure(text, layout.Bold, size)
		word := hocr.Word{
			ID:         fmt.Sprintf("word_%d_0_%d", n, w+1),
			Text:       text,
			BBox:       hocr.NewBoundingBox(x, 0, x+width, size),
			Confidence: 100,
			FontSize:   size,
			Bold:       true,
		}
		line.Words = append(line.Words, word)
		line.BBox = union(line.BBox, word.BBox, w == 0)
		x += width + space
	}
	return hocr.Area{
		ID:   fmt.Sprintf("block_%d_0", n),
		BBox: line.BBox,
		Paragraphs: []hocr.Paragraph{{
			ID:    fmt.Sprintf("par_%d_0", n),
			BBox:  line.BBox,
			Lines: []hocr.Line{line},
		}},
	}
}

func union(a, b hocr.BoundingBox, first bool) hocr.BoundingBox {
	if first {
		return b
	}
	return hocr.BoundingBox{
		X1: min(a.X1, b.X1),
		Y1: min(a.Y1, b.Y1),
		X2: max(a.X2, b.X2),
		Y2: max(a.Y2, b.Y2),
	}
}
