package assemble

import (
	"math"

	"github.com/gardar/reflow/pkg/layout"
	"github.com/gardar/reflow/pkg/ooxml"
)

// PPTX assembles a slide deck, one slide per sealed page.
//
// Every marker becomes a text box at the left margin. Every placement becomes
// one text box per column, holding one paragraph per typeset line, at the
// mapped position of the placement.
type PPTX struct {
	Geometry layout.Geometry
}

// Assemble implements Assembler.
func (a PPTX) Assemble(pages []layout.Page) ([]byte, error) {
	g := a.Geometry
	deck := ooxml.NewPresentation(emu(g.Width), emu(g.Height))
	for _, page := range pages {
		slide := deck.AddSlide()
		m := layout.NewMapper(page.Height, layout.EMUPerPoint)
		for _, it := range items(page) {
			if mk := it.marker; mk != nil {
				label := []ooxml.Run{{Text: mk.Label, Bold: true, Size: mk.Size}}
				slide.AddTextBox(textBox(m, g.Left, mk.Y, g.ContentWidth(), mk.Height, [][]ooxml.Run{label}))
				continue
			}
			a.addPlacement(slide, m, it.placement)
		}
	}

	data, err := deck.Bytes()
	if err != nil {
		return nil, rejected("PPTX", err)
	}
	return data, nil
}

func (a PPTX) addPlacement(slide *ooxml.Slide, m layout.Mapper, pl *layout.Placement) {
	g := a.Geometry
	size := lineSize(pl)
	xs, _ := columns(pl.Lines)
	for c, x := range xs {
		width := g.ContentWidth() - x
		if c+1 < len(xs) {
			width = xs[c+1] - x
		}
		var paras [][]ooxml.Run
		for _, l := range pl.Lines {
			for _, f := range l.Fragments {
				if f.X == x {
					paras = append(paras, wordRuns(f.Words, size))
				}
			}
		}
		slide.AddTextBox(textBox(m, g.Left+x, pl.Y, width, pl.Height, paras))
	}
}

// textBox maps a box given by its bottom-left corner in points.
func textBox(m layout.Mapper, x, y, w, h float64, paras [][]ooxml.Run) ooxml.TextBox {
	tx, ty := m.ToTarget(x, y, h)
	return ooxml.TextBox{
		X:          int64(math.Round(tx)),
		Y:          int64(math.Round(ty)),
		Width:      int64(math.Round(m.Length(w))),
		Height:     int64(math.Round(m.Length(h))),
		Paragraphs: paras,
	}
}

func emu(pt float64) int64 {
	return int64(math.Round(pt * layout.EMUPerPoint))
}
