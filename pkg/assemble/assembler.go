// Package assemble renders paginated layout into target documents.
//
// Every assembler consumes the sealed pages of one conversion and produces the
// complete target file through that format's builder. Provenance markers
// placed by the paginator are rendered as bold header blocks.
package assemble

import (
	"errors"
	"fmt"
	"sort"

	"github.com/gardar/reflow/pkg/layout"
)

// ErrRejected is returned when a target builder refuses the document.
var ErrRejected = errors.New("target builder rejected the document")

// Assembler renders sealed pages into a target document.
type Assembler interface {
	Assemble(pages []layout.Page) ([]byte, error)
}

func rejected(target string, err error) error {
	return fmt.Errorf("building %s: %w: %w", target, ErrRejected, err)
}

// item is a marker or a placement in top-down page order.
type item struct {
	top       float64
	marker    *layout.Marker
	placement *layout.Placement
}

// items returns the markers and placements of a page, topmost first.
// Equal tops keep markers ahead of content.
func items(page layout.Page) []item {
	out := make([]item, 0, len(page.Markers)+len(page.Placements))
	for i := range page.Markers {
		m := &page.Markers[i]
		out = append(out, item{top: m.Y + m.Height, marker: m})
	}
	for i := range page.Placements {
		pl := &page.Placements[i]
		out = append(out, item{top: pl.Top(), placement: pl})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].top > out[j].top
	})
	return out
}

// columns regroups the fragments of a placement by horizontal offset, left to
// right. Plain blocks have a single column and table rows one per non-empty
// cell.
func columns(lines []layout.Line) (xs []float64, words [][]layout.Word) {
	index := make(map[float64]int)
	for _, l := range lines {
		for _, f := range l.Fragments {
			i, ok := index[f.X]
			if !ok {
				i = len(xs)
				index[f.X] = i
				xs = append(xs, f.X)
				words = append(words, nil)
			}
			words[i] = append(words[i], f.Words...)
		}
	}
	return xs, words
}

// lineSize returns the font size of a placement.
func lineSize(pl *layout.Placement) float64 {
	for _, l := range pl.Lines {
		if l.Size > 0 {
			return l.Size
		}
	}
	if pl.Block != nil && pl.Block.Style.Size > 0 {
		return pl.Block.Style.Size
	}
	return layout.DefaultFontSize
}
