// Package extract reads positioned text runs out of paginated sources.
//
// Every source is addressed page by page. Coordinates of the returned runs
// are points with the origin at the bottom-left corner of the page, whatever
// the source's native convention.
package extract

import (
	"fmt"
	"math"
	"strings"

	"github.com/gardar/reflow/pkg/layout"
)

// US Letter, used when a source does not state its page size.
const (
	DefaultPageWidth  = 612.0
	DefaultPageHeight = 792.0
)

// PageRuns is everything extracted from one source page.
type PageRuns struct {
	Index   int // Zero-based page number
	Width   float64
	Height  float64
	Runs    []layout.TextRun // In emission order
	Skipped int              // Atoms dropped as degenerate
}

// Source is a paginated document opened for extraction.
type Source interface {
	// Pages returns the number of pages.
	Pages() int
	// Page extracts the runs of page i (zero-based).
	Page(i int) (PageRuns, error)
}

// All extracts every page of src in order. The first page that cannot be
// decoded aborts the extraction.
func All(src Source) ([]PageRuns, error) {
	pages := make([]PageRuns, 0, src.Pages())
	for i := 0; i < src.Pages(); i++ {
		p, err := src.Page(i)
		if err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, nil
}

// finite reports whether none of vs is NaN or infinite.
func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// newRun builds a run, reporting false for content that is blank or
// geometry that cannot be placed.
func newRun(content string, x, y, size float64, bold bool, page int) (layout.TextRun, bool) {
	content = strings.TrimSpace(content)
	if content == "" {
		return layout.TextRun{}, false
	}
	return layout.TextRun{
		Content:   content,
		X:         x,
		Y:         y,
		FontSize:  size,
		Bold:      bold,
		PageIndex: page,
	}, true
}

func pageError(kind string, i int, err error) error {
	return fmt.Errorf("%s page %d: %w", kind, i+1, err)
}
