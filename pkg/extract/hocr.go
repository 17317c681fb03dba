package extract

import (
	"fmt"

	"github.com/gardar/reflow/pkg/hocr"
	"github.com/gardar/reflow/pkg/layout"
)

// DefaultHOCRResolution is assumed for pages without a scan_res property.
const DefaultHOCRResolution = 300.0

// HOCR is an hOCR document opened for extraction.
type HOCR struct {
	doc hocr.HOCR
	dpi float64
}

// OpenHOCR parses an hOCR document. Pixel coordinates are converted to points
// at the page's scan resolution, or dpi when the page does not state one.
func OpenHOCR(data []byte, dpi float64) (*HOCR, error) {
	doc, err := hocr.ParseHOCR(data)
	if err != nil {
		return nil, fmt.Errorf("opening hOCR: %w", err)
	}
	if dpi <= 0 {
		dpi = DefaultHOCRResolution
	}
	return &HOCR{doc: doc, dpi: dpi}, nil
}

// Pages returns the number of ocr_page elements.
func (d *HOCR) Pages() int {
	return len(d.doc.Pages)
}

// Page turns every word of page i into an atom. Words without a bounding box
// are skipped and counted.
func (d *HOCR) Page(i int) (PageRuns, error) {
	page := d.doc.Pages[i]
	dpi := page.ScanRes
	if dpi <= 0 {
		dpi = d.dpi
	}
	scale := dpi / layout.PointsPerInch // Pixels per point

	pr := PageRuns{Index: i, Width: DefaultPageWidth, Height: DefaultPageHeight}
	if !page.BBox.IsZero() {
		pr.Width = page.BBox.Width() / scale
		pr.Height = page.BBox.Height() / scale
	}
	if pr.Width <= 0 || pr.Height <= 0 {
		return PageRuns{}, pageError("hOCR", i, fmt.Errorf("page bbox %v has no area", page.BBox))
	}
	m := layout.NewMapper(pr.Height, scale)

	for _, w := range hocr.PageWords(page) {
		if w.BBox.IsZero() || w.BBox.Height() <= 0 {
			if _, ok := newRun(w.Text, 0, 0, 1, false, i); ok {
				pr.Skipped++
			}
			continue
		}
		x, y := m.FromTarget(w.BBox.X1-page.BBox.X1, w.BBox.Y1-page.BBox.Y1, w.BBox.Height())
		size := w.FontSize
		if size <= 0 {
			size = w.BBox.Height() / scale
		}
		if r, ok := newRun(w.Text, x, y, size, w.Bold, i); ok {
			pr.Runs = append(pr.Runs, r)
		}
	}
	return pr, nil
}
