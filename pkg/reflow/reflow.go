// Package reflow converts documents between paginated and flow-based formats.
//
// Paginated sources (PDF, PPTX, hOCR) are read as positioned text runs,
// clustered into rows and turned into flow blocks. Markup sources (DOCX,
// HTML) are parsed into a tree and resolved into the same blocks. Blocks are
// then wrapped and paginated onto fixed-size target pages and handed to the
// assembler of the target format.
//
// Key Features:
//
// - Reconstruct lines, paragraphs and spreadsheet grids from coordinates
// - Re-lay out flow content onto pages or slides with measured line breaks
// - Label each source page in the output to keep its provenance
//
// Main Functions:
//
// - Convert: Converts between any supported pair of formats
// - DetectFormat: Recognizes a document from its content
//
// A conversion is sequential and owns all of its state, so independent
// conversions may run concurrently.
package reflow

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/gardar/reflow/pkg/assemble"
	"github.com/gardar/reflow/pkg/extract"
	"github.com/gardar/reflow/pkg/layout"
	"github.com/gardar/reflow/pkg/markup"
	"github.com/gardar/reflow/pkg/metrics"
)

// Convert converts src from one format to another. No output is returned
// when the conversion fails; the error is always a *ConversionError.
func Convert(src []byte, from, to Format, opts Options) ([]byte, error) {
	op := fmt.Sprintf("%s to %s", from, to)
	fail := func(kind, err error) ([]byte, error) {
		return nil, &ConversionError{Op: op, Kind: kind, Err: err}
	}

	if !Supported(from, to) {
		return fail(ErrUnsupportedConversion, nil)
	}
	if err := opts.Validate(); err != nil {
		return fail(ErrInvalidOptions, err)
	}
	m, err := metrics.New(opts.Metrics, opts.Font.Name)
	if err != nil {
		return fail(ErrInvalidOptions, err)
	}
	if c, ok := m.(io.Closer); ok {
		defer c.Close()
	}

	c := &converter{opts: opts, metrics: m, log: newLogger(opts).With("op", op)}
	var out []byte
	if from.Paginated() {
		out, err = c.fromPages(src, from, to)
	} else {
		out, err = c.fromMarkup(src, from, to)
	}
	if err != nil {
		var ce *ConversionError
		if errors.As(err, &ce) {
			ce.Op = op
			return nil, ce
		}
		return fail(ErrBuilderRejected, err)
	}
	return out, nil
}

// PDFToDOCX converts a PDF into a word processing document.
func PDFToDOCX(src []byte, opts Options) ([]byte, error) { return Convert(src, PDF, DOCX, opts) }

// PDFToPPTX converts a PDF into a slide deck.
func PDFToPPTX(src []byte, opts Options) ([]byte, error) { return Convert(src, PDF, PPTX, opts) }

// PDFToXLSX converts a PDF into a workbook with one sheet per page.
func PDFToXLSX(src []byte, opts Options) ([]byte, error) { return Convert(src, PDF, XLSX, opts) }

// DOCXToPDF lays out a word processing document onto PDF pages.
func DOCXToPDF(src []byte, opts Options) ([]byte, error) { return Convert(src, DOCX, PDF, opts) }

// HTMLToPDF lays out an HTML document onto PDF pages.
func HTMLToPDF(src []byte, opts Options) ([]byte, error) { return Convert(src, HTML, PDF, opts) }

// PPTXToPDF reflows the text of a slide deck onto PDF pages.
func PPTXToPDF(src []byte, opts Options) ([]byte, error) { return Convert(src, PPTX, PDF, opts) }

// converter holds the state of one conversion.
type converter struct {
	opts    Options
	metrics layout.Metrics
	log     *slog.Logger
}

// sourcePage is one extracted and clustered source page.
type sourcePage struct {
	extract.PageRuns
	Rows []layout.Row
}

// flowPage is the content of one source page on its way to pagination.
type flowPage struct {
	label       string
	breakBefore bool
	blocks      []layout.FlowBlock
}

func sourceError(err error) error {
	return &ConversionError{Kind: ErrSourceParse, Err: err}
}

func (c *converter) fromPages(src []byte, from, to Format) ([]byte, error) {
	doc, threshold, err := c.open(src, from)
	if err != nil {
		return nil, sourceError(err)
	}
	pages, err := c.extract(doc, threshold)
	if err != nil {
		return nil, sourceError(err)
	}

	labelFormat := c.opts.Headers.PageFormat
	if from == PPTX {
		labelFormat = c.opts.Headers.SlideFormat
	}
	label := func(i int) string { return fmt.Sprintf(labelFormat, i+1) }

	switch to {
	case XLSX:
		grids := make([]assemble.GridPage, len(pages))
		for i, p := range pages {
			grids[i] = assemble.GridPage{
				Label: label(i),
				Cells: layout.Grid(p.Rows, c.opts.Grid.BucketWidth, c.opts.Grid.MaxEmptyCells),
			}
		}
		return assemble.XLSX{}.AssembleGrid(grids)
	case HOCR:
		rows := make([]assemble.RowPage, len(pages))
		for i, p := range pages {
			rows[i] = assemble.RowPage{Label: label(i), Width: p.Width, Height: p.Height, Rows: p.Rows}
		}
		return assemble.HOCR{Metrics: c.metrics, HeaderSize: c.opts.Headers.Size}.AssembleRows(rows)
	}

	flow := make([]flowPage, len(pages))
	for i, p := range pages {
		flow[i] = flowPage{label: label(i), blocks: layout.BlocksFromRows(p.Rows, i)}
	}
	return c.assemble(to, flow)
}

// open opens a paginated source and returns its row clustering threshold.
func (c *converter) open(src []byte, from Format) (extract.Source, float64, error) {
	switch from {
	case PDF:
		doc, err := extract.OpenPDF(src)
		return doc, c.opts.Rows.PDF, err
	case PPTX:
		doc, err := extract.OpenPPTX(src)
		return doc, c.opts.Rows.PPTX, err
	default:
		doc, err := extract.OpenHOCR(src, c.opts.HOCRDPI)
		return doc, c.opts.Rows.HOCR, err
	}
}

// extract reads every page in order. Degenerate runs are skipped and
// reported; the first page that cannot be decoded fails the conversion.
func (c *converter) extract(doc extract.Source, threshold float64) ([]sourcePage, error) {
	pages := make([]sourcePage, 0, doc.Pages())
	for i := 0; i < doc.Pages(); i++ {
		pr, err := doc.Page(i)
		if err != nil {
			return nil, err
		}
		if pr.Skipped > 0 {
			c.log.Warn("skipped text without usable position", "page", i+1, "count", pr.Skipped)
		}
		rows := layout.ClusterRows(pr.Runs, threshold)
		c.log.Debug("page extracted", "page", i+1, "runs", len(pr.Runs), "rows", len(rows))
		pages = append(pages, sourcePage{PageRuns: pr, Rows: rows})
	}
	return pages, nil
}

func (c *converter) fromMarkup(src []byte, from, to Format) ([]byte, error) {
	var doc *markup.Node
	var err error
	if from == DOCX {
		doc, err = markup.ParseDOCX(src)
	} else {
		doc, err = markup.ParseHTML(src)
	}
	if err != nil {
		return nil, sourceError(err)
	}

	sheet := c.opts.Sheet
	if sheet == (markup.Sheet{}) {
		sheet = markup.DefaultSheet()
	}
	sheet.BodySize = c.opts.Font.Size
	blocks := markup.Resolve(doc, sheet)
	c.log.Debug("markup resolved", "blocks", len(blocks))

	return c.assemble(to, c.markupPages(blocks))
}

// markupPages groups resolved blocks by the page breaks of the source. Every
// page after the first starts on a fresh target page.
func (c *converter) markupPages(blocks []layout.FlowBlock) []flowPage {
	var pages []flowPage
	for _, b := range blocks {
		for len(pages) <= b.SourcePage {
			n := len(pages)
			fp := flowPage{breakBefore: n > 0}
			if c.opts.Headers.Markup {
				fp.label = fmt.Sprintf(c.opts.Headers.PageFormat, n+1)
			}
			pages = append(pages, fp)
		}
		last := &pages[len(pages)-1]
		last.blocks = append(last.blocks, b)
	}
	return pages
}

// paginate typesets and places every page's content in order, opening each
// source page with its label.
func (c *converter) paginate(g layout.Geometry, pages []flowPage) []layout.Page {
	ts := layout.Typesetter{Metrics: c.metrics, Geometry: g, LineSpacing: c.opts.LineSpacing}
	p := layout.NewPaginator(g)
	size := c.opts.Headers.Size
	for _, fp := range pages {
		if fp.breakBefore {
			p.Break()
		}
		if fp.label != "" {
			p.Mark(fp.label, size, ts.LineHeight(size))
		}
		for _, b := range fp.blocks {
			p.Place(ts.Typeset(b))
		}
	}
	out := p.Finish()
	c.log.Debug("paginated", "pages", len(out))
	return out
}

// assemble paginates onto the target geometry and builds the document.
func (c *converter) assemble(to Format, pages []flowPage) ([]byte, error) {
	var a assemble.Assembler
	g := c.opts.Page.Geometry()
	switch to {
	case PDF:
		a = assemble.PDF{
			Metrics:     c.metrics,
			Family:      c.opts.Font.Name,
			AscentRatio: c.opts.Font.AscentRatio,
			Unicode:     c.opts.Metrics == metrics.BackendGoFont,
			LayerName:   c.opts.LayerName,
			Geometry:    g,
			Debug:       c.opts.Debug,
			Logger:      c.log,
		}
	case DOCX:
		a = assemble.DOCX{Geometry: g}
	case PPTX:
		g = c.opts.Slide.Geometry()
		a = assemble.PPTX{Geometry: g}
	default:
		return nil, &ConversionError{Kind: ErrUnsupportedConversion}
	}
	return a.Assemble(c.paginate(g, pages))
}
