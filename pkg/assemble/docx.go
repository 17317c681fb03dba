package assemble

import (
	"bytes"
	"fmt"
	"math"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
	"github.com/gomutex/godocx/wml/ctypes"

	"github.com/gardar/reflow/pkg/layout"
	"github.com/gardar/reflow/pkg/ooxml"
)

// Word accepts page sides between 0.1 and 22 inches.
const (
	minPageTwips = 144
	maxPageTwips = 31680
)

// DOCX assembles a word processing document. Sealed pages are separated by
// explicit page breaks; the word processor re-wraps lines itself.
type DOCX struct {
	Geometry layout.Geometry // Page size and margins of the single section
}

// Assemble implements Assembler.
func (a DOCX) Assemble(pages []layout.Page) ([]byte, error) {
	doc, err := godocx.NewDocument()
	if err != nil {
		return nil, rejected("DOCX", err)
	}
	body := doc.Document.Body
	if body.SectPr == nil {
		body.SectPr = ctypes.NewSectionProper()
	}
	if err := a.section(body.SectPr); err != nil {
		return nil, rejected("DOCX", err)
	}

	for i, page := range pages {
		if i > 0 {
			doc.AddPageBreak()
		}
		for _, it := range items(page) {
			if m := it.marker; m != nil {
				addRun(doc.AddEmptyParagraph(), m.Label, true, m.Size)
				continue
			}
			addPlacement(doc, it.placement)
		}
	}

	var buf bytes.Buffer
	if err := doc.Write(&buf); err != nil {
		return nil, rejected("DOCX", err)
	}
	return buf.Bytes(), nil
}

// section sets the page size and margins of the document section.
func (a DOCX) section(sect *ctypes.SectionProp) error {
	g := a.Geometry
	w, h := twips(g.Width), twips(g.Height)
	if w < minPageTwips || w > maxPageTwips || h < minPageTwips || h > maxPageTwips {
		return fmt.Errorf("page size %gx%gpt: %w", g.Width, g.Height, ooxml.ErrInvalidGeometry)
	}
	if g.Top < 0 || g.Bottom < 0 || g.Left < 0 || g.Right < 0 || g.ContentWidth() <= 0 || g.UsableHeight() <= 0 {
		return fmt.Errorf("page margins: %w", ooxml.ErrInvalidGeometry)
	}

	width, height := uint64(w), uint64(h)
	top, bottom, left, right := twips(g.Top), twips(g.Bottom), twips(g.Left), twips(g.Right)
	header, footer, gutter := 720, 720, 0
	sect.PageSize = &ctypes.PageSize{Width: &width, Height: &height}
	sect.PageMargin = &ctypes.PageMargin{
		Top: &top, Bottom: &bottom, Left: &left, Right: &right,
		Header: &header, Footer: &footer, Gutter: &gutter,
	}
	return nil
}

// addPlacement writes one placement as a paragraph. Table cells are joined
// with tabs.
func addPlacement(doc *docx.RootDoc, pl *layout.Placement) {
	b := pl.Block
	p := doc.AddEmptyParagraph()
	if b.Kind == layout.Heading {
		p.Style(headingStyle(b.Level))
	}
	if b.Style.Indent > 0 {
		left := twips(b.Style.Indent)
		p.Indent(&ctypes.Indent{Left: &left})
	}

	size := lineSize(pl)
	_, cols := columns(pl.Lines)
	for i, words := range cols {
		if i > 0 {
			addTab(p)
		}
		spans := layout.Spans(words)
		for j, s := range spans {
			text := s.Text
			if j < len(spans)-1 {
				text += " "
			}
			addRun(p, text, s.Face == layout.Bold, size)
		}
	}
}

// addRun appends a text run. Sizes keep half-point precision.
func addRun(p *docx.Paragraph, text string, bold bool, size float64) {
	prop := &ctypes.RunProperty{}
	if bold {
		prop.Bold = ctypes.OnOffFromBool(true)
	}
	if hp := halfPoints(size); hp > 0 {
		prop.Size = ctypes.NewFontSize(hp)
		prop.SizeCs = ctypes.NewFontSizeCS(hp)
	}
	ct := p.GetCT()
	ct.Children = append(ct.Children, ctypes.ParagraphChild{Run: &ctypes.Run{
		Property: prop,
		Children: []ctypes.RunChild{{Text: ctypes.TextFromString(text)}},
	}})
}

func addTab(p *docx.Paragraph) {
	ct := p.GetCT()
	ct.Children = append(ct.Children, ctypes.ParagraphChild{Run: &ctypes.Run{
		Children: []ctypes.RunChild{{Tab: &ctypes.Empty{}}},
	}})
}

// headingStyle returns the style ID of a heading level, clamped to 1..6.
func headingStyle(level int) string {
	return fmt.Sprintf("Heading%d", min(max(level, 1), 6))
}

func twips(pt float64) int {
	return int(math.Round(pt * layout.TwipsPerPoint))
}

func halfPoints(pt float64) uint64 {
	if pt <= 0 {
		return 0
	}
	return uint64(math.Round(pt * layout.HalfPointsPerPoint))
}
