package layout

import (
	"strings"
)

// fitEpsilon absorbs floating point noise in the "would exceed" comparison.
const fitEpsilon = 1e-9

// Geometry describes a target page in points.
type Geometry struct {
	Width   float64
	Height  float64
	Top     float64 // Top margin
	Bottom  float64 // Bottom margin
	Left    float64 // Left margin
	Right   float64 // Right margin
	Spacing float64 // Vertical space after each block
}

// ContentWidth is the page width between the side margins.
func (g Geometry) ContentWidth() float64 {
	return g.Width - g.Left - g.Right
}

// UsableHeight is the page height between the top and bottom margins.
func (g Geometry) UsableHeight() float64 {
	return g.Height - g.Top - g.Bottom
}

// Fragment is a horizontal piece of a typeset line.
type Fragment struct {
	X     float64 // Offset from the left margin
	Words []Word
}

// Line is one typeset line of a block.
type Line struct {
	Fragments []Fragment
	Size      float64 // Font size
	Height    float64 // Line advance
}

// Text returns the line content, fragments separated by tabs.
func (l Line) Text() string {
	parts := make([]string, len(l.Fragments))
	for i, f := range l.Fragments {
		parts[i] = JoinWords(f.Words)
	}
	return strings.Join(parts, "\t")
}

// Block is a typeset FlowBlock ready for placement.
type Block struct {
	Source       FlowBlock
	Lines        []Line
	KeepTogether bool // Move the whole block to a fresh page rather than split it
}

// Height is the sum of the block's line advances.
func (b Block) Height() float64 {
	h := 0.0
	for _, l := range b.Lines {
		h += l.Height
	}
	return h
}

// Placement is the part of a block placed on one page.
type Placement struct {
	Block     *FlowBlock
	Lines     []Line
	Y         float64 // Bottom edge, in points from the page bottom
	Height    float64
	Continued bool // Earlier lines of the same block sit on a previous page
}

// Top is the top edge of the placement in points from the page bottom.
func (p Placement) Top() float64 {
	return p.Y + p.Height
}

// Marker is a synthetic provenance header, such as "Page 3".
type Marker struct {
	Label  string
	Size   float64 // Font size
	Y      float64 // Bottom edge, in points from the page bottom
	Height float64
}

// Page is a target page or slide. It is sealed once full or once the input
// is exhausted.
type Page struct {
	Index      int
	Width      float64
	Height     float64
	Placements []Placement
	Markers    []Marker
}

// BlockCount counts the distinct blocks with content on the page.
func (p Page) BlockCount() int {
	n := 0
	var last *FlowBlock
	for _, pl := range p.Placements {
		if pl.Block != last {
			n++
			last = pl.Block
		}
	}
	return n
}

// Cursor is the running vertical position of a pagination.
// CurrentY is measured from the page bottom and decreases while a page fills.
type Cursor struct {
	CurrentY  float64
	PageIndex int
}

// Paginator places typeset blocks onto fixed-size pages.
//
// A Paginator serves exactly one conversion. Blocks must be placed in
// document order; the result depends on it.
type Paginator struct {
	geom    Geometry
	cursor  Cursor
	current *Page
	pages   []Page
	pending bool // The last marker has no block after it yet
}

// NewPaginator creates a paginator for pages of the given geometry.
func NewPaginator(g Geometry) *Paginator {
	return &Paginator{geom: g, cursor: Cursor{CurrentY: g.Height - g.Top}}
}

// Geometry returns the page geometry the paginator was created with.
func (p *Paginator) Geometry() Geometry {
	return p.geom
}

// Cursor returns a copy of the current cursor.
func (p *Paginator) Cursor() Cursor {
	return p.cursor
}

// Place puts a block on the current page, continuing onto new pages at line
// granularity when it does not fit. It returns one placement per page touched.
func (p *Paginator) Place(b Block) []Placement {
	if len(b.Lines) == 0 {
		return nil
	}
	p.open()

	need := b.Lines[0].Height
	if h := b.Height(); b.KeepTogether && h <= p.geom.UsableHeight()+fitEpsilon {
		need = h
	}
	if p.exceeds(need) && !p.bare() {
		p.turnPage()
	}

	src := b.Source
	var out []Placement
	lines := b.Lines
	for len(lines) > 0 {
		p.open()

		n, used := 0, 0.0
		for n < len(lines) && !p.exceeds(used+lines[n].Height) {
			used += lines[n].Height
			n++
		}
		if n == 0 {
			if !p.bare() {
				p.seal()
				continue
			}
			// Taller than an empty page; place it anyway.
			n, used = 1, lines[0].Height
		}

		pl := Placement{
			Block:     &src,
			Lines:     lines[:n],
			Y:         p.cursor.CurrentY - used,
			Height:    used,
			Continued: len(out) > 0,
		}
		p.current.Placements = append(p.current.Placements, pl)
		p.cursor.CurrentY -= used
		out = append(out, pl)

		lines = lines[n:]
		if len(lines) > 0 {
			p.seal()
		}
	}
	p.cursor.CurrentY -= p.geom.Spacing
	p.pending = false
	return out
}

// Mark places a provenance header set at size, taking height, at the cursor.
// The marker stays with the next placed block: when that block cannot start
// below it, the marker moves to the next page too.
func (p *Paginator) Mark(label string, size, height float64) Marker {
	p.open()
	if p.exceeds(height) && !p.empty() {
		p.seal()
		p.open()
	}
	m := Marker{Label: label, Size: size, Y: p.cursor.CurrentY - height, Height: height}
	p.current.Markers = append(p.current.Markers, m)
	p.cursor.CurrentY -= height + p.geom.Spacing
	p.pending = true
	return m
}

// Break seals the current page unless it is still empty, so the next block
// starts a fresh page.
func (p *Paginator) Break() {
	if !p.empty() {
		p.seal()
	}
}

// Finish seals the current page, even when it is empty, and returns every
// sealed page in order.
func (p *Paginator) Finish() []Page {
	p.open()
	p.seal()
	return p.pages
}

// exceeds reports whether a run of height h would cross the bottom margin.
// Exactly filling the remaining budget does not exceed it.
func (p *Paginator) exceeds(h float64) bool {
	return h > p.cursor.CurrentY-p.geom.Bottom+fitEpsilon
}

func (p *Paginator) empty() bool {
	return p.current == nil || (len(p.current.Placements) == 0 && len(p.current.Markers) == 0)
}

// bare reports whether the page is empty or holds only a marker still
// waiting for its first block.
func (p *Paginator) bare() bool {
	if p.empty() {
		return true
	}
	return p.pending && len(p.current.Placements) == 0 && len(p.current.Markers) == 1
}

// turnPage seals the current page. A pending marker moves along to head the
// new page.
func (p *Paginator) turnPage() {
	var lead *Marker
	if p.pending {
		ms := p.current.Markers
		m := ms[len(ms)-1]
		lead = &m
		p.current.Markers = ms[:len(ms)-1]
	}
	p.seal()
	p.open()
	if lead != nil {
		p.Mark(lead.Label, lead.Size, lead.Height)
	}
}

func (p *Paginator) open() {
	if p.current != nil {
		return
	}
	p.current = &Page{
		Index:  len(p.pages),
		Width:  p.geom.Width,
		Height: p.geom.Height,
	}
	p.cursor = Cursor{CurrentY: p.geom.Height - p.geom.Top, PageIndex: len(p.pages)}
}

func (p *Paginator) seal() {
	if p.current == nil {
		return
	}
	p.pages = append(p.pages, *p.current)
	p.current = nil
	p.cursor = Cursor{CurrentY: p.geom.Height - p.geom.Top, PageIndex: len(p.pages)}
}
