package layout

// Typesetting defaults.
const (
	DefaultFontSize    = 11.0
	DefaultLineSpacing = 1.2
	cellGutter         = 4.0
)

// Typesetter turns FlowBlocks into typeset Blocks for one page geometry.
type Typesetter struct {
	Metrics     Metrics
	Geometry    Geometry
	LineSpacing float64 // Line advance as a multiple of font size
}

// LineHeight returns the advance of a line set at size.
func (t Typesetter) LineHeight(size float64) float64 {
	spacing := t.LineSpacing
	if spacing <= 0 {
		spacing = DefaultLineSpacing
	}
	return size * spacing
}

// Typeset wraps a block to the content width of the page.
func (t Typesetter) Typeset(b FlowBlock) Block {
	size := b.Style.Size
	if size <= 0 {
		size = DefaultFontSize
	}
	width := t.Geometry.ContentWidth() - b.Style.Indent

	if b.Kind == TableRow {
		return t.typesetRow(b, size, width)
	}

	var lines []Line
	for _, words := range Wrap(styled(b.Words, b.Style), width, size, t.Metrics) {
		lines = append(lines, Line{
			Fragments: []Fragment{{X: b.Style.Indent, Words: words}},
			Size:      size,
			Height:    t.LineHeight(size),
		})
	}
	return Block{Source: b, Lines: lines, KeepTogether: b.Kind == Heading}
}

// typesetRow splits the width evenly between cells and wraps each one.
// The row is as tall as its tallest cell.
func (t Typesetter) typesetRow(b FlowBlock, size, width float64) Block {
	if len(b.Cells) == 0 {
		return Block{Source: b}
	}
	colWidth := width / float64(len(b.Cells))
	wrapped := make([][][]Word, len(b.Cells))
	rows := 0
	for i, cell := range b.Cells {
		wrapped[i] = Wrap(styled(cell, b.Style), colWidth-cellGutter, size, t.Metrics)
		if len(wrapped[i]) > rows {
			rows = len(wrapped[i])
		}
	}

	lines := make([]Line, rows)
	for r := range lines {
		lines[r] = Line{Size: size, Height: t.LineHeight(size)}
		for c, cell := range wrapped {
			if r < len(cell) {
				lines[r].Fragments = append(lines[r].Fragments, Fragment{
					X:     b.Style.Indent + float64(c)*colWidth,
					Words: cell[r],
				})
			}
		}
	}
	return Block{Source: b, Lines: lines, KeepTogether: true}
}

// styled applies the block's default weight to its words.
func styled(words []Word, s Style) []Word {
	if !s.Bold {
		return words
	}
	out := make([]Word, len(words))
	for i, w := range words {
		out[i] = Word{Text: w.Text, Bold: true}
	}
	return out
}
