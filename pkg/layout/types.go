package layout

import (
	"strings"
)

// TextRun is one positioned piece of text emitted by source extraction.
// Coordinates are in source points with the origin at the bottom-left corner.
type TextRun struct {
	Content   string  // Text content, never empty after trimming
	X         float64 // Horizontal origin
	Y         float64 // Baseline
	FontSize  float64 // Font size in points
	Bold      bool    // Recorded font weight
	PageIndex int     // Zero-based source page
}

// Row is a cluster of runs believed to form one visual line.
type Row struct {
	Baseline float64   // Y of the run that opened the row
	Runs     []TextRun // Ordered by ascending X
}

// Y returns the vertical anchor of the row.
func (r Row) Y() float64 {
	return r.Baseline
}

// X returns the horizontal origin of the leftmost run.
func (r Row) X() float64 {
	if len(r.Runs) == 0 {
		return 0
	}
	return r.Runs[0].X
}

// Text joins the row's runs with single spaces.
func (r Row) Text() string {
	parts := make([]string, 0, len(r.Runs))
	for _, run := range r.Runs {
		parts = append(parts, strings.TrimSpace(run.Content))
	}
	return strings.Join(parts, " ")
}

// Words splits the row into words, each carrying the weight of its run.
func (r Row) Words() []Word {
	var words []Word
	for _, run := range r.Runs {
		for _, f := range strings.Fields(run.Content) {
			words = append(words, Word{Text: f, Bold: run.Bold})
		}
	}
	return words
}

// FontSize returns the largest font size in the row.
func (r Row) FontSize() float64 {
	size := 0.0
	for _, run := range r.Runs {
		if run.FontSize > size {
			size = run.FontSize
		}
	}
	return size
}

// Bold reports whether every run in the row is bold.
func (r Row) Bold() bool {
	if len(r.Runs) == 0 {
		return false
	}
	for _, run := range r.Runs {
		if !run.Bold {
			return false
		}
	}
	return true
}

// Cell is a grid-addressed unit of text for spreadsheet reconstruction.
type Cell struct {
	RowIndex int
	ColIndex int
	Content  string
}

// Word is the unit of line wrapping.
type Word struct {
	Text string
	Bold bool
}

// Face selects the weight a string is measured and drawn in.
type Face int

const (
	Regular Face = iota
	Bold
)

// FaceOf returns the face a word is drawn in.
func FaceOf(w Word) Face {
	if w.Bold {
		return Bold
	}
	return Regular
}

// BlockKind is the semantic role of a FlowBlock.
type BlockKind int

const (
	Paragraph BlockKind = iota
	Heading
	ListItem
	Bullet
	TableRow
)

func (k BlockKind) String() string {
	switch k {
	case Heading:
		return "heading"
	case ListItem:
		return "list-item"
	case Bullet:
		return "bullet"
	case TableRow:
		return "table-row"
	default:
		return "paragraph"
	}
}

// Style is the resolved presentation of a block.
type Style struct {
	Bold   bool    // Default weight for words that do not set their own
	Size   float64 // Font size in points
	Indent float64 // Left indent in points
}

// FlowBlock is a semantic content unit independent of absolute position.
// It is the intermediate representation shared by both conversion directions.
type FlowBlock struct {
	Kind       BlockKind
	Level      int      // Heading level (1-6), zero otherwise
	Style      Style    // Resolved style
	Words      []Word   // Content for every kind except TableRow
	Cells      [][]Word // Content of a TableRow, one entry per column
	SourcePage int      // Zero-based source page the block came from
}

// Text returns the block content as plain text.
// Table cells are separated by tabs.
func (b FlowBlock) Text() string {
	if b.Kind == TableRow {
		cells := make([]string, len(b.Cells))
		for i, c := range b.Cells {
			cells[i] = JoinWords(c)
		}
		return strings.Join(cells, "\t")
	}
	return JoinWords(b.Words)
}

// Empty reports whether the block carries no text at all.
func (b FlowBlock) Empty() bool {
	if b.Kind == TableRow {
		for _, c := range b.Cells {
			if len(c) > 0 {
				return false
			}
		}
		return true
	}
	return len(b.Words) == 0
}

// JoinWords joins words with single spaces.
func JoinWords(words []Word) string {
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = w.Text
	}
	return strings.Join(parts, " ")
}
