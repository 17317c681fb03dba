package markup

import (
	"fmt"
	"strings"

	"github.com/gardar/reflow/pkg/layout"
)

// Sheet holds the presentation rules applied while resolving a tree.
type Sheet struct {
	BodySize     float64    // Points
	HeadingSizes [6]float64 // Points, indexed by heading level - 1
	ListIndent   float64    // Points added per list nesting level
	Bullet       string     // Marker of unordered list items
}

// DefaultSheet returns the standard presentation rules.
func DefaultSheet() Sheet {
	return Sheet{
		BodySize:     layout.DefaultFontSize,
		HeadingSizes: [6]float64{24, 20, 16, 14, 12, 11},
		ListIndent:   18,
		Bullet:       "•",
	}
}

// HeadingSize returns the size of a heading level, clamped to 1..6.
func (s Sheet) HeadingSize(level int) float64 {
	return s.HeadingSizes[min(max(level, 1), 6)-1]
}

// Resolve walks the tree in document order and returns its flow blocks.
// Each PageBreak advances the SourcePage of the blocks that follow it.
func Resolve(doc *Node, sheet Sheet) []layout.FlowBlock {
	base := layout.Style{Size: sheet.BodySize}
	blocks, _ := resolveChildren(doc.Children, sheet, base, blockRole{kind: layout.Paragraph}, 0)
	return blocks
}

// blockRole is the kind loose inline content takes inside a container.
type blockRole struct {
	kind   layout.BlockKind
	marker string // Prefixed to the first block of the container
}

// resolveChildren resolves a container's children with the style inherited
// from the container. Consecutive inline children form one block.
func resolveChildren(children []*Node, sheet Sheet, st layout.Style, role blockRole, page int) ([]layout.FlowBlock, int) {
	var out []layout.FlowBlock
	var pending []*Node

	// The marker belongs to the first block only.
	marker := func() string {
		if len(out) > 0 {
			return ""
		}
		return role.marker
	}
	flush := func() {
		if words := inlineWords(pending, st.Bold); len(words) > 0 {
			if m := marker(); m != "" {
				words = append([]layout.Word{{Text: m}}, words...)
			}
			out = append(out, layout.FlowBlock{Kind: role.kind, Style: st, Words: words, SourcePage: page})
		}
		pending = nil
	}

	for _, c := range children {
		if c.Kind.Inline() {
			pending = append(pending, c)
			continue
		}
		flush()

		var blocks []layout.FlowBlock
		switch c.Kind {
		case PageBreak:
			page++
		case Heading:
			hs := layout.Style{Bold: true, Size: sheet.HeadingSize(c.Level), Indent: st.Indent}
			if words := inlineWords(c.Children, true); len(words) > 0 {
				blocks = append(blocks, layout.FlowBlock{
					Kind:       layout.Heading,
					Level:      min(max(c.Level, 1), 6),
					Style:      hs,
					Words:      words,
					SourcePage: page,
				})
			}
		case List:
			blocks, page = resolveList(c, sheet, st, page)
		case ListItem:
			blocks, page = resolveList(NewNode(List, c), sheet, st, page)
		case Table:
			blocks = resolveTable(c, st, page)
		default:
			blocks, page = resolveChildren(c.Children, sheet, st, blockRole{kind: role.kind, marker: marker()}, page)
		}
		out = append(out, blocks...)
	}
	flush()
	return out, page
}

func resolveList(list *Node, sheet Sheet, st layout.Style, page int) ([]layout.FlowBlock, int) {
	var out []layout.FlowBlock
	n := 0
	for _, item := range list.Children {
		if item.Kind != ListItem {
			continue
		}
		n++
		role := blockRole{kind: layout.Bullet, marker: sheet.Bullet}
		if list.Ordered {
			role = blockRole{kind: layout.ListItem, marker: fmt.Sprintf("%d.", n)}
		}
		is := st
		is.Indent += sheet.ListIndent * float64(max(item.Level, 1))

		var blocks []layout.FlowBlock
		blocks, page = resolveChildren(item.Children, sheet, is, role, page)
		out = append(out, blocks...)
	}
	return out, page
}

func resolveTable(table *Node, st layout.Style, page int) []layout.FlowBlock {
	var out []layout.FlowBlock
	for _, row := range table.Children {
		if row.Kind != TableRow {
			continue
		}
		b := layout.FlowBlock{Kind: layout.TableRow, Style: st, SourcePage: page}
		for _, cell := range row.Children {
			if cell.Kind != TableCell {
				continue
			}
			b.Cells = append(b.Cells, inlineWords(cell.Children, st.Bold))
		}
		if !b.Empty() {
			out = append(out, b)
		}
	}
	return out
}

// segment is a piece of inline text with its resolved weight.
type segment struct {
	text string
	bold bool
}

// segments flattens inline nodes, threading the inherited weight.
func segments(nodes []*Node, bold bool) []segment {
	var out []segment
	for _, n := range nodes {
		switch n.Kind {
		case Text:
			out = append(out, segment{n.Text, bold})
		case Break:
			out = append(out, segment{" ", bold})
		case Bold:
			out = append(out, segments(n.Children, true)...)
		default:
			out = append(out, segment{" ", bold})
			out = append(out, segments(n.Children, bold)...)
			out = append(out, segment{" ", bold})
		}
	}
	return out
}

// inlineWords splits inline content into words. Text that continues a word
// across an element boundary, as in "foo<b>bar</b>", stays one word.
func inlineWords(nodes []*Node, bold bool) []layout.Word {
	var words []layout.Word
	glue := false
	for _, seg := range segments(nodes, bold) {
		if seg.text == "" {
			continue
		}
		fields := strings.Fields(seg.text)
		startsSpace := isSpace(seg.text[0])
		for i, f := range fields {
			if i == 0 && glue && !startsSpace && len(words) > 0 {
				words[len(words)-1].Text += f
				continue
			}
			words = append(words, layout.Word{Text: f, Bold: seg.bold})
		}
		if len(fields) > 0 {
			glue = !isSpace(seg.text[len(seg.text)-1])
		} else {
			glue = false
		}
	}
	return words
}
