package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gardar/reflow/pkg/layout"
)

func TestNodePlainText(t *testing.T) {
	doc := NewNode(Document,
		&Node{Kind: Heading, Level: 1, Children: []*Node{NewText("Title")}},
		NewNode(Paragraph, NewText("one"), NewNode(Break), NewNode(Bold, NewText("two"))),
	)
	assert.Equal(t, "Title one two", doc.PlainText())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "TableCell", TableCell.String())
	assert.Equal(t, "Unknown", Kind(99).String())
	assert.True(t, Bold.Inline())
	assert.False(t, Paragraph.Inline())
}

func TestResolveThreadsStyle(t *testing.T) {
	sheet := DefaultSheet()
	doc := NewNode(Document,
		NewNode(Paragraph, NewNode(Bold, NewText("all "), NewText("bold"))),
		NewNode(Paragraph, NewText("plain")),
		&Node{Kind: Heading, Level: 9, Children: []*Node{NewText("deep")}},
		NewNode(Paragraph),
	)
	blocks := Resolve(doc, sheet)
	assert.Len(t, blocks, 3)

	assert.Equal(t, []layout.Word{{Text: "all", Bold: true}, {Text: "bold", Bold: true}}, blocks[0].Words)
	assert.Equal(t, []layout.Word{{Text: "plain"}}, blocks[1].Words)
	assert.Equal(t, 6, blocks[2].Level)
	assert.Equal(t, 11.0, blocks[2].Style.Size)
}
