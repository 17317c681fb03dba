// Package markup parses flow documents (HTML and DOCX) into a small tagged
// variant tree and resolves that tree into styled flow blocks.
package markup

import (
	"strings"
)

// Kind tags the variant a Node holds.
type Kind int

// Node kinds.
const (
	Document Kind = iota
	Heading
	Paragraph
	List
	ListItem
	Table
	TableRow
	TableCell
	Text
	Bold
	Break
	PageBreak
)

var kindNames = [...]string{
	Document:  "Document",
	Heading:   "Heading",
	Paragraph: "Paragraph",
	List:      "List",
	ListItem:  "ListItem",
	Table:     "Table",
	TableRow:  "TableRow",
	TableCell: "TableCell",
	Text:      "Text",
	Bold:      "Bold",
	Break:     "Break",
	PageBreak: "PageBreak",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// Node is one element of a markup tree. Which fields are meaningful depends
// on Kind: Level for Heading and ListItem, Ordered for List, Text for Text.
type Node struct {
	Kind     Kind
	Level    int
	Ordered  bool
	Text     string
	Children []*Node
}

// NewNode creates a node of the given kind with children.
func NewNode(kind Kind, children ...*Node) *Node {
	return &Node{Kind: kind, Children: children}
}

// NewText creates a Text leaf.
func NewText(s string) *Node {
	return &Node{Kind: Text, Text: s}
}

// Append adds children and returns n.
func (n *Node) Append(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

// Inline reports whether nodes of this kind live inside a block.
func (k Kind) Inline() bool {
	return k == Text || k == Bold || k == Break
}

// PlainText returns the text of n and its descendants with whitespace
// collapsed.
func (n *Node) PlainText() string {
	var sb strings.Builder
	var walk func(*Node)
	walk = func(n *Node) {
		switch n.Kind {
		case Text:
			sb.WriteString(n.Text)
		case Break:
			sb.WriteByte(' ')
		}
		for _, c := range n.Children {
			walk(c)
		}
		if !n.Kind.Inline() && n.Kind != Document {
			sb.WriteByte(' ')
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}
