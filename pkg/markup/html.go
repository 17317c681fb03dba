package markup

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// ParseHTML converts an HTML document into a markup tree.
// The document charset is taken from a BOM or meta declaration, UTF-8 otherwise.
func ParseHTML(data []byte) (*Node, error) {
	r, err := charset.NewReader(bytes.NewReader(data), "text/html")
	if err != nil {
		return nil, fmt.Errorf("detecting charset: %w", err)
	}
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	doc := NewNode(Document)
	body := findElement(root, "body")
	if body == nil {
		body = root
	}
	appendBlocks(doc, body)
	return doc, nil
}

// appendBlocks converts the children of n into block nodes of parent.
// Loose inline content is gathered into implicit paragraphs.
func appendBlocks(parent *Node, n *html.Node) {
	var para *Node
	flush := func() {
		if para != nil && para.PlainText() != "" {
			parent.Append(para)
		}
		para = nil
	}
	inline := func(c *html.Node) {
		if para == nil {
			para = NewNode(Paragraph)
		}
		appendInline(para, c)
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case c.Type == html.TextNode:
			inline(c)
		case c.Type != html.ElementNode || skipElement(c.Data):
		case isBlock(c.Data):
			flush()
			if breaks(c, "before") {
				parent.Append(NewNode(PageBreak))
			}
			appendBlock(parent, c)
			if breaks(c, "after") {
				parent.Append(NewNode(PageBreak))
			}
		default:
			inline(c)
		}
	}
	flush()
}

func appendBlock(parent *Node, n *html.Node) {
	switch n.Data {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		h := &Node{Kind: Heading, Level: int(n.Data[1] - '0')}
		appendInlineChildren(h, n)
		parent.Append(h)
	case "p", "pre", "dt", "dd", "caption", "figcaption":
		p := NewNode(Paragraph)
		appendInlineChildren(p, n)
		parent.Append(p)
	case "ul", "ol", "menu":
		list := &Node{Kind: List, Ordered: n.Data == "ol"}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode || c.Data != "li" {
				continue
			}
			item := NewNode(ListItem)
			appendBlocks(item, c)
			list.Append(item)
		}
		parent.Append(list)
	case "li":
		item := NewNode(ListItem)
		appendBlocks(item, n)
		parent.Append(NewNode(List, item))
	case "table":
		parent.Append(parseTable(n))
	case "hr":
	default:
		appendBlocks(parent, n)
	}
}

func parseTable(n *html.Node) *Node {
	table := NewNode(Table)
	var rows func(*html.Node)
	rows = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.Data {
			case "thead", "tbody", "tfoot":
				rows(c)
			case "tr":
				row := NewNode(TableRow)
				for td := c.FirstChild; td != nil; td = td.NextSibling {
					if td.Type != html.ElementNode || (td.Data != "td" && td.Data != "th") {
						continue
					}
					cell := NewNode(TableCell)
					target := cell
					if td.Data == "th" {
						target = NewNode(Bold)
						cell.Append(target)
					}
					appendInlineChildren(target, td)
					row.Append(cell)
				}
				table.Append(row)
			}
		}
	}
	rows(n)
	return table
}

func appendInlineChildren(parent *Node, n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		appendInline(parent, c)
	}
}

// appendInline converts n into inline nodes of parent. Unknown elements are
// transparent.
func appendInline(parent *Node, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		if s := collapseSpace(n.Data); s != "" {
			parent.Append(NewText(s))
		}
		return
	case html.ElementNode:
	default:
		return
	}
	if skipElement(n.Data) {
		return
	}
	switch n.Data {
	case "b", "strong":
		b := NewNode(Bold)
		appendInlineChildren(b, n)
		parent.Append(b)
	case "br":
		parent.Append(NewNode(Break))
	default:
		if isBlock(n.Data) {
			parent.Append(NewNode(Break))
		}
		appendInlineChildren(parent, n)
	}
}

// collapseSpace folds whitespace runs into single spaces, keeping one
// leading or trailing space when present.
func collapseSpace(s string) string {
	if s == "" {
		return ""
	}
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return " "
	}
	out := strings.Join(fields, " ")
	if isSpace(s[0]) {
		out = " " + out
	}
	if isSpace(s[len(s)-1]) {
		out += " "
	}
	return out
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f'
}

// breaks reports whether the CSS of n forces a page break on the given side.
func breaks(n *html.Node, side string) bool {
	style := strings.ToLower(strings.Join(strings.Fields(getAttrVal(n, "style")), ""))
	if style == "" {
		return false
	}
	return strings.Contains(style, "page-break-"+side+":always") ||
		strings.Contains(style, "break-"+side+":page")
}

var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true, "body": true,
	"caption": true, "center": true, "dd": true, "details": true, "dialog": true,
	"div": true, "dl": true, "dt": true, "fieldset": true, "figcaption": true,
	"figure": true, "footer": true, "form": true, "h1": true, "h2": true,
	"h3": true, "h4": true, "h5": true, "h6": true, "header": true, "hr": true,
	"li": true, "main": true, "menu": true, "nav": true, "ol": true, "p": true,
	"pre": true, "section": true, "summary": true, "table": true, "ul": true,
}

func isBlock(tag string) bool {
	return blockElements[tag]
}

func skipElement(tag string) bool {
	switch tag {
	case "head", "script", "style", "noscript", "template", "svg", "iframe", "object":
		return true
	}
	return false
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func getAttrVal(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}
