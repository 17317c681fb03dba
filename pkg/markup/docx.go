package markup

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseDOCX converts the main story of a WordprocessingML package into a
// markup tree. Headers, footers, notes and comments are ignored.
func ParseDOCX(data []byte) (*Node, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening DOCX: %w", err)
	}

	var docFile, stylesFile, numberingFile *zip.File
	for _, f := range zr.File {
		switch f.Name {
		case "word/document.xml":
			docFile = f
		case "word/styles.xml":
			stylesFile = f
		case "word/numbering.xml":
			numberingFile = f
		}
	}
	if docFile == nil {
		return nil, fmt.Errorf("opening DOCX: word/document.xml not found")
	}

	p := &docxParser{doc: NewNode(Document), headings: map[string]int{}, formats: map[string]map[int]string{}}
	if stylesFile != nil {
		if err := p.readStyles(stylesFile); err != nil {
			return nil, err
		}
	}
	if numberingFile != nil {
		if err := p.readNumbering(numberingFile); err != nil {
			return nil, err
		}
	}

	rc, err := docFile.Open()
	if err != nil {
		return nil, fmt.Errorf("opening document.xml: %w", err)
	}
	defer rc.Close()
	if err := p.parse(rc); err != nil {
		return nil, err
	}
	return p.doc, nil
}

type stylesXML struct {
	Styles []struct {
		Type    string `xml:"type,attr"`
		StyleID string `xml:"styleId,attr"`
		Name    struct {
			Val string `xml:"val,attr"`
		} `xml:"name"`
		PPr struct {
			OutlineLvl struct {
				Val string `xml:"val,attr"`
			} `xml:"outlineLvl"`
		} `xml:"pPr"`
	} `xml:"style"`
}

// readStyles records paragraph styles that carry an outline level.
func (p *docxParser) readStyles(f *zip.File) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("opening styles.xml: %w", err)
	}
	defer rc.Close()

	var styles stylesXML
	if err := xml.NewDecoder(rc).Decode(&styles); err != nil {
		return fmt.Errorf("parsing styles.xml: %w", err)
	}
	for _, s := range styles.Styles {
		if s.Type != "" && s.Type != "paragraph" {
			continue
		}
		if lvl, err := strconv.Atoi(s.PPr.OutlineLvl.Val); err == nil && lvl >= 0 && lvl < 9 {
			p.headings[strings.ToLower(s.StyleID)] = lvl + 1
		}
	}
	return nil
}

type numberingXML struct {
	Abstract []struct {
		ID     string `xml:"abstractNumId,attr"`
		Levels []struct {
			Ilvl   int `xml:"ilvl,attr"`
			NumFmt struct {
				Val string `xml:"val,attr"`
			} `xml:"numFmt"`
		} `xml:"lvl"`
	} `xml:"abstractNum"`
	Nums []struct {
		ID         string `xml:"numId,attr"`
		AbstractID struct {
			Val string `xml:"val,attr"`
		} `xml:"abstractNumId"`
	} `xml:"num"`
}

// readNumbering records the number format of every level of every list
// instance.
func (p *docxParser) readNumbering(f *zip.File) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("opening numbering.xml: %w", err)
	}
	defer rc.Close()

	var numbering numberingXML
	if err := xml.NewDecoder(rc).Decode(&numbering); err != nil {
		return fmt.Errorf("parsing numbering.xml: %w", err)
	}
	abstract := make(map[string]map[int]string, len(numbering.Abstract))
	for _, a := range numbering.Abstract {
		levels := make(map[int]string, len(a.Levels))
		for _, l := range a.Levels {
			levels[l.Ilvl] = l.NumFmt.Val
		}
		abstract[a.ID] = levels
	}
	for _, n := range numbering.Nums {
		if levels, ok := abstract[n.AbstractID.Val]; ok {
			p.formats[n.ID] = levels
		}
	}
	return nil
}

// ordered reports whether a list level counts its items. Unknown
// instances are bullets.
func (p *docxParser) ordered(numID string, ilvl int) bool {
	switch p.formats[numID][ilvl] {
	case "", "bullet", "none":
		return false
	}
	return true
}

type docxParser struct {
	doc      *Node
	headings map[string]int            // Lower-cased style ID to heading level
	formats  map[string]map[int]string // numId to level to numFmt

	stack []string

	para    *Node
	numID   string
	ilvl    int
	list    *Node // Open list consecutive list paragraphs join
	runBold bool
	inText  bool

	tableDepth int
	table      *Node
	row        *Node
	cell       *Node
}

func (p *docxParser) push(name string) { p.stack = append(p.stack, name) }
func (p *docxParser) pop() {
	if len(p.stack) > 0 {
		p.stack = p.stack[:len(p.stack)-1]
	}
}

func (p *docxParser) parent() string {
	if len(p.stack) < 2 {
		return ""
	}
	return p.stack[len(p.stack)-2]
}

func (p *docxParser) inCtx(name string) bool {
	for _, s := range p.stack {
		if s == name {
			return true
		}
	}
	return false
}

func (p *docxParser) parse(r io.Reader) error {
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("parsing document.xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			p.push(t.Name.Local)
			p.handleStart(t)
		case xml.EndElement:
			p.handleEnd(t.Name.Local)
			p.pop()
		case xml.CharData:
			if p.inText && p.para != nil {
				p.addText(string(t))
			}
		}
	}
}

func (p *docxParser) handleStart(t xml.StartElement) {
	switch t.Name.Local {
	case "tbl":
		p.tableDepth++
		if p.tableDepth == 1 {
			p.list = nil
			p.table = NewNode(Table)
			p.doc.Append(p.table)
		}
	case "tr":
		if p.tableDepth == 1 {
			p.row = NewNode(TableRow)
		}
	case "tc":
		if p.tableDepth == 1 {
			p.cell = NewNode(TableCell)
		}

	case "p":
		p.para = NewNode(Paragraph)
		p.numID, p.ilvl = "", 0
	case "pStyle":
		if p.para != nil && p.inCtx("pPr") {
			if level := p.headingLevel(attrVal(t, "val")); level > 0 {
				p.para.Kind, p.para.Level = Heading, level
			}
		}
	case "numPr":
		if p.para != nil && p.para.Kind == Paragraph {
			p.para.Kind = ListItem
			p.para.Level = 1
		}
	case "ilvl":
		if p.para != nil && p.para.Kind == ListItem && p.inCtx("numPr") {
			if lvl, err := strconv.Atoi(attrVal(t, "val")); err == nil && lvl >= 0 {
				p.para.Level = lvl + 1
				p.ilvl = lvl
			}
		}
	case "numId":
		if p.para != nil && p.para.Kind == ListItem && p.inCtx("numPr") {
			p.numID = attrVal(t, "val")
			// Instance zero removes numbering from the paragraph.
			if p.numID == "0" {
				p.para.Kind, p.para.Level = Paragraph, 0
			}
		}
	case "pageBreakBefore":
		if p.para != nil && p.parent() == "pPr" && on(t) && p.cell == nil {
			p.list = nil
			p.doc.Append(NewNode(PageBreak))
		}

	case "r":
		p.runBold = false
	case "b":
		if p.parent() == "rPr" && p.inCtx("r") && on(t) {
			p.runBold = true
		}
	case "t":
		p.inText = p.parent() == "r"
	case "tab":
		if p.parent() == "r" && p.para != nil {
			p.addText(" ")
		}
	case "cr":
		if p.para != nil {
			p.para.Append(NewNode(Break))
		}
	case "br":
		if p.para == nil {
			break
		}
		if attrVal(t, "type") == "page" {
			p.pageBreak()
		} else {
			p.para.Append(NewNode(Break))
		}
	}
}

func (p *docxParser) handleEnd(local string) {
	switch local {
	case "t":
		p.inText = false
	case "p":
		if p.para != nil {
			p.endParagraph()
			p.para = nil
		}
	case "tc":
		if p.tableDepth == 1 && p.row != nil && p.cell != nil {
			p.row.Append(p.cell)
			p.cell = nil
		}
	case "tr":
		if p.tableDepth == 1 && p.table != nil && p.row != nil {
			p.table.Append(p.row)
			p.row = nil
		}
	case "tbl":
		p.tableDepth--
		if p.tableDepth == 0 {
			p.table = nil
		}
	}
}

func (p *docxParser) addText(s string) {
	text := NewText(s)
	if p.runBold {
		p.para.Append(NewNode(Bold, text))
		return
	}
	p.para.Append(text)
}

// endParagraph attaches the finished paragraph to its container.
func (p *docxParser) endParagraph() {
	para := p.para
	if p.cell != nil {
		if len(p.cell.Children) > 0 && len(para.Children) > 0 {
			p.cell.Append(NewNode(Break))
		}
		p.cell.Append(para.Children...)
		return
	}
	if para.Kind == ListItem {
		ordered := p.ordered(p.numID, p.ilvl)
		if p.list == nil || p.list.Ordered != ordered {
			p.list = &Node{Kind: List, Ordered: ordered}
			p.doc.Append(p.list)
		}
		p.list.Append(para)
		return
	}
	p.list = nil
	p.doc.Append(para)
}

// pageBreak splits the current paragraph around a hard page break.
func (p *docxParser) pageBreak() {
	if p.cell != nil {
		p.para.Append(NewNode(Break))
		return
	}
	kind, level := p.para.Kind, p.para.Level
	if len(p.para.Children) > 0 {
		p.endParagraph()
	}
	p.list = nil
	p.doc.Append(NewNode(PageBreak))
	p.para = &Node{Kind: kind, Level: level}
}

func (p *docxParser) headingLevel(styleID string) int {
	id := strings.ToLower(styleID)
	if id == "title" {
		return 1
	}
	if level, ok := p.headings[id]; ok {
		return min(level, 6)
	}
	if rest, ok := strings.CutPrefix(id, "heading"); ok {
		if level, err := strconv.Atoi(rest); err == nil && level > 0 {
			return min(level, 6)
		}
	}
	return 0
}

// on reports whether a toggle property such as <w:b/> is switched on.
func on(t xml.StartElement) bool {
	switch attrVal(t, "val") {
	case "0", "false", "off":
		return false
	}
	return true
}

func attrVal(t xml.StartElement, name string) string {
	for _, a := range t.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}
