package hocr

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/encoding/charmap"
)

// ParseHOCR converts raw hOCR data into a structured HOCR object.
func ParseHOCR(data []byte) (HOCR, error) {
	result := HOCR{Metadata: make(map[string]string)}

	decoded, err := decodeCharset(data)
	if err != nil {
		return result, err
	}

	doc, err := html.Parse(bytes.NewReader(decoded))
	if err != nil {
		return result, fmt.Errorf("parsing hOCR HTML: %w", err)
	}

	extractDocumentMeta(&result, doc)

	for _, n := range collect(doc, "ocr_page") {
		result.Pages = append(result.Pages, processPage(n))
	}
	if len(result.Pages) == 0 {
		return result, fmt.Errorf("no ocr_page elements found in hOCR data")
	}
	return result, nil
}

// decodeCharset converts Latin-1 and Windows-1252 declared documents to UTF-8.
func decodeCharset(data []byte) ([]byte, error) {
	content := strings.ToLower(string(data[:min(len(data), 2048)]))
	idx := strings.Index(content, "charset=")
	if idx < 0 {
		return data, nil
	}
	enc := strings.FieldsFunc(content[idx+len("charset="):], func(r rune) bool {
		return r == '"' || r == ';' || r == '\'' || r == '>' || r == ' ' || r == '/'
	})
	if len(enc) == 0 {
		return data, nil
	}
	var cm *charmap.Charmap
	switch enc[0] {
	case "iso-8859-1", "latin1", "latin-1":
		cm = charmap.ISO8859_1
	case "windows-1252", "cp1252":
		cm = charmap.Windows1252
	}
	if cm != nil {
		decoded, err := cm.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", enc[0], err)
		}
		return decoded, nil
	}
	return data, nil
}

// ParseTitle breaks down an hOCR title attribute into its components
// Example input: "bbox 100 200 300 400; x_wconf 95"
func ParseTitle(title string) map[string][]string {
	result := make(map[string][]string)
	for _, part := range strings.Split(title, ";") {
		items := strings.Fields(part)
		if len(items) > 0 {
			result[items[0]] = items[1:]
		}
	}
	return result
}

// ParseBoundingBoxFromTitle extracts a bounding box from a title string
// Returns nil if the title carries no usable bbox
func ParseBoundingBoxFromTitle(title string) *BoundingBox {
	bbox, ok := ParseTitle(title)["bbox"]
	if !ok || len(bbox) < 4 {
		return nil
	}
	var v [4]float64
	for i := range v {
		f, err := strconv.ParseFloat(bbox[i], 64)
		if err != nil {
			return nil
		}
		v[i] = f
	}
	result := NewBoundingBox(v[0], v[1], v[2], v[3])
	return &result
}

// element holds the attributes every hOCR element shares.
type element struct {
	id    string
	lang  string
	title string
	bbox  BoundingBox
	props map[string][]string
}

func readElement(n *html.Node) element {
	e := element{
		id:    getAttrVal(n, "id"),
		lang:  getAttrVal(n, "lang"),
		title: getAttrVal(n, "title"),
	}
	e.props = ParseTitle(e.title)
	if bbox := ParseBoundingBoxFromTitle(e.title); bbox != nil {
		e.bbox = *bbox
	}
	return e
}

// metadata returns the title properties not listed in skip.
func (e element) metadata(skip ...string) map[string]string {
	md := make(map[string]string)
	for k, v := range e.props {
		if k == "bbox" || contains(skip, k) {
			continue
		}
		md[k] = strings.Join(v, " ")
	}
	return md
}

func (e element) float(key string) float64 {
	v, ok := e.props[key]
	if !ok || len(v) == 0 {
		return 0
	}
	f, _ := strconv.ParseFloat(v[0], 64)
	return f
}

// extractDocumentMeta extracts document-level metadata from the head section
func extractDocumentMeta(result *HOCR, doc *html.Node) {
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "html" {
			if lang := getAttrVal(c, "lang"); lang != "" {
				result.Language = lang
			} else if lang := getAttrVal(c, "xml:lang"); lang != "" {
				result.Language = lang
			}
		}
	}

	head := findElement(doc, "head")
	if head == nil {
		return
	}
	for c := head.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "title":
			if c.FirstChild != nil {
				result.Title = c.FirstChild.Data
			}
		case "meta":
			name, content := getAttrVal(c, "name"), getAttrVal(c, "content")
			if name == "" || content == "" {
				continue
			}
			switch {
			case strings.HasPrefix(name, "ocr-"):
				result.Metadata[name] = content
			case name == "description":
				result.Description = content
			case name == "dc.language":
				result.Language = content
			}
		}
	}
}

// processPage extracts page information and its children
func processPage(n *html.Node) Page {
	e := readElement(n)
	page := Page{
		ID:       e.id,
		Title:    e.title,
		Lang:     e.lang,
		BBox:     e.bbox,
		Metadata: e.metadata("image", "ppageno", "scan_res"),
	}
	if image, ok := e.props["image"]; ok && len(image) > 0 {
		page.ImageName = strings.Trim(image[0], `"`)
	}
	if ppageno, ok := e.props["ppageno"]; ok && len(ppageno) > 0 {
		page.PageNumber, _ = strconv.Atoi(ppageno[0])
	}
	page.ScanRes = e.float("scan_res")

	for _, c := range collectChildren(n, "ocr_carea", "ocr_par", "ocr_line") {
		switch class := getAttrVal(c, "class"); {
		case hasClass(class, "ocr_carea"):
			page.Areas = append(page.Areas, processArea(c))
		case hasClass(class, "ocr_par"):
			page.Paragraphs = append(page.Paragraphs, processParagraph(c))
		default:
			page.Lines = append(page.Lines, processLine(c))
		}
	}
	return page
}

// processArea extracts area information and its children
func processArea(n *html.Node) Area {
	e := readElement(n)
	area := Area{ID: e.id, Lang: e.lang, BBox: e.bbox, Metadata: e.metadata()}

	for _, c := range collectChildren(n, "ocr_par", "ocr_line", "ocrx_word") {
		switch class := getAttrVal(c, "class"); {
		case hasClass(class, "ocr_par"):
			area.Paragraphs = append(area.Paragraphs, processParagraph(c))
		case hasClass(class, "ocrx_word"):
			area.Words = append(area.Words, processWord(c))
		default:
			area.Lines = append(area.Lines, processLine(c))
		}
	}
	return area
}

// processParagraph extracts paragraph information and its children
func processParagraph(n *html.Node) Paragraph {
	e := readElement(n)
	par := Paragraph{ID: e.id, Lang: e.lang, BBox: e.bbox, Metadata: e.metadata()}

	for _, c := range collectChildren(n, "ocr_line", "ocrx_word") {
		if hasClass(getAttrVal(c, "class"), "ocrx_word") {
			par.Words = append(par.Words, processWord(c))
		} else {
			par.Lines = append(par.Lines, processLine(c))
		}
	}
	return par
}

// processLine extracts line information and its words.
// Tesseract also emits ocr_header, ocr_caption and ocr_textfloat lines.
func processLine(n *html.Node) Line {
	e := readElement(n)
	line := Line{
		ID:       e.id,
		Lang:     e.lang,
		BBox:     e.bbox,
		XSize:    e.float("x_size"),
		Metadata: e.metadata("baseline", "x_size"),
	}
	if baseline, ok := e.props["baseline"]; ok {
		line.Baseline = strings.Join(baseline, " ")
	}
	for _, c := range collectChildren(n, "ocrx_word") {
		line.Words = append(line.Words, processWord(c))
	}
	return line
}

// processWord extracts a word's text and properties
func processWord(n *html.Node) Word {
	e := readElement(n)
	word := Word{
		ID:         e.id,
		Lang:       e.lang,
		BBox:       e.bbox,
		Confidence: e.float("x_wconf"),
		FontSize:   e.float("x_fsize"),
		Bold:       findElement(n, "strong") != nil || findElement(n, "b") != nil,
		Metadata:   e.metadata("x_wconf", "x_fsize", "lang"),
	}
	if lang, ok := e.props["lang"]; ok && len(lang) > 0 {
		word.Lang = lang[0]
	}
	word.Text = extractTextContent(n)
	return word
}

// extractTextContent gets all text from a node and its children
func extractTextContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(sb.String())
}

// collect finds the outermost descendants of n carrying class.
func collect(n *html.Node, class string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(getAttrVal(n, "class"), class) {
			out = append(out, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

// collectChildren finds the nearest descendants of n carrying any of classes,
// in document order, without descending into a match.
func collectChildren(n *html.Node, classes ...string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode {
			class := getAttrVal(node, "class")
			for _, want := range classes {
				if hasClass(class, want) || (want == "ocr_line" && isLineClass(class)) {
					out = append(out, node)
					return
				}
			}
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return out
}

func isLineClass(class string) bool {
	return hasClass(class, "ocr_header") || hasClass(class, "ocr_caption") || hasClass(class, "ocr_textfloat")
}

func hasClass(class, want string) bool {
	for _, c := range strings.Fields(class) {
		if c == want {
			return true
		}
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

// Get the value of a specific attribute from a node
func getAttrVal(n *html.Node, attrName string) string {
	for _, attr := range n.Attr {
		if attr.Key == attrName {
			return attr.Val
		}
	}
	return ""
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
