package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/gardar/reflow/pkg/layout"
)

// Slide defaults when the deck does not state them.
const (
	defaultSlideCX  = 9144000 // 10in
	defaultSlideCY  = 6858000 // 7.5in
	defaultSlideTxt = 18.0    // Points, the default body size
	slideLineFactor = 1.2
)

var slidePathRE = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// PPTX is a slide deck opened for extraction.
type PPTX struct {
	width, height float64 // Points
	slides        []*zip.File
}

// OpenPPTX reads the slide size and slide order of a deck held in memory.
//
// Slides follow the presentation's slide list. Decks without a usable list
// fall back to the numbers in the slide part names.
func OpenPPTX(data []byte) (*PPTX, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening PPTX: %w", err)
	}

	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}
	pres, ok := files["ppt/presentation.xml"]
	if !ok {
		return nil, fmt.Errorf("opening PPTX: ppt/presentation.xml not found")
	}
	var p presentationXML
	if err := unmarshalPart(pres, &p); err != nil {
		return nil, fmt.Errorf("parsing presentation.xml: %w", err)
	}

	cx, cy := int64(defaultSlideCX), int64(defaultSlideCY)
	if p.SlideSize != nil && p.SlideSize.Cx > 0 && p.SlideSize.Cy > 0 {
		cx, cy = p.SlideSize.Cx, p.SlideSize.Cy
	}
	deck := &PPTX{width: float64(cx) / layout.EMUPerPoint, height: float64(cy) / layout.EMUPerPoint}

	deck.slides, err = listedSlides(p, files)
	if err != nil {
		return nil, err
	}
	if deck.slides == nil {
		deck.slides = numberedSlides(zr.File)
	}
	return deck, nil
}

type presentationXML struct {
	XMLName   xml.Name      `xml:"presentation"`
	SlideIDs  []slideIDXML  `xml:"sldIdLst>sldId"`
	SlideSize *slideSizeXML `xml:"sldSz"`
}

type slideSizeXML struct {
	Cx int64 `xml:"cx,attr"` // EMU
	Cy int64 `xml:"cy,attr"`
}

type slideIDXML struct {
	RID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
}

type relationshipsXML struct {
	Relationships []struct {
		ID     string `xml:"Id,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

// listedSlides resolves the slide list of the presentation through its
// relationships. It returns nil when the deck has no list or when any entry
// cannot be resolved.
func listedSlides(p presentationXML, files map[string]*zip.File) ([]*zip.File, error) {
	relsFile, ok := files["ppt/_rels/presentation.xml.rels"]
	if len(p.SlideIDs) == 0 || !ok {
		return nil, nil
	}
	var rels relationshipsXML
	if err := unmarshalPart(relsFile, &rels); err != nil {
		return nil, fmt.Errorf("parsing presentation.xml.rels: %w", err)
	}
	targets := make(map[string]string, len(rels.Relationships))
	for _, r := range rels.Relationships {
		targets[r.ID] = r.Target
	}

	slides := make([]*zip.File, 0, len(p.SlideIDs))
	for _, id := range p.SlideIDs {
		f, ok := files[partName("ppt", targets[id.RID])]
		if id.RID == "" || !ok {
			return nil, nil
		}
		slides = append(slides, f)
	}
	return slides, nil
}

// partName resolves a relationship target against the folder of its source
// part. Absolute targets are rooted at the package.
func partName(dir, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Join(dir, target)
}

// numberedSlides orders the slide parts by the number in their names.
func numberedSlides(all []*zip.File) []*zip.File {
	type slideEntry struct {
		num  int
		file *zip.File
	}
	var entries []slideEntry
	for _, f := range all {
		if m := slidePathRE.FindStringSubmatch(f.Name); m != nil {
			n, _ := strconv.Atoi(m[1])
			entries = append(entries, slideEntry{n, f})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].num < entries[j].num })

	slides := make([]*zip.File, len(entries))
	for i, e := range entries {
		slides[i] = e.file
	}
	return slides
}

func unmarshalPart(f *zip.File, v any) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	return xml.NewDecoder(rc).Decode(v)
}

// Pages returns the number of slides.
func (d *PPTX) Pages() int {
	return len(d.slides)
}

// Page extracts one atom per non-empty paragraph of every positioned shape
// on slide i.
func (d *PPTX) Page(i int) (PageRuns, error) {
	rc, err := d.slides[i].Open()
	if err != nil {
		return PageRuns{}, pageError("PPTX slide", i, err)
	}
	defer rc.Close()

	shapes, err := parseSlideShapes(rc)
	if err != nil {
		return PageRuns{}, pageError("PPTX slide", i, err)
	}

	pr := PageRuns{Index: i, Width: d.width, Height: d.height}
	m := layout.NewMapper(d.height, layout.EMUPerPoint)
	for _, sh := range shapes {
		top := float64(sh.offY)
		for _, para := range sh.paragraphs {
			size := para.size
			if size <= 0 {
				size = defaultSlideTxt
			}
			if !sh.placed {
				if _, ok := newRun(para.text.String(), 0, 0, size, false, i); ok {
					pr.Skipped++
				}
				continue
			}
			x, y := m.FromTarget(float64(sh.offX), top, m.Length(size))
			if r, ok := newRun(para.text.String(), x, y, size, para.bold(), i); ok {
				pr.Runs = append(pr.Runs, r)
			}
			top += m.Length(size * slideLineFactor)
		}
	}
	return pr, nil
}

type slidePara struct {
	text     bytes.Buffer
	size     float64 // Largest run size in points
	runs     int
	boldRuns int
}

func (p *slidePara) bold() bool {
	return p.runs > 0 && p.boldRuns == p.runs
}

type slideShape struct {
	placed     bool
	offX, offY int64
	paragraphs []*slidePara
}

// parseSlideShapes stream-parses a slide, collecting the offset and
// paragraphs of every p:sp. Group transforms are not applied.
func parseSlideShapes(r io.Reader) ([]slideShape, error) {
	dec := xml.NewDecoder(r)
	var (
		shapes []slideShape
		stack  []string
		shape  *slideShape
		para   *slidePara
		inText bool
	)
	parent := func() string {
		if len(stack) < 2 {
			return ""
		}
		return stack[len(stack)-2]
	}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing slide: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			stack = append(stack, t.Name.Local)
			switch t.Name.Local {
			case "sp":
				shape = &slideShape{}
			case "off":
				if shape != nil && parent() == "xfrm" && len(stack) >= 3 && stack[len(stack)-3] == "spPr" {
					x, errX := strconv.ParseInt(attrVal(t, "x"), 10, 64)
					y, errY := strconv.ParseInt(attrVal(t, "y"), 10, 64)
					if errX == nil && errY == nil {
						shape.placed, shape.offX, shape.offY = true, x, y
					}
				}
			case "p":
				if shape != nil && parent() == "txBody" {
					para = &slidePara{}
				}
			case "rPr", "endParaRPr":
				if para == nil {
					break
				}
				if sz, err := strconv.ParseFloat(attrVal(t, "sz"), 64); err == nil && sz > 0 && sz/layout.CentiPointsPerPoint > para.size {
					para.size = sz / layout.CentiPointsPerPoint
				}
				if t.Name.Local == "rPr" {
					if b := attrVal(t, "b"); b == "1" || b == "true" {
						para.boldRuns++
					}
				}
			case "r":
				if para != nil {
					para.runs++
				}
			case "t":
				inText = para != nil
			case "br":
				if para != nil {
					para.text.WriteByte(' ')
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if shape != nil && para != nil && parent() == "txBody" {
					shape.paragraphs = append(shape.paragraphs, para)
					para = nil
				}
			case "sp":
				if shape != nil {
					shapes = append(shapes, *shape)
					shape = nil
				}
			}
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			if inText {
				para.text.Write(t)
			}
		}
	}
	return shapes, nil
}

func attrVal(t xml.StartElement, name string) string {
	for _, a := range t.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}
