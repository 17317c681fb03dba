package ooxml

import (
	"fmt"
	"math"
	"strings"
)

const (
	nsP            = "http://schemas.openxmlformats.org/presentationml/2006/main"
	relSlide       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
	relSlideMstr   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster"
	relSlideLyt    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout"
	relTheme       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme"
	ctPresentation = "application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"
	ctSlide        = "application/vnd.openxmlformats-officedocument.presentationml.slide+xml"
	ctSlideMaster  = "application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"
	ctSlideLayout  = "application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"
	ctTheme        = "application/vnd.openxmlformats-officedocument.theme+xml"
)

// PowerPoint accepts slide sides between 1 and 56 inches.
const (
	minSlideEMU = 914400
	maxSlideEMU = 51206400
)

// TextBox is a positioned text shape. Coordinates are EMU from the top-left
// corner of the slide.
type TextBox struct {
	X, Y          int64
	Width, Height int64
	Paragraphs    [][]Run
}

// Slide is one slide of a presentation.
type Slide struct {
	boxes []TextBox
}

// AddTextBox appends a text box to the slide.
func (s *Slide) AddTextBox(tb TextBox) {
	s.boxes = append(s.boxes, tb)
}

// TextBoxes returns the boxes added so far.
func (s *Slide) TextBoxes() []TextBox {
	return s.boxes
}

// Presentation builds a .pptx package in memory.
type Presentation struct {
	width, height int64
	slides        []*Slide
}

// NewPresentation creates an empty deck with slides of the given size in EMU.
func NewPresentation(width, height int64) *Presentation {
	return &Presentation{width: width, height: height}
}

// AddSlide appends an empty slide and returns it.
func (p *Presentation) AddSlide() *Slide {
	s := &Slide{}
	p.slides = append(p.slides, s)
	return s
}

// Len returns the number of slides.
func (p *Presentation) Len() int {
	return len(p.slides)
}

// Bytes renders the package.
func (p *Presentation) Bytes() ([]byte, error) {
	if p.width < minSlideEMU || p.width > maxSlideEMU || p.height < minSlideEMU || p.height > maxSlideEMU {
		return nil, fmt.Errorf("slide size %dx%d EMU: %w", p.width, p.height, ErrInvalidGeometry)
	}

	overrides := []override{
		{"/ppt/presentation.xml", ctPresentation},
		{"/ppt/slideMasters/slideMaster1.xml", ctSlideMaster},
		{"/ppt/slideLayouts/slideLayout1.xml", ctSlideLayout},
		{"/ppt/theme/theme1.xml", ctTheme},
	}
	presRels := []relationship{
		{"rId1", relSlideMstr, "slideMasters/slideMaster1.xml"},
		{"rId2", relTheme, "theme/theme1.xml"},
	}
	var slideParts []part
	var ids strings.Builder
	for i, s := range p.slides {
		n := i + 1
		body, err := s.render(n)
		if err != nil {
			return nil, err
		}
		rid := fmt.Sprintf("rId%d", n+2)
		overrides = append(overrides, override{fmt.Sprintf("/ppt/slides/slide%d.xml", n), ctSlide})
		presRels = append(presRels, relationship{rid, relSlide, fmt.Sprintf("slides/slide%d.xml", n)})
		fmt.Fprintf(&ids, `<p:sldId id="%d" r:id="%s"/>`, 255+n, rid)
		slideParts = append(slideParts,
			part{fmt.Sprintf("ppt/slides/slide%d.xml", n), body},
			part{fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", n), relationships(relationship{"rId1", relSlideLyt, "../slideLayouts/slideLayout1.xml"})},
		)
	}

	var pres strings.Builder
	pres.WriteString(xmlHeader)
	pres.WriteString(`<p:presentation xmlns:a="` + nsA + `" xmlns:r="` + nsR + `" xmlns:p="` + nsP + `">`)
	pres.WriteString(`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>`)
	if ids.Len() > 0 {
		pres.WriteString(`<p:sldIdLst>` + ids.String() + `</p:sldIdLst>`)
	}
	fmt.Fprintf(&pres, `<p:sldSz cx="%d" cy="%d"/><p:notesSz cx="6858000" cy="9144000"/>`, p.width, p.height)
	pres.WriteString(`</p:presentation>`)

	parts := []part{
		{"[Content_Types].xml", contentTypes(overrides...)},
		{"_rels/.rels", relationships(relationship{"rId1", relOfficeDoc, "ppt/presentation.xml"})},
		{"ppt/presentation.xml", pres.String()},
		{"ppt/_rels/presentation.xml.rels", relationships(presRels...)},
		{"ppt/slideMasters/slideMaster1.xml", slideMaster},
		{"ppt/slideMasters/_rels/slideMaster1.xml.rels", relationships(
			relationship{"rId1", relSlideLyt, "../slideLayouts/slideLayout1.xml"},
			relationship{"rId2", relTheme, "../theme/theme1.xml"},
		)},
		{"ppt/slideLayouts/slideLayout1.xml", slideLayout},
		{"ppt/slideLayouts/_rels/slideLayout1.xml.rels", relationships(
			relationship{"rId1", relSlideMstr, "../slideMasters/slideMaster1.xml"},
		)},
		{"ppt/theme/theme1.xml", theme},
	}
	return writePackage(append(parts, slideParts...))
}

func (s *Slide) render(n int) (string, error) {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	sb.WriteString(`<p:sld xmlns:a="` + nsA + `" xmlns:r="` + nsR + `" xmlns:p="` + nsP + `"><p:cSld><p:spTree>`)
	sb.WriteString(emptyGroup)
	for i, tb := range s.boxes {
		if tb.Width < 0 || tb.Height < 0 {
			return "", fmt.Errorf("slide %d text box %d extent %dx%d: %w", n, i+1, tb.Width, tb.Height, ErrInvalidGeometry)
		}
		id := i + 2
		fmt.Fprintf(&sb, `<p:sp><p:nvSpPr><p:cNvPr id="%d" name="TextBox %d"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>`, id, id-1)
		fmt.Fprintf(&sb, `<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom><a:noFill/></p:spPr>`,
			tb.X, tb.Y, tb.Width, tb.Height)
		sb.WriteString(`<p:txBody><a:bodyPr wrap="none" lIns="0" tIns="0" rIns="0" bIns="0"><a:noAutofit/></a:bodyPr><a:lstStyle/>`)
		if len(tb.Paragraphs) == 0 {
			sb.WriteString(`<a:p><a:endParaRPr lang="en-US"/></a:p>`)
		}
		for _, para := range tb.Paragraphs {
			sb.WriteString(`<a:p>`)
			for _, r := range para {
				writeDrawingRun(&sb, r)
			}
			sb.WriteString(`</a:p>`)
		}
		sb.WriteString(`</p:txBody></p:sp>`)
	}
	sb.WriteString(`</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sld>`)
	return sb.String(), nil
}

func writeDrawingRun(sb *strings.Builder, r Run) {
	sb.WriteString(`<a:r><a:rPr lang="en-US"`)
	if r.Size > 0 {
		fmt.Fprintf(sb, ` sz="%d"`, int(math.Round(r.Size*100)))
	}
	if r.Bold {
		sb.WriteString(` b="1"`)
	}
	sb.WriteString(` dirty="0"/>`)
	sb.WriteString(`<a:t>` + escape(r.Text) + `</a:t></a:r>`)
}

const emptyGroup = `<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>` +
	`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>`

const slideMaster = xmlHeader + `<p:sldMaster xmlns:a="` + nsA + `" xmlns:r="` + nsR + `" xmlns:p="` + nsP + `">` +
	`<p:cSld><p:bg><p:bgRef idx="1001"><a:schemeClr val="bg1"/></p:bgRef></p:bg><p:spTree>` + emptyGroup + `</p:spTree></p:cSld>` +
	`<p:clrMap bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" accent3="accent3" accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/>` +
	`<p:sldLayoutIdLst><p:sldLayoutId id="2147483649" r:id="rId1"/></p:sldLayoutIdLst>` +
	`<p:txStyles><p:titleStyle><a:lvl1pPr><a:defRPr sz="4400"/></a:lvl1pPr></p:titleStyle><p:bodyStyle><a:lvl1pPr><a:defRPr sz="1800"/></a:lvl1pPr></p:bodyStyle><p:otherStyle><a:lvl1pPr><a:defRPr sz="1800"/></a:lvl1pPr></p:otherStyle></p:txStyles>` +
	`</p:sldMaster>`

const slideLayout = xmlHeader + `<p:sldLayout xmlns:a="` + nsA + `" xmlns:r="` + nsR + `" xmlns:p="` + nsP + `" type="blank" preserve="1">` +
	`<p:cSld name="Blank"><p:spTree>` + emptyGroup + `</p:spTree></p:cSld>` +
	`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sldLayout>`

const theme = xmlHeader + `<a:theme xmlns:a="` + nsA + `" name="Office Theme"><a:themeElements>` +
	`<a:clrScheme name="Office">` +
	`<a:dk1><a:sysClr val="windowText" lastClr="000000"/></a:dk1><a:lt1><a:sysClr val="window" lastClr="FFFFFF"/></a:lt1>` +
	`<a:dk2><a:srgbClr val="44546A"/></a:dk2><a:lt2><a:srgbClr val="E7E6E6"/></a:lt2>` +
	`<a:accent1><a:srgbClr val="4472C4"/></a:accent1><a:accent2><a:srgbClr val="ED7D31"/></a:accent2>` +
	`<a:accent3><a:srgbClr val="A5A5A5"/></a:accent3><a:accent4><a:srgbClr val="FFC000"/></a:accent4>` +
	`<a:accent5><a:srgbClr val="5B9BD5"/></a:accent5><a:accent6><a:srgbClr val="70AD47"/></a:accent6>` +
	`<a:hlink><a:srgbClr val="0563C1"/></a:hlink><a:folHlink><a:srgbClr val="954F72"/></a:folHlink>` +
	`</a:clrScheme>` +
	`<a:fontScheme name="Office">` +
	`<a:majorFont><a:latin typeface="Helvetica"/><a:ea typeface=""/><a:cs typeface=""/></a:majorFont>` +
	`<a:minorFont><a:latin typeface="Helvetica"/><a:ea typeface=""/><a:cs typeface=""/></a:minorFont>` +
	`</a:fontScheme>` +
	`<a:fmtScheme name="Office">` +
	`<a:fillStyleLst><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:fillStyleLst>` +
	`<a:lnStyleLst><a:ln w="6350"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln><a:ln w="12700"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln><a:ln w="19050"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln></a:lnStyleLst>` +
	`<a:effectStyleLst><a:effectStyle><a:effectLst/></a:effectStyle><a:effectStyle><a:effectLst/></a:effectStyle><a:effectStyle><a:effectLst/></a:effectStyle></a:effectStyleLst>` +
	`<a:bgFillStyleLst><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:bgFillStyleLst>` +
	`</a:fmtScheme></a:themeElements></a:theme>`
