package hocr

// HOCR represents the entire hOCR document structure
type HOCR struct {
	Title       string            // Document title
	Description string            // Document description
	Language    string            // Document language
	Metadata    map[string]string // ocr-system, ocr-capabilities, ...
	Pages       []Page            // Pages in the document
}

// Page is one page of positioned text
// Corresponds to hOCR element with class: 'ocr_page'
type Page struct {
	ID         string            // Unique identifier
	Title      string            // Original title attribute
	PageNumber int               // Physical page number (ppageno)
	ImageName  string            // Source image filename
	Lang       string            // Language code for this page
	ScanRes    float64           // Horizontal scan resolution in dpi, zero when unknown
	BBox       BoundingBox       // Page coordinates
	Areas      []Area            // Content areas (columns)
	Paragraphs []Paragraph       // Paragraphs directly under page
	Lines      []Line            // Lines directly under page (no parent)
	Metadata   map[string]string // Other page properties
}

// Class returns the hOCR class of a page
func (Page) Class() string { return "ocr_page" }

// Area represents a content area (column or region)
// Corresponds to hOCR element with class: 'ocr_carea'
type Area struct {
	ID         string
	Lang       string
	BBox       BoundingBox
	Paragraphs []Paragraph // Paragraphs in this area
	Lines      []Line      // Lines directly under area
	Words      []Word      // Words directly under area (no line parent)
	Metadata   map[string]string
}

// Class returns the hOCR class of an area
func (Area) Class() string { return "ocr_carea" }

// Paragraph represents a paragraph within an area
// Corresponds to hOCR element with class: 'ocr_par'
type Paragraph struct {
	ID       string
	Lang     string
	BBox     BoundingBox
	Lines    []Line // Lines in this paragraph
	Words    []Word // Words directly under paragraph (no line parent)
	Metadata map[string]string
}

// Class returns the hOCR class of a paragraph
func (Paragraph) Class() string { return "ocr_par" }

// Line represents a line of text
// Corresponds to hOCR element with class: 'ocr_line'
type Line struct {
	ID       string
	Lang     string
	BBox     BoundingBox
	Baseline string  // Baseline slope and offset, verbatim
	XSize    float64 // Line height in pixels (x_size)
	Words    []Word
	Metadata map[string]string
}

// Class returns the hOCR class of a line
func (Line) Class() string { return "ocr_line" }

// Word is a positioned word with bounding box
// Corresponds to hOCR element with class: 'ocrx_word'
type Word struct {
	ID         string
	Text       string
	BBox       BoundingBox
	Confidence float64 // Recognition confidence (0-100)
	FontSize   float64 // Font size in points (x_fsize), zero when unknown
	Bold       bool    // Text wrapped in <strong> or <b>
	Lang       string
	Metadata   map[string]string
}

// Class returns the hOCR class of a word
func (Word) Class() string { return "ocrx_word" }

// BoundingBox is a rectangle in hOCR pixel space, origin top-left.
type BoundingBox struct {
	X1 float64 // Left
	Y1 float64 // Top
	X2 float64 // Right
	Y2 float64 // Bottom
}

// NewBoundingBox creates a bounding box from the x1, y1, x2, y2 values of an
// hOCR 'bbox' property.
func NewBoundingBox(x1, y1, x2, y2 float64) BoundingBox {
	return BoundingBox{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// Width of the box
func (b BoundingBox) Width() float64 { return b.X2 - b.X1 }

// Height of the box
func (b BoundingBox) Height() float64 { return b.Y2 - b.Y1 }

// IsZero reports whether the box was never set.
func (b BoundingBox) IsZero() bool {
	return b == BoundingBox{}
}
