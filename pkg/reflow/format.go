package reflow

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifies a document format.
type Format string

const (
	PDF  Format = "pdf"
	DOCX Format = "docx"
	PPTX Format = "pptx"
	XLSX Format = "xlsx"
	HTML Format = "html"
	HOCR Format = "hocr"
)

// Paginated reports whether text in the format sits at absolute positions on
// fixed pages.
func (f Format) Paginated() bool {
	return f == PDF || f == PPTX || f == HOCR
}

// Markup reports whether the format is flow-based markup.
func (f Format) Markup() bool {
	return f == DOCX || f == HTML
}

// Supported reports whether Convert can turn from into to.
//
// Paginated sources convert to every target. Markup sources only convert to
// the flow targets, since grids and hOCR need positions that markup lacks.
func Supported(from, to Format) bool {
	switch {
	case from.Paginated():
		return to == PDF || to == DOCX || to == PPTX || to == XLSX || to == HOCR
	case from.Markup():
		return to == PDF || to == DOCX || to == PPTX
	}
	return false
}

// ParseFormat accepts a format name or a file name with a known extension.
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if ext := filepath.Ext(name); ext != "" {
		name = ext[1:]
	}
	switch name {
	case "pdf":
		return PDF, nil
	case "docx":
		return DOCX, nil
	case "pptx":
		return PPTX, nil
	case "xlsx":
		return XLSX, nil
	case "html", "htm", "xhtml":
		return HTML, nil
	case "hocr":
		return HOCR, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}
