package reflow

import (
	"archive/zip"
	"bytes"
	"fmt"
	"net/http"
	"regexp"
	"strings"
)

// sniffLen is how much of the input is inspected for text signatures.
const sniffLen = 4096

var (
	pdfHeader  = regexp.MustCompile(`%PDF-\d\.\d`)
	hocrPage   = regexp.MustCompile(`class\s*=\s*["'][^"']*\bocr_page\b`)
	htmlMarker = regexp.MustCompile(`(?i)<(!doctype\s+html|html|head|body)[\s>]`)
)

// ooxmlParts maps the main part of each OOXML package to its format.
var ooxmlParts = []struct {
	name   string
	format Format
}{
	{"word/document.xml", DOCX},
	{"ppt/presentation.xml", PPTX},
	{"xl/workbook.xml", XLSX},
}

// DetectFormat recognizes a document from its content.
//
// PDF is recognized by its header anywhere in the first 1024 bytes, OOXML
// packages by their main part, and hOCR by an ocr_page element. Other HTML is
// recognized by its markup.
func DetectFormat(data []byte) (Format, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty input", ErrUnknownFormat)
	}

	if pdfHeader.Match(data[:min(len(data), 1024)]) {
		return PDF, nil
	}

	if bytes.HasPrefix(data, []byte("PK\x03\x04")) {
		zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return "", fmt.Errorf("%w: damaged zip package: %w", ErrUnknownFormat, err)
		}
		names := make(map[string]bool, len(zr.File))
		for _, f := range zr.File {
			names[f.Name] = true
		}
		for _, p := range ooxmlParts {
			if names[p.name] {
				return p.format, nil
			}
		}
		return "", fmt.Errorf("%w: zip package without an office document", ErrUnknownFormat)
	}

	if hocrPage.Match(data) {
		return HOCR, nil
	}
	head := data[:min(len(data), sniffLen)]
	if htmlMarker.Match(head) || strings.HasPrefix(http.DetectContentType(head), "text/html") {
		return HTML, nil
	}
	return "", fmt.Errorf("%w: unrecognized content", ErrUnknownFormat)
}
