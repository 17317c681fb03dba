// Package ooxml writes minimal PresentationML slide decks.
//
// Only the parts needed for a package to open in PowerPoint and LibreOffice
// are produced. Content is text with weight and size; there are no images
// and no themes beyond the default.
package ooxml

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidGeometry is returned when a page, slide or shape size is outside
// what the target application accepts.
var ErrInvalidGeometry = errors.New("invalid geometry")

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

// Package namespaces.
const (
	nsContentTypes  = "http://schemas.openxmlformats.org/package/2006/content-types"
	nsRelationships = "http://schemas.openxmlformats.org/package/2006/relationships"
	relOfficeDoc    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	nsR             = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsA             = "http://schemas.openxmlformats.org/drawingml/2006/main"
)

// Run is a span of text sharing one weight and size.
type Run struct {
	Text string
	Bold bool
	Size float64 // Points, zero inherits the paragraph style
}

// part is one file of a package.
type part struct {
	name string
	body string
}

// writePackage zips parts in order. [Content_Types].xml must come first.
func writePackage(parts []part) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, p := range parts {
		w, err := zw.Create(p.name)
		if err != nil {
			return nil, fmt.Errorf("creating %s: %w", p.name, err)
		}
		if _, err := w.Write([]byte(p.body)); err != nil {
			return nil, fmt.Errorf("writing %s: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("closing package: %w", err)
	}
	return buf.Bytes(), nil
}

type relationship struct {
	id     string
	typ    string
	target string
}

func relationships(rels ...relationship) string {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	sb.WriteString(`<Relationships xmlns="` + nsRelationships + `">`)
	for _, r := range rels {
		fmt.Fprintf(&sb, `<Relationship Id="%s" Type="%s" Target="%s"/>`, r.id, r.typ, r.target)
	}
	sb.WriteString(`</Relationships>`)
	return sb.String()
}

type override struct {
	part        string
	contentType string
}

func contentTypes(overrides ...override) string {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	sb.WriteString(`<Types xmlns="` + nsContentTypes + `">`)
	sb.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	sb.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	for _, o := range overrides {
		fmt.Fprintf(&sb, `<Override PartName="%s" ContentType="%s"/>`, o.part, o.contentType)
	}
	sb.WriteString(`</Types>`)
	return sb.String()
}

// escape returns s as XML character data. Characters XML cannot carry are
// replaced with U+FFFD.
func escape(s string) string {
	var sb strings.Builder
	_ = xml.EscapeText(&sb, []byte(s))
	return sb.String()
}
