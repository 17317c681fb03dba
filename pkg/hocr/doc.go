// Package hocr reads and writes hOCR, the HTML-based format for positioned
// text produced by OCR engines.
//
// The object model mirrors the hOCR hierarchy:
// Document → Pages → Areas → Paragraphs → Lines → Words, with a bounding box
// and the remaining title properties at each level. Coordinates are pixels
// with the origin at the top-left corner of the page image.
//
// Main Functions:
//
// - ParseHOCR: parses hOCR HTML into the object model
// - PageWords: flattens a page into its words in document order
// - GenerateHOCRDocument: renders the object model back to hOCR HTML
package hocr
