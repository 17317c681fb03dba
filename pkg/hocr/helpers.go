package hocr

import (
	"strings"
)

// PageWords returns every word of a page in document order.
// Areas come first, then paragraphs and lines attached directly to the page.
// A line reachable along more than one path is visited once.
func PageWords(page Page) []Word {
	w := wordCollector{seen: make(map[string]bool)}
	for _, area := range page.Areas {
		w.area(area)
	}
	for _, para := range page.Paragraphs {
		w.paragraph(para)
	}
	for _, line := range page.Lines {
		w.line(line)
	}
	return w.words
}

// ExtractHOCRText extracts all text from an HOCR document.
// Lines are separated by newlines and pages by blank lines.
func ExtractHOCRText(hocrDoc *HOCR) string {
	var builder strings.Builder
	for _, page := range hocrDoc.Pages {
		w := wordCollector{seen: make(map[string]bool), text: &builder}
		for _, area := range page.Areas {
			w.area(area)
		}
		for _, para := range page.Paragraphs {
			w.paragraph(para)
		}
		for _, line := range page.Lines {
			w.line(line)
		}
		builder.WriteString("\n")
	}
	return builder.String()
}

type wordCollector struct {
	seen  map[string]bool
	words []Word
	text  *strings.Builder
}

func (w *wordCollector) area(area Area) {
	for _, para := range area.Paragraphs {
		w.paragraph(para)
	}
	for _, line := range area.Lines {
		w.line(line)
	}
	w.loose(area.Words)
}

func (w *wordCollector) paragraph(para Paragraph) {
	for _, line := range para.Lines {
		w.line(line)
	}
	w.loose(para.Words)
}

func (w *wordCollector) line(line Line) {
	if line.ID != "" {
		if w.seen[line.ID] {
			return
		}
		w.seen[line.ID] = true
	}
	w.loose(line.Words)
}

// loose records a run of words sharing one parent.
func (w *wordCollector) loose(words []Word) {
	if len(words) == 0 {
		return
	}
	w.words = append(w.words, words...)
	if w.text == nil {
		return
	}
	for i, word := range words {
		if i > 0 {
			w.text.WriteString(" ")
		}
		w.text.WriteString(word.Text)
	}
	w.text.WriteString("\n")
}
