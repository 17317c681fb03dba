package layout

import (
	"strings"
)

// Metrics measures the rendered width of a string.
// Results are in points and must be deterministic for identical inputs.
type Metrics interface {
	Measure(text string, face Face, size float64) float64
}

// Wrap greedily packs words into lines no wider than width.
//
// A word that would push a non-empty line past width starts a new line.
// A single word wider than width is emitted alone on its own line; words are
// never split.
func Wrap(words []Word, width, size float64, m Metrics) [][]Word {
	var lines [][]Word
	var current []Word

	for _, w := range words {
		candidate := append(current[:len(current):len(current)], w)
		if len(current) > 0 && MeasureWords(candidate, size, m) > width {
			lines = append(lines, current)
			current = []Word{w}
			continue
		}
		current = candidate
	}
	if len(current) > 0 {
		lines = append(lines, current)
	}
	return lines
}

// WrapStrings is Wrap for plain regular-weight text.
func WrapStrings(words []string, width, size float64, m Metrics) []string {
	ws := make([]Word, len(words))
	for i, w := range words {
		ws[i] = Word{Text: w}
	}
	lines := Wrap(ws, width, size, m)
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = JoinWords(l)
	}
	return out
}

// MeasureWords measures a line of words joined by single spaces.
// Consecutive words of the same face are measured as one span; the separating
// space between spans of different faces is measured in the regular face.
func MeasureWords(words []Word, size float64, m Metrics) float64 {
	if len(words) == 0 {
		return 0
	}
	spans := Spans(words)
	total := 0.0
	for _, span := range spans {
		total += m.Measure(span.Text, span.Face, size)
	}
	if len(spans) > 1 {
		total += float64(len(spans)-1) * m.Measure(" ", Regular, size)
	}
	return total
}

// Span is a run of consecutive words sharing one face.
type Span struct {
	Text string
	Face Face
}

// Spans groups words into same-face spans.
func Spans(words []Word) []Span {
	var spans []Span
	var buf []string
	face := Regular
	for i, w := range words {
		f := FaceOf(w)
		if i > 0 && f != face {
			spans = append(spans, Span{Text: strings.Join(buf, " "), Face: face})
			buf = nil
		}
		face = f
		buf = append(buf, w.Text)
	}
	if len(buf) > 0 {
		spans = append(spans, Span{Text: strings.Join(buf, " "), Face: face})
	}
	return spans
}
