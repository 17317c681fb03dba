package layout

import (
	"strings"
	"unicode/utf8"
)

// fakeMetrics measures words from a fixed table, falling back to a constant
// width per rune. Bold text is half again as wide. Size is ignored.
type fakeMetrics struct {
	widths  map[string]float64
	space   float64
	perRune float64
}

func (f fakeMetrics) Measure(text string, face Face, size float64) float64 {
	total := 0.0
	for i, w := range strings.Split(text, " ") {
		if i > 0 {
			total += f.space
		}
		if v, ok := f.widths[w]; ok {
			total += v
			continue
		}
		total += float64(utf8.RuneCountInString(w)) * f.perRune
	}
	if face == Bold {
		total *= 1.5
	}
	return total
}

func words(s ...string) []Word {
	out := make([]Word, len(s))
	for i, w := range s {
		out[i] = Word{Text: w}
	}
	return out
}
