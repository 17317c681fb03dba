package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapStrings_TwoWordsFitThirdOverflows(t *testing.T) {
	m := fakeMetrics{widths: map[string]float64{"word1": 40, "word2": 40, "word3": 40}}
	lines := WrapStrings([]string{"word1", "word2", "word3"}, 100, 10, m)
	assert.Equal(t, []string{"word1 word2", "word3"}, lines)
}

func TestWrapStrings_ExactFitStaysOnLine(t *testing.T) {
	m := fakeMetrics{widths: map[string]float64{"a": 50, "b": 50}}
	lines := WrapStrings([]string{"a", "b"}, 100, 10, m)
	assert.Equal(t, []string{"a b"}, lines)
}

func TestWrapStrings_OverlongWordAlone(t *testing.T) {
	m := fakeMetrics{perRune: 10, space: 10}
	lines := WrapStrings([]string{"ab", "abcdefghijklmnop", "cd"}, 60, 10, m)
	assert.Equal(t, []string{"ab", "abcdefghijklmnop", "cd"}, lines)
}

func TestWrapStrings_Empty(t *testing.T) {
	m := fakeMetrics{perRune: 10}
	assert.Empty(t, WrapStrings(nil, 100, 10, m))
}

func TestWrap_KeepsWordFaces(t *testing.T) {
	m := fakeMetrics{perRune: 10, space: 10}
	in := []Word{{Text: "aa"}, {Text: "bb", Bold: true}, {Text: "cc"}}
	// aa=20, " "=10, bb(bold)=30, " "=10, cc=20
	lines := Wrap(in, 75, 10, m)
	require.Len(t, lines, 2)
	assert.Equal(t, []Word{{Text: "aa"}, {Text: "bb", Bold: true}}, lines[0])
	assert.Equal(t, []Word{{Text: "cc"}}, lines[1])
}

func TestMeasureWords_SpansByFace(t *testing.T) {
	m := fakeMetrics{perRune: 10, space: 10}
	got := MeasureWords([]Word{{Text: "aa"}, {Text: "bb"}, {Text: "cc", Bold: true}}, 10, m)
	// "aa bb" = 50, separator 10, "cc" bold = 30
	assert.InDelta(t, 90, got, 1e-9)
}

func TestSpans(t *testing.T) {
	spans := Spans([]Word{{Text: "a"}, {Text: "b"}, {Text: "c", Bold: true}, {Text: "d"}})
	assert.Equal(t, []Span{
		{Text: "a b", Face: Regular},
		{Text: "c", Face: Bold},
		{Text: "d", Face: Regular},
	}, spans)
}
