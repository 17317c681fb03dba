package hocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wordTexts(words []Word) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = w.Text
	}
	return out
}

func TestPageWordsDocumentOrder(t *testing.T) {
	shared := Line{ID: "l2", Words: []Word{{Text: "shared"}}}
	page := Page{
		Areas: []Area{{
			Paragraphs: []Paragraph{{Lines: []Line{
				{ID: "l1", Words: []Word{{Text: "a"}, {Text: "b"}}},
				shared,
			}}},
			Words: []Word{{Text: "loose"}},
		}},
		Lines: []Line{shared, {ID: "l3", Words: []Word{{Text: "tail"}}}},
	}

	assert.Equal(t, []string{"a", "b", "shared", "loose", "tail"}, wordTexts(PageWords(page)))
}

func TestPageWordsLinesWithoutID(t *testing.T) {
	page := Page{Lines: []Line{
		{Words: []Word{{Text: "one"}}},
		{Words: []Word{{Text: "two"}}},
	}}
	assert.Equal(t, []string{"one", "two"}, wordTexts(PageWords(page)))
}

func TestExtractHOCRText(t *testing.T) {
	doc, err := ParseHOCR([]byte(sampleHOCR))
	require.NoError(t, err)
	assert.Equal(t, "Invoice 2024\nTotal\n\n", ExtractHOCRText(&doc))
}
