package assemble

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gardar/reflow/pkg/extract"
	"github.com/gardar/reflow/pkg/hocr"
	"github.com/gardar/reflow/pkg/layout"
)

func TestHOCRAssembleRows(t *testing.T) {
	runs := []layout.TextRun{
		{Content: "Title", X: 72, Y: 700, FontSize: 18, Bold: true},
		{Content: "left", X: 72, Y: 650, FontSize: 12},
		{Content: "right", X: 300, Y: 650, FontSize: 12},
	}
	rows := layout.ClusterRows(runs, 5)
	require.Len(t, rows, 2)

	data, err := HOCR{Metrics: runeMetrics{}, Title: "sample"}.AssembleRows([]RowPage{{Width: 612, Height: 792, Rows: rows}})
	require.NoError(t, err)

	parsed, err := hocr.ParseHOCR(data)
	require.NoError(t, err)
	require.Len(t, parsed.Pages, 1)
	assert.Equal(t, "Title\nleft right\n\n", hocr.ExtractHOCRText(&parsed))

	words := hocr.PageWords(parsed.Pages[0])
	require.Len(t, words, 3)
	assert.True(t, words[0].Bold)
	assert.Equal(t, hocr.NewBoundingBox(72, 74, 72+5*9, 92), words[0].BBox)

	doc, err := extract.OpenHOCR(data, 0)
	require.NoError(t, err)
	pr, err := doc.Page(0)
	require.NoError(t, err)
	assert.InDelta(t, 612, pr.Width, 0.01)
	assert.InDelta(t, 792, pr.Height, 0.01)
	require.Len(t, pr.Runs, 3)
	for i, r := range pr.Runs {
		assert.Equal(t, runs[i].Content, r.Content)
		assert.InDelta(t, runs[i].X, r.X, 0.01)
		assert.InDelta(t, runs[i].Y, r.Y, 0.01)
		assert.InDelta(t, runs[i].FontSize, r.FontSize, 0.01)
		assert.Equal(t, runs[i].Bold, r.Bold)
	}
}

func TestHOCRAssembleEmptyPage(t *testing.T) {
	data, err := HOCR{Metrics: runeMetrics{}}.AssembleRows([]RowPage{{Width: 612, Height: 792}})
	require.NoError(t, err)

	parsed, err := hocr.ParseHOCR(data)
	require.NoError(t, err)
	require.Len(t, parsed.Pages, 1)
	assert.Empty(t, hocr.PageWords(parsed.Pages[0]))
}

func TestHOCRPageHeader(t *testing.T) {
	rows := layout.ClusterRows([]layout.TextRun{{Content: "body", X: 72, Y: 700, FontSize: 12}}, 5)
	pages := []RowPage{
		{Label: "Page 1", Width: 612, Height: 792, Rows: rows},
		{Label: "Page 2", Width: 612, Height: 792},
	}
	data, err := HOCR{Metrics: runeMetrics{}, HeaderSize: 14}.AssembleRows(pages)
	require.NoError(t, err)

	parsed, err := hocr.ParseHOCR(data)
	require.NoError(t, err)
	require.Len(t, parsed.Pages, 2)
	assert.Equal(t, "Page 1\nbody\n\nPage 2\n\n", hocr.ExtractHOCRText(&parsed))

	words := hocr.PageWords(parsed.Pages[0])
	require.Len(t, words, 3)
	assert.True(t, words[0].Bold)
	assert.Equal(t, hocr.NewBoundingBox(0, 0, 4*7, 14), words[0].BBox)
	assert.Equal(t, hocr.NewBoundingBox(4*7+7, 0, 4*7+7+7, 14), words[1].BBox)
}
