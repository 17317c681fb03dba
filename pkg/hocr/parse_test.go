package hocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleHOCR = `<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml" xml:lang="en" lang="en">
 <head>
  <title>sample</title>
  <meta name="ocr-system" content="tesseract 5.3.0"/>
 </head>
 <body>
  <div class="ocr_page" id="page_1" title='image "scan.png"; bbox 0 0 2550 3300; ppageno 0; scan_res 300 300'>
   <div class="ocr_carea" id="block_1_1" title="bbox 100 100 900 300">
    <p class="ocr_par" id="par_1_1" lang="eng" title="bbox 100 100 900 300">
     <span class="ocr_line" id="line_1_1" title="bbox 100 100 900 150; baseline 0 -10; x_size 50">
      <span class="ocrx_word" id="word_1_1" title="bbox 100 100 300 150; x_wconf 96; x_fsize 12"><strong>Invoice</strong></span>
      <span class="ocrx_word" id="word_1_2" title="bbox 320 100 500 150; x_wconf 91">2024</span>
     </span>
     <span class="ocr_header" id="line_1_2" title="bbox 100 200 900 250; x_size 40">
      <span class="ocrx_word" id="word_1_3" title="bbox 100 200 300 250; x_wconf 88">Total</span>
     </span>
    </p>
   </div>
  </div>
 </body>
</html>`

func TestParseHOCR(t *testing.T) {
	doc, err := ParseHOCR([]byte(sampleHOCR))
	require.NoError(t, err)

	assert.Equal(t, "en", doc.Language)
	assert.Equal(t, "sample", doc.Title)
	assert.Equal(t, "tesseract 5.3.0", doc.Metadata["ocr-system"])

	require.Len(t, doc.Pages, 1)
	page := doc.Pages[0]
	assert.Equal(t, "scan.png", page.ImageName)
	assert.Equal(t, 300.0, page.ScanRes)
	assert.Equal(t, NewBoundingBox(0, 0, 2550, 3300), page.BBox)
	assert.NotContains(t, page.Metadata, "scan_res")

	require.Len(t, page.Areas, 1)
	require.Len(t, page.Areas[0].Paragraphs, 1)
	lines := page.Areas[0].Paragraphs[0].Lines
	require.Len(t, lines, 2)
	assert.Equal(t, 50.0, lines[0].XSize)
	assert.Equal(t, "0 -10", lines[0].Baseline)
	assert.Equal(t, "line_1_2", lines[1].ID)

	w := lines[0].Words[0]
	assert.Equal(t, "Invoice", w.Text)
	assert.True(t, w.Bold)
	assert.Equal(t, 12.0, w.FontSize)
	assert.Equal(t, 96.0, w.Confidence)
	assert.Equal(t, "eng", page.Areas[0].Paragraphs[0].Lang)

	assert.False(t, lines[0].Words[1].Bold)
	assert.Zero(t, lines[0].Words[1].FontSize)
}

func TestParseHOCRWithoutPages(t *testing.T) {
	_, err := ParseHOCR([]byte(`<html><body><p>nothing</p></body></html>`))
	assert.Error(t, err)
}

func TestParseHOCRLatin1(t *testing.T) {
	data := []byte(`<html><head><meta http-equiv="Content-Type" content="text/html; charset=iso-8859-1"></head><body>` +
		`<div class="ocr_page" title="bbox 0 0 100 100"><span class="ocr_line" id="l1" title="bbox 0 0 100 10">` +
		`<span class="ocrx_word" title="bbox 0 0 50 10">caf` + "\xe9" + `</span></span></div></body></html>`)

	doc, err := ParseHOCR(data)
	require.NoError(t, err)
	require.Len(t, doc.Pages, 1)
	require.Len(t, doc.Pages[0].Lines, 1)
	assert.Equal(t, "café", doc.Pages[0].Lines[0].Words[0].Text)
}

func TestParseHOCRWindows1252(t *testing.T) {
	data := []byte(`<html><head><meta charset="windows-1252"></head><body>` +
		`<div class="ocr_page" title="bbox 0 0 100 100"><span class="ocr_line" id="l1" title="bbox 0 0 100 10">` +
		`<span class="ocrx_word" title="bbox 0 0 50 10">` + "\x93" + `5` + "\x80\x94" + `</span></span></div></body></html>`)

	doc, err := ParseHOCR(data)
	require.NoError(t, err)
	require.Len(t, doc.Pages, 1)
	require.Len(t, doc.Pages[0].Lines, 1)
	assert.Equal(t, "\u201c5\u20ac\u201d", doc.Pages[0].Lines[0].Words[0].Text)
}

func TestParseBoundingBoxFromTitle(t *testing.T) {
	tests := []struct {
		title string
		want  *BoundingBox
	}{
		{"bbox 1 2 3 4; x_wconf 90", &BoundingBox{1, 2, 3, 4}},
		{"x_wconf 90", nil},
		{"bbox 1 2 3", nil},
		{"bbox 1 two 3 4", nil},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseBoundingBoxFromTitle(tt.title))
		})
	}
}

func TestParseTitle(t *testing.T) {
	props := ParseTitle(`image "a.png"; bbox 0 0 10 10; ppageno 3`)
	assert.Equal(t, []string{`"a.png"`}, props["image"])
	assert.Equal(t, []string{"0", "0", "10", "10"}, props["bbox"])
	assert.Equal(t, []string{"3"}, props["ppageno"])
}
