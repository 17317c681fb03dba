package assemble

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gardar/reflow/pkg/layout"
	"github.com/gardar/reflow/pkg/markup"
	"github.com/gardar/reflow/pkg/ooxml"
)

func TestDOCXAssemble(t *testing.T) {
	pages := paginate(letter, "Page 1", sampleBlocks()...)
	data, err := DOCX{Geometry: letter}.Assemble(pages)
	require.NoError(t, err)

	doc, err := markup.ParseDOCX(data)
	require.NoError(t, err)
	blocks := markup.Resolve(doc, markup.DefaultSheet())
	require.Len(t, blocks, 4)

	assert.Equal(t, "Page 1", blocks[0].Text())
	assert.True(t, blocks[0].Words[0].Bold)

	assert.Equal(t, layout.Heading, blocks[1].Kind)
	assert.Equal(t, 1, blocks[1].Level)
	assert.Equal(t, "Quarterly report", blocks[1].Text())

	assert.Equal(t, []layout.Word{{Text: "Revenue"}, {Text: "grew", Bold: true}, {Text: "again"}}, blocks[2].Words)
	assert.Equal(t, "Tea 3", blocks[3].Text())
}

func TestDOCXPageBreakBetweenPages(t *testing.T) {
	small := letter
	small.Height = 200
	var blocks []layout.FlowBlock
	for range 6 {
		blocks = append(blocks, layout.FlowBlock{Style: layout.Style{Size: 11}, Words: words("line")})
	}
	pages := paginate(small, "", blocks...)
	require.Greater(t, len(pages), 1)

	data, err := DOCX{Geometry: small}.Assemble(pages)
	require.NoError(t, err)

	doc, err := markup.ParseDOCX(data)
	require.NoError(t, err)
	resolved := markup.Resolve(doc, markup.DefaultSheet())
	require.Len(t, resolved, 6)
	assert.Equal(t, len(pages)-1, resolved[len(resolved)-1].SourcePage)
}

func TestDOCXEmptyPage(t *testing.T) {
	pages := paginate(letter, "Page 1")
	require.Len(t, pages, 1)

	data, err := DOCX{Geometry: letter}.Assemble(pages)
	require.NoError(t, err)
	doc, err := markup.ParseDOCX(data)
	require.NoError(t, err)
	assert.Equal(t, "Page 1", doc.PlainText())
}

func TestDOCXRejectsGeometry(t *testing.T) {
	_, err := DOCX{Geometry: layout.Geometry{Width: 1, Height: 1}}.Assemble(paginate(letter, ""))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRejected))
	assert.True(t, errors.Is(err, ooxml.ErrInvalidGeometry))
}

func TestDOCXSectionGeometry(t *testing.T) {
	data, err := DOCX{Geometry: letter}.Assemble(paginate(letter, "Page 1"))
	require.NoError(t, err)

	doc := readZipPart(t, data, "word/document.xml")
	assert.Contains(t, doc, `<w:pgSz w:w="12240" w:h="15840"`)
	assert.Contains(t, doc, `w:top="1440"`)
	assert.Contains(t, doc, `w:left="1440"`)
}

func TestDOCXIndentAndFractionalSize(t *testing.T) {
	b := layout.FlowBlock{Kind: layout.ListItem, Style: layout.Style{Size: 10.5, Indent: 18}, Words: words("indented")}
	data, err := DOCX{Geometry: letter}.Assemble(paginate(letter, "", b))
	require.NoError(t, err)

	doc := readZipPart(t, data, "word/document.xml")
	assert.Contains(t, doc, `w:left="360"`)
	assert.Contains(t, doc, `<w:sz w:val="21"`)
}

func readZipPart(t *testing.T, data []byte, name string) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	f, err := zr.Open(name)
	require.NoError(t, err)
	defer f.Close()
	b, err := io.ReadAll(f)
	require.NoError(t, err)
	return string(b)
}
