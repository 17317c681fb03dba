package assemble

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/gardar/reflow/pkg/layout"
)

func TestXLSXAssembleGrid(t *testing.T) {
	pages := []GridPage{
		{Label: "Page 1", Cells: []layout.Cell{
			{RowIndex: 0, ColIndex: 0, Content: "Item"},
			{RowIndex: 0, ColIndex: 2, Content: "Cost"},
			{RowIndex: 1, ColIndex: 0, Content: "Tea"},
			{RowIndex: 1, ColIndex: 2, Content: "3.50"},
		}},
		{Label: "Page 2"},
	}

	data, err := XLSX{}.AssembleGrid(pages)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Page 1", "Page 2"}, f.GetSheetList())

	cell := func(sheet, ref string) string {
		v, err := f.GetCellValue(sheet, ref)
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, "Page 1", cell("Page 1", "A1"))
	assert.Equal(t, "Item", cell("Page 1", "A2"))
	assert.Equal(t, "", cell("Page 1", "B2"))
	assert.Equal(t, "Cost", cell("Page 1", "C2"))
	assert.Equal(t, "Tea", cell("Page 1", "A3"))
	assert.Equal(t, "Page 2", cell("Page 2", "A1"))

	typ, err := f.GetCellType("Page 1", "C3")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeSharedString, typ)

	styleID, err := f.GetCellStyle("Page 1", "A1")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)
}

func TestXLSXEmptyPageKeepsSheet(t *testing.T) {
	data, err := XLSX{}.AssembleGrid([]GridPage{{Label: "Page 1"}})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Page 1")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Page 1"}}, rows)
}

func TestCellValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"42", 42.0},
		{"-3.5", -3.5},
		{"0.25", 0.25},
		{"0042", "0042"},
		{"12 apples", "12 apples"},
		{"NaN", "NaN"},
		{"Inf", "Inf"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, cellValue(tt.in))
		})
	}
}

func TestSheetName(t *testing.T) {
	used := make(map[string]bool)
	assert.Equal(t, "Page 1", sheetName("Page 1", 0, used))
	assert.Equal(t, "page 1 (2)", sheetName("page 1", 1, used))
	assert.Equal(t, "a_b_c", sheetName("a/b:c", 2, used))
	assert.Equal(t, "Sheet4", sheetName("  ", 3, used))

	long := sheetName(strings.Repeat("x", 40), 4, used)
	assert.Len(t, long, maxSheetName)
	again := sheetName(strings.Repeat("x", 40), 5, used)
	assert.Len(t, again, maxSheetName)
	assert.True(t, strings.HasSuffix(again, " (2)"), fmt.Sprintf("got %q", again))
}
