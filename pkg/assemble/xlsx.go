package assemble

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/gardar/reflow/pkg/layout"
)

// maxSheetName is the longest sheet name Excel accepts.
const maxSheetName = 31

// GridPage is the cell grid of one source page.
type GridPage struct {
	Label string // Provenance header, also the sheet name
	Cells []layout.Cell
}

// XLSX assembles a workbook with one sheet per source page. The label goes
// into A1 in bold; cell (row r, column c) lands one row below, at c+1, r+2.
type XLSX struct{}

// AssembleGrid renders the grids of every source page.
func (XLSX) AssembleGrid(pages []GridPage) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, rejected("XLSX", err)
	}

	used := make(map[string]bool)
	for i, page := range pages {
		name := sheetName(page.Label, i, used)
		if i == 0 {
			err = f.SetSheetName("Sheet1", name)
		} else {
			_, err = f.NewSheet(name)
		}
		if err != nil {
			return nil, rejected("XLSX", fmt.Errorf("sheet %q: %w", name, err))
		}
		if err := writeGrid(f, name, page, header); err != nil {
			return nil, rejected("XLSX", fmt.Errorf("sheet %q: %w", name, err))
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, rejected("XLSX", err)
	}
	return buf.Bytes(), nil
}

func writeGrid(f *excelize.File, sheet string, page GridPage, header int) error {
	if page.Label != "" {
		if err := f.SetCellValue(sheet, "A1", page.Label); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "A1", "A1", header); err != nil {
			return err
		}
	}
	for _, c := range page.Cells {
		cell, err := excelize.CoordinatesToCellName(c.ColIndex+1, c.RowIndex+2)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, cellValue(c.Content)); err != nil {
			return err
		}
	}
	return nil
}

// cellValue stores plain numbers as numbers. Values with a leading zero, such
// as codes and dates, stay text.
func cellValue(s string) any {
	if len(s) > 1 && s[0] == '0' && s[1] != '.' {
		return s
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return s
	}
	return v
}

// sheetName turns a label into a unique valid sheet name.
func sheetName(label string, index int, used map[string]bool) string {
	name := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '_'
		}
		return r
	}, strings.TrimSpace(label))
	name = strings.Trim(name, "'")
	if name == "" {
		name = fmt.Sprintf("Sheet%d", index+1)
	}
	name = truncate(name, maxSheetName)

	base := name
	for n := 2; used[strings.ToLower(name)]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		name = truncate(base, maxSheetName-len(suffix)) + suffix
	}
	used[strings.ToLower(name)] = true
	return name
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
