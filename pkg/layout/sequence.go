package layout

import (
	"strings"
)

// RowText returns the text of a row in reading order.
func RowText(r Row) string {
	return r.Text()
}

// GridCells buckets the runs of one row into spreadsheet cells.
//
// The first run lands in column zero. Every gap between the X origins of
// consecutive runs is divided by bucket to estimate how many empty cells
// separate the runs, and that many empty cells, capped at maxEmpty, are
// skipped before the next one. Only non-empty cells are returned; skipped
// columns are implied by ColIndex.
//
// Column assignment is a heuristic. Tables with irregular or proportional
// column widths land in best-effort columns.
func GridCells(r Row, rowIndex int, bucket float64, maxEmpty int) []Cell {
	if len(r.Runs) == 0 {
		return nil
	}
	if bucket <= 0 {
		bucket = DefaultBucketWidth
	}

	cells := make([]Cell, 0, len(r.Runs))
	col := 0
	prevX := r.Runs[0].X
	for i, run := range r.Runs {
		if i > 0 {
			col += 1 + clampEmpty(int((run.X-prevX)/bucket), maxEmpty)
		}
		cells = append(cells, Cell{
			RowIndex: rowIndex,
			ColIndex: col,
			Content:  strings.TrimSpace(run.Content),
		})
		prevX = run.X
	}
	return cells
}

// Grid buckets all rows of one page. Rows keep their index in rows.
func Grid(rows []Row, bucket float64, maxEmpty int) []Cell {
	var cells []Cell
	for i, r := range rows {
		cells = append(cells, GridCells(r, i, bucket, maxEmpty)...)
	}
	return cells
}

func clampEmpty(n, max int) int {
	if n < 0 {
		return 0
	}
	if max >= 0 && n > max {
		return max
	}
	return n
}
