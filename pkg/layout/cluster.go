package layout

import (
	"math"
	"sort"
)

// Default clustering thresholds, in source points.
const (
	DefaultLineThreshold = 5.0
	DefaultBucketWidth   = 50.0
	DefaultMaxEmptyCells = 10
)

// ClusterRows groups runs into rows.
//
// Runs are scanned in emission order. A new row starts whenever the vertical
// distance to the previous run exceeds threshold. Runs inside each row are then
// sorted by ascending X and the rows are re-sorted top to bottom, since the
// order a source emits text in does not have to match its visual order.
func ClusterRows(runs []TextRun, threshold float64) []Row {
	if len(runs) == 0 {
		return nil
	}

	var rows []Row
	var current []TextRun
	lastY := runs[0].Y

	for _, run := range runs {
		if len(current) > 0 && math.Abs(run.Y-lastY) > threshold {
			rows = append(rows, newRow(current))
			current = nil
		}
		current = append(current, run)
		lastY = run.Y
	}
	if len(current) > 0 {
		rows = append(rows, newRow(current))
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Y() != rows[j].Y() {
			return rows[i].Y() > rows[j].Y()
		}
		return rows[i].X() < rows[j].X()
	})
	return rows
}

// newRow copies runs into a row ordered by ascending X, anchored at the
// baseline of the run that opened it.
func newRow(runs []TextRun) Row {
	sorted := make([]TextRun, len(runs))
	copy(sorted, runs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].X < sorted[j].X
	})
	return Row{Baseline: runs[0].Y, Runs: sorted}
}
