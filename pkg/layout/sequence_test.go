package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridCells_GapBucketing(t *testing.T) {
	r := Row{Baseline: 100, Runs: []TextRun{run("a", 50, 100), run("b", 150, 100), run("c", 250, 100)}}
	cells := GridCells(r, 3, 50, DefaultMaxEmptyCells)

	require.Len(t, cells, 3)
	assert.Equal(t, Cell{RowIndex: 3, ColIndex: 0, Content: "a"}, cells[0])
	// Each 100pt gap spans two buckets, so two empty cells precede the next run.
	assert.Equal(t, 3, cells[1].ColIndex)
	assert.Equal(t, 6, cells[2].ColIndex)
}

func TestGridCells_GapsNarrowerThanBucketAreAdjacent(t *testing.T) {
	r := Row{Runs: []TextRun{run("a", 0, 0), run("b", 30, 0), run("c", 90, 0)}}
	cells := GridCells(r, 0, 50, DefaultMaxEmptyCells)
	assert.Equal(t, []int{0, 1, 3}, colIndexes(cells))
}

func TestGridCells_CapsEmptyCells(t *testing.T) {
	r := Row{Runs: []TextRun{run("a", 50, 0), run("b", 5050, 0)}}
	cells := GridCells(r, 0, 50, 10)
	assert.Equal(t, []int{0, 11}, colIndexes(cells))
}

func TestGridCells_FirstRunInColumnZero(t *testing.T) {
	r := Row{Runs: []TextRun{run("indented", 300, 0), run("next", 350, 0)}}
	cells := GridCells(r, 0, 50, DefaultMaxEmptyCells)
	assert.Equal(t, []int{0, 2}, colIndexes(cells))
}

func TestGrid_StableColumnsAcrossRows(t *testing.T) {
	rows := ClusterRows([]TextRun{
		run("Name", 50, 700), run("Qty", 250, 700),
		run("Apple", 50, 680), run("3", 260, 680),
		run("Pear", 52, 660), run("12", 255, 660),
	}, DefaultLineThreshold)
	cells := Grid(rows, DefaultBucketWidth, DefaultMaxEmptyCells)

	byRow := map[int][]int{}
	for _, c := range cells {
		byRow[c.RowIndex] = append(byRow[c.RowIndex], c.ColIndex)
	}
	require.Len(t, byRow, 3)
	for i := 0; i < 3; i++ {
		assert.Equal(t, []int{0, 5}, byRow[i], "row %d", i)
	}
}

func TestGrid_Empty(t *testing.T) {
	assert.Nil(t, Grid(nil, DefaultBucketWidth, DefaultMaxEmptyCells))
}

func colIndexes(cells []Cell) []int {
	out := make([]int, len(cells))
	for i, c := range cells {
		out[i] = c.ColIndex
	}
	return out
}
