package layout

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lineBlock(text string, heights ...float64) Block {
	b := Block{Source: FlowBlock{Kind: Paragraph, Words: words(text)}}
	for _, h := range heights {
		b.Lines = append(b.Lines, Line{Fragments: []Fragment{{Words: words(text)}}, Size: h, Height: h})
	}
	return b
}

func repeat(h float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = h
	}
	return out
}

var squarePage = Geometry{Width: 100, Height: 100}

func TestPaginator_ExactFitStaysOnCurrentPage(t *testing.T) {
	p := NewPaginator(squarePage)
	p.Place(lineBlock("a", 60))
	pls := p.Place(lineBlock("b", 40))
	require.Len(t, pls, 1)
	assert.Equal(t, 0, p.Cursor().PageIndex)
	assert.InDelta(t, 0, pls[0].Y, 1e-9)

	pages := p.Finish()
	require.Len(t, pages, 1)
	assert.Equal(t, 2, pages[0].BlockCount())
}

func TestPaginator_OverflowOpensNewPage(t *testing.T) {
	p := NewPaginator(squarePage)
	p.Place(lineBlock("a", 60))
	p.Place(lineBlock("b", 41))

	pages := p.Finish()
	require.Len(t, pages, 2)
	assert.Equal(t, 1, pages[0].BlockCount())
	assert.Equal(t, 1, pages[1].BlockCount())
	assert.InDelta(t, 59, pages[1].Placements[0].Y, 1e-9)
}

func TestPaginator_ExactFitWithSpacingAndMargins(t *testing.T) {
	g := Geometry{Width: 100, Height: 140, Top: 20, Bottom: 20, Spacing: 10}
	p := NewPaginator(g)
	p.Place(lineBlock("a", 50))
	p.Place(lineBlock("b", 40)) // 100 - 50 - 10 = 40 remaining

	pages := p.Finish()
	require.Len(t, pages, 1)
	assert.InDelta(t, 20, pages[0].Placements[1].Y, 1e-9)
}

func TestPaginator_OverflowRatioRoundsUp(t *testing.T) {
	// 23 lines of 10pt against a 100pt budget: 2.3 pages of content.
	t.Run("one block", func(t *testing.T) {
		p := NewPaginator(squarePage)
		pls := p.Place(lineBlock("long", repeat(10, 23)...))
		pages := p.Finish()

		require.Len(t, pages, 3)
		require.Len(t, pls, 3)
		assert.Len(t, pls[0].Lines, 10)
		assert.Len(t, pls[1].Lines, 10)
		assert.Len(t, pls[2].Lines, 3)
		assert.False(t, pls[0].Continued)
		assert.True(t, pls[2].Continued)
	})
	t.Run("many blocks", func(t *testing.T) {
		p := NewPaginator(squarePage)
		for i := 0; i < 23; i++ {
			p.Place(lineBlock(fmt.Sprint(i), 10))
		}
		pages := p.Finish()
		require.Len(t, pages, 3)
		assert.Equal(t, []int{10, 10, 3}, blockCounts(pages))
	})
}

func TestPaginator_Idempotent(t *testing.T) {
	g := Geometry{Width: 200, Height: 300, Top: 30, Bottom: 30, Spacing: 6}
	heights := []float64{12, 40, 24, 60, 12, 12, 90, 14, 33, 80, 12}

	paginate := func() []Page {
		p := NewPaginator(g)
		for i, h := range heights {
			p.Place(lineBlock(fmt.Sprint(i), repeat(h/2, 2)...))
		}
		return p.Finish()
	}
	first, second := paginate(), paginate()

	require.Equal(t, len(first), len(second))
	assert.Equal(t, blockCounts(first), blockCounts(second))
	for i := range first {
		require.Equal(t, len(first[i].Placements), len(second[i].Placements))
		for j := range first[i].Placements {
			assert.Equal(t, first[i].Placements[j].Y, second[i].Placements[j].Y)
		}
	}
}

func TestPaginator_NoBlocksYieldsOneEmptyPage(t *testing.T) {
	pages := NewPaginator(squarePage).Finish()
	require.Len(t, pages, 1)
	assert.Zero(t, pages[0].BlockCount())
	assert.Equal(t, 100.0, pages[0].Height)
}

func TestPaginator_CursorDecreasesWhileFilling(t *testing.T) {
	p := NewPaginator(Geometry{Width: 100, Height: 100, Top: 10, Bottom: 10})
	assert.Equal(t, 90.0, p.Cursor().CurrentY)

	last := p.Cursor().CurrentY
	for i := 0; i < 8; i++ {
		p.Place(lineBlock("x", 10))
		assert.Less(t, p.Cursor().CurrentY, last)
		last = p.Cursor().CurrentY
	}
	p.Place(lineBlock("y", 10))
	assert.Equal(t, 1, p.Cursor().PageIndex)
	assert.Equal(t, 80.0, p.Cursor().CurrentY, "cursor resets to the top margin on a new page")
}

func TestPaginator_KeepTogether(t *testing.T) {
	p := NewPaginator(squarePage)
	p.Place(lineBlock("body", repeat(10, 7)...))

	row := lineBlock("row", repeat(10, 4)...)
	row.KeepTogether = true
	pls := p.Place(row)

	require.Len(t, pls, 1)
	assert.Equal(t, 1, p.Cursor().PageIndex)
	assert.Len(t, pls[0].Lines, 4)
}

func TestPaginator_LineTallerThanPage(t *testing.T) {
	p := NewPaginator(squarePage)
	p.Place(lineBlock("a", 10))
	p.Place(lineBlock("huge", 150))
	p.Place(lineBlock("b", 10))

	pages := p.Finish()
	require.Len(t, pages, 3)
	assert.Equal(t, []int{1, 1, 1}, blockCounts(pages))
}

func TestPaginator_MarkersAreNotBlocks(t *testing.T) {
	p := NewPaginator(squarePage)
	m := p.Mark("Page 1", 16, 20)
	assert.InDelta(t, 80, m.Y, 1e-9)
	p.Place(lineBlock("a", 80))

	pages := p.Finish()
	require.Len(t, pages, 1)
	assert.Equal(t, 1, pages[0].BlockCount())
	require.Len(t, pages[0].Markers, 1)
	assert.Equal(t, "Page 1", pages[0].Markers[0].Label)
}

func TestPaginator_MarkerOverflow(t *testing.T) {
	p := NewPaginator(squarePage)
	p.Place(lineBlock("a", 90))
	p.Mark("Page 2", 16, 20)

	pages := p.Finish()
	require.Len(t, pages, 2)
	assert.Len(t, pages[1].Markers, 1)
}

func TestPaginator_MarkerMovesWithItsBlock(t *testing.T) {
	p := NewPaginator(squarePage)
	p.Place(lineBlock("a", 60))
	p.Mark("Page 2", 16, 20) // fits, leaving 20
	pls := p.Place(lineBlock("b", 30, 30))
	require.Len(t, pls, 1)

	pages := p.Finish()
	require.Len(t, pages, 2)
	assert.Empty(t, pages[0].Markers)
	assert.Equal(t, 1, pages[0].BlockCount())

	require.Len(t, pages[1].Markers, 1)
	m := pages[1].Markers[0]
	assert.Equal(t, "Page 2", m.Label)
	assert.InDelta(t, 80, m.Y, 1e-9)
	assert.InDelta(t, 20, pages[1].Placements[0].Y, 1e-9)
}

func TestPaginator_MarkerStaysWhenFirstLineFits(t *testing.T) {
	p := NewPaginator(squarePage)
	p.Place(lineBlock("a", 50))
	p.Mark("Page 2", 16, 20)
	pls := p.Place(lineBlock("b", 30, 30))
	require.Len(t, pls, 2)

	pages := p.Finish()
	require.Len(t, pages, 2)
	require.Len(t, pages[0].Markers, 1)
	assert.Empty(t, pages[1].Markers)
	assert.True(t, pls[1].Continued)
}

func TestPaginator_MarkerAloneKeepsOversizedBlock(t *testing.T) {
	p := NewPaginator(squarePage)
	p.Mark("Page 1", 16, 20)
	pls := p.Place(lineBlock("tall", 95))
	require.Len(t, pls, 1)

	pages := p.Finish()
	require.Len(t, pages, 1)
	require.Len(t, pages[0].Markers, 1)
	assert.Equal(t, 1, pages[0].BlockCount())
}

func TestPaginator_EmptyBlockIsIgnored(t *testing.T) {
	p := NewPaginator(squarePage)
	assert.Nil(t, p.Place(Block{}))
	assert.Zero(t, p.Finish()[0].BlockCount())
}

func blockCounts(pages []Page) []int {
	out := make([]int, len(pages))
	for i, p := range pages {
		out[i] = p.BlockCount()
	}
	return out
}

func TestPaginator_Break(t *testing.T) {
	p := NewPaginator(squarePage)
	p.Break()
	p.Place(lineBlock("a", 10))
	p.Break()
	p.Break()
	p.Place(lineBlock("b", 10))

	pages := p.Finish()
	require.Len(t, pages, 2)
	assert.Equal(t, []int{1, 1}, blockCounts(pages))
}
