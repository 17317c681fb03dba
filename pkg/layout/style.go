package layout

// BlockFromRow resolves the style of an extracted row.
//
// Weight and size come straight from the recorded run properties. A page
// document carries no heading levels, so every row becomes a body paragraph.
func BlockFromRow(r Row, sourcePage int) FlowBlock {
	bold := r.Bold()
	words := r.Words()
	if bold {
		// The block style carries the weight; words only mark exceptions.
		for i := range words {
			words[i].Bold = false
		}
	}
	return FlowBlock{
		Kind: Paragraph,
		Style: Style{
			Bold: bold,
			Size: r.FontSize(),
		},
		Words:      words,
		SourcePage: sourcePage,
	}
}

// BlocksFromRows resolves every row of one source page, dropping rows
// without words.
func BlocksFromRows(rows []Row, sourcePage int) []FlowBlock {
	blocks := make([]FlowBlock, 0, len(rows))
	for _, r := range rows {
		b := BlockFromRow(r, sourcePage)
		if b.Empty() {
			continue
		}
		blocks = append(blocks, b)
	}
	return blocks
}
