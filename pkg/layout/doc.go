// Package layout reconstructs reading order from positioned text and lays
// flow content back out onto fixed-size pages.
//
// The extraction direction clusters TextRuns into Rows (ClusterRows), orders
// them (RowText, GridCells) and resolves them into FlowBlocks (BlockFromRow).
// Both directions then share the same back half: a Typesetter wraps each
// FlowBlock into lines (Wrap) using a Metrics provider, a Paginator places the
// lines on pages while tracking a running Cursor, and a Mapper converts the
// resulting positions into the coordinate system of the target format.
//
// Source coordinates are points with the origin at the bottom-left corner of
// the page. Nothing in this package keeps state between calls; a Paginator
// belongs to a single conversion.
package layout
