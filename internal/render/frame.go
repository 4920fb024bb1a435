package render

// RenderFrame composes the full aligned-table frame for a layout:
// a header row when there are at least 2 items, then one row per item.
// Every cell is padded to its column's width with trailing spaces after
// style reset (spec §4.G step 5). rowCount is the number of item rows
// (Cells[1:] in each column, assuming Cells[0] is always the header).
func RenderFrame(l Layout, rowCount int) []string {
	var lines []string

	if rowCount >= 2 {
		lines = append(lines, joinRow(l, headerIndex))
	}

	for row := 1; row <= rowCount; row++ {
		lines = append(lines, joinRow(l, row))
	}
	return lines
}

const headerIndex = 0

func joinRow(l Layout, rowIdx int) string {
	out := ""
	for i, col := range l.Columns {
		if i > 0 {
			out += " "
		}
		cell := ""
		if rowIdx < len(col.Cells) {
			cell = col.Cells[rowIdx]
		}
		out += PadTo(cell, l.Widths[i])
	}
	return out
}
