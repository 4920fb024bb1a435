package render

import (
	"sort"

	"github.com/rxfork/worktrunk/internal/column"
)

// Column pairs a column spec with its rendered cells (header + one per
// item), already styled where applicable; width is measured with ANSI
// stripped.
type Column struct {
	Spec  column.Spec
	Cells []string // Cells[0] is always the header row; RenderFrame omits it when there are <2 items
}

// NaturalWidth is the max visible width over every cell in the column.
func (c Column) NaturalWidth() int {
	w := 0
	for _, cell := range c.Cells {
		if cw := Width(cell); cw > w {
			w = cw
		}
	}
	return w
}

// Layout is the outcome of the shedding algorithm: the columns that
// survived, each with its final width, in display order.
type Layout struct {
	Columns []Column
	Widths  []int
}

// Compute runs the exact five-step algorithm from spec §4.G. full, when
// true, disables shedding entirely (the --full flag).
func Compute(columns []Column, terminalWidth int, full bool) Layout {
	widths := make([]int, len(columns))
	for i, c := range columns {
		widths[i] = c.NaturalWidth()
	}

	if full {
		return Layout{Columns: columns, Widths: widths}
	}

	indices := make([]int, len(columns))
	for i := range indices {
		indices[i] = i
	}

	for total(columns, widths, indices) > terminalWidth && len(indices) > 0 {
		drop := lowestPriority(columns, indices)
		indices = remove(indices, drop)
	}

	outCols := make([]Column, len(indices))
	outWidths := make([]int, len(indices))
	for i, idx := range indices {
		outCols[i] = columns[idx]
		outWidths[i] = widths[idx]
	}
	return Layout{Columns: outCols, Widths: outWidths}
}

func total(columns []Column, widths []int, indices []int) int {
	if len(indices) == 0 {
		return 0
	}
	sum := 0
	for _, idx := range indices {
		sum += widths[idx]
	}
	return sum + (len(indices) - 1) // single-space separators
}

// lowestPriority finds the surviving column with the lowest priority — the
// largest BasePriority number, since 0 (the gutter) ranks first — breaking
// ties by display order, highest-order first (spec §4.G step 4).
func lowestPriority(columns []Column, indices []int) int {
	best := indices[0]
	for _, idx := range indices[1:] {
		c, b := columns[idx], columns[best]
		if c.Spec.BasePriority > b.Spec.BasePriority {
			best = idx
			continue
		}
		if c.Spec.BasePriority == b.Spec.BasePriority && c.Spec.DisplayIndex > b.Spec.DisplayIndex {
			best = idx
		}
	}
	return best
}

func remove(indices []int, target int) []int {
	out := make([]int, 0, len(indices)-1)
	for _, idx := range indices {
		if idx != target {
			out = append(out, idx)
		}
	}
	return out
}

// SortedByPriority returns specs ordered by ascending BasePriority (most
// important first), used to
// assert the testable property "the rendered column set is a prefix of
// the priority-sorted visible columns".
func SortedByPriority(specs []column.Spec) []column.Spec {
	out := append([]column.Spec(nil), specs...)
	sort.Slice(out, func(i, j int) bool { return out[i].BasePriority < out[j].BasePriority })
	return out
}
