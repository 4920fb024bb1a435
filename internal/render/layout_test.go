package render

import (
	"testing"

	"github.com/rxfork/worktrunk/internal/column"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func col(kind column.Kind, priority, displayIndex int, cells ...string) Column {
	return Column{Spec: column.Spec{Kind: kind, BasePriority: priority, DisplayIndex: displayIndex}, Cells: cells}
}

func TestComputeShedsLowestPriorityFirst(t *testing.T) {
	// Six columns whose natural widths sum to 92, terminal width 40.
	columns := []Column{
		col(column.Gutter, 0, 0, "", "@"),
		col(column.Branch, 1, 1, "Branch", "feature-branch-name"),
		col(column.Status, 2, 2, "Status", "M"),
		col(column.WorkingDiff, 3, 3, "Diff", "+10/-5"),
		col(column.AheadBehind, 4, 4, "main", "↑2↓0"),
		col(column.Message, 11, 11, "Message", "some very long commit message padding out the width here"),
	}
	layout := Compute(columns, 40, false)
	width := total(layout.Columns, layout.Widths, allIndices(len(layout.Columns)))
	require.LessOrEqual(t, width, 40)

	// Branch (priority 1) must survive longer than Message (priority 11).
	kinds := map[column.Kind]bool{}
	for _, c := range layout.Columns {
		kinds[c.Spec.Kind] = true
	}
	if !kinds[column.Branch] {
		t.Fatal("branch column should not be dropped before message column")
	}
}

func allIndices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestComputeFullDisablesShedding(t *testing.T) {
	columns := []Column{
		col(column.Gutter, 0, 0, "", "@"),
		col(column.Message, 11, 11, "Message", "a message so long it would never fit in a tiny terminal width at all"),
	}
	layout := Compute(columns, 10, true)
	assert.Len(t, layout.Columns, 2)
}

func TestRenderFrameOmitsHeaderForSingleItem(t *testing.T) {
	layout := Layout{
		Columns: []Column{col(column.Branch, 1, 1, "Branch", "main")},
		Widths:  []int{6},
	}
	lines := RenderFrame(layout, 1)
	require.Len(t, lines, 1)
	assert.Equal(t, "main  ", lines[0])
}

func TestRenderFrameIncludesHeaderForMultipleItems(t *testing.T) {
	layout := Layout{
		Columns: []Column{col(column.Branch, 1, 1, "Branch", "main", "feature")},
		Widths:  []int{7},
	}
	lines := RenderFrame(layout, 2)
	require.Len(t, lines, 3)
	assert.Equal(t, "Branch ", lines[0])
}

func TestPadToNeverUnderruns(t *testing.T) {
	padded := PadTo("ab", 5)
	assert.Equal(t, 5, Width(padded))
}
