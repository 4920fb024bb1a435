package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rxfork/worktrunk/internal/column"
	"github.com/rxfork/worktrunk/internal/item"
	"github.com/rxfork/worktrunk/internal/theme"
)

func TestBuildColumnsProjectsBranchAndDiffCells(t *testing.T) {
	it := &item.Item{
		Key:    "feature",
		Branch: "feature",
		Kind:   item.KindWorktree,
		Worktree: &item.WorktreeData{
			Path: "/repo/feature",
		},
		WorkingDiff: item.Computed(item.LineDiff{Added: 3, Deleted: 1}),
	}
	specs := []column.Spec{
		{Kind: column.Branch, Header: "Branch"},
		{Kind: column.WorkingDiff, Header: "Diff"},
	}

	cols := BuildColumns(specs, []*item.Item{it}, theme.Get(theme.DarkName), "feature")
	require.Len(t, cols, 2)
	assert.Equal(t, "Branch", cols[0].Cells[0])
	assert.Greater(t, Width(cols[0].Cells[1]), 0)
	assert.Contains(t, cols[1].Cells[1], "+3")
	assert.Contains(t, cols[1].Cells[1], "-1")
}

func TestBuildColumnsFillsDisplayOnlyProjectionFields(t *testing.T) {
	it := &item.Item{Key: "main", Branch: "main", Kind: item.KindWorktree, Worktree: &item.WorktreeData{Path: "/repo"}}
	BuildColumns([]column.Spec{{Kind: column.Gutter}}, []*item.Item{it}, theme.Get(theme.DarkName), "main")

	assert.NotEmpty(t, it.Statusline)
	assert.Contains(t, it.Statusline, "main")
}

func TestDiffCellDistinguishesUncomputedFromSkipped(t *testing.T) {
	th := theme.Get(theme.DarkName)
	assert.Equal(t, "", diffCell(item.Tri[item.LineDiff]{}, th))
	assert.Equal(t, "-", diffCell(item.Skipped[item.LineDiff](), th))
}

func TestDiffCellHidesZeroDiff(t *testing.T) {
	th := theme.Get(theme.DarkName)
	assert.Equal(t, "", diffCell(item.Computed(item.LineDiff{}), th))
}

func TestUpstreamCellRendersGoneAndActive(t *testing.T) {
	th := theme.Get(theme.DarkName)
	assert.Contains(t, upstreamCell(item.Computed(item.UpstreamStatus{Kind: item.UpstreamGone}), th), "gone")
	active := upstreamCell(item.Computed(item.UpstreamStatus{Kind: item.UpstreamActive, RemoteName: "origin/feature", AheadBehind: item.AheadBehind{Ahead: 2, Behind: 1}}), th)
	assert.Contains(t, active, "origin/feature")
	assert.Contains(t, active, "2⇕1")
}

func TestStatuslineIncludesBranchStatusAndPath(t *testing.T) {
	it := &item.Item{
		Branch:   "feature",
		Worktree: &item.WorktreeData{Path: "/repo/feature"},
	}
	it.Status.Staged = true
	line := Statusline(it, theme.Get(theme.DarkName))
	assert.Contains(t, line, "feature")
	assert.Contains(t, line, "/repo/feature")
}

func TestFormatAgeBucketsByMagnitude(t *testing.T) {
	assert.Contains(t, formatAge(time.Now().Add(-5*time.Minute).Unix()), "m")
	assert.Contains(t, formatAge(time.Now().Add(-5*time.Hour).Unix()), "h")
	assert.Contains(t, formatAge(time.Now().Add(-5*24*time.Hour).Unix()), "d")
}
