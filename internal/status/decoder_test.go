package status

import (
	"testing"

	"github.com/rxfork/worktrunk/internal/item"
	"github.com/stretchr/testify/assert"
)

func TestDecodeDivergence(t *testing.T) {
	assert.Equal(t, item.DivergenceNone, DecodeDivergence(0, 0))
	assert.Equal(t, item.DivergenceAhead, DecodeDivergence(2, 0))
	assert.Equal(t, item.DivergenceBehind, DecodeDivergence(0, 3))
	assert.Equal(t, item.DivergenceDiverged, DecodeDivergence(1, 1))
}

func TestDecodeBranchStatePrecedence(t *testing.T) {
	assert.Equal(t, item.BranchConflictsPresent, DecodeBranchState(BranchStateInputs{HasConflicts: true, RebaseInProgress: true}))
	assert.Equal(t, item.BranchRebaseInProgress, DecodeBranchState(BranchStateInputs{RebaseInProgress: true}))
	assert.Equal(t, item.BranchMergeInProgress, DecodeBranchState(BranchStateInputs{MergeInProgress: true}))
	assert.Equal(t, item.BranchIntegrated, DecodeBranchState(BranchStateInputs{Integration: item.ReasonTreesMatch}))
	assert.Equal(t, item.BranchSameAsDefault, DecodeBranchState(BranchStateInputs{SameCommit: true}))
	assert.Equal(t, item.BranchWouldConflict, DecodeBranchState(BranchStateInputs{WouldConflict: true}))
	assert.Equal(t, item.BranchNormal, DecodeBranchState(BranchStateInputs{}))
}

func TestDecodeWorktreeState(t *testing.T) {
	assert.Equal(t, item.WorktreeStateNone, DecodeWorktreeState(WorktreeStateInputs{IsMain: true}))
	assert.Equal(t, item.WorktreeStateLocked, DecodeWorktreeState(WorktreeStateInputs{Locked: true}))
	assert.Equal(t, item.WorktreeStatePrunable, DecodeWorktreeState(WorktreeStateInputs{Prunable: true}))
	assert.Equal(t, item.WorktreeStatePathMismatch, DecodeWorktreeState(WorktreeStateInputs{PathMismatch: true}))
	assert.Equal(t, item.WorktreeStatePlainBranch, DecodeWorktreeState(WorktreeStateInputs{}))
}

func TestGutterMarker(t *testing.T) {
	assert.Equal(t, byte('@'), GutterMarker(true, true, true))
	assert.Equal(t, byte('^'), GutterMarker(false, true, true))
	assert.Equal(t, byte('+'), GutterMarker(false, false, true))
	assert.Equal(t, byte(' '), GutterMarker(false, false, false))
}

func TestGlyphsIncludesWorkingTreeAndMarker(t *testing.T) {
	g := Glyphs(item.StatusSymbols{Staged: true, Modified: true, Marker: "wip"})
	assert.Contains(t, g, "S")
	assert.Contains(t, g, "M")
	assert.Contains(t, g, "wip")
}
