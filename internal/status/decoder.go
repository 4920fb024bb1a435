// Package status implements Component J: a pile of small, total functions
// translating raw VCS state into the item.StatusSymbols variants. This is
// the only package that knows the glyph alphabet; the column/render/json
// components all pull their symbol strings from here.
package status

import "github.com/rxfork/worktrunk/internal/item"

// DecodeDivergence maps an ahead/behind pair onto the shared
// {none, ahead, behind, diverged} alphabet, used identically for the
// default-branch axis and (as a visually distinct family) the upstream
// axis.
func DecodeDivergence(ahead, behind int) item.Divergence {
	switch {
	case ahead > 0 && behind > 0:
		return item.DivergenceDiverged
	case ahead > 0:
		return item.DivergenceAhead
	case behind > 0:
		return item.DivergenceBehind
	default:
		return item.DivergenceNone
	}
}

// BranchStateInputs bundles the raw signals DecodeBranchState needs, kept
// as one struct so every call site documents exactly what it decided not
// to compute (tri-state fields are the caller's concern, not this one's).
type BranchStateInputs struct {
	RebaseInProgress bool
	MergeInProgress  bool
	HasConflicts     bool
	WouldConflict    bool // only meaningful when not integrated and not mid-operation
	SameCommit       bool
	Integration      item.IntegrationReason // ReasonNone when not integrated
}

// DecodeBranchState picks exactly one BranchState, in the precedence
// order: an in-progress operation or conflict always wins over a
// divergence-derived state, since it describes something actively
// happening rather than a steady-state comparison.
func DecodeBranchState(in BranchStateInputs) item.BranchState {
	switch {
	case in.HasConflicts:
		return item.BranchConflictsPresent
	case in.RebaseInProgress:
		return item.BranchRebaseInProgress
	case in.MergeInProgress:
		return item.BranchMergeInProgress
	case in.Integration != item.ReasonNone:
		return item.BranchIntegrated
	case in.SameCommit:
		return item.BranchSameAsDefault
	case in.WouldConflict:
		return item.BranchWouldConflict
	default:
		return item.BranchNormal
	}
}

// WorktreeStateInputs bundles the raw signals for DecodeWorktreeState.
type WorktreeStateInputs struct {
	IsMain       bool
	Locked       bool
	Prunable     bool
	PathMismatch bool
}

// DecodeWorktreeState picks exactly one WorktreeState. Locked and
// prunable are reported by git itself as mutually exclusive porcelain
// keys, so the precedence here only matters for path-mismatch, which can
// coincide with either.
func DecodeWorktreeState(in WorktreeStateInputs) item.WorktreeState {
	switch {
	case in.IsMain:
		return item.WorktreeStateNone
	case in.Locked:
		return item.WorktreeStateLocked
	case in.Prunable:
		return item.WorktreeStatePrunable
	case in.PathMismatch:
		return item.WorktreeStatePathMismatch
	default:
		return item.WorktreeStatePlainBranch
	}
}

// Glyphs is the single source of truth for the glyph alphabet. plain is
// what JSON's "symbols" field and non-ANSI contexts use; styled segments
// built from the same characters are the renderer's concern, not this
// package's.
func Glyphs(s item.StatusSymbols) string {
	var out []byte
	if s.Staged {
		out = append(out, 'S')
	}
	if s.Modified {
		out = append(out, 'M')
	}
	if s.Untracked {
		out = append(out, 'U')
	}
	if s.Renamed {
		out = append(out, 'R')
	}
	if s.Deleted {
		out = append(out, 'D')
	}
	out = append(out, branchStateGlyph(s.Branch)...)
	out = append(out, worktreeStateGlyph(s.Worktree)...)
	if s.Marker != "" {
		out = append(out, ' ')
		out = append(out, s.Marker...)
	}
	return string(out)
}

func branchStateGlyph(b item.BranchState) string {
	switch b {
	case item.BranchRebaseInProgress:
		return "~r"
	case item.BranchMergeInProgress:
		return "~m"
	case item.BranchConflictsPresent:
		return "!"
	case item.BranchWouldConflict:
		return "?!"
	case item.BranchSameAsDefault:
		return "="
	case item.BranchIntegrated:
		return "✓"
	default:
		return ""
	}
}

func worktreeStateGlyph(w item.WorktreeState) string {
	switch w {
	case item.WorktreeStateLocked:
		return "🔒"
	case item.WorktreeStatePrunable:
		return "×"
	case item.WorktreeStatePathMismatch:
		return "!p"
	default:
		return ""
	}
}

// GutterMarker returns the single-column type marker described in spec
// §4.F: `@` current, `^` main, `+` worktree, space branch-only.
func GutterMarker(isCurrent, isMain, isWorktree bool) byte {
	switch {
	case isCurrent:
		return '@'
	case isMain:
		return '^'
	case isWorktree:
		return '+'
	default:
		return ' '
	}
}
