package vcs

import (
	"strconv"
	"strings"

	"github.com/rxfork/worktrunk/internal/item"
)

// StatusFlags is the working-tree subgroup of item.StatusSymbols, decoded
// from `git status --porcelain=v2 --branch` output.
type StatusFlags struct {
	Staged    bool
	Modified  bool
	Untracked bool
	Renamed   bool
	Deleted   bool
}

// UpstreamInfo is what ParseStatusV2 recovers about the tracking branch.
type UpstreamInfo struct {
	HasUpstream bool
	Branch      string
	AheadBehind item.AheadBehind
}

// ParseStatusV2 decodes `git status --porcelain=v2 --branch` output into
// the working-tree flags and upstream ahead/behind pair. Every XY code is
// handled explicitly; '.' in a slot means "no change in that slot".
func ParseStatusV2(output string) (StatusFlags, UpstreamInfo) {
	var flags StatusFlags
	var up UpstreamInfo

	for _, line := range strings.Split(output, "\n") {
		switch {
		case strings.HasPrefix(line, "# branch.upstream "):
			up.HasUpstream = true
			up.Branch = strings.TrimPrefix(line, "# branch.upstream ")
		case strings.HasPrefix(line, "# branch.ab "):
			up.HasUpstream = true
			parts := strings.Fields(line)
			if len(parts) >= 4 {
				ahead, _ := strconv.Atoi(strings.TrimPrefix(parts[2], "+"))
				behind, _ := strconv.Atoi(strings.TrimPrefix(parts[3], "-"))
				up.AheadBehind = item.AheadBehind{Ahead: ahead, Behind: behind}
			}
		case strings.HasPrefix(line, "?"):
			flags.Untracked = true
		case strings.HasPrefix(line, "1 "), strings.HasPrefix(line, "2 "):
			parts := strings.Fields(line)
			if len(parts) < 2 || len(parts[1]) < 2 {
				continue
			}
			xy := parts[1]
			if xy[0] != '.' {
				flags.Staged = true
			}
			if xy[1] != '.' {
				flags.Modified = true
				if xy[1] == 'D' {
					flags.Deleted = true
				}
			}
			if xy[0] == 'D' {
				flags.Deleted = true
			}
			if strings.HasPrefix(line, "2 ") {
				flags.Renamed = true
			}
		}
	}
	return flags, up
}

// GitOperation is the finite enum detect_git_operation returns.
type GitOperation int

const (
	OpNone GitOperation = iota
	OpRebase
	OpMerge
	OpConflicts
)

// DetectGitOperation inspects the marker files under a worktree's git dir
// (caller supplies their contents/presence so this stays a pure function)
// to decide which in-progress operation, if any, is underway. Conflict
// detection takes precedence only when explicitly signalled by the
// caller's conflictEntries count, matching the provider mapping rule that
// conflict state preempts other states.
func DetectGitOperation(hasRebaseMarker, hasMergeMarker bool, conflictEntries int) GitOperation {
	if conflictEntries > 0 {
		return OpConflicts
	}
	if hasRebaseMarker {
		return OpRebase
	}
	if hasMergeMarker {
		return OpMerge
	}
	return OpNone
}
