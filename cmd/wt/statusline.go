package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rxfork/worktrunk/internal/item"
	"github.com/rxfork/worktrunk/internal/render"
	"github.com/rxfork/worktrunk/internal/status"
	"github.com/rxfork/worktrunk/internal/vcs"
)

type statuslineFlags struct {
	plain bool
}

// newStatuslineCmd prints a single pre-formatted line describing the
// current worktree, meant to be embedded in a shell prompt — the same
// projection list --format=json exposes per item as "statusline"/"symbols",
// computed here for just one worktree without the full collector fan-out.
func newStatuslineCmd(rf *rootFlags) *cobra.Command {
	var sf statuslineFlags

	cmd := &cobra.Command{
		Use:   "statusline",
		Short: "Print a one-line status summary for the current worktree",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(rf)
			if err != nil {
				return err
			}
			return runStatusline(cmd.Context(), a, sf)
		},
	}

	cmd.Flags().BoolVar(&sf.plain, "plain", false, "print the ANSI-free symbol form instead of the styled line")

	return cmd
}

func runStatusline(ctx context.Context, a *app, sf statuslineFlags) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	branch, err := a.vcs.CurrentBranch(ctx, cwd)
	if err != nil {
		return err
	}

	it := &item.Item{Key: branch, Branch: branch, Kind: item.KindWorktree, Worktree: &item.WorktreeData{Path: cwd, IsCurrent: true}}

	flags, up, err := a.vcs.Status(ctx, cwd)
	if err == nil {
		it.Status.Staged, it.Status.Modified, it.Status.Untracked = flags.Staged, flags.Modified, flags.Untracked
		it.Status.Renamed, it.Status.Deleted = flags.Renamed, flags.Deleted
		if up.HasUpstream {
			it.Upstream = item.Computed(item.UpstreamStatus{Kind: item.UpstreamActive, Branch: up.Branch, AheadBehind: up.AheadBehind})
			it.Status.DivergenceUpstream = status.DecodeDivergence(up.AheadBehind.Ahead, up.AheadBehind.Behind)
		}
	}
	if op, err := a.vcs.DetectOperation(ctx, cwd); err == nil {
		switch op {
		case vcs.OpRebase:
			it.Status.Branch = item.BranchRebaseInProgress
		case vcs.OpMerge:
			it.Status.Branch = item.BranchMergeInProgress
		case vcs.OpConflicts:
			it.Status.Branch = item.BranchConflictsPresent
		}
	}

	if sf.plain {
		fmt.Println(status.Glyphs(it.Status))
	} else {
		fmt.Println(render.Statusline(it, a.theme))
	}
	return nil
}
