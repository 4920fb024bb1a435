package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rxfork/worktrunk/internal/vcs"
)

type removeFlags struct {
	deleteBranch bool
	force        bool
}

// newRemoveCmd implements worktree teardown, adapted from the teacher's
// worktreeService.Delete: remove the worktree, optionally delete its
// branch, running terminate hooks first.
func newRemoveCmd(rf *rootFlags) *cobra.Command {
	var rf2 removeFlags

	cmd := &cobra.Command{
		Use:   "remove <branch>",
		Short: "Remove a worktree and optionally its branch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(rf)
			if err != nil {
				return err
			}
			return runRemove(cmd.Context(), a, args[0], rf2)
		},
	}

	cmd.Flags().BoolVar(&rf2.deleteBranch, "delete-branch", false, "also delete the local branch")
	cmd.Flags().BoolVar(&rf2.force, "force", false, "remove even with uncommitted changes (unpushed commits are not checked)")

	return cmd
}

func runRemove(ctx context.Context, a *app, branch string, rf removeFlags) error {
	wts, err := a.vcs.ListWorktrees(ctx)
	if err != nil {
		return err
	}

	if len(wts) == 0 {
		return fmt.Errorf("no worktrees found")
	}

	var target *vcs.Worktree
	for i := range wts {
		if wts[i].Branch == branch {
			target = &wts[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("no worktree found for branch %q", branch)
	}
	if target.Path == wts[0].Path {
		return fmt.Errorf("refusing to remove the main worktree")
	}

	if !rf.force {
		flags, _, err := a.vcs.Status(ctx, target.Path)
		if err == nil && (flags.Staged || flags.Modified || flags.Untracked) {
			return fmt.Errorf("worktree %s has uncommitted changes; pass --force to remove anyway", target.Path)
		}
	}

	if err := runHooks(ctx, a, a.cfg.TerminateCommands, target.Path, map[string]string{"WT_BRANCH": branch}); err != nil {
		return err
	}

	if err := a.vcs.RemoveWorktree(ctx, target.Path); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "wt: removed worktree %s\n", target.Path)

	if rf.deleteBranch {
		if err := a.vcs.DeleteBranch(ctx, branch); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "wt: deleted branch %s\n", branch)
	}
	return nil
}
