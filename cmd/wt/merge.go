package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rxfork/worktrunk/internal/vcs"
)

type mergeFlags struct {
	method     string
	cherryPick string
}

// newMergeCmd integrates a worktree's branch into the default branch,
// adapted from the teacher's worktreeService.Absorb, plus the
// supplemented single-commit cherry-pick path.
func newMergeCmd(rf *rootFlags) *cobra.Command {
	var mf mergeFlags

	cmd := &cobra.Command{
		Use:   "merge <branch>",
		Short: "Integrate a worktree's branch into the default branch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(rf)
			if err != nil {
				return err
			}
			return runMerge(cmd.Context(), a, args[0], mf)
		},
	}

	cmd.Flags().StringVar(&mf.method, "method", "", `"rebase" or "merge" (defaults to the configured merge_method)`)
	cmd.Flags().StringVar(&mf.cherryPick, "cherry-pick", "", "cherry-pick a single commit SHA into the current worktree instead of absorbing a whole branch")

	return cmd
}

func runMerge(ctx context.Context, a *app, branch string, mf mergeFlags) error {
	if mf.cherryPick != "" {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		if err := a.vcs.CherryPick(ctx, mf.cherryPick, cwd); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "wt: cherry-picked %s\n", mf.cherryPick)
		return nil
	}

	wts, err := a.vcs.ListWorktrees(ctx)
	if err != nil {
		return err
	}
	if len(wts) == 0 {
		return fmt.Errorf("no worktrees found")
	}
	mainPath := wts[0].Path

	var branchWT *vcs.Worktree
	for i := range wts {
		if wts[i].Branch == branch {
			branchWT = &wts[i]
			break
		}
	}
	if branchWT == nil {
		return fmt.Errorf("no worktree found for branch %q", branch)
	}

	localBranches, _ := a.vcs.ListLocalBranches(ctx)
	defaultBranch, err := a.vcs.DefaultBranch(ctx, a.cfg.DefaultBranch, localBranches)
	if err != nil {
		return err
	}

	method := mf.method
	if method == "" {
		method = a.cfg.MergeMethod
	}

	if diff := a.vcs.BuildThreeWayDiff(ctx, branchWT.Path, vcs.DiffBudget{MaxChars: 4000, MaxUntrackedDiffs: 5}); diff != "" {
		fmt.Fprintln(os.Stderr, "wt: change summary for the suggested commit message:")
		fmt.Fprintln(os.Stderr, diff)
	}

	if err := a.vcs.Absorb(ctx, branchWT.Path, mainPath, branch, defaultBranch, method); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "wt: merged %s into %s via %s\n", branch, defaultBranch, method)
	return nil
}
