package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

type pushFlags struct {
	setUpstream bool
	force       bool
}

// newPushCmd pushes the current (or named) worktree's branch, adapted
// from the teacher's worktreeService.Push.
func newPushCmd(rf *rootFlags) *cobra.Command {
	var pf pushFlags

	cmd := &cobra.Command{
		Use:   "push [branch]",
		Short: "Push a worktree's branch to its remote",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(rf)
			if err != nil {
				return err
			}
			branch := ""
			if len(args) == 1 {
				branch = args[0]
			}
			return runPush(cmd.Context(), a, branch, pf)
		},
	}

	cmd.Flags().BoolVarP(&pf.setUpstream, "set-upstream", "u", false, "set the pushed branch's upstream")
	cmd.Flags().BoolVar(&pf.force, "force", false, "force-push with lease")

	return cmd
}

func runPush(ctx context.Context, a *app, branch string, pf pushFlags) error {
	path, err := os.Getwd()
	if err != nil {
		return err
	}
	if branch != "" {
		wts, err := a.vcs.ListWorktrees(ctx)
		if err != nil {
			return err
		}
		found := false
		for _, w := range wts {
			if w.Branch == branch {
				path, found = w.Path, true
				break
			}
		}
		if !found {
			return fmt.Errorf("no worktree found for branch %q", branch)
		}
	}

	var args []string
	if pf.setUpstream {
		current, err := a.vcs.CurrentBranch(ctx, path)
		if err != nil {
			return err
		}
		args = append(args, "-u", "origin", current)
	}
	if pf.force {
		args = append(args, "--force-with-lease")
	}

	out, err := a.vcs.Push(ctx, path, args...)
	if out != "" {
		fmt.Fprintln(os.Stderr, out)
	}
	return err
}
