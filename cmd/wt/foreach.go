package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"
)

type foreachFlags struct {
	keepGoing bool
}

// newForEachCmd runs a shell command in every worktree directory,
// adapted from the teacher's Service.ExecuteCommands idiom (bash -lc per
// command, cwd set per worktree) but driven over every worktree instead
// of one hook target.
func newForEachCmd(rf *rootFlags) *cobra.Command {
	var ff foreachFlags

	cmd := &cobra.Command{
		Use:   "for-each -- <command...>",
		Short: "Run a shell command in every worktree",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(rf)
			if err != nil {
				return err
			}
			return runForEach(cmd.Context(), a, strings.Join(args, " "), ff)
		},
	}

	cmd.Flags().BoolVar(&ff.keepGoing, "keep-going", false, "continue past a worktree whose command fails")

	return cmd
}

func runForEach(ctx context.Context, a *app, script string, ff foreachFlags) error {
	wts, err := a.vcs.ListWorktrees(ctx)
	if err != nil {
		return err
	}

	var failures int
	for _, w := range wts {
		if w.Bare {
			continue
		}
		fmt.Fprintf(os.Stderr, "wt: %s\n", w.Path)

		// #nosec G204 -- the command is user-supplied on this invocation's
		// own command line, run through the user's shell by design.
		c := exec.CommandContext(ctx, "bash", "-lc", script)
		c.Dir = w.Path
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		c.Stdin = os.Stdin
		if err := c.Run(); err != nil {
			failures++
			fmt.Fprintf(os.Stderr, "wt: %s: %v\n", w.Path, err)
			if !ff.keepGoing {
				return fmt.Errorf("command failed in %s: %w", w.Path, err)
			}
		}
	}
	if failures > 0 {
		return fmt.Errorf("%d of %d worktrees failed", failures, len(wts))
	}
	return nil
}
