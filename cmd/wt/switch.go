package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rxfork/worktrunk/internal/config"
	"github.com/rxfork/worktrunk/internal/directive"
	"github.com/rxfork/worktrunk/internal/utils"
)

type switchFlags struct {
	create  bool
	baseRef string
}

// newSwitchCmd implements the shell-integration "cd into a worktree"
// command: in directive mode (invoked from the shell wrapper) it prints a
// single cd script line on stdout; otherwise it just prints the resolved
// path, matching the teacher's base_selection.go worktree-add idiom.
func newSwitchCmd(rf *rootFlags) *cobra.Command {
	var sf switchFlags

	cmd := &cobra.Command{
		Use:   "switch [branch|-]",
		Short: "Switch to a worktree, creating one if --create is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(rf)
			if err != nil {
				return err
			}
			target := ""
			if len(args) == 1 {
				target = args[0]
			}
			return runSwitch(cmd.Context(), a, target, sf)
		},
	}

	cmd.Flags().BoolVar(&sf.create, "create", false, "create a new worktree and branch before switching")
	cmd.Flags().StringVar(&sf.baseRef, "base", "", "base ref for --create (defaults to the default branch)")

	return cmd
}

func runSwitch(ctx context.Context, a *app, target string, sf switchFlags) error {
	current, _ := os.Getwd()

	var targetPath, targetBranch string
	switch {
	case target == "-":
		prev, err := a.vcs.PreviousBranch(ctx, "")
		if err != nil {
			return err
		}
		if prev == "" {
			return fmt.Errorf("no previous worktree recorded")
		}
		targetBranch = prev
	case sf.create:
		branch := target
		if branch == "" {
			branch = utils.RandomBranchName()
		}
		base := sf.baseRef
		if base == "" {
			localBranches, _ := a.vcs.ListLocalBranches(ctx)
			base, _ = a.vcs.DefaultBranch(ctx, a.cfg.DefaultBranch, localBranches)
		}
		repoName := a.vcs.ResolveRepoName(ctx)
		dir := a.cfg.WorktreeDir
		if dir == "" {
			dir = filepath.Join(filepath.Dir(a.repoRoot), repoName+"-worktrees")
		}
		targetPath = filepath.Join(dir, sanitizeForPath(branch))
		if err := a.vcs.AddWorktree(ctx, branch, targetPath, base); err != nil {
			return err
		}
		targetBranch = branch
	default:
		if target == "" {
			return fmt.Errorf("switch requires a branch name, \"-\", or --create")
		}
		targetBranch = target
	}

	if targetPath == "" {
		wts, err := a.vcs.ListWorktrees(ctx)
		if err != nil {
			return err
		}
		for _, w := range wts {
			if w.Branch == targetBranch {
				targetPath = w.Path
				break
			}
		}
		if targetPath == "" {
			return fmt.Errorf("no worktree found for branch %q (pass --create to make one)", targetBranch)
		}
	}

	if err := runHooks(ctx, a, a.cfg.InitCommands, targetPath, map[string]string{"WT_BRANCH": targetBranch}); err != nil {
		return err
	}
	if err := a.vcs.RecordSwitch(ctx, targetBranch); err != nil {
		fmt.Fprintf(os.Stderr, "wt: warning: could not record switch history: %v\n", err)
	}

	script := directive.Script{
		ChangeDir: targetPath,
		Env:       map[string]string{"WT_PREVIOUS": current},
	}
	if a.directive {
		fmt.Println(script.Render())
	} else {
		fmt.Println(targetPath)
	}
	return nil
}

func sanitizeForPath(branch string) string {
	out := make([]rune, 0, len(branch))
	for _, r := range branch {
		if r == '/' {
			out = append(out, '-')
			continue
		}
		out = append(out, r)
	}
	return string(out)
}

// runHooks loads the repo-local hook overlay (if any) and runs cmds (plus
// any matching repo-local commands) through the approval-gated runner.
func runHooks(ctx context.Context, a *app, cmds []config.HookCommand, cwd string, env map[string]string) error {
	all := cmds
	if repoCfg, _, err := config.LoadRepoConfig(a.repoRoot); err == nil && repoCfg != nil {
		all = append(append([]config.HookCommand{}, cmds...), repoCfg.InitCommands...)
	}
	if len(all) == 0 {
		return nil
	}
	newlyApproved, err := a.hooks.Run(ctx, all, cwd, env)
	if err != nil {
		return err
	}
	if newlyApproved != "" {
		a.cfg.ApprovedHooks = append(a.cfg.ApprovedHooks, newlyApproved)
		if err := config.SaveApprovedHooks(a.cfg); err != nil {
			return fmt.Errorf("persisting hook approval: %w", err)
		}
	}
	return nil
}
