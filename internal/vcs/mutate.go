package vcs

import (
	"context"
	"fmt"
	"strings"

	"github.com/rxfork/worktrunk/internal/werr"
)

// AddWorktree runs `git worktree add -b branch path baseRef`, creating
// both the worktree and its branch, adapted from the teacher's
// worktreeService.Create.
func (s *Service) AddWorktree(ctx context.Context, branch, path, baseRef string) error {
	res, err := s.git(ctx, "worktree-add", "worktree", "add", "-b", branch, path, baseRef)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return &werr.ChildFailed{Command: "git", Args: []string{"worktree", "add", "-b", branch, path, baseRef}, ExitCode: res.ExitCode, Stderr: string(res.Stderr)}
	}
	return nil
}

// AddWorktreeExistingBranch runs `git worktree add path branch`, attaching
// an existing branch (no -b), used when a dangling local branch becomes a
// worktree.
func (s *Service) AddWorktreeExistingBranch(ctx context.Context, path, branch string) error {
	res, err := s.git(ctx, "worktree-add-existing", "worktree", "add", path, branch)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return &werr.ChildFailed{Command: "git", Args: []string{"worktree", "add", path, branch}, ExitCode: res.ExitCode, Stderr: string(res.Stderr)}
	}
	return nil
}

// RemoveWorktree runs `git worktree remove --force path`, matching the
// teacher's worktreeService.Delete.
func (s *Service) RemoveWorktree(ctx context.Context, path string) error {
	res, err := s.git(ctx, "worktree-remove", "worktree", "remove", "--force", path)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return &werr.ChildFailed{Command: "git", Args: []string{"worktree", "remove", "--force", path}, ExitCode: res.ExitCode, Stderr: string(res.Stderr)}
	}
	return nil
}

// DeleteBranch runs `git branch -D branch`.
func (s *Service) DeleteBranch(ctx context.Context, branch string) error {
	res, err := s.git(ctx, "branch-delete", "branch", "-D", branch)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return &werr.ChildFailed{Command: "git", Args: []string{"branch", "-D", branch}, ExitCode: res.ExitCode, Stderr: string(res.Stderr)}
	}
	return nil
}

// Push runs `git push` with extraArgs inside worktreePath, returning the
// combined stdout/stderr text for display, adapted from the teacher's
// worktreeService.Push.
func (s *Service) Push(ctx context.Context, worktreePath string, extraArgs ...string) (string, error) {
	args := append([]string{"git", "-C", worktreePath, "push"}, extraArgs...)
	res, err := s.run.Run(ctx, args, "push")
	out := strings.TrimSpace(string(res.Stdout) + "\n" + string(res.Stderr))
	if err != nil {
		return out, err
	}
	if res.ExitCode != 0 {
		return out, &werr.ChildFailed{Command: "git", Args: extraArgs, ExitCode: res.ExitCode, Stderr: out}
	}
	return out, nil
}

// FetchAll runs `git fetch --all --quiet`, matching the teacher's periodic
// background refresh call in app.go.
func (s *Service) FetchAll(ctx context.Context) error {
	res, err := s.git(ctx, "fetch-all", "fetch", "--all", "--quiet")
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return &werr.ChildFailed{Command: "git", Args: []string{"fetch", "--all", "--quiet"}, ExitCode: res.ExitCode, Stderr: string(res.Stderr)}
	}
	return nil
}

// Absorb merges or rebases branch (checked out at worktreePath) into
// defaultBranch (checked out at mainPath), matching the teacher's
// worktreeService.Absorb: "rebase" rebases the branch then fast-forwards
// main, anything else does a plain no-edit merge.
func (s *Service) Absorb(ctx context.Context, worktreePath, mainPath, branch, defaultBranch, mergeMethod string) error {
	if mergeMethod == "rebase" {
		res, err := s.run.Run(ctx, []string{"git", "-C", worktreePath, "rebase", defaultBranch}, "absorb-rebase")
		if err != nil {
			return err
		}
		if res.ExitCode != 0 {
			return fmt.Errorf("rebase failed; resolve conflicts in %s and retry: %s", worktreePath, strings.TrimSpace(string(res.Stderr)))
		}
		res, err = s.run.Run(ctx, []string{"git", "-C", mainPath, "merge", "--ff-only", branch}, "absorb-ff")
		if err != nil {
			return err
		}
		if res.ExitCode != 0 {
			return fmt.Errorf("fast-forward failed; %s may have diverged from %s", branch, defaultBranch)
		}
		return nil
	}

	res, err := s.run.Run(ctx, []string{"git", "-C", mainPath, "merge", "--no-edit", branch}, "absorb-merge")
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("merge failed; resolve conflicts in %s and retry: %s", mainPath, strings.TrimSpace(string(res.Stderr)))
	}
	return nil
}

// CurrentBranch runs `git rev-parse --abbrev-ref HEAD` in worktreePath.
func (s *Service) CurrentBranch(ctx context.Context, worktreePath string) (string, error) {
	res, err := s.run.Run(ctx, []string{"git", "-C", worktreePath, "rev-parse", "--abbrev-ref", "HEAD"}, "current-branch")
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		return "", &werr.ChildFailed{Command: "git", ExitCode: res.ExitCode, Stderr: string(res.Stderr)}
	}
	return strings.TrimSpace(string(res.Stdout)), nil
}
