package vcs

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/rxfork/worktrunk/internal/werr"
)

// CherryPick absorbs a single commit into targetPath, refusing when the
// target worktree has uncommitted changes and aborting cleanly on
// conflict so the worktree is never left mid-cherry-pick.
func (s *Service) CherryPick(ctx context.Context, commitSHA, targetPath string) error {
	res, err := s.run.Run(ctx, []string{"git", "-C", targetPath, "status", "--porcelain"}, "cherry-pick-preflight")
	if err != nil {
		return err
	}
	if strings.TrimSpace(string(res.Stdout)) != "" {
		return fmt.Errorf("target worktree has uncommitted changes")
	}

	res, err = s.run.Run(ctx, []string{"git", "-C", targetPath, "cherry-pick", commitSHA}, "cherry-pick")
	if err != nil {
		return err
	}
	if res.ExitCode == 0 {
		return nil
	}

	detail := strings.TrimSpace(string(res.Stderr))
	_, _ = s.run.Run(ctx, []string{"git", "-C", targetPath, "cherry-pick", "--abort"}, "cherry-pick-abort")
	if strings.Contains(strings.ToLower(detail), "conflict") {
		return fmt.Errorf("cherry-pick conflicts occurred: %s", detail)
	}
	return &werr.ChildFailed{Command: "git", Args: []string{"cherry-pick", commitSHA}, ExitCode: res.ExitCode, Stderr: detail}
}

var (
	githubRemoteRE = regexp.MustCompile(`github\.com[:/](.+?)(?:\.git)?$`)
	gitlabRemoteRE = regexp.MustCompile(`gitlab\.com[:/](.+?)(?:\.git)?$`)
	genericRemoteRE = regexp.MustCompile(`[:/]([^/]+/[^/]+?)(?:\.git)?$`)
)

// localRepoKey builds a stable, compact cache key when no remote name can
// be resolved at all.
func localRepoKey(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(path))
	return fmt.Sprintf("local-%x", sum[:8])
}

// ResolveRepoName identifies the repository by, in priority order: the
// origin remote URL (github/gitlab parsed directly, anything else via a
// generic owner/repo pattern), gh's and glab's own repo-view commands,
// and finally a hash of the worktree path. Every probe degrades silently
// to the next; only total failure returns "unknown".
func (s *Service) ResolveRepoName(ctx context.Context) string {
	remoteURL := s.firstLine(ctx, "origin-url", "git", "-C", s.root, "remote", "get-url", "origin")

	if remoteURL != "" {
		if strings.Contains(remoteURL, "github.com") {
			if m := githubRemoteRE.FindStringSubmatch(remoteURL); len(m) > 1 {
				return m[1]
			}
		}
		if strings.Contains(remoteURL, "gitlab.com") {
			if m := gitlabRemoteRE.FindStringSubmatch(remoteURL); len(m) > 1 {
				return m[1]
			}
		}
	}

	if name := s.firstLine(ctx, "gh-repo-view", "gh", "repo", "view", "--json", "nameWithOwner", "-q", ".nameWithOwner"); name != "" {
		return name
	}

	if out := s.firstLine(ctx, "glab-repo-view", "glab", "repo", "view", "-F", "json"); out != "" {
		var data map[string]any
		if json.Unmarshal([]byte(out), &data) == nil {
			if path, ok := data["path_with_namespace"].(string); ok && path != "" {
				return path
			}
		}
	}

	if remoteURL != "" {
		if m := genericRemoteRE.FindStringSubmatch(remoteURL); len(m) > 1 {
			return strings.TrimSuffix(m[1], ".git")
		}
	}

	if top := s.firstLine(ctx, "rev-parse-toplevel", "git", "-C", s.root, "rev-parse", "--show-toplevel"); top != "" {
		return localRepoKey(top)
	}

	return "unknown"
}

func (s *Service) firstLine(ctx context.Context, tag string, args ...string) string {
	res, err := s.run.Run(ctx, args, tag)
	if err != nil || res.ExitCode != 0 {
		return ""
	}
	return strings.TrimSpace(strings.SplitN(string(res.Stdout), "\n", 2)[0])
}

// DiffBudget bounds BuildThreeWayDiff's output, mirroring the teacher's
// MaxDiffChars/MaxUntrackedDiffs config knobs without pulling the whole
// AppConfig into this package.
type DiffBudget struct {
	MaxChars          int
	MaxUntrackedDiffs int
}

// BuildThreeWayDiff assembles a single diff text covering staged,
// unstaged, and (budget-limited) untracked changes in path, truncated to
// budget.MaxChars — used to seed a merge commit-message suggestion.
func (s *Service) BuildThreeWayDiff(ctx context.Context, path string, budget DiffBudget) string {
	var parts []string
	total := 0

	add := func(header, body string) {
		if body == "" {
			return
		}
		parts = append(parts, header+body)
		total += len(header) + len(body)
	}

	staged, _ := s.run.Run(ctx, []string{"git", "-C", path, "diff", "--cached", "--patch", "--no-color"}, "diff-staged")
	add("=== Staged Changes ===\n", string(staged.Stdout))

	if total < budget.MaxChars {
		unstaged, _ := s.run.Run(ctx, []string{"git", "-C", path, "diff", "--patch", "--no-color"}, "diff-unstaged")
		add("=== Unstaged Changes ===\n", string(unstaged.Stdout))
	}

	if total < budget.MaxChars && budget.MaxUntrackedDiffs > 0 {
		files := s.untrackedFiles(ctx, path)
		shown := len(files)
		if shown > budget.MaxUntrackedDiffs {
			shown = budget.MaxUntrackedDiffs
		}
		for i := 0; i < shown && total < budget.MaxChars; i++ {
			res, _ := s.run.Run(ctx, []string{"git", "-C", path, "diff", "--no-index", "/dev/null", files[i]}, "diff-untracked")
			add(fmt.Sprintf("=== Untracked: %s ===\n", files[i]), string(res.Stdout))
		}
		if len(files) > shown {
			parts = append(parts, fmt.Sprintf("\n\n[...showing %d of %d untracked files]", shown, len(files)))
		}
	}

	result := strings.Join(parts, "\n\n")
	if budget.MaxChars > 0 && len(result) > budget.MaxChars {
		result = result[:budget.MaxChars] + fmt.Sprintf("\n\n[...truncated at %d chars]", budget.MaxChars)
	}
	return result
}

func (s *Service) untrackedFiles(ctx context.Context, path string) []string {
	res, err := s.run.Run(ctx, []string{"git", "-C", path, "ls-files", "--others", "--exclude-standard"}, "untracked-files")
	if err != nil || res.ExitCode != 0 {
		return nil
	}
	var out []string
	for _, line := range strings.Split(string(res.Stdout), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
