package vcs

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"github.com/rxfork/worktrunk/internal/werr"
)

// defaultBranchConfigKey and recentBranchConfigKey are the two `git config`
// entries this tool is allowed to write back, per the external-interfaces
// contract: the cached default-branch name, and a short recency list used
// to implement the "previous" alias on switch.
const (
	defaultBranchConfigKey = "wt.default-branch-cache"
	recentBranchConfigKey  = "wt.recent-branch"

	maxRecentBranches = 10
	lockWait          = 2 * time.Second
)

// gitCommonDir resolves the shared .git directory (the same path across
// every worktree of one repository), so the advisory lock and the config
// writes below land in one place regardless of which worktree is current.
func (s *Service) gitCommonDir(ctx context.Context) (string, error) {
	res, err := s.git(ctx, "git-common-dir", "rev-parse", "--git-common-dir")
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		return "", &werr.ChildFailed{Command: "git", ExitCode: res.ExitCode, Stderr: string(res.Stderr)}
	}
	dir := strings.TrimSpace(string(res.Stdout))
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(s.root, dir)
	}
	return dir, nil
}

// withConfigLock runs fn while holding an advisory file lock over the
// repository's shared git directory, guarding the read-then-write sequence
// RecordSwitch and CacheDefaultBranch need against a second `wt` invocation
// racing the same config keys — `git config`'s own lockfile only guarantees
// one write is atomic, not that a read-modify-write across several
// invocations of it is.
func (s *Service) withConfigLock(ctx context.Context, fn func() error) error {
	dir, err := s.gitCommonDir(ctx)
	if err != nil {
		return err
	}
	fl := flock.New(filepath.Join(dir, "wt-state.lock"))
	locked, err := fl.TryLockContext(ctx, 50*time.Millisecond)
	if err != nil {
		return err
	}
	if !locked {
		return &werr.ChildFailed{Command: "flock", Stderr: "timed out waiting for wt-state.lock"}
	}
	defer fl.Unlock()
	return fn()
}

// CachedDefaultBranch reads back the default-branch name a previous `wt`
// invocation cached via CacheDefaultBranch, or "" if never written.
func (s *Service) CachedDefaultBranch(ctx context.Context) (string, error) {
	res, err := s.git(ctx, "config-get-default-branch", "config", "--get", defaultBranchConfigKey)
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		return "", nil
	}
	return strings.TrimSpace(string(res.Stdout)), nil
}

// CacheDefaultBranch writes the resolved default-branch name back under
// wt.default-branch-cache for CachedDefaultBranch to read; DefaultBranch
// itself does not consult this cache.
func (s *Service) CacheDefaultBranch(ctx context.Context, name string) error {
	return s.withConfigLock(ctx, func() error {
		res, err := s.git(ctx, "config-set-default-branch", "config", defaultBranchConfigKey, name)
		if err != nil {
			return err
		}
		if res.ExitCode != 0 {
			return &werr.ChildFailed{Command: "git", ExitCode: res.ExitCode, Stderr: string(res.Stderr)}
		}
		return nil
	})
}

// RecentBranches returns the recency list, most-recently-switched-to first.
func (s *Service) RecentBranches(ctx context.Context) ([]string, error) {
	res, err := s.git(ctx, "config-get-recent-branches", "config", "--get-all", recentBranchConfigKey)
	if err != nil {
		return nil, err
	}
	if res.ExitCode != 0 {
		return nil, nil
	}
	var out []string
	for _, line := range strings.Split(strings.TrimRight(string(res.Stdout), "\n"), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out, nil
}

// PreviousBranch returns the second entry of the recency list: the branch
// `switch -` (the "previous" alias) should resolve to. current is excluded
// so switching back and forth doesn't get stuck pointing at itself.
func (s *Service) PreviousBranch(ctx context.Context, current string) (string, error) {
	recent, err := s.RecentBranches(ctx)
	if err != nil {
		return "", err
	}
	for _, b := range recent {
		if b != current {
			return b, nil
		}
	}
	return "", nil
}

// RecordSwitch prepends branch to the recency list, deduplicating and
// truncating to maxRecentBranches, under the advisory config lock.
func (s *Service) RecordSwitch(ctx context.Context, branch string) error {
	if branch == "" {
		return nil
	}
	return s.withConfigLock(ctx, func() error {
		existing, err := s.RecentBranches(ctx)
		if err != nil {
			return err
		}
		next := []string{branch}
		for _, b := range existing {
			if b != branch {
				next = append(next, b)
			}
		}
		if len(next) > maxRecentBranches {
			next = next[:maxRecentBranches]
		}

		// git config --unset-all tolerates a previously-empty key.
		if res, err := s.git(ctx, "config-unset-recent-branches", "config", "--unset-all", recentBranchConfigKey); err != nil {
			return err
		} else if res.ExitCode != 0 && res.ExitCode != 5 {
			return &werr.ChildFailed{Command: "git", ExitCode: res.ExitCode, Stderr: string(res.Stderr)}
		}
		for _, b := range next {
			res, err := s.git(ctx, "config-add-recent-branch", "config", "--add", recentBranchConfigKey, b)
			if err != nil {
				return err
			}
			if res.ExitCode != 0 {
				return &werr.ChildFailed{Command: "git", ExitCode: res.ExitCode, Stderr: string(res.Stderr)}
			}
		}
		return nil
	})
}
