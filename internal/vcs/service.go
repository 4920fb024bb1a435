package vcs

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rxfork/worktrunk/internal/item"
	"github.com/rxfork/worktrunk/internal/werr"
)

// Runner is the subset of internal/process.Runner the adapter needs,
// expressed as an interface so parser-adjacent logic can be tested with a
// fake instead of shelling out to a real git binary.
type Runner interface {
	Run(ctx context.Context, args []string, contextTag string) (RunResult, error)
	RunHeavy(ctx context.Context, args []string, contextTag string) (RunResult, error)
}

// RunResult mirrors process.Result; kept as a local type so this package
// does not need to import internal/process, only an adapter of it does
// (see Adapt in runner_adapter.go).
type RunResult struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// Service is the VCS adapter, Component B: a typed wrapper over the host
// VCS CLI, with every parser a pure function independently testable.
type Service struct {
	run  Runner
	root string // repository working directory the commands run in
}

// New builds a Service rooted at repoRoot.
func New(run Runner, repoRoot string) *Service {
	return &Service{run: run, root: repoRoot}
}

func (s *Service) git(ctx context.Context, tag string, args ...string) (RunResult, error) {
	full := append([]string{"git", "-C", s.root}, args...)
	return s.run.Run(ctx, full, tag)
}

func (s *Service) gitHeavy(ctx context.Context, tag string, args ...string) (RunResult, error) {
	full := append([]string{"git", "-C", s.root}, args...)
	return s.run.RunHeavy(ctx, full, tag)
}

// ListWorktrees runs `git worktree list --porcelain`, filters bare
// entries, and enforces the main worktree at index 0 (already git's
// convention for the first non-bare record).
func (s *Service) ListWorktrees(ctx context.Context) ([]Worktree, error) {
	res, err := s.git(ctx, "worktree-list", "worktree", "list", "--porcelain")
	if err != nil {
		return nil, err
	}
	if res.ExitCode != 0 {
		return nil, &werr.ChildFailed{Command: "git", Args: []string{"worktree", "list", "--porcelain"}, ExitCode: res.ExitCode, Stderr: string(res.Stderr)}
	}
	list := ParseWorktreeList(string(res.Stdout))
	return FilterBareAndOrderMain(list), nil
}

// ListLocalBranches returns every local branch name, used both to feed
// DefaultBranch's step 5/6 fallback and to enumerate dangling branches
// (local branches with no attached worktree) for `list --branches`.
func (s *Service) ListLocalBranches(ctx context.Context) ([]string, error) {
	res, err := s.git(ctx, "for-each-ref", "for-each-ref", "refs/heads", "--format=%(refname:short)")
	if err != nil {
		return nil, err
	}
	if res.ExitCode != 0 {
		return nil, &werr.ChildFailed{Command: "git", Args: []string{"for-each-ref", "refs/heads"}, ExitCode: res.ExitCode, Stderr: string(res.Stderr)}
	}
	var out []string
	for _, line := range strings.Split(string(res.Stdout), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out, nil
}

// ListRemoteBranches returns every remote-tracking branch name with its
// remote prefix stripped to the local form ("origin/feature" → "feature"),
// skipping each remote's symbolic HEAD pointer, for `list --remotes`.
func (s *Service) ListRemoteBranches(ctx context.Context) ([]string, error) {
	res, err := s.git(ctx, "for-each-ref-remotes", "for-each-ref", "refs/remotes", "--format=%(refname:short)")
	if err != nil {
		return nil, err
	}
	if res.ExitCode != 0 {
		return nil, &werr.ChildFailed{Command: "git", Args: []string{"for-each-ref", "refs/remotes"}, ExitCode: res.ExitCode, Stderr: string(res.Stderr)}
	}
	var out []string
	for _, line := range strings.Split(string(res.Stdout), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		_, name, found := strings.Cut(line, "/")
		if !found || name == "HEAD" {
			continue
		}
		out = append(out, name)
	}
	return out, nil
}

// BranchHeadSHA resolves branch's current commit SHA, used to seed a
// dangling-branch item's HeadSHA without a worktree to read HEAD from.
func (s *Service) BranchHeadSHA(ctx context.Context, branch string) (string, error) {
	res, err := s.git(ctx, "rev-parse-branch", "rev-parse", "refs/heads/"+branch)
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		return "", &werr.ChildFailed{Command: "git", Args: []string{"rev-parse", branch}, ExitCode: res.ExitCode, Stderr: string(res.Stderr)}
	}
	return strings.TrimSpace(string(res.Stdout)), nil
}

// DefaultBranch resolves the repository's trunk branch, in the six-step
// order from spec §4.B, stopping at the first step that yields an
// existing branch. overrideBranch is the VCS-config override (step 1),
// resolved by the caller (internal/config owns the "default_branch"
// config key); localBranches is the caller's already-fetched list of
// local branch names, used for steps 5 and 6.
func (s *Service) DefaultBranch(ctx context.Context, overrideBranch string, localBranches []string) (string, error) {
	if overrideBranch != "" {
		if contains(localBranches, overrideBranch) {
			return overrideBranch, nil
		}
	}

	if branch, err := s.localDefaultBranch(ctx); err == nil && branch != "" {
		return branch, nil
	}

	if branch, err := s.remoteDefaultBranch(ctx); err == nil && branch != "" {
		_, _ = s.git(ctx, "cache-default-branch", "remote", "set-head", "origin", branch)
		return branch, nil
	}

	if branch, err := s.initDefaultBranchConfig(ctx); err == nil && branch != "" {
		return branch, nil
	}

	for _, candidate := range []string{"main", "master", "trunk", "develop"} {
		if contains(localBranches, candidate) {
			return candidate, nil
		}
	}

	if len(localBranches) == 1 {
		return localBranches[0], nil
	}

	return "", nil
}

func contains(list []string, v string) bool {
	for _, e := range list {
		if e == v {
			return true
		}
	}
	return false
}

func (s *Service) localDefaultBranch(ctx context.Context) (string, error) {
	res, err := s.git(ctx, "default-branch-local", "rev-parse", "--abbrev-ref", "origin/HEAD")
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		return "", &werr.ChildFailed{Command: "git", ExitCode: res.ExitCode}
	}
	return parseLocalDefaultBranch(string(res.Stdout))
}

func parseLocalDefaultBranch(output string) (string, error) {
	trimmed := strings.TrimSpace(output)
	branch := strings.TrimPrefix(trimmed, "origin/")
	if branch == "" {
		return "", &werr.ParseMismatch{Source: "origin/HEAD", Reason: "empty branch name"}
	}
	return branch, nil
}

func (s *Service) remoteDefaultBranch(ctx context.Context) (string, error) {
	res, err := s.git(ctx, "default-branch-remote", "ls-remote", "--symref", "origin", "HEAD")
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		return "", &werr.ChildFailed{Command: "git", ExitCode: res.ExitCode}
	}
	return parseRemoteDefaultBranch(string(res.Stdout))
}

func parseRemoteDefaultBranch(output string) (string, error) {
	for _, line := range strings.Split(output, "\n") {
		symref, ok := strings.CutPrefix(line, "ref: ")
		if !ok {
			continue
		}
		refPath, _, _ := strings.Cut(symref, "\t")
		if branch, ok := strings.CutPrefix(refPath, "refs/heads/"); ok {
			return branch, nil
		}
	}
	return "", &werr.ParseMismatch{Source: "ls-remote --symref", Reason: "no symbolic ref found"}
}

func (s *Service) initDefaultBranchConfig(ctx context.Context) (string, error) {
	res, err := s.git(ctx, "init-default-branch", "config", "--get", "init.defaultBranch")
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		return "", nil
	}
	return strings.TrimSpace(string(res.Stdout)), nil
}

// AheadBehind returns the ahead/behind counts of refA relative to refB.
func (s *Service) AheadBehind(ctx context.Context, refA, refB string) (item.AheadBehind, error) {
	spec := fmt.Sprintf("%s...%s", refB, refA)
	res, err := s.git(ctx, "ahead-behind", "rev-list", "--left-right", "--count", spec)
	if err != nil {
		return item.AheadBehind{}, err
	}
	if res.ExitCode != 0 {
		return item.AheadBehind{}, &werr.ChildFailed{Command: "git", ExitCode: res.ExitCode, Stderr: string(res.Stderr)}
	}
	parts := strings.Fields(string(res.Stdout))
	if len(parts) != 2 {
		return item.AheadBehind{}, &werr.ParseMismatch{Source: "rev-list --left-right --count", Reason: "unexpected field count"}
	}
	behind, _ := strconv.Atoi(parts[0])
	ahead, _ := strconv.Atoi(parts[1])
	return item.AheadBehind{Ahead: ahead, Behind: behind}, nil
}

// BranchDiffNumeric returns added/deleted line totals between two refs,
// gated by the heavy-op semaphore per spec §4.A.
func (s *Service) BranchDiffNumeric(ctx context.Context, refA, refB string) (item.LineDiff, error) {
	spec := fmt.Sprintf("%s...%s", refB, refA)
	res, err := s.gitHeavy(ctx, "branch-diff-numeric", "diff", "--numstat", spec)
	if err != nil {
		return item.LineDiff{}, err
	}
	if res.ExitCode != 0 {
		return item.LineDiff{}, &werr.ChildFailed{Command: "git", ExitCode: res.ExitCode, Stderr: string(res.Stderr)}
	}
	return sumNumstat(string(res.Stdout)), nil
}

// WorkingTreeDiff returns added/deleted totals between the worktree and HEAD.
func (s *Service) WorkingTreeDiff(ctx context.Context) (item.LineDiff, error) {
	res, err := s.git(ctx, "working-diff", "diff", "--numstat", "HEAD")
	if err != nil {
		return item.LineDiff{}, err
	}
	if res.ExitCode != 0 {
		return item.LineDiff{}, &werr.ChildFailed{Command: "git", ExitCode: res.ExitCode, Stderr: string(res.Stderr)}
	}
	return sumNumstat(string(res.Stdout)), nil
}

// WorkingTreeDiffVs returns added/deleted totals between the worktree and ref.
func (s *Service) WorkingTreeDiffVs(ctx context.Context, ref string) (item.LineDiff, error) {
	res, err := s.gitHeavy(ctx, "working-diff-vs", "diff", "--numstat", ref)
	if err != nil {
		return item.LineDiff{}, err
	}
	if res.ExitCode != 0 {
		return item.LineDiff{}, &werr.ChildFailed{Command: "git", ExitCode: res.ExitCode, Stderr: string(res.Stderr)}
	}
	return sumNumstat(string(res.Stdout)), nil
}

func sumNumstat(output string) item.LineDiff {
	var d item.LineDiff
	for _, line := range strings.Split(output, "\n") {
		parts := strings.Fields(line)
		if len(parts) < 2 {
			continue
		}
		a, errA := strconv.Atoi(parts[0])
		b, errB := strconv.Atoi(parts[1])
		if errA == nil {
			d.Added += a
		}
		if errB == nil {
			d.Deleted += b
		}
	}
	return d
}

// Status runs `git status --porcelain=v2 --branch` in worktreePath and
// returns the decomposed working-tree flags plus upstream info.
func (s *Service) Status(ctx context.Context, worktreePath string) (StatusFlags, UpstreamInfo, error) {
	res, err := s.run.Run(ctx, []string{"git", "-C", worktreePath, "status", "--porcelain=v2", "--branch"}, "status")
	if err != nil {
		return StatusFlags{}, UpstreamInfo{}, err
	}
	if res.ExitCode != 0 {
		return StatusFlags{}, UpstreamInfo{}, &werr.ChildFailed{Command: "git", ExitCode: res.ExitCode, Stderr: string(res.Stderr)}
	}
	flags, up := ParseStatusV2(string(res.Stdout))
	return flags, up, nil
}

// refExists reports whether ref resolves inside worktreePath, used to
// probe the REBASE_HEAD/MERGE_HEAD markers without shelling out to stat
// the git directory directly.
func (s *Service) refExists(ctx context.Context, worktreePath, ref string) bool {
	res, err := s.run.Run(ctx, []string{"git", "-C", worktreePath, "rev-parse", "-q", "--verify", ref}, "ref-exists")
	return err == nil && res.ExitCode == 0
}

// DetectOperation probes worktreePath for an in-progress rebase or merge
// and for unmerged (conflicted) index entries, then resolves the three
// signals to the single GitOperation enum via DetectGitOperation.
func (s *Service) DetectOperation(ctx context.Context, worktreePath string) (GitOperation, error) {
	rebasing := s.refExists(ctx, worktreePath, "REBASE_HEAD")
	merging := s.refExists(ctx, worktreePath, "MERGE_HEAD")

	res, err := s.run.Run(ctx, []string{"git", "-C", worktreePath, "status", "--porcelain=v2"}, "status-conflicts")
	if err != nil {
		return OpNone, err
	}
	conflicts := 0
	for _, line := range strings.Split(string(res.Stdout), "\n") {
		if strings.HasPrefix(line, "u ") {
			conflicts++
		}
	}
	return DetectGitOperation(rebasing, merging, conflicts), nil
}

// CommitDetails returns the subject/author-time pair for ref's head commit.
func (s *Service) CommitDetails(ctx context.Context, ref string) (item.CommitDetails, error) {
	res, err := s.git(ctx, "commit-details", "log", "-1", "--format=%H%x1f%h%x1f%at%x1f%s", ref)
	if err != nil {
		return item.CommitDetails{}, err
	}
	if res.ExitCode != 0 {
		return item.CommitDetails{}, &werr.ChildFailed{Command: "git", ExitCode: res.ExitCode, Stderr: string(res.Stderr)}
	}
	fields := strings.Split(strings.TrimRight(string(res.Stdout), "\n"), "\x1f")
	if len(fields) != 4 {
		return item.CommitDetails{}, &werr.ParseMismatch{Source: "git log", Reason: "unexpected field count"}
	}
	ts, _ := strconv.ParseInt(fields[2], 10, 64)
	return item.CommitDetails{SHA: fields[0], ShortSHA: fields[1], Timestamp: ts, Subject: fields[3]}, nil
}

// IntegrationDetect decides whether branch's content is already present on
// default, and if so, by which of the three reasons — in the documented
// stable priority order: trees_match first, then no_added_changes, then
// merge_adds_nothing.
func (s *Service) IntegrationDetect(ctx context.Context, branch, defaultBranch string) (item.IntegrationReason, error) {
	sameTree, err := s.treesMatch(ctx, branch, defaultBranch)
	if err != nil {
		return item.ReasonNone, err
	}
	if sameTree {
		return item.ReasonTreesMatch, nil
	}

	diff, err := s.BranchDiffNumeric(ctx, branch, defaultBranch)
	if err != nil {
		return item.ReasonNone, err
	}
	if diff.Added == 0 && diff.Deleted == 0 {
		return item.ReasonNoAddedChanges, nil
	}

	adds, err := s.mergeAddsNothing(ctx, branch, defaultBranch)
	if err != nil {
		return item.ReasonNone, err
	}
	if adds {
		return item.ReasonMergeAddsNothing, nil
	}

	return item.ReasonNone, nil
}

func (s *Service) treesMatch(ctx context.Context, branch, defaultBranch string) (bool, error) {
	branchTree, err := s.treeSHA(ctx, branch)
	if err != nil {
		return false, err
	}
	defaultTree, err := s.treeSHA(ctx, defaultBranch)
	if err != nil {
		return false, err
	}
	return branchTree != "" && branchTree == defaultTree, nil
}

func (s *Service) treeSHA(ctx context.Context, ref string) (string, error) {
	res, err := s.git(ctx, "tree-sha", "rev-parse", ref+"^{tree}")
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		return "", nil
	}
	return strings.TrimSpace(string(res.Stdout)), nil
}

func (s *Service) mergeAddsNothing(ctx context.Context, branch, defaultBranch string) (bool, error) {
	res, err := s.git(ctx, "merge-tree-check", "merge-tree", defaultBranch, branch)
	if err != nil {
		return false, err
	}
	if res.ExitCode != 0 {
		return false, nil
	}
	mergedTree := strings.Fields(string(res.Stdout))
	if len(mergedTree) == 0 {
		return false, nil
	}
	defaultTree, err := s.treeSHA(ctx, defaultBranch)
	if err != nil {
		return false, err
	}
	return mergedTree[0] == defaultTree, nil
}
