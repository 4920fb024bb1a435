// Package item holds the data model shared by the collector, renderer,
// JSON serializer, and status decoder: Component §3 of the design — one
// record per logical row plus the tri-state, orthogonal-enum status types
// that keep "not computed" distinct from "computed empty".
package item

// Kind distinguishes a row backed by an on-disk worktree from a dangling
// branch ref with no worktree.
type Kind int

const (
	KindWorktree Kind = iota
	KindBranch
)

func (k Kind) String() string {
	if k == KindWorktree {
		return "worktree"
	}
	return "branch"
}

// Tri is a three-valued field: distinguishing "never computed" from
// "computed, and turned out empty" is load-bearing per spec §9 — it must
// never collapse to a nullable value.
type Tri[T any] struct {
	state triState
	value T
}

type triState int

const (
	triUncomputed triState = iota
	triSkipped
	triValue
)

// Computed wraps a value that was actually measured.
func Computed[T any](v T) Tri[T] { return Tri[T]{state: triValue, value: v} }

// Skipped marks a field the collector deliberately chose not to compute
// (e.g. diff-vs-default on the default branch's own worktree).
func Skipped[T any]() Tri[T] { return Tri[T]{state: triSkipped} }

// IsUncomputed reports whether no policy decision has touched this field yet.
func (t Tri[T]) IsUncomputed() bool { return t.state == triUncomputed }

// IsSkipped reports whether the collector decided not to compute this field.
func (t Tri[T]) IsSkipped() bool { return t.state == triSkipped }

// Value returns the computed value and whether one is present.
func (t Tri[T]) Value() (T, bool) {
	return t.value, t.state == triValue
}

// LineDiff is an added/deleted line-count pair shared by every diff field.
type LineDiff struct {
	Added   int
	Deleted int
}

// AheadBehind is a commit-count divergence pair.
type AheadBehind struct {
	Ahead  int
	Behind int
}

// CommitDetails is the subject/author-time pair for a ref's head commit.
type CommitDetails struct {
	SHA       string
	ShortSHA  string
	Subject   string
	Timestamp int64 // seconds since epoch
}

// IntegrationReason is the tie-broken cause a branch is considered merged.
type IntegrationReason int

const (
	ReasonNone IntegrationReason = iota
	ReasonTreesMatch
	ReasonNoAddedChanges
	ReasonMergeAddsNothing
)

func (r IntegrationReason) String() string {
	switch r {
	case ReasonTreesMatch:
		return "trees_match"
	case ReasonNoAddedChanges:
		return "no_added_changes"
	case ReasonMergeAddsNothing:
		return "merge_adds_nothing"
	default:
		return ""
	}
}

// BranchState is the mutually-exclusive state of a branch relative to
// rebase/merge/conflict markers and the default branch.
type BranchState int

const (
	BranchNormal BranchState = iota
	BranchRebaseInProgress
	BranchMergeInProgress
	BranchConflictsPresent
	BranchWouldConflict
	BranchSameAsDefault
	BranchIntegrated
)

func (b BranchState) String() string {
	switch b {
	case BranchRebaseInProgress:
		return "rebase"
	case BranchMergeInProgress:
		return "merge"
	case BranchConflictsPresent:
		return "conflicts"
	case BranchWouldConflict:
		return "would_conflict"
	case BranchSameAsDefault:
		return "same_commit"
	case BranchIntegrated:
		return "integrated"
	default:
		return "normal"
	}
}

// Divergence is the four-valued {none, ahead, behind, diverged} alphabet
// shared by the default-branch and upstream-tracking divergence axes —
// kept as two distinct fields with the same alphabet ("a distinct visual
// family" per spec §3), never merged into one.
type Divergence int

const (
	DivergenceNone Divergence = iota
	DivergenceAhead
	DivergenceBehind
	DivergenceDiverged
)

// WorktreeState is the mutually exclusive on-disk condition of a worktree.
type WorktreeState int

const (
	WorktreeStateNone WorktreeState = iota
	WorktreeStatePlainBranch
	WorktreeStatePathMismatch
	WorktreeStatePrunable
	WorktreeStateLocked
)

func (w WorktreeState) String() string {
	switch w {
	case WorktreeStatePlainBranch:
		return "no_worktree"
	case WorktreeStatePathMismatch:
		return "path_mismatch"
	case WorktreeStatePrunable:
		return "prunable"
	case WorktreeStateLocked:
		return "locked"
	default:
		return ""
	}
}

// StatusSymbols is the finite decomposition of every status a cell may
// show, as orthogonal subgroups (spec §3) rather than one glyph string;
// the glyph alphabet is only a view produced by internal/status.
type StatusSymbols struct {
	Staged    bool
	Modified  bool
	Untracked bool
	Renamed   bool
	Deleted   bool

	Branch            BranchState
	IntegrationReason IntegrationReason

	DivergenceDefault  Divergence
	DivergenceUpstream Divergence

	Worktree WorktreeState
	Marker   string // optional user-defined marker
}

// UpstreamKind distinguishes the three states a tracking ref can be in.
type UpstreamKind int

const (
	UpstreamNone UpstreamKind = iota
	UpstreamGone
	UpstreamActive
)

// UpstreamStatus is the tracking-branch divergence block.
type UpstreamStatus struct {
	Kind       UpstreamKind
	RemoteName string
	Branch     string
	AheadBehind
}

// CIStatus is the finite check-rollup alphabet a review probe reports.
type CIStatus int

const (
	CINone CIStatus = iota
	CIPassed
	CIRunning
	CIFailed
	CIConflicts
	CIError
)

func (c CIStatus) String() string {
	switch c {
	case CIPassed:
		return "passed"
	case CIRunning:
		return "running"
	case CIFailed:
		return "failed"
	case CIConflicts:
		return "conflicts"
	case CIError:
		return "error"
	default:
		return "no_ci"
	}
}

// ReviewSource distinguishes whether the status came from an actual PR/MR
// or from branch-level CI with no open proposal.
type ReviewSource int

const (
	SourceBranch ReviewSource = iota
	SourcePullRequest
)

func (s ReviewSource) String() string {
	if s == SourcePullRequest {
		return "pull_request"
	}
	return "branch"
}

// ReviewStatus is the review-system probe's result for one branch.
type ReviewStatus struct {
	CI      CIStatus
	Source  ReviewSource
	IsStale bool
	URL     string // empty when not applicable
}

// WorktreeData is attached to Items with Kind == KindWorktree.
type WorktreeData struct {
	Path          string
	IsMain        bool
	IsCurrent     bool
	IsPrevious    bool
	Detached      bool
	Bare          bool
	LockReason    string // "" means not locked
	Locked        bool
	PrunableWhy   string
	Prunable      bool
	WorkingDiff   Tri[LineDiff]
	DiffVsDefault Tri[LineDiff]
}

// Item is one logical row: exactly one of Worktree or Branch data.
type Item struct {
	Key    string // stable identity: branch name, or "detached:<sha>" / path
	Branch string // "" for a detached HEAD with no recovered branch
	Kind   Kind

	HeadSHA string
	Commit  Tri[CommitDetails]

	WorkingDiff          Tri[LineDiff] // only meaningful for worktrees; mirrors Worktree.WorkingDiff
	DiffVsDefault        Tri[LineDiff]
	AheadBehindVsDefault Tri[AheadBehind]

	Upstream Tri[UpstreamStatus]
	Review   Tri[ReviewStatus]

	Status StatusSymbols

	Worktree *WorktreeData // nil for Kind == KindBranch

	// Display-only projection, filled in once the snapshot is rendered.
	Statusline string
	Symbols    string
}

// IsDefaultBranchWorktree reports whether this item is the worktree
// checked out to the repository's default branch — used by the collector
// to collapse the trivially-zero ahead/behind-vs-self case.
func (it *Item) IsDefaultBranchWorktree(defaultBranch string) bool {
	return it.Kind == KindWorktree && defaultBranch != "" && it.Branch == defaultBranch
}
