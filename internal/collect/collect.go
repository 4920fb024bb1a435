// Package collect implements Component E: for each item, decide which
// tasks to schedule, merge results into the item record as they arrive,
// and notify the driver that a new frame is available.
package collect

import (
	"context"

	"github.com/rxfork/worktrunk/internal/item"
	"github.com/rxfork/worktrunk/internal/task"
	"github.com/rxfork/worktrunk/internal/vcs"
)

// VCS is the subset of internal/vcs.Service the collector calls through
// task closures, expressed as an interface so the collector is testable
// without a real git adapter.
type VCS interface {
	AheadBehind(ctx context.Context, refA, refB string) (item.AheadBehind, error)
	BranchDiffNumeric(ctx context.Context, refA, refB string) (item.LineDiff, error)
	WorkingTreeDiff(ctx context.Context) (item.LineDiff, error)
	WorkingTreeDiffVs(ctx context.Context, ref string) (item.LineDiff, error)
	CommitDetails(ctx context.Context, ref string) (item.CommitDetails, error)
	Status(ctx context.Context, worktreePath string) (vcs.StatusFlags, vcs.UpstreamInfo, error)
	DetectOperation(ctx context.Context, worktreePath string) (vcs.GitOperation, error)
	IntegrationDetect(ctx context.Context, branch, defaultBranch string) (item.IntegrationReason, error)
}

// gitOperationResult is task.GitOperationDetect's payload: the in-progress
// operation (if any), plus the integration reason checked only when no
// operation is in progress (BranchIntegrated is mutually exclusive with
// an in-progress rebase/merge/conflict).
type gitOperationResult struct {
	op     vcs.GitOperation
	reason item.IntegrationReason
}

// Review is the subset of internal/review.Prober the collector needs.
type Review interface {
	Probe(ctx context.Context, branch, localHead string) (*item.ReviewStatus, error)
}

// ColumnVisibility tells the collector which conditional columns are
// currently enabled, so it can skip the underlying process invocation
// entirely rather than merely hiding the result (spec §4.E).
type ColumnVisibility struct {
	BranchDiff bool
	CiStatus   bool
	Upstream   bool
}

// Options configures one collector run.
type Options struct {
	DefaultBranch string
	Columns       ColumnVisibility
}

// Collector owns the mutable snapshot and the spawner driving it.
type Collector struct {
	vcs     VCS
	review  Review
	spawner *task.Spawner
	items   []*item.Item
	onFrame func()
}

// New builds a Collector over items, ready to schedule tasks via Schedule.
func New(vcs VCS, review Review, items []*item.Item, onFrame func()) *Collector {
	return &Collector{
		vcs:     vcs,
		review:  review,
		spawner: task.NewSpawner(len(items)*4 + 8),
		items:   items,
		onFrame: onFrame,
	}
}

// RunID returns this collector's unique run identifier (internal/task's
// uuid-backed Spawner.RunID), so a caller can tag trace output with which
// invocation produced it.
func (c *Collector) RunID() string { return c.spawner.RunID() }

// Snapshot returns the live slice of items; callers must treat it as
// read-only except through Apply, which the driver serializes under its
// own lock (spec §5: the driver takes a brief exclusive lock around apply
// and render, never across a blocking I/O boundary).
func (c *Collector) Snapshot() []*item.Item { return c.items }

// Results exposes the raw task-result channel so a driver (Component H)
// can drive its own debounced render loop directly over this collector,
// calling ApplyResult for each one instead of looping via Drain.
func (c *Collector) Results() <-chan task.Result { return c.spawner.Results() }

// ApplyResult merges one task result into its owning item, the same
// mutation Drain performs internally, exposed for callers that drive the
// channel themselves (e.g. internal/driver).
func (c *Collector) ApplyResult(r task.Result) {
	if it := c.find(r.Key.ItemKey); it != nil {
		Apply(r, it)
	}
}

// Schedule walks every item and schedules the tasks Policy says apply,
// per spec §4.E's fixed policy table.
func (c *Collector) Schedule(ctx context.Context, opts Options) {
	for _, it := range c.items {
		c.scheduleItem(ctx, it, opts)
	}
	c.spawner.CloseWhenDrained()
}

func (c *Collector) scheduleItem(ctx context.Context, it *item.Item, opts Options) {
	isDefault := it.IsDefaultBranchWorktree(opts.DefaultBranch)

	c.spawner.Spawn(it.Key, task.CommitDetails, func() (any, error) {
		return c.vcs.CommitDetails(ctx, headRefFor(it))
	})

	if !isDefault && opts.DefaultBranch != "" {
		c.spawner.Spawn(it.Key, task.AheadBehind, func() (any, error) {
			return c.vcs.AheadBehind(ctx, headRefFor(it), opts.DefaultBranch)
		})
	}

	if it.Kind == item.KindWorktree {
		c.spawner.Spawn(it.Key, task.WorkingDiff, func() (any, error) {
			return c.vcs.WorkingTreeDiff(ctx)
		})

		if !isDefault && opts.DefaultBranch != "" {
			c.spawner.Spawn(it.Key, task.WorkingDiffVsDefault, func() (any, error) {
				return c.vcs.WorkingTreeDiffVs(ctx, opts.DefaultBranch)
			})
		}
	}

	if it.Kind == item.KindWorktree && it.Worktree != nil {
		path := it.Worktree.Path

		c.spawner.Spawn(it.Key, task.Status, func() (any, error) {
			flags, _, err := c.vcs.Status(ctx, path)
			return flags, err
		})

		c.spawner.Spawn(it.Key, task.GitOperationDetect, func() (any, error) {
			op, err := c.vcs.DetectOperation(ctx, path)
			if err != nil {
				return gitOperationResult{}, err
			}
			if op != vcs.OpNone || it.Branch == "" || opts.DefaultBranch == "" || isDefault {
				return gitOperationResult{op: op}, nil
			}
			reason, err := c.vcs.IntegrationDetect(ctx, it.Branch, opts.DefaultBranch)
			if err != nil {
				return gitOperationResult{op: op}, nil
			}
			return gitOperationResult{op: op, reason: reason}, nil
		})

		if opts.Columns.Upstream {
			c.spawner.Spawn(it.Key, task.Upstream, func() (any, error) {
				_, up, err := c.vcs.Status(ctx, path)
				if err != nil {
					return item.UpstreamStatus{}, err
				}
				if !up.HasUpstream {
					return item.UpstreamStatus{Kind: item.UpstreamNone}, nil
				}
				return item.UpstreamStatus{Kind: item.UpstreamActive, Branch: up.Branch, RemoteName: up.Branch, AheadBehind: up.AheadBehind}, nil
			})
		}
	}

	if opts.Columns.BranchDiff && opts.DefaultBranch != "" {
		c.spawner.Spawn(it.Key, task.BranchDiff, func() (any, error) {
			return c.vcs.BranchDiffNumeric(ctx, headRefFor(it), opts.DefaultBranch)
		})
	}

	if opts.Columns.CiStatus && c.review != nil && it.Branch != "" {
		c.spawner.Spawn(it.Key, task.CiStatus, func() (any, error) {
			return c.review.Probe(ctx, it.Branch, it.HeadSHA)
		})
	}
}

func headRefFor(it *item.Item) string {
	if it.Branch != "" {
		return it.Branch
	}
	return it.HeadSHA
}

// Drain ranges over the spawner's result channel, applying each result to
// its item and notifying onFrame, until the channel closes (i.e. every
// scheduled task has reported). This is the collector's only blocking
// loop; it never does VCS I/O directly (spec §5).
func (c *Collector) Drain() {
	for r := range c.spawner.Results() {
		it := c.find(r.Key.ItemKey)
		if it != nil {
			Apply(r, it)
		}
		if c.onFrame != nil {
			c.onFrame()
		}
	}
}

// Done reports whether the expected-set and received-set now coincide.
func (c *Collector) Done() bool { return c.spawner.Completion() }

func (c *Collector) find(key string) *item.Item {
	for _, it := range c.items {
		if it.Key == key {
			return it
		}
	}
	return nil
}

// Apply merges one task result into its item. It is total and touches
// only the field the task's kind owns, so results from different kinds
// commute regardless of arrival order (spec §5).
func Apply(r task.Result, it *item.Item) {
	if r.Err != nil {
		applyMissing(r.Key.Kind, it)
		return
	}
	switch r.Key.Kind {
	case task.CommitDetails:
		if v, ok := r.Value.(item.CommitDetails); ok {
			it.Commit = item.Computed(v)
		}
	case task.AheadBehind:
		if v, ok := r.Value.(item.AheadBehind); ok {
			it.AheadBehindVsDefault = item.Computed(v)
		}
	case task.BranchDiff:
		if v, ok := r.Value.(item.LineDiff); ok {
			it.DiffVsDefault = item.Computed(v)
		}
	case task.WorkingDiff:
		if v, ok := r.Value.(item.LineDiff); ok {
			it.WorkingDiff = item.Computed(v)
			if it.Worktree != nil {
				it.Worktree.WorkingDiff = item.Computed(v)
			}
		}
	case task.WorkingDiffVsDefault:
		if v, ok := r.Value.(item.LineDiff); ok {
			if it.Worktree != nil {
				it.Worktree.DiffVsDefault = item.Computed(v)
			}
		}
	case task.CiStatus:
		if v, ok := r.Value.(*item.ReviewStatus); ok && v != nil {
			it.Review = item.Computed(*v)
		}
	case task.Upstream:
		if v, ok := r.Value.(item.UpstreamStatus); ok {
			it.Upstream = item.Computed(v)
		}
	case task.Status:
		if v, ok := r.Value.(vcs.StatusFlags); ok {
			it.Status.Staged, it.Status.Modified, it.Status.Untracked = v.Staged, v.Modified, v.Untracked
			it.Status.Renamed, it.Status.Deleted = v.Renamed, v.Deleted
		}
	case task.GitOperationDetect:
		if v, ok := r.Value.(gitOperationResult); ok {
			switch v.op {
			case vcs.OpRebase:
				it.Status.Branch = item.BranchRebaseInProgress
			case vcs.OpMerge:
				it.Status.Branch = item.BranchMergeInProgress
			case vcs.OpConflicts:
				it.Status.Branch = item.BranchConflictsPresent
			default:
				if v.reason != item.ReasonNone {
					it.Status.Branch = item.BranchIntegrated
					it.Status.IntegrationReason = v.reason
				}
			}
		}
	}
}

// applyMissing marks the field a failed task would have written as
// data-missing. Per spec §7, task-layer errors never abort the snapshot —
// the tri-state simply stays whatever it already was (uncomputed), which
// the renderer already treats as "no data".
func applyMissing(kind task.Kind, it *item.Item) {
	_ = kind
	_ = it
}
