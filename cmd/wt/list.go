package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rxfork/worktrunk/internal/collect"
	"github.com/rxfork/worktrunk/internal/column"
	"github.com/rxfork/worktrunk/internal/driver"
	"github.com/rxfork/worktrunk/internal/item"
	"github.com/rxfork/worktrunk/internal/jsonout"
	"github.com/rxfork/worktrunk/internal/render"
	"github.com/rxfork/worktrunk/internal/status"
	"github.com/rxfork/worktrunk/internal/task"
	"github.com/rxfork/worktrunk/internal/vcs"
)

type listFlags struct {
	format        string
	branches      bool
	remotes       bool
	progressive   bool
	noProgressive bool
	full          bool
}

func newListCmd(rf *rootFlags) *cobra.Command {
	var lf listFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every worktree and related branch for this repository",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(rf)
			if err != nil {
				return err
			}
			return runList(cmd.Context(), a, lf)
		},
	}

	cmd.Flags().StringVar(&lf.format, "format", "table", `output format: "table" or "json"`)
	cmd.Flags().BoolVar(&lf.branches, "branches", false, "include dangling local branches as items")
	cmd.Flags().BoolVar(&lf.remotes, "remotes", false, "include remote-only branches, normalized to local form")
	cmd.Flags().BoolVar(&lf.progressive, "progressive", false, "force progressive streaming on")
	cmd.Flags().BoolVar(&lf.noProgressive, "no-progressive", false, "force progressive streaming off")
	cmd.Flags().BoolVar(&lf.full, "full", false, "never shed columns for width; always render every enabled column")

	return cmd
}

// runList builds the initial item set, schedules Component E's tasks,
// drives Component H's render to stderr (progressive, or only the skeleton
// and final frames when progressive rendering is off, which --format=json
// forces), and for --format=json then prints the JSON projection on stdout.
func runList(ctx context.Context, a *app, lf listFlags) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	wts, err := a.vcs.ListWorktrees(ctx)
	if err != nil {
		return err
	}
	localBranches, err := a.vcs.ListLocalBranches(ctx)
	if err != nil {
		localBranches = nil
	}
	defaultBranch, err := a.vcs.DefaultBranch(ctx, a.cfg.DefaultBranch, localBranches)
	if err != nil {
		defaultBranch = ""
	}

	currentPath, _ := os.Getwd()
	items := buildWorktreeItems(wts, currentPath)
	if lf.branches {
		items = append(items, buildDanglingBranchItems(ctx, a, wts, localBranches)...)
	}
	if lf.remotes {
		items = append(items, buildRemoteBranchItems(ctx, a, items, localBranches)...)
	}
	currentKey := ""
	for _, it := range items {
		if it.Worktree != nil && it.Worktree.IsCurrent {
			currentKey = it.Key
			break
		}
	}

	opts := collect.Options{
		DefaultBranch: defaultBranch,
		Columns:       collect.ColumnVisibility{BranchDiff: true, CiStatus: true, Upstream: true},
	}

	collector := collect.New(a.vcs, a.review, items, nil)
	a.ring.RecordInstant("list_run:"+collector.RunID(), 0)
	spawnedKinds := spawnedTaskKinds(items, opts)
	disabledCols := disabledColumnSet(a.cfg.DisabledColumns)

	renderFrame := func() []string {
		specs := column.Visible(spawnedKinds, disabledCols)
		cols := render.BuildColumns(specs, collector.Snapshot(), a.theme, currentKey)
		layout := render.Compute(cols, render.TerminalWidth(), lf.full)
		return render.RenderFrame(layout, len(items))
	}

	progressive := !lf.noProgressive && (lf.progressive || isTerminal(os.Stderr))
	if lf.format == "json" {
		progressive = false
	}

	collector.Schedule(ctx, opts)

	d := &driver.Driver{
		Results:     collector.Results(),
		Apply:       collector.ApplyResult,
		RenderFrame: renderFrame,
		Out:         os.Stderr,
		Progressive: progressive,
	}
	d.Run(ctx)

	if lf.format == "json" {
		for _, it := range items {
			it.Symbols = status.Glyphs(it.Status)
			it.Statusline = render.Statusline(it, a.theme)
		}
		out, err := jsonout.Marshal(items)
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	}
	return nil
}

// spawnedTaskKinds approximates the set of task kinds the collector will
// actually schedule for at least one item, mirroring the same policy
// collect.scheduleItem applies, so gated columns (spec §3: "a column that
// declares requires_task is rendered only when T was spawned for at
// least one item") agree with what Schedule really does.
func spawnedTaskKinds(items []*item.Item, opts collect.Options) map[task.Kind]bool {
	kinds := map[task.Kind]bool{}
	for _, it := range items {
		isDefault := it.IsDefaultBranchWorktree(opts.DefaultBranch)
		kinds[task.CommitDetails] = true
		if !isDefault && opts.DefaultBranch != "" {
			kinds[task.AheadBehind] = true
		}
		if it.Kind == item.KindWorktree {
			kinds[task.WorkingDiff] = true
			if !isDefault && opts.DefaultBranch != "" {
				kinds[task.WorkingDiffVsDefault] = true
			}
		}
		if opts.Columns.BranchDiff && opts.DefaultBranch != "" {
			kinds[task.BranchDiff] = true
		}
		if opts.Columns.CiStatus && it.Branch != "" {
			kinds[task.CiStatus] = true
		}
	}
	return kinds
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

// buildWorktreeItems converts the parsed worktree list into the initial
// item set, index 0 always the main worktree (FilterBareAndOrderMain's
// invariant), flagging the current entry.
func buildWorktreeItems(wts []vcs.Worktree, currentPath string) []*item.Item {
	items := make([]*item.Item, 0, len(wts))
	for i, w := range wts {
		key := w.Branch
		if key == "" {
			key = "detached:" + w.Head
		}
		it := &item.Item{
			Key:     key,
			Branch:  w.Branch,
			Kind:    item.KindWorktree,
			HeadSHA: w.Head,
			Worktree: &item.WorktreeData{
				Path:        w.Path,
				IsMain:      i == 0,
				IsCurrent:   samePath(w.Path, currentPath),
				Detached:    w.Detached,
				Bare:        w.Bare,
				LockReason:  w.Locked,
				Locked:      w.LockedSet,
				PrunableWhy: w.Prunable,
				Prunable:    w.PrunableSet,
			},
		}
		switch {
		case it.Worktree.Locked:
			it.Status.Worktree = item.WorktreeStateLocked
		case it.Worktree.Prunable:
			it.Status.Worktree = item.WorktreeStatePrunable
		}
		items = append(items, it)
	}
	return items
}

// buildDanglingBranchItems adds one item per local branch with no
// attached worktree, per --branches.
func buildDanglingBranchItems(ctx context.Context, a *app, wts []vcs.Worktree, localBranches []string) []*item.Item {
	attached := make(map[string]bool, len(wts))
	for _, w := range wts {
		if w.Branch != "" {
			attached[w.Branch] = true
		}
	}

	var out []*item.Item
	for _, b := range localBranches {
		if attached[b] {
			continue
		}
		sha, err := a.vcs.BranchHeadSHA(ctx, b)
		if err != nil {
			continue
		}
		it := &item.Item{Key: b, Branch: b, Kind: item.KindBranch, HeadSHA: sha}
		it.Status.Worktree = item.WorktreeStatePlainBranch
		out = append(out, it)
	}
	return out
}

// buildRemoteBranchItems adds one item per remote-tracking branch that
// has no local branch or worktree of the same name, per --remotes; the
// name is already normalized to its local form by ListRemoteBranches.
func buildRemoteBranchItems(ctx context.Context, a *app, existing []*item.Item, localBranches []string) []*item.Item {
	remotes, err := a.vcs.ListRemoteBranches(ctx)
	if err != nil {
		return nil
	}
	known := make(map[string]bool, len(existing)+len(localBranches))
	for _, it := range existing {
		known[it.Branch] = true
	}
	for _, b := range localBranches {
		known[b] = true
	}

	var out []*item.Item
	seen := map[string]bool{}
	for _, b := range remotes {
		if known[b] || seen[b] {
			continue
		}
		seen[b] = true
		it := &item.Item{Key: b, Branch: b, Kind: item.KindBranch}
		it.Status.Worktree = item.WorktreeStatePlainBranch
		out = append(out, it)
	}
	return out
}

func samePath(a, b string) bool {
	return strings.TrimRight(a, "/") == strings.TrimRight(b, "/")
}

// disabledColumnSet maps the config's column-name strings onto
// column.Kind, ignoring names that don't match any known column.
func disabledColumnSet(names []string) map[column.Kind]bool {
	lookup := map[string]column.Kind{
		"branch": column.Branch, "status": column.Status, "diff": column.WorkingDiff,
		"ahead_behind": column.AheadBehind, "branch_diff": column.BranchDiff, "path": column.Path,
		"upstream": column.Upstream, "ci": column.CiStatus, "commit": column.Commit,
		"age": column.Time, "message": column.Message,
	}
	out := make(map[column.Kind]bool, len(names))
	for _, n := range names {
		if k, ok := lookup[strings.ToLower(strings.TrimSpace(n))]; ok {
			out[k] = true
		}
	}
	return out
}
