// Package jsonout implements Component I: a pure function projecting a
// snapshot of items into the stable, self-describing JSON shape from
// spec §6. Absent fields are omitted, never serialized as null, so a
// consumer's existence check is unambiguous.
package jsonout

import (
	"encoding/json"

	"github.com/rxfork/worktrunk/internal/item"
)

type lineDiffJSON struct {
	Added   int `json:"added"`
	Deleted int `json:"deleted"`
}

type commitJSON struct {
	SHA       string `json:"sha"`
	ShortSHA  string `json:"short_sha"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

type workingTreeJSON struct {
	Staged    bool          `json:"staged"`
	Modified  bool          `json:"modified"`
	Untracked bool          `json:"untracked"`
	Renamed   bool          `json:"renamed"`
	Deleted   bool          `json:"deleted"`
	Diff      *lineDiffJSON `json:"diff,omitempty"`
	DiffVsMain *lineDiffJSON `json:"diff_vs_main,omitempty"`
}

type mainJSON struct {
	Ahead int           `json:"ahead"`
	Behind int          `json:"behind"`
	Diff  *lineDiffJSON `json:"diff,omitempty"`
}

type remoteJSON struct {
	Name   string `json:"name"`
	Branch string `json:"branch"`
	Ahead  int    `json:"ahead"`
	Behind int    `json:"behind"`
}

type worktreeJSON struct {
	State    string `json:"state,omitempty"`
	Reason   string `json:"reason,omitempty"`
	Detached bool   `json:"detached"`
	Bare     bool   `json:"bare"`
}

type prJSON struct {
	CI     string `json:"ci"`
	Source string `json:"source"`
	Stale  bool   `json:"stale"`
	URL    string `json:"url,omitempty"`
}

// Item is the per-row JSON projection. Pointer fields are omitted by
// encoding/json's omitempty when nil, matching "fields omitted when the
// underlying datum was not computed".
type Item struct {
	Branch            *string          `json:"branch"`
	Path              string           `json:"path,omitempty"`
	Kind              string           `json:"kind"`
	Commit            *commitJSON      `json:"commit,omitempty"`
	WorkingTree       *workingTreeJSON `json:"working_tree,omitempty"`
	BranchState       string           `json:"branch_state,omitempty"`
	IntegrationReason string           `json:"integration_reason,omitempty"`
	Main              *mainJSON        `json:"main,omitempty"`
	Remote            *remoteJSON      `json:"remote,omitempty"`
	Worktree          *worktreeJSON    `json:"worktree,omitempty"`
	IsMain            bool             `json:"is_main"`
	IsCurrent         bool             `json:"is_current"`
	IsPrevious        bool             `json:"is_previous"`
	PR                *prJSON          `json:"pr,omitempty"`
	Statusline        string           `json:"statusline"`
	Symbols           string           `json:"symbols"`
}

// Project converts a snapshot into its JSON projection, one Item per row.
func Project(items []*item.Item) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		out = append(out, projectOne(it))
	}
	return out
}

func projectOne(it *item.Item) Item {
	o := Item{
		Kind:       it.Kind.String(),
		IsCurrent:  it.Worktree != nil && it.Worktree.IsCurrent,
		IsMain:     it.Worktree != nil && it.Worktree.IsMain,
		IsPrevious: it.Worktree != nil && it.Worktree.IsPrevious,
		Statusline: it.Statusline,
		Symbols:    it.Symbols,
	}

	if it.Branch != "" {
		b := it.Branch
		o.Branch = &b
	}

	if it.Worktree != nil {
		o.Path = it.Worktree.Path
		o.Worktree = projectWorktreeState(it)
	}

	if commit, ok := it.Commit.Value(); ok {
		o.Commit = &commitJSON{SHA: commit.SHA, ShortSHA: commit.ShortSHA, Message: commit.Subject, Timestamp: commit.Timestamp}
	}

	o.WorkingTree = projectWorkingTree(it)

	if it.Status.Branch != 0 {
		o.BranchState = it.Status.Branch.String()
	}
	if it.Status.IntegrationReason != 0 {
		o.IntegrationReason = it.Status.IntegrationReason.String()
	}

	o.Main = projectMain(it)
	o.Remote = projectRemote(it)
	o.PR = projectPR(it)

	return o
}

func projectWorktreeState(it *item.Item) *worktreeJSON {
	wt := it.Worktree
	w := &worktreeJSON{Detached: wt.Detached, Bare: wt.Bare}
	switch {
	case wt.Locked:
		w.State = "locked"
		w.Reason = wt.LockReason
	case wt.Prunable:
		w.State = "prunable"
		w.Reason = wt.PrunableWhy
	case it.Status.Worktree == item.WorktreeStatePathMismatch:
		w.State = "path_mismatch"
	default:
		w.State = it.Status.Worktree.String()
	}
	return w
}

func projectWorkingTree(it *item.Item) *workingTreeJSON {
	diff, hasDiff := it.WorkingDiff.Value()
	diffVsMain, hasDiffVsMain := it.DiffVsDefault.Value()
	if !hasDiff && !hasDiffVsMain && !it.Status.Staged && !it.Status.Modified && !it.Status.Untracked && !it.Status.Renamed && !it.Status.Deleted {
		return nil
	}
	wt := &workingTreeJSON{
		Staged:    it.Status.Staged,
		Modified:  it.Status.Modified,
		Untracked: it.Status.Untracked,
		Renamed:   it.Status.Renamed,
		Deleted:   it.Status.Deleted,
	}
	if hasDiff {
		wt.Diff = &lineDiffJSON{Added: diff.Added, Deleted: diff.Deleted}
	}
	if hasDiffVsMain {
		wt.DiffVsMain = &lineDiffJSON{Added: diffVsMain.Added, Deleted: diffVsMain.Deleted}
	}
	return wt
}

func projectMain(it *item.Item) *mainJSON {
	ab, hasAB := it.AheadBehindVsDefault.Value()
	diff, hasDiff := it.DiffVsDefault.Value()
	if !hasAB && !hasDiff {
		return nil
	}
	m := &mainJSON{Ahead: ab.Ahead, Behind: ab.Behind}
	if hasDiff {
		m.Diff = &lineDiffJSON{Added: diff.Added, Deleted: diff.Deleted}
	}
	return m
}

func projectRemote(it *item.Item) *remoteJSON {
	up, ok := it.Upstream.Value()
	if !ok || up.Kind != item.UpstreamActive {
		return nil
	}
	return &remoteJSON{Name: up.RemoteName, Branch: up.Branch, Ahead: up.Ahead, Behind: up.Behind}
}

func projectPR(it *item.Item) *prJSON {
	rs, ok := it.Review.Value()
	if !ok {
		return nil
	}
	return &prJSON{CI: rs.CI.String(), Source: rs.Source.String(), Stale: rs.IsStale, URL: rs.URL}
}

// Marshal serializes the projection with encoding/json's fixed struct-field
// key order, matching the idempotency property in spec §8. HTML-sensitive
// characters (<, >, &) are escaped as encoding/json does by default.
func Marshal(items []*item.Item) ([]byte, error) {
	return json.Marshal(Project(items))
}
