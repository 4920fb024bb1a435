// Package column implements Component F: the static, ordered registry of
// logical columns, their shedding priorities, and the task gate that
// removes a column entirely when its backing task was never spawned.
//
// The twelve columns, their priorities, and their requires-task gates are
// taken verbatim from the reference implementation's column registry —
// this is the one place in the tool where exact numeric priority matters
// for a testable property (spec §8: a terminal width of 40 with six
// columns summing to 90 must shed lowest-priority first).
package column

import "github.com/rxfork/worktrunk/internal/task"

// Kind is the logical identifier for each column `wt list` can render.
type Kind int

const (
	Gutter Kind = iota
	Branch
	Status
	WorkingDiff
	AheadBehind
	BranchDiff
	Path
	Upstream
	CiStatus
	Commit
	Time
	Message
)

// Spec is the static metadata describing one column's layout and gating.
type Spec struct {
	Kind         Kind
	Header       string
	BasePriority int
	RequiresTask *task.Kind // nil means always eligible
	DisplayIndex int
}

// Specs is the canonical registry, in display order. Priorities are
// unique; display order is independent of priority, per spec §4.F.
var Specs = []Spec{
	{Kind: Gutter, Header: "", BasePriority: 0, DisplayIndex: 0},
	{Kind: Branch, Header: "Branch", BasePriority: 1, DisplayIndex: 1},
	{Kind: Status, Header: "Status", BasePriority: 2, DisplayIndex: 2},
	{Kind: WorkingDiff, Header: "Diff", BasePriority: 3, DisplayIndex: 3},
	{Kind: AheadBehind, Header: "main⇕", BasePriority: 4, DisplayIndex: 4},
	{Kind: BranchDiff, Header: "main…±", BasePriority: 5, RequiresTask: kindPtr(task.BranchDiff), DisplayIndex: 5},
	{Kind: Path, Header: "Path", BasePriority: 6, DisplayIndex: 6},
	{Kind: Upstream, Header: "Upstream", BasePriority: 7, DisplayIndex: 7},
	{Kind: CiStatus, Header: "CI", BasePriority: 8, RequiresTask: kindPtr(task.CiStatus), DisplayIndex: 8},
	{Kind: Commit, Header: "Commit", BasePriority: 9, DisplayIndex: 9},
	{Kind: Time, Header: "Age", BasePriority: 10, DisplayIndex: 10},
	{Kind: Message, Header: "Message", BasePriority: 11, DisplayIndex: 11},
}

func kindPtr(k task.Kind) *task.Kind { return &k }

// Visible returns the subset of Specs passing the requires-task gate:
// columns with no requirement always pass; gated columns pass only when
// spawnedKinds records that kind as having been scheduled for at least
// one item, and the caller has not explicitly disabled it via disabled.
func Visible(spawnedKinds map[task.Kind]bool, disabled map[Kind]bool) []Spec {
	var out []Spec
	for _, s := range Specs {
		if disabled[s.Kind] {
			continue
		}
		if s.RequiresTask != nil && !spawnedKinds[*s.RequiresTask] {
			continue
		}
		out = append(out, s)
	}
	return out
}
