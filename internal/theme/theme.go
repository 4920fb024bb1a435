// Package theme supplies the color palette the renderer and gutter
// formatters draw from, plus the NO_COLOR/CLICOLOR_FORCE/FORCE_COLOR policy
// read once at startup. Trimmed from the teacher's multi-theme TUI system
// down to the two palettes (dark/light) a table renderer actually needs.
package theme

import (
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/rxfork/worktrunk/internal/item"
)

// Theme defines the colors a rendered frame may use.
type Theme struct {
	MutedFg   lipgloss.Color
	TextFg    lipgloss.Color
	SuccessFg lipgloss.Color
	WarnFg    lipgloss.Color
	ErrorFg   lipgloss.Color
	Cyan      lipgloss.Color
	Pink      lipgloss.Color
	Yellow    lipgloss.Color
	Accent    lipgloss.Color
}

// Theme names.
const (
	DarkName  = "dark"
	LightName = "light"
)

// Dark is the default palette, adapted from the teacher's Dracula theme.
func Dark() *Theme {
	return &Theme{
		MutedFg:   lipgloss.Color("#6272A4"),
		TextFg:    lipgloss.Color("#F8F8F2"),
		SuccessFg: lipgloss.Color("#50FA7B"),
		WarnFg:    lipgloss.Color("#FFB86C"),
		ErrorFg:   lipgloss.Color("#FF5555"),
		Cyan:      lipgloss.Color("#8BE9FD"),
		Pink:      lipgloss.Color("#FF79C6"),
		Yellow:    lipgloss.Color("#F1FA8C"),
		Accent:    lipgloss.Color("#BD93F9"),
	}
}

// Light is adapted from the teacher's Dracula-light variant.
func Light() *Theme {
	return &Theme{
		MutedFg:   lipgloss.Color("#6E7781"),
		TextFg:    lipgloss.Color("#24292F"),
		SuccessFg: lipgloss.Color("#059669"),
		WarnFg:    lipgloss.Color("#D97706"),
		ErrorFg:   lipgloss.Color("#DC2626"),
		Cyan:      lipgloss.Color("#0891B2"),
		Pink:      lipgloss.Color("#DB2777"),
		Yellow:    lipgloss.Color("#CA8A04"),
		Accent:    lipgloss.Color("#8250DF"),
	}
}

// Get returns a theme by name, defaulting to Dark.
func Get(name string) *Theme {
	if name == LightName {
		return Light()
	}
	return Dark()
}

// CIColor picks the check-rollup color for a review status.
func (t *Theme) CIColor(s item.CIStatus) lipgloss.Color {
	switch s {
	case item.CIPassed:
		return t.SuccessFg
	case item.CIRunning:
		return t.Yellow
	case item.CIFailed, item.CIError:
		return t.ErrorFg
	case item.CIConflicts:
		return t.Pink
	default:
		return t.MutedFg
	}
}

// BranchStateColor picks the color for a branch's rebase/merge/conflict state.
func (t *Theme) BranchStateColor(s item.BranchState) lipgloss.Color {
	switch s {
	case item.BranchConflictsPresent, item.BranchWouldConflict:
		return t.ErrorFg
	case item.BranchRebaseInProgress, item.BranchMergeInProgress:
		return t.Yellow
	case item.BranchIntegrated, item.BranchSameAsDefault:
		return t.SuccessFg
	default:
		return t.TextFg
	}
}

// DivergenceColor picks the ahead/behind/diverged color shared by both
// divergence axes (vs-default and vs-upstream).
func (t *Theme) DivergenceColor(d item.Divergence) lipgloss.Color {
	switch d {
	case item.DivergenceAhead:
		return t.Cyan
	case item.DivergenceBehind:
		return t.WarnFg
	case item.DivergenceDiverged:
		return t.ErrorFg
	default:
		return t.MutedFg
	}
}

// ColorEnabled applies the standard NO_COLOR/CLICOLOR_FORCE/FORCE_COLOR
// precedence: an explicit force-on wins, otherwise NO_COLOR's presence (any
// value, including empty) disables color outright.
func ColorEnabled() bool {
	if os.Getenv("CLICOLOR_FORCE") != "" || os.Getenv("FORCE_COLOR") != "" {
		return true
	}
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return false
	}
	return true
}
