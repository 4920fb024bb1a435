package render

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/rxfork/worktrunk/internal/column"
	"github.com/rxfork/worktrunk/internal/item"
	"github.com/rxfork/worktrunk/internal/status"
	"github.com/rxfork/worktrunk/internal/theme"
)

// BuildColumns projects items through specs into styled Column values
// ready for Compute/RenderFrame, and — as a side effect — fills each
// item's Statusline/Symbols display-only fields (spec §3's "display-only
// projection", produced once per finalized snapshot).
func BuildColumns(specs []column.Spec, items []*item.Item, th *theme.Theme, currentKey string) []Column {
	for _, it := range items {
		it.Symbols = status.Glyphs(it.Status)
		it.Statusline = Statusline(it, th)
	}

	cols := make([]Column, 0, len(specs))
	for _, spec := range specs {
		cells := make([]string, 0, len(items)+1)
		cells = append(cells, spec.Header)
		for _, it := range items {
			cells = append(cells, cell(spec.Kind, it, th, currentKey))
		}
		cols = append(cols, Column{Spec: spec, Cells: cells})
	}
	return cols
}

func cell(kind column.Kind, it *item.Item, th *theme.Theme, currentKey string) string {
	switch kind {
	case column.Gutter:
		isWorktree := it.Worktree != nil
		isMain := isWorktree && it.Worktree.IsMain
		marker := status.GutterMarker(it.Key == currentKey, isMain, isWorktree)
		return string(marker)
	case column.Branch:
		name := it.Branch
		if name == "" {
			name = "(detached)"
		}
		return lipgloss.NewStyle().Foreground(th.BranchStateColor(it.Status.Branch)).Render(name)
	case column.Status:
		return status.Glyphs(it.Status)
	case column.WorkingDiff:
		return diffCell(it.WorkingDiff, th)
	case column.AheadBehind:
		return aheadBehindCell(it.AheadBehindVsDefault, it.Status.DivergenceDefault, th)
	case column.BranchDiff:
		return diffCell(it.DiffVsDefault, th)
	case column.Path:
		if it.Worktree != nil {
			return it.Worktree.Path
		}
		return ""
	case column.Upstream:
		return upstreamCell(it.Upstream, th)
	case column.CiStatus:
		return ciCell(it.Review, th)
	case column.Commit:
		if v, ok := it.Commit.Value(); ok {
			return v.ShortSHA
		}
		return ""
	case column.Time:
		if v, ok := it.Commit.Value(); ok && v.Timestamp > 0 {
			return formatAge(v.Timestamp)
		}
		return ""
	case column.Message:
		if v, ok := it.Commit.Value(); ok {
			return v.Subject
		}
		return ""
	default:
		return ""
	}
}

func diffCell(d item.Tri[item.LineDiff], th *theme.Theme) string {
	v, ok := d.Value()
	if !ok {
		if d.IsSkipped() {
			return "-"
		}
		return ""
	}
	if v.Added == 0 && v.Deleted == 0 {
		return ""
	}
	added := lipgloss.NewStyle().Foreground(th.SuccessFg).Render(fmt.Sprintf("+%d", v.Added))
	deleted := lipgloss.NewStyle().Foreground(th.ErrorFg).Render(fmt.Sprintf("-%d", v.Deleted))
	return added + "/" + deleted
}

func aheadBehindCell(ab item.Tri[item.AheadBehind], div item.Divergence, th *theme.Theme) string {
	v, ok := ab.Value()
	if !ok {
		return ""
	}
	style := lipgloss.NewStyle().Foreground(th.DivergenceColor(div))
	return style.Render(fmt.Sprintf("%d⇕%d", v.Ahead, v.Behind))
}

func upstreamCell(up item.Tri[item.UpstreamStatus], th *theme.Theme) string {
	v, ok := up.Value()
	if !ok {
		return ""
	}
	switch v.Kind {
	case item.UpstreamGone:
		return lipgloss.NewStyle().Foreground(th.ErrorFg).Render("gone")
	case item.UpstreamActive:
		div := status.DecodeDivergence(v.Ahead, v.Behind)
		style := lipgloss.NewStyle().Foreground(th.DivergenceColor(div))
		return style.Render(fmt.Sprintf("%s %d⇕%d", v.RemoteName, v.Ahead, v.Behind))
	default:
		return ""
	}
}

func ciCell(rs item.Tri[item.ReviewStatus], th *theme.Theme) string {
	v, ok := rs.Value()
	if !ok {
		return ""
	}
	style := lipgloss.NewStyle().Foreground(th.CIColor(v.CI))
	label := v.CI.String()
	if v.IsStale {
		label += "*"
	}
	return style.Render(label)
}

func formatAge(ts int64) string {
	d := time.Since(time.Unix(ts, 0))
	switch {
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}

// Statusline renders the single-line, pre-formatted, ANSI-colored summary
// the JSON projection's "statusline" field and the statusline subcommand
// (without --plain) both use.
func Statusline(it *item.Item, th *theme.Theme) string {
	branch := it.Branch
	if branch == "" {
		branch = "(detached " + it.HeadSHA + ")"
	}
	line := Line{{Text: branch, Style: stylePtr(lipgloss.NewStyle().Foreground(th.BranchStateColor(it.Status.Branch)))}}
	if syms := status.Glyphs(it.Status); syms != "" {
		line = append(line, Segment{Text: " " + syms})
	}
	if it.Worktree != nil {
		line = append(line, Segment{Text: " " + it.Worktree.Path, Style: stylePtr(lipgloss.NewStyle().Foreground(th.MutedFg))})
	}
	return line.Render()
}

func stylePtr(s lipgloss.Style) *lipgloss.Style { return &s }
