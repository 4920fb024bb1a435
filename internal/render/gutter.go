package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/rxfork/worktrunk/internal/theme"
)

const gutterIndent = "  "

// Gutter formats content as a quoted block: a colored gutter character in
// column 0, a 2-space indent, content wrapped at word boundaries to
// maxWidth. Wrapping is delegated to muesli/reflow/wordwrap, which implements
// the same greedy word-boundary algorithm spec §4.G describes (accumulate
// tokens under the limit, start a new line on overflow, place
// longer-than-limit words on their own line).
func Gutter(th *theme.Theme, content string, maxWidth int) []string {
	avail := maxWidth - len(gutterIndent) - 1
	if avail < 1 {
		avail = 1
	}
	wrapped := wordwrap.String(content, avail)
	lines := strings.Split(wrapped, "\n")
	gutterStyle := lipgloss.NewStyle().Foreground(th.Accent)
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = gutterStyle.Render("│") + gutterIndent + l
	}
	return out
}

// bashKeywords is the small recognized-token set BashGutter highlights;
// it is intentionally tiny — this is a gutter formatter, not a shell
// lexer.
var bashKeywords = map[string]bool{
	"if": true, "then": true, "else": true, "fi": true, "for": true,
	"do": true, "done": true, "while": true, "case": true, "esac": true,
	"function": true, "return": true, "export": true, "local": true,
}

// BashGutter is the Gutter variant with syntax highlighting applied to
// recognized shell tokens before wrapping, used when write-side commands
// quote a shell hook back to the user.
func BashGutter(th *theme.Theme, content string, maxWidth int) []string {
	highlighted := highlightBashTokens(th, content)
	return Gutter(th, highlighted, maxWidth)
}

func highlightBashTokens(th *theme.Theme, content string) string {
	keywordStyle := lipgloss.NewStyle().Foreground(th.Pink).Bold(true)
	fields := strings.Fields(content)
	for i, f := range fields {
		if bashKeywords[f] {
			fields[i] = keywordStyle.Render(f)
		}
	}
	return strings.Join(fields, " ")
}
