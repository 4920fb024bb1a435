package render

import "github.com/charmbracelet/lipgloss"

// Segment is one run of text with an optional style; the algebra spec §4.G
// describes as "text + optional style".
type Segment struct {
	Text  string
	Style *lipgloss.Style
}

// Line is a styled line: an ordered sequence of segments composed before
// width measurement, which always operates on the style-stripped text.
type Line []Segment

// Render composes the line into its final string, always ending with a
// full reset so color never bleeds into subsequent child-process output.
func (l Line) Render() string {
	out := ""
	for _, seg := range l {
		if seg.Style != nil {
			out += seg.Style.Render(seg.Text)
		} else {
			out += seg.Text
		}
	}
	return out + resetSequence
}

// resetSequence is the full SGR reset; emitted once at end-of-line rather
// than per-segment so adjacent differently-styled segments don't each
// carry their own reset.
const resetSequence = "\x1b[0m"

// Width returns the visible width of the composed line.
func (l Line) Width() int {
	return Width(l.Render())
}

// PadTo right-pads s with spaces (added after any style reset, so padding
// is never colored) until it reaches at least width visible columns.
func PadTo(s string, width int) string {
	w := Width(s)
	if w >= width {
		return s
	}
	pad := width - w
	buf := make([]byte, pad)
	for i := range buf {
		buf[i] = ' '
	}
	return s + string(buf)
}
