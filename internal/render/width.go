// Package render implements Component G: layout computation and the
// styled-line algebra used to paint aligned frames onto a line-oriented
// terminal, plus the gutter/bash-gutter block formatters write-side
// commands use to quote content.
package render

import (
	"os"
	"strconv"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
	"golang.org/x/text/width"
)

// Width measures a string's visible width with ANSI SGR/OSC sequences
// stripped (spec §4.G step 2), walking the remaining runes through the
// Unicode east-asian-width table: Wide and Fullwidth runes count 2,
// everything else falls to go-runewidth for the rest (zero-width marks,
// combining characters, control runes).
func Width(s string) int {
	stripped := ansi.Strip(s)
	w := 0
	for _, r := range stripped {
		w += runeWidth(r)
	}
	return w
}

func runeWidth(r rune) int {
	switch p, _ := width.LookupRune(r); p.Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	default:
		return runewidth.RuneWidth(r)
	}
}

// TerminalWidth resolves the width to lay frames out against: the
// COLUMNS env override first, then an OS query on stderr (frames go to
// stderr in interactive mode), falling back to 80.
func TerminalWidth() int {
	if v := os.Getenv("COLUMNS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	if w, _, err := term.GetSize(int(os.Stderr.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}
