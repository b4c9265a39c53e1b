package plugin

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Fit truncates or pads lines so the result is exactly height lines, each
// at most width cells wide.
func Fit(lines []string, width, height int) []string {
	if width <= 0 || height <= 0 {
		return nil
	}
	out := make([]string, 0, height)
	for _, line := range lines {
		if len(out) == height {
			break
		}
		out = append(out, runewidth.Truncate(line, width, "…"))
	}
	for len(out) < height {
		out = append(out, "")
	}
	return out
}

// Columns joins a fixed-width left column and a right column line by line.
func Columns(left, right []string, leftWidth, width int) []string {
	n := max(len(left), len(right))
	rightWidth := width - leftWidth - 1
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		var l, r string
		if i < len(left) {
			l = left[i]
		}
		if i < len(right) {
			r = right[i]
		}
		l = runewidth.FillRight(runewidth.Truncate(l, leftWidth, "…"), leftWidth)
		if rightWidth > 0 {
			r = runewidth.Truncate(r, rightWidth, "…")
		} else {
			r = ""
		}
		out = append(out, strings.TrimRight(l+"│"+r, " "))
	}
	return out
}
