package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/1broseidon/tabdock/internal/desktop"
	"github.com/1broseidon/tabdock/internal/geometry"
)

// wideTail marks the second cell of a double-width rune.
const wideTail rune = -1

type canvas struct {
	cells [][]rune
	w, h  int
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: w, h: h, cells: make([][]rune, h)}
	for i := range c.cells {
		c.cells[i] = make([]rune, w)
		for j := range c.cells[i] {
			c.cells[i][j] = ' '
		}
	}
	return c
}

func (c *canvas) set(x, y int, r rune) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.cells[y][x] = r
}

// text writes s starting at x and stops before limit.
func (c *canvas) text(x, y, limit int, s string) {
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if x+rw > limit {
			return
		}
		c.set(x, y, r)
		if rw == 2 {
			c.set(x+1, y, wideTail)
		}
		x += rw
	}
}

func (c *canvas) lines() []string {
	out := make([]string, c.h)
	for i, row := range c.cells {
		var sb strings.Builder
		for _, r := range row {
			if r != wideTail {
				sb.WriteRune(r)
			}
		}
		out[i] = sb.String()
	}
	return out
}

// renderDesktop draws the viewport scaled into a width x height character
// grid. windows are ordered topmost first; selected is outlined in bold.
func renderDesktop(viewport geometry.Size, windows []desktop.WindowInfo, selected string, width, height int) []string {
	if width < 5 || height < 3 {
		return emptyCanvas(width, height)
	}
	c := newCanvas(width, height)
	drawBorder(c)

	if viewport.Width <= 0 || viewport.Height <= 0 {
		return c.lines()
	}

	// Paint bottom-up so the topmost frame ends up visible.
	for i := len(windows) - 1; i >= 0; i-- {
		drawWindow(c, windows[i], windows[i].ID == selected, viewport)
	}
	return c.lines()
}

func drawWindow(c *canvas, w desktop.WindowInfo, selected bool, viewport geometry.Size) {
	innerW := float64(c.w - 2)
	innerH := float64(c.h - 2)

	g := w.Geometry
	x1 := 1 + int(g.X*innerW/viewport.Width)
	y1 := 1 + int(g.Y*innerH/viewport.Height)
	x2 := 1 + int(g.Right()*innerW/viewport.Width) - 1
	y2 := 1 + int(g.Bottom()*innerH/viewport.Height) - 1

	x1 = max(x1, 1)
	y1 = max(y1, 1)
	x2 = min(x2, c.w-2)
	y2 = min(y2, c.h-2)
	if x2-x1 < 2 {
		x2 = min(x1+2, c.w-2)
	}
	if y2 <= y1 {
		y2 = min(y1+1, c.h-2)
	}
	if x2 <= x1 || y2 <= y1 {
		return
	}

	h, v, tl, tr, bl, br := '─', '│', '┌', '┐', '└', '┘'
	if selected {
		h, v, tl, tr, bl, br = '━', '┃', '┏', '┓', '┗', '┛'
	}

	for y := y1; y <= y2; y++ {
		for x := x1; x <= x2; x++ {
			c.set(x, y, ' ')
		}
	}
	for x := x1; x <= x2; x++ {
		c.set(x, y1, h)
		c.set(x, y2, h)
	}
	for y := y1; y <= y2; y++ {
		c.set(x1, y, v)
		c.set(x2, y, v)
	}
	c.set(x1, y1, tl)
	c.set(x2, y1, tr)
	c.set(x1, y2, bl)
	c.set(x2, y2, br)

	c.text(x1+1, y1, x2, windowLabel(w))
}

func windowLabel(w desktop.WindowInfo) string {
	label := w.Title
	switch {
	case w.State.Closing:
		label += " ✕"
	case w.State.Minimized:
		label += " _"
	case w.State.Fullscreen:
		label += " □"
	}
	return label
}

func drawBorder(c *canvas) {
	for x := 0; x < c.w; x++ {
		c.set(x, 0, '═')
		c.set(x, c.h-1, '═')
	}
	for y := 0; y < c.h; y++ {
		c.set(0, y, '║')
		c.set(c.w-1, y, '║')
	}
	c.set(0, 0, '╔')
	c.set(c.w-1, 0, '╗')
	c.set(0, c.h-1, '╚')
	c.set(c.w-1, c.h-1, '╝')
}

func emptyCanvas(width, height int) []string {
	if width < 0 || height < 0 {
		return nil
	}
	lines := make([]string, height)
	empty := strings.Repeat(" ", width)
	for i := range lines {
		lines[i] = empty
	}
	return lines
}
