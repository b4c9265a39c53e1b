// Package geometry holds the pixel arithmetic shared by the window frame,
// the dock and the terminal preview.
package geometry

import "fmt"

// Point is a position in viewport coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a width/height pair in pixels.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rect is a top-left anchored rectangle in viewport coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RectFrom builds a rectangle from a position and size.
func RectFrom(p Point, s Size) Rect {
	return Rect{X: p.X, Y: p.Y, Width: s.Width, Height: s.Height}
}

// Origin returns the top-left corner.
func (r Rect) Origin() Point {
	return Point{X: r.X, Y: r.Y}
}

// Size returns the dimensions of r.
func (r Rect) Size() Size {
	return Size{Width: r.Width, Height: r.Height}
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Center returns the midpoint of r.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Contains reports whether p lies inside r. Edges on the right and bottom
// are exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// Intersect returns the overlapping region of r and o, or an empty rect.
func (r Rect) Intersect(o Rect) Rect {
	x1 := max(r.X, o.X)
	y1 := max(r.Y, o.Y)
	x2 := min(r.Right(), o.Right())
	y2 := min(r.Bottom(), o.Bottom())
	if x2 <= x1 || y2 <= y1 {
		return Rect{}
	}
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

func (r Rect) String() string {
	return fmt.Sprintf("%gx%g+%g+%g", r.Width, r.Height, r.X, r.Y)
}

// Valid reports whether s has non-negative dimensions and a usable area.
func (s Size) Valid() bool {
	return s.Width > 0 && s.Height > 0
}

// Contains reports whether p lies within the viewport described by s.
// Edges are inclusive, matching pointer coordinates reported by a viewport
// of that size.
func (s Size) Contains(p Point) bool {
	return p.X >= 0 && p.X <= s.Width && p.Y >= 0 && p.Y <= s.Height
}

// Clamp limits v to [lo, hi]. When hi < lo the lower bound wins.
func Clamp(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}

// ClampOrigin keeps a rectangle of size elem fully inside viewport by
// clamping its top-left corner on each axis.
func ClampOrigin(p Point, elem, viewport Size) Point {
	return Point{
		X: Clamp(p.X, 0, viewport.Width-elem.Width),
		Y: Clamp(p.Y, 0, viewport.Height-elem.Height),
	}
}

// CenterIn returns the top-left position that centers elem within viewport.
func CenterIn(elem, viewport Size) Point {
	return Point{
		X: (viewport.Width - elem.Width) / 2,
		Y: (viewport.Height - elem.Height) / 2,
	}
}
