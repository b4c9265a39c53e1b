package dock

import (
	"math"

	"github.com/1broseidon/tabdock/internal/geometry"
)

const (
	DefaultRange    = 200
	DefaultMinScale = 1.0
	DefaultMaxScale = 1.8
)

// ScaleFunc returns the magnification curve centered on centerX. Outside
// [centerX-totalRange/2, centerX+totalRange/2] the scale is minScale;
// inside it follows half a sine wave peaking at maxScale.
func ScaleFunc(totalRange, centerX, minScale, maxScale float64) func(x float64) float64 {
	start := centerX - totalRange/2
	end := centerX + totalRange/2
	span := maxScale - minScale
	return func(x float64) float64 {
		if x < start || x > end || totalRange <= 0 {
			return minScale
		}
		return math.Sin((x-start)/totalRange*math.Pi)*span + minScale
	}
}

// Layout positions the dock bar along the bottom of the viewport.
type Layout struct {
	IconSize float64
	Gap      float64
	Padding  float64
	Bottom   float64
}

// DefaultLayout matches a 32px icon bar with 10px spacing, 12px padding,
// 16px above the bottom edge.
func DefaultLayout() Layout {
	return Layout{IconSize: 32, Gap: 10, Padding: 12, Bottom: 16}
}

// Bar returns the rectangle of the whole dock for n icons.
func (l Layout) Bar(viewport geometry.Size, n int) geometry.Rect {
	if n <= 0 {
		return geometry.Rect{}
	}
	width := float64(n)*l.IconSize + float64(n-1)*l.Gap + 2*l.Padding
	height := l.IconSize + 2*l.Padding
	return geometry.Rect{
		X:      (viewport.Width - width) / 2,
		Y:      viewport.Height - l.Bottom - height,
		Width:  width,
		Height: height,
	}
}

// Items returns the rectangle of each icon, left to right.
func (l Layout) Items(viewport geometry.Size, n int) []geometry.Rect {
	bar := l.Bar(viewport, n)
	out := make([]geometry.Rect, n)
	x := bar.X + l.Padding
	for i := range out {
		out[i] = geometry.Rect{X: x, Y: bar.Y + l.Padding, Width: l.IconSize, Height: l.IconSize}
		x += l.IconSize + l.Gap
	}
	return out
}

// HitTest returns the index of the icon under p, or -1.
func (l Layout) HitTest(viewport geometry.Size, n int, p geometry.Point) int {
	for i, r := range l.Items(viewport, n) {
		if r.Contains(p) {
			return i
		}
	}
	return -1
}

// Magnifier applies the scale curve to icon centers as the pointer moves
// across the dock.
type Magnifier struct {
	Range    float64
	MinScale float64
	MaxScale float64
}

// DefaultMagnifier returns the standard curve parameters.
func DefaultMagnifier() Magnifier {
	return Magnifier{Range: DefaultRange, MinScale: DefaultMinScale, MaxScale: DefaultMaxScale}
}

// Scales returns one scale per icon center for a pointer at pointerX.
func (m Magnifier) Scales(pointerX float64, centers []float64) []float64 {
	f := ScaleFunc(m.Range, pointerX, m.MinScale, m.MaxScale)
	out := make([]float64, len(centers))
	for i, c := range centers {
		out[i] = f(c)
	}
	return out
}

// Rest returns the scales used when the pointer has left the dock.
func (m Magnifier) Rest(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = m.MinScale
	}
	return out
}
