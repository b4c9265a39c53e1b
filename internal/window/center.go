package window

import "github.com/1broseidon/tabdock/internal/geometry"

// CenteringPolicy recenters windows that cannot be dragged.
type CenteringPolicy struct {
	Enabled bool
}

// Apply returns the centered position for a window of the given size and
// whether the policy applies at all.
func (c CenteringPolicy) Apply(size, viewport geometry.Size, minimized bool) (geometry.Point, bool) {
	if !c.Enabled || minimized {
		return geometry.Point{}, false
	}
	return geometry.CenterIn(size, viewport), true
}
