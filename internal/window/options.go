package window

import (
	"time"

	"github.com/1broseidon/tabdock/internal/geometry"
)

const (
	DefaultWidth      = 800
	DefaultHeight     = 600
	DefaultCloseDelay = 300 * time.Millisecond
	DefaultZ          = 100
)

// Options is the per-window configuration handed over by a launcher.
type Options struct {
	Title           string  `json:"title" yaml:"title"`
	Width           float64 `json:"width" yaml:"width"`
	Height          float64 `json:"height" yaml:"height"`
	AllowDrag       bool    `json:"allow_drag" yaml:"allow_drag"`
	AllowMinimize   bool    `json:"allow_minimize" yaml:"allow_minimize"`
	AllowFullscreen bool    `json:"allow_fullscreen" yaml:"allow_fullscreen"`
}

// DefaultOptions returns the options a window gets when the launcher does
// not say otherwise.
func DefaultOptions() Options {
	return Options{
		Width:           DefaultWidth,
		Height:          DefaultHeight,
		AllowDrag:       true,
		AllowMinimize:   true,
		AllowFullscreen: true,
	}
}

// Normalized replaces missing or malformed dimensions with the defaults.
func (o Options) Normalized() Options {
	if !(o.Width > 0) {
		o.Width = DefaultWidth
	}
	if !(o.Height > 0) {
		o.Height = DefaultHeight
	}
	return o
}

// Size returns the configured window size.
func (o Options) Size() geometry.Size {
	return geometry.Size{Width: o.Width, Height: o.Height}
}

// Chrome describes the fixed decorations of every frame.
type Chrome struct {
	HeaderHeight float64
	ButtonSize   float64
	ButtonGap    float64
	ButtonInset  float64

	// Minimized footprint: a fixed compact bar anchored to the bottom-left
	// corner of the viewport.
	MinimizedWidth  float64
	MinimizedHeight float64
	MinimizedLeft   float64
	MinimizedBottom float64
}

// DefaultChrome returns the standard frame decorations.
func DefaultChrome() Chrome {
	return Chrome{
		HeaderHeight:    40,
		ButtonSize:      16,
		ButtonGap:       8,
		ButtonInset:     16,
		MinimizedWidth:  200,
		MinimizedHeight: 40,
		MinimizedLeft:   20,
		MinimizedBottom: 60,
	}
}

// MinimizedRect returns the rendered geometry of a minimized frame.
func (c Chrome) MinimizedRect(viewport geometry.Size) geometry.Rect {
	return geometry.Rect{
		X:      c.MinimizedLeft,
		Y:      viewport.Height - c.MinimizedBottom,
		Width:  c.MinimizedWidth,
		Height: c.MinimizedHeight,
	}
}
