// Package platform resolves the viewport the desktop lays windows out in.
package platform

import (
	"fmt"
	"log"

	"github.com/1broseidon/tabdock/internal/config"
	"github.com/1broseidon/tabdock/internal/geometry"
)

// Backend reports the current viewport size.
type Backend interface {
	Name() string
	Viewport() (geometry.Size, error)
	Close()
}

// Static is a fixed-size viewport.
type Static struct {
	Size geometry.Size
}

var _ Backend = Static{}

func (Static) Name() string { return string(config.ViewportStatic) }

// Viewport returns the configured size.
func (s Static) Viewport() (geometry.Size, error) {
	if s.Size.Width <= 0 || s.Size.Height <= 0 {
		return geometry.Size{}, fmt.Errorf("invalid static viewport %vx%v", s.Size.Width, s.Size.Height)
	}
	return s.Size, nil
}

func (Static) Close() {}

// dialer opens the window-system backend. Replaced in tests.
var dialer = openDisplay

// Open picks the backend named by cfg.Viewport.Source. In auto mode a
// display that cannot be reached falls back to the static size.
func Open(cfg *config.Config) (Backend, error) {
	static := Static{Size: cfg.ViewportSize()}

	switch cfg.Viewport.Source {
	case config.ViewportStatic:
		return static, nil
	case config.ViewportX11:
		b, err := dialer(cfg.Display)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to X11: %w", err)
		}
		return b, nil
	case config.ViewportAuto, "":
		b, err := dialer(cfg.Display)
		if err != nil {
			log.Printf("X11 unavailable, using static viewport %vx%v: %v", static.Size.Width, static.Size.Height, err)
			return static, nil
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unknown viewport source %q", cfg.Viewport.Source)
	}
}
