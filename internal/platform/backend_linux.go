//go:build linux

package platform

import (
	"fmt"

	"github.com/1broseidon/tabdock/internal/config"
	"github.com/1broseidon/tabdock/internal/geometry"
	"github.com/1broseidon/tabdock/internal/x11"
)

// LinuxBackend reads the usable area of the primary monitor over X11.
type LinuxBackend struct {
	conn *x11.Connection
}

var _ Backend = (*LinuxBackend)(nil)

func openDisplay(display string) (Backend, error) {
	conn, err := x11.NewConnection(display)
	if err != nil {
		return nil, err
	}
	return &LinuxBackend{conn: conn}, nil
}

func (b *LinuxBackend) Name() string { return string(config.ViewportX11) }

// Viewport returns the primary monitor's usable size.
func (b *LinuxBackend) Viewport() (geometry.Size, error) {
	if b == nil || b.conn == nil {
		return geometry.Size{}, fmt.Errorf("x11 backend connection is nil")
	}
	mon, err := b.conn.PrimaryMonitor()
	if err != nil {
		return geometry.Size{}, fmt.Errorf("failed to read primary monitor: %w", err)
	}
	return geometry.Size{Width: float64(mon.Width), Height: float64(mon.Height)}, nil
}

// Close disconnects from the X server.
func (b *LinuxBackend) Close() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}
