// Package plugin defines the contract between the dock launcher, window
// frames and the mini-applications they host.
package plugin

import "github.com/1broseidon/tabdock/internal/window"

// Shell is a mini-application hosted inside a window frame. The launcher
// calls Open before the frame is mounted and Close from the frame's close
// callback. The frame itself only mounts and unmounts the content; a shell
// never holds a reference to its frame.
type Shell interface {
	window.Content

	// Open loads the shell's data for display.
	Open() error
	// Close flushes pending edits and resets transient view state.
	Close() error
	// Mounted reports whether the content is currently rendered.
	Mounted() bool
	// Render draws the content slot as text lines no wider than width.
	Render(width, height int) []string
}

// MountState is embeddable bookkeeping for the Mount/Unmount half of Shell.
type MountState struct {
	mounted bool
}

// Mount marks the content as rendered.
func (m *MountState) Mount() { m.mounted = true }

// Unmount marks the content as removed.
func (m *MountState) Unmount() { m.mounted = false }

// Mounted reports whether the content is rendered.
func (m *MountState) Mounted() bool { return m.mounted }
