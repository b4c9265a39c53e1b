package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// Monitor represents a physical display
type Monitor struct {
	ID      int
	Name    string
	Primary bool
	X       int
	Y       int
	Width   int
	Height  int
}

// GetMonitors retrieves all active monitors using XRandR
func (c *Connection) GetMonitors() ([]Monitor, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var primary randr.Output
	if reply, err := randr.GetOutputPrimary(c.XUtil.Conn(), c.Root).Reply(); err == nil {
		primary = reply.Output
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		crtcInfo, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}

		// Disabled CRTC.
		if crtcInfo.Width == 0 || crtcInfo.Height == 0 || len(crtcInfo.Outputs) == 0 {
			continue
		}

		name := fmt.Sprintf("Monitor%d", i)
		if info, err := randr.GetOutputInfo(c.XUtil.Conn(), crtcInfo.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
			name = string(info.Name)
		}

		isPrimary := false
		for _, out := range crtcInfo.Outputs {
			if primary != 0 && out == primary {
				isPrimary = true
			}
		}

		monitors = append(monitors, Monitor{
			ID:      i,
			Name:    name,
			Primary: isPrimary,
			X:       int(crtcInfo.X),
			Y:       int(crtcInfo.Y),
			Width:   int(crtcInfo.Width),
			Height:  int(crtcInfo.Height),
		})
	}

	return monitors, nil
}

// PrimaryMonitor returns the RandR primary monitor, or the first active one
// when no primary output is set. The geometry is reduced to the usable area
// (panels and docks excluded).
func (c *Connection) PrimaryMonitor() (*Monitor, error) {
	monitors, err := c.GetMonitors()
	if err != nil {
		return nil, err
	}
	mon := pickPrimary(monitors)
	if mon == nil {
		return nil, fmt.Errorf("no monitors found")
	}

	if !c.applyDockStruts(mon) {
		c.applyWorkArea(mon)
	}
	return mon, nil
}

func pickPrimary(monitors []Monitor) *Monitor {
	if len(monitors) == 0 {
		return nil
	}
	for i := range monitors {
		if monitors[i].Primary {
			m := monitors[i]
			return &m
		}
	}
	m := monitors[0]
	return &m
}

// applyWorkArea clips the monitor to _NET_WORKAREA of the current desktop.
func (c *Connection) applyWorkArea(mon *Monitor) {
	workArea, err := ewmh.WorkareaGet(c.XUtil)
	if err != nil || len(workArea) == 0 {
		return
	}
	idx := 0
	if current, err := ewmh.CurrentDesktopGet(c.XUtil); err == nil && int(current) < len(workArea) {
		idx = int(current)
	}
	wa := workArea[idx]
	clipToArea(mon, int(wa.X), int(wa.Y), int(wa.Width), int(wa.Height))
}

func clipToArea(mon *Monitor, x, y, w, h int) {
	x1 := max(mon.X, x)
	y1 := max(mon.Y, y)
	x2 := min(mon.X+mon.Width, x+w)
	y2 := min(mon.Y+mon.Height, y+h)
	if x2 <= x1 || y2 <= y1 {
		return
	}
	mon.X, mon.Y = x1, y1
	mon.Width, mon.Height = x2-x1, y2-y1
}

type dockStruts struct {
	left   int
	right  int
	top    int
	bottom int
}

func (s dockStruts) empty() bool {
	return s.left == 0 && s.right == 0 && s.top == 0 && s.bottom == 0
}

func (c *Connection) applyDockStruts(mon *Monitor) bool {
	rootGeom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return false
	}
	rootWidth := int(rootGeom.Width)
	rootHeight := int(rootGeom.Height)

	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return false
	}

	var partials []ewmh.WmStrutPartial
	for _, win := range clients {
		if !c.isDock(win) {
			continue
		}
		if sp, err := ewmh.WmStrutPartialGet(c.XUtil, win); err == nil {
			partials = append(partials, *sp)
			continue
		}
		// Some docks only set _NET_WM_STRUT.
		if s, err := ewmh.WmStrutGet(c.XUtil, win); err == nil {
			partials = append(partials, fullSpanStrut(s, rootWidth, rootHeight))
		}
	}

	struts := collectStruts(*mon, rootWidth, rootHeight, partials)
	if struts.empty() {
		return false
	}
	shrink(mon, struts)
	return true
}

func (c *Connection) isDock(win xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, win)
	if err != nil {
		return false
	}
	for _, t := range types {
		if t == "_NET_WM_WINDOW_TYPE_DOCK" {
			return true
		}
	}
	return false
}

func fullSpanStrut(s *ewmh.WmStrut, rootWidth, rootHeight int) ewmh.WmStrutPartial {
	return ewmh.WmStrutPartial{
		Left:       s.Left,
		Right:      s.Right,
		Top:        s.Top,
		Bottom:     s.Bottom,
		LeftEndY:   uint(rootHeight - 1),
		RightEndY:  uint(rootHeight - 1),
		TopEndX:    uint(rootWidth - 1),
		BottomEndX: uint(rootWidth - 1),
	}
}

func shrink(mon *Monitor, s dockStruts) {
	mon.X += s.left
	mon.Y += s.top
	mon.Width -= s.left + s.right
	mon.Height -= s.top + s.bottom
	if mon.Width < 1 {
		mon.Width = 1
	}
	if mon.Height < 1 {
		mon.Height = 1
	}
}

// collectStruts returns, per edge, the largest overlap of any strut with mon.
func collectStruts(mon Monitor, rootWidth, rootHeight int, partials []ewmh.WmStrutPartial) dockStruts {
	var acc dockStruts
	mx1, my1 := mon.X, mon.Y
	mx2, my2 := mon.X+mon.Width, mon.Y+mon.Height

	for _, sp := range partials {
		if sp.Top > 0 {
			w, h := overlap(mx1, my1, mx2, my2, int(sp.TopStartX), 0, int(sp.TopEndX)+1, int(sp.Top))
			if w > 0 && h > 0 {
				acc.top = max(acc.top, h)
			}
		}
		if sp.Bottom > 0 {
			w, h := overlap(mx1, my1, mx2, my2, int(sp.BottomStartX), rootHeight-int(sp.Bottom), int(sp.BottomEndX)+1, rootHeight)
			if w > 0 && h > 0 {
				acc.bottom = max(acc.bottom, h)
			}
		}
		if sp.Left > 0 {
			w, h := overlap(mx1, my1, mx2, my2, 0, int(sp.LeftStartY), int(sp.Left), int(sp.LeftEndY)+1)
			if w > 0 && h > 0 {
				acc.left = max(acc.left, w)
			}
		}
		if sp.Right > 0 {
			w, h := overlap(mx1, my1, mx2, my2, rootWidth-int(sp.Right), int(sp.RightStartY), rootWidth, int(sp.RightEndY)+1)
			if w > 0 && h > 0 {
				acc.right = max(acc.right, w)
			}
		}
	}
	return acc
}

func overlap(ax1, ay1, ax2, ay2, bx1, by1, bx2, by2 int) (int, int) {
	x1 := max(ax1, bx1)
	y1 := max(ay1, by1)
	x2 := min(ax2, bx2)
	y2 := min(ay2, by2)
	if x2 <= x1 || y2 <= y1 {
		return 0, 0
	}
	return x2 - x1, y2 - y1
}
