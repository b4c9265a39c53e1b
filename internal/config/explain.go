package config

import (
	"fmt"
	"strings"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths include:
//
//	viewport, viewport.source, viewport.width
//	window.close_delay_ms, window.header_height, window.minimized_width
//	z_order.base, z_order.dock_layer
//	dock.range, dock.max_scale, dock.plugins
//	plugins.<id>, plugins.<id>.width
//	data_dir
//	viewport_poll_ms
//	display
//	log_level
//	logging.level
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	// Exact-path file source wins.
	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	parts := strings.Split(path, ".")
	leaf := func(v any) (any, error) {
		if len(parts) != 1 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		return v, nil
	}
	field := func(whole any, fields map[string]any) (any, error) {
		switch len(parts) {
		case 1:
			return whole, nil
		case 2:
			if v, ok := fields[parts[1]]; ok {
				return v, nil
			}
		}
		return nil, fmt.Errorf("unknown path: %s", path)
	}

	switch parts[0] {
	case "viewport":
		v := cfg.Viewport
		return field(v, map[string]any{
			"source": v.Source,
			"width":  v.Width,
			"height": v.Height,
		})
	case "window":
		w := cfg.Window
		return field(w, map[string]any{
			"close_delay_ms":   w.CloseDelayMS,
			"header_height":    w.HeaderHeight,
			"button_size":      w.ButtonSize,
			"button_gap":       w.ButtonGap,
			"button_inset":     w.ButtonInset,
			"minimized_width":  w.MinimizedWidth,
			"minimized_height": w.MinimizedHeight,
			"minimized_left":   w.MinimizedLeft,
			"minimized_bottom": w.MinimizedBottom,
		})
	case "z_order":
		z := cfg.ZOrder
		return field(z, map[string]any{
			"base":       z.Base,
			"dock_layer": z.DockLayer,
		})
	case "dock":
		d := cfg.Dock
		return field(d, map[string]any{
			"range":      d.Range,
			"base_scale": d.BaseScale,
			"max_scale":  d.MaxScale,
			"icon_size":  d.IconSize,
			"plugins":    d.Plugins,
		})
	case "plugins":
		if len(parts) == 1 {
			return cfg.Plugins, nil
		}
		p, ok := cfg.Plugins[parts[1]]
		if !ok {
			return nil, fmt.Errorf("unknown plugins entry %q", parts[1])
		}
		if len(parts) == 2 {
			return p, nil
		}
		if len(parts) != 3 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		var v any
		switch parts[2] {
		case "title":
			v = p.Title
		case "width":
			v = p.Width
		case "height":
			v = p.Height
		case "allow_drag":
			v = p.AllowDrag
		case "allow_minimize":
			v = p.AllowMinimize
		case "allow_fullscreen":
			v = p.AllowFullscreen
		default:
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		return deref(v), nil
	case "data_dir":
		return leaf(cfg.DataDir)
	case "viewport_poll_ms":
		return leaf(cfg.ViewportPollMS)
	case "display":
		return leaf(cfg.Display)
	case "log_level":
		return leaf(cfg.LogLevel)
	case "logging":
		l := cfg.Logging
		return field(l, map[string]any{
			"enabled":     l.Enabled,
			"level":       l.Level,
			"file":        l.File,
			"max_size_mb": l.MaxSizeMB,
			"max_files":   l.MaxFiles,
		})
	default:
		return nil, fmt.Errorf("unknown path: %s", path)
	}
}

func deref(v any) any {
	switch p := v.(type) {
	case *string:
		if p != nil {
			return *p
		}
	case *float64:
		if p != nil {
			return *p
		}
	case *bool:
		if p != nil {
			return *p
		}
	}
	return nil
}
