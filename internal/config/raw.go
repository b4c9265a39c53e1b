package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawViewportConfig struct {
	Source *ViewportSource `yaml:"source"`
	Width  *int            `yaml:"width"`
	Height *int            `yaml:"height"`
}

type RawWindowConfig struct {
	CloseDelayMS    *int `yaml:"close_delay_ms"`
	HeaderHeight    *int `yaml:"header_height"`
	ButtonSize      *int `yaml:"button_size"`
	ButtonGap       *int `yaml:"button_gap"`
	ButtonInset     *int `yaml:"button_inset"`
	MinimizedWidth  *int `yaml:"minimized_width"`
	MinimizedHeight *int `yaml:"minimized_height"`
	MinimizedLeft   *int `yaml:"minimized_left"`
	MinimizedBottom *int `yaml:"minimized_bottom"`
}

type RawZOrderConfig struct {
	Base      *int `yaml:"base"`
	DockLayer *int `yaml:"dock_layer"`
}

type RawDockConfig struct {
	Range     *float64 `yaml:"range"`
	BaseScale *float64 `yaml:"base_scale"`
	MaxScale  *float64 `yaml:"max_scale"`
	IconSize  *int     `yaml:"icon_size"`
	Plugins   []string `yaml:"plugins"`
}

type RawLoggingConfig struct {
	Enabled   *bool   `yaml:"enabled"`
	Level     *string `yaml:"level"`
	File      *string `yaml:"file"`
	MaxSizeMB *int    `yaml:"max_size_mb"`
	MaxFiles  *int    `yaml:"max_files"`
}

type RawConfig struct {
	Include        IncludeList             `yaml:"include"`
	Viewport       *RawViewportConfig      `yaml:"viewport"`
	Window         *RawWindowConfig        `yaml:"window"`
	ZOrder         *RawZOrderConfig        `yaml:"z_order"`
	Dock           *RawDockConfig          `yaml:"dock"`
	Plugins        map[string]PluginConfig `yaml:"plugins"`
	DataDir        *string                 `yaml:"data_dir"`
	ViewportPollMS *int                    `yaml:"viewport_poll_ms"`
	Display        *string                 `yaml:"display"`
	LogLevel       *string                 `yaml:"log_level"`
	Logging        *RawLoggingConfig       `yaml:"logging"`
}

func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	if overlay.Viewport != nil {
		if out.Viewport == nil {
			out.Viewport = &RawViewportConfig{}
		}
		setIfPresent(&out.Viewport.Source, overlay.Viewport.Source)
		setIfPresent(&out.Viewport.Width, overlay.Viewport.Width)
		setIfPresent(&out.Viewport.Height, overlay.Viewport.Height)
	}

	if overlay.Window != nil {
		if out.Window == nil {
			out.Window = &RawWindowConfig{}
		}
		w, o := out.Window, overlay.Window
		setIfPresent(&w.CloseDelayMS, o.CloseDelayMS)
		setIfPresent(&w.HeaderHeight, o.HeaderHeight)
		setIfPresent(&w.ButtonSize, o.ButtonSize)
		setIfPresent(&w.ButtonGap, o.ButtonGap)
		setIfPresent(&w.ButtonInset, o.ButtonInset)
		setIfPresent(&w.MinimizedWidth, o.MinimizedWidth)
		setIfPresent(&w.MinimizedHeight, o.MinimizedHeight)
		setIfPresent(&w.MinimizedLeft, o.MinimizedLeft)
		setIfPresent(&w.MinimizedBottom, o.MinimizedBottom)
	}

	if overlay.ZOrder != nil {
		if out.ZOrder == nil {
			out.ZOrder = &RawZOrderConfig{}
		}
		setIfPresent(&out.ZOrder.Base, overlay.ZOrder.Base)
		setIfPresent(&out.ZOrder.DockLayer, overlay.ZOrder.DockLayer)
	}

	if overlay.Dock != nil {
		if out.Dock == nil {
			out.Dock = &RawDockConfig{}
		}
		setIfPresent(&out.Dock.Range, overlay.Dock.Range)
		setIfPresent(&out.Dock.BaseScale, overlay.Dock.BaseScale)
		setIfPresent(&out.Dock.MaxScale, overlay.Dock.MaxScale)
		setIfPresent(&out.Dock.IconSize, overlay.Dock.IconSize)
		if overlay.Dock.Plugins != nil {
			out.Dock.Plugins = append([]string(nil), overlay.Dock.Plugins...)
		}
	}

	if overlay.Plugins != nil {
		merged := make(map[string]PluginConfig, len(out.Plugins)+len(overlay.Plugins))
		for id, p := range out.Plugins {
			merged[id] = p
		}
		for id, p := range overlay.Plugins {
			merged[id] = mergePluginConfig(merged[id], p)
		}
		out.Plugins = merged
	}

	setIfPresent(&out.DataDir, overlay.DataDir)
	setIfPresent(&out.ViewportPollMS, overlay.ViewportPollMS)
	setIfPresent(&out.Display, overlay.Display)
	setIfPresent(&out.LogLevel, overlay.LogLevel)

	if overlay.Logging != nil {
		if out.Logging == nil {
			out.Logging = &RawLoggingConfig{}
		}
		setIfPresent(&out.Logging.Enabled, overlay.Logging.Enabled)
		setIfPresent(&out.Logging.Level, overlay.Logging.Level)
		setIfPresent(&out.Logging.File, overlay.Logging.File)
		setIfPresent(&out.Logging.MaxSizeMB, overlay.Logging.MaxSizeMB)
		setIfPresent(&out.Logging.MaxFiles, overlay.Logging.MaxFiles)
	}

	return out
}

func mergePluginConfig(base, overlay PluginConfig) PluginConfig {
	setIfPresent(&base.Title, overlay.Title)
	setIfPresent(&base.Width, overlay.Width)
	setIfPresent(&base.Height, overlay.Height)
	setIfPresent(&base.AllowDrag, overlay.AllowDrag)
	setIfPresent(&base.AllowMinimize, overlay.AllowMinimize)
	setIfPresent(&base.AllowFullscreen, overlay.AllowFullscreen)
	return base
}

func setIfPresent[T any](dst **T, v *T) {
	if v != nil {
		*dst = v
	}
}
