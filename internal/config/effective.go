package config

import "fmt"

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// BuildEffectiveConfig layers raw over the defaults.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if v := raw.Viewport; v != nil {
		apply(&cfg.Viewport.Source, v.Source)
		apply(&cfg.Viewport.Width, v.Width)
		apply(&cfg.Viewport.Height, v.Height)
	}
	if w := raw.Window; w != nil {
		apply(&cfg.Window.CloseDelayMS, w.CloseDelayMS)
		apply(&cfg.Window.HeaderHeight, w.HeaderHeight)
		apply(&cfg.Window.ButtonSize, w.ButtonSize)
		apply(&cfg.Window.ButtonGap, w.ButtonGap)
		apply(&cfg.Window.ButtonInset, w.ButtonInset)
		apply(&cfg.Window.MinimizedWidth, w.MinimizedWidth)
		apply(&cfg.Window.MinimizedHeight, w.MinimizedHeight)
		apply(&cfg.Window.MinimizedLeft, w.MinimizedLeft)
		apply(&cfg.Window.MinimizedBottom, w.MinimizedBottom)
	}
	if z := raw.ZOrder; z != nil {
		apply(&cfg.ZOrder.Base, z.Base)
		apply(&cfg.ZOrder.DockLayer, z.DockLayer)
	}
	if d := raw.Dock; d != nil {
		apply(&cfg.Dock.Range, d.Range)
		apply(&cfg.Dock.BaseScale, d.BaseScale)
		apply(&cfg.Dock.MaxScale, d.MaxScale)
		apply(&cfg.Dock.IconSize, d.IconSize)
		if d.Plugins != nil {
			cfg.Dock.Plugins = append([]string(nil), d.Plugins...)
		}
	}
	for id, p := range raw.Plugins {
		cfg.Plugins[id] = p
	}
	apply(&cfg.DataDir, raw.DataDir)
	apply(&cfg.ViewportPollMS, raw.ViewportPollMS)
	apply(&cfg.Display, raw.Display)
	apply(&cfg.LogLevel, raw.LogLevel)
	if l := raw.Logging; l != nil {
		apply(&cfg.Logging.Enabled, l.Enabled)
		apply(&cfg.Logging.Level, l.Level)
		apply(&cfg.Logging.File, l.File)
		apply(&cfg.Logging.MaxSizeMB, l.MaxSizeMB)
		apply(&cfg.Logging.MaxFiles, l.MaxFiles)
	}

	return cfg, nil
}

func apply[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
