package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"

	"github.com/1broseidon/tabdock/internal/dock"
	"github.com/1broseidon/tabdock/internal/geometry"
	"github.com/1broseidon/tabdock/internal/window"
)

// ViewportSource selects where the daemon reads the viewport size from.
type ViewportSource string

const (
	ViewportAuto   ViewportSource = "auto"   // X11 when a display is reachable, else static.
	ViewportX11    ViewportSource = "x11"    // Primary monitor work area.
	ViewportStatic ViewportSource = "static" // viewport.width x viewport.height.
)

// ViewportConfig is the fallback viewport and its source.
type ViewportConfig struct {
	Source ViewportSource `yaml:"source"`
	Width  int            `yaml:"width"`
	Height int            `yaml:"height"`
}

// WindowConfig describes the chrome shared by every frame.
type WindowConfig struct {
	CloseDelayMS    int `yaml:"close_delay_ms"`
	HeaderHeight    int `yaml:"header_height"`
	ButtonSize      int `yaml:"button_size"`
	ButtonGap       int `yaml:"button_gap"`
	ButtonInset     int `yaml:"button_inset"`
	MinimizedWidth  int `yaml:"minimized_width"`
	MinimizedHeight int `yaml:"minimized_height"`
	MinimizedLeft   int `yaml:"minimized_left"`
	MinimizedBottom int `yaml:"minimized_bottom"`
}

// ZOrderConfig sets the lowest window z-order and the dock layer.
type ZOrderConfig struct {
	Base      int `yaml:"base"`
	DockLayer int `yaml:"dock_layer"`
}

// DockConfig configures the launcher bar.
type DockConfig struct {
	Range     float64  `yaml:"range"`
	BaseScale float64  `yaml:"base_scale"`
	MaxScale  float64  `yaml:"max_scale"`
	IconSize  int      `yaml:"icon_size"`
	Plugins   []string `yaml:"plugins,omitempty"` // dock order; empty keeps the built-in order
}

// PluginConfig overrides the window options of one plugin. Unset fields keep
// the plugin's own values.
type PluginConfig struct {
	Title           *string  `yaml:"title,omitempty"`
	Width           *float64 `yaml:"width,omitempty"`
	Height          *float64 `yaml:"height,omitempty"`
	AllowDrag       *bool    `yaml:"allow_drag,omitempty"`
	AllowMinimize   *bool    `yaml:"allow_minimize,omitempty"`
	AllowFullscreen *bool    `yaml:"allow_fullscreen,omitempty"`
}

// LoggingConfig configures the action log.
type LoggingConfig struct {
	// Enabled turns action logging on/off
	Enabled bool `yaml:"enabled,omitempty"`
	// Level controls logging verbosity: debug, info, warn, error
	Level string `yaml:"level,omitempty"`
	// File is the log file path (default: <data_dir>/actions.log)
	File string `yaml:"file,omitempty"`
	// MaxSizeMB is the maximum log file size before rotation (default: 10)
	MaxSizeMB int `yaml:"max_size_mb,omitempty"`
	// MaxFiles is the number of rotated files to keep (default: 3)
	MaxFiles int `yaml:"max_files,omitempty"`
}

// Config is the effective configuration.
type Config struct {
	Viewport       ViewportConfig          `yaml:"viewport"`
	Window         WindowConfig            `yaml:"window"`
	ZOrder         ZOrderConfig            `yaml:"z_order"`
	Dock           DockConfig              `yaml:"dock"`
	Plugins        map[string]PluginConfig `yaml:"plugins,omitempty"`
	DataDir        string                  `yaml:"data_dir,omitempty"`
	ViewportPollMS int                     `yaml:"viewport_poll_ms"`
	Display        string                  `yaml:"display,omitempty"`
	LogLevel       string                  `yaml:"log_level"`
	Logging        LoggingConfig           `yaml:"logging,omitempty"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Viewport: ViewportConfig{
			Source: ViewportAuto,
			Width:  1920,
			Height: 1080,
		},
		Window: WindowConfig{
			CloseDelayMS:    int(window.DefaultCloseDelay / time.Millisecond),
			HeaderHeight:    40,
			ButtonSize:      16,
			ButtonGap:       8,
			ButtonInset:     16,
			MinimizedWidth:  200,
			MinimizedHeight: 40,
			MinimizedLeft:   20,
			MinimizedBottom: 60,
		},
		ZOrder: ZOrderConfig{
			Base:      window.DefaultZ,
			DockLayer: 1000,
		},
		Dock: DockConfig{
			Range:     dock.DefaultRange,
			BaseScale: dock.DefaultMinScale,
			MaxScale:  dock.DefaultMaxScale,
			IconSize:  32,
		},
		Plugins:        map[string]PluginConfig{},
		ViewportPollMS: 1000,
		LogLevel:       "info",
	}
}

// ViewportSize returns the static viewport.
func (c *Config) ViewportSize() geometry.Size {
	return geometry.Size{Width: float64(c.Viewport.Width), Height: float64(c.Viewport.Height)}
}

// CloseDelay returns the frame close delay.
func (c *Config) CloseDelay() time.Duration {
	return time.Duration(c.Window.CloseDelayMS) * time.Millisecond
}

// PollInterval returns the viewport poll interval.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.ViewportPollMS) * time.Millisecond
}

// Chrome returns the frame decorations.
func (c *Config) Chrome() window.Chrome {
	w := c.Window
	return window.Chrome{
		HeaderHeight:    float64(w.HeaderHeight),
		ButtonSize:      float64(w.ButtonSize),
		ButtonGap:       float64(w.ButtonGap),
		ButtonInset:     float64(w.ButtonInset),
		MinimizedWidth:  float64(w.MinimizedWidth),
		MinimizedHeight: float64(w.MinimizedHeight),
		MinimizedLeft:   float64(w.MinimizedLeft),
		MinimizedBottom: float64(w.MinimizedBottom),
	}
}

// Magnifier returns the dock scale curve.
func (c *Config) Magnifier() dock.Magnifier {
	return dock.Magnifier{Range: c.Dock.Range, MinScale: c.Dock.BaseScale, MaxScale: c.Dock.MaxScale}
}

// DockLayout returns the dock bar layout.
func (c *Config) DockLayout() dock.Layout {
	l := dock.DefaultLayout()
	l.IconSize = float64(c.Dock.IconSize)
	return l
}

// Apply layers the override onto base.
func (p PluginConfig) Apply(base window.Options) window.Options {
	if p.Title != nil {
		base.Title = *p.Title
	}
	if p.Width != nil {
		base.Width = *p.Width
	}
	if p.Height != nil {
		base.Height = *p.Height
	}
	if p.AllowDrag != nil {
		base.AllowDrag = *p.AllowDrag
	}
	if p.AllowMinimize != nil {
		base.AllowMinimize = *p.AllowMinimize
	}
	if p.AllowFullscreen != nil {
		base.AllowFullscreen = *p.AllowFullscreen
	}
	return base
}

// DataDirPath returns the expanded data directory.
func (c *Config) DataDirPath() (string, error) {
	if c != nil && strings.TrimSpace(c.DataDir) != "" {
		path, err := homedir.Expand(c.DataDir)
		if err != nil {
			return "", fmt.Errorf("failed to expand data_dir: %w", err)
		}
		return path, nil
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "tabdock"), nil
	}
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "tabdock"), nil
}

// GetLoggingConfig returns the logging configuration with defaults applied.
func (c *Config) GetLoggingConfig() LoggingConfig {
	if c == nil {
		return LoggingConfig{}
	}
	cfg := c.Logging
	if cfg.File == "" {
		dir, err := c.DataDirPath()
		if err != nil {
			// Last resort fallback - use current directory
			dir = "."
		}
		cfg.File = filepath.Join(dir, "actions.log")
	} else if expanded, err := homedir.Expand(cfg.File); err == nil {
		cfg.File = expanded
	}
	if cfg.MaxSizeMB == 0 {
		cfg.MaxSizeMB = 10
	}
	if cfg.MaxFiles == 0 {
		cfg.MaxFiles = 3
	}
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	return cfg
}

// Save writes the configuration to path, or to the standard location when
// path is empty.
//
// Note: this marshals the effective config and will not preserve comments or
// include structure from the original YAML.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if path == "" {
		var err error
		path, err = DefaultConfigPath()
		if err != nil {
			return err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	save := *c
	if len(save.Plugins) == 0 {
		save.Plugins = nil
	}
	data, err := yaml.Marshal(&save)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	switch c.Viewport.Source {
	case ViewportAuto, ViewportX11, ViewportStatic:
	default:
		return &ValidationError{Path: "viewport.source", Err: fmt.Errorf("viewport.source must be one of: auto, x11, static")}
	}
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return &ValidationError{Path: "viewport", Err: fmt.Errorf("viewport width and height must be > 0")}
	}

	w := c.Window
	if w.CloseDelayMS < 0 {
		return &ValidationError{Path: "window.close_delay_ms", Err: fmt.Errorf("close_delay_ms must be >= 0")}
	}
	if w.HeaderHeight <= 0 {
		return &ValidationError{Path: "window.header_height", Err: fmt.Errorf("header_height must be > 0")}
	}
	if w.ButtonSize <= 0 || w.ButtonSize > w.HeaderHeight {
		return &ValidationError{Path: "window.button_size", Err: fmt.Errorf("button_size must be between 1 and header_height")}
	}
	if w.ButtonGap < 0 || w.ButtonInset < 0 {
		return &ValidationError{Path: "window.button_gap", Err: fmt.Errorf("button_gap and button_inset must be >= 0")}
	}
	if w.MinimizedWidth <= 0 || w.MinimizedHeight <= 0 {
		return &ValidationError{Path: "window.minimized_width", Err: fmt.Errorf("minimized footprint must be > 0")}
	}

	if c.ZOrder.Base <= 0 {
		return &ValidationError{Path: "z_order.base", Err: fmt.Errorf("base must be > 0")}
	}
	if c.ZOrder.DockLayer < c.ZOrder.Base {
		return &ValidationError{Path: "z_order.dock_layer", Err: fmt.Errorf("dock_layer must be >= base")}
	}

	if c.Dock.Range <= 0 {
		return &ValidationError{Path: "dock.range", Err: fmt.Errorf("range must be > 0")}
	}
	if c.Dock.BaseScale <= 0 {
		return &ValidationError{Path: "dock.base_scale", Err: fmt.Errorf("base_scale must be > 0")}
	}
	if c.Dock.MaxScale < c.Dock.BaseScale {
		return &ValidationError{Path: "dock.max_scale", Err: fmt.Errorf("max_scale must be >= base_scale")}
	}
	if c.Dock.IconSize <= 0 {
		return &ValidationError{Path: "dock.icon_size", Err: fmt.Errorf("icon_size must be > 0")}
	}
	seen := make(map[string]struct{}, len(c.Dock.Plugins))
	for _, id := range c.Dock.Plugins {
		if strings.TrimSpace(id) == "" {
			return &ValidationError{Path: "dock.plugins", Err: fmt.Errorf("plugin id must not be empty")}
		}
		if _, dup := seen[id]; dup {
			return &ValidationError{Path: "dock.plugins", Err: fmt.Errorf("duplicate plugin %q", id)}
		}
		seen[id] = struct{}{}
	}

	for id, p := range c.Plugins {
		if p.Width != nil && *p.Width < 0 {
			return &ValidationError{Path: "plugins." + id + ".width", Err: fmt.Errorf("width must be >= 0")}
		}
		if p.Height != nil && *p.Height < 0 {
			return &ValidationError{Path: "plugins." + id + ".height", Err: fmt.Errorf("height must be >= 0")}
		}
	}

	if c.ViewportPollMS < 50 {
		return &ValidationError{Path: "viewport_poll_ms", Err: fmt.Errorf("viewport_poll_ms must be >= 50")}
	}
	switch c.LogLevel {
	case "debug", "info", "warning", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	if c.Logging.Level != "" {
		switch c.Logging.Level {
		case "debug", "info", "warn", "error":
		default:
			return &ValidationError{Path: "logging.level", Err: fmt.Errorf("logging.level must be one of: debug, info, warn, error")}
		}
	}
	if c.Logging.MaxSizeMB < 0 || c.Logging.MaxFiles < 0 {
		return &ValidationError{Path: "logging", Err: fmt.Errorf("max_size_mb and max_files must be >= 0")}
	}
	return nil
}
