package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mitchellh/go-homedir"

	"github.com/1broseidon/tabdock/internal/geometry"
	"github.com/1broseidon/tabdock/internal/window"
)

func writeConfig(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if cfg.CloseDelay() != 300*time.Millisecond {
		t.Fatalf("CloseDelay() = %v, want 300ms", cfg.CloseDelay())
	}
	if cfg.Chrome() != window.DefaultChrome() {
		t.Fatalf("Chrome() = %+v, want %+v", cfg.Chrome(), window.DefaultChrome())
	}
	if cfg.ViewportSize() != (geometry.Size{Width: 1920, Height: 1080}) {
		t.Fatalf("ViewportSize() = %+v", cfg.ViewportSize())
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.ZOrder.DockLayer != 1000 || len(res.Files) != 0 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "# empty\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Viewport.Source != ViewportAuto {
		t.Fatalf("expected viewport.source auto, got %q", res.Config.Viewport.Source)
	}
}

func TestLoadFromPath_OverridesAndExplain(t *testing.T) {
	data := strings.Join([]string{
		"viewport:",
		"  source: static",
		"  width: 1280",
		"display: \":1\"",
		"window:",
		"  close_delay_ms: 150",
		"plugins:",
		"  memo:",
		"    width: 500",
		"    allow_drag: true",
		"",
	}, "\n")
	path := writeConfig(t, t.TempDir(), "config.yaml", data)

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := res.Config
	if cfg.Viewport.Width != 1280 || cfg.Viewport.Height != 1080 {
		t.Fatalf("viewport = %+v", cfg.Viewport)
	}
	if cfg.CloseDelay() != 150*time.Millisecond {
		t.Fatalf("CloseDelay() = %v", cfg.CloseDelay())
	}

	memo := cfg.Plugins["memo"].Apply(window.Options{Title: "memo", Width: 800, Height: 600})
	if memo.Width != 500 || memo.Height != 600 || !memo.AllowDrag || memo.Title != "memo" {
		t.Fatalf("Apply() = %+v", memo)
	}

	val, src, err := Explain(res, "display")
	if err != nil {
		t.Fatalf("explain display: %v", err)
	}
	if val != ":1" || src.Kind != SourceFile || src.File == "" {
		t.Fatalf("explain display = %#v from %#v", val, src)
	}

	val, src, err = Explain(res, "viewport.height")
	if err != nil {
		t.Fatalf("explain viewport.height: %v", err)
	}
	if val != 1080 || src.Kind != SourceDefault {
		t.Fatalf("explain viewport.height = %#v from %#v", val, src)
	}

	if val, _, err := Explain(res, "plugins.memo.width"); err != nil || val != 500.0 {
		t.Fatalf("explain plugins.memo.width = %#v, %v", val, err)
	}
	if _, _, err := Explain(res, "window.nope"); err == nil {
		t.Fatalf("expected error for unknown path")
	}
}

func TestLoadFromPath_StrictUnknownKeyErrors(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "unknown_key: 1\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "unknown_key") && !strings.Contains(err.Error(), "field") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("expected error to include file path, got %v", err)
	}
}

func TestLoadFromPath_ValidationErrorHasSource(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "log_level: info\nviewport_poll_ms: 10\n")

	_, err := LoadFromPath(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if verr.Path != "viewport_poll_ms" || verr.Source.Line != 2 {
		t.Fatalf("ValidationError = %+v", verr)
	}
	if !strings.Contains(err.Error(), ":2:") {
		t.Fatalf("expected file:line prefix, got %v", err)
	}
}

func TestLoadFromPath_IncludeDirectoryOrderAndMainOverrides(t *testing.T) {
	dir := t.TempDir()

	// config.d loaded first, in sorted order.
	configD := filepath.Join(dir, "config.d")
	if err := os.MkdirAll(configD, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeConfig(t, configD, "10-base.yaml", "viewport_poll_ms: 500\ndock:\n  max_scale: 2\n")
	writeConfig(t, configD, "20-override.yaml", "viewport_poll_ms: 600\n")

	// Main file overrides includes.
	path := writeConfig(t, dir, "config.yaml", "include:\n  - config.d\nviewport_poll_ms: 700\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.ViewportPollMS != 700 {
		t.Fatalf("expected viewport_poll_ms to be 700, got %d", res.Config.ViewportPollMS)
	}
	if res.Config.Dock.MaxScale != 2 {
		t.Fatalf("expected dock.max_scale from include, got %v", res.Config.Dock.MaxScale)
	}
	if len(res.Files) != 3 {
		t.Fatalf("Files = %v, want 3 entries", res.Files)
	}
}

func TestLoadFromPath_IncludeMissingPathHasContext(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "include:\n  - missing.yaml\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "include") || !strings.Contains(err.Error(), "missing.yaml") {
		t.Fatalf("expected include error, got %v", err)
	}
	if !strings.Contains(err.Error(), path+":") {
		t.Fatalf("expected error to include file:line:col prefix, got %v", err)
	}
}

func TestLoadFromPath_IncludeCycleDetection(t *testing.T) {
	dir := t.TempDir()
	a := writeConfig(t, dir, "a.yaml", "include: b.yaml\n")
	writeConfig(t, dir, "b.yaml", "include: a.yaml\n")

	_, err := LoadFromPath(a)
	if err == nil {
		t.Fatalf("expected cycle error")
	}
	if !strings.Contains(err.Error(), "include cycle") {
		t.Fatalf("expected cycle error, got %v", err)
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{name: "viewport source", mutate: func(c *Config) { c.Viewport.Source = "wayland" }, path: "viewport.source"},
		{name: "viewport size", mutate: func(c *Config) { c.Viewport.Width = 0 }, path: "viewport"},
		{name: "button larger than header", mutate: func(c *Config) { c.Window.ButtonSize = 50 }, path: "window.button_size"},
		{name: "dock below base", mutate: func(c *Config) { c.ZOrder.DockLayer = 10 }, path: "z_order.dock_layer"},
		{name: "max below base scale", mutate: func(c *Config) { c.Dock.MaxScale = 0.5 }, path: "dock.max_scale"},
		{name: "duplicate dock plugin", mutate: func(c *Config) { c.Dock.Plugins = []string{"memo", "memo"} }, path: "dock.plugins"},
		{name: "log level", mutate: func(c *Config) { c.LogLevel = "loud" }, path: "log_level"},
		{name: "logging level", mutate: func(c *Config) { c.Logging.Level = "warning" }, path: "logging.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() = %v, want *ValidationError", err)
			}
			if verr.Path != tt.path {
				t.Fatalf("Path = %q, want %q", verr.Path, tt.path)
			}
		})
	}
}

func TestDataDirPath(t *testing.T) {
	homedir.DisableCache = true
	t.Cleanup(func() { homedir.DisableCache = false })
	t.Setenv("HOME", "/home/tester")
	t.Setenv("XDG_DATA_HOME", "")

	cfg := DefaultConfig()
	got, err := cfg.DataDirPath()
	if err != nil {
		t.Fatalf("DataDirPath() error: %v", err)
	}
	if got != "/home/tester/.local/share/tabdock" {
		t.Fatalf("DataDirPath() = %q", got)
	}

	t.Setenv("XDG_DATA_HOME", "/xdg/data")
	if got, _ := cfg.DataDirPath(); got != "/xdg/data/tabdock" {
		t.Fatalf("DataDirPath() with XDG = %q", got)
	}

	cfg.DataDir = "~/notes"
	if got, _ := cfg.DataDirPath(); got != "/home/tester/notes" {
		t.Fatalf("DataDirPath() expanded = %q", got)
	}
}

func TestGetLoggingConfig_Defaults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = "/data/tabdock"
	got := cfg.GetLoggingConfig()
	if got.File != "/data/tabdock/actions.log" || got.MaxSizeMB != 10 || got.MaxFiles != 3 || got.Level != "info" {
		t.Fatalf("GetLoggingConfig() = %+v", got)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Viewport.Source = ViewportStatic
	cfg.Dock.Plugins = []string{"settings", "memo"}

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Viewport.Source != ViewportStatic || len(res.Config.Dock.Plugins) != 2 {
		t.Fatalf("reloaded = %+v", res.Config)
	}
}

func TestDefaultConfigPath_HonoursXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
	got, err := DefaultConfigPath()
	if err != nil {
		t.Fatalf("DefaultConfigPath() error: %v", err)
	}
	if got != "/xdg/config/tabdock/config.yaml" {
		t.Fatalf("DefaultConfigPath() = %q", got)
	}
}
