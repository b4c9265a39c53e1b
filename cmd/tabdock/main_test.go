package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/1broseidon/tabdock/internal/app"
	"github.com/1broseidon/tabdock/internal/config"
	"github.com/1broseidon/tabdock/internal/geometry"
	"github.com/1broseidon/tabdock/internal/ipc"
	"github.com/1broseidon/tabdock/internal/window"
)

func startDaemon(t *testing.T) *app.App {
	t.Helper()
	runtimeDir, err := os.MkdirTemp("", "tabdock-cmd")
	if err != nil {
		t.Fatalf("MkdirTemp: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(runtimeDir) })
	t.Setenv("TABDOCK_RUNTIME_DIR", runtimeDir)

	a, err := app.New(app.Options{
		DataDir:   filepath.Join(t.TempDir(), "data"),
		Viewport:  geometry.Size{Width: 1280, Height: 720},
		Scheduler: window.NewManualScheduler(),
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("app.New() error: %v", err)
	}
	server, err := ipc.NewServer(a, make(chan struct{}, 1))
	if err != nil {
		t.Fatalf("NewServer() error: %v", err)
	}
	if err := server.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	t.Cleanup(func() {
		server.Stop()
		a.Close()
	})
	return a
}

func TestCommandsAgainstDaemon(t *testing.T) {
	a := startDaemon(t)

	if rc := runStatus(nil); rc != 0 {
		t.Fatalf("runStatus rc=%d, want 0", rc)
	}
	if rc := runOpen([]string{"memo"}); rc != 0 {
		t.Fatalf("runOpen rc=%d, want 0", rc)
	}
	if n := len(a.Desktop.Windows()); n != 1 {
		t.Fatalf("windows after open = %d, want 1", n)
	}
	if rc := runWindowAction("fullscreen", nil); rc != 0 {
		t.Fatalf("fullscreen rc=%d, want 0", rc)
	}
	if !a.Desktop.Windows()[0].State.Fullscreen {
		t.Fatalf("topmost window not fullscreen")
	}
	if rc := runOpen([]string{"todo"}); rc != 1 {
		t.Fatalf("runOpen(todo) rc=%d, want 1", rc)
	}

	if rc := runMemo([]string{"add", "--title", "groceries", "--content", "milk"}); rc != 0 {
		t.Fatalf("memo add rc=%d, want 0", rc)
	}
	notes := a.Notes.List()
	if len(notes) != 1 {
		t.Fatalf("notes = %+v", notes)
	}
	if rc := runMemo([]string{"edit", "--content", "eggs", notes[0].ID}); rc != 0 {
		t.Fatalf("memo edit rc=%d, want 0", rc)
	}
	if got := a.Notes.List()[0]; got.Title != "groceries" || got.Content != "eggs" {
		t.Fatalf("edited note = %+v", got)
	}
	if rc := runMemo([]string{"edit", "--title", "x", "missing"}); rc != 1 {
		t.Fatalf("memo edit missing rc=%d, want 1", rc)
	}

	if rc := runSettings([]string{"set", "search", "currentEngine", "google"}); rc != 0 {
		t.Fatalf("settings set rc=%d, want 0", rc)
	}
	if got := a.Settings.State().Search.CurrentEngine; got != "google" {
		t.Fatalf("currentEngine = %q, want google", got)
	}
	if rc := runSearch([]string{"go", "modules"}); rc != 0 {
		t.Fatalf("search rc=%d, want 0", rc)
	}

	dir := t.TempDir()
	if rc := runBackup([]string{"export", "--dir", dir}); rc != 0 {
		t.Fatalf("backup export rc=%d, want 0", rc)
	}
	matches, _ := filepath.Glob(filepath.Join(dir, "backup-*.json"))
	if len(matches) != 1 {
		t.Fatalf("backup files = %v", matches)
	}
}

func TestUsageErrors(t *testing.T) {
	cases := []struct {
		name string
		run  func() int
		want int
	}{
		{"memo no args", func() int { return runMemo(nil) }, 2},
		{"memo help", func() int { return runMemo([]string{"help"}) }, 0},
		{"open no plugin", func() int { return runOpen(nil) }, 2},
		{"input bad kind", func() int { return runInput([]string{"wheel"}) }, 2},
		{"input keydown without key", func() int { return runInput([]string{"keydown"}) }, 2},
		{"settings set short", func() int { return runSettings([]string{"set", "dock"}) }, 2},
		{"status help", func() int { return runStatus([]string{"-h"}) }, 0},
		{"backup unknown", func() int { return runBackup([]string{"restore"}) }, 2},
		{"config unknown", func() int { return runConfig([]string{"edit"}) }, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.run(); got != tc.want {
				t.Fatalf("rc=%d, want %d", got, tc.want)
			}
		})
	}
}

func TestRunConfigValidateAndExplain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("viewport:\n  width: 1280\n  height: 720\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if rc := runConfig([]string{"validate", "--path", path}); rc != 0 {
		t.Fatalf("validate rc=%d, want 0", rc)
	}
	if rc := runConfig([]string{"explain", "--path", path, "viewport.width"}); rc != 0 {
		t.Fatalf("explain rc=%d, want 0", rc)
	}
	if rc := runConfig([]string{"explain", "--path", path}); rc != 2 {
		t.Fatalf("explain without path rc=%d, want 2", rc)
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("no_such_key: 1\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if rc := runConfig([]string{"validate", "--path", bad}); rc != 1 {
		t.Fatalf("validate bad rc=%d, want 1", rc)
	}
}

func TestFormatSource(t *testing.T) {
	cases := []struct {
		src  config.Source
		want string
	}{
		{config.Source{Kind: config.SourceFile, File: "/c.yaml", Line: 2, Column: 3}, "file:/c.yaml:2:3"},
		{config.Source{Kind: config.SourceFile, File: "/c.yaml"}, "file:/c.yaml"},
		{config.Source{Kind: config.SourceDefault, Name: "defaults"}, "default:defaults"},
		{config.Source{Kind: config.SourceDefault}, "default"},
	}
	for _, tc := range cases {
		if got := formatSource(tc.src); got != tc.want {
			t.Fatalf("formatSource(%+v) = %q, want %q", tc.src, got, tc.want)
		}
	}
}

func TestParseSettingValue(t *testing.T) {
	if v, ok := parseSettingValue("true").(bool); !ok || !v {
		t.Fatalf("parseSettingValue(true) = %v", v)
	}
	if v, ok := parseSettingValue("google").(string); !ok || v != "google" {
		t.Fatalf("parseSettingValue(google) = %v", v)
	}
	if v, ok := parseSettingValue(`"_self"`).(string); !ok || v != "_self" {
		t.Fatalf("parseSettingValue(\"_self\") = %v", v)
	}
}

func TestAbsPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	if got := absPath("/tmp/x.json"); got != "/tmp/x.json" {
		t.Fatalf("absPath(abs) = %q", got)
	}
	if got := absPath("rel.json"); !filepath.IsAbs(got) {
		t.Fatalf("absPath(rel) = %q, want absolute", got)
	}
}
