package runtimepath

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

func TestDir_UsesXDGRuntimeDirWhenSet(t *testing.T) {
	td := t.TempDir()
	t.Setenv(EnvOverride, "")
	t.Setenv("XDG_RUNTIME_DIR", td)

	got, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}
	if got != td {
		t.Fatalf("Dir() = %q, want %q", got, td)
	}
}

func TestDir_OverrideBeatsXDG(t *testing.T) {
	override := t.TempDir()
	t.Setenv(EnvOverride, override)
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())

	got, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}
	if got != override {
		t.Fatalf("Dir() = %q, want %q", got, override)
	}
}

func TestDir_FallbacksWhenEnvMissing(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv(EnvOverride, "")
	t.Setenv("XDG_RUNTIME_DIR", "")
	t.Setenv("TMPDIR", tmp)

	got, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}

	uid := strconv.Itoa(os.Getuid())
	wantRun := filepath.Join("/run/user", uid)
	wantTmp := filepath.Join(tmp, "tabdock-runtime-"+uid)
	if got != wantRun && got != wantTmp {
		t.Fatalf("Dir() = %q, want %q or %q", got, wantRun, wantTmp)
	}
	if got == wantTmp {
		info, err := os.Stat(got)
		if err != nil {
			t.Fatalf("Stat(%q) error: %v", got, err)
		}
		if perm := info.Mode().Perm(); perm != 0o700 {
			t.Fatalf("runtime dir mode = %o, want 700", perm)
		}
	}
}

func TestSocketPathAndPIDPath(t *testing.T) {
	td := t.TempDir()
	t.Setenv(EnvOverride, td)

	socket, err := SocketPath()
	if err != nil {
		t.Fatalf("SocketPath() error: %v", err)
	}
	if socket != filepath.Join(td, "tabdock.sock") {
		t.Fatalf("SocketPath() = %q", socket)
	}

	pid, err := PIDPath()
	if err != nil {
		t.Fatalf("PIDPath() error: %v", err)
	}
	if pid != filepath.Join(td, "tabdock.pid") {
		t.Fatalf("PIDPath() = %q", pid)
	}
}
