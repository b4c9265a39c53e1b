package actionlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLogger_WritesSortedDetails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "actions.log")
	l, err := New(Config{Enabled: true, Level: LevelInfo, FilePath: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.now = func() time.Time { return time.Date(2024, 10, 1, 8, 30, 0, 0, time.UTC) }

	l.Log(ActionOpen, "memo-1", map[string]any{"z": 1001, "plugin": "memo"})
	l.Log(ActionDragEnd, "memo-1", nil)
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := "2024-10-01 08:30:00 [OPEN] target=memo-1 plugin=\"memo\" z=1001\n"
	if string(data) != want {
		t.Fatalf("log = %q, want %q", string(data), want)
	}
}

func TestLogger_Rotates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "actions.log")
	if err := os.WriteFile(path, []byte(strings.Repeat("x", 1024*1024)), 0600); err != nil {
		t.Fatalf("seed: %v", err)
	}
	l, err := New(Config{Enabled: true, FilePath: path, MaxSizeMB: 1, MaxFiles: 2})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer l.Close()

	l.Log(ActionClose, "w1", nil)

	if _, err := os.Stat(path + ".1"); err != nil {
		t.Fatalf("expected rotated file: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), "[CLOSE] target=w1") {
		t.Fatalf("new log missing entry: %q", string(data))
	}
}

func TestLogger_NilAndDisabledAreSilent(t *testing.T) {
	var nilLogger *Logger
	nilLogger.Log(ActionOpen, "x", nil)
	if err := nilLogger.Close(); err != nil {
		t.Fatalf("Close on nil: %v", err)
	}

	l, err := New(Config{Enabled: false})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Log(ActionOpen, "x", nil)
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"warning": LevelWarn,
		"error":   LevelError,
		"bogus":   LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
