// Package runtimepath locates the per-user directory holding the daemon's
// socket and pid file.
package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// EnvOverride names a directory that takes precedence over every other
// lookup. Tests and parallel daemons use it.
const EnvOverride = "TABDOCK_RUNTIME_DIR"

const (
	socketName = "tabdock.sock"
	pidName    = "tabdock.pid"
)

// Dir resolves the runtime directory. The first usable candidate wins:
// $TABDOCK_RUNTIME_DIR, $XDG_RUNTIME_DIR, /run/user/<uid>, then a private
// tabdock-runtime-<uid> directory under the system temp dir, created 0700.
func Dir() (string, error) {
	for _, env := range []string{EnvOverride, "XDG_RUNTIME_DIR"} {
		if dir := os.Getenv(env); dir != "" {
			return dir, nil
		}
	}

	uid := strconv.Itoa(os.Getuid())
	if dir := filepath.Join("/run/user", uid); isDir(dir) {
		return dir, nil
	}

	fallback := filepath.Join(os.TempDir(), "tabdock-runtime-"+uid)
	if err := os.MkdirAll(fallback, 0o700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	// MkdirAll leaves an existing directory's mode alone.
	if err := os.Chmod(fallback, 0o700); err != nil {
		return "", fmt.Errorf("failed to secure runtime dir: %w", err)
	}
	return fallback, nil
}

// SocketPath returns the daemon IPC socket path.
func SocketPath() (string, error) { return file(socketName) }

// PIDPath returns the daemon pid file path.
func PIDPath() (string, error) { return file(pidName) }

func file(name string) (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
