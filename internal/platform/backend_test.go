package platform

import (
	"errors"
	"testing"

	"github.com/1broseidon/tabdock/internal/config"
	"github.com/1broseidon/tabdock/internal/geometry"
)

type fakeBackend struct{ size geometry.Size }

func (fakeBackend) Name() string                       { return "fake" }
func (f fakeBackend) Viewport() (geometry.Size, error) { return f.size, nil }
func (fakeBackend) Close()                             {}

func withDialer(t *testing.T, fn func(string) (Backend, error)) {
	t.Helper()
	prev := dialer
	dialer = fn
	t.Cleanup(func() { dialer = prev })
}

func TestOpenStatic(t *testing.T) {
	withDialer(t, func(string) (Backend, error) {
		t.Fatal("dialer called for static source")
		return nil, nil
	})

	cfg := config.DefaultConfig()
	cfg.Viewport.Source = config.ViewportStatic
	cfg.Viewport.Width = 1280
	cfg.Viewport.Height = 720

	b, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	got, err := b.Viewport()
	if err != nil {
		t.Fatalf("Viewport() error = %v", err)
	}
	if got != (geometry.Size{Width: 1280, Height: 720}) {
		t.Fatalf("Viewport() = %+v, want 1280x720", got)
	}
}

func TestOpenAutoFallsBack(t *testing.T) {
	withDialer(t, func(string) (Backend, error) { return nil, errors.New("no display") })

	cfg := config.DefaultConfig()
	cfg.Viewport.Source = config.ViewportAuto

	b, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if b.Name() != string(config.ViewportStatic) {
		t.Fatalf("Name() = %q, want static", b.Name())
	}
}

func TestOpenX11RequiresDisplay(t *testing.T) {
	withDialer(t, func(string) (Backend, error) { return nil, errors.New("no display") })

	cfg := config.DefaultConfig()
	cfg.Viewport.Source = config.ViewportX11
	if _, err := Open(cfg); err == nil {
		t.Fatal("Open() error = nil, want connection error")
	}
}

func TestOpenPassesDisplay(t *testing.T) {
	var gotDisplay string
	withDialer(t, func(display string) (Backend, error) {
		gotDisplay = display
		return fakeBackend{size: geometry.Size{Width: 2560, Height: 1400}}, nil
	})

	cfg := config.DefaultConfig()
	cfg.Display = ":1"
	b, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if gotDisplay != ":1" {
		t.Fatalf("display = %q, want :1", gotDisplay)
	}
	if size, _ := b.Viewport(); size.Width != 2560 {
		t.Fatalf("Viewport() = %+v, want width 2560", size)
	}
}

func TestStaticRejectsEmpty(t *testing.T) {
	if _, err := (Static{}).Viewport(); err == nil {
		t.Fatal("Viewport() error = nil, want error")
	}
}
