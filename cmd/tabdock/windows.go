package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/1broseidon/tabdock/internal/config"
	"github.com/1broseidon/tabdock/internal/desktop"
	"github.com/1broseidon/tabdock/internal/ipc"
)

func runPlugins(args []string) int {
	fs := flag.NewFlagSet("plugins", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tabdock plugins [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List dock entries in dock order.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	jsonOut := fs.Bool("json", false, "Output as JSON")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	data, err := ipc.NewClient().ListPlugins()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *jsonOut {
		return printJSON(data.Plugins)
	}
	for _, p := range data.Plugins {
		state := "-"
		if p.WindowID != "" {
			state = "open:" + p.WindowID
		} else if !p.Launchable {
			state = "unavailable"
		}
		fmt.Printf("%-10s %-12s %s\n", p.ID, p.Title, state)
	}
	return 0
}

func runOpen(args []string) int {
	fs := flag.NewFlagSet("open", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tabdock open <plugin-id>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Open a plugin window, or raise it when it is already open.")
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "open requires <plugin-id>")
		fs.Usage()
		return 2
	}

	info, err := ipc.NewClient().OpenPlugin(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	printWindow(*info)
	return 0
}

// runWindowAction handles close, fullscreen and minimize. Without an id the
// topmost window is used.
func runWindowAction(name string, args []string) int {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: tabdock %s [window-id]\n", name)
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Defaults to the topmost window.")
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() > 1 {
		fmt.Fprintf(os.Stderr, "%s takes at most one window id\n", name)
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	id := fs.Arg(0)
	if id == "" {
		windows, err := client.ListWindows()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if len(windows) == 0 {
			fmt.Fprintln(os.Stderr, "no open windows")
			return 1
		}
		id = windows[0].ID
	}

	var (
		info *desktop.WindowInfo
		err  error
	)
	switch name {
	case "close":
		info, err = client.CloseWindow(id)
	case "fullscreen":
		info, err = client.ToggleFullscreen(id)
	case "minimize":
		info, err = client.ToggleMinimize(id)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	printWindow(*info)
	return 0
}

func runWindows(args []string) int {
	fs := flag.NewFlagSet("windows", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tabdock windows [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List open windows, topmost first.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	jsonOut := fs.Bool("json", false, "Output as JSON")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	windows, err := ipc.NewClient().ListWindows()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *jsonOut {
		return printJSON(windows)
	}
	if len(windows) == 0 {
		fmt.Println("no open windows")
		return 0
	}
	for _, w := range windows {
		printWindow(w)
	}
	return 0
}

func printWindow(w desktop.WindowInfo) {
	var flags []string
	if w.State.Fullscreen {
		flags = append(flags, "fullscreen")
	}
	if w.State.Minimized {
		flags = append(flags, "minimized")
	}
	if w.State.Closing {
		flags = append(flags, "closing")
	}
	if w.State.Dragging {
		flags = append(flags, "dragging")
	}
	state := "normal"
	if len(flags) > 0 {
		state = strings.Join(flags, ",")
	}
	g := w.Geometry
	fmt.Printf("%s  %-10s z=%-4d %4.0f,%-4.0f %4.0fx%-4.0f %s\n",
		w.ID, w.PluginID, w.Z, g.X, g.Y, g.Width, g.Height, state)
}

func runInput(args []string) int {
	fs := flag.NewFlagSet("input", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tabdock input [flags] <kind>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Dispatch one input event to the desktop. Kinds:")
		fmt.Fprintln(os.Stderr, "  pointerdown, pointermove, pointerup, click, dblclick  (--x, --y)")
		fmt.Fprintln(os.Stderr, "  resize                                               (--width, --height)")
		fmt.Fprintln(os.Stderr, "  keydown                                              (--key)")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	x := fs.Float64("x", 0, "Pointer x")
	y := fs.Float64("y", 0, "Pointer y")
	width := fs.Float64("width", 0, "Viewport width for resize")
	height := fs.Float64("height", 0, "Viewport height for resize")
	key := fs.String("key", "", "Key name for keydown (e.g. Escape)")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "input requires <kind>")
		fs.Usage()
		return 2
	}

	ev := desktop.InputEvent{
		Kind:   desktop.EventKind(fs.Arg(0)),
		X:      *x,
		Y:      *y,
		Width:  *width,
		Height: *height,
		Key:    *key,
	}
	if err := ev.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	data, err := ipc.NewClient().Input(ev)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	out := data.Outcome
	fmt.Printf("handled: %v\n", out.Handled)
	if out.WindowID != "" {
		fmt.Printf("window:  %s\n", out.WindowID)
	}
	if out.Region != "" {
		fmt.Printf("region:  %s\n", out.Region)
	}
	if out.Action != "" {
		fmt.Printf("action:  %s\n", out.Action)
	}
	return 0
}

func runDock(args []string) int {
	fs := flag.NewFlagSet("dock", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tabdock dock [--pointer X]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show each dock item's rectangle and its magnification for a pointer")
		fmt.Fprintln(os.Stderr, "at X. Without --pointer the resting scales are shown.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	pointer := fs.Float64("pointer", -1, "Pointer x position over the dock")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	client := ipc.NewClient()
	status, err := client.GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	plugins, err := client.ListPlugins()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	n := len(plugins.Plugins)
	items := cfg.DockLayout().Items(status.Viewport, n)
	mag := cfg.Magnifier()
	scales := mag.Rest(n)
	if *pointer >= 0 {
		centers := make([]float64, n)
		for i, r := range items {
			centers[i] = r.Center().X
		}
		scales = mag.Scales(*pointer, centers)
	}

	for i, p := range plugins.Plugins {
		r := items[i]
		fmt.Printf("%-10s %5.0f,%-5.0f %3.0fx%-3.0f scale=%.2f\n", p.ID, r.X, r.Y, r.Width, r.Height, scales[i])
	}
	return 0
}

func printJSON(v any) int {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
