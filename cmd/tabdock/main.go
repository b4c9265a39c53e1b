package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/1broseidon/tabdock/internal/app"
	"github.com/1broseidon/tabdock/internal/config"
	"github.com/1broseidon/tabdock/internal/daemon"
	"github.com/1broseidon/tabdock/internal/ipc"
	"github.com/1broseidon/tabdock/internal/platform"
	"github.com/1broseidon/tabdock/internal/runtimepath"
	"github.com/1broseidon/tabdock/internal/storage"
	"github.com/1broseidon/tabdock/internal/tui"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		if len(os.Args) > 2 && (os.Args[2] == "help" || os.Args[2] == "-h" || os.Args[2] == "--help") {
			fmt.Fprintln(os.Stdout, "Usage: tabdock daemon")
			os.Exit(0)
		}
		if len(os.Args) > 2 {
			fmt.Fprintln(os.Stderr, "daemon takes no arguments")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Usage: tabdock daemon")
			os.Exit(2)
		}
		runDaemon()
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "plugins":
		os.Exit(runPlugins(os.Args[2:]))
	case "open":
		os.Exit(runOpen(os.Args[2:]))
	case "close", "fullscreen", "minimize":
		os.Exit(runWindowAction(os.Args[1], os.Args[2:]))
	case "windows":
		os.Exit(runWindows(os.Args[2:]))
	case "input":
		os.Exit(runInput(os.Args[2:]))
	case "dock":
		os.Exit(runDock(os.Args[2:]))
	case "memo":
		os.Exit(runMemo(os.Args[2:]))
	case "sites":
		os.Exit(runSites(os.Args[2:]))
	case "settings":
		os.Exit(runSettings(os.Args[2:]))
	case "search":
		os.Exit(runSearch(os.Args[2:]))
	case "backup":
		os.Exit(runBackup(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "tui":
		os.Exit(runTUI(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: tabdock <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the tabdock daemon (foreground)")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  plugins             List dock entries")
	fmt.Fprintln(w, "  open                Open (or raise) a plugin window")
	fmt.Fprintln(w, "  close               Close a window")
	fmt.Fprintln(w, "  fullscreen          Toggle fullscreen on a window")
	fmt.Fprintln(w, "  minimize            Toggle minimize on a window")
	fmt.Fprintln(w, "  windows             List open windows, topmost first")
	fmt.Fprintln(w, "  input               Dispatch a pointer, key or resize event")
	fmt.Fprintln(w, "  dock                Show dock item positions and magnification")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  memo list|add|edit|delete")
	fmt.Fprintln(w, "                      Manage memos")
	fmt.Fprintln(w, "  sites list|add|delete")
	fmt.Fprintln(w, "                      Manage bookmarked sites")
	fmt.Fprintln(w, "  settings get|set    Show or change settings")
	fmt.Fprintln(w, "  search              Print the search URL for a query")
	fmt.Fprintln(w, "  backup export|import")
	fmt.Fprintln(w, "                      Export or restore stored data")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  tui                 Open interactive TUI")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'tabdock <command> --help' for command-specific options.")
}

// parseFlags parses args into fs and reports the exit code to use when
// parsing stops the command.
func parseFlags(fs *flag.FlagSet, args []string) (int, bool) {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0, false
		}
		return 2, false
	}
	return 0, true
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tabdock status")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show daemon status via IPC.")
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	status, err := client.GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("daemon_running: %v\n", status.DaemonRunning)
	fmt.Printf("viewport:       %.0fx%.0f\n", status.Viewport.Width, status.Viewport.Height)
	fmt.Printf("window_count:   %d\n", status.WindowCount)
	fmt.Printf("plugin_count:   %d\n", status.PluginCount)
	fmt.Printf("data_dir:       %s\n", status.DataDir)
	fmt.Printf("uptime_seconds: %d\n", status.UptimeSeconds)
	return 0
}

func runTUI(args []string) int {
	if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
		fmt.Fprintln(os.Stderr, "Usage: tabdock tui")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Interactive desktop preview backed by the running daemon.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Keybindings:")
		fmt.Fprintln(os.Stderr, "  1/2/3, Tab  Switch between desktop, memos and settings")
		fmt.Fprintln(os.Stderr, "  Enter, o    Open the selected dock entry")
		fmt.Fprintln(os.Stderr, "  [ ]         Select the previous/next window")
		fmt.Fprintln(os.Stderr, "  x/f/m       Close, fullscreen or minimize the selected window")
		fmt.Fprintln(os.Stderr, "  n/e/d       New, edit or delete a memo")
		fmt.Fprintln(os.Stderr, "  /           Search with the current engine")
		fmt.Fprintln(os.Stderr, "  r           Refresh")
		fmt.Fprintln(os.Stderr, "  q, Ctrl+C   Quit")
		return 0
	}
	if len(args) != 0 {
		fmt.Fprintln(os.Stderr, "tui takes no arguments")
		return 2
	}

	t := tui.New(ipc.NewClient())
	if err := t.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func formatSource(src config.Source) string {
	switch src.Kind {
	case config.SourceFile:
		if src.File == "" {
			return "file"
		}
		if src.Line > 0 {
			return fmt.Sprintf("file:%s:%d:%d", src.File, src.Line, src.Column)
		}
		return "file:" + src.File
	case config.SourceDefault:
		if src.Name != "" {
			return "default:" + src.Name
		}
		return "default"
	default:
		return string(src.Kind)
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func runDaemon() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := newLogger(cfg.LogLevel)

	pidPath, err := runtimepath.PIDPath()
	if err != nil {
		log.Fatalf("Failed to resolve pid file: %v", err)
	}
	if err := daemon.WritePIDFile(pidPath); err != nil {
		log.Fatalf("Failed to start daemon: %v", err)
	}
	defer daemon.RemovePIDFile(pidPath)

	backend, err := platform.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to open viewport backend: %v", err)
	}
	defer backend.Close()

	viewport, err := backend.Viewport()
	if err != nil {
		log.Printf("Warning: %s viewport unavailable, using configured size: %v", backend.Name(), err)
		viewport = cfg.ViewportSize()
	}
	log.Printf("Configuration loaded (viewport: %.0fx%.0f via %s)", viewport.Width, viewport.Height, backend.Name())

	a, err := app.New(app.Options{
		Config:   cfg,
		Viewport: viewport,
		Logger:   logger,
	})
	if err != nil {
		log.Fatalf("Failed to start desktop: %v", err)
	}
	defer a.Close()
	log.Printf("Desktop ready with %d dock entries (data: %s)", a.Desktop.Registry().Len(), a.Store.Dir())

	// Create config reload channel
	reloadChan := make(chan struct{}, 1)

	ipcServer, err := ipc.NewServer(a, reloadChan)
	if err != nil {
		log.Fatalf("Failed to create IPC server: %v", err)
	}
	if err := ipcServer.Start(); err != nil {
		log.Fatalf("Failed to start IPC server: %v", err)
	}
	defer ipcServer.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reconciler := daemon.NewReconciler(daemon.ReconcilerConfig{
		Interval: cfg.PollInterval(),
		Logger:   logger,
	}, backend.Viewport, a.Desktop)
	reconciler.ReconcileNow()
	go reconciler.Run(ctx)

	watcher, err := a.Store.NewWatcher(storage.DefaultDebounce, logger)
	if err != nil {
		log.Printf("Warning: storage watch disabled: %v", err)
	} else {
		go daemon.NewStateSynchronizer(a, logger).Run(ctx, watcher)
	}

	applyConfig := func(newCfg *config.Config) {
		reconciler.SetInterval(newCfg.PollInterval())
		if newCfg.Viewport.Source != cfg.Viewport.Source || newCfg.Display != cfg.Display {
			log.Printf("Viewport source changes take effect after a daemon restart")
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	log.Println("tabdock daemon started successfully")
	for {
		select {
		case sig := <-sigCh:
			switch sig {
			case syscall.SIGHUP:
				log.Println("Received SIGHUP, reloading config...")
				newCfg, err := config.Load()
				if err != nil {
					log.Printf("Config reload failed: %v", err)
					continue
				}
				ipcServer.UpdateConfig(newCfg)
				applyConfig(newCfg)
				log.Println("Config reloaded successfully")

			case os.Interrupt, syscall.SIGTERM:
				log.Println("Shutting down tabdock daemon...")
				return
			}

		case <-reloadChan:
			// Config was reloaded via IPC.
			applyConfig(ipcServer.GetConfig())
		}
	}
}
