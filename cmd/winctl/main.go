package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/screenmachine/winctl/internal/config"
	"github.com/screenmachine/winctl/internal/display"
	"github.com/screenmachine/winctl/internal/ipc"
	"github.com/screenmachine/winctl/internal/proc"
	"github.com/screenmachine/winctl/internal/profile"
	"github.com/screenmachine/winctl/internal/tui"
	"github.com/screenmachine/winctl/internal/winman"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		if len(os.Args) > 2 && (os.Args[2] == "help" || os.Args[2] == "-h" || os.Args[2] == "--help") {
			fmt.Fprintln(os.Stdout, "Usage: winctl daemon")
			os.Exit(0)
		}
		if len(os.Args) > 2 {
			fmt.Fprintln(os.Stderr, "daemon takes no arguments")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Usage: winctl daemon")
			os.Exit(2)
		}
		runDaemon()
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "open":
		os.Exit(runOpen(os.Args[2:]))
	case "window":
		os.Exit(runWindow(os.Args[2:]))
	case "arrange":
		os.Exit(runArrange(os.Args[2:]))
	case "display":
		os.Exit(runDisplay(os.Args[2:]))
	case "process":
		os.Exit(runProcess(os.Args[2:]))
	case "profile":
		os.Exit(runProfile(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "shutdown":
		os.Exit(runShutdown(os.Args[2:]))
	case "console":
		os.Exit(runConsole(os.Args[2:]))
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
	fmt.Fprintln(w, "Usage: winctl <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the winctl daemon (foreground)")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "  shutdown            Stop the daemon")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  open browser        Open a browser window showing a URL")
	fmt.Fprintln(w, "  open app            Open an application window")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  window list         List managed windows")
	fmt.Fprintln(w, "  window show         Show one window")
	fmt.Fprintln(w, "  window close        Close a window")
	fmt.Fprintln(w, "  window move         Move a window")
	fmt.Fprintln(w, "  window resize       Resize a window")
	fmt.Fprintln(w, "  window state        Change a window's state")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  arrange             Arrange all windows with a layout algorithm")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  display list        List connected displays")
	fmt.Fprintln(w, "  display resolution  Change a display's resolution")
	fmt.Fprintln(w, "  display enable      Enable a display")
	fmt.Fprintln(w, "  display disable     Disable a display")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  process list        List supervised processes")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  profile save        Save the current window layout")
	fmt.Fprintln(w, "  profile load        Recreate windows from a saved layout")
	fmt.Fprintln(w, "  profile list        List saved layouts")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  console             Open the interactive window console")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'winctl <command> --help' for command-specific options.")
}

func runDaemon() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Printf("Configuration loaded (default browser: %s, margin: %dpx)", cfg.DefaultBrowser, cfg.Layout.Margin)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Display and window control degrade to logical-only operation when no
	// X server is reachable, so the daemon stays usable in headless runs.
	querier, be, cleanup := platformBackends(logger)
	defer cleanup()

	displays := display.NewManager(querier, logger)
	displays.Refresh()
	log.Printf("Display registry initialized (%d displays)", len(displays.Info().Displays))

	procs := proc.NewSupervisor(cfg, logger)
	windows := winman.NewManager(cfg, displays, procs, be, logger)
	log.Println("winctl daemon started successfully")

	profileDir, err := profile.DefaultDir()
	if err != nil {
		log.Fatalf("Failed to resolve profile directory: %v", err)
	}

	shutdownChan := make(chan struct{}, 1)

	ipcServer, err := ipc.NewServer(windows, displays, procs, profileDir, shutdownChan)
	if err != nil {
		log.Fatalf("Failed to create IPC server: %v", err)
	}
	if err := ipcServer.Start(); err != nil {
		log.Fatalf("Failed to start IPC server: %v", err)
	}
	defer ipcServer.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("Received %v, shutting down winctl daemon...", sig)
	case <-shutdownChan:
		log.Println("Shutting down winctl daemon...")
	}

	ipcServer.Stop()
	windows.Cleanup()
	procs.Cleanup()
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: winctl status [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show daemon status via IPC.")
	}
	jsonOut := fs.Bool("json", false, "Output status as JSON")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
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

	if *jsonOut {
		return printJSON(status)
	}
	fmt.Printf("daemon_running: %v\n", status.DaemonRunning)
	fmt.Printf("window_count:   %d\n", status.WindowCount)
	fmt.Printf("process_count:  %d\n", status.ProcessCount)
	fmt.Printf("display_count:  %d\n", status.DisplayCount)
	fmt.Printf("uptime_seconds: %d\n", status.UptimeSeconds)
	return 0
}

func runConsole(args []string) int {
	if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
		fmt.Fprintln(os.Stdout, "Usage: winctl console")
		fmt.Fprintln(os.Stdout, "")
		fmt.Fprintln(os.Stdout, "Open the interactive window console (live list, arrange, close).")
		return 0
	}
	if len(args) > 0 {
		fmt.Fprintln(os.Stderr, "console takes no arguments")
		return 2
	}

	if err := tui.Run(ipc.NewClient()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  winctl config validate [--path FILE]")
		fmt.Fprintln(os.Stderr, "  winctl config print [--path FILE]")
		if len(args) == 0 {
			return 2
		}
		return 0
	}

	switch args[0] {
	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/winctl/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}

		if _, err := loadConfigFrom(*path); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
			return 1
		}
		fmt.Println("Configuration is valid.")
		return 0

	case "print":
		fs := flag.NewFlagSet("print", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/winctl/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}

		cfg, err := loadConfigFrom(*path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return printJSON(cfg)

	default:
		fmt.Fprintf(os.Stderr, "Unknown config command: %s\n", args[0])
		return 2
	}
}

func loadConfigFrom(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFromPath(path)
}

func printJSON(v any) int {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println(string(data))
	return 0
}

// parsePosition parses "x,y" into coordinates.
func parsePosition(s string) (int, int, error) {
	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid position %q (expected x,y)", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid position %q: %w", s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid position %q: %w", s, err)
	}
	return x, y, nil
}

// parseSize parses "WxH" into dimensions.
func parseSize(s string) (int, int, error) {
	parts := strings.SplitN(strings.ToLower(s), "x", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid size %q (expected WxH)", s)
	}
	w, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("invalid size %q: dimensions must be positive", s)
	}
	return w, h, nil
}
