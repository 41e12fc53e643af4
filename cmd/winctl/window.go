package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/screenmachine/winctl/internal/ipc"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func printOpenUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  winctl open browser [--browser NAME] [--pos x,y] [--size WxH] <url>")
	fmt.Fprintln(w, "  winctl open app [--pos x,y] [--size WxH] <command> [args...]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'winctl open <command> --help' for command-specific options.")
}

func runOpen(args []string) int {
	if len(args) == 0 {
		printOpenUsage(os.Stderr)
		return 2
	}
	if args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printOpenUsage(os.Stdout)
		return 0
	}

	client := ipc.NewClient()

	switch args[0] {
	case "browser":
		fs := flag.NewFlagSet("browser", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		fs.Usage = func() {
			fmt.Fprintln(os.Stderr, "Usage: winctl open browser [--browser NAME] [--pos x,y] [--size WxH] <url>")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Launch a configured browser showing a URL and manage its window.")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Flags:")
			fs.PrintDefaults()
		}
		browser := fs.String("browser", "", "Configured browser to use (default: config default_browser)")
		pos := fs.String("pos", "", "Initial position as x,y")
		size := fs.String("size", "", "Initial size as WxH")
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}
		if fs.NArg() != 1 {
			fmt.Fprintln(os.Stderr, "open browser requires <url>")
			fs.Usage()
			return 2
		}

		payload := ipc.CreateBrowserPayload{URL: fs.Arg(0), Browser: *browser}
		if code := fillGeometry(*pos, *size, &payload.X, &payload.Y, &payload.Width, &payload.Height); code != 0 {
			return code
		}

		win, err := client.CreateBrowserWindow(payload)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("Created window %d: %s\n", win.ID, win.Title)
		return 0

	case "app":
		fs := flag.NewFlagSet("app", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		fs.Usage = func() {
			fmt.Fprintln(os.Stderr, "Usage: winctl open app [--pos x,y] [--size WxH] <command> [args...]")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Launch an application and manage its window.")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Flags:")
			fs.PrintDefaults()
		}
		pos := fs.String("pos", "", "Initial position as x,y")
		size := fs.String("size", "", "Initial size as WxH")
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}
		if fs.NArg() < 1 {
			fmt.Fprintln(os.Stderr, "open app requires <command>")
			fs.Usage()
			return 2
		}

		payload := ipc.CreateAppPayload{Command: fs.Arg(0), Args: fs.Args()[1:]}
		if code := fillGeometry(*pos, *size, &payload.X, &payload.Y, &payload.Width, &payload.Height); code != 0 {
			return code
		}

		win, err := client.CreateApplicationWindow(payload)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("Created window %d: %s\n", win.ID, win.Title)
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown open command: %s\n\n", args[0])
		printOpenUsage(os.Stderr)
		return 2
	}
}

func fillGeometry(pos, size string, x, y, w, h **int) int {
	if pos != "" {
		px, py, err := parsePosition(pos)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		*x, *y = &px, &py
	}
	if size != "" {
		sw, sh, err := parseSize(size)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		*w, *h = &sw, &sh
	}
	return 0
}

func printWindowUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  winctl window list [--json]")
	fmt.Fprintln(w, "  winctl window show <id>")
	fmt.Fprintln(w, "  winctl window close <id>")
	fmt.Fprintln(w, "  winctl window move <id> <x,y>")
	fmt.Fprintln(w, "  winctl window resize <id> <WxH>")
	fmt.Fprintln(w, "  winctl window state <id> <normal|minimized|maximized|fullscreen|hidden>")
}

func runWindow(args []string) int {
	if len(args) == 0 {
		printWindowUsage(os.Stderr)
		return 2
	}
	if args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printWindowUsage(os.Stdout)
		return 0
	}

	client := ipc.NewClient()

	switch args[0] {
	case "list":
		fs := flag.NewFlagSet("list", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		jsonOut := fs.Bool("json", false, "Output windows as JSON")
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}

		data, err := client.ListWindows()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if *jsonOut {
			return printJSON(data)
		}
		printWindowTable(data.Windows)
		return 0

	case "show":
		id, code := windowIDArg(args[1:], "window show")
		if code != 0 {
			return code
		}
		win, err := client.GetWindow(id)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return printJSON(win)

	case "close":
		id, code := windowIDArg(args[1:], "window close")
		if code != 0 {
			return code
		}
		if err := client.CloseWindow(id); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("Closed window %d\n", id)
		return 0

	case "move":
		if len(args) != 3 {
			fmt.Fprintln(os.Stderr, "window move requires <id> <x,y>")
			return 2
		}
		id, err := strconv.Atoi(args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid window id %q\n", args[1])
			return 2
		}
		x, y, err := parsePosition(args[2])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		if err := client.SetPosition(id, x, y); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0

	case "resize":
		if len(args) != 3 {
			fmt.Fprintln(os.Stderr, "window resize requires <id> <WxH>")
			return 2
		}
		id, err := strconv.Atoi(args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid window id %q\n", args[1])
			return 2
		}
		w, h, err := parseSize(args[2])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		if err := client.SetSize(id, w, h); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0

	case "state":
		if len(args) != 3 {
			fmt.Fprintln(os.Stderr, "window state requires <id> <state>")
			return 2
		}
		id, err := strconv.Atoi(args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid window id %q\n", args[1])
			return 2
		}
		if err := client.SetState(id, args[2]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown window command: %s\n\n", args[0])
		printWindowUsage(os.Stderr)
		return 2
	}
}

func windowIDArg(args []string, cmd string) (int, int) {
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "%s requires <id>\n", cmd)
		return 0, 2
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid window id %q\n", args[0])
		return 0, 2
	}
	return id, 0
}

func printWindowTable(windows []ipc.WindowInfo) {
	if len(windows) == 0 {
		fmt.Println("No managed windows.")
		return
	}

	styled := term.IsTerminal(int(os.Stdout.Fd()))
	header := fmt.Sprintf("%-4s %-30s %-16s %-12s %-10s %s", "ID", "TITLE", "GEOMETRY", "STATE", "DISPLAY", "PID")
	if styled {
		header = headerStyle.Render(header)
	}
	fmt.Println(header)

	for _, w := range windows {
		title := w.Title
		if len(title) > 30 {
			title = title[:27] + "..."
		}
		geometry := fmt.Sprintf("%dx%d@%d,%d", w.Width, w.Height, w.X, w.Y)
		line := fmt.Sprintf("%-4d %-30s %-16s %-12s %-10s %d", w.ID, title, geometry, w.State, w.Display, w.PID)
		if styled && w.State != "normal" {
			line = dimStyle.Render(line)
		}
		fmt.Println(line)
	}
}

func runArrange(args []string) int {
	fs := flag.NewFlagSet("arrange", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: winctl arrange [--algorithm NAME]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Arrange all managed windows. Algorithms: grid, tile, cascade, custom, optimize.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	algorithm := fs.String("algorithm", "grid", "Layout algorithm")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "arrange takes no arguments")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	if err := client.Arrange(*algorithm); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
