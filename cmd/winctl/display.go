package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/screenmachine/winctl/internal/ipc"
	"github.com/screenmachine/winctl/internal/profile"
)

func printDisplayUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  winctl display list [--json]")
	fmt.Fprintln(w, "  winctl display resolution <name> <WxH>")
	fmt.Fprintln(w, "  winctl display enable <name>")
	fmt.Fprintln(w, "  winctl display disable <name>")
}

func runDisplay(args []string) int {
	if len(args) == 0 {
		printDisplayUsage(os.Stderr)
		return 2
	}
	if args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printDisplayUsage(os.Stdout)
		return 0
	}

	client := ipc.NewClient()

	switch args[0] {
	case "list":
		fs := flag.NewFlagSet("list", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		jsonOut := fs.Bool("json", false, "Output displays as JSON")
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}

		data, err := client.GetDisplays()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if *jsonOut {
			return printJSON(data)
		}

		styled := term.IsTerminal(int(os.Stdout.Fd()))
		header := fmt.Sprintf("%-12s %-12s %-8s %-8s %-8s %s", "NAME", "RESOLUTION", "REFRESH", "PRIMARY", "ACTIVE", "PORT")
		if styled {
			header = headerStyle.Render(header)
		}
		fmt.Println(header)
		for _, d := range data.Displays {
			fmt.Printf("%-12s %-12s %-8.1f %-8v %-8v %s\n",
				d.Name, fmt.Sprintf("%dx%d", d.Width, d.Height), d.RefreshRate, d.IsPrimary, d.IsActive, d.Port)
		}
		return 0

	case "resolution":
		if len(args) != 3 {
			fmt.Fprintln(os.Stderr, "display resolution requires <name> <WxH>")
			return 2
		}
		w, h, err := parseSize(args[2])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		if err := client.SetResolution(args[1], w, h); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0

	case "enable":
		if len(args) != 2 {
			fmt.Fprintln(os.Stderr, "display enable requires <name>")
			return 2
		}
		if err := client.EnableDisplay(args[1]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0

	case "disable":
		if len(args) != 2 {
			fmt.Fprintln(os.Stderr, "display disable requires <name>")
			return 2
		}
		if err := client.DisableDisplay(args[1]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown display command: %s\n\n", args[0])
		printDisplayUsage(os.Stderr)
		return 2
	}
}

func runProcess(args []string) int {
	if len(args) == 0 || args[0] != "list" {
		if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
			fmt.Fprintln(os.Stdout, "Usage: winctl process list [--json]")
			return 0
		}
		fmt.Fprintln(os.Stderr, "Usage: winctl process list [--json]")
		return 2
	}

	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	jsonOut := fs.Bool("json", false, "Output processes as JSON")
	if err := fs.Parse(args[1:]); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	client := ipc.NewClient()
	data, err := client.ListProcesses()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *jsonOut {
		return printJSON(data)
	}

	if len(data.Processes) == 0 {
		fmt.Println("No supervised processes.")
		return 0
	}

	styled := term.IsTerminal(int(os.Stdout.Fd()))
	header := fmt.Sprintf("%-8s %-16s %-12s %-10s %s", "PID", "NAME", "KIND", "STATUS", "COMMAND")
	if styled {
		header = headerStyle.Render(header)
	}
	fmt.Println(header)
	for _, p := range data.Processes {
		fmt.Printf("%-8d %-16s %-12s %-10s %s\n", p.PID, p.Name, p.Kind, p.Status, p.Command)
	}
	return 0
}

func printProfileUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  winctl profile save <name>")
	fmt.Fprintln(w, "  winctl profile load <name>")
	fmt.Fprintln(w, "  winctl profile list")
}

func runProfile(args []string) int {
	if len(args) == 0 {
		printProfileUsage(os.Stderr)
		return 2
	}
	if args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printProfileUsage(os.Stdout)
		return 0
	}

	client := ipc.NewClient()

	switch args[0] {
	case "save":
		if len(args) != 2 {
			fmt.Fprintln(os.Stderr, "profile save requires <name>")
			return 2
		}
		if err := client.SaveProfile(args[1]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("Saved profile %q\n", args[1])
		return 0

	case "load":
		if len(args) != 2 {
			fmt.Fprintln(os.Stderr, "profile load requires <name>")
			return 2
		}
		data, err := client.LoadProfile(args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("Loaded profile %q: %d windows created", args[1], len(data.Windows))
		if data.Skipped > 0 {
			fmt.Printf(", %d skipped", data.Skipped)
		}
		fmt.Println()
		return 0

	case "list":
		// Profiles live on disk, not in the daemon; list them directly.
		dir, err := profile.DefaultDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		names, err := profile.List(dir)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if len(names) == 0 {
			fmt.Println("No saved profiles.")
			return 0
		}
		for _, name := range names {
			fmt.Printf("- %s\n", name)
		}
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown profile command: %s\n\n", args[0])
		printProfileUsage(os.Stderr)
		return 2
	}
}

func runShutdown(args []string) int {
	fs := flag.NewFlagSet("shutdown", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: winctl shutdown [--yes]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Stop the daemon, closing every managed window.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	yes := fs.Bool("yes", false, "Skip the confirmation prompt")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "shutdown takes no arguments")
		fs.Usage()
		return 2
	}

	if !*yes && term.IsTerminal(int(os.Stdin.Fd())) {
		confirmed := false
		err := huh.NewConfirm().
			Title("Stop the winctl daemon?").
			Description("All managed windows and their processes will be closed.").
			Value(&confirmed).
			Run()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if !confirmed {
			fmt.Println("Aborted.")
			return 0
		}
	}

	client := ipc.NewClient()
	if err := client.Shutdown(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println("Daemon shutting down.")
	return 0
}
