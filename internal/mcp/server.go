// Package mcp exposes window orchestration to MCP clients over stdio. The
// server is a thin shim: every tool forwards to the daemon through the IPC
// client, so the daemon stays the single owner of window state.
package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/screenmachine/winctl/internal/ipc"
)

const (
	ServerName    = "winctl"
	ServerVersion = "0.1.0"
)

// Server is the MCP server for window orchestration.
type Server struct {
	mcpServer *mcpsdk.Server
	client    *ipc.Client
}

// NewServer creates a new MCP server backed by the winctl daemon.
func NewServer(client *ipc.Client) (*Server, error) {
	if err := client.Ping(); err != nil {
		return nil, fmt.Errorf("daemon not reachable: %w", err)
	}

	s := &Server{client: client}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s, nil
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "create_browser_window",
		Description: "Launch a browser window showing a URL. Position and size default to the configured window defaults. Returns the new window's id and geometry.",
	}, s.handleCreateBrowser)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "create_application_window",
		Description: "Launch an arbitrary application and register a managed window for it. Returns the new window's id and geometry.",
	}, s.handleCreateApp)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List all managed windows with their geometry, state and owning process.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "close_window",
		Description: "Close a managed window by id, terminating its process.",
	}, s.handleCloseWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_window_state",
		Description: "Change a window's state: normal, minimized, maximized, fullscreen or hidden.",
	}, s.handleSetWindowState)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "arrange_windows",
		Description: "Arrange all managed windows using a layout algorithm (grid, tile, cascade, custom, optimize). Unknown algorithms fall back to grid.",
	}, s.handleArrange)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_displays",
		Description: "List connected displays with resolution, refresh rate and primary/active flags.",
	}, s.handleGetDisplays)
}

func (s *Server) handleCreateBrowser(_ context.Context, _ *mcpsdk.CallToolRequest, args CreateBrowserInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	if args.URL == "" {
		return nil, WindowOutput{}, fmt.Errorf("url is required")
	}

	win, err := s.client.CreateBrowserWindow(ipc.CreateBrowserPayload{
		URL:     args.URL,
		Browser: args.Browser,
		X:       args.X,
		Y:       args.Y,
		Width:   args.Width,
		Height:  args.Height,
	})
	if err != nil {
		return nil, WindowOutput{}, err
	}

	return nil, windowOutput(win), nil
}

func (s *Server) handleCreateApp(_ context.Context, _ *mcpsdk.CallToolRequest, args CreateAppInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	if args.Command == "" {
		return nil, WindowOutput{}, fmt.Errorf("command is required")
	}

	win, err := s.client.CreateApplicationWindow(ipc.CreateAppPayload{
		Command: args.Command,
		Args:    args.Args,
		X:       args.X,
		Y:       args.Y,
		Width:   args.Width,
		Height:  args.Height,
	})
	if err != nil {
		return nil, WindowOutput{}, err
	}

	return nil, windowOutput(win), nil
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	data, err := s.client.ListWindows()
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}

	out := ListWindowsOutput{Count: len(data.Windows)}
	for i := range data.Windows {
		out.Windows = append(out.Windows, windowOutput(&data.Windows[i]))
	}
	return nil, out, nil
}

func (s *Server) handleCloseWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args CloseWindowInput) (*mcpsdk.CallToolResult, CloseWindowOutput, error) {
	if err := s.client.CloseWindow(args.ID); err != nil {
		return nil, CloseWindowOutput{}, err
	}
	return nil, CloseWindowOutput{Closed: true, ID: args.ID}, nil
}

func (s *Server) handleSetWindowState(_ context.Context, _ *mcpsdk.CallToolRequest, args SetWindowStateInput) (*mcpsdk.CallToolResult, SetWindowStateOutput, error) {
	if args.State == "" {
		return nil, SetWindowStateOutput{}, fmt.Errorf("state is required")
	}
	if err := s.client.SetState(args.ID, args.State); err != nil {
		return nil, SetWindowStateOutput{}, err
	}
	return nil, SetWindowStateOutput{ID: args.ID, State: args.State}, nil
}

func (s *Server) handleArrange(_ context.Context, _ *mcpsdk.CallToolRequest, args ArrangeInput) (*mcpsdk.CallToolResult, ArrangeOutput, error) {
	algorithm := args.Algorithm
	if algorithm == "" {
		algorithm = "grid"
	}

	if err := s.client.Arrange(algorithm); err != nil {
		return nil, ArrangeOutput{}, err
	}

	data, err := s.client.ListWindows()
	if err != nil {
		return nil, ArrangeOutput{}, err
	}
	return nil, ArrangeOutput{Algorithm: algorithm, Count: len(data.Windows)}, nil
}

func (s *Server) handleGetDisplays(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetDisplaysInput) (*mcpsdk.CallToolResult, GetDisplaysOutput, error) {
	data, err := s.client.GetDisplays()
	if err != nil {
		return nil, GetDisplaysOutput{}, err
	}

	out := GetDisplaysOutput{Primary: data.Primary}
	for _, d := range data.Displays {
		out.Displays = append(out.Displays, DisplayOutput{
			Name:        d.Name,
			Width:       d.Width,
			Height:      d.Height,
			RefreshRate: d.RefreshRate,
			IsPrimary:   d.IsPrimary,
			IsActive:    d.IsActive,
		})
	}
	return nil, out, nil
}

func windowOutput(w *ipc.WindowInfo) WindowOutput {
	return WindowOutput{
		ID:          w.ID,
		Title:       w.Title,
		Application: w.Application,
		X:           w.X,
		Y:           w.Y,
		Width:       w.Width,
		Height:      w.Height,
		State:       w.State,
		Display:     w.Display,
		PID:         w.PID,
	}
}
