package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync"
	"time"

	"github.com/screenmachine/winctl/internal/backend"
	"github.com/screenmachine/winctl/internal/display"
	"github.com/screenmachine/winctl/internal/layout"
	"github.com/screenmachine/winctl/internal/proc"
	"github.com/screenmachine/winctl/internal/profile"
	"github.com/screenmachine/winctl/internal/runtimepath"
	"github.com/screenmachine/winctl/internal/winman"
)

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	windows      *winman.Manager
	displays     *display.Manager
	procs        *proc.Supervisor
	profileDir   string
	startTime    time.Time
	shutdownChan chan struct{}
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server
func NewServer(windows *winman.Manager, displays *display.Manager, procs *proc.Supervisor, profileDir string, shutdownChan chan struct{}) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath:   socketPath,
		windows:      windows,
		displays:     displays,
		procs:        procs,
		profileDir:   profileDir,
		startTime:    time.Now(),
		shutdownChan: shutdownChan,
	}, nil
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	// Set socket permissions
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	log.Printf("IPC server listening on %s", s.socketPath)

	go s.acceptLoop()

	return nil
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			log.Printf("IPC accept error: %v", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		log.Printf("IPC read error: %v", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	resp := s.handleCommand(req)

	respData, err := resp.Marshal()
	if err != nil {
		log.Printf("Failed to marshal response: %v", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		log.Printf("Failed to send response: %v", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandCreateBrowser:
		return s.handleCreateBrowser(req.Payload)
	case CommandCreateApp:
		return s.handleCreateApp(req.Payload)
	case CommandListWindows:
		return s.handleListWindows()
	case CommandGetWindow:
		return s.handleGetWindow(req.Payload)
	case CommandCloseWindow:
		return s.handleCloseWindow(req.Payload)
	case CommandSetPosition:
		return s.handleSetPosition(req.Payload)
	case CommandSetSize:
		return s.handleSetSize(req.Payload)
	case CommandSetState:
		return s.handleSetState(req.Payload)
	case CommandArrange:
		return s.handleArrange(req.Payload)
	case CommandGetDisplays:
		return s.handleGetDisplays()
	case CommandSetResolution:
		return s.handleSetResolution(req.Payload)
	case CommandEnableDisplay:
		return s.handleSetDisplayActive(req.Payload, true)
	case CommandDisableDisplay:
		return s.handleSetDisplayActive(req.Payload, false)
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandListProcesses:
		return s.handleListProcesses()
	case CommandProfileSave:
		return s.handleProfileSave(req.Payload)
	case CommandProfileLoad:
		return s.handleProfileLoad(req.Payload)
	case CommandShutdown:
		return s.handleShutdown()
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleCreateBrowser(payload json.RawMessage) *Response {
	var p CreateBrowserPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid create payload: %v", err))
	}
	if p.URL == "" {
		return NewErrorResponse("url is required")
	}

	win, err := s.windows.CreateBrowserWindow(p.URL, optionalPosition(p.X, p.Y), optionalSize(p.Width, p.Height), p.Browser)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to create browser window: %v", err))
	}

	resp, _ := NewOKResponse(windowInfo(win))
	return resp
}

func (s *Server) handleCreateApp(payload json.RawMessage) *Response {
	var p CreateAppPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid create payload: %v", err))
	}
	if p.Command == "" {
		return NewErrorResponse("command is required")
	}

	win, err := s.windows.CreateApplicationWindow(p.Command, optionalPosition(p.X, p.Y), optionalSize(p.Width, p.Height), p.Args)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to create application window: %v", err))
	}

	resp, _ := NewOKResponse(windowInfo(win))
	return resp
}

func (s *Server) handleListWindows() *Response {
	wins := s.windows.List()
	infos := make([]WindowInfo, len(wins))
	for i, w := range wins {
		infos[i] = windowInfo(w)
	}

	resp, _ := NewOKResponse(WindowsData{Windows: infos})
	return resp
}

func (s *Server) handleGetWindow(payload json.RawMessage) *Response {
	var p WindowIDPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid window payload: %v", err))
	}

	win, err := s.windows.Info(p.ID)
	if err != nil {
		return NewErrorResponse(err.Error())
	}

	resp, _ := NewOKResponse(windowInfo(win))
	return resp
}

func (s *Server) handleCloseWindow(payload json.RawMessage) *Response {
	var p WindowIDPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid window payload: %v", err))
	}

	if err := s.windows.CloseWindow(p.ID); err != nil {
		return NewErrorResponse(err.Error())
	}

	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleSetPosition(payload json.RawMessage) *Response {
	var p SetPositionPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid position payload: %v", err))
	}

	if err := s.windows.SetPosition(p.ID, layout.Position{X: p.X, Y: p.Y}); err != nil {
		return NewErrorResponse(err.Error())
	}

	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleSetSize(payload json.RawMessage) *Response {
	var p SetSizePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid size payload: %v", err))
	}

	if err := s.windows.SetSize(p.ID, layout.Size{Width: p.Width, Height: p.Height}); err != nil {
		return NewErrorResponse(err.Error())
	}

	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleSetState(payload json.RawMessage) *Response {
	var p SetStatePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid state payload: %v", err))
	}

	state, ok := backend.ParseState(p.State)
	if !ok {
		return NewErrorResponse(fmt.Sprintf("Unknown window state: %s", p.State))
	}

	if err := s.windows.SetState(p.ID, state); err != nil {
		return NewErrorResponse(err.Error())
	}

	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleArrange(payload json.RawMessage) *Response {
	var p ArrangePayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &p); err != nil {
			return NewErrorResponse(fmt.Sprintf("Invalid arrange payload: %v", err))
		}
	}
	if p.Algorithm == "" {
		p.Algorithm = "grid"
	}

	if err := s.windows.ArrangeWindows(p.Algorithm); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to arrange windows: %v", err))
	}

	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleGetDisplays() *Response {
	s.displays.Refresh()
	info := s.displays.Info()

	displayInfos := make([]DisplayInfo, len(info.Displays))
	for i, d := range info.Displays {
		displayInfos[i] = DisplayInfo{
			Name:        d.Name,
			Width:       d.Width,
			Height:      d.Height,
			RefreshRate: d.RefreshRate,
			IsPrimary:   d.IsPrimary,
			IsActive:    d.IsActive,
			Port:        d.Port,
		}
	}

	resp, _ := NewOKResponse(DisplaysData{
		Displays:    displayInfos,
		Primary:     info.Primary,
		TotalWidth:  info.TotalWidth,
		TotalHeight: info.TotalHeight,
	})
	return resp
}

func (s *Server) handleSetResolution(payload json.RawMessage) *Response {
	var p SetResolutionPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid resolution payload: %v", err))
	}

	if err := s.displays.SetResolution(p.Display, p.Width, p.Height); err != nil {
		return NewErrorResponse(err.Error())
	}

	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleSetDisplayActive(payload json.RawMessage, active bool) *Response {
	var p DisplayNamePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid display payload: %v", err))
	}

	var err error
	if active {
		err = s.displays.Enable(p.Display)
	} else {
		err = s.displays.Disable(p.Display)
	}
	if err != nil {
		return NewErrorResponse(err.Error())
	}

	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleGetStatus() *Response {
	s.procs.RefreshStatus()

	status := StatusData{
		WindowCount:   s.windows.Count(),
		ProcessCount:  s.procs.Count(),
		DisplayCount:  len(s.displays.Info().Displays),
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		DaemonRunning: true,
	}

	resp, _ := NewOKResponse(status)
	return resp
}

func (s *Server) handleListProcesses() *Response {
	s.procs.RefreshStatus()

	procs := s.procs.List()
	infos := make([]ProcessInfo, len(procs))
	for i, p := range procs {
		infos[i] = ProcessInfo{
			PID:       p.PID,
			Name:      p.Name,
			Kind:      string(p.Kind),
			Command:   p.Command,
			Status:    string(p.Status),
			StartedAt: p.CreatedAt,
		}
	}

	resp, _ := NewOKResponse(ProcessesData{Processes: infos})
	return resp
}

func (s *Server) handleProfileSave(payload json.RawMessage) *Response {
	var p ProfilePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid profile payload: %v", err))
	}
	if p.Name == "" {
		return NewErrorResponse("profile name is required")
	}

	wins := s.windows.List()
	entries := make([]profile.Entry, len(wins))
	for i, w := range wins {
		entries[i] = profile.Entry{
			Title:       w.Title,
			Application: w.Application,
			X:           w.Position.X,
			Y:           w.Position.Y,
			Width:       w.Size.Width,
			Height:      w.Size.Height,
			State:       string(w.State),
			Display:     w.Display,
			Metadata:    w.Metadata,
		}
	}

	if err := profile.Save(s.profileDir, profile.Profile{Name: p.Name, Windows: entries}); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to save profile: %v", err))
	}

	log.Printf("IPC: saved profile %q (%d windows)", p.Name, len(entries))
	resp, _ := NewOKResponse(nil)
	return resp
}

// handleProfileLoad recreates windows from a saved profile. Entries without
// enough launch metadata are skipped rather than failing the whole load.
func (s *Server) handleProfileLoad(payload json.RawMessage) *Response {
	var p ProfilePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid profile payload: %v", err))
	}
	if p.Name == "" {
		return NewErrorResponse("profile name is required")
	}

	prof, err := profile.Load(s.profileDir, p.Name)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to load profile: %v", err))
	}

	var created []WindowInfo
	skipped := 0
	for _, entry := range prof.Windows {
		pos := &layout.Position{X: entry.X, Y: entry.Y}
		size := &layout.Size{Width: entry.Width, Height: entry.Height}

		var win winman.Window
		var createErr error
		if url, ok := entry.Metadata[winman.MetaURL].(string); ok && url != "" {
			browserKind, _ := entry.Metadata[winman.MetaBrowser].(string)
			win, createErr = s.windows.CreateBrowserWindow(url, pos, size, browserKind)
		} else if cmd, ok := entry.Metadata[winman.MetaCommand].(string); ok && cmd != "" {
			win, createErr = s.windows.CreateApplicationWindow(cmd, pos, size, stringSlice(entry.Metadata[winman.MetaArgs]))
		} else {
			skipped++
			continue
		}
		if createErr != nil {
			log.Printf("IPC: profile %q: failed to recreate %q: %v", p.Name, entry.Title, createErr)
			skipped++
			continue
		}

		if state, ok := backend.ParseState(entry.State); ok && state != backend.StateNormal {
			_ = s.windows.SetState(win.ID, state)
		}
		created = append(created, windowInfo(win))
	}

	log.Printf("IPC: loaded profile %q (%d created, %d skipped)", p.Name, len(created), skipped)
	resp, _ := NewOKResponse(ProfileLoadData{Windows: created, Skipped: skipped})
	return resp
}

func (s *Server) handleShutdown() *Response {
	log.Println("IPC: Received SHUTDOWN command")

	select {
	case s.shutdownChan <- struct{}{}:
	default:
	}

	resp, _ := NewOKResponse(nil)
	return resp
}

// sendError sends an error response
func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}

func windowInfo(w winman.Window) WindowInfo {
	return WindowInfo{
		ID:          w.ID,
		Title:       w.Title,
		Application: w.Application,
		X:           w.Position.X,
		Y:           w.Position.Y,
		Width:       w.Size.Width,
		Height:      w.Size.Height,
		State:       string(w.State),
		Display:     w.Display,
		PID:         w.PID(),
		CreatedAt:   w.CreatedAt,
		LastUpdated: w.LastUpdated,
		Metadata:    w.Metadata,
	}
}

func optionalPosition(x, y *int) *layout.Position {
	if x == nil || y == nil {
		return nil
	}
	return &layout.Position{X: *x, Y: *y}
}

func optionalSize(w, h *int) *layout.Size {
	if w == nil || h == nil {
		return nil
	}
	return &layout.Size{Width: *w, Height: *h}
}

func stringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
