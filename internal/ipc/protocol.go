package ipc

import (
	"encoding/json"
	"fmt"
	"time"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandCreateBrowser  CommandType = "CREATE_BROWSER"
	CommandCreateApp      CommandType = "CREATE_APP"
	CommandListWindows    CommandType = "LIST_WINDOWS"
	CommandGetWindow      CommandType = "GET_WINDOW"
	CommandCloseWindow    CommandType = "CLOSE_WINDOW"
	CommandSetPosition    CommandType = "SET_POSITION"
	CommandSetSize        CommandType = "SET_SIZE"
	CommandSetState       CommandType = "SET_STATE"
	CommandArrange        CommandType = "ARRANGE"
	CommandGetDisplays    CommandType = "GET_DISPLAYS"
	CommandSetResolution  CommandType = "SET_RESOLUTION"
	CommandEnableDisplay  CommandType = "ENABLE_DISPLAY"
	CommandDisableDisplay CommandType = "DISABLE_DISPLAY"
	CommandGetStatus      CommandType = "GET_STATUS"
	CommandListProcesses  CommandType = "LIST_PROCESSES"
	CommandProfileSave    CommandType = "PROFILE_SAVE"
	CommandProfileLoad    CommandType = "PROFILE_LOAD"
	CommandShutdown       CommandType = "SHUTDOWN"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// WindowInfo is the wire form of a managed window.
type WindowInfo struct {
	ID          int            `json:"id"`
	Title       string         `json:"title"`
	Application string         `json:"application"`
	X           int            `json:"x"`
	Y           int            `json:"y"`
	Width       int            `json:"width"`
	Height      int            `json:"height"`
	State       string         `json:"state"`
	Display     string         `json:"display,omitempty"`
	PID         int            `json:"pid,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	LastUpdated time.Time      `json:"last_updated"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// WindowsData is returned by LIST_WINDOWS.
type WindowsData struct {
	Windows []WindowInfo `json:"windows"`
}

// DisplayInfo is the wire form of one display.
type DisplayInfo struct {
	Name        string  `json:"name"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	RefreshRate float64 `json:"refresh_rate"`
	IsPrimary   bool    `json:"is_primary"`
	IsActive    bool    `json:"is_active"`
	Port        string  `json:"port,omitempty"`
}

// DisplaysData is returned by GET_DISPLAYS.
type DisplaysData struct {
	Displays    []DisplayInfo `json:"displays"`
	Primary     string        `json:"primary"`
	TotalWidth  int           `json:"total_width"`
	TotalHeight int           `json:"total_height"`
}

// ProcessInfo is the wire form of one supervised process.
type ProcessInfo struct {
	PID       int       `json:"pid"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	Command   string    `json:"command"`
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}

// ProcessesData is returned by LIST_PROCESSES.
type ProcessesData struct {
	Processes []ProcessInfo `json:"processes"`
}

// StatusData is returned by GET_STATUS.
type StatusData struct {
	WindowCount   int   `json:"window_count"`
	ProcessCount  int   `json:"process_count"`
	DisplayCount  int   `json:"display_count"`
	UptimeSeconds int64 `json:"uptime_seconds"`
	DaemonRunning bool  `json:"daemon_running"`
}

// CreateBrowserPayload is the payload for CREATE_BROWSER.
type CreateBrowserPayload struct {
	URL     string `json:"url"`
	Browser string `json:"browser,omitempty"`
	X       *int   `json:"x,omitempty"`
	Y       *int   `json:"y,omitempty"`
	Width   *int   `json:"width,omitempty"`
	Height  *int   `json:"height,omitempty"`
}

// CreateAppPayload is the payload for CREATE_APP.
type CreateAppPayload struct {
	Command string   `json:"command"`
	Args    []string `json:"args,omitempty"`
	X       *int     `json:"x,omitempty"`
	Y       *int     `json:"y,omitempty"`
	Width   *int     `json:"width,omitempty"`
	Height  *int     `json:"height,omitempty"`
}

// WindowIDPayload addresses a single window.
type WindowIDPayload struct {
	ID int `json:"id"`
}

// SetPositionPayload is the payload for SET_POSITION.
type SetPositionPayload struct {
	ID int `json:"id"`
	X  int `json:"x"`
	Y  int `json:"y"`
}

// SetSizePayload is the payload for SET_SIZE.
type SetSizePayload struct {
	ID     int `json:"id"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// SetStatePayload is the payload for SET_STATE.
type SetStatePayload struct {
	ID    int    `json:"id"`
	State string `json:"state"`
}

// ArrangePayload is the payload for ARRANGE.
type ArrangePayload struct {
	Algorithm string `json:"algorithm"`
}

// SetResolutionPayload is the payload for SET_RESOLUTION.
type SetResolutionPayload struct {
	Display string `json:"display"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

// DisplayNamePayload addresses a single display.
type DisplayNamePayload struct {
	Display string `json:"display"`
}

// ProfilePayload names a saved profile.
type ProfilePayload struct {
	Name string `json:"name"`
}

// ProfileLoadData is returned by PROFILE_LOAD.
type ProfileLoadData struct {
	Windows []WindowInfo `json:"windows"`
	Skipped int          `json:"skipped"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
