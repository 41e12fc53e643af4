package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/screenmachine/winctl/internal/runtimepath"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}

	return &Client{
		socketPath: socketPath,
		timeout:    15 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

func (c *Client) send(cmd CommandType, payload any) (*Response, error) {
	req := &Request{Command: cmd}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal payload: %w", err)
		}
		req.Payload = data
	}
	return c.sendRequest(req)
}

// CreateBrowserWindow asks the daemon to launch a browser window.
func (c *Client) CreateBrowserWindow(p CreateBrowserPayload) (*WindowInfo, error) {
	resp, err := c.send(CommandCreateBrowser, p)
	if err != nil {
		return nil, err
	}

	var win WindowInfo
	if err := json.Unmarshal(resp.Data, &win); err != nil {
		return nil, fmt.Errorf("failed to parse window data: %w", err)
	}
	return &win, nil
}

// CreateApplicationWindow asks the daemon to launch an application window.
func (c *Client) CreateApplicationWindow(p CreateAppPayload) (*WindowInfo, error) {
	resp, err := c.send(CommandCreateApp, p)
	if err != nil {
		return nil, err
	}

	var win WindowInfo
	if err := json.Unmarshal(resp.Data, &win); err != nil {
		return nil, fmt.Errorf("failed to parse window data: %w", err)
	}
	return &win, nil
}

// ListWindows retrieves all managed windows.
func (c *Client) ListWindows() (*WindowsData, error) {
	resp, err := c.send(CommandListWindows, nil)
	if err != nil {
		return nil, err
	}

	var data WindowsData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse windows data: %w", err)
	}
	return &data, nil
}

// GetWindow retrieves one window by id.
func (c *Client) GetWindow(id int) (*WindowInfo, error) {
	resp, err := c.send(CommandGetWindow, WindowIDPayload{ID: id})
	if err != nil {
		return nil, err
	}

	var win WindowInfo
	if err := json.Unmarshal(resp.Data, &win); err != nil {
		return nil, fmt.Errorf("failed to parse window data: %w", err)
	}
	return &win, nil
}

// CloseWindow closes a window and its process.
func (c *Client) CloseWindow(id int) error {
	_, err := c.send(CommandCloseWindow, WindowIDPayload{ID: id})
	return err
}

// SetPosition moves a window.
func (c *Client) SetPosition(id, x, y int) error {
	_, err := c.send(CommandSetPosition, SetPositionPayload{ID: id, X: x, Y: y})
	return err
}

// SetSize resizes a window.
func (c *Client) SetSize(id, width, height int) error {
	_, err := c.send(CommandSetSize, SetSizePayload{ID: id, Width: width, Height: height})
	return err
}

// SetState changes a window's state (normal, minimized, maximized,
// fullscreen, hidden).
func (c *Client) SetState(id int, state string) error {
	_, err := c.send(CommandSetState, SetStatePayload{ID: id, State: state})
	return err
}

// Arrange applies a layout algorithm to all windows.
func (c *Client) Arrange(algorithm string) error {
	_, err := c.send(CommandArrange, ArrangePayload{Algorithm: algorithm})
	return err
}

// GetDisplays retrieves display information.
func (c *Client) GetDisplays() (*DisplaysData, error) {
	resp, err := c.send(CommandGetDisplays, nil)
	if err != nil {
		return nil, err
	}

	var data DisplaysData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse displays data: %w", err)
	}
	return &data, nil
}

// SetResolution changes a display's resolution.
func (c *Client) SetResolution(display string, width, height int) error {
	_, err := c.send(CommandSetResolution, SetResolutionPayload{Display: display, Width: width, Height: height})
	return err
}

// EnableDisplay activates a display.
func (c *Client) EnableDisplay(display string) error {
	_, err := c.send(CommandEnableDisplay, DisplayNamePayload{Display: display})
	return err
}

// DisableDisplay deactivates a display.
func (c *Client) DisableDisplay(display string) error {
	_, err := c.send(CommandDisableDisplay, DisplayNamePayload{Display: display})
	return err
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	resp, err := c.send(CommandGetStatus, nil)
	if err != nil {
		return nil, err
	}

	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status data: %w", err)
	}
	return &status, nil
}

// ListProcesses retrieves supervised processes.
func (c *Client) ListProcesses() (*ProcessesData, error) {
	resp, err := c.send(CommandListProcesses, nil)
	if err != nil {
		return nil, err
	}

	var data ProcessesData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse processes data: %w", err)
	}
	return &data, nil
}

// SaveProfile saves the current window layout under name.
func (c *Client) SaveProfile(name string) error {
	_, err := c.send(CommandProfileSave, ProfilePayload{Name: name})
	return err
}

// LoadProfile recreates windows from a saved profile.
func (c *Client) LoadProfile(name string) (*ProfileLoadData, error) {
	resp, err := c.send(CommandProfileLoad, ProfilePayload{Name: name})
	if err != nil {
		return nil, err
	}

	var data ProfileLoadData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse profile data: %w", err)
	}
	return &data, nil
}

// Shutdown asks the daemon to exit.
func (c *Client) Shutdown() error {
	_, err := c.send(CommandShutdown, nil)
	return err
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
