package mcp

// CreateBrowserInput is the input for the create_browser_window tool.
type CreateBrowserInput struct {
	URL     string `json:"url" jsonschema:"required,URL to open in the browser window"`
	Browser string `json:"browser,omitempty" jsonschema:"Configured browser to use (default: the configured default browser)"`
	X       *int   `json:"x,omitempty" jsonschema:"Initial X position in pixels"`
	Y       *int   `json:"y,omitempty" jsonschema:"Initial Y position in pixels"`
	Width   *int   `json:"width,omitempty" jsonschema:"Initial width in pixels"`
	Height  *int   `json:"height,omitempty" jsonschema:"Initial height in pixels"`
}

// CreateAppInput is the input for the create_application_window tool.
type CreateAppInput struct {
	Command string   `json:"command" jsonschema:"required,Executable to launch"`
	Args    []string `json:"args,omitempty" jsonschema:"Arguments passed to the executable"`
	X       *int     `json:"x,omitempty" jsonschema:"Initial X position in pixels"`
	Y       *int     `json:"y,omitempty" jsonschema:"Initial Y position in pixels"`
	Width   *int     `json:"width,omitempty" jsonschema:"Initial width in pixels"`
	Height  *int     `json:"height,omitempty" jsonschema:"Initial height in pixels"`
}

// WindowOutput describes a managed window.
type WindowOutput struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Application string `json:"application"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	State       string `json:"state"`
	Display     string `json:"display,omitempty"`
	PID         int    `json:"pid,omitempty"`
}

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct{}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Windows []WindowOutput `json:"windows"`
	Count   int            `json:"count"`
}

// CloseWindowInput is the input for the close_window tool.
type CloseWindowInput struct {
	ID int `json:"id" jsonschema:"required,Window id to close"`
}

// CloseWindowOutput is the output for the close_window tool.
type CloseWindowOutput struct {
	Closed bool `json:"closed"`
	ID     int  `json:"id"`
}

// SetWindowStateInput is the input for the set_window_state tool.
type SetWindowStateInput struct {
	ID    int    `json:"id" jsonschema:"required,Window id"`
	State string `json:"state" jsonschema:"required,Target state: normal minimized maximized fullscreen or hidden"`
}

// SetWindowStateOutput is the output for the set_window_state tool.
type SetWindowStateOutput struct {
	ID    int    `json:"id"`
	State string `json:"state"`
}

// ArrangeInput is the input for the arrange_windows tool.
type ArrangeInput struct {
	Algorithm string `json:"algorithm,omitempty" jsonschema:"Layout algorithm: grid tile cascade custom or optimize (default: grid)"`
}

// ArrangeOutput is the output for the arrange_windows tool.
type ArrangeOutput struct {
	Algorithm string `json:"algorithm"`
	Count     int    `json:"count"`
}

// DisplayOutput describes one display.
type DisplayOutput struct {
	Name        string  `json:"name"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	RefreshRate float64 `json:"refresh_rate"`
	IsPrimary   bool    `json:"is_primary"`
	IsActive    bool    `json:"is_active"`
}

// GetDisplaysInput is the input for the get_displays tool.
type GetDisplaysInput struct{}

// GetDisplaysOutput is the output for the get_displays tool.
type GetDisplaysOutput struct {
	Displays []DisplayOutput `json:"displays"`
	Primary  string          `json:"primary"`
}
