// Package tui is an interactive console for the winctl daemon: a live
// window list with arrange and close actions.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/screenmachine/winctl/internal/ipc"
)

var algorithms = []string{"grid", "tile", "cascade", "optimize"}

// windowItem is a list item representing one managed window.
type windowItem struct {
	win ipc.WindowInfo
}

func (i windowItem) Title() string {
	return fmt.Sprintf("[%d] %s", i.win.ID, i.win.Title)
}

func (i windowItem) Description() string {
	return fmt.Sprintf("%s | %dx%d at %d,%d | %s",
		i.win.Application, i.win.Width, i.win.Height, i.win.X, i.win.Y, i.win.State)
}

func (i windowItem) FilterValue() string { return i.win.Title }

type windowsMsg struct {
	windows []ipc.WindowInfo
	err     error
}

type actionMsg struct {
	note string
	err  error
}

type tickMsg struct{}

// model is the root bubbletea model for the console.
type model struct {
	client   *ipc.Client
	list     list.Model
	algIndex int
	status   string
	lastErr  string
	width    int
	height   int
}

func newModel(client *ipc.Client) model {
	delegate := list.NewDefaultDelegate()
	l := list.New(nil, delegate, 0, 0)
	l.Title = "Windows"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)

	return model{
		client: client,
		list:   l,
	}
}

func (m model) fetchWindows() tea.Cmd {
	return func() tea.Msg {
		data, err := m.client.ListWindows()
		if err != nil {
			return windowsMsg{err: err}
		}
		return windowsMsg{windows: data.Windows}
	}
}

func (m model) arrange(algorithm string) tea.Cmd {
	return func() tea.Msg {
		if err := m.client.Arrange(algorithm); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{note: fmt.Sprintf("arranged with %s", algorithm)}
	}
}

func (m model) closeWindow(id int) tea.Cmd {
	return func() tea.Msg {
		if err := m.client.CloseWindow(id); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{note: fmt.Sprintf("closed window %d", id)}
	}
}

func tick() tea.Cmd {
	return tea.Tick(2*time.Second, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return tea.Batch(m.fetchWindows(), tick())
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-4)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			return m, m.fetchWindows()
		case "a":
			alg := algorithms[m.algIndex]
			m.algIndex = (m.algIndex + 1) % len(algorithms)
			return m, m.arrange(alg)
		case "x":
			item, ok := m.list.SelectedItem().(windowItem)
			if !ok {
				return m, nil
			}
			return m, m.closeWindow(item.win.ID)
		}

	case windowsMsg:
		if msg.err != nil {
			m.lastErr = msg.err.Error()
			return m, nil
		}
		m.lastErr = ""
		items := make([]list.Item, len(msg.windows))
		for i, w := range msg.windows {
			items[i] = windowItem{win: w}
		}
		m.list.SetItems(items)
		m.status = fmt.Sprintf("%d windows", len(msg.windows))
		return m, nil

	case actionMsg:
		if msg.err != nil {
			m.lastErr = msg.err.Error()
			return m, nil
		}
		m.lastErr = ""
		m.status = msg.note
		return m, m.fetchWindows()

	case tickMsg:
		return m, tea.Batch(m.fetchWindows(), tick())
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// View implements tea.Model.
func (m model) View() string {
	status := statusStyle.Render(m.status)
	if m.lastErr != "" {
		status = errorStyle.Render("error: " + m.lastErr)
	}
	help := helpStyle.Render("r refresh | a arrange (cycles algorithm) | x close | q quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		m.list.View(),
		status,
		help,
	)
}

// Run starts the console, blocking until the user quits.
func Run(client *ipc.Client) error {
	if err := client.Ping(); err != nil {
		return fmt.Errorf("daemon not reachable: %w", err)
	}

	p := tea.NewProgram(newModel(client), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("console failed: %w", err)
	}
	return nil
}
