// Package analyze provides the single-channel analysis tab.
package analyze

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/guychenya/chanlyze/internal/app"
	"github.com/guychenya/chanlyze/internal/ui/components"
)

// keyMap defines the key bindings specific to the analyze tab.
type keyMap struct {
	Submit key.Binding
	Edit   key.Binding
	Blur   key.Binding
	Retry  key.Binding
	Up     key.Binding
	Down   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "analyze"),
		),
		Edit: key.NewBinding(
			key.WithKeys("/", "i"),
			key.WithHelp("/", "edit URL"),
		),
		Blur: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "leave input"),
		),
		Retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "retry"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
	}
}

// Model represents the analyze tab state.
type Model struct {
	state    *app.State
	err      error
	input    textinput.Model
	spinner  components.LoadingSpinner
	viewport viewport.Model
	keys     keyMap
	lastURL  string
	width    int
	height   int
}

// New creates a new analyze tab with the URL input focused.
func New(state *app.State) *Model {
	ti := textinput.New()
	ti.Placeholder = "https://www.youtube.com/@handle"
	ti.Prompt = "URL › "
	ti.CharLimit = 256
	ti.Focus()

	return &Model{
		state:    state,
		input:    ti,
		spinner:  components.NewSpinner(),
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
	}
}

// Init initializes the tab.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Capturing reports whether the URL input has focus.
func (m *Model) Capturing() bool {
	return m.input.Focused()
}

// Update handles messages for the analyze tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKeyMsg(msg)

	case app.AnalyzeRequestMsg:
		if m.state.IsLoading(app.ResourceAnalyze) {
			return m, m.spinner.Start("Resolving " + msg.URL)
		}

	case app.AnalysisResultMsg:
		m.spinner.Stop()
		m.err = msg.Error
		m.viewport.GotoTop()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	if m.input.Focused() {
		switch {
		case key.Matches(msg, m.keys.Submit):
			return m.submit(m.input.Value())
		case key.Matches(msg, m.keys.Blur):
			m.input.Blur()
			return nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return cmd
	}

	switch {
	case key.Matches(msg, m.keys.Edit), key.Matches(msg, m.keys.Submit):
		return m.input.Focus()
	case key.Matches(msg, m.keys.Retry):
		if m.err != nil && m.lastURL != "" {
			return m.submit(m.lastURL)
		}
		return nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return cmd
}

// submit sends the URL to the root model. Blank input is ignored.
func (m *Model) submit(raw string) tea.Cmd {
	url := strings.TrimSpace(raw)
	if url == "" || m.state.IsLoading(app.ResourceAnalyze) {
		return nil
	}
	m.lastURL = url
	m.err = nil
	m.input.Blur()
	return func() tea.Msg { return app.AnalyzeRequestMsg{URL: url} }
}

// SetSize sets the available size for the tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = max(width-20, 20)
	m.viewport.Width = width
	m.viewport.Height = max(height-6, 3)
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Submit, m.keys.Edit, m.keys.Blur, m.keys.Retry, m.keys.Down}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Submit, m.keys.Edit, m.keys.Blur},
		{m.keys.Retry, m.keys.Up, m.keys.Down},
	}
}
