// Package quota provides the quota ledger and API call log tab.
package quota

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/guychenya/chanlyze/internal/app"
	"github.com/guychenya/chanlyze/internal/config"
	"github.com/guychenya/chanlyze/internal/ui/components"
)

type keyMap struct {
	Refresh    key.Binding
	Reset      key.Binding
	ClearCache key.Binding
	SetKey     key.Binding
	Confirm    key.Binding
	Cancel     key.Binding
	Up         key.Binding
	Down       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Reset:      key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reset ledger")),
		ClearCache: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear cache")),
		SetKey:     key.NewBinding(key.WithKeys("k"), key.WithHelp("k", "set API key")),
		Confirm:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save key")),
		Cancel:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Up:         key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "scroll up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll down")),
	}
}

// Model represents the quota tab state.
type Model struct {
	state    *app.State
	config   *config.Config
	keyInput textinput.Model
	viewport viewport.Model
	bar      components.QuotaBar
	keys     keyMap
	width    int
	height   int
}

// New creates a new quota tab. cfg may be nil.
func New(state *app.State, cfg *config.Config) *Model {
	ti := textinput.New()
	ti.Placeholder = "AIza..."
	ti.Prompt = "API key › "
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	ti.CharLimit = 128

	return &Model{
		state:    state,
		config:   cfg,
		keyInput: ti,
		viewport: viewport.New(0, 0),
		bar:      components.NewQuotaBar(),
		keys:     defaultKeyMap(),
	}
}

// Init initializes the tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Capturing reports whether the API key input has focus.
func (m *Model) Capturing() bool {
	return m.keyInput.Focused()
}

// Update handles messages for the quota tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.keyInput, cmd = m.keyInput.Update(msg)
		return m, cmd
	}

	if m.keyInput.Focused() {
		return m, m.handleKeyInput(keyMsg)
	}

	switch {
	case key.Matches(keyMsg, m.keys.Refresh):
		return m, send(app.RefreshMsg{Resource: app.ResourceQuota})
	case key.Matches(keyMsg, m.keys.Reset):
		return m, send(app.ResetQuotaMsg{})
	case key.Matches(keyMsg, m.keys.ClearCache):
		return m, send(app.ClearCacheMsg{})
	case key.Matches(keyMsg, m.keys.SetKey):
		m.keyInput.SetValue("")
		return m, m.keyInput.Focus()
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(keyMsg)
	return m, cmd
}

func (m *Model) handleKeyInput(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.keyInput.Blur()
		m.keyInput.SetValue("")
		return nil
	case key.Matches(msg, m.keys.Confirm):
		apiKey := strings.TrimSpace(m.keyInput.Value())
		if apiKey == "" {
			return nil
		}
		m.keyInput.Blur()
		m.keyInput.SetValue("")
		return send(app.SaveAPIKeyMsg{Key: apiKey})
	}

	var cmd tea.Cmd
	m.keyInput, cmd = m.keyInput.Update(msg)
	return cmd
}

func send(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// SetSize sets the available size for the tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.keyInput.Width = max(width-30, 20)
	m.viewport.Width = width
	m.viewport.Height = max(height-2, 3)
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Refresh, m.keys.Reset, m.keys.ClearCache, m.keys.SetKey}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Refresh, m.keys.Reset, m.keys.ClearCache},
		{m.keys.SetKey, m.keys.Confirm, m.keys.Cancel},
		{m.keys.Up, m.keys.Down},
	}
}
