// Package compare provides the head-to-head channel comparison tab.
package compare

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/guychenya/chanlyze/internal/app"
	"github.com/guychenya/chanlyze/internal/ui/components"
)

type keyMap struct {
	Submit    key.Binding
	NextInput key.Binding
	PrevInput key.Binding
	Edit      key.Binding
	Blur      key.Binding
	Swap      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "compare")),
		NextInput: key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		PrevInput: key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
		Edit:      key.NewBinding(key.WithKeys("/", "i"), key.WithHelp("/", "edit URLs")),
		Blur:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "leave input")),
		Swap:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "swap channels")),
	}
}

// Model represents the compare tab state.
type Model struct {
	state   *app.State
	err     error
	inputs  [2]textinput.Model
	spinner components.LoadingSpinner
	keys    keyMap
	focus   int
	editing bool
	width   int
	height  int
}

// New creates a new compare tab. Inputs start unfocused so the tab can be
// entered with the number keys.
func New(state *app.State) *Model {
	m := &Model{
		state:   state,
		spinner: components.NewSpinner(),
		keys:    defaultKeyMap(),
	}
	for i, placeholder := range []string{"https://www.youtube.com/@first", "https://www.youtube.com/@second"} {
		ti := textinput.New()
		ti.Placeholder = placeholder
		ti.CharLimit = 256
		ti.Prompt = []string{"A › ", "B › "}[i]
		m.inputs[i] = ti
	}
	return m
}

// Init initializes the tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Capturing reports whether one of the URL inputs has focus.
func (m *Model) Capturing() bool {
	return m.editing
}

// Update handles messages for the compare tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKeyMsg(msg)

	case app.CompareRequestMsg:
		if m.state.IsLoading(app.ResourceCompare) {
			return m, m.spinner.Start("Analyzing both channels...")
		}

	case app.ComparisonResultMsg:
		m.spinner.Stop()
		m.err = msg.Error

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	if !m.editing {
		switch {
		case key.Matches(msg, m.keys.Edit), key.Matches(msg, m.keys.Submit):
			return m.startEditing()
		case key.Matches(msg, m.keys.Swap):
			a, b := m.inputs[0].Value(), m.inputs[1].Value()
			m.inputs[0].SetValue(b)
			m.inputs[1].SetValue(a)
			return m.submit()
		}
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.Blur):
		m.stopEditing()
		return nil
	case key.Matches(msg, m.keys.NextInput):
		return m.focusInput((m.focus + 1) % len(m.inputs))
	case key.Matches(msg, m.keys.PrevInput):
		return m.focusInput((m.focus + len(m.inputs) - 1) % len(m.inputs))
	case key.Matches(msg, m.keys.Submit):
		if m.focus == 0 && strings.TrimSpace(m.inputs[1].Value()) == "" {
			return m.focusInput(1)
		}
		return m.submit()
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return cmd
}

func (m *Model) startEditing() tea.Cmd {
	m.editing = true
	return m.focusInput(m.focus)
}

func (m *Model) stopEditing() {
	m.editing = false
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
}

func (m *Model) focusInput(i int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = i
	return m.inputs[i].Focus()
}

// submit sends both URLs once both are filled in.
func (m *Model) submit() tea.Cmd {
	first := strings.TrimSpace(m.inputs[0].Value())
	second := strings.TrimSpace(m.inputs[1].Value())
	if first == "" || second == "" || m.state.IsLoading(app.ResourceCompare) {
		return nil
	}
	m.err = nil
	m.stopEditing()
	return func() tea.Msg { return app.CompareRequestMsg{First: first, Second: second} }
}

// SetSize sets the available size for the tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	for i := range m.inputs {
		m.inputs[i].Width = max(width/2-12, 20)
	}
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Edit, m.keys.NextInput, m.keys.Submit, m.keys.Swap, m.keys.Blur}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Edit, m.keys.NextInput, m.keys.PrevInput},
		{m.keys.Submit, m.keys.Swap, m.keys.Blur},
	}
}
