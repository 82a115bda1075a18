package components

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/guychenya/chanlyze/internal/ui/styles"
)

// LoadingSpinner wraps a bubble spinner that only renders while a request
// is in flight.
type LoadingSpinner struct {
	spinner spinner.Model
	label   string
	style   lipgloss.Style
	active  bool
}

// NewSpinner creates an idle spinner.
func NewSpinner() LoadingSpinner {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	return LoadingSpinner{
		spinner: s,
		style:   lipgloss.NewStyle().Foreground(styles.TextSecondary),
	}
}

// Start activates the spinner with a label and returns its first tick.
func (l *LoadingSpinner) Start(label string) tea.Cmd {
	l.label = label
	if l.active {
		return nil
	}
	l.active = true
	return l.spinner.Tick
}

// Stop deactivates the spinner; pending ticks are dropped.
func (l *LoadingSpinner) Stop() {
	l.active = false
}

// Active reports whether the spinner is running.
func (l LoadingSpinner) Active() bool {
	return l.active
}

// Label returns the current label.
func (l LoadingSpinner) Label() string {
	return l.label
}

// Update advances the animation while active.
func (l LoadingSpinner) Update(msg tea.Msg) (LoadingSpinner, tea.Cmd) {
	if !l.active {
		return l, nil
	}
	var cmd tea.Cmd
	l.spinner, cmd = l.spinner.Update(msg)
	return l, cmd
}

// View renders the spinner with its label, or nothing when idle.
func (l LoadingSpinner) View() string {
	if !l.active {
		return ""
	}
	return l.spinner.View() + " " + l.style.Render(l.label)
}

// RenderSpinnerCentered renders a spinner centered in a given width and height.
func RenderSpinnerCentered(s LoadingSpinner, width, height int) string {
	return styles.CenterBoth(s.View(), width, height)
}
