package analyze

import (
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/guychenya/chanlyze/internal/app"
	"github.com/guychenya/chanlyze/internal/models"
	"github.com/guychenya/chanlyze/internal/services/analytics"
	"github.com/guychenya/chanlyze/internal/services/mock"
	"github.com/guychenya/chanlyze/internal/services/youtube"
)

func sampleAnalysis(source models.Source) *models.Analysis {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	gen := mock.New(rand.NewPCG(7, 7), func() time.Time { return now })
	ch := gen.Channel("@sample")
	videos := gen.Videos(6)
	res := analytics.Compute(ch, videos, now)

	return &models.Analysis{
		AnalyzedAt: now,
		Data: models.ChannelData{
			Input:      "https://www.youtube.com/@sample",
			Identifier: "@sample",
			Channel:    ch,
			Videos:     videos,
			Source:     source,
		},
		Analytics:       res,
		Recommendations: analytics.Recommend(ch, res),
		Quota:           models.QuotaSnapshot{UsedUnits: 3, LimitUnits: 10000},
	}
}

func typeText(m *Model, s string) {
	for _, r := range s {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func requestOf(t *testing.T, cmd tea.Cmd) app.AnalyzeRequestMsg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg, ok := cmd().(app.AnalyzeRequestMsg)
	if !ok {
		t.Fatalf("command produced %T, want AnalyzeRequestMsg", cmd())
	}
	return msg
}

func TestNew(t *testing.T) {
	m := New(app.NewState())
	if !m.Capturing() {
		t.Error("URL input should start focused")
	}
	if m.Init() == nil {
		t.Error("Init should start the cursor blink")
	}
}

func TestSubmit(t *testing.T) {
	m := New(app.NewState())
	m.SetSize(100, 30)

	typeText(m, "  https://www.youtube.com/@sample  ")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if got := requestOf(t, cmd).URL; got != "https://www.youtube.com/@sample" {
		t.Errorf("URL = %q, want trimmed input", got)
	}
	if m.Capturing() {
		t.Error("input should blur after submit")
	}
}

func TestSubmit_BlankIgnored(t *testing.T) {
	m := New(app.NewState())
	typeText(m, "   ")
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
		t.Error("blank input must not produce a request")
	}
}

func TestSubmit_WhileLoading(t *testing.T) {
	state := app.NewState()
	state.SetLoading(app.ResourceAnalyze, true)
	m := New(state)

	typeText(m, "@sample")
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
		t.Error("no second request while one is in flight")
	}
}

func TestSpinnerLifecycle(t *testing.T) {
	state := app.NewState()
	m := New(state)

	m.Update(app.AnalyzeRequestMsg{URL: "@x"})
	if m.spinner.Active() {
		t.Error("spinner should only start once the root model marks loading")
	}

	state.SetLoading(app.ResourceAnalyze, true)
	m.Update(app.AnalyzeRequestMsg{URL: "@x"})
	if !m.spinner.Active() {
		t.Fatal("spinner should be active")
	}

	m.Update(app.AnalysisResultMsg{URL: "@x"})
	if m.spinner.Active() {
		t.Error("spinner should stop on result")
	}
}

func TestRetryAfterError(t *testing.T) {
	m := New(app.NewState())
	m.SetSize(100, 30)

	typeText(m, "@gone")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m.Update(app.AnalysisResultMsg{URL: "@gone", Error: youtube.ErrChannelNotFound})

	view := ansi.Strip(m.View())
	if !strings.Contains(view, "Channel not found") || !strings.Contains(view, "press r to retry") {
		t.Errorf("error not rendered:\n%s", view)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	if got := requestOf(t, cmd).URL; got != "@gone" {
		t.Errorf("retry URL = %q", got)
	}
}

func TestRetryWithoutError(t *testing.T) {
	m := New(app.NewState())
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}}); cmd != nil {
		t.Error("r does nothing without a failed request")
	}
}

func TestEditRefocuses(t *testing.T) {
	m := New(app.NewState())
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.Capturing() {
		t.Fatal("esc should blur the input")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	if !m.Capturing() {
		t.Error("/ should focus the input")
	}
}

func TestView_Empty(t *testing.T) {
	m := New(app.NewState())
	m.SetSize(100, 30)
	if !strings.Contains(ansi.Strip(m.View()), "Paste a channel URL") {
		t.Error("empty view should show usage hint")
	}
}

func TestView_Analysis(t *testing.T) {
	state := app.NewState()
	a := sampleAnalysis(models.SourceLive)
	state.SetAnalysis(a)

	m := New(state)
	m.SetSize(140, 200)
	view := ansi.Strip(m.View())

	if !strings.Contains(view, a.Data.Channel.Title) {
		t.Error("channel title missing")
	}
	if strings.Contains(view, "sample data") {
		t.Error("live data must not show the mock banner")
	}
}

func TestView_MockBanner(t *testing.T) {
	state := app.NewState()
	state.SetAnalysis(sampleAnalysis(models.SourceMock))

	m := New(state)
	m.SetSize(140, 200)
	if !strings.Contains(strings.ToLower(ansi.Strip(m.View())), "sample data") {
		t.Error("mock data should be flagged")
	}
}

func TestHelp(t *testing.T) {
	m := New(app.NewState())
	if len(m.ShortHelp()) == 0 || len(m.FullHelp()) == 0 {
		t.Error("help bindings should not be empty")
	}
}

func TestView_PermanentErrorHint(t *testing.T) {
	m := New(app.NewState())
	m.SetSize(100, 30)
	m.Update(app.AnalysisResultMsg{Error: youtube.ErrInvalidURLFormat})

	view := ansi.Strip(m.View())
	if strings.Contains(view, "press r to retry") {
		t.Error("invalid URLs cannot be retried")
	}
	if !strings.Contains(view, "Not a YouTube channel URL") {
		t.Errorf("error not rendered:\n%s", view)
	}
}
