package components

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"

	"github.com/guychenya/chanlyze/internal/models"
)

func TestSpinner_Lifecycle(t *testing.T) {
	s := NewSpinner()
	if s.Active() {
		t.Fatal("new spinner should be idle")
	}
	if s.View() != "" {
		t.Error("idle spinner should render nothing")
	}

	if cmd := s.Start("Resolving channel..."); cmd == nil {
		t.Error("Start should return the first tick")
	}
	if cmd := s.Start("Still resolving..."); cmd != nil {
		t.Error("Start on a running spinner should not schedule another tick")
	}
	if s.Label() != "Still resolving..." {
		t.Errorf("Label = %q, want updated label", s.Label())
	}
	if !strings.Contains(s.View(), "Still resolving...") {
		t.Error("active spinner should render its label")
	}

	s.Stop()
	if _, cmd := s.Update(spinner.TickMsg{}); cmd != nil {
		t.Error("stopped spinner should drop ticks")
	}
}

func TestRenderSpinnerCentered(t *testing.T) {
	s := NewSpinner()
	s.Start("Loading...")
	if view := RenderSpinnerCentered(s, 30, 5); !strings.Contains(view, "Loading...") {
		t.Error("RenderSpinnerCentered lost the label")
	}
}

func TestRenderLineChart(t *testing.T) {
	if s := RenderLineChart(nil, 20, 5, "Empty"); !strings.Contains(s, "No data") {
		t.Errorf("RenderLineChart(nil) = %q, want placeholder", s)
	}
	if s := RenderLineChart([]float64{1, 2, 3, 4}, 20, 5, "Views"); !strings.Contains(s, "Views") {
		t.Error("RenderLineChart should include its caption")
	}
}

func TestRenderViewsChart(t *testing.T) {
	one := []models.VideoRecord{{ViewCount: 10}}
	if s := RenderViewsChart(one, 40, 5); !strings.Contains(s, "Not enough") {
		t.Errorf("RenderViewsChart(1 video) = %q, want placeholder", s)
	}

	videos := []models.VideoRecord{{ViewCount: 300}, {ViewCount: 200}, {ViewCount: 100}}
	if s := RenderViewsChart(videos, 40, 5); !strings.Contains(s, "last 3") {
		t.Error("RenderViewsChart caption should name the sample size")
	}
}

func TestRenderBarChart(t *testing.T) {
	if RenderBarChart(nil, nil, 40) != "" {
		t.Error("RenderBarChart(nil) should be empty")
	}

	s := RenderBarChart([]float64{1500, 3000}, []string{"Alpha", "Beta"}, 40)
	lines := strings.Split(s, "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if !strings.Contains(lines[0], "1.5K") || !strings.Contains(lines[1], "3.0K") {
		t.Errorf("bar values not formatted: %q", s)
	}
}

func TestRenderSparkline(t *testing.T) {
	if RenderSparkline(nil, 10) != "" {
		t.Error("RenderSparkline(nil) should be empty")
	}
	if got := RenderSparkline([]float64{0, 7}, 10); got != "▁█" {
		t.Errorf("RenderSparkline() = %q, want ▁█", got)
	}
}

func TestRenderHourlyUsage(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC)
	stats := []models.HourlyStats{
		{Hour: now.Truncate(time.Hour), TotalUnits: 8},
		{Hour: now.Add(-48 * time.Hour), TotalUnits: 100}, // outside window
	}

	s := RenderHourlyUsage(stats, 4, now)
	if !strings.Contains(s, "▁▁▁█") {
		t.Errorf("RenderHourlyUsage() = %q, want last hour highest", s)
	}
	if RenderHourlyUsage(stats, 0, now) != "" {
		t.Error("zero hours should render nothing")
	}
}

func TestFormatCount(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{950, "950"},
		{12_345, "12.3K"},
		{4_500_000, "4.5M"},
		{1_200_000_000, "1.2B"},
		{-2_000, "-2.0K"},
	}
	for _, tt := range tests {
		if got := FormatCount(tt.in); got != tt.want {
			t.Errorf("FormatCount(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatVideoLength(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "-"},
		{59, "0:59"},
		{754, "12:34"},
		{3723, "1:02:03"},
	}
	for _, tt := range tests {
		if got := FormatVideoLength(tt.in); got != tt.want {
			t.Errorf("FormatVideoLength(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatAge(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		at   time.Time
		want string
	}{
		{time.Time{}, "-"},
		{now.Add(-10 * time.Second), "just now"},
		{now.Add(-5 * time.Minute), "5m ago"},
		{now.Add(-3 * time.Hour), "3h ago"},
		{now.Add(-50 * time.Hour), "2d ago"},
	}
	for _, tt := range tests {
		if got := FormatAge(tt.at, now); got != tt.want {
			t.Errorf("FormatAge(%v) = %q, want %q", tt.at, got, tt.want)
		}
	}
}

func TestFormatSignedPct(t *testing.T) {
	if got := FormatSignedPct(12.345); got != "+12.3%" {
		t.Errorf("FormatSignedPct() = %q", got)
	}
	if got := FormatSignedPct(-4); got != "-4.0%" {
		t.Errorf("FormatSignedPct() = %q", got)
	}
}
