package components

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/guychenya/chanlyze/internal/models"
)

func TestQuotaBar_View(t *testing.T) {
	bar := NewQuotaBar()
	snap := models.QuotaSnapshot{UsedUnits: 9100, LimitUnits: 10000, PercentageUsed: 91}

	view := ansi.Strip(bar.View(snap, 80))
	if !strings.Contains(view, "91.0%") {
		t.Errorf("View() = %q, want percentage", view)
	}
	if !strings.Contains(view, "9100/10000") {
		t.Errorf("View() = %q, want units", view)
	}
}

func TestQuotaBar_ViewClampsOverflow(t *testing.T) {
	bar := NewQuotaBar()
	snap := models.QuotaSnapshot{UsedUnits: 120, LimitUnits: 100, PercentageUsed: 120}

	if view := ansi.Strip(bar.View(snap, 20)); !strings.Contains(view, "120.0%") {
		t.Errorf("View() = %q, want real percentage shown", view)
	}
}

func TestRenderHealthBar(t *testing.T) {
	view := ansi.Strip(RenderHealthBar(71, 60))
	if !strings.Contains(view, "71/100") {
		t.Errorf("RenderHealthBar() = %q", view)
	}
}

func TestRenderResetBar(t *testing.T) {
	now := time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC)
	reset := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)

	view := ansi.Strip(RenderResetBar(reset, now, 60))
	if !strings.Contains(view, "6h 00m") {
		t.Errorf("RenderResetBar() = %q, want 6h 00m", view)
	}
	if filled := strings.Count(view, "█"); filled != 19 {
		t.Errorf("filled cells = %d, want 19 of 26", filled)
	}

	past := ansi.Strip(RenderResetBar(now.Add(-time.Hour), now, 60))
	if !strings.Contains(past, "0h 00m") {
		t.Errorf("RenderResetBar(past) = %q, want 0h 00m", past)
	}
}

func TestRenderGradientBar(t *testing.T) {
	if RenderGradientBar(50, 0) != "" {
		t.Error("zero width should render nothing")
	}

	s := ansi.Strip(RenderGradientBar(50, 10))
	if strings.Count(s, "█") != 5 || strings.Count(s, "░") != 5 {
		t.Errorf("RenderGradientBar(50, 10) = %q", s)
	}

	over := ansi.Strip(RenderGradientBar(150, 4))
	if strings.Count(over, "█") != 4 {
		t.Errorf("RenderGradientBar(150, 4) = %q, want fully filled", over)
	}
}

func TestInterpolateColor(t *testing.T) {
	if got := interpolateColor("#000000", "#ffffff", 0); got != "#000000" {
		t.Errorf("t=0: %s", got)
	}
	if got := interpolateColor("#000000", "#ffffff", 1); got != "#ffffff" {
		t.Errorf("t=1: %s", got)
	}
	if got := hexToRGB("zz"); got != [3]int{0, 0, 0} {
		t.Errorf("hexToRGB(invalid) = %v", got)
	}
}
