package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/guychenya/chanlyze/internal/logger"
	"github.com/guychenya/chanlyze/internal/models"
	"github.com/guychenya/chanlyze/internal/ui/styles"
)

// QuotaBar renders the ledger's usage as a progress bar that turns red as
// the daily limit approaches.
type QuotaBar struct {
	progress progress.Model
}

// NewQuotaBar creates a new usage bar.
func NewQuotaBar() QuotaBar {
	return QuotaBar{
		progress: progress.New(
			progress.WithScaledGradient("#51cf66", "#ff6b6b"),
			progress.WithWidth(30),
			progress.WithoutPercentage(),
		),
	}
}

// View renders the bar for a snapshot with a units and percentage readout.
func (q QuotaBar) View(snap models.QuotaSnapshot, width int) string {
	q.progress.Width = max(width-34, 10)

	pct := min(max(snap.PercentageUsed, 0), 100)
	bar := q.progress.ViewAs(pct / 100)

	labelStr := styles.ProgressLabelStyle.Width(14).Render("Quota used")
	percentStr := styles.GetLevelStyle(snap.Level()).
		Width(7).
		Align(lipgloss.Right).
		Render(fmt.Sprintf("%.1f%%", snap.PercentageUsed))
	unitsStr := styles.HelpStyle.Render(fmt.Sprintf(" %d/%d", snap.UsedUnits, snap.LimitUnits))

	return lipgloss.JoinHorizontal(lipgloss.Center, labelStr, bar, " ", percentStr, unitsStr)
}

// RenderHealthBar renders a 0-100 health score as a gradient bar.
func RenderHealthBar(score, width int) string {
	barWidth := max(width-30, 10)
	bar := RenderGradientBar(float64(score), barWidth)

	labelStr := styles.ProgressLabelStyle.Width(14).Render("Health")
	scoreStr := styles.GetHealthStyle(score).
		Width(8).
		Align(lipgloss.Right).
		Render(fmt.Sprintf("%d/100", score))

	return fmt.Sprintf("%s[%s]%s", labelStr, bar, scoreStr)
}

// RenderResetBar shows how far through the current quota day the ledger is.
// The bar fills up as the reset approaches.
func RenderResetBar(resetAt, now time.Time, width int) string {
	const day = 24 * time.Hour

	remaining := max(resetAt.Sub(now), 0)
	percent := 1 - float64(remaining)/float64(day)
	percent = min(max(percent, 0), 1)

	hours := int(remaining.Hours())
	minutes := int(remaining.Minutes()) % 60
	timeStr := fmt.Sprintf("%dh %02dm", hours, minutes)

	labelStr := styles.ProgressLabelStyle.Width(14).Render("Resets in")
	bar := renderTimeBarChars(percent, max(width-34, 10))
	timeStyle := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Width(9).
		Align(lipgloss.Right)

	return fmt.Sprintf("%s[%s]%s", labelStr, bar, timeStyle.Render(timeStr))
}

func renderTimeBarChars(percent float64, width int) string {
	if width < 1 {
		return ""
	}

	filled := min(max(int(float64(width)*percent), 0), width)

	var b strings.Builder
	for i := range width {
		if i < filled {
			t := float64(i) / float64(max(1, width-1))
			color := interpolateColor("#ffd93d", "#6c5ce7", t)
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("█"))
		} else {
			b.WriteString(lipgloss.NewStyle().Foreground(styles.Subtle).Render("░"))
		}
	}
	return b.String()
}

// RenderGradientBar renders a red-to-green bar filled to percent (0-100).
func RenderGradientBar(percent float64, width int) string {
	if width < 1 {
		return ""
	}

	filled := min(max(int(float64(width)*percent/100), 0), width)

	var b strings.Builder
	for i := range width {
		if i < filled {
			t := float64(i) / float64(max(1, width-1))
			color := interpolateColor("#ff6b6b", "#51cf66", t)
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("█"))
		} else {
			b.WriteString(lipgloss.NewStyle().Foreground(styles.Subtle).Render("░"))
		}
	}
	return b.String()
}

func interpolateColor(fromHex, toHex string, t float64) string {
	from := hexToRGB(fromHex)
	to := hexToRGB(toHex)

	r := int(float64(from[0]) + t*(float64(to[0])-float64(from[0])))
	g := int(float64(from[1]) + t*(float64(to[1])-float64(from[1])))
	b := int(float64(from[2]) + t*(float64(to[2])-float64(from[2])))

	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func hexToRGB(hex string) [3]int {
	hex = strings.TrimPrefix(hex, "#")
	var r, g, b int
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		logger.Error("failed to parse hex color", "hex", hex, "error", err)
		return [3]int{0, 0, 0}
	}
	return [3]int{r, g, b}
}
