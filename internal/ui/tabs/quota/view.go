package quota

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/guychenya/chanlyze/internal/app"
	"github.com/guychenya/chanlyze/internal/models"
	"github.com/guychenya/chanlyze/internal/services/credentials"
	"github.com/guychenya/chanlyze/internal/ui/components"
	"github.com/guychenya/chanlyze/internal/ui/styles"
)

// View renders the quota tab.
func (m *Model) View() string {
	now := time.Now()
	width := max(m.width-8, 40)

	sections := []string{
		m.renderLedger(now, width),
		m.renderCredentials(),
	}
	if m.keyInput.Focused() {
		sections = append(sections, styles.FocusedBorderStyle.Render(m.keyInput.View()))
	}
	sections = append(sections, "", m.renderCallLog(now))

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))
	return styles.DocStyle.Width(m.width).Render(m.viewport.View())
}

func (m *Model) renderLedger(now time.Time, width int) string {
	title := styles.CardTitleStyle.Render("Daily quota")

	snap, ok := m.state.GetQuota()
	if !ok {
		return styles.CardStyle.Width(width).Render(title + "\n\n" + styles.HelpStyle.Render("Loading quota..."))
	}

	level := snap.Level()
	lines := []string{
		title + "  " + styles.GetLevelStyle(level).Render(strings.ToUpper(level.String())),
		"",
		m.bar.View(snap, width-6),
		components.RenderResetBar(snap.ResetAt, now, width-6),
		"",
		styles.HelpStyle.Render(fmt.Sprintf("%d units left · resets %s (in %s)",
			max(snap.LimitUnits-snap.UsedUnits, 0),
			snap.ResetAt.Local().Format("Jan 2 15:04"),
			snap.TimeUntilReset)),
	}
	if level == models.QuotaExhausted {
		lines = append(lines, styles.WarningTextStyle.Render(
			"Further analyses use generated sample data until the reset."))
	}
	if m.config != nil {
		lines = append(lines, styles.HelpStyle.Render(fmt.Sprintf("cache TTL %s · max %d videos · db %s",
			m.config.CacheTTL, m.config.MaxVideos, m.config.DatabasePath)))
	}

	return styles.CardStyle.Width(width).Render(strings.Join(lines, "\n"))
}

func (m *Model) renderCredentials() string {
	src, valid := m.state.GetCredentials()
	switch {
	case valid:
		return styles.SuccessTextStyle.Render("● API key loaded") +
			styles.HelpStyle.Render(fmt.Sprintf(" from %s", src))
	case src == credentials.SourceNone:
		return styles.WarningTextStyle.Render("○ No API key") +
			styles.HelpStyle.Render(": press k to add one, or set YOUTUBE_API_KEY")
	default:
		return styles.ErrorTextStyle.Render("● API key is malformed") +
			styles.HelpStyle.Render(fmt.Sprintf(" (%s): press k to replace it", src))
	}
}

func (m *Model) renderCallLog(now time.Time) string {
	lines := []string{styles.SubTitleStyle.Render(fmt.Sprintf("API calls, last %dh", app.CallWindowHours))}

	if stats := m.state.GetCallStats(); stats != nil {
		lines = append(lines, fmt.Sprintf("%s calls · %s units · %.0f ms avg · %s errors · %d channels",
			styles.KPIValueStyle.Render(fmt.Sprint(stats.TotalCalls)),
			styles.KPIValueStyle.Render(fmt.Sprint(stats.TotalUnits)),
			stats.AvgDurationMs,
			styles.KPIValueStyle.Render(fmt.Sprint(stats.ErrorCount)),
			stats.UniqueTargets,
		))
		lines = append(lines, styles.InfoTextStyle.Render("units/hour ")+components.RenderHourlyUsage(m.state.GetHourlyCalls(), app.CallWindowHours, now))
	}

	calls := m.state.GetRecentCalls()
	if len(calls) == 0 {
		return strings.Join(append(lines, "", styles.HelpStyle.Render("No calls logged yet")), "\n")
	}

	lines = append(lines, "", styles.TableHeaderStyle.Render(
		fmt.Sprintf("%-10s %-14s %-28s %-6s %5s %6s %7s", "when", "endpoint", "target", "source", "cost", "status", "ms")))
	for _, c := range calls {
		lines = append(lines, renderCallRow(c, now))
	}
	return strings.Join(lines, "\n")
}

func renderCallRow(c models.APICall, now time.Time) string {
	row := fmt.Sprintf("%-10s %-14s %-28s %-6s %5d %6d %7d",
		components.FormatAge(c.Timestamp, now),
		c.Endpoint,
		ansi.Truncate(c.Target, 28, "…"),
		c.Source,
		c.Cost,
		c.StatusCode,
		c.DurationMs,
	)
	if c.Error != "" {
		return styles.ErrorTextStyle.Render(row) + styles.HelpStyle.Render(" "+ansi.Truncate(c.Error, 40, "…"))
	}
	return row
}
