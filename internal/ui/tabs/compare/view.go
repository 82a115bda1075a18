package compare

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/guychenya/chanlyze/internal/app"
	"github.com/guychenya/chanlyze/internal/models"
	"github.com/guychenya/chanlyze/internal/ui/components"
	"github.com/guychenya/chanlyze/internal/ui/styles"
)

// View renders the compare tab.
func (m *Model) View() string {
	sections := []string{m.renderInputs()}

	switch {
	case m.spinner.Active():
		sections = append(sections, "", m.spinner.View())
	case m.err != nil:
		sections = append(sections, "",
			styles.ErrorTextStyle.Render("✗ "+app.DescribeError(m.err))+
				styles.HelpStyle.Render("  press / to edit the URLs"))
	}

	if r := m.state.GetComparison(); r != nil && r.First != nil && r.Second != nil {
		sections = append(sections, "", m.renderReport(r))
	} else if !m.spinner.Active() && m.err == nil {
		sections = append(sections, "", styles.CenterHorizontal(styles.HelpStyle.Render(
			"Press / and enter two channel URLs to compare them side by side."), max(m.width-4, 20)))
	}

	return styles.DocStyle.Width(m.width).Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m *Model) renderInputs() string {
	var boxes []string
	for i := range m.inputs {
		border := styles.BlurredBorderStyle
		if m.editing && i == m.focus {
			border = styles.FocusedBorderStyle
		}
		boxes = append(boxes, border.Render(m.inputs[i].View()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, boxes[0], " ", boxes[1])
}

func (m *Model) renderReport(r *models.ComparisonReport) string {
	colWidth := max((m.width-10)/2, 30)

	var sections []string
	if r.QuotaExceeded {
		sections = append(sections, styles.MockBannerStyle.Render(
			"Daily quota exhausted: at least one side uses generated sample data"), "")
	}

	columns := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderColumn(r.First, r.Comparison.Winner, colWidth),
		"  ",
		m.renderColumn(r.Second, r.Comparison.Winner, colWidth),
	)

	sections = append(sections,
		columns,
		m.renderVerdict(r.Comparison),
		"",
		components.RenderBarChart(
			[]float64{float64(r.First.Data.Channel.SubscriberCount), float64(r.Second.Data.Channel.SubscriberCount)},
			[]string{r.First.Data.Channel.Title, r.Second.Data.Channel.Title},
			colWidth*2,
		),
	)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderColumn(a *models.Analysis, winner string, width int) string {
	ch := a.Data.Channel
	r := a.Analytics

	title := styles.CardTitleStyle.Render(ch.Title)
	if winner != "" && ch.ID == winner {
		title += styles.WinnerStyle.Render("  ★ winner")
	}

	rows := [][2]string{
		{"Subscribers", components.FormatCount(ch.SubscriberCount)},
		{"Total views", components.FormatCount(ch.TotalViewCount)},
		{"Videos", components.FormatCount(ch.VideoCount)},
		{"Avg views/video", components.FormatCount(r.AvgViewsPerVideo)},
		{"Engagement", fmt.Sprintf("%.2f%%", r.EngagementRatePct)},
		{"Uploads/month", fmt.Sprintf("%.1f", r.UploadsPerMonth)},
		{"Health", styles.GetHealthStyle(r.HealthScore).Render(fmt.Sprintf("%d/100", r.HealthScore))},
	}

	lines := []string{title, styles.SourceBadge(a.Data.Source), ""}
	for _, row := range rows {
		lines = append(lines, styles.KPILabelStyle.Width(18).Render(row[0])+styles.KPIValueStyle.Render(row[1]))
	}

	return styles.CardStyle.Width(width).Render(strings.Join(lines, "\n"))
}

func (m *Model) renderVerdict(c models.Comparison) string {
	lines := []string{styles.SubTitleStyle.Render("Verdict")}

	if c.Winner != "" {
		lines = append(lines, "Overall: "+styles.WinnerStyle.Render(c.Label(c.Winner)))
	} else {
		lines = append(lines, "Overall: "+styles.HelpStyle.Render("tie"))
	}
	if c.LeaderBySubscribers != "" {
		lines = append(lines, fmt.Sprintf("More subscribers: %s (%.1f%% ahead)",
			c.Label(c.LeaderBySubscribers), math.Abs(c.SubscriberDeltaPct)))
	}
	if c.LeaderByEngagement != "" {
		lines = append(lines, fmt.Sprintf("Better engagement: %s (%.1f%% ahead)",
			c.Label(c.LeaderByEngagement), math.Abs(c.EngagementDeltaPct)))
	}

	for _, insight := range c.Insights {
		lines = append(lines, "• "+insight)
	}
	return strings.Join(lines, "\n")
}
