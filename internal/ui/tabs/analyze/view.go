package analyze

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/guychenya/chanlyze/internal/app"
	"github.com/guychenya/chanlyze/internal/models"
	"github.com/guychenya/chanlyze/internal/services/youtube"
	"github.com/guychenya/chanlyze/internal/ui/components"
	"github.com/guychenya/chanlyze/internal/ui/styles"
)

// topVideoCount is how many uploads the recent uploads table lists.
const topVideoCount = 5

// View renders the analyze tab.
func (m *Model) View() string {
	sections := []string{m.renderInput()}

	a := m.state.GetAnalysis()
	switch {
	case m.spinner.Active() && a == nil:
		sections = append(sections, components.RenderSpinnerCentered(m.spinner, max(m.width-4, 20), max(m.height-6, 3)))
	case m.spinner.Active():
		sections = append(sections, "", m.spinner.View())
	case m.err != nil:
		sections = append(sections, "", m.renderError())
	}

	if a != nil {
		m.viewport.SetContent(m.renderAnalysis(a))
		sections = append(sections, "", m.viewport.View())
	} else if !m.spinner.Active() && m.err == nil {
		sections = append(sections, "", styles.HelpStyle.Render(
			"Paste a channel URL (youtube.com/@handle, /channel/UC…, /c/name, /user/name) and press enter."))
	}

	return styles.DocStyle.Width(m.width).Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m *Model) renderInput() string {
	border := styles.BlurredBorderStyle
	if m.input.Focused() {
		border = styles.FocusedBorderStyle
	}
	return border.Render(m.input.View())
}

func (m *Model) renderError() string {
	line := styles.ErrorTextStyle.Render("✗ " + app.DescribeError(m.err))
	hint := "  press r to retry or / to edit the URL"
	if youtube.IsPermanent(m.err) {
		hint = "  press / to edit the URL"
	}
	return line + styles.HelpStyle.Render(hint)
}

func (m *Model) renderAnalysis(a *models.Analysis) string {
	width := max(m.width-8, 40)

	var sections []string
	if a.MockData() {
		sections = append(sections, styles.MockBannerStyle.Render(
			"Daily quota exhausted: these numbers are generated sample data"), "")
	}

	sections = append(sections,
		m.renderChannelCard(a, width),
		m.renderKPIs(a),
		"",
		components.RenderHealthBar(a.Analytics.HealthScore, width),
		"",
		components.RenderViewsChart(a.Data.Videos, width-12, 8),
		"",
		m.renderTopVideos(a.Data.Videos),
		"",
		m.renderRecommendations(a.Recommendations, width),
	)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderChannelCard(a *models.Analysis, width int) string {
	ch := a.Data.Channel

	title := styles.CardTitleStyle.Render(ch.Title)
	badge := styles.SourceBadge(a.Data.Source)
	header := lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", badge)

	meta := []string{ch.ID}
	if ch.CustomURL != "" {
		meta = append(meta, ch.CustomURL)
	}
	if ch.Country != "" {
		meta = append(meta, ch.Country)
	}
	if !ch.CreatedAt.IsZero() {
		meta = append(meta, "since "+ch.CreatedAt.Format("Jan 2006"))
	}

	lines := []string{
		header,
		styles.HelpStyle.Render(strings.Join(meta, " · ")),
		"",
		fmt.Sprintf("%s subscribers   %s views   %s videos",
			styles.KPIValueStyle.Render(components.FormatCount(ch.SubscriberCount)),
			styles.KPIValueStyle.Render(components.FormatCount(ch.TotalViewCount)),
			styles.KPIValueStyle.Render(components.FormatCount(ch.VideoCount)),
		),
	}

	return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m *Model) renderKPIs(a *models.Analysis) string {
	r := a.Analytics
	rows := [][2]string{
		{"Avg views per video", components.FormatCount(r.AvgViewsPerVideo)},
		{"Recent avg views", components.FormatCount(r.RecentAvgViews)},
		{"Engagement rate", fmt.Sprintf("%.2f%%", r.EngagementRatePct)},
		{"Uploads per month", fmt.Sprintf("%.1f", r.UploadsPerMonth)},
		{"Upload consistency", fmt.Sprintf("%.0f%%", r.UploadConsistencyPct)},
		{"View growth", components.FormatSignedPct(r.ViewGrowthPct)},
		{"Subscriber growth (est.)", components.FormatSignedPct(r.SubscriberGrowthPct)},
	}
	if r.TopPerformingVideo != nil {
		rows = append(rows, [2]string{"Top video", fmt.Sprintf("%s (%s views)",
			r.TopPerformingVideo.Title, components.FormatCount(r.TopPerformingVideo.ViewCount))})
	}

	lines := []string{styles.SubTitleStyle.Render("Key metrics")}
	for _, row := range rows {
		lines = append(lines, styles.KPILabelStyle.Render(row[0])+styles.KPIValueStyle.Render(row[1]))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderTopVideos(videos []models.VideoRecord) string {
	lines := []string{styles.SubTitleStyle.Render("Recent uploads")}
	if len(videos) == 0 {
		return strings.Join(append(lines, styles.HelpStyle.Render("No uploads")), "\n")
	}

	now := time.Now()
	for _, v := range videos[:min(topVideoCount, len(videos))] {
		title := ansi.Truncate(v.Title, 48, "...")
		lines = append(lines, fmt.Sprintf("%-48s %8s %7s %10s",
			title,
			components.FormatCount(v.ViewCount),
			components.FormatVideoLength(v.DurationSeconds),
			components.FormatAge(v.PublishedAt, now),
		))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderRecommendations(recs []models.Recommendation, width int) string {
	lines := []string{styles.SubTitleStyle.Render("Recommendations")}
	if len(recs) == 0 {
		return strings.Join(append(lines, styles.HelpStyle.Render("Nothing to suggest: keep going")), "\n")
	}

	wrap := lipgloss.NewStyle().Width(max(width-4, 20)).PaddingLeft(2)
	for _, r := range recs {
		head := fmt.Sprintf("• %s %s",
			styles.KPIValueStyle.Render(r.Title),
			styles.HelpStyle.Render(fmt.Sprintf("[%s · %s confidence · +%d%%]", r.Category, r.Confidence, r.ImpactPct)),
		)
		lines = append(lines, head, wrap.Render(r.Description))
	}
	return strings.Join(lines, "\n")
}
