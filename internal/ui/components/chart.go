// Package components provides reusable UI components for the TUI.
package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/guychenya/chanlyze/internal/models"
	"github.com/guychenya/chanlyze/internal/ui/styles"
)

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RenderLineChart creates a single-series ASCII line chart.
func RenderLineChart(data []float64, width, height int, caption string) string {
	if len(data) == 0 {
		return styles.HelpStyle.Render("No data available")
	}

	width = max(width, 20)
	height = max(height, 3)

	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(asciigraph.Red),
	)
}

// RenderViewsChart plots views per upload from oldest to newest. Videos are
// expected newest first, as the client returns them.
func RenderViewsChart(videos []models.VideoRecord, width, height int) string {
	if len(videos) < 2 {
		return styles.HelpStyle.Render("Not enough uploads to chart")
	}

	data := make([]float64, len(videos))
	for i, v := range videos {
		data[len(videos)-1-i] = float64(v.ViewCount)
	}
	return RenderLineChart(data, width, height, fmt.Sprintf("Views per upload, last %d", len(videos)))
}

// RenderBarChart creates a simple horizontal bar chart.
func RenderBarChart(values []float64, labels []string, width int) string {
	if len(values) == 0 {
		return ""
	}

	maxVal := 0.0
	for _, v := range values {
		maxVal = max(maxVal, v)
	}
	if maxVal == 0 {
		maxVal = 1
	}

	maxLabelLen := 0
	for _, l := range labels {
		maxLabelLen = max(maxLabelLen, lipgloss.Width(l))
	}

	barWidth := max(width-maxLabelLen-12, 10)

	var lines []string
	for i, v := range values {
		label := ""
		if i < len(labels) {
			label = labels[i]
		}

		barLen := max(int((v/maxVal)*float64(barWidth)), 0)
		bar := lipgloss.NewStyle().Foreground(styles.Primary).Render(strings.Repeat("█", barLen))

		lines = append(lines, fmt.Sprintf("%*s │%s %s", maxLabelLen, label, bar, FormatCount(int64(v))))
	}

	return strings.Join(lines, "\n")
}

// RenderSparkline creates a compact inline sparkline chart.
func RenderSparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}

	maxVal := 0.0
	for _, v := range values {
		maxVal = max(maxVal, v)
	}
	if maxVal == 0 {
		maxVal = 1
	}

	step := max(float64(len(values))/float64(width), 1)

	var result strings.Builder
	for i := 0; i < width && int(float64(i)*step) < len(values); i++ {
		val := values[int(float64(i)*step)]
		idx := int((val / maxVal) * float64(len(sparkChars)-1))
		idx = min(max(idx, 0), len(sparkChars)-1)
		result.WriteRune(sparkChars[idx])
	}

	return result.String()
}

// RenderHourlyUsage draws units spent per hour over the last hours, oldest
// first, with empty hours filled in.
func RenderHourlyUsage(stats []models.HourlyStats, hours int, now time.Time) string {
	if hours <= 0 {
		return ""
	}

	end := now.UTC().Truncate(time.Hour)
	start := end.Add(-time.Duration(hours-1) * time.Hour)

	buckets := make([]float64, hours)
	for _, s := range stats {
		idx := int(s.Hour.UTC().Sub(start) / time.Hour)
		if idx >= 0 && idx < hours {
			buckets[idx] += float64(s.TotalUnits)
		}
	}

	return lipgloss.NewStyle().Foreground(styles.Info).Render(RenderSparkline(buckets, hours))
}
