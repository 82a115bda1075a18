// Package styles defines the visual styling for the application.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/guychenya/chanlyze/internal/models"
)

// Palette.
var (
	Primary   = lipgloss.Color("203") // YouTube red
	Secondary = lipgloss.Color("63")  // Purple
	Subtle    = lipgloss.Color("240") // Gray

	Success = lipgloss.Color("42")
	Error   = lipgloss.Color("196")
	Warning = lipgloss.Color("220")
	Info    = lipgloss.Color("39")

	BgDark = lipgloss.Color("235")

	TextPrimary   = lipgloss.Color("252")
	TextSecondary = lipgloss.Color("245")
	TextMuted     = lipgloss.Color("240")

	// ToastStyle for floating notifications.
	ToastStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 1).
			MarginBottom(1)
)

// TitleStyle is used for main headings.
var TitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Primary).
	MarginBottom(1)

// SubTitleStyle is used for section headings.
var SubTitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Secondary)

// DocStyle provides consistent document margins.
var DocStyle = lipgloss.NewStyle().
	Margin(1, 2).
	Padding(0, 1)

// CardStyle creates a bordered card container.
var CardStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Subtle).
	Padding(1, 2).
	MarginBottom(1)

// CardTitleStyle styles card headers.
var CardTitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Primary)

// FocusedBorderStyle frames the input that currently has focus.
var FocusedBorderStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Primary).
	Padding(0, 1)

// BlurredBorderStyle frames inputs without focus.
var BlurredBorderStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Subtle).
	Padding(0, 1)

// KPILabelStyle styles metric names.
var KPILabelStyle = lipgloss.NewStyle().
	Foreground(TextSecondary).
	Width(22)

// KPIValueStyle styles metric values.
var KPIValueStyle = lipgloss.NewStyle().
	Foreground(TextPrimary).
	Bold(true)

// ProgressLabelStyle styles progress bar labels.
var ProgressLabelStyle = lipgloss.NewStyle().
	Foreground(TextSecondary).
	Width(20)

// HelpStyle is the base style for help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(TextMuted)

// HelpKeyStyle styles keyboard shortcut keys.
var HelpKeyStyle = lipgloss.NewStyle().
	Foreground(Primary).
	Bold(true)

// HelpPanelStyle creates the help overlay panel.
var HelpPanelStyle = lipgloss.NewStyle().
	Border(lipgloss.DoubleBorder()).
	BorderForeground(Primary).
	Padding(1, 3).
	Background(BgDark)

// TableHeaderStyle styles table headers.
var TableHeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Primary).
	BorderStyle(lipgloss.NormalBorder()).
	BorderBottom(true).
	BorderForeground(Subtle)

// MockBannerStyle flags results built from synthesized data.
var MockBannerStyle = lipgloss.NewStyle().
	Foreground(BgDark).
	Background(Warning).
	Bold(true).
	Padding(0, 1)

// SourceBadgeStyle is the base for live/cache/mock badges.
var SourceBadgeStyle = lipgloss.NewStyle().
	Padding(0, 1).
	Bold(true)

// WinnerStyle highlights the winning channel of a comparison.
var WinnerStyle = lipgloss.NewStyle().
	Foreground(Success).
	Bold(true)

var (
	ErrorTextStyle   = lipgloss.NewStyle().Foreground(Error)
	SuccessTextStyle = lipgloss.NewStyle().Foreground(Success)
	WarningTextStyle = lipgloss.NewStyle().Foreground(Warning)
	InfoTextStyle    = lipgloss.NewStyle().Foreground(Info)
)

// GetHealthStyle returns the style for a 0-100 health score.
func GetHealthStyle(score int) lipgloss.Style {
	switch {
	case score >= 70:
		return SuccessTextStyle
	case score >= 40:
		return WarningTextStyle
	default:
		return ErrorTextStyle
	}
}

// GetLevelStyle returns the style for a quota level.
func GetLevelStyle(level models.QuotaLevel) lipgloss.Style {
	switch level {
	case models.QuotaOK:
		return SuccessTextStyle
	case models.QuotaWarning:
		return WarningTextStyle
	default:
		return ErrorTextStyle.Bold(true)
	}
}

// GetUsageStyle colors a percentage of quota used, greener when lower.
func GetUsageStyle(percentUsed float64) lipgloss.Style {
	return GetLevelStyle(models.QuotaSnapshot{PercentageUsed: percentUsed}.Level())
}

// SourceBadge renders a compact badge naming where data came from.
func SourceBadge(src models.Source) string {
	color := Success
	switch src {
	case models.SourceCache:
		color = Info
	case models.SourceMock:
		color = Warning
	}
	return SourceBadgeStyle.Foreground(BgDark).Background(color).Render(string(src))
}

// CenterHorizontal centers content horizontally within a given width.
func CenterHorizontal(content string, width int) string {
	return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(content)
}

// CenterBoth centers content both horizontally and vertically.
func CenterBoth(content string, width, height int) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center).
		AlignVertical(lipgloss.Center).
		Render(content)
}
