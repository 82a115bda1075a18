package components

import (
	"fmt"
	"time"
)

// FormatCount abbreviates large counts: 950, 12.3K, 4.5M, 1.2B.
func FormatCount(n int64) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}

	switch {
	case n >= 1_000_000_000:
		return fmt.Sprintf("%s%.1fB", sign, float64(n)/1e9)
	case n >= 1_000_000:
		return fmt.Sprintf("%s%.1fM", sign, float64(n)/1e6)
	case n >= 1_000:
		return fmt.Sprintf("%s%.1fK", sign, float64(n)/1e3)
	default:
		return fmt.Sprintf("%s%d", sign, n)
	}
}

// FormatSignedPct renders a percentage with an explicit sign.
func FormatSignedPct(p float64) string {
	return fmt.Sprintf("%+.1f%%", p)
}

// FormatVideoLength renders a duration in seconds as m:ss or h:mm:ss.
func FormatVideoLength(seconds int) string {
	if seconds <= 0 {
		return "-"
	}
	d := time.Duration(seconds) * time.Second
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// FormatAge renders how long ago t was relative to now.
func FormatAge(t, now time.Time) string {
	if t.IsZero() {
		return "-"
	}
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
