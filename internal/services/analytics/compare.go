package analytics

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/guychenya/chanlyze/internal/models"
)

// Subject is one side of a comparison.
type Subject struct {
	Channel   models.ChannelRecord
	Analytics models.AnalyticsResult
}

// Compare summarizes a head-to-head between two channels. Leaders and
// insights do not depend on argument order; the signed deltas are positive
// when a leads.
func Compare(a, b Subject) models.Comparison {
	la, lb := labels(a.Channel, b.Channel)
	name := func(s *Subject) string {
		if s.Channel.ID == a.Channel.ID {
			return la
		}
		return lb
	}

	cmp := models.Comparison{
		Labels: map[string]string{a.Channel.ID: la, b.Channel.ID: lb},
		Winner: leader(a, b, float64(a.Analytics.HealthScore), float64(b.Analytics.HealthScore)),
		LeaderBySubscribers: leader(a, b,
			float64(a.Channel.SubscriberCount), float64(b.Channel.SubscriberCount)),
		LeaderByEngagement: leader(a, b, a.Analytics.EngagementRatePct, b.Analytics.EngagementRatePct),
		SubscriberDeltaPct: RelativeDelta(float64(a.Channel.SubscriberCount), float64(b.Channel.SubscriberCount)),
		EngagementDeltaPct: RelativeDelta(a.Analytics.EngagementRatePct, b.Analytics.EngagementRatePct),
		Insights:           []string{},
	}

	hi, lo := order(a, b, float64(a.Channel.SubscriberCount), float64(b.Channel.SubscriberCount))
	if hi != nil {
		if lo.Channel.SubscriberCount > 0 {
			pct := abs(cmp.SubscriberDeltaPct)
			cmp.Insights = append(cmp.Insights,
				fmt.Sprintf("%s has %.1f%% more subscribers", name(hi), pct))
		} else {
			cmp.Insights = append(cmp.Insights,
				fmt.Sprintf("%s has subscribers while %s has none", name(hi), name(lo)))
		}
	}

	hi, lo = order(a, b, a.Analytics.EngagementRatePct, b.Analytics.EngagementRatePct)
	if hi != nil {
		cmp.Insights = append(cmp.Insights, fmt.Sprintf("%s has higher audience engagement (%s%% vs %s%%)",
			name(hi), formatPct(hi.Analytics.EngagementRatePct), formatPct(lo.Analytics.EngagementRatePct)))
	}

	hi, lo = order(a, b, a.Analytics.UploadsPerMonth, b.Analytics.UploadsPerMonth)
	if hi != nil {
		cmp.Insights = append(cmp.Insights, fmt.Sprintf("%s uploads more often (%s vs %s videos per month)",
			name(hi), formatPct(hi.Analytics.UploadsPerMonth), formatPct(lo.Analytics.UploadsPerMonth)))
	}

	if cmp.Winner != "" {
		hi, lo = order(a, b, float64(a.Analytics.HealthScore), float64(b.Analytics.HealthScore))
		cmp.Insights = append(cmp.Insights, fmt.Sprintf("%s leads on overall channel health (%d vs %d)",
			name(hi), hi.Analytics.HealthScore, lo.Analytics.HealthScore))
	}

	return cmp
}

// RelativeDelta returns (max-min)/min*100, positive when a is the larger
// value and negative when b is. It is 0 for equal values or a zero minimum.
func RelativeDelta(a, b float64) float64 {
	if a == b {
		return 0
	}
	hi, lo := max(a, b), min(a, b)
	if lo <= 0 {
		return 0
	}
	d := round((hi-lo)/lo*100, 2)
	if b > a {
		return -d
	}
	return d
}

func leader(a, b Subject, va, vb float64) string {
	hi, _ := order(a, b, va, vb)
	if hi == nil {
		return ""
	}
	return hi.Channel.ID
}

// labels names both channels, adding the ID when the titles collide.
func labels(a, b models.ChannelRecord) (string, string) {
	if a.ID != b.ID && strings.EqualFold(a.Title, b.Title) {
		return withID(a), withID(b)
	}
	return label(a), label(b)
}

func label(ch models.ChannelRecord) string {
	if ch.Title == "" {
		return ch.ID
	}
	return ch.Title
}

func withID(ch models.ChannelRecord) string {
	if ch.Title == "" {
		return ch.ID
	}
	return fmt.Sprintf("%s (%s)", ch.Title, ch.ID)
}

// order returns the leading and trailing subject, or nils on a tie.
func order(a, b Subject, va, vb float64) (hi, lo *Subject) {
	switch {
	case va > vb:
		return &a, &b
	case vb > va:
		return &b, &a
	default:
		return nil, nil
	}
}

func formatPct(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
