package analytics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/guychenya/chanlyze/internal/models"
)

// MaxRecommendations caps the number of recommendations returned.
const MaxRecommendations = 4

// Recommend turns a channel's metrics into prioritized advice, highest
// impact first.
func Recommend(ch models.ChannelRecord, res models.AnalyticsResult) []models.Recommendation {
	var recs []models.Recommendation

	switch {
	case res.EngagementRatePct < 2:
		recs = append(recs, models.Recommendation{
			Title:       "Improve Thumbnail Design",
			Description: fmt.Sprintf("Engagement is %.2f%%. Bright colors and clear faces in thumbnails lift click-through and interaction.", res.EngagementRatePct),
			Category:    "engagement",
			ImpactPct:   25,
			Confidence:  "high",
		})
	case res.EngagementRatePct < 5:
		recs = append(recs, models.Recommendation{
			Title:       "Ask for Comments",
			Description: "Close each video with a specific question to turn passive viewers into commenters.",
			Category:    "engagement",
			ImpactPct:   12,
			Confidence:  "medium",
		})
	}

	if res.UploadsPerMonth < 2 {
		recs = append(recs, models.Recommendation{
			Title:       "Publish on a Fixed Schedule",
			Description: fmt.Sprintf("Only %.1f uploads per month over the last six months. A weekly slot would lift consistency to 100%%.", res.UploadsPerMonth),
			Category:    "cadence",
			ImpactPct:   20,
			Confidence:  "high",
		})
	}

	if res.AvgViewsPerVideo > 0 && res.RecentAvgViews < res.AvgViewsPerVideo {
		desc := fmt.Sprintf("Recent videos average %d views against a lifetime average of %d.",
			res.RecentAvgViews, res.AvgViewsPerVideo)
		if len(ch.Keywords) > 0 {
			desc += fmt.Sprintf(" Revisit topics around %q.", strings.Join(ch.Keywords[:min(3, len(ch.Keywords))], ", "))
		}
		recs = append(recs, models.Recommendation{
			Title:       "Refresh Your Topics",
			Description: desc,
			Category:    "content",
			ImpactPct:   18,
			Confidence:  "medium",
		})
	}

	if ch.VideoCount < 50 {
		recs = append(recs, models.Recommendation{
			Title:       "Grow the Catalogue",
			Description: fmt.Sprintf("%d videos is a small library. More uploads give search and suggestions more to surface.", ch.VideoCount),
			Category:    "growth",
			ImpactPct:   12,
			Confidence:  "medium",
		})
	}

	if res.HealthScore >= 80 {
		recs = append(recs, models.Recommendation{
			Title:       "Pursue Collaborations",
			Description: "The channel is healthy. Collaborating with similar-sized creators converts their audience cheaply.",
			Category:    "growth",
			ImpactPct:   10,
			Confidence:  "low",
		})
	}

	recs = append(recs, models.Recommendation{
		Title:       "Test Upload Timing",
		Description: "Upload during peak audience activity and compare first-day views across time slots.",
		Category:    "timing",
		ImpactPct:   8,
		Confidence:  "low",
	})

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].ImpactPct > recs[j].ImpactPct
	})
	return recs[:min(MaxRecommendations, len(recs))]
}
