// Package analytics derives channel metrics from channel and video records.
// Everything here is a pure function of its inputs.
package analytics

import (
	"math"
	"time"

	"github.com/guychenya/chanlyze/internal/models"
)

// RecentWindow is the number of most recent videos used for short-term metrics.
const RecentWindow = 10

const year = 365 * 24 * time.Hour

// HealthInputs are the metrics the health score is built from.
type HealthInputs struct {
	SubscriberCount      int64
	VideoCount           int64
	EngagementRatePct    float64
	UploadConsistencyPct float64
	ViewGrowthPct        float64
}

// Compute derives the analytics for a channel. videos must be ordered most
// recent first.
func Compute(ch models.ChannelRecord, videos []models.VideoRecord, now time.Time) models.AnalyticsResult {
	var avgViews int64
	if ch.VideoCount > 0 {
		avgViews = int64(math.Round(float64(ch.TotalViewCount) / float64(ch.VideoCount)))
	}

	window := videos[:min(RecentWindow, len(videos))]

	var recentAvg, engagement float64
	if len(window) > 0 {
		var views int64
		for _, v := range window {
			views += v.ViewCount
			engagement += v.EngagementRatePct()
		}
		recentAvg = float64(views) / float64(len(window))
		engagement /= float64(len(window))
	}

	uploadsPerMonth := float64(countSince(videos, now.AddDate(0, -6, 0))) / 6
	consistency := math.Min(uploadsPerMonth*25, 100)

	viewGrowth := 0.0
	if avgViews > 0 && recentAvg > float64(avgViews) {
		viewGrowth = (recentAvg - float64(avgViews)) / float64(avgViews) * 100
	}

	return models.AnalyticsResult{
		HealthScore: HealthScore(HealthInputs{
			SubscriberCount:      ch.SubscriberCount,
			VideoCount:           ch.VideoCount,
			EngagementRatePct:    engagement,
			UploadConsistencyPct: consistency,
			ViewGrowthPct:        viewGrowth,
		}),
		SubscriberGrowthPct:  round(subscriberGrowth(ch, now), 2),
		ViewGrowthPct:        round(viewGrowth, 2),
		AvgViewsPerVideo:     avgViews,
		RecentAvgViews:       int64(math.Round(recentAvg)),
		UploadConsistencyPct: round(consistency, 2),
		EngagementRatePct:    round(engagement, 2),
		UploadsPerMonth:      round(uploadsPerMonth, 1),
		TopPerformingVideo:   topVideo(window),
	}
}

// subscriberGrowth is an average-velocity proxy: subscribers per year of
// channel age relative to the current count. It reduces to 100/ageYears,
// independent of the subscriber count.
// TODO: replace with period-over-period growth once subscriber counts are
// snapshotted between runs.
func subscriberGrowth(ch models.ChannelRecord, now time.Time) float64 {
	ageYears := float64(now.Sub(ch.CreatedAt)) / float64(year)
	if ageYears <= 0 || ch.SubscriberCount == 0 {
		return 0
	}
	subs := float64(ch.SubscriberCount)
	return (subs / ageYears) / subs * 100
}

// HealthScore sums five capped bands into a 0-100 score.
func HealthScore(in HealthInputs) int {
	score := subscriberBand(in.SubscriberCount) +
		engagementBand(in.EngagementRatePct) +
		math.Min(in.UploadConsistencyPct*0.2, 20) +
		growthBand(in.ViewGrowthPct) +
		catalogBand(in.VideoCount)
	return int(math.Round(math.Max(0, math.Min(score, 100))))
}

func subscriberBand(n int64) float64 {
	switch {
	case n >= 100000:
		return 20
	case n >= 50000:
		return 18
	case n >= 10000:
		return 15
	case n >= 1000:
		return 10
	default:
		return 5
	}
}

func engagementBand(pct float64) float64 {
	switch {
	case pct >= 5:
		return 25
	case pct >= 3:
		return 20
	case pct >= 2:
		return 15
	case pct >= 1:
		return 10
	default:
		return 5
	}
}

func growthBand(pct float64) float64 {
	switch {
	case pct >= 20:
		return 20
	case pct >= 10:
		return 15
	case pct >= 5:
		return 10
	case pct >= 0:
		return 5
	default:
		return 0
	}
}

func catalogBand(n int64) float64 {
	switch {
	case n >= 100:
		return 15
	case n >= 50:
		return 12
	case n >= 20:
		return 8
	case n >= 10:
		return 5
	default:
		return 2
	}
}

func countSince(videos []models.VideoRecord, since time.Time) int {
	n := 0
	for _, v := range videos {
		if v.PublishedAt.After(since) {
			n++
		}
	}
	return n
}

// topVideo returns the first most-viewed video, or nil for an empty window.
func topVideo(window []models.VideoRecord) *models.VideoRecord {
	if len(window) == 0 {
		return nil
	}
	top := window[0]
	for _, v := range window[1:] {
		if v.ViewCount > top.ViewCount {
			top = v
		}
	}
	return &top
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
