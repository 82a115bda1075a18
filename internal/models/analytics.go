package models

import "time"

// AnalyticsResult holds the metrics derived from a channel and its uploads.
type AnalyticsResult struct {
	TopPerformingVideo   *VideoRecord `json:"topPerformingVideo"`
	HealthScore          int          `json:"healthScore"`
	SubscriberGrowthPct  float64      `json:"subscriberGrowthPct"`
	ViewGrowthPct        float64      `json:"viewGrowthPct"`
	AvgViewsPerVideo     int64        `json:"avgViewsPerVideo"`
	RecentAvgViews       int64        `json:"recentAvgViews"`
	UploadConsistencyPct float64      `json:"uploadConsistencyPct"`
	EngagementRatePct    float64      `json:"engagementRatePct"`
	UploadsPerMonth      float64      `json:"uploadsPerMonth"`
}

// Recommendation is a piece of advice derived from a channel's metrics.
type Recommendation struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Confidence  string `json:"confidence"`
	ImpactPct   int    `json:"impactPct"`
}

// Analysis is everything produced for a single analyzed channel.
type Analysis struct {
	AnalyzedAt      time.Time        `json:"analyzedAt"`
	Data            ChannelData      `json:"data"`
	Analytics       AnalyticsResult  `json:"analytics"`
	Recommendations []Recommendation `json:"recommendations"`
	Quota           QuotaSnapshot    `json:"quota"`
}

// MockData reports whether the analysis was built on synthesized data.
func (a *Analysis) MockData() bool {
	return a.Data.IsMock()
}

// Comparison is the head-to-head summary of two analyzed channels. Winner
// and the leaders hold channel IDs, empty on a tie; Labels maps each ID to a
// display name that stays distinct when both channels share a title.
type Comparison struct {
	Winner              string            `json:"winner"`
	LeaderBySubscribers string            `json:"leaderBySubscribers"`
	LeaderByEngagement  string            `json:"leaderByEngagement"`
	Labels              map[string]string `json:"labels"`
	Insights            []string          `json:"insights"`
	SubscriberDeltaPct  float64           `json:"subscriberDeltaPct"`
	EngagementDeltaPct  float64           `json:"engagementDeltaPct"`
}

// Label returns the display name for a channel ID in the comparison.
func (c Comparison) Label(id string) string {
	if l, ok := c.Labels[id]; ok {
		return l
	}
	return id
}

// ComparisonReport bundles both analyses with their comparison.
type ComparisonReport struct {
	First         *Analysis  `json:"first"`
	Second        *Analysis  `json:"second"`
	Comparison    Comparison `json:"comparison"`
	QuotaExceeded bool       `json:"quotaExceeded"`
}
