package models

import "time"

// Source identifies where a piece of channel data came from.
type Source string

// Data sources.
const (
	SourceLive  Source = "live"
	SourceCache Source = "cache"
	SourceMock  Source = "mock"
)

// CombineSources reduces the sources of the parts of a result to one:
// mock if any part was synthesized, live if any part hit the network,
// otherwise cache.
func CombineSources(parts ...Source) Source {
	combined := SourceCache
	for _, s := range parts {
		switch s {
		case SourceMock:
			return SourceMock
		case SourceLive:
			combined = SourceLive
		}
	}
	return combined
}

// ChannelRecord is a normalized channel profile, either live or synthesized.
type ChannelRecord struct {
	CreatedAt       time.Time `json:"createdAt"`
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	ThumbnailURL    string    `json:"thumbnailUrl"`
	CustomURL       string    `json:"customUrl,omitempty"`
	Country         string    `json:"country,omitempty"`
	Keywords        []string  `json:"keywords,omitempty"`
	SubscriberCount int64     `json:"subscriberCount"`
	VideoCount      int64     `json:"videoCount"`
	TotalViewCount  int64     `json:"totalViewCount"`
}

// VideoRecord is a normalized upload with its public statistics.
type VideoRecord struct {
	PublishedAt     time.Time `json:"publishedAt"`
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	ThumbnailURL    string    `json:"thumbnailUrl"`
	Tags            []string  `json:"tags,omitempty"`
	ViewCount       int64     `json:"viewCount"`
	LikeCount       int64     `json:"likeCount"`
	CommentCount    int64     `json:"commentCount"`
	DurationSeconds int       `json:"durationSeconds"`
}

// EngagementRatePct returns (likes+comments)/views as a percentage, or 0
// for a video without views.
func (v VideoRecord) EngagementRatePct() float64 {
	if v.ViewCount == 0 {
		return 0
	}
	return float64(v.LikeCount+v.CommentCount) / float64(v.ViewCount) * 100
}

// ChannelData is the outcome of resolving one channel reference.
type ChannelData struct {
	Input         string        `json:"input"`
	Identifier    string        `json:"identifier"`
	Channel       ChannelRecord `json:"channel"`
	Videos        []VideoRecord `json:"videos"`
	Source        Source        `json:"source"`
	ChannelSource Source        `json:"channelSource"`
	VideosSource  Source        `json:"videosSource"`
	QuotaExceeded bool          `json:"quotaExceeded"`
}

// IsMock reports whether any part of the data was synthesized.
func (d *ChannelData) IsMock() bool {
	return d.Source == SourceMock
}
