// Package mock synthesizes plausible channel data for use when live data is
// unavailable. Channels are a deterministic function of their identifier.
package mock

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"sync"
	"time"
	"unicode/utf16"

	"github.com/guychenya/chanlyze/internal/models"
)

var channelNames = []string{
	"Tech Insights Pro",
	"Creative Studio Hub",
	"Gaming Masters",
	"Lifestyle Guru",
	"Educational Content",
	"DIY Workshop",
	"Fitness Journey",
	"Cooking Adventures",
	"Photography Tips",
	"Music Production",
}

var channelDescriptions = []string{
	"Latest technology reviews and tutorials for creators and tech enthusiasts",
	"Creative content and design inspiration for digital artists",
	"Gaming content, reviews, and live streams for hardcore gamers",
	"Lifestyle tips, wellness advice, and daily vlogs for modern living",
	"Educational content and learning resources for curious minds",
	"DIY projects, home improvement, and crafting tutorials",
	"Fitness tips, workout routines, and health transformation journeys",
	"Cooking recipes, food reviews, and culinary adventures",
	"Photography techniques, camera reviews, and visual storytelling",
	"Music production tutorials, beat making, and audio engineering",
}

var channelThumbnails = []string{
	"https://images.unsplash.com/photo-1560472354-b33ff0c44a43?w=150&h=150&fit=crop&crop=face",
	"https://images.unsplash.com/photo-1494790108755-2616b612b786?w=150&h=150&fit=crop&crop=face",
	"https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=150&h=150&fit=crop&crop=face",
	"https://images.unsplash.com/photo-1438761681033-6461ffad8d80?w=150&h=150&fit=crop&crop=face",
	"https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?w=150&h=150&fit=crop&crop=face",
}

var videoTitles = []string{
	"How to Optimize YouTube Thumbnails for More Clicks",
	"YouTube Algorithm Secrets Revealed",
	"Content Strategy That Actually Works",
	"Growing Your Channel from 0 to 100K Subscribers",
	"Best Video Editing Software for Beginners",
	"YouTube SEO Tips That Work in 2024",
	"Creating Viral Content: A Step-by-Step Guide",
	"Monetizing Your YouTube Channel Effectively",
	"Camera Setup for Professional YouTube Videos",
	"Building a Community Around Your Content",
	"Advanced Analytics: Understanding Your Audience",
	"Thumbnail Design Psychology and Best Practices",
	"Live Streaming Setup and Engagement Tips",
	"Collaboration Strategies for Channel Growth",
	"Copyright and Fair Use Guidelines for Creators",
}

var videoThumbnails = []string{
	"https://images.unsplash.com/photo-1611162617474-5b21e879e113?w=300&h=200&fit=crop",
	"https://images.unsplash.com/photo-1611224923853-80b023f02d71?w=300&h=200&fit=crop",
	"https://images.unsplash.com/photo-1560472354-b33ff0c44a43?w=300&h=200&fit=crop",
	"https://images.unsplash.com/photo-1598300042247-d088f8ab3a91?w=300&h=200&fit=crop",
	"https://images.unsplash.com/photo-1516321318423-f06f85e504b3?w=300&h=200&fit=crop",
}

var channelCreatedAt = time.Date(2020, 6, 15, 0, 0, 0, 0, time.UTC)

const mockWindow = 90 * 24 * time.Hour

// Hash is a 31-multiplier rolling hash over UTF-16 code units with 32-bit
// wraparound, folded to a non-negative value.
func Hash(identifier string) int64 {
	var h int32
	for _, cu := range utf16.Encode([]rune(identifier)) {
		h = h*31 + int32(cu)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return v
}

// Generator produces mock channels, analytics and videos.
type Generator struct {
	rng *rand.Rand
	now func() time.Time
	mu  sync.Mutex
}

// New returns a generator. A nil src seeds from runtime randomness; a nil now
// uses time.Now.
func New(src rand.Source, now func() time.Time) *Generator {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	if now == nil {
		now = time.Now
	}
	return &Generator{rng: rand.New(src), now: now}
}

// Channel returns the mock channel for identifier. Equal identifiers always
// yield equal records.
func (g *Generator) Channel(identifier string) models.ChannelRecord {
	h := Hash(identifier)
	subscribers := 5000 + h%95000
	return models.ChannelRecord{
		ID:              identifier,
		Title:           channelNames[h%int64(len(channelNames))],
		Description:     channelDescriptions[h%int64(len(channelDescriptions))],
		ThumbnailURL:    channelThumbnails[h%int64(len(channelThumbnails))],
		SubscriberCount: subscribers,
		VideoCount:      20 + h%180,
		TotalViewCount:  subscribers * (15 + h%35),
		CreatedAt:       channelCreatedAt,
		Country:         "United States",
		Keywords:        []string{"tutorial", "guide", "tips", "review", "how-to"},
	}
}

// Analytics returns the deterministic metrics paired with Channel(identifier).
func (g *Generator) Analytics(identifier string) models.AnalyticsResult {
	h := Hash(identifier)
	ch := g.Channel(identifier)
	avg := int64(math.Round(float64(ch.TotalViewCount) / float64(ch.VideoCount)))
	return models.AnalyticsResult{
		HealthScore:          int(50 + h%50),
		SubscriberGrowthPct:  float64(-10 + h%30),
		ViewGrowthPct:        float64(-5 + h%25),
		AvgViewsPerVideo:     avg,
		RecentAvgViews:       avg,
		UploadConsistencyPct: float64(60 + h%40),
		EngagementRatePct:    1 + float64(h%50)/10,
		UploadsPerMonth:      float64(2 + h%6),
	}
}

// Videos returns count random uploads, most recent first.
func (g *Generator) Videos(count int) []models.VideoRecord {
	if count <= 0 {
		return []models.VideoRecord{}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	videos := make([]models.VideoRecord, count)
	for i := range videos {
		views := 5000 + g.rng.Float64()*45000
		engagement := 0.02 + g.rng.Float64()*0.08
		minutes := 5 + g.rng.IntN(15)
		seconds := g.rng.IntN(60)
		age := time.Duration(g.rng.Int64N(int64(mockWindow)))
		title := videoTitles[i%len(videoTitles)]

		videos[i] = models.VideoRecord{
			ID:              fmt.Sprintf("video-%d", i+1),
			Title:           title,
			Description:     "Mock description for " + title,
			ThumbnailURL:    videoThumbnails[i%len(videoThumbnails)],
			PublishedAt:     now.Add(-age).UTC(),
			ViewCount:       int64(views),
			LikeCount:       int64(views * engagement * 0.8),
			CommentCount:    int64(views * engagement * 0.2),
			DurationSeconds: minutes*60 + seconds,
			Tags:            []string{"youtube", "tutorial", "guide"},
		}
	}

	sort.SliceStable(videos, func(i, j int) bool {
		return videos[i].PublishedAt.After(videos[j].PublishedAt)
	})
	return videos
}
