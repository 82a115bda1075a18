package youtube

import (
	"slices"
	"strings"
	"time"

	yt "google.golang.org/api/youtube/v3"

	"github.com/guychenya/chanlyze/internal/logger"
	"github.com/guychenya/chanlyze/internal/models"
)

func toChannelRecord(item *yt.Channel) models.ChannelRecord {
	ch := models.ChannelRecord{ID: item.Id}
	if s := item.Snippet; s != nil {
		ch.Title = s.Title
		ch.Description = s.Description
		ch.CustomURL = s.CustomUrl
		ch.Country = s.Country
		ch.ThumbnailURL = thumbnailURL(s.Thumbnails)
		ch.CreatedAt = parseTime(s.PublishedAt)
	}
	if st := item.Statistics; st != nil {
		ch.SubscriberCount = int64(st.SubscriberCount)
		ch.VideoCount = int64(st.VideoCount)
		ch.TotalViewCount = int64(st.ViewCount)
	}
	if b := item.BrandingSettings; b != nil && b.Channel != nil {
		ch.Keywords = splitKeywords(b.Channel.Keywords)
	}
	return ch
}

// toVideoRecords converts API videos, most recent first.
func toVideoRecords(items []*yt.Video) []models.VideoRecord {
	videos := make([]models.VideoRecord, 0, len(items))
	for _, item := range items {
		v := models.VideoRecord{ID: item.Id}
		if s := item.Snippet; s != nil {
			v.Title = s.Title
			v.Description = s.Description
			v.ThumbnailURL = thumbnailURL(s.Thumbnails)
			v.PublishedAt = parseTime(s.PublishedAt)
			v.Tags = s.Tags
		}
		if st := item.Statistics; st != nil {
			v.ViewCount = int64(st.ViewCount)
			v.LikeCount = int64(st.LikeCount)
			v.CommentCount = int64(st.CommentCount)
		}
		if cd := item.ContentDetails; cd != nil && cd.Duration != "" {
			secs, err := ParseDuration(cd.Duration)
			if err != nil {
				logger.Debug("ignoring video duration", "video", item.Id, "error", err)
			}
			v.DurationSeconds = secs
		}
		videos = append(videos, v)
	}
	slices.SortStableFunc(videos, func(a, b models.VideoRecord) int {
		return b.PublishedAt.Compare(a.PublishedAt)
	})
	return videos
}

func thumbnailURL(t *yt.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	for _, th := range []*yt.Thumbnail{t.Medium, t.High, t.Default} {
		if th != nil && th.Url != "" {
			return th.Url
		}
	}
	return ""
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

// splitKeywords splits a branding keyword string on spaces, keeping
// double-quoted phrases together.
func splitKeywords(s string) []string {
	var (
		words  []string
		buf    strings.Builder
		quoted bool
	)
	flush := func() {
		if buf.Len() > 0 {
			words = append(words, buf.String())
			buf.Reset()
		}
	}
	for _, r := range s {
		switch {
		case r == '"':
			flush()
			quoted = !quoted
		case r == ' ' && !quoted:
			flush()
		default:
			buf.WriteRune(r)
		}
	}
	flush()
	return words
}

func joinIDs(ids []string) string {
	return strings.Join(ids, ",")
}
