package youtube

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/googleapi"

	"github.com/guychenya/chanlyze/internal/models"
	"github.com/guychenya/chanlyze/internal/services/cache"
)

// MaxSearchResults is the API cap on search page size.
const MaxSearchResults = 50

// SearchItem is one channel returned by a search.
type SearchItem struct {
	ChannelID    string `json:"channelId"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	ThumbnailURL string `json:"thumbnailUrl"`
}

// SearchResult is the outcome of a channel search. When the quota is
// exhausted Items is empty and QuotaExceeded is set.
type SearchResult struct {
	Query         string        `json:"query"`
	Items         []SearchItem  `json:"items"`
	Source        models.Source `json:"source"`
	QuotaExceeded bool          `json:"quotaExceeded"`
}

// Search looks up channels matching query. Each uncached search costs
// CostSearch units.
func (c *Client) Search(ctx context.Context, query string, maxResults int) (*SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty search query", ErrInvalidRequest)
	}
	if maxResults <= 0 || maxResults > MaxSearchResults {
		maxResults = 10
	}

	items, src, err := fetch(ctx, c, request[[]SearchItem]{
		cache:  c.search,
		key:    cache.NewKey(EndpointSearch, "part", "snippet", "q", query, "type", "channel", "maxResults", fmt.Sprint(maxResults)),
		target: query,
		cost:   CostSearch,
		call: func(ctx context.Context, opts ...googleapi.CallOption) ([]SearchItem, error) {
			resp, err := c.service.Search.List([]string{"snippet"}).
				Q(query).
				Type("channel").
				MaxResults(int64(maxResults)).
				Context(ctx).
				Do(opts...)
			if err != nil {
				return nil, err
			}
			items := make([]SearchItem, 0, len(resp.Items))
			for _, r := range resp.Items {
				item := SearchItem{}
				if r.Id != nil {
					item.ChannelID = r.Id.ChannelId
				}
				if s := r.Snippet; s != nil {
					item.Title = s.Title
					item.Description = s.Description
					item.ThumbnailURL = thumbnailURL(s.Thumbnails)
					if item.ChannelID == "" {
						item.ChannelID = s.ChannelId
					}
				}
				items = append(items, item)
			}
			return items, nil
		},
	})
	switch {
	case errors.Is(err, errQuotaExceeded):
		return &SearchResult{Query: query, Items: []SearchItem{}, Source: models.SourceMock, QuotaExceeded: true}, nil
	case err != nil:
		return nil, fmt.Errorf("failed to search channels: %w", err)
	}
	return &SearchResult{Query: query, Items: items, Source: src}, nil
}
