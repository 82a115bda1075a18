// Package youtube resolves channels through the YouTube Data API v3 while
// respecting the local quota ledger, serving cached responses and falling
// back to mock data when the daily budget is spent.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	"github.com/guychenya/chanlyze/internal/logger"
	"github.com/guychenya/chanlyze/internal/models"
	"github.com/guychenya/chanlyze/internal/services/cache"
	"github.com/guychenya/chanlyze/internal/services/mock"
	"github.com/guychenya/chanlyze/internal/services/quota"
	"github.com/guychenya/chanlyze/internal/store"
)

// Quota cost of each endpoint, in units.
const (
	CostChannels      = 1
	CostPlaylistItems = 1
	CostVideos        = 1
	CostSearch        = 100
)

// Endpoint names used for cache keys and the call log.
const (
	EndpointChannels      = "channels"
	EndpointPlaylistItems = "playlistItems"
	EndpointVideos        = "videos"
	EndpointSearch        = "search"
)

const (
	// DefaultTimeout bounds every live call.
	DefaultTimeout = 30 * time.Second
	// DefaultMaxVideos is the playlist page size and the API maximum.
	DefaultMaxVideos = 50
)

// Credentials supplies the API key attached to every call.
type Credentials interface {
	Current() string
	Valid() bool
}

// CallLog records remote call outcomes.
type CallLog interface {
	InsertAPICall(call *models.APICall) error
}

// Options configures a Client. Ledger and Store are required.
type Options struct {
	Ledger            *quota.Ledger
	Store             store.Store
	Credentials       Credentials
	Mock              *mock.Generator
	CallLog           CallLog
	HTTPClient        *http.Client
	Now               func() time.Time
	Endpoint          string
	UserAgent         string
	Timeout           time.Duration
	CacheTTL          time.Duration
	MaxVideos         int
	RequestsPerSecond float64
}

// Client resolves channels and their uploads. It is safe for concurrent use.
type Client struct {
	service   *yt.Service
	ledger    *quota.Ledger
	store     store.Store
	creds     Credentials
	mock      *mock.Generator
	calls     CallLog
	limiter   *rate.Limiter
	now       func() time.Time
	timeout   time.Duration
	cacheTTL  time.Duration
	maxVideos int

	channels  *cache.Cache[models.ChannelRecord]
	ids       *cache.Cache[string]
	playlists *cache.Cache[[]string]
	videos    *cache.Cache[[]models.VideoRecord]
	search    *cache.Cache[[]SearchItem]
}

// New creates a client.
func New(ctx context.Context, opts Options) (*Client, error) {
	if opts.Ledger == nil || opts.Store == nil {
		return nil, errors.New("youtube client requires a ledger and a store")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = cache.DefaultTTL
	}
	if opts.MaxVideos <= 0 || opts.MaxVideos > DefaultMaxVideos {
		opts.MaxVideos = DefaultMaxVideos
	}
	if opts.Mock == nil {
		opts.Mock = mock.New(nil, opts.Now)
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	svcOpts := []option.ClientOption{option.WithHTTPClient(hc)}
	if opts.Endpoint != "" {
		svcOpts = append(svcOpts, option.WithEndpoint(opts.Endpoint))
	}
	service, err := yt.NewService(ctx, svcOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube service: %w", err)
	}
	service.UserAgent = opts.UserAgent

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	cacheOpts := cache.Options{Now: opts.Now, TTL: opts.CacheTTL}
	return &Client{
		service:   service,
		ledger:    opts.Ledger,
		store:     opts.Store,
		creds:     opts.Credentials,
		mock:      opts.Mock,
		calls:     opts.CallLog,
		limiter:   rate.NewLimiter(limit, 1),
		now:       opts.Now,
		timeout:   opts.Timeout,
		cacheTTL:  opts.CacheTTL,
		maxVideos: opts.MaxVideos,
		channels:  cache.New[models.ChannelRecord](opts.Store, cacheOpts),
		ids:       cache.New[string](opts.Store, cacheOpts),
		playlists: cache.New[[]string](opts.Store, cacheOpts),
		videos:    cache.New[[]models.VideoRecord](opts.Store, cacheOpts),
		search:    cache.New[[]SearchItem](opts.Store, cacheOpts),
	}, nil
}

// Resolve fetches the channel referenced by input together with its most
// recent uploads. Quota exhaustion, local or remote, is never an error:
// the affected part is replaced by mock data and QuotaExceeded is set.
func (c *Client) Resolve(ctx context.Context, input string) (*models.ChannelData, error) {
	ref, err := ParseChannelURL(input)
	if err != nil {
		return nil, err
	}

	data := &models.ChannelData{Input: input, Identifier: ref.ID}
	log := logger.With("identifier", ref.ID)

	ch, src, err := c.lookupChannel(ctx, ref)
	switch {
	case errors.Is(err, errQuotaExceeded):
		log.Warn("quota exhausted, serving mock channel")
		return c.mockData(data), nil
	case err != nil:
		return nil, fmt.Errorf("failed to resolve channel %q: %w", ref.ID, err)
	}
	data.Channel, data.ChannelSource = ch, src

	videos, src, err := c.uploads(ctx, ch.ID)
	switch {
	case errors.Is(err, errQuotaExceeded):
		log.Warn("quota exhausted, serving mock videos", "channel", ch.ID)
		videos, src = c.mock.Videos(c.mockVideoCount(ch)), models.SourceMock
		data.QuotaExceeded = true
	case errors.Is(err, ErrChannelNotFound) && data.ChannelSource == models.SourceCache:
		c.forgetChannel(ref, ch.ID)
		return nil, fmt.Errorf("channel %s was removed: %w", ch.ID, err)
	case err != nil:
		return nil, fmt.Errorf("failed to fetch videos for %s: %w", ch.ID, err)
	}
	data.Videos, data.VideosSource = videos, src
	data.Source = models.CombineSources(data.ChannelSource, data.VideosSource)

	log.Debug("channel resolved", "source", data.Source, "videos", len(videos), "cache", c.channels.Stats())
	return data, nil
}

// ClearCache drops every cached response.
func (c *Client) ClearCache() (int, error) {
	return cache.Clear(c.store)
}

// PurgeExpired drops cached responses past their TTL.
func (c *Client) PurgeExpired() (int, error) {
	return cache.PurgeExpired(c.store, c.now())
}

func (c *Client) mockData(data *models.ChannelData) *models.ChannelData {
	ch := c.mock.Channel(data.Identifier)
	data.Channel = ch
	data.Videos = c.mock.Videos(c.mockVideoCount(ch))
	data.Source = models.SourceMock
	data.ChannelSource = models.SourceMock
	data.VideosSource = models.SourceMock
	data.QuotaExceeded = true
	return data
}

func (c *Client) mockVideoCount(ch models.ChannelRecord) int {
	if ch.VideoCount <= 0 {
		return c.maxVideos
	}
	return int(min(int64(c.maxVideos), ch.VideoCount))
}

// channelKey is the cache key of a channel profile lookup.
func channelKey(ref ChannelRef) cache.RequestKey {
	params := []string{"part", "snippet,statistics,brandingSettings"}
	switch ref.Kind {
	case KindHandle:
		params = append(params, "forHandle", "@"+ref.ID)
	case KindUser:
		params = append(params, "forUsername", ref.ID)
	default:
		params = append(params, "id", ref.ID)
	}
	return cache.NewKey(EndpointChannels, params...)
}

// forgetChannel drops cached profiles of a channel that no longer exists.
func (c *Client) forgetChannel(ref ChannelRef, channelID string) {
	for _, key := range []cache.RequestKey{channelKey(ref), channelKey(ChannelRef{ID: channelID, Kind: KindID})} {
		if err := c.channels.Invalidate(key); err != nil {
			logger.Warn("failed to invalidate cached channel", "channel", channelID, "error", err)
		}
	}
}

// lookupChannel fetches the channel profile. Custom names are first mapped
// to a channel ID through search.
func (c *Client) lookupChannel(ctx context.Context, ref ChannelRef) (models.ChannelRecord, models.Source, error) {
	var searchSrc models.Source = models.SourceCache
	if ref.Kind == KindCustom {
		id, src, err := c.searchChannelID(ctx, ref.ID)
		if err != nil {
			return models.ChannelRecord{}, src, err
		}
		ref, searchSrc = ChannelRef{ID: id, Kind: KindID}, src
	}

	ch, src, err := fetch(ctx, c, request[models.ChannelRecord]{
		cache:  c.channels,
		key:    channelKey(ref),
		target: ref.ID,
		cost:   CostChannels,
		call: func(ctx context.Context, opts ...googleapi.CallOption) (models.ChannelRecord, error) {
			call := c.service.Channels.List([]string{"snippet", "statistics", "brandingSettings"}).Context(ctx)
			switch ref.Kind {
			case KindHandle:
				call = call.ForHandle("@" + ref.ID)
			case KindUser:
				call = call.ForUsername(ref.ID)
			default:
				call = call.Id(ref.ID)
			}
			resp, err := call.Do(opts...)
			if err != nil {
				return models.ChannelRecord{}, err
			}
			if len(resp.Items) == 0 {
				return models.ChannelRecord{}, nil
			}
			return toChannelRecord(resp.Items[0]), nil
		},
	})
	if err != nil {
		return models.ChannelRecord{}, src, err
	}
	if ch.ID == "" {
		return models.ChannelRecord{}, src, fmt.Errorf("%w: %s", ErrChannelNotFound, ref.ID)
	}
	return ch, models.CombineSources(searchSrc, src), nil
}

func (c *Client) searchChannelID(ctx context.Context, name string) (string, models.Source, error) {
	id, src, err := fetch(ctx, c, request[string]{
		cache:  c.ids,
		key:    cache.NewKey(EndpointSearch, "part", "id", "q", name, "type", "channel", "maxResults", "1"),
		target: name,
		cost:   CostSearch,
		call: func(ctx context.Context, opts ...googleapi.CallOption) (string, error) {
			resp, err := c.service.Search.List([]string{"id"}).
				Q(name).
				Type("channel").
				MaxResults(1).
				Context(ctx).
				Do(opts...)
			if err != nil {
				return "", err
			}
			if len(resp.Items) == 0 || resp.Items[0].Id == nil {
				return "", nil
			}
			return resp.Items[0].Id.ChannelId, nil
		},
	})
	if err != nil {
		return "", src, err
	}
	if id == "" {
		return "", src, fmt.Errorf("%w: %s", ErrChannelNotFound, name)
	}
	return id, src, nil
}

// uploads fetches the most recent uploads of a channel in three steps:
// uploads playlist, playlist video IDs, then video statistics. An error
// from any step aborts the whole fetch.
func (c *Client) uploads(ctx context.Context, channelID string) ([]models.VideoRecord, models.Source, error) {
	playlistID, playlistSrc, err := fetch(ctx, c, request[string]{
		cache:  c.ids,
		key:    cache.NewKey(EndpointChannels, "part", "contentDetails", "id", channelID),
		target: channelID,
		cost:   CostChannels,
		call: func(ctx context.Context, opts ...googleapi.CallOption) (string, error) {
			resp, err := c.service.Channels.List([]string{"contentDetails"}).Id(channelID).Context(ctx).Do(opts...)
			if err != nil {
				return "", err
			}
			if len(resp.Items) == 0 || resp.Items[0].ContentDetails == nil || resp.Items[0].ContentDetails.RelatedPlaylists == nil {
				return "", nil
			}
			return resp.Items[0].ContentDetails.RelatedPlaylists.Uploads, nil
		},
	})
	if err != nil {
		return nil, playlistSrc, err
	}
	if playlistID == "" {
		return []models.VideoRecord{}, playlistSrc, nil
	}

	videoIDs, itemsSrc, err := fetch(ctx, c, request[[]string]{
		cache:  c.playlists,
		key:    cache.NewKey(EndpointPlaylistItems, "part", "contentDetails", "playlistId", playlistID, "maxResults", fmt.Sprint(c.maxVideos)),
		target: playlistID,
		cost:   CostPlaylistItems,
		call: func(ctx context.Context, opts ...googleapi.CallOption) ([]string, error) {
			resp, err := c.service.PlaylistItems.List([]string{"contentDetails"}).
				PlaylistId(playlistID).
				MaxResults(int64(c.maxVideos)).
				Context(ctx).
				Do(opts...)
			if err != nil {
				return nil, err
			}
			ids := make([]string, 0, len(resp.Items))
			for _, item := range resp.Items {
				if item.ContentDetails != nil && item.ContentDetails.VideoId != "" {
					ids = append(ids, item.ContentDetails.VideoId)
				}
			}
			return ids, nil
		},
	})
	if err != nil {
		return nil, itemsSrc, err
	}
	if len(videoIDs) == 0 {
		return []models.VideoRecord{}, models.CombineSources(playlistSrc, itemsSrc), nil
	}

	videos, videosSrc, err := fetch(ctx, c, request[[]models.VideoRecord]{
		cache:  c.videos,
		key:    cache.NewKey(EndpointVideos, "part", "snippet,statistics,contentDetails", "id", joinIDs(videoIDs)),
		target: channelID,
		cost:   CostVideos,
		call: func(ctx context.Context, opts ...googleapi.CallOption) ([]models.VideoRecord, error) {
			resp, err := c.service.Videos.List([]string{"snippet", "statistics", "contentDetails"}).
				Id(videoIDs...).
				Context(ctx).
				Do(opts...)
			if err != nil {
				return nil, err
			}
			return toVideoRecords(resp.Items), nil
		},
	})
	if err != nil {
		return nil, videosSrc, err
	}
	return videos, models.CombineSources(playlistSrc, itemsSrc, videosSrc), nil
}

// request describes one cacheable, quota-charged remote call.
type request[T any] struct {
	cache  *cache.Cache[T]
	call   func(ctx context.Context, opts ...googleapi.CallOption) (T, error)
	key    cache.RequestKey
	target string
	cost   int
}

// fetch runs a request through the cache, the quota ledger, the credential
// check and the rate limiter, in that order. Insufficient capacity and
// remote quota errors both return errQuotaExceeded with SourceMock.
func fetch[T any](ctx context.Context, c *Client, req request[T]) (T, models.Source, error) {
	var zero T
	endpoint := req.key.Endpoint

	if v, ok, err := req.cache.Get(req.key); err != nil {
		logger.Warn("cache lookup failed", "endpoint", endpoint, "error", err)
	} else if ok {
		c.record(endpoint, req.target, 0, models.SourceCache, 0, 0, nil)
		return v, models.SourceCache, nil
	}

	ok, err := c.ledger.HasCapacity(req.cost)
	if err != nil {
		return zero, "", fmt.Errorf("failed to check quota: %w", err)
	}
	if !ok {
		c.record(endpoint, req.target, 0, models.SourceMock, 0, 0, errQuotaExceeded)
		return zero, models.SourceMock, errQuotaExceeded
	}

	if c.creds == nil || !c.creds.Valid() {
		return zero, "", fmt.Errorf("%w: no API key configured", ErrInvalidCredentials)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return zero, "", classify(endpoint, ctx.Err())
		}
		return zero, "", fmt.Errorf("rate limiter: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	v, err := req.call(callCtx, googleapi.QueryParameter("key", c.creds.Current()))
	elapsed := time.Since(start)
	if err != nil {
		status := statusCode(err)
		err = classify(endpoint, err)
		if errors.Is(err, errQuotaExceeded) {
			c.record(endpoint, req.target, 0, models.SourceMock, status, elapsed, err)
			return zero, models.SourceMock, err
		}
		c.record(endpoint, req.target, 0, models.SourceLive, status, elapsed, err)
		return zero, "", err
	}

	if _, err := c.ledger.Charge(req.cost); err != nil {
		return zero, "", fmt.Errorf("failed to charge quota: %w", err)
	}
	if err := req.cache.Set(req.key, v, c.cacheTTL); err != nil {
		logger.Warn("failed to cache response", "endpoint", endpoint, "error", err)
	}
	c.record(endpoint, req.target, req.cost, models.SourceLive, http.StatusOK, elapsed, nil)
	return v, models.SourceLive, nil
}

func (c *Client) record(endpoint, target string, cost int, src models.Source, status int, elapsed time.Duration, callErr error) {
	if c.calls == nil {
		return
	}
	call := &models.APICall{
		Timestamp:  c.now(),
		RequestID:  uuid.NewString(),
		Endpoint:   endpoint,
		Target:     target,
		Cost:       cost,
		Source:     src,
		StatusCode: status,
		DurationMs: int(elapsed.Milliseconds()),
	}
	if callErr != nil {
		call.Error = callErr.Error()
	}
	if err := c.calls.InsertAPICall(call); err != nil {
		logger.Warn("failed to record API call", "endpoint", endpoint, "error", err)
	}
}
