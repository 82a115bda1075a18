// Package services provides service orchestration for the TUI.
package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"
	"golang.org/x/sync/errgroup"

	"github.com/guychenya/chanlyze/internal/config"
	"github.com/guychenya/chanlyze/internal/db"
	"github.com/guychenya/chanlyze/internal/logger"
	"github.com/guychenya/chanlyze/internal/models"
	"github.com/guychenya/chanlyze/internal/services/analytics"
	"github.com/guychenya/chanlyze/internal/services/credentials"
	"github.com/guychenya/chanlyze/internal/services/mock"
	"github.com/guychenya/chanlyze/internal/services/quota"
	"github.com/guychenya/chanlyze/internal/services/youtube"
	"github.com/guychenya/chanlyze/internal/store"
	"github.com/guychenya/chanlyze/internal/version"
)

// callLogRetentionDays bounds how long the API call log is kept.
const callLogRetentionDays = 30

type (
	// AnalysisCompletedEvent is emitted after a channel has been analyzed.
	AnalysisCompletedEvent struct {
		Analysis *models.Analysis
	}

	// ComparisonCompletedEvent is emitted after two channels have been compared.
	ComparisonCompletedEvent struct {
		Report *models.ComparisonReport
	}

	// QuotaUpdatedEvent is emitted whenever the quota ledger may have changed.
	QuotaUpdatedEvent struct {
		Snapshot models.QuotaSnapshot
	}

	// CredentialsChangedEvent is emitted when the API key is reloaded.
	CredentialsChangedEvent struct {
		Source credentials.Source
		Valid  bool
	}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Error   error
		Service string
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (AnalysisCompletedEvent) isServiceEvent()   {}
func (ComparisonCompletedEvent) isServiceEvent() {}
func (QuotaUpdatedEvent) isServiceEvent()        {}
func (CredentialsChangedEvent) isServiceEvent()  {}
func (ErrorEvent) isServiceEvent()               {}

// Notifier shows a desktop notification.
type Notifier func(title, message string) error

// DesktopNotifier notifies through the OS notification center.
func DesktopNotifier(title, message string) error {
	return beeep.Notify(title, message, "")
}

// Deps holds the collaborators of a Manager. Store is required; everything
// else has a usable zero value.
type Deps struct {
	Store             store.Store
	DB                *db.DB
	Credentials       *credentials.Provider
	HTTPClient        *http.Client
	Now               func() time.Time
	Notify            Notifier
	Rand              rand.Source
	Endpoint          string
	DailyLimit        int
	CacheTTL          time.Duration
	Timeout           time.Duration
	MaxVideos         int
	RequestsPerSecond float64
}

// Manager wires the quota ledger, cache, mock generator and API client into
// the operations the UI needs.
type Manager struct {
	mu          sync.RWMutex
	database    *db.DB
	ledger      *quota.Ledger
	client      *youtube.Client
	creds       *credentials.Provider
	mock        *mock.Generator
	notify      Notifier
	now         func() time.Time
	eventChan   chan ServiceEvent
	stopChan    chan struct{}
	subscribers []chan<- ServiceEvent

	lastLevel    models.QuotaLevel
	mockNotified bool
}

// NewManager creates a manager backed by the SQLite database and key file
// named in cfg.
func NewManager(cfg *config.Config) (*Manager, error) {
	database, err := db.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	creds, err := credentials.New(cfg.APIKey, cfg.APIKeyFile)
	if err != nil {
		_ = database.Close()
		return nil, err
	}

	if n, err := database.CleanupOldAPICalls(callLogRetentionDays); err != nil {
		logger.Warn("failed to clean up API call log", "error", err)
	} else if n > 0 {
		logger.Debug("cleaned up API call log", "rows", n)
		if err := database.Vacuum(); err != nil {
			logger.Warn("failed to vacuum database", "error", err)
		}
	}

	var notify Notifier
	if cfg.Notifications {
		notify = DesktopNotifier
	}

	m, err := NewManagerWithDeps(Deps{
		Store:             database,
		DB:                database,
		Credentials:       creds,
		Notify:            notify,
		Endpoint:          cfg.APIEndpoint,
		DailyLimit:        cfg.DailyQuotaLimit,
		CacheTTL:          cfg.CacheTTL,
		Timeout:           cfg.RequestTimeout,
		MaxVideos:         cfg.MaxVideos,
		RequestsPerSecond: cfg.RequestsPerSecond,
	})
	if err != nil {
		_ = creds.Close()
		_ = database.Close()
		return nil, err
	}

	if n, err := m.client.PurgeExpired(); err != nil {
		logger.Warn("failed to purge expired cache entries", "error", err)
	} else if n > 0 {
		logger.Debug("purged expired cache entries", "entries", n)
	}

	return m, nil
}

// NewManagerWithDeps creates a manager from explicit collaborators.
func NewManagerWithDeps(d Deps) (*Manager, error) {
	if d.Store == nil {
		return nil, errors.New("manager requires a store")
	}
	if d.Now == nil {
		d.Now = time.Now
	}

	m := &Manager{
		database:  d.DB,
		creds:     d.Credentials,
		notify:    d.Notify,
		now:       d.Now,
		mock:      mock.New(d.Rand, d.Now),
		eventChan: make(chan ServiceEvent, 100),
		stopChan:  make(chan struct{}),
	}
	m.ledger = quota.New(d.Store, quota.Config{Now: d.Now, DailyLimit: d.DailyLimit})

	var calls youtube.CallLog
	if d.DB != nil {
		calls = d.DB
	}
	var creds youtube.Credentials
	if d.Credentials != nil {
		creds = d.Credentials
	}

	client, err := youtube.New(context.Background(), youtube.Options{
		Ledger:            m.ledger,
		Store:             d.Store,
		Credentials:       creds,
		Mock:              m.mock,
		CallLog:           calls,
		HTTPClient:        d.HTTPClient,
		Now:               d.Now,
		Endpoint:          d.Endpoint,
		UserAgent:         version.UserAgent(),
		Timeout:           d.Timeout,
		CacheTTL:          d.CacheTTL,
		MaxVideos:         d.MaxVideos,
		RequestsPerSecond: d.RequestsPerSecond,
	})
	if err != nil {
		return nil, err
	}
	m.client = client

	if snap, err := m.ledger.Snapshot(); err == nil {
		m.lastLevel = snap.Level()
	}

	if m.creds != nil {
		go m.routeEvents()
	}

	return m, nil
}

// routeEvents converts credential provider events into service events.
func (m *Manager) routeEvents() {
	for {
		select {
		case event := <-m.creds.Events():
			switch event.Type {
			case credentials.EventLoaded, credentials.EventChanged:
				m.broadcast(CredentialsChangedEvent{Source: event.Source, Valid: m.creds.Valid()})
			case credentials.EventError:
				m.broadcast(ErrorEvent{Service: "credentials", Error: event.Error})
			}

		case <-m.stopChan:
			return
		}
	}
}

// Analyze resolves a channel and derives its analytics and recommendations.
func (m *Manager) Analyze(ctx context.Context, channelURL string) (*models.Analysis, error) {
	a, err := m.analyze(ctx, channelURL)
	if err != nil {
		m.broadcast(ErrorEvent{Service: "youtube", Error: err})
		return nil, err
	}
	m.afterRequest(a.Data.QuotaExceeded)
	m.broadcast(AnalysisCompletedEvent{Analysis: a})
	return a, nil
}

func (m *Manager) analyze(ctx context.Context, channelURL string) (*models.Analysis, error) {
	data, err := m.client.Resolve(ctx, channelURL)
	if err != nil {
		return nil, err
	}

	now := m.now()
	var res models.AnalyticsResult
	if data.ChannelSource == models.SourceMock {
		res = m.mock.Analytics(data.Identifier)
	} else {
		res = analytics.Compute(data.Channel, data.Videos, now)
	}

	snap, err := m.ledger.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("failed to read quota: %w", err)
	}

	logger.Info("channel analyzed",
		"channel", data.Channel.Title,
		"source", data.Source,
		"health", res.HealthScore,
		"quota_used", snap.UsedUnits)

	return &models.Analysis{
		AnalyzedAt:      now,
		Data:            *data,
		Analytics:       res,
		Recommendations: analytics.Recommend(data.Channel, res),
		Quota:           snap,
	}, nil
}

// Compare analyzes two channels concurrently and compares them.
func (m *Manager) Compare(ctx context.Context, firstURL, secondURL string) (*models.ComparisonReport, error) {
	var first, second *models.Analysis

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a, err := m.analyze(gctx, firstURL)
		if err != nil {
			return fmt.Errorf("first channel: %w", err)
		}
		first = a
		return nil
	})
	g.Go(func() error {
		a, err := m.analyze(gctx, secondURL)
		if err != nil {
			return fmt.Errorf("second channel: %w", err)
		}
		second = a
		return nil
	})
	if err := g.Wait(); err != nil {
		m.broadcast(ErrorEvent{Service: "youtube", Error: err})
		return nil, err
	}

	report := &models.ComparisonReport{
		First:  first,
		Second: second,
		Comparison: analytics.Compare(
			analytics.Subject{Channel: first.Data.Channel, Analytics: first.Analytics},
			analytics.Subject{Channel: second.Data.Channel, Analytics: second.Analytics},
		),
		QuotaExceeded: first.Data.QuotaExceeded || second.Data.QuotaExceeded,
	}

	m.afterRequest(report.QuotaExceeded)
	m.broadcast(ComparisonCompletedEvent{Report: report})
	return report, nil
}

// Search finds channels by name.
func (m *Manager) Search(ctx context.Context, query string, maxResults int) (*youtube.SearchResult, error) {
	res, err := m.client.Search(ctx, query, maxResults)
	if err != nil {
		m.broadcast(ErrorEvent{Service: "youtube", Error: err})
		return nil, err
	}
	m.afterRequest(res.QuotaExceeded)
	return res, nil
}

// QuotaSnapshot returns the current quota usage.
func (m *Manager) QuotaSnapshot() (models.QuotaSnapshot, error) {
	return m.ledger.Snapshot()
}

// ResetQuota zeroes the ledger.
func (m *Manager) ResetQuota() (models.QuotaSnapshot, error) {
	if _, err := m.ledger.Reset(); err != nil {
		return models.QuotaSnapshot{}, fmt.Errorf("failed to reset quota: %w", err)
	}
	snap, err := m.ledger.Snapshot()
	if err != nil {
		return models.QuotaSnapshot{}, err
	}

	m.mu.Lock()
	m.lastLevel = snap.Level()
	m.mockNotified = false
	m.mu.Unlock()

	logger.Info("quota ledger reset")
	m.broadcast(QuotaUpdatedEvent{Snapshot: snap})
	return snap, nil
}

// ClearCache drops every cached API response.
func (m *Manager) ClearCache() (int, error) {
	n, err := m.client.ClearCache()
	if err != nil {
		return n, fmt.Errorf("failed to clear cache: %w", err)
	}
	logger.Info("response cache cleared", "entries", n)
	return n, nil
}

// RecentCalls returns the most recent API calls, newest first.
func (m *Manager) RecentCalls(limit int) ([]models.APICall, error) {
	if m.database == nil {
		return nil, fmt.Errorf("database not initialized")
	}
	return m.database.GetRecentAPICalls(limit)
}

// CallStats returns aggregated call statistics for the last hours.
func (m *Manager) CallStats(hours int) (*models.TotalStats, error) {
	if m.database == nil {
		return nil, fmt.Errorf("database not initialized")
	}
	return m.database.GetTotalStats(hours)
}

// HourlyCalls returns per-hour call statistics for the last hours.
func (m *Manager) HourlyCalls(hours int) ([]models.HourlyStats, error) {
	if m.database == nil {
		return nil, fmt.Errorf("database not initialized")
	}
	return m.database.GetHourlyStats(hours)
}

// HasCredentials reports whether an API key is configured.
func (m *Manager) HasCredentials() bool {
	return m.creds != nil && m.creds.Valid()
}

// SaveAPIKey persists key to the key file and makes it current.
func (m *Manager) SaveAPIKey(key string) error {
	if m.creds == nil {
		return fmt.Errorf("credentials not initialized")
	}
	if err := m.creds.Save(key); err != nil {
		return err
	}
	m.broadcast(CredentialsChangedEvent{Source: m.creds.Source(), Valid: m.creds.Valid()})
	return nil
}

// afterRequest publishes the quota state and raises notifications when
// usage crosses the critical level or mock data is first served.
func (m *Manager) afterRequest(mocked bool) {
	snap, err := m.ledger.Snapshot()
	if err != nil {
		logger.Warn("failed to read quota", "error", err)
		return
	}
	m.broadcast(QuotaUpdatedEvent{Snapshot: snap})

	level := snap.Level()

	m.mu.Lock()
	crossed := level >= models.QuotaCritical && m.lastLevel < models.QuotaCritical
	m.lastLevel = level
	firstMock := mocked && !m.mockNotified
	if mocked {
		m.mockNotified = true
	} else if level < models.QuotaCritical {
		m.mockNotified = false
	}
	notify := m.notify
	m.mu.Unlock()

	if notify == nil {
		return
	}
	if crossed {
		body := fmt.Sprintf("%.1f%% of the daily API quota used (%d/%d units). Resets in %s.",
			snap.PercentageUsed, snap.UsedUnits, snap.LimitUnits, snap.TimeUntilReset)
		if err := notify("YouTube quota critical", body); err != nil {
			logger.Debug("notification failed", "error", err)
		}
	}
	if firstMock {
		body := fmt.Sprintf("Daily quota exhausted. Showing sample data until reset in %s.", snap.TimeUntilReset)
		if err := notify("Showing sample data", body); err != nil {
			logger.Debug("notification failed", "error", err)
		}
	}
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	select {
	case m.eventChan <- event:
	default:
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, WaitForEvent(ch)
}

// WaitForEvent returns a tea.Cmd for the next event on a channel.
func WaitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// Database returns the database instance for direct access.
func (m *Manager) Database() *db.DB {
	return m.database
}

// Close closes the manager and all its services.
func (m *Manager) Close() error {
	close(m.stopChan)

	m.mu.Lock()
	for _, sub := range m.subscribers {
		close(sub)
	}
	m.subscribers = nil
	m.mu.Unlock()

	var errs []error
	if m.creds != nil {
		if err := m.creds.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if m.database != nil {
		if err := m.database.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
