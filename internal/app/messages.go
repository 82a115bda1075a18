package app

import (
	"time"

	"github.com/guychenya/chanlyze/internal/models"
	"github.com/guychenya/chanlyze/internal/services"
)

// TickMsg is sent periodically to expire notifications.
type TickMsg struct {
	Time time.Time
}

// StartLoadingMsg signals that a resource is starting to load.
type StartLoadingMsg struct {
	Resource string
}

// StopLoadingMsg signals that a resource has finished loading.
type StopLoadingMsg struct {
	Resource string
}

// AnalyzeRequestMsg asks the root model to analyze a channel.
type AnalyzeRequestMsg struct {
	URL string
}

// AnalysisResultMsg carries the outcome of an analysis.
type AnalysisResultMsg struct {
	Error    error
	Analysis *models.Analysis
	URL      string
}

// CompareRequestMsg asks the root model to compare two channels.
type CompareRequestMsg struct {
	First  string
	Second string
}

// ComparisonResultMsg carries the outcome of a comparison.
type ComparisonResultMsg struct {
	Error  error
	Report *models.ComparisonReport
}

// QuotaLoadedMsg carries the ledger snapshot and call log.
type QuotaLoadedMsg struct {
	Error    error
	Stats    *models.TotalStats
	Calls    []models.APICall
	Hourly   []models.HourlyStats
	Snapshot models.QuotaSnapshot
}

// ResetQuotaMsg asks the root model to reset the quota ledger.
type ResetQuotaMsg struct{}

// QuotaResetMsg carries the result of a ledger reset.
type QuotaResetMsg struct {
	Error    error
	Snapshot models.QuotaSnapshot
}

// ClearCacheMsg asks the root model to drop all cached responses.
type ClearCacheMsg struct{}

// CacheClearedMsg carries the result of a cache clear.
type CacheClearedMsg struct {
	Error   error
	Removed int
}

// SaveAPIKeyMsg asks the root model to persist a new API key.
type SaveAPIKeyMsg struct {
	Key string
}

// APIKeySavedMsg carries the result of saving an API key.
type APIKeySavedMsg struct {
	Error error
}

// RefreshMsg requests a refresh of data.
type RefreshMsg struct {
	Resource string
}

// AddNotificationMsg requests adding a new notification.
type AddNotificationMsg struct {
	Message  string
	Type     NotificationType
	Duration time.Duration
}

// RemoveNotificationMsg requests removal of a notification.
type RemoveNotificationMsg struct {
	ID string
}

// ServiceEventMsg wraps a service event from the service manager.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// SubscriptionEventMsg is the callback wrapper for service subscription.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}

// ErrorMsg represents a general error.
type ErrorMsg struct {
	Error   error
	Context string
}

// TabSwitchMsg requests switching to a specific tab.
type TabSwitchMsg struct {
	Tab TabID
}

// ToggleHelpMsg toggles the help display.
type ToggleHelpMsg struct{}
