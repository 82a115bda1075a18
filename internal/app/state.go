// Package app provides the main Bubble Tea application model and state management.
package app

import (
	"fmt"
	"sync"
	"time"

	"github.com/guychenya/chanlyze/internal/models"
	"github.com/guychenya/chanlyze/internal/services/credentials"
)

// NotificationType defines the type of notification.
type NotificationType int

const (
	// NotificationSuccess represents a success notification.
	NotificationSuccess NotificationType = iota
	// NotificationError represents an error notification.
	NotificationError
	// NotificationWarning represents a warning notification.
	NotificationWarning
	// NotificationInfo represents an informational notification.
	NotificationInfo
	// NotificationLoading represents a loading notification with spinner.
	NotificationLoading
)

// LoadingNotificationID is the fixed ID for loading notifications.
const LoadingNotificationID = "__loading__"

// maxNotifications bounds the toast stack.
const maxNotifications = 10

// String returns the string representation of a NotificationType.
func (n NotificationType) String() string {
	switch n {
	case NotificationSuccess:
		return "success"
	case NotificationError:
		return "error"
	case NotificationWarning:
		return "warning"
	case NotificationInfo:
		return "info"
	case NotificationLoading:
		return "loading"
	default:
		return "unknown"
	}
}

// Notification represents a user-facing notification message.
type Notification struct {
	CreatedAt time.Time
	ID        string
	Message   string
	Type      NotificationType
	Duration  time.Duration
}

// IsExpired returns true if the notification has expired.
func (n *Notification) IsExpired() bool {
	if n.Duration <= 0 {
		return false
	}
	return time.Since(n.CreatedAt) > n.Duration
}

// Resources tracked by the loading state.
const (
	ResourceAnalyze = "analyze"
	ResourceCompare = "compare"
	ResourceQuota   = "quota"
)

// LoadingState tracks loading states for different resources.
type LoadingState struct {
	Analyze bool
	Compare bool
	Quota   bool
}

// State is the data shared between the root model and its tabs.
type State struct {
	mu sync.RWMutex

	analysis   *models.Analysis
	comparison *models.ComparisonReport

	quota       models.QuotaSnapshot
	hasQuota    bool
	recentCalls []models.APICall
	callStats   *models.TotalStats
	hourly      []models.HourlyStats

	credSource credentials.Source
	credValid  bool

	Loading     LoadingState
	LastUpdated time.Time

	notifications   []Notification
	notificationSeq int
}

// NewState creates an empty state.
func NewState() *State {
	return &State{
		notifications: make([]Notification, 0),
		credSource:    credentials.SourceNone,
	}
}

// SetLoading sets the loading state for a specific resource.
func (s *State) SetLoading(resource string, loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch resource {
	case ResourceAnalyze:
		s.Loading.Analyze = loading
	case ResourceCompare:
		s.Loading.Compare = loading
	case ResourceQuota:
		s.Loading.Quota = loading
	}
}

// IsLoading reports whether one resource is loading.
func (s *State) IsLoading(resource string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch resource {
	case ResourceAnalyze:
		return s.Loading.Analyze
	case ResourceCompare:
		return s.Loading.Compare
	case ResourceQuota:
		return s.Loading.Quota
	}
	return false
}

// AnyLoading returns true if any resource is currently loading.
func (s *State) AnyLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Loading.Analyze || s.Loading.Compare || s.Loading.Quota
}

// SetAnalysis stores the most recent single-channel analysis.
func (s *State) SetAnalysis(a *models.Analysis) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.analysis = a
	s.LastUpdated = time.Now()
	if a != nil {
		s.quota, s.hasQuota = a.Quota, true
	}
}

// GetAnalysis returns the most recent analysis, or nil.
func (s *State) GetAnalysis() *models.Analysis {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.analysis
}

// SetComparison stores the most recent comparison.
func (s *State) SetComparison(r *models.ComparisonReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.comparison = r
	s.LastUpdated = time.Now()
}

// GetComparison returns the most recent comparison, or nil.
func (s *State) GetComparison() *models.ComparisonReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.comparison
}

// SetQuota updates the ledger snapshot.
func (s *State) SetQuota(snap models.QuotaSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quota, s.hasQuota = snap, true
}

// GetQuota returns the latest ledger snapshot and whether one was loaded.
func (s *State) GetQuota() (models.QuotaSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.quota, s.hasQuota
}

// SetCallLog updates the API call log view.
func (s *State) SetCallLog(calls []models.APICall, stats *models.TotalStats, hourly []models.HourlyStats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recentCalls = calls
	s.callStats = stats
	s.hourly = hourly
}

// GetRecentCalls returns a copy of the recent API calls.
func (s *State) GetRecentCalls() []models.APICall {
	s.mu.RLock()
	defer s.mu.RUnlock()
	calls := make([]models.APICall, len(s.recentCalls))
	copy(calls, s.recentCalls)
	return calls
}

// GetCallStats returns the call log totals, or nil.
func (s *State) GetCallStats() *models.TotalStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.callStats
}

// GetHourlyCalls returns the per-hour call log aggregates.
func (s *State) GetHourlyCalls() []models.HourlyStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hourly
}

// SetCredentials records where the API key came from and whether it is usable.
func (s *State) SetCredentials(src credentials.Source, valid bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credSource, s.credValid = src, valid
}

// GetCredentials returns the API key source and validity.
func (s *State) GetCredentials() (credentials.Source, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credSource, s.credValid
}

// AddNotification adds a new notification and returns its ID.
func (s *State) AddNotification(notifType NotificationType, message string, duration time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notificationSeq++
	id := fmt.Sprintf("%s-%d", time.Now().Format("20060102150405"), s.notificationSeq)

	s.notifications = append(s.notifications, Notification{
		ID:        id,
		Type:      notifType,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  duration,
	})

	if len(s.notifications) > maxNotifications {
		s.notifications = s.notifications[len(s.notifications)-maxNotifications:]
	}

	return id
}

// RemoveNotification removes a notification by ID.
func (s *State) RemoveNotification(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// ClearExpiredNotifications removes all expired notifications.
func (s *State) ClearExpiredNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	s.notifications = active
}

// GetNotifications returns a copy of all active notifications.
func (s *State) GetNotifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	return active
}

// SetLoadingNotification sets a loading notification message.
func (s *State) SetLoadingNotification(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications[i].Message = message
			return
		}
	}

	s.notifications = append(s.notifications, Notification{
		ID:        LoadingNotificationID,
		Type:      NotificationLoading,
		Message:   message,
		CreatedAt: time.Now(),
	})
}

// ClearLoadingNotification removes the loading notification.
func (s *State) ClearLoadingNotification() {
	s.RemoveNotification(LoadingNotificationID)
}
