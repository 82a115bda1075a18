package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/guychenya/chanlyze/internal/logger"
	"github.com/guychenya/chanlyze/internal/services"
)

const (
	// DefaultTickInterval is the default interval between ticks.
	DefaultTickInterval = 2 * time.Second

	// DefaultNotificationDuration is the default duration for notifications.
	DefaultNotificationDuration = 5 * time.Second

	// QuickNotificationDuration is for brief notifications.
	QuickNotificationDuration = 3 * time.Second

	// LongNotificationDuration is for important notifications.
	LongNotificationDuration = 10 * time.Second

	// RequestTimeout bounds one analysis or comparison including every
	// remote step.
	RequestTimeout = 2 * time.Minute

	// RecentCallsLimit is how many call log rows the quota tab shows.
	RecentCallsLimit = 15

	// CallWindowHours is the call log window summarized on the quota tab.
	CallWindowHours = 24
)

// tickCmd returns a command that sends a TickMsg after the specified interval.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// defaultTickCmd returns a command that sends a TickMsg after the default interval.
func defaultTickCmd() tea.Cmd {
	return tickCmd(DefaultTickInterval)
}

// analyzeCmd resolves and analyzes one channel.
func analyzeCmd(mgr *services.Manager, url string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), RequestTimeout)
		defer cancel()

		a, err := mgr.Analyze(ctx, url)
		return AnalysisResultMsg{URL: url, Analysis: a, Error: err}
	}
}

// compareCmd analyzes two channels and compares them.
func compareCmd(mgr *services.Manager, first, second string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), RequestTimeout)
		defer cancel()

		r, err := mgr.Compare(ctx, first, second)
		return ComparisonResultMsg{Report: r, Error: err}
	}
}

// loadQuotaCmd reads the ledger and the call log. Call log failures only
// leave the log empty; a ledger failure is reported.
func loadQuotaCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		snap, err := mgr.QuotaSnapshot()
		if err != nil {
			return QuotaLoadedMsg{Error: err}
		}

		msg := QuotaLoadedMsg{Snapshot: snap}
		if msg.Calls, err = mgr.RecentCalls(RecentCallsLimit); err != nil {
			logger.Debug("call log unavailable", "error", err)
			return msg
		}
		if msg.Stats, err = mgr.CallStats(CallWindowHours); err != nil {
			logger.Debug("call stats unavailable", "error", err)
		}
		if msg.Hourly, err = mgr.HourlyCalls(CallWindowHours); err != nil {
			logger.Debug("hourly call stats unavailable", "error", err)
		}
		return msg
	}
}

// resetQuotaCmd zeroes the ledger.
func resetQuotaCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		snap, err := mgr.ResetQuota()
		return QuotaResetMsg{Snapshot: snap, Error: err}
	}
}

// clearCacheCmd drops every cached response.
func clearCacheCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		n, err := mgr.ClearCache()
		return CacheClearedMsg{Removed: n, Error: err}
	}
}

// saveAPIKeyCmd persists a new API key.
func saveAPIKeyCmd(mgr *services.Manager, key string) tea.Cmd {
	return func() tea.Msg {
		return APIKeySavedMsg{Error: mgr.SaveAPIKey(key)}
	}
}

// subscribeToServicesCmd returns a command that subscribes to service events.
func subscribeToServicesCmd(mgr *services.Manager) tea.Cmd {
	ch, _ := mgr.Subscribe()
	return func() tea.Msg {
		return SubscriptionEventMsg{Channel: ch}
	}
}

// waitForServiceEventCmd returns a command that waits for the next service event.
func waitForServiceEventCmd(ch <-chan services.ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return ServiceEventMsg{Event: event}
	}
}

// clearNotificationCmd returns a command that removes a notification after a delay.
func clearNotificationCmd(id string, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(_ time.Time) tea.Msg {
		return RemoveNotificationMsg{ID: id}
	})
}

func notifyCmd(t NotificationType, message string, d time.Duration) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{Type: t, Message: message, Duration: d}
	}
}

// notifySuccessCmd returns a command that adds a success notification.
func notifySuccessCmd(message string) tea.Cmd {
	return notifyCmd(NotificationSuccess, message, DefaultNotificationDuration)
}

// notifyErrorCmd returns a command that adds an error notification.
func notifyErrorCmd(message string) tea.Cmd {
	return notifyCmd(NotificationError, message, LongNotificationDuration)
}

// notifyWarningCmd returns a command that adds a warning notification.
func notifyWarningCmd(message string) tea.Cmd {
	return notifyCmd(NotificationWarning, message, DefaultNotificationDuration)
}

// notifyInfoCmd returns a command that adds an info notification.
func notifyInfoCmd(message string) tea.Cmd {
	return notifyCmd(NotificationInfo, message, QuickNotificationDuration)
}
