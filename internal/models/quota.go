// Package models defines data structures and domain types.
package models

import "time"

// QuotaState is the persisted daily request-cost ledger.
type QuotaState struct {
	UsedUnits       int   `json:"usedUnits"`
	DailyLimitUnits int   `json:"dailyLimitUnits"`
	ResetAtEpochMs  int64 `json:"resetAtEpochMs"`
}

// ResetAt returns the reset boundary as a time.
func (s QuotaState) ResetAt() time.Time {
	return time.UnixMilli(s.ResetAtEpochMs).UTC()
}

// Remaining returns the units left before the limit, never negative.
func (s QuotaState) Remaining() int {
	return max(0, s.DailyLimitUnits-s.UsedUnits)
}

// QuotaLevel classifies how close the ledger is to its limit.
type QuotaLevel int

// Quota levels, in increasing severity.
const (
	QuotaOK QuotaLevel = iota
	QuotaWarning
	QuotaCritical
	QuotaExhausted
)

// String returns a short label for the level.
func (l QuotaLevel) String() string {
	switch l {
	case QuotaWarning:
		return "warning"
	case QuotaCritical:
		return "critical"
	case QuotaExhausted:
		return "exhausted"
	default:
		return "ok"
	}
}

// QuotaSnapshot is a read-only view of the ledger for display.
type QuotaSnapshot struct {
	ResetAt        time.Time `json:"resetAt"`
	TimeUntilReset string    `json:"timeUntilReset"`
	UsedUnits      int       `json:"usedUnits"`
	LimitUnits     int       `json:"limitUnits"`
	PercentageUsed float64   `json:"percentageUsed"`
}

// Level maps the usage percentage onto a QuotaLevel: 100% and above is
// exhausted, 90% critical, 70% warning.
func (s QuotaSnapshot) Level() QuotaLevel {
	switch {
	case s.PercentageUsed >= 100:
		return QuotaExhausted
	case s.PercentageUsed >= 90:
		return QuotaCritical
	case s.PercentageUsed >= 70:
		return QuotaWarning
	default:
		return QuotaOK
	}
}
