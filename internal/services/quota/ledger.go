// Package quota tracks the daily YouTube Data API unit budget.
package quota

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/guychenya/chanlyze/internal/logger"
	"github.com/guychenya/chanlyze/internal/models"
	"github.com/guychenya/chanlyze/internal/store"
)

// LedgerKey is the store key holding the persisted ledger.
const LedgerKey = "quota:ledger"

// DefaultDailyLimit is the default YouTube Data API daily allowance.
const DefaultDailyLimit = 10000

// Config holds configuration for the ledger.
type Config struct {
	Now        func() time.Time
	DailyLimit int
}

// Ledger is a persisted daily unit budget that resets at UTC midnight.
// The configured daily limit always overrides the persisted one.
type Ledger struct {
	store      store.Store
	now        func() time.Time
	dailyLimit int
}

// New creates a ledger backed by s.
func New(s store.Store, cfg Config) *Ledger {
	if cfg.DailyLimit <= 0 {
		cfg.DailyLimit = DefaultDailyLimit
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Ledger{
		store:      s,
		now:        cfg.Now,
		dailyLimit: cfg.DailyLimit,
	}
}

// NextReset returns the first UTC midnight strictly after t.
func NextReset(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, time.UTC)
}

// State returns the current ledger, persisting a fresh one when none exists
// or the reset boundary has passed.
func (l *Ledger) State() (models.QuotaState, error) {
	raw, ok, err := l.store.Get(LedgerKey)
	if err != nil {
		return models.QuotaState{}, fmt.Errorf("failed to read quota ledger: %w", err)
	}
	if state, fresh := l.decode(raw, ok); !fresh && state.DailyLimitUnits == l.dailyLimit {
		return state, nil
	}

	var state models.QuotaState
	err = l.update(func(s models.QuotaState) models.QuotaState {
		state = s
		return s
	})
	return state, err
}

// Charge adds units to the current day's usage. The limit is not enforced
// here; callers check HasCapacity first. Non-positive units are ignored.
func (l *Ledger) Charge(units int) (models.QuotaState, error) {
	var state models.QuotaState
	err := l.update(func(s models.QuotaState) models.QuotaState {
		if units > 0 {
			s.UsedUnits += units
		}
		state = s
		return s
	})
	return state, err
}

// HasCapacity reports whether units more can be spent today.
func (l *Ledger) HasCapacity(units int) (bool, error) {
	state, err := l.State()
	if err != nil {
		return false, err
	}
	return state.UsedUnits+units <= state.DailyLimitUnits, nil
}

// TimeUntilReset returns the time left before the next reset, never negative.
func (l *Ledger) TimeUntilReset() (time.Duration, error) {
	state, err := l.State()
	if err != nil {
		return 0, err
	}
	return l.untilReset(state), nil
}

// FormatTimeUntilReset renders TimeUntilReset as "{h}h {m}m".
func (l *Ledger) FormatTimeUntilReset() (string, error) {
	d, err := l.TimeUntilReset()
	if err != nil {
		return "", err
	}
	return FormatDuration(d), nil
}

// FormatDuration renders d as whole hours and minutes, truncating seconds.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
}

// Reset zeroes today's usage and recomputes the reset boundary.
func (l *Ledger) Reset() (models.QuotaState, error) {
	state := l.fresh()
	err := l.update(func(models.QuotaState) models.QuotaState {
		return state
	})
	return state, err
}

// Snapshot returns a display view of the ledger.
func (l *Ledger) Snapshot() (models.QuotaSnapshot, error) {
	state, err := l.State()
	if err != nil {
		return models.QuotaSnapshot{}, err
	}
	pct := 0.0
	if state.DailyLimitUnits > 0 {
		pct = math.Round(float64(state.UsedUnits)/float64(state.DailyLimitUnits)*10000) / 100
	}
	return models.QuotaSnapshot{
		UsedUnits:      state.UsedUnits,
		LimitUnits:     state.DailyLimitUnits,
		PercentageUsed: pct,
		TimeUntilReset: FormatDuration(l.untilReset(state)),
		ResetAt:        state.ResetAt(),
	}, nil
}

func (l *Ledger) untilReset(state models.QuotaState) time.Duration {
	d := time.Duration(state.ResetAtEpochMs-l.now().UnixMilli()) * time.Millisecond
	return max(0, d)
}

func (l *Ledger) fresh() models.QuotaState {
	return models.QuotaState{
		UsedUnits:       0,
		DailyLimitUnits: l.dailyLimit,
		ResetAtEpochMs:  NextReset(l.now()).UnixMilli(),
	}
}

// decode returns the stored state, or a fresh one (fresh=true) when the
// record is absent, unreadable or past its reset boundary.
func (l *Ledger) decode(raw []byte, ok bool) (state models.QuotaState, fresh bool) {
	if !ok {
		return l.fresh(), true
	}
	if err := json.Unmarshal(raw, &state); err != nil {
		logger.Warn("discarding unreadable quota ledger", "error", err)
		return l.fresh(), true
	}
	if l.now().UnixMilli() > state.ResetAtEpochMs {
		logger.Info("quota ledger rolled over", "previousUsed", state.UsedUnits)
		return l.fresh(), true
	}
	return state, false
}

func (l *Ledger) update(fn func(models.QuotaState) models.QuotaState) error {
	err := l.store.Update(LedgerKey, func(raw []byte, ok bool) ([]byte, error) {
		state, _ := l.decode(raw, ok)
		state.DailyLimitUnits = l.dailyLimit
		return json.Marshal(fn(state))
	})
	if err != nil {
		return fmt.Errorf("failed to update quota ledger: %w", err)
	}
	return nil
}
