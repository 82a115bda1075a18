package quota

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/guychenya/chanlyze/internal/db"
	"github.com/guychenya/chanlyze/internal/models"
	"github.com/guychenya/chanlyze/internal/store"
)

type fakeClock struct {
	t  time.Time
	mu sync.Mutex
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestLedger(t *testing.T, limit int) (*Ledger, *fakeClock, *store.Memory) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)}
	mem := store.NewMemory()
	return New(mem, Config{DailyLimit: limit, Now: clock.Now}), clock, mem
}

func TestNextReset(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"Afternoon", time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC), time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)},
		{"ExactMidnight", time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)},
		{"YearEnd", time.Date(2025, 12, 31, 23, 59, 0, 0, time.UTC), time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"NonUTCInput", time.Date(2025, 3, 10, 20, 0, 0, 0, time.FixedZone("EST", -5*3600)), time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextReset(tt.in); !got.Equal(tt.want) {
				t.Errorf("NextReset(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLedger_StateCreatedLazily(t *testing.T) {
	l, _, mem := newTestLedger(t, 0)

	if _, ok, _ := mem.Get(LedgerKey); ok {
		t.Fatal("ledger persisted before first read")
	}

	state, err := l.State()
	if err != nil {
		t.Fatalf("State() failed: %v", err)
	}
	if state.UsedUnits != 0 || state.DailyLimitUnits != DefaultDailyLimit {
		t.Errorf("fresh state = %+v", state)
	}
	if want := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC).UnixMilli(); state.ResetAtEpochMs != want {
		t.Errorf("ResetAtEpochMs = %d, want %d", state.ResetAtEpochMs, want)
	}
	if _, ok, _ := mem.Get(LedgerKey); !ok {
		t.Error("fresh state was not persisted")
	}
}

func TestLedger_CapacityBoundary(t *testing.T) {
	l, _, _ := newTestLedger(t, 10000)

	if _, err := l.Charge(9999); err != nil {
		t.Fatalf("Charge() failed: %v", err)
	}

	ok, err := l.HasCapacity(1)
	if err != nil || !ok {
		t.Errorf("HasCapacity(1) at 9999/10000 = %v, %v; want true", ok, err)
	}
	ok, err = l.HasCapacity(2)
	if err != nil || ok {
		t.Errorf("HasCapacity(2) at 9999/10000 = %v, %v; want false", ok, err)
	}
}

func TestLedger_ChargeMonotonic(t *testing.T) {
	l, clock, _ := newTestLedger(t, 10000)

	charges := []int{1, 1, 100, 3, 1, 50}
	sum := 0
	for _, u := range charges {
		clock.Advance(time.Minute)
		state, err := l.Charge(u)
		if err != nil {
			t.Fatalf("Charge(%d) failed: %v", u, err)
		}
		sum += u
		if state.UsedUnits != sum {
			t.Fatalf("UsedUnits = %d after charges summing to %d", state.UsedUnits, sum)
		}
	}

	// Ignored, not subtracted.
	state, _ := l.Charge(-5)
	if state.UsedUnits != sum {
		t.Errorf("negative charge changed usage to %d", state.UsedUnits)
	}
}

func TestLedger_ChargeDoesNotEnforceLimit(t *testing.T) {
	l, _, _ := newTestLedger(t, 10)

	state, err := l.Charge(100)
	if err != nil {
		t.Fatalf("Charge() failed: %v", err)
	}
	if state.UsedUnits != 100 {
		t.Errorf("UsedUnits = %d, want 100", state.UsedUnits)
	}
}

func TestLedger_MidnightRollover(t *testing.T) {
	l, clock, _ := newTestLedger(t, 10000)

	if _, err := l.Charge(500); err != nil {
		t.Fatalf("Charge() failed: %v", err)
	}

	// 23:59:59.999 is still the same day.
	clock.t = time.Date(2025, 3, 10, 23, 59, 59, 999e6, time.UTC)
	state, _ := l.State()
	if state.UsedUnits != 500 {
		t.Fatalf("usage reset early: %+v", state)
	}

	// Exactly at the boundary the record is not yet stale.
	clock.t = time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)
	state, _ = l.State()
	if state.UsedUnits != 500 {
		t.Fatalf("usage reset at boundary instant: %+v", state)
	}

	clock.Advance(time.Millisecond)
	state, err := l.Charge(7)
	if err != nil {
		t.Fatalf("Charge() failed: %v", err)
	}
	if state.UsedUnits != 7 {
		t.Errorf("UsedUnits after rollover = %d, want 7", state.UsedUnits)
	}
	if want := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC).UnixMilli(); state.ResetAtEpochMs != want {
		t.Errorf("ResetAtEpochMs after rollover = %d, want %d", state.ResetAtEpochMs, want)
	}
}

func TestLedger_Reset(t *testing.T) {
	l, _, _ := newTestLedger(t, 100)
	_, _ = l.Charge(100)

	if ok, _ := l.HasCapacity(1); ok {
		t.Fatal("expected exhausted ledger")
	}

	state, err := l.Reset()
	if err != nil {
		t.Fatalf("Reset() failed: %v", err)
	}
	if state.UsedUnits != 0 {
		t.Errorf("UsedUnits after reset = %d", state.UsedUnits)
	}
	if ok, _ := l.HasCapacity(100); !ok {
		t.Error("HasCapacity(100) after reset = false")
	}
}

func TestLedger_TimeUntilReset(t *testing.T) {
	l, clock, _ := newTestLedger(t, 0)

	d, err := l.TimeUntilReset()
	if err != nil {
		t.Fatalf("TimeUntilReset() failed: %v", err)
	}
	if d != 8*time.Hour+30*time.Minute {
		t.Errorf("TimeUntilReset() = %v, want 8h30m", d)
	}

	clock.Advance(45 * time.Second)
	s, _ := l.FormatTimeUntilReset()
	if s != "8h 29m" {
		t.Errorf("FormatTimeUntilReset() = %q, want %q", s, "8h 29m")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0h 0m"},
		{-time.Hour, "0h 0m"},
		{59 * time.Second, "0h 0m"},
		{90 * time.Minute, "1h 30m"},
		{23*time.Hour + 59*time.Minute + 59*time.Second, "23h 59m"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.in); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLedger_Snapshot(t *testing.T) {
	l, _, _ := newTestLedger(t, 10000)
	_, _ = l.Charge(9050)

	snap, err := l.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot() failed: %v", err)
	}
	if snap.UsedUnits != 9050 || snap.LimitUnits != 10000 {
		t.Errorf("snapshot units = %d/%d", snap.UsedUnits, snap.LimitUnits)
	}
	if snap.PercentageUsed != 90.5 {
		t.Errorf("PercentageUsed = %v, want 90.5", snap.PercentageUsed)
	}
	if snap.Level() != models.QuotaCritical {
		t.Errorf("Level() = %v, want critical", snap.Level())
	}
	if snap.TimeUntilReset != "8h 30m" {
		t.Errorf("TimeUntilReset = %q", snap.TimeUntilReset)
	}
}

func TestLedger_ConfiguredLimitOverridesPersisted(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)}
	mem := store.NewMemory()

	_, _ = New(mem, Config{DailyLimit: 10000, Now: clock.Now}).Charge(40)

	l := New(mem, Config{DailyLimit: 50, Now: clock.Now})
	state, err := l.State()
	if err != nil {
		t.Fatalf("State() failed: %v", err)
	}
	if state.DailyLimitUnits != 50 || state.UsedUnits != 40 {
		t.Errorf("state = %+v, want 40/50", state)
	}
}

func TestLedger_CorruptRecordIsReplaced(t *testing.T) {
	l, _, mem := newTestLedger(t, 0)
	_ = mem.Put(LedgerKey, []byte("{not json"))

	state, err := l.Charge(2)
	if err != nil {
		t.Fatalf("Charge() failed: %v", err)
	}
	if state.UsedUnits != 2 {
		t.Errorf("UsedUnits = %d, want 2", state.UsedUnits)
	}
}

type failingStore struct{ store.Store }

var errDisk = errors.New("disk on fire")

func (failingStore) Get(string) ([]byte, bool, error)       { return nil, false, errDisk }
func (failingStore) Update(string, store.UpdateFunc) error { return errDisk }

func TestLedger_StoreErrorsPropagate(t *testing.T) {
	l := New(failingStore{}, Config{})

	if _, err := l.State(); !errors.Is(err, errDisk) {
		t.Errorf("State() error = %v, want errDisk", err)
	}
	if _, err := l.Charge(1); !errors.Is(err, errDisk) {
		t.Errorf("Charge() error = %v, want errDisk", err)
	}
	if _, err := l.HasCapacity(1); !errors.Is(err, errDisk) {
		t.Errorf("HasCapacity() error = %v, want errDisk", err)
	}
}

func TestLedger_ConcurrentChargesOnSQLite(t *testing.T) {
	database, err := db.New(filepath.Join(t.TempDir(), "quota.db"))
	if err != nil {
		t.Fatalf("db.New() failed: %v", err)
	}
	defer database.Close()

	l := New(database, Config{DailyLimit: 10000})

	var wg sync.WaitGroup
	for range 25 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := l.Charge(1); err != nil {
				t.Errorf("Charge() failed: %v", err)
			}
		}()
	}
	wg.Wait()

	state, err := l.State()
	if err != nil {
		t.Fatalf("State() failed: %v", err)
	}
	if state.UsedUnits != 25 {
		t.Errorf("UsedUnits = %d, want 25", state.UsedUnits)
	}
}
