package db

import (
	"testing"
	"time"

	"github.com/guychenya/chanlyze/internal/models"
)

func TestInsertAPICall(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	call := &models.APICall{
		RequestID:  "req-123",
		Endpoint:   "channels",
		Target:     "@mkbhd",
		Cost:       1,
		Source:     models.SourceLive,
		StatusCode: 200,
		DurationMs: 150,
	}

	if err := db.InsertAPICall(call); err != nil {
		t.Fatalf("InsertAPICall() failed: %v", err)
	}

	if call.ID == 0 {
		t.Error("InsertAPICall() should set ID")
	}
}

func TestInsertAPICall_WithError(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	call := &models.APICall{
		Endpoint:   "search",
		StatusCode: 403,
		Error:      "quotaExceeded",
	}

	if err := db.InsertAPICall(call); err != nil {
		t.Fatalf("InsertAPICall() with error failed: %v", err)
	}

	recent, err := db.GetRecentAPICalls(1)
	if err != nil {
		t.Fatalf("GetRecentAPICalls() failed: %v", err)
	}
	if len(recent) != 1 {
		t.Fatalf("got %d calls, want 1", len(recent))
	}
	if recent[0].Error != "quotaExceeded" || recent[0].Source != models.SourceLive {
		t.Errorf("unexpected call %+v", recent[0])
	}
}

func TestGetRecentAPICalls(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	now := time.Now()
	calls := []*models.APICall{
		{Endpoint: "channels", Target: "a", Cost: 1, Timestamp: now.Add(-3 * time.Hour), StatusCode: 200},
		{Endpoint: "playlistItems", Target: "b", Cost: 1, Timestamp: now.Add(-2 * time.Hour), StatusCode: 200},
		{Endpoint: "videos", Target: "c", Cost: 1, Timestamp: now.Add(-1 * time.Hour), StatusCode: 200},
	}

	for _, call := range calls {
		if err := db.InsertAPICall(call); err != nil {
			t.Fatalf("InsertAPICall() failed: %v", err)
		}
	}

	recent, err := db.GetRecentAPICalls(2)
	if err != nil {
		t.Fatalf("GetRecentAPICalls() failed: %v", err)
	}

	if len(recent) != 2 {
		t.Fatalf("GetRecentAPICalls(2) returned %d calls, want 2", len(recent))
	}
	if recent[0].Endpoint != "videos" || recent[1].Endpoint != "playlistItems" {
		t.Errorf("calls not ordered most recent first: %s, %s", recent[0].Endpoint, recent[1].Endpoint)
	}
}

func TestGetTotalAndHourlyStats(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	now := time.Now()
	calls := []*models.APICall{
		{Endpoint: "search", Target: "x", Cost: 100, Timestamp: now.Add(-10 * time.Minute), StatusCode: 200, DurationMs: 100},
		{Endpoint: "channels", Target: "x", Cost: 1, Timestamp: now.Add(-5 * time.Minute), StatusCode: 200, DurationMs: 50},
		{Endpoint: "channels", Target: "y", Cost: 0, Timestamp: now.Add(-1 * time.Minute), StatusCode: 404},
		{Endpoint: "channels", Target: "z", Cost: 1, Timestamp: now.Add(-72 * time.Hour), StatusCode: 200},
	}
	for _, call := range calls {
		if err := db.InsertAPICall(call); err != nil {
			t.Fatalf("InsertAPICall() failed: %v", err)
		}
	}

	total, err := db.GetTotalStats(24)
	if err != nil {
		t.Fatalf("GetTotalStats() failed: %v", err)
	}
	if total.TotalCalls != 3 {
		t.Errorf("TotalCalls = %d, want 3", total.TotalCalls)
	}
	if total.TotalUnits != 101 {
		t.Errorf("TotalUnits = %d, want 101", total.TotalUnits)
	}
	if total.ErrorCount != 1 {
		t.Errorf("ErrorCount = %d, want 1", total.ErrorCount)
	}
	if total.UniqueTargets != 2 {
		t.Errorf("UniqueTargets = %d, want 2", total.UniqueTargets)
	}

	hourly, err := db.GetHourlyStats(24)
	if err != nil {
		t.Fatalf("GetHourlyStats() failed: %v", err)
	}
	sum := 0
	for _, h := range hourly {
		sum += h.TotalCalls
	}
	if sum != 3 {
		t.Errorf("hourly calls sum = %d, want 3", sum)
	}
}

func TestCleanupOldAPICalls(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	old := &models.APICall{Endpoint: "channels", Timestamp: time.Now().AddDate(0, 0, -40)}
	fresh := &models.APICall{Endpoint: "channels", Timestamp: time.Now()}
	for _, c := range []*models.APICall{old, fresh} {
		if err := db.InsertAPICall(c); err != nil {
			t.Fatalf("InsertAPICall() failed: %v", err)
		}
	}

	n, err := db.CleanupOldAPICalls(30)
	if err != nil {
		t.Fatalf("CleanupOldAPICalls() failed: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted %d rows, want 1", n)
	}
}
