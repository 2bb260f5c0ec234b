package services

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/gunmagohkin/co2-dashboard-daily/internal/config"
	"github.com/gunmagohkin/co2-dashboard-daily/internal/models"
	"github.com/gunmagohkin/co2-dashboard-daily/internal/services/recordstore"
)

func newTestManager(t *testing.T, mockFallback bool) *Manager {
	t.Helper()

	tmpDir := t.TempDir()
	cfg := &config.Config{
		DatabasePath:    filepath.Join(tmpDir, "test.db"),
		PlantsPath:      filepath.Join(tmpDir, "plants.json"),
		RefreshInterval: time.Hour,
		MockFallback:    mockFallback,
	}

	mgr, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager() failed: %v", err)
	}
	t.Cleanup(func() {
		if err := mgr.Close(); err != nil {
			t.Logf("Close() failed: %v", err)
		}
	})
	return mgr
}

func TestNewManager(t *testing.T) {
	mgr := newTestManager(t, false)

	if mgr.Plants() == nil {
		t.Error("plants service should be initialized")
	}
	if mgr.Records() == nil {
		t.Error("record store service should be initialized")
	}
	if mgr.Database() == nil {
		t.Error("database should be initialized")
	}

	stats := mgr.GetStats()
	if stats.PlantCount != 1 {
		t.Errorf("PlantCount = %d, want 1 (default roster)", stats.PlantCount)
	}
}

func TestManager_Subscription(t *testing.T) {
	mgr := newTestManager(t, false)

	ch, cmd := mgr.Subscribe()
	if ch == nil {
		t.Fatal("Subscribe() returned nil channel")
	}
	if cmd == nil {
		t.Fatal("Subscribe() returned nil command")
	}

	mgr.Unsubscribe(ch)

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("channel should be closed after Unsubscribe")
		}
	case <-time.After(time.Second):
		t.Error("channel should be closed after Unsubscribe")
	}
}

func TestManager_Broadcast(t *testing.T) {
	mgr := newTestManager(t, false)

	ch, _ := mgr.Subscribe()
	defer mgr.Unsubscribe(ch)

	event := StatsEvent{PlantCount: 3}
	mgr.broadcast(event)

	deadline := time.After(time.Second)
	for {
		select {
		case e := <-ch:
			if stats, ok := e.(StatsEvent); ok {
				if stats != event {
					t.Errorf("got event %v, want %v", stats, event)
				}
				return
			}
			// Roster load events may arrive first.
		case <-deadline:
			t.Fatal("timeout waiting for broadcast")
		}
	}
}

func TestManager_FetchDeliversRecords(t *testing.T) {
	mgr := newTestManager(t, true)

	ch, _ := mgr.Subscribe()
	defer mgr.Unsubscribe(ch)

	view := models.ViewState{
		Year:     2024,
		Month:    time.January,
		Plant:    models.DefaultPlant,
		Category: "SW220",
	}
	id := mgr.Fetch(view)

	deadline := time.After(2 * time.Second)
	for {
		select {
		case e := <-ch:
			if updated, ok := e.(RecordsUpdatedEvent); ok {
				if updated.RequestID != id {
					t.Errorf("request id = %d, want %d", updated.RequestID, id)
				}
				if updated.Source != recordstore.SourceMock {
					t.Errorf("source = %q, want mock (no client configured)", updated.Source)
				}
				if len(updated.Records) == 0 {
					t.Error("no records delivered")
				}
				return
			}
		case <-deadline:
			t.Fatal("timeout waiting for RecordsUpdatedEvent")
		}
	}
}

func TestManager_FetchWithoutData(t *testing.T) {
	mgr := newTestManager(t, false)

	ch, _ := mgr.Subscribe()
	defer mgr.Unsubscribe(ch)

	mgr.Fetch(models.ViewState{
		Year:     2024,
		Month:    time.January,
		Plant:    models.DefaultPlant,
		Category: "SW220",
	})

	deadline := time.After(2 * time.Second)
	for {
		select {
		case e := <-ch:
			if errEvent, ok := e.(ErrorEvent); ok {
				if errEvent.Service != "records" {
					t.Errorf("service = %q, want records", errEvent.Service)
				}
				return
			}
		case <-deadline:
			t.Fatal("timeout waiting for ErrorEvent")
		}
	}
}

func TestManager_GetMonthlyTotals(t *testing.T) {
	mgr := newTestManager(t, false)

	view := models.ViewState{Year: 2024, Month: time.June, Plant: models.DefaultPlant, Category: "SW220"}
	totals, err := mgr.GetMonthlyTotals(view, 12)
	if err != nil {
		t.Fatalf("GetMonthlyTotals() failed: %v", err)
	}
	if len(totals) != 0 {
		t.Errorf("fresh database should have no totals, got %d", len(totals))
	}
}

func TestManager_MarkNotified(t *testing.T) {
	mgr := newTestManager(t, false)

	if !mgr.markNotified("delivery|SW220|plant|5") {
		t.Error("first mark should return true")
	}
	if mgr.markNotified("delivery|SW220|plant|5") {
		t.Error("second mark should return false")
	}
	if !mgr.markNotified("delivery|SW220|plant|6") {
		t.Error("different key should return true")
	}
}

func TestWaitForEvent(t *testing.T) {
	ch := make(chan ServiceEvent, 1)
	ch <- StatsEvent{}

	cmd := WaitForEvent(ch)
	if msg := cmd(); msg == nil {
		t.Error("WaitForEvent cmd returned nil msg")
	}
}

func TestServiceEvent_Interface(t *testing.T) {
	var _ ServiceEvent = PlantsChangedEvent{}
	var _ ServiceEvent = RecordsFetchingEvent{}
	var _ ServiceEvent = RecordsUpdatedEvent{}
	var _ ServiceEvent = ErrorEvent{}
	var _ ServiceEvent = StatsEvent{}
}
