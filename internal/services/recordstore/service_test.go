package recordstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gunmagohkin/co2-dashboard-daily/internal/models"
)

type fakeFetcher struct {
	records []models.Record
	err     error
	calls   int
}

func (f *fakeFetcher) FetchMonth(_ context.Context, _ int, _ time.Month, _, _ string) ([]models.Record, error) {
	f.calls++
	return f.records, f.err
}

type fakeStore struct {
	upserted []models.Record
	cached   []models.Record
	totals   []models.MonthlyTotal
}

func (f *fakeStore) UpsertRecords(_ context.Context, records []models.Record) error {
	f.upserted = append(f.upserted, records...)
	return nil
}

func (f *fakeStore) GetMonthRecords(_ context.Context, _ int, _ time.Month, _, _ string) ([]models.Record, error) {
	return f.cached, nil
}

func (f *fakeStore) UpsertMonthlyTotal(_ context.Context, total models.MonthlyTotal) error {
	f.totals = append(f.totals, total)
	return nil
}

func testView() models.ViewState {
	return models.ViewState{
		Year:     2024,
		Month:    time.January,
		Plant:    models.DefaultPlant,
		Category: "SW220",
	}
}

func liveRecords() []models.Record {
	return []models.Record{{
		Date:     time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC),
		Category: "SW220",
		Plant:    models.DefaultPlant,
		Fields: map[string]string{
			"Total_Consumed": "12.5",
			"Machine_Run":    "3",
		},
	}}
}

func newTestService(client Fetcher, store Store) *Service {
	return New(client, store, Config{
		RefreshInterval: time.Hour,
		FetchTimeout:    time.Second,
		MockFallback:    false,
	})
}

func waitForEvent(t *testing.T, s *Service, want EventType) Event {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-s.Events():
			if ev.Type == want {
				return ev
			}
		case <-deadline:
			t.Fatalf("timed out waiting for event type %d", want)
		}
	}
}

func TestServiceFetch_Live(t *testing.T) {
	fetcher := &fakeFetcher{records: liveRecords()}
	store := &fakeStore{}
	s := newTestService(fetcher, store)
	defer s.Close()

	id := s.Fetch(testView())

	ev := waitForEvent(t, s, EventRecordsUpdated)
	if ev.RequestID != id {
		t.Errorf("event request id = %d, want %d", ev.RequestID, id)
	}
	if ev.Source != SourceLive {
		t.Errorf("source = %q, want live", ev.Source)
	}
	if len(ev.Records) != 1 {
		t.Fatalf("got %d records", len(ev.Records))
	}

	if got := s.GetCached(testView()); len(got) != 1 {
		t.Errorf("GetCached() = %d records, want 1", len(got))
	}
	if len(store.upserted) != 1 {
		t.Errorf("records not persisted: %d", len(store.upserted))
	}
	if len(store.totals) != 1 || store.totals[0].TotalConsumed != 12.5 {
		t.Errorf("monthly total not persisted: %+v", store.totals)
	}
}

func TestServiceFetch_FallsBackToCache(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("connection refused")}
	store := &fakeStore{cached: liveRecords()}
	s := newTestService(fetcher, store)
	defer s.Close()

	s.Fetch(testView())

	ev := waitForEvent(t, s, EventRecordsUpdated)
	if ev.Source != SourceCache {
		t.Errorf("source = %q, want cache", ev.Source)
	}
	if fetcher.calls != 3 {
		t.Errorf("live fetch tried %d times, want 3 retries", fetcher.calls)
	}
}

func TestServiceFetch_FallsBackToMock(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("down")}
	s := New(fetcher, &fakeStore{}, Config{
		RefreshInterval: time.Hour,
		FetchTimeout:    time.Second,
		MockFallback:    true,
	})
	defer s.Close()

	s.Fetch(testView())

	ev := waitForEvent(t, s, EventRecordsUpdated)
	if ev.Source != SourceMock {
		t.Errorf("source = %q, want mock", ev.Source)
	}
	if len(ev.Records) == 0 {
		t.Error("mock fallback produced no records")
	}
}

func TestServiceFetch_NoDataAnywhere(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("down")}
	s := newTestService(fetcher, &fakeStore{})
	defer s.Close()

	s.Fetch(testView())

	ev := waitForEvent(t, s, EventFetchError)
	if ev.Source != SourceNone {
		t.Errorf("source = %q, want none", ev.Source)
	}
	if ev.Error == nil {
		t.Error("error event should carry an error")
	}
}

func TestServiceFetch_StaleResponseDiscarded(t *testing.T) {
	fetcher := &fakeFetcher{records: liveRecords()}
	s := newTestService(fetcher, &fakeStore{})
	defer s.Close()

	view := testView()

	// Simulate an in-flight request that was superseded: request 1
	// completes after request 2 was issued.
	s.latestID.Store(2)
	s.fetch(1, view)

	select {
	case ev := <-s.Events():
		if ev.Type == EventRecordsUpdated {
			t.Errorf("stale response should be discarded, got event %+v", ev)
		}
	case <-time.After(100 * time.Millisecond):
	}

	if got := s.GetCached(view); got != nil {
		t.Error("stale response must not populate the cache")
	}

	// The current request still lands.
	s.fetch(2, view)
	ev := waitForEvent(t, s, EventRecordsUpdated)
	if ev.RequestID != 2 {
		t.Errorf("request id = %d, want 2", ev.RequestID)
	}
}

func TestServiceFetch_RequestIDsIncrease(t *testing.T) {
	fetcher := &fakeFetcher{records: liveRecords()}
	s := newTestService(fetcher, &fakeStore{})
	defer s.Close()

	id1 := s.Fetch(testView())
	id2 := s.Fetch(testView())
	if id2 <= id1 {
		t.Errorf("request ids must increase: %d then %d", id1, id2)
	}

	stats := s.GetStats()
	if stats.LatestRequest != id2 {
		t.Errorf("LatestRequest = %d, want %d", stats.LatestRequest, id2)
	}
}

func TestServiceFetch_LiveEmptyFallsThrough(t *testing.T) {
	fetcher := &fakeFetcher{records: nil}
	store := &fakeStore{cached: liveRecords()}
	s := newTestService(fetcher, store)
	defer s.Close()

	s.Fetch(testView())

	ev := waitForEvent(t, s, EventRecordsUpdated)
	if ev.Source != SourceCache {
		t.Errorf("empty live month should fall back to cache, got %q", ev.Source)
	}
}
