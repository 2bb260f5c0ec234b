package recordstore

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gunmagohkin/co2-dashboard-daily/internal/logger"
	"github.com/gunmagohkin/co2-dashboard-daily/internal/models"
	"github.com/gunmagohkin/co2-dashboard-daily/internal/report"
)

// Event represents a record store service event.
type Event struct {
	Type      EventType
	RequestID uint64
	View      models.ViewState
	Records   []models.Record
	Source    Source
	Error     error
}

// EventType defines the type of record store event.
type EventType int

const (
	// EventFetching indicates that a month fetch has started.
	EventFetching EventType = iota
	// EventRecordsUpdated indicates that a month's records are available.
	EventRecordsUpdated
	// EventFetchError indicates the live fetch failed and no fallback
	// produced data.
	EventFetchError
)

// Source identifies where a month's records came from.
type Source string

const (
	// SourceLive means the records came from the remote record store.
	SourceLive Source = "live"
	// SourceCache means the records were served from the local cache.
	SourceCache Source = "cache"
	// SourceMock means generated sample data was substituted.
	SourceMock Source = "mock"
	// SourceNone means no data was available from any source.
	SourceNone Source = "none"
)

// Fetcher retrieves one month of records from the remote store.
type Fetcher interface {
	FetchMonth(ctx context.Context, year int, month time.Month, category, plant string) ([]models.Record, error)
}

// Store persists fetched records and derived monthly totals.
type Store interface {
	UpsertRecords(ctx context.Context, records []models.Record) error
	GetMonthRecords(ctx context.Context, year int, month time.Month, category, plant string) ([]models.Record, error)
	UpsertMonthlyTotal(ctx context.Context, total models.MonthlyTotal) error
}

// Config holds configuration for the record store service.
type Config struct {
	RefreshInterval time.Duration
	FetchTimeout    time.Duration
	MockFallback    bool
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		RefreshInterval: 5 * time.Minute,
		FetchTimeout:    60 * time.Second,
		MockFallback:    true,
	}
}

// Service coordinates month fetches, the fallback chain and the cache.
// Each fetch carries a monotonically increasing request id; responses
// that are not the latest issued request are discarded, so a user
// rapidly changing filters never sees a stale month land on top of a
// newer one.
type Service struct {
	client Fetcher
	store  Store
	config Config

	requestSeq atomic.Uint64
	latestID   atomic.Uint64

	mu       sync.RWMutex
	cache    map[string][]models.Record
	lastView models.ViewState
	hasView  bool

	eventChan chan Event
	stopChan  chan struct{}
}

// New creates a new record store service. client and store may each be
// nil: without a client the service serves cache and mock data only,
// and without a store nothing is persisted.
func New(client Fetcher, store Store, config Config) *Service {
	if config.RefreshInterval == 0 {
		config = DefaultConfig()
	}
	if config.FetchTimeout == 0 {
		config.FetchTimeout = 60 * time.Second
	}

	s := &Service{
		client:    client,
		store:     store,
		config:    config,
		cache:     make(map[string][]models.Record),
		eventChan: make(chan Event, 100),
		stopChan:  make(chan struct{}),
	}

	// Start background refresh goroutine
	go s.pollRecords()

	return s
}

// Events returns the event channel.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

// Fetch starts an asynchronous month fetch for the view and returns the
// request id. The result arrives as an EventRecordsUpdated event unless
// a newer fetch supersedes it first.
func (s *Service) Fetch(view models.ViewState) uint64 {
	id := s.requestSeq.Add(1)
	s.latestID.Store(id)

	s.mu.Lock()
	s.lastView = view
	s.hasView = true
	s.mu.Unlock()

	s.sendEvent(Event{Type: EventFetching, RequestID: id, View: view})

	go s.fetch(id, view)
	return id
}

// GetCached returns the last fetched records for a view, nil when the
// view has not been fetched yet.
func (s *Service) GetCached(view models.ViewState) []models.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cache[viewKey(view)]
}

func (s *Service) fetch(id uint64, view models.ViewState) {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.FetchTimeout)
	defer cancel()

	records, source := s.loadMonth(ctx, view)

	// Stale-response guard: a newer fetch was issued while this one
	// was in flight.
	if id != s.latestID.Load() {
		logger.Debug("discarding stale fetch response",
			"request_id", id, "latest", s.latestID.Load())
		return
	}

	if source == SourceNone {
		s.sendEvent(Event{
			Type:      EventFetchError,
			RequestID: id,
			View:      view,
			Source:    source,
			Error:     fmt.Errorf("no data available for %s", view.MonthLabel()),
		})
		return
	}

	s.mu.Lock()
	s.cache[viewKey(view)] = records
	s.mu.Unlock()

	s.sendEvent(Event{
		Type:      EventRecordsUpdated,
		RequestID: id,
		View:      view,
		Records:   records,
		Source:    source,
	})
}

// loadMonth walks the fallback chain: live fetch, then local cache,
// then generated sample data when enabled.
func (s *Service) loadMonth(ctx context.Context, view models.ViewState) ([]models.Record, Source) {
	if s.client != nil {
		records, err := s.fetchLive(ctx, view)
		if err != nil {
			logger.Warn("live fetch failed, falling back",
				"month", view.MonthLabel(), "category", view.Category, "error", err)
		} else if len(records) > 0 {
			return records, SourceLive
		}
	}

	if s.store != nil {
		cached, err := s.store.GetMonthRecords(ctx, view.Year, view.Month, view.Category, view.Plant)
		if err != nil {
			logger.Error("cache read failed", "error", err)
		} else if len(cached) > 0 {
			return cached, SourceCache
		}
	}

	if s.config.MockFallback {
		return GenerateMockRecords(view.Year, view.Month, view.Category, view.Plant), SourceMock
	}

	return nil, SourceNone
}

// fetchLive pulls one month from the remote store with retries, then
// persists the result.
func (s *Service) fetchLive(ctx context.Context, view models.ViewState) ([]models.Record, error) {
	var (
		records []models.Record
		err     error
	)

	// Retry with exponential backoff
	backoff := 500 * time.Millisecond
	for i := 0; i < 3; i++ {
		records, err = s.client.FetchMonth(ctx, view.Year, view.Month, view.Category, view.Plant)
		if err == nil {
			break
		}
		if i < 2 {
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			backoff *= 2
		}
	}
	if err != nil {
		return nil, err
	}

	s.persist(ctx, view, records)
	return records, nil
}

// persist stores live records and the month's computed totals.
func (s *Service) persist(ctx context.Context, view models.ViewState, records []models.Record) {
	if s.store == nil || len(records) == 0 {
		return
	}

	if err := s.store.UpsertRecords(ctx, records); err != nil {
		logger.Error("failed to cache records", "error", err)
	}

	cfg, ok := view.Config()
	if !ok {
		return
	}
	stats := report.Summarize(report.Filter(records, view.Category, view.Plant), cfg.Spec)
	total := models.MonthlyTotal{
		Year:          view.Year,
		Month:         int(view.Month),
		Category:      view.Category,
		Plant:         view.Plant,
		TotalConsumed: stats.TotalConsumed,
		OperatingDays: stats.ActiveDays,
	}
	if err := s.store.UpsertMonthlyTotal(ctx, total); err != nil {
		logger.Error("failed to store monthly total", "error", err)
	}
}

// pollRecords refreshes the most recent view on an interval.
func (s *Service) pollRecords() {
	ticker := time.NewTicker(s.config.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.mu.RLock()
			view, ok := s.lastView, s.hasView
			s.mu.RUnlock()
			if ok {
				s.Fetch(view)
			}
		case <-s.stopChan:
			return
		}
	}
}

// sendEvent sends an event to the event channel non-blocking.
func (s *Service) sendEvent(event Event) {
	select {
	case s.eventChan <- event:
	default:
		// Channel full, drop oldest
		select {
		case <-s.eventChan:
		default:
		}
		select {
		case s.eventChan <- event:
		default:
		}
	}
}

// Close stops the service and cleans up resources.
func (s *Service) Close() error {
	close(s.stopChan)
	return nil
}

// Stats returns statistics about the record store service.
type Stats struct {
	CachedMonths  int
	LatestRequest uint64
}

// GetStats returns current statistics.
func (s *Service) GetStats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Stats{
		CachedMonths:  len(s.cache),
		LatestRequest: s.latestID.Load(),
	}
}

func viewKey(view models.ViewState) string {
	return fmt.Sprintf("%04d-%02d|%s|%s", view.Year, view.Month, view.Category, view.Plant)
}
