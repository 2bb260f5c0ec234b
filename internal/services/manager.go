// Package services provides service orchestration for the TUI.
package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"

	"github.com/gunmagohkin/co2-dashboard-daily/internal/config"
	"github.com/gunmagohkin/co2-dashboard-daily/internal/db"
	"github.com/gunmagohkin/co2-dashboard-daily/internal/models"
	"github.com/gunmagohkin/co2-dashboard-daily/internal/report"
	"github.com/gunmagohkin/co2-dashboard-daily/internal/services/plants"
	"github.com/gunmagohkin/co2-dashboard-daily/internal/services/recordstore"
)

type (
	// PlantsChangedEvent is emitted when the plant roster changes.
	PlantsChangedEvent struct {
		Plants      []models.Plant
		ActivePlant *models.Plant
	}

	// RecordsFetchingEvent is emitted when a month fetch starts.
	RecordsFetchingEvent struct {
		RequestID uint64
		View      models.ViewState
	}

	// RecordsUpdatedEvent is emitted when a month's records arrive.
	RecordsUpdatedEvent struct {
		RequestID uint64
		View      models.ViewState
		Records   []models.Record
		Source    recordstore.Source
	}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Service string
		Error   error
	}

	// StatsEvent is emitted when global statistics change.
	StatsEvent struct {
		PlantCount    int
		CachedMonths  int
		LatestRequest uint64
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (PlantsChangedEvent) isServiceEvent()   {}
func (RecordsFetchingEvent) isServiceEvent() {}
func (RecordsUpdatedEvent) isServiceEvent()  {}
func (ErrorEvent) isServiceEvent()           {}
func (StatsEvent) isServiceEvent()           {}

// Manager orchestrates services and event routing.
type Manager struct {
	mu          sync.RWMutex
	plants      *plants.Service
	records     *recordstore.Service
	database    *db.DB
	eventChan   chan ServiceEvent
	stopChan    chan struct{}
	subscribers []chan<- ServiceEvent
	notified    map[string]bool
}

// NewManager creates a new service manager.
func NewManager(cfg *config.Config) (*Manager, error) {
	m := &Manager{
		eventChan: make(chan ServiceEvent, 100),
		stopChan:  make(chan struct{}),
		notified:  make(map[string]bool),
	}

	var err error
	m.plants, err = plants.New(cfg.PlantsPath)
	if err != nil {
		return nil, err
	}

	m.database, err = db.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	var fetcher recordstore.Fetcher
	if cfg.HasRecordStore() {
		fetcher = recordstore.NewClient(cfg.Domain, cfg.AppID, cfg.APIToken)
	}

	recordsConfig := recordstore.DefaultConfig()
	recordsConfig.RefreshInterval = cfg.RefreshInterval
	recordsConfig.MockFallback = cfg.MockFallback

	m.records = recordstore.New(fetcher, m.database, recordsConfig)

	go m.routeEvents()

	return m, nil
}

// routeEvents routes events from individual services to subscribers.
func (m *Manager) routeEvents() {
	for {
		select {
		case event := <-m.plants.Events():
			m.handlePlantEvent(event)

		case event := <-m.records.Events():
			m.handleRecordEvent(event)

		case <-m.stopChan:
			return
		}
	}
}

// handlePlantEvent converts and broadcasts plant roster events.
func (m *Manager) handlePlantEvent(event plants.Event) {
	switch event.Type {
	case plants.EventPlantsLoaded, plants.EventPlantsChanged,
		plants.EventPlantAdded, plants.EventPlantDeleted,
		plants.EventActivePlantChanged:

		m.broadcast(PlantsChangedEvent{
			Plants:      m.plants.GetPlants(),
			ActivePlant: m.plants.GetActivePlant(),
		})

	case plants.EventError:
		m.broadcast(ErrorEvent{
			Service: "plants",
			Error:   event.Error,
		})
	}
}

func (m *Manager) handleRecordEvent(event recordstore.Event) {
	switch event.Type {
	case recordstore.EventFetching:
		m.broadcast(RecordsFetchingEvent{
			RequestID: event.RequestID,
			View:      event.View,
		})

	case recordstore.EventRecordsUpdated:
		m.broadcast(RecordsUpdatedEvent{
			RequestID: event.RequestID,
			View:      event.View,
			Records:   event.Records,
			Source:    event.Source,
		})

		if event.Source == recordstore.SourceLive {
			m.checkNotifications(event.View, event.Records)
		}

	case recordstore.EventFetchError:
		m.broadcast(ErrorEvent{
			Service: "records",
			Error:   event.Error,
		})
	}
}

// checkNotifications raises desktop notifications for today's delivery
// and for stock dropping low. Each condition fires at most once per
// view and day.
func (m *Manager) checkNotifications(view models.ViewState, records []models.Record) {
	cfg, ok := view.Config()
	if !ok {
		return
	}

	now := time.Now()
	if view.Year != now.Year() || view.Month != now.Month() {
		return
	}

	filtered := report.Filter(records, view.Category, view.Plant)

	if cfg.Spec.Delivery != "" {
		for _, r := range filtered {
			if r.Day() != now.Day() {
				continue
			}
			if qty := r.Num(cfg.Spec.Delivery); qty > 0 {
				key := fmt.Sprintf("delivery|%s|%s|%d", view.Category, view.Plant, now.Day())
				if m.markNotified(key) {
					title := fmt.Sprintf("Delivery: %s", view.Category)
					body := fmt.Sprintf("%.0f %s delivered today", qty, cfg.DeliveryUnit)
					_ = beeep.Notify(title, body, "")
				}
			}
		}
	}

	if cfg.Spec.Stock != "" {
		stats := report.Summarize(filtered, cfg.Spec)
		if stats.HasStock {
			// Low means under 20% of the month's highest recorded stock.
			var maxStock float64
			for _, r := range filtered {
				if v := r.Num(cfg.Spec.Stock); v > maxStock {
					maxStock = v
				}
			}
			if maxStock > 0 && stats.CurrentStock < maxStock*0.2 {
				key := fmt.Sprintf("lowstock|%s|%s|%d", view.Category, view.Plant, now.Day())
				if m.markNotified(key) {
					title := fmt.Sprintf("Low Stock: %s", view.Category)
					body := fmt.Sprintf("Remaining stock is down to %.1f %s", stats.CurrentStock, cfg.Unit)
					_ = beeep.Notify(title, body, "")
				}
			}
		}
	}
}

// markNotified records a notification key, returning true the first
// time it is seen.
func (m *Manager) markNotified(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.notified[key] {
		return false
	}
	m.notified[key] = true
	return true
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	// Send to main event channel
	select {
	case m.eventChan <- event:
	default:
	}

	// Send to subscribers
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, waitForEvent(ch)
}

// waitForEvent returns a tea.Cmd that waits for the next event.
func waitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

// WaitForEvent returns a tea.Cmd for the next event on a channel.
func WaitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return waitForEvent(ch)
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// Fetch starts an asynchronous month fetch and returns the request id.
func (m *Manager) Fetch(view models.ViewState) uint64 {
	return m.records.Fetch(view)
}

// GetCachedRecords returns the last fetched records for a view.
func (m *Manager) GetCachedRecords(view models.ViewState) []models.Record {
	return m.records.GetCached(view)
}

// GetMonthlyTotals returns the stored month-over-month totals ending at
// the view's month.
func (m *Manager) GetMonthlyTotals(view models.ViewState, limit int) ([]models.MonthlyTotal, error) {
	if m.database == nil {
		return nil, fmt.Errorf("database not initialized")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.database.GetMonthlyTotals(ctx, view.Category, view.Plant, view.Year, view.Month, limit)
}

// GetStats returns aggregated statistics.
func (m *Manager) GetStats() StatsEvent {
	recordStats := m.records.GetStats()

	return StatsEvent{
		PlantCount:    m.plants.Count(),
		CachedMonths:  recordStats.CachedMonths,
		LatestRequest: recordStats.LatestRequest,
	}
}

// Plants returns the plant roster service.
func (m *Manager) Plants() *plants.Service {
	return m.plants
}

// Records returns the record store service.
func (m *Manager) Records() *recordstore.Service {
	return m.records
}

// Database returns the database instance for direct access.
func (m *Manager) Database() *db.DB {
	return m.database
}

// Close closes the manager and all its services.
func (m *Manager) Close() error {
	close(m.stopChan)

	m.mu.Lock()
	for _, sub := range m.subscribers {
		close(sub)
	}
	m.subscribers = nil
	m.mu.Unlock()

	var errs []error

	if err := m.plants.Close(); err != nil {
		errs = append(errs, err)
	}

	if err := m.records.Close(); err != nil {
		errs = append(errs, err)
	}

	if m.database != nil {
		if err := m.database.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}
