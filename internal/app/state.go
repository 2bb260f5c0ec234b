// Package app provides the main Bubble Tea application model and state management.
package app

import (
	"sync"
	"time"

	"github.com/gunmagohkin/co2-dashboard-daily/internal/models"
	"github.com/gunmagohkin/co2-dashboard-daily/internal/report"
	"github.com/gunmagohkin/co2-dashboard-daily/internal/services/recordstore"
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

const (
	// LoadingNotificationID is the fixed ID for loading notifications.
	LoadingNotificationID = "__loading__"
)

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
	default:
		return "unknown"
	}
}

// Notification represents a user-facing notification message.
type Notification struct {
	ID        string
	Type      NotificationType
	Message   string
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired returns true if the notification has expired.
func (n *Notification) IsExpired() bool {
	if n.Duration <= 0 {
		return false
	}
	return time.Since(n.CreatedAt) > n.Duration
}

// LoadingState tracks loading states for different resources.
type LoadingState struct {
	Initial bool
	Records bool
}

// State holds everything the tabs render: the current view selection,
// the fetched month, and every table derived from it. Derived data is
// recomputed in one place (ApplyRecords) so all tabs always agree.
type State struct {
	mu sync.RWMutex

	view           models.ViewState
	pendingRequest uint64

	records []models.Record
	source  recordstore.Source

	pivot    models.PivotTable
	buckets  []models.WeeklyBucket
	entities []models.EntitySummary
	stats    models.Stats
	totals   []models.MonthlyTotal

	plants []models.Plant

	Loading LoadingState

	LastUpdated time.Time

	notifications   []Notification
	notificationSeq int
}

// NewState creates an app state viewing the current month.
func NewState() *State {
	return &State{
		view:          models.DefaultViewState(time.Now()),
		notifications: make([]Notification, 0),
		Loading: LoadingState{
			Initial: true,
		},
	}
}

// GetView returns the current view selection.
func (s *State) GetView() models.ViewState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

// SetView replaces the view selection.
func (s *State) SetView(view models.ViewState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = view
}

// SetPendingRequest records the request id of the most recent fetch.
func (s *State) SetPendingRequest(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id > s.pendingRequest {
		s.pendingRequest = id
	}
}

// PendingRequest returns the most recent fetch request id.
func (s *State) PendingRequest() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pendingRequest
}

// ApplyRecords stores a month of records and recomputes every derived
// table for the view they belong to.
func (s *State) ApplyRecords(view models.ViewState, records []models.Record, source recordstore.Source) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.view = view
	s.records = records
	s.source = source
	s.LastUpdated = time.Now()

	cfg, ok := view.Config()
	if !ok {
		s.pivot = models.PivotTable{}
		s.buckets = nil
		s.entities = nil
		s.stats = models.Stats{}
		return
	}

	filtered := report.Filter(records, view.Category, view.Plant)

	s.pivot = report.BuildPivot(records, cfg.Metrics, view.Year, view.Month, view.Category, view.Plant)
	s.buckets = report.AggregateByWeek(filtered, view.Year, view.Month, cfg.Spec)
	s.stats = report.Summarize(filtered, cfg.Spec)

	if cfg.Spec.Entity != "" && len(cfg.Spec.Consumed) > 0 {
		s.entities = report.GroupByEntity(filtered, cfg.Spec.Consumed[0], cfg.Spec.Entity)
	} else {
		s.entities = nil
	}
}

// GetRecords returns the current month's records.
func (s *State) GetRecords() []models.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records
}

// GetSource returns where the current records came from.
func (s *State) GetSource() recordstore.Source {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source
}

// GetPivot returns the daily pivot table.
func (s *State) GetPivot() models.PivotTable {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pivot
}

// GetBuckets returns the weekly aggregation buckets.
func (s *State) GetBuckets() []models.WeeklyBucket {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.buckets
}

// GetEntities returns the per-machine consumption summaries.
func (s *State) GetEntities() []models.EntitySummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entities
}

// GetStats returns the month statistics summary.
func (s *State) GetStats() models.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

// SetMonthlyTotals stores the cross-month consumption history.
func (s *State) SetMonthlyTotals(totals []models.MonthlyTotal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.totals = totals
}

// GetMonthlyTotals returns the cross-month consumption history.
func (s *State) GetMonthlyTotals() []models.MonthlyTotal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.totals
}

// SetPlants updates the plant roster.
func (s *State) SetPlants(plants []models.Plant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plants = plants
}

// GetPlants returns the plant roster.
func (s *State) GetPlants() []models.Plant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	plants := make([]models.Plant, len(s.plants))
	copy(plants, s.plants)
	return plants
}

// SetLoading sets the loading state for a specific resource.
func (s *State) SetLoading(resource string, loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch resource {
	case "initial":
		s.Loading.Initial = loading
	case "records":
		s.Loading.Records = loading
	}
}

// AnyLoading returns true if any resource is currently loading.
func (s *State) AnyLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Loading.Initial || s.Loading.Records
}

// IsInitialLoading returns true if initial data is still loading.
func (s *State) IsInitialLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Loading.Initial
}

// AddNotification adds a new notification and returns its ID.
func (s *State) AddNotification(notifType NotificationType, message string, duration time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notificationSeq++
	id := time.Now().Format("20060102150405") + "-" + string(rune('A'+s.notificationSeq%26))

	notification := Notification{
		ID:        id,
		Type:      notifType,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  duration,
	}

	s.notifications = append(s.notifications, notification)

	// Keep only the last 10 notifications
	if len(s.notifications) > 10 {
		s.notifications = s.notifications[len(s.notifications)-10:]
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

// ClearAllNotifications removes all notifications.
func (s *State) ClearAllNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = make([]Notification, 0)
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
		Duration:  0,
	})
}

// ClearLoadingNotification removes the loading notification.
func (s *State) ClearLoadingNotification() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// TimeSinceUpdate returns the duration since the last update.
func (s *State) TimeSinceUpdate() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.LastUpdated.IsZero() {
		return 0
	}
	return time.Since(s.LastUpdated)
}
