package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gunmagohkin/co2-dashboard-daily/internal/models"
	"github.com/gunmagohkin/co2-dashboard-daily/internal/services"
	"github.com/gunmagohkin/co2-dashboard-daily/internal/services/recordstore"
)

// TickMsg is sent periodically to trigger state refresh.
type TickMsg struct {
	Time time.Time
}

// StartLoadingMsg signals that a resource is starting to load.
type StartLoadingMsg struct {
	Resource string
}

// StopLoadingMsg signals that a resource has finished loading.
type StopLoadingMsg struct {
	Resource string
}

// FetchStartedMsg reports the request id of a fetch just issued, so the
// model can tell which response is the current one.
type FetchStartedMsg struct {
	RequestID uint64
	View      models.ViewState
}

// RecordsLoadedMsg contains a fetched month of records.
type RecordsLoadedMsg struct {
	RequestID uint64
	View      models.ViewState
	Records   []models.Record
	Source    recordstore.Source
}

// MonthlyTotalsLoadedMsg contains the cross-month consumption history.
type MonthlyTotalsLoadedMsg struct {
	Totals []models.MonthlyTotal
	Error  error
}

// PlantsLoadedMsg contains the plant roster.
type PlantsLoadedMsg struct {
	Plants      []models.Plant
	ActivePlant *models.Plant
}

// ViewChangedMsg signals that the view selection changed and a new
// fetch is needed.
type ViewChangedMsg struct {
	View models.ViewState
}

// RefreshMsg requests a refetch of the current view.
type RefreshMsg struct{}

// AddNotificationMsg requests adding a new notification.
type AddNotificationMsg struct {
	Type     NotificationType
	Message  string
	Duration time.Duration
}

// RemoveNotificationMsg requests removal of a notification.
type RemoveNotificationMsg struct {
	ID string
}

// ClearExpiredNotificationsMsg triggers clearing of expired notifications.
type ClearExpiredNotificationsMsg struct{}

// ServiceEventMsg wraps a service event from the service manager.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// SubscriptionEventMsg is the callback wrapper for service subscription.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}

// ErrorMsg represents a general error.
type ErrorMsg struct {
	Error   error
	Context string
}

// TabSwitchMsg requests switching to a specific tab.
type TabSwitchMsg struct {
	Tab TabID
}

// ToggleHelpMsg toggles the help display.
type ToggleHelpMsg struct{}

// DelayedMsg wraps a message to be sent after a delay.
type DelayedMsg struct {
	Delay time.Duration
	Msg   tea.Msg
}
