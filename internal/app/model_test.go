package app

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gunmagohkin/co2-dashboard-daily/internal/models"
	"github.com/gunmagohkin/co2-dashboard-daily/internal/services"
	"github.com/gunmagohkin/co2-dashboard-daily/internal/services/recordstore"
)

var errTest = errors.New("test error")

func TestNewModel(t *testing.T) {
	model := NewModel(nil)
	if model == nil {
		t.Fatal("NewModel returned nil")
	}
	if model.state == nil {
		t.Error("state should be initialized")
	}
	if model.activeTab != TabOverview {
		t.Error("default tab should be Overview")
	}
	if len(model.tabs) != 5 {
		t.Errorf("should have 5 tab placeholders, got %d", len(model.tabs))
	}
}

func TestModel_Init(t *testing.T) {
	model := NewModel(nil)
	if cmd := model.Init(); cmd == nil {
		t.Error("Init returned nil command")
	}
}

func TestModel_Update_WindowSize(t *testing.T) {
	model := NewModel(nil)

	newModel, _ := model.Update(tea.WindowSizeMsg{Width: 100, Height: 50})

	m, ok := newModel.(*Model)
	if !ok {
		t.Fatal("Update returned wrong model type")
	}

	if m.width != 100 {
		t.Errorf("width = %d, want 100", m.width)
	}
	if m.height != 50 {
		t.Errorf("height = %d, want 50", m.height)
	}
	if !m.ready {
		t.Error("model should be ready after WindowSizeMsg")
	}
}

func TestModel_Update_TabSwitch(t *testing.T) {
	model := NewModel(nil)
	model.ready = true
	model.width = 100
	model.height = 50

	newModel, _ := model.Update(TabSwitchMsg{Tab: TabWeekly})
	m := newModel.(*Model)

	if m.activeTab != TabWeekly {
		t.Errorf("activeTab = %v, want Weekly", m.activeTab)
	}

	keyMsg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'2'}}
	newModel, _ = m.Update(keyMsg)
	m = newModel.(*Model)
	if m.activeTab != TabDaily {
		t.Errorf("activeTab = %v after '2', want Daily", m.activeTab)
	}
}

func TestModel_Update_TabCycling(t *testing.T) {
	model := NewModel(nil)

	model.handleKeyMsg(tea.KeyMsg{Type: tea.KeyTab})
	if model.activeTab != TabDaily {
		t.Errorf("activeTab = %v after tab, want Daily", model.activeTab)
	}

	model.handleKeyMsg(tea.KeyMsg{Type: tea.KeyShiftTab})
	if model.activeTab != TabOverview {
		t.Errorf("activeTab = %v after shift+tab, want Overview", model.activeTab)
	}

	// Wraps backwards
	model.handleKeyMsg(tea.KeyMsg{Type: tea.KeyShiftTab})
	if model.activeTab != TabInfo {
		t.Errorf("activeTab = %v after wrap, want Info", model.activeTab)
	}
}

func TestModel_Update_Quit(t *testing.T) {
	model := NewModel(nil)

	cmd := model.handleKeyMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("'q' should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("'q' should quit")
	}
}

func TestModel_Update_HelpToggle(t *testing.T) {
	model := NewModel(nil)

	model.handleKeyMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	if !model.showHelp {
		t.Error("'?' should show help")
	}

	model.handleKeyMsg(tea.KeyMsg{Type: tea.KeyEscape})
	if model.showHelp {
		t.Error("esc should close help")
	}
}

func TestModel_MonthNavigation(t *testing.T) {
	model := NewModel(nil)
	model.state.SetView(models.ViewState{
		Year:     2024,
		Month:    time.January,
		Plant:    models.DefaultPlant,
		Category: "SW220",
	})

	model.handleKeyMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'['}})
	view := model.state.GetView()
	if view.Year != 2023 || view.Month != time.December {
		t.Errorf("view after prev = %v %d, want December 2023", view.Month, view.Year)
	}

	model.handleKeyMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{']'}})
	view = model.state.GetView()
	if view.Year != 2024 || view.Month != time.January {
		t.Errorf("view after next = %v %d, want January 2024", view.Month, view.Year)
	}
}

func TestModel_CategoryCycling(t *testing.T) {
	model := NewModel(nil)
	names := models.CategoryNames()
	model.state.SetView(models.ViewState{
		Year:     2024,
		Month:    time.January,
		Plant:    models.DefaultPlant,
		Category: names[0],
	})

	model.handleKeyMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	if got := model.state.GetView().Category; got != names[1] {
		t.Errorf("category = %q, want %q", got, names[1])
	}

	// Cycling from the last category wraps to the first.
	view := model.state.GetView()
	view.Category = names[len(names)-1]
	model.state.SetView(view)
	model.handleKeyMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	if got := model.state.GetView().Category; got != names[0] {
		t.Errorf("category = %q after wrap, want %q", got, names[0])
	}
}

func TestModel_PlantCycling(t *testing.T) {
	model := NewModel(nil)
	model.state.SetPlants([]models.Plant{
		{Name: "GGPC - Gunma Gohkin"},
		{Name: "GGPH - Gohkin Haruna"},
	})
	view := model.state.GetView()
	view.Plant = "GGPC - Gunma Gohkin"
	model.state.SetView(view)

	model.handleKeyMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}})
	if got := model.state.GetView().Plant; got != "GGPH - Gohkin Haruna" {
		t.Errorf("plant = %q, want GGPH - Gohkin Haruna", got)
	}

	model.handleKeyMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}})
	if got := model.state.GetView().Plant; got != "GGPC - Gunma Gohkin" {
		t.Errorf("plant = %q after wrap, want GGPC - Gunma Gohkin", got)
	}
}

func TestModel_TimeframeToggleSwitchesTab(t *testing.T) {
	model := NewModel(nil)

	model.handleKeyMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'t'}})
	if model.activeTab != TabWeekly {
		t.Errorf("activeTab = %v, want Weekly", model.activeTab)
	}
	if model.state.GetView().Timeframe != models.TimeframeWeekly {
		t.Error("timeframe should be weekly")
	}

	model.handleKeyMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'t'}})
	if model.activeTab != TabDaily {
		t.Errorf("activeTab = %v, want Daily", model.activeTab)
	}
}

func TestModel_StaleRecordsIgnored(t *testing.T) {
	model := NewModel(nil)
	model.state.SetPendingRequest(5)

	view := models.ViewState{Year: 2024, Month: time.January, Plant: models.DefaultPlant, Category: "SW220"}
	stale := services.RecordsUpdatedEvent{
		RequestID: 3,
		View:      view,
		Records: []models.Record{{
			Date:     time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC),
			Category: "SW220",
			Plant:    models.DefaultPlant,
			Fields:   map[string]string{"Total_Consumed": "9"},
		}},
		Source: recordstore.SourceLive,
	}

	model.handleServiceEvent(stale)
	if len(model.state.GetRecords()) != 0 {
		t.Error("stale response should not update state")
	}

	current := stale
	current.RequestID = 5
	model.handleServiceEvent(current)
	if len(model.state.GetRecords()) != 1 {
		t.Error("current response should update state")
	}
}

func TestModel_RecordsUpdatedComputesDerived(t *testing.T) {
	model := NewModel(nil)

	view := models.ViewState{Year: 2024, Month: time.January, Plant: models.DefaultPlant, Category: "SW220"}
	event := services.RecordsUpdatedEvent{
		RequestID: 1,
		View:      view,
		Records: []models.Record{{
			Date:     time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC),
			Category: "SW220",
			Plant:    models.DefaultPlant,
			Fields: map[string]string{
				"Total_Consumed": "10",
				"Machine_Run":    "1,2",
			},
		}},
		Source: recordstore.SourceLive,
	}

	model.handleServiceEvent(event)

	if got := model.state.GetStats().TotalConsumed; got != 10 {
		t.Errorf("TotalConsumed = %v, want 10", got)
	}
	if got := len(model.state.GetBuckets()); got != 5 {
		t.Errorf("got %d weekly buckets, want 5", got)
	}
	if got := len(model.state.GetEntities()); got != 2 {
		t.Errorf("got %d entities, want 2", got)
	}
	if model.state.IsInitialLoading() {
		t.Error("initial loading should be cleared")
	}
}

func TestModel_ErrorEventNotifies(t *testing.T) {
	model := NewModel(nil)

	cmd := model.handleServiceEvent(services.ErrorEvent{Service: "records", Error: errTest})
	if cmd == nil {
		t.Fatal("error event should produce a notification command")
	}

	msg, ok := cmd().(AddNotificationMsg)
	if !ok {
		t.Fatalf("got %T, want AddNotificationMsg", cmd())
	}
	if msg.Type != NotificationError {
		t.Errorf("notification type = %v, want error", msg.Type)
	}
}

func TestModel_View_NotReady(t *testing.T) {
	model := NewModel(nil)
	model.width = 80

	out := model.View()
	if !strings.Contains(out, "Loading") {
		t.Error("view before ready should show loading")
	}
}

func TestModel_View_Placeholder(t *testing.T) {
	model := NewModel(nil)
	model.ready = true
	model.width = 80
	model.height = 24

	out := model.View()
	if !strings.Contains(out, "Overview") {
		t.Error("view should contain the tab bar")
	}
	if !strings.Contains(out, "not yet implemented") {
		t.Error("empty tab slot should render the placeholder")
	}
}

func TestModel_StatusBarShowsView(t *testing.T) {
	model := NewModel(nil)
	model.ready = true
	model.width = 120
	model.height = 40
	model.state.SetView(models.ViewState{
		Year:     2024,
		Month:    time.March,
		Plant:    models.DefaultPlant,
		Category: "KEROSENE",
	})

	out := model.View()
	if !strings.Contains(out, "March 2024") {
		t.Error("status bar should show the month")
	}
	if !strings.Contains(out, "KEROSENE") {
		t.Error("status bar should show the category")
	}
}

func TestTabID_String(t *testing.T) {
	tests := []struct {
		id   TabID
		want string
	}{
		{TabOverview, "Overview"},
		{TabDaily, "Daily"},
		{TabWeekly, "Weekly"},
		{TabMachines, "Machines"},
		{TabInfo, "Info"},
		{TabID(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.id.String(); got != tt.want {
			t.Errorf("TabID(%d).String() = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()
	if len(km.ShortHelp()) == 0 {
		t.Error("ShortHelp should not be empty")
	}
	if len(km.FullHelp()) == 0 {
		t.Error("FullHelp should not be empty")
	}
}
