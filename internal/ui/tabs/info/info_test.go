package info

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gunmagohkin/co2-dashboard-daily/internal/app"
	"github.com/gunmagohkin/co2-dashboard-daily/internal/config"
)

func TestNew(t *testing.T) {
	m := New(app.NewState(), &config.Config{})
	if m == nil {
		t.Fatal("New returned nil")
	}
}

func TestModel_Init(t *testing.T) {
	m := New(app.NewState(), &config.Config{})
	if m.Init() != nil {
		t.Error("Init should return nil")
	}
}

func TestModel_Update(t *testing.T) {
	m := New(app.NewState(), &config.Config{})

	updated, _ := m.Update(nil)
	if updated == nil {
		t.Error("Update returned nil model")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
}

func TestModel_View(t *testing.T) {
	cfg := &config.Config{
		DatabasePath:    "/tmp/ggdash.db",
		PlantsPath:      "/tmp/plants.json",
		RefreshInterval: 5 * time.Minute,
		MockFallback:    true,
	}
	m := New(app.NewState(), cfg)
	m.SetSize(100, 40)

	out := m.View()
	if out == "" {
		t.Fatal("View returned empty string")
	}
	if !strings.Contains(out, "ggdash.db") {
		t.Error("view should show the database path")
	}
	if !strings.Contains(out, "sample data") {
		t.Error("unconfigured record store should be called out")
	}
	if !strings.Contains(out, "Categories") {
		t.Error("view should show the category count")
	}
}

func TestModel_View_WithRecordStore(t *testing.T) {
	cfg := &config.Config{
		Domain:   "example.kintone.com",
		AppID:    "12",
		APIToken: "token",
	}
	m := New(app.NewState(), cfg)
	m.SetSize(100, 40)

	if !strings.Contains(m.View(), "example.kintone.com") {
		t.Error("view should show the record store domain")
	}
}

func TestModel_View_NilConfig(t *testing.T) {
	m := New(app.NewState(), nil)
	m.SetSize(80, 24)

	if !strings.Contains(m.View(), "Configuration not loaded") {
		t.Error("nil config should render the fallback text")
	}
}

func TestModel_SetSize(t *testing.T) {
	m := New(app.NewState(), &config.Config{})
	m.SetSize(100, 50)
	if m.width != 100 || m.height != 50 {
		t.Error("SetSize did not store dimensions")
	}
}

func TestModel_Help(t *testing.T) {
	m := New(app.NewState(), &config.Config{})
	if len(m.ShortHelp()) == 0 {
		t.Error("ShortHelp empty")
	}
	if len(m.FullHelp()) == 0 {
		t.Error("FullHelp empty")
	}
}
