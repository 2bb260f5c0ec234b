// Package daily provides the day-by-day pivot table tab.
package daily

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gunmagohkin/co2-dashboard-daily/internal/app"
)

// keyMap defines the key bindings specific to the daily tab.
type keyMap struct {
	ScrollLeft  key.Binding
	ScrollRight key.Binding
	FirstDay    key.Binding
	LastDay     key.Binding
	Up          key.Binding
	Down        key.Binding
}

// defaultKeyMap returns the default key bindings for the daily tab.
func defaultKeyMap() keyMap {
	return keyMap{
		ScrollLeft: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "earlier days"),
		),
		ScrollRight: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "later days"),
		),
		FirstDay: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "first day"),
		),
		LastDay: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "last day"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
	}
}

// Model represents the daily tab state.
type Model struct {
	state    *app.State
	keys     keyMap
	viewport viewport.Model
	width    int
	height   int
	// dayOffset is the first visible day column, 0-based.
	dayOffset int
}

// New creates a new daily model.
func New(state *app.State) *Model {
	return &Model{
		state:    state,
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
	}
}

// Init initializes the daily tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the daily tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case app.ViewChangedMsg, app.RefreshMsg:
		m.dayOffset = 0

	case tea.KeyMsg:
		cmds = append(cmds, m.handleKeyMsg(msg))
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	days := m.state.GetPivot().Days
	maxOffset := max(days-m.visibleDays(), 0)

	switch {
	case key.Matches(msg, m.keys.ScrollLeft):
		if m.dayOffset > 0 {
			m.dayOffset--
		}
	case key.Matches(msg, m.keys.ScrollRight):
		if m.dayOffset < maxOffset {
			m.dayOffset++
		}
	case key.Matches(msg, m.keys.FirstDay):
		m.dayOffset = 0
	case key.Matches(msg, m.keys.LastDay):
		m.dayOffset = maxOffset
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}
	return nil
}

// SetSize sets the available size for the daily tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.ScrollLeft,
		m.keys.ScrollRight,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.ScrollLeft, m.keys.ScrollRight},
		{m.keys.FirstDay, m.keys.LastDay},
		{m.keys.Up, m.keys.Down},
	}
}
