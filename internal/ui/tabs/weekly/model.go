// Package weekly provides the week-bucketed aggregates tab.
package weekly

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gunmagohkin/co2-dashboard-daily/internal/app"
)

// keyMap defines the key bindings specific to the weekly tab.
type keyMap struct {
	NextWeek key.Binding
	PrevWeek key.Binding
	Up       key.Binding
	Down     key.Binding
}

// defaultKeyMap returns the default key bindings for the weekly tab.
func defaultKeyMap() keyMap {
	return keyMap{
		NextWeek: key.NewBinding(
			key.WithKeys("n", "j", "down"),
			key.WithHelp("j/n", "next week"),
		),
		PrevWeek: key.NewBinding(
			key.WithKeys("N", "k", "up"),
			key.WithHelp("k/N", "prev week"),
		),
		Up: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "scroll down"),
		),
	}
}

// Model represents the weekly tab state.
type Model struct {
	state         *app.State
	keys          keyMap
	viewport      viewport.Model
	width         int
	height        int
	selectedIndex int
}

// New creates a new weekly model.
func New(state *app.State) *Model {
	return &Model{
		state:    state,
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
	}
}

// Init initializes the weekly tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the weekly tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case app.ViewChangedMsg, app.RefreshMsg:
		m.selectedIndex = 0

	case tea.KeyMsg:
		cmds = append(cmds, m.handleKeyMsg(msg))
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	count := len(m.state.GetBuckets())

	switch {
	case key.Matches(msg, m.keys.NextWeek):
		if count > 0 {
			m.selectedIndex = (m.selectedIndex + 1) % count
		}
	case key.Matches(msg, m.keys.PrevWeek):
		if count > 0 {
			m.selectedIndex = (m.selectedIndex - 1 + count) % count
		}
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}
	return nil
}

// SetSize sets the available size for the weekly tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.NextWeek,
		m.keys.PrevWeek,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.NextWeek, m.keys.PrevWeek},
		{m.keys.Up, m.keys.Down},
	}
}
