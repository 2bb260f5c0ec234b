// Package machines provides the per-machine consumption shares tab.
package machines

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gunmagohkin/co2-dashboard-daily/internal/app"
)

// keyMap defines the key bindings specific to the machines tab.
type keyMap struct {
	NextEntity  key.Binding
	PrevEntity  key.Binding
	FirstEntity key.Binding
	LastEntity  key.Binding
}

// defaultKeyMap returns the default key bindings for the machines tab.
func defaultKeyMap() keyMap {
	return keyMap{
		NextEntity: key.NewBinding(
			key.WithKeys("n", "j", "down"),
			key.WithHelp("j/n", "next machine"),
		),
		PrevEntity: key.NewBinding(
			key.WithKeys("N", "k", "up"),
			key.WithHelp("k/N", "prev machine"),
		),
		FirstEntity: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "first machine"),
		),
		LastEntity: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "last machine"),
		),
	}
}

// Model represents the machines tab state.
type Model struct {
	state         *app.State
	keys          keyMap
	viewport      viewport.Model
	width         int
	height        int
	selectedIndex int
}

// New creates a new machines model.
func New(state *app.State) *Model {
	return &Model{
		state:    state,
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
	}
}

// Init initializes the machines tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the machines tab.
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
	count := len(m.state.GetEntities())

	switch {
	case key.Matches(msg, m.keys.NextEntity):
		if count > 0 {
			m.selectedIndex = (m.selectedIndex + 1) % count
		}
	case key.Matches(msg, m.keys.PrevEntity):
		if count > 0 {
			m.selectedIndex = (m.selectedIndex - 1 + count) % count
		}
	case key.Matches(msg, m.keys.FirstEntity):
		m.selectedIndex = 0
	case key.Matches(msg, m.keys.LastEntity):
		if count > 0 {
			m.selectedIndex = count - 1
		}
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}
	return nil
}

// SetSize sets the available size for the machines tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.NextEntity,
		m.keys.PrevEntity,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.NextEntity, m.keys.PrevEntity},
		{m.keys.FirstEntity, m.keys.LastEntity},
	}
}
