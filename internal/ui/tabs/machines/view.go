package machines

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/gunmagohkin/co2-dashboard-daily/internal/models"
	"github.com/gunmagohkin/co2-dashboard-daily/internal/ui/components"
	"github.com/gunmagohkin/co2-dashboard-daily/internal/ui/styles"
)

// View renders the machines tab.
func (m *Model) View() string {
	view := m.state.GetView()
	entities := m.state.GetEntities()

	if len(entities) == 0 {
		return styles.DocStyle.
			Width(m.width).
			Height(m.height).
			Render(styles.HelpStyle.Render("No machine activity for " + view.MonthLabel()))
	}

	var sections []string
	sections = append(sections,
		m.renderTitle(view),
		m.renderShareList(entities),
		m.renderSelected(entities),
	)

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderTitle(view models.ViewState) string {
	entityKind := "Machines"
	if cfg, ok := view.Config(); ok && cfg.Spec.Entity == "Furnace_On" {
		entityKind = "Furnaces"
	}

	title := styles.TitleStyle.Render(entityKind + " · " + view.MonthLabel())
	subtitle := styles.HelpStyle.Render(fmt.Sprintf("%s — consumption shares, even split on shared days", view.Category))

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) unit() string {
	if cfg, ok := m.state.GetView().Config(); ok {
		return cfg.Unit
	}
	return ""
}

func (m *Model) renderShareList(entities []models.EntitySummary) string {
	cardWidth := max(m.width-6, 50)

	var rows []string
	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("◈")
	rows = append(rows, fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Consumption Share")), "")

	for i, e := range entities {
		prefix := "  "
		if i == m.selectedIndex {
			prefix = styles.SelectedListItemStyle.String()
		}
		label := fmt.Sprintf("#%s", e.ID)
		rows = append(rows, prefix+components.SimpleUsageBar(e.Percent, label, cardWidth-10))
	}

	rows = append(rows, "")

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderSelected(entities []models.EntitySummary) string {
	if m.selectedIndex < 0 || m.selectedIndex >= len(entities) {
		return ""
	}
	e := entities[m.selectedIndex]
	cardWidth := max(m.width-6, 50)
	unit := m.unit()

	var rows []string
	titleIcon := lipgloss.NewStyle().Foreground(styles.Secondary).Render("▸")
	rows = append(rows, fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Machine #"+e.ID)), "")

	rows = append(rows,
		fmt.Sprintf("  Total consumed: %s",
			lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("%.2f %s", e.Total, unit))),
		fmt.Sprintf("  Active on %d days, avg %.2f %s per day", e.Days, e.Avg(), unit),
		fmt.Sprintf("  Share of total: %s",
			styles.GetUtilizationStyle(e.Percent).Render(fmt.Sprintf("%.1f%%", e.Percent))),
		"",
	)

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}
