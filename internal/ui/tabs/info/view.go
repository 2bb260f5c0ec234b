package info

import (
	"fmt"
	"runtime"

	"github.com/charmbracelet/lipgloss"

	"github.com/gunmagohkin/co2-dashboard-daily/internal/models"
	"github.com/gunmagohkin/co2-dashboard-daily/internal/ui/styles"
	"github.com/gunmagohkin/co2-dashboard-daily/internal/version"
)

// View renders the info tab.
func (m *Model) View() string {
	var sections []string

	sections = append(sections,
		m.renderTitle(),
		m.renderConfigCard(),
		m.renderDataCard(),
		m.renderAboutCard(),
	)

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

// renderTitle renders the info tab title.
func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Info")
	subtitle := styles.HelpStyle.Render("Configuration and application information")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) cardWidth() int {
	cardWidth := m.width - 6
	if cardWidth < 50 {
		cardWidth = 50
	}
	if cardWidth > 90 {
		cardWidth = 90
	}
	return cardWidth
}

// renderConfigCard renders the configuration paths card.
func (m *Model) renderConfigCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Configuration"))
	rows = append(rows, "")

	if m.config != nil {
		store := "not configured (sample data)"
		if m.config.HasRecordStore() {
			store = fmt.Sprintf("%s (app %s)", m.config.Domain, m.config.AppID)
		}
		rows = append(rows, m.renderRow("Record Store", store))
		rows = append(rows, m.renderRow("Database", m.config.DatabasePath))
		rows = append(rows, m.renderRow("Plants File", m.config.PlantsPath))
		rows = append(rows, m.renderRow("Log File", m.config.LogPath))
		rows = append(rows, m.renderRow("Refresh", m.config.RefreshInterval.String()))
		rows = append(rows, m.renderRow("Mock Fallback", fmt.Sprintf("%t", m.config.MockFallback)))
	} else {
		rows = append(rows, styles.HelpStyle.Render("Configuration not loaded"))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderRow renders a key-value row.
func (m *Model) renderRow(label, value string) string {
	labelStyle := lipgloss.NewStyle().
		Width(16).
		Foreground(styles.TextMuted)

	valueStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary)

	return labelStyle.Render(label+":") + " " + valueStyle.Render(value)
}

// renderDataCard renders the current data status card.
func (m *Model) renderDataCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Data"))
	rows = append(rows, "")

	view := m.state.GetView()
	rows = append(rows, m.renderRow("Viewing", fmt.Sprintf("%s · %s", view.Category, view.MonthLabel())))
	rows = append(rows, m.renderRow("Plant", view.Plant))

	source := string(m.state.GetSource())
	if source == "" {
		source = "none"
	}
	rows = append(rows, m.renderRow("Source", styles.GetSourceStyle(source).Render(source)))

	if !m.state.LastUpdated.IsZero() {
		rows = append(rows, m.renderRow("Updated", m.state.LastUpdated.Format("15:04:05")))
	}

	rows = append(rows, "")
	rows = append(rows, fmt.Sprintf("Plants: %s   Categories: %s",
		styles.InfoTextStyle.Render(fmt.Sprintf("%d", len(m.state.GetPlants()))),
		styles.InfoTextStyle.Render(fmt.Sprintf("%d", len(models.Categories()))),
	))

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderAboutCard renders the about/version information card.
func (m *Model) renderAboutCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("About"))
	rows = append(rows, "")

	rows = append(rows, m.renderRow("Build", version.Info()))
	rows = append(rows, m.renderRow("Go Version", runtime.Version()))
	rows = append(rows, m.renderRow("Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)))

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}
