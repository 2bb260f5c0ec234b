package weekly

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gunmagohkin/co2-dashboard-daily/internal/models"
	"github.com/gunmagohkin/co2-dashboard-daily/internal/ui/components"
	"github.com/gunmagohkin/co2-dashboard-daily/internal/ui/styles"
)

// View renders the weekly tab.
func (m *Model) View() string {
	view := m.state.GetView()
	buckets := m.state.GetBuckets()

	if len(buckets) == 0 {
		return styles.DocStyle.
			Width(m.width).
			Height(m.height).
			Render(styles.HelpStyle.Render("No weekly data for " + view.MonthLabel()))
	}

	var sections []string
	sections = append(sections,
		m.renderTitle(view),
		m.renderWeekTable(buckets),
		m.renderSelectedWeek(buckets),
		m.renderPattern(buckets),
	)

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderTitle(view models.ViewState) string {
	title := styles.TitleStyle.Render("Weekly Report · " + view.MonthLabel())
	subtitle := styles.HelpStyle.Render(fmt.Sprintf("%s — %s", view.Category, view.Plant))

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) unit() string {
	if cfg, ok := m.state.GetView().Config(); ok {
		return cfg.Unit
	}
	return ""
}

func (m *Model) cardWidth() int {
	return max(m.width-6, 60)
}

func (m *Model) renderWeekTable(buckets []models.WeeklyBucket) string {
	cardWidth := m.cardWidth()

	var rows []string
	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("◈")
	rows = append(rows, fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Week Buckets")), "")

	header := fmt.Sprintf("  %-6s %-9s %12s %10s %8s %10s",
		"Week", "Days", "Consumed", "Delivered", "OpDays", "Avg/Day")
	rows = append(rows, styles.TableHeaderStyle.Render(header))

	for i, b := range buckets {
		prefix := "  "
		rowStyle := lipgloss.NewStyle().Foreground(styles.TextPrimary)
		if i == m.selectedIndex {
			prefix = styles.SelectedListItemStyle.String()
			rowStyle = styles.TableSelectedStyle
		}

		line := fmt.Sprintf("%-6s %-9s %12.2f %10.2f %8d %10.2f",
			fmt.Sprintf("W%d", b.Week),
			fmt.Sprintf("%02d-%02d", b.FirstDay, b.LastDay),
			b.Consumption,
			b.Delivery,
			b.OperatingDays,
			b.AvgPerDay(),
		)
		rows = append(rows, prefix+rowStyle.Render(line))
	}

	rows = append(rows, "")

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderSelectedWeek(buckets []models.WeeklyBucket) string {
	if m.selectedIndex < 0 || m.selectedIndex >= len(buckets) {
		return ""
	}
	b := buckets[m.selectedIndex]
	cardWidth := m.cardWidth()
	unit := m.unit()

	var rows []string
	titleIcon := lipgloss.NewStyle().Foreground(styles.Secondary).Render("▸")
	rows = append(rows, fmt.Sprintf("%s %s", titleIcon,
		styles.CardTitleStyle.Render(fmt.Sprintf("Week %d (days %02d-%02d)", b.Week, b.FirstDay, b.LastDay))), "")

	rows = append(rows,
		fmt.Sprintf("  Consumption: %s",
			lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("%.2f %s", b.Consumption, unit))),
		fmt.Sprintf("  Operating days: %d, avg %.2f %s per day", b.OperatingDays, b.AvgPerDay(), unit),
	)

	if b.Refill > 0 {
		rows = append(rows, fmt.Sprintf("  Refilled: %.2f", b.Refill))
	}

	if b.ActiveSum+b.IdleSum > 0 {
		rows = append(rows, "",
			"  "+components.SimpleUsageBar(b.Utilization(), "Utilization", cardWidth-8))
	}

	rows = append(rows, "")

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderPattern(buckets []models.WeeklyBucket) string {
	cardWidth := m.cardWidth()

	values := make([]float64, len(buckets))
	labels := make([]string, len(buckets))
	for i, b := range buckets {
		values[i] = b.Consumption
		labels[i] = fmt.Sprintf("W%d", b.Week)
	}

	var rows []string
	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("📅")
	rows = append(rows, fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Consumption by Week")), "")

	barChart := components.RenderBarChart(values, labels, max(cardWidth-12, 30))
	for _, line := range strings.Split(barChart, "\n") {
		rows = append(rows, "  "+line)
	}

	rows = append(rows, "", "  "+components.RenderWeeklyPattern(values, labels), "")

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}
