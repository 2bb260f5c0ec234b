package daily

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/gunmagohkin/co2-dashboard-daily/internal/models"
	"github.com/gunmagohkin/co2-dashboard-daily/internal/ui/styles"
)

const (
	labelColWidth = 26
	dayColWidth   = 8
)

// View renders the daily pivot table.
func (m *Model) View() string {
	pivot := m.state.GetPivot()
	view := m.state.GetView()

	if pivot.Days == 0 || len(pivot.Metrics) == 0 {
		return styles.DocStyle.
			Width(m.width).
			Height(m.height).
			Render(styles.HelpStyle.Render("No daily data for " + view.MonthLabel()))
	}

	var sections []string
	sections = append(sections, m.renderTitle(view))
	sections = append(sections, m.renderTable(pivot))

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderTitle(view models.ViewState) string {
	title := styles.TitleStyle.Render("Daily Report · " + view.MonthLabel())

	from, to := m.visibleRange()
	subtitle := styles.HelpStyle.Render(
		fmt.Sprintf("%s — days %02d-%02d of %d  (←/→ to scroll)",
			view.Category, from, to, m.state.GetPivot().Days))

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

// visibleDays is how many day columns fit beside the label column.
func (m *Model) visibleDays() int {
	avail := m.width - labelColWidth - 8
	n := avail / dayColWidth
	if n < 1 {
		n = 1
	}
	if days := m.state.GetPivot().Days; days > 0 && n > days {
		n = days
	}
	return n
}

func (m *Model) visibleRange() (first, last int) {
	first = m.dayOffset + 1
	last = min(m.dayOffset+m.visibleDays(), m.state.GetPivot().Days)
	return first, last
}

func (m *Model) renderTable(pivot models.PivotTable) string {
	first, last := m.visibleRange()

	var rows []string
	rows = append(rows, m.renderHeaderRow(first, last))

	for row, metric := range pivot.Metrics {
		if metric.Spacer() {
			rows = append(rows, "")
			continue
		}
		rows = append(rows, m.renderMetricRow(metric, pivot.Cells[row], first, last))
	}

	cardWidth := max(m.width-6, labelColWidth+dayColWidth+8)
	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderHeaderRow(first, last int) string {
	var b strings.Builder

	label := styles.TableHeaderStyle.Render(padCell("Metric", labelColWidth))
	b.WriteString(label)

	for day := first; day <= last; day++ {
		cell := styles.TableHeaderStyle.Render(padCell(fmt.Sprintf("%02d", day), dayColWidth))
		b.WriteString(cell)
	}

	return b.String()
}

func (m *Model) renderMetricRow(metric models.MetricDef, cells []string, first, last int) string {
	var b strings.Builder

	labelStyle := lipgloss.NewStyle().Foreground(styles.TextSecondary)
	if metric.SourceCategory != "" {
		labelStyle = lipgloss.NewStyle().Foreground(styles.Secondary)
	}
	b.WriteString(labelStyle.Render(padCell(metric.Label, labelColWidth)))

	for day := first; day <= last; day++ {
		value := models.NoValue
		if day-1 < len(cells) {
			value = cells[day-1]
		}

		cellStyle := lipgloss.NewStyle().Foreground(styles.TextPrimary)
		if value == models.NoValue {
			cellStyle = lipgloss.NewStyle().Foreground(styles.TextMuted)
		}
		b.WriteString(cellStyle.Render(padCell(value, dayColWidth)))
	}

	return b.String()
}

// padCell right-pads or truncates a value to the column width.
func padCell(s string, width int) string {
	if ansi.StringWidth(s) > width-1 {
		s = ansi.Truncate(s, width-2, "…")
	}
	return s + strings.Repeat(" ", max(width-ansi.StringWidth(s), 0))
}
