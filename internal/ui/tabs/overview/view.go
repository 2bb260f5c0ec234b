package overview

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/gunmagohkin/co2-dashboard-daily/internal/models"
	"github.com/gunmagohkin/co2-dashboard-daily/internal/ui/components"
	"github.com/gunmagohkin/co2-dashboard-daily/internal/ui/styles"
)

// View renders the overview tab.
func (m *Model) View() string {
	if m.state.IsInitialLoading() {
		return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
	}

	var sections []string
	for _, s := range []string{
		m.renderTitle(),
		m.renderStatsCard(),
		m.renderStockCard(),
		m.renderTrendCard(),
		m.renderEventsCard(),
	} {
		if s != "" {
			sections = append(sections, s)
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderTitle() string {
	view := m.state.GetView()

	heading := view.Category
	if cfg, ok := view.Config(); ok && cfg.Description != "" {
		heading = fmt.Sprintf("%s · %s", view.Category, cfg.Description)
	}

	title := styles.TitleStyle.Render(heading)
	subtitle := styles.HelpStyle.Render(fmt.Sprintf("%s — %s", view.MonthLabel(), view.Plant))

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) cardWidth() int {
	return max(m.width-6, 40)
}

func (m *Model) unit() string {
	if cfg, ok := m.state.GetView().Config(); ok {
		return cfg.Unit
	}
	return ""
}

func (m *Model) renderStatsCard() string {
	stats := m.state.GetStats()
	unit := m.unit()
	cardWidth := m.cardWidth()

	var rows []string

	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("◈")
	rows = append(rows, fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Monthly Summary")), "")

	if m.state.AnyLoading() {
		rows = append(rows, components.SimpleBarLoading("total", cardWidth-4, m.animationFrame), "")
		return styles.CardStyle.Width(cardWidth).Render(
			lipgloss.JoinVertical(lipgloss.Left, rows...),
		)
	}

	rows = append(rows,
		m.renderStatRow("Total Consumed", fmt.Sprintf("%.2f %s", stats.TotalConsumed, unit)),
		m.renderStatRow("Operating Days", fmt.Sprintf("%d", stats.ActiveDays)),
		m.renderStatRow("Avg / Operating Day", fmt.Sprintf("%.2f %s", stats.AvgPerActiveDay, unit)),
	)

	if stats.TotalDelivered > 0 {
		rows = append(rows, m.renderStatRow("Total Delivered", fmt.Sprintf("%.2f", stats.TotalDelivered)))
	}
	if stats.TotalRefilled > 0 {
		rows = append(rows, m.renderStatRow("Total Refilled", fmt.Sprintf("%.2f", stats.TotalRefilled)))
	}

	rows = append(rows, "")

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderStatRow(label, value string) string {
	labelStyle := lipgloss.NewStyle().
		Width(22).
		Foreground(styles.TextMuted)

	valueStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary).
		Bold(true)

	return "  " + labelStyle.Render(label+":") + " " + valueStyle.Render(value)
}

func (m *Model) renderStockCard() string {
	stats := m.state.GetStats()
	if !stats.HasStock {
		return ""
	}

	cardWidth := m.cardWidth()

	var rows []string
	titleIcon := lipgloss.NewStyle().Foreground(styles.Stock).Render("▣")
	rows = append(rows, fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Current Stock")), "")

	peak := m.peakStock()
	rows = append(rows, "  "+components.StockBar(stats.CurrentStock, peak, "Stock", m.unit(), cardWidth-8))

	if peak > 0 && stats.CurrentStock < peak*0.2 {
		rows = append(rows, "", "  "+styles.StockLowStyle.Render("▲ Stock is running low"))
	}

	rows = append(rows, "")

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// peakStock scans the month's records for the highest stock reading so
// the stock bar has a scale to drain against.
func (m *Model) peakStock() float64 {
	cfg, ok := m.state.GetView().Config()
	if !ok || cfg.Spec.Stock == "" {
		return 0
	}

	peak := 0.0
	for _, rec := range m.state.GetRecords() {
		if !rec.HasField(cfg.Spec.Stock) {
			continue
		}
		if v := rec.Num(cfg.Spec.Stock); v > peak {
			peak = v
		}
	}
	return peak
}

func (m *Model) renderTrendCard() string {
	cardWidth := m.cardWidth()

	var rows []string
	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("📈")
	rows = append(rows, fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Consumption Trend")), "")

	totals := m.state.GetMonthlyTotals()
	if len(totals) < 2 {
		rows = append(rows, styles.HelpStyle.Render("  Not enough history for a trend yet"))
	} else {
		data := make([]float64, len(totals))
		labels := make([]string, 0, len(totals))
		for i, t := range totals {
			data[i] = t.TotalConsumed
			labels = append(labels, fmt.Sprintf("%d/%02d", t.Year%100, t.Month))
		}

		chartWidth := max(cardWidth-12, 30)
		chart := components.RenderLineChart(data, chartWidth, 8,
			fmt.Sprintf("%s → %s", labels[0], labels[len(labels)-1]))

		for _, line := range strings.Split(chart, "\n") {
			rows = append(rows, "  "+line)
		}
	}

	// Daily intensity for the current month
	rows = append(rows, "", "  "+m.renderDailyHeatmap())
	rows = append(rows, "")

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderDailyHeatmap() string {
	view := m.state.GetView()
	pivot := m.state.GetPivot()
	cfg, ok := view.Config()
	if !ok || pivot.Days == 0 {
		return styles.HelpStyle.Render("No daily data")
	}

	daily := make([]float64, pivot.Days)
	for _, rec := range m.state.GetRecords() {
		day := rec.Date.Day()
		if day < 1 || day > pivot.Days {
			continue
		}
		for _, field := range cfg.Spec.Consumed {
			daily[day-1] += rec.Num(field)
		}
	}

	return components.RenderDailyHeatmap(daily, pivot.Days)
}

func (m *Model) renderEventsCard() string {
	stats := m.state.GetStats()
	cardWidth := m.cardWidth()

	var rows []string
	titleIcon := lipgloss.NewStyle().Foreground(styles.Delivery).Render("◎")
	rows = append(rows, fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Deliveries & Refills")), "")

	if len(stats.DeliveryEvents) == 0 && len(stats.RefillEvents) == 0 {
		rows = append(rows, styles.HelpStyle.Render("  No deliveries or refills this month"))
	} else {
		month := m.state.GetView().Month
		for _, ev := range stats.DeliveryEvents {
			rows = append(rows, m.renderEventRow("Delivery", month, ev))
		}
		for _, ev := range stats.RefillEvents {
			rows = append(rows, m.renderEventRow("Refill", month, ev))
		}
	}

	rows = append(rows, "")

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderEventRow(kind string, month time.Month, ev models.DeliveryEvent) string {
	kindStyle := styles.SuccessTextStyle
	if kind == "Refill" {
		kindStyle = styles.InfoTextStyle
	}

	dateStr := lipgloss.NewStyle().
		Width(10).
		Foreground(styles.TextSecondary).
		Render(fmt.Sprintf("%s %02d", month.String()[:3], ev.Day))

	return fmt.Sprintf("  %s %s %s",
		dateStr,
		kindStyle.Width(10).Render(kind),
		lipgloss.NewStyle().Bold(true).Render(ev.Amount),
	)
}
