package report

import (
	"strings"
	"time"

	"github.com/gunmagohkin/co2-dashboard-daily/internal/models"
)

// BuildPivot projects metric definitions against a month into a
// row-per-metric, column-per-day table. It takes the full unfiltered
// record list so that metrics with a source category override can pull
// rows from a differently categorized record sharing the same date and
// plant. Cells for missing records or blank fields hold models.NoValue,
// never a numeric zero; spacer metrics render as all-blank rows.
func BuildPivot(records []models.Record, metrics []models.MetricDef, year int, month time.Month, category, plant string) models.PivotTable {
	days := DaysInMonth(year, month)

	ambient := recordByDay(Filter(records, category, plant), year, month)

	// Lazily built day indexes for source category overrides.
	overrides := make(map[string]map[int]models.Record)
	dayIndex := func(sourceCategory string) map[int]models.Record {
		if sourceCategory == "" || sourceCategory == category {
			return ambient
		}
		if idx, ok := overrides[sourceCategory]; ok {
			return idx
		}
		idx := recordByDay(Filter(records, sourceCategory, plant), year, month)
		overrides[sourceCategory] = idx
		return idx
	}

	cells := make([][]string, len(metrics))
	for i, metric := range metrics {
		row := make([]string, days)
		if metric.Spacer() {
			for d := range row {
				row[d] = ""
			}
			cells[i] = row
			continue
		}

		byDay := dayIndex(metric.SourceCategory)
		for day := 1; day <= days; day++ {
			rec, ok := byDay[day]
			if !ok {
				row[day-1] = models.NoValue
				continue
			}
			val := strings.TrimSpace(rec.Field(metric.Field))
			if val == "" {
				row[day-1] = models.NoValue
				continue
			}
			row[day-1] = val
		}
		cells[i] = row
	}

	return models.PivotTable{
		Metrics: metrics,
		Days:    days,
		Cells:   cells,
	}
}
