// Package report implements the aggregation core shared by every
// dashboard view: filtering, the daily pivot, weekly buckets, per-entity
// grouping and summary statistics. All functions are pure, never mutate
// their inputs and are total over well-formed records: a missing field
// is blank for display and zero for sums, and every division is defined
// as 0 when its denominator is 0.
package report

import (
	"time"

	"github.com/gunmagohkin/co2-dashboard-daily/internal/models"
)

// DaysInMonth returns the number of days in a month, computed as day 0
// of the following month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// WeekOfDay returns the 1-based week index of a day of month. Weeks are
// fixed 7-day windows; the last week of a month may be shorter.
func WeekOfDay(day int) int {
	return (day-1)/7 + 1
}

// WeeksInMonth returns how many weekly buckets a month spans.
func WeeksInMonth(days int) int {
	return (days + 6) / 7
}

// Filter keeps records matching the category exactly, and the plant
// exactly when plant is non-empty. The input slice is left untouched.
func Filter(records []models.Record, category, plant string) []models.Record {
	out := make([]models.Record, 0, len(records))
	for _, r := range records {
		if r.Category != category {
			continue
		}
		if plant != "" && r.Plant != plant {
			continue
		}
		out = append(out, r)
	}
	return out
}

// recordByDay indexes records by day of month for one (year, month).
// First match wins when duplicates exist.
func recordByDay(records []models.Record, year int, month time.Month) map[int]models.Record {
	byDay := make(map[int]models.Record, len(records))
	for _, r := range records {
		if r.Date.Year() != year || r.Date.Month() != month {
			continue
		}
		day := r.Date.Day()
		if _, ok := byDay[day]; !ok {
			byDay[day] = r
		}
	}
	return byDay
}

// dailyConsumption sums the configured consumed fields for one record.
func dailyConsumption(r models.Record, spec models.FieldSpec) float64 {
	var total float64
	for _, f := range spec.Consumed {
		total += r.Num(f)
	}
	return total
}

// isOperatingDay reports whether a record counts as an operating day:
// the activity marker is present and something was consumed.
func isOperatingDay(r models.Record, spec models.FieldSpec) bool {
	return r.HasField(spec.Activity) && dailyConsumption(r, spec) > 0
}
