package report

import (
	"sort"
	"strings"

	"github.com/gunmagohkin/co2-dashboard-daily/internal/models"
)

// Summarize computes the scalar monthly figures for one filtered record
// set: total consumption, operating days, the per-operating-day average,
// delivery and refill totals with their per-day event logs, and the
// current stock level. It never panics on missing fields and returns an
// all-zero Stats for empty input.
func Summarize(records []models.Record, spec models.FieldSpec) models.Stats {
	var stats models.Stats

	for _, r := range records {
		stats.TotalConsumed += dailyConsumption(r, spec)
		if isOperatingDay(r, spec) {
			stats.ActiveDays++
		}

		if spec.Delivery != "" {
			stats.TotalDelivered += r.Num(spec.Delivery)
			if r.Num(spec.Delivery) > 0 {
				stats.DeliveryEvents = append(stats.DeliveryEvents, models.DeliveryEvent{
					Day:    r.Day(),
					Amount: strings.TrimSpace(r.Field(spec.Delivery)),
				})
			}
		}
		if spec.Refill != "" {
			stats.TotalRefilled += r.Num(spec.Refill)
			if r.Num(spec.Refill) > 0 {
				stats.RefillEvents = append(stats.RefillEvents, models.DeliveryEvent{
					Day:    r.Day(),
					Amount: strings.TrimSpace(r.Field(spec.Refill)),
				})
			}
		}
	}

	if stats.ActiveDays > 0 {
		stats.AvgPerActiveDay = stats.TotalConsumed / float64(stats.ActiveDays)
	}

	sortEvents(stats.DeliveryEvents)
	sortEvents(stats.RefillEvents)

	if spec.Stock != "" {
		stats.CurrentStock, stats.HasStock = latestStock(records, spec.Stock)
	}

	return stats
}

// latestStock returns the stock value of the latest-dated record that
// has the field populated, not simply the last record in slice order.
func latestStock(records []models.Record, stockField string) (float64, bool) {
	var (
		found  bool
		latest models.Record
	)
	for _, r := range records {
		if !r.HasField(stockField) {
			continue
		}
		if !found || r.Date.After(latest.Date) {
			latest = r
			found = true
		}
	}
	if !found {
		return 0, false
	}
	return latest.Num(stockField), true
}

func sortEvents(events []models.DeliveryEvent) {
	sort.Slice(events, func(i, j int) bool {
		return events[i].Day < events[j].Day
	})
}
