package report

import (
	"time"

	"github.com/gunmagohkin/co2-dashboard-daily/internal/models"
)

// AggregateByWeek buckets a month's records into fixed 7-day windows.
// Every week of the month gets a bucket even when no records exist for
// it, so a 31-day month always yields 5 buckets (the fifth covering 3
// days). Blank numeric fields count as zero in every sum.
func AggregateByWeek(records []models.Record, year int, month time.Month, spec models.FieldSpec) []models.WeeklyBucket {
	days := DaysInMonth(year, month)
	weeks := WeeksInMonth(days)

	buckets := make([]models.WeeklyBucket, weeks)
	for w := range buckets {
		first := w*7 + 1
		last := first + 6
		if last > days {
			last = days
		}
		buckets[w] = models.WeeklyBucket{
			Week:     w + 1,
			FirstDay: first,
			LastDay:  last,
		}
	}

	byDay := recordByDay(records, year, month)
	for day := 1; day <= days; day++ {
		rec, ok := byDay[day]
		if !ok {
			continue
		}

		b := &buckets[WeekOfDay(day)-1]
		b.Consumption += dailyConsumption(rec, spec)
		if spec.Delivery != "" {
			b.Delivery += rec.Num(spec.Delivery)
		}
		if spec.Refill != "" {
			b.Refill += rec.Num(spec.Refill)
		}
		if isOperatingDay(rec, spec) {
			b.OperatingDays++
		}
		if spec.Active != "" {
			b.ActiveSum += rec.Num(spec.Active)
		}
		if spec.Idle != "" {
			b.IdleSum += rec.Num(spec.Idle)
		}
	}

	return buckets
}
