package models

// NoValue is the pivot placeholder for "no data that day". It is never
// produced for a legitimate zero, so the UI can tell the two apart.
const NoValue = "-"

// PivotTable is the metric-rows by day-columns grid for one month.
type PivotTable struct {
	Metrics []MetricDef
	Days    int
	// Cells[row][day-1] holds the display string for a metric and day.
	Cells [][]string
}

// WeeklyBucket aggregates one fixed 7-day window within a month. The
// last week of a month may cover fewer than 7 days.
type WeeklyBucket struct {
	Week          int
	FirstDay      int
	LastDay       int
	Consumption   float64
	Delivery      float64
	Refill        float64
	OperatingDays int
	ActiveSum     float64
	IdleSum       float64
}

// AvgPerDay is consumption per operating day, 0 when no operating days.
func (b WeeklyBucket) AvgPerDay() float64 {
	if b.OperatingDays == 0 {
		return 0
	}
	return b.Consumption / float64(b.OperatingDays)
}

// Utilization is active machine-days over total machine-days as a
// percentage, 0 when the denominator is 0.
func (b WeeklyBucket) Utilization() float64 {
	total := b.ActiveSum + b.IdleSum
	if total == 0 {
		return 0
	}
	return b.ActiveSum / total * 100
}

// EntitySummary accumulates consumption per machine or furnace id.
type EntitySummary struct {
	ID      string
	Total   float64
	Days    int
	Percent float64
}

// Avg is consumption per contributing day, 0 when no days.
func (e EntitySummary) Avg() float64 {
	if e.Days == 0 {
		return 0
	}
	return e.Total / float64(e.Days)
}

// DeliveryEvent is one day with a positive delivery or refill quantity.
// Amount keeps the raw field text for display.
type DeliveryEvent struct {
	Day    int
	Amount string
}

// Stats are the scalar monthly summary figures for one category view.
type Stats struct {
	TotalConsumed   float64
	ActiveDays      int
	AvgPerActiveDay float64
	TotalDelivered  float64
	TotalRefilled   float64
	DeliveryEvents  []DeliveryEvent
	RefillEvents    []DeliveryEvent
	// CurrentStock is the stock field of the latest-dated record that
	// has it populated; HasStock is false when no record does.
	CurrentStock float64
	HasStock     bool
}

// MonthlyTotal is one point of the cross-month trend history.
type MonthlyTotal struct {
	Year          int
	Month         int
	Category      string
	Plant         string
	TotalConsumed float64
	OperatingDays int
}
