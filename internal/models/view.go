package models

import (
	"fmt"
	"time"
)

// Timeframe represents the selected aggregation granularity.
type Timeframe int

const (
	// TimeframeDaily shows the day-by-day pivot table.
	TimeframeDaily Timeframe = iota
	// TimeframeWeekly shows week-bucketed aggregates.
	TimeframeWeekly
)

// String returns the display name for a timeframe.
func (t Timeframe) String() string {
	switch t {
	case TimeframeDaily:
		return "Daily"
	case TimeframeWeekly:
		return "Weekly"
	default:
		return "Unknown"
	}
}

// Next cycles to the next timeframe.
func (t Timeframe) Next() Timeframe {
	return (t + 1) % 2
}

// ViewState is the full filter selection driving every computed view.
// It is owned by the application model and passed explicitly into fetch
// and aggregation calls; the aggregation core keeps no state of its own.
type ViewState struct {
	Year      int
	Month     time.Month
	Plant     string
	Category  string
	Timeframe Timeframe
}

// DefaultViewState selects the current month for the built-in plant and
// the first registry category.
func DefaultViewState(now time.Time) ViewState {
	return ViewState{
		Year:      now.Year(),
		Month:     now.Month(),
		Plant:     DefaultPlant,
		Category:  CategoryNames()[0],
		Timeframe: TimeframeDaily,
	}
}

// MonthLabel returns e.g. "January 2024".
func (v ViewState) MonthLabel() string {
	return fmt.Sprintf("%s %d", v.Month.String(), v.Year)
}

// PrevMonth returns the view shifted one month back.
func (v ViewState) PrevMonth() ViewState {
	t := time.Date(v.Year, v.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	v.Year, v.Month = t.Year(), t.Month()
	return v
}

// NextMonth returns the view shifted one month forward.
func (v ViewState) NextMonth() ViewState {
	t := time.Date(v.Year, v.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	v.Year, v.Month = t.Year(), t.Month()
	return v
}

// Config returns the category config for the view's category.
func (v ViewState) Config() (CategoryConfig, bool) {
	return CategoryByName(v.Category)
}
