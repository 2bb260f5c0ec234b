package report

import (
	"math"
	"testing"
	"time"

	"github.com/gunmagohkin/co2-dashboard-daily/internal/models"
)

func TestSummarize_Empty(t *testing.T) {
	stats := Summarize(nil, oilFields)

	if stats.TotalConsumed != 0 {
		t.Errorf("TotalConsumed = %v, want 0", stats.TotalConsumed)
	}
	if stats.ActiveDays != 0 {
		t.Errorf("ActiveDays = %d, want 0", stats.ActiveDays)
	}
	if stats.AvgPerActiveDay != 0 {
		t.Errorf("AvgPerActiveDay = %v, want 0", stats.AvgPerActiveDay)
	}
	if math.IsNaN(stats.AvgPerActiveDay) || math.IsInf(stats.AvgPerActiveDay, 0) {
		t.Error("average must never be NaN or Inf")
	}
	if len(stats.DeliveryEvents) != 0 {
		t.Errorf("DeliveryEvents = %v, want empty", stats.DeliveryEvents)
	}
	if stats.HasStock {
		t.Error("HasStock should be false with no records")
	}
}

func TestSummarize_January2024Scenario(t *testing.T) {
	records := []models.Record{
		rec(2024, time.January, 5, "SW220", testPlant, map[string]string{
			"Total_Consumed": "12.5", "Machine_Run": "3", "Delivery": "0",
		}),
		rec(2024, time.January, 10, "SW220", testPlant, map[string]string{
			"Total_Consumed": "8.0", "Machine_Run": "3", "Delivery": "2",
		}),
	}

	stats := Summarize(records, oilFields)

	if stats.TotalConsumed != 20.5 {
		t.Errorf("TotalConsumed = %v, want 20.5", stats.TotalConsumed)
	}
	if stats.ActiveDays != 2 {
		t.Errorf("ActiveDays = %d, want 2", stats.ActiveDays)
	}
	if stats.AvgPerActiveDay != 10.25 {
		t.Errorf("AvgPerActiveDay = %v, want 10.25", stats.AvgPerActiveDay)
	}
	if stats.TotalDelivered != 2 {
		t.Errorf("TotalDelivered = %v, want 2", stats.TotalDelivered)
	}
	if len(stats.DeliveryEvents) != 1 {
		t.Fatalf("DeliveryEvents = %v, want one event", stats.DeliveryEvents)
	}
	if ev := stats.DeliveryEvents[0]; ev.Day != 10 || ev.Amount != "2" {
		t.Errorf("delivery event = %+v, want day 10 amount 2", ev)
	}
}

func TestSummarize_DeliveryEventsSortedByDay(t *testing.T) {
	records := []models.Record{
		rec(2024, time.January, 20, "SW220", testPlant, map[string]string{
			"Total_Consumed": "1", "Delivery": "3",
		}),
		rec(2024, time.January, 4, "SW220", testPlant, map[string]string{
			"Total_Consumed": "1", "Delivery": "1",
		}),
	}

	stats := Summarize(records, oilFields)
	if len(stats.DeliveryEvents) != 2 {
		t.Fatalf("got %d events, want 2", len(stats.DeliveryEvents))
	}
	if stats.DeliveryEvents[0].Day != 4 || stats.DeliveryEvents[1].Day != 20 {
		t.Errorf("events not in day order: %+v", stats.DeliveryEvents)
	}
}

func TestSummarize_RefillEvents(t *testing.T) {
	spec := models.FieldSpec{
		Consumed: []string{"Refill_Qty"},
		Activity: "Machine_Refilled",
		Refill:   "Refill_Qty",
		Stock:    "Remaining_Qty",
	}
	records := []models.Record{
		rec(2024, time.May, 3, "Tellus C32", testPlant, map[string]string{
			"Refill_Qty": "20", "Machine_Refilled": "DC-04", "Remaining_Qty": "180",
		}),
		rec(2024, time.May, 12, "Tellus C32", testPlant, map[string]string{
			"Refill_Qty": "15", "Machine_Refilled": "DC-07", "Remaining_Qty": "165",
		}),
	}

	stats := Summarize(records, spec)
	if stats.TotalRefilled != 35 {
		t.Errorf("TotalRefilled = %v, want 35", stats.TotalRefilled)
	}
	if len(stats.RefillEvents) != 2 {
		t.Fatalf("RefillEvents = %v, want 2", stats.RefillEvents)
	}
	if !stats.HasStock || stats.CurrentStock != 165 {
		t.Errorf("CurrentStock = %v (has=%v), want 165", stats.CurrentStock, stats.HasStock)
	}
}

func TestSummarize_CurrentStockLatestDatedWins(t *testing.T) {
	spec := models.FieldSpec{
		Consumed: []string{"Shift"},
		Activity: "Press_Machine_No",
		Stock:    "Total_Remaining_Stock_Kerosene",
	}
	// Deliberately out of order, and the latest record lacks the field.
	records := []models.Record{
		rec(2024, time.June, 20, "KEROSENE", testPlant, map[string]string{
			"Shift": "30", "Total_Remaining_Stock_Kerosene": "450",
		}),
		rec(2024, time.June, 25, "KEROSENE", testPlant, map[string]string{
			"Shift": "25",
		}),
		rec(2024, time.June, 10, "KEROSENE", testPlant, map[string]string{
			"Shift": "40", "Total_Remaining_Stock_Kerosene": "500",
		}),
	}

	stats := Summarize(records, spec)
	if !stats.HasStock {
		t.Fatal("HasStock = false")
	}
	if stats.CurrentStock != 450 {
		t.Errorf("CurrentStock = %v, want 450 (latest dated populated record)", stats.CurrentStock)
	}
}

func TestSummarize_TwoConsumedFields(t *testing.T) {
	spec := models.FieldSpec{
		Consumed: []string{"Consumed_Tank1", "Consumed_Tank2"},
		Activity: "Machine_no_Operation",
	}
	records := []models.Record{
		rec(2024, time.July, 1, "LPG Monitoring", testPlant, map[string]string{
			"Consumed_Tank1": "2.5", "Consumed_Tank2": "3.5", "Machine_no_Operation": "4",
		}),
	}

	stats := Summarize(records, spec)
	if stats.TotalConsumed != 6 {
		t.Errorf("TotalConsumed = %v, want 6", stats.TotalConsumed)
	}
	if stats.ActiveDays != 1 {
		t.Errorf("ActiveDays = %d, want 1", stats.ActiveDays)
	}
}
