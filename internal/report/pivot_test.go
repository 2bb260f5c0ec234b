package report

import (
	"testing"
	"time"

	"github.com/gunmagohkin/co2-dashboard-daily/internal/models"
)

const testPlant = "GGPC - Gunma Gohkin"

func TestBuildPivot_Completeness(t *testing.T) {
	metrics := []models.MetricDef{
		{Label: "Consumed", Field: "Total_Consumed"},
		{Label: "Machine Run", Field: "Machine_Run"},
	}

	tests := []struct {
		year     int
		month    time.Month
		wantDays int
	}{
		{2024, time.January, 31},
		{2024, time.February, 29},
		{2023, time.February, 28},
		{2024, time.April, 30},
		{2024, time.June, 30},
		{2024, time.September, 30},
		{2024, time.November, 30},
	}

	for _, tt := range tests {
		table := BuildPivot(nil, metrics, tt.year, tt.month, "SW220", testPlant)
		if table.Days != tt.wantDays {
			t.Errorf("%d/%v: Days = %d, want %d", tt.year, tt.month, table.Days, tt.wantDays)
		}
		if len(table.Cells) != len(metrics) {
			t.Fatalf("%d/%v: %d rows, want %d", tt.year, tt.month, len(table.Cells), len(metrics))
		}
		for i, row := range table.Cells {
			if len(row) != tt.wantDays {
				t.Errorf("%d/%v row %d: %d columns, want %d", tt.year, tt.month, i, len(row), tt.wantDays)
			}
		}
	}
}

func TestBuildPivot_AllTwelveMonths(t *testing.T) {
	metrics := []models.MetricDef{{Label: "Consumed", Field: "Total_Consumed"}}
	for m := time.January; m <= time.December; m++ {
		table := BuildPivot(nil, metrics, 2024, m, "SW220", testPlant)
		if table.Days != DaysInMonth(2024, m) {
			t.Errorf("month %v: Days = %d, want %d", m, table.Days, DaysInMonth(2024, m))
		}
	}
}

func TestBuildPivot_MissingIsPlaceholderNotZero(t *testing.T) {
	records := []models.Record{
		rec(2024, time.January, 5, "SW220", testPlant, map[string]string{
			"Total_Consumed": "12.5",
		}),
	}
	metrics := []models.MetricDef{
		{Label: "Consumed", Field: "Total_Consumed"},
		{Label: "Machine Run", Field: "Machine_Run"},
	}

	table := BuildPivot(records, metrics, 2024, time.January, "SW220", testPlant)

	if got := table.Cells[0][4]; got != "12.5" {
		t.Errorf("day 5 consumed = %q, want 12.5", got)
	}
	// Record exists on day 5 but the field is absent.
	if got := table.Cells[1][4]; got != models.NoValue {
		t.Errorf("day 5 machine run = %q, want %q", got, models.NoValue)
	}
	// No record at all on day 6.
	if got := table.Cells[0][5]; got != models.NoValue {
		t.Errorf("day 6 consumed = %q, want %q", got, models.NoValue)
	}
	if got := table.Cells[0][5]; got == "0" {
		t.Error("missing data must never surface as a numeric zero")
	}
}

func TestBuildPivot_SpacerRows(t *testing.T) {
	records := []models.Record{
		rec(2024, time.January, 1, "SW220", testPlant, map[string]string{
			"Total_Consumed": "5",
		}),
	}
	metrics := []models.MetricDef{
		{Label: "Consumed", Field: "Total_Consumed"},
		{},
		{Label: "Machine Run", Field: "Machine_Run"},
	}

	table := BuildPivot(records, metrics, 2024, time.January, "SW220", testPlant)
	for day, cell := range table.Cells[1] {
		if cell != "" {
			t.Fatalf("spacer cell day %d = %q, want blank", day+1, cell)
		}
	}
}

func TestBuildPivot_SourceCategoryOverride(t *testing.T) {
	records := []models.Record{
		rec(2024, time.January, 3, "LPG Monitoring", testPlant, map[string]string{
			"Consumed_Tank1": "40",
		}),
		rec(2024, time.January, 3, "Ingot Used", testPlant, map[string]string{
			"Ingot_Used": "120",
		}),
		// Same date, wrong plant: must not leak into the table.
		rec(2024, time.January, 3, "Ingot Used", "Other Plant", map[string]string{
			"Ingot_Used": "999",
		}),
	}
	metrics := []models.MetricDef{
		{Label: "Consumed %: Tank 1", Field: "Consumed_Tank1"},
		{Label: "Ingot Used (pcs)", Field: "Ingot_Used", SourceCategory: "Ingot Used"},
	}

	table := BuildPivot(records, metrics, 2024, time.January, "LPG Monitoring", testPlant)

	if got := table.Cells[0][2]; got != "40" {
		t.Errorf("tank 1 day 3 = %q, want 40", got)
	}
	if got := table.Cells[1][2]; got != "120" {
		t.Errorf("ingot day 3 = %q, want 120", got)
	}
}

func TestBuildPivot_DuplicateRecordsFirstWins(t *testing.T) {
	records := []models.Record{
		rec(2024, time.January, 1, "SW220", testPlant, map[string]string{"Total_Consumed": "1"}),
		rec(2024, time.January, 1, "SW220", testPlant, map[string]string{"Total_Consumed": "2"}),
	}
	metrics := []models.MetricDef{{Label: "Consumed", Field: "Total_Consumed"}}

	table := BuildPivot(records, metrics, 2024, time.January, "SW220", testPlant)
	if got := table.Cells[0][0]; got != "1" {
		t.Errorf("duplicate day: got %q, want first record's value", got)
	}
}

func TestBuildPivot_IgnoresOtherMonths(t *testing.T) {
	records := []models.Record{
		rec(2024, time.February, 1, "SW220", testPlant, map[string]string{"Total_Consumed": "5"}),
	}
	metrics := []models.MetricDef{{Label: "Consumed", Field: "Total_Consumed"}}

	table := BuildPivot(records, metrics, 2024, time.January, "SW220", testPlant)
	if got := table.Cells[0][0]; got != models.NoValue {
		t.Errorf("February record leaked into January: %q", got)
	}
}
