package report

import (
	"testing"
	"time"

	"github.com/gunmagohkin/co2-dashboard-daily/internal/models"
)

// rec builds a test record for a single day.
func rec(year int, month time.Month, day int, category, plant string, fields map[string]string) models.Record {
	return models.Record{
		Date:     time.Date(year, month, day, 0, 0, 0, 0, time.UTC),
		Category: category,
		Plant:    plant,
		Fields:   fields,
	}
}

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2024, time.January, 31},
		{2024, time.February, 29},
		{2023, time.February, 28},
		{2024, time.April, 30},
		{2024, time.December, 31},
		{2000, time.February, 29},
		{1900, time.February, 28},
	}

	for _, tt := range tests {
		if got := DaysInMonth(tt.year, tt.month); got != tt.want {
			t.Errorf("DaysInMonth(%d, %v) = %d, want %d", tt.year, tt.month, got, tt.want)
		}
	}
}

func TestWeekOfDay(t *testing.T) {
	tests := []struct {
		day  int
		want int
	}{
		{1, 1}, {7, 1}, {8, 2}, {14, 2}, {15, 3}, {28, 4}, {29, 5}, {31, 5},
	}

	for _, tt := range tests {
		if got := WeekOfDay(tt.day); got != tt.want {
			t.Errorf("WeekOfDay(%d) = %d, want %d", tt.day, got, tt.want)
		}
	}
}

func TestFilter(t *testing.T) {
	records := []models.Record{
		rec(2024, time.January, 1, "SW220", "GGPC - Gunma Gohkin", nil),
		rec(2024, time.January, 1, "GL63P", "GGPC - Gunma Gohkin", nil),
		rec(2024, time.January, 2, "SW220", "Other Plant", nil),
	}

	got := Filter(records, "SW220", "GGPC - Gunma Gohkin")
	if len(got) != 1 {
		t.Fatalf("Filter() returned %d records, want 1", len(got))
	}
	if got[0].Day() != 1 {
		t.Errorf("wrong record kept: day %d", got[0].Day())
	}

	// Empty plant disables the plant match.
	if got := Filter(records, "SW220", ""); len(got) != 2 {
		t.Errorf("Filter() without plant returned %d records, want 2", len(got))
	}

	if got := Filter(records, "no-such", "x"); len(got) != 0 {
		t.Errorf("Filter() = %d records, want 0", len(got))
	}

	if len(records) != 3 {
		t.Error("Filter() must not mutate its input")
	}
}
