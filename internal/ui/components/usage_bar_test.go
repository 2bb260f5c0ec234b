package components

import (
	"strings"
	"testing"
)

func TestNewUsageBar(t *testing.T) {
	bar := NewUsageBar()
	if bar.percent != 0 {
		t.Error("new bar should start at 0")
	}

	wide := NewUsageBarWithWidth(50)
	if wide.progress.Width != 50 {
		t.Errorf("width = %d, want 50", wide.progress.Width)
	}
}

func TestUsageBar_SetPercent(t *testing.T) {
	bar := NewUsageBar()
	cmd := bar.SetPercent(75)
	if cmd == nil {
		t.Error("SetPercent should return an animation command")
	}
	if bar.targetPercent != 75 {
		t.Errorf("targetPercent = %v, want 75", bar.targetPercent)
	}
}

func TestUsageBar_View(t *testing.T) {
	bar := NewUsageBar()
	out := bar.View(42, "DC No.1", 80)
	if out == "" {
		t.Error("View returned empty")
	}
	if !strings.Contains(out, "42%") {
		t.Error("View should include the percentage")
	}
	if !strings.Contains(out, "DC No.1") {
		t.Error("View should include the label")
	}
}

func TestUsageBar_ViewCompact(t *testing.T) {
	bar := NewUsageBar()
	out := bar.ViewCompact(50, 40)
	if !strings.Contains(out, "50%") {
		t.Error("compact view should include the percentage")
	}
}

func TestSimpleUsageBar(t *testing.T) {
	out := SimpleUsageBar(33, "Machine 4", 60)
	if !strings.Contains(out, "33%") {
		t.Error("SimpleUsageBar should include the percentage")
	}
	if !strings.Contains(out, "Machine 4") {
		t.Error("SimpleUsageBar should include the label")
	}
}

func TestRenderGradientBar(t *testing.T) {
	if out := RenderGradientBar(50, 20); out == "" {
		t.Error("RenderGradientBar returned empty")
	}
	if out := RenderGradientBar(50, 0); out != "" {
		t.Error("zero width should return empty")
	}
}

func TestStockBar(t *testing.T) {
	out := StockBar(150, 600, "Stock", "kg", 70)
	if !strings.Contains(out, "150.0 kg") {
		t.Errorf("StockBar should show the amount, got %q", out)
	}

	// Zero peak treats the bar as full rather than dividing by zero.
	out = StockBar(10, 0, "Stock", "L", 70)
	if !strings.Contains(out, "10.0 L") {
		t.Errorf("StockBar with zero peak = %q", out)
	}
}

func TestSimpleBarLoading(t *testing.T) {
	out := SimpleBarLoading("Total Consumption", 80, 10)
	if out == "" {
		t.Error("SimpleBarLoading returned empty")
	}
}

func TestHexToRGB(t *testing.T) {
	rgb := hexToRGB("#ff0080")
	if rgb != [3]int{255, 0, 128} {
		t.Errorf("hexToRGB = %v", rgb)
	}

	if hexToRGB("nope") != [3]int{0, 0, 0} {
		t.Error("invalid hex should fall back to black")
	}
}

func TestInterpolateColor(t *testing.T) {
	if got := interpolateColor("#000000", "#ffffff", 0); got != "#000000" {
		t.Errorf("t=0 should return start color, got %s", got)
	}
	if got := interpolateColor("#000000", "#ffffff", 1); got != "#ffffff" {
		t.Errorf("t=1 should return end color, got %s", got)
	}
}
