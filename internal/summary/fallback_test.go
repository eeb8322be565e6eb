package summary

import (
	"strings"
	"testing"

	"github.com/matheuskafuri/pulse/internal/health"
)

func TestFallbackIsDeterministic(t *testing.T) {
	raw := sampleMetrics()
	first := Fallback(health.Heart, health.Daily, raw)
	second := Fallback(health.Heart, health.Daily, raw)
	if first != second {
		t.Errorf("fallback not reproducible:\n%q\n%q", first, second)
	}
	if first == "" {
		t.Error("fallback must not be empty for non-empty metrics")
	}
}

func TestFallbackContent(t *testing.T) {
	text := Fallback(health.Heart, health.Daily, sampleMetrics())

	if !strings.HasPrefix(text, "Daily heart briefing:") {
		t.Errorf("unexpected lead: %q", text)
	}
	if !strings.Contains(text, "heart rate averaged 71.7 bpm") {
		t.Errorf("missing averaged metric: %q", text)
	}
	if !strings.Contains(text, "range 54-131") {
		t.Errorf("missing range: %q", text)
	}
	// Single-sample metrics read as a point value, not an average.
	if !strings.Contains(text, "cardio recovery was 31 bpm") {
		t.Errorf("missing single-sample phrasing: %q", text)
	}
}

func TestFallbackSkipsUnsampledMetrics(t *testing.T) {
	raw := health.RawMetrics{Metrics: []health.Metric{
		{Name: "vo2_max", Unit: "mL/kg/min", Count: 0},
		{Name: "step_count", Unit: "steps", Count: 5, Avg: 9000, Min: 5000, Max: 12000},
	}}
	text := Fallback(health.Performance, health.Weekly, raw)
	if strings.Contains(text, "VO2 max") {
		t.Errorf("unsampled metric leaked into summary: %q", text)
	}
}

func TestFallbackEmptyMetrics(t *testing.T) {
	text := Fallback(health.Mind, health.Monthly, health.RawMetrics{})
	if text != NoData(health.Mind, health.Monthly) {
		t.Errorf("empty metrics should read as no data, got %q", text)
	}
}

func TestNoDataText(t *testing.T) {
	text := NoData(health.Sleep, health.Weekly)
	if !strings.Contains(text, "sleep") || !strings.Contains(text, "weekly") {
		t.Errorf("no-data text should name category and window: %q", text)
	}
}

func TestFmtValue(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{72, "72"},
		{71.66, "71.7"},
		{0.5, "0.5"},
		{0, "0"},
	}
	for _, tt := range tests {
		if got := fmtValue(tt.in); got != tt.want {
			t.Errorf("fmtValue(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDescribeMetricUnknownName(t *testing.T) {
	m := health.Metric{Name: "grip_strength", Unit: "kg", Count: 3, Avg: 40, Min: 38, Max: 42}
	got := describeMetric(m)
	if !strings.HasPrefix(got, "grip strength") {
		t.Errorf("unknown metrics should fall back to underscore-split names: %q", got)
	}
}
