package summary

import (
	"fmt"
	"strings"

	"github.com/matheuskafuri/pulse/internal/health"
)

// metricLabels maps exporter metric names to briefing-friendly phrases.
var metricLabels = map[string]string{
	"heart_rate":                 "heart rate",
	"resting_heart_rate":         "resting heart rate",
	"heart_rate_variability":     "HRV",
	"walking_heart_rate_average": "walking heart rate",
	"cardio_recovery":            "cardio recovery",
	"sleep_duration":             "time asleep",
	"time_in_bed":                "time in bed",
	"deep_sleep":                 "deep sleep",
	"rem_sleep":                  "REM sleep",
	"awakenings":                 "awakenings",
	"mindful_minutes":            "mindful minutes",
	"state_of_mind_valence":      "mood valence",
	"daylight_minutes":           "daylight time",
	"step_count":                 "steps",
	"active_energy":              "active energy",
	"exercise_minutes":           "exercise time",
	"distance_walking_running":   "walk/run distance",
	"vo2_max":                    "VO2 max",
	"respiratory_rate":           "respiratory rate",
	"blood_oxygen":               "blood oxygen",
	"body_temperature":           "body temperature",
	"blood_pressure_systolic":    "systolic pressure",
	"blood_pressure_diastolic":   "diastolic pressure",
}

// Fallback builds a templated summary straight from the aggregates.
// It is pure: the same metrics always produce the same text, and the
// result is never empty for non-empty input.
func Fallback(cat health.Category, span health.TimeSpan, raw health.RawMetrics) string {
	var parts []string
	for _, m := range raw.Metrics {
		if m.Count == 0 {
			continue
		}
		parts = append(parts, describeMetric(m))
	}
	if len(parts) == 0 {
		return NoData(cat, span)
	}

	lead := fmt.Sprintf("%s %s briefing: ", span.Label(), strings.ToLower(cat.Label()))
	return lead + strings.Join(parts, "; ") + "."
}

func describeMetric(m health.Metric) string {
	label := metricLabels[m.Name]
	if label == "" {
		label = strings.ReplaceAll(m.Name, "_", " ")
	}

	if m.Count == 1 {
		return fmt.Sprintf("%s was %s%s", label, fmtValue(m.Latest), fmtUnit(m.Unit))
	}
	return fmt.Sprintf("%s averaged %s%s (range %s-%s)",
		label, fmtValue(m.Avg), fmtUnit(m.Unit), fmtValue(m.Min), fmtValue(m.Max))
}

// fmtValue prints one decimal place, dropping a trailing .0.
func fmtValue(v float64) string {
	s := fmt.Sprintf("%.1f", v)
	return strings.TrimSuffix(s, ".0")
}

func fmtUnit(unit string) string {
	if unit == "" {
		return ""
	}
	return " " + unit
}
