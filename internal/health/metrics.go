package health

// Metric holds the aggregated values for one sub-metric over a query window.
// The exporter returns raw samples; the fetcher reduces them to these
// aggregates so summaries can be regenerated without re-fetching.
type Metric struct {
	Name   string  `json:"name"`
	Unit   string  `json:"unit"`
	Count  int     `json:"count"`
	Avg    float64 `json:"avg"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Latest float64 `json:"latest"`
}

// RawMetrics is the ordered set of sub-metric aggregates for one category.
type RawMetrics struct {
	Metrics []Metric `json:"metrics"`
}

// Empty reports whether no sub-metric returned any samples.
func (r RawMetrics) Empty() bool {
	for _, m := range r.Metrics {
		if m.Count > 0 {
			return false
		}
	}
	return true
}

// SubMetrics maps each category to the exporter metric names it aggregates.
// The order here is the order metrics appear in summaries.
var SubMetrics = map[Category][]string{
	Heart: {
		"heart_rate",
		"resting_heart_rate",
		"heart_rate_variability",
		"walking_heart_rate_average",
		"cardio_recovery",
	},
	Sleep: {
		"sleep_duration",
		"time_in_bed",
		"deep_sleep",
		"rem_sleep",
		"awakenings",
	},
	Mind: {
		"mindful_minutes",
		"state_of_mind_valence",
		"daylight_minutes",
	},
	Performance: {
		"step_count",
		"active_energy",
		"exercise_minutes",
		"distance_walking_running",
		"vo2_max",
	},
	Vitals: {
		"respiratory_rate",
		"blood_oxygen",
		"body_temperature",
		"blood_pressure_systolic",
		"blood_pressure_diastolic",
	},
}
