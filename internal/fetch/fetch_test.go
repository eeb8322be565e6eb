package fetch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/matheuskafuri/pulse/internal/exporter"
	"github.com/matheuskafuri/pulse/internal/health"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource serves canned series per metric name and records calls.
type fakeSource struct {
	mu     sync.Mutex
	series map[string]*exporter.Series
	errs   map[string]error
	calls  []string
}

func (f *fakeSource) Metrics(ctx context.Context, name string, start, end time.Time) (*exporter.Series, error) {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.mu.Unlock()
	if err := f.errs[name]; err != nil {
		return nil, err
	}
	if s := f.series[name]; s != nil {
		return s, nil
	}
	return &exporter.Series{Name: name}, nil
}

func series(unit string, values ...float64) *exporter.Series {
	s := &exporter.Series{Unit: unit}
	base := time.Date(2026, 8, 27, 8, 0, 0, 0, time.UTC)
	for i, v := range values {
		s.Samples = append(s.Samples, exporter.Sample{
			Timestamp: base.Add(time.Duration(i) * time.Hour),
			Value:     v,
		})
	}
	return s
}

func TestFetchQueriesEverySubMetric(t *testing.T) {
	src := &fakeSource{}
	f := NewExporterFetcher(src, nil)

	_, err := f.Fetch(context.Background(), health.Heart, time.Now().Add(-24*time.Hour), time.Now())
	require.NoError(t, err)
	assert.ElementsMatch(t, health.SubMetrics[health.Heart], src.calls)
}

func TestFetchPartialFailureStillPopulates(t *testing.T) {
	src := &fakeSource{
		series: map[string]*exporter.Series{
			"heart_rate":                 series("bpm", 70, 75, 65),
			"resting_heart_rate":         series("bpm", 58),
			"heart_rate_variability":     series("ms", 60, 68),
			"walking_heart_rate_average": series("bpm", 98),
		},
		errs: map[string]error{
			"cardio_recovery": errors.New("exporter 500"),
		},
	}
	f := NewExporterFetcher(src, nil)

	raw, err := f.Fetch(context.Background(), health.Heart, time.Now().Add(-24*time.Hour), time.Now())
	require.NoError(t, err, "a failed sub-metric must not fail the category")
	assert.False(t, raw.Empty())
	assert.Len(t, raw.Metrics, 4, "only succeeded sub-metrics are kept")
	for _, m := range raw.Metrics {
		assert.NotEqual(t, "cardio_recovery", m.Name)
	}
}

func TestFetchTotalFailureIsEmptyNotError(t *testing.T) {
	errs := make(map[string]error)
	for _, name := range health.SubMetrics[health.Vitals] {
		errs[name] = errors.New("connection refused")
	}
	f := NewExporterFetcher(&fakeSource{errs: errs}, nil)

	raw, err := f.Fetch(context.Background(), health.Vitals, time.Now().Add(-24*time.Hour), time.Now())
	require.NoError(t, err)
	assert.True(t, raw.Empty(), "total failure reads as no data")
}

func TestFetchPreservesSubMetricOrder(t *testing.T) {
	src := &fakeSource{series: map[string]*exporter.Series{
		"mindful_minutes":       series("min", 10, 12),
		"state_of_mind_valence": series("", 0.4),
		"daylight_minutes":      series("min", 45),
	}}
	f := NewExporterFetcher(src, nil)

	raw, err := f.Fetch(context.Background(), health.Mind, time.Now().Add(-24*time.Hour), time.Now())
	require.NoError(t, err)
	require.Len(t, raw.Metrics, 3)
	assert.Equal(t, health.SubMetrics[health.Mind], []string{
		raw.Metrics[0].Name, raw.Metrics[1].Name, raw.Metrics[2].Name,
	})
}

func TestAggregate(t *testing.T) {
	s := series("bpm", 70, 55, 131, 68)
	m := aggregate("heart_rate", s)

	assert.Equal(t, "heart_rate", m.Name)
	assert.Equal(t, "bpm", m.Unit)
	assert.Equal(t, 4, m.Count)
	assert.InDelta(t, 81.0, m.Avg, 0.001)
	assert.Equal(t, 55.0, m.Min)
	assert.Equal(t, 131.0, m.Max)
	assert.Equal(t, 68.0, m.Latest, "latest follows the newest timestamp")
}

func TestAggregateEmptySeries(t *testing.T) {
	m := aggregate("heart_rate", &exporter.Series{Unit: "bpm"})
	assert.Equal(t, 0, m.Count)
	assert.Zero(t, m.Avg)
}
