// Package fetch pulls raw metric data from the exporter, one category
// at a time with concurrent per-metric sub-queries.
package fetch

import (
	"context"
	"sync"
	"time"

	"github.com/matheuskafuri/pulse/internal/exporter"
	"github.com/matheuskafuri/pulse/internal/health"
	"go.uber.org/zap"
)

// Fetcher retrieves aggregated metrics for one category over a window.
type Fetcher interface {
	Fetch(ctx context.Context, cat health.Category, start, end time.Time) (health.RawMetrics, error)
}

// MetricSource is the single-metric query the fetcher fans out over.
// *exporter.Client satisfies this.
type MetricSource interface {
	Metrics(ctx context.Context, name string, start, end time.Time) (*exporter.Series, error)
}

type ExporterFetcher struct {
	source MetricSource
	log    *zap.SugaredLogger
}

func NewExporterFetcher(source MetricSource, log *zap.SugaredLogger) *ExporterFetcher {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &ExporterFetcher{source: source, log: log}
}

// Fetch queries every sub-metric of the category concurrently and
// aggregates whatever came back. A failed sub-metric is logged and
// skipped; it never fails the category. The returned RawMetrics is
// empty (not an error) when no sub-metric produced samples.
func (f *ExporterFetcher) Fetch(ctx context.Context, cat health.Category, start, end time.Time) (health.RawMetrics, error) {
	names := health.SubMetrics[cat]
	results := make([]*exporter.Series, len(names))

	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			series, err := f.source.Metrics(ctx, name, start, end)
			if err != nil {
				f.log.Warnw("sub-metric fetch failed", "category", cat, "metric", name, "error", err)
				return
			}
			results[i] = series
		}(i, name)
	}
	wg.Wait()

	var raw health.RawMetrics
	for i, series := range results {
		if series == nil {
			continue
		}
		raw.Metrics = append(raw.Metrics, aggregate(names[i], series))
	}
	return raw, nil
}

// aggregate reduces a sample series to the stored per-metric aggregates.
func aggregate(name string, s *exporter.Series) health.Metric {
	m := health.Metric{Name: name, Unit: s.Unit, Count: len(s.Samples)}
	if len(s.Samples) == 0 {
		return m
	}

	m.Min = s.Samples[0].Value
	m.Max = s.Samples[0].Value
	latestTS := s.Samples[0].Timestamp
	m.Latest = s.Samples[0].Value

	var sum float64
	for _, sample := range s.Samples {
		sum += sample.Value
		if sample.Value < m.Min {
			m.Min = sample.Value
		}
		if sample.Value > m.Max {
			m.Max = sample.Value
		}
		if sample.Timestamp.After(latestTS) {
			latestTS = sample.Timestamp
			m.Latest = sample.Value
		}
	}
	m.Avg = sum / float64(len(s.Samples))
	return m
}
