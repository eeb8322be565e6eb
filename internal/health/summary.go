package health

import "time"

// TimespanSummary is the cached briefing for one (category, timespan) key.
// Exactly one row exists per key; refreshes overwrite, never merge.
type TimespanSummary struct {
	Category    Category
	Span        TimeSpan
	GeneratedAt time.Time
	Text        string
	HasData     bool
	Metrics     RawMetrics
}

// Fresh reports whether the summary is younger than its span's max age.
// Age exactly at the boundary counts as stale.
func (s *TimespanSummary) Fresh(now time.Time) bool {
	if s == nil {
		return false
	}
	return now.Sub(s.GeneratedAt) < s.Span.MaxAge()
}
