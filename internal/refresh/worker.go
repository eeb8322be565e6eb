package refresh

import (
	"context"
	"time"

	"github.com/matheuskafuri/pulse/internal/authz"
	"github.com/matheuskafuri/pulse/internal/fetch"
	"github.com/matheuskafuri/pulse/internal/health"
	"github.com/matheuskafuri/pulse/internal/summary"
	"go.uber.org/zap"
)

// Notifier receives per-category results as each worker finishes,
// independent of its siblings. Implementations must be safe to call
// from multiple goroutines.
type Notifier interface {
	CategoryUpdated(cat health.Category, sum *health.TimespanSummary)
	CategorySkipped(cat health.Category)
}

// Store is the slice of the cache the pipeline needs.
type Store interface {
	Get(cat health.Category, span health.TimeSpan) (*health.TimespanSummary, error)
	Put(sum *health.TimespanSummary) error
}

// Generator is the summary path the pipeline consumes.
type Generator interface {
	ModelAvailable() bool
	Generate(ctx context.Context, cat health.Category, span health.TimeSpan, raw health.RawMetrics) (string, bool)
}

// Worker runs the per-category pipeline:
// gate -> cache freshness -> fetch -> summarize -> persist -> notify.
type Worker struct {
	gate     authz.Gate
	fetcher  fetch.Fetcher
	gen      Generator
	store    Store
	notifier Notifier
	log      *zap.SugaredLogger
	now      func() time.Time
}

func NewWorker(gate authz.Gate, fetcher fetch.Fetcher, gen Generator, store Store, notifier Notifier, log *zap.SugaredLogger) *Worker {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Worker{
		gate:     gate,
		fetcher:  fetcher,
		gen:      gen,
		store:    store,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

// Run executes the pipeline for one (category, timespan). Every call
// ends in exactly one notifier callback: updated (fresh cache hit, new
// summary, or degraded uncached summary) or skipped (not authorized).
// Errors never escape; siblings are unaffected.
func (w *Worker) Run(ctx context.Context, cat health.Category, span health.TimeSpan) {
	if w.gate.Status(cat) != authz.Authorized {
		w.log.Debugw("category not authorized, skipping", "category", cat)
		w.notifier.CategorySkipped(cat)
		return
	}

	now := w.now()

	cached, err := w.store.Get(cat, span)
	if err != nil {
		w.log.Warnw("cache read failed", "category", cat, "error", err)
		// Treat as a miss; the fetch path still produces a summary.
	}
	if cached != nil && cached.Fresh(now) {
		w.log.Debugw("cache hit", "category", cat, "age", now.Sub(cached.GeneratedAt))
		w.notifier.CategoryUpdated(cat, cached)
		return
	}

	start, end := span.Range(now)
	raw, err := w.fetcher.Fetch(ctx, cat, start, end)
	if err != nil {
		// Total fetch failure reads as "no data", never a hard error.
		w.log.Warnw("fetch failed", "category", cat, "error", err)
		raw = health.RawMetrics{}
	}

	sum := &health.TimespanSummary{
		Category:    cat,
		Span:        span,
		GeneratedAt: w.now(),
		Metrics:     raw,
	}

	if raw.Empty() {
		sum.Text = summary.NoData(cat, span)
	} else {
		sum.HasData = true
		sum.Text, _ = w.gen.Generate(ctx, cat, span, raw)
	}

	if err := w.store.Put(sum); err != nil {
		// Degraded: the summary is still shown, just not cached, so the
		// next refresh re-fetches.
		w.log.Warnw("cache write failed, summary not persisted", "category", cat, "error", err)
	}

	w.notifier.CategoryUpdated(cat, sum)
}
