// Package refresh orchestrates the per-category summary pipelines.
//
// A full refresh fans one worker out per category; each worker notifies
// the UI the moment its own pipeline finishes. A single-flight guard
// drops (not queues) refresh requests that arrive mid-cycle.
package refresh

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/matheuskafuri/pulse/internal/health"
	"go.uber.org/zap"
)

type Coordinator struct {
	worker     *Worker
	gen        Generator
	log        *zap.SugaredLogger
	refreshing atomic.Bool
}

func NewCoordinator(worker *Worker, gen Generator, log *zap.SugaredLogger) *Coordinator {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Coordinator{worker: worker, gen: gen, log: log}
}

// Refreshing reports whether a full refresh cycle is in flight.
func (c *Coordinator) Refreshing() bool {
	return c.refreshing.Load()
}

// Refresh runs one full cycle: every category concurrently, wait for
// all, release the guard. A call while a cycle is in flight is a
// silent no-op. Worker failures are contained per category and cannot
// leave the guard held.
func (c *Coordinator) Refresh(ctx context.Context, span health.TimeSpan) {
	if !c.refreshing.CompareAndSwap(false, true) {
		c.log.Debugw("refresh already in flight, dropping request")
		return
	}
	defer c.refreshing.Store(false)

	// Capability is checked once per cycle, not per worker.
	c.log.Infow("refresh started", "span", span, "model", c.gen.ModelAvailable())

	var wg sync.WaitGroup
	for _, cat := range health.AllCategories() {
		wg.Add(1)
		go func(cat health.Category) {
			defer wg.Done()
			c.worker.Run(ctx, cat, span)
		}(cat)
	}
	wg.Wait()

	c.log.Infow("refresh finished", "span", span)
}

// RefreshCategory runs exactly one category's pipeline, bypassing the
// single-flight guard. Used when a category is authorized for the
// first time and needs its initial summary immediately.
func (c *Coordinator) RefreshCategory(ctx context.Context, cat health.Category, span health.TimeSpan) {
	c.worker.Run(ctx, cat, span)
}
