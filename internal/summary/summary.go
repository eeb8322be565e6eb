// Package summary turns raw category metrics into briefing text, via an
// LLM when configured and a built-in templated fallback otherwise.
package summary

import (
	"context"
	"strings"

	"github.com/matheuskafuri/pulse/internal/config"
	"github.com/matheuskafuri/pulse/internal/health"
	"go.uber.org/zap"
)

// modelClient is the LLM-backed path. Implementations may fail; the
// generator recovers with the fallback.
type modelClient interface {
	Summarize(ctx context.Context, cat health.Category, span health.TimeSpan, raw health.RawMetrics) (string, error)
}

type Generator struct {
	model modelClient // nil when AI is not configured
	log   *zap.SugaredLogger
}

// New builds a Generator. With no AI config or key the model path is
// absent and every summary comes from the fallback.
func New(cfg *config.AIConfig, apiKey string, log *zap.SugaredLogger) *Generator {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	g := &Generator{log: log}
	if cfg == nil || apiKey == "" {
		return g
	}
	g.model = newProvider(cfg, apiKey)
	return g
}

// ModelAvailable reports whether the LLM path is configured.
func (g *Generator) ModelAvailable() bool {
	return g.model != nil
}

// Generate produces briefing text for the metrics. The model path and
// any of its failures (absent, erroring, or empty output) all land on
// the same deterministic fallback, so identical metrics always yield
// usable text. The bool reports whether the model produced the text.
func (g *Generator) Generate(ctx context.Context, cat health.Category, span health.TimeSpan, raw health.RawMetrics) (string, bool) {
	if g.model != nil {
		text, err := g.model.Summarize(ctx, cat, span, raw)
		if err != nil {
			g.log.Warnw("model summary failed, using fallback", "category", cat, "error", err)
		} else if strings.TrimSpace(text) != "" {
			return strings.TrimSpace(text), true
		}
	}
	return Fallback(cat, span, raw), false
}

// NoData returns the fixed text shown when a category has no samples
// in the window. The model is never consulted for empty metrics.
func NoData(cat health.Category, span health.TimeSpan) string {
	return "No " + strings.ToLower(cat.Label()) + " data recorded in the " +
		strings.ToLower(span.Label()) + " window."
}
