package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/matheuskafuri/pulse/internal/cache"
	"github.com/matheuskafuri/pulse/internal/config"
	"github.com/matheuskafuri/pulse/internal/health"
	"github.com/matheuskafuri/pulse/internal/refresh"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var flagRefreshSpan string

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refresh all category briefings without the TUI",
	Long:  "Run one full refresh cycle and print each category's briefing as it completes. Useful for cron or scripting.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		span := cfg.DefaultSpan()
		if flagRefreshSpan != "" {
			span, err = health.ParseTimeSpan(flagRefreshSpan)
			if err != nil {
				return err
			}
		}

		store, err := cache.Open(config.CachePath())
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		defer store.Close()

		logger, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		log := logger.Sugar()
		defer logger.Sync()

		_, gate, fetcher, gen := buildPipeline(cfg, log)

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		if err := gate.RefreshPermissionStates(ctx); err != nil {
			log.Warnw("permission query failed, using cached snapshot", "error", err)
		}

		worker := refresh.NewWorker(gate, fetcher, gen, store, consoleNotifier{}, log)
		coord := refresh.NewCoordinator(worker, gen, log)
		coord.Refresh(ctx, span)

		if err := store.SetLastRefresh(); err != nil {
			log.Warnw("recording refresh time failed", "error", err)
		}
		return nil
	},
}

func init() {
	refreshCmd.Flags().StringVar(&flagRefreshSpan, "span", "", "briefing window: daily, weekly, or monthly")
}

// consoleNotifier prints each category's result the moment its worker
// finishes.
type consoleNotifier struct{}

func (consoleNotifier) CategoryUpdated(cat health.Category, sum *health.TimespanSummary) {
	fmt.Printf("%-12s %s\n", cat.Label()+":", sum.Text)
}

func (consoleNotifier) CategorySkipped(cat health.Category) {
	fmt.Printf("%-12s (not shared)\n", cat.Label()+":")
}
