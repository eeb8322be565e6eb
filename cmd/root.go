package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/matheuskafuri/pulse/internal/authz"
	"github.com/matheuskafuri/pulse/internal/cache"
	"github.com/matheuskafuri/pulse/internal/config"
	"github.com/matheuskafuri/pulse/internal/exporter"
	"github.com/matheuskafuri/pulse/internal/fetch"
	"github.com/matheuskafuri/pulse/internal/health"
	"github.com/matheuskafuri/pulse/internal/summary"
	"github.com/matheuskafuri/pulse/internal/tui"
	"github.com/matheuskafuri/pulse/internal/update"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagConfig string
	flagSpan   string
)

var rootCmd = &cobra.Command{
	Use:   "pulse",
	Short: "TUI health briefings from your own metrics exporter",
	Long:  "pulse pulls personal health metrics from a self-hosted exporter and renders short per-category briefings, AI-written when configured.",
	RunE:  runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
	rootCmd.Flags().StringVar(&flagSpan, "span", "", "briefing window: daily, weekly, or monthly")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(pruneCmd)
	rootCmd.AddCommand(statsCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pulse %s (commit: %s, built: %s)\n", version, commit, date)
	},
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	span := cfg.DefaultSpan()
	if flagSpan != "" {
		span, err = health.ParseTimeSpan(flagSpan)
		if err != nil {
			return err
		}
	}

	store, err := cache.Open(config.CachePath())
	if err != nil {
		return fmt.Errorf("opening cache: %w", err)
	}
	defer store.Close()

	// Logs would fight the altscreen, so the TUI runs silent.
	client, gate, fetcher, gen := buildPipeline(cfg, zap.NewNop().Sugar())

	if res := update.Check(context.Background(), version); res != nil {
		defer fmt.Printf("pulse %s is available (you have %s)\n", res.LatestVersion, version)
	}

	return tui.Run(tui.RunOpts{
		Gate:         gate,
		Fetcher:      fetcher,
		Generator:    gen,
		Store:        store,
		Span:         span,
		DashboardURL: client.DashboardURL(),
		Log:          zap.NewNop().Sugar(),
	})
}

// buildPipeline wires the exporter-backed pipeline components from config.
func buildPipeline(cfg *config.Config, log *zap.SugaredLogger) (*exporter.Client, authz.Gate, fetch.Fetcher, *summary.Generator) {
	client := exporter.New(cfg.Exporter.URL, cfg.Exporter.Token, cfg.ExporterTimeout())

	var disabled []health.Category
	for _, cat := range health.AllCategories() {
		if cfg.Disabled(cat) {
			disabled = append(disabled, cat)
		}
	}
	gate := authz.NewSnapshotGate(client, disabled)
	fetcher := fetch.NewExporterFetcher(client, log)
	gen := summary.New(cfg.AI, cfg.AIKey(), log)

	return client, gate, fetcher, gen
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

func parseDays(s string) (time.Duration, error) {
	if len(s) > 1 && s[len(s)-1] == 'd' {
		var days int
		if _, err := fmt.Sscanf(s, "%dd", &days); err == nil {
			return time.Duration(days) * 24 * time.Hour, nil
		}
	}
	return time.ParseDuration(s)
}
