package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/conneroisu/folio/internal/site"
	"github.com/conneroisu/folio/internal/watcher"
)

func (a *app) newWatchCommand() *cobra.Command {
	var (
		debounce time.Duration
		verbose  bool
	)

	cmd := &cobra.Command{
		Use:     "watch",
		Aliases: []string{"w"},
		Short:   "Build, then rebuild whenever content changes",
		Long: `Build the site, then watch the content directory and rebuild when a
query result file is created, changed or removed. Pages whose content was
removed are deleted from the output after the next successful build. A
failed rebuild is reported and watching continues.

Examples:
  folio watch                     # Watch ./content
  folio watch --verbose           # List every changed file
  folio watch --debounce 1s       # Wait longer for bursts of writes
  folio watch -o dist             # Watch and build into ./dist`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := a.load(cmd)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			out := cmd.OutOrStdout()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			metrics := site.NewMetrics()
			var last *site.Report
			rebuild := func(ctx context.Context) error {
				report, err := buildSite(ctx, cfg, logger, out, metrics)
				if err != nil {
					return err
				}
				removed, err := site.RemoveStale(last, report)
				for _, path := range removed {
					fmt.Fprintf(out, "🗑️  Removed %s\n", path)
				}
				if err != nil {
					return err
				}
				last = report
				return nil
			}

			if err := rebuild(ctx); err != nil {
				logger.Error(ctx, err, "Initial build failed")
			}

			fileWatcher, err := watcher.NewFileWatcher(debounce, watcher.WithLogger(logger))
			if err != nil {
				return fmt.Errorf("failed to create file watcher: %w", err)
			}
			defer fileWatcher.Stop()

			fileWatcher.AddFilter(watcher.ContentFilter)
			fileWatcher.AddFilter(watcher.NoHiddenFilter)
			fileWatcher.AddHandler(func(ctx context.Context, events []watcher.ChangeEvent) error {
				if verbose {
					fmt.Fprintln(out, "📁 Content changes detected:")
					for _, event := range events {
						fmt.Fprintf(out, "   %s: %s\n", event.Type, event.Path)
					}
				} else {
					fmt.Fprintf(out, "📁 %d file(s) changed\n", len(events))
				}
				return rebuild(ctx)
			})

			if err := fileWatcher.AddRecursive(cfg.Content.Dir); err != nil {
				return fmt.Errorf("failed to watch %s: %w", cfg.Content.Dir, err)
			}
			if err := fileWatcher.Start(ctx); err != nil {
				return fmt.Errorf("failed to start file watcher: %w", err)
			}

			fmt.Fprintf(out, "👀 Watching %s for changes... (Press Ctrl+C to stop)\n", cfg.Content.Dir)
			<-ctx.Done()

			snap := metrics.Snapshot()
			fmt.Fprintf(out, "\n🛑 Stopped after %d build(s), %d failed (%.0f%% ok), average %s\n",
				snap.TotalBuilds, snap.FailedBuilds, metrics.SuccessRate(), metrics.AverageDuration().Round(time.Millisecond))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.DurationVar(&debounce, "debounce", 300*time.Millisecond, "Quiet period before a rebuild")
	flags.BoolVarP(&verbose, "verbose", "v", false, "List every changed file")
	flags.StringP("output", "o", "", "Output directory")
	flags.IntP("workers", "w", 0, "Pages rendered in parallel (default: number of CPUs)")
	a.bind(cmd, "build.output_dir", flags.Lookup("output"))
	a.bind(cmd, "build.workers", flags.Lookup("workers"))

	return cmd
}
