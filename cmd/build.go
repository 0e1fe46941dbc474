package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/conneroisu/folio/internal/config"
	"github.com/conneroisu/folio/internal/content"
	"github.com/conneroisu/folio/internal/logging"
	"github.com/conneroisu/folio/internal/page"
	"github.com/conneroisu/folio/internal/site"
)

func (a *app) newBuildCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "build",
		Aliases: []string{"b"},
		Short:   "Render every page into the output directory",
		Long: `Render every page found in the content directory into the output
directory, one index.html per slug, plus the shared styles.css.

A page that fails to load, render or write fails the build, but every other
page is still written. Two slugs that map to the same file fail the build
before anything is written.

Examples:
  folio build                     # Build ./content into ./public
  folio build --output dist       # Build to a specific output directory
  folio build --clean --workers 4 # Start from an empty output directory`,
		Args: cobra.NoArgs,
		RunE: a.runBuild,
	}

	flags := cmd.Flags()
	flags.StringP("output", "o", "", "Output directory")
	flags.IntP("workers", "w", 0, "Pages rendered in parallel (default: number of CPUs)")
	flags.Bool("clean", false, "Remove the output directory before building")
	flags.Bool("sanitize", false, "Sanitize page HTML instead of trusting it")
	a.bind(cmd, "build.output_dir", flags.Lookup("output"))
	a.bind(cmd, "build.workers", flags.Lookup("workers"))
	a.bind(cmd, "build.clean", flags.Lookup("clean"))
	a.bind(cmd, "content.sanitize", flags.Lookup("sanitize"))

	return cmd
}

func (a *app) runBuild(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := a.load(cmd)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	out := cmd.OutOrStdout()
	if cfg.Build.Clean {
		fmt.Fprintf(out, "🧹 Cleaning %s\n", cfg.Build.OutputDir)
		if err := site.Clean(cfg.Build.OutputDir); err != nil {
			return err
		}
	}

	_, err = buildSite(cmd.Context(), cfg, logger, out, nil)
	return err
}

// buildSite runs one build and prints its summary.
func buildSite(ctx context.Context, cfg *config.Config, logger logging.Logger, out io.Writer, metrics *site.Metrics) (*site.Report, error) {
	fmt.Fprintf(out, "🔨 Building %s -> %s\n", cfg.Content.Dir, cfg.Build.OutputDir)

	builder := site.New(
		openSource(cfg),
		cfg.Build.OutputDir,
		site.WithWorkers(cfg.Build.Workers),
		site.WithChrome(chrome(cfg)),
		site.WithLogger(logger),
		site.WithMetrics(metrics),
	)

	report, err := builder.Build(ctx)
	for _, failed := range report.Failed {
		fmt.Fprintf(out, "❌ %s: %v\n", failed.Slug, failed.Err)
	}
	if err != nil {
		return report, err
	}

	fmt.Fprintf(out, "✅ Built %d page(s) in %s\n", len(report.Pages), report.Duration.Round(time.Millisecond))
	return report, nil
}

func openSource(cfg *config.Config) *content.DirSource {
	return content.NewDirSource(cfg.Content.Dir, content.WithSanitize(cfg.Content.Sanitize))
}

func chrome(cfg *config.Config) page.Chrome {
	return page.Chrome{
		SiteTitle: cfg.Site.Title,
		Nav:       cfg.Site.Nav,
		Footer:    cfg.Site.Footer,
	}
}
