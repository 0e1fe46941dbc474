// Package site builds a static site from a content source: every page is
// rendered through the page renderer and written below an output directory,
// alongside the shared stylesheet.
package site

import (
	"bytes"
	"context"
	"errors"
	"os"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/conneroisu/folio/internal/content"
	folioerrors "github.com/conneroisu/folio/internal/errors"
	"github.com/conneroisu/folio/internal/layout"
	"github.com/conneroisu/folio/internal/logging"
	"github.com/conneroisu/folio/internal/page"
)

// Builder renders every page of a source into an output directory.
type Builder struct {
	source  content.Source
	outDir  string
	chrome  page.Chrome
	layout  layout.Func
	workers int
	logger  logging.Logger
	metrics *Metrics
}

// Option configures a Builder.
type Option func(*Builder)

// WithWorkers bounds the number of pages rendered at once.
func WithWorkers(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.workers = n
		}
	}
}

// WithChrome sets the site title, navigation and footer. A non-empty
// Sidebar replaces the one derived from the docs slugs.
func WithChrome(c page.Chrome) Option {
	return func(b *Builder) {
		b.chrome = c
	}
}

// WithLayout replaces the default layout.
func WithLayout(fn layout.Func) Option {
	return func(b *Builder) {
		b.layout = fn
	}
}

// WithLogger sets the build logger.
func WithLogger(l logging.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithMetrics shares a metrics tracker between builders, so a watch session
// can report on every rebuild.
func WithMetrics(m *Metrics) Option {
	return func(b *Builder) {
		if m != nil {
			b.metrics = m
		}
	}
}

// New creates a builder writing to outDir.
func New(source content.Source, outDir string, opts ...Option) *Builder {
	b := &Builder{
		source:  source,
		outDir:  outDir,
		workers: runtime.NumCPU(),
		logger:  logging.Discard(),
		metrics: NewMetrics(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = b.logger.WithComponent("site")
	return b
}

// Metrics returns the metrics accumulated over every Build call.
func (b *Builder) Metrics() *Metrics {
	return b.metrics
}

// PageResult describes one written page.
type PageResult struct {
	Slug     string
	Path     string
	Bytes    int
	Duration time.Duration
}

// Report summarises one build.
type Report struct {
	OutputDir  string
	Pages      []PageResult
	Failed     []folioerrors.PageError
	Stylesheet string
	Duration   time.Duration
}

// Build renders every page. Pages are rendered independently; a failing page
// does not stop the others, but any failure fails the build. The report is
// returned in both cases.
func (b *Builder) Build(ctx context.Context) (*Report, error) {
	start := time.Now()
	op := logging.StartOperation(b.logger, "build")

	report, err := b.build(ctx)
	report.Duration = time.Since(start)
	b.metrics.RecordBuild(report, err)

	if err != nil {
		op.EndWithError(ctx, err)
		return report, err
	}
	op.End(ctx, "pages", len(report.Pages), "output", b.outDir)
	return report, nil
}

func (b *Builder) build(ctx context.Context) (*Report, error) {
	report := &Report{OutputDir: b.outDir}

	slugs, err := b.source.Slugs(ctx)
	if err != nil {
		return report, folioerrors.WrapContent(err, folioerrors.ErrCodeContentInvalid, "unable to list pages")
	}

	collector := folioerrors.NewErrorCollector()
	tasks, collisions := b.plan(slugs, collector)
	if collisions > 0 {
		report.Failed = collector.GetErrors()
		return report, collector.Err()
	}

	if err := os.MkdirAll(b.outDir, 0o755); err != nil {
		return report, folioerrors.ErrWriteFailed(b.outDir, err)
	}
	css, err := WriteStylesheet(b.outDir)
	if err != nil {
		return report, err
	}
	report.Stylesheet = css

	renderer := b.renderer(slugs)

	results := make(chan PageResult, len(tasks))
	queue := make(chan task)

	var wg sync.WaitGroup
	for range min(b.workers, max(len(tasks), 1)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.worker(ctx, renderer, queue, results, collector)
		}()
	}

feed:
	for _, t := range tasks {
		select {
		case <-ctx.Done():
			break feed
		case queue <- t:
		}
	}
	close(queue)
	wg.Wait()
	close(results)

	for r := range results {
		report.Pages = append(report.Pages, r)
	}
	sort.Slice(report.Pages, func(i, j int) bool { return report.Pages[i].Slug < report.Pages[j].Slug })
	report.Failed = collector.GetErrors()

	if ctx.Err() != nil {
		return report, ctx.Err()
	}
	if collector.HasErrors() {
		return report, collector.Err()
	}
	return report, nil
}

type task struct {
	slug string
	path string
}

// plan maps slugs to output files. Slugs that cannot be mapped, or that map
// to a file another slug already claimed, are recorded as failures. Any
// collision aborts the build before a file is written, so the number of
// collisions is returned separately.
func (b *Builder) plan(slugs []string, collector *folioerrors.ErrorCollector) ([]task, int) {
	tasks := make([]task, 0, len(slugs))
	claimed := make(map[string]string, len(slugs))
	collisions := 0

	for _, slug := range slugs {
		path, err := OutputPath(b.outDir, slug)
		if err != nil {
			collector.Add(slug, "", err)
			continue
		}
		if prev, ok := claimed[path]; ok {
			collisions++
			collector.Add(slug, path, folioerrors.NewValidationError(
				folioerrors.ErrCodeInvalidPath,
				"output collides with "+prev,
			).WithSlug(slug).WithFile(path))
			continue
		}
		claimed[path] = slug
		tasks = append(tasks, task{slug: slug, path: path})
	}
	return tasks, collisions
}

func (b *Builder) renderer(slugs []string) *page.Renderer {
	chrome := b.chrome
	if len(chrome.Sidebar) == 0 {
		chrome.Sidebar = layout.SidebarFromSlugs(slugs)
	}
	return page.New(page.WithLayout(b.layout), page.WithChrome(chrome))
}

func (b *Builder) worker(ctx context.Context, r *page.Renderer, queue <-chan task, results chan<- PageResult, collector *folioerrors.ErrorCollector) {
	var buf bytes.Buffer
	for t := range queue {
		start := time.Now()
		buf.Reset()

		if err := b.renderPage(ctx, r, t, &buf); err != nil {
			b.logger.Error(ctx, err, "Page failed", "slug", t.slug)
			collector.Add(t.slug, t.path, err)
			continue
		}

		result := PageResult{
			Slug:     t.slug,
			Path:     t.path,
			Bytes:    buf.Len(),
			Duration: time.Since(start),
		}
		b.logger.Debug(ctx, "Page written", "slug", t.slug, "path", t.path, "bytes", result.Bytes)
		results <- result
	}
}

func (b *Builder) renderPage(ctx context.Context, r *page.Renderer, t task, buf *bytes.Buffer) error {
	data, err := b.source.Page(ctx, t.slug)
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			return folioerrors.ErrPageNotFound(t.slug, err)
		}
		return folioerrors.WrapContent(err, folioerrors.ErrCodeContentInvalid, "unable to load page").WithSlug(t.slug)
	}

	if err := r.Render(ctx, buf, data); err != nil {
		return folioerrors.ErrRenderFailed(t.slug, err)
	}

	if err := writeFile(t.path, buf.Bytes()); err != nil {
		return folioerrors.ErrWriteFailed(t.path, err).WithSlug(t.slug)
	}
	return nil
}
