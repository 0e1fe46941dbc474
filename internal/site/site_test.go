package site

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/folio/internal/content"
	folioerrors "github.com/conneroisu/folio/internal/errors"
	"github.com/conneroisu/folio/internal/layout"
	"github.com/conneroisu/folio/internal/page"
	"github.com/conneroisu/folio/internal/styles"
	"github.com/conneroisu/folio/internal/testutils"
)

func samplePages() *content.MemorySource {
	return content.NewMemorySource(
		content.PageData{Slug: "/", HTML: content.Trust("<h1>Welcome</h1>")},
		content.PageData{Slug: "/docs/intro/", HTML: content.Trust("<h1>Intro</h1>")},
		content.PageData{Slug: "/docs/install/", HTML: content.Trust("<h1>Install</h1>")},
		content.PageData{Slug: "/blog/hello/", HTML: content.Trust("<p>fish &amp; chips</p>")},
	)
}

// flakySource fails to load selected slugs.
type flakySource struct {
	*content.MemorySource
	fail map[string]error
}

func (s flakySource) Page(ctx context.Context, slug string) (content.PageData, error) {
	if err, ok := s.fail[slug]; ok {
		return content.PageData{}, err
	}
	return s.MemorySource.Page(ctx, slug)
}

// brokenSource cannot list its pages.
type brokenSource struct{ content.Source }

func (brokenSource) Slugs(context.Context) ([]string, error) {
	return nil, errors.New("query failed")
}

func TestBuildWritesEveryPage(t *testing.T) {
	out := t.TempDir()
	b := New(samplePages(), out,
		WithWorkers(2),
		WithChrome(page.Chrome{SiteTitle: "Folio", Nav: []layout.NavItem{{Label: "Docs", Href: "/docs/"}}}),
	)

	report, err := b.Build(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Pages, 4)
	assert.Empty(t, report.Failed)
	assert.Equal(t, "/", report.Pages[0].Slug)
	assert.Equal(t, filepath.Join(out, "index.html"), report.Pages[0].Path)

	for _, rel := range []string{"index.html", "docs/intro/index.html", "docs/install/index.html", "blog/hello/index.html", StylesheetName} {
		assert.FileExists(t, filepath.Join(out, rel))
	}

	css, err := os.ReadFile(filepath.Join(out, StylesheetName))
	require.NoError(t, err)
	assert.Equal(t, styles.Stylesheet(), string(css))
	assert.Equal(t, filepath.Join(out, StylesheetName), report.Stylesheet)

	snap := b.Metrics().Snapshot()
	assert.EqualValues(t, 1, snap.SuccessfulBuilds)
	assert.EqualValues(t, 4, snap.PagesWritten)
}

func TestBuildSidebarOnlyOnDocs(t *testing.T) {
	out := t.TempDir()
	_, err := New(samplePages(), out).Build(context.Background())
	require.NoError(t, err)

	docs := testutils.ReadDocument(t, filepath.Join(out, "docs/intro/index.html"))
	links := docs.Find("aside.sidebar a")
	require.Equal(t, 2, links.Length())
	assert.Equal(t, "Install", links.Eq(0).Text())
	assert.Equal(t, "Intro", links.Eq(1).Text())
	current, _ := links.Eq(1).Attr("aria-current")
	assert.Equal(t, "page", current)

	blog := testutils.ReadDocument(t, filepath.Join(out, "blog/hello/index.html"))
	assert.Equal(t, 0, blog.Find("aside.sidebar").Length())
	assert.Equal(t, "fish & chips", blog.Find(".page-content p").Text())
}

func TestBuildChromeSidebarOverride(t *testing.T) {
	out := t.TempDir()
	b := New(samplePages(), out, WithChrome(page.Chrome{
		Sidebar: []layout.NavItem{{Label: "Only", Href: "/docs/intro/"}},
	}))
	_, err := b.Build(context.Background())
	require.NoError(t, err)

	doc := testutils.ReadDocument(t, filepath.Join(out, "docs/install/index.html"))
	assert.Equal(t, "Only", doc.Find("aside.sidebar a").Text())
}

func TestBuildCollectsPageFailures(t *testing.T) {
	src := flakySource{
		MemorySource: samplePages(),
		fail: map[string]error{
			"/docs/install/": errors.New("disk on fire"),
			"/blog/hello/":   content.ErrNotFound,
		},
	}
	src.Put(content.PageData{Slug: "/../escape/"})

	out := t.TempDir()
	b := New(src, out)
	report, err := b.Build(context.Background())
	require.Error(t, err)

	assert.Len(t, report.Pages, 2)
	require.Len(t, report.Failed, 3)
	assert.Equal(t, "/../escape/", report.Failed[0].Slug)
	assert.True(t, folioerrors.IsSecurityError(report.Failed[0].Err))
	assert.Equal(t, "/blog/hello/", report.Failed[1].Slug)
	assert.True(t, errors.Is(report.Failed[1].Err, content.ErrNotFound))
	assert.Equal(t, "/docs/install/", report.Failed[2].Slug)

	assert.Contains(t, err.Error(), "3 page(s) failed")
	assert.FileExists(t, filepath.Join(out, "docs/intro/index.html"))
	assert.NoFileExists(t, filepath.Join(filepath.Dir(out), "escape", "index.html"))

	assert.EqualValues(t, 1, b.Metrics().Snapshot().FailedBuilds)
}

func TestBuildDetectsOutputCollisions(t *testing.T) {
	src := content.NewMemorySource(
		content.PageData{Slug: "/about/"},
		content.PageData{Slug: "/about"},
		content.PageData{Slug: "/other/"},
	)
	out := filepath.Join(t.TempDir(), "public")

	b := New(src, out)
	report, err := b.Build(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output collides with /about")
	require.Len(t, report.Failed, 1)
	assert.Equal(t, "/about/", report.Failed[0].Slug)

	assert.Empty(t, report.Pages)
	assert.Empty(t, report.Stylesheet)
	assert.NoDirExists(t, out)
	assert.EqualValues(t, 1, b.Metrics().Snapshot().FailedBuilds)
}

func TestBuildRenderFailure(t *testing.T) {
	failing := func(layout.Props) templ.Component {
		return templ.ComponentFunc(func(context.Context, io.Writer) error {
			return errors.New("layout exploded")
		})
	}

	report, err := New(samplePages(), t.TempDir(), WithLayout(failing)).Build(context.Background())
	require.Error(t, err)
	require.Len(t, report.Failed, 4)

	var fe *folioerrors.FolioError
	require.True(t, errors.As(report.Failed[0].Err, &fe))
	assert.Equal(t, folioerrors.ErrCodeRenderFailed, fe.Code)
}

func TestBuildSourceFailure(t *testing.T) {
	b := New(brokenSource{}, t.TempDir())
	_, err := b.Build(context.Background())
	require.Error(t, err)
	assert.True(t, folioerrors.IsType(err, folioerrors.ErrorTypeContent))
	assert.EqualValues(t, 1, b.Metrics().Snapshot().FailedBuilds)
}

func TestBuildCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(samplePages(), t.TempDir()).Build(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuildFromDirSource(t *testing.T) {
	dir := testutils.CreateContentDir(t, map[string]string{
		"pages.json": `[
  {"html": "<h2>Setup</h2><script>alert(1)</script>", "fields": {"slug": "/docs/setup/"}},
  {"html": "<p>Hi</p>", "fields": {"slug": "/"}}
]`,
	})

	out := t.TempDir()
	report, err := New(content.NewDirSource(dir, content.WithSanitize(true)), out).Build(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Pages, 2)

	raw, err := os.ReadFile(filepath.Join(out, "docs/setup/index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "<h2>Setup</h2>")
	assert.False(t, strings.Contains(string(raw), "alert(1)"))
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()
	assert.Zero(t, m.SuccessRate())
	assert.Zero(t, m.AverageDuration())

	m.RecordBuild(&Report{Pages: make([]PageResult, 3), Duration: 30 * time.Millisecond}, nil)
	m.RecordBuild(&Report{Pages: make([]PageResult, 1), Duration: 10 * time.Millisecond}, errors.New("page failed"))
	m.RecordBuild(&Report{Pages: make([]PageResult, 2), Duration: 20 * time.Millisecond}, nil)
	m.RecordBuild(&Report{Duration: 20 * time.Millisecond}, context.Canceled)

	snap := m.Snapshot()
	assert.EqualValues(t, 4, snap.TotalBuilds)
	assert.EqualValues(t, 2, snap.FailedBuilds)
	assert.EqualValues(t, 6, snap.PagesWritten)
	assert.Equal(t, 20*time.Millisecond, snap.LastDuration)
	assert.InDelta(t, 50.0, m.SuccessRate(), 0.001)
	assert.Equal(t, 20*time.Millisecond, m.AverageDuration())
}
