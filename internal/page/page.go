// Package page renders a single content page inside the site layout.
//
// The renderer decides whether the page gets the docs sidebar from its slug,
// hands that decision to the layout, and injects the page's trusted markup
// into the layout's content region without escaping it.
package page

import (
	"bytes"
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/conneroisu/folio/internal/content"
	"github.com/conneroisu/folio/internal/layout"
)

// Chrome is the site-wide part of the layout props.
type Chrome struct {
	SiteTitle string
	Nav       []layout.NavItem
	Sidebar   []layout.NavItem
	Footer    []layout.NavItem
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLayout replaces the default layout.
func WithLayout(fn layout.Func) Option {
	return func(r *Renderer) {
		if fn != nil {
			r.layout = fn
		}
	}
}

// WithChrome sets the site title and navigation.
func WithChrome(c Chrome) Option {
	return func(r *Renderer) {
		r.chrome = c
	}
}

// WithSidebar sets the docs sidebar entries.
func WithSidebar(items []layout.NavItem) Option {
	return func(r *Renderer) {
		r.chrome.Sidebar = items
	}
}

// Renderer renders pages. It holds no per-render state and is safe for
// concurrent use.
type Renderer struct {
	layout layout.Func
	chrome Chrome
}

// New creates a renderer using the default layout unless overridden.
func New(opts ...Option) *Renderer {
	r := &Renderer{layout: layout.Layout}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Props computes the layout props for a page.
func (r *Renderer) Props(data content.PageData) layout.Props {
	showSidebar := layout.ShowSidebar(data.Slug)

	props := layout.Props{
		Title:       title(r.chrome.SiteTitle, data.Slug),
		Current:     data.Slug,
		ShowSidebar: showSidebar,
		Nav:         r.chrome.Nav,
		Footer:      r.chrome.Footer,
	}
	if showSidebar {
		props.Sidebar = r.chrome.Sidebar
	}
	return props
}

// Component returns the page as a templ component.
func (r *Renderer) Component(data content.PageData) templ.Component {
	props := r.Props(data)
	body := Content(data.HTML)
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		ctx = templ.InitializeContext(ctx)
		return r.layout(props).Render(templ.WithChildren(ctx, body), w)
	})
}

// Render writes the page to w.
func (r *Renderer) Render(ctx context.Context, w io.Writer, data content.PageData) error {
	return r.Component(data).Render(ctx, w)
}

// RenderString renders the page to a string.
func (r *Renderer) RenderString(ctx context.Context, data content.PageData) (string, error) {
	var buf bytes.Buffer
	if err := r.Render(ctx, &buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Content renders trusted markup inside the page content container. The
// markup is written verbatim.
func Content(html content.TrustedHTML) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<div class="page-content">`); err != nil {
			return err
		}
		if err := templ.Raw(string(html)).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</div>`)
		return err
	})
}

func title(site, slug string) string {
	page := layout.TitleFromSlug(slug)
	if site == "" {
		return page
	}
	if page == "Home" {
		return site
	}
	return page + " | " + site
}
