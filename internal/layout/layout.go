// Package layout decides which layout a page gets and provides the default
// layout chrome: header navigation, the docs sidebar and the footer, composed
// around the page content.
package layout

import (
	"context"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/a-h/templ"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/conneroisu/folio/internal/components"
)

// NavItem is one navigation entry.
type NavItem struct {
	Label string `mapstructure:"label" yaml:"label"`
	Href  string `mapstructure:"href" yaml:"href"`
}

// External reports whether the entry leaves the site.
func (n NavItem) External() bool {
	return strings.HasPrefix(n.Href, "http://") || strings.HasPrefix(n.Href, "https://")
}

// Props controls how the layout composes its chrome.
type Props struct {
	Title       string
	Current     string
	ShowSidebar bool
	Nav         []NavItem
	Sidebar     []NavItem
	Footer      []NavItem
}

// Func builds the layout for a set of props. The page content is passed as
// templ children.
type Func func(Props) templ.Component

// Layout is the default layout.
func Layout(p Props) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		ctx = templ.InitializeContext(ctx)
		children := templ.GetChildren(ctx)
		if children == nil {
			children = templ.NopComponent
		}
		ctx = templ.ClearChildren(ctx)

		variant := DefaultLayout
		if p.ShowSidebar {
			variant = DocsLayout
		}

		if err := write(w,
			`<!doctype html><html lang="en"><head><meta charset="utf-8">`,
			`<meta name="viewport" content="width=device-width, initial-scale=1">`,
			`<title>`, templ.EscapeString(p.Title), `</title></head>`,
			`<body class="layout layout-`, variant.String(), `">`,
			`<header class="site-header"><nav>`,
		); err != nil {
			return err
		}
		if err := renderNav(ctx, w, p.Nav, p.Current, components.NavLink); err != nil {
			return err
		}
		if err := write(w, `</nav></header><div class="site-body">`); err != nil {
			return err
		}

		if p.ShowSidebar {
			if err := write(w, `<aside class="sidebar"><nav>`); err != nil {
				return err
			}
			if err := renderNav(ctx, w, p.Sidebar, p.Current, components.NavLink); err != nil {
				return err
			}
			if err := write(w, `</nav></aside>`); err != nil {
				return err
			}
		}

		if err := write(w, `<main class="site-main">`); err != nil {
			return err
		}
		if err := children.Render(ctx, w); err != nil {
			return err
		}
		if err := write(w, `</main></div><footer class="site-footer">`); err != nil {
			return err
		}
		if err := renderNav(ctx, w, p.Footer, p.Current, components.Link); err != nil {
			return err
		}
		return write(w, `</footer></body></html>`)
	})
}

type linkFunc func(string, ...components.Attr) templ.Component

func renderNav(ctx context.Context, w io.Writer, items []NavItem, current string, link linkFunc) error {
	for _, item := range items {
		var attrs []components.Attr
		if isActive(item.Href, current) {
			attrs = append(attrs, components.Attr{Name: "aria-current", Value: "page"})
		}
		if item.External() {
			attrs = append(attrs,
				components.Attr{Name: "rel", Value: "noopener"},
				components.Attr{Name: "target", Value: "_blank"},
			)
		}
		if err := link(item.Href, attrs...).Render(templ.WithChildren(ctx, components.Text(item.Label)), w); err != nil {
			return err
		}
	}
	return nil
}

// isActive matches the item's path exactly or as a directory prefix of the
// current slug. The root item only matches the root.
func isActive(href, current string) bool {
	if href == "" || current == "" {
		return false
	}
	if href == "/" {
		return current == "/"
	}
	if current == href {
		return true
	}
	return strings.HasPrefix(current, strings.TrimSuffix(href, "/")+"/")
}

func write(w io.Writer, parts ...string) error {
	for _, s := range parts {
		if _, err := io.WriteString(w, s); err != nil {
			return err
		}
	}
	return nil
}

// TitleFromSlug derives a human title from the last segment of a slug.
func TitleFromSlug(slug string) string {
	trimmed := strings.Trim(slug, "/")
	if trimmed == "" {
		return "Home"
	}
	seg := path.Base(trimmed)
	seg = strings.NewReplacer("-", " ", "_", " ").Replace(seg)
	// Casers keep state between calls and are not safe to share.
	return cases.Title(language.English).String(seg)
}

// SidebarFromSlugs builds the docs sidebar from every docs slug, in lexical
// order.
func SidebarFromSlugs(slugs []string) []NavItem {
	docs := make([]string, 0, len(slugs))
	for _, s := range slugs {
		if ShowSidebar(s) {
			docs = append(docs, s)
		}
	}
	sort.Strings(docs)

	items := make([]NavItem, 0, len(docs))
	for _, s := range docs {
		items = append(items, NavItem{Label: TitleFromSlug(s), Href: s})
	}
	return items
}
