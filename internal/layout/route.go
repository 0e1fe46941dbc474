package layout

import "strings"

// Route is the layout variant a page is rendered with.
type Route int

const (
	DefaultLayout Route = iota
	DocsLayout
)

// DocsPrefix is the slug prefix of documentation pages.
const DocsPrefix = "/docs/"

// String returns the name of the layout.
func (r Route) String() string {
	switch r {
	case DocsLayout:
		return "docs"
	case DefaultLayout:
		return "default"
	default:
		return "unknown"
	}
}

// ClassifyRoute picks the layout for a slug. Only slugs that begin with the
// literal prefix "/docs/" get the docs layout; the slug is not otherwise
// validated, so "/docs", "docs/x" and "" all fall back to the default layout.
func ClassifyRoute(slug string) Route {
	if strings.HasPrefix(slug, DocsPrefix) {
		return DocsLayout
	}
	return DefaultLayout
}

// ShowSidebar reports whether the page at slug gets the docs sidebar.
func ShowSidebar(slug string) bool {
	return ClassifyRoute(slug) == DocsLayout
}
