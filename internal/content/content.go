// Package content holds the page data handed to the renderer by the external
// content pipeline, and the sources that read it.
//
// Markup arriving from the pipeline is already rendered and sanitized. The
// TrustedHTML type marks that boundary: a plain string only becomes
// TrustedHTML through Trust (an explicit statement that upstream sanitized
// it) or Sanitize (which runs it through an HTML policy first). Nothing in the
// render path escapes or unescapes TrustedHTML.
package content

import (
	"context"
	"errors"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// ErrNotFound is returned when no page exists for a slug.
var ErrNotFound = errors.New("page not found")

// TrustedHTML is markup that has already been sanitized.
type TrustedHTML string

// Trust marks markup as already sanitized by the content pipeline.
func Trust(html string) TrustedHTML {
	return TrustedHTML(html)
}

// Sanitize runs markup through the user-generated-content policy and returns
// the result as TrustedHTML.
func Sanitize(html string) TrustedHTML {
	return TrustedHTML(policy().Sanitize(html))
}

var policy = sync.OnceValue(newPolicy)

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements("figure", "figcaption")
	p.AllowAttrs("class").OnElements("figure", "figcaption", "p", "span", "div", "pre", "code")
	p.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	p.AllowAttrs("loading").OnElements("img")
	return p
}

// PageData is the record for one page: its rendered markup and slug.
type PageData struct {
	HTML TrustedHTML
	Slug string
}

// Source provides page data by slug.
type Source interface {
	Page(ctx context.Context, slug string) (PageData, error)
	Slugs(ctx context.Context) ([]string, error)
}
