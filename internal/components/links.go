// Package components provides the styled link elements used across the site.
//
// Each constructor returns a templ.Component rendering an anchor carrying the
// class of its style variant. The variant's CSS is registered through
// templ.RenderCSSItems, so it is emitted once per render context no matter how
// many links of that variant a page contains. Link text is supplied as
// children with templ.WithChildren.
package components

import (
	"context"
	"io"
	"sort"

	"github.com/a-h/templ"

	"github.com/conneroisu/folio/internal/styles"
)

// Attr is an extra attribute rendered on the anchor, such as target or rel.
type Attr struct {
	Name  string
	Value string
}

// NavLink renders a navigation link.
func NavLink(href string, attrs ...Attr) templ.Component {
	return anchor(styles.NavLink, href, attrs)
}

// Link renders a plain link, usually pointing outside the site.
func Link(href string, attrs ...Attr) templ.Component {
	return anchor(styles.Link, href, attrs)
}

// ButtonLink renders a link that looks like a button.
func ButtonLink(href string, attrs ...Attr) templ.Component {
	return anchor(styles.ButtonLink, href, attrs)
}

// Text renders an escaped string. Handy as children for the link constructors.
func Text(value string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, templ.EscapeString(value))
		return err
	})
}

// Attrs converts a map into a deterministic attribute list.
func Attrs(m map[string]string) []Attr {
	out := make([]Attr, 0, len(m))
	for k, v := range m {
		out = append(out, Attr{Name: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func anchor(v styles.Variant, href string, attrs []Attr) templ.Component {
	class := styles.Resolve(v).Class()
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		ctx = templ.InitializeContext(ctx)
		children := templ.GetChildren(ctx)
		if children == nil {
			children = templ.NopComponent
		}
		ctx = templ.ClearChildren(ctx)

		if err := templ.RenderCSSItems(ctx, w, class); err != nil {
			return err
		}
		open := `<a class="` + templ.EscapeString(class.ClassName()) +
			`" href="` + templ.EscapeString(string(templ.URL(href))) + `"`
		if _, err := io.WriteString(w, open); err != nil {
			return err
		}
		for _, a := range attrs {
			if !validAttrName(a.Name) {
				continue
			}
			if _, err := io.WriteString(w, " "+a.Name+`="`+templ.EscapeString(a.Value)+`"`); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, ">"); err != nil {
			return err
		}
		if err := children.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</a>")
		return err
	})
}

// validAttrName rejects names that would break out of the tag, and the
// attributes the constructor owns.
func validAttrName(name string) bool {
	if name == "" || name == "class" || name == "href" {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == ':':
		default:
			return false
		}
	}
	return true
}
