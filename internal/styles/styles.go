// Package styles defines the site's link and button styles as a fixed table of
// variants composed from shared rule fragments.
//
// Every variant is built from the base fragment plus variant-specific
// fragments. The table is materialized once at package initialization and is
// never mutated afterwards, so it can be shared by any number of concurrent
// renders.
package styles

import (
	"strings"

	"github.com/a-h/templ"
)

// Declaration is a single CSS property/value pair.
type Declaration struct {
	Property string
	Value    string
}

// String renders the declaration in compact form, e.g. "padding:5px 10px;".
func (d Declaration) String() string {
	return d.Property + ":" + d.Value + ";"
}

// Fragment is a named, ordered set of declarations. Hover declarations apply
// under the :hover pseudo-class of the element the fragment is mixed into.
type Fragment struct {
	Name         string
	Declarations []Declaration
	Hover        []Declaration
}

// Text returns the fragment's declarations as they appear inside a rule block.
func (f Fragment) Text() string {
	return joinDeclarations(f.Declarations)
}

// HoverText returns the fragment's hover declarations.
func (f Fragment) HoverText() string {
	return joinDeclarations(f.Hover)
}

func joinDeclarations(decls []Declaration) string {
	var sb strings.Builder
	for _, d := range decls {
		sb.WriteString(d.String())
	}
	return sb.String()
}

// Colors is the palette used by the style fragments.
type Colors struct {
	LightFushia string
	Glow        string
	White       string
}

// Theme groups the design tokens the fragments are built from.
type Theme struct {
	Colors Colors
	Font   string
}

// DefaultTheme is the site theme.
var DefaultTheme = Theme{
	Colors: Colors{
		LightFushia: "#f95d9b",
		Glow:        "#00fcff52",
		White:       "#ffffff",
	},
	Font: "Titillium Web, monospace",
}

// Variant names one of the pre-composed link styles.
type Variant int

const (
	NavLink Variant = iota
	Link
	ButtonLink
)

// Variants lists every variant in table order.
var Variants = []Variant{NavLink, Link, ButtonLink}

// String returns the variant's name, which also prefixes its class name.
func (v Variant) String() string {
	switch v {
	case NavLink:
		return "navLink"
	case Link:
		return "link"
	case ButtonLink:
		return "buttonLink"
	default:
		return "unknown"
	}
}

// Base returns the fragment shared by every variant: spacing, typography and
// the hover transition.
func Base() Fragment {
	return base.clone()
}

// ButtonLook returns the button appearance fragment. It is exported on its own
// so other elements can look like a button without being a ButtonLink.
func ButtonLook() Fragment {
	return buttonLook.clone()
}

func (f Fragment) clone() Fragment {
	return Fragment{
		Name:         f.Name,
		Declarations: append([]Declaration(nil), f.Declarations...),
		Hover:        append([]Declaration(nil), f.Hover...),
	}
}

var (
	base = Fragment{
		Name: "base",
		Declarations: []Declaration{
			{"padding", "5px 10px"},
			{"margin", "0 5px"},
			{"font-weight", "600"},
			{"text-decoration", "none"},
			{"font-size", "14px"},
			{"letter-spacing", "1px"},
			{"transition", "text-shadow 1s"},
			{"display", "inline-block"},
			{"font-family", DefaultTheme.Font},
		},
		Hover: []Declaration{
			{"text-shadow", "1px -2px 1px " + DefaultTheme.Colors.Glow},
		},
	}

	buttonLook = Fragment{
		Name: "buttonLook",
		Declarations: []Declaration{
			{"color", DefaultTheme.Colors.White},
			{"background-color", DefaultTheme.Colors.LightFushia},
			{"width", "auto"},
			{"text-decoration", "none"},
			{"text-align", "center"},
			{"border-radius", "40px"},
			{"padding", "15px"},
			{"font-size", "14px"},
		},
	}

	buttonBlock = Fragment{
		Name: "buttonBlock",
		Declarations: []Declaration{
			{"display", "block"},
			{"width", "150px"},
			{"margin", "20px auto"},
		},
	}
)

// composition is the delta each variant applies over the base fragment.
var composition = map[Variant][]Fragment{
	NavLink:    {base},
	Link:       {base},
	ButtonLink: {base, buttonLook, buttonBlock},
}

var (
	table          = resolveAll()
	buttonLookRule = newStyle(-1, buttonLook.Name, []Fragment{buttonLook})
)

func resolveAll() map[Variant]Style {
	out := make(map[Variant]Style, len(composition))
	for _, v := range Variants {
		out[v] = newStyle(v, v.String(), composition[v])
	}
	return out
}

// Style is the fully materialized style of one variant.
type Style struct {
	Variant   Variant
	fragments []Fragment
	id        string
	body      string
	hover     string
}

func newStyle(v Variant, name string, fragments []Fragment) Style {
	var body, hover strings.Builder
	for _, f := range fragments {
		body.WriteString(f.Text())
		hover.WriteString(f.HoverText())
	}
	return Style{
		Variant:   v,
		fragments: fragments,
		id:        templ.CSSID(name, body.String()+hover.String()),
		body:      body.String(),
		hover:     hover.String(),
	}
}

// Resolve returns the style of a known variant. Unknown variants yield the
// zero Style.
func Resolve(v Variant) Style {
	return table[v]
}

// Lookup is Resolve with an existence check.
func Lookup(v Variant) (Style, bool) {
	s, ok := table[v]
	return s, ok
}

// Fragments returns copies of the fragments the style is composed from, in
// cascade order.
func (s Style) Fragments() []Fragment {
	out := make([]Fragment, 0, len(s.fragments))
	for _, f := range s.fragments {
		out = append(out, f.clone())
	}
	return out
}

// ClassName is the CSS class the style is registered under.
func (s Style) ClassName() string {
	return s.id
}

// CSS returns the rule text for the style, including its hover rule if any.
func (s Style) CSS() string {
	if s.id == "" {
		return ""
	}
	css := "." + s.id + "{" + s.body + "}"
	if s.hover != "" {
		css += "." + s.id + ":hover{" + s.hover + "}"
	}
	return css
}

// Computed returns the effective value of every property, with later
// declarations overriding earlier ones as they would in the cascade.
func (s Style) Computed() map[string]string {
	out := make(map[string]string)
	for _, f := range s.fragments {
		for _, d := range f.Declarations {
			out[d.Property] = d.Value
		}
	}
	return out
}

// Class returns the style as a templ CSS class, ready for templ.RenderCSSItems.
func (s Style) Class() templ.CSSClass {
	return templ.ComponentCSSClass{
		ID:    s.id,
		Class: templ.SafeCSS(s.CSS()),
	}
}

// ButtonLookClass is the standalone button look as a utility class.
func ButtonLookClass() templ.CSSClass {
	return buttonLookRule.Class()
}

// Stylesheet returns every variant rule followed by the button look utility
// class, one rule per line.
func Stylesheet() string {
	var sb strings.Builder
	for _, v := range Variants {
		sb.WriteString(table[v].CSS())
		sb.WriteByte('\n')
	}
	sb.WriteString(buttonLookRule.CSS())
	sb.WriteByte('\n')
	return sb.String()
}
