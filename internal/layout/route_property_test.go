//go:build property

package layout

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestClassifyRouteProperties checks the layout decision over generated slugs
func TestClassifyRouteProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(1357)
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	// Property: anything under /docs/ gets the sidebar
	properties.Property("docs prefix always shows sidebar", prop.ForAll(
		func(rest string) bool {
			return ShowSidebar(DocsPrefix + rest)
		},
		gen.AnyString(),
	))

	// Property: without the literal prefix there is never a sidebar
	properties.Property("other slugs never show sidebar", prop.ForAll(
		func(slug string) bool {
			if strings.HasPrefix(slug, DocsPrefix) {
				return true
			}
			return !ShowSidebar(slug)
		},
		gen.AnyString(),
	))

	// Property: near misses of the docs segment fall back to the default layout
	properties.Property("segments other than docs use the default layout", prop.ForAll(
		func(segment, rest string) bool {
			if segment == "docs" {
				return true
			}
			return ClassifyRoute("/"+segment+"/"+rest) == DefaultLayout
		},
		gen.AlphaString(),
		gen.AlphaString(),
	))

	// Property: the decision is a pure function of the slug
	properties.Property("classification is deterministic", prop.ForAll(
		func(slug string) bool {
			return ClassifyRoute(slug) == ClassifyRoute(slug)
		},
		gen.OneGenOf(gen.AnyString(), gen.AlphaString().Map(func(s string) string { return DocsPrefix + s })),
	))

	properties.TestingRun(t)
}
