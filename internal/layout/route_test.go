package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyRoute(t *testing.T) {
	testCases := []struct {
		slug     string
		expected Route
	}{
		{"/docs/getting-started/", DocsLayout},
		{"/docs/", DocsLayout},
		{"/docs/a/b/c/", DocsLayout},
		{"/blog/my-post/", DefaultLayout},
		{"/", DefaultLayout},
		{"/about/", DefaultLayout},
		{"", DefaultLayout},
		{"/docs", DefaultLayout},
		{"docs/intro/", DefaultLayout},
		{"/docs-archive/", DefaultLayout},
		{"/Docs/intro/", DefaultLayout},
		{"/blog/docs/", DefaultLayout},
	}

	for _, tc := range testCases {
		t.Run(tc.slug, func(t *testing.T) {
			assert.Equal(t, tc.expected, ClassifyRoute(tc.slug))
			assert.Equal(t, tc.expected == DocsLayout, ShowSidebar(tc.slug))
		})
	}
}

func TestRouteString(t *testing.T) {
	assert.Equal(t, "default", DefaultLayout.String())
	assert.Equal(t, "docs", DocsLayout.String())
	assert.Equal(t, "unknown", Route(9).String())
}
