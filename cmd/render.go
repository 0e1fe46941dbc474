package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/conneroisu/folio/internal/content"
	"github.com/conneroisu/folio/internal/layout"
	"github.com/conneroisu/folio/internal/page"
)

func (a *app) newRenderCommand() *cobra.Command {
	var (
		slug string
		file string
	)

	cmd := &cobra.Command{
		Use:     "render",
		Aliases: []string{"r"},
		Short:   "Render a single page to stdout",
		Long: `Render one page to stdout. The page is looked up by slug in the content
directory, or in a single query result file given with --file. When the file
holds exactly one page, --slug may be omitted.

Examples:
  folio render --slug /docs/getting-started/
  folio render --file result.json
  curl -s $QUERY_URL | folio render --file - --slug /blog/post/`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := a.load(cmd)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			var src content.Source = openSource(cfg)
			if file != "" {
				mem, err := readQueryFile(cmd, file, cfg.Content.Sanitize)
				if err != nil {
					return err
				}
				src = mem
			}

			ctx := cmd.Context()
			slugs, err := src.Slugs(ctx)
			if err != nil {
				return err
			}
			if slug == "" {
				if len(slugs) != 1 {
					return errors.New("--slug is required unless the input holds exactly one page")
				}
				slug = slugs[0]
			}

			data, err := src.Page(ctx, slug)
			if err != nil {
				return err
			}

			sidebar := layout.SidebarFromSlugs(slugs)
			r := page.New(page.WithChrome(chrome(cfg)), page.WithSidebar(sidebar))
			return r.Render(ctx, cmd.OutOrStdout(), data)
		},
	}

	cmd.Flags().StringVarP(&slug, "slug", "s", "", "Slug of the page to render")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Query result file to read instead of the content directory (- for stdin)")

	return cmd
}

func readQueryFile(cmd *cobra.Command, name string, sanitize bool) (*content.MemorySource, error) {
	in := cmd.InOrStdin()
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		in = f
	}

	results, err := content.Decode(in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	mem := content.NewMemorySource()
	seen := make(map[string]int, len(results))
	for i, r := range results {
		if r.Fields.Slug == "" {
			return nil, fmt.Errorf("%s: result %d has no slug", name, i)
		}
		if first, dup := seen[r.Fields.Slug]; dup {
			return nil, fmt.Errorf("%s: duplicate slug %s (results %d and %d)", name, r.Fields.Slug, first, i)
		}
		seen[r.Fields.Slug] = i

		data := r.PageData()
		if sanitize {
			data.HTML = content.Sanitize(r.HTML)
		}
		mem.Put(data)
	}
	return mem, nil
}
