package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/conneroisu/folio/internal/layout"
)

func newRouteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "route <slug>...",
		Short: "Show the layout each slug is rendered with",
		Long: `Print the layout decision for each slug. Slugs starting with /docs/ get
the docs layout and its sidebar; everything else gets the default layout.

Examples:
  folio route /docs/getting-started/ /blog/my-post/ /`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SLUG\tLAYOUT\tSIDEBAR")
			for _, slug := range args {
				route := layout.ClassifyRoute(slug)
				fmt.Fprintf(tw, "%q\t%s\t%t\n", slug, route, layout.ShowSidebar(slug))
			}
			return tw.Flush()
		},
	}
}
