package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conneroisu/folio/internal/styles"
)

func newStylesCommand() *cobra.Command {
	var (
		variant  string
		computed bool
	)

	cmd := &cobra.Command{
		Use:   "styles",
		Short: "Print the link stylesheet",
		Long: `Print the CSS rules of the link variants. Without flags the whole
stylesheet is printed, one rule per line.

Examples:
  folio styles                               # Whole stylesheet
  folio styles --variant buttonLink          # One rule
  folio styles --variant navLink --computed  # Resolved properties as JSON`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			if variant == "" {
				if computed {
					return fmt.Errorf("--computed needs --variant")
				}
				_, err := fmt.Fprintln(out, styles.Stylesheet())
				return err
			}

			v, err := parseVariant(variant)
			if err != nil {
				return err
			}
			style := styles.Resolve(v)

			if computed {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(style.Computed())
			}
			_, err = fmt.Fprintln(out, style.CSS())
			return err
		},
	}

	cmd.Flags().StringVar(&variant, "variant", "", "Variant to print (navLink, link, buttonLink)")
	cmd.Flags().BoolVar(&computed, "computed", false, "Print the resolved properties instead of the rule")

	return cmd
}

func parseVariant(name string) (styles.Variant, error) {
	names := make([]string, 0, len(styles.Variants))
	for _, v := range styles.Variants {
		if strings.EqualFold(v.String(), name) {
			return v, nil
		}
		names = append(names, v.String())
	}
	return 0, fmt.Errorf("unknown variant %q (known: %s)", name, strings.Join(names, ", "))
}
