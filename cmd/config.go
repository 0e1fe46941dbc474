package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/folio/internal/config"
)

func (a *app) newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the folio configuration",
		Long: `Inspect the effective configuration after files, environment variables
and flags are merged.

Examples:
  folio config show                  # Print the effective configuration
  folio config validate              # Check it and list warnings`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := a.load(cmd)
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(cfg); err != nil {
				return err
			}
			return enc.Close()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Decode(a.v)
			if err != nil {
				return err
			}

			result := config.Validate(cfg)
			out := cmd.OutOrStdout()
			for _, issue := range result.Errors {
				fmt.Fprintf(out, "❌ %s\n", issue)
			}
			for _, issue := range result.Warnings {
				fmt.Fprintf(out, "⚠️  %s\n", issue)
			}
			if result.HasErrors() {
				return fmt.Errorf("%d configuration error(s)", len(result.Errors))
			}
			fmt.Fprintln(out, "✅ Configuration is valid")
			return nil
		},
	})

	return cmd
}
