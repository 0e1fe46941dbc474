// Package cmd provides the folio command-line interface.
//
// Configuration System:
//
//	Configuration is layered with this precedence, highest first:
//	1. Command-line flags (--content, --output, --log-level, ...)
//	2. Individual environment variables (FOLIO_BUILD_OUTPUT_DIR, ...)
//	3. The configuration file: --config, then FOLIO_CONFIG_FILE, then
//	   .folio.yml in the working directory
//	4. Built-in defaults
//
// Environment Variables:
//
//	FOLIO_CONFIG_FILE: Path to a configuration file
//	FOLIO_CONTENT_DIR: Directory holding content query results
//	FOLIO_BUILD_OUTPUT_DIR: Where the site is written
//	And every other key following the FOLIO_<SECTION>_<OPTION> pattern
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/conneroisu/folio/internal/config"
	"github.com/conneroisu/folio/internal/logging"
)

// app carries the state shared by one command tree.
type app struct {
	v        *viper.Viper
	cfgFile  string
	bindings map[*cobra.Command][]binding
}

type binding struct {
	key  string
	flag *pflag.Flag
}

// NewRootCommand builds the folio command tree with its own viper instance.
func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New(), bindings: make(map[*cobra.Command][]binding)}

	root := &cobra.Command{
		Use:   "folio",
		Short: "Render content query results into a static documentation site",
		Long: `folio renders pages produced by an upstream content pipeline into a
static site. Pages under /docs/ get the documentation layout with a sidebar;
every other page gets the default layout.

Quick Start:
  folio build                     Render every page in ./content to ./public
  folio render --slug /docs/x/    Render one page to stdout
  folio route /docs/x/ /blog/y/   Show which layout each slug gets
  folio styles                    Print the link stylesheet
  folio watch                     Rebuild whenever content changes`,
		SilenceUsage:      true,
		PersistentPreRunE: a.initConfig,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is .folio.yml, can also use FOLIO_CONFIG_FILE env var)")
	flags.StringP("log-level", "l", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	flags.String("log-format", config.DefaultLogFormat, "log format (text, json)")
	flags.StringP("content", "C", "", "directory holding content query results")
	a.bind(root, "log.level", flags.Lookup("log-level"))
	a.bind(root, "log.format", flags.Lookup("log-format"))
	a.bind(root, "content.dir", flags.Lookup("content"))

	root.AddCommand(
		a.newBuildCommand(),
		a.newRenderCommand(),
		a.newWatchCommand(),
		a.newConfigCommand(),
		newStylesCommand(),
		newRouteCommand(),
		newVersionCommand(),
	)

	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}

// ExecuteContext runs the root command with ctx.
func ExecuteContext(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// initConfig selects and reads the configuration file and wires environment
// overrides. A missing default file is fine; a missing explicit one is not.
func (a *app) initConfig(cmd *cobra.Command, _ []string) error {
	for c := cmd; c != nil; c = c.Parent() {
		for _, b := range a.bindings[c] {
			if err := a.v.BindPFlag(b.key, b.flag); err != nil {
				return fmt.Errorf("binding flag --%s: %w", b.flag.Name, err)
			}
		}
	}

	switch {
	case a.cfgFile != "":
		a.v.SetConfigFile(a.cfgFile)
	case os.Getenv("FOLIO_CONFIG_FILE") != "":
		a.v.SetConfigFile(os.Getenv("FOLIO_CONFIG_FILE"))
	default:
		a.v.AddConfigPath(".")
		a.v.SetConfigType("yaml")
		a.v.SetConfigName(".folio")
	}

	a.v.SetEnvPrefix("FOLIO")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()
	config.SetDefaults(a.v)

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}
	return nil
}

// load returns the validated configuration and a logger configured from it.
// Validation warnings are logged.
func (a *app) load(cmd *cobra.Command) (*config.Config, logging.Logger, error) {
	cfg, err := config.LoadFrom(a.v)
	if err != nil {
		return nil, nil, err
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:  level,
		Format: cfg.Log.Format,
		Output: cmd.ErrOrStderr(),
	})

	if used := a.v.ConfigFileUsed(); used != "" {
		logger.Debug(cmd.Context(), "Using config file", "path", used)
	}
	for _, w := range config.Validate(cfg).Warnings {
		logger.Warn(cmd.Context(), nil, "Configuration warning", "field", w.Field, "message", w.Message)
	}

	return cfg, logger, nil
}

// bind ties a config key to a flag of cmd. The binding is applied only when
// cmd or one of its subcommands runs, so sibling commands may bind the same
// key. Only a flag set on the command line overrides the file and environment.
func (a *app) bind(cmd *cobra.Command, key string, flag *pflag.Flag) {
	if flag == nil {
		panic(fmt.Sprintf("binding %s: flag not defined on %s", key, cmd.Name()))
	}
	a.bindings[cmd] = append(a.bindings[cmd], binding{key: key, flag: flag})
}
