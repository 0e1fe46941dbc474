// Package config provides configuration management for folio using Viper
// for loading from files, environment variables, and command-line flags.
//
// The configuration system supports YAML files, environment variable
// overrides with the FOLIO_ prefix, defaults, and validation. It covers where
// content query results are read from, where the site is written, the site
// chrome (title, navigation, footer), and logging.
package config

import (
	"runtime"

	"github.com/spf13/viper"

	folioerrors "github.com/conneroisu/folio/internal/errors"
	"github.com/conneroisu/folio/internal/layout"
)

// Default values applied after unmarshalling.
const (
	DefaultContentDir = "content"
	DefaultOutputDir  = "public"
	DefaultSiteTitle  = "Folio"
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "text"
)

type Config struct {
	Content ContentConfig `mapstructure:"content" yaml:"content"`
	Build   BuildConfig   `mapstructure:"build" yaml:"build"`
	Site    SiteConfig    `mapstructure:"site" yaml:"site"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
}

type ContentConfig struct {
	// Dir holds the content query results (*.json, *.yaml, *.yml).
	Dir string `mapstructure:"dir" yaml:"dir"`
	// Sanitize routes every page body through the HTML sanitizer instead of
	// trusting the upstream pipeline.
	Sanitize bool `mapstructure:"sanitize" yaml:"sanitize"`
}

type BuildConfig struct {
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`
	Workers   int    `mapstructure:"workers" yaml:"workers"`
	Clean     bool   `mapstructure:"clean" yaml:"clean"`
}

type SiteConfig struct {
	Title  string           `mapstructure:"title" yaml:"title"`
	Nav    []layout.NavItem `mapstructure:"nav" yaml:"nav"`
	Footer []layout.NavItem `mapstructure:"footer" yaml:"footer"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Load reads the configuration from the global viper instance.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom reads the configuration from v, applies defaults and validates.
func LoadFrom(v *viper.Viper) (*Config, error) {
	config, err := Decode(v)
	if err != nil {
		return nil, err
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// Decode reads the configuration from v and applies defaults without
// validating it.
func Decode(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, folioerrors.WrapConfig(err, folioerrors.ErrCodeConfigInvalid, "unable to decode configuration")
	}

	applyDefaults(&config)
	return &config, nil
}

// SetDefaults registers the scalar defaults on v. Environment overrides only
// apply to keys viper knows about, so this also makes every FOLIO_ variable
// effective.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("content.dir", d.Content.Dir)
	v.SetDefault("content.sanitize", d.Content.Sanitize)
	v.SetDefault("build.output_dir", d.Build.OutputDir)
	v.SetDefault("build.workers", d.Build.Workers)
	v.SetDefault("build.clean", d.Build.Clean)
	v.SetDefault("site.title", d.Site.Title)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// Default returns a configuration with every default applied.
func Default() *Config {
	var config Config
	applyDefaults(&config)
	return &config
}

func applyDefaults(config *Config) {
	if config.Content.Dir == "" {
		config.Content.Dir = DefaultContentDir
	}
	if config.Build.OutputDir == "" {
		config.Build.OutputDir = DefaultOutputDir
	}
	if config.Build.Workers == 0 {
		config.Build.Workers = runtime.NumCPU()
	}
	if config.Site.Title == "" {
		config.Site.Title = DefaultSiteTitle
	}
	if config.Log.Level == "" {
		config.Log.Level = DefaultLogLevel
	}
	if config.Log.Format == "" {
		config.Log.Format = DefaultLogFormat
	}
}

// validateConfig fails on the first set of validation errors. Warnings are
// left to the caller via Validate.
func validateConfig(config *Config) error {
	result := Validate(config)
	if !result.HasErrors() {
		return nil
	}

	err := folioerrors.NewConfigError(folioerrors.ErrCodeConfigInvalid, "invalid configuration: "+result.Summary())
	for _, issue := range result.Errors {
		err.WithContext(issue.Field, issue.Value)
	}
	return err
}
