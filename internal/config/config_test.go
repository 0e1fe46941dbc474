package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	folioerrors "github.com/conneroisu/folio/internal/errors"
	"github.com/conneroisu/folio/internal/layout"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		setup       func(v *viper.Viper)
		expectError bool
		check       func(t *testing.T, c *Config)
	}{
		{
			name:  "defaults",
			setup: func(v *viper.Viper) {},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, DefaultContentDir, c.Content.Dir)
				assert.Equal(t, DefaultOutputDir, c.Build.OutputDir)
				assert.Equal(t, runtime.NumCPU(), c.Build.Workers)
				assert.Equal(t, DefaultSiteTitle, c.Site.Title)
				assert.Equal(t, "info", c.Log.Level)
				assert.Equal(t, "text", c.Log.Format)
				assert.False(t, c.Content.Sanitize)
			},
		},
		{
			name: "explicit values",
			setup: func(v *viper.Viper) {
				v.Set("content.dir", "data/pages")
				v.Set("content.sanitize", true)
				v.Set("build.output_dir", "dist")
				v.Set("build.workers", 3)
				v.Set("site.title", "Docs")
				v.Set("log.level", "debug")
			},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, "data/pages", c.Content.Dir)
				assert.True(t, c.Content.Sanitize)
				assert.Equal(t, "dist", c.Build.OutputDir)
				assert.Equal(t, 3, c.Build.Workers)
				assert.Equal(t, "Docs", c.Site.Title)
				assert.Equal(t, "debug", c.Log.Level)
			},
		},
		{
			name: "traversal in output dir",
			setup: func(v *viper.Viper) {
				v.Set("build.output_dir", "../outside")
			},
			expectError: true,
		},
		{
			name: "negative workers",
			setup: func(v *viper.Viper) {
				v.Set("build.workers", -2)
			},
			expectError: true,
		},
		{
			name: "unknown log level",
			setup: func(v *viper.Viper) {
				v.Set("log.level", "chatty")
			},
			expectError: true,
		},
		{
			name: "undecodable workers",
			setup: func(v *viper.Viper) {
				v.Set("build.workers", "many")
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			tt.setup(v)

			config, err := LoadFrom(v)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, config)
				assert.True(t, folioerrors.IsType(err, folioerrors.ErrorTypeConfig))
				return
			}
			require.NoError(t, err)
			tt.check(t, config)
		})
	}
}

func TestLoadFromYAMLFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, ".folio.yml")
	require.NoError(t, os.WriteFile(file, []byte(`
content:
  dir: pages
build:
  output_dir: site
  workers: 2
site:
  title: Handbook
  nav:
    - label: Docs
      href: /docs/
    - label: GitHub
      href: https://github.com/conneroisu/folio
  footer:
    - label: About
      href: /about/
`), 0o644))

	v := viper.New()
	v.SetConfigFile(file)
	require.NoError(t, v.ReadInConfig())

	config, err := LoadFrom(v)
	require.NoError(t, err)

	assert.Equal(t, "pages", config.Content.Dir)
	assert.Equal(t, "site", config.Build.OutputDir)
	assert.Equal(t, 2, config.Build.Workers)
	assert.Equal(t, "Handbook", config.Site.Title)
	assert.Equal(t, []layout.NavItem{
		{Label: "Docs", Href: "/docs/"},
		{Label: "GitHub", Href: "https://github.com/conneroisu/folio"},
	}, config.Site.Nav)
	assert.Equal(t, []layout.NavItem{{Label: "About", Href: "/about/"}}, config.Site.Footer)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("FOLIO_BUILD_OUTPUT_DIR", "from-env")
	t.Setenv("FOLIO_SITE_TITLE", "Env Site")

	v := viper.New()
	v.SetEnvPrefix("FOLIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	config, err := LoadFrom(v)
	require.NoError(t, err)

	assert.Equal(t, "from-env", config.Build.OutputDir)
	assert.Equal(t, "Env Site", config.Site.Title)
	assert.Equal(t, DefaultContentDir, config.Content.Dir)
}

func TestLoadUsesGlobalViper(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("site.title", "Global")

	config, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "Global", config.Site.Title)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		errField  string
		warnField string
	}{
		{
			name:     "output dir is working directory",
			mutate:   func(c *Config) { c.Build.OutputDir = "./" },
			errField: "build.output_dir",
		},
		{
			name:     "output dir is content dir",
			mutate:   func(c *Config) { c.Content.Dir = "content"; c.Build.OutputDir = "content/" },
			errField: "build.output_dir",
		},
		{
			name:     "dangerous content dir",
			mutate:   func(c *Config) { c.Content.Dir = "pages;rm" },
			errField: "content.dir",
		},
		{
			name:     "nav href relative",
			mutate:   func(c *Config) { c.Site.Nav = []layout.NavItem{{Label: "Docs", Href: "docs/"}} },
			errField: "site.nav[0].href",
		},
		{
			name:     "footer label empty",
			mutate:   func(c *Config) { c.Site.Footer = []layout.NavItem{{Label: " ", Href: "/x/"}} },
			errField: "site.footer[0].label",
		},
		{
			name:     "bad log format",
			mutate:   func(c *Config) { c.Log.Format = "xml" },
			errField: "log.format",
		},
		{
			name:      "too many workers",
			mutate:    func(c *Config) { c.Build.Workers = 512 },
			warnField: "build.workers",
		},
		{
			name:      "missing content dir",
			mutate:    func(c *Config) { c.Content.Dir = filepath.Join(os.TempDir(), "folio-missing-content") },
			warnField: "content.dir",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			c.Content.Dir = t.TempDir()
			tt.mutate(c)

			result := Validate(c)

			if tt.errField != "" {
				require.True(t, result.HasErrors())
				assert.Equal(t, tt.errField, result.Errors[0].Field)
			} else {
				assert.False(t, result.HasErrors(), result.Summary())
			}
			if tt.warnField != "" {
				require.True(t, result.HasWarnings())
				assert.Equal(t, tt.warnField, result.Warnings[0].Field)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	assert.NoError(t, validatePath("content"))
	assert.NoError(t, validatePath("/abs/content"))
	assert.NoError(t, validatePath("weird..name"))
	assert.Error(t, validatePath(""))
	assert.Error(t, validatePath("a/../../b"))
	assert.Error(t, validatePath("a|b"))
}
