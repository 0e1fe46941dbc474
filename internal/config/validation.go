package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/conneroisu/folio/internal/layout"
	"github.com/conneroisu/folio/internal/logging"
)

// maxWorkers is where a worker count stops being useful for a static build.
const maxWorkers = 64

// ValidationIssue is one problem found in a configuration field.
type ValidationIssue struct {
	Field   string
	Value   interface{}
	Message string
}

func (vi ValidationIssue) String() string {
	return fmt.Sprintf("%s: %s", vi.Field, vi.Message)
}

// ValidationResult holds the result of configuration validation
type ValidationResult struct {
	Errors   []ValidationIssue
	Warnings []ValidationIssue
}

// HasErrors returns true if there are any validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// HasWarnings returns true if there are any validation warnings
func (vr *ValidationResult) HasWarnings() bool {
	return len(vr.Warnings) > 0
}

// Summary joins the error messages on one line.
func (vr *ValidationResult) Summary() string {
	parts := make([]string, 0, len(vr.Errors))
	for _, issue := range vr.Errors {
		parts = append(parts, issue.String())
	}
	return strings.Join(parts, "; ")
}

func (vr *ValidationResult) fail(field string, value interface{}, format string, args ...interface{}) {
	vr.Errors = append(vr.Errors, ValidationIssue{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

func (vr *ValidationResult) warn(field string, value interface{}, format string, args ...interface{}) {
	vr.Warnings = append(vr.Warnings, ValidationIssue{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

// Validate checks a configuration and reports errors and warnings.
func Validate(config *Config) *ValidationResult {
	result := &ValidationResult{}

	validateContentConfig(&config.Content, result)
	validateBuildConfig(&config.Build, &config.Content, result)
	validateSiteConfig(&config.Site, result)
	validateLogConfig(&config.Log, result)

	return result
}

func validateContentConfig(config *ContentConfig, result *ValidationResult) {
	if err := validatePath(config.Dir); err != nil {
		result.fail("content.dir", config.Dir, "%v", err)
		return
	}
	if !pathExists(config.Dir) {
		result.warn("content.dir", config.Dir, "directory does not exist")
	}
}

func validateBuildConfig(config *BuildConfig, content *ContentConfig, result *ValidationResult) {
	if err := validatePath(config.OutputDir); err != nil {
		result.fail("build.output_dir", config.OutputDir, "%v", err)
	} else {
		clean := filepath.Clean(config.OutputDir)
		switch {
		case clean == "." || clean == string(filepath.Separator):
			// The output dir is removed by --clean.
			result.fail("build.output_dir", config.OutputDir, "refusing to use %q as the output directory", clean)
		case clean == filepath.Clean(content.Dir):
			result.fail("build.output_dir", config.OutputDir, "output directory is the content directory")
		}
	}

	if config.Workers < 1 {
		result.fail("build.workers", config.Workers, "must be at least 1")
	} else if config.Workers > maxWorkers {
		result.warn("build.workers", config.Workers, "more than %d workers rarely helps", maxWorkers)
	}
}

func validateSiteConfig(config *SiteConfig, result *ValidationResult) {
	validateNav("site.nav", config.Nav, result)
	validateNav("site.footer", config.Footer, result)
}

func validateNav(field string, items []layout.NavItem, result *ValidationResult) {
	for i, item := range items {
		name := fmt.Sprintf("%s[%d]", field, i)
		if strings.TrimSpace(item.Label) == "" {
			result.fail(name+".label", item.Label, "empty label")
		}
		if !strings.HasPrefix(item.Href, "/") && !item.External() {
			result.fail(name+".href", item.Href, "href must start with / or http")
		}
	}
}

func validateLogConfig(config *LogConfig, result *ValidationResult) {
	if _, err := logging.ParseLevel(config.Level); err != nil {
		result.fail("log.level", config.Level, "%v", err)
	}
	if config.Format != "text" && config.Format != "json" {
		result.fail("log.format", config.Format, "must be text or json")
	}
}

// validatePath validates a file path for security
func validatePath(path string) error {
	if path == "" {
		return fmt.Errorf("empty path")
	}

	for _, segment := range strings.Split(filepath.ToSlash(path), "/") {
		if segment == ".." {
			return fmt.Errorf("path contains traversal: %s", path)
		}
	}

	// Reject dangerous characters
	dangerousChars := []string{";", "&", "|", "$", "`", "<", ">", "\"", "'"}
	for _, char := range dangerousChars {
		if strings.Contains(path, char) {
			return fmt.Errorf("path contains dangerous character: %s", char)
		}
	}

	return nil
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
