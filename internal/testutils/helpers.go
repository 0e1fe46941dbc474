// Package testutils holds helpers shared by folio's tests.
package testutils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

// CreateContentDir creates a temporary content directory holding files,
// keyed by slash-separated relative path.
func CreateContentDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		WriteFile(t, dir, name, body)
	}
	return dir
}

// WriteFile writes body to dir/name, creating parent directories.
func WriteFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

// ParseDocument parses rendered markup for querying.
func ParseDocument(t *testing.T, markup string) *goquery.Document {
	t.Helper()
	root, err := html.Parse(strings.NewReader(markup))
	require.NoError(t, err)
	return goquery.NewDocumentFromNode(root)
}

// ReadDocument parses a rendered file for querying.
func ReadDocument(t *testing.T, path string) *goquery.Document {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	return ParseDocument(t, string(raw))
}

// WaitForFileContent waits until the file at path contains substr. Useful
// for tests that drive a watcher.
func WaitForFileContent(t *testing.T, path, substr string, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		raw, err := os.ReadFile(path)
		if err == nil && strings.Contains(string(raw), substr) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}

	t.Fatalf("File %s did not contain %q within %v", path, substr, timeout)
}
