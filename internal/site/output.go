package site

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	folioerrors "github.com/conneroisu/folio/internal/errors"
	"github.com/conneroisu/folio/internal/styles"
)

// StylesheetName is the file the shared link styles are written to.
const StylesheetName = "styles.css"

// OutputPath maps a slug to the file it is written to below outDir.
// Directory slugs such as /docs/intro/ become docs/intro/index.html and the
// root slug becomes index.html. A slug whose last segment ends in .html, such
// as /404.html, is written as that file.
func OutputPath(outDir, slug string) (string, error) {
	if slug == "" {
		return "", folioerrors.NewValidationError(folioerrors.ErrCodeInvalidPath, "empty slug")
	}

	segments := make([]string, 0, strings.Count(slug, "/")+1)
	for _, seg := range strings.Split(slug, "/") {
		switch {
		case seg == "" || seg == ".":
			continue
		case seg == "..":
			return "", folioerrors.ErrPathTraversal(slug).WithSlug(slug)
		case strings.ContainsAny(seg, "\\\x00"):
			return "", folioerrors.NewValidationError(folioerrors.ErrCodeInvalidPath, "invalid character in slug").WithSlug(slug)
		}
		segments = append(segments, seg)
	}

	if n := len(segments); n > 0 && !strings.HasSuffix(slug, "/") && path.Ext(segments[n-1]) == ".html" {
		return filepath.Join(append([]string{outDir}, segments...)...), nil
	}
	return filepath.Join(append(append([]string{outDir}, segments...), "index.html")...), nil
}

// WriteStylesheet writes the link stylesheet into outDir and returns its path.
func WriteStylesheet(outDir string) (string, error) {
	target := filepath.Join(outDir, StylesheetName)
	if err := writeFile(target, []byte(styles.Stylesheet())); err != nil {
		return "", folioerrors.ErrWriteFailed(target, err)
	}
	return target, nil
}

// Clean removes a previous build. The working directory and the filesystem
// root are refused.
func Clean(outDir string) error {
	clean := filepath.Clean(outDir)
	if clean == "." || clean == string(filepath.Separator) || clean == "" {
		return folioerrors.NewValidationError(folioerrors.ErrCodeInvalidPath, "refusing to clean "+outDir)
	}
	if err := os.RemoveAll(clean); err != nil {
		return folioerrors.WrapIO(err, folioerrors.ErrCodeWriteFailed, "unable to clean output directory").WithFile(clean)
	}
	return nil
}

// RemoveStale deletes the pages prev wrote that next no longer has, then any
// directories that removal left empty below the output directory. It returns
// the removed files.
func RemoveStale(prev, next *Report) ([]string, error) {
	if prev == nil || next == nil {
		return nil, nil
	}

	keep := make(map[string]struct{}, len(next.Pages))
	for _, p := range next.Pages {
		keep[p.Path] = struct{}{}
	}

	var removed []string
	for _, p := range prev.Pages {
		if _, ok := keep[p.Path]; ok {
			continue
		}
		if err := os.Remove(p.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return removed, folioerrors.WrapIO(err, folioerrors.ErrCodeWriteFailed, "unable to remove stale page").
				WithSlug(p.Slug).
				WithFile(p.Path)
		}
		removed = append(removed, p.Path)
		pruneEmptyDirs(filepath.Dir(p.Path), next.OutputDir)
	}
	return removed, nil
}

// pruneEmptyDirs removes dir and its parents while they are empty and below root.
func pruneEmptyDirs(dir, root string) {
	root = filepath.Clean(root)
	prefix := root + string(filepath.Separator)
	for dir = filepath.Clean(dir); strings.HasPrefix(dir, prefix); dir = filepath.Dir(dir) {
		if os.Remove(dir) != nil {
			return
		}
	}
}

// writeFile writes through a temporary file so readers never see a partial page.
func writeFile(target string, data []byte) error {
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".folio-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), target)
}
