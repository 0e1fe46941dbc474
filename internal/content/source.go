package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// MemorySource serves pages from memory.
type MemorySource struct {
	mu    sync.RWMutex
	pages map[string]PageData
}

// NewMemorySource creates a source holding the given pages. Later pages with
// the same slug replace earlier ones.
func NewMemorySource(pages ...PageData) *MemorySource {
	s := &MemorySource{pages: make(map[string]PageData, len(pages))}
	for _, p := range pages {
		s.pages[p.Slug] = p
	}
	return s
}

// Put adds or replaces a page.
func (s *MemorySource) Put(page PageData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages[page.Slug] = page
}

// Page returns the page for slug.
func (s *MemorySource) Page(_ context.Context, slug string) (PageData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.pages[slug]
	if !ok {
		return PageData{}, fmt.Errorf("%w: %s", ErrNotFound, slug)
	}
	return p, nil
}

// Slugs returns every slug in lexical order.
func (s *MemorySource) Slugs(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.pages), nil
}

// DirSourceOption configures a DirSource.
type DirSourceOption func(*DirSource)

// WithSanitize routes every page's markup through Sanitize instead of trusting
// it as-is.
func WithSanitize(enabled bool) DirSourceOption {
	return func(s *DirSource) {
		s.sanitize = enabled
	}
}

// DirSource reads query results from the JSON and YAML files under a
// directory. Files are read once, on first successful use; a read cut short
// by a cancelled context is retried on the next call.
type DirSource struct {
	dir      string
	sanitize bool

	mu     sync.Mutex
	loaded bool
	err    error
	pages  map[string]PageData
	files  map[string]string
}

// NewDirSource creates a source rooted at dir.
func NewDirSource(dir string, opts ...DirSourceOption) *DirSource {
	s := &DirSource{dir: dir}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the directory the source reads.
func (s *DirSource) Dir() string {
	return s.dir
}

// Page returns the page for slug.
func (s *DirSource) Page(ctx context.Context, slug string) (PageData, error) {
	if err := s.load(ctx); err != nil {
		return PageData{}, err
	}
	p, ok := s.pages[slug]
	if !ok {
		return PageData{}, fmt.Errorf("%w: %s", ErrNotFound, slug)
	}
	return p, nil
}

// Slugs returns every slug in lexical order.
func (s *DirSource) Slugs(ctx context.Context) ([]string, error) {
	if err := s.load(ctx); err != nil {
		return nil, err
	}
	return sortedKeys(s.pages), nil
}

// File returns the file a slug was read from.
func (s *DirSource) File(slug string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.files[slug]
	return f, ok
}

func (s *DirSource) load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return s.err
	}

	err := s.readAll(ctx)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	s.loaded, s.err = true, err
	return err
}

func (s *DirSource) readAll(ctx context.Context) error {
	pages := make(map[string]PageData)
	files := make(map[string]string)

	err := filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if path != s.dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsContentFile(path) {
			return nil
		}
		return s.readFile(path, pages, files)
	})
	if err != nil {
		return fmt.Errorf("reading content directory %s: %w", s.dir, err)
	}

	s.pages = pages
	s.files = files
	return nil
}

func (s *DirSource) readFile(path string, pages map[string]PageData, files map[string]string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	results, err := Decode(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	for i, r := range results {
		if r.Fields.Slug == "" {
			return fmt.Errorf("%s: result %d has no slug", path, i)
		}
		if prev, dup := files[r.Fields.Slug]; dup {
			return fmt.Errorf("%s: duplicate slug %s (first defined in %s)", path, r.Fields.Slug, prev)
		}
		page := r.PageData()
		if s.sanitize {
			page.HTML = Sanitize(r.HTML)
		}
		pages[page.Slug] = page
		files[page.Slug] = path
	}
	return nil
}

// IsContentFile reports whether path has a query result extension.
func IsContentFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func sortedKeys(m map[string]PageData) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
