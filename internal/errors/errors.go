// Package errors provides the structured error types shared by the content,
// render and build steps, and a collector for per-page build failures.
package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// PageError is a failure tied to one page of a build.
type PageError struct {
	Slug      string
	File      string
	Err       error
	Timestamp time.Time
}

// Error implements the error interface
func (pe *PageError) Error() string {
	if pe.File != "" {
		return fmt.Sprintf("%s (%s): %v", pe.Slug, pe.File, pe.Err)
	}
	return fmt.Sprintf("%s: %v", pe.Slug, pe.Err)
}

// Unwrap returns the underlying error
func (pe *PageError) Unwrap() error {
	return pe.Err
}

// ErrorCollector collects page errors from concurrent workers
type ErrorCollector struct {
	pageErrors []PageError
	mutex      sync.RWMutex
}

// NewErrorCollector creates a new error collector
func NewErrorCollector() *ErrorCollector {
	return &ErrorCollector{
		pageErrors: make([]PageError, 0),
	}
}

// Add records a page error. Nil errors are ignored.
func (ec *ErrorCollector) Add(slug, file string, err error) {
	if err == nil {
		return
	}
	ec.mutex.Lock()
	defer ec.mutex.Unlock()
	ec.pageErrors = append(ec.pageErrors, PageError{
		Slug:      slug,
		File:      file,
		Err:       err,
		Timestamp: time.Now(),
	})
}

// GetErrors returns the collected errors ordered by slug
func (ec *ErrorCollector) GetErrors() []PageError {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	// Return a copy to avoid race conditions
	result := make([]PageError, len(ec.pageErrors))
	copy(result, ec.pageErrors)
	sort.SliceStable(result, func(i, j int) bool { return result[i].Slug < result[j].Slug })
	return result
}

// HasErrors returns true if there are any errors
func (ec *ErrorCollector) HasErrors() bool {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	return len(ec.pageErrors) > 0
}

// Err folds the collected errors into a single build error, or nil.
func (ec *ErrorCollector) Err() error {
	collected := ec.GetErrors()
	if len(collected) == 0 {
		return nil
	}

	joined := make([]error, 0, len(collected))
	slugs := make([]string, 0, len(collected))
	for i := range collected {
		joined = append(joined, &collected[i])
		slugs = append(slugs, collected[i].Slug)
	}

	return &FolioError{
		Type:    ErrorTypeRender,
		Code:    ErrCodeBuildFailed,
		Message: fmt.Sprintf("%d page(s) failed: %s", len(collected), strings.Join(slugs, ", ")),
		Cause:   errors.Join(joined...),
	}
}
