package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeSecurity   ErrorType = "security"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeContent    ErrorType = "content"
	ErrorTypeRender     ErrorType = "render"
	ErrorTypeConfig     ErrorType = "config"
)

// FolioError is a structured error type with context.
type FolioError struct {
	Type     ErrorType
	Code     string
	Message  string
	Cause    error
	Context  map[string]interface{}
	Slug     string
	FilePath string
}

// Error implements the error interface.
func (e *FolioError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.Slug != "" {
		parts = append(parts, "slug:"+e.Slug)
	}

	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *FolioError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison.
func (e *FolioError) Is(target error) bool {
	var t *FolioError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *FolioError) WithContext(key string, value interface{}) *FolioError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithSlug records the page the error belongs to.
func (e *FolioError) WithSlug(slug string) *FolioError {
	e.Slug = slug

	return e
}

// WithFile records the file the error belongs to.
func (e *FolioError) WithFile(path string) *FolioError {
	e.FilePath = path

	return e
}

// NewValidationError creates a validation error.
func NewValidationError(code, message string) *FolioError {
	return &FolioError{Type: ErrorTypeValidation, Code: code, Message: message}
}

// NewSecurityError creates a security error.
func NewSecurityError(code, message string) *FolioError {
	return &FolioError{Type: ErrorTypeSecurity, Code: code, Message: message}
}

// NewIOError creates an I/O error.
func NewIOError(code, message string, cause error) *FolioError {
	return &FolioError{Type: ErrorTypeIO, Code: code, Message: message, Cause: cause}
}

// NewContentError creates an error for unreadable or missing content.
func NewContentError(code, message string, cause error) *FolioError {
	return &FolioError{Type: ErrorTypeContent, Code: code, Message: message, Cause: cause}
}

// NewRenderError creates a render error.
func NewRenderError(code, message string, cause error) *FolioError {
	return &FolioError{Type: ErrorTypeRender, Code: code, Message: message, Cause: cause}
}

// NewConfigError creates a configuration error.
func NewConfigError(code, message string) *FolioError {
	return &FolioError{Type: ErrorTypeConfig, Code: code, Message: message}
}

// IsType checks whether err is a FolioError of the given type.
func IsType(err error, t ErrorType) bool {
	var fe *FolioError
	if errors.As(err, &fe) {
		return fe.Type == t
	}

	return false
}

// IsSecurityError checks if an error is security-related.
func IsSecurityError(err error) bool {
	return IsType(err, ErrorTypeSecurity)
}

// Common error codes.
const (
	ErrCodeInvalidPath     = "ERR_INVALID_PATH"
	ErrCodePathTraversal   = "ERR_PATH_TRAVERSAL"
	ErrCodePageNotFound    = "ERR_PAGE_NOT_FOUND"
	ErrCodeContentInvalid  = "ERR_CONTENT_INVALID"
	ErrCodeRenderFailed    = "ERR_RENDER_FAILED"
	ErrCodeWriteFailed     = "ERR_WRITE_FAILED"
	ErrCodeBuildFailed     = "ERR_BUILD_FAILED"
	ErrCodeConfigInvalid   = "ERR_CONFIG_INVALID"
	ErrCodeValidationError = "ERR_VALIDATION_FAILED"
)

// ErrPathTraversal creates a path traversal security error.
func ErrPathTraversal(path string) *FolioError {
	return NewSecurityError(ErrCodePathTraversal, "path traversal attempt: "+path)
}

// ErrPageNotFound creates a missing page error.
func ErrPageNotFound(slug string, cause error) *FolioError {
	return NewContentError(ErrCodePageNotFound, "page not found", cause).WithSlug(slug)
}

// ErrRenderFailed creates a render failure error.
func ErrRenderFailed(slug string, cause error) *FolioError {
	return NewRenderError(ErrCodeRenderFailed, "render failed", cause).WithSlug(slug)
}

// ErrWriteFailed creates an output write error.
func ErrWriteFailed(path string, cause error) *FolioError {
	return NewIOError(ErrCodeWriteFailed, "write failed", cause).WithFile(path)
}
