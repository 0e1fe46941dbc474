package errors

import (
	"errors"
)

// Wrap wraps an error with additional context, creating a FolioError if the input is not already one
func Wrap(err error, errType ErrorType, code, message string) *FolioError {
	if err == nil {
		return nil
	}

	// Keep page and file attribution from an inner FolioError
	var fe *FolioError
	if errors.As(err, &fe) {
		return &FolioError{
			Type:     errType,
			Code:     code,
			Message:  message,
			Cause:    fe,
			Context:  fe.Context,
			Slug:     fe.Slug,
			FilePath: fe.FilePath,
		}
	}

	return &FolioError{
		Type:    errType,
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// WrapConfig wraps a configuration error
func WrapConfig(err error, code, message string) *FolioError {
	return Wrap(err, ErrorTypeConfig, code, message)
}

// WrapIO wraps an I/O error
func WrapIO(err error, code, message string) *FolioError {
	return Wrap(err, ErrorTypeIO, code, message)
}

// WrapContent wraps a content error
func WrapContent(err error, code, message string) *FolioError {
	return Wrap(err, ErrorTypeContent, code, message)
}
