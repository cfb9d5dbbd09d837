// Package parsererror holds the typed errors returned while reading input
// files and talking to storage backends.
package parsererror

import (
	"fmt"
	"strings"
)

// ParseError reports a value that could not be read. Source names the file
// or component, Line is the 1-based line in Source when known.
type ParseError struct {
	Source string
	Line   int
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString(e.Source)
	if e.Line > 0 {
		fmt.Fprintf(&b, " line %d", e.Line)
	}
	fmt.Fprintf(&b, ": cannot read %s %q", e.Field, e.Value)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// UnsupportedFormatError is returned for uploads whose type cannot be read.
type UnsupportedFormatError struct {
	FilePath  string
	Extension string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Extension == "" {
		return fmt.Sprintf("unsupported file type for '%s': missing extension", e.FilePath)
	}
	return fmt.Sprintf("unsupported file type '%s' for '%s'", e.Extension, e.FilePath)
}

// InvalidFormatError means the file has a supported type but could not be
// decoded as such.
type InvalidFormatError struct {
	FilePath       string
	ExpectedFormat string
	Msg            string
	Err            error
}

func (e *InvalidFormatError) Error() string {
	msg := fmt.Sprintf("invalid format in file '%s': %s. Expected: %s", e.FilePath, e.Msg, e.ExpectedFormat)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *InvalidFormatError) Unwrap() error {
	return e.Err
}

// StorageError wraps a backend failure with the backend and operation names.
type StorageError struct {
	Backend   string
	Operation string
	Err       error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s storage: %s failed: %v", e.Backend, e.Operation, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
