package persist

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrParse indicates a malformed or mistyped movie document
	ErrParse = errors.New("malformed movie document")
	// ErrIO indicates the file could not be opened, read or written
	ErrIO = errors.New("movie file I/O failed")
)

// IOError reports a failed file operation
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() []error {
	return []error{ErrIO, e.Err}
}

// ParseError reports a malformed document. Index is -1 for document-level
// problems, otherwise the position in the movies array.
type ParseError struct {
	Index  int
	Field  string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	msg := e.Reason
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	if e.Index < 0 {
		return "parse error: " + msg
	}
	return fmt.Sprintf("parse error in movies[%d].%s: %s", e.Index, e.Field, msg)
}

func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrParse}
	}
	return []error{ErrParse, e.Err}
}
