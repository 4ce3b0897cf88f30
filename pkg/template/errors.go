package template

import (
	"errors"
	"fmt"
)

// Sentinel errors, matched with errors.Is.
var (
	ErrTemplateNotFound   = errors.New("template not found")
	ErrUndefinedReference = errors.New("undefined reference")
	ErrNoSuchMethod       = errors.New("no such method")
)

// ParseError is a syntax error in template source.
type ParseError struct {
	Name   string
	Line   int
	Column int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Name, e.Line, e.Column, e.Msg)
}

// ResolutionError is returned when a template cannot be loaded or compiled.
type ResolutionError struct {
	Path string
	Err  error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolving template %s: %v", e.Path, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// RenderError is returned when merging a Context into a template fails.
type RenderError struct {
	Template string
	Line     int
	Column   int
	// Ref is the reference or directive text being evaluated, if any.
	Ref string
	Err error
}

func (e *RenderError) Error() string {
	if e.Ref != "" {
		return fmt.Sprintf("rendering %s:%d:%d: %s: %v", e.Template, e.Line, e.Column, e.Ref, e.Err)
	}
	return fmt.Sprintf("rendering %s:%d:%d: %v", e.Template, e.Line, e.Column, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// DateParseError is returned by DateRange when a date is not an ISO-8601
// calendar date (YYYY-MM-DD).
type DateParseError struct {
	Value string
	Err   error
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("invalid ISO-8601 date %q: %v", e.Value, e.Err)
}

func (e *DateParseError) Unwrap() error { return e.Err }
