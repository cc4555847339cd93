package annotations

import (
	"fmt"
	"strings"
)

// SourceLocation points at the annotation in the original IDL source.
type SourceLocation struct {
	File   string
	Line   int // 1-based
	Column int // 1-based
}

func (l SourceLocation) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// ValidationError reports a schema violation on one parameter of an
// annotation.
type ValidationError struct {
	Annotation string // annotation name
	Parameter  string // offending parameter, empty for annotation-level errors
	Expected   string
	Actual     string
	Loc        SourceLocation
	Hint       string
}

func (e *ValidationError) Error() string {
	subject := "@" + e.Annotation
	if e.Parameter != "" {
		subject = fmt.Sprintf("@%s parameter '%s'", e.Annotation, e.Parameter)
	}
	msg := fmt.Sprintf("%s: expected %s, got %s", subject, e.Expected, e.Actual)
	if e.Loc.File != "" {
		msg = e.Loc.String() + ": " + msg
	}
	if e.Hint != "" {
		msg += ". " + e.Hint
	}
	return msg
}

// MultipleErrors collects every schema violation found on one
// annotation so the driver can report them together instead of one
// per compiler run.
type MultipleErrors struct {
	Errors []error
}

func (e *MultipleErrors) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var messages []string
	for i, err := range e.Errors {
		messages = append(messages, fmt.Sprintf("  %d. %s", i+1, err.Error()))
	}
	return fmt.Sprintf("%d annotation errors:\n%s", len(e.Errors), strings.Join(messages, "\n"))
}

// Unwrap exposes the collected errors to errors.Is/As.
func (e *MultipleErrors) Unwrap() []error {
	return e.Errors
}
