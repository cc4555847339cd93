// Package formatter assembles canonical IDL text from incremental
// fragment writes. It is the output side of annotation dumping and of
// any other stage that re-serializes declarations: callers append
// fragments in order and the formatter handles indentation and line
// state, so emitters never track column position themselves.
package formatter

import (
	"fmt"
	"io"
	"strings"
)

// Formatter is an append-only text stream with indentation tracking.
// Writes are buffered per line; indentation is applied when a line
// starts, not when it ends.
type Formatter struct {
	out         io.Writer
	indentStr   string
	depth       int
	atLineStart bool
	err         error
}

// New returns a Formatter writing to out, indenting with four spaces
// per level.
func New(out io.Writer) *Formatter {
	return &Formatter{out: out, indentStr: "    ", atLineStart: true}
}

// NewWithIndent returns a Formatter using the given indent unit.
func NewWithIndent(out io.Writer, indent string) *Formatter {
	return &Formatter{out: out, indentStr: indent, atLineStart: true}
}

// WriteString appends s to the stream. Embedded newlines reset the
// line state so the next fragment is indented.
func (f *Formatter) WriteString(s string) *Formatter {
	if f.err != nil || s == "" {
		return f
	}
	for {
		idx := strings.IndexByte(s, '\n')
		if idx < 0 {
			f.writeFragment(s)
			return f
		}
		f.writeFragment(s[:idx])
		f.writeNewline()
		s = s[idx+1:]
	}
}

// Printf appends a formatted fragment.
func (f *Formatter) Printf(format string, args ...interface{}) *Formatter {
	return f.WriteString(fmt.Sprintf(format, args...))
}

// Newline terminates the current line.
func (f *Formatter) Newline() *Formatter {
	if f.err != nil {
		return f
	}
	f.writeNewline()
	return f
}

// Indent increases the indentation depth for subsequent lines.
func (f *Formatter) Indent() *Formatter {
	f.depth++
	return f
}

// Unindent decreases the indentation depth. Unbalanced calls are a
// caller bug; depth never goes negative.
func (f *Formatter) Unindent() *Formatter {
	if f.depth > 0 {
		f.depth--
	}
	return f
}

// Block writes open, runs body one level deeper, then writes close on
// its own line. Used for brace-delimited declaration bodies.
func (f *Formatter) Block(open, close string, body func(*Formatter)) *Formatter {
	f.WriteString(open).Newline()
	f.Indent()
	body(f)
	f.Unindent()
	f.WriteString(close)
	return f
}

// Join writes items separated by sep.
func (f *Formatter) Join(items []string, sep string) *Formatter {
	for i, item := range items {
		if i > 0 {
			f.WriteString(sep)
		}
		f.WriteString(item)
	}
	return f
}

// Err reports the first write error, if any. Once a write fails all
// subsequent operations are no-ops.
func (f *Formatter) Err() error {
	return f.err
}

func (f *Formatter) writeFragment(s string) {
	if f.err != nil || s == "" {
		return
	}
	if f.atLineStart {
		f.atLineStart = false
		if f.depth > 0 {
			if _, err := io.WriteString(f.out, strings.Repeat(f.indentStr, f.depth)); err != nil {
				f.err = err
				return
			}
		}
	}
	if _, err := io.WriteString(f.out, s); err != nil {
		f.err = err
	}
}

func (f *Formatter) writeNewline() {
	if f.err != nil {
		return
	}
	if _, err := io.WriteString(f.out, "\n"); err != nil {
		f.err = err
		return
	}
	f.atLineStart = true
}
