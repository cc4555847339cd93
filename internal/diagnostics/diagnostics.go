// Package diagnostics provides leveled, colored terminal output for
// the command-line tools. Library packages return errors; only the
// tools print.
package diagnostics

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Level controls how much output is shown.
type Level int

const (
	Silent Level = iota
	Error
	Warn
	Info
	Verbose
)

// Diagnostics writes leveled messages to stdout/stderr.
type Diagnostics struct {
	level    Level
	out      io.Writer
	errOut   io.Writer
	useColor bool
}

// New creates a diagnostics sink at the given level writing to
// stdout/stderr.
func New(level Level) *Diagnostics {
	return NewWithWriters(level, os.Stdout, os.Stderr)
}

// NewWithWriters creates a diagnostics sink writing to the given
// streams.
func NewWithWriters(level Level, out, errOut io.Writer) *Diagnostics {
	return &Diagnostics{
		level:    level,
		out:      out,
		errOut:   errOut,
		useColor: shouldUseColor(),
	}
}

// NewQuiet only shows errors.
func NewQuiet() *Diagnostics { return New(Error) }

// NewVerbose shows everything.
func NewVerbose() *Diagnostics { return New(Verbose) }

// Error reports an error; always shown unless silent.
func (d *Diagnostics) Error(format string, args ...interface{}) {
	if d.level >= Error {
		d.write(d.errOut, "ERROR", color.FgRed, format, args...)
	}
}

// Warn reports a non-fatal problem.
func (d *Diagnostics) Warn(format string, args ...interface{}) {
	if d.level >= Warn {
		d.write(d.out, "WARN", color.FgYellow, format, args...)
	}
}

// Info reports progress.
func (d *Diagnostics) Info(format string, args ...interface{}) {
	if d.level >= Info {
		d.write(d.out, "INFO", color.FgBlue, format, args...)
	}
}

// Success reports a completed step with emphasis.
func (d *Diagnostics) Success(format string, args ...interface{}) {
	if d.level >= Info {
		d.write(d.out, "OK", color.FgGreen, format, args...)
	}
}

// Verbose reports detail shown only in verbose mode.
func (d *Diagnostics) Verbose(format string, args ...interface{}) {
	if d.level >= Verbose {
		d.write(d.out, "DEBUG", color.FgMagenta, format, args...)
	}
}

// Section prints a plain section header.
func (d *Diagnostics) Section(title string) {
	if d.level >= Info {
		fmt.Fprintf(d.out, "%s\n", title)
	}
}

func (d *Diagnostics) write(w io.Writer, tag string, c color.Attribute, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if d.useColor {
		fmt.Fprintf(w, "%s %s\n", color.New(c).Sprintf("[%s]", tag), msg)
	} else {
		fmt.Fprintf(w, "[%s] %s\n", tag, msg)
	}
}

func shouldUseColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}
	term := os.Getenv("TERM")
	return term != "" && term != "dumb"
}
