// Package annotations models source-level annotations attached to IDL
// declarations: a name plus an ordered list of named parameters whose
// values are either literal string tokens or references into the
// constant-expression subsystem. The package evaluates and validates
// parameters and re-serializes annotations into the canonical form
// consumed by code generators and diff tooling.
package annotations

import (
	"strings"

	"github.com/Octavi-Broken-Lab/android-system-tools-hidl/internal/formatter"
)

// Annotation is a named, ordered parameter list. It exclusively owns
// its params; they are constructed during parse and never mutated
// after validation.
type Annotation struct {
	name   string
	params []AnnotationParam
}

// New constructs an annotation taking ownership of params.
func New(name string, params []AnnotationParam) *Annotation {
	return &Annotation{name: name, params: params}
}

func (a *Annotation) Name() string { return a.name }

// Params returns the owned parameter list in declaration order.
// Callers must not mutate it.
func (a *Annotation) Params() []AnnotationParam { return a.params }

// Param returns the first parameter with the given name, or nil.
// Duplicate names are not rejected at construction; lookup always
// resolves to the earliest occurrence.
func (a *Annotation) Param(name string) AnnotationParam {
	for _, p := range a.params {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// Evaluate evaluates every parameter in declaration order, stopping
// at the first failure.
func (a *Annotation) Evaluate() error {
	for _, p := range a.params {
		if err := p.Evaluate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate validates every parameter in declaration order, stopping
// at the first failure.
func (a *Annotation) Validate() error {
	for _, p := range a.params {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Dump writes the canonical textual form: @Name, then (k=v, ...) when
// parameters exist, multi-valued parameters braced as k={v1, v2}.
// Dump does not evaluate; expression-backed annotations must have been
// evaluated for the output to be meaningful.
func (a *Annotation) Dump(out *formatter.Formatter) {
	out.Printf("@%s", a.name)

	if len(a.params) == 0 {
		return
	}

	out.WriteString("(")
	for i, p := range a.params {
		if i > 0 {
			out.WriteString(", ")
		}
		out.Printf("%s=", p.Name())

		values := p.Values()
		if len(values) > 1 {
			out.WriteString("{")
		}
		out.Join(values, ", ")
		if len(values) > 1 {
			out.WriteString("}")
		}
	}
	out.WriteString(")")
}

// String returns the canonical form as a string.
func (a *Annotation) String() string {
	var sb strings.Builder
	a.Dump(formatter.New(&sb))
	return sb.String()
}
