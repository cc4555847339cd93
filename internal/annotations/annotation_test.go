package annotations

import (
	"errors"
	"strings"
	"testing"

	"github.com/Octavi-Broken-Lab/android-system-tools-hidl/internal/expr"
	"github.com/Octavi-Broken-Lab/android-system-tools-hidl/internal/formatter"
)

func dumpString(t *testing.T, a *Annotation) string {
	t.Helper()
	var sb strings.Builder
	a.Dump(formatter.New(&sb))
	return sb.String()
}

func TestAnnotation_DumpNoParams(t *testing.T) {
	a := New("entry", nil)
	if got := dumpString(t, a); got != "@entry" {
		t.Errorf("Dump() = %q, want %q", got, "@entry")
	}
}

func TestAnnotation_DumpSingleValue(t *testing.T) {
	a := New("Deprecated", []AnnotationParam{
		NewStringParam("note", []string{`"use X instead"`}),
	})
	want := `@Deprecated(note="use X instead")`
	if got := dumpString(t, a); got != want {
		t.Errorf("Dump() = %q, want %q", got, want)
	}

	// the same parameter unquotes through the accessor
	if got := a.Param("note").SingleString(); got != "use X instead" {
		t.Errorf("SingleString() = %q, want %q", got, "use X instead")
	}
}

func TestAnnotation_DumpMultiValue(t *testing.T) {
	a := New("Tag", []AnnotationParam{
		NewStringParam("ids", []string{"1", "2", "3"}),
	})
	want := "@Tag(ids={1, 2, 3})"
	if got := dumpString(t, a); got != want {
		t.Errorf("Dump() = %q, want %q", got, want)
	}
}

func TestAnnotation_DumpMultipleParams(t *testing.T) {
	a := New("export", []AnnotationParam{
		NewStringParam("name", []string{`"Flags"`}),
		NewStringParam("value_prefix", []string{`"FLAG_"`}),
	})
	want := `@export(name="Flags", value_prefix="FLAG_")`
	if got := dumpString(t, a); got != want {
		t.Errorf("Dump() = %q, want %q", got, want)
	}
}

func TestAnnotation_DumpExprParams(t *testing.T) {
	a := New("callflow", []AnnotationParam{
		NewExprParam("mask", []expr.ConstantExpression{
			&fakeExpr{value: "3", desc: "int32_t"},
		}),
	})
	want := "@callflow(mask=3 /* int32_t */)"
	if got := dumpString(t, a); got != want {
		t.Errorf("Dump() = %q, want %q", got, want)
	}
}

func TestAnnotation_ParamFirstMatch(t *testing.T) {
	first := NewStringParam("x", []string{`"1"`})
	middle := NewStringParam("y", []string{`"2"`})
	duplicate := NewStringParam("x", []string{`"3"`})

	a := New("A", []AnnotationParam{first, middle, duplicate})

	if got := a.Param("x"); got != AnnotationParam(first) {
		t.Errorf("Param(\"x\") returned %p, want first occurrence %p", got, first)
	}
	if got := a.Param("y"); got != AnnotationParam(middle) {
		t.Errorf("Param(\"y\") returned %p, want %p", got, middle)
	}
	if got := a.Param("missing"); got != nil {
		t.Errorf("Param(\"missing\") = %v, want nil", got)
	}
}

func TestAnnotation_EvaluateShortCircuit(t *testing.T) {
	failure := errors.New("bad operand")
	okNode := &fakeExpr{value: "1", desc: "int32_t"}
	badNode := &fakeExpr{err: failure}
	untouched := &fakeExpr{value: "2", desc: "int32_t"}

	a := New("A", []AnnotationParam{
		NewExprParam("first", []expr.ConstantExpression{okNode}),
		NewExprParam("second", []expr.ConstantExpression{badNode}),
		NewExprParam("third", []expr.ConstantExpression{untouched}),
	})

	if err := a.Evaluate(); !errors.Is(err, failure) {
		t.Fatalf("Evaluate() = %v, want %v", err, failure)
	}
	if untouched.evalCount != 0 {
		t.Errorf("param after failure evaluated %d times, want 0", untouched.evalCount)
	}
}

func TestAnnotation_EvaluateAndValidateSuccess(t *testing.T) {
	a := New("A", []AnnotationParam{
		NewStringParam("s", []string{`"v"`}),
		NewExprParam("e", []expr.ConstantExpression{&fakeExpr{value: "1", desc: "int32_t"}}),
	})

	if err := a.Evaluate(); err != nil {
		t.Errorf("Evaluate() = %v, want nil", err)
	}
	if err := a.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestAnnotation_String(t *testing.T) {
	a := New("exit", nil)
	if got := a.String(); got != "@exit" {
		t.Errorf("String() = %q, want %q", got, "@exit")
	}
}

func TestAnnotation_Params(t *testing.T) {
	params := []AnnotationParam{
		NewStringParam("a", []string{`"1"`}),
		NewStringParam("b", []string{`"2"`}),
	}
	a := New("A", params)

	got := a.Params()
	if len(got) != 2 || got[0].Name() != "a" || got[1].Name() != "b" {
		t.Errorf("Params() out of order: %v", got)
	}
	if a.Name() != "A" {
		t.Errorf("Name() = %q, want %q", a.Name(), "A")
	}
}
