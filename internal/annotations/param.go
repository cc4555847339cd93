package annotations

import (
	"fmt"

	"github.com/Octavi-Broken-Lab/android-system-tools-hidl/internal/expr"
)

// AnnotationParam is one key=value(s) entry inside an annotation. The
// two implementations are StringParam (literal tokens from the parser)
// and ExprParam (constant-expression references); the unexported
// method keeps the set closed.
//
// Values, SingleValue, SingleString, and SingleBool return canonical
// string forms. For ExprParam they are meaningful only after a
// successful Evaluate. SingleValue and its derivatives panic when the
// parameter shape breaks their contract (cardinality, quoting, boolean
// literal); those panics mean the caller or the parser is broken, not
// that the input failed to compile.
type AnnotationParam interface {
	Name() string

	// Evaluate forces evaluation of expression-backed values, in
	// declaration order, stopping at the first failure.
	Evaluate() error

	// Validate checks parameter-local semantic constraints. Schema
	// level checks live in ValidateAgainstSchema.
	Validate() error

	Values() []string
	SingleValue() string
	SingleString() string
	SingleBool() bool

	annotationParam()
}

// StringParam holds raw quoted-string tokens. The token slice is
// owned by the parser's arena; the param borrows it and never
// copies or rewrites the tokens. Unquoting is the accessor's job.
type StringParam struct {
	name   string
	values []string
}

// NewStringParam borrows values from parser-owned storage. The
// storage must outlive the param.
func NewStringParam(name string, values []string) *StringParam {
	return &StringParam{name: name, values: values}
}

func (p *StringParam) Name() string { return p.name }

func (p *StringParam) Evaluate() error { return nil }

func (p *StringParam) Validate() error { return nil }

// Values returns the stored literal tokens verbatim, quotes included.
func (p *StringParam) Values() []string {
	out := make([]string, len(p.values))
	copy(out, p.values)
	return out
}

func (p *StringParam) SingleValue() string {
	if len(p.values) != 1 {
		panic(fmt.Sprintf("annotation parameter %q requires exactly one value but has %d", p.name, len(p.values)))
	}
	return p.values[0]
}

func (p *StringParam) SingleString() string { return unquoteSingle(p) }

func (p *StringParam) SingleBool() bool { return boolSingle(p) }

func (p *StringParam) annotationParam() {}

// ExprParam holds references to constant-expression nodes owned by
// the expression subsystem. Rendering requires a prior successful
// Evaluate; before that the value strings are undefined.
type ExprParam struct {
	name   string
	values []expr.ConstantExpression
}

// NewExprParam borrows expression nodes owned by the expression
// subsystem. The nodes must outlive the param.
func NewExprParam(name string, values []expr.ConstantExpression) *ExprParam {
	return &ExprParam{name: name, values: values}
}

func (p *ExprParam) Name() string { return p.name }

// Evaluate evaluates every referenced node in declaration order and
// stops at the first failure, returning its error. Later nodes are
// not touched so a failed annotation never renders half-evaluated.
func (p *ExprParam) Evaluate() error {
	for _, v := range p.values {
		if err := v.Evaluate(); err != nil {
			return err
		}
	}
	return nil
}

func (p *ExprParam) Validate() error { return nil }

// Values renders each node as "<value> /* <type> */", the combined
// value+type form downstream generators embed in comments.
func (p *ExprParam) Values() []string {
	out := make([]string, 0, len(p.values))
	for _, v := range p.values {
		out = append(out, renderExpr(v))
	}
	return out
}

func (p *ExprParam) SingleValue() string {
	if len(p.values) != 1 {
		panic(fmt.Sprintf("annotation parameter %q requires exactly one value but has %d", p.name, len(p.values)))
	}
	return renderExpr(p.values[0])
}

func (p *ExprParam) SingleString() string { return unquoteSingle(p) }

func (p *ExprParam) SingleBool() bool { return boolSingle(p) }

func (p *ExprParam) annotationParam() {}

func renderExpr(v expr.ConstantExpression) string {
	return v.Value() + " /* " + v.Description() + " */"
}

// unquoteSingle strips the surrounding quotes from a single-valued
// parameter. A value that is not a well-formed quoted string is a
// contract violation.
func unquoteSingle(p AnnotationParam) string {
	value := p.SingleValue()
	if len(value) < 2 || value[0] != '"' || value[len(value)-1] != '"' {
		panic(fmt.Sprintf("annotation parameter %q must be a string", p.Name()))
	}
	return value[1 : len(value)-1]
}

func boolSingle(p AnnotationParam) bool {
	switch unquoteSingle(p) {
	case "true":
		return true
	case "false":
		return false
	}
	panic(fmt.Sprintf("annotation parameter %q must be of boolean value (true/false)", p.Name()))
}
