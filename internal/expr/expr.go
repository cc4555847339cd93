// Package expr evaluates IDL constant expressions. Expressions arrive
// from the parser as trees of literal, unary, and binary nodes; after
// Evaluate they expose the computed value and the inferred C type that
// downstream generators print alongside it.
package expr

import (
	"fmt"
	"strconv"
	"strings"
)

// ConstantExpression is a compile-time-evaluable expression node.
// Value and Description are only meaningful after a successful
// Evaluate; Evaluate may be called more than once and later calls
// reuse the first result.
type ConstantExpression interface {
	Evaluate() error
	Value() string
	Description() string
}

// Type is the inferred C scalar type of an evaluated expression.
type Type int

const (
	Int32 Type = iota
	UInt32
	Int64
	UInt64
	Bool
)

func (t Type) String() string {
	switch t {
	case Int32:
		return "int32_t"
	case UInt32:
		return "uint32_t"
	case Int64:
		return "int64_t"
	case UInt64:
		return "uint64_t"
	case Bool:
		return "bool"
	default:
		return "unknown"
	}
}

// EvalError reports a failure to evaluate an expression node.
type EvalError struct {
	Expr   string // source text of the failing node
	Reason string
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("cannot evaluate %q: %s", e.Expr, e.Reason)
}

// result is the computed state shared by all node kinds. Arithmetic is
// performed on the uint64 bit pattern; signedness lives in the type.
type result struct {
	bits uint64
	typ  Type
	done bool
}

func (r *result) value() string {
	switch r.typ {
	case Bool:
		if r.bits != 0 {
			return "true"
		}
		return "false"
	case Int32:
		return strconv.FormatInt(int64(int32(r.bits)), 10)
	case Int64:
		return strconv.FormatInt(int64(r.bits), 10)
	default:
		return strconv.FormatUint(r.bits, 10)
	}
}

// Literal is a numeric or boolean literal token.
type Literal struct {
	token string
	res   result
}

// NewLiteral wraps a raw literal token. The token is not checked until
// Evaluate.
func NewLiteral(token string) *Literal {
	return &Literal{token: token}
}

func (l *Literal) Evaluate() error {
	if l.res.done {
		return nil
	}
	switch l.token {
	case "true":
		l.res = result{bits: 1, typ: Bool, done: true}
		return nil
	case "false":
		l.res = result{bits: 0, typ: Bool, done: true}
		return nil
	}
	neg := false
	tok := l.token
	if strings.HasPrefix(tok, "-") {
		neg = true
		tok = tok[1:]
	}
	// base 0 accepts decimal, 0x hex, and 0-prefixed octal
	v, err := strconv.ParseUint(tok, 0, 64)
	if err != nil {
		return &EvalError{Expr: l.token, Reason: "malformed integer literal"}
	}
	bits := v
	if neg {
		bits = -v
	}
	l.res = result{bits: bits, typ: inferType(bits, neg), done: true}
	return nil
}

func (l *Literal) Value() string {
	return l.res.value()
}

func (l *Literal) Description() string {
	return l.res.typ.String()
}

// Unary applies a prefix operator to one operand.
type Unary struct {
	op      string
	operand ConstantExpression
	res     result
}

func NewUnary(op string, operand ConstantExpression) *Unary {
	return &Unary{op: op, operand: operand}
}

func (u *Unary) Evaluate() error {
	if u.res.done {
		return nil
	}
	if err := u.operand.Evaluate(); err != nil {
		return err
	}
	bits, typ, err := operandState(u.operand)
	if err != nil {
		return err
	}
	switch u.op {
	case "+":
	case "-":
		bits = -bits
	case "~":
		bits = ^bits
	case "!":
		if bits == 0 {
			bits = 1
		} else {
			bits = 0
		}
		typ = Bool
	default:
		return &EvalError{Expr: u.op, Reason: "unknown unary operator"}
	}
	bits = truncate(bits, typ)
	u.res = result{bits: bits, typ: typ, done: true}
	return nil
}

func (u *Unary) Value() string       { return u.res.value() }
func (u *Unary) Description() string { return u.res.typ.String() }

// Binary combines two operands with an infix operator.
type Binary struct {
	op       string
	lhs, rhs ConstantExpression
	res      result
}

func NewBinary(op string, lhs, rhs ConstantExpression) *Binary {
	return &Binary{op: op, lhs: lhs, rhs: rhs}
}

func (b *Binary) Evaluate() error {
	if b.res.done {
		return nil
	}
	if err := b.lhs.Evaluate(); err != nil {
		return err
	}
	if err := b.rhs.Evaluate(); err != nil {
		return err
	}
	lb, lt, err := operandState(b.lhs)
	if err != nil {
		return err
	}
	rb, rt, err := operandState(b.rhs)
	if err != nil {
		return err
	}
	typ := promote(lt, rt)
	var bits uint64
	switch b.op {
	case "+":
		bits = lb + rb
	case "-":
		bits = lb - rb
	case "*":
		bits = lb * rb
	case "/":
		if rb == 0 {
			return &EvalError{Expr: b.op, Reason: "division by zero"}
		}
		bits = divide(lb, rb, typ)
	case "%":
		if rb == 0 {
			return &EvalError{Expr: b.op, Reason: "modulo by zero"}
		}
		bits = modulo(lb, rb, typ)
	case "<<":
		bits = lb << (rb & 63)
		typ = lt
	case ">>":
		bits = lb >> (rb & 63)
		typ = lt
	case "&":
		bits = lb & rb
	case "|":
		bits = lb | rb
	case "^":
		bits = lb ^ rb
	default:
		return &EvalError{Expr: b.op, Reason: "unknown binary operator"}
	}
	bits = truncate(bits, typ)
	b.res = result{bits: bits, typ: typ, done: true}
	return nil
}

func (b *Binary) Value() string       { return b.res.value() }
func (b *Binary) Description() string { return b.res.typ.String() }

// operandState reads back the computed bits of an already-evaluated
// operand. Foreign implementations of ConstantExpression are reparsed
// through their Value string.
func operandState(e ConstantExpression) (uint64, Type, error) {
	switch n := e.(type) {
	case *Literal:
		return n.res.bits, n.res.typ, nil
	case *Unary:
		return n.res.bits, n.res.typ, nil
	case *Binary:
		return n.res.bits, n.res.typ, nil
	}
	v := e.Value()
	switch v {
	case "true":
		return 1, Bool, nil
	case "false":
		return 0, Bool, nil
	}
	if strings.HasPrefix(v, "-") {
		i, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, Int32, &EvalError{Expr: v, Reason: "operand value is not numeric"}
		}
		return uint64(i), inferType(uint64(i), true), nil
	}
	u, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, Int32, &EvalError{Expr: v, Reason: "operand value is not numeric"}
	}
	return u, inferType(u, false), nil
}

// inferType picks the narrowest C type that represents the value,
// preferring signed types for decimal-range magnitudes.
func inferType(bits uint64, negative bool) Type {
	if negative {
		v := int64(bits)
		if v >= -(1<<31) {
			return Int32
		}
		return Int64
	}
	switch {
	case bits <= 1<<31-1:
		return Int32
	case bits <= 1<<32-1:
		return UInt32
	case bits <= 1<<63-1:
		return Int64
	default:
		return UInt64
	}
}

// promote applies the usual arithmetic conversions over the reduced
// type lattice: wider wins, unsigned wins at equal width, bool decays
// to int32.
func promote(a, b Type) Type {
	rank := func(t Type) int {
		switch t {
		case Bool, Int32:
			return 0
		case UInt32:
			return 1
		case Int64:
			return 2
		default:
			return 3
		}
	}
	if rank(a) >= rank(b) {
		if a == Bool {
			return Int32
		}
		return a
	}
	if b == Bool {
		return Int32
	}
	return b
}

func signed(t Type) bool {
	return t == Int32 || t == Int64
}

func truncate(bits uint64, t Type) uint64 {
	switch t {
	case Int32:
		return uint64(int64(int32(bits)))
	case UInt32:
		return bits & 0xffffffff
	case Bool:
		if bits != 0 {
			return 1
		}
		return 0
	default:
		return bits
	}
}

func divide(a, b uint64, t Type) uint64 {
	if signed(t) {
		return uint64(int64(a) / int64(b))
	}
	return a / b
}

func modulo(a, b uint64, t Type) uint64 {
	if signed(t) {
		return uint64(int64(a) % int64(b))
	}
	return a % b
}
