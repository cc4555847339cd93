// Package parser turns annotation source fragments into Annotation
// values. The accepted grammar is the canonical form itself:
//
//	@name
//	@name(key=value, key={value, value})
//
// where a value is either a quoted string literal or a constant
// expression. String-valued parameters keep their tokens verbatim;
// expression-valued parameters reference nodes built in the
// constant-expression subsystem. A single fragment may carry several
// annotations back to back, as they appear ahead of a declaration.
package parser

import (
	"fmt"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/Octavi-Broken-Lab/android-system-tools-hidl/internal/annotations"
	"github.com/Octavi-Broken-Lab/android-system-tools-hidl/internal/expr"
)

// Parsed pairs an annotation with where it was found.
type Parsed struct {
	Annotation *annotations.Annotation
	Loc        annotations.SourceLocation
}

// Parser parses annotation fragments.
type Parser struct {
	parser *participle.Parser[fragmentAST]
}

// New builds the annotation parser. The grammar is fixed; building it
// is cheap enough to do once per process.
func New() *Parser {
	lex := lexer.MustSimple([]lexer.SimpleRule{
		{Name: "String", Pattern: `"(\\"|[^"])*"`},
		{Name: "Number", Pattern: `0[xX][0-9a-fA-F]+|[0-9]+`},
		{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
		{Name: "Shift", Pattern: `<<|>>`},
		{Name: "Punct", Pattern: `[@(){}=,+\-*/%&|^~!]`},
		{Name: "Whitespace", Pattern: `\s+`},
	})

	return &Parser{
		parser: participle.MustBuild[fragmentAST](
			participle.Lexer(lex),
			participle.Elide("Whitespace"),
			participle.UseLookahead(2),
		),
	}
}

// Parse parses every annotation in input. file is used for error
// positions only.
func (p *Parser) Parse(file, input string) ([]*Parsed, error) {
	ast, err := p.parser.ParseString(file, input)
	if err != nil {
		return nil, fmt.Errorf("parsing annotations: %w", err)
	}

	out := make([]*Parsed, 0, len(ast.Annotations))
	for _, a := range ast.Annotations {
		ann, err := buildAnnotation(a)
		if err != nil {
			return nil, err
		}
		out = append(out, &Parsed{
			Annotation: ann,
			Loc: annotations.SourceLocation{
				File:   a.Pos.Filename,
				Line:   a.Pos.Line,
				Column: a.Pos.Column,
			},
		})
	}
	return out, nil
}

// ParseOne parses input expected to hold exactly one annotation.
func (p *Parser) ParseOne(file, input string) (*Parsed, error) {
	parsed, err := p.Parse(file, input)
	if err != nil {
		return nil, err
	}
	if len(parsed) != 1 {
		return nil, fmt.Errorf("expected one annotation, found %d", len(parsed))
	}
	return parsed[0], nil
}

type fragmentAST struct {
	Annotations []*annotationAST `parser:"@@+"`
}

type annotationAST struct {
	Pos    lexer.Position
	Name   string      `parser:"'@' @Ident"`
	Params []*paramAST `parser:"('(' (@@ (',' @@)*)? ')')?"`
}

type paramAST struct {
	Pos    lexer.Position
	Name   string      `parser:"@Ident '='"`
	Multi  []*valueAST `parser:"( '{' @@ (',' @@)* '}'"`
	Single *valueAST   `parser:"| @@ )"`
}

type valueAST struct {
	Str  *string  `parser:"@String"`
	Expr *exprAST `parser:"| @@"`
}

// Expression grammar: two precedence tiers, multiplicative above
// additive/bitwise, both left associative.
type exprAST struct {
	Left *termAST   `parser:"@@"`
	Rest []*addTail `parser:"@@*"`
}

type addTail struct {
	Op   string   `parser:"@('+' | '-' | '|' | '^' | '&' | Shift)"`
	Term *termAST `parser:"@@"`
}

type termAST struct {
	Left *unaryAST  `parser:"@@"`
	Rest []*mulTail `parser:"@@*"`
}

type mulTail struct {
	Op   string    `parser:"@('*' | '/' | '%')"`
	Term *unaryAST `parser:"@@"`
}

type unaryAST struct {
	Op      *string     `parser:"@('-' | '+' | '~' | '!')?"`
	Primary *primaryAST `parser:"@@"`
}

type primaryAST struct {
	Number *string  `parser:"@Number"`
	Bool   *string  `parser:"| @('true' | 'false')"`
	Sub    *exprAST `parser:"| '(' @@ ')'"`
}

func buildAnnotation(a *annotationAST) (*annotations.Annotation, error) {
	params := make([]annotations.AnnotationParam, 0, len(a.Params))
	for _, p := range a.Params {
		param, err := buildParam(a.Name, p)
		if err != nil {
			return nil, err
		}
		params = append(params, param)
	}
	return annotations.New(a.Name, params), nil
}

// buildParam constructs the concrete param variant. A parameter's
// values must all be string literals or all be expressions; mixing
// the two has no representation.
func buildParam(annotationName string, p *paramAST) (annotations.AnnotationParam, error) {
	values := p.Multi
	if p.Single != nil {
		values = []*valueAST{p.Single}
	}

	strCount := 0
	for _, v := range values {
		if v.Str != nil {
			strCount++
		}
	}

	switch strCount {
	case len(values):
		tokens := make([]string, 0, len(values))
		for _, v := range values {
			tokens = append(tokens, *v.Str)
		}
		return annotations.NewStringParam(p.Name, tokens), nil
	case 0:
		nodes := make([]expr.ConstantExpression, 0, len(values))
		for _, v := range values {
			nodes = append(nodes, buildExpr(v.Expr))
		}
		return annotations.NewExprParam(p.Name, nodes), nil
	default:
		return nil, fmt.Errorf("%s: @%s parameter '%s' mixes string literals and expressions",
			p.Pos, annotationName, p.Name)
	}
}

func buildExpr(e *exprAST) expr.ConstantExpression {
	node := buildTerm(e.Left)
	for _, tail := range e.Rest {
		node = expr.NewBinary(tail.Op, node, buildTerm(tail.Term))
	}
	return node
}

func buildTerm(t *termAST) expr.ConstantExpression {
	node := buildUnary(t.Left)
	for _, tail := range t.Rest {
		node = expr.NewBinary(tail.Op, node, buildUnary(tail.Term))
	}
	return node
}

func buildUnary(u *unaryAST) expr.ConstantExpression {
	node := buildPrimary(u.Primary)
	if u.Op != nil {
		node = expr.NewUnary(*u.Op, node)
	}
	return node
}

func buildPrimary(p *primaryAST) expr.ConstantExpression {
	switch {
	case p.Number != nil:
		return expr.NewLiteral(*p.Number)
	case p.Bool != nil:
		return expr.NewLiteral(*p.Bool)
	default:
		return buildExpr(p.Sub)
	}
}
