package annotations

import (
	"fmt"
	"sort"
	"strings"
)

// ValidateAgainstSchema checks an annotation against its registered
// schema and collects every violation instead of stopping at the
// first one. Annotations with no registered schema are accepted
// unchanged, matching the compiler's pass-through treatment of
// vendor annotations. This is a separate layer from
// Annotation.Validate, which only runs parameter-local checks.
func ValidateAgainstSchema(a *Annotation, loc SourceLocation, reg Registry) error {
	schema, ok := reg.Get(a.Name())
	if !ok {
		return nil
	}

	var errs []error

	seen := make(map[string]bool)
	for _, p := range a.Params() {
		if seen[p.Name()] {
			errs = append(errs, &ValidationError{
				Annotation: a.Name(),
				Parameter:  p.Name(),
				Expected:   "unique parameter names",
				Actual:     fmt.Sprintf("duplicate '%s'", p.Name()),
				Loc:        loc,
				Hint:       "Only the first occurrence is used by lookup; remove the duplicates",
			})
		}
		seen[p.Name()] = true
	}

	for _, p := range a.Params() {
		spec, known := schema.Params[p.Name()]
		if !known {
			errs = append(errs, &ValidationError{
				Annotation: a.Name(),
				Parameter:  p.Name(),
				Expected:   knownParamsHint(schema),
				Actual:     fmt.Sprintf("unknown parameter '%s'", p.Name()),
				Loc:        loc,
				Hint:       "Check the parameter name spelling",
			})
			continue
		}

		if spec.Kind != AnyKind && spec.Kind != paramKind(p) {
			errs = append(errs, &ValidationError{
				Annotation: a.Name(),
				Parameter:  p.Name(),
				Expected:   spec.Kind.String() + " value",
				Actual:     paramKind(p).String() + " value",
				Loc:        loc,
			})
			continue
		}

		if spec.Single && paramValueCount(p) != 1 {
			errs = append(errs, &ValidationError{
				Annotation: a.Name(),
				Parameter:  p.Name(),
				Expected:   "exactly one value",
				Actual:     fmt.Sprintf("%d values", paramValueCount(p)),
				Loc:        loc,
				Hint:       "Drop the braces and provide a single value",
			})
			continue
		}

		if spec.Validator != nil {
			if err := spec.Validator(p); err != nil {
				errs = append(errs, &ValidationError{
					Annotation: a.Name(),
					Parameter:  p.Name(),
					Expected:   "valid value",
					Actual:     fmt.Sprintf("%v", p.Values()),
					Loc:        loc,
					Hint:       err.Error(),
				})
			}
		}
	}

	required := make([]string, 0, len(schema.Params))
	for paramName, spec := range schema.Params {
		if spec.Required {
			required = append(required, paramName)
		}
	}
	sort.Strings(required)
	for _, paramName := range required {
		if a.Param(paramName) == nil {
			errs = append(errs, &ValidationError{
				Annotation: a.Name(),
				Parameter:  paramName,
				Expected:   "required parameter",
				Actual:     "missing",
				Loc:        loc,
				Hint:       fmt.Sprintf("Add %s=<value> to the annotation", paramName),
			})
		}
	}

	if len(errs) > 0 {
		return &MultipleErrors{Errors: errs}
	}
	return nil
}

func paramKind(p AnnotationParam) ParamKind {
	switch p.(type) {
	case *StringParam:
		return StringKind
	case *ExprParam:
		return ExprKind
	default:
		return AnyKind
	}
}

// paramValueCount reads the stored cardinality without rendering, so
// it is safe on unevaluated expression params.
func paramValueCount(p AnnotationParam) int {
	switch v := p.(type) {
	case *StringParam:
		return len(v.values)
	case *ExprParam:
		return len(v.values)
	default:
		return len(p.Values())
	}
}

func knownParamsHint(schema Schema) string {
	if len(schema.Params) == 0 {
		return "no parameters"
	}
	names := make([]string, 0, len(schema.Params))
	for name := range schema.Params {
		names = append(names, name)
	}
	sort.Strings(names)
	return "one of: " + strings.Join(names, ", ")
}
