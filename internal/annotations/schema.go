package annotations

import (
	"fmt"
	"sort"
	"sync"
)

// ParamKind says which parameter variant a schema slot accepts.
type ParamKind int

const (
	AnyKind ParamKind = iota
	StringKind
	ExprKind
)

func (k ParamKind) String() string {
	switch k {
	case StringKind:
		return "string"
	case ExprKind:
		return "constant expression"
	default:
		return "any"
	}
}

// ParamSpec describes one parameter slot of a known annotation.
type ParamSpec struct {
	Kind        ParamKind
	Single      bool // exactly one value required
	Required    bool
	Description string
	Validator   func(AnnotationParam) error
}

// Schema describes a known annotation: which parameters it accepts
// and what shape each must have. Annotations without a registered
// schema pass validation untouched.
type Schema struct {
	Name        string
	Description string
	Params      map[string]ParamSpec
	Examples    []string
}

// Registry manages annotation schemas.
type Registry interface {
	Register(schema Schema) error
	Get(name string) (Schema, bool)
	Names() []string
	IsRegistered(name string) bool
}

type registry struct {
	mu      sync.RWMutex
	schemas map[string]Schema
}

// NewRegistry returns an empty schema registry.
func NewRegistry() Registry {
	return &registry{schemas: make(map[string]Schema)}
}

func (r *registry) Register(schema Schema) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if schema.Name == "" {
		return fmt.Errorf("schema name cannot be empty")
	}
	if _, exists := r.schemas[schema.Name]; exists {
		return fmt.Errorf("annotation %q is already registered", schema.Name)
	}
	for paramName, spec := range schema.Params {
		if paramName == "" {
			return fmt.Errorf("schema %q has a parameter with an empty name", schema.Name)
		}
		if spec.Kind < AnyKind || spec.Kind > ExprKind {
			return fmt.Errorf("schema %q parameter %q has invalid kind %d", schema.Name, paramName, spec.Kind)
		}
	}

	r.schemas[schema.Name] = schema
	return nil
}

func (r *registry) Get(name string) (Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	schema, ok := r.schemas[name]
	return schema, ok
}

func (r *registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.schemas))
	for name := range r.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *registry) IsRegistered(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.schemas[name]
	return ok
}

var (
	defaultRegistry     Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the global registry preloaded with the
// built-in annotation schemas.
func DefaultRegistry() Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
		for _, schema := range BuiltinSchemas() {
			if err := defaultRegistry.Register(schema); err != nil {
				panic(fmt.Sprintf("registering builtin schema %q: %v", schema.Name, err))
			}
		}
	})
	return defaultRegistry
}

// BuiltinSchemas returns the schemas of the annotations the compiler
// itself interprets.
func BuiltinSchemas() []Schema {
	return []Schema{
		{
			Name:        "entry",
			Description: "Marks a method as a valid entry point into the interface call flow",
			Params:      map[string]ParamSpec{},
			Examples:    []string{"@entry"},
		},
		{
			Name:        "exit",
			Description: "Marks a method as a valid exit point out of the interface call flow",
			Params:      map[string]ParamSpec{},
			Examples:    []string{"@exit"},
		},
		{
			Name:        "callflow",
			Description: "Constrains which methods may follow this one",
			Params: map[string]ParamSpec{
				"next": {
					Kind:        StringKind,
					Description: "Method names allowed to be called next; \"*\" allows any",
				},
			},
			Examples: []string{
				`@callflow(next="close")`,
				`@callflow(next={"open", "reset"})`,
			},
		},
		{
			Name:        "export",
			Description: "Exports the annotated type to the target language",
			Params: map[string]ParamSpec{
				"name": {
					Kind:        StringKind,
					Single:      true,
					Description: "Name to export under; empty keeps the declared name",
				},
				"value_prefix": {
					Kind:        StringKind,
					Single:      true,
					Description: "Prefix prepended to each exported enumerator",
				},
				"value_suffix": {
					Kind:        StringKind,
					Single:      true,
					Description: "Suffix appended to each exported enumerator",
				},
			},
			Examples: []string{
				`@export`,
				`@export(name="")`,
				`@export(name="Flags", value_prefix="FLAG_")`,
			},
		},
	}
}
