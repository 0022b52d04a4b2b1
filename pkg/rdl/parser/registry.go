package parser

import (
	"fmt"
	"slices"
	"strings"

	"mercator-hq/ifccheck/pkg/rdl/ast"
	rdlErrors "mercator-hq/ifccheck/pkg/rdl/errors"
)

// Family names one of the polymorphic definition families of a rule document.
type Family string

const (
	FamilyPathStep  Family = "path step"
	FamilyCheck     Family = "check"
	FamilyComponent Family = "constraint component"
)

// Variant describes a registered definition shape. A definition resolves to a
// variant when its set of keys equals Keys exactly.
type Variant struct {
	Kind string
	Keys []string // Sorted
}

// StepBuilder builds a path step from a matched definition.
type StepBuilder func(f *Fields) *ast.PathStep

// CheckBuilder builds a check from a matched definition.
type CheckBuilder func(f *Fields) *ast.Check

// ComponentBuilder builds a constraint component from a matched definition.
type ComponentBuilder func(f *Fields) *ast.Component

type entry[T any] struct {
	Variant
	id    string
	build func(*Fields) T
}

type family[T any] struct {
	name    Family
	entries []entry[T]
}

func (fam *family[T]) register(kind string, keys []string, build func(*Fields) T) error {
	if kind == "" || len(keys) == 0 || build == nil {
		return &rdlErrors.Error{
			Type:    rdlErrors.ErrorTypeRegistry,
			Message: fmt.Sprintf("%s variant %q: kind, keys and builder are required", fam.name, kind),
		}
	}

	sorted := keySet(keys)
	if len(sorted) != len(keys) {
		return &rdlErrors.Error{
			Type:    rdlErrors.ErrorTypeRegistry,
			Message: fmt.Sprintf("%s variant %q: duplicate keys in %v", fam.name, kind, keys),
		}
	}

	id := strings.Join(sorted, ",")
	for _, e := range fam.entries {
		if e.id == id {
			return &rdlErrors.Error{
				Type:    rdlErrors.ErrorTypeRegistry,
				Message: fmt.Sprintf("%s variant %q: key-set {%s} is already registered by %q", fam.name, kind, id, e.Kind),
			}
		}
	}

	fam.entries = append(fam.entries, entry[T]{
		Variant: Variant{Kind: kind, Keys: sorted},
		id:      id,
		build:   build,
	})
	return nil
}

func (fam *family[T]) match(keys []string) (entry[T], bool) {
	id := strings.Join(keySet(keys), ",")
	for _, e := range fam.entries {
		if e.id == id {
			return e, true
		}
	}
	return entry[T]{}, false
}

func (fam *family[T]) variants() []Variant {
	out := make([]Variant, len(fam.entries))
	for i, e := range fam.entries {
		out[i] = Variant{Kind: e.Kind, Keys: slices.Clone(e.Keys)}
	}
	return out
}

func (fam *family[T]) keySets() [][]string {
	out := make([][]string, len(fam.entries))
	for i, e := range fam.entries {
		out[i] = e.Keys
	}
	return out
}

// Registry holds the definition variants of every family. Registries are plain
// values: a parser uses the registry it was configured with and nothing else.
type Registry struct {
	steps      family[*ast.PathStep]
	checks     family[*ast.Check]
	components family[*ast.Component]
}

// NewRegistry returns a registry without any variants.
func NewRegistry() *Registry {
	return &Registry{
		steps:      family[*ast.PathStep]{name: FamilyPathStep},
		checks:     family[*ast.Check]{name: FamilyCheck},
		components: family[*ast.Component]{name: FamilyComponent},
	}
}

// DefaultRegistry returns a registry holding the built-in variants:
// four path steps, five checks and the leaf, and, or, set components.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, err := range []error{
		r.RegisterPathStep(string(ast.StepAttribute), []string{"attribute"}, buildAttributeStep),
		r.RegisterPathStep(string(ast.StepAttributeFilter), []string{"attribute", "value"}, buildAttributeFilterStep),
		r.RegisterPathStep(string(ast.StepTypeFilter), []string{"type"}, buildTypeFilterStep),
		r.RegisterPathStep(string(ast.StepList), []string{"list"}, buildListStep),

		r.RegisterCheck(string(ast.CheckEquals), []string{"equals"}, buildEqualsCheck),
		r.RegisterCheck(string(ast.CheckExists), []string{"exists"}, buildExistsCheck),
		r.RegisterCheck(string(ast.CheckIn), []string{"in"}, buildInCheck),
		r.RegisterCheck(string(ast.CheckNot), []string{"not"}, buildNotCheck),
		r.RegisterCheck(string(ast.CheckType), []string{"type"}, buildTypeCheck),

		r.RegisterComponent(string(ast.ComponentConstraint), []string{"path", "check"}, buildConstraint),
		r.RegisterComponent(string(ast.ComponentConstraint), []string{"check"}, buildConstraint),
		r.RegisterComponent(string(ast.ComponentAnd), []string{"and"}, buildGroup(ast.ComponentAnd)),
		r.RegisterComponent(string(ast.ComponentOr), []string{"or"}, buildGroup(ast.ComponentOr)),
		r.RegisterComponent(string(ast.ComponentSet), []string{"set"}, buildGroup(ast.ComponentSet)),
	} {
		if err != nil {
			panic(err)
		}
	}
	return r
}

// RegisterPathStep adds a path step variant. It fails if the key-set is taken.
func (r *Registry) RegisterPathStep(kind string, keys []string, build StepBuilder) error {
	return r.steps.register(kind, keys, build)
}

// RegisterCheck adds a check variant. It fails if the key-set is taken.
func (r *Registry) RegisterCheck(kind string, keys []string, build CheckBuilder) error {
	return r.checks.register(kind, keys, build)
}

// RegisterComponent adds a constraint component variant. It fails if the key-set is taken.
func (r *Registry) RegisterComponent(kind string, keys []string, build ComponentBuilder) error {
	return r.components.register(kind, keys, build)
}

// Resolve returns the variant of family whose key-set equals keys.
func (r *Registry) Resolve(f Family, keys []string) (Variant, bool) {
	switch f {
	case FamilyPathStep:
		e, ok := r.steps.match(keys)
		return e.Variant, ok
	case FamilyCheck:
		e, ok := r.checks.match(keys)
		return e.Variant, ok
	case FamilyComponent:
		e, ok := r.components.match(keys)
		return e.Variant, ok
	}
	return Variant{}, false
}

// Variants lists the registered variants of a family in registration order.
func (r *Registry) Variants(f Family) []Variant {
	switch f {
	case FamilyPathStep:
		return r.steps.variants()
	case FamilyCheck:
		return r.checks.variants()
	case FamilyComponent:
		return r.components.variants()
	}
	return nil
}

func keySet(keys []string) []string {
	sorted := slices.Clone(keys)
	slices.Sort(sorted)
	return slices.Compact(sorted)
}
