package engine

import (
	"fmt"

	"mercator-hq/ifccheck/pkg/model"
	"mercator-hq/ifccheck/pkg/rdl/ast"
)

// ApplyStep applies one path step to a non-empty selection and returns the
// new selection. Order is preserved and duplicates are kept. An empty result
// is not an error here; callers decide what an empty selection means.
func ApplyStep(step *ast.PathStep, position []any) ([]any, error) {
	if len(position) == 0 {
		return nil, ErrEmptyPosition
	}

	switch step.Kind {
	case ast.StepAttribute:
		return applyAttribute(step.Name, position)
	case ast.StepAttributeFilter:
		return applyAttributeFilter(step.Name, step.Value, position), nil
	case ast.StepTypeFilter:
		return applyTypeFilter(step.Type, position), nil
	case ast.StepList:
		return applyList(step.Name, position)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStep, step.Kind)
	}
}

// applyAttribute maps every value to its attribute. A single value without
// the attribute fails the whole step.
func applyAttribute(name string, position []any) ([]any, error) {
	out := make([]any, 0, len(position))
	for _, v := range position {
		e, ok := v.(model.Entity)
		if !ok {
			return nil, &AttributeMissingError{Attribute: name, Value: Display(v)}
		}
		attr, ok := e.Attribute(name)
		if !ok {
			return nil, &AttributeMissingError{Attribute: name, Value: Display(v)}
		}
		out = append(out, attr)
	}
	return out, nil
}

// applyAttributeFilter keeps values whose attribute equals value. Values
// lacking the attribute are dropped silently.
func applyAttributeFilter(name string, value any, position []any) []any {
	out := make([]any, 0, len(position))
	for _, v := range position {
		e, ok := v.(model.Entity)
		if !ok {
			continue
		}
		attr, ok := e.Attribute(name)
		if ok && Equal(attr, value) {
			out = append(out, v)
		}
	}
	return out
}

// applyTypeFilter keeps values whose type tag equals typeName exactly.
func applyTypeFilter(typeName string, position []any) []any {
	out := make([]any, 0, len(position))
	for _, v := range position {
		if t, ok := v.(model.Typed); ok && t.TypeTag() == typeName {
			out = append(out, v)
		}
	}
	return out
}

// applyList concatenates the named collection of every value in order.
func applyList(name string, position []any) ([]any, error) {
	out := make([]any, 0, len(position))
	for _, v := range position {
		e, ok := v.(model.Entity)
		if !ok {
			return nil, &AttributeMissingError{Attribute: name, Value: Display(v), List: true}
		}
		attr, ok := e.Attribute(name)
		if !ok {
			return nil, &AttributeMissingError{Attribute: name, Value: Display(v), List: true}
		}
		switch items := attr.(type) {
		case nil:
		case []any:
			out = append(out, items...)
		case []model.Entity:
			for _, item := range items {
				out = append(out, item)
			}
		default:
			return nil, &NotAListError{Attribute: name, Value: Display(v)}
		}
	}
	return out, nil
}

// ResolvePath walks path from entity and returns the single value it selects.
// An empty path selects the entity itself.
func ResolvePath(path ast.Path, entity model.Entity) (any, error) {
	if path.IsEmpty() {
		return entity, nil
	}

	position := []any{entity}
	for i, step := range path {
		next, err := ApplyStep(step, position)
		if err != nil {
			return nil, &PathError{Step: i, Cause: err}
		}
		if len(next) == 0 {
			return nil, &PathError{Step: i, Cause: ErrPathDeadEnd}
		}
		position = next
	}

	if len(position) != 1 {
		return nil, &PathError{Step: len(path) - 1, Cause: ErrMultiplePathResults}
	}
	return position[0], nil
}
