package parser

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"mercator-hq/ifccheck/pkg/rdl/ast"
	rdlErrors "mercator-hq/ifccheck/pkg/rdl/errors"
)

// Fields gives a variant builder typed access to the keys of a matched
// definition. Accessors enforce "present and non-empty" and record a
// structural error on the document when a field does not qualify; the
// returned zero value is then never evaluated because the document is rejected.
type Fields struct {
	d     *decoder
	node  *yaml.Node
	byKey map[string]*yaml.Node
	depth int
}

// Location returns the location of the definition.
func (f *Fields) Location() ast.Location {
	return f.d.location(f.node)
}

// Has reports whether key is present.
func (f *Fields) Has(key string) bool {
	_, ok := f.byKey[key]
	return ok
}

// String returns a required non-empty scalar field as text.
func (f *Fields) String(key string) string {
	n, ok := f.require(key)
	if !ok {
		return ""
	}
	if n.Kind != yaml.ScalarNode || isNull(n) {
		f.d.errorf(n, fmt.Sprintf("Add a non-empty text value for '%s'", key),
			"%q must be a non-empty string", key)
		return ""
	}
	if n.Value == "" {
		f.d.errorf(n, fmt.Sprintf("Add a non-empty text value for '%s'", key),
			"%q must not be empty", key)
		return ""
	}
	return n.Value
}

// Value returns a required non-null field decoded into its native Go value.
func (f *Fields) Value(key string) any {
	n, ok := f.require(key)
	if !ok {
		return nil
	}
	if isNull(n) {
		f.d.errorf(n, rdlErrors.SuggestMissingField(key, "<value>"), "%q must have a value", key)
		return nil
	}
	return f.d.decodeValue(n)
}

// List returns a required non-empty sequence field decoded into native values.
func (f *Fields) List(key string) []any {
	n, ok := f.require(key)
	if !ok {
		return nil
	}
	if n.Kind != yaml.SequenceNode {
		f.d.errorf(n, fmt.Sprintf("Write '%s' as a list, e.g. %s: [a, b]", key, key),
			"%q must be a list", key)
		return nil
	}
	if len(n.Content) == 0 {
		f.d.errorf(n, "", "%q must not be an empty list", key)
		return nil
	}
	values := make([]any, 0, len(n.Content))
	for _, item := range n.Content {
		values = append(values, f.d.decodeValue(item))
	}
	return values
}

// Check decodes a required nested check definition.
func (f *Fields) Check(key string) *ast.Check {
	n, ok := f.require(key)
	if !ok {
		return nil
	}
	return f.d.decodeCheck(n, f.depth+1)
}

// Components decodes a required sequence of constraint components. An empty
// sequence is accepted.
func (f *Fields) Components(key string) []*ast.Component {
	n, ok := f.require(key)
	if !ok {
		return nil
	}
	if n.Kind != yaml.SequenceNode {
		f.d.errorf(n, fmt.Sprintf("Write '%s' as a list of constraints", key),
			"%q must be a list of constraint components", key)
		return nil
	}
	children := make([]*ast.Component, 0, len(n.Content))
	for _, item := range n.Content {
		if c := f.d.decodeComponent(item, f.depth+1); c != nil {
			children = append(children, c)
		}
	}
	return children
}

// Path decodes an optional path field. An absent or null field and an empty
// sequence all yield an empty path.
func (f *Fields) Path(key string) ast.Path {
	n, ok := f.byKey[key]
	n = resolveAlias(n)
	if !ok || isNull(n) {
		return nil
	}
	if n.Kind != yaml.SequenceNode {
		f.d.errorf(n, "Write the path as a list of steps, e.g. path: [{attribute: Name}]",
			"%q must be a list of path steps", key)
		return nil
	}
	if f.d.maxPathSteps > 0 && len(n.Content) > f.d.maxPathSteps {
		f.d.errorf(n, "", "path has %d steps, maximum is %d", len(n.Content), f.d.maxPathSteps)
		return nil
	}
	path := make(ast.Path, 0, len(n.Content))
	for _, item := range n.Content {
		if step := f.d.decodeStep(item); step != nil {
			path = append(path, step)
		}
	}
	return path
}

func (f *Fields) require(key string) (*yaml.Node, bool) {
	n, ok := f.byKey[key]
	if !ok {
		f.d.errorf(f.node, rdlErrors.SuggestMissingField(key, ""), "required key %q is missing", key)
		return nil, false
	}
	return resolveAlias(n), true
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.Tag == "!!null"
}
