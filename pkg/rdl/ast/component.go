package ast

// ComponentKind identifies a constraint component variant.
type ComponentKind string

const (
	ComponentConstraint ComponentKind = "constraint" // {path, check}
	ComponentAnd        ComponentKind = "and"        // {and}
	ComponentOr         ComponentKind = "or"         // {or}
	ComponentSet        ComponentKind = "set"        // {set}
)

// Component is a node of a constraint tree: a leaf constraint or a group.
type Component struct {
	Kind     ComponentKind
	Path     Path         // Navigation from the entity (Constraint)
	Check    *Check       // Predicate on the resolved value (Constraint)
	Children []*Component // Child components (And, Or, Set)
	Location Location
}

// IsLeaf reports whether the component is a path/check constraint.
func (c *Component) IsLeaf() bool {
	return c.Kind == ComponentConstraint
}

// IsGroup reports whether the component aggregates child components.
func (c *Component) IsGroup() bool {
	return c.Kind == ComponentAnd || c.Kind == ComponentOr || c.Kind == ComponentSet
}

// Count returns the number of components in the subtree, including c.
func (c *Component) Count() int {
	n := 1
	for _, child := range c.Children {
		n += child.Count()
	}
	return n
}

// Depth returns the nesting depth of the subtree, 1 for a leaf.
func (c *Component) Depth() int {
	max := 0
	for _, child := range c.Children {
		if d := child.Depth(); d > max {
			max = d
		}
	}
	return max + 1
}
