package engine

import (
	"fmt"

	"mercator-hq/ifccheck/pkg/model"
	"mercator-hq/ifccheck/pkg/rdl/ast"
)

// Component is an evaluated node of a constraint tree.
type Component interface {
	// Definition returns the node the component was evaluated from.
	Definition() *ast.Component
	// Result returns the outcome of the evaluation.
	Result() Result
	// Report returns the component's report lines, depth-first.
	Report() []string
}

// ConstraintResult is an evaluated leaf constraint.
type ConstraintResult struct {
	definition *ast.Component
	result     Result

	// PathResult is the single value the path resolved to, nil if resolution failed.
	PathResult any
}

// Definition implements Component.
func (c *ConstraintResult) Definition() *ast.Component { return c.definition }

// Result implements Component.
func (c *ConstraintResult) Result() Result { return c.result }

// Report implements Component. A leaf reports exactly one line.
func (c *ConstraintResult) Report() []string {
	return []string{c.result.Message}
}

// GroupResult is an evaluated and, or, set group.
type GroupResult struct {
	definition *ast.Component
	result     Result

	// Children are the evaluated child components in declared order.
	Children []Component
	// ValidCount is the number of VALID children.
	ValidCount int
}

// Definition implements Component.
func (g *GroupResult) Definition() *ast.Component { return g.definition }

// Result implements Component.
func (g *GroupResult) Result() Result { return g.result }

// Report implements Component: the group line followed by every child's lines.
func (g *GroupResult) Report() []string {
	lines := []string{g.result.Message}
	for _, child := range g.Children {
		lines = append(lines, child.Report()...)
	}
	return lines
}

// EvaluateComponent evaluates a constraint tree against one entity.
func (ev *Evaluator) EvaluateComponent(def *ast.Component, entity model.Entity) Component {
	if def.IsLeaf() {
		return ev.evaluateConstraint(def, entity)
	}
	return ev.evaluateGroup(def, entity)
}

func (ev *Evaluator) evaluateConstraint(def *ast.Component, entity model.Entity) *ConstraintResult {
	c := &ConstraintResult{definition: def}

	value, err := ResolvePath(def.Path, entity)
	if err != nil {
		c.result = Errored(err.Error())
		return c
	}
	if value == nil {
		c.result = Errored(ErrNoPathResult.Error())
		return c
	}
	c.PathResult = value

	if def.Check == nil {
		c.result = Errored("constraint has no check")
		return c
	}
	c.result = ev.EvaluateCheck(def.Check, value)
	return c
}

// evaluateGroup evaluates every child, never short-circuiting, so the report
// always covers the whole tree.
func (ev *Evaluator) evaluateGroup(def *ast.Component, entity model.Entity) *GroupResult {
	g := &GroupResult{definition: def, Children: make([]Component, 0, len(def.Children))}

	for _, childDef := range def.Children {
		child := ev.EvaluateComponent(childDef, entity)
		if child.Result().IsValid() {
			g.ValidCount++
		}
		g.Children = append(g.Children, child)
	}

	total := len(g.Children)
	switch def.Kind {
	case ast.ComponentAnd:
		if g.ValidCount == total {
			g.result = Valid(fmt.Sprintf("and group: %s: Each of %d constraints are valid.", StatusValid, total))
		} else {
			g.result = Failed(fmt.Sprintf("and group: %s: %d of %d constraints are valid.", StatusFailed, g.ValidCount, total))
		}
	case ast.ComponentSet:
		if g.ValidCount == total {
			g.result = Valid(fmt.Sprintf("set group: %s: %d of %d constraints are valid.", StatusValid, g.ValidCount, total))
		} else {
			g.result = Failed(fmt.Sprintf("set group: %s: %d of %d constraints are valid.", StatusFailed, g.ValidCount, total))
		}
	case ast.ComponentOr:
		if g.ValidCount > 0 {
			g.result = Valid(fmt.Sprintf("or group: %s: %d of %d constraints are valid.", StatusValid, g.ValidCount, total))
		} else {
			g.result = Failed(fmt.Sprintf("or group: %s: None of %d constraints are valid.", StatusFailed, total))
		}
	default:
		g.result = Errored(fmt.Sprintf("unknown constraint component %q", def.Kind))
	}
	return g
}
