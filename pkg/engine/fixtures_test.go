package engine

import (
	"mercator-hq/ifccheck/pkg/model"
	"mercator-hq/ifccheck/pkg/rdl/ast"
)

// wallModel builds two walls sharing the IsDefinedBy structure of an IFC
// property set:
//
//	#1=IfcWall  Wall-001  FireRating F90, LoadBearing true
//	#6=IfcWall  Wall-002  FireRating F30
type fixture struct {
	graph *model.Graph
	wall1 *model.Node
	wall2 *model.Node
	pset1 *model.Node
}

func wallModel() *fixture {
	p1 := model.NewEntity("4", "IfcPropertySingleValue").Set("Name", "FireRating").Set("NominalValue", "F90")
	p2 := model.NewEntity("5", "IfcPropertySingleValue").Set("Name", "LoadBearing").Set("NominalValue", true)
	pset1 := model.NewEntity("3", "IfcPropertySet").
		Set("Name", "Pset_WallCommon").
		Set("HasProperties", []any{model.Entity(p1), model.Entity(p2)})
	rel1 := model.NewEntity("2", "IfcRelDefinesByProperties").Set("RelatingPropertyDefinition", model.Entity(pset1))
	wall1 := model.NewEntity("1", "IfcWall").
		Set("Name", "Wall-001").
		Set("GlobalId", "2O2Fr$t4X7Zf8NOew3FLOH").
		Set("IsExternal", true).
		Set("IsDefinedBy", []any{model.Entity(rel1)})

	p3 := model.NewEntity("9", "IfcPropertySingleValue").Set("Name", "FireRating").Set("NominalValue", "F30")
	pset2 := model.NewEntity("8", "IfcPropertySet").
		Set("Name", "Pset_WallCommon").
		Set("HasProperties", []any{model.Entity(p3)})
	rel2 := model.NewEntity("7", "IfcRelDefinesByProperties").Set("RelatingPropertyDefinition", model.Entity(pset2))
	wall2 := model.NewEntity("6", "IfcWall").
		Set("Name", "Wall-002").
		Set("IsExternal", false).
		Set("IsDefinedBy", []any{model.Entity(rel2)})

	door := model.NewEntity("10", "IfcDoor").Set("Name", "Door-001")

	g := model.NewGraph().MustAdd(p1, p2, pset1, rel1, wall1, p3, pset2, rel2, wall2, door)
	return &fixture{graph: g, wall1: wall1, wall2: wall2, pset1: pset1}
}

func attr(name string) *ast.PathStep {
	return &ast.PathStep{Kind: ast.StepAttribute, Name: name}
}

func attrFilter(name string, value any) *ast.PathStep {
	return &ast.PathStep{Kind: ast.StepAttributeFilter, Name: name, Value: value}
}

func typeFilter(t string) *ast.PathStep {
	return &ast.PathStep{Kind: ast.StepTypeFilter, Type: t}
}

func list(name string) *ast.PathStep {
	return &ast.PathStep{Kind: ast.StepList, Name: name}
}

// fireRatingPath navigates from a wall to the nominal value of its
// FireRating property.
func fireRatingPath() ast.Path {
	return ast.Path{
		list("IsDefinedBy"),
		attr("RelatingPropertyDefinition"),
		list("HasProperties"),
		attrFilter("Name", "FireRating"),
		attr("NominalValue"),
	}
}

func equals(v any) *ast.Check { return &ast.Check{Kind: ast.CheckEquals, Value: v} }

func exists(a string) *ast.Check { return &ast.Check{Kind: ast.CheckExists, Attribute: a} }

func in(values ...any) *ast.Check { return &ast.Check{Kind: ast.CheckIn, Values: values} }

func not(inner *ast.Check) *ast.Check { return &ast.Check{Kind: ast.CheckNot, Inner: inner} }

func typeIs(t string) *ast.Check { return &ast.Check{Kind: ast.CheckType, Type: t} }

func constraint(path ast.Path, chk *ast.Check) *ast.Component {
	return &ast.Component{Kind: ast.ComponentConstraint, Path: path, Check: chk}
}

func group(kind ast.ComponentKind, children ...*ast.Component) *ast.Component {
	return &ast.Component{Kind: kind, Children: children}
}

// sameRuleResults reports whether two rule result lists are structurally
// equal: same definitions and entities by identity, same results, same
// resolved values.
func sameRuleResults(a, b []*RuleResult) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		ra, rb := a[i], b[i]
		if ra.Rule != rb.Rule || ra.Name != rb.Name || ra.ValidCount != rb.ValidCount ||
			ra.Result != rb.Result || len(ra.Instances) != len(rb.Instances) {
			return false
		}
		for j := range ra.Instances {
			ia, ib := ra.Instances[j], rb.Instances[j]
			if ia.Entity != ib.Entity || ia.ValidCount != ib.ValidCount || ia.Result != ib.Result ||
				len(ia.Constraints) != len(ib.Constraints) {
				return false
			}
			for k := range ia.Constraints {
				if !sameComponent(ia.Constraints[k], ib.Constraints[k]) {
					return false
				}
			}
		}
	}
	return true
}

func sameComponent(a, b Component) bool {
	if a.Definition() != b.Definition() || a.Result() != b.Result() {
		return false
	}
	switch ca := a.(type) {
	case *ConstraintResult:
		cb, ok := b.(*ConstraintResult)
		return ok && Equal(ca.PathResult, cb.PathResult)
	case *GroupResult:
		gb, ok := b.(*GroupResult)
		if !ok || ca.ValidCount != gb.ValidCount || len(ca.Children) != len(gb.Children) {
			return false
		}
		for i := range ca.Children {
			if !sameComponent(ca.Children[i], gb.Children[i]) {
				return false
			}
		}
		return true
	}
	return false
}
