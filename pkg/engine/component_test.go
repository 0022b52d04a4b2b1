package engine

import (
	"reflect"
	"testing"

	"mercator-hq/ifccheck/pkg/model"
	"mercator-hq/ifccheck/pkg/rdl/ast"
)

func TestEvaluateComponent_Constraint(t *testing.T) {
	f := wallModel()
	ev := NewEvaluator(nil)

	tests := []struct {
		name       string
		def        *ast.Component
		entity     model.Entity
		wantStatus Status
		wantMsg    string
		wantResult any
	}{
		{
			name:       "valid path and check",
			def:        constraint(fireRatingPath(), equals("F90")),
			entity:     f.wall1,
			wantStatus: StatusValid,
			wantMsg:    "F90 as expected",
			wantResult: "F90",
		},
		{
			name:       "check without path applies to the entity",
			def:        constraint(nil, exists("Name")),
			entity:     f.wall2,
			wantStatus: StatusValid,
			wantMsg:    "attribute Name exists as expected.",
			wantResult: model.Entity(f.wall2),
		},
		{
			name:       "path errors become ERROR results",
			def:        constraint(ast.Path{attr("GlobalId")}, exists("x")),
			entity:     f.wall2,
			wantStatus: StatusError,
			wantMsg:    "attribute GlobalId does not exist in #6=IfcWall",
		},
		{
			name:       "dead end",
			def:        constraint(ast.Path{list("IsDefinedBy"), typeFilter("IfcRelAssociatesMaterial")}, exists("x")),
			entity:     f.wall1,
			wantStatus: StatusError,
			wantMsg:    ErrPathDeadEnd.Error(),
		},
		{
			name:       "null path result",
			def:        constraint(ast.Path{attr("Tag")}, equals("x")),
			entity:     model.NewEntity("99", "IfcWall").Set("Tag", nil),
			wantStatus: StatusError,
			wantMsg:    "The path result is not set",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := ev.EvaluateComponent(tt.def, tt.entity)
			leaf, ok := c.(*ConstraintResult)
			if !ok {
				t.Fatalf("EvaluateComponent() = %T, want *ConstraintResult", c)
			}
			if leaf.Result().Status != tt.wantStatus {
				t.Errorf("Status = %v, want %v", leaf.Result().Status, tt.wantStatus)
			}
			if leaf.Result().Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", leaf.Result().Message, tt.wantMsg)
			}
			if tt.wantResult != nil && !Equal(leaf.PathResult, tt.wantResult) {
				t.Errorf("PathResult = %v, want %v", Display(leaf.PathResult), Display(tt.wantResult))
			}
			if tt.wantStatus == StatusError && leaf.PathResult != nil {
				t.Errorf("PathResult = %v, want nil", Display(leaf.PathResult))
			}
			if leaf.Definition() != tt.def {
				t.Error("Definition() does not return the evaluated node")
			}
			if got := leaf.Report(); len(got) != 1 || got[0] != tt.wantMsg {
				t.Errorf("Report() = %q", got)
			}
		})
	}
}

func TestEvaluateComponent_Groups(t *testing.T) {
	f := wallModel()
	ev := NewEvaluator(nil)

	valid := func() *ast.Component { return constraint(ast.Path{attr("Name")}, equals("Wall-001")) }
	failed := func() *ast.Component { return constraint(ast.Path{attr("Name")}, equals("Wall-999")) }
	errored := func() *ast.Component { return constraint(ast.Path{attr("Missing")}, equals("x")) }

	tests := []struct {
		name       string
		def        *ast.Component
		wantStatus Status
		wantMsg    string
		wantValid  int
	}{
		{"and all valid", group(ast.ComponentAnd, valid(), valid()), StatusValid, "and group: VALID: Each of 2 constraints are valid.", 2},
		{"and one failed", group(ast.ComponentAnd, valid(), failed(), valid()), StatusFailed, "and group: FAILED: 2 of 3 constraints are valid.", 2},
		{"and error counts as not valid", group(ast.ComponentAnd, valid(), errored()), StatusFailed, "and group: FAILED: 1 of 2 constraints are valid.", 1},
		{"and empty", group(ast.ComponentAnd), StatusValid, "and group: VALID: Each of 0 constraints are valid.", 0},
		{"or one valid", group(ast.ComponentOr, failed(), valid()), StatusValid, "or group: VALID: 1 of 2 constraints are valid.", 1},
		{"or none valid", group(ast.ComponentOr, failed(), errored()), StatusFailed, "or group: FAILED: None of 2 constraints are valid.", 0},
		{"or empty", group(ast.ComponentOr), StatusFailed, "or group: FAILED: None of 0 constraints are valid.", 0},
		{"set all valid", group(ast.ComponentSet, valid(), valid()), StatusValid, "set group: VALID: 2 of 2 constraints are valid.", 2},
		{"set partially valid", group(ast.ComponentSet, valid(), failed()), StatusFailed, "set group: FAILED: 1 of 2 constraints are valid.", 1},
		{"set empty", group(ast.ComponentSet), StatusValid, "set group: VALID: 0 of 0 constraints are valid.", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := ev.EvaluateComponent(tt.def, f.wall1)
			g, ok := c.(*GroupResult)
			if !ok {
				t.Fatalf("EvaluateComponent() = %T, want *GroupResult", c)
			}
			if g.Result().Status != tt.wantStatus {
				t.Errorf("Status = %v, want %v", g.Result().Status, tt.wantStatus)
			}
			if g.Result().Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", g.Result().Message, tt.wantMsg)
			}
			if g.ValidCount != tt.wantValid {
				t.Errorf("ValidCount = %d, want %d", g.ValidCount, tt.wantValid)
			}
			if len(g.Children) != len(tt.def.Children) {
				t.Errorf("len(Children) = %d, want %d: groups never short-circuit", len(g.Children), len(tt.def.Children))
			}
		})
	}
}

func TestEvaluateComponent_UnknownGroup(t *testing.T) {
	ev := NewEvaluator(nil)
	c := ev.EvaluateComponent(&ast.Component{Kind: "xor"}, wallModel().wall1)
	if c.Result().Status != StatusError {
		t.Errorf("Status = %v, want ERROR", c.Result().Status)
	}
}

func TestGroupResult_Report(t *testing.T) {
	f := wallModel()
	ev := NewEvaluator(nil)

	def := group(ast.ComponentAnd,
		constraint(ast.Path{attr("Name")}, equals("Wall-001")),
		group(ast.ComponentOr,
			constraint(fireRatingPath(), in("F60", "F90")),
			constraint(ast.Path{attr("IsExternal")}, equals(false)),
		),
	)

	got := ev.EvaluateComponent(def, f.wall1).Report()
	want := []string{
		"and group: VALID: Each of 2 constraints are valid.",
		"Wall-001 as expected",
		"or group: VALID: 1 of 2 constraints are valid.",
		"F90 is allowed",
		"validation equals failed - expected: false, actual: true",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Report() =\n%q\nwant\n%q", got, want)
	}
}

func TestVisit(t *testing.T) {
	ev := NewEvaluator(nil)
	def := group(ast.ComponentSet,
		constraint(nil, exists("Name")),
		group(ast.ComponentAnd, constraint(nil, exists("Name"))),
	)

	var kinds []ast.ComponentKind
	Visit(ev.EvaluateComponent(def, wallModel().wall1), func(c Component) {
		kinds = append(kinds, c.Definition().Kind)
	})

	want := []ast.ComponentKind{ast.ComponentSet, ast.ComponentConstraint, ast.ComponentAnd, ast.ComponentConstraint}
	if !reflect.DeepEqual(kinds, want) {
		t.Errorf("Visit order = %v, want %v", kinds, want)
	}
}
