package ast

import (
	"errors"
	"testing"
)

func leaf(path Path, check *Check) *Component {
	return &Component{Kind: ComponentConstraint, Path: path, Check: check}
}

func group(kind ComponentKind, children ...*Component) *Component {
	return &Component{Kind: kind, Children: children}
}

func testDocument() *Document {
	return &Document{Rules: []*Rule{
		{
			Name:    "walls",
			Enabled: true,
			Classes: []string{"IfcWall"},
			Constraints: []*Component{
				leaf(Path{{Kind: StepAttribute, Name: "Name"}}, &Check{Kind: CheckExists, Attribute: "Name"}),
				group(ComponentOr,
					leaf(Path{{Kind: StepList, Name: "IsDefinedBy"}, {Kind: StepTypeFilter, Type: "IfcPropertySet"}},
						&Check{Kind: CheckNot, Inner: &Check{Kind: CheckEquals, Value: "x"}}),
					group(ComponentSet,
						leaf(nil, &Check{Kind: CheckType, Type: "IfcWall"}),
					),
				),
			},
		},
		{Enabled: false, Classes: []string{"IfcDoor"}},
	}}
}

func TestCollect(t *testing.T) {
	got := Collect(testDocument())
	want := Stats{Rules: 2, Components: 5, Constraints: 3, Groups: 2, PathSteps: 3, Checks: 4, MaxDepth: 3}
	if got != want {
		t.Errorf("Collect() = %+v, want %+v", got, want)
	}
}

type stopVisitor struct {
	checks int
}

var errStop = errors.New("stop")

func (v *stopVisitor) VisitRule(*Rule) error           { return nil }
func (v *stopVisitor) VisitComponent(*Component) error { return nil }
func (v *stopVisitor) VisitPathStep(*PathStep) error   { return nil }
func (v *stopVisitor) VisitCheck(*Check) error {
	v.checks++
	return errStop
}

func TestWalk_StopsOnError(t *testing.T) {
	v := &stopVisitor{}
	if err := Walk(testDocument(), v); !errors.Is(err, errStop) {
		t.Fatalf("Walk() error = %v, want errStop", err)
	}
	if v.checks != 1 {
		t.Errorf("checks visited = %d, want 1", v.checks)
	}
}

func TestComponent(t *testing.T) {
	c := testDocument().Rules[0].Constraints[1]
	if c.IsLeaf() || !c.IsGroup() {
		t.Error("or group reported as leaf")
	}
	if c.Count() != 4 {
		t.Errorf("Count() = %d, want 4", c.Count())
	}
	if c.Depth() != 3 {
		t.Errorf("Depth() = %d, want 3", c.Depth())
	}
}

func TestCheck_Depth(t *testing.T) {
	chk := &Check{Kind: CheckNot, Inner: &Check{Kind: CheckNot, Inner: &Check{Kind: CheckIn}}}
	if chk.Depth() != 3 {
		t.Errorf("Depth() = %d, want 3", chk.Depth())
	}
	if (&Check{Kind: CheckNot}).Depth() != 1 {
		t.Error("not without inner check should have depth 1")
	}
}

func TestPathStep_String(t *testing.T) {
	tests := []struct {
		step *PathStep
		want string
	}{
		{&PathStep{Kind: StepAttribute, Name: "Name"}, "{attribute: Name}"},
		{&PathStep{Kind: StepAttributeFilter, Name: "Name", Value: "FireRating"}, "{attribute: Name, value: FireRating}"},
		{&PathStep{Kind: StepTypeFilter, Type: "IfcPropertySet"}, "{type: IfcPropertySet}"},
		{&PathStep{Kind: StepList, Name: "HasProperties"}, "{list: HasProperties}"},
		{&PathStep{Kind: "slice"}, "{slice}"},
	}
	for _, tt := range tests {
		if got := tt.step.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
	if !(Path(nil)).IsEmpty() {
		t.Error("nil path is not empty")
	}
}

func TestRule(t *testing.T) {
	doc := testDocument()
	if got := doc.Rules[0].DisplayName(0); got != "walls" {
		t.Errorf("DisplayName() = %q", got)
	}
	if got := doc.Rules[1].DisplayName(1); got != "rule 2" {
		t.Errorf("DisplayName() = %q, want rule 2", got)
	}
	if enabled := doc.EnabledRules(); len(enabled) != 1 || enabled[0].Name != "walls" {
		t.Errorf("EnabledRules() = %+v", enabled)
	}
}

func TestLocation(t *testing.T) {
	tests := []struct {
		loc   Location
		want  string
		valid bool
	}{
		{Location{File: "rules.yaml", Line: 3, Column: 7}, "rules.yaml:3:7", true},
		{Location{Line: 2, Column: 1}, "<input>:2:1", true},
		{Location{}, "<unknown>", false},
	}
	for _, tt := range tests {
		if got := tt.loc.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
		if tt.loc.IsValid() != tt.valid {
			t.Errorf("IsValid() = %v, want %v", tt.loc.IsValid(), tt.valid)
		}
	}
}
