package engine

import (
	"testing"

	"mercator-hq/ifccheck/pkg/model"
)

func TestEqual(t *testing.T) {
	a := model.NewEntity("1", "IfcWall").Set("Name", "A")
	b := model.NewEntity("2", "IfcWall").Set("Name", "A")

	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"same string", "F90", "F90", true},
		{"different string", "F90", "F30", false},
		{"int and string", 1, "1", false},
		{"int and float", 1, 1.0, false},
		{"same float", 2.5, 2.5, true},
		{"bool", true, true, true},
		{"nil", nil, nil, true},
		{"nil and string", nil, "", false},
		{"same entity", a, a, true},
		{"equal looking entities", a, b, false},
		{"entity and string", a, "#1=IfcWall", false},
		{"lists", []any{"a", 1}, []any{"a", 1}, true},
		{"list order", []any{"a", 1}, []any{1, "a"}, false},
		{"list length", []any{"a"}, []any{"a", "a"}, false},
		{"lists of entities", []any{model.Entity(a)}, []any{model.Entity(a)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestContains(t *testing.T) {
	values := []any{"F30", 60, true}
	if !Contains(values, 60) {
		t.Error("Contains(60) = false, want true")
	}
	if Contains(values, "60") {
		t.Error(`Contains("60") = true, want false`)
	}
	if Contains(nil, "F30") {
		t.Error("Contains on nil = true, want false")
	}
}

func TestDisplay(t *testing.T) {
	wall := model.NewEntity("12", "IfcWall")

	tests := []struct {
		value any
		want  string
	}{
		{nil, "null"},
		{"text", "text"},
		{42, "42"},
		{1.5, "1.5"},
		{false, "false"},
		{wall, "#12=IfcWall"},
		{model.NewEntity("", "IfcWall"), "IfcWall"},
		{[]any{"a", 1, wall}, "[a, 1, #12=IfcWall]"},
		{[]any{}, "[]"},
	}

	for _, tt := range tests {
		if got := Display(tt.value); got != tt.want {
			t.Errorf("Display(%#v) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestStatus(t *testing.T) {
	var zero Status
	if zero != StatusNotEvaluated {
		t.Errorf("zero Status = %v, want NOT_EVALUATED", zero)
	}

	for _, s := range []Status{StatusNotEvaluated, StatusError, StatusFailed, StatusValid} {
		parsed, err := ParseStatus(s.String())
		if err != nil {
			t.Fatalf("ParseStatus(%q) error: %v", s.String(), err)
		}
		if parsed != s {
			t.Errorf("ParseStatus(%q) = %v, want %v", s.String(), parsed, s)
		}
	}

	if s, err := ParseStatus("valid"); err != nil || s != StatusValid {
		t.Errorf("ParseStatus(valid) = %v, %v", s, err)
	}
	if _, err := ParseStatus("PASSED"); err == nil {
		t.Error("ParseStatus(PASSED) expected error")
	}
	if got := Status(9).String(); got != "Status(9)" {
		t.Errorf("Status(9).String() = %q", got)
	}
}

func TestResult(t *testing.T) {
	if !Valid("ok").IsValid() {
		t.Error("Valid().IsValid() = false")
	}
	for _, r := range []Result{Failed("x"), Errored("x"), {}} {
		if r.IsValid() {
			t.Errorf("%v.IsValid() = true", r.Status)
		}
	}
	if (Result{}).IsEvaluated() {
		t.Error("zero Result is evaluated")
	}
	if !Errored("x").IsEvaluated() {
		t.Error("ERROR result is not evaluated")
	}
}
