package engine

import (
	"errors"
	"testing"

	"mercator-hq/ifccheck/pkg/model"
	"mercator-hq/ifccheck/pkg/rdl/ast"
)

func TestResolvePath(t *testing.T) {
	f := wallModel()

	tests := []struct {
		name    string
		path    ast.Path
		want    any
		wantErr error
		wantMsg string
	}{
		{
			name: "empty path selects the entity",
			path: nil,
			want: model.Entity(f.wall1),
		},
		{
			name: "single attribute",
			path: ast.Path{attr("Name")},
			want: "Wall-001",
		},
		{
			name: "property set navigation",
			path: fireRatingPath(),
			want: "F90",
		},
		{
			name: "type filter keeps matching entities",
			path: ast.Path{list("IsDefinedBy"), attr("RelatingPropertyDefinition"), typeFilter("IfcPropertySet")},
			want: model.Entity(f.pset1),
		},
		{
			name: "boolean attribute value",
			path: ast.Path{list("IsDefinedBy"), attr("RelatingPropertyDefinition"), list("HasProperties"), attrFilter("Name", "LoadBearing"), attr("NominalValue")},
			want: true,
		},
		{
			name:    "missing attribute",
			path:    ast.Path{attr("Description")},
			wantMsg: "attribute Description does not exist in #1=IfcWall",
		},
		{
			name:    "missing list",
			path:    ast.Path{list("HasOpenings")},
			wantMsg: "list HasOpenings does not exist in #1=IfcWall",
		},
		{
			name:    "attribute of a scalar",
			path:    ast.Path{attr("Name"), attr("Length")},
			wantMsg: "attribute Length does not exist in Wall-001",
		},
		{
			name:    "list step on a scalar attribute",
			path:    ast.Path{list("Name")},
			wantMsg: "attribute Name of #1=IfcWall is not a list",
		},
		{
			name:    "filter matches nothing",
			path:    ast.Path{list("IsDefinedBy"), attr("RelatingPropertyDefinition"), list("HasProperties"), attrFilter("Name", "AcousticRating")},
			wantErr: ErrPathDeadEnd,
		},
		{
			name:    "type filter matches nothing",
			path:    ast.Path{typeFilter("IfcDoor")},
			wantErr: ErrPathDeadEnd,
		},
		{
			name:    "more than one result",
			path:    ast.Path{list("IsDefinedBy"), attr("RelatingPropertyDefinition"), list("HasProperties")},
			wantErr: ErrMultiplePathResults,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolvePath(tt.path, f.wall1)

			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ResolvePath() error = %v, want %v", err, tt.wantErr)
				}
				var pathErr *PathError
				if !errors.As(err, &pathErr) {
					t.Errorf("ResolvePath() error type = %T, want *PathError", err)
				}
			case tt.wantMsg != "":
				if err == nil {
					t.Fatalf("ResolvePath() = %v, want error %q", got, tt.wantMsg)
				}
				if err.Error() != tt.wantMsg {
					t.Errorf("ResolvePath() error = %q, want %q", err.Error(), tt.wantMsg)
				}
			default:
				if err != nil {
					t.Fatalf("ResolvePath() unexpected error: %v", err)
				}
				if !Equal(got, tt.want) {
					t.Errorf("ResolvePath() = %v, want %v", Display(got), Display(tt.want))
				}
			}
		})
	}
}

func TestResolvePath_StepIndex(t *testing.T) {
	f := wallModel()
	path := ast.Path{list("IsDefinedBy"), attr("RelatingPropertyDefinition"), attr("Missing")}

	_, err := ResolvePath(path, f.wall1)

	var pathErr *PathError
	if !errors.As(err, &pathErr) {
		t.Fatalf("error type = %T, want *PathError", err)
	}
	if pathErr.Step != 2 {
		t.Errorf("Step = %d, want 2", pathErr.Step)
	}
	var missing *AttributeMissingError
	if !errors.As(err, &missing) {
		t.Fatalf("cause type = %T, want *AttributeMissingError", pathErr.Cause)
	}
	if missing.Attribute != "Missing" || missing.Value != "#3=IfcPropertySet" {
		t.Errorf("AttributeMissingError = %+v", missing)
	}
}

func TestApplyStep(t *testing.T) {
	f := wallModel()

	t.Run("empty selection", func(t *testing.T) {
		_, err := ApplyStep(attr("Name"), nil)
		if !errors.Is(err, ErrEmptyPosition) {
			t.Errorf("error = %v, want ErrEmptyPosition", err)
		}
	})

	t.Run("unknown step", func(t *testing.T) {
		_, err := ApplyStep(&ast.PathStep{Kind: "sibling"}, []any{f.wall1})
		if !errors.Is(err, ErrUnknownStep) {
			t.Errorf("error = %v, want ErrUnknownStep", err)
		}
	})

	t.Run("attribute keeps duplicates and order", func(t *testing.T) {
		got, err := ApplyStep(attr("Name"), []any{f.wall2, f.wall1, f.wall2})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []any{"Wall-002", "Wall-001", "Wall-002"}
		if !Equal(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("attribute fails when one value lacks it", func(t *testing.T) {
		_, err := ApplyStep(attr("GlobalId"), []any{f.wall1, f.wall2})
		var missing *AttributeMissingError
		if !errors.As(err, &missing) {
			t.Fatalf("error = %v, want *AttributeMissingError", err)
		}
		if missing.Value != "#6=IfcWall" {
			t.Errorf("Value = %q, want %q", missing.Value, "#6=IfcWall")
		}
	})

	t.Run("attribute filter drops values without the attribute", func(t *testing.T) {
		got, err := ApplyStep(attrFilter("GlobalId", "2O2Fr$t4X7Zf8NOew3FLOH"), []any{f.wall1, f.wall2, "scalar"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 1 || got[0] != any(f.wall1) {
			t.Errorf("got %v, want [#1=IfcWall]", got)
		}
	})

	t.Run("attribute filter is type sensitive", func(t *testing.T) {
		got, err := ApplyStep(attrFilter("IsExternal", "true"), []any{f.wall1})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("got %v, want empty selection", got)
		}
	})

	t.Run("list concatenates in order", func(t *testing.T) {
		rels, err := ApplyStep(list("IsDefinedBy"), []any{f.wall1, f.wall2})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(rels) != 2 {
			t.Fatalf("len = %d, want 2", len(rels))
		}
		if Display(rels[0]) != "#2=IfcRelDefinesByProperties" || Display(rels[1]) != "#7=IfcRelDefinesByProperties" {
			t.Errorf("got %v", Display(rels))
		}
	})

	t.Run("null list contributes nothing", func(t *testing.T) {
		e := model.NewEntity("50", "IfcWall").Set("IsDefinedBy", nil)
		got, err := ApplyStep(list("IsDefinedBy"), []any{e})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("got %v, want empty selection", got)
		}
	})
}
