package errors

import (
	"strings"
	"testing"

	"mercator-hq/ifccheck/pkg/rdl/ast"
)

func TestError_Error(t *testing.T) {
	e := &Error{
		Type:       ErrorTypeStructural,
		Message:    "unrecognized check with keys [equal]",
		Location:   ast.Location{File: "rules.yaml", Line: 5, Column: 18},
		Suggestion: "Did you mean {equals}?",
	}

	want := "[structural] unrecognized check with keys [equal]\n" +
		"  --> rules.yaml:5:18\n" +
		"  = suggestion: Did you mean {equals}?\n"
	if got := e.Error(); got != want {
		t.Errorf("Error() =\n%s\nwant\n%s", got, want)
	}
}

func TestErrorList(t *testing.T) {
	list := NewErrorList()
	if list.ToError() != nil {
		t.Error("empty list ToError() != nil")
	}
	if list.Error() != "" {
		t.Errorf("empty list Error() = %q", list.Error())
	}

	list.AddError(ErrorTypeStructural, "first", ast.Location{})
	other := NewErrorList()
	other.AddErrorWithSuggestion(ErrorTypeSemantic, "second", ast.Location{}, "fix it")
	list.Merge(other)
	list.Merge(nil)

	if list.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", list.Count())
	}
	if !list.HasErrorType(ErrorTypeSemantic) || list.HasErrorType(ErrorTypeIO) {
		t.Error("HasErrorType() mismatch")
	}
	if got := list.ByType(ErrorTypeStructural); len(got) != 1 || got[0].Message != "first" {
		t.Errorf("ByType() = %v", got)
	}
	if !strings.HasPrefix(list.Error(), "Found 2 error(s):") {
		t.Errorf("Error() = %q", list.Error())
	}
}

func TestExtractContext(t *testing.T) {
	src := []byte("rules:\n  - rule:\n      classes: [IfcWall]\n      constraints: []\n")

	got := ExtractContext(src, ast.Location{Line: 3, Column: 7}, 1)
	want := "  2 |   - rule:\n" +
		"> 3 |       classes: [IfcWall]\n" +
		"            ^\n" +
		"  4 |       constraints: []\n"
	if got != want {
		t.Errorf("ExtractContext() =\n%q\nwant\n%q", got, want)
	}

	if ExtractContext(src, ast.Location{}, 2) != "" {
		t.Error("context for an invalid location")
	}
	if ExtractContext(src, ast.Location{Line: 40}, 2) != "" {
		t.Error("context for a line past the end")
	}
}

func TestSuggestKeySet(t *testing.T) {
	valid := [][]string{{"equals"}, {"exists"}, {"in"}, {"not"}, {"type"}}

	if got := SuggestKeySet([]string{"equal"}, valid); got != "Did you mean {equals}?" {
		t.Errorf("close match = %q", got)
	}
	got := SuggestKeySet([]string{"completely", "different"}, valid)
	if got != "Valid forms: {equals}, {exists}, {in}, {not}, {type}" {
		t.Errorf("no match = %q", got)
	}
	if SuggestKeySet([]string{"x"}, nil) != "" {
		t.Error("suggestion without candidates")
	}
}

func TestSuggestFieldName(t *testing.T) {
	fields := []string{"name", "description", "enabled", "classes", "constraints"}

	if got := SuggestFieldName("clases", fields); got != "Did you mean 'classes'?" {
		t.Errorf("SuggestFieldName(clases) = %q", got)
	}
	if got := SuggestFieldName("zzzzzzzzzzzz", fields); !strings.HasPrefix(got, "Valid fields: ") {
		t.Errorf("SuggestFieldName(zzz) = %q", got)
	}
	if got := SuggestMissingField("classes", "[IfcWall]"); got != "Add 'classes: [IfcWall]' to the definition" {
		t.Errorf("SuggestMissingField() = %q", got)
	}
	if got := SuggestMissingField("classes", ""); got != "Add 'classes' to the definition" {
		t.Errorf("SuggestMissingField() = %q", got)
	}
}
