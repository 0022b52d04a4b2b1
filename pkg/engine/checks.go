package engine

import (
	"fmt"

	"mercator-hq/ifccheck/pkg/model"
	"mercator-hq/ifccheck/pkg/rdl/ast"
)

// EvaluateCheck judges value against chk. Checks never return an error; a
// check that cannot be applied yields an ERROR result.
func (ev *Evaluator) EvaluateCheck(chk *ast.Check, value any) Result {
	switch chk.Kind {
	case ast.CheckEquals:
		return checkEquals(chk.Value, value)
	case ast.CheckExists:
		return checkExists(chk.Attribute, value)
	case ast.CheckIn:
		return checkIn(chk.Values, value)
	case ast.CheckNot:
		return ev.checkNot(chk.Inner, value)
	case ast.CheckType:
		return checkType(chk.Type, value)
	default:
		return Errored(fmt.Sprintf("unknown check %q", chk.Kind))
	}
}

func checkEquals(expected, actual any) Result {
	if Equal(expected, actual) {
		return Valid(fmt.Sprintf("%s as expected", Display(expected)))
	}
	want, got := Display(expected), Display(actual)
	if want == got {
		// Values that differ only by type would otherwise read the same.
		want = fmt.Sprintf("%s (%T)", want, expected)
		got = fmt.Sprintf("%s (%T)", got, actual)
	}
	return Failed(fmt.Sprintf("validation equals failed - expected: %s, actual: %s", want, got))
}

func checkExists(attribute string, value any) Result {
	if h, ok := value.(model.AttributeHolder); ok && h.HasAttribute(attribute) {
		return Valid(fmt.Sprintf("attribute %s exists as expected.", attribute))
	}
	return Failed(fmt.Sprintf("attribute %s not exists in %s.", attribute, Display(value)))
}

func checkIn(allowed []any, value any) Result {
	if Contains(allowed, value) {
		return Valid(fmt.Sprintf("%s is allowed", Display(value)))
	}
	return Failed(fmt.Sprintf("validation in error - allowed: %s, actual: %s",
		Display(allowed), Display(value)))
}

// checkNot inverts the inner check. An inner ERROR counts as not valid and
// turns into VALID unless the evaluator propagates errors through not.
func (ev *Evaluator) checkNot(inner *ast.Check, value any) Result {
	r := ev.EvaluateCheck(inner, value)
	switch {
	case r.Status == StatusValid:
		return Failed("check was VALID, but expected FAILED, message: " + r.Message)
	case r.Status == StatusError && ev.config.NotPropagatesError:
		return r
	default:
		return Valid("check FAILED as expected, message: " + r.Message)
	}
}

func checkType(expected string, value any) Result {
	t, ok := value.(model.Typed)
	if !ok {
		return Errored(fmt.Sprintf("path result %s is not a typed model entity", Display(value)))
	}
	if t.TypeTag() == expected {
		return Valid(fmt.Sprintf("type of %s as expected %s.", Display(value), expected))
	}
	return Failed(fmt.Sprintf("%s is not of type %s, it is of type %s.", Display(value), expected, t.TypeTag()))
}
