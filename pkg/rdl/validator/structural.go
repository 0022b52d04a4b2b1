package validator

import (
	"fmt"

	"mercator-hq/ifccheck/pkg/rdl/ast"
	rdlErrors "mercator-hq/ifccheck/pkg/rdl/errors"
)

// StructuralValidator checks the invariants a decoded document must satisfy
// before it can be evaluated.
type StructuralValidator struct{}

// NewStructuralValidator creates a structural validator.
func NewStructuralValidator() *StructuralValidator {
	return &StructuralValidator{}
}

// Validate returns the structural errors of doc or nil.
func (v *StructuralValidator) Validate(doc *ast.Document) error {
	return v.Check(doc).ToError()
}

// Check returns the structural errors of doc.
func (v *StructuralValidator) Check(doc *ast.Document) *rdlErrors.ErrorList {
	errs := rdlErrors.NewErrorList()

	if doc == nil || len(doc.Rules) == 0 {
		var loc ast.Location
		if doc != nil {
			loc.File = doc.SourceFile
		}
		errs.AddErrorWithSuggestion(rdlErrors.ErrorTypeStructural, "document contains no rules", loc,
			rdlErrors.SuggestMissingField("rules", "[{rule: {classes: [...], constraints: [...]}}]"))
		return errs
	}

	for i, rule := range doc.Rules {
		name := rule.DisplayName(i)
		if len(rule.Classes) == 0 {
			errs.AddError(rdlErrors.ErrorTypeStructural,
				fmt.Sprintf("%s: no classes selected", name), rule.Location)
		}
		if len(rule.Constraints) == 0 {
			errs.AddErrorWithSuggestion(rdlErrors.ErrorTypeStructural,
				fmt.Sprintf("%s: no constraints defined", name), rule.Location,
				"Add at least one constraint or disable the rule with 'enabled: false'")
		}
		for _, c := range rule.Constraints {
			v.checkComponent(c, name, errs)
		}
	}

	return errs
}

func (v *StructuralValidator) checkComponent(c *ast.Component, rule string, errs *rdlErrors.ErrorList) {
	switch {
	case c.IsLeaf():
		if c.Check == nil {
			errs.AddError(rdlErrors.ErrorTypeStructural,
				fmt.Sprintf("%s: constraint without check", rule), c.Location)
		}
		for chk := c.Check; chk != nil && chk.Kind == ast.CheckNot; chk = chk.Inner {
			if chk.Inner == nil {
				errs.AddError(rdlErrors.ErrorTypeStructural,
					fmt.Sprintf("%s: not check without inner check", rule), chk.Location)
			}
		}
	case c.IsGroup():
		for _, child := range c.Children {
			v.checkComponent(child, rule, errs)
		}
	default:
		errs.AddError(rdlErrors.ErrorTypeStructural,
			fmt.Sprintf("%s: unknown component kind %q", rule, c.Kind), c.Location)
	}
}
