package validator

import (
	"fmt"

	"mercator-hq/ifccheck/pkg/rdl/ast"
	rdlErrors "mercator-hq/ifccheck/pkg/rdl/errors"
)

// SemanticValidator reports definitions that decode fine but are almost
// certainly not what the author meant.
type SemanticValidator struct{}

// NewSemanticValidator creates a semantic validator.
func NewSemanticValidator() *SemanticValidator {
	return &SemanticValidator{}
}

// Validate returns the semantic findings of doc or nil.
func (v *SemanticValidator) Validate(doc *ast.Document) error {
	return v.Check(doc).ToError()
}

// Check returns the semantic findings of doc.
func (v *SemanticValidator) Check(doc *ast.Document) *rdlErrors.ErrorList {
	errs := rdlErrors.NewErrorList()
	if doc == nil {
		return errs
	}

	names := make(map[string]ast.Location)
	for i, rule := range doc.Rules {
		if rule.Name != "" {
			if first, dup := names[rule.Name]; dup {
				errs.AddError(rdlErrors.ErrorTypeSemantic,
					fmt.Sprintf("rule name %q already used at %s", rule.Name, first), rule.Location)
			} else {
				names[rule.Name] = rule.Location
			}
		}

		display := rule.DisplayName(i)
		seen := make(map[string]bool, len(rule.Classes))
		for _, class := range rule.Classes {
			if seen[class] {
				errs.AddErrorWithSuggestion(rdlErrors.ErrorTypeSemantic,
					fmt.Sprintf("%s: class %q listed more than once, its instances are validated twice", display, class),
					rule.Location, fmt.Sprintf("Remove the duplicate %q", class))
			}
			seen[class] = true
		}

		for _, c := range rule.Constraints {
			v.checkComponent(c, display, errs)
		}
	}
	return errs
}

func (v *SemanticValidator) checkComponent(c *ast.Component, rule string, errs *rdlErrors.ErrorList) {
	if c.IsGroup() {
		switch len(c.Children) {
		case 0:
			errs.AddError(rdlErrors.ErrorTypeSemantic,
				fmt.Sprintf("%s: empty %s group is always %s", rule, c.Kind, emptyOutcome(c.Kind)), c.Location)
		case 1:
			errs.AddErrorWithSuggestion(rdlErrors.ErrorTypeSemantic,
				fmt.Sprintf("%s: %s group with a single constraint", rule, c.Kind), c.Location,
				"Use the constraint directly")
		}
		for _, child := range c.Children {
			v.checkComponent(child, rule, errs)
		}
		return
	}

	if c.Check != nil && c.Check.Kind == ast.CheckNot && c.Check.Inner != nil && c.Check.Inner.Kind == ast.CheckNot {
		errs.AddErrorWithSuggestion(rdlErrors.ErrorTypeSemantic,
			fmt.Sprintf("%s: double negation", rule), c.Check.Location,
			"A negated not check is not equivalent to the inner check for ERROR results")
	}
}

func emptyOutcome(kind ast.ComponentKind) string {
	if kind == ast.ComponentOr {
		return "FAILED"
	}
	return "VALID"
}
