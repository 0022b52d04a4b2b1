package validator

import (
	"mercator-hq/ifccheck/pkg/rdl/ast"
	rdlErrors "mercator-hq/ifccheck/pkg/rdl/errors"
)

// Validator runs the structural and semantic passes over a decoded document.
// Semantic findings are warnings unless strict mode is enabled.
type Validator struct {
	structural *StructuralValidator
	semantic   *SemanticValidator
	strict     bool
}

// NewValidator creates a validator with both passes.
func NewValidator() *Validator {
	return &Validator{
		structural: NewStructuralValidator(),
		semantic:   NewSemanticValidator(),
	}
}

// WithStrictMode makes semantic findings fail validation.
func (v *Validator) WithStrictMode(strict bool) *Validator {
	v.strict = strict
	return v
}

// Validate returns the structural errors of doc, plus the semantic findings in
// strict mode.
func (v *Validator) Validate(doc *ast.Document) error {
	errors := rdlErrors.NewErrorList()
	errors.Merge(v.structural.Check(doc))

	// Semantic findings on a structurally broken document only add noise.
	if v.strict && !errors.HasErrors() {
		errors.Merge(v.semantic.Check(doc))
	}

	return errors.ToError()
}

// Warnings returns the semantic findings of doc regardless of strict mode.
func (v *Validator) Warnings(doc *ast.Document) []*rdlErrors.Error {
	return v.semantic.Check(doc).Errors
}
