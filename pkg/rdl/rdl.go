// Package rdl is the entry point to the rule definition language: it parses
// rule files and runs the structural and semantic validators over them.
//
//	doc, err := rdl.ParseAndValidate("rules.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
package rdl

import (
	"mercator-hq/ifccheck/pkg/rdl/ast"
	"mercator-hq/ifccheck/pkg/rdl/parser"
	"mercator-hq/ifccheck/pkg/rdl/validator"
)

// Parse decodes a rule file.
func Parse(path string) (*ast.Document, error) {
	return parser.NewParser().Parse(path)
}

// ParseBytes decodes a rule document held in memory.
func ParseBytes(data []byte, sourcePath string) (*ast.Document, error) {
	return parser.NewParser().ParseBytes(data, sourcePath)
}

// ParseMulti decodes several rule files into one document.
func ParseMulti(paths []string) (*ast.Document, error) {
	return parser.NewParser().ParseMulti(paths)
}

// Validate runs the structural and semantic validators.
func Validate(doc *ast.Document) error {
	return validator.NewValidator().Validate(doc)
}

// ParseAndValidate decodes and validates the rule files at paths.
func ParseAndValidate(paths ...string) (*ast.Document, error) {
	doc, err := ParseMulti(paths)
	if err != nil {
		return nil, err
	}
	if err := Validate(doc); err != nil {
		return nil, err
	}
	return doc, nil
}
