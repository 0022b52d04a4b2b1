// Package ast defines the syntax tree of the rule definition language (RDL).
//
// A rule document is a list of rules. Each rule names the entity classes it
// applies to and a list of constraint components. Components are either leaf
// constraints (a path plus a check) or groups (and, or, set) over further
// components. Every node is a tagged variant: its Kind field is fixed by the
// decoder from the set of keys the node was written with, so evaluation never
// inspects raw key names again.
//
// # Core Types
//
// Document: Root node holding the rules of one or more files
//
// Rule: Target classes and the constraints every instance must satisfy
//
// Component: Leaf constraint or and/or/set group
//
// PathStep: One navigation step (attribute, attribute filter, type filter, list)
//
// Check: Predicate on the single value a path resolves to (equals, exists, in, not, type)
//
// Location: Source location (file, line, column)
//
// # Basic Usage
//
//	doc, err := parser.ParseFile("rules.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, rule := range doc.Rules {
//	    fmt.Println(rule.Classes, len(rule.Constraints))
//	}
package ast
