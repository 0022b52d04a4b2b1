package ast

import "strconv"

// Rule binds a list of constraints to the entity classes it applies to.
// Each instance of the listed classes must satisfy every top-level constraint.
type Rule struct {
	Name        string       // Optional rule name
	Description string       // Optional human-readable description
	Enabled     bool         // Disabled rules are skipped by the engine
	Classes     []string     // Entity type tags, evaluated in this order
	Constraints []*Component // Top-level constraints (implicit and)
	Location    Location
}

// DisplayName returns the rule name, or "rule <n>" for unnamed rules.
func (r *Rule) DisplayName(index int) string {
	if r.Name != "" {
		return r.Name
	}
	return "rule " + strconv.Itoa(index+1)
}

// Document is the root node of one or more parsed rule files.
type Document struct {
	Rules      []*Rule
	SourceFile string // Primary source file, empty when parsed from bytes
}

// EnabledRules returns the rules that are not disabled, in declared order.
func (d *Document) EnabledRules() []*Rule {
	rules := make([]*Rule, 0, len(d.Rules))
	for _, r := range d.Rules {
		if r.Enabled {
			rules = append(rules, r)
		}
	}
	return rules
}
