package parser

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"mercator-hq/ifccheck/pkg/rdl/ast"
	rdlErrors "mercator-hq/ifccheck/pkg/rdl/errors"
)

// decoder turns a YAML node tree into an ast.Document, resolving every
// definition to a registered variant. Errors accumulate in errs.
type decoder struct {
	registry     *Registry
	file         string
	errs         *rdlErrors.ErrorList
	maxDepth     int
	maxPathSteps int
}

func (d *decoder) location(n *yaml.Node) ast.Location {
	if n == nil {
		return ast.Location{File: d.file}
	}
	return ast.Location{File: d.file, Line: n.Line, Column: n.Column}
}

func (d *decoder) errorf(n *yaml.Node, suggestion string, format string, args ...any) {
	d.errs.AddErrorWithSuggestion(rdlErrors.ErrorTypeStructural, fmt.Sprintf(format, args...), d.location(n), suggestion)
}

func (d *decoder) decodeValue(n *yaml.Node) any {
	var v any
	if err := n.Decode(&v); err != nil {
		d.errorf(n, "", "invalid value: %v", err)
		return nil
	}
	return v
}

// fields indexes the keys of a mapping node. Non-mapping nodes, empty
// mappings and duplicate keys are recorded as errors.
func (d *decoder) fields(n *yaml.Node, depth int, family Family) (*Fields, []string, bool) {
	n = resolveAlias(n)
	if n.Kind != yaml.MappingNode {
		d.errorf(n, "", "%s definition must be a mapping, got %s", family, nodeKind(n))
		return nil, nil, false
	}
	if len(n.Content) == 0 {
		d.errorf(n, "", "%s definition is empty", family)
		return nil, nil, false
	}
	if d.maxDepth > 0 && depth > d.maxDepth {
		d.errorf(n, "Flatten nested groups", "%s definition nested deeper than %d levels", family, d.maxDepth)
		return nil, nil, false
	}

	f := &Fields{d: d, node: n, byKey: make(map[string]*yaml.Node, len(n.Content)/2), depth: depth}
	keys := make([]string, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k := n.Content[i].Value
		if _, dup := f.byKey[k]; dup {
			d.errorf(n.Content[i], "", "duplicate key %q in %s definition", k, family)
			return nil, nil, false
		}
		f.byKey[k] = n.Content[i+1]
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return f, keys, true
}

func (d *decoder) unrecognized(n *yaml.Node, family Family, keys []string, valid [][]string) {
	d.errs.AddErrorWithSuggestion(
		rdlErrors.ErrorTypeStructural,
		fmt.Sprintf("unrecognized %s with keys %v", family, keys),
		d.location(n),
		rdlErrors.SuggestKeySet(keys, valid),
	)
}

func (d *decoder) decodeStep(n *yaml.Node) *ast.PathStep {
	f, keys, ok := d.fields(n, 0, FamilyPathStep)
	if !ok {
		return nil
	}
	e, ok := d.registry.steps.match(keys)
	if !ok {
		d.unrecognized(n, FamilyPathStep, keys, d.registry.steps.keySets())
		return nil
	}
	return e.build(f)
}

func (d *decoder) decodeCheck(n *yaml.Node, depth int) *ast.Check {
	f, keys, ok := d.fields(n, depth, FamilyCheck)
	if !ok {
		return nil
	}
	e, ok := d.registry.checks.match(keys)
	if !ok {
		d.unrecognized(n, FamilyCheck, keys, d.registry.checks.keySets())
		return nil
	}
	return e.build(f)
}

func (d *decoder) decodeComponent(n *yaml.Node, depth int) *ast.Component {
	f, keys, ok := d.fields(n, depth, FamilyComponent)
	if !ok {
		return nil
	}
	e, ok := d.registry.components.match(keys)
	if !ok {
		d.unrecognized(n, FamilyComponent, keys, d.registry.components.keySets())
		return nil
	}
	return e.build(f)
}

// decodeDocument decodes the root mapping:
//
//	rules:
//	  - rule:
//	      classes: [...]
//	      constraints: [...]
func (d *decoder) decodeDocument(root *yaml.Node) *ast.Document {
	doc := &ast.Document{SourceFile: d.file, Rules: make([]*ast.Rule, 0)}

	n := root
	if n.Kind == yaml.DocumentNode {
		if len(n.Content) == 0 {
			d.errorf(n, rdlErrors.SuggestMissingField("rules", "[...]"), "rule document is empty")
			return doc
		}
		n = n.Content[0]
	}
	if n.Kind != yaml.MappingNode {
		d.errorf(n, "", "rule document must be a mapping, got %s", nodeKind(n))
		return doc
	}

	var rulesNode *yaml.Node
	for i := 0; i+1 < len(n.Content); i += 2 {
		switch k := n.Content[i].Value; k {
		case "rules":
			rulesNode = n.Content[i+1]
		default:
			d.errs.AddErrorWithSuggestion(rdlErrors.ErrorTypeStructural,
				fmt.Sprintf("unknown top-level key %q", k), d.location(n.Content[i]),
				rdlErrors.SuggestFieldName(k, []string{"rules"}))
		}
	}
	if rulesNode == nil {
		d.errorf(n, rdlErrors.SuggestMissingField("rules", "[...]"), "required key %q is missing", "rules")
		return doc
	}
	if rulesNode.Kind != yaml.SequenceNode {
		d.errorf(rulesNode, "", "%q must be a list of rules", "rules")
		return doc
	}

	for _, item := range rulesNode.Content {
		if rule := d.decodeRuleItem(item); rule != nil {
			doc.Rules = append(doc.Rules, rule)
		}
	}
	return doc
}

var ruleFields = []string{"name", "description", "enabled", "classes", "constraints"}

func (d *decoder) decodeRuleItem(item *yaml.Node) *ast.Rule {
	if item.Kind != yaml.MappingNode || len(item.Content) != 2 || item.Content[0].Value != "rule" {
		d.errorf(item, "Write each entry as '- rule: {classes: [...], constraints: [...]}'",
			"rules entry must be a mapping with the single key %q", "rule")
		return nil
	}
	n := item.Content[1]
	if n.Kind != yaml.MappingNode {
		d.errorf(n, "", "rule must be a mapping, got %s", nodeKind(n))
		return nil
	}

	rule := &ast.Rule{Enabled: true, Location: d.location(item)}
	seen := make(map[string]bool, len(n.Content)/2)

	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i], n.Content[i+1]
		if seen[key.Value] {
			d.errorf(key, "", "duplicate key %q in rule", key.Value)
			continue
		}
		seen[key.Value] = true

		switch key.Value {
		case "name":
			rule.Name = d.scalarString(value, "name")
		case "description":
			rule.Description = d.scalarString(value, "description")
		case "enabled":
			if err := value.Decode(&rule.Enabled); err != nil {
				d.errorf(value, "Use true or false", "%q must be a boolean", "enabled")
			}
		case "classes":
			rule.Classes = d.decodeClasses(value)
		case "constraints":
			rule.Constraints = d.decodeConstraints(value)
		default:
			d.errs.AddErrorWithSuggestion(rdlErrors.ErrorTypeStructural,
				fmt.Sprintf("unknown rule key %q", key.Value), d.location(key),
				rdlErrors.SuggestFieldName(key.Value, ruleFields))
		}
	}

	if !seen["classes"] {
		d.errorf(n, rdlErrors.SuggestMissingField("classes", "[IfcWall]"), "required key %q is missing", "classes")
	}
	if !seen["constraints"] {
		d.errorf(n, rdlErrors.SuggestMissingField("constraints", "[...]"), "required key %q is missing", "constraints")
	}
	return rule
}

func (d *decoder) scalarString(n *yaml.Node, key string) string {
	if n.Kind != yaml.ScalarNode {
		d.errorf(n, "", "%q must be a string", key)
		return ""
	}
	return n.Value
}

func (d *decoder) decodeClasses(n *yaml.Node) []string {
	if n.Kind != yaml.SequenceNode || len(n.Content) == 0 {
		d.errorf(n, "Write classes as a list, e.g. classes: [IfcWall]", "%q must be a non-empty list of type names", "classes")
		return nil
	}
	classes := make([]string, 0, len(n.Content))
	for _, item := range n.Content {
		if item.Kind != yaml.ScalarNode || isNull(item) || item.Value == "" {
			d.errorf(item, "", "class name must be a non-empty string")
			continue
		}
		classes = append(classes, item.Value)
	}
	return classes
}

func (d *decoder) decodeConstraints(n *yaml.Node) []*ast.Component {
	if n.Kind != yaml.SequenceNode {
		d.errorf(n, "", "%q must be a list of constraint components", "constraints")
		return nil
	}
	components := make([]*ast.Component, 0, len(n.Content))
	for _, item := range n.Content {
		if c := d.decodeComponent(item, 1); c != nil {
			components = append(components, c)
		}
	}
	return components
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func nodeKind(n *yaml.Node) string {
	switch n.Kind {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "list"
	case yaml.ScalarNode:
		if isNull(n) {
			return "null"
		}
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "document"
	}
}
