package tracing

import "go.opentelemetry.io/otel/attribute"

// Attribute keys of validation spans.
const (
	AttrRuleName      = attribute.Key("ifccheck.rule.name")
	AttrRuleClasses   = attribute.Key("ifccheck.rule.classes")
	AttrRuleStatus    = attribute.Key("ifccheck.rule.status")
	AttrInstanceCount = attribute.Key("ifccheck.rule.instances")
	AttrValidCount    = attribute.Key("ifccheck.rule.valid_instances")
	AttrRunID         = attribute.Key("ifccheck.run.id")
	AttrRuleCount     = attribute.Key("ifccheck.run.rules")
)

// RuleAttributes returns the attributes describing a rule before evaluation.
func RuleAttributes(name string, classes []string) []attribute.KeyValue {
	return []attribute.KeyValue{
		AttrRuleName.String(name),
		AttrRuleClasses.StringSlice(classes),
	}
}

// RuleResultAttributes returns the attributes describing a rule outcome.
func RuleResultAttributes(status string, instances, valid int) []attribute.KeyValue {
	return []attribute.KeyValue{
		AttrRuleStatus.String(status),
		AttrInstanceCount.Int(instances),
		AttrValidCount.Int(valid),
	}
}
