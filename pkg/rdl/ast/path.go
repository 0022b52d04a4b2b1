package ast

import "fmt"

// StepKind identifies the path operator of a PathStep.
type StepKind string

const (
	StepAttribute       StepKind = "attribute"        // {attribute}
	StepAttributeFilter StepKind = "attribute_filter" // {attribute, value}
	StepTypeFilter      StepKind = "type_filter"      // {type}
	StepList            StepKind = "list"             // {list}
)

// PathStep is a single navigation step of a constraint path.
type PathStep struct {
	Kind     StepKind
	Name     string // Attribute or list name (Attribute, AttributeFilter, List)
	Value    any    // Expected attribute value (AttributeFilter)
	Type     string // Type tag (TypeFilter)
	Location Location
}

// String renders the step the way it is written in a rule file.
func (s *PathStep) String() string {
	switch s.Kind {
	case StepAttribute:
		return fmt.Sprintf("{attribute: %s}", s.Name)
	case StepAttributeFilter:
		return fmt.Sprintf("{attribute: %s, value: %v}", s.Name, s.Value)
	case StepTypeFilter:
		return fmt.Sprintf("{type: %s}", s.Type)
	case StepList:
		return fmt.Sprintf("{list: %s}", s.Name)
	default:
		return fmt.Sprintf("{%s}", s.Kind)
	}
}

// Path is an ordered sequence of steps. A nil or empty path selects the entity itself.
type Path []*PathStep

// IsEmpty reports whether the path performs no navigation.
func (p Path) IsEmpty() bool {
	return len(p) == 0
}
