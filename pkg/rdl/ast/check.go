package ast

// CheckKind identifies the predicate of a Check.
type CheckKind string

const (
	CheckEquals CheckKind = "equals" // {equals}
	CheckExists CheckKind = "exists" // {exists}
	CheckIn     CheckKind = "in"     // {in}
	CheckNot    CheckKind = "not"    // {not}
	CheckType   CheckKind = "type"   // {type}
)

// Check is a predicate applied to the single value a constraint path resolves to.
type Check struct {
	Kind      CheckKind
	Value     any    // Expected value (Equals)
	Attribute string // Attribute name (Exists)
	Values    []any  // Allowed values (In)
	Inner     *Check // Negated check (Not)
	Type      string // Expected type tag (Type)
	Location  Location
}

// Depth returns the nesting depth of chained not checks, 1 for a plain check.
func (c *Check) Depth() int {
	if c.Kind == CheckNot && c.Inner != nil {
		return 1 + c.Inner.Depth()
	}
	return 1
}
