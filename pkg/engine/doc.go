// Package engine evaluates rule documents against an entity model.
//
// For every rule, the entities of the rule's classes are gathered in declared
// class order. Each entity is checked against every top-level constraint. A
// leaf constraint walks its path from the entity to exactly one value and
// applies its check; groups combine their children without short-circuiting:
//
//	and, set  VALID iff every child is VALID
//	or        VALID iff at least one child is VALID
//
// An entity is VALID iff all its constraints are VALID, and a rule is VALID
// iff all its entities are, so a rule matching no entity is VALID.
//
// Problems found while evaluating (a missing attribute, a path selecting
// nothing or more than one value, a type check on an untyped value) become
// ERROR results local to the constraint; they never abort sibling
// constraints, other entities or other rules. ERROR is never VALID.
package engine
