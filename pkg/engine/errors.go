package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig indicates invalid engine configuration.
	ErrInvalidConfig = errors.New("invalid engine configuration")

	// ErrNoModel indicates validation was requested without a model.
	ErrNoModel = errors.New("no model to validate")

	// ErrNoDocument indicates validation was requested without rules.
	ErrNoDocument = errors.New("no rule document")

	// ErrEmptyPosition indicates a path step was applied to an empty sequence.
	ErrEmptyPosition = errors.New("path step applied to an empty selection")

	// ErrPathDeadEnd indicates a path step selected nothing.
	ErrPathDeadEnd = errors.New("On traversing the path definition on the instance ends in nowhere. " +
		"There are none selected values.")

	// ErrMultiplePathResults indicates a path selected more than one value.
	ErrMultiplePathResults = errors.New("Per instance it is only allowed to have one path result")

	// ErrNoPathResult indicates a path selected a value that is not set.
	ErrNoPathResult = errors.New("The path result is not set")

	// ErrUnknownStep indicates a path step kind the resolver does not implement.
	ErrUnknownStep = errors.New("unknown path step")
)

// AttributeMissingError indicates a value selected by a path lacks a required
// attribute or list.
type AttributeMissingError struct {
	Attribute string
	Value     string // Rendered value that lacks the attribute
	List      bool   // True when the attribute was requested as a list
}

// Error returns the error message.
func (e *AttributeMissingError) Error() string {
	if e.List {
		return fmt.Sprintf("list %s does not exist in %s", e.Attribute, e.Value)
	}
	return fmt.Sprintf("attribute %s does not exist in %s", e.Attribute, e.Value)
}

// NotAListError indicates a list step reached an attribute that is not a collection.
type NotAListError struct {
	Attribute string
	Value     string
}

// Error returns the error message.
func (e *NotAListError) Error() string {
	return fmt.Sprintf("attribute %s of %s is not a list", e.Attribute, e.Value)
}

// PathError wraps a traversal failure with the index of the failing step.
type PathError struct {
	Step  int
	Cause error
}

// Error returns the cause's message; the step index is available to callers.
func (e *PathError) Error() string {
	return e.Cause.Error()
}

// Unwrap returns the underlying cause.
func (e *PathError) Unwrap() error {
	return e.Cause
}

// EvaluationError indicates a rule could not be evaluated at all, as opposed
// to evaluating to ERROR.
type EvaluationError struct {
	Rule    string
	Message string
	Cause   error
}

// Error returns the error message.
func (e *EvaluationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Rule, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Rule, e.Message)
}

// Unwrap returns the underlying cause.
func (e *EvaluationError) Unwrap() error {
	return e.Cause
}
